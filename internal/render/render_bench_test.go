package render

import "testing"

var benchmarkContent = "### Metals and Non-metals\n\n" +
	"**Metals** are *malleable* and conduct heat. Use `ρ = m/V` for density.\n\n" +
	"```\n" +
	"2Na + Cl2 -> 2NaCl\n" +
	"```\n\n" +
	"- Lustre\n" +
	"- Ductility\n" +
	"  - Sonority\n" +
	"<script>alert('x')</script> & \"quotes\"\n"

func BenchmarkHTML(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = HTML(benchmarkContent)
	}
}

func BenchmarkMarkdownNoCache(b *testing.B) {
	opts := DefaultOptions().WithStyle("notty")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ClearCache()
		if _, err := Markdown(benchmarkContent, opts); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkMarkdownWithCache(b *testing.B) {
	opts := DefaultOptions().WithStyle("notty")
	ClearCache()
	if _, err := Markdown(benchmarkContent, opts); err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Markdown(benchmarkContent, opts); err != nil {
			b.Fatal(err)
		}
	}
}
