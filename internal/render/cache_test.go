package render

import (
	"sync"
	"testing"
)

func TestNormalizedOptionsShareAPool(t *testing.T) {
	ClearCache()
	defer ClearCache()

	opts := DefaultOptions().WithStyle("notty")
	if _, err := Markdown("a", opts.WithWidth(5)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := Markdown("b", opts.WithWidth(minWidth)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if CacheSize() != 1 {
		t.Errorf("widths below the minimum should share a pool, got %d pools", CacheSize())
	}

	if _, err := Markdown("c", opts.WithWidth(100)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if CacheSize() != 2 {
		t.Errorf("expected 2 pools, got %d", CacheSize())
	}
}

func TestAcquireRelease(t *testing.T) {
	ClearCache()
	defer ClearCache()

	opts := DefaultOptions().WithStyle("notty").normalized()
	r, err := renderers.acquire(opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r == nil {
		t.Fatal("expected non-nil renderer")
	}
	renderers.release(opts, r)

	if _, err := renderers.acquire(opts); err != nil {
		t.Fatalf("unexpected error on reuse: %v", err)
	}
}

func TestConcurrentMarkdown(t *testing.T) {
	ClearCache()
	defer ClearCache()

	opts := DefaultOptions().WithStyle("notty")
	var wg sync.WaitGroup
	errs := make(chan error, 50)

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := Markdown("### Cell structure", opts); err != nil {
				errs <- err
			}
		}()
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent render error: %v", err)
	}
	if CacheSize() != 1 {
		t.Errorf("expected 1 pool after concurrent renders, got %d", CacheSize())
	}
}

func TestNewTermRendererWithInvalidStyle(t *testing.T) {
	if _, err := newTermRenderer(DefaultOptions().WithStyle("invalid_style_path")); err == nil {
		t.Error("expected error for invalid style")
	}
}
