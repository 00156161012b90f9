package render

import (
	"sync"

	"github.com/charmbracelet/glamour"
)

// termPools holds one sync.Pool of glamour renderers per normalized Options.
// A TermRenderer must not serve two Render calls at once.
type termPools struct {
	pools sync.Map // Options -> *sync.Pool
}

var renderers termPools

func (p *termPools) pool(opts Options) *sync.Pool {
	if v, ok := p.pools.Load(opts); ok {
		return v.(*sync.Pool)
	}
	v, _ := p.pools.LoadOrStore(opts, new(sync.Pool))
	return v.(*sync.Pool)
}

// acquire takes a pooled renderer or builds one. Construction errors, such
// as an unknown style path, are returned every time.
func (p *termPools) acquire(opts Options) (*glamour.TermRenderer, error) {
	if r, ok := p.pool(opts).Get().(*glamour.TermRenderer); ok {
		return r, nil
	}
	return newTermRenderer(opts)
}

func (p *termPools) release(opts Options, r *glamour.TermRenderer) {
	p.pool(opts).Put(r)
}

func (p *termPools) len() int {
	n := 0
	p.pools.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

func (p *termPools) reset() {
	p.pools.Range(func(k, _ any) bool {
		p.pools.Delete(k)
		return true
	})
}

func newTermRenderer(opts Options) (*glamour.TermRenderer, error) {
	ropts := []glamour.TermRendererOption{
		glamour.WithStylePath(opts.Style),
		glamour.WithWordWrap(opts.Width),
	}
	if opts.EnableEmoji {
		ropts = append(ropts, glamour.WithEmoji())
	}
	if opts.PreserveNewLines {
		ropts = append(ropts, glamour.WithPreservedNewLines())
	}
	return glamour.NewTermRenderer(ropts...)
}

// ClearCache drops all pooled renderers.
func ClearCache() {
	renderers.reset()
}

// CacheSize returns the number of distinct option sets with a pool.
func CacheSize() int {
	return renderers.len()
}
