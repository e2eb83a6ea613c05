package render

import (
	"sync"

	"github.com/charmbracelet/glamour"
)

// rendererPool lends glamour renderers out, one sync.Pool per Options.
// A TermRenderer must not be used by two goroutines at once.
type rendererPool struct {
	mu    sync.RWMutex
	pools map[Options]*sync.Pool
}

var globalPool = newRendererPool()

func newRendererPool() *rendererPool {
	return &rendererPool{pools: make(map[Options]*sync.Pool)}
}

func (p *rendererPool) pool(opts Options) *sync.Pool {
	p.mu.RLock()
	pool, ok := p.pools[opts]
	p.mu.RUnlock()
	if ok {
		return pool
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if pool, ok := p.pools[opts]; ok {
		return pool
	}
	pool = &sync.Pool{
		New: func() any {
			r, err := newTermRenderer(opts)
			if err != nil {
				return nil
			}
			return r
		},
	}
	p.pools[opts] = pool
	return pool
}

// render renders content with a renderer borrowed for opts. A style that
// cannot be loaded is reported on every call, never cached.
func (p *rendererPool) render(content string, opts Options) (string, error) {
	pool := p.pool(opts)
	r, _ := pool.Get().(*glamour.TermRenderer)
	if r == nil {
		var err error
		if r, err = newTermRenderer(opts); err != nil {
			return "", err
		}
	}
	defer pool.Put(r)
	return r.Render(content)
}

func (p *rendererPool) size() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.pools)
}

func (p *rendererPool) reset() {
	p.mu.Lock()
	p.pools = make(map[Options]*sync.Pool)
	p.mu.Unlock()
}

// newTermRenderer builds a renderer for opts. A style that is not a
// standard glamour style is loaded as a file.
func newTermRenderer(opts Options) (*glamour.TermRenderer, error) {
	width := opts.Width
	if width <= 0 {
		width = defaultWidth
	}

	style := glamour.WithStandardStyle(StyleDark)
	switch {
	case IsBuiltinStyle(opts.Style):
		style = glamour.WithStandardStyle(opts.Style)
	case opts.Style != "":
		style = glamour.WithStylePath(opts.Style)
	}

	rendererOpts := []glamour.TermRendererOption{style, glamour.WithWordWrap(width)}
	if opts.Emoji {
		rendererOpts = append(rendererOpts, glamour.WithEmoji())
	}
	if opts.LineBreaks {
		rendererOpts = append(rendererOpts, glamour.WithPreservedNewLines())
	}
	return glamour.NewTermRenderer(rendererOpts...)
}
