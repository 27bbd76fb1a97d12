package ledger

import "sync"

// Loader memoizes one load cycle. Loading is idempotent for unchanged
// input files; the caller decides when the cache is stale and calls
// Invalidate. No state is kept anywhere else between loads.
type Loader struct {
	svc *Service
	dir string

	mu     sync.Mutex
	cached *Result
}

// NewLoader wraps a Service with per-directory memoization.
func NewLoader(svc *Service, dir string) *Loader {
	return &Loader{svc: svc, dir: dir}
}

// Load returns the cached result, building it on first use. Failed loads
// are not cached.
func (l *Loader) Load() (*Result, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.cached != nil {
		return l.cached, nil
	}
	res, err := l.svc.Load(l.dir)
	if err != nil {
		return nil, err
	}
	l.cached = res
	return res, nil
}

// Invalidate drops the cached result so the next Load rereads the
// directory.
func (l *Loader) Invalidate() {
	l.mu.Lock()
	l.cached = nil
	l.mu.Unlock()
}
