package panel

import (
	"sync"

	"github.com/grovetools/scaffolder/pkg/bridge"
)

// Session is one open panel together with its own router and cleanup list.
type Session struct {
	Key    string
	Title  string
	Panel  Panel
	Router *bridge.Router

	mu          sync.Mutex
	disposables []Disposable
	disposeOnce sync.Once
}

// onceDisposable runs the wrapped Dispose at most once.
type onceDisposable struct {
	once sync.Once
	d    Disposable
}

func (o *onceDisposable) Dispose() {
	o.once.Do(o.d.Dispose)
}

// Track adds d to the session's cleanup list. The returned Disposable may be
// disposed early; session teardown will not run it again.
func (s *Session) Track(d Disposable) Disposable {
	wrapped := &onceDisposable{d: d}
	s.mu.Lock()
	s.disposables = append(s.disposables, wrapped)
	s.mu.Unlock()
	return wrapped
}

// dispose releases the panel and then runs every tracked cleanup in reverse
// registration order.
func (s *Session) dispose() {
	s.disposeOnce.Do(func() {
		s.Panel.Dispose()

		s.mu.Lock()
		disposables := s.disposables
		s.disposables = nil
		s.mu.Unlock()

		for i := len(disposables) - 1; i >= 0; i-- {
			disposables[i].Dispose()
		}
	})
}
