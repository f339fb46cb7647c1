// Package profiling records nested timing spans and CPU/heap profiles for
// a single command run.
package profiling

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

// Stopper ends a span.
type Stopper interface {
	Stop()
}

type span struct {
	name     string
	start    time.Time
	duration time.Duration
	children []*span
	rec      *Recorder
}

func (s *span) Stop() {
	s.rec.end(s)
}

// Recorder collects spans. Spans nest by start order: a span started while
// another is open becomes its child.
type Recorder struct {
	mu      sync.Mutex
	enabled bool
	root    *span
	stack   []*span
}

var defaultRecorder = &Recorder{}

// Enable starts recording on the default recorder.
func Enable() {
	defaultRecorder.Enable()
}

// Start opens a span on the default recorder. It is a no-op unless Enable ran.
func Start(name string) Stopper {
	return defaultRecorder.Start(name)
}

// Summarize writes the default recorder's span tree to w.
func Summarize(w io.Writer) {
	defaultRecorder.Summarize(w)
}

// Enable starts recording. Calling it again keeps the current spans.
func (r *Recorder) Enable() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.enabled {
		return
	}
	r.enabled = true
	r.root = &span{name: "total", start: time.Now(), rec: r}
	r.stack = []*span{r.root}
}

// Start opens a span named name.
func (r *Recorder) Start(name string) Stopper {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.enabled {
		return noop{}
	}
	parent := r.stack[len(r.stack)-1]
	s := &span{name: name, start: time.Now(), rec: r}
	parent.children = append(parent.children, s)
	r.stack = append(r.stack, s)
	return s
}

func (r *Recorder) end(s *span) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s.duration = time.Since(s.start)
	for i := len(r.stack) - 1; i > 0; i-- {
		if r.stack[i] == s {
			r.stack = r.stack[:i]
			return
		}
	}
}

// Summarize writes every span with its share of the total run time.
func (r *Recorder) Summarize(w io.Writer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.enabled {
		return
	}
	total := time.Since(r.root.start)
	fmt.Fprintf(w, "timing (%v)\n", total.Round(100*time.Microsecond))
	for _, c := range r.root.children {
		printSpan(w, c, 1, total)
	}
}

func printSpan(w io.Writer, s *span, depth int, total time.Duration) {
	pct := 0.0
	if total > 0 {
		pct = float64(s.duration) / float64(total) * 100
	}
	fmt.Fprintf(w, "%s%s %v (%.1f%%)\n", strings.Repeat("  ", depth), s.name, s.duration.Round(100*time.Microsecond), pct)
	for _, c := range s.children {
		printSpan(w, c, depth+1, total)
	}
}

type noop struct{}

func (noop) Stop() {}
