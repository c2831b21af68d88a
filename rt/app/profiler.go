package app

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

const defaultProfileWindow = 60

type scopeTimes struct {
	start   time.Time
	open    bool
	last    time.Duration
	samples []time.Duration
	next    int
}

func (s *scopeTimes) add(d time.Duration, window int) {
	s.last = d
	if len(s.samples) < window {
		s.samples = append(s.samples, d)
		return
	}
	s.samples[s.next] = d
	s.next = (s.next + 1) % window
}

// Profiler times named scopes over a rolling window of frames and keeps a
// set of counters. It is only read in debug mode.
type Profiler struct {
	Window int

	scopes map[string]*scopeTimes
	order  []string
	counts map[string]int
	now    func() time.Time
}

func NewProfiler() *Profiler {
	return &Profiler{
		Window: defaultProfileWindow,
		scopes: make(map[string]*scopeTimes),
		counts: make(map[string]int),
		now:    time.Now,
	}
}

func (p *Profiler) scope(name string) *scopeTimes {
	s, ok := p.scopes[name]
	if !ok {
		s = &scopeTimes{}
		p.scopes[name] = s
		p.order = append(p.order, name)
	}
	return s
}

func (p *Profiler) BeginScope(name string) {
	s := p.scope(name)
	s.start = p.now()
	s.open = true
}

// EndScope records the time since the matching BeginScope. Unmatched calls
// are ignored.
func (p *Profiler) EndScope(name string) {
	s, ok := p.scopes[name]
	if !ok || !s.open {
		return
	}
	s.open = false
	window := p.Window
	if window <= 0 {
		window = 1
	}
	s.add(p.now().Sub(s.start), window)
}

// Measure runs fn inside a scope.
func (p *Profiler) Measure(name string, fn func()) {
	p.BeginScope(name)
	defer p.EndScope(name)
	fn()
}

// Open reports whether name has a BeginScope without its EndScope.
func (p *Profiler) Open(name string) bool {
	s, ok := p.scopes[name]
	return ok && s.open
}

func (p *Profiler) Last(name string) time.Duration {
	if s, ok := p.scopes[name]; ok {
		return s.last
	}
	return 0
}

// Average is the mean over the samples currently in the window.
func (p *Profiler) Average(name string) time.Duration {
	s, ok := p.scopes[name]
	if !ok || len(s.samples) == 0 {
		return 0
	}
	var total time.Duration
	for _, d := range s.samples {
		total += d
	}
	return total / time.Duration(len(s.samples))
}

func (p *Profiler) SetCount(name string, count int) {
	p.counts[name] = count
}

func (p *Profiler) Count(name string) int { return p.counts[name] }

// Reset drops all samples. Scope order and counters are kept.
func (p *Profiler) Reset() {
	for _, s := range p.scopes {
		*s = scopeTimes{}
	}
}

func ms(d time.Duration) float64 { return float64(d.Microseconds()) / 1000.0 }

// Report formats the last and averaged scope times in first-seen order,
// then the counters sorted by name.
func (p *Profiler) Report() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%-12s %9s %9s\n", "scope", "last ms", "avg ms")
	for _, name := range p.order {
		fmt.Fprintf(&sb, "%-12s %9.2f %9.2f\n", name, ms(p.Last(name)), ms(p.Average(name)))
	}

	names := make([]string, 0, len(p.counts))
	for k := range p.counts {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		fmt.Fprintf(&sb, "%-12s %9d\n", k, p.counts[k])
	}
	return sb.String()
}
