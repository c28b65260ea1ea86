package engine

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Stats tracks per-invocation-method counters, exposed both as a plain
// snapshot map (the `get_stats()` shape spec.md §4.8 calls for) and as
// Prometheus counters on a dedicated registry, the way the teacher exposes
// metrics/metrics.go's Registry instead of the Go client's default one.
type Stats struct {
	mu     sync.Mutex
	counts map[string]int64
	total  int64

	vec *prometheus.CounterVec
}

// Registry is this module's dedicated Prometheus registry (spec.md §4.8
// "Statistics", wired per SPEC_FULL.md's domain stack table). No HTTP
// server is started for it — serving /metrics is out of scope.
var Registry = prometheus.NewRegistry()

var (
	invocationsOnce sync.Once
	invocationsVec  *prometheus.CounterVec
)

func newStats() *Stats {
	invocationsOnce.Do(func() {
		invocationsVec = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bashtool",
			Subsystem: "engine",
			Name:      "invocations_total",
			Help:      "Number of subprocess invocations per execution method.",
		}, []string{"method"})
		Registry.MustRegister(invocationsVec)
	})
	return &Stats{counts: make(map[string]int64), vec: invocationsVec}
}

func (s *Stats) record(method string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counts[method]++
	s.total++
	s.vec.WithLabelValues(method).Inc()
}

func (s *Stats) snapshot() map[string]int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]int64, len(s.counts)+1)
	for k, v := range s.counts {
		out[k] = v
	}
	out["total"] = s.total
	return out
}
