// Package status collects rotation counters that outlive individual loads.
// The watcher goroutine and the frame loop both write, so every value is atomic.
package status

import (
	"fmt"
	"strings"
	"sync/atomic"
)

// Counter and label keys written by the director
const (
	Loads     = "loads"
	Skipped   = "skipped"
	Failures  = "failures"
	Removed   = "removed"
	Catalog   = "catalog"
	Current   = "current"
	Direction = "direction"
)

// Registry is the central counters facade
type Registry struct {
	Ints    *MetricMap[atomic.Int64]
	Strings *MetricMap[AtomicString]
}

// NewRegistry creates an initialized Registry
func NewRegistry() *Registry {
	return &Registry{
		Ints:    NewMetricMap[atomic.Int64](),
		Strings: NewMetricMap[AtomicString](),
	}
}

// Add increments the named counter; a nil registry ignores it
func (r *Registry) Add(key string, delta int64) {
	if r == nil {
		return
	}
	r.Ints.Get(key).Add(delta)
}

// Set stores the named counter; a nil registry ignores it
func (r *Registry) Set(key string, v int64) {
	if r == nil {
		return
	}
	r.Ints.Get(key).Store(v)
}

// Label stores the named label; a nil registry ignores it
func (r *Registry) Label(key, v string) {
	if r == nil {
		return
	}
	r.Strings.Get(key).Store(v)
}

// Int reads a counter, 0 when never written
func (r *Registry) Int(key string) int64 {
	if r == nil {
		return 0
	}
	return r.Ints.Get(key).Load()
}

// String reads a label, empty when never written
func (r *Registry) String(key string) string {
	if r == nil {
		return ""
	}
	return r.Strings.Get(key).Load()
}

// Summary renders every metric as key=value in key order, counters first
func (r *Registry) Summary() string {
	if r == nil {
		return ""
	}
	var parts []string
	r.Ints.Range(func(k string, v *atomic.Int64) {
		parts = append(parts, fmt.Sprintf("%s=%d", k, v.Load()))
	})
	r.Strings.Range(func(k string, v *AtomicString) {
		parts = append(parts, fmt.Sprintf("%s=%q", k, v.Load()))
	})
	return strings.Join(parts, " ")
}
