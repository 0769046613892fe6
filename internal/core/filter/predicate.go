package filter

import "github.com/penwyp/go-vessel-trail/internal/core/model"

// Predicate decides whether a sample passes the current criteria.
// Evaluating criteria against samples belongs to the data backend.
type Predicate func(model.Sample) bool

// AcceptAll keeps every sample.
func AcceptAll(model.Sample) bool { return true }

// Apply returns the samples accepted by p, in order. A nil p accepts all.
func Apply(samples []model.Sample, p Predicate) []model.Sample {
	out := make([]model.Sample, 0, len(samples))
	for _, s := range samples {
		if p == nil || p(s) {
			out = append(out, s)
		}
	}
	return out
}
