// Package aitime extracts time windows from free-text scheduling requests.
// Everything in this package is pure: no clock, no I/O, no shared state.
package aitime

// Resolver produces a candidate time window from a user utterance.
// A resolver that cannot decide returns ok=false; it never errors.
type Resolver interface {
	Resolve(text string) (TimeWindow, bool)
}

// ResolverFunc adapts a plain function to Resolver.
type ResolverFunc func(text string) (TimeWindow, bool)

// Resolve calls f(text).
func (f ResolverFunc) Resolve(text string) (TimeWindow, bool) {
	return f(text)
}

// Chain evaluates resolvers in order and returns the first hit.
type Chain []Resolver

// Resolve returns the window of the first resolver that found one.
func (c Chain) Resolve(text string) (TimeWindow, bool) {
	for _, r := range c {
		if w, ok := r.Resolve(text); ok {
			return w, true
		}
	}
	return TimeWindow{}, false
}

// Fixed returns a resolver that always yields w.
// It is meant as the last link of a Chain.
func Fixed(w TimeWindow) Resolver {
	return ResolverFunc(func(string) (TimeWindow, bool) {
		return w, true
	})
}

// Default resolvers, in the order the schedule assembler consults them.
var (
	// Extractor runs the regex cascade over the utterance.
	Extractor Resolver = ResolverFunc(ExtractWindow)
	// Keywords maps coarse day-part words to a default window.
	Keywords Resolver = ResolverFunc(KeywordWindow)
)
