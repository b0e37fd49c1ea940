// Package match provides matcher constructors for use as standin argument
// filters. This package is designed to be dot-imported alongside gomega
// matchers:
//
//	import (
//	    . "github.com/onsi/gomega"
//	    . "github.com/standin-go/standin/match"
//	)
//
//	mock.ExpectCall("Add", Filters(BeAny, BeWithin(1, 9)), 1, responder)
package match

import (
	stdcmp "cmp"

	"github.com/standin-go/standin"
)

// Matcher defines the interface for flexible value matching.
// Compatible with gomega.GomegaMatcher via duck typing - any type
// implementing Match and FailureMessage will work.
type Matcher interface {
	Match(actual any) (success bool, err error)
	FailureMessage(actual any) string
}

// BeAny is a matcher that matches any value.
// Useful when you don't care about a particular argument.
//
//nolint:gochecknoglobals // Intentional exported constant-like value
var BeAny Matcher = standin.Any()

// BeNilValue is a matcher that matches only absent (nil) arguments.
//
//nolint:gochecknoglobals // Intentional exported constant-like value
var BeNilValue Matcher = standin.NilValue()

// BeEq returns a matcher that requires value equality with want.
func BeEq[T any](want T) Matcher {
	return standin.Eq(want)
}

// BeWithin returns a matcher that requires low <= value <= high.
// Only available for totally ordered types.
func BeWithin[T stdcmp.Ordered](low, high T) Matcher {
	return standin.Within(low, high)
}

// BeSome returns a matcher that requires a present (non-nil) value
// matching inner.
func BeSome(inner Matcher) Matcher {
	return standin.Some(inner)
}

// Satisfy returns a matcher that uses a predicate function to check for a
// match. The predicate should return nil if the value matches, or an error
// describing the mismatch if it does not.
//
// Example:
//
//	Satisfy(func(x int) error {
//	    if x < 0 { return fmt.Errorf("expected positive, got %d", x) }
//	    return nil
//	})
func Satisfy[T any](predicate func(T) error) Matcher {
	return standin.Satisfies(predicate)
}

// Filters adapts a list of matchers (including gomega matchers, via duck
// typing) into the filter tuple standin expectation and verification calls
// take.
func Filters(matchers ...Matcher) []standin.Matcher {
	out := make([]standin.Matcher, len(matchers))
	for i, m := range matchers {
		out[i] = m
	}

	return out
}
