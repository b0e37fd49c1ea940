// Package standin is a test-double runtime for Go. Tests register canned
// responses (expectations) against a generated stand-in, every simulated
// call is recorded, and tests assert afterwards on what happened -
// including strict call ordering across multiple stand-ins.
//
// This is the public API entry point. Implementation lives in internal/core.
package standin

import (
	"cmp"
	"context"

	"github.com/standin-go/standin/internal/core"
)

// OperationKey is the stable identity of one callable member of a mocked
// interface.
type OperationKey = core.OperationKey

// TestReporter is the minimal interface standin needs from test frameworks.
type TestReporter = core.TestReporter

// Matcher defines the interface for flexible argument matching.
type Matcher = core.Matcher

// Responder produces the simulated result of one answered call.
type Responder = core.Responder

// Cardinality is a quantifier judging a count of matching calls.
type Cardinality = core.Cardinality

// Mock is one stand-in instance.
type Mock = core.Mock

// Scope is the verification arena shared by every mock in one test.
type Scope = core.Scope

// InOrder is a cursor-based verifier asserting relative call order.
type InOrder = core.InOrder

// InvocationRecord is an immutable log entry for one dispatched call.
type InvocationRecord = core.InvocationRecord

// OrderMode selects strict or non-strict ordered verification.
type OrderMode = core.OrderMode

// Order modes.
const (
	NonStrict = core.NonStrict
	Strict    = core.Strict
)

// Unbounded marks an expectation budget with no use limit.
const Unbounded = core.Unbounded

// NewScope creates a new verification scope reporting through t.
func NewScope(t TestReporter) *Scope {
	return core.NewScope(t)
}

// CurrentScope returns the verification scope for the given test, creating
// one if needed.
func CurrentScope(t TestReporter) *Scope {
	return core.CurrentScope(t)
}

// Any returns a matcher that matches any value.
func Any() Matcher {
	return core.Any()
}

// Eq returns a matcher that requires value equality with want.
func Eq[T any](want T) Matcher {
	return core.Eq(want)
}

// Within returns a matcher that requires low <= value <= high.
// Only available for totally ordered types.
func Within[T cmp.Ordered](low, high T) Matcher {
	return core.Within(low, high)
}

// Satisfies returns a matcher that uses a predicate function to check for
// a match.
func Satisfies[T any](predicate func(T) error) Matcher {
	return core.Satisfies(predicate)
}

// NilValue returns a matcher that matches only absent arguments.
func NilValue() Matcher {
	return core.NilValue()
}

// Some returns a matcher that requires a present argument matching inner.
func Some(inner Matcher) Matcher {
	return core.Some(inner)
}

// MatchValue checks if actual matches expected.
func MatchValue(actual, expected any) (bool, string) {
	return core.MatchValue(actual, expected)
}

// ReturnValues creates a Responder that answers with fixed values.
func ReturnValues(values ...any) Responder {
	return core.ReturnValues(values...)
}

// ReturnError creates a Responder that answers with a fixed error.
func ReturnError(err error) Responder {
	return core.ReturnError(err)
}

// InvokeFn creates a Responder that computes its values synchronously from
// the actual arguments.
func InvokeFn(fn func(args []any) []any) Responder {
	return core.InvokeFn(fn)
}

// InvokeCtx creates a Responder backed by a context-aware function.
func InvokeCtx(fn func(ctx context.Context, args []any) ([]any, error)) Responder {
	return core.InvokeCtx(fn)
}

// Delegate creates a Responder that forwards the call to an externally
// supplied function value.
func Delegate(fn any) Responder {
	return core.Delegate(fn)
}

// Exactly expects the count to equal n.
func Exactly(n int) Cardinality {
	return core.Exactly(n)
}

// AtLeast expects the count to be n or more.
func AtLeast(n int) Cardinality {
	return core.AtLeast(n)
}

// AtMost expects the count to be n or fewer.
func AtMost(n int) Cardinality {
	return core.AtMost(n)
}

// Between expects lo <= count <= hi.
func Between(lo, hi int) Cardinality {
	return core.Between(lo, hi)
}

// Never expects the count to be zero.
func Never() Cardinality {
	return core.Never()
}

// AtLeastOnce expects the count to be one or more.
func AtLeastOnce() Cardinality {
	return core.AtLeastOnce()
}
