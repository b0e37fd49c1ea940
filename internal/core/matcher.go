package core

import (
	stdcmp "cmp"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/google/go-cmp/cmp"
)

// errTypeMismatch is a sentinel error for type assertion failures.
var errTypeMismatch = errors.New("type mismatch")

// Matcher defines the interface for flexible argument matching.
// Compatible with gomega.GomegaMatcher via duck typing - any type
// implementing Match and FailureMessage will work as an argument filter.
type Matcher interface {
	Match(actual any) (success bool, err error)
	FailureMessage(actual any) string
}

// describer is implemented by matchers that can render themselves for
// diagnostics. Matchers without it (gomega matchers, predicates) render
// as "custom".
type describer interface {
	Description() string
}

// Describe returns the diagnostic token for a matcher.
func Describe(m Matcher) string {
	if d, ok := m.(describer); ok {
		return d.Description()
	}

	return "custom"
}

// MatchValue checks if actual matches expected.
// If expected implements the Matcher interface, uses its Match method.
// Otherwise, compares for equality with go-cmp.
// Returns (success, errorMessage). If success is true, errorMessage is empty.
func MatchValue(actual, expected any) (bool, string) {
	// Check if expected is a Matcher
	if matcher, ok := expected.(Matcher); ok {
		success, err := matcher.Match(actual)
		if err != nil {
			return false, err.Error()
		}

		if !success {
			return false, matcher.FailureMessage(actual)
		}

		return true, ""
	}

	// Fall back to equality for non-matchers
	if valuesEqual(actual, expected) {
		return true, ""
	}

	return false, fmt.Sprintf("expected %v, got %v", expected, actual)
}

// MatchArgs applies one matcher per argument position and requires every
// position to match. A nil matcher list is a wildcard that accepts any
// argument tuple. An arity mismatch is a non-match, not an error.
// Returns (success, errorMessage). If success is true, errorMessage is empty.
func MatchArgs(matchers []Matcher, args []any) (bool, string) {
	if matchers == nil {
		return true, ""
	}

	if len(matchers) != len(args) {
		return false, fmt.Sprintf("expected %d args, got %d", len(matchers), len(args))
	}

	for index, m := range matchers {
		success, err := m.Match(args[index])
		if err != nil {
			return false, fmt.Sprintf("arg %d: %s", index, err.Error())
		}

		if !success {
			msg := m.FailureMessage(args[index])
			if msg == "" {
				msg = fmt.Sprintf("matcher failed for value %#v", args[index])
			}

			return false, fmt.Sprintf("arg %d: %s", index, msg)
		}
	}

	return true, ""
}

// DescribeCall renders an operation plus its matcher tuple for diagnostics,
// e.g. `Get(any, 1..5)`. A nil matcher list renders as a bare wildcard.
func DescribeCall(op OperationKey, matchers []Matcher) string {
	if matchers == nil {
		return string(op) + "(...)"
	}

	tokens := make([]string, len(matchers))
	for i, m := range matchers {
		tokens[i] = Describe(m)
	}

	return string(op) + "(" + strings.Join(tokens, ", ") + ")"
}

// Any returns a matcher that matches any value.
// Available for every argument type, including types with no equality
// or ordering support at all.
func Any() Matcher {
	return anyMatcher{}
}

// anyMatcher is the implementation of the Any() matcher.
type anyMatcher struct{}

// Match always returns true - matches any value.
func (anyMatcher) Match(any) (bool, error) {
	return true, nil
}

// FailureMessage returns an empty string since Any() always matches.
func (anyMatcher) FailureMessage(any) string {
	return ""
}

func (anyMatcher) Description() string {
	return "any"
}

// Eq returns a matcher that requires value equality with want, compared
// with go-cmp. Available for any type go-cmp can walk; unexported fields
// are compared too.
func Eq[T any](want T) Matcher {
	return eqMatcher{want: want}
}

type eqMatcher struct {
	want any
}

func (m eqMatcher) Match(actual any) (bool, error) {
	return valuesEqual(actual, m.want), nil
}

func (m eqMatcher) FailureMessage(actual any) string {
	return fmt.Sprintf("expected %v, got %v (diff: %s)", m.want, actual, valuesDiff(m.want, actual))
}

func (m eqMatcher) Description() string {
	return fmt.Sprintf("%v", m.want)
}

// Within returns a matcher that requires low <= value <= high.
// Only available for totally ordered types, enforced by the constraint.
func Within[T stdcmp.Ordered](low, high T) Matcher {
	return withinMatcher[T]{low: low, high: high}
}

type withinMatcher[T stdcmp.Ordered] struct {
	low  T
	high T
}

func (m withinMatcher[T]) Match(actual any) (bool, error) {
	val, ok := actual.(T)
	if !ok {
		return false, fmt.Errorf("%w: expected %T, got %T", errTypeMismatch, *new(T), actual)
	}

	return m.low <= val && val <= m.high, nil
}

func (m withinMatcher[T]) FailureMessage(actual any) string {
	return fmt.Sprintf("value %v is not within %v..%v", actual, m.low, m.high)
}

func (m withinMatcher[T]) Description() string {
	return fmt.Sprintf("%v..%v", m.low, m.high)
}

// Satisfies returns a matcher that uses a predicate function to check for a
// match. The predicate should return nil if the value matches, or an error
// describing the mismatch if it does not.
func Satisfies[T any](predicate func(T) error) Matcher {
	return &satisfiesMatcher[T]{predicate: predicate}
}

type satisfiesMatcher[T any] struct {
	predicate func(T) error
	lastErr   error
}

func (m *satisfiesMatcher[T]) Match(actual any) (bool, error) {
	val, ok := actual.(T)

	if !ok {
		return false, fmt.Errorf("%w: expected %T, got %T", errTypeMismatch, *new(T), actual)
	}

	m.lastErr = m.predicate(val)

	return m.lastErr == nil, nil
}

func (m *satisfiesMatcher[T]) FailureMessage(actual any) string {
	if m.lastErr != nil {
		return fmt.Sprintf("value %v does not satisfy predicate: %v", actual, m.lastErr)
	}

	return fmt.Sprintf("value %v does not satisfy predicate", actual)
}

func (m *satisfiesMatcher[T]) Description() string {
	return "custom"
}

// NilValue returns a matcher that matches only absent arguments: untyped
// nil, or a typed nil pointer, interface, map, slice, chan, or func.
// Together with Some it forms the optional-argument matcher pair.
func NilValue() Matcher {
	return nilMatcher{}
}

type nilMatcher struct{}

func (nilMatcher) Match(actual any) (bool, error) {
	return isNilValue(actual), nil
}

func (nilMatcher) FailureMessage(actual any) string {
	return fmt.Sprintf("expected nil, got %#v", actual)
}

func (nilMatcher) Description() string {
	return "nil"
}

// Some returns a matcher that requires a present (non-nil) argument and
// applies inner to it. An absent argument never matches, even against an
// inner Any().
func Some(inner Matcher) Matcher {
	return someMatcher{inner: inner}
}

type someMatcher struct {
	inner Matcher
}

func (m someMatcher) Match(actual any) (bool, error) {
	if isNilValue(actual) {
		return false, nil
	}

	return m.inner.Match(actual)
}

func (m someMatcher) FailureMessage(actual any) string {
	if isNilValue(actual) {
		return "expected a present value, got nil"
	}

	return m.inner.FailureMessage(actual)
}

func (m someMatcher) Description() string {
	return "some(" + Describe(m.inner) + ")"
}

// isNilValue reports whether actual is nil in any of the kinds that
// support nil.
func isNilValue(actual any) bool {
	if actual == nil {
		return true
	}

	val := reflect.ValueOf(actual)
	switch val.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func:
		return val.IsNil()
	default:
		return false
	}
}

// valuesEqual checks if two values are equal using go-cmp.
// Unexported fields are allowed so arbitrary argument values compare
// without panicking.
func valuesEqual(a, b any) bool {
	return cmp.Equal(a, b, allowAllUnexported)
}

// valuesDiff renders a go-cmp diff between two values for diagnostics.
func valuesDiff(want, got any) string {
	return cmp.Diff(want, got, allowAllUnexported)
}

//nolint:gochecknoglobals // cmp option shared by every comparison
var allowAllUnexported = cmp.Exporter(func(reflect.Type) bool { return true })
