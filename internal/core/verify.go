package core

import (
	"fmt"
)

// cardinalityKind tags the Cardinality variants.
type cardinalityKind int

const (
	cardExactly cardinalityKind = iota
	cardAtLeast
	cardAtMost
	cardBetween
	cardNever
	cardAtLeastOnce
)

// Cardinality is a quantifier judging a count of matching calls.
type Cardinality struct {
	kind cardinalityKind
	min  int
	max  int // -1 means no upper bound
}

// Exactly expects the count to equal n.
func Exactly(n int) Cardinality {
	return Cardinality{kind: cardExactly, min: n, max: n}
}

// AtLeast expects the count to be n or more.
func AtLeast(n int) Cardinality {
	return Cardinality{kind: cardAtLeast, min: n, max: -1}
}

// AtMost expects the count to be n or fewer.
func AtMost(n int) Cardinality {
	return Cardinality{kind: cardAtMost, min: 0, max: n}
}

// Between expects lo <= count <= hi.
func Between(lo, hi int) Cardinality {
	return Cardinality{kind: cardBetween, min: lo, max: hi}
}

// Never expects the count to be zero.
func Never() Cardinality {
	return Cardinality{kind: cardNever, min: 0, max: 0}
}

// AtLeastOnce expects the count to be one or more.
func AtLeastOnce() Cardinality {
	return Cardinality{kind: cardAtLeastOnce, min: 1, max: -1}
}

// satisfied reports whether a count of n matching calls meets the
// cardinality.
func (c Cardinality) satisfied(n int) bool {
	return n >= c.min && (c.max < 0 || n <= c.max)
}

// failureMessage renders the fixed per-kind template for a failed check.
// desc is the rendered call, e.g. "Get(any)".
func (c Cardinality) failureMessage(desc string, n int) string {
	switch c.kind {
	case cardExactly:
		return fmt.Sprintf(
			"Expected %s to be called exactly %s, but was called %s", desc, times(c.min), times(n),
		)
	case cardAtLeast:
		return fmt.Sprintf(
			"Expected %s to be called at least %s, but was called %s", desc, times(c.min), times(n),
		)
	case cardAtMost:
		return fmt.Sprintf(
			"Expected %s to be called at most %s, but was called %s", desc, times(c.max), times(n),
		)
	case cardBetween:
		return fmt.Sprintf(
			"Expected %s to be called between %d and %d times, but was called %s",
			desc, c.min, c.max, times(n),
		)
	case cardNever:
		return fmt.Sprintf(
			"Expected %s to never be called, but was called %s", desc, times(n),
		)
	case cardAtLeastOnce:
		return fmt.Sprintf(
			"Expected %s to be called at least once, but was never called", desc,
		)
	default:
		panic(fmt.Sprintf("standin: unknown cardinality kind %d", c.kind))
	}
}

// times renders a grammatically correct count phrase: "1 time", "2 times".
func times(n int) string {
	if n == 1 {
		return "1 time"
	}

	return fmt.Sprintf("%d times", n)
}

// Count returns the number of recorded invocations of op on this mock
// whose arguments match the filter. A nil filter counts every call.
func (m *Mock) Count(op OperationKey, matchers []Matcher) int {
	count := 0

	for _, rec := range m.scope.recordsFor(m, op) {
		if ok, _ := MatchArgs(matchers, rec.Args); ok {
			count++
		}
	}

	return count
}

// Verify checks the number of recorded invocations of op whose arguments
// match the filter against the cardinality. A mismatch is reported through
// Errorf as an accumulating assertion failure, never a fatal one, so a
// test can register several independent verification failures. Returns the
// matching argument tuples for inspection and whether the check passed.
func (m *Mock) Verify(op OperationKey, matchers []Matcher, card Cardinality) ([][]any, bool) {
	m.t.Helper()

	var matched [][]any

	for _, rec := range m.scope.recordsFor(m, op) {
		if ok, _ := MatchArgs(matchers, rec.Args); ok {
			matched = append(matched, rec.Args)
		}
	}

	if !card.satisfied(len(matched)) {
		m.t.Errorf("%s", card.failureMessage(DescribeCall(op, matchers), len(matched)))

		return matched, false
	}

	return matched, true
}

// VerifyNoInteractions reports a verification failure if any call was ever
// recorded against this mock. Returns true if the mock was never called.
func (m *Mock) VerifyNoInteractions() bool {
	m.t.Helper()

	n := m.scope.interactionCount(m)
	if n > 0 {
		m.t.Errorf(
			"Expected no interactions with mock %q, but it was called %s", m.name, times(n),
		)

		return false
	}

	return true
}
