package core

import (
	"fmt"
	"strings"
)

// OrderMode selects how an InOrder verifier treats interactions between
// verified steps: NonStrict skips over them, Strict fails on them.
type OrderMode int

const (
	// NonStrict permits unverified interactions between verified steps.
	NonStrict OrderMode = iota
	// Strict fails on any interaction between the cursor and the next
	// verified step.
	Strict
)

// InOrder is a cursor-based verifier asserting that calls occurred in a
// specific relative sequence, optionally across several mocks. It walks
// the scope-global sequence restricted to its member mocks, merged by
// sequence number.
type InOrder struct {
	t       TestReporter
	scope   *Scope
	mode    OrderMode
	members map[*Mock]bool
	cursor  int
}

// InOrder creates an ordered verifier over the given member mocks.
// Passing a mock that belongs to a different scope is a fatal usage error.
func (s *Scope) InOrder(mode OrderMode, mocks ...*Mock) *InOrder {
	s.t.Helper()

	members := make(map[*Mock]bool, len(mocks))

	for _, mock := range mocks {
		if mock.scope != s {
			s.t.Fatalf("mock %q belongs to a different scope", mock.name)

			return nil
		}

		members[mock] = true
	}

	return &InOrder{
		t:       s.t,
		scope:   s,
		mode:    mode,
		members: members,
	}
}

// Verify advances the cursor over the next step of the expected sequence:
// calls to op on mock whose arguments match the filter, quantified by the
// cardinality.
//
// For cardinalities requiring at least one match, the verifier scans
// forward for the first matching record - skipping non-matching records in
// NonStrict mode, failing on them in Strict mode - then consumes the
// contiguous run of matching records greedily, capped by the upper bound
// if one exists. Fewer contiguous matches than the minimum is a failure.
// Hitting the upper bound mid-run is not: consumption stops at the cap and
// the remainder is left for the next step.
//
// For zero-minimum cardinalities (AtMost, Never) no match is required: up
// to the bound of immediately-following matching records are consumed, and
// for Never a matching record at the cursor is a failure.
//
// On success the cursor moves strictly forward past every record examined,
// matching or skipped. On failure the cursor stays put, so later steps are
// judged independently. Failures accumulate through Errorf.
//
// Verifying a mock that is not part of this verifier's construction set is
// a fatal usage error.
func (o *InOrder) Verify(mock *Mock, op OperationKey, matchers []Matcher, card Cardinality) bool {
	o.t.Helper()

	if !o.members[mock] {
		o.t.Fatalf("mock %q is not part of this InOrder verifier", mock.name)

		return false
	}

	seq := o.scope.mergedFor(o.members)
	desc := fmt.Sprintf("%s.%s", mock.name, DescribeCall(op, matchers))

	matches := func(rec *InvocationRecord) bool {
		if rec.Mock != mock || rec.Operation != op {
			return false
		}

		ok, _ := MatchArgs(matchers, rec.Args)

		return ok
	}

	if card.min == 0 {
		return o.verifyOptional(seq, matches, card, desc)
	}

	return o.verifyRequired(seq, matches, card, desc)
}

// verifyRequired handles steps whose cardinality demands at least one
// matching call.
func (o *InOrder) verifyRequired(
	seq []*InvocationRecord,
	matches func(*InvocationRecord) bool,
	card Cardinality,
	desc string,
) bool {
	o.t.Helper()

	pos := o.cursor

	// Find the first match. Records before it are skipped in NonStrict
	// mode and fatal to the step in Strict mode.
	for pos < len(seq) && !matches(seq[pos]) {
		if o.mode == Strict {
			o.t.Errorf(
				"no unverified interactions expected before this call: expected %s, but found %s",
				desc, renderRecord(seq[pos]),
			)

			return false
		}

		pos++
	}

	if pos == len(seq) {
		o.t.Errorf("in order: %s", card.failureMessage(desc, 0))

		return false
	}

	// Consume the contiguous run, greedily, up to the cap if any.
	consumed := 0
	for pos < len(seq) && matches(seq[pos]) && (card.max < 0 || consumed < card.max) {
		pos++
		consumed++
	}

	if consumed < card.min {
		o.t.Errorf("in order: %s", card.failureMessage(desc, consumed))

		return false
	}

	o.cursor = pos

	return true
}

// verifyOptional handles zero-minimum steps (AtMost, Never): no match is
// required, up to the bound of immediately-following matching records are
// consumed, and the cursor does not move past non-matching records.
func (o *InOrder) verifyOptional(
	seq []*InvocationRecord,
	matches func(*InvocationRecord) bool,
	card Cardinality,
	desc string,
) bool {
	o.t.Helper()

	if card.max == 0 {
		if o.cursor < len(seq) && matches(seq[o.cursor]) {
			o.t.Errorf(
				"Expected %s to never be called at this point, but found %s",
				desc, renderRecord(seq[o.cursor]),
			)

			return false
		}

		return true
	}

	pos := o.cursor

	consumed := 0
	for pos < len(seq) && matches(seq[pos]) && (card.max < 0 || consumed < card.max) {
		pos++
		consumed++
	}

	o.cursor = pos

	return true
}

// VerifyNoMoreInteractions fails if any member-mock records remain beyond
// the cursor. Records skipped over during NonStrict scans sit before the
// cursor and are forgiven; everything after it was never examined by any
// step.
func (o *InOrder) VerifyNoMoreInteractions() bool {
	o.t.Helper()

	seq := o.scope.mergedFor(o.members)
	if o.cursor >= len(seq) {
		return true
	}

	remaining := seq[o.cursor:]

	rendered := make([]string, len(remaining))
	for i, rec := range remaining {
		rendered[i] = "  " + renderRecord(rec)
	}

	o.t.Errorf(
		"Expected no more interactions, but found %d unverified:\n%s",
		len(remaining), strings.Join(rendered, "\n"),
	)

	return false
}

// renderRecord formats one invocation record for messages.
func renderRecord(rec *InvocationRecord) string {
	return fmt.Sprintf("%s.%s", rec.Mock.name, renderCall(rec.Operation, rec.Args))
}
