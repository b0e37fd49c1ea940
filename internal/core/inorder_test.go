package core_test

import (
	"context"
	"strings"
	"testing"

	"github.com/standin-go/standin/internal/core"
)

// orderedFixture builds a scope with one permissive mock and dispatches
// the given (op, arg) sequence against it.
func orderedFixture(
	t *testing.T,
	reporter *recordingReporter,
	calls ...[2]any,
) (*core.Scope, *core.Mock) {
	t.Helper()

	scope := core.NewScope(reporter)
	mock := scope.NewMock("service")

	ops := map[core.OperationKey]bool{}
	for _, c := range calls {
		ops[core.OperationKey(c[0].(string))] = true
	}

	for op := range ops {
		mock.ExpectCall(op, nil, core.Unbounded, core.ReturnValues(nil))
	}

	for _, c := range calls {
		op := core.OperationKey(c[0].(string))
		if _, err := mock.Dispatch(context.Background(), op, c[1]); err != nil {
			t.Fatalf("Dispatch(%s) failed: %v", op, err)
		}
	}

	return scope, mock
}

// TestInOrder_Strict_ExactSequencePasses proves strict verification of
// exactly the recorded sequence, with no extra calls, passes and leaves
// nothing unverified.
func TestInOrder_Strict_ExactSequencePasses(t *testing.T) {
	t.Parallel()

	reporter := &recordingReporter{}
	scope, mock := orderedFixture(t, reporter,
		[2]any{"Open", "a"}, [2]any{"Write", "b"}, [2]any{"Close", "c"},
	)

	ordered := scope.InOrder(core.Strict, mock)

	if !ordered.Verify(mock, "Open", nil, core.Exactly(1)) ||
		!ordered.Verify(mock, "Write", nil, core.Exactly(1)) ||
		!ordered.Verify(mock, "Close", nil, core.Exactly(1)) {
		t.Fatal("verifying the exact sequence in strict mode should pass")
	}

	if !ordered.VerifyNoMoreInteractions() {
		t.Error("nothing should remain after verifying every call")
	}

	if reporter.errorCount() != 0 {
		t.Errorf("unexpected failures: %v", reporter.errors)
	}
}

// TestInOrder_Strict_UnverifiedInterleaved_Fails proves an unverified call
// between steps fails the later step in strict mode.
func TestInOrder_Strict_UnverifiedInterleaved_Fails(t *testing.T) {
	t.Parallel()

	reporter := &recordingReporter{}
	scope, mock := orderedFixture(t, reporter,
		[2]any{"Open", "a"}, [2]any{"Stat", "x"}, [2]any{"Close", "c"},
	)

	ordered := scope.InOrder(core.Strict, mock)

	if !ordered.Verify(mock, "Open", nil, core.Exactly(1)) {
		t.Fatal("first step should pass")
	}

	if ordered.Verify(mock, "Close", nil, core.Exactly(1)) {
		t.Fatal("the interleaved Stat call should fail the Close step")
	}

	if !strings.Contains(reporter.lastError(), "no unverified interactions expected before this call") {
		t.Errorf("strict failure should name the unverified interaction, got %q", reporter.lastError())
	}
}

// TestInOrder_NonStrict_SkipsUnverified proves non-strict mode skips over
// interactions between steps, and the skipped records are forgiven by
// VerifyNoMoreInteractions.
func TestInOrder_NonStrict_SkipsUnverified(t *testing.T) {
	t.Parallel()

	reporter := &recordingReporter{}
	scope, mock := orderedFixture(t, reporter,
		[2]any{"Open", "a"}, [2]any{"Stat", "x"}, [2]any{"Close", "c"},
	)

	ordered := scope.InOrder(core.NonStrict, mock)

	if !ordered.Verify(mock, "Open", nil, core.Exactly(1)) ||
		!ordered.Verify(mock, "Close", nil, core.Exactly(1)) {
		t.Fatal("non-strict mode should skip the interleaved Stat call")
	}

	if !ordered.VerifyNoMoreInteractions() {
		t.Error("records skipped during a scan are examined, not trailing leftovers")
	}

	if reporter.errorCount() != 0 {
		t.Errorf("unexpected failures: %v", reporter.errors)
	}
}

// TestInOrder_Greedy_AtLeastAbsorbsRun proves an open-ended step consumes
// every consecutive matching call: given n+k matches then a different
// call, AtLeast(n) absorbs all n+k and the next step starts at the first
// non-matching call.
func TestInOrder_Greedy_AtLeastAbsorbsRun(t *testing.T) {
	t.Parallel()

	reporter := &recordingReporter{}
	scope, mock := orderedFixture(t, reporter,
		[2]any{"Poll", 1}, [2]any{"Poll", 2}, [2]any{"Poll", 3},
		[2]any{"Poll", 4}, [2]any{"Poll", 5},
		[2]any{"Done", "x"},
	)

	ordered := scope.InOrder(core.Strict, mock)

	if !ordered.Verify(mock, "Poll", nil, core.AtLeast(2)) {
		t.Fatal("AtLeast(2) over five consecutive matches should pass")
	}

	// All five Poll calls were absorbed, so Done is next even in strict mode.
	if !ordered.Verify(mock, "Done", nil, core.Exactly(1)) {
		t.Fatalf("greedy consumption should leave Done as the next record: %v", reporter.errors)
	}

	if !ordered.VerifyNoMoreInteractions() {
		t.Error("every record should be consumed")
	}
}

// TestInOrder_AtLeast_TooFewFails proves fewer contiguous matches than the
// minimum fails the step.
func TestInOrder_AtLeast_TooFewFails(t *testing.T) {
	t.Parallel()

	reporter := &recordingReporter{}
	scope, mock := orderedFixture(t, reporter,
		[2]any{"Poll", 1}, [2]any{"Done", "x"}, [2]any{"Poll", 2},
	)

	ordered := scope.InOrder(core.NonStrict, mock)

	if ordered.Verify(mock, "Poll", nil, core.AtLeast(2)) {
		t.Fatal("only one contiguous Poll precedes Done; AtLeast(2) should fail")
	}

	if reporter.errorCount() != 1 {
		t.Errorf("expected one failure, got %v", reporter.errors)
	}
}

// TestInOrder_RangeUpperBound_CapsConsumption pins the boundary behavior:
// a bounded step whose upper bound is hit mid-run stops consuming at the
// bound and leaves the remainder for the next step - it does not fail.
func TestInOrder_RangeUpperBound_CapsConsumption(t *testing.T) {
	t.Parallel()

	reporter := &recordingReporter{}
	scope, mock := orderedFixture(t, reporter,
		[2]any{"Poll", 1}, [2]any{"Poll", 2}, [2]any{"Poll", 3},
	)

	ordered := scope.InOrder(core.NonStrict, mock)

	if !ordered.Verify(mock, "Poll", nil, core.Between(1, 2)) {
		t.Fatal("Between(1, 2) over three matches should cap at 2, not fail")
	}

	if !ordered.Verify(mock, "Poll", nil, core.Exactly(1)) {
		t.Fatal("the third Poll call should remain for the next step")
	}

	if !ordered.VerifyNoMoreInteractions() {
		t.Error("every record should be consumed")
	}
}

// TestInOrder_Exactly_ConsumesDeclaredCount proves Exactly(n) consumes
// exactly n of a longer run, leaving the rest.
func TestInOrder_Exactly_ConsumesDeclaredCount(t *testing.T) {
	t.Parallel()

	reporter := &recordingReporter{}
	scope, mock := orderedFixture(t, reporter,
		[2]any{"Poll", 1}, [2]any{"Poll", 2}, [2]any{"Poll", 3},
	)

	ordered := scope.InOrder(core.NonStrict, mock)

	if !ordered.Verify(mock, "Poll", nil, core.Exactly(2)) {
		t.Fatal("Exactly(2) should consume two of the three calls")
	}

	if ordered.VerifyNoMoreInteractions() {
		t.Error("the third Poll call is unexamined and should fail the check")
	}
}

// TestInOrder_Never_Step proves a Never step asserts no matching call sits
// at the cursor, without requiring or consuming anything.
func TestInOrder_Never_Step(t *testing.T) {
	t.Parallel()

	reporter := &recordingReporter{}
	scope, mock := orderedFixture(t, reporter,
		[2]any{"Write", "a"}, [2]any{"Close", "b"},
	)

	ordered := scope.InOrder(core.NonStrict, mock)

	if !ordered.Verify(mock, "Reset", nil, core.Never()) {
		t.Fatal("no Reset call sits at the cursor, Never should pass")
	}

	if ordered.Verify(mock, "Write", nil, core.Never()) {
		t.Fatal("a Write call sits at the cursor, Never should fail")
	}

	if !strings.Contains(reporter.lastError(), "to never be called at this point") {
		t.Errorf("never-step failure message mismatch: %q", reporter.lastError())
	}
}

// TestInOrder_AtMost_ConsumesBounded proves an AtMost step consumes up to
// its bound of immediately-following matches and never fails on extras.
func TestInOrder_AtMost_ConsumesBounded(t *testing.T) {
	t.Parallel()

	reporter := &recordingReporter{}
	scope, mock := orderedFixture(t, reporter,
		[2]any{"Retry", 1}, [2]any{"Retry", 2}, [2]any{"Done", "x"},
	)

	ordered := scope.InOrder(core.NonStrict, mock)

	if !ordered.Verify(mock, "Retry", nil, core.AtMost(3)) {
		t.Fatal("AtMost(3) over two matches should pass")
	}

	if !ordered.Verify(mock, "Done", nil, core.Exactly(1)) {
		t.Fatal("both Retry calls should be consumed")
	}

	if !ordered.VerifyNoMoreInteractions() {
		t.Error("every record should be consumed")
	}
}

// TestInOrder_AtMost_ZeroMatches proves an AtMost step passes without any
// matching call and does not advance past non-matching records.
func TestInOrder_AtMost_ZeroMatches(t *testing.T) {
	t.Parallel()

	reporter := &recordingReporter{}
	scope, mock := orderedFixture(t, reporter, [2]any{"Done", "x"})

	ordered := scope.InOrder(core.NonStrict, mock)

	if !ordered.Verify(mock, "Retry", nil, core.AtMost(3)) {
		t.Fatal("AtMost requires no match")
	}

	if !ordered.Verify(mock, "Done", nil, core.Exactly(1)) {
		t.Fatal("the Done call should still sit at the cursor")
	}
}

// TestInOrder_CrossMock proves ordering is judged over the merged
// cross-mock sequence.
func TestInOrder_CrossMock(t *testing.T) {
	t.Parallel()

	reporter := &recordingReporter{}
	scope := core.NewScope(reporter)
	db := scope.NewMock("db")
	cache := scope.NewMock("cache")

	db.ExpectCall("Query", nil, core.Unbounded, core.ReturnValues(nil))
	cache.ExpectCall("Put", nil, core.Unbounded, core.ReturnValues(nil))

	_, _ = db.Dispatch(context.Background(), "Query", "k")
	_, _ = cache.Dispatch(context.Background(), "Put", "k")

	ordered := scope.InOrder(core.Strict, db, cache)

	if !ordered.Verify(db, "Query", nil, core.Exactly(1)) ||
		!ordered.Verify(cache, "Put", nil, core.Exactly(1)) {
		t.Fatalf("cross-mock order Query then Put should verify: %v", reporter.errors)
	}

	// The reverse order fails: a fresh verifier sees Put before Query.
	reversed := scope.InOrder(core.Strict, db, cache)
	if reversed.Verify(cache, "Put", nil, core.Exactly(1)) {
		t.Fatal("Put was recorded after Query; verifying it first should fail in strict mode")
	}
}

// TestInOrder_ForeignMock_IsFatal proves verifying a mock outside the
// construction set is a fatal usage error.
func TestInOrder_ForeignMock_IsFatal(t *testing.T) {
	t.Parallel()

	reporter := &recordingReporter{}
	scope := core.NewScope(reporter)
	member := scope.NewMock("member")
	outsider := scope.NewMock("outsider")

	ordered := scope.InOrder(core.NonStrict, member)
	ordered.Verify(outsider, "F", nil, core.Exactly(1))

	if reporter.fatalCount() != 1 {
		t.Fatalf("expected a fatal usage error, got %d", reporter.fatalCount())
	}

	if !strings.Contains(reporter.lastFatal(), "not part of this InOrder verifier") {
		t.Errorf("fatal message mismatch: %q", reporter.lastFatal())
	}
}

// TestInOrder_NonMemberCallsInvisible proves calls on mocks outside the
// construction set never disturb the verified sequence, even in strict
// mode.
func TestInOrder_NonMemberCallsInvisible(t *testing.T) {
	t.Parallel()

	reporter := &recordingReporter{}
	scope := core.NewScope(reporter)
	member := scope.NewMock("member")
	other := scope.NewMock("other")

	member.ExpectCall("A", nil, core.Unbounded, core.ReturnValues(nil))
	other.ExpectCall("Noise", nil, core.Unbounded, core.ReturnValues(nil))

	_, _ = member.Dispatch(context.Background(), "A", 1)
	_, _ = other.Dispatch(context.Background(), "Noise", 1)
	_, _ = member.Dispatch(context.Background(), "A", 2)

	ordered := scope.InOrder(core.Strict, member)

	if !ordered.Verify(member, "A", nil, core.Exactly(2)) {
		t.Fatalf("the Noise call is not in the member set and must be invisible: %v", reporter.errors)
	}

	if !ordered.VerifyNoMoreInteractions() {
		t.Error("nothing of the member's should remain")
	}
}
