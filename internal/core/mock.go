package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
)

// Unbounded marks an expectation budget with no use limit.
const Unbounded = -1

// expectation is one registered canned response: a matcher tuple, a
// remaining-use budget, and a responder. remaining < 0 means unbounded.
type expectation struct {
	matchers  []Matcher
	remaining int
	responder Responder
}

// Mock is one stand-in instance. Generated code holds a Mock and routes
// every simulated invocation through Dispatch; test code registers
// expectations before first use and queries verification afterwards.
//
// A Mock transitions from a mutable configuration phase to a sealed
// operating phase: the first Dispatch (or an explicit Seal) freezes the
// expectation set, leaving only budgets mutable.
type Mock struct {
	name  string
	scope *Scope
	t     TestReporter

	mu           sync.Mutex
	sealed       bool
	expectations map[OperationKey][]*expectation
}

// Name returns the diagnostic name the mock was created with.
func (m *Mock) Name() string {
	return m.name
}

// ExpectCall appends an expectation to the tail of the operation's queue.
// matchers is one Matcher per argument position, or nil to accept any
// argument tuple. times is the use budget; pass Unbounded for no limit.
// Calling ExpectCall after the mock is sealed is a fatal usage error.
func (m *Mock) ExpectCall(op OperationKey, matchers []Matcher, times int, responder Responder) {
	m.t.Helper()

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.sealed {
		m.t.Fatalf(
			"mock %q is sealed: expectations must be registered before the first call (attempted %s)",
			m.name, DescribeCall(op, matchers),
		)

		return
	}

	m.expectations[op] = append(m.expectations[op], &expectation{
		matchers:  matchers,
		remaining: times,
		responder: responder,
	})
}

// Seal freezes the expectation set. Dispatch seals implicitly on first
// use; generated constructors call Seal when handing the stand-in to the
// code under test.
func (m *Mock) Seal() {
	m.mu.Lock()
	m.sealed = true
	m.mu.Unlock()
}

// Dispatch answers one simulated invocation: it resolves the operation's
// expectation queue, records the call, and runs the selected responder.
// Recording happens before the responder executes, and the responder runs
// outside every engine lock so it may block on other work. A call no
// expectation matches is a fatal usage error.
//
// A responder's error return is the call's simulated result, not an
// engine failure; the call is recorded and counted identically either way.
func (m *Mock) Dispatch(ctx context.Context, op OperationKey, args ...any) ([]any, error) {
	m.t.Helper()

	responder, ok := m.resolve(op, args)
	if !ok {
		m.t.Fatalf(
			"unexpected call to mock %q: no expectation matches %s\n%s",
			m.name, renderCall(op, args), m.explainMismatch(op, args),
		)

		return nil, nil
	}

	m.scope.record(m, op, args)

	values, err := responder.Respond(ctx, args)
	if errors.Is(err, errBadDelegate) {
		m.t.Fatalf("mock %q, call %s: %v", m.name, renderCall(op, args), err)

		return nil, nil
	}

	return values, err
}

// Calls returns a snapshot of the recorded invocations for one operation,
// in dispatch order.
func (m *Mock) Calls(op OperationKey) []*InvocationRecord {
	return m.scope.recordsFor(m, op)
}

// resolve scans the operation's queue in registration order and selects
// the first expectation whose matchers accept the arguments and whose
// budget is not exhausted, decrementing the budget. Selection and
// decrement are atomic under the mock's lock, so two concurrent calls can
// never both consume the final unit of a budget-1 expectation. The first
// resolve also seals the mock.
func (m *Mock) resolve(op OperationKey, args []any) (Responder, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sealed = true

	for _, exp := range m.expectations[op] {
		if exp.remaining == 0 {
			continue
		}

		if ok, _ := MatchArgs(exp.matchers, args); !ok {
			continue
		}

		if exp.remaining > 0 {
			exp.remaining--
		}

		return exp.responder, true
	}

	return Responder{}, false
}

// explainMismatch renders the state of every expectation registered for
// the operation, for the no-match fatal message.
func (m *Mock) explainMismatch(op OperationKey, args []any) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	exps := m.expectations[op]
	if len(exps) == 0 {
		return fmt.Sprintf("no expectations were registered for operation %q", op)
	}

	var sb strings.Builder

	sb.WriteString("registered expectations:\n")

	for i, exp := range exps {
		switch {
		case exp.remaining == 0:
			fmt.Fprintf(&sb, "  %d: %s - budget exhausted\n", i, DescribeCall(op, exp.matchers))
		default:
			_, why := MatchArgs(exp.matchers, args)
			fmt.Fprintf(&sb, "  %d: %s - %s\n", i, DescribeCall(op, exp.matchers), why)
		}
	}

	return strings.TrimRight(sb.String(), "\n")
}

// renderCall formats an operation and its actual arguments for messages.
func renderCall(op OperationKey, args []any) string {
	rendered := make([]string, len(args))
	for i, arg := range args {
		rendered[i] = fmt.Sprintf("%#v", arg)
	}

	return fmt.Sprintf("%s(%s)", op, strings.Join(rendered, ", "))
}
