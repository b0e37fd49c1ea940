// Package core provides the internal implementation of standin's
// expectation queue, invocation recorder, and verification engine.
package core

import (
	"sync"
)

// OperationKey is the stable identity of one callable member of a mocked
// interface: a method name, or a property name qualified by accessor kind
// (e.g. "Name.get", "Name.set"). Generated stand-in code defines the keys.
type OperationKey string

// TestReporter is the minimal interface standin needs from test frameworks.
// Fatalf reports unrecoverable usage errors in test setup; Errorf reports
// accumulating verification failures. Satisfied by *testing.T.
type TestReporter interface {
	Helper()
	Errorf(format string, args ...any)
	Fatalf(format string, args ...any)
}

// InvocationRecord is an immutable log entry for one dispatched call.
type InvocationRecord struct {
	Sequence  uint64
	Mock      *Mock
	Operation OperationKey
	Args      []any
}

// Scope is the verification arena shared by every mock in one test.
// It owns the monotonic sequence counter and the cross-mock merged log,
// so ordered verification can compare calls made against different mocks.
type Scope struct {
	t TestReporter

	mu      sync.Mutex
	nextSeq uint64
	records []*InvocationRecord
	perOp   map[*Mock]map[OperationKey][]*InvocationRecord
	mocks   []*Mock
}

// NewScope creates a new verification scope reporting through t.
func NewScope(t TestReporter) *Scope {
	return &Scope{
		t:     t,
		perOp: make(map[*Mock]map[OperationKey][]*InvocationRecord),
	}
}

// NewMock creates a mock instance belonging to this scope. The name is
// used only in diagnostics.
func (s *Scope) NewMock(name string) *Mock {
	mock := &Mock{
		name:         name,
		scope:        s,
		t:            s.t,
		expectations: make(map[OperationKey][]*expectation),
	}

	s.mu.Lock()
	s.mocks = append(s.mocks, mock)
	s.perOp[mock] = make(map[OperationKey][]*InvocationRecord)
	s.mu.Unlock()

	return mock
}

// record appends one invocation to both the per-(mock, operation) list and
// the scope-global merged list, assigning the next sequence number. The
// two views agree on relative order because both appends happen under the
// same lock. Safe under arbitrary concurrent invocation.
func (s *Scope) record(mock *Mock, op OperationKey, args []any) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	seq := s.nextSeq
	s.nextSeq++

	rec := &InvocationRecord{
		Sequence:  seq,
		Mock:      mock,
		Operation: op,
		Args:      args,
	}

	s.records = append(s.records, rec)
	s.perOp[mock][op] = append(s.perOp[mock][op], rec)

	return seq
}

// recordsFor returns a snapshot of the recorded invocations for one
// mock and operation, in dispatch order.
func (s *Scope) recordsFor(mock *Mock, op OperationKey) []*InvocationRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	recs := s.perOp[mock][op]
	snapshot := make([]*InvocationRecord, len(recs))
	copy(snapshot, recs)

	return snapshot
}

// interactionCount returns the total number of recorded invocations for
// one mock across all operations.
func (s *Scope) interactionCount(mock *Mock) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := 0
	for _, recs := range s.perOp[mock] {
		total += len(recs)
	}

	return total
}

// mergedFor returns a snapshot of the global sequence restricted to the
// given member mocks, in sequence order.
func (s *Scope) mergedFor(members map[*Mock]bool) []*InvocationRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	var merged []*InvocationRecord

	for _, rec := range s.records {
		if members[rec.Mock] {
			merged = append(merged, rec)
		}
	}

	return merged
}

// VerifyNoInteractions reports a verification failure for every mock in
// the scope that recorded at least one invocation. Returns true if no
// mock was ever called.
func (s *Scope) VerifyNoInteractions() bool {
	s.t.Helper()

	s.mu.Lock()
	mocks := make([]*Mock, len(s.mocks))
	copy(mocks, s.mocks)
	s.mu.Unlock()

	ok := true

	for _, mock := range mocks {
		if !mock.VerifyNoInteractions() {
			ok = false
		}
	}

	return ok
}
