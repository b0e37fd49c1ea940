package core_test

// Shared test reporter that captures failures instead of stopping the test,
// so engine-level fatal and error paths can be asserted on directly.

import (
	"fmt"
	"sync"
)

type recordingReporter struct {
	mu     sync.Mutex
	errors []string
	fatals []string
}

func (r *recordingReporter) Helper() {}

func (r *recordingReporter) Errorf(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.errors = append(r.errors, fmt.Sprintf(format, args...))
}

func (r *recordingReporter) Fatalf(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.fatals = append(r.fatals, fmt.Sprintf(format, args...))
}

func (r *recordingReporter) errorCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.errors)
}

func (r *recordingReporter) fatalCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.fatals)
}

func (r *recordingReporter) lastError() string {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.errors) == 0 {
		return ""
	}

	return r.errors[len(r.errors)-1]
}

func (r *recordingReporter) lastFatal() string {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.fatals) == 0 {
		return ""
	}

	return r.fatals[len(r.fatals)-1]
}
