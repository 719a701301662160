package types

import (
	"strings"
	"sync"
)

// MultiError collects independent failures, such as every invalid draw of a
// history.
type MultiError struct {
	mu     sync.Mutex
	Errors []error
}

func (m *MultiError) Error() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	msgs := make([]string, len(m.Errors))
	for i, err := range m.Errors {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

func (m *MultiError) Add(err error) {
	if err == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Errors = append(m.Errors, err)
}

func (m *MultiError) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Errors)
}

func (m *MultiError) IsEmpty() bool {
	return m.Len() == 0
}

// Unwrap lets errors.Is / errors.As see every collected error.
func (m *MultiError) Unwrap() []error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]error(nil), m.Errors...)
}

// ErrOrNil returns nil when nothing was collected, so callers can `return me.ErrOrNil()`.
func (m *MultiError) ErrOrNil() error {
	if m == nil || m.IsEmpty() {
		return nil
	}
	return m
}
