package store

import (
	"errors"
	"sync"
	"sync/atomic"
)

// Result is the outcome of one repository call.
// On failure Value is the zero value (an empty list for List) and Err is set.
type Result[T any] struct {
	Value T
	Err   error
}

func (r Result[T]) OK() bool { return r.Err == nil }

// Unwrap returns Value and Err, for callers that prefer the usual (value, error) pair.
func (r Result[T]) Unwrap() (T, error) { return r.Value, r.Err }

// Status is shared by the repositories of a Store.
// Busy is exact under overlapping calls; LastError is advisory only.
type Status struct {
	inflight int64

	mu      sync.RWMutex
	lastErr string
}

func (s *Status) begin() { atomic.AddInt64(&s.inflight, 1) }
func (s *Status) end()   { atomic.AddInt64(&s.inflight, -1) }

// Busy reports whether any remote call is in flight.
func (s *Status) Busy() bool { return atomic.LoadInt64(&s.inflight) > 0 }

// InFlight returns the number of remote calls in flight.
func (s *Status) InFlight() int { return int(atomic.LoadInt64(&s.inflight)) }

// LastError returns the message of the most recent failed call, "" if none failed yet.
func (s *Status) LastError() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

func (s *Status) setError(err error) {
	s.mu.Lock()
	s.lastErr = err.Error()
	s.mu.Unlock()
}

// RemoteError is the error of a failed backend call.
type RemoteError struct {
	Op    string // list | create | update | delete | upsert
	Table string
	Err   error
}

func (e *RemoteError) Error() string {
	return e.Op + " " + e.Table + ": " + e.Err.Error()
}

// Cause lets errors.Cause reach the backend error.
func (e *RemoteError) Cause() error  { return e.Err }
func (e *RemoteError) Unwrap() error { return e.Err }

// IsRemoteError reports whether err is (or wraps) a RemoteError.
func IsRemoteError(err error) bool {
	var re *RemoteError
	return errors.As(err, &re)
}
