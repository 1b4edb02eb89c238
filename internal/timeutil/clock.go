// Package timeutil provides a testable abstraction over time operations.
package timeutil

import "time"

// Clock provides an abstraction over the current time for testability.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
}

// RealClock implements Clock using the standard time package.
type RealClock struct{}

// Now returns the current time.
func (RealClock) Now() time.Time { return time.Now() }

// MockClock is a fixed clock for testing.
type MockClock struct {
	now time.Time
}

// NewMockClock creates a MockClock set to the given time.
func NewMockClock(t time.Time) *MockClock { return &MockClock{now: t} }

// Now returns the mocked current time.
func (c *MockClock) Now() time.Time { return c.now }

// Set sets the mock clock to a specific time.
func (c *MockClock) Set(t time.Time) { c.now = t }
