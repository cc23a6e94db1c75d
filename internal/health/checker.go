// Package health runs diagnostic checks against what rcup depends on: the
// API, the credential slot and, for the redis backend, Redis itself.
//
// Example usage:
//
//	manager := health.NewManager(health.WithTimeout(3 * time.Second))
//	manager.Add(health.NewAPIChecker(client, client.BaseURL()))
//	manager.Add(health.NewCredentialChecker(store))
//
//	report := manager.Run(ctx)
//	for _, r := range report.Results {
//	    fmt.Println(r.Name, r.Status, r.Message)
//	}
package health

import (
	"context"
	"fmt"
	"time"
)

// Checker is a single diagnostic check.
type Checker interface {
	// Name is a short lowercase identifier, e.g. "api".
	Name() string

	// Check runs the check. It must return when ctx is done.
	Check(ctx context.Context) *Result
}

// Status is the outcome of a check.
type Status string

const (
	// StatusHealthy means the dependency works.
	StatusHealthy Status = "healthy"

	// StatusDegraded means rcup works with reduced functionality, e.g. no
	// one is signed in.
	StatusDegraded Status = "degraded"

	// StatusUnhealthy means commands that need the dependency will fail.
	StatusUnhealthy Status = "unhealthy"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) rank() int {
	switch s {
	case StatusHealthy:
		return 0
	case StatusDegraded:
		return 1
	default:
		return 2
	}
}

// Result is the outcome of one check.
type Result struct {
	Name    string         `json:"name" yaml:"name"`
	Status  Status         `json:"status" yaml:"status"`
	Message string         `json:"message" yaml:"message"`
	Details map[string]any `json:"details,omitempty" yaml:"details,omitempty"`
	Latency time.Duration  `json:"latency_ns" yaml:"latency"`
}

func newResult(status Status, format string, args ...any) *Result {
	return &Result{Status: status, Message: fmt.Sprintf(format, args...)}
}

// Healthy returns a healthy result.
func Healthy(format string, args ...any) *Result {
	return newResult(StatusHealthy, format, args...)
}

// Degraded returns a degraded result.
func Degraded(format string, args ...any) *Result {
	return newResult(StatusDegraded, format, args...)
}

// Unhealthy returns an unhealthy result.
func Unhealthy(format string, args ...any) *Result {
	return newResult(StatusUnhealthy, format, args...)
}

// WithDetail adds a detail and returns r for chaining.
func (r *Result) WithDetail(key string, value any) *Result {
	if r.Details == nil {
		r.Details = make(map[string]any)
	}
	r.Details[key] = value
	return r
}
