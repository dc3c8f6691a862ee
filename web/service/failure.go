// Package service implements the business operations of the RMS local
// server: admin bootstrap, event provisioning, authorization and auditing.
package service

import "fmt"

// FailureKind classifies an operation failure. Every failure a service
// returns carries exactly one kind; the controller layer maps kinds to HTTP
// status codes and never inspects anything else.
type FailureKind string

const (
	FailureInvalid         FailureKind = "invalid"
	FailureUnauthenticated FailureKind = "unauthenticated"
	FailureUnauthorized    FailureKind = "unauthorized"
	FailureForbidden       FailureKind = "forbidden"
	FailureConflict        FailureKind = "conflict"
	FailureUnavailable     FailureKind = "unavailable"
	FailureInternal        FailureKind = "internal"
)

// Failure is a classified operation failure. Details is an optional
// human-readable string; internal error detail never crosses the HTTP
// boundary beyond it.
type Failure struct {
	Kind    FailureKind
	Details string
}

func (f *Failure) Error() string {
	if f.Details == "" {
		return string(f.Kind)
	}
	return fmt.Sprintf("%s: %s", f.Kind, f.Details)
}

func newFailure(kind FailureKind, details string) *Failure {
	return &Failure{Kind: kind, Details: details}
}

func newFailuref(kind FailureKind, format string, a ...any) *Failure {
	return &Failure{Kind: kind, Details: fmt.Sprintf(format, a...)}
}
