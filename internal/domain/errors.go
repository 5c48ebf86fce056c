package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrConflict        = errors.New("conflict")
	ErrAuditSubmitted  = errors.New("audit already submitted")
)

// InvalidTransitionError reports a workflow transition outside the
// transition table. It always names the current state, the requested
// state and the full allowed set.
type InvalidTransitionError struct {
	From    IssueStatus
	To      IssueStatus
	Allowed []IssueStatus
}

func (e *InvalidTransitionError) Error() string {
	allowed := make([]string, 0, len(e.Allowed))
	for _, s := range e.Allowed {
		allowed = append(allowed, string(s))
	}
	return fmt.Sprintf("cannot transition issue from %q to %q (allowed: %s)",
		e.From, e.To, strings.Join(allowed, ", "))
}
