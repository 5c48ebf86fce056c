package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/drseanwing/trolleys/internal/domain"
)

// transitions is the workflow's source of truth: current status to the
// set of statuses reachable from it. Closed is not terminal; reopening
// goes back to Open.
var transitions = map[domain.IssueStatus][]domain.IssueStatus{
	domain.IssueOpen:                {domain.IssueAssigned, domain.IssueEscalated},
	domain.IssueAssigned:            {domain.IssueInProgress, domain.IssueEscalated},
	domain.IssueInProgress:          {domain.IssuePendingVerification, domain.IssueEscalated},
	domain.IssuePendingVerification: {domain.IssueResolved, domain.IssueInProgress},
	domain.IssueResolved:            {domain.IssueClosed, domain.IssueOpen},
	domain.IssueClosed:              {domain.IssueOpen},
	domain.IssueEscalated:           {domain.IssueAssigned},
}

// slaBudgets are the per-severity response budgets measured from the
// issue's report time.
var slaBudgets = map[domain.IssueSeverity]time.Duration{
	domain.SeverityCritical: 24 * time.Hour,
	domain.SeverityHigh:     72 * time.Hour,
	domain.SeverityMedium:   120 * time.Hour,
	domain.SeverityLow:      240 * time.Hour,
}

const defaultSLABudget = 240 * time.Hour

// managementReviewLevel is the escalation level at which an issue needs
// management review. Escalation itself is unbounded.
const managementReviewLevel = 3

const systemActor = "System"

// IssueWorkflow governs an issue's lifecycle. Legality checking and
// side-effect dispatch are separate steps; every successful transition
// appends exactly one internal comment recording old and new status.
type IssueWorkflow struct {
	Issues IssueRepository
	Clock  func() time.Time
}

func NewIssueWorkflow(issues IssueRepository) *IssueWorkflow {
	return &IssueWorkflow{Issues: issues, Clock: time.Now}
}

// Report creates a new issue in Open and stamps its target resolution
// date from the severity budget.
func (w *IssueWorkflow) Report(ctx context.Context, issue *domain.Issue) error {
	if issue.Status == "" {
		issue.Status = domain.IssueOpen
	}
	if issue.ReportedAt.IsZero() {
		issue.ReportedAt = w.now()
	}
	if err := w.Issues.Create(ctx, issue); err != nil {
		return err
	}
	return w.SetTargetResolutionDate(ctx, issue)
}

// CanTransition reports whether moving the issue to next is legal.
func (w *IssueWorkflow) CanTransition(issue *domain.Issue, next domain.IssueStatus) bool {
	for _, allowed := range transitions[issue.Status] {
		if allowed == next {
			return true
		}
	}
	return false
}

// AvailableTransitions returns the statuses reachable from the issue's
// current status.
func (w *IssueWorkflow) AvailableTransitions(issue *domain.Issue) []domain.IssueStatus {
	allowed := transitions[issue.Status]
	out := make([]domain.IssueStatus, len(allowed))
	copy(out, allowed)
	return out
}

// Transition moves the issue to next, applies the per-target side
// effects and persists the mutated issue together with one transition
// comment in a single transaction. An illegal move returns
// *domain.InvalidTransitionError and leaves the issue untouched.
func (w *IssueWorkflow) Transition(ctx context.Context, issue *domain.Issue, next domain.IssueStatus, actor, notes string) error {
	if !w.CanTransition(issue, next) {
		return &domain.InvalidTransitionError{
			From:    issue.Status,
			To:      next,
			Allowed: w.AvailableTransitions(issue),
		}
	}

	old := issue.Status
	now := w.now()

	switch next {
	case domain.IssueAssigned:
		if issue.AssignedTo == "" {
			issue.AssignedTo = actor
		}
		issue.AssignedAt = &now
	case domain.IssueResolved:
		issue.ResolvedAt = &now
		if issue.VerifiedBy == "" {
			issue.VerifiedBy = actor
		}
	case domain.IssueClosed:
		issue.ClosedAt = &now
	case domain.IssueOpen:
		issue.ReopenCount++
		issue.ResolvedAt = nil
		issue.ClosedAt = nil
		issue.VerifiedBy = ""
	case domain.IssueEscalated:
		issue.EscalationLevel++
	}

	issue.Status = next

	author := actor
	if author == "" {
		author = systemActor
	}
	comment := domain.IssueComment{
		IssueID:   issue.ID,
		Text:      strings.TrimSpace(fmt.Sprintf("Status changed from '%s' to '%s'. %s", old, next, notes)),
		Author:    author,
		Internal:  true,
		CreatedAt: now,
	}

	return w.Issues.SaveTransition(ctx, issue, comment)
}

// Assign hands the issue to assignee.
func (w *IssueWorkflow) Assign(ctx context.Context, issue *domain.Issue, assignee, actor string) error {
	issue.AssignedTo = assignee
	return w.Transition(ctx, issue, domain.IssueAssigned, actor, fmt.Sprintf("Assigned to %s", assignee))
}

// StartWork marks the issue as actively being worked.
func (w *IssueWorkflow) StartWork(ctx context.Context, issue *domain.Issue, actor string) error {
	return w.Transition(ctx, issue, domain.IssueInProgress, actor, "")
}

// SubmitForVerification records the fix summary and queues the issue
// for verification.
func (w *IssueWorkflow) SubmitForVerification(ctx context.Context, issue *domain.Issue, actor, summary string) error {
	if summary != "" {
		issue.ResolutionSummary = summary
	}
	return w.Transition(ctx, issue, domain.IssuePendingVerification, actor, "")
}

// VerifyAndResolve resolves the issue with verifier as the sign-off.
func (w *IssueWorkflow) VerifyAndResolve(ctx context.Context, issue *domain.Issue, verifier string) error {
	issue.VerifiedBy = verifier
	return w.Transition(ctx, issue, domain.IssueResolved, verifier, "")
}

// RejectVerification sends the issue back to in-progress work.
func (w *IssueWorkflow) RejectVerification(ctx context.Context, issue *domain.Issue, actor, reason string) error {
	return w.Transition(ctx, issue, domain.IssueInProgress, actor, fmt.Sprintf("Verification rejected: %s", reason))
}

// Close closes a resolved issue.
func (w *IssueWorkflow) Close(ctx context.Context, issue *domain.Issue, actor string) error {
	return w.Transition(ctx, issue, domain.IssueClosed, actor, "")
}

// Reopen reopens a resolved or closed issue.
func (w *IssueWorkflow) Reopen(ctx context.Context, issue *domain.Issue, actor, reason string) error {
	return w.Transition(ctx, issue, domain.IssueOpen, actor, fmt.Sprintf("Reopened: %s", reason))
}

// Escalate raises the issue's escalation level.
func (w *IssueWorkflow) Escalate(ctx context.Context, issue *domain.Issue, actor, reason string) error {
	return w.Transition(ctx, issue, domain.IssueEscalated, actor, fmt.Sprintf("Escalated: %s", reason))
}

// SLATarget is the deadline implied by the issue's severity budget.
func (w *IssueWorkflow) SLATarget(issue *domain.Issue) time.Time {
	budget, ok := slaBudgets[issue.Severity]
	if !ok {
		budget = defaultSLABudget
	}
	return issue.ReportedAt.Add(budget)
}

// IsSLABreached reports whether the issue is past its budget. Resolved
// and closed issues never count as breached.
func (w *IssueWorkflow) IsSLABreached(issue *domain.Issue) bool {
	if issue.Status == domain.IssueResolved || issue.Status == domain.IssueClosed {
		return false
	}
	return w.now().After(w.SLATarget(issue))
}

// CheckAndAutoEscalate escalates a breached issue when an Escalated
// transition is legal from its current state. Returns true when an
// escalation was performed.
func (w *IssueWorkflow) CheckAndAutoEscalate(ctx context.Context, issue *domain.Issue) (bool, error) {
	if !w.IsSLABreached(issue) {
		return false, nil
	}
	switch issue.Status {
	case domain.IssueResolved, domain.IssueClosed, domain.IssueEscalated:
		return false, nil
	}
	if !w.CanTransition(issue, domain.IssueEscalated) {
		return false, nil
	}
	reason := fmt.Sprintf("SLA breached (%s severity)", issue.Severity)
	if err := w.Escalate(ctx, issue, systemActor, reason); err != nil {
		return false, err
	}
	return true, nil
}

// NeedsManagementReview reports whether repeated escalation has pushed
// the issue past the review threshold.
func (w *IssueWorkflow) NeedsManagementReview(issue *domain.Issue) bool {
	return issue.EscalationLevel >= managementReviewLevel
}

// SetTargetResolutionDate stamps the SLA deadline onto the issue.
func (w *IssueWorkflow) SetTargetResolutionDate(ctx context.Context, issue *domain.Issue) error {
	target := w.SLATarget(issue)
	if err := w.Issues.SetTargetResolutionDate(ctx, issue.ID, target); err != nil {
		return err
	}
	issue.TargetResolutionDate = &target
	return nil
}

func (w *IssueWorkflow) now() time.Time {
	if w.Clock != nil {
		return w.Clock()
	}
	return time.Now()
}
