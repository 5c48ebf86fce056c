package usecase

import (
	"context"

	"go.uber.org/zap"
)

// SweepResult summarizes one SLA sweep run.
type SweepResult struct {
	Checked          int
	Escalated        int
	AlreadyEscalated int
}

// SLASweep walks every issue not yet Resolved or Closed and
// auto-escalates breaches. It is meant to run periodically (cron or a
// scheduled task), one pass per invocation.
type SLASweep struct {
	Issues   IssueRepository
	Workflow *IssueWorkflow
	Logger   *zap.Logger
}

func NewSLASweep(issues IssueRepository, workflow *IssueWorkflow, logger *zap.Logger) *SLASweep {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SLASweep{Issues: issues, Workflow: workflow, Logger: logger}
}

// Run performs one sweep. Issues that are breached but cannot legally
// escalate (already Escalated) are counted, not retried.
func (s *SLASweep) Run(ctx context.Context) (SweepResult, error) {
	open, err := s.Issues.ListOpen(ctx)
	if err != nil {
		return SweepResult{}, err
	}

	result := SweepResult{Checked: len(open)}
	for _, issue := range open {
		if !s.Workflow.IsSLABreached(issue) {
			continue
		}
		escalated, err := s.Workflow.CheckAndAutoEscalate(ctx, issue)
		if err != nil {
			return result, err
		}
		if escalated {
			result.Escalated++
			s.Logger.Warn("issue auto-escalated",
				zap.String("issue", issue.Number),
				zap.String("severity", string(issue.Severity)),
				zap.Int("escalation_level", issue.EscalationLevel),
			)
		} else {
			result.AlreadyEscalated++
			s.Logger.Info("sla breached, already escalated",
				zap.String("issue", issue.Number),
			)
		}
	}

	s.Logger.Info("sla sweep complete",
		zap.Int("checked", result.Checked),
		zap.Int("escalated", result.Escalated),
		zap.Int("already_escalated", result.AlreadyEscalated),
	)
	return result, nil
}
