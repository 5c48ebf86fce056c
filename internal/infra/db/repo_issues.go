package db

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/drseanwing/trolleys/internal/domain"
)

type IssueRepository struct {
	db *gorm.DB
}

func NewIssueRepository(db *gorm.DB) *IssueRepository {
	return &IssueRepository{db: db}
}

// Create inserts the issue, allocating a sequential month-scoped number
// (ISS-YYYYMM-NNN) inside the same transaction when none is set.
func (r *IssueRepository) Create(ctx context.Context, issue *domain.Issue) error {
	if issue.ID == "" {
		issue.ID = uuid.NewString()
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if issue.Number == "" {
			number, err := nextIssueNumber(tx, issue.ReportedAt)
			if err != nil {
				return err
			}
			issue.Number = number
		}
		model := issueModelFromDomain(*issue)
		return tx.Create(&model).Error
	})
}

func (r *IssueRepository) Get(ctx context.Context, issueID string) (*domain.Issue, error) {
	var model IssueModel
	err := r.db.WithContext(ctx).First(&model, "id = ?", issueID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	issue := issueFromModel(model)
	return &issue, nil
}

func (r *IssueRepository) ListOpen(ctx context.Context) ([]*domain.Issue, error) {
	var models []IssueModel
	if err := r.db.WithContext(ctx).
		Where("status NOT IN ?", []string{
			string(domain.IssueResolved),
			string(domain.IssueClosed),
		}).
		Order("reported_at ASC").
		Find(&models).Error; err != nil {
		return nil, err
	}
	out := make([]*domain.Issue, 0, len(models))
	for _, model := range models {
		issue := issueFromModel(model)
		out = append(out, &issue)
	}
	return out, nil
}

// SaveTransition persists the mutated issue and its transition comment
// together, so the trail never diverges from the status history.
func (r *IssueRepository) SaveTransition(ctx context.Context, issue *domain.Issue, comment domain.IssueComment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		model := issueModelFromDomain(*issue)
		res := tx.Model(&IssueModel{}).
			Where("id = ?", issue.ID).
			Select("*").
			Omit("id", "number", "reported_at").
			Updates(model)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrNotFound
		}

		if comment.ID == "" {
			comment.ID = uuid.NewString()
		}
		if comment.CreatedAt.IsZero() {
			comment.CreatedAt = time.Now().UTC()
		}
		commentModel := issueCommentModelFromDomain(comment)
		return tx.Create(&commentModel).Error
	})
}

func (r *IssueRepository) SetTargetResolutionDate(ctx context.Context, issueID string, target time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&IssueModel{}).
		Where("id = ?", issueID).
		Update("target_resolution_date", target)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *IssueRepository) ListComments(ctx context.Context, issueID string) ([]domain.IssueComment, error) {
	var models []IssueCommentModel
	if err := r.db.WithContext(ctx).
		Where("issue_id = ?", issueID).
		Order("created_at ASC").
		Find(&models).Error; err != nil {
		return nil, err
	}
	out := make([]domain.IssueComment, 0, len(models))
	for _, model := range models {
		out = append(out, issueCommentFromModel(model))
	}
	return out, nil
}

// nextIssueNumber scans the month's highest allocated number and takes
// the next one. Runs inside the creating transaction; the unique index
// on number turns a lost race into a retryable constraint error.
func nextIssueNumber(tx *gorm.DB, reportedAt time.Time) (string, error) {
	prefix := reportedAt.Format("ISS-200601")
	var last IssueModel
	err := tx.
		Where("number LIKE ?", prefix+"-%").
		Order("number DESC").
		First(&last).Error
	seq := 0
	if err == nil {
		tail := strings.TrimPrefix(last.Number, prefix+"-")
		n, convErr := strconv.Atoi(tail)
		if convErr != nil {
			return "", fmt.Errorf("malformed issue number %q", last.Number)
		}
		seq = n
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}
	return fmt.Sprintf("%s-%03d", prefix, seq+1), nil
}

func issueModelFromDomain(issue domain.Issue) IssueModel {
	return IssueModel{
		ID:                   issue.ID,
		Number:               issue.Number,
		LocationID:           issue.LocationID,
		AuditID:              issue.AuditID,
		Category:             issue.Category,
		Severity:             string(issue.Severity),
		Status:               string(issue.Status),
		Title:                issue.Title,
		Description:          issue.Description,
		ReportedBy:           issue.ReportedBy,
		ReportedAt:           issue.ReportedAt,
		AssignedTo:           issue.AssignedTo,
		AssignedAt:           issue.AssignedAt,
		TargetResolutionDate: issue.TargetResolutionDate,
		ResolutionSummary:    issue.ResolutionSummary,
		ResolvedAt:           issue.ResolvedAt,
		VerifiedBy:           issue.VerifiedBy,
		ClosedAt:             issue.ClosedAt,
		ReopenCount:          issue.ReopenCount,
		EscalationLevel:      issue.EscalationLevel,
	}
}

func issueFromModel(model IssueModel) domain.Issue {
	return domain.Issue{
		ID:                   model.ID,
		Number:               model.Number,
		LocationID:           model.LocationID,
		AuditID:              model.AuditID,
		Category:             model.Category,
		Severity:             domain.IssueSeverity(model.Severity),
		Status:               domain.IssueStatus(model.Status),
		Title:                model.Title,
		Description:          model.Description,
		ReportedBy:           model.ReportedBy,
		ReportedAt:           model.ReportedAt,
		AssignedTo:           model.AssignedTo,
		AssignedAt:           model.AssignedAt,
		TargetResolutionDate: model.TargetResolutionDate,
		ResolutionSummary:    model.ResolutionSummary,
		ResolvedAt:           model.ResolvedAt,
		VerifiedBy:           model.VerifiedBy,
		ClosedAt:             model.ClosedAt,
		ReopenCount:          model.ReopenCount,
		EscalationLevel:      model.EscalationLevel,
	}
}

func issueCommentModelFromDomain(comment domain.IssueComment) IssueCommentModel {
	return IssueCommentModel{
		ID:        comment.ID,
		IssueID:   comment.IssueID,
		Text:      comment.Text,
		Author:    comment.Author,
		Internal:  comment.Internal,
		CreatedAt: comment.CreatedAt,
	}
}

func issueCommentFromModel(model IssueCommentModel) domain.IssueComment {
	return domain.IssueComment{
		ID:        model.ID,
		IssueID:   model.IssueID,
		Text:      model.Text,
		Author:    model.Author,
		Internal:  model.Internal,
		CreatedAt: model.CreatedAt,
	}
}
