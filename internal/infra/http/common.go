package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/drseanwing/trolleys/internal/domain"
)

type ErrorResponse struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

type IssueResponse struct {
	ID                   string   `json:"id"`
	Number               string   `json:"number"`
	LocationID           string   `json:"location_id,omitempty"`
	AuditID              string   `json:"audit_id,omitempty"`
	Category             string   `json:"category,omitempty"`
	Severity             string   `json:"severity"`
	Status               string   `json:"status"`
	Title                string   `json:"title"`
	Description          string   `json:"description,omitempty"`
	ReportedBy           string   `json:"reported_by,omitempty"`
	ReportedAt           string   `json:"reported_at"`
	AssignedTo           string   `json:"assigned_to,omitempty"`
	AssignedAt           *string  `json:"assigned_at,omitempty"`
	TargetResolutionDate *string  `json:"target_resolution_date,omitempty"`
	ResolutionSummary    string   `json:"resolution_summary,omitempty"`
	ResolvedAt           *string  `json:"resolved_at,omitempty"`
	VerifiedBy           string   `json:"verified_by,omitempty"`
	ClosedAt             *string  `json:"closed_at,omitempty"`
	ReopenCount          int      `json:"reopen_count"`
	EscalationLevel      int      `json:"escalation_level"`
	SLABreached          bool     `json:"sla_breached"`
	AvailableTransitions []string `json:"available_transitions"`
}

type CommentResponse struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Author    string `json:"author,omitempty"`
	Internal  bool   `json:"internal"`
	CreatedAt string `json:"created_at"`
}

type SelectionBatchResponse struct {
	ID          string                  `json:"id"`
	WeekStart   string                  `json:"week_start"`
	WeekEnd     string                  `json:"week_end"`
	GeneratedAt string                  `json:"generated_at"`
	GeneratedBy string                  `json:"generated_by,omitempty"`
	Criteria    string                  `json:"criteria,omitempty"`
	Active      bool                    `json:"active"`
	Items       []SelectionItemResponse `json:"items"`
}

type SelectionItemResponse struct {
	ID             string `json:"id"`
	LocationID     string `json:"location_id"`
	Location       string `json:"location,omitempty"`
	ServiceLine    string `json:"service_line,omitempty"`
	Rank           int    `json:"rank"`
	PriorityScore  int    `json:"priority_score"`
	DaysSinceAudit *int   `json:"days_since_audit"`
	Status         string `json:"status"`
}

func writeError(c *gin.Context, err error) {
	var invalid *domain.InvalidTransitionError
	switch {
	case errors.As(err, &invalid):
		allowed := make([]string, 0, len(invalid.Allowed))
		for _, status := range invalid.Allowed {
			allowed = append(allowed, string(status))
		}
		c.AbortWithStatusJSON(http.StatusConflict, ErrorResponse{
			Code:    "INVALID_TRANSITION",
			Message: invalid.Error(),
			Details: map[string]any{
				"from":    string(invalid.From),
				"to":      string(invalid.To),
				"allowed": allowed,
			},
		})
	case errors.Is(err, domain.ErrNotFound):
		writeErrorCode(c, http.StatusNotFound, "NOT_FOUND", "not found")
	case errors.Is(err, domain.ErrAuditSubmitted):
		writeErrorCode(c, http.StatusConflict, "AUDIT_SUBMITTED", "audit already submitted")
	case errors.Is(err, domain.ErrConflict):
		writeErrorCode(c, http.StatusConflict, "CONFLICT", "conflict")
	case errors.Is(err, domain.ErrInvalidArgument):
		writeErrorCode(c, http.StatusBadRequest, "INVALID_ARGUMENT", "invalid argument")
	default:
		writeErrorCode(c, http.StatusInternalServerError, "INTERNAL", "internal error")
	}
}

func writeErrorCode(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, ErrorResponse{Code: code, Message: message})
}

func issueResponse(issue *domain.Issue, breached bool, available []domain.IssueStatus) IssueResponse {
	transitions := make([]string, 0, len(available))
	for _, status := range available {
		transitions = append(transitions, string(status))
	}
	return IssueResponse{
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
		ReportedAt:           issue.ReportedAt.UTC().Format(time.RFC3339),
		AssignedTo:           issue.AssignedTo,
		AssignedAt:           timePtr(issue.AssignedAt),
		TargetResolutionDate: timePtr(issue.TargetResolutionDate),
		ResolutionSummary:    issue.ResolutionSummary,
		ResolvedAt:           timePtr(issue.ResolvedAt),
		VerifiedBy:           issue.VerifiedBy,
		ClosedAt:             timePtr(issue.ClosedAt),
		ReopenCount:          issue.ReopenCount,
		EscalationLevel:      issue.EscalationLevel,
		SLABreached:          breached,
		AvailableTransitions: transitions,
	}
}

func selectionBatchResponse(batch *domain.SelectionBatch, items []domain.SelectionItem) SelectionBatchResponse {
	out := SelectionBatchResponse{
		ID:          batch.ID,
		WeekStart:   batch.WeekStart.UTC().Format("2006-01-02"),
		WeekEnd:     batch.WeekEnd.UTC().Format("2006-01-02"),
		GeneratedAt: batch.GeneratedAt.UTC().Format(time.RFC3339),
		GeneratedBy: batch.GeneratedBy,
		Criteria:    batch.Criteria,
		Active:      batch.Active,
		Items:       make([]SelectionItemResponse, 0, len(items)),
	}
	for _, item := range items {
		out.Items = append(out.Items, SelectionItemResponse{
			ID:             item.ID,
			LocationID:     item.LocationID,
			Location:       item.Location,
			ServiceLine:    item.ServiceLine,
			Rank:           item.Rank,
			PriorityScore:  item.PriorityScore,
			DaysSinceAudit: item.DaysSinceAudit,
			Status:         string(item.Status),
		})
	}
	return out
}

func timePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(time.RFC3339)
	return &s
}
