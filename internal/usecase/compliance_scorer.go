package usecase

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/drseanwing/trolleys/internal/domain"
)

// Component weights of the overall compliance score.
var (
	documentationWeight = decimal.RequireFromString("0.25")
	equipmentWeight     = decimal.RequireFromString("0.40")
	conditionWeight     = decimal.RequireFromString("0.15")
	checkWeight         = decimal.RequireFromString("0.20")

	criticalWeight    = decimal.RequireFromString("0.60")
	nonCriticalWeight = decimal.RequireFromString("0.40")

	half    = decimal.RequireFromString("0.5")
	hundred = decimal.NewFromInt(100)
	one     = decimal.NewFromInt(1)
)

// ComplianceScorer turns an audit's recorded sections into 0-100
// component scores and one weighted overall score. All arithmetic is
// fixed-point decimal; published values are rounded half-up to two
// decimal places.
type ComplianceScorer struct {
	Audits AuditRepository
}

func NewComplianceScorer(audits AuditRepository) *ComplianceScorer {
	return &ComplianceScorer{Audits: audits}
}

// DocumentationScore counts the four documentation checks that pass.
// No partial credit per item.
func (s *ComplianceScorer) DocumentationScore(doc domain.DocumentCheck) decimal.Decimal {
	points := 0
	if doc.RecordStatus == domain.DocumentCurrent {
		points++
	}
	if doc.GuidelinesStatus == domain.DocumentCurrent {
		points++
	}
	if doc.PosterPresent {
		points++
	}
	if doc.EquipmentListStatus == domain.DocumentCurrent {
		points++
	}
	return ratio(points, 4)
}

// ConditionScore counts the five physical-condition flags.
func (s *ComplianceScorer) ConditionScore(cond domain.ConditionCheck) decimal.Decimal {
	points := 0
	for _, ok := range []bool{
		cond.Clean,
		cond.WorkingOrder,
		cond.RubberBandsUsed,
		cond.O2TubingCorrect,
		cond.InhaloCylinderOK,
	} {
		if ok {
			points++
		}
	}
	return ratio(points, 5)
}

// CheckScore averages outside and inside routine-check compliance. A
// record flagged count-not-available is a hard fail: the operators
// could not verify compliance at all.
func (s *ComplianceScorer) CheckScore(checks domain.RoutineCheckRecord) decimal.Decimal {
	if checks.CountNotAvailable {
		return decimal.Zero
	}
	outside := countCompliance(checks.OutsideCount, checks.ExpectedOutside)
	inside := countCompliance(checks.InsideCount, checks.ExpectedInside)
	return outside.Mul(half).Add(inside.Mul(half))
}

// EquipmentScore weights critical items 60/40 over non-critical ones.
// An empty partition scores 100: a location with no critical items
// defined is not penalized for having none.
func (s *ComplianceScorer) EquipmentScore(results []domain.EquipmentCheckResult) decimal.Decimal {
	var criticalPass, criticalTotal, nonCriticalPass, nonCriticalTotal int
	for _, r := range results {
		if r.Critical {
			criticalTotal++
			if r.Passes() {
				criticalPass++
			}
		} else {
			nonCriticalTotal++
			if r.Passes() {
				nonCriticalPass++
			}
		}
	}

	criticalScore := hundred
	if criticalTotal > 0 {
		criticalScore = ratio(criticalPass, criticalTotal)
	}
	nonCriticalScore := hundred
	if nonCriticalTotal > 0 {
		nonCriticalScore = ratio(nonCriticalPass, nonCriticalTotal)
	}

	return criticalScore.Mul(criticalWeight).Add(nonCriticalScore.Mul(nonCriticalWeight))
}

// Score computes all five values for an audit without persisting them.
// Sections that were never created contribute zero to the overall
// rather than failing the computation.
func (s *ComplianceScorer) Score(audit *domain.AuditRecord) domain.AuditScores {
	docScore := decimal.Zero
	if audit.Documents != nil {
		docScore = s.DocumentationScore(*audit.Documents)
	}
	equipScore := s.EquipmentScore(audit.EquipmentChecks)
	condScore := decimal.Zero
	if audit.Condition != nil {
		condScore = s.ConditionScore(*audit.Condition)
	}
	checkScore := decimal.Zero
	if audit.Checks != nil {
		checkScore = s.CheckScore(*audit.Checks)
	}

	overall := docScore.Mul(documentationWeight).
		Add(equipScore.Mul(equipmentWeight)).
		Add(condScore.Mul(conditionWeight)).
		Add(checkScore.Mul(checkWeight))

	return domain.AuditScores{
		Document:  roundScore(docScore),
		Equipment: roundScore(equipScore),
		Condition: roundScore(condScore),
		Check:     roundScore(checkScore),
		Overall:   roundScore(overall),
	}
}

// OverallScore computes the audit's scores and publishes all five
// values atomically. This is the scorer's single side effect.
func (s *ComplianceScorer) OverallScore(ctx context.Context, audit *domain.AuditRecord) (decimal.Decimal, error) {
	scores := s.Score(audit)
	if err := s.Audits.PublishScores(ctx, audit.ID, scores); err != nil {
		return decimal.Zero, err
	}
	audit.ApplyScores(scores)
	return scores.Overall, nil
}

func ratio(points, total int) decimal.Decimal {
	return decimal.NewFromInt(int64(points)).
		Div(decimal.NewFromInt(int64(total))).
		Mul(hundred)
}

// countCompliance is min(found/expected, 1) * 100, with a free pass
// when nothing was expected.
func countCompliance(found, expected int) decimal.Decimal {
	if expected <= 0 {
		return hundred
	}
	frac := decimal.NewFromInt(int64(found)).Div(decimal.NewFromInt(int64(expected)))
	return decimal.Min(frac, one).Mul(hundred)
}

// roundScore rounds half-up to 2 decimal places. Scores are never
// negative, so round-half-away-from-zero is half-up here.
func roundScore(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
