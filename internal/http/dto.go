package http

import (
	"encoding/json"
	"time"

	"patent-checker/internal/repo"
)

// CreateAssessmentRequest is the body of the create-assessment endpoint
type CreateAssessmentRequest struct {
	PatentID              string          `json:"patent_id"`
	CompanyName           string          `json:"company_name"`
	AnalysisDate          string          `json:"analysis_date"`
	TopInfringingProducts json.RawMessage `json:"top_infringing_products"`
	OverallRiskAssessment string          `json:"overall_risk_assessment"`
}

// AssessmentRecord is a stored assessment as returned to clients.
// Timestamps are unix seconds; analysis_date stays ISO-8601.
type AssessmentRecord struct {
	ID                    int64           `json:"id"`
	PatentID              string          `json:"patent_id"`
	CompanyName           string          `json:"company_name"`
	AnalysisDate          string          `json:"analysis_date"`
	TopInfringingProducts json.RawMessage `json:"top_infringing_products"`
	OverallRiskAssessment string          `json:"overall_risk_assessment"`
	CreatedAt             int64           `json:"created_at"`
	UpdatedAt             int64           `json:"updated_at"`
}

func newAssessmentRecord(a repo.Assessment) AssessmentRecord {
	return AssessmentRecord{
		ID:                    a.ID,
		PatentID:              a.PatentID,
		CompanyName:           a.CompanyName,
		AnalysisDate:          a.AnalysisDate.UTC().Format(time.RFC3339),
		TopInfringingProducts: json.RawMessage(a.TopInfringingProducts),
		OverallRiskAssessment: a.OverallRiskAssessment,
		CreatedAt:             a.CreatedAt.Unix(),
		UpdatedAt:             a.UpdatedAt.Unix(),
	}
}
