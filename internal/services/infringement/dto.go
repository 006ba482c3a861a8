package infringement

// AssessRequest represents an assessment request
type AssessRequest struct {
	PatentID    string `json:"patent_id"`
	CompanyName string `json:"company_name"`
}

// Validate reports the first missing field
func (r AssessRequest) Validate() string {
	switch {
	case r.PatentID == "":
		return "patent_id is required"
	case r.CompanyName == "":
		return "company_name is required"
	}
	return ""
}

// AssessResponse is the assessment returned to clients
type AssessResponse struct {
	PatentID              string        `json:"patent_id"`
	CompanyName           string        `json:"company_name"`
	AnalysisDate          string        `json:"analysis_date"`
	TopInfringingProducts []ProductItem `json:"top_infringing_products"`
	OverallRiskAssessment string        `json:"overall_risk_assessment"`

	// AssessmentID is set when the result was persisted
	AssessmentID *int64 `json:"-"`
}

// ProductItem is one reported product
type ProductItem struct {
	ProductName            string   `json:"product_name"`
	InfringementLikelihood string   `json:"infringement_likelihood"`
	RelevantClaims         []string `json:"relevant_claims"`
	Explanation            string   `json:"explanation"`
	SpecificFeatures       []string `json:"specific_features"`
}

// NewProductItem converts a finding to its wire form
func NewProductItem(f Finding) ProductItem {
	return ProductItem{
		ProductName:            f.ProductName,
		InfringementLikelihood: FormatLikelihood(f.Likelihood),
		RelevantClaims:         f.RelevantClaims,
		Explanation:            f.Explanation,
		SpecificFeatures:       f.SpecificFeatures,
	}
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorInfo `json:"error"`
}

// ErrorInfo represents error details
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	ReqID   string `json:"req_id,omitempty"`
}

// Common error codes
const (
	ErrCodeValidation       = "VALIDATION_ERROR"
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeInternal         = "INTERNAL_ERROR"
	ErrCodeUpstream         = "UPSTREAM_ERROR"
	ErrCodeRateLimit        = "RATE_LIMIT"
	ErrCodeBadRequest       = "BAD_REQUEST"
	ErrCodeMethodNotAllowed = "METHOD_NOT_ALLOWED"
)

// NewErrorResponse creates a new error response
func NewErrorResponse(code, message, reqID string) *ErrorResponse {
	return &ErrorResponse{
		Error: ErrorInfo{
			Code:    code,
			Message: message,
			ReqID:   reqID,
		},
	}
}
