package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"patent-checker/internal/repo"
	"patent-checker/internal/services/infringement"
)

// AssessmentIDHeader carries the id of an auto-saved assessment
const AssessmentIDHeader = "X-Assessment-Id"

const maxBodyBytes = 1 << 20

// Assessor runs infringement assessments
type Assessor interface {
	Assess(ctx context.Context, patentID, companyName string) (*infringement.AssessResponse, error)
}

// AssessmentHandler handles assessment HTTP requests
type AssessmentHandler struct {
	assessor Assessor
	repo     repo.Repository
}

// NewAssessmentHandler creates a new AssessmentHandler
func NewAssessmentHandler(assessor Assessor, repository repo.Repository) *AssessmentHandler {
	return &AssessmentHandler{assessor: assessor, repo: repository}
}

// RegisterRoutes registers all assessment routes
func (h *AssessmentHandler) RegisterRoutes(r chi.Router) {
	r.Post("/api/gpt/v1/assess_infringement", h.Assess)
	r.Post("/api/infringement/v1", h.Create)
	r.Get("/api/infringement/v1/{id}", h.Get)
}

// Assess runs a live assessment through the LLM
func (h *AssessmentHandler) Assess(w http.ResponseWriter, r *http.Request) {
	var req infringement.AssessRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, infringement.ErrCodeBadRequest, "invalid request body: "+err.Error())
		return
	}
	if msg := req.Validate(); msg != "" {
		writeError(w, r, http.StatusBadRequest, infringement.ErrCodeValidation, msg)
		return
	}

	resp, err := h.assessor.Assess(r.Context(), req.PatentID, req.CompanyName)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	if resp.AssessmentID != nil {
		w.Header().Set(AssessmentIDHeader, strconv.FormatInt(*resp.AssessmentID, 10))
	}
	writeJSON(w, http.StatusOK, resp)
}

// Create stores a client-supplied assessment without calling the LLM
func (h *AssessmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateAssessmentRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, infringement.ErrCodeBadRequest, "invalid request body: "+err.Error())
		return
	}

	switch {
	case req.PatentID == "":
		writeError(w, r, http.StatusBadRequest, infringement.ErrCodeValidation, "patent_id is required")
		return
	case req.CompanyName == "":
		writeError(w, r, http.StatusBadRequest, infringement.ErrCodeValidation, "company_name is required")
		return
	}

	analysisDate, err := time.Parse(time.RFC3339, req.AnalysisDate)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, infringement.ErrCodeValidation, "analysis_date must be an ISO-8601 timestamp")
		return
	}

	products := bytes.TrimSpace(req.TopInfringingProducts)
	if len(products) == 0 || products[0] != '[' {
		writeError(w, r, http.StatusBadRequest, infringement.ErrCodeValidation, "top_infringing_products must be a JSON array")
		return
	}

	created, err := h.repo.CreateAssessment(r.Context(), repo.CreateAssessmentParams{
		PatentID:              req.PatentID,
		CompanyName:           req.CompanyName,
		AnalysisDate:          analysisDate,
		TopInfringingProducts: products,
		OverallRiskAssessment: req.OverallRiskAssessment,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, newAssessmentRecord(created))
}

// Get returns a stored assessment by id
func (h *AssessmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, infringement.ErrCodeBadRequest, "id must be an integer")
		return
	}

	assessment, err := h.repo.GetAssessmentByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, newAssessmentRecord(assessment))
}

// RootHandler serves the smoke-test routes
type RootHandler struct {
	repo repo.Repository
}

// NewRootHandler creates a new RootHandler
func NewRootHandler(repository repo.Repository) *RootHandler {
	return &RootHandler{repo: repository}
}

// RegisterRoutes registers the smoke-test routes
func (h *RootHandler) RegisterRoutes(r chi.Router) {
	r.Route("/root", func(r chi.Router) {
		r.Get("/ruok", h.Ruok)
		r.Post("/testLog", h.CreateTestLog)
		r.Get("/testLogs", h.ListTestLogs)
	})
}

// Ruok is a liveness probe that needs no dependencies
func (h *RootHandler) Ruok(w http.ResponseWriter, r *http.Request) {
	writeText(w, http.StatusOK, "I am ok, my name is root")
}

// CreateTestLog inserts a test row to exercise the database
func (h *RootHandler) CreateTestLog(w http.ResponseWriter, r *http.Request) {
	entry, err := h.repo.CreateTestLog(r.Context(), "test log")
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeText(w, http.StatusOK, fmt.Sprintf("Created test log: %d", entry.ID))
}

// ListTestLogs lists every test row as plain text
func (h *RootHandler) ListTestLogs(w http.ResponseWriter, r *http.Request) {
	logs, err := h.repo.ListTestLogs(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	var sb strings.Builder
	for _, l := range logs {
		fmt.Fprintf(&sb, "Test log: %d created at: %s\n", l.ID, l.CreatedAt.UTC().Format(time.RFC3339))
	}
	writeText(w, http.StatusOK, sb.String())
}

func writeText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	w.Write([]byte(body))
}

// decodeBody decodes a size-limited JSON body into v
func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(v)
}
