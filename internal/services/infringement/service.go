package infringement

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"patent-checker/internal/reference"
	"patent-checker/internal/repo"
	"patent-checker/internal/services/llm"
)

// Outcomes reported to the OutcomeRecorder
const (
	OutcomeSuccess     = "success"
	OutcomeNotFound    = "not_found"
	OutcomeNoProducts  = "no_products"
	OutcomeUpstreamErr = "upstream_error"
)

// Saver persists successful assessments
type Saver interface {
	CreateAssessment(ctx context.Context, arg repo.CreateAssessmentParams) (repo.Assessment, error)
}

// OutcomeRecorder observes finished assessments
type OutcomeRecorder interface {
	RecordAssessment(outcome string)
}

// Service runs infringement assessments against the reference store
type Service struct {
	store       *reference.Store
	llm         llm.Client
	concurrency int
	now         func() time.Time
	saver       Saver
	recorder    OutcomeRecorder
}

// Option configures a Service
type Option func(*Service)

// WithClock overrides the analysis date source
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithConcurrency bounds the number of in-flight product assessments
func WithConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// WithAutoSave persists every successful assessment through saver
func WithAutoSave(saver Saver) Option {
	return func(s *Service) { s.saver = saver }
}

// WithRecorder reports assessment outcomes
func WithRecorder(recorder OutcomeRecorder) Option {
	return func(s *Service) { s.recorder = recorder }
}

// NewService creates a new Service
func NewService(store *reference.Store, client llm.Client, opts ...Option) *Service {
	s := &Service{
		store:       store,
		llm:         client,
		concurrency: 1,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Assess evaluates every product of companyName against patentID
func (s *Service) Assess(ctx context.Context, patentID, companyName string) (*AssessResponse, error) {
	resp, err := s.assess(ctx, patentID, companyName)
	s.record(err)
	return resp, err
}

func (s *Service) assess(ctx context.Context, patentID, companyName string) (*AssessResponse, error) {
	logger := zerolog.Ctx(ctx)

	// Step 1: Resolve reference data
	patent, ok := s.store.Patent(patentID)
	if !ok {
		return nil, patentNotFound(patentID)
	}
	company, ok := s.store.Company(companyName)
	if !ok {
		return nil, companyNotFound(companyName)
	}

	// No claims means no product can clear the threshold
	if len(patent.Claims) == 0 {
		logger.Info().Str("patent_id", patentID).Msg("Patent has no claims, skipping LLM calls")
		return nil, ErrNoInfringingProducts
	}

	// Step 2: Assess each product; failures are skipped
	findings := s.assessProducts(ctx, patent, company)
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUpstream, err)
	}

	// Step 3: Filter and rank
	top := FilterFindings(findings)
	SortFindings(top)
	if len(top) == 0 {
		return nil, ErrNoInfringingProducts
	}

	// Step 4: Summarize
	rendered := make([]string, len(top))
	for i, f := range top {
		rendered[i] = f.String()
	}
	summary, err := s.llm.Summarize(ctx, patent, company, rendered)
	if err != nil {
		logger.Error().Err(err).Str("patent_id", patentID).Str("company", companyName).Msg("Failed to summarize assessment")
		return nil, fmt.Errorf("%w: %w", ErrUpstream, err)
	}

	items := make([]ProductItem, len(top))
	for i, f := range top {
		items[i] = NewProductItem(f)
	}

	resp := &AssessResponse{
		PatentID:              patent.PublicationNumber,
		CompanyName:           company.Name,
		AnalysisDate:          s.now().UTC().Format(time.RFC3339),
		TopInfringingProducts: items,
		OverallRiskAssessment: summary,
	}

	if s.saver != nil {
		s.save(ctx, resp)
	}

	logger.Info().
		Str("patent_id", patentID).
		Str("company", companyName).
		Int("products", len(company.Products)).
		Int("reported", len(items)).
		Msg("Assessment completed")

	return resp, nil
}

// assessProducts returns one finding per successfully assessed product, in company order
func (s *Service) assessProducts(ctx context.Context, patent reference.Patent, company reference.Company) []Finding {
	logger := zerolog.Ctx(ctx)
	results := make([]*Finding, len(company.Products))

	var g errgroup.Group
	g.SetLimit(s.concurrency)

	for i, product := range company.Products {
		g.Go(func() error {
			raw, err := s.llm.AssessProduct(ctx, patent, product)
			if err != nil {
				logger.Warn().Err(err).Str("product", product.Name).Msg("Failed to assess product, skipping")
				return nil
			}
			finding := ParseFinding(patent, product, raw)
			results[i] = &finding
			return nil
		})
	}
	_ = g.Wait()

	findings := make([]Finding, 0, len(results))
	for _, f := range results {
		if f != nil {
			findings = append(findings, *f)
		}
	}
	return findings
}

// save persists resp; a failure is logged and leaves AssessmentID unset
func (s *Service) save(ctx context.Context, resp *AssessResponse) {
	logger := zerolog.Ctx(ctx)

	products, err := json.Marshal(resp.TopInfringingProducts)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to encode assessment for saving")
		return
	}
	analysisDate, err := time.Parse(time.RFC3339, resp.AnalysisDate)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to parse analysis date for saving")
		return
	}

	saved, err := s.saver.CreateAssessment(ctx, repo.CreateAssessmentParams{
		PatentID:              resp.PatentID,
		CompanyName:           resp.CompanyName,
		AnalysisDate:          analysisDate,
		TopInfringingProducts: products,
		OverallRiskAssessment: resp.OverallRiskAssessment,
	})
	if err != nil {
		logger.Error().Err(err).Msg("Failed to save assessment")
		return
	}
	resp.AssessmentID = &saved.ID
}

func (s *Service) record(err error) {
	if s.recorder == nil {
		return
	}
	s.recorder.RecordAssessment(Outcome(err))
}

// Outcome classifies an Assess error for metrics
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.Is(err, ErrPatentNotFound), errors.Is(err, ErrCompanyNotFound):
		return OutcomeNotFound
	case errors.Is(err, ErrNoInfringingProducts):
		return OutcomeNoProducts
	default:
		return OutcomeUpstreamErr
	}
}
