package infringement

import (
	"fmt"
	"sort"
	"strings"

	"patent-checker/internal/reference"
)

// LikelihoodThreshold is the exclusive lower bound for a product to be reported
const LikelihoodThreshold = 0.3

const (
	prefixRelevantClaims   = "relevant_claims:"
	prefixExplanation      = "explanation:"
	prefixSpecificFeatures = "specific_features:"
)

// Finding is the structured result of assessing one product against one patent
type Finding struct {
	PatentID         string
	ProductName      string
	Likelihood       float64
	RelevantClaims   []string
	Explanation      string
	SpecificFeatures []string
}

// ParseFinding turns a raw three-line LLM reply into a Finding.
// Lines are classified by a case-sensitive prefix at column zero; unknown lines
// are ignored and a repeated prefix overwrites the earlier value. Malformed input
// yields empty fields, never an error.
func ParseFinding(patent reference.Patent, product reference.Product, raw string) Finding {
	finding := Finding{
		PatentID:         patent.PublicationNumber,
		ProductName:      product.Name,
		RelevantClaims:   []string{},
		SpecificFeatures: []string{},
	}

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSuffix(line, "\r")
		switch {
		case strings.HasPrefix(line, prefixRelevantClaims):
			finding.RelevantClaims = splitList(afterColon(line))
		case strings.HasPrefix(line, prefixExplanation):
			finding.Explanation = strings.TrimSpace(afterColon(line))
		case strings.HasPrefix(line, prefixSpecificFeatures):
			finding.SpecificFeatures = splitList(afterColon(line))
		}
	}

	// Zero claims leaves the ratio undefined; 0.0 keeps the product below threshold
	if len(patent.Claims) > 0 {
		finding.Likelihood = float64(len(finding.RelevantClaims)) / float64(len(patent.Claims))
	}

	return finding
}

func afterColon(line string) string {
	_, value, _ := strings.Cut(line, ":")
	return value
}

// splitList splits on commas and trims each token; empty tokens are kept and counted
func splitList(value string) []string {
	items := strings.Split(value, ",")
	for i, token := range items {
		items[i] = strings.TrimSpace(token)
	}
	return items
}

// String renders the finding for the summary prompt
func (f Finding) String() string {
	return fmt.Sprintf("Product '%s' infringes patent '%s'. Likelihood: %s. Relevant claims: [%s], Explanation: %s, Specific features: [%s]",
		f.ProductName,
		f.PatentID,
		FormatLikelihood(f.Likelihood),
		strings.Join(f.RelevantClaims, ", "),
		f.Explanation,
		strings.Join(f.SpecificFeatures, ", "),
	)
}

// FormatLikelihood renders a ratio as a percentage with two decimals, e.g. 0.5 -> "50.00%"
func FormatLikelihood(likelihood float64) string {
	return fmt.Sprintf("%.2f%%", likelihood*100)
}

// FilterFindings keeps findings strictly above LikelihoodThreshold
func FilterFindings(findings []Finding) []Finding {
	kept := make([]Finding, 0, len(findings))
	for _, f := range findings {
		if f.Likelihood > LikelihoodThreshold {
			kept = append(kept, f)
		}
	}
	return kept
}

// SortFindings orders by likelihood descending; equal likelihoods keep their order
func SortFindings(findings []Finding) {
	sort.SliceStable(findings, func(i, j int) bool {
		return findings[i].Likelihood > findings[j].Likelihood
	})
}
