package reference

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
)

// patentRecord mirrors one entry of the patents asset. Claims may be a JSON
// array or a string holding an encoded JSON array.
type patentRecord struct {
	ID                int             `json:"id"`
	PublicationNumber string          `json:"publication_number"`
	Title             string          `json:"title"`
	Abstract          string          `json:"abstract"`
	Description       string          `json:"description"`
	Claims            json.RawMessage `json:"claims"`
}

type companiesFile struct {
	Companies []Company `json:"companies"`
}

// LoadPatents reads the patents asset and indexes it by publication number
func LoadPatents(path string) (map[string]Patent, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read patents file %s: %w", path, err)
	}

	var records []patentRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to decode patents from %s: %w", path, err)
	}

	patents := make(map[string]Patent, len(records))
	for i, rec := range records {
		if rec.PublicationNumber == "" {
			return nil, fmt.Errorf("patent %d in %s has no publication_number", i, path)
		}

		claims, err := decodeClaims(rec.Claims)
		if err != nil {
			return nil, fmt.Errorf("failed to decode claims of patent %s: %w", rec.PublicationNumber, err)
		}

		if _, dup := patents[rec.PublicationNumber]; dup {
			log.Warn().Str("publication_number", rec.PublicationNumber).Msg("Duplicate patent in asset, keeping last")
		}
		patents[rec.PublicationNumber] = Patent{
			ID:                rec.ID,
			PublicationNumber: rec.PublicationNumber,
			Title:             rec.Title,
			Abstract:          rec.Abstract,
			Description:       rec.Description,
			Claims:            claims,
		}
	}

	return patents, nil
}

// decodeClaims accepts both `[{"num":..,"text":..}]` and the same array
// encoded as a JSON string.
func decodeClaims(raw json.RawMessage) ([]Claim, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return []Claim{}, nil
	}

	if raw[0] == '"' {
		var encoded string
		if err := json.Unmarshal(raw, &encoded); err != nil {
			return nil, err
		}
		raw = []byte(encoded)
	}

	claims := []Claim{}
	if err := json.Unmarshal(raw, &claims); err != nil {
		return nil, err
	}
	return claims, nil
}

// LoadCompanies reads the company/products asset and indexes it by company name
func LoadCompanies(path string) (map[string]Company, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read companies file %s: %w", path, err)
	}

	var file companiesFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to decode companies from %s: %w", path, err)
	}

	companies := make(map[string]Company, len(file.Companies))
	for i, c := range file.Companies {
		if c.Name == "" {
			return nil, fmt.Errorf("company %d in %s has no name", i, path)
		}
		if _, dup := companies[c.Name]; dup {
			log.Warn().Str("company", c.Name).Msg("Duplicate company in asset, keeping last")
		}
		if c.Products == nil {
			c.Products = []Product{}
		}
		companies[c.Name] = c
	}

	return companies, nil
}

// Load reads both assets and returns the resulting Store
func Load(patentsPath, companiesPath string) (*Store, error) {
	log.Info().Str("path", patentsPath).Msg("Loading patents")
	patents, err := LoadPatents(patentsPath)
	if err != nil {
		return nil, err
	}

	log.Info().Str("path", companiesPath).Msg("Loading company products")
	companies, err := LoadCompanies(companiesPath)
	if err != nil {
		return nil, err
	}

	store := NewStore(patents, companies)
	p, c := store.Counts()
	log.Info().Int("patents", p).Int("companies", c).Msg("Reference data loaded")
	return store, nil
}
