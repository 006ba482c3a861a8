package reference

import (
	"fmt"
	"strings"
)

// Claim is a single numbered claim of a patent
type Claim struct {
	Number string `json:"num"`
	Text   string `json:"text"`
}

// Patent is an immutable patent record keyed by publication number
type Patent struct {
	ID                int     `json:"id"`
	PublicationNumber string  `json:"publication_number"`
	Title             string  `json:"title"`
	Abstract          string  `json:"abstract"`
	Description       string  `json:"description"`
	Claims            []Claim `json:"claims"`
}

// Product belongs to exactly one company
type Product struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Company is an immutable company record keyed by name
type Company struct {
	Name     string    `json:"name"`
	Products []Product `json:"products"`
}

// PromptText renders the patent for an LLM prompt: title, abstract,
// description and every claim text.
func (p Patent) PromptText() string {
	texts := make([]string, len(p.Claims))
	for i, c := range p.Claims {
		texts[i] = c.Text
	}
	return fmt.Sprintf("The patent '%s' is about %s. Description: %s, Claims: [%s]",
		p.Title, p.Abstract, p.Description, strings.Join(texts, ", "))
}

// PromptText renders the product for an LLM prompt.
func (p Product) PromptText() string {
	return fmt.Sprintf("The product '%s' is about %s", p.Name, p.Description)
}

func (p Patent) String() string {
	return fmt.Sprintf("%s: %s - %s", p.PublicationNumber, p.Title, p.Abstract)
}

func (c Company) String() string {
	names := make([]string, len(c.Products))
	for i, p := range c.Products {
		names[i] = p.Name
	}
	return fmt.Sprintf("%s: %s", c.Name, strings.Join(names, ", "))
}
