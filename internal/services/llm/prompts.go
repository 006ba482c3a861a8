package llm

import (
	"fmt"
	"strings"

	"patent-checker/internal/reference"
)

const assessReplyFormat = "relevant_claims: claim1_number, claim2_number, claim3_number\n" +
	"explanation: explanation\n" +
	"specific_features: feature1, feature2, feature3"

func assessSystemPrompt(patent reference.Patent, product reference.Product) string {
	return fmt.Sprintf("You are a professional patent attorney. You have been asked to assess whether the product '%s' infringes on the patent '%s'. Please provide a detailed explanation of your assessment.",
		product.Name, patent.PublicationNumber)
}

func assessUserPrompt(patent reference.Patent, product reference.Product) string {
	return fmt.Sprintf("These are sources for you to assess.\n\n%s\n\n%s. I want you to reply strictly formatted like this:\n\n%s",
		patent.PromptText(), product.PromptText(), assessReplyFormat)
}

func summarySystemPrompt(patent reference.Patent, company reference.Company) string {
	return fmt.Sprintf("You are a professional patent attorney. You have been asked to summarize the assessment of whether the company '%s' infringes on the patent '%s'. Please provide a detailed explanation of your assessment.",
		company.Name, patent.PublicationNumber)
}

func summaryUserPrompt(findings []string) string {
	return fmt.Sprintf("These are sources for you to summarize.\n\n%s\n\nGive a summary of the assessment.",
		strings.Join(findings, "; "))
}
