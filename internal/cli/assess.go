package cli

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

var (
	assessPatent  string
	assessCompany string
	assessRefresh bool
)

var assessCmd = &cobra.Command{
	Use:   "assess",
	Short: "Run one assessment and print it as JSON",
	Long: `Assess runs a single infringement assessment without starting the server.

Example:
  patent-checker assess --patent US-RE49889-E1 --company "Walmart Inc."`,
	RunE: runAssess,
}

func init() {
	assessCmd.Flags().StringVar(&assessPatent, "patent", "", "patent publication number")
	assessCmd.Flags().StringVar(&assessCompany, "company", "", "company name")
	assessCmd.Flags().BoolVar(&assessRefresh, "refresh", false, "evict cached LLM replies for the company before assessing")
	_ = assessCmd.MarkFlagRequired("patent")
	_ = assessCmd.MarkFlagRequired("company")
	rootCmd.AddCommand(assessCmd)
}

func runAssess(cmd *cobra.Command, _ []string) error {
	if err := cfg.ValidateAssessment(); err != nil {
		return err
	}

	client, closeCache, err := newLLMClient(cfg, nil)
	if err != nil {
		return err
	}
	defer closeCache()

	store, err := loadReference(cfg)
	if err != nil {
		return err
	}

	if assessRefresh {
		if err := forgetCachedReplies(cmd.Context(), client, store, assessPatent, assessCompany); err != nil {
			return err
		}
	}

	service := newAssessmentService(cfg, store, client, nil, nil)

	resp, err := service.Assess(cmd.Context(), assessPatent, assessCompany)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}
