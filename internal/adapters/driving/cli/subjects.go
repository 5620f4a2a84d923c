package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/tutorbot/internal/core/domain"
	"github.com/custodia-labs/tutorbot/internal/core/ports/driving"
)

var subjectsJSON bool

var subjectsCmd = &cobra.Command{
	Use:   "subjects",
	Short: "List subjects and their knowledge bases",
	Long: `Lists every subject in the catalog with its record and question counts.
The default subject is loaded at start; the others are switched to by name.`,
	Args: cobra.NoArgs,
	RunE: runSubjects,
}

func init() {
	subjectsCmd.Flags().BoolVar(&subjectsJSON, "json", false, "output subjects as JSON")
	rootCmd.AddCommand(subjectsCmd)
}

func runSubjects(cmd *cobra.Command, _ []string) error {
	if knowledgeService == nil {
		return errors.New("knowledge service not configured")
	}

	summaries, err := knowledgeService.List(cmd.Context())
	if err != nil {
		if errors.Is(err, domain.ErrKnowledgeBaseCorrupt) {
			return fmt.Errorf("%w (fix the file or run 'tutorbot import')", err)
		}
		return fmt.Errorf("failed to list subjects: %w", err)
	}

	if subjectsJSON {
		return outputSubjectsJSON(cmd, summaries)
	}
	outputSubjectsTable(cmd, summaries)
	return nil
}

func outputSubjectsJSON(cmd *cobra.Command, summaries []driving.SubjectSummary) error {
	type subjectJSON struct {
		Subject   string `json:"subject"`
		Default   bool   `json:"default"`
		Records   int    `json:"records"`
		Questions int    `json:"questions"`
		Corrupt   bool   `json:"corrupt,omitempty"`
	}

	out := make([]subjectJSON, len(summaries))
	for i, s := range summaries {
		out[i] = subjectJSON{
			Subject:   s.Subject.String(),
			Default:   s.IsDefault,
			Records:   s.Records,
			Questions: s.Questions,
			Corrupt:   s.Corrupt,
		}
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal subjects: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSubjectsTable(cmd *cobra.Command, summaries []driving.SubjectSummary) {
	cmd.Printf("%-12s %8s %10s\n", "SUBJECT", "RECORDS", "QUESTIONS")
	empty, corrupt := 0, 0
	for _, s := range summaries {
		name := s.Subject.String()
		if s.IsDefault {
			name += " *"
		}
		if s.Corrupt {
			cmd.Printf("%-12s %8s %10s\n", name, "corrupt", "-")
			corrupt++
			continue
		}
		cmd.Printf("%-12s %8d %10d\n", name, s.Records, s.Questions)
		if s.Records == 0 {
			empty++
		}
	}

	cmd.Println()
	cmd.Println("* loaded at start")
	if empty > 0 {
		cmd.Println("Run 'tutorbot import --samples' to install the sample knowledge bases.")
	}
	if corrupt > 0 {
		cmd.Println("Fix corrupt subjects with 'tutorbot import <subject> <file>'.")
	}
}
