package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/tutorbot/internal/adapters/driven/knowledge/samples"
	"github.com/custodia-labs/tutorbot/internal/core/domain"
)

var (
	importSamples bool
	importForce   bool
)

var importCmd = &cobra.Command{
	Use:   "import <subject> <file>",
	Short: "Replace a subject's knowledge base",
	Long: `Replaces every record of a subject with the records of a JSON file.
The file holds an array of records:

  [{"questions": ["what is a stack", "define stack"], "answer": "..."}]

Use "-" as the file to read standard input.

With --samples the bundled sample knowledge bases are installed for every
subject that has no records yet (all subjects with --force).`,
	Example: `  tutorbot import java java.json
  tutorbot import --samples`,
	Args: func(cmd *cobra.Command, args []string) error {
		if importSamples {
			return cobra.NoArgs(cmd, args)
		}
		return cobra.ExactArgs(2)(cmd, args)
	},
	RunE: runImport,
}

func init() {
	importCmd.Flags().BoolVar(&importSamples, "samples", false, "install the bundled sample knowledge bases")
	importCmd.Flags().BoolVar(&importForce, "force", false, "with --samples, overwrite existing records")
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	if knowledgeService == nil {
		return errors.New("knowledge service not configured")
	}
	if importSamples {
		return importSampleData(cmd)
	}

	subject := domain.Subject(strings.ToLower(args[0]))
	r, closeFn, err := openInput(cmd, args[1])
	if err != nil {
		return err
	}
	defer closeFn()

	n, err := knowledgeService.Import(cmd.Context(), subject, r)
	if err != nil {
		return fmt.Errorf("import %s: %w", subject, err)
	}
	cmd.Printf("Imported %d records into %s.\n", n, subject)
	return nil
}

func importSampleData(cmd *cobra.Command) error {
	ctx := cmd.Context()
	catalog := knowledgeService.Catalog()

	installed := 0
	for _, subject := range samples.Subjects() {
		if !catalog.Contains(subject) {
			continue
		}
		if !importForce {
			kb, err := knowledgeService.Get(ctx, subject)
			if err == nil && !kb.IsEmpty() {
				cmd.Printf("  %-8s kept (%d records)\n", subject, kb.Len())
				continue
			}
		}

		raw, err := samples.Raw(subject)
		if err != nil {
			return err
		}
		n, err := knowledgeService.Import(ctx, subject, bytes.NewReader(raw))
		if err != nil {
			return fmt.Errorf("import %s: %w", subject, err)
		}
		cmd.Printf("  %-8s %d records\n", subject, n)
		installed++
	}

	cmd.Printf("Installed samples for %d subjects.\n", installed)
	return nil
}

// openInput opens a file argument, "-" meaning standard input.
func openInput(cmd *cobra.Command, name string) (io.Reader, func(), error) {
	if name == "-" {
		return cmd.InOrStdin(), func() {}, nil
	}
	f, err := os.Open(name) //nolint:gosec // user supplied path
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", name, err)
	}
	return f, func() { f.Close() }, nil //nolint:errcheck // read only
}
