package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/vocabdrill/internal/importer"
)

func newImportCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Load reference data",
	}

	cfg := importer.DefaultImportConfig()
	words := &cobra.Command{
		Use:   "words <file>",
		Short: "Import words from a .json, .csv or .xlsx file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.FilePath = args[0]
			result, err := a.importer.ImportWords(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			return a.printImportResult(cmd, result)
		},
	}
	words.Flags().StringVar(&cfg.SheetName, "sheet", cfg.SheetName, "Excel sheet name (first sheet when empty)")
	words.Flags().IntVar(&cfg.StartRow, "start-row", cfg.StartRow, "first data row, 1-based")
	words.Flags().StringVar(&cfg.TextColumn, "text-col", cfg.TextColumn, "column with the word")
	words.Flags().StringVar(&cfg.TranslationColumn, "translation-col", cfg.TranslationColumn, "column with the translation")
	words.Flags().StringVar(&cfg.GradeColumn, "grade-col", cfg.GradeColumn, "column with the grade")
	words.Flags().StringVar(&cfg.UnitColumn, "unit-col", cfg.UnitColumn, "column with the unit")
	words.Flags().StringVar(&cfg.LevelColumn, "level-col", cfg.LevelColumn, "column with the level")

	grammar := &cobra.Command{
		Use:   "grammar <topics.json> [questions.json]",
		Short: "Import grammar topics and questions",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			questions := ""
			if len(args) == 2 {
				questions = args[1]
			}
			result, err := a.importer.ImportGrammar(cmd.Context(), args[0], questions)
			if err != nil {
				return err
			}
			return a.printImportResult(cmd, result)
		},
	}

	cmd.AddCommand(words, grammar)
	return cmd
}

func (a *app) printImportResult(cmd *cobra.Command, result *importer.ImportResult) error {
	out := cmd.OutOrStdout()
	return a.print(out, result, func() {
		fmt.Fprintf(out, "Processed %d, created %d, skipped %d, errors %d\n",
			result.TotalProcessed, result.Created, result.Skipped, len(result.Errors))
		for _, e := range result.Errors {
			fmt.Fprintf(out, "- %s\n", e)
		}
	})
}
