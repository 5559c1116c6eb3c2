package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/vocabdrill/internal/drill"
	"github.com/example/vocabdrill/pkg/models"
)

type filterFlags struct {
	minGrade int
	maxGrade int
	unit     string
	maxLevel int
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.minGrade, "min-grade", 0, "only words at or above this grade")
	cmd.Flags().IntVar(&f.maxGrade, "max-grade", 0, "only words at or below this grade")
	cmd.Flags().StringVar(&f.unit, "unit", "", "only words of this unit")
	cmd.Flags().IntVar(&f.maxLevel, "max-level", 0, "only words at or below this level")
}

// filter turns the flags that were actually set into a WordFilter
func (f *filterFlags) filter(cmd *cobra.Command) models.WordFilter {
	var wf models.WordFilter
	if cmd.Flags().Changed("min-grade") {
		v := f.minGrade
		wf.MinGrade = &v
	}
	if cmd.Flags().Changed("max-grade") {
		v := f.maxGrade
		wf.MaxGrade = &v
	}
	if cmd.Flags().Changed("unit") {
		v := f.unit
		wf.Unit = &v
	}
	if cmd.Flags().Changed("max-level") {
		v := f.maxLevel
		wf.MaxLevel = &v
	}
	return wf
}

func newWordsCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "words",
		Short: "Vocabulary drills",
	}

	nextFilter := &filterFlags{}
	next := &cobra.Command{
		Use:   "next",
		Short: "Show the next word to study",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			userID, err := a.currentUser(ctx)
			if err != nil {
				return err
			}
			w, err := a.words.SelectNext(ctx, userID, nextFilter.filter(cmd))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			return a.print(out, w, func() {
				if w == nil {
					fmt.Fprintln(out, "No words match the filter.")
					return
				}
				printWordPrompt(out, w)
			})
		},
	}
	nextFilter.register(next)

	var answerTime float64
	answer := &cobra.Command{
		Use:   "answer <word-id> <answer>",
		Short: "Check a typed answer and record it",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			wordID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid word ID %q", args[0])
			}
			userID, err := a.currentUser(ctx)
			if err != nil {
				return err
			}
			res, err := a.words.Answer(ctx, userID, wordID, strings.Join(args[1:], " "), answerTime)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			return a.print(out, res, func() { printWordResult(out, res) })
		},
	}
	answer.Flags().Float64Var(&answerTime, "time", 0, "seconds taken to answer")

	drillFilter := &filterFlags{}
	var count int
	drillCmd := &cobra.Command{
		Use:   "drill",
		Short: "Run an interactive word drill",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runWordDrill(cmd, drillFilter.filter(cmd), count)
		},
	}
	drillFilter.register(drillCmd)
	drillCmd.Flags().IntVar(&count, "count", 10, "number of words, 0 for no limit")

	stats := &cobra.Command{
		Use:   "stats",
		Short: "Show how many words cleared each stage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			userID, err := a.currentUser(ctx)
			if err != nil {
				return err
			}
			s, err := a.words.Stats(ctx, userID)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			return a.print(out, s, func() {
				fmt.Fprintf(out, "Words: %d\n", s.TotalItems)
				fmt.Fprintf(out, "Stage 1 cleared: %.1f%%\n", s.Stage1ClearedPct)
				fmt.Fprintf(out, "Stage 2 cleared: %.1f%%\n", s.Stage2ClearedPct)
				fmt.Fprintf(out, "Stage 3 cleared: %.1f%%\n", s.Stage3ClearedPct)
			})
		},
	}

	cmd.AddCommand(next, answer, drillCmd, stats)
	return cmd
}

func printWordPrompt(out io.Writer, w *models.NextWord) {
	fmt.Fprintf(out, "[%d] %s  (stage %d)\n", w.Word.ID, w.Word.Translation, w.Stage)
	if w.Hint != "" {
		fmt.Fprintf(out, "hint: %s\n", w.Hint)
	}
}

func printWordResult(out io.Writer, res *models.WordAnswerResult) {
	if res.IsCorrect {
		fmt.Fprintf(out, "Correct! stage %d, streak %d\n", res.Progress.Stage, res.Progress.CorrectStreak)
		return
	}
	fmt.Fprintf(out, "Wrong. Answer: %s (stage %d)\n", res.CorrectAnswer, res.Progress.Stage)
}

// runWordDrill loops select, prompt, read, answer until count words were
// answered, the input ends, or the learner types "q".
func (a *app) runWordDrill(cmd *cobra.Command, filter models.WordFilter, count int) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	in := bufio.NewScanner(cmd.InOrStdin())

	userID, err := a.currentUser(ctx)
	if err != nil {
		return err
	}

	for n := 0; count <= 0 || n < count; n++ {
		w, err := a.words.SelectNext(ctx, userID, filter)
		if err != nil {
			return err
		}
		if w == nil {
			fmt.Fprintln(out, "No words match the filter.")
			return nil
		}

		printWordPrompt(out, w)
		if w.Hint == drill.AudioOnlyHint {
			a.speak(ctx, w.Word.Text)
		}
		fmt.Fprint(out, "> ")

		started := time.Now()
		if !in.Scan() {
			return in.Err()
		}
		typed := strings.TrimSpace(in.Text())
		if typed == "q" {
			return nil
		}

		res, err := a.words.Answer(ctx, userID, w.Word.ID, typed, time.Since(started).Seconds())
		if err != nil {
			return err
		}
		printWordResult(out, res)
	}
	return nil
}

// speak never fails the drill; a broken TTS setup is only logged
func (a *app) speak(ctx context.Context, text string) {
	if err := a.speaker.Speak(ctx, text); err != nil {
		slog.WarnContext(ctx, "speech failed", "error", err)
	}
}
