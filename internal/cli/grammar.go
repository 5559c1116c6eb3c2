package cli

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/example/vocabdrill/internal/drill"
	"github.com/example/vocabdrill/pkg/models"
)

func newGrammarCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "grammar",
		Short: "Grammar drills",
	}

	topics := &cobra.Command{
		Use:   "topics",
		Short: "List grammar topics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := a.grammar.ListTopics(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			return a.print(out, list, func() {
				for _, t := range list {
					fmt.Fprintf(out, "%d\tlevel %d\t%s\n", t.ID, t.Level, t.Title)
				}
			})
		},
	}

	next := &cobra.Command{
		Use:   "next <topic-id>",
		Short: "Show a random question of a topic",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			topicID, err := parseID(args[0], "topic")
			if err != nil {
				return err
			}
			userID, err := a.currentUser(ctx)
			if err != nil {
				return err
			}
			q, err := a.grammar.NextQuestion(ctx, userID, topicID)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			return a.print(out, q, func() {
				if q == nil {
					fmt.Fprintln(out, "This topic has no questions.")
					return
				}
				printQuestion(out, q)
			})
		},
	}

	check := &cobra.Command{
		Use:   "check <question-id> <answer>",
		Short: "Check an answer and update mastery",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			questionID, err := parseID(args[0], "question")
			if err != nil {
				return err
			}
			userID, err := a.currentUser(ctx)
			if err != nil {
				return err
			}
			res, err := a.grammar.CheckAnswer(ctx, userID, questionID, strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			if res == nil {
				return fmt.Errorf("%w: id %d", drill.ErrQuestionNotFound, questionID)
			}
			out := cmd.OutOrStdout()
			return a.print(out, res, func() { printGrammarResult(out, res) })
		},
	}

	var count int
	drillCmd := &cobra.Command{
		Use:   "drill <topic-id>",
		Short: "Run an interactive grammar drill",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			topicID, err := parseID(args[0], "topic")
			if err != nil {
				return err
			}
			return a.runGrammarDrill(cmd, topicID, count)
		},
	}
	drillCmd.Flags().IntVar(&count, "count", 10, "number of questions, 0 for no limit")

	overview := &cobra.Command{
		Use:   "overview",
		Short: "Show mastery for every topic",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			userID, err := a.currentUser(ctx)
			if err != nil {
				return err
			}
			rows, err := a.grammar.Overview(ctx, userID)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			return a.print(out, rows, func() {
				for _, r := range rows {
					fmt.Fprintf(out, "%3d%%\t%s\t(%d correct, %d wrong)\n",
						r.Progress.MasteryLevel, r.Topic.Title, r.Progress.CorrectCount, r.Progress.WrongCount)
				}
			})
		},
	}

	cmd.AddCommand(topics, next, check, drillCmd, overview)
	return cmd
}

func parseID(s, what string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s ID %q", what, s)
	}
	return id, nil
}

func printQuestion(out io.Writer, q *models.GrammarQuestion) {
	fmt.Fprintf(out, "[%d] %s\n", q.ID, q.Prompt)
	for i, c := range q.Choices {
		fmt.Fprintf(out, "  %d) %s\n", i+1, c)
	}
}

func printGrammarResult(out io.Writer, res *models.GrammarResult) {
	if res.IsCorrect {
		fmt.Fprintf(out, "Correct! mastery %d%%\n", res.MasteryLevel)
	} else {
		fmt.Fprintf(out, "Wrong. Answer: %s (mastery %d%%)\n", res.CorrectAnswer, res.MasteryLevel)
	}
	if res.Explanation != "" {
		fmt.Fprintln(out, res.Explanation)
	}
}

// choiceAnswer lets a learner type the number of a multiple-choice option.
// Text matching an option wins over its reading as a number.
func choiceAnswer(q *models.GrammarQuestion, typed string) string {
	if q.Kind != models.MultipleChoice {
		return typed
	}
	for _, c := range q.Choices {
		if drill.AnswersMatch(typed, c) {
			return c
		}
	}
	n, err := strconv.Atoi(strings.TrimSpace(typed))
	if err != nil || n < 1 || n > len(q.Choices) {
		return typed
	}
	return q.Choices[n-1]
}

func (a *app) runGrammarDrill(cmd *cobra.Command, topicID int64, count int) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	in := bufio.NewScanner(cmd.InOrStdin())

	userID, err := a.currentUser(ctx)
	if err != nil {
		return err
	}
	topic, err := a.grammar.Topic(ctx, topicID)
	if err != nil {
		return err
	}
	if topic == nil {
		return fmt.Errorf("%w: id %d", drill.ErrTopicNotFound, topicID)
	}
	fmt.Fprintf(out, "%s\n", topic.Title)

	for n := 0; count <= 0 || n < count; n++ {
		q, err := a.grammar.NextQuestion(ctx, userID, topicID)
		if err != nil {
			return err
		}
		if q == nil {
			fmt.Fprintln(out, "This topic has no questions.")
			return nil
		}

		printQuestion(out, q)
		fmt.Fprint(out, "> ")
		if !in.Scan() {
			return in.Err()
		}
		typed := strings.TrimSpace(in.Text())
		if typed == "q" {
			return nil
		}

		res, err := a.grammar.CheckAnswer(ctx, userID, q.ID, choiceAnswer(q, typed))
		if err != nil {
			return err
		}
		if res == nil {
			continue
		}
		printGrammarResult(out, res)
	}
	return nil
}
