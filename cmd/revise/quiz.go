package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Abishek0612/student-revision-app-client/internal/domain"
	"github.com/Abishek0612/student-revision-app-client/internal/quiz"
	"github.com/Abishek0612/student-revision-app-client/internal/session"
)

var quizCmd = &cobra.Command{
	Use:   "quiz",
	Short: "Practise with generated quizzes",
}

var quizGenerateCmd = &cobra.Command{
	Use:   "generate <document-id>",
	Short: "Generate a quiz from a ready document and answer it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		count, _ := cmd.Flags().GetInt("count")
		if !cmd.Flags().Changed("count") {
			count = deps.Config.QuestionCount
		}
		rawKinds, _ := cmd.Flags().GetStringSlice("kinds")
		kinds, err := parseKinds(rawKinds)
		if err != nil {
			return err
		}

		if err := selectDocument(ctx, args[0]); err != nil {
			return err
		}
		questions, err := deps.Session.GenerateQuiz(ctx, count, kinds)
		if err != nil {
			return err
		}
		if jsonOutput(cmd) {
			return printJSON(cmd.OutOrStdout(), questions)
		}
		return takeQuiz(cmd.InOrStdin(), cmd.OutOrStdout(), deps.Session.Quiz)
	},
}

var quizProgressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Show quiz history with strengths and weaknesses",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		attempts, err := deps.Session.Quiz.LoadProgress(cmd.Context())
		if err != nil {
			return err
		}
		stats, ok := quiz.Summarize(attempts)
		if jsonOutput(cmd) {
			return printJSON(cmd.OutOrStdout(), stats)
		}
		if !ok {
			fmt.Fprintln(cmd.OutOrStdout(), "No quiz attempts yet.")
			return nil
		}
		renderStats(cmd.OutOrStdout(), stats)
		return nil
	},
}

func init() {
	quizGenerateCmd.Flags().Int("count", 5, "Number of questions (1-20, overrides QUIZ_QUESTION_COUNT)")
	quizGenerateCmd.Flags().StringSlice("kinds", kindNames(session.DefaultQuestionKinds), "Question kinds (MCQ, SAQ)")

	quizCmd.AddCommand(quizGenerateCmd)
	quizCmd.AddCommand(quizProgressCmd)
}

func kindNames(kinds []domain.QuestionKind) []string {
	out := make([]string, len(kinds))
	for i, k := range kinds {
		out[i] = string(k)
	}
	return out
}

func parseKinds(raw []string) ([]domain.QuestionKind, error) {
	kinds := make([]domain.QuestionKind, 0, len(raw))
	for _, r := range raw {
		switch k := domain.QuestionKind(strings.ToUpper(strings.TrimSpace(r))); k {
		case domain.KindMultipleChoice, domain.KindShortAnswer:
			kinds = append(kinds, k)
		default:
			return nil, fmt.Errorf("unknown question kind %q (valid: MCQ, SAQ)", r)
		}
	}
	if len(kinds) == 0 {
		return nil, fmt.Errorf("at least one question kind is required")
	}
	return kinds, nil
}

// resolveAnswer maps an option number to its text for multiple choice.
func resolveAnswer(q domain.Question, input string) string {
	input = strings.TrimSpace(input)
	if q.Kind != domain.KindMultipleChoice {
		return input
	}
	if n, err := strconv.Atoi(input); err == nil && n >= 1 && n <= len(q.Options) {
		return q.Options[n-1]
	}
	return input
}

// takeQuiz asks every question on in, then submits and prints the review.
func takeQuiz(in io.Reader, out io.Writer, engine *quiz.Engine) error {
	sess := engine.State().Session
	if sess == nil {
		return fmt.Errorf("no quiz to take")
	}
	scanner := bufio.NewScanner(in)
	for i, q := range sess.Questions {
		renderQuestion(out, i, q)
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			break
		}
		if err := engine.Answer(i, resolveAnswer(q, scanner.Text())); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	score, err := engine.Submit()
	if err != nil {
		return err
	}
	fmt.Fprintln(out)
	renderReview(out, engine.State().Session, score)
	return nil
}
