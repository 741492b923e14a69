package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/Abishek0612/student-revision-app-client/internal/domain"
	"github.com/Abishek0612/student-revision-app-client/internal/quiz"
)

var (
	green  = color.New(color.FgGreen).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	faint  = color.New(color.Faint).SprintFunc()
)

func statusLabel(s domain.DocumentStatus) string {
	switch s {
	case domain.StatusReady:
		return green(string(s))
	case domain.StatusError:
		return red(string(s))
	default:
		return yellow(string(s))
	}
}

func renderDocuments(w io.Writer, docs []domain.Document) {
	if len(docs) == 0 {
		fmt.Fprintln(w, "No documents yet. Upload a PDF with `revise docs upload <file>`.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tSTATUS\tPAGES\tERROR")
	for _, d := range docs {
		pages := "-"
		if d.Ready() {
			pages = fmt.Sprint(d.TotalPages)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", d.ID, d.FileName, statusLabel(d.Status), pages, d.ErrorMessage)
	}
	tw.Flush()
}

func renderThreads(w io.Writer, threads []domain.Thread) {
	if len(threads) == 0 {
		fmt.Fprintln(w, "No chats yet.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tDOCUMENT\tMESSAGES")
	for _, t := range threads {
		doc := t.Document.FileName
		if doc == "" {
			doc = t.Document.ID
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", t.ID, t.Title, doc, len(t.Messages))
	}
	tw.Flush()
}

func renderMessage(w io.Writer, m domain.Message) {
	fmt.Fprintf(w, "%s: %s\n", m.Role, m.Content)
	for _, c := range m.Citations {
		fmt.Fprintf(w, "  %s %s\n", faint(fmt.Sprintf("[p.%d]", c.PageNumber)), c.Snippet)
	}
}

func renderVideos(w io.Writer, videos []domain.Video) {
	if len(videos) == 0 {
		fmt.Fprintln(w, "No recommendations.")
		return
	}
	for _, v := range videos {
		fmt.Fprintf(w, "%s  %s\n  https://www.youtube.com/watch?v=%s\n", v.Title, faint(v.Channel), v.ID)
	}
}

func renderQuestion(w io.Writer, i int, q domain.Question) {
	fmt.Fprintf(w, "\nQ%d [%s] %s\n", i+1, q.Kind, q.Prompt)
	for j, opt := range q.Options {
		fmt.Fprintf(w, "  %d) %s\n", j+1, opt)
	}
}

func renderReview(w io.Writer, sess *quiz.Session, score quiz.Score) {
	for i, q := range sess.Questions {
		got := sess.Answers[i]
		mark := green("✓")
		if got != q.Answer {
			mark = red("✗")
		}
		fmt.Fprintf(w, "%s Q%d %s\n   answer: %s\n", mark, i+1, q.Prompt, q.Answer)
		if q.Explanation != "" {
			fmt.Fprintf(w, "   %s\n", faint(q.Explanation))
		}
	}
	fmt.Fprintf(w, "\nScore: %d/%d (%d%%)\n", score.Correct, score.Total, score.Percent())
}

func renderStats(w io.Writer, stats quiz.Stats) {
	fmt.Fprintf(w, "Attempts: %d  Questions: %d  Average: %d%%\n", stats.TotalAttempts, stats.TotalQuestions, stats.AverageScore)
	topics := func(label string, ts []quiz.TopicStat) {
		if len(ts) == 0 {
			return
		}
		parts := make([]string, len(ts))
		for i, t := range ts {
			parts[i] = fmt.Sprintf("%s (%d%%)", t.Topic, t.Percentage)
		}
		fmt.Fprintf(w, "%s: %s\n", label, strings.Join(parts, ", "))
	}
	topics(green("Strengths"), stats.Strengths)
	topics(red("Weaknesses"), stats.Weaknesses)
	if len(stats.Recent) > 0 {
		fmt.Fprintln(w, "Recent:")
		for _, a := range stats.Recent {
			fmt.Fprintf(w, "  %s  %d/%d  %s\n", a.CreatedAt.Format("2006-01-02"), a.Score, a.TotalQuestions, a.Document.FileName)
		}
	}
}
