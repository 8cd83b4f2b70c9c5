package main

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/spboyer/ddbeval/internal/dimensions"
	"github.com/spboyer/ddbeval/internal/models"
	"github.com/spboyer/ddbeval/internal/orchestration"
	"github.com/spboyer/ddbeval/internal/quality"
	"github.com/spboyer/ddbeval/internal/reporting"
	"github.com/spboyer/ddbeval/internal/scenario"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62"))

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)
)

// levelStyle colors a quality level from green to red.
func levelStyle(l quality.Level) lipgloss.Style {
	colors := map[quality.Level]string{
		quality.Excellent:        "42",
		quality.Good:             "114",
		quality.Acceptable:       "220",
		quality.NeedsImprovement: "208",
		quality.Poor:             "196",
	}
	c, ok := colors[l]
	if !ok {
		c = "243"
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(c)).Bold(true)
}

const (
	rule        = "═"
	ruleWidth   = 60
	labelColumn = 30
)

// padRight pads s with spaces so its terminal display width reaches width.
func padRight(s string, width int) string {
	sw := runewidth.StringWidth(s)
	if sw >= width {
		return s
	}
	return s + strings.Repeat(" ", width-sw)
}

func banner(w io.Writer, title string) {
	fmt.Fprintln(w, strings.Repeat(rule, ruleWidth))
	fmt.Fprintln(w, headerStyle.Render(" "+title))
	fmt.Fprintln(w, strings.Repeat(rule, ruleWidth))
}

func seconds(v float64) string {
	return fmt.Sprintf("%.2fs", v)
}

// printReport renders one report for the terminal.
//
//nolint:errcheck // display-only writes
func printReport(w io.Writer, r *models.Report) {
	fmt.Fprintln(w)
	banner(w, "EVALUATION RESULTS: "+r.Scenario)
	fmt.Fprintln(w)

	if r.Status != models.StatusSuccess {
		fmt.Fprintln(w, errorStyle.Render("Evaluation Status: "+string(r.Status)))
	}
	if r.Message != "" {
		fmt.Fprintf(w, "Message: %s\n", r.Message)
	}
	if r.Status == models.StatusSkipped {
		return
	}

	md := r.PerformanceMetadata
	fmt.Fprintf(w, "Total Duration: %s\n", seconds(md.TotalDuration))
	fmt.Fprintf(w, "  • %s%s\n", padRight("Conversation:", 22), seconds(md.ConversationDuration))
	fmt.Fprintf(w, "  • %s%s\n", padRight("Session Evaluation:", 22), seconds(md.SessionEvaluationDuration))
	fmt.Fprintf(w, "  • %s%s\n", padRight("Model Evaluation:", 22), seconds(md.ModelEvaluationDuration))
	fmt.Fprintln(w)

	for _, f := range dimensions.Families() {
		printEvaluation(w, r, f)
	}

	fmt.Fprintln(w, sectionStyle.Render("QUALITY SUMMARY"))
	fmt.Fprintf(w, "Session Quality: %s\n", levelStyle(r.QualityAssessment.SessionQualityLevel).Render(string(r.QualityAssessment.SessionQualityLevel)))
	fmt.Fprintf(w, "Model Quality:   %s\n", levelStyle(r.QualityAssessment.ModelQualityLevel).Render(string(r.QualityAssessment.ModelQualityLevel)))
	fmt.Fprintln(w)
	fmt.Fprintln(w, mutedStyle.Render("Evaluation Timestamp: "+r.Timestamp))
}

//nolint:errcheck // display-only writes
func printEvaluation(w io.Writer, r *models.Report, f dimensions.Family) {
	fmt.Fprintln(w, sectionStyle.Render(strings.ToUpper(f.Title())+" EVALUATION"))
	fmt.Fprintln(w, strings.Repeat("─", 50))

	res := r.Evaluation(f)
	if res == nil {
		msg := "not available"
		if e, ok := r.Errors[f.String()]; ok {
			msg = "failed: " + e
		}
		fmt.Fprintf(w, "%s evaluation %s\n\n", f.Title(), msg)
		return
	}

	fmt.Fprintf(w, "Overall Score: %.2f (%s)\n", res.OverallScore, levelStyle(res.QualityLevel).Render(string(res.QualityLevel)))
	for _, d := range f.Dimensions() {
		score, _ := res.Score(d)
		fmt.Fprintf(w, "  • %s%.1f/10\n", padRight(d.Title()+":", labelColumn), score)
	}
	if len(res.Unanswered) > 0 {
		fmt.Fprintln(w, mutedStyle.Render("  defaulted: "+strings.Join(res.Unanswered, ", ")))
	}
	fmt.Fprintln(w)
}

// printBatchSummary renders the batch roll-up as a table.
//
//nolint:errcheck // display-only writes
func printBatchSummary(w io.Writer, batch *reporting.Batch) {
	fmt.Fprintln(w)
	banner(w, "BATCH RESULTS")
	fmt.Fprintln(w)

	const nameColumn = 36
	fmt.Fprintf(w, "%s%-9s %-8s %-8s\n", padRight("Scenario", nameColumn), "Status", "Session", "Model")
	fmt.Fprintln(w, strings.Repeat("─", ruleWidth))
	for _, r := range batch.Reports {
		fmt.Fprintf(w, "%s%-9s %-8s %-8s\n", padRight(truncate(r.Scenario, nameColumn-2), nameColumn), r.Status,
			familyScore(r, dimensions.Process), familyScore(r, dimensions.Design))
	}
	fmt.Fprintln(w)

	s := batch.Summary
	fmt.Fprintln(w, sectionStyle.Render(s.Headline()))
	for _, fs := range s.Families {
		if fs.Count == 0 {
			continue
		}
		fmt.Fprintf(w, "  • %s mean %.2f  min %.2f  max %.2f  95%% CI %.2f-%.2f\n",
			padRight(fs.Family.Title()+":", 18), fs.Mean, fs.Min, fs.Max, fs.CI95.Lower, fs.CI95.Upper)
	}
	if len(s.FailedScenarios) > 0 {
		fmt.Fprintln(w, errorStyle.Render("Not evaluated: "+strings.Join(s.FailedScenarios, ", ")))
	}
}

func familyScore(r *models.Report, f dimensions.Family) string {
	if res := r.Evaluation(f); res != nil {
		return fmt.Sprintf("%.2f", res.OverallScore)
	}
	return "-"
}

// printScenarios lists the catalog.
//
//nolint:errcheck // display-only writes
func printScenarios(w io.Writer, catalog *scenario.Catalog) {
	fmt.Fprintln(w, sectionStyle.Render("Available Evaluation Scenarios:"))
	fmt.Fprintln(w, strings.Repeat("=", 40))
	for _, sc := range catalog.List() {
		name := sc.Name
		if sc.Name == scenario.DefaultName {
			name += " (default)"
		}
		fmt.Fprintln(w, headerStyle.Render(name))
		if sc.Complexity != "" {
			fmt.Fprintf(w, "   Complexity: %s\n", sc.Complexity)
		}
		if sc.Description != "" {
			fmt.Fprintf(w, "   Description: %s\n", sc.Description)
		}
		fmt.Fprintln(w)
	}
}

// truncate shortens s to maxLen runes, appending "…" if truncated.
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-1]) + "…"
}

// progressPrinter prints run phases as they happen. verbose adds the
// conversation turns.
func progressPrinter(w io.Writer, verbose bool) orchestration.ProgressListener {
	var mu sync.Mutex
	//nolint:errcheck // display-only writes
	return func(ev orchestration.ProgressEvent) {
		mu.Lock()
		defer mu.Unlock()

		switch ev.EventType {
		case orchestration.EventRunStart:
			fmt.Fprintf(w, "▶ %s\n", ev.Scenario)
		case orchestration.EventPhase:
			if verbose {
				fmt.Fprintf(w, "  [%s] %s\n", ev.Scenario, ev.Phase)
			}
		case orchestration.EventAgentPrompt:
			if verbose {
				if p, ok := ev.Details["prompt"].(string); ok {
					fmt.Fprintf(w, "  [PROMPT] %s\n", truncate(p, 200))
				}
			}
		case orchestration.EventAgentResponse:
			if verbose {
				if resp, ok := ev.Details["response"].(string); ok {
					fmt.Fprintf(w, "  [RESPONSE] %s\n", truncate(resp, 200))
				}
			}
		case orchestration.EventEvaluationComplete:
			dur := time.Duration(ev.DurationMs) * time.Millisecond
			if ev.Status == models.StatusSuccess {
				fmt.Fprintf(w, "  ✓ %s %s: %.2f (%v)\n", ev.Scenario, ev.Family.Title(), ev.Details["overall_score"], dur)
			} else {
				fmt.Fprintf(w, "  ✗ %s %s: %v (%v)\n", ev.Scenario, ev.Family.Title(), ev.Details["error"], dur)
			}
		case orchestration.EventRunComplete:
			dur := time.Duration(ev.DurationMs) * time.Millisecond
			fmt.Fprintf(w, "■ %s: %s (%v)\n", ev.Scenario, ev.Status, dur.Round(time.Millisecond))
		}
	}
}
