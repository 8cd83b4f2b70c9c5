package reporting

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spboyer/ddbeval/internal/dimensions"
	"github.com/spboyer/ddbeval/internal/models"
)

// Markdown renders a report as a markdown document.
func Markdown(r *models.Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Evaluation: %s\n\n", r.Scenario)
	fmt.Fprintf(&b, "- Status: **%s**\n", r.Status)
	if r.ModelUsed != "" {
		fmt.Fprintf(&b, "- Model: `%s`\n", r.ModelUsed)
	}
	fmt.Fprintf(&b, "- Run: `%s`\n", r.RunID)
	fmt.Fprintf(&b, "- Rubric: `%s`\n", r.RubricVersion)
	fmt.Fprintf(&b, "- Timestamp: %s\n", r.Timestamp)
	if r.Message != "" {
		fmt.Fprintf(&b, "- Message: %s\n", r.Message)
	}

	md := r.PerformanceMetadata
	b.WriteString("\n## Timing\n\n| Phase | Seconds |\n|---|---|\n")
	fmt.Fprintf(&b, "| Conversation | %.2f |\n", md.ConversationDuration)
	fmt.Fprintf(&b, "| Session evaluation | %.2f |\n", md.SessionEvaluationDuration)
	fmt.Fprintf(&b, "| Model evaluation | %.2f |\n", md.ModelEvaluationDuration)
	fmt.Fprintf(&b, "| Total | %.2f |\n", md.TotalDuration)

	for _, f := range dimensions.Families() {
		b.WriteString("\n## " + f.Title() + " Evaluation\n\n")
		res := r.Evaluation(f)
		if res == nil {
			if msg, ok := r.Errors[f.String()]; ok {
				fmt.Fprintf(&b, "Evaluation failed: %s\n", msg)
			} else {
				b.WriteString("Not evaluated.\n")
			}
			continue
		}
		writeEvaluation(&b, f, res)
	}

	return b.String()
}

func writeEvaluation(b *strings.Builder, f dimensions.Family, res *models.EvaluationResult) {
	fmt.Fprintf(b, "Overall: **%.2f** (%s)\n\n", res.OverallScore, res.QualityLevel)
	b.WriteString("| Dimension | Score |\n|---|---|\n")
	for _, d := range f.Dimensions() {
		score, _ := res.Score(d)
		fmt.Fprintf(b, "| %s | %.1f/10 |\n", d.Title(), score)
	}
	if len(res.Unanswered) > 0 {
		fmt.Fprintf(b, "\nNo answer from the judge for: %s\n", strings.Join(res.Unanswered, ", "))
	}

	keys := make([]string, 0, len(res.Justifications))
	for k, v := range res.Justifications {
		if strings.TrimSpace(v) != "" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	if len(keys) == 0 {
		return
	}

	b.WriteString("\n### Justifications\n")
	for _, k := range keys {
		fmt.Fprintf(b, "\n**%s**: %s\n", k, strings.TrimSpace(res.Justifications[k]))
	}
}

// BatchMarkdown renders a batch summary table followed by each report.
func BatchMarkdown(batch *Batch) string {
	var b strings.Builder

	b.WriteString("# Batch Evaluation\n\n")
	if batch.Summary != nil {
		b.WriteString(batch.Summary.Headline() + "\n\n")
		b.WriteString("| Family | Runs | Mean | Min | Max | Std dev | 95% CI |\n|---|---|---|---|---|---|---|\n")
		for _, fs := range batch.Summary.Families {
			fmt.Fprintf(&b, "| %s | %d | %.2f | %.2f | %.2f | %.2f | %.2f-%.2f |\n",
				fs.Family.Title(), fs.Count, fs.Mean, fs.Min, fs.Max, fs.StdDev, fs.CI95.Lower, fs.CI95.Upper)
		}
		b.WriteString("\n")
	}

	for _, r := range batch.Reports {
		// demote every heading one level under the batch title
		for _, line := range strings.Split(Markdown(r), "\n") {
			if strings.HasPrefix(line, "#") {
				line = "#" + line
			}
			b.WriteString(line + "\n")
		}
	}
	return b.String()
}
