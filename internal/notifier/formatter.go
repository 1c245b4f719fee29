package notifier

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"SignalSentinel/internal/model"
)

// NoSignalMessage is shown when no symbol produced a result.
const NoSignalMessage = "No signals available."

// FormatBest formats the top candidate and its trade plan.
func FormatBest(report model.RankedReport) string {
	best, ok := report.Best()
	if !ok {
		return NoSignalMessage
	}
	row := best.Row()

	var b strings.Builder
	b.WriteString("🔥 Best Trade\n\n")
	b.WriteString(fmt.Sprintf("Stock: %s | Score: %d | Grade: %s\n\n", row.Symbol, row.Score, row.Grade))
	b.WriteString("Trade Plan\n")
	b.WriteString(fmt.Sprintf("Entry:  %s\n", row.Price.StringFixed(2)))
	b.WriteString(fmt.Sprintf("Stop:   %s\n", row.Stop.StringFixed(2)))
	b.WriteString(fmt.Sprintf("Target: %s\n", row.Target.StringFixed(2)))
	b.WriteString(fmt.Sprintf("Shares: %d\n", row.Shares))
	return b.String()
}

// FormatTable renders the ranked comparison table.
func FormatTable(report model.RankedReport) string {
	if report.Empty() {
		return NoSignalMessage
	}
	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "Stock\tPrice\tScore\tGrade\tStop\tTarget\tShares\t")
	for _, row := range report.Rows() {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\t%s\t%d\t\n",
			row.Symbol, row.Price.StringFixed(2), row.Score, row.Grade,
			row.Stop.StringFixed(2), row.Target.StringFixed(2), row.Shares)
	}
	w.Flush()
	return b.String()
}

// FormatSkipped lists symbols that produced no result and why.
func FormatSkipped(report model.RankedReport) string {
	if len(report.Skipped) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("Skipped:\n")
	for _, o := range report.Skipped {
		b.WriteString(fmt.Sprintf("  %s %s", o.Symbol, o.Status))
		if o.Reason != "" {
			b.WriteString(": " + o.Reason)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// FormatReport formats the full cycle report.
func FormatReport(report model.RankedReport, at time.Time) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📊 Signal Engine | %s\n\n", at.Format("2006-01-02 15:04:05")))
	if report.Empty() {
		b.WriteString(NoSignalMessage + "\n")
	} else {
		b.WriteString(FormatBest(report))
		b.WriteString("\n")
		b.WriteString(FormatTable(report))
	}
	if s := FormatSkipped(report); s != "" {
		b.WriteString("\n" + s)
	}
	return b.String()
}
