package output

import (
	"context"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"

	"github.com/rustycloud/chanstats/pkg/stats"
)

// TextFormatter formats reports as human-readable text.
type TextFormatter struct {
	opts FormatOptions
}

// NewTextFormatter creates a new text formatter with the given options.
func NewTextFormatter(opts FormatOptions) *TextFormatter {
	return &TextFormatter{opts: opts}
}

// Name returns the format name.
func (f *TextFormatter) Name() string {
	return "text"
}

// Format renders the report as text.
func (f *TextFormatter) Format(_ context.Context, report *Report, w io.Writer) error {
	if f.opts.Quiet {
		return f.formatQuiet(report, w)
	}
	return f.formatFull(report, w)
}

func (f *TextFormatter) formatQuiet(report *Report, w io.Writer) error {
	fmt.Fprintf(w, "chanstats: %d days, %s lines, %d identities\n",
		report.Summary.Days,
		humanize.Comma(int64(report.Summary.TotalLines)),
		report.Summary.Identities)
	return nil
}

func (f *TextFormatter) formatFull(report *Report, w io.Writer) error {
	fmt.Fprintln(w, "=== Channel Statistics ===")
	fmt.Fprintln(w)

	f.formatRanking(w, "Top Talkers (lines)", report.TopTalkers)
	f.formatRanking(w, "Wordiest Users", report.Wordiest)
	f.formatRanking(w, "Most Mentioned", report.MostMentioned)
	if len(report.TopKickers) > 0 {
		f.formatRanking(w, "Top Kickers", report.TopKickers)
	}
	f.formatRanking(w, "Top Words", report.TopWords)
	f.formatRanking(w, "Top URLs", report.TopURLs)

	if len(report.Topics) > 0 {
		fmt.Fprintln(w, "Latest Topics")
		for _, topic := range report.Topics {
			fmt.Fprintf(w, "  %s by %s: %s\n",
				topic.Time.Format("2006-01-02 15:04:05"), topic.Setter, topic.Text)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, "Activity by Hour")
	for hour, count := range report.Hours {
		if count == 0 {
			continue
		}
		fmt.Fprintf(w, "  %02d:00  %s\n", hour, humanize.Comma(int64(count)))
	}
	fmt.Fprintln(w)

	if len(report.Details) > 0 {
		fmt.Fprintln(w, "Detailed Nick Stats")
		for _, d := range report.Details {
			fmt.Fprintf(w, "  %s: %s lines, %s words, %d mentions, last seen %s\n",
				d.Nick,
				humanize.Comma(int64(d.Lines)),
				humanize.Comma(int64(d.Words)),
				d.Mentions,
				lastSeen(d))
			if d.Quote != "" {
				fmt.Fprintf(w, "    %q\n", d.Quote)
			}
		}
		fmt.Fprintln(w)
	}

	for _, warning := range report.Summary.Warnings {
		fmt.Fprintf(w, "warning: %s\n", warning)
	}

	fmt.Fprintln(w, "---")
	fmt.Fprintf(w, "Summary: %d days, %s lines (%s scanned), %d identities, %d/%d files cached\n",
		report.Summary.Days,
		humanize.Comma(int64(report.Summary.TotalLines)),
		humanize.Comma(int64(report.Summary.ScannedLines)),
		report.Summary.Identities,
		report.Summary.CacheHits,
		report.Summary.Files)

	return nil
}

func (f *TextFormatter) formatRanking(w io.Writer, title string, rows []stats.Ranking) {
	if len(rows) == 0 {
		return
	}
	fmt.Fprintln(w, title)
	for _, row := range rows {
		fmt.Fprintf(w, "  %-24s %s\n", row.Key, humanize.Comma(int64(row.Count)))
	}
	fmt.Fprintln(w)
}

func lastSeen(d NickDetail) string {
	if d.LastSeen.IsZero() {
		return "unknown"
	}
	return humanize.Time(d.LastSeen)
}
