// Package output renders aggregate reports. The HTML renderer lives
// outside this repository; these formatters are the data-facing
// text and JSON views.
package output

import (
	"time"

	"github.com/rustycloud/chanstats/pkg/pipeline"
	"github.com/rustycloud/chanstats/pkg/stats"
)

// Report is the presentation-ready view of one run.
type Report struct {
	Summary       Summary
	TopTalkers    []stats.Ranking
	Wordiest      []stats.Ranking
	MostMentioned []stats.Ranking
	TopKickers    []stats.Ranking
	TopWords      []stats.Ranking
	TopURLs       []stats.Ranking
	Topics        []stats.TopicRecord
	Hours         [24]int
	Details       []NickDetail
}

// Summary provides aggregate statistics for the run.
type Summary struct {
	Days         int
	Files        int
	CacheHits    int
	TotalLines   int
	ScannedLines int
	Identities   int
	Warnings     []string
}

// NickDetail is one row of the detailed per-nick table.
type NickDetail struct {
	Nick            string
	Lines           int
	Words           int
	Mentions        int
	KicksGiven      int
	TimesKicked     int
	Ops             int
	ProfaneMessages int
	LastSeen        time.Time
	Quote           string
	Meta            map[string]string
}

// maxTopics bounds the "latest topics" section.
const maxTopics = 5

// NewReport builds a Report from a pipeline result. topN bounds every
// ranking table.
func NewReport(res *pipeline.Result, topN int) *Report {
	agg := res.Report

	report := &Report{
		Summary: Summary{
			Days:         agg.Days,
			Files:        res.Files,
			CacheHits:    res.CacheHits,
			TotalLines:   agg.TotalLines,
			ScannedLines: agg.ScannedLines,
			Identities:   len(agg.Nicks),
			Warnings:     res.Warnings,
		},
		TopTalkers:    agg.TopNicks(topN, stats.ByLines),
		Wordiest:      agg.TopNicks(topN, stats.ByWords),
		MostMentioned: agg.TopNicks(topN, stats.ByMentions),
		TopKickers:    agg.TopNicks(topN, stats.ByKicks),
		TopWords:      agg.TopWords(topN),
		TopURLs:       agg.TopURLs(topN),
		Topics:        agg.Topics,
		Hours:         agg.Hours,
	}

	if len(report.Topics) > maxTopics {
		report.Topics = report.Topics[:maxTopics]
	}

	for _, row := range report.TopTalkers {
		ns := agg.Nicks[row.Key]
		report.Details = append(report.Details, NickDetail{
			Nick:            row.Key,
			Lines:           ns.Lines(),
			Words:           ns.Words,
			Mentions:        ns.MentionsReceived,
			KicksGiven:      ns.KicksGiven,
			TimesKicked:     ns.TimesKicked,
			Ops:             ns.Ops,
			ProfaneMessages: ns.ProfaneMessages,
			LastSeen:        ns.LastSeen,
			Quote:           agg.RandomQuote(row.Key),
			Meta:            agg.Meta[row.Key],
		})
	}

	return report
}
