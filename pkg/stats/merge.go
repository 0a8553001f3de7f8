package stats

import (
	"sort"
)

// AggregateReport is the merge of every day snapshot in a run. It is
// handed to a formatter for presentation; this package defines its
// fields, not its rendering.
type AggregateReport struct {
	Days         int
	TotalLines   int
	ScannedLines int

	Nicks  map[string]*NickStats
	Words  map[string]WordStat
	URLs   map[string]int
	Topics []TopicRecord // newest first
	Hours  [24]int

	// Meta is opaque per-user metadata from configuration, passed
	// through untouched for renderers.
	Meta map[string]map[string]string
}

// Merge folds any number of day snapshots into one report. The fold is
// associative and commutative: every combining rule is a sum, a
// timestamp max, or a deterministic truncation keyed by timestamp, so
// snapshot order never changes the result.
func Merge(snaps []*DaySnapshot, poolSize int) *AggregateReport {
	if poolSize <= 0 {
		poolSize = DefaultQuotePoolSize
	}

	report := &AggregateReport{
		Nicks: make(map[string]*NickStats),
		Words: make(map[string]WordStat),
		URLs:  make(map[string]int),
	}

	for _, snap := range snaps {
		report.Days++
		report.TotalLines += snap.TotalLines
		report.ScannedLines += snap.ScannedLines

		for id, ns := range snap.Nicks {
			mergeNick(report.nick(id), ns, poolSize)
		}

		for word, ws := range snap.Words {
			report.Words[word] = mergeWord(report.Words[word], ws)
		}

		for url, count := range snap.URLs {
			report.URLs[url] += count
		}

		if snap.Topic != nil {
			report.Topics = append(report.Topics, *snap.Topic)
		}
	}

	for _, ns := range report.Nicks {
		for h, c := range ns.Hours {
			report.Hours[h] += c
		}
	}

	sort.Slice(report.Topics, func(i, j int) bool {
		return report.Topics[i].Time.After(report.Topics[j].Time)
	})

	return report
}

func (r *AggregateReport) nick(id string) *NickStats {
	ns, ok := r.Nicks[id]
	if !ok {
		ns = &NickStats{}
		r.Nicks[id] = ns
	}
	return ns
}

// mergeNick folds src into dst. Counters sum, last-seen takes the max
// timestamp, and the quote pool keeps the newest poolSize entries with
// ties broken by text so the result is order-independent.
func mergeNick(dst, src *NickStats, poolSize int) {
	dst.Messages += src.Messages
	dst.Actions += src.Actions
	dst.Words += src.Words
	dst.MentionsReceived += src.MentionsReceived
	dst.KicksGiven += src.KicksGiven
	dst.TimesKicked += src.TimesKicked
	dst.Joins += src.Joins
	dst.Parts += src.Parts
	dst.Quits += src.Quits
	dst.NickChanges += src.NickChanges
	dst.Ops += src.Ops
	dst.ProfaneMessages += src.ProfaneMessages

	for h, c := range src.Hours {
		dst.Hours[h] += c
	}

	if src.LastSeen.After(dst.LastSeen) {
		dst.LastSeen = src.LastSeen
		dst.LastMessage = src.LastMessage
	}

	if src.LastMentionedBy.Time.After(dst.LastMentionedBy.Time) {
		dst.LastMentionedBy = src.LastMentionedBy
	}

	dst.Quotes = append(dst.Quotes, src.Quotes...)
	sort.Slice(dst.Quotes, func(i, j int) bool {
		if !dst.Quotes[i].Time.Equal(dst.Quotes[j].Time) {
			return dst.Quotes[i].Time.After(dst.Quotes[j].Time)
		}
		return dst.Quotes[i].Text < dst.Quotes[j].Text
	})
	if len(dst.Quotes) > poolSize {
		dst.Quotes = dst.Quotes[:poolSize]
	}
}

// mergeWord sums counts and keeps the most recent user attribution,
// ties broken by nick ascending.
func mergeWord(dst, src WordStat) WordStat {
	dst.Count += src.Count

	switch {
	case src.LastTime.After(dst.LastTime):
		dst.LastNick = src.LastNick
		dst.LastTime = src.LastTime
	case src.LastTime.Equal(dst.LastTime) && dst.LastNick != "" && src.LastNick < dst.LastNick:
		dst.LastNick = src.LastNick
	case dst.LastNick == "":
		dst.LastNick = src.LastNick
		dst.LastTime = src.LastTime
	}

	return dst
}
