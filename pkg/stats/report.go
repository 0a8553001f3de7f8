package stats

import (
	"math/rand"
	"sort"
)

// Ranking is one row of a top-N table.
type Ranking struct {
	Key   string
	Count int
}

// Metric selects the ranking value from a nick's statistics.
type Metric func(*NickStats) int

// Standard ranking metrics.
var (
	ByLines    Metric = (*NickStats).Lines
	ByWords    Metric = func(ns *NickStats) int { return ns.Words }
	ByMentions Metric = func(ns *NickStats) int { return ns.MentionsReceived }
	ByKicks    Metric = func(ns *NickStats) int { return ns.KicksGiven }
)

// TopNicks ranks identities by the given metric, descending, ties
// broken by nick ascending. Zero-valued identities are omitted.
func (r *AggregateReport) TopNicks(n int, metric Metric) []Ranking {
	rows := make([]Ranking, 0, len(r.Nicks))
	for id, ns := range r.Nicks {
		if v := metric(ns); v > 0 {
			rows = append(rows, Ranking{Key: id, Count: v})
		}
	}
	return topN(rows, n)
}

// TopWords ranks words by occurrence count.
func (r *AggregateReport) TopWords(n int) []Ranking {
	rows := make([]Ranking, 0, len(r.Words))
	for word, ws := range r.Words {
		rows = append(rows, Ranking{Key: word, Count: ws.Count})
	}
	return topN(rows, n)
}

// TopURLs ranks URLs by occurrence count.
func (r *AggregateReport) TopURLs(n int) []Ranking {
	rows := make([]Ranking, 0, len(r.URLs))
	for url, count := range r.URLs {
		rows = append(rows, Ranking{Key: url, Count: count})
	}
	return topN(rows, n)
}

// RandomQuote draws uniformly from an identity's quote pool. The draw
// is intentionally non-deterministic; reports vary run to run.
func (r *AggregateReport) RandomQuote(id string) string {
	ns, ok := r.Nicks[id]
	if !ok || len(ns.Quotes) == 0 {
		return ""
	}
	return ns.Quotes[rand.Intn(len(ns.Quotes))].Text
}

func topN(rows []Ranking, n int) []Ranking {
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Count != rows[j].Count {
			return rows[i].Count > rows[j].Count
		}
		return rows[i].Key < rows[j].Key
	})
	if n > 0 && len(rows) > n {
		rows = rows[:n]
	}
	return rows
}
