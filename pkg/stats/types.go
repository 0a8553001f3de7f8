// Package stats aggregates parsed log events into per-day snapshots
// and merges snapshots into a channel-wide report.
package stats

import "time"

// Quote is one quote-pool candidate. The timestamp makes pool merging
// order-independent: merged pools keep the newest entries regardless
// of which snapshot contributed them.
type Quote struct {
	Text string
	Time time.Time
}

// Mention records who last mentioned an identity and when.
type Mention struct {
	Nick string
	Time time.Time
}

// NickStats is the fixed per-identity counter record. The explicit
// field set replaces the original's free-form string-keyed counters.
type NickStats struct {
	Messages         int
	Actions          int
	Words            int
	MentionsReceived int
	KicksGiven       int
	TimesKicked      int
	Joins            int
	Parts            int
	Quits            int
	NickChanges      int
	Ops              int
	ProfaneMessages  int

	LastSeen        time.Time
	LastMessage     string
	LastMentionedBy Mention

	// Hours is the hour-of-day activity histogram.
	Hours [24]int

	// Quotes is a bounded pool of recent message texts, oldest evicted
	// on overflow.
	Quotes []Quote
}

// Lines returns messages plus actions, the ranking metric the original
// report calls "lines".
func (n *NickStats) Lines() int {
	return n.Messages + n.Actions
}

// WordStat tracks a word's occurrence count and who used it last.
type WordStat struct {
	Count    int
	LastNick string
	LastTime time.Time
}

// TopicRecord is the most recent topic of a day: text, setter, and
// when it was set.
type TopicRecord struct {
	Text   string
	Setter string
	Time   time.Time
}

// DaySnapshot is the immutable aggregation result for one daily log
// file. It is built once, optionally cached, and only ever read by
// later merges.
type DaySnapshot struct {
	// Date is the file's day in YYYY-MM-DD form.
	Date string

	// TotalLines counts recognized message and action events,
	// including those from excluded identities. The sum of per-nick
	// message counts never exceeds it.
	TotalLines int

	// ScannedLines counts every raw line read, recognized or not.
	ScannedLines int

	Nicks map[string]*NickStats
	Words map[string]WordStat
	URLs  map[string]int
	Topic *TopicRecord
}

// NewDaySnapshot returns an empty, valid snapshot for the given day.
// A file with zero recognized events aggregates to exactly this.
func NewDaySnapshot(date string) *DaySnapshot {
	return &DaySnapshot{
		Date:  date,
		Nicks: make(map[string]*NickStats),
		Words: make(map[string]WordStat),
		URLs:  make(map[string]int),
	}
}
