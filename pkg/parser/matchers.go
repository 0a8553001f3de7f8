package parser

import (
	"regexp"
	"time"
)

// stamp matches the bracketed timestamp prefix shared by every shape:
// either a full "YYYY-MM-DD HH:MM:SS" or a bare "HH:MM:SS" whose date
// comes from the log file name.
const stamp = `^\[((?:\d{4}-\d{2}-\d{2} )?\d{2}:\d{2}:\d{2})\] `

const (
	fullLayout = "2006-01-02 15:04:05"
	timeLayout = "15:04:05"
)

// matcher pairs a compiled line pattern with a constructor that turns
// its submatches into an Event. Matchers are tried in order; the first
// match wins.
type matcher struct {
	re    *regexp.Regexp
	build func(ts time.Time, m []string) Event
}

// Shapes for the two supported dialects. ZNC service lines carry a
// "***" marker; EnergyMech lines do not. The topic and kick shapes
// must be tried before the generic action shape, which would
// otherwise swallow them.
var matchers = []matcher{
	{regexp.MustCompile(stamp + `<([^>]+)> (.*)$`),
		func(ts time.Time, m []string) Event {
			return Event{Time: ts, Kind: KindMessage, Actor: m[2], Text: m[3]}
		}},
	{regexp.MustCompile(stamp + `\* (\S+) set the topic to \[(.+)\]$`),
		func(ts time.Time, m []string) Event {
			return Event{Time: ts, Kind: KindTopic, Actor: m[2], Text: m[3]}
		}},
	{regexp.MustCompile(stamp + `\* (\S+) kicked (\S+)(?: \((.*)\))?$`),
		func(ts time.Time, m []string) Event {
			return Event{Time: ts, Kind: KindKick, Actor: m[2], Target: m[3], Text: m[4]}
		}},
	{regexp.MustCompile(stamp + `\* (\S+) (.*)$`),
		func(ts time.Time, m []string) Event {
			return Event{Time: ts, Kind: KindAction, Actor: m[2], Text: m[3]}
		}},
	{regexp.MustCompile(stamp + `\*\*\* Joins: (\S+) \(\S+\)$`),
		func(ts time.Time, m []string) Event {
			return Event{Time: ts, Kind: KindJoin, Actor: m[2]}
		}},
	{regexp.MustCompile(stamp + `\*\*\* Parts: (\S+) \(\S+\)(?: \((.*)\))?$`),
		func(ts time.Time, m []string) Event {
			return Event{Time: ts, Kind: KindPart, Actor: m[2], Text: m[3]}
		}},
	{regexp.MustCompile(stamp + `\*\*\* Quits: (\S+) \(\S+\)(?: \((.*)\))?$`),
		func(ts time.Time, m []string) Event {
			return Event{Time: ts, Kind: KindQuit, Actor: m[2], Text: m[3]}
		}},
	{regexp.MustCompile(stamp + `\*\*\* (\S+) was kicked by (\S+)(?: \((.*)\))?$`),
		func(ts time.Time, m []string) Event {
			return Event{Time: ts, Kind: KindKick, Actor: m[3], Target: m[2], Text: m[4]}
		}},
	{regexp.MustCompile(stamp + `\*\*\* (\S+) is now known as (\S+)$`),
		func(ts time.Time, m []string) Event {
			return Event{Time: ts, Kind: KindNick, Actor: m[2], Target: m[3]}
		}},
	{regexp.MustCompile(stamp + `\*\*\* (\S+) sets mode: ([+\-a-zA-Z]+)(?: (\S+))?$`),
		func(ts time.Time, m []string) Event {
			return Event{Time: ts, Kind: KindMode, Actor: m[2], Target: m[4], Text: m[3]}
		}},
	// EnergyMech dialect.
	{regexp.MustCompile(stamp + `Action: (\S+) (.*)$`),
		func(ts time.Time, m []string) Event {
			return Event{Time: ts, Kind: KindAction, Actor: m[2], Text: m[3]}
		}},
	{regexp.MustCompile(stamp + `(\S+) changed the topic to: (.*)$`),
		func(ts time.Time, m []string) Event {
			return Event{Time: ts, Kind: KindTopic, Actor: m[2], Text: m[3]}
		}},
	{regexp.MustCompile(stamp + `(\S+) \(\S+\) has joined (?:#\S+)$`),
		func(ts time.Time, m []string) Event {
			return Event{Time: ts, Kind: KindJoin, Actor: m[2]}
		}},
	{regexp.MustCompile(stamp + `(\S+) \(\S+\) has left (?:#\S+)(?: \((.*)\))?$`),
		func(ts time.Time, m []string) Event {
			return Event{Time: ts, Kind: KindPart, Actor: m[2], Text: m[3]}
		}},
	{regexp.MustCompile(stamp + `(\S+) \(\S+\) has quit(?: \((.*)\))?$`),
		func(ts time.Time, m []string) Event {
			return Event{Time: ts, Kind: KindQuit, Actor: m[2], Text: m[3]}
		}},
	{regexp.MustCompile(stamp + `(\S+) was kicked from (?:#\S+) by (\S+)(?: \((.*)\))?$`),
		func(ts time.Time, m []string) Event {
			return Event{Time: ts, Kind: KindKick, Actor: m[3], Target: m[2], Text: m[4]}
		}},
	{regexp.MustCompile(stamp + `(\S+) is now known as (\S+)$`),
		func(ts time.Time, m []string) Event {
			return Event{Time: ts, Kind: KindNick, Actor: m[2], Target: m[3]}
		}},
	{regexp.MustCompile(stamp + `(\S+) sets mode ([+\-a-zA-Z]+)(?: (\S+))?$`),
		func(ts time.Time, m []string) Event {
			return Event{Time: ts, Kind: KindMode, Actor: m[2], Target: m[4], Text: m[3]}
		}},
}

// ParseLine classifies a single raw line. fileDate supplies the date
// for time-only timestamps; a time-only line with a zero fileDate is
// unparseable. Lines matching no known shape return ok=false and are
// skipped by the caller, never treated as errors.
func ParseLine(line string, fileDate time.Time) (Event, bool) {
	for _, m := range matchers {
		sub := m.re.FindStringSubmatch(line)
		if sub == nil {
			continue
		}
		ts, ok := parseStamp(sub[1], fileDate)
		if !ok {
			return Event{}, false
		}
		return m.build(ts, sub), true
	}
	return Event{}, false
}

// parseStamp parses either timestamp form. Time-only stamps are
// combined with fileDate.
func parseStamp(s string, fileDate time.Time) (time.Time, bool) {
	if len(s) == len(fullLayout) {
		ts, err := time.Parse(fullLayout, s)
		if err != nil {
			return time.Time{}, false
		}
		return ts, true
	}

	if fileDate.IsZero() {
		return time.Time{}, false
	}

	ts, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, false
	}

	return time.Date(fileDate.Year(), fileDate.Month(), fileDate.Day(),
		ts.Hour(), ts.Minute(), ts.Second(), 0, time.UTC), true
}
