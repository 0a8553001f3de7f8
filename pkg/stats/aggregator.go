package stats

import (
	"regexp"
	"strings"

	"github.com/rustycloud/chanstats/pkg/identity"
	"github.com/rustycloud/chanstats/pkg/parser"
	"github.com/rustycloud/chanstats/pkg/profanity"
)

// DefaultQuotePoolSize bounds the per-identity quote pool.
const DefaultQuotePoolSize = 50

// tokenPunct is stripped from both ends of every token before word
// and mention matching.
const tokenPunct = `,.:;!?()[]{}<>"'`

// defaultStopWords are never counted as words.
var defaultStopWords = []string{
	"like", "shit", "the", "a", "you", "and", "to", "for",
	"of", "in", "on", "is", "it", "i", "we", "me", "my",
}

var urlPattern = regexp.MustCompile(`https?://\S+`)

// Aggregator folds one day's event stream into a DaySnapshot. It holds
// no state beyond the snapshot under construction; processing a file
// never depends on any other file.
type Aggregator struct {
	resolver  *identity.Resolver
	known     map[string]bool
	stopWords map[string]bool
	classify  profanity.Classifier
	poolSize  int
	snap      *DaySnapshot
}

// NewAggregator creates an aggregator for one day. known is the set of
// canonical identities used for mention scanning; extraStopWords
// extends the built-in stop-word set. classify may be nil.
func NewAggregator(date string, resolver *identity.Resolver, known map[string]bool,
	extraStopWords []string, classify profanity.Classifier, poolSize int) *Aggregator {
	if poolSize <= 0 {
		poolSize = DefaultQuotePoolSize
	}

	stop := make(map[string]bool, len(defaultStopWords)+len(extraStopWords))
	for _, w := range defaultStopWords {
		stop[w] = true
	}
	for _, w := range extraStopWords {
		stop[identity.Normalize(w)] = true
	}

	return &Aggregator{
		resolver:  resolver,
		known:     known,
		stopWords: stop,
		classify:  classify,
		poolSize:  poolSize,
		snap:      NewDaySnapshot(date),
	}
}

// Add folds one event into the snapshot. Events from excluded
// identities contribute to the total line count only.
func (a *Aggregator) Add(ev parser.Event) {
	ev = a.resolver.Rewrite(ev)
	actor := a.resolver.Resolve(ev.Actor)

	switch ev.Kind {
	case parser.KindMessage, parser.KindAction:
		a.addMessage(actor, ev)
	case parser.KindTopic:
		if actor == identity.Excluded {
			return
		}
		a.snap.Topic = &TopicRecord{Text: ev.Text, Setter: actor, Time: ev.Time}
	case parser.KindJoin:
		if ns := a.nick(actor); ns != nil {
			ns.Joins++
		}
	case parser.KindPart:
		if ns := a.nick(actor); ns != nil {
			ns.Parts++
		}
	case parser.KindQuit:
		if ns := a.nick(actor); ns != nil {
			ns.Quits++
		}
	case parser.KindNick:
		if ns := a.nick(actor); ns != nil {
			ns.NickChanges++
		}
	case parser.KindKick:
		if ns := a.nick(actor); ns != nil {
			ns.KicksGiven++
		}
		if ns := a.nick(a.resolver.Resolve(ev.Target)); ns != nil {
			ns.TimesKicked++
		}
	case parser.KindMode:
		if ns := a.nick(actor); ns != nil {
			ns.Ops += opsGranted(ev.Text)
		}
	}
}

// SetScanned records the raw-line count reported by the file source.
func (a *Aggregator) SetScanned(lines int) {
	a.snap.ScannedLines = lines
}

// Snapshot returns the finished snapshot. The aggregator must not be
// used after this call.
func (a *Aggregator) Snapshot() *DaySnapshot {
	snap := a.snap
	a.snap = nil
	return snap
}

func (a *Aggregator) addMessage(actor string, ev parser.Event) {
	a.snap.TotalLines++

	if actor == identity.Excluded {
		return
	}

	ns := a.nick(actor)
	if ev.Kind == parser.KindMessage {
		ns.Messages++
	} else {
		ns.Actions++
	}

	ns.Hours[ev.Time.Hour()]++
	ns.Words += len(strings.Fields(ev.Text))

	if ev.Time.After(ns.LastSeen) || ns.LastSeen.IsZero() {
		ns.LastSeen = ev.Time
		ns.LastMessage = ev.Text
	}

	if len(ns.Quotes) >= a.poolSize {
		ns.Quotes = ns.Quotes[1:]
	}
	ns.Quotes = append(ns.Quotes, Quote{Text: ev.Text, Time: ev.Time})

	if a.classify != nil && a.classify(ev.Text) {
		ns.ProfaneMessages++
	}

	a.scanTokens(actor, ev)
}

// scanTokens walks the message tokens once, feeding URL counts,
// mention counters, and word statistics.
func (a *Aggregator) scanTokens(actor string, ev parser.Event) {
	for _, raw := range strings.Fields(ev.Text) {
		if urlPattern.MatchString(raw) {
			a.snap.URLs[raw]++
			continue
		}

		token := strings.Trim(strings.ToLower(raw), tokenPunct)
		if len(token) < 2 {
			continue
		}

		// Tokens that resolve to a known identity are mentions, not
		// words; self-mentions are dropped entirely.
		resolved := a.resolver.Resolve(token)
		if a.known[resolved] {
			if resolved != actor {
				target := a.nick(resolved)
				target.MentionsReceived++
				if ev.Time.After(target.LastMentionedBy.Time) {
					target.LastMentionedBy = Mention{Nick: actor, Time: ev.Time}
				}
			}
			continue
		}

		if a.stopWords[token] {
			continue
		}

		ws := a.snap.Words[token]
		ws.Count++
		if ev.Time.After(ws.LastTime) || ws.LastTime.IsZero() {
			ws.LastNick = actor
			ws.LastTime = ev.Time
		}
		a.snap.Words[token] = ws
	}
}

// nick returns the stats record for an identity, creating it on first
// use. Excluded identities have no record.
func (a *Aggregator) nick(id string) *NickStats {
	if id == identity.Excluded || id == "" {
		return nil
	}
	ns, ok := a.snap.Nicks[id]
	if !ok {
		ns = &NickStats{}
		a.snap.Nicks[id] = ns
	}
	return ns
}

// opsGranted counts 'o' flags inside the granting sections of a mode
// string, e.g. "+o" is one op, "+oo" two, "-o" none.
func opsGranted(modes string) int {
	granting := false
	count := 0
	for _, r := range modes {
		switch r {
		case '+':
			granting = true
		case '-':
			granting = false
		case 'o':
			if granting {
				count++
			}
		}
	}
	return count
}
