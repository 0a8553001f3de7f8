// Package identity maps raw nick spellings to canonical identities,
// applying bridge-relay rewriting, alias merging, and bot filtering.
package identity

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"sort"
	"strings"

	"github.com/rustycloud/chanstats/pkg/parser"
)

// Excluded is the identity assigned to bots and services. Excluded
// events count toward raw line totals but never toward per-nick
// statistics. The angle bracket makes collision with a real IRC nick
// impossible.
const Excluded = "<excluded>"

// serviceNicks are the default Anope service accounts, always excluded.
var serviceNicks = []string{
	"nickserv", "chanserv", "operserv", "memoserv", "botserv", "hostserv", "global",
}

// relayedNick extracts the embedded sender from a bridge-relayed
// message body, e.g. `<realnick> hello`.
var relayedNick = regexp.MustCompile(`^<(\S+)> (.*)$`)

// Resolver resolves raw nicks to canonical identities. Resolution is
// pure: the same input with the same configuration always yields the
// same identity, which keeps cached snapshots valid.
type Resolver struct {
	aliases map[string]string
	bots    map[string]bool
	bridges map[string]bool
	digest  string
}

// NewResolver builds a resolver from configured alias pairs, bot nicks,
// and bridge-bot nicks. Alias keys and values are normalized once here.
func NewResolver(aliases map[string]string, bots, bridges []string) *Resolver {
	r := &Resolver{
		aliases: make(map[string]string, len(aliases)),
		bots:    make(map[string]bool, len(bots)+len(serviceNicks)),
		bridges: make(map[string]bool, len(bridges)),
	}

	for raw, canonical := range aliases {
		r.aliases[Normalize(raw)] = Normalize(canonical)
	}
	for _, nick := range serviceNicks {
		r.bots[nick] = true
	}
	for _, nick := range bots {
		r.bots[Normalize(nick)] = true
	}
	for _, nick := range bridges {
		r.bridges[Normalize(nick)] = true
	}

	r.digest = r.computeDigest()

	return r
}

// Normalize lowercases and trims a raw nick token.
func Normalize(nick string) string {
	return strings.ToLower(strings.TrimSpace(nick))
}

// Rewrite applies the bridge-relay rule to an event: when the actor is
// a configured bridge bot and the message body embeds the true sender,
// the embedded nick replaces the relay account and the prefix is
// stripped from the text. All other events pass through unchanged.
func (r *Resolver) Rewrite(ev parser.Event) parser.Event {
	if ev.Kind != parser.KindMessage && ev.Kind != parser.KindAction {
		return ev
	}
	if !r.bridges[Normalize(ev.Actor)] {
		return ev
	}

	m := relayedNick.FindStringSubmatch(ev.Text)
	if m == nil {
		return ev
	}

	ev.Actor = m[1]
	ev.Text = m[2]
	return ev
}

// Resolve maps a raw nick to its canonical identity: alias lookup
// first, then bot and service filtering, otherwise the normalized
// nick stands for itself.
func (r *Resolver) Resolve(raw string) string {
	nick := Normalize(raw)

	if canonical, ok := r.aliases[nick]; ok {
		nick = canonical
	}

	if r.bots[nick] {
		return Excluded
	}

	return nick
}

// ConfigDigest returns a stable hash of everything that affects
// resolution. Snapshot caches embed it so that configuration changes
// invalidate stale entries.
func (r *Resolver) ConfigDigest() string {
	return r.digest
}

func (r *Resolver) computeDigest() string {
	var parts []string
	for raw, canonical := range r.aliases {
		parts = append(parts, "alias:"+raw+"="+canonical)
	}
	for nick := range r.bots {
		parts = append(parts, "bot:"+nick)
	}
	for nick := range r.bridges {
		parts = append(parts, "bridge:"+nick)
	}
	sort.Strings(parts)

	h := sha256.New()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}
