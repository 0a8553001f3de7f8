// Package parser classifies raw IRC log lines into structured events.
package parser

import "time"

// EventKind enumerates the recognized line shapes.
type EventKind string

const (
	KindMessage EventKind = "message"
	KindAction  EventKind = "action"
	KindTopic   EventKind = "topic"
	KindJoin    EventKind = "join"
	KindPart    EventKind = "part"
	KindKick    EventKind = "kick"
	KindNick    EventKind = "nick"
	KindQuit    EventKind = "quit"
	KindMode    EventKind = "mode"
)

// Event is a single classified log line. Events are values and are
// never mutated after construction; identity rewriting returns a copy.
type Event struct {
	// Time is the full timestamp. Lines carrying only a time of day
	// are combined with the date implied by the source file name.
	Time time.Time

	// Kind classifies the line shape.
	Kind EventKind

	// Actor is the raw nick that performed the event: the speaker for
	// messages and actions, the setter for topics, the kicker for kicks.
	Actor string

	// Target is the secondary nick where one exists: the kicked nick,
	// the new nick for nick changes, the recipient of a mode change.
	Target string

	// Text is the free-text payload: message body, action body, topic
	// text, or mode string.
	Text string
}
