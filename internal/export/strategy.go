// Package export delivers a serialized backup to the user through whatever
// mechanism the current platform supports, falling back through an ordered
// strategy chain.
package export

import (
	"fmt"
	"time"
)

// Payload is the serialized backup handed to each strategy.
type Payload struct {
	Filename string
	Data     []byte
}

// Text returns the payload as a string, for text-oriented strategies.
func (p Payload) Text() string {
	return string(p.Data)
}

// Status is the tri-state outcome of a single delivery attempt.
type Status int

const (
	// Delivered means the strategy got the backup to the user.
	Delivered Status = iota
	// Declined means the platform or the user opted out; try the next one.
	Declined
	// Failed means the strategy errored unexpectedly; log and try the next one.
	Failed
)

// Outcome reports how a single strategy attempt went.
type Outcome struct {
	Status Status
	Err    error
}

// Strategy is one delivery mechanism in the chain.
type Strategy interface {
	// Name identifies the strategy in logs and receipts.
	Name() string

	// Method is the user-facing delivery category (download, share,
	// clipboard) shown in confirmation messages.
	Method() string

	// Deliver attempts to get the payload to the user.
	Deliver(p Payload) Outcome
}

// Filename returns the deterministic backup file name for the given time,
// arcana-backup-YYYY-MM-DD_hh-mm.json.
func Filename(t time.Time) string {
	return fmt.Sprintf("arcana-backup-%s.json", t.Format("2006-01-02_15-04"))
}

// NewPayload packages serialized backup text under the conventional name.
func NewPayload(text string, now time.Time) Payload {
	return Payload{
		Filename: Filename(now),
		Data:     []byte(text),
	}
}
