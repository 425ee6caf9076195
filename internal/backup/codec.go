// Package backup converts application state to and from the portable
// backup envelope used for export and import.
package backup

import (
	"bytes"
	"encoding/json"
	"time"

	apperrors "github.com/arcanahq/arcana/internal/errors"
	"github.com/arcanahq/arcana/internal/models"
)

// FormatVersion is recorded in the envelope metadata. It is tracked for
// forward compatibility but not currently branched on: settings evolve via
// merge-over-defaults instead of versioned migrations.
const FormatVersion = "1.0"

// Meta is the metadata block of a backup envelope.
type Meta struct {
	Version    string    `json:"version"`
	ExportedAt time.Time `json:"exportedAt"`
	CardCount  int       `json:"cardCount"`
}

// Envelope is the wire format of a full backup.
type Envelope struct {
	Meta     Meta            `json:"_meta"`
	Cards    []models.Card   `json:"cards"`
	Settings models.Settings `json:"settings"`
}

// Restore is the result of parsing a backup. HasCards distinguishes an
// absent cards collection from a present-but-empty one; Settings is nil
// when the envelope carried none.
type Restore struct {
	Cards    []models.Card
	HasCards bool
	Settings *models.Settings
}

// Serialize encodes the full application state as indented JSON with a
// deterministic field order.
func Serialize(cards []models.Card, settings models.Settings) (string, error) {
	if cards == nil {
		cards = []models.Card{}
	}
	envelope := Envelope{
		Meta: Meta{
			Version:    FormatVersion,
			ExportedAt: time.Now().UTC(),
			CardCount:  len(cards),
		},
		Cards:    cards,
		Settings: settings,
	}

	data, err := json.MarshalIndent(envelope, "", "  ")
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrInternal, "failed to encode backup", err)
	}
	return string(data), nil
}

// Parse validates and decodes a backup. It fails with MALFORMED_BACKUP when
// the text is not well-formed JSON and with INVALID_BACKUP_SHAPE when it is
// well-formed but contains neither a cards array nor a settings object.
// Parsed settings are merged over the supplied defaults so backups written
// before a settings field existed still restore cleanly.
func Parse(text string, defaults models.Settings) (*Restore, error) {
	raw := []byte(text)
	if !json.Valid(raw) {
		return nil, apperrors.New(apperrors.ErrMalformedBackup, "backup is not well-formed JSON")
	}

	var probe struct {
		Cards    json.RawMessage `json:"cards"`
		Settings json.RawMessage `json:"settings"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInvalidBackupShape, "backup is not an object", err)
	}

	hasCards := present(probe.Cards)
	hasSettings := present(probe.Settings)
	if !hasCards && !hasSettings {
		return nil, apperrors.New(apperrors.ErrInvalidBackupShape, "backup contains neither cards nor settings")
	}

	restore := &Restore{}

	if hasCards {
		var cards []models.Card
		if err := json.Unmarshal(probe.Cards, &cards); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInvalidBackupShape, "cards is not a card array", err)
		}
		if cards == nil {
			cards = []models.Card{}
		}
		restore.Cards = cards
		restore.HasCards = true
	}

	if hasSettings {
		settings := defaults
		if err := settings.Merge(probe.Settings); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInvalidBackupShape, "settings is not a settings object", err)
		}
		restore.Settings = &settings
	}

	return restore, nil
}

// present reports whether a raw field exists and is not the null literal.
func present(raw json.RawMessage) bool {
	return len(raw) > 0 && !bytes.Equal(raw, []byte("null"))
}
