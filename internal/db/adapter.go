// Package db provides the Local Store Adapter over the two logical tables.
package db

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/arcanahq/arcana/internal/models"
)

// settingsKey is the fixed identifier of the single settings record.
const settingsKey = "main"

// Adapter mirrors the in-memory application state into the cards and
// settings tables. The in-memory list is always authoritative and small, so
// card writes are whole-table rewrites rather than incremental diffs.
type Adapter struct {
	db *DB

	// writes to the same table must not interleave
	cardsMu    sync.Mutex
	settingsMu sync.Mutex
}

// NewAdapter creates an Adapter over an open database.
func NewAdapter(db *DB) *Adapter {
	return &Adapter{db: db}
}

// LoadAllCards returns every stored card ordered by creation time.
// An empty result on first run is not an error.
func (a *Adapter) LoadAllCards() ([]models.Card, error) {
	query := `
	SELECT id, title, content, language, tags, created_at, updated_at
	FROM cards ORDER BY created_at ASC
	`
	rows, err := a.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cards []models.Card
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, err
		}
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return cards, nil
}

// ReplaceAllCards transactionally clears and rewrites the entire card table.
func (a *Adapter) ReplaceAllCards(cards []models.Card) error {
	a.cardsMu.Lock()
	defer a.cardsMu.Unlock()

	tx, err := a.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM cards`); err != nil {
		return err
	}

	stmt, err := tx.Prepare(`
	INSERT INTO cards (id, title, content, language, tags, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, card := range cards {
		tags, err := json.Marshal(card.Tags)
		if err != nil {
			return fmt.Errorf("failed to encode tags for card %s: %w", card.ID, err)
		}
		_, err = stmt.Exec(card.ID, card.Title, card.Content, card.Language,
			string(tags), card.CreatedAt.UnixMilli(), card.UpdatedAt.UnixMilli())
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// LoadSettings returns the stored settings record, or (nil, nil) when none
// has been saved yet.
func (a *Adapter) LoadSettings() (*models.Settings, error) {
	var data string
	err := a.db.QueryRow(`SELECT data FROM settings WHERE id = ?`, settingsKey).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	// Decode over defaults so fields added after the record was written
	// still get sane values.
	settings := models.DefaultSettings(false)
	if err := settings.Merge([]byte(data)); err != nil {
		return nil, fmt.Errorf("failed to decode settings record: %w", err)
	}
	return &settings, nil
}

// SaveSettings upserts the single settings record.
func (a *Adapter) SaveSettings(settings models.Settings) error {
	a.settingsMu.Lock()
	defer a.settingsMu.Unlock()

	data, err := json.Marshal(settings)
	if err != nil {
		return err
	}

	query := `
	INSERT INTO settings (id, data) VALUES (?, ?)
	ON CONFLICT(id) DO UPDATE SET data = excluded.data
	`
	_, err = a.db.Exec(query, settingsKey, string(data))
	return err
}

// scanCard decodes one card row, reviving tags and millisecond timestamps.
func scanCard(rows *sql.Rows) (models.Card, error) {
	var card models.Card
	var tags string
	var createdAt, updatedAt int64

	err := rows.Scan(&card.ID, &card.Title, &card.Content, &card.Language,
		&tags, &createdAt, &updatedAt)
	if err != nil {
		return models.Card{}, err
	}

	if err := json.Unmarshal([]byte(tags), &card.Tags); err != nil {
		return models.Card{}, fmt.Errorf("failed to decode tags for card %s: %w", card.ID, err)
	}
	card.CreatedAt = time.UnixMilli(createdAt)
	card.UpdatedAt = time.UnixMilli(updatedAt)
	return card, nil
}
