// Package store implements the application state store: the single
// in-memory authority for cards, settings and transient query state, and
// the only component allowed to talk to persistence.
package store

import (
	"sync"
	"time"

	apperrors "github.com/arcanahq/arcana/internal/errors"
	"github.com/arcanahq/arcana/internal/export"
	"github.com/arcanahq/arcana/internal/filter"
	"github.com/arcanahq/arcana/internal/logging"
	"github.com/arcanahq/arcana/internal/models"
	"github.com/arcanahq/arcana/internal/uuid"
)

// Phase is the initialization state machine. Ready is terminal for the
// session; persistence failures during Loading degrade to Ready with
// in-memory defaults instead of blocking the app.
type Phase int

const (
	Uninitialized Phase = iota
	Loading
	Ready
)

// Persistence is the slice of the Local Store Adapter the store depends on.
// A nil Persistence means memory-only operation for the session.
type Persistence interface {
	LoadAllCards() ([]models.Card, error)
	ReplaceAllCards(cards []models.Card) error
	LoadSettings() (*models.Settings, error)
	SaveSettings(settings models.Settings) error
}

// Listener receives change notifications; the WebSocket hub implements it.
type Listener interface {
	Broadcast(event string, data map[string]interface{})
}

// Event types pushed to the listener on mutations.
const (
	EventCardCreated     = "cards.created"
	EventCardUpdated     = "cards.updated"
	EventCardDeleted     = "cards.deleted"
	EventSettingsUpdated = "settings.updated"
	EventBackupExported  = "backup.exported"
	EventBackupImported  = "backup.imported"
)

// CardFields is the caller-supplied part of a new card; id and timestamps
// are assigned internally.
type CardFields struct {
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	Language string   `json:"language"`
	Tags     []string `json:"tags"`
}

// BackupResult is the typed result of every backup-related operation. The
// UI never needs to catch errors from these calls.
type BackupResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Method  string `json:"method,omitempty"`
}

// sampleCards seeds the card table on first run.
var sampleCards = []models.Card{}

// Store owns the in-memory state. Mutations are synchronous against memory
// and mirrored to persistence asynchronously, best-effort; import is the
// one operation that awaits its own write.
type Store struct {
	mu sync.RWMutex

	phase        Phase
	cards        []models.Card
	settings     models.Settings
	searchQuery  string
	selectedTags []string

	persist  Persistence
	platform export.Platform
	compact  bool
	listener Listener

	// mirrors in flight; Flush waits for them
	mirrors sync.WaitGroup

	// per-table write sequencing: generations are stamped under mu at
	// mutation time, commits are serialized under the write mutex, and a
	// snapshot older than the last committed one is dropped so a slow
	// mirror can never overwrite a newer table rewrite
	cardsWriteMu    sync.Mutex
	cardsGen        uint64
	cardsWritten    uint64
	settingsWriteMu sync.Mutex
	settingsGen     uint64
	settingsWritten uint64

	now func() time.Time
}

// New creates a Store. persist may be nil when on-device storage could not
// be opened; the store then runs memory-only for the session.
func New(persist Persistence, platform export.Platform, compact bool) *Store {
	return &Store{
		phase:    Uninitialized,
		persist:  persist,
		platform: platform,
		compact:  compact,
		settings: models.DefaultSettings(compact),
		now:      time.Now,
	}
}

// SetListener registers the change listener. Call before Initialize.
func (s *Store) SetListener(l Listener) {
	s.listener = l
}

// Initialize loads persisted state, seeding the sample set on first run.
// It must complete before the UI renders interactive content; it never
// fails, it degrades.
func (s *Store) Initialize() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != Uninitialized {
		return
	}
	s.phase = Loading

	s.cards = append([]models.Card(nil), sampleCards...)

	if s.persist == nil {
		logging.Warn("storage unavailable, running memory-only for this session")
		s.phase = Ready
		return
	}

	loaded, err := s.persist.LoadAllCards()
	switch {
	case err != nil:
		logging.Error("failed to load cards, starting empty", err)
	case len(loaded) == 0:
		// first run: persist the seed so later sessions start consistent
		s.mirrorCardsLocked()
	default:
		s.cards = loaded
	}

	settings, err := s.persist.LoadSettings()
	if err != nil {
		logging.Error("failed to load settings, using defaults", err)
	} else if settings != nil {
		s.settings = *settings
	}

	s.phase = Ready
	logging.Info("store initialized", map[string]interface{}{
		"cards":   len(s.cards),
		"compact": s.compact,
	})
}

// Phase returns the initialization phase.
func (s *Store) Phase() Phase {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.phase
}

// Cards returns a copy of the full card list, never nil: the UI expects an
// array even when the store is empty.
func (s *Store) Cards() []models.Card {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cards := make([]models.Card, len(s.cards))
	copy(cards, s.cards)
	return cards
}

// Card returns the card with the given id.
func (s *Store) Card(id models.UUID) (models.Card, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, card := range s.cards {
		if card.ID == id {
			return card, true
		}
	}
	return models.Card{}, false
}

// AddCard assigns a fresh id and timestamps, appends the card and mirrors
// the list to storage.
func (s *Store) AddCard(fields CardFields) models.Card {
	s.mu.Lock()

	now := s.now()
	card := models.Card{
		ID:        models.UUID(uuid.New()),
		Title:     fields.Title,
		Content:   fields.Content,
		Language:  fields.Language,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, tag := range fields.Tags {
		card.AddTag(tag)
	}

	s.cards = append(s.cards, card)
	s.mirrorCardsLocked()
	s.mu.Unlock()

	s.broadcast(EventCardCreated, map[string]interface{}{"id": card.ID.String()})
	return card
}

// UpdateCard replaces the non-nil fields of the card with that id and
// refreshes updatedAt. It is a no-op when the id is unknown.
func (s *Store) UpdateCard(id models.UUID, update models.CardUpdate) (models.Card, bool) {
	s.mu.Lock()

	for i := range s.cards {
		if s.cards[i].ID != id {
			continue
		}
		update.Apply(&s.cards[i])
		s.cards[i].UpdatedAt = s.now()
		card := s.cards[i]
		s.mirrorCardsLocked()
		s.mu.Unlock()

		s.broadcast(EventCardUpdated, map[string]interface{}{"id": id.String()})
		return card, true
	}

	s.mu.Unlock()
	return models.Card{}, false
}

// DeleteCard removes the card with that id; deleting an unknown id leaves
// the list unchanged.
func (s *Store) DeleteCard(id models.UUID) bool {
	s.mu.Lock()

	for i := range s.cards {
		if s.cards[i].ID != id {
			continue
		}
		s.cards = append(s.cards[:i], s.cards[i+1:]...)
		s.mirrorCardsLocked()
		s.mu.Unlock()

		s.broadcast(EventCardDeleted, map[string]interface{}{"id": id.String()})
		return true
	}

	s.mu.Unlock()
	return false
}

// Settings returns the current settings record.
func (s *Store) Settings() models.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// UpdateSettings merges a partial settings document (raw JSON) over the
// current record and mirrors it.
func (s *Store) UpdateSettings(partial []byte) (models.Settings, error) {
	s.mu.Lock()

	merged := s.settings
	if err := merged.Merge(partial); err != nil {
		s.mu.Unlock()
		return s.settings, apperrors.Wrap(apperrors.ErrInvalid, "invalid settings document", err)
	}
	s.settings = merged
	s.mirrorSettingsLocked()
	s.mu.Unlock()

	s.broadcast(EventSettingsUpdated, nil)
	return merged, nil
}

// SetSearchQuery updates the transient free-text query.
func (s *Store) SetSearchQuery(query string) {
	s.mu.Lock()
	s.searchQuery = query
	s.mu.Unlock()
}

// SearchQuery returns the transient free-text query.
func (s *Store) SearchQuery() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.searchQuery
}

// SetSelectedTags updates the transient tag selection.
func (s *Store) SetSelectedTags(tags []string) {
	s.mu.Lock()
	s.selectedTags = append([]string(nil), tags...)
	s.mu.Unlock()
}

// SelectedTags returns the transient tag selection.
func (s *Store) SelectedTags() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.selectedTags...)
}

// FilteredCards applies the current query state to the card list.
func (s *Store) FilteredCards() []models.Card {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return filter.Cards(s.cards, s.searchQuery, s.selectedTags)
}

// AllTags returns the distinct tags across all cards in first-seen order.
func (s *Store) AllTags() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]bool)
	tags := []string{}
	for _, card := range s.cards {
		for _, tag := range card.Tags {
			if !seen[tag] {
				seen[tag] = true
				tags = append(tags, tag)
			}
		}
	}
	return tags
}

// Flush waits for in-flight persistence mirrors. Called on shutdown and in
// tests; normal operation never waits.
func (s *Store) Flush() {
	s.mirrors.Wait()
}

// mirrorCardsLocked snapshots the card list and rewrites the card table in
// the background. Failures are logged and swallowed: the in-memory state
// stays the source of truth for the session.
func (s *Store) mirrorCardsLocked() {
	if s.persist == nil {
		return
	}
	s.cardsGen++
	gen := s.cardsGen
	snapshot := append([]models.Card(nil), s.cards...)
	s.mirrors.Add(1)
	go func() {
		defer s.mirrors.Done()
		if err := s.writeCards(gen, snapshot); err != nil {
			logging.Error("failed to save cards", err, map[string]interface{}{
				"count": len(snapshot),
			})
		}
	}()
}

// mirrorSettingsLocked persists the settings record in the background.
func (s *Store) mirrorSettingsLocked() {
	if s.persist == nil {
		return
	}
	s.settingsGen++
	gen := s.settingsGen
	snapshot := s.settings
	s.mirrors.Add(1)
	go func() {
		defer s.mirrors.Done()
		if err := s.writeSettings(gen, snapshot); err != nil {
			logging.Error("failed to save settings", err)
		}
	}()
}

// writeCards commits one card snapshot. Commits are serialized and stale
// generations are dropped, so the table on disk always ends at the newest
// snapshot regardless of how the mirror goroutines are scheduled.
func (s *Store) writeCards(gen uint64, snapshot []models.Card) error {
	s.cardsWriteMu.Lock()
	defer s.cardsWriteMu.Unlock()
	if gen <= s.cardsWritten {
		return nil
	}
	s.cardsWritten = gen
	return s.persist.ReplaceAllCards(snapshot)
}

// writeSettings commits one settings snapshot, with the same sequencing as
// writeCards.
func (s *Store) writeSettings(gen uint64, snapshot models.Settings) error {
	s.settingsWriteMu.Lock()
	defer s.settingsWriteMu.Unlock()
	if gen <= s.settingsWritten {
		return nil
	}
	s.settingsWritten = gen
	return s.persist.SaveSettings(snapshot)
}

func (s *Store) broadcast(event string, data map[string]interface{}) {
	if s.listener != nil {
		s.listener.Broadcast(event, data)
	}
}
