// Package store tests for the application state store.
package store

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arcanahq/arcana/internal/export"
	"github.com/arcanahq/arcana/internal/models"
	"github.com/arcanahq/arcana/internal/uuid"
)

// fakePersistence is an in-memory stand-in for the Local Store Adapter.
type fakePersistence struct {
	mu         sync.Mutex
	cards      []models.Card
	settings   *models.Settings
	cardWrites int
	failWrites bool
	failLoads  bool
}

func (f *fakePersistence) LoadAllCards() ([]models.Card, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failLoads {
		return nil, errors.New("load failed")
	}
	return append([]models.Card(nil), f.cards...), nil
}

func (f *fakePersistence) ReplaceAllCards(cards []models.Card) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWrites {
		return errors.New("write failed")
	}
	f.cards = append([]models.Card(nil), cards...)
	f.cardWrites++
	return nil
}

func (f *fakePersistence) LoadSettings() (*models.Settings, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failLoads {
		return nil, errors.New("load failed")
	}
	return f.settings, nil
}

func (f *fakePersistence) SaveSettings(settings models.Settings) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWrites {
		return errors.New("write failed")
	}
	s := settings
	f.settings = &s
	return nil
}

func (f *fakePersistence) storedCards() []models.Card {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Card(nil), f.cards...)
}

func (f *fakePersistence) storedSettings() *models.Settings {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.settings
}

// gate lets a test hold the first write open inside the adapter so later
// snapshots queue up behind it.
type gate struct {
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func newGate() *gate {
	return &gate{entered: make(chan struct{}), release: make(chan struct{})}
}

func (g *gate) hold() {
	g.once.Do(func() {
		close(g.entered)
		<-g.release
	})
}

// gatedPersistence is a fakePersistence whose first card or settings write
// blocks on the corresponding gate.
type gatedPersistence struct {
	fakePersistence
	cardGate     *gate
	settingsGate *gate
}

func (g *gatedPersistence) ReplaceAllCards(cards []models.Card) error {
	if g.cardGate != nil {
		g.cardGate.hold()
	}
	return g.fakePersistence.ReplaceAllCards(cards)
}

func (g *gatedPersistence) SaveSettings(settings models.Settings) error {
	if g.settingsGate != nil {
		g.settingsGate.hold()
	}
	return g.fakePersistence.SaveSettings(settings)
}

// recordingListener captures broadcast events.
type recordingListener struct {
	mu     sync.Mutex
	events []string
}

func (l *recordingListener) Broadcast(event string, data map[string]interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, event)
}

func (l *recordingListener) seen(event string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, e := range l.events {
		if e == event {
			return true
		}
	}
	return false
}

func quietPlatform() export.Platform {
	return export.Platform{
		DownloadsDir: "",
		Clipboard:    func(string) error { return nil },
	}
}

func readyStore(t *testing.T, persist Persistence) *Store {
	t.Helper()
	s := New(persist, quietPlatform(), false)
	s.Initialize()
	require.Equal(t, Ready, s.Phase())
	return s
}

func TestInitialize_memoryOnlyWhenStorageUnavailable(t *testing.T) {
	s := New(nil, quietPlatform(), false)
	assert.Equal(t, Uninitialized, s.Phase())

	s.Initialize()

	assert.Equal(t, Ready, s.Phase())
	assert.Empty(t, s.Cards())
	assert.Equal(t, models.DefaultSettings(false), s.Settings())

	// memory-only mutations still work
	card := s.AddCard(CardFields{Title: "A", Content: "x"})
	assert.NotEmpty(t, card.ID)
	assert.Len(t, s.Cards(), 1)
}

func TestInitialize_loadsPersistedState(t *testing.T) {
	persisted := models.Card{
		ID: "card-1", Title: "stored", Language: "go",
		CreatedAt: time.Now().Add(-time.Hour), UpdatedAt: time.Now().Add(-time.Hour),
	}
	settings := models.DefaultSettings(false)
	settings.DarkMode = true
	persist := &fakePersistence{cards: []models.Card{persisted}, settings: &settings}

	s := readyStore(t, persist)

	require.Len(t, s.Cards(), 1)
	assert.Equal(t, persisted.ID, s.Cards()[0].ID)
	assert.True(t, s.Settings().DarkMode)
}

func TestInitialize_degradesOnLoadFailure(t *testing.T) {
	persist := &fakePersistence{failLoads: true}

	s := readyStore(t, persist)

	assert.Empty(t, s.Cards())
	assert.Equal(t, models.DefaultSettings(false), s.Settings())
}

func TestInitialize_compactDefaults(t *testing.T) {
	s := New(nil, quietPlatform(), true)
	s.Initialize()

	got := s.Settings()
	assert.Equal(t, 150, got.StarCount)
	assert.True(t, got.PerformanceMode)
}

func TestAddCard(t *testing.T) {
	persist := &fakePersistence{}
	s := readyStore(t, persist)

	card := s.AddCard(CardFields{
		Title:    "A",
		Content:  "x",
		Language: "python",
		Tags:     []string{"DB", "DB", "API"},
	})

	assert.True(t, uuid.IsValid(card.ID.String()), "id should be a generated UUID v4")
	assert.True(t, card.CreatedAt.Equal(card.UpdatedAt), "createdAt == updatedAt at creation")
	assert.Equal(t, []string{"DB", "API"}, card.Tags, "duplicate tags are not added")

	s.Flush()
	assert.Equal(t, card.ID, persist.storedCards()[0].ID, "mutation must mirror to storage")
}

func TestUpdateCard_refreshesTimestamp(t *testing.T) {
	s := readyStore(t, &fakePersistence{})
	card := s.AddCard(CardFields{Title: "A", Content: "x"})

	// advance the injected clock so the refresh is strictly greater
	base := card.UpdatedAt
	s.now = func() time.Time { return base.Add(time.Second) }

	title := "B"
	updated, ok := s.UpdateCard(card.ID, models.CardUpdate{Title: &title})
	require.True(t, ok)

	assert.Equal(t, "B", updated.Title)
	assert.Equal(t, "x", updated.Content, "unset fields stay untouched")
	assert.True(t, updated.UpdatedAt.After(base))
	assert.True(t, updated.CreatedAt.Equal(card.CreatedAt), "createdAt never changes")
}

func TestUpdateCard_unknownIDIsNoop(t *testing.T) {
	s := readyStore(t, &fakePersistence{})
	before := s.AddCard(CardFields{Title: "A"})

	title := "B"
	_, ok := s.UpdateCard("missing", models.CardUpdate{Title: &title})

	assert.False(t, ok)
	require.Len(t, s.Cards(), 1)
	assert.Equal(t, before, s.Cards()[0])
}

func TestDeleteCard_idempotent(t *testing.T) {
	s := readyStore(t, &fakePersistence{})
	card := s.AddCard(CardFields{Title: "A"})

	assert.True(t, s.DeleteCard(card.ID))
	assert.False(t, s.DeleteCard(card.ID), "second delete is a no-op")
	assert.False(t, s.DeleteCard("never-existed"))
	assert.Empty(t, s.Cards())
}

func TestUpdateSettings_partialMerge(t *testing.T) {
	persist := &fakePersistence{}
	s := readyStore(t, persist)

	got, err := s.UpdateSettings([]byte(`{"fogIntensity": 5}`))
	require.NoError(t, err)

	assert.Equal(t, 5, got.FogIntensity)
	assert.Equal(t, 70, got.NeonIntensity, "untouched fields keep their values")

	s.Flush()
	require.NotNil(t, persist.settings)
	assert.Equal(t, 5, persist.settings.FogIntensity)
}

func TestUpdateSettings_invalidInputLeavesStateAlone(t *testing.T) {
	s := readyStore(t, &fakePersistence{})
	before := s.Settings()

	_, err := s.UpdateSettings([]byte("not json"))
	require.Error(t, err)
	assert.Equal(t, before, s.Settings())
}

func TestPersistenceFailuresAreSwallowed(t *testing.T) {
	persist := &fakePersistence{failWrites: true}
	s := readyStore(t, persist)

	card := s.AddCard(CardFields{Title: "A"})
	s.Flush()

	// the in-memory state remains authoritative despite the failed mirror
	require.Len(t, s.Cards(), 1)
	assert.Equal(t, card.ID, s.Cards()[0].ID)
}

func TestQueryState(t *testing.T) {
	s := readyStore(t, &fakePersistence{})
	s.AddCard(CardFields{Title: "A", Content: "x", Language: "python", Tags: []string{"API"}})
	s.AddCard(CardFields{Title: "B", Content: "y", Language: "go", Tags: []string{"DB"}})

	s.SetSelectedTags([]string{"API"})
	filtered := s.FilteredCards()
	require.Len(t, filtered, 1)
	assert.Equal(t, "A", filtered[0].Title)

	s.SetSelectedTags(nil)
	s.SetSearchQuery("db")
	filtered = s.FilteredCards()
	require.Len(t, filtered, 1)
	assert.Equal(t, "B", filtered[0].Title, "query matches tag DB case-insensitively")
}

func TestEmptyStoreReturnsEmptySlices(t *testing.T) {
	s := readyStore(t, &fakePersistence{})

	assert.NotNil(t, s.Cards(), "empty card list must serialize as an array")
	assert.NotNil(t, s.AllTags(), "empty tag list must serialize as an array")
}

func TestAllTags_distinctInFirstSeenOrder(t *testing.T) {
	s := readyStore(t, &fakePersistence{})
	s.AddCard(CardFields{Title: "A", Tags: []string{"API", "DB"}})
	s.AddCard(CardFields{Title: "B", Tags: []string{"DB", "UI"}})

	assert.Equal(t, []string{"API", "DB", "UI"}, s.AllTags())
}

func TestListenerReceivesEvents(t *testing.T) {
	s := New(&fakePersistence{}, quietPlatform(), false)
	listener := &recordingListener{}
	s.SetListener(listener)
	s.Initialize()

	card := s.AddCard(CardFields{Title: "A"})
	s.UpdateSettings([]byte(`{}`))
	s.DeleteCard(card.ID)

	assert.True(t, listener.seen(EventCardCreated))
	assert.True(t, listener.seen(EventSettingsUpdated))
	assert.True(t, listener.seen(EventCardDeleted))
}

func TestMirrorCards_slowMirrorCannotOverwriteNewerSnapshot(t *testing.T) {
	existing := models.Card{ID: "existing", Title: "Existing", CreatedAt: time.Now(), UpdatedAt: time.Now()}
	persist := &gatedPersistence{cardGate: newGate()}
	persist.fakePersistence.cards = []models.Card{existing}
	s := readyStore(t, persist)

	s.AddCard(CardFields{Title: "first"})
	<-persist.cardGate.entered

	// the first mirror is stalled inside the adapter; mutate again so a
	// newer snapshot queues up behind it
	s.AddCard(CardFields{Title: "second"})
	close(persist.cardGate.release)
	s.Flush()

	stored := persist.storedCards()
	require.Len(t, stored, 3, "disk should end at the newest snapshot")
	titles := make([]string, len(stored))
	for i, card := range stored {
		titles[i] = card.Title
	}
	assert.Contains(t, titles, "first")
	assert.Contains(t, titles, "second")
}

func TestMirrorSettings_slowMirrorCannotOverwriteNewerSnapshot(t *testing.T) {
	persist := &gatedPersistence{settingsGate: newGate()}
	persist.fakePersistence.cards = []models.Card{{ID: "existing", Title: "Existing"}}
	s := readyStore(t, persist)

	_, err := s.UpdateSettings([]byte(`{"fogIntensity": 10}`))
	require.NoError(t, err)
	<-persist.settingsGate.entered

	_, err = s.UpdateSettings([]byte(`{"fogIntensity": 20}`))
	require.NoError(t, err)
	close(persist.settingsGate.release)
	s.Flush()

	stored := persist.storedSettings()
	require.NotNil(t, stored)
	assert.Equal(t, 20, stored.FogIntensity, "disk should end at the newest settings")
}
