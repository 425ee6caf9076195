// Package store tests for the backup entry points.
package store

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arcanahq/arcana/internal/export"
	"github.com/arcanahq/arcana/internal/models"
)

func TestExportData_desktopFallsBackToDownload(t *testing.T) {
	dir := t.TempDir()
	platform := export.Platform{DownloadsDir: dir}

	s := New(&fakePersistence{}, platform, false)
	s.Initialize()
	s.AddCard(CardFields{Title: "A", Content: "x"})

	result := s.ExportData()

	require.True(t, result.Success, result.Message)
	assert.Equal(t, "download", result.Method)
}

func TestExportData_compactPrefersShare(t *testing.T) {
	shared := false
	platform := export.Platform{
		Sharer: func(string, []byte) (bool, error) {
			shared = true
			return true, nil
		},
		DownloadsDir: t.TempDir(),
	}

	s := New(&fakePersistence{}, platform, true)
	s.Initialize()

	result := s.ExportData()

	require.True(t, result.Success)
	assert.True(t, shared)
	assert.Equal(t, "share", result.Method)
}

func TestExportData_allStrategiesExhausted(t *testing.T) {
	platform := export.Platform{
		Clipboard: func(string) error { return errors.New("no clipboard on this platform") },
	}

	s := New(&fakePersistence{}, platform, false)
	s.Initialize()

	result := s.ExportData()
	assert.False(t, result.Success)
	assert.Empty(t, result.Method)
	assert.NotEmpty(t, result.Message)
}

func TestShareBackup_unsupportedPlatform(t *testing.T) {
	s := New(&fakePersistence{}, export.Platform{}, false)
	s.Initialize()

	result := s.ShareBackup()
	assert.False(t, result.Success)
}

func TestCopyBackupToClipboard(t *testing.T) {
	var copied string
	platform := export.Platform{Clipboard: func(text string) error {
		copied = text
		return nil
	}}

	s := New(&fakePersistence{}, platform, false)
	s.Initialize()
	s.AddCard(CardFields{Title: "A", Content: "x"})

	result := s.CopyBackupToClipboard()

	require.True(t, result.Success)
	assert.Equal(t, "clipboard", result.Method)
	assert.Contains(t, copied, `"cards"`)
}

func TestImportData_rejectsGarbageAndKeepsState(t *testing.T) {
	s := New(&fakePersistence{}, quietPlatform(), false)
	s.Initialize()
	card := s.AddCard(CardFields{Title: "keep me"})
	settingsBefore := s.Settings()

	result := s.ImportData("not json")

	assert.False(t, result.Success)
	assert.Equal(t, "Backup file is corrupted or not valid JSON.", result.Message)
	require.Len(t, s.Cards(), 1)
	assert.Equal(t, card.ID, s.Cards()[0].ID)
	assert.Equal(t, settingsBefore, s.Settings())
}

func TestImportData_rejectsWrongShape(t *testing.T) {
	s := New(&fakePersistence{}, quietPlatform(), false)
	s.Initialize()
	s.AddCard(CardFields{Title: "keep me"})

	result := s.ImportData(`{"foo": 1}`)

	assert.False(t, result.Success)
	assert.Equal(t, "Not an Arcana backup file.", result.Message)
	assert.Len(t, s.Cards(), 1)
}

func TestImportData_wholesaleReplace(t *testing.T) {
	persist := &fakePersistence{}
	s := New(persist, quietPlatform(), false)
	s.Initialize()
	s.AddCard(CardFields{Title: "old one"})
	s.AddCard(CardFields{Title: "old two"})

	result := s.ImportData(`{
	  "cards": [{
	    "id": "imported-1", "title": "new", "content": "x", "language": "go",
	    "tags": ["API"], "createdAt": "2024-05-01T10:00:00Z", "updatedAt": "2024-05-01T10:00:00Z"
	  }],
	  "settings": {"darkMode": true}
	}`)

	require.True(t, result.Success)
	assert.Equal(t, "Backup restored! 1 card imported.", result.Message)

	cards := s.Cards()
	require.Len(t, cards, 1, "import replaces, it does not merge")
	assert.Equal(t, models.UUID("imported-1"), cards[0].ID, "ids are preserved, not regenerated")
	assert.True(t, s.Settings().DarkMode)
	assert.Equal(t, 60, s.Settings().CustomFPS, "omitted settings fields get defaults")

	// import awaits its own write, no Flush needed
	require.Len(t, persist.storedCards(), 1)
	assert.Equal(t, models.UUID("imported-1"), persist.storedCards()[0].ID)
}

func TestImportData_settingsOnlyLeavesCards(t *testing.T) {
	s := New(&fakePersistence{}, quietPlatform(), false)
	s.Initialize()
	s.AddCard(CardFields{Title: "survives"})

	result := s.ImportData(`{"settings": {"neonIntensity": 5}}`)

	require.True(t, result.Success)
	assert.Len(t, s.Cards(), 1)
	assert.Equal(t, 5, s.Settings().NeonIntensity)
}

func TestEndToEnd_exportThenImportOnFreshStore(t *testing.T) {
	first := New(&fakePersistence{}, quietPlatform(), false)
	first.Initialize()

	added := first.AddCard(CardFields{
		Title: "A", Content: "x", Language: "python", Tags: []string{"DB"},
	})
	require.Len(t, first.Cards(), 1)
	assert.True(t, added.CreatedAt.Equal(added.UpdatedAt))

	text, err := first.BackupData()
	require.NoError(t, err)

	second := New(&fakePersistence{}, quietPlatform(), false)
	second.Initialize()

	result := second.ImportData(text)
	require.True(t, result.Success, result.Message)

	cards := second.Cards()
	require.Len(t, cards, 1)
	assert.Equal(t, added.ID, cards[0].ID)
	assert.Equal(t, "A", cards[0].Title)
	assert.Equal(t, "x", cards[0].Content)
	assert.Equal(t, "python", cards[0].Language)
	assert.Equal(t, []string{"DB"}, cards[0].Tags)
	assert.True(t, cards[0].CreatedAt.Equal(added.CreatedAt.Truncate(time.Millisecond)) ||
		cards[0].CreatedAt.Equal(added.CreatedAt),
		"timestamps survive the round trip")
}

func TestImportData_staleMirrorCannotOverwriteImport(t *testing.T) {
	persist := &gatedPersistence{cardGate: newGate()}
	persist.fakePersistence.cards = []models.Card{{ID: "existing", Title: "Existing"}}
	s := readyStore(t, persist)

	s.AddCard(CardFields{Title: "pre-import"})
	<-persist.cardGate.entered

	// import while the pre-import mirror is still stalled inside the adapter
	done := make(chan BackupResult, 1)
	go func() {
		done <- s.ImportData(`{"cards":[{"id":"imported-1","title":"Imported","content":"x","language":"go","tags":[],"createdAt":"2024-01-01T00:00:00Z","updatedAt":"2024-01-01T00:00:00Z"}]}`)
	}()

	close(persist.cardGate.release)
	result := <-done
	s.Flush()

	require.True(t, result.Success)
	stored := persist.storedCards()
	require.Len(t, stored, 1, "disk should hold exactly the imported cards")
	assert.Equal(t, "Imported", stored[0].Title)
}
