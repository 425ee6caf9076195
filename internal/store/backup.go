package store

import (
	"fmt"

	"github.com/arcanahq/arcana/internal/backup"
	apperrors "github.com/arcanahq/arcana/internal/errors"
	"github.com/arcanahq/arcana/internal/export"
	"github.com/arcanahq/arcana/internal/logging"
	"github.com/arcanahq/arcana/internal/models"
)

// BackupData serializes the full application state.
func (s *Store) BackupData() (string, error) {
	s.mu.RLock()
	cards := append([]models.Card(nil), s.cards...)
	settings := s.settings
	s.mu.RUnlock()

	return backup.Serialize(cards, settings)
}

// ExportData delivers a backup through the combined export entry point:
// share sheet first on compact devices, then save dialog, download and
// clipboard.
func (s *Store) ExportData() BackupResult {
	return s.deliver(s.platform.ExportChain(s.compact), EventBackupExported)
}

// ShareBackup delivers a backup through the share sheet only.
func (s *Store) ShareBackup() BackupResult {
	return s.deliver(s.platform.ShareChain(), EventBackupExported)
}

// CopyBackupToClipboard copies the serialized backup to the clipboard.
func (s *Store) CopyBackupToClipboard() BackupResult {
	return s.deliver(s.platform.ClipboardChain(), EventBackupExported)
}

func (s *Store) deliver(chain *export.Chain, event string) BackupResult {
	text, err := s.BackupData()
	if err != nil {
		logging.Error("backup serialization failed", err)
		return BackupResult{Success: false, Message: "Could not prepare backup data. Try again."}
	}

	receipt, err := chain.Deliver(export.NewPayload(text, s.now()))
	if err != nil {
		return BackupResult{Success: false, Message: deliveryFailureMessage(err)}
	}

	s.broadcast(event, map[string]interface{}{"method": receipt.Method})
	return BackupResult{
		Success: true,
		Message: deliveryMessage(receipt),
		Method:  receipt.Method,
	}
}

// ImportData parses a backup and wholesale-replaces the card list and/or
// settings; parsed settings are merged over defaults rather than taken as
// a complete record. Unlike the mutation mirrors, import awaits its own
// persistence write so the restore can be trusted.
func (s *Store) ImportData(text string) BackupResult {
	restore, err := backup.Parse(text, models.DefaultSettings(s.compact))
	if err != nil {
		return BackupResult{Success: false, Message: importFailureMessage(err)}
	}

	s.mu.Lock()
	imported := 0
	var cardsGen, settingsGen uint64
	if restore.HasCards {
		s.cards = append([]models.Card(nil), restore.Cards...)
		imported = len(restore.Cards)
		s.cardsGen++
		cardsGen = s.cardsGen
	}
	if restore.Settings != nil {
		s.settings = *restore.Settings
		s.settingsGen++
		settingsGen = s.settingsGen
	}
	cards := append([]models.Card(nil), s.cards...)
	settings := s.settings
	s.mu.Unlock()

	if s.persist != nil {
		if restore.HasCards {
			if err := s.writeCards(cardsGen, cards); err != nil {
				logging.Error("failed to persist imported cards", err)
			}
		}
		if restore.Settings != nil {
			if err := s.writeSettings(settingsGen, settings); err != nil {
				logging.Error("failed to persist imported settings", err)
			}
		}
	}

	s.broadcast(EventBackupImported, map[string]interface{}{"cards": imported})

	plural := "s"
	if imported == 1 {
		plural = ""
	}
	return BackupResult{
		Success: true,
		Message: fmt.Sprintf("Backup restored! %d card%s imported.", imported, plural),
	}
}

func deliveryMessage(receipt *export.Receipt) string {
	switch receipt.Strategy {
	case "share-sheet":
		return "Backup shared successfully!"
	case "native-save-dialog":
		return "Backup saved successfully!"
	case "download":
		return "Backup downloaded successfully!"
	case "clipboard":
		return "Backup copied to clipboard! Paste it into a .json file to save."
	default:
		return "Backup exported successfully!"
	}
}

func deliveryFailureMessage(err error) string {
	if apperrors.Is(err, apperrors.ErrExportDeliveryFailed) {
		return "Could not export data on this device. Try again."
	}
	return "Could not export data. Try again."
}

func importFailureMessage(err error) string {
	switch {
	case apperrors.Is(err, apperrors.ErrMalformedBackup):
		return "Backup file is corrupted or not valid JSON."
	case apperrors.Is(err, apperrors.ErrInvalidBackupShape):
		return "Not an Arcana backup file."
	default:
		return "Could not import data. Check the file."
	}
}
