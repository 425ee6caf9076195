package handlers

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/arcanahq/arcana/internal/export"
	"github.com/arcanahq/arcana/internal/store"
)

// BackupHandler serves the /api/backup routes.
type BackupHandler struct {
	store *store.Store
}

func NewBackupHandler(st *store.Store) *BackupHandler {
	return &BackupHandler{store: st}
}

// Export handles POST /api/backup/export. The store walks its delivery
// chain and reports the method that succeeded; the handler never fails.
func (h *BackupHandler) Export(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.ExportData())
}

// Share handles POST /api/backup/share
func (h *BackupHandler) Share(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.ShareBackup())
}

// Clipboard handles POST /api/backup/clipboard
func (h *BackupHandler) Clipboard(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.CopyBackupToClipboard())
}

// Import handles POST /api/backup/import. The body is the raw backup
// text, not a JSON wrapper around it.
func (h *BackupHandler) Import(w http.ResponseWriter, r *http.Request) {
	text, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "could not read request body")
		return
	}
	result := h.store.ImportData(string(text))
	status := http.StatusOK
	if !result.Success {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, result)
}

// Download handles GET /api/backup and streams the backup file directly.
func (h *BackupHandler) Download(w http.ResponseWriter, r *http.Request) {
	data, err := h.store.BackupData()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not serialize backup")
		return
	}
	filename := export.Filename(time.Now())
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, data)
}
