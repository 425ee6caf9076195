package handlers

import (
	"io"
	"net/http"
	"strconv"

	"github.com/arcanahq/arcana/internal/device"
	"github.com/arcanahq/arcana/internal/models"
	"github.com/arcanahq/arcana/internal/store"
)

// SettingsHandler serves the /api/settings routes.
type SettingsHandler struct {
	store *store.Store
}

func NewSettingsHandler(st *store.Store) *SettingsHandler {
	return &SettingsHandler{store: st}
}

// Get handles GET /api/settings
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.Settings())
}

// Update handles PATCH /api/settings. The body is a partial settings
// object; omitted fields keep their current values.
func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	partial, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	settings, err := h.store.UpdateSettings(partial)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid settings payload")
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

// Defaults handles GET /api/settings/defaults. The baseline depends on
// the caller's form factor, derived from the User-Agent and an optional
// width query parameter.
func (h *SettingsHandler) Defaults(w http.ResponseWriter, r *http.Request) {
	width, _ := strconv.Atoi(r.URL.Query().Get("width"))
	compact := device.Classify(r.UserAgent(), width)
	writeJSON(w, http.StatusOK, models.DefaultSettings(compact))
}
