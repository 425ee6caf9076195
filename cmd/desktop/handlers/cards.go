package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/arcanahq/arcana/internal/highlight"
	"github.com/arcanahq/arcana/internal/models"
	"github.com/arcanahq/arcana/internal/store"
)

// CardHandler serves the /api/cards routes.
type CardHandler struct {
	store *store.Store
}

func NewCardHandler(st *store.Store) *CardHandler {
	return &CardHandler{store: st}
}

// List handles GET /api/cards
func (h *CardHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.Cards())
}

// Create handles POST /api/cards
func (h *CardHandler) Create(w http.ResponseWriter, r *http.Request) {
	var fields store.CardFields
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(fields.Title) == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}
	card := h.store.AddCard(fields)
	writeJSON(w, http.StatusCreated, card)
}

// Update handles PATCH /api/cards/{id}
func (h *CardHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := models.UUID(chi.URLParam(r, "id"))
	var update models.CardUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	card, ok := h.store.UpdateCard(id, update)
	if !ok {
		writeError(w, http.StatusNotFound, "card not found")
		return
	}
	writeJSON(w, http.StatusOK, card)
}

// Delete handles DELETE /api/cards/{id}
func (h *CardHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := models.UUID(chi.URLParam(r, "id"))
	if !h.store.DeleteCard(id) {
		writeError(w, http.StatusNotFound, "card not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Highlight handles GET /api/cards/{id}/highlight and returns the card's
// content as tokenized lines ready for rendering.
func (h *CardHandler) Highlight(w http.ResponseWriter, r *http.Request) {
	id := models.UUID(chi.URLParam(r, "id"))
	card, ok := h.store.Card(id)
	if !ok {
		writeError(w, http.StatusNotFound, "card not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"language": card.Language,
		"lines":    highlight.Source(card.Content, card.Language),
	})
}

// Tags handles GET /api/tags
func (h *CardHandler) Tags(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.AllTags())
}
