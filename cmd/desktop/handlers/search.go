package handlers

import (
	"net/http"

	"github.com/arcanahq/arcana/internal/store"
)

// SearchHandler serves GET /api/search.
type SearchHandler struct {
	store *store.Store
}

func NewSearchHandler(st *store.Store) *SearchHandler {
	return &SearchHandler{store: st}
}

// Search updates the store's filter state from the query parameters and
// returns the matching cards. `q` is the free-text query; `tags` may be
// repeated, one value per selected tag.
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	h.store.SetSearchQuery(query.Get("q"))
	h.store.SetSelectedTags(query["tags"])
	writeJSON(w, http.StatusOK, h.store.FilteredCards())
}
