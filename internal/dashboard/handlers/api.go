package handlers

import (
	"net/http"

	"github.com/ramonehamilton/precon-stats/internal/dashboard/response"
)

// APIHandler serves the JSON API.
type APIHandler struct {
	source SnapshotSource
}

// NewAPIHandler creates a new APIHandler.
func NewAPIHandler(source SnapshotSource) *APIHandler {
	return &APIHandler{source: source}
}

// GetSummary returns the headline counts.
func (h *APIHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	snap, err := h.source.Snapshot()
	if err != nil {
		response.ServiceUnavailable(w, err)
		return
	}

	response.Success(w, snap.Summary)
}

// GetTags returns every tag with its total card count across decks.
func (h *APIHandler) GetTags(w http.ResponseWriter, r *http.Request) {
	snap, err := h.source.Snapshot()
	if err != nil {
		response.ServiceUnavailable(w, err)
		return
	}

	response.Success(w, snap.TagTotals())
}

// GetTag returns how a tag is distributed across decks.
func (h *APIHandler) GetTag(w http.ResponseWriter, r *http.Request) {
	snap, err := h.source.Snapshot()
	if err != nil {
		response.ServiceUnavailable(w, err)
		return
	}

	dist, err := snap.TagDistribution(pathParam(r, "tag"))
	if err != nil {
		response.Error(w, statusFor(err), err)
		return
	}

	response.Success(w, dist)
}

// GetDecks returns every deck's stats.
func (h *APIHandler) GetDecks(w http.ResponseWriter, r *http.Request) {
	snap, err := h.source.Snapshot()
	if err != nil {
		response.ServiceUnavailable(w, err)
		return
	}

	response.Success(w, snap.DeckStats)
}

// GetDeck returns the breakdown of one deck.
func (h *APIHandler) GetDeck(w http.ResponseWriter, r *http.Request) {
	snap, err := h.source.Snapshot()
	if err != nil {
		response.ServiceUnavailable(w, err)
		return
	}

	b, err := snap.DeckBreakdown(pathParam(r, "deck"))
	if err != nil {
		response.Error(w, statusFor(err), err)
		return
	}

	response.Success(w, b)
}

// GetDeckCMC returns a deck's mana curve.
func (h *APIHandler) GetDeckCMC(w http.ResponseWriter, r *http.Request) {
	snap, err := h.source.Snapshot()
	if err != nil {
		response.ServiceUnavailable(w, err)
		return
	}

	deck := pathParam(r, "deck")
	if !snap.HasDeck(deck) {
		response.NotFound(w, errUnknownDeck(deck))
		return
	}

	response.Success(w, snap.DeckCMC(deck))
}

// GetCards returns the cards matching the query filters.
func (h *APIHandler) GetCards(w http.ResponseWriter, r *http.Request) {
	snap, err := h.source.Snapshot()
	if err != nil {
		response.ServiceUnavailable(w, err)
		return
	}

	filter, err := cardFilter(r.URL.Query())
	if err != nil {
		response.BadRequest(w, err)
		return
	}

	res := snap.FilterCards(filter)
	response.List(w, res.Cards, len(res.Cards), res.Total)
}

// GetTagsPerDeck returns the raw tag-per-deck table.
func (h *APIHandler) GetTagsPerDeck(w http.ResponseWriter, r *http.Request) {
	snap, err := h.source.Snapshot()
	if err != nil {
		response.ServiceUnavailable(w, err)
		return
	}

	response.Success(w, snap.TagsPerDeck)
}

// GetDeckStats returns the raw deck stats table.
func (h *APIHandler) GetDeckStats(w http.ResponseWriter, r *http.Request) {
	h.GetDecks(w, r)
}

// Reload rebuilds the snapshot from the store.
func (h *APIHandler) Reload(w http.ResponseWriter, r *http.Request) {
	if err := h.source.Reload(r.Context()); err != nil {
		response.InternalError(w, err)
		return
	}

	snap, err := h.source.Snapshot()
	if err != nil {
		response.InternalError(w, err)
		return
	}

	response.Success(w, map[string]interface{}{
		"loaded_at": snap.LoadedAt,
		"summary":   snap.Summary,
	})
}
