package handlers

import (
	"net/http"

	"github.com/ramonehamilton/precon-stats/internal/charts"
	"github.com/ramonehamilton/precon-stats/internal/stats"
)

// ChartHandler serves standalone go-echarts pages that the dashboard embeds.
type ChartHandler struct {
	source SnapshotSource
}

// NewChartHandler creates a new ChartHandler.
func NewChartHandler(source SnapshotSource) *ChartHandler {
	return &ChartHandler{source: source}
}

func (h *ChartHandler) render(w http.ResponseWriter, chart charts.Renderer) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := chart.Render(w); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *ChartHandler) snapshot(w http.ResponseWriter) (*stats.Snapshot, bool) {
	snap, err := h.source.Snapshot()
	if err != nil {
		http.Error(w, "Error loading data: "+err.Error(), http.StatusInternalServerError)
		return nil, false
	}
	return snap, true
}

// TagAcrossDecks charts one tag's card count in every deck.
func (h *ChartHandler) TagAcrossDecks(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.snapshot(w)
	if !ok {
		return
	}

	dist, err := snap.TagDistribution(pathParam(r, "tag"))
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	h.render(w, charts.TagAcrossDecks(dist))
}

// TagTotals charts every tag's total, highlighting ?tag=.
func (h *ChartHandler) TagTotals(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.snapshot(w)
	if !ok {
		return
	}

	h.render(w, charts.TagComparison(snap.TagTotals(), r.URL.Query().Get("tag")))
}

// DeckTags charts the tag counts of one deck.
func (h *ChartHandler) DeckTags(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.snapshot(w)
	if !ok {
		return
	}

	deck := pathParam(r, "deck")
	if !snap.HasDeck(deck) {
		http.Error(w, errUnknownDeck(deck).Error(), http.StatusNotFound)
		return
	}

	h.render(w, charts.DeckTags(deck, snap.DeckTags(deck)))
}

// DeckCMC charts the mana curve of one deck.
func (h *ChartHandler) DeckCMC(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.snapshot(w)
	if !ok {
		return
	}

	deck := pathParam(r, "deck")
	if !snap.HasDeck(deck) {
		http.Error(w, errUnknownDeck(deck).Error(), http.StatusNotFound)
		return
	}

	h.render(w, charts.CMCHistogram(deck, snap.DeckCMC(deck)))
}

// AvgCMC charts every deck's average CMC, highlighting ?deck=.
func (h *ChartHandler) AvgCMC(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.snapshot(w)
	if !ok {
		return
	}

	h.render(w, charts.AvgCMCComparison(snap.DecksByAvgCMC(), r.URL.Query().Get("deck")))
}
