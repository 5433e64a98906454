package handlers

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/ramonehamilton/precon-stats/internal/stats"
	"github.com/ramonehamilton/precon-stats/internal/storage/models"
)

//go:embed templates/*.html
var templateFS embed.FS

// cardsPerRow is the width of the card gallery.
const cardsPerRow = 4

var pageFuncs = template.FuncMap{
	"pathEscape": url.PathEscape,
	"orNA": func(s string) string {
		if s == "" {
			return "N/A"
		}
		return s
	},
	"list": func(items []string) string {
		if len(items) == 0 {
			return "N/A"
		}
		return strings.Join(items, ", ")
	},
}

// PageHandler renders the dashboard's HTML pages.
type PageHandler struct {
	source    SnapshotSource
	logger    *zap.Logger
	templates map[string]*template.Template
}

// NewPageHandler parses the page templates.
func NewPageHandler(source SnapshotSource, logger *zap.Logger) (*PageHandler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	h := &PageHandler{
		source:    source,
		logger:    logger,
		templates: map[string]*template.Template{},
	}

	for _, page := range []string{"summary", "tags", "decks", "error"} {
		tmpl, err := template.New("layout.html").Funcs(pageFuncs).
			ParseFS(templateFS, "templates/layout.html", "templates/"+page+".html")
		if err != nil {
			return nil, fmt.Errorf("parse %s template: %w", page, err)
		}
		h.templates[page] = tmpl
	}

	return h, nil
}

type pageData struct {
	Title  string
	Active string
	Body   interface{}
}

type errorPage struct {
	Status  int
	Message string
}

func (h *PageHandler) render(w http.ResponseWriter, status int, page, title string, body interface{}) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)

	data := pageData{Title: title, Active: page, Body: body}
	if err := h.templates[page].ExecuteTemplate(w, "layout.html", data); err != nil {
		h.logger.Error("render page", zap.String("page", page), zap.Error(err))
	}
}

func (h *PageHandler) renderError(w http.ResponseWriter, status int, message string) {
	h.render(w, status, "error", http.StatusText(status), errorPage{Status: status, Message: message})
}

// snapshot returns the current snapshot or renders the page-level load error.
func (h *PageHandler) snapshot(w http.ResponseWriter) (*stats.Snapshot, bool) {
	snap, err := h.source.Snapshot()
	if err != nil {
		h.logger.Error("snapshot unavailable", zap.Error(err))
		h.renderError(w, http.StatusInternalServerError, "Error loading data: "+err.Error())
		return nil, false
	}
	return snap, true
}

// Summary renders the landing page.
func (h *PageHandler) Summary(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.snapshot(w)
	if !ok {
		return
	}

	h.render(w, http.StatusOK, "summary", "Summary", snap)
}

type tagsPage struct {
	Tags     []string
	Selected string
	Dist     *stats.TagDistribution
}

// Tags renders the tag tab for ?tag=, defaulting to the first tag.
func (h *PageHandler) Tags(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.snapshot(w)
	if !ok {
		return
	}

	page := tagsPage{Tags: snap.Tags(), Selected: r.URL.Query().Get("tag")}
	if page.Selected == "" && len(page.Tags) > 0 {
		page.Selected = page.Tags[0]
	}

	status := http.StatusOK
	if page.Selected != "" {
		dist, err := snap.TagDistribution(page.Selected)
		if err != nil {
			status = statusFor(err)
		} else {
			page.Dist = dist
		}
	}

	h.render(w, status, "tags", "Filter by Tag", page)
}

type decksPage struct {
	Decks    []string
	Selected string
	Deck     *stats.DeckBreakdown

	TagOptions  []string
	TypeOptions []string
	CMCLow      int
	CMCHigh     int

	Filter stats.CardFilter
	MinCMC int
	MaxCMC int
	Result *stats.CardResult
	Rows   [][]*models.EnrichedCard
}

// Decks renders the deck tab for ?deck=, defaulting to the first deck, with
// the card browser filtered by the remaining query parameters.
func (h *PageHandler) Decks(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.snapshot(w)
	if !ok {
		return
	}

	filter, err := cardFilter(r.URL.Query())
	if err != nil {
		h.renderError(w, http.StatusBadRequest, err.Error())
		return
	}

	page := decksPage{Decks: snap.Decks(), Selected: filter.Deck}
	if page.Selected == "" && len(page.Decks) > 0 {
		page.Selected = page.Decks[0]
	}
	if page.Selected == "" {
		h.render(w, http.StatusOK, "decks", "Deck Analysis", page)
		return
	}

	b, err := snap.DeckBreakdown(page.Selected)
	if err != nil {
		h.render(w, statusFor(err), "decks", "Deck Analysis", page)
		return
	}
	page.Deck = b
	page.TagOptions = snap.DeckTagNames(page.Selected)
	page.TypeOptions = snap.DeckTypes(page.Selected)
	page.CMCLow, page.CMCHigh, _ = snap.DeckCMCRange(page.Selected)

	filter.Deck = page.Selected
	if filter.CMCMin == nil {
		filter.CMCMin = &page.CMCLow
	}
	if filter.CMCMax == nil {
		filter.CMCMax = &page.CMCHigh
	}
	page.Filter = filter
	page.MinCMC, page.MaxCMC = *filter.CMCMin, *filter.CMCMax
	page.Result = snap.FilterCards(filter)
	page.Rows = chunk(page.Result.Cards, cardsPerRow)

	h.render(w, http.StatusOK, "decks", "Deck Analysis", page)
}

func chunk(cards []*models.EnrichedCard, size int) [][]*models.EnrichedCard {
	var rows [][]*models.EnrichedCard
	for i := 0; i < len(cards); i += size {
		end := min(i+size, len(cards))
		rows = append(rows, cards[i:end])
	}
	return rows
}

// NotFound renders the 404 page.
func (h *PageHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.renderError(w, http.StatusNotFound, "No page at "+r.URL.Path)
}
