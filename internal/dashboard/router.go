package dashboard

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ramonehamilton/precon-stats/internal/dashboard/handlers"
	"github.com/ramonehamilton/precon-stats/internal/dashboard/response"
)

// setupRoutes configures all dashboard routes.
func (s *Server) setupRoutes() {
	s.router.Get("/health", s.healthCheck)

	// Pages
	s.router.Get("/", s.pages.Summary)
	s.router.Get("/tags", s.pages.Tags)
	s.router.Get("/decks", s.pages.Decks)
	s.router.NotFound(s.pages.NotFound)

	// Chart pages embedded by the tabs
	chartHandler := handlers.NewChartHandler(s.source)
	s.router.Route("/charts", func(r chi.Router) {
		r.Get("/tags/{tag}", chartHandler.TagAcrossDecks)
		r.Get("/tag-totals", chartHandler.TagTotals)
		r.Get("/decks/{deck}/tags", chartHandler.DeckTags)
		r.Get("/decks/{deck}/cmc", chartHandler.DeckCMC)
		r.Get("/avg-cmc", chartHandler.AvgCMC)
	})

	// API v1 routes
	s.router.Route("/api/v1", func(r chi.Router) {
		apiHandler := handlers.NewAPIHandler(s.source)

		r.Get("/summary", apiHandler.GetSummary)
		r.Get("/tags", apiHandler.GetTags)
		r.Get("/tags/{tag}", apiHandler.GetTag)
		r.Get("/decks", apiHandler.GetDecks)
		r.Get("/decks/{deck}", apiHandler.GetDeck)
		r.Get("/decks/{deck}/cmc", apiHandler.GetDeckCMC)
		r.Get("/cards", apiHandler.GetCards)
		r.Get("/tags-per-deck", apiHandler.GetTagsPerDeck)
		r.Get("/deck-stats", apiHandler.GetDeckStats)
		r.Post("/reload", apiHandler.Reload)
	})
}

// healthCheck reports whether a snapshot is available.
func (s *Server) healthCheck(w http.ResponseWriter, r *http.Request) {
	snap, err := s.source.Snapshot()
	if err != nil {
		response.ServiceUnavailable(w, err)
		return
	}

	response.Success(w, map[string]interface{}{
		"status":    "healthy",
		"loaded_at": snap.LoadedAt,
	})
}
