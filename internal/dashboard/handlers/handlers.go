// Package handlers serves the dashboard's pages, JSON API and chart pages.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ramonehamilton/precon-stats/internal/stats"
)

// SnapshotSource provides the current statistics snapshot.
type SnapshotSource interface {
	Snapshot() (*stats.Snapshot, error)
	Reload(ctx context.Context) error
}

// pathParam returns a decoded chi URL parameter. chi matches against
// RawPath when the request has one, leaving its parameters escaped.
func pathParam(r *http.Request, name string) string {
	v := chi.URLParam(r, name)
	if r.URL.RawPath == "" {
		return v
	}
	if unescaped, err := url.PathUnescape(v); err == nil {
		return unescaped
	}
	return v
}

// statusFor maps lookup errors to HTTP status codes.
func statusFor(err error) int {
	if errors.Is(err, stats.ErrUnknownDeck) || errors.Is(err, stats.ErrUnknownTag) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func errUnknownDeck(deck string) error {
	return fmt.Errorf("%w: %s", stats.ErrUnknownDeck, deck)
}

// cardFilter reads the card browser filters from the query string.
func cardFilter(q url.Values) (stats.CardFilter, error) {
	f := stats.CardFilter{
		Deck: strings.TrimSpace(q.Get("deck")),
		Tag:  strings.TrimSpace(q.Get("tag")),
		Type: strings.TrimSpace(q.Get("type")),
		Sort: stats.ParseSortOrder(q.Get("sort")),
	}

	var err error
	if f.CMCMin, err = optionalInt(q, "cmc_min"); err != nil {
		return f, err
	}
	if f.CMCMax, err = optionalInt(q, "cmc_max"); err != nil {
		return f, err
	}
	if f.CMCMin != nil && f.CMCMax != nil && *f.CMCMin > *f.CMCMax {
		return f, fmt.Errorf("cmc_min %d is greater than cmc_max %d", *f.CMCMin, *f.CMCMax)
	}

	return f, nil
}

func optionalInt(q url.Values, key string) (*int, error) {
	v := strings.TrimSpace(q.Get(key))
	if v == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q", key, v)
	}
	return &n, nil
}
