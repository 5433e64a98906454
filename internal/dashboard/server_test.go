package dashboard

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ramonehamilton/precon-stats/internal/stats"
	"github.com/ramonehamilton/precon-stats/internal/storage"
	"github.com/ramonehamilton/precon-stats/internal/storage/models"
)

func setupServer(t *testing.T) (*httptest.Server, *storage.Service) {
	t.Helper()
	ctx := context.Background()

	store := storage.NewService(storage.NewTestDB(t))
	err := store.Write(ctx, func(w *storage.Writer) error {
		cards := []struct {
			card  models.Card
			types []string
		}{
			{models.Card{Name: "A", CMC: 2, TypeLine: "Land"}, []string{"land"}},
			{models.Card{Name: "B", CMC: 3, TypeLine: "Creature — Elf"}, []string{"creature"}},
		}
		for _, c := range cards {
			card := c.card
			if _, err := w.StoreCard(ctx, &card, c.types); err != nil {
				return err
			}
			if _, err := w.Tags.TagCard(ctx, card.Name, "T"); err != nil {
				return err
			}
			if _, err := w.AddToDeck(ctx, "D", card.Name); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)

	cache, err := stats.NewCache(ctx, store)
	require.NoError(t, err)

	server, err := NewServer(DefaultConfig(), cache, nil)
	require.NoError(t, err)

	ts := httptest.NewServer(server.Handler())
	t.Cleanup(ts.Close)
	return ts, store
}

func get(t *testing.T, url string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func TestNewServerNilConfig(t *testing.T) {
	server, err := NewServer(nil, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 8080, server.port)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 8080, cfg.Port)
	assert.False(t, cfg.OpenBrowser)
}

func TestHealth(t *testing.T) {
	ts, _ := setupServer(t)

	resp, body := get(t, ts.URL+"/health")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "healthy")
	assert.NotEmpty(t, resp.Header.Get("Content-Type"))
}

func TestDeckStatsEndpoint(t *testing.T) {
	ts, _ := setupServer(t)

	resp, body := get(t, ts.URL+"/api/v1/deck-stats")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		Data []models.DeckStats `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &out))
	require.Len(t, out.Data, 1)
	assert.Equal(t, "D", out.Data[0].DeckName)
	assert.Equal(t, 1, out.Data[0].TotalCards)
	assert.InDelta(t, 3.0, out.Data[0].AvgCMC, 0.001)
	assert.Equal(t, 1, out.Data[0].UniqueTags)
}

func TestTagsPerDeckEndpoint(t *testing.T) {
	ts, _ := setupServer(t)

	_, body := get(t, ts.URL+"/api/v1/tags-per-deck")
	var out struct {
		Data []models.TagDeckCount `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &out))
	require.Len(t, out.Data, 1)
	assert.Equal(t, 2, out.Data[0].Count)
}

func TestPagesAndCharts(t *testing.T) {
	ts, _ := setupServer(t)

	for _, path := range []string{"/", "/tags", "/decks", "/decks?deck=D", "/charts/tags/T", "/charts/decks/D/cmc", "/charts/avg-cmc?deck=D"} {
		resp, _ := get(t, ts.URL+path)
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
		assert.Contains(t, resp.Header.Get("Content-Type"), "text/html", path)
	}

	resp, body := get(t, ts.URL+"/nope")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, body, "No page at /nope")
}

func TestReloadPicksUpNewData(t *testing.T) {
	ts, store := setupServer(t)
	ctx := context.Background()

	err := store.Write(ctx, func(w *storage.Writer) error {
		if _, err := w.StoreCard(ctx, &models.Card{Name: "C", CMC: 5, TypeLine: "Sorcery"}, []string{"sorcery"}); err != nil {
			return err
		}
		_, err := w.AddToDeck(ctx, "E", "C")
		return err
	})
	require.NoError(t, err)

	// The snapshot is load-once until reloaded.
	_, body := get(t, ts.URL+"/api/v1/summary")
	assert.Contains(t, body, `"total_decks":1`)

	resp, err := http.Post(ts.URL+"/api/v1/reload", "application/json", nil)
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	_, body = get(t, ts.URL+"/api/v1/summary")
	assert.Contains(t, body, `"total_decks":2`)
}

func TestStartAndShutdown(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Port = 0

	server, err := NewServer(cfg, nil, nil)
	require.NoError(t, err)
	require.NoError(t, server.Start())
	assert.NotContains(t, server.URL(), ":0/")

	require.NoError(t, server.Shutdown(context.Background()))
	select {
	case err := <-server.Errors():
		t.Fatalf("unexpected serve error after shutdown: %v", err)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestServeFailureIsReported(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Port = 0

	server, err := NewServer(cfg, nil, nil)
	require.NoError(t, err)
	require.NoError(t, server.Start())

	require.NoError(t, server.listener.Close())

	select {
	case err := <-server.Errors():
		assert.Error(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve failure was not reported")
	}
}

func TestRequestLogCarriesComponent(t *testing.T) {
	cache, err := stats.NewCache(context.Background(), storage.NewService(storage.NewTestDB(t)))
	require.NoError(t, err)

	core, logs := observer.New(zapcore.InfoLevel)
	server, err := NewServer(DefaultConfig(), cache, zap.New(core))
	require.NoError(t, err)

	ts := httptest.NewServer(server.Handler())
	defer ts.Close()
	resp, _ := get(t, ts.URL+"/health")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	entries := logs.FilterMessage("request").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "dashboard", fields["component"])
	assert.Equal(t, "/health", fields["path"])
	assert.EqualValues(t, http.StatusOK, fields["status"])
}
