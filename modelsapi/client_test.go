package modelsapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestClient spins up a mock API server and a client pointed at it
func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(server.URL, "test-key", zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(client.Close)

	return client
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func TestNewClient(t *testing.T) {
	logger := zerolog.Nop()

	tests := []struct {
		name    string
		baseURL string
		apiKey  string
		errMsg  string
	}{
		{
			name:    "valid config",
			baseURL: "http://localhost:5001",
			apiKey:  "test-key",
		},
		{
			name:   "missing base URL",
			apiKey: "test-key",
			errMsg: "base URL is required",
		},
		{
			name:    "missing API key",
			baseURL: "http://localhost:5001",
			errMsg:  "API key is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(tt.baseURL, tt.apiKey, logger)
			if tt.errMsg != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.baseURL, client.BaseURL())
		})
	}

	t.Run("trailing slash trimmed", func(t *testing.T) {
		client, err := NewClient("http://localhost:5001/", "test-key", logger)
		require.NoError(t, err)
		assert.Equal(t, "http://localhost:5001", client.BaseURL())
	})

	t.Run("with timeout", func(t *testing.T) {
		client, err := NewClient("http://localhost:5001", "test-key", logger, WithTimeout(5*time.Second))
		require.NoError(t, err)
		assert.Equal(t, 5*time.Second, client.http.GetClient().Timeout)
	})

	t.Run("with custom http client", func(t *testing.T) {
		custom := &http.Client{Timeout: 10 * time.Second}
		client, err := NewClient("http://localhost:5001", "test-key", logger, WithHTTPClient(custom))
		require.NoError(t, err)
		assert.Equal(t, custom, client.http.GetClient())
	})
}

func TestGetModels(t *testing.T) {
	t.Run("filters serialize comma-joined", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodGet, r.Method)
			assert.Equal(t, "/models", r.URL.Path)
			assert.Equal(t, "test-key", r.Header.Get("X-API-Key"))

			query := r.URL.Query()
			assert.Equal(t, "1", query.Get("active"))
			assert.Equal(t, "5M,15M", query.Get("entry_granularity"))
			assert.False(t, query.Has("exit_granularity"))
			assert.False(t, query.Has("uuids"))

			writeJSON(t, w, http.StatusOK, map[string]any{
				"models": []map[string]any{
					{"id": 1, "name": "alpha", "model_uuid": "u1", "active": 1, "exit_type": "TP", "tp_pips": 50, "sl_pips": 25},
					{"id": 2, "name": "beta", "model_uuid": "u2", "active": 1, "exit_type": "SL", "tp_pips": 30, "sl_pips": 15},
				},
			})
		}))

		active := 1
		models, err := client.GetModels(context.Background(), ModelFilter{
			Active:             &active,
			EntryGranularities: []string{"5M", "15M"},
		})
		require.NoError(t, err)
		require.Len(t, models, 2)
		assert.Equal(t, "alpha", models[0].Name)
		assert.Equal(t, "u1", models[0].ModelUUID)
		assert.True(t, models[0].IsActive())
		assert.Equal(t, 50.0, models[0].TPPips)
	})

	t.Run("empty filter omits all query keys", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Empty(t, r.URL.RawQuery)
			writeJSON(t, w, http.StatusOK, map[string]any{"models": []any{}})
		}))

		models, err := client.GetModels(context.Background(), ModelFilter{})
		require.NoError(t, err)
		assert.Empty(t, models)
	})

	t.Run("uuid order preserved", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "u2,u1,u3", r.URL.Query().Get("uuids"))
			writeJSON(t, w, http.StatusOK, map[string]any{"models": []any{}})
		}))

		_, err := client.GetModels(context.Background(), ModelFilter{UUIDs: []string{"u2", "u1", "u3"}})
		require.NoError(t, err)
	})
}

func TestCreateModel(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/models", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "X", body["name"])
		assert.Equal(t, "u1", body["model_uuid"])
		assert.Equal(t, float64(1), body["active"])
		assert.Equal(t, "TP", body["exit_type"])
		assert.Equal(t, float64(50), body["tp_pips"])
		assert.Equal(t, float64(25), body["sl_pips"])

		// optional fields left unset must not appear in the body
		_, hasEntry := body["entry_granularity"]
		assert.False(t, hasEntry)
		_, hasInstrument := body["instrument"]
		assert.False(t, hasInstrument)

		writeJSON(t, w, http.StatusCreated, map[string]any{
			"id": 42, "name": "X", "model_uuid": "u1", "active": 1,
			"exit_type": "TP", "tp_pips": 50, "sl_pips": 25,
		})
	}))

	model, err := client.CreateModel(context.Background(), ModelCreateRequest{
		Name:      "X",
		ModelUUID: "u1",
		Active:    1,
		ExitType:  "TP",
		TPPips:    50,
		SLPips:    25,
	})
	require.NoError(t, err)
	assert.Equal(t, 42, model.ID)
	assert.Equal(t, "X", model.Name)
}

func TestGetModelByUUID(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/u1", r.URL.Path)
		writeJSON(t, w, http.StatusOK, map[string]any{"id": 7, "name": "alpha", "model_uuid": "u1"})
	}))

	model, err := client.GetModelByUUID(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 7, model.ID)
}

func TestUpdateModel(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/models/7", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]any{"active": float64(0)}, body)

		writeJSON(t, w, http.StatusOK, map[string]any{"id": 7, "name": "alpha", "model_uuid": "u1", "active": 0})
	}))

	active := 0
	model, err := client.UpdateModel(context.Background(), 7, ModelUpdateRequest{Active: &active})
	require.NoError(t, err)
	assert.False(t, model.IsActive())
}

func TestDeleteModel(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/models/7", r.URL.Path)
		writeJSON(t, w, http.StatusOK, map[string]any{"message": "deleted"})
	}))

	require.NoError(t, client.DeleteModel(context.Background(), 7))
}

func TestActiveStatsAndGranularities(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/models/active_stats":
			writeJSON(t, w, http.StatusOK, map[string]any{
				"total":                4,
				"by_instrument":        map[string]int{"EUR_USD": 3, "GBP_USD": 1},
				"by_entry_granularity": map[string]int{"5M": 2, "15M": 2},
			})
		case "/models/entry_granularities":
			writeJSON(t, w, http.StatusOK, map[string]any{"entry_granularities": []string{"5M", "15M", "1H"}})
		case "/models/exit_granularities":
			writeJSON(t, w, http.StatusOK, map[string]any{"exit_granularities": []string{"5M"}})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))

	ctx := context.Background()

	stats, err := client.GetActiveStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 3, stats.ByInstrument["EUR_USD"])

	entry, err := client.GetEntryGranularities(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"5M", "15M", "1H"}, entry)

	exit, err := client.GetExitGranularities(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"5M"}, exit)
}

func TestGetTradeHistory(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/trade-history", r.URL.Path)

		query := r.URL.Query()
		assert.Equal(t, "3", query.Get("model_id"))
		assert.Equal(t, "LONG", query.Get("trade_type"))
		assert.Equal(t, "2", query.Get("limit"))
		assert.Equal(t, "ts_open", query.Get("order_by"))
		assert.Equal(t, "desc", query.Get("order"))
		assert.False(t, query.Has("offset"))
		assert.False(t, query.Has("trade_result"))

		writeJSON(t, w, http.StatusOK, map[string]any{
			"count": 5,
			"trades": []map[string]any{
				{"id": 11, "model_id": 3, "trade_type": "LONG", "trade_result": "TP", "ts_open": "2026-01-02 10:00:00", "ts_close": "2026-01-02 14:00:00", "pips": 50},
				{"id": 10, "model_id": 3, "trade_type": "LONG", "ts_open": "2026-01-01 09:00:00", "pips": 0},
			},
		})
	}))

	modelID := 3
	limit := 2
	resp, err := client.GetTradeHistory(context.Background(), TradeHistoryFilter{
		ModelID:   &modelID,
		TradeType: TradeTypeLong,
		Limit:     &limit,
		OrderBy:   "ts_open",
		Order:     "desc",
	})
	require.NoError(t, err)
	assert.Equal(t, 5, resp.Count)
	require.Len(t, resp.Trades, 2)
	assert.True(t, resp.HasMore())
	assert.True(t, resp.Trades[0].IsWin())
	assert.False(t, resp.Trades[0].IsOpen())
	assert.True(t, resp.Trades[1].IsOpen())
}

func TestGetModelStatsBatch(t *testing.T) {
	var mu sync.Mutex
	calls := map[string]int{}

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		calls[r.URL.Path]++
		mu.Unlock()

		switch r.URL.Path {
		case "/trade-history/stats/1":
			writeJSON(t, w, http.StatusOK, map[string]any{"model_id": 1, "total_trades": 10, "wins": 7, "losses": 3, "win_rate": 70, "total_pips": 120, "avg_pips": 12})
		case "/trade-history/stats/2":
			writeJSON(t, w, http.StatusOK, map[string]any{"model_id": 2, "total_trades": 4, "wins": 1, "losses": 3, "win_rate": 25, "total_pips": -20, "avg_pips": -5})
		case "/trade-history/stats/3":
			writeJSON(t, w, http.StatusInternalServerError, map[string]any{"error": "boom"})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))

	stats := client.GetModelStatsBatch(context.Background(), []int{1, 2, 3})

	// the failing model is skipped, not fatal
	require.Len(t, stats, 2)
	assert.Equal(t, 70.0, stats[1].WinRate)
	assert.Equal(t, -20.0, stats[2].TotalPips)
	assert.Nil(t, stats[3])

	mu.Lock()
	defer mu.Unlock()
	for path, n := range calls {
		assert.Equalf(t, 1, n, "path %s fetched more than once", path)
	}
}

func TestPing(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/entry_granularities", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("X-API-Key"))
		writeJSON(t, w, http.StatusOK, map[string]any{"entry_granularities": []string{"5M"}})
	}))

	require.NoError(t, client.Ping(context.Background()))
}

func TestMalformedSuccessBody(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"models": [`))
	}))

	_, err := client.GetModels(context.Background(), ModelFilter{})
	require.Error(t, err)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.NotNil(t, apiErr.Err)
}

func TestCloseIdempotent(t *testing.T) {
	client, err := NewClient("http://localhost:5001", "test-key", zerolog.Nop())
	require.NoError(t, err)

	client.Close()
	client.Close()
}
