package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lukrum/fxmodels/modelsapi"
)

func TestCompile(t *testing.T) {
	t.Run("valid expression", func(t *testing.T) {
		f, err := Compile("Active == 1")
		require.NoError(t, err)
		assert.Equal(t, "Active == 1", f.Expression())
	})

	t.Run("empty expression", func(t *testing.T) {
		_, err := Compile("   ")
		require.Error(t, err)
		var ce *CompilationError
		require.ErrorAs(t, err, &ce)
	})

	t.Run("non-boolean expression", func(t *testing.T) {
		_, err := Compile(`1 + 2`)
		require.Error(t, err)
	})

	t.Run("syntax error", func(t *testing.T) {
		_, err := Compile(`Active ==`)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid filter expression")
	})
}

func TestModels(t *testing.T) {
	models := []modelsapi.Model{
		{ID: 1, Name: "alpha", Active: 1, TPPips: 50, EntryGranularity: "5M"},
		{ID: 2, Name: "beta", Active: 1, TPPips: 20, EntryGranularity: "15M"},
		{ID: 3, Name: "gamma", Active: 0, TPPips: 80, EntryGranularity: "5M"},
	}

	tests := []struct {
		name       string
		expression string
		wantIDs    []int
	}{
		{"active only", "Active == 1", []int{1, 2}},
		{"active with pips threshold", "Active == 1 && TPPips > 30", []int{1}},
		{"granularity match", `EntryGranularity == "5M"`, []int{1, 3}},
		{"name prefix", `Name startsWith "a"`, []int{1}},
		{"no matches", "TPPips > 1000", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Compile(tt.expression)
			require.NoError(t, err)

			matched, err := Models(f, models)
			require.NoError(t, err)

			var ids []int
			for _, m := range matched {
				ids = append(ids, m.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestTrades(t *testing.T) {
	trades := []modelsapi.TradeHistory{
		{ID: 1, TradeType: "LONG", TradeResult: "TP", TsOpen: "2026-01-01 09:00:00", TsClose: "2026-01-01 12:00:00", Pips: 50},
		{ID: 2, TradeType: "SHORT", TradeResult: "SL", TsOpen: "2026-01-02 09:00:00", TsClose: "2026-01-02 10:00:00", Pips: -25},
		{ID: 3, TradeType: "LONG", TsOpen: "2026-01-03 09:00:00", Pips: 0},
	}

	f, err := Compile("Win && Pips > 10")
	require.NoError(t, err)
	matched, err := Trades(f, trades)
	require.NoError(t, err)
	require.Len(t, matched, 1)
	assert.Equal(t, 1, matched[0].ID)

	f, err = Compile("Open")
	require.NoError(t, err)
	matched, err = Trades(f, trades)
	require.NoError(t, err)
	require.Len(t, matched, 1)
	assert.Equal(t, 3, matched[0].ID)
}

func TestHelperFunctions(t *testing.T) {
	f, err := Compile(`now() > date("2020-01-02")`)
	require.NoError(t, err)
	ok, err := f.Match(nil)
	require.NoError(t, err)
	assert.True(t, ok)

	f, err = Compile(`daysAgo(7) < now()`)
	require.NoError(t, err)
	ok, err = f.Match(nil)
	require.NoError(t, err)
	assert.True(t, ok)

	f, err = Compile(`date("not a date") > now()`)
	require.NoError(t, err)
	_, err = f.Match(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unrecognized date format")
}
