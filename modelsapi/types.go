package modelsapi

// Model represents a configured trading strategy tracked by the API
type Model struct {
	ID               int     `json:"id"`
	Name             string  `json:"name"`
	ModelUUID        string  `json:"model_uuid"`
	Instrument       string  `json:"instrument,omitempty"`
	Active           int     `json:"active"`
	ExitType         string  `json:"exit_type"`
	TPPips           float64 `json:"tp_pips"`
	SLPips           float64 `json:"sl_pips"`
	EntryGranularity string  `json:"entry_granularity,omitempty"`
	ExitGranularity  string  `json:"exit_granularity,omitempty"`
}

// IsActive reports whether the model is flagged active
func (m *Model) IsActive() bool {
	return m.Active == 1
}

// Observation is a timestamped data point associated with a model
type Observation struct {
	ID      int                `json:"id"`
	ModelID int                `json:"model_id"`
	Ts      string             `json:"ts"`
	Values  map[string]float64 `json:"values"`
}

// Property is a named attribute value attached to a model
type Property struct {
	ID             int    `json:"id"`
	ModelID        int    `json:"model_id"`
	PropertyTypeID int    `json:"property_type_id"`
	Value          string `json:"value"`
}

// PropertyType defines a property's name and meaning
type PropertyType struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Trade type and result values used by the API
const (
	TradeTypeLong  = "LONG"
	TradeTypeShort = "SHORT"
	TradeResultTP  = "TP"
	TradeResultSL  = "SL"
)

// TradeHistory is a single trade outcome associated with a model
type TradeHistory struct {
	ID          int     `json:"id"`
	ModelID     int     `json:"model_id"`
	ModelUUID   string  `json:"model_uuid,omitempty"`
	TradeType   string  `json:"trade_type"`
	TradeResult string  `json:"trade_result,omitempty"`
	TsOpen      string  `json:"ts_open"`
	TsClose     string  `json:"ts_close,omitempty"`
	Pips        float64 `json:"pips"`
	Balance     float64 `json:"balance,omitempty"`
}

// IsOpen reports whether the trade has not been closed yet
func (t *TradeHistory) IsOpen() bool {
	return t.TsClose == ""
}

// IsWin reports whether the trade hit its take-profit
func (t *TradeHistory) IsWin() bool {
	return t.TradeResult == TradeResultTP
}

// TradeHistoryResponse is the pagination envelope around trade history
// listings. Count is the total number of matches server-side, which may
// exceed len(Trades) when a limit was applied.
type TradeHistoryResponse struct {
	Count  int            `json:"count"`
	Trades []TradeHistory `json:"trades"`
}

// HasMore reports whether the server holds matches beyond this page
func (r *TradeHistoryResponse) HasMore() bool {
	return r.Count > len(r.Trades)
}

// ModelStats holds server-computed aggregates over a model's trade history
type ModelStats struct {
	ModelID     int     `json:"model_id"`
	TotalTrades int     `json:"total_trades"`
	Wins        int     `json:"wins"`
	Losses      int     `json:"losses"`
	WinRate     float64 `json:"win_rate"`
	TotalPips   float64 `json:"total_pips"`
	AvgPips     float64 `json:"avg_pips"`
}

// ActiveStats holds counts of active models broken down by instrument and
// entry/exit granularity
type ActiveStats struct {
	Total              int            `json:"total"`
	ByInstrument       map[string]int `json:"by_instrument"`
	ByEntryGranularity map[string]int `json:"by_entry_granularity"`
	ByExitGranularity  map[string]int `json:"by_exit_granularity"`
}
