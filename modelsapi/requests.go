package modelsapi

import (
	"net/url"
	"strconv"
	"strings"
)

// ModelCreateRequest is the body for creating a model. Name, ModelUUID,
// Active, ExitType, TPPips and SLPips are required by the API; the rest are
// optional and omitted from the body when unset.
type ModelCreateRequest struct {
	Name             string  `json:"name"`
	ModelUUID        string  `json:"model_uuid"`
	Active           int     `json:"active"`
	ExitType         string  `json:"exit_type"`
	TPPips           float64 `json:"tp_pips"`
	SLPips           float64 `json:"sl_pips"`
	Instrument       string  `json:"instrument,omitempty"`
	EntryGranularity string  `json:"entry_granularity,omitempty"`
	ExitGranularity  string  `json:"exit_granularity,omitempty"`
}

// ModelUpdateRequest is the body for a partial model update. Nil fields are
// left untouched server-side.
type ModelUpdateRequest struct {
	Name             *string  `json:"name,omitempty"`
	Active           *int     `json:"active,omitempty"`
	ExitType         *string  `json:"exit_type,omitempty"`
	TPPips           *float64 `json:"tp_pips,omitempty"`
	SLPips           *float64 `json:"sl_pips,omitempty"`
	Instrument       *string  `json:"instrument,omitempty"`
	EntryGranularity *string  `json:"entry_granularity,omitempty"`
	ExitGranularity  *string  `json:"exit_granularity,omitempty"`
}

// ObservationCreateRequest is the body for creating an observation
type ObservationCreateRequest struct {
	ModelID int                `json:"model_id"`
	Ts      string             `json:"ts"`
	Values  map[string]float64 `json:"values"`
}

// ObservationUpdateRequest is the body for a partial observation update
type ObservationUpdateRequest struct {
	Ts     *string            `json:"ts,omitempty"`
	Values map[string]float64 `json:"values,omitempty"`
}

// PropertyCreateRequest is the body for creating a property
type PropertyCreateRequest struct {
	ModelID        int    `json:"model_id"`
	PropertyTypeID int    `json:"property_type_id"`
	Value          string `json:"value"`
}

// PropertyUpdateRequest is the body for a partial property update
type PropertyUpdateRequest struct {
	Value *string `json:"value,omitempty"`
}

// ModelFilter narrows a model listing. Zero-valued fields are omitted from
// the query string; list fields are comma-joined in the order given.
type ModelFilter struct {
	UUIDs              []string
	Active             *int
	EntryGranularities []string
	ExitGranularities  []string
}

// Values builds the query parameters for the filter
func (f ModelFilter) Values() url.Values {
	params := url.Values{}
	if len(f.UUIDs) > 0 {
		params.Set("uuids", strings.Join(f.UUIDs, ","))
	}
	if f.Active != nil {
		params.Set("active", strconv.Itoa(*f.Active))
	}
	if len(f.EntryGranularities) > 0 {
		params.Set("entry_granularity", strings.Join(f.EntryGranularities, ","))
	}
	if len(f.ExitGranularities) > 0 {
		params.Set("exit_granularity", strings.Join(f.ExitGranularities, ","))
	}
	return params
}

// TradeHistoryFilter narrows and pages a trade history listing. Zero-valued
// fields are omitted from the query string.
type TradeHistoryFilter struct {
	ModelID      *int
	ModelUUID    string
	TradeType    string
	TradeResult  string
	TsOpenStart  string
	TsOpenEnd    string
	TsCloseStart string
	TsCloseEnd   string
	MinPips      string
	MaxPips      string
	MinBalance   string
	MaxBalance   string
	Open         *bool
	Limit        *int
	Offset       *int
	OrderBy      string
	Order        string
}

// Values builds the query parameters for the filter
func (f TradeHistoryFilter) Values() url.Values {
	params := url.Values{}
	if f.ModelID != nil {
		params.Set("model_id", strconv.Itoa(*f.ModelID))
	}
	setNonEmpty(params, "model_uuid", f.ModelUUID)
	setNonEmpty(params, "trade_type", f.TradeType)
	setNonEmpty(params, "trade_result", f.TradeResult)
	setNonEmpty(params, "ts_open_start", f.TsOpenStart)
	setNonEmpty(params, "ts_open_end", f.TsOpenEnd)
	setNonEmpty(params, "ts_close_start", f.TsCloseStart)
	setNonEmpty(params, "ts_close_end", f.TsCloseEnd)
	setNonEmpty(params, "min_pips", f.MinPips)
	setNonEmpty(params, "max_pips", f.MaxPips)
	setNonEmpty(params, "min_balance", f.MinBalance)
	setNonEmpty(params, "max_balance", f.MaxBalance)
	if f.Open != nil {
		params.Set("open", strconv.FormatBool(*f.Open))
	}
	if f.Limit != nil {
		params.Set("limit", strconv.Itoa(*f.Limit))
	}
	if f.Offset != nil {
		params.Set("offset", strconv.Itoa(*f.Offset))
	}
	setNonEmpty(params, "order_by", f.OrderBy)
	setNonEmpty(params, "order", f.Order)
	return params
}

func setNonEmpty(params url.Values, key, value string) {
	if value != "" {
		params.Set(key, value)
	}
}
