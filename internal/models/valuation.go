package models

// Position categories.
const (
	CategoryStock = "stock"
	CategoryCash  = "cash"
)

// PositionBreakdown is the valuation of a single holding. ValueUSD and
// ValueTWD express the same economic value in two currencies: one is computed
// directly from the quote, the other via conversion.
type PositionBreakdown struct {
	Name          string  `json:"name"`
	Category      string  `json:"category"` // "stock" or "cash"
	Quantity      float64 `json:"quantity"`
	UnitPrice     float64 `json:"unit_price,omitempty"`     // absent for cash
	PriceCurrency string  `json:"price_currency,omitempty"` // quoting currency
	AverageCost   float64 `json:"average_cost,omitempty"`   // absent for cash
	ValueUSD      float64 `json:"value_usd"`
	ValueTWD      float64 `json:"value_twd"`
	TotalCostUSD  float64 `json:"total_cost_usd"`
	TotalCostTWD  float64 `json:"total_cost_twd"`
	UnrealizedUSD float64 `json:"unrealized_pl_usd"`
	UnrealizedTWD float64 `json:"unrealized_pl_twd"`
	ROIPct        float64 `json:"roi_pct"`
	PortfolioPct  float64 `json:"portfolio_pct"`
}

// Totals accumulates portfolio-wide values while positions are added.
// Unrealized P/L and ROI are recomputed after every Add so the struct is
// always internally consistent.
type Totals struct {
	USD           float64 `json:"usd"`
	TWD           float64 `json:"twd"`
	CostUSD       float64 `json:"cost_usd"`
	CostTWD       float64 `json:"cost_twd"`
	UnrealizedUSD float64 `json:"unrealized_pl_usd"`
	UnrealizedTWD float64 `json:"unrealized_pl_twd"`
	ROIPct        float64 `json:"roi_pct"`
}

// Add accumulates one position's value and cost and rederives P/L and ROI.
func (t *Totals) Add(valueUSD, valueTWD, costUSD, costTWD float64) {
	t.USD += valueUSD
	t.TWD += valueTWD
	t.CostUSD += costUSD
	t.CostTWD += costTWD
	t.UnrealizedUSD = t.USD - t.CostUSD
	t.UnrealizedTWD = t.TWD - t.CostTWD
	if t.CostUSD != 0 {
		t.ROIPct = t.UnrealizedUSD / t.CostUSD * 100.0
	} else {
		t.ROIPct = 0
	}
}

// PortfolioResult is the full output of one valuation run. Positions keep
// input order: stocks first, then cash.
type PortfolioResult struct {
	Totals    Totals              `json:"totals"`
	Positions []PositionBreakdown `json:"positions"`
}
