package model

// ForecastPoint is one projected period of a sales forecast.
type ForecastPoint struct {
	Period string  `json:"period"`
	Value  float64 `json:"value"`
}

// Forecast is a sales projection for a product over a horizon.
type Forecast struct {
	ProductID  string          `json:"product_id"`
	Period     string          `json:"period"`
	Points     []ForecastPoint `json:"points"`
	Confidence float64         `json:"confidence"`
}

// Forecast periods
const (
	PeriodMonthly   = "monthly"
	PeriodQuarterly = "quarterly"
	PeriodYearly    = "yearly"
)
