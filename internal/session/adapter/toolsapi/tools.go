package toolsapi

import "context"

// Lead is a CRM lead as the backend returns it.
type Lead struct {
	ID        string `json:"id,omitempty"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Company   string `json:"company,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Status    string `json:"status,omitempty"`
	Notes     string `json:"notes,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

// CRM wraps the customer-relationship tool endpoints.
type CRM struct{ c *Client }

// CRM returns the CRM tool group.
func (c *Client) CRM() CRM { return CRM{c: c} }

// CreateLead registers a new lead.
func (t CRM) CreateLead(ctx context.Context, lead Lead) (Lead, error) {
	var created Lead
	res := t.c.Post(ctx, "/tools/crm", lead)
	if !res.OK() {
		return created, resultError(res)
	}
	return created, res.Decode(&created)
}

// Leads lists all leads for the caller's account.
func (t CRM) Leads(ctx context.Context) ([]Lead, error) {
	res := t.c.Get(ctx, "/tools/crm/leads")
	if !res.OK() {
		return nil, resultError(res)
	}
	var out struct {
		Leads []Lead `json:"leads"`
	}
	if err := res.Decode(&out); err != nil {
		return nil, err
	}
	return out.Leads, nil
}

// ForecastPoint is one projected period of a sales forecast.
type ForecastPoint struct {
	Period string  `json:"period"`
	Value  float64 `json:"value"`
}

// Forecast is the sales projection the backend computes for a product.
type Forecast struct {
	ProductID  string          `json:"product_id"`
	Period     string          `json:"period"`
	Points     []ForecastPoint `json:"points"`
	Confidence float64         `json:"confidence"`
}

// SalesForecast requests a projection for the product over the period
// ("monthly", "quarterly" or "yearly").
func (c *Client) SalesForecast(ctx context.Context, productID, period string) (Forecast, error) {
	var forecast Forecast
	res := c.Post(ctx, "/tools/sales_forecast", map[string]string{
		"product_id": productID,
		"period":     period,
	})
	if !res.OK() {
		return forecast, resultError(res)
	}
	return forecast, res.Decode(&forecast)
}

type resultErr struct{ msg string }

func (e resultErr) Error() string { return e.msg }

func resultError(r Result) error { return resultErr{msg: r.Err} }
