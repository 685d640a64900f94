package toolsapi_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"corpsuite/internal/session/adapter/toolsapi"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func staticToken(token string) toolsapi.TokenProvider {
	return func() string { return token }
}

func TestGet_AttachesBearerToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer T1", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}))
	defer srv.Close()

	c := toolsapi.New(srv.URL, staticToken("T1"))
	res := c.Get(context.Background(), "/tools/analytics/metrics")

	require.True(t, res.OK())
	var out map[string]string
	require.NoError(t, res.Decode(&out))
	assert.Equal(t, "ok", out["status"])
}

func TestGet_NoTokenSendsNoHeader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Empty(t, r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(map[string]string{})
	}))
	defer srv.Close()

	c := toolsapi.New(srv.URL, staticToken(""))
	res := c.Get(context.Background(), "/tools/crm/leads")
	assert.True(t, res.OK())
}

func TestCall_ServerDetailBecomesErr(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		json.NewEncoder(w).Encode(map[string]string{"detail": "This tool requires a higher subscription plan"})
	}))
	defer srv.Close()

	c := toolsapi.New(srv.URL, staticToken("T1"))
	res := c.Post(context.Background(), "/tools/sales_forecast", map[string]string{"product_id": "p1"})

	assert.False(t, res.OK())
	assert.Equal(t, "This tool requires a higher subscription plan", res.Err)
}

func TestCall_NonJSONErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream down"))
	}))
	defer srv.Close()

	c := toolsapi.New(srv.URL, staticToken("T1"))
	res := c.Get(context.Background(), "/tools/crm/leads")

	assert.False(t, res.OK())
	assert.Equal(t, "request failed with status 502", res.Err)
}

func TestCRM_CreateAndList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/tools/crm":
			var lead toolsapi.Lead
			require.NoError(t, json.NewDecoder(r.Body).Decode(&lead))
			lead.ID = "lead-1"
			json.NewEncoder(w).Encode(lead)
		case r.Method == http.MethodGet && r.URL.Path == "/tools/crm/leads":
			json.NewEncoder(w).Encode(map[string]interface{}{
				"leads": []toolsapi.Lead{{ID: "lead-1", Name: "Ana", Email: "a@x.com"}},
			})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := toolsapi.New(srv.URL, staticToken("T1"))

	created, err := c.CRM().CreateLead(context.Background(), toolsapi.Lead{Name: "Ana", Email: "a@x.com"})
	require.NoError(t, err)
	assert.Equal(t, "lead-1", created.ID)

	leads, err := c.CRM().Leads(context.Background())
	require.NoError(t, err)
	require.Len(t, leads, 1)
	assert.Equal(t, "Ana", leads[0].Name)
}

func TestSalesForecast(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "p1", body["product_id"])
		require.Equal(t, "monthly", body["period"])

		json.NewEncoder(w).Encode(toolsapi.Forecast{
			ProductID:  "p1",
			Period:     "monthly",
			Points:     []toolsapi.ForecastPoint{{Period: "2026-09", Value: 1200}},
			Confidence: 0.8,
		})
	}))
	defer srv.Close()

	c := toolsapi.New(srv.URL, staticToken("T1"))
	forecast, err := c.SalesForecast(context.Background(), "p1", "monthly")

	require.NoError(t, err)
	require.Len(t, forecast.Points, 1)
	assert.InDelta(t, 1200, forecast.Points[0].Value, 0.001)
}

func TestDownload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		w.Write([]byte("%PDF-1.4 fake"))
	}))
	defer srv.Close()

	c := toolsapi.New(srv.URL, staticToken("T1"))
	data, contentType, err := c.Download(context.Background(), "/tools/analytics/download/r1")

	require.NoError(t, err)
	assert.Equal(t, "application/pdf", contentType)
	assert.Equal(t, []byte("%PDF-1.4 fake"), data)
}

func TestDownload_Failure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Report not found"})
	}))
	defer srv.Close()

	c := toolsapi.New(srv.URL, staticToken("T1"))
	_, _, err := c.Download(context.Background(), "/tools/analytics/download/missing")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Report not found")
}
