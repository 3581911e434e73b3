package optiondeck

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNewClient(t *testing.T) {
	baseURL := "http://localhost:5000"
	c := NewClient(baseURL)

	if c == nil {
		t.Fatal("expected non-nil client")
	}
	if c.baseURL != baseURL {
		t.Errorf("expected baseURL %q, got %q", baseURL, c.baseURL)
	}
	if c.httpClient == nil {
		t.Fatal("expected non-nil httpClient")
	}
}

func TestClientEndpoints(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/instruments":
			w.Write([]byte(`["NIFTY","BANKNIFTY"]`))
		case "/api/health":
			w.Write([]byte(`{"NIFTY":{"last_update":"2025-01-06 10:15:00","data_available":true,"signals_available":true}}`))
		case "/api/data/NIFTY":
			w.Write([]byte(`{"analysis":{"spot_price":19500},"signals":null,"timestamp":"2025-01-06 10:15:00"}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	ctx := context.Background()

	instruments, err := c.Instruments(ctx)
	if err != nil {
		t.Fatalf("Instruments: %v", err)
	}
	if len(instruments) != 2 || instruments[0] != "NIFTY" {
		t.Errorf("unexpected instruments: %v", instruments)
	}

	health, err := c.Health(ctx)
	if err != nil {
		t.Fatalf("Health: %v", err)
	}
	if h, ok := health["NIFTY"]; !ok || !h.DataAvailable {
		t.Errorf("unexpected health: %v", health)
	}

	data, err := c.Data(ctx, "NIFTY")
	if err != nil {
		t.Fatalf("Data: %v", err)
	}
	if data.Timestamp != "2025-01-06 10:15:00" {
		t.Errorf("unexpected timestamp %q", data.Timestamp)
	}
	if len(data.Analysis) == 0 {
		t.Error("expected analysis payload")
	}

	if _, err := c.Data(ctx, "UNKNOWN"); err == nil {
		t.Error("expected error for unknown instrument")
	}
}
