package clevertap

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	marketingdomain "github.com/smallbiznis/backinstock/internal/marketing/domain"
)

var testConfig = marketingdomain.Config{
	AccountID: "ACC-123",
	Passcode:  "PASS-456",
	Region:    "eu1",
}

var testEvent = marketingdomain.Event{
	Email: "a@x.com",
	Name:  "Back In Stock",
	Data: marketingdomain.EventData{
		ProductID:    "99",
		VariantID:    "42",
		ProductTitle: "Wool Sweater",
		ProductURL:   "https://demo.myshopify.com/products/wool-sweater",
	},
}

func TestDispatchSendsUploadPayload(t *testing.T) {
	var captured uploadRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-CleverTap-Account-Id") != "ACC-123" {
			t.Errorf("missing account id header")
		}
		if r.Header.Get("X-CleverTap-Passcode") != "PASS-456" {
			t.Errorf("missing passcode header")
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Fatalf("decode: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	d := NewDispatcherWithEndpoint(srv.Client(), srv.URL)
	if err := d.Dispatch(context.Background(), testConfig, testEvent); err != nil {
		t.Fatalf("dispatch: %v", err)
	}

	if len(captured.D) != 1 {
		t.Fatalf("expected one entry, got %d", len(captured.D))
	}
	entry := captured.D[0]
	if entry.Identity != "a@x.com" || entry.Type != "event" || entry.EvtName != "Back In Stock" {
		t.Fatalf("unexpected entry: %+v", entry)
	}
	if entry.EvtData.VariantID != "42" || entry.EvtData.ProductURL != "https://demo.myshopify.com/products/wool-sweater" {
		t.Fatalf("unexpected event data: %+v", entry.EvtData)
	}
	if entry.ProfileData["Email"] != "a@x.com" {
		t.Fatalf("unexpected profile data: %v", entry.ProfileData)
	}
}

func TestDispatchOmitsEmptyImage(t *testing.T) {
	var raw map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			t.Fatalf("decode: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	d := NewDispatcherWithEndpoint(srv.Client(), srv.URL)
	if err := d.Dispatch(context.Background(), testConfig, testEvent); err != nil {
		t.Fatalf("dispatch: %v", err)
	}

	entries := raw["d"].([]any)
	evtData := entries[0].(map[string]any)["evtData"].(map[string]any)
	if _, ok := evtData["product_image"]; ok {
		t.Fatal("empty product_image must be omitted")
	}
}

func TestDispatchNonSuccessCapturesBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"status":"fail","error":"bad passcode"}`))
	}))
	defer srv.Close()

	d := NewDispatcherWithEndpoint(srv.Client(), srv.URL)
	err := d.Dispatch(context.Background(), testConfig, testEvent)
	if !errors.Is(err, marketingdomain.ErrDeliveryFailed) {
		t.Fatalf("expected delivery failure, got %v", err)
	}
	if !strings.Contains(err.Error(), "bad passcode") {
		t.Fatalf("expected response body in error, got %v", err)
	}
}

func TestDispatchRequiresCompleteConfig(t *testing.T) {
	d := NewDispatcher(nil)
	err := d.Dispatch(context.Background(), marketingdomain.Config{AccountID: "ACC-123"}, testEvent)
	if !errors.Is(err, marketingdomain.ErrNotConfigured) {
		t.Fatalf("expected not-configured error, got %v", err)
	}
}
