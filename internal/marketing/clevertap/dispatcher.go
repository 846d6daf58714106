// Package clevertap delivers marketing events through the CleverTap
// upload API.
package clevertap

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	marketingdomain "github.com/smallbiznis/backinstock/internal/marketing/domain"
)

const (
	accountIDHeader = "X-CleverTap-Account-Id"
	passcodeHeader  = "X-CleverTap-Passcode"
)

// Dispatcher posts single-event uploads to the region-specific endpoint.
type Dispatcher struct {
	httpClient *http.Client

	// endpointOverride replaces the region-derived URL. Tests point it
	// at an httptest server.
	endpointOverride string
}

// NewDispatcher constructs the CleverTap dispatcher.
func NewDispatcher(httpClient *http.Client) *Dispatcher {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Dispatcher{httpClient: httpClient}
}

// NewDispatcherWithEndpoint constructs a dispatcher bound to a fixed URL.
func NewDispatcherWithEndpoint(httpClient *http.Client, endpoint string) *Dispatcher {
	d := NewDispatcher(httpClient)
	d.endpointOverride = endpoint
	return d
}

type uploadEntry struct {
	Identity    string                    `json:"identity"`
	Type        string                    `json:"type"`
	EvtName     string                    `json:"evtName"`
	EvtData     marketingdomain.EventData `json:"evtData"`
	ProfileData map[string]string         `json:"profileData"`
}

type uploadRequest struct {
	D []uploadEntry `json:"d"`
}

// Dispatch sends one event. A non-2xx response is a delivery failure with
// the response body captured into the error.
func (d *Dispatcher) Dispatch(ctx context.Context, cfg marketingdomain.Config, event marketingdomain.Event) error {
	if !cfg.Complete() {
		return marketingdomain.ErrNotConfigured
	}

	payload := uploadRequest{D: []uploadEntry{{
		Identity:    event.Email,
		Type:        "event",
		EvtName:     event.Name,
		EvtData:     event.Data,
		ProfileData: map[string]string{"Email": event.Email},
	}}}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	endpoint := d.endpointOverride
	if endpoint == "" {
		endpoint = fmt.Sprintf("https://%s.api.clevertap.com/1/upload", cfg.Region)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(accountIDHeader, cfg.AccountID)
	req.Header.Set(passcodeHeader, cfg.Passcode)

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", marketingdomain.ErrDeliveryFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%w: status %d: %s", marketingdomain.ErrDeliveryFailed, resp.StatusCode, strings.TrimSpace(string(detail)))
	}
	return nil
}
