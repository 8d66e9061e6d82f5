package watch

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tolucodes/vaultpay/internal/records"
)

// --- Message types ---

type healthMsg struct {
	Status        string `json:"status"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}

type deliveriesMsg struct {
	Deliveries []records.Delivery `json:"deliveries"`
	Count      int                `json:"count"`
}

type tickMsg time.Time

type errMsg error

// --- Commands ---

// fetchHealth queries the /healthz endpoint.
func fetchHealth(apiURL string) tea.Cmd {
	return func() tea.Msg {
		client := &http.Client{Timeout: 2 * time.Second}
		resp, err := client.Get(apiURL + "/healthz")
		if err != nil {
			return errMsg(err)
		}
		defer resp.Body.Close()

		var h healthMsg
		if err := json.NewDecoder(resp.Body).Decode(&h); err != nil {
			return errMsg(err)
		}
		return h
	}
}

// fetchDeliveries queries /v1/deliveries with the bearer key.
func fetchDeliveries(apiURL, apiKey string, limit int) tea.Cmd {
	return func() tea.Msg {
		client := &http.Client{Timeout: 2 * time.Second}
		req, err := http.NewRequest(http.MethodGet, fmt.Sprintf("%s/v1/deliveries?limit=%d", apiURL, limit), nil)
		if err != nil {
			return errMsg(err)
		}
		req.Header.Set("Authorization", "Bearer "+apiKey)

		resp, err := client.Do(req)
		if err != nil {
			return errMsg(err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return errMsg(fmt.Errorf("deliveries request failed: %s", resp.Status))
		}

		var d deliveriesMsg
		if err := json.NewDecoder(resp.Body).Decode(&d); err != nil {
			return errMsg(err)
		}
		return d
	}
}
