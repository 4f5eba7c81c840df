package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"portfolio-manager/portfolios-service/logging"
	"portfolio-manager/portfolios-service/models"

	"github.com/sony/gobreaker"
)

// ExternalMembersAPI issues the external identifier for a newly registered
// member.
type ExternalMembersAPI interface {
	RegisterMember(ctx context.Context, name string, role models.Role) (string, error)
}

// MembersAPIClient calls the external members API through a circuit breaker.
type MembersAPIClient struct {
	baseURL string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
}

func NewMembersAPIClient(baseURL string) *MembersAPIClient {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "MembersAPICB",
		MaxRequests: 1,
		Timeout:     5 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Logger.Infof("Event ID: CIRCUIT_BREAKER_STATE_CHANGE, Description: Circuit Breaker '%s' changed from '%s' to '%s'", name, from.String(), to.String())
		},
	})

	return &MembersAPIClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 5 * time.Second},
		breaker: breaker,
	}
}

func (c *MembersAPIClient) RegisterMember(ctx context.Context, name string, role models.Role) (string, error) {
	payload, err := json.Marshal(map[string]string{
		"name": name,
		"role": string(role),
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode member payload: %w", err)
	}

	result, err := c.breaker.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/members", bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
			return nil, fmt.Errorf("members API returned status %d", resp.StatusCode)
		}

		var body struct {
			ExternalID string `json:"externalId"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			return nil, fmt.Errorf("failed to decode members API response: %w", err)
		}
		return body.ExternalID, nil
	})
	if err != nil {
		return "", err
	}

	return result.(string), nil
}
