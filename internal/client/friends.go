// Package client holds outbound HTTP clients for collaborator services.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"biomistrz-backend/internal/model"
)

// FriendsClient fetches a player's friend list from the main quiz
// backend, used for invite suggestions. Disabled (returns empty) when
// no base URL is configured.
type FriendsClient struct {
	baseURL string
	client  *http.Client
}

func NewFriendsClient(baseURL string) *FriendsClient {
	return &FriendsClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *FriendsClient) GetFriends(ctx context.Context, uid string) ([]model.Friend, error) {
	if c.baseURL == "" {
		return []model.Friend{}, nil
	}

	url := fmt.Sprintf("%s/players/%s/friends", c.baseURL, uid)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("friends request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("friends request: status %d", resp.StatusCode)
	}

	var friends []model.Friend
	if err := json.NewDecoder(resp.Body).Decode(&friends); err != nil {
		return nil, fmt.Errorf("friends decode: %w", err)
	}
	return friends, nil
}
