package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/archivar1/Hack-ITMO-2025/config"
)

// HumanAPIService reads activity summaries from Human API. The OAuth code
// exchange that produces the access token happens outside this service;
// the token arrives via configuration.
type HumanAPIService struct {
	baseURL     string
	accessToken string
	client      *http.Client
	now         func() time.Time
}

func NewHumanAPIService(cfg config.HumanAPIConfig) *HumanAPIService {
	return &HumanAPIService{
		baseURL:     cfg.BaseURL,
		accessToken: cfg.AccessToken,
		client:      &http.Client{Timeout: 10 * time.Second},
		now:         time.Now,
	}
}

// DailyCaloriesBurned returns today's calorie expenditure for the user.
func (s *HumanAPIService) DailyCaloriesBurned(ctx context.Context, userID string) (float64, error) {
	params := url.Values{"date": {s.now().Format("2006-01-02")}}
	u := s.baseURL + "/v1/human/activities/summaries?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create Human API request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to call Human API: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("failed to read Human API response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("Human API error %d: %s", resp.StatusCode, truncate(body))
	}

	// The summaries endpoint returns either a list of day summaries or a
	// single object depending on the query.
	var summaries []struct {
		Calories float64 `json:"calories"`
	}
	if err := json.Unmarshal(body, &summaries); err == nil {
		if len(summaries) == 0 {
			return 0, fmt.Errorf("Human API returned no summary for user %s", userID)
		}
		return summaries[0].Calories, nil
	}

	var single struct {
		Calories float64 `json:"calories"`
	}
	if err := json.Unmarshal(body, &single); err != nil {
		return 0, fmt.Errorf("failed to parse Human API JSON: %w", err)
	}
	return single.Calories, nil
}
