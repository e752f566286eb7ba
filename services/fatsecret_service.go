package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/archivar1/Hack-ITMO-2025/config"
	"github.com/archivar1/Hack-ITMO-2025/metrics"
)

// ErrFoodNotFound is returned when the lookup provider cannot resolve the
// food name.
var ErrFoodNotFound = errors.New("food not found")

// Nutrition is a per-100 g/ml record as reported by the lookup provider.
type Nutrition struct {
	Name               string  `json:"food_name"`
	Calories           float64 `json:"calories"`
	Protein            float64 `json:"protein"`
	Fat                float64 `json:"fat"`
	Carbohydrates      float64 `json:"carbohydrates"`
	ServingDescription string  `json:"serving_description"`
}

// FatSecretService queries the FatSecret platform API. Access tokens are
// fetched with the client-credentials grant and cached for the process
// lifetime.
type FatSecretService struct {
	clientID     string
	clientSecret string
	baseURL      string
	tokenURL     string
	client       *http.Client

	mu          sync.Mutex
	accessToken string
}

func NewFatSecretService(cfg config.FatSecretConfig) *FatSecretService {
	return &FatSecretService{
		clientID:     cfg.ConsumerKey,
		clientSecret: cfg.ConsumerSecret,
		baseURL:      cfg.BaseURL,
		tokenURL:     cfg.TokenURL,
		client:       &http.Client{Timeout: 10 * time.Second},
	}
}

// Lookup resolves a food name to its per-100 g/ml nutrition record:
// search for the best match, fetch its servings, and normalize the most
// suitable metric serving to a 100-unit basis.
func (s *FatSecretService) Lookup(ctx context.Context, name string) (*Nutrition, error) {
	food, err := s.searchFood(ctx, name)
	if err != nil {
		metrics.LookupsTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	if food == nil || food.FoodID == "" {
		metrics.LookupsTotal.WithLabelValues("miss").Inc()
		return nil, fmt.Errorf("%w: %s", ErrFoodNotFound, name)
	}

	details, err := s.foodDetails(ctx, food.FoodID)
	if err != nil {
		metrics.LookupsTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	if details == nil {
		metrics.LookupsTotal.WithLabelValues("miss").Inc()
		return nil, fmt.Errorf("%w: %s", ErrFoodNotFound, name)
	}

	nut := normalizeServings(details, name)
	if nut == nil {
		metrics.LookupsTotal.WithLabelValues("miss").Inc()
		return nil, fmt.Errorf("%w: %s", ErrFoodNotFound, name)
	}
	metrics.LookupsTotal.WithLabelValues("ok").Inc()
	return nut, nil
}

func (s *FatSecretService) token(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.accessToken != "" {
		return s.accessToken, nil
	}

	form := url.Values{
		"grant_type": {"client_credentials"},
		"scope":      {"basic"},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create token request: %w", err)
	}
	req.SetBasicAuth(s.clientID, s.clientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call FatSecret token endpoint: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read token response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("FatSecret token endpoint error %d: %s", resp.StatusCode, truncate(body))
	}

	var tok struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(body, &tok); err != nil {
		return "", fmt.Errorf("failed to parse token JSON: %w", err)
	}
	if tok.AccessToken == "" {
		return "", fmt.Errorf("FatSecret token endpoint returned no access_token")
	}
	s.accessToken = tok.AccessToken
	return s.accessToken, nil
}

type foodSearchHit struct {
	FoodID   string `json:"food_id"`
	FoodName string `json:"food_name"`
}

func (s *FatSecretService) searchFood(ctx context.Context, name string) (*foodSearchHit, error) {
	params := url.Values{
		"method":            {"foods.search"},
		"search_expression": {name},
		"format":            {"json"},
		"max_results":       {"1"},
	}

	body, err := s.get(ctx, params)
	if err != nil {
		return nil, err
	}

	var sr struct {
		Foods struct {
			Food json.RawMessage `json:"food"`
		} `json:"foods"`
	}
	if err := json.Unmarshal(body, &sr); err != nil {
		return nil, fmt.Errorf("failed to parse search JSON: %w", err)
	}
	if len(sr.Foods.Food) == 0 {
		return nil, nil
	}

	// "food" is an object for a single hit and an array otherwise.
	var hits []foodSearchHit
	if err := json.Unmarshal(sr.Foods.Food, &hits); err != nil {
		var single foodSearchHit
		if err := json.Unmarshal(sr.Foods.Food, &single); err != nil {
			return nil, fmt.Errorf("failed to parse search hits: %w", err)
		}
		hits = []foodSearchHit{single}
	}
	if len(hits) == 0 {
		return nil, nil
	}
	return &hits[0], nil
}

type foodServing struct {
	MetricServingAmount string `json:"metric_serving_amount"`
	MetricServingUnit   string `json:"metric_serving_unit"`
	Calories            string `json:"calories"`
	Protein             string `json:"protein"`
	Fat                 string `json:"fat"`
	Carbohydrate        string `json:"carbohydrate"`
}

type foodDetails struct {
	FoodName string `json:"food_name"`
	Servings struct {
		Serving json.RawMessage `json:"serving"`
	} `json:"servings"`
}

func (s *FatSecretService) foodDetails(ctx context.Context, foodID string) (*foodDetails, error) {
	params := url.Values{
		"method":  {"food.get"},
		"food_id": {foodID},
		"format":  {"json"},
	}

	body, err := s.get(ctx, params)
	if err != nil {
		return nil, err
	}

	var dr struct {
		Food *foodDetails `json:"food"`
	}
	if err := json.Unmarshal(body, &dr); err != nil {
		return nil, fmt.Errorf("failed to parse food JSON: %w", err)
	}
	return dr.Food, nil
}

func (s *FatSecretService) get(ctx context.Context, params url.Values) ([]byte, error) {
	token, err := s.token(ctx)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create FatSecret request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call FatSecret API: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read FatSecret response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("FatSecret API error %d: %s", resp.StatusCode, truncate(body))
	}

	var apiErr struct {
		Error *struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error != nil {
		return nil, fmt.Errorf("FatSecret API error: %s", apiErr.Error.Message)
	}
	return body, nil
}

// normalizeServings picks the serving closest to a 100 g/ml basis and
// scales its values to exactly 100 units: prefer an exact 100 g/ml metric
// serving, then any positive metric serving, then the first serving as-is.
func normalizeServings(details *foodDetails, fallbackName string) *Nutrition {
	servings := decodeServings(details.Servings.Serving)
	if len(servings) == 0 {
		return nil
	}

	name := details.FoodName
	if name == "" {
		name = fallbackName
	}

	var pick *foodServing
	for i := range servings {
		if amount := parseNumber(servings[i].MetricServingAmount); amount == 100 && metricUnitOK(servings[i].MetricServingUnit) {
			pick = &servings[i]
			break
		}
	}
	if pick == nil {
		for i := range servings {
			if amount := parseNumber(servings[i].MetricServingAmount); amount > 0 && metricUnitOK(servings[i].MetricServingUnit) {
				pick = &servings[i]
				break
			}
		}
	}
	if pick == nil {
		// No metric serving at all; report the first one unscaled.
		first := servings[0]
		return &Nutrition{
			Name:               name,
			Calories:           parseNumber(first.Calories),
			Protein:            parseNumber(first.Protein),
			Fat:                parseNumber(first.Fat),
			Carbohydrates:      parseNumber(first.Carbohydrate),
			ServingDescription: "100 g",
		}
	}

	multiplier := 1.0
	if amount := parseNumber(pick.MetricServingAmount); amount > 0 {
		multiplier = 100.0 / amount
	}

	desc := "100 g"
	if strings.Contains(strings.ToLower(pick.MetricServingUnit), "ml") ||
		strings.Contains(strings.ToLower(pick.MetricServingUnit), "milliliter") {
		desc = "100 ml"
	}

	return &Nutrition{
		Name:               name,
		Calories:           parseNumber(pick.Calories) * multiplier,
		Protein:            parseNumber(pick.Protein) * multiplier,
		Fat:                parseNumber(pick.Fat) * multiplier,
		Carbohydrates:      parseNumber(pick.Carbohydrate) * multiplier,
		ServingDescription: desc,
	}
}

func decodeServings(raw json.RawMessage) []foodServing {
	if len(raw) == 0 {
		return nil
	}
	var servings []foodServing
	if err := json.Unmarshal(raw, &servings); err != nil {
		var single foodServing
		if err := json.Unmarshal(raw, &single); err != nil {
			return nil
		}
		servings = []foodServing{single}
	}
	return servings
}

func metricUnitOK(unit string) bool {
	switch strings.ToLower(strings.TrimSpace(unit)) {
	case "g", "ml", "gram", "milliliter":
		return true
	}
	return false
}

// FatSecret encodes numbers as JSON strings.
func parseNumber(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}

func truncate(body []byte) string {
	const limit = 200
	if len(body) > limit {
		return string(body[:limit])
	}
	return string(body)
}
