package services

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/archivar1/Hack-ITMO-2025/config"
)

func newHumanAPI(ts *httptest.Server) *HumanAPIService {
	return NewHumanAPIService(config.HumanAPIConfig{
		BaseURL:     ts.URL,
		AccessToken: "session-token",
	})
}

func TestHumanAPIDailyCaloriesBurned(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/human/activities/summaries" {
			http.NotFound(w, r)
			return
		}
		if r.Header.Get("Authorization") != "Bearer session-token" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		if r.URL.Query().Get("date") == "" {
			http.Error(w, "date required", http.StatusBadRequest)
			return
		}
		fmt.Fprint(w, `[{"date":"2025-03-10","steps":10000,"calories":2100.5}]`)
	}))
	defer ts.Close()

	got, err := newHumanAPI(ts).DailyCaloriesBurned(context.Background(), "chat-1")
	if err != nil {
		t.Fatalf("DailyCaloriesBurned() error = %v", err)
	}
	if got != 2100.5 {
		t.Errorf("calories = %f, want 2100.5", got)
	}
}

func TestHumanAPISingleObjectResponse(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"date":"2025-03-10","calories":1500}`)
	}))
	defer ts.Close()

	got, err := newHumanAPI(ts).DailyCaloriesBurned(context.Background(), "chat-1")
	if err != nil {
		t.Fatalf("DailyCaloriesBurned() error = %v", err)
	}
	if got != 1500 {
		t.Errorf("calories = %f, want 1500", got)
	}
}

func TestHumanAPIFailuresSurfaceAsErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "down", http.StatusBadGateway)
		}},
		{"empty summary list", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `[]`)
		}},
		{"malformed payload", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `not json`)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(tt.handler)
			defer ts.Close()
			if _, err := newHumanAPI(ts).DailyCaloriesBurned(context.Background(), "chat-1"); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}
