package routes

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/archivar1/Hack-ITMO-2025/config"
	"github.com/archivar1/Hack-ITMO-2025/services"
	"github.com/archivar1/Hack-ITMO-2025/storage"
	"github.com/archivar1/Hack-ITMO-2025/utils"
)

func testRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Config{
		Auth: config.AuthConfig{
			JWTSecret: "test-jwt-secret",
			BotSecret: "test-bot-secret",
			TokenTTL:  time.Hour,
		},
	}

	store := storage.NewSeededMemory("Beer", 43)
	hub := services.NewRealtimeHub()
	alerts := services.NewAlertBus(store, hub)
	svc := services.NewTrackerService(store, services.NutritionMock{}, services.ActivityMock{Daily: 2100}, alerts, "Beer")

	return SetupRouter(cfg, svc, services.NutritionMock{}, hub)
}

func bearerFor(t *testing.T, chatID string) string {
	t.Helper()
	token, err := utils.GenerateJWT(chatID, "test-jwt-secret", time.Hour)
	if err != nil {
		t.Fatalf("GenerateJWT() error = %v", err)
	}
	return "Bearer " + token
}

func do(r *gin.Engine, method, path, auth, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealthEndpoints(t *testing.T) {
	r := testRouter(t)

	for _, path := range []string{"/", "/health"} {
		if w := do(r, http.MethodGet, path, "", ""); w.Code != http.StatusOK {
			t.Errorf("GET %s = %d, want 200", path, w.Code)
		}
	}
	if w := do(r, http.MethodGet, "/metrics", "", ""); w.Code != http.StatusOK {
		t.Errorf("GET /metrics = %d, want 200", w.Code)
	}
}

func TestIssueToken(t *testing.T) {
	r := testRouter(t)

	w := do(r, http.MethodPost, "/auth/token", "", `{"secret":"test-bot-secret","chat_id":"42"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("POST /auth/token = %d, body %s", w.Code, w.Body.String())
	}
	var resp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil || resp.Token == "" {
		t.Fatalf("expected a token, got %s", w.Body.String())
	}

	if w := do(r, http.MethodPost, "/auth/token", "", `{"secret":"wrong","chat_id":"42"}`); w.Code != http.StatusUnauthorized {
		t.Errorf("wrong secret = %d, want 401", w.Code)
	}
}

func TestAuthRequired(t *testing.T) {
	r := testRouter(t)

	if w := do(r, http.MethodPost, "/api/users", "", ""); w.Code != http.StatusUnauthorized {
		t.Errorf("no token = %d, want 401", w.Code)
	}
	if w := do(r, http.MethodPost, "/api/users", "Bearer garbage", ""); w.Code != http.StatusUnauthorized {
		t.Errorf("bad token = %d, want 401", w.Code)
	}
}

func TestCaloriesLookup(t *testing.T) {
	r := testRouter(t)

	w := do(r, http.MethodGet, "/calories?food_name=beer", "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("GET /calories = %d, body %s", w.Code, w.Body.String())
	}
	var nut services.Nutrition
	if err := json.Unmarshal(w.Body.Bytes(), &nut); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if nut.Calories != 43 || nut.ServingDescription != "100 ml" {
		t.Errorf("got %+v, want beer at 43 kcal per 100 ml", nut)
	}

	if w := do(r, http.MethodPost, "/calories", "", `{"food_name":"chicken"}`); w.Code != http.StatusOK {
		t.Errorf("POST /calories = %d, want 200", w.Code)
	}
	if w := do(r, http.MethodGet, "/calories?food_name=nothing", "", ""); w.Code != http.StatusNotFound {
		t.Errorf("unknown food = %d, want 404", w.Code)
	}
	if w := do(r, http.MethodGet, "/calories", "", ""); w.Code != http.StatusBadRequest {
		t.Errorf("missing food_name = %d, want 400", w.Code)
	}
}

func TestTrackerFlow(t *testing.T) {
	r := testRouter(t)
	auth := bearerFor(t, "chat-1")

	// register and read the seeded current product
	if w := do(r, http.MethodPost, "/api/users", auth, ""); w.Code != http.StatusOK {
		t.Fatalf("POST /api/users = %d, body %s", w.Code, w.Body.String())
	}
	w := do(r, http.MethodGet, "/api/user/product", auth, "")
	if w.Code != http.StatusOK {
		t.Fatalf("GET /api/user/product = %d", w.Code)
	}
	var product struct {
		Name     string `json:"name"`
		Calories int    `json:"calories"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &product); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if product.Name != "Beer" || product.Calories != 43 {
		t.Errorf("seed product = %s/%d, want Beer/43", product.Name, product.Calories)
	}

	// switch product through the external lookup
	if w := do(r, http.MethodPut, "/api/user/product", auth, `{"name":"chicken"}`); w.Code != http.StatusOK {
		t.Fatalf("PUT /api/user/product = %d, body %s", w.Code, w.Body.String())
	}
	if w := do(r, http.MethodPut, "/api/user/product", auth, `{"name":"unknown dish"}`); w.Code != http.StatusNotFound {
		t.Errorf("unknown product = %d, want 404", w.Code)
	}

	// custom product registration is not an overwrite
	if w := do(r, http.MethodPost, "/api/products", auth, `{"name":"oatmeal","calories":370}`); w.Code != http.StatusCreated {
		t.Fatalf("POST /api/products = %d, body %s", w.Code, w.Body.String())
	}
	if w := do(r, http.MethodPost, "/api/products", auth, `{"name":"oatmeal","calories":111}`); w.Code != http.StatusConflict {
		t.Errorf("duplicate product = %d, want 409", w.Code)
	}
	if w := do(r, http.MethodPost, "/api/products", auth, `{"name":"bad","calories":-5}`); w.Code != http.StatusBadRequest {
		t.Errorf("negative calories = %d, want 400", w.Code)
	}

	// estimates
	w = do(r, http.MethodGet, "/api/user/estimate?days=2", auth, "")
	if w.Code != http.StatusOK {
		t.Fatalf("GET /api/user/estimate = %d, body %s", w.Code, w.Body.String())
	}
	var est services.Estimate
	if err := json.Unmarshal(w.Body.Bytes(), &est); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if est.Amount <= 0 || est.Days != 2 {
		t.Errorf("estimate = %+v, want a positive amount over 2 days", est)
	}
	if w := do(r, http.MethodGet, "/api/user/estimate?days=400", auth, ""); w.Code != http.StatusBadRequest {
		t.Errorf("days=400 = %d, want 400", w.Code)
	}
	if w := do(r, http.MethodGet, "/api/user/estimate?days=x", auth, ""); w.Code != http.StatusBadRequest {
		t.Errorf("days=x = %d, want 400", w.Code)
	}

	w = do(r, http.MethodPost, "/api/estimate/manual", auth, `{"product_name":"chicken","calories_burned":300}`)
	if w.Code != http.StatusOK {
		t.Fatalf("POST /api/estimate/manual = %d, body %s", w.Code, w.Body.String())
	}
	if err := json.Unmarshal(w.Body.Bytes(), &est); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if est.Amount != 200.0 {
		t.Errorf("manual amount = %f, want 200.0", est.Amount)
	}

	// product change and estimate left alerts behind
	w = do(r, http.MethodGet, "/api/user/alerts", auth, "")
	if w.Code != http.StatusOK {
		t.Fatalf("GET /api/user/alerts = %d", w.Code)
	}
	var feed struct {
		Alerts []struct {
			Type string `json:"type"`
		} `json:"alerts"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &feed); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if len(feed.Alerts) == 0 {
		t.Error("expected alerts after product change and estimate")
	}
}

func TestEstimateWithoutUser(t *testing.T) {
	r := testRouter(t)
	auth := bearerFor(t, "stranger")

	if w := do(r, http.MethodGet, "/api/user/estimate", auth, ""); w.Code != http.StatusNotFound {
		t.Errorf("estimate for unknown user = %d, want 404", w.Code)
	}
}
