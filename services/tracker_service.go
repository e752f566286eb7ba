package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/archivar1/Hack-ITMO-2025/metrics"
	"github.com/archivar1/Hack-ITMO-2025/models"
	"github.com/archivar1/Hack-ITMO-2025/storage"
)

// Failure taxonomy of the tracking service. Collaborator failures are
// downgraded to one of these before they reach a controller; no raw
// transport error crosses the service boundary.
var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrUserNotFound    = errors.New("user not found")
	ErrProductNotFound = errors.New("product not found")
	ErrProductExists   = errors.New("product already exists")
	ErrUnresolvable    = errors.New("cannot compute edible amount")
	ErrConfiguration   = errors.New("configuration error")
)

const (
	maxProductNameLen = 200
	maxCalories       = 10000
	maxDays           = 365
)

// NutritionAPI resolves a free-text food name to a per-100 g/ml record.
type NutritionAPI interface {
	Lookup(ctx context.Context, name string) (*Nutrition, error)
}

// ActivityAPI reports the user's daily calorie expenditure baseline.
type ActivityAPI interface {
	DailyCaloriesBurned(ctx context.Context, userID string) (float64, error)
}

// Estimate is the result of an edible-amount computation. Amount is in the
// product's serving units (grams or milliliters).
type Estimate struct {
	ProductName    string  `json:"product_name"`
	CaloriesPer100 int     `json:"calories_per_100"`
	CaloriesBurned float64 `json:"calories_burned"`
	Amount         float64 `json:"amount"`
	Days           int     `json:"days"`
}

// TrackerService owns the "how much can I eat" computation and the
// user/product state transitions.
type TrackerService struct {
	store     storage.Store
	nutrition NutritionAPI
	activity  ActivityAPI
	alerts    *AlertBus
	seedName  string
	now       func() time.Time
}

func NewTrackerService(store storage.Store, nutrition NutritionAPI, activity ActivityAPI, alerts *AlertBus, seedName string) *TrackerService {
	return &TrackerService{
		store:     store,
		nutrition: nutrition,
		activity:  activity,
		alerts:    alerts,
		seedName:  seedName,
		now:       time.Now,
	}
}

// EnsureUser is an idempotent get-or-create keyed by chat id. New users
// start tracking the seed product; a catalog without the seed product is a
// deployment error, not a recoverable one.
func (s *TrackerService) EnsureUser(ctx context.Context, chatID string) (*models.User, error) {
	chatID = strings.TrimSpace(chatID)
	if chatID == "" {
		return nil, fmt.Errorf("%w: chat id must not be empty", ErrInvalidInput)
	}

	user, err := s.store.GetUserByChatID(ctx, chatID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("get user: %w", err)
	}

	seed, err := s.store.GetProductByName(ctx, s.seedName)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%w: seed product %q is missing from the catalog", ErrConfiguration, s.seedName)
		}
		return nil, fmt.Errorf("get seed product: %w", err)
	}

	user, err = s.store.CreateUser(ctx, chatID, seed.ID)
	if errors.Is(err, storage.ErrDuplicate) {
		// Lost a create race; the existing row wins.
		return s.store.GetUserByChatID(ctx, chatID)
	}
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	slog.Info("user registered", "chat_id", chatID, "product", seed.Name)
	return user, nil
}

// SetCurrentProduct resolves the name against the catalog first and falls
// back to the nutrition lookup, inserting the resolved product before
// assigning it. Changing products is a full replace.
func (s *TrackerService) SetCurrentProduct(ctx context.Context, chatID, name string) (*models.Product, error) {
	name, err := validProductName(name)
	if err != nil {
		return nil, err
	}

	user, err := s.store.GetUserByChatID(ctx, strings.TrimSpace(chatID))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	product, err := s.store.GetProductByName(ctx, name)
	if errors.Is(err, storage.ErrNotFound) {
		product, err = s.resolveAndInsert(ctx, name)
	}
	if err != nil {
		return nil, err
	}

	if err := s.store.UpdateUserCurrentProduct(ctx, user.ID, product.ID); err != nil {
		return nil, fmt.Errorf("assign product: %w", err)
	}

	metrics.ProductChangesTotal.Inc()
	s.alerts.Emit(ctx, user.ChatID, "product.changed",
		fmt.Sprintf("Now tracking %s (%d kcal per 100)", product.Name, product.Calories))
	return product, nil
}

// resolveAndInsert takes the external-lookup path. A duplicate on insert
// means another caller resolved the same name first; that row wins.
func (s *TrackerService) resolveAndInsert(ctx context.Context, name string) (*models.Product, error) {
	nut, err := s.nutrition.Lookup(ctx, name)
	if err != nil {
		if !errors.Is(err, ErrFoodNotFound) {
			slog.Error("nutrition lookup failed", "name", name, "error", err)
		}
		return nil, ErrProductNotFound
	}

	calories := int(math.Round(nut.Calories))
	if calories < 0 || calories > maxCalories {
		return nil, ErrProductNotFound
	}

	product, err := s.store.CreateProduct(ctx, name, calories)
	if errors.Is(err, storage.ErrDuplicate) {
		return s.store.GetProductByName(ctx, name)
	}
	if err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	return product, nil
}

// AddCustomProduct registers a catalog entry from caller-supplied calories,
// bypassing the external lookup. Once stored, custom and derived products
// are indistinguishable.
func (s *TrackerService) AddCustomProduct(ctx context.Context, name string, calories int) (*models.Product, error) {
	name, err := validProductName(name)
	if err != nil {
		return nil, err
	}
	if calories < 0 || calories > maxCalories {
		return nil, fmt.Errorf("%w: calories must be between 0 and %d", ErrInvalidInput, maxCalories)
	}

	product, err := s.store.CreateProduct(ctx, name, calories)
	if errors.Is(err, storage.ErrDuplicate) {
		return nil, ErrProductExists
	}
	if err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	return product, nil
}

// CurrentProduct returns the product the user is tracking.
func (s *TrackerService) CurrentProduct(ctx context.Context, chatID string) (*models.Product, error) {
	user, err := s.store.GetUserByChatID(ctx, strings.TrimSpace(chatID))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	product, err := s.store.GetProduct(ctx, user.CurrentProductID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return product, nil
}

// EstimateEdibleAmount converts calories burned over the given day span
// into a quantity of the user's current product. Full prior days count at
// the daily baseline; today contributes the time-of-day fraction.
func (s *TrackerService) EstimateEdibleAmount(ctx context.Context, chatID string, days int) (*Estimate, error) {
	if days < 1 || days > maxDays {
		return nil, fmt.Errorf("%w: days must be between 1 and %d", ErrInvalidInput, maxDays)
	}

	user, err := s.store.GetUserByChatID(ctx, strings.TrimSpace(chatID))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	product, err := s.store.GetProduct(ctx, user.CurrentProductID)
	if err != nil {
		return nil, ErrUnresolvable
	}
	if product.Calories == 0 {
		// Division by a zero-calorie product is undefined.
		return nil, ErrUnresolvable
	}

	baseline, err := s.activity.DailyCaloriesBurned(ctx, user.ChatID)
	if err != nil {
		slog.Error("activity data unavailable", "chat_id", user.ChatID, "error", err)
		return nil, ErrUnresolvable
	}

	burned := totalBurned(baseline, days, s.now())
	est := &Estimate{
		ProductName:    product.Name,
		CaloriesPer100: product.Calories,
		CaloriesBurned: burned,
		Amount:         burned / float64(product.Calories) * 100,
		Days:           days,
	}

	metrics.EstimatesTotal.Inc()
	s.alerts.Emit(ctx, user.ChatID, "estimate.computed",
		fmt.Sprintf("You can have %.1f of %s for %d day(s)", est.Amount, product.Name, days))
	return est, nil
}

// ManualEdibleAmount is the stateless variant: no user state, no activity
// lookup, the caller supplies the calories burned.
func (s *TrackerService) ManualEdibleAmount(ctx context.Context, name string, caloriesBurned float64) (*Estimate, error) {
	name, err := validProductName(name)
	if err != nil {
		return nil, err
	}
	if caloriesBurned < 0 {
		return nil, fmt.Errorf("%w: calories burned must not be negative", ErrInvalidInput)
	}

	nut, err := s.nutrition.Lookup(ctx, name)
	if err != nil {
		return nil, ErrProductNotFound
	}
	if nut.Calories == 0 {
		return nil, ErrProductNotFound
	}

	metrics.EstimatesTotal.Inc()
	return &Estimate{
		ProductName:    nut.Name,
		CaloriesPer100: int(math.Round(nut.Calories)),
		CaloriesBurned: caloriesBurned,
		Amount:         caloriesBurned / nut.Calories * 100,
		Days:           1,
	}, nil
}

// RecentAlerts returns the latest notifications for the chat.
func (s *TrackerService) RecentAlerts(ctx context.Context, chatID string, limit int) ([]models.Alert, error) {
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.store.RecentAlerts(ctx, strings.TrimSpace(chatID), limit)
}

func validProductName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: product name must not be empty", ErrInvalidInput)
	}
	if utf8.RuneCountInString(name) > maxProductNameLen {
		return "", fmt.Errorf("%w: product name must not exceed %d characters", ErrInvalidInput, maxProductNameLen)
	}
	return name, nil
}
