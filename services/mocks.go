package services

import (
	"context"
	"fmt"
	"strings"
)

// In-process stand-ins for the external collaborators, selected in mock
// mode at composition time. They satisfy the same interfaces as the real
// clients.

// NutritionMock resolves a couple of canned foods.
type NutritionMock struct{}

func (NutritionMock) Lookup(ctx context.Context, name string) (*Nutrition, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "chicken":
		return &Nutrition{
			Name:               "Chicken",
			Calories:           150,
			Protein:            30,
			Fat:                3.0,
			Carbohydrates:      0,
			ServingDescription: "100 g",
		}, nil
	case "beer":
		return &Nutrition{
			Name:               "Beer",
			Calories:           43,
			Protein:            0.5,
			Fat:                0,
			Carbohydrates:      3.6,
			ServingDescription: "100 ml",
		}, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrFoodNotFound, name)
}

// ActivityMock reports a fixed daily baseline for every user.
type ActivityMock struct {
	Daily float64
}

func (m ActivityMock) DailyCaloriesBurned(ctx context.Context, userID string) (float64, error) {
	if m.Daily > 0 {
		return m.Daily, nil
	}
	return 100, nil
}
