package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/archivar1/Hack-ITMO-2025/services"
)

// FoodController is a pass-through to the nutrition lookup provider,
// normalized to a 100 g/ml basis.
type FoodController struct {
	Nutrition services.NutritionAPI
}

func NewFoodController(nutrition services.NutritionAPI) *FoodController {
	return &FoodController{Nutrition: nutrition}
}

// GET /calories?food_name=beer
func (fc *FoodController) GetCalories(c *gin.Context) {
	name := c.Query("food_name")
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "food_name is required"})
		return
	}
	fc.lookup(c, name)
}

// POST /calories  { "food_name": "beer" }
func (fc *FoodController) PostCalories(c *gin.Context) {
	var body struct {
		FoodName string `json:"food_name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	fc.lookup(c, body.FoodName)
}

func (fc *FoodController) lookup(c *gin.Context, name string) {
	nut, err := fc.Nutrition.Lookup(c.Request.Context(), name)
	if err != nil {
		if errors.Is(err, services.ErrFoodNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "food not found: " + name})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "nutrition lookup failed"})
		return
	}
	c.JSON(http.StatusOK, nut)
}
