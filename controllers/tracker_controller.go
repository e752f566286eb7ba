package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/archivar1/Hack-ITMO-2025/services"
)

type TrackerController struct {
	Svc *services.TrackerService
}

func NewTrackerController(svc *services.TrackerService) *TrackerController {
	return &TrackerController{Svc: svc}
}

// POST /api/users
func (tc *TrackerController) EnsureUser(c *gin.Context) {
	chatID := c.GetString("chatID")

	user, err := tc.Svc.EnsureUser(c.Request.Context(), chatID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// GET /api/user/product
func (tc *TrackerController) CurrentProduct(c *gin.Context) {
	chatID := c.GetString("chatID")

	product, err := tc.Svc.CurrentProduct(c.Request.Context(), chatID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// PUT /api/user/product  { "name": "beer" }
func (tc *TrackerController) SetCurrentProduct(c *gin.Context) {
	chatID := c.GetString("chatID")

	var body struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	product, err := tc.Svc.SetCurrentProduct(c.Request.Context(), chatID, body.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// POST /api/products  { "name": "oatmeal", "calories": 370 }
func (tc *TrackerController) AddCustomProduct(c *gin.Context) {
	var body struct {
		Name     string `json:"name" binding:"required"`
		Calories *int   `json:"calories" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	product, err := tc.Svc.AddCustomProduct(c.Request.Context(), body.Name, *body.Calories)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

// GET /api/user/estimate?days=3
func (tc *TrackerController) Estimate(c *gin.Context) {
	chatID := c.GetString("chatID")

	days := 1
	if raw := c.Query("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "days must be an integer"})
			return
		}
		days = n
	}

	est, err := tc.Svc.EstimateEdibleAmount(c.Request.Context(), chatID, days)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, est)
}

// POST /api/estimate/manual  { "product_name": "chicken", "calories_burned": 300 }
func (tc *TrackerController) ManualEstimate(c *gin.Context) {
	var body struct {
		ProductName    string   `json:"product_name" binding:"required"`
		CaloriesBurned *float64 `json:"calories_burned" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	est, err := tc.Svc.ManualEdibleAmount(c.Request.Context(), body.ProductName, *body.CaloriesBurned)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, est)
}

// GET /api/user/alerts?limit=20
func (tc *TrackerController) RecentAlerts(c *gin.Context) {
	chatID := c.GetString("chatID")

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	alerts, err := tc.Svc.RecentAlerts(c.Request.Context(), chatID, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"alerts": alerts})
}

func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrUserNotFound), errors.Is(err, services.ErrProductNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrProductExists):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrUnresolvable):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
