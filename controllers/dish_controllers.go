package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/yeremiapane/cafe-app/events"
	"github.com/yeremiapane/cafe-app/models"
	"github.com/yeremiapane/cafe-app/services"
	"github.com/yeremiapane/cafe-app/utils"
)

type DishController struct {
	DB *gorm.DB
}

func NewDishController(db *gorm.DB) *DishController {
	return &DishController{DB: db}
}

func dishIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("dish_id"), 10, 32)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid dish id"))
		return 0, false
	}
	return uint(id), true
}

// GetAllDishes -> catalog ordered by name. ?active=true limits to dishes
// currently orderable.
func (dc *DishController) GetAllDishes(c *gin.Context) {
	query := dc.DB.Order("name asc")
	if c.Query("active") == "true" {
		query = query.Where("is_active = ?", true)
	}

	var dishes []models.Dish
	if err := query.Find(&dishes).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of dishes", dishes)
}

// GetDishByID
func (dc *DishController) GetDishByID(c *gin.Context) {
	id, ok := dishIDParam(c)
	if !ok {
		return
	}

	var dish models.Dish
	if err := dc.DB.First(&dish, id).Error; err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Dish detail", dish)
}

// CreateDish -> new catalog entry. Names are unique; prices may not be
// negative.
func (dc *DishController) CreateDish(c *gin.Context) {
	var body struct {
		Name        string          `json:"name" binding:"required"`
		Description string          `json:"description"`
		Price       decimal.Decimal `json:"price"`
		IsActive    *bool           `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if body.Price.IsNegative() {
		utils.RespondError(c, http.StatusBadRequest, services.NewValidationError("price must not be negative"))
		return
	}

	var count int64
	if err := dc.DB.Model(&models.Dish{}).Where("name = ?", body.Name).Count(&count).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	if count > 0 {
		utils.RespondError(c, http.StatusBadRequest, services.NewValidationError("a dish with this name already exists"))
		return
	}

	dish := models.Dish{
		Name:        body.Name,
		Description: body.Description,
		Price:       models.NewAmount(body.Price),
		IsActive:    true,
	}
	if body.IsActive != nil {
		dish.IsActive = *body.IsActive
	}

	if err := dc.DB.Create(&dish).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	events.BroadcastCatalogUpdate(dish)
	utils.RespondJSON(c, http.StatusCreated, "Dish created", dish)
}

// UpdateDish -> partial update of a catalog entry. Changing the price
// never touches existing order items; they keep their frozen prices.
func (dc *DishController) UpdateDish(c *gin.Context) {
	id, ok := dishIDParam(c)
	if !ok {
		return
	}

	var dish models.Dish
	if err := dc.DB.First(&dish, id).Error; err != nil {
		respondServiceError(c, err)
		return
	}

	var body struct {
		Name        *string          `json:"name"`
		Description *string          `json:"description"`
		Price       *decimal.Decimal `json:"price"`
		IsActive    *bool            `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if body.Name != nil && *body.Name != dish.Name {
		var count int64
		if err := dc.DB.Model(&models.Dish{}).Where("name = ?", *body.Name).Count(&count).Error; err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
		if count > 0 {
			utils.RespondError(c, http.StatusBadRequest, services.NewValidationError("a dish with this name already exists"))
			return
		}
		dish.Name = *body.Name
	}
	if body.Description != nil {
		dish.Description = *body.Description
	}
	if body.Price != nil {
		if body.Price.IsNegative() {
			utils.RespondError(c, http.StatusBadRequest, services.NewValidationError("price must not be negative"))
			return
		}
		dish.Price = models.NewAmount(*body.Price)
	}
	if body.IsActive != nil {
		dish.IsActive = *body.IsActive
	}

	if err := dc.DB.Save(&dish).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	events.BroadcastCatalogUpdate(dish)
	utils.RespondJSON(c, http.StatusOK, "Dish updated", dish)
}

// DeleteDish removes a catalog entry. References from historical order
// items are set to NULL so order history keeps its frozen prices.
func (dc *DishController) DeleteDish(c *gin.Context) {
	id, ok := dishIDParam(c)
	if !ok {
		return
	}

	var dish models.Dish
	if err := dc.DB.First(&dish, id).Error; err != nil {
		respondServiceError(c, err)
		return
	}

	tx := dc.DB.Begin()
	if err := tx.Model(&models.OrderItem{}).Where("dish_id = ?", dish.ID).Update("dish_id", nil).Error; err != nil {
		tx.Rollback()
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	if err := tx.Delete(&models.Dish{}, dish.ID).Error; err != nil {
		tx.Rollback()
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	if err := tx.Commit().Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Dish deleted", gin.H{"dish_id": id})
}
