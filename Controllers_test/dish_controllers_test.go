package Controllers_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yeremiapane/cafe-app/controllers"
	"github.com/yeremiapane/cafe-app/models"
	"github.com/yeremiapane/cafe-app/utils"
)

func setupTestDBForDishes(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	if err := db.AutoMigrate(&models.Dish{}, &models.Order{}, &models.OrderItem{}); err != nil {
		t.Fatal(err)
	}
	return db
}

func setupDishRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.Default()
	dishCtrl := controllers.NewDishController(db)
	orderCtrl := controllers.NewOrderController(db)
	router.GET("/dishes", dishCtrl.GetAllDishes)
	router.POST("/dishes", dishCtrl.CreateDish)
	router.GET("/dishes/:dish_id", dishCtrl.GetDishByID)
	router.PATCH("/dishes/:dish_id", dishCtrl.UpdateDish)
	router.DELETE("/dishes/:dish_id", dishCtrl.DeleteDish)
	router.POST("/orders", orderCtrl.CreateOrder)
	router.GET("/orders/:order_id", orderCtrl.GetOrderByID)
	return router
}

func TestCreateDishAndDuplicateNameRejected(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForDishes(t)
	router := setupDishRouter(db)

	w := doJSON(t, router, "POST", "/dishes", map[string]interface{}{
		"name":        "Carbonara",
		"description": "classic",
		"price":       120.50,
	})
	assert.Equal(t, http.StatusCreated, w.Code)
	data := decodeData(t, w)
	assert.Equal(t, "120.50", data["price"])
	assert.Equal(t, true, data["is_active"])

	w = doJSON(t, router, "POST", "/dishes", map[string]interface{}{
		"name":  "Carbonara",
		"price": 99,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateDishNegativePriceRejected(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForDishes(t)
	router := setupDishRouter(db)

	w := doJSON(t, router, "POST", "/dishes", map[string]interface{}{
		"name":  "Oops",
		"price": -1,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetAllDishesActiveFilter(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForDishes(t)
	router := setupDishRouter(db)

	db.Create(&models.Dish{Name: "Visible", Price: models.NewAmount(decimal.RequireFromString("10.00")), IsActive: true})
	db.Create(&models.Dish{Name: "Hidden", Price: models.NewAmount(decimal.RequireFromString("10.00")), IsActive: false})

	w := doJSON(t, router, "GET", "/dishes", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp["data"], 2)

	w = doJSON(t, router, "GET", "/dishes?active=true", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	dishes := resp["data"].([]interface{})
	assert.Len(t, dishes, 1)
	assert.Equal(t, "Visible", dishes[0].(map[string]interface{})["name"])
}

func TestCreateDishInactiveStaysInactive(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForDishes(t)
	router := setupDishRouter(db)

	w := doJSON(t, router, "POST", "/dishes", map[string]interface{}{
		"name":      "Seasonal",
		"price":     10,
		"is_active": false,
	})
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, false, decodeData(t, w)["is_active"])

	// The flag survives the insert, so the dish is not orderable.
	var dish models.Dish
	assert.NoError(t, db.First(&dish, 1).Error)
	assert.False(t, dish.IsActive)

	w = doJSON(t, router, "POST", "/orders", map[string]interface{}{
		"table_number": "1",
		"items":        []map[string]interface{}{{"dish_id": 1, "quantity": 1}},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateDishPriceDoesNotTouchOrderHistory(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForDishes(t)
	router := setupDishRouter(db)

	db.Create(&models.Dish{Name: "Pasta", Price: models.NewAmount(decimal.RequireFromString("200.00")), IsActive: true})

	w := doJSON(t, router, "POST", "/orders", map[string]interface{}{
		"table_number": "1",
		"items":        []map[string]interface{}{{"dish_id": 1, "quantity": 1}},
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, router, "PATCH", "/dishes/1", map[string]interface{}{"price": 350})
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, "GET", "/orders/1", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	items := decodeData(t, w)["items"].([]interface{})
	assertAmount(t, "200.00", items[0].(map[string]interface{})["price"])
}

func TestDeleteDishPreservesOrderHistory(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForDishes(t)
	router := setupDishRouter(db)

	db.Create(&models.Dish{Name: "Pasta", Price: models.NewAmount(decimal.RequireFromString("200.00")), IsActive: true})

	w := doJSON(t, router, "POST", "/orders", map[string]interface{}{
		"table_number": "1",
		"items":        []map[string]interface{}{{"dish_id": 1, "quantity": 2}},
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, router, "DELETE", "/dishes/1", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// The historical item survives with a NULL dish and its frozen price.
	w = doJSON(t, router, "GET", "/orders/1", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	items := data["items"].([]interface{})
	assert.Len(t, items, 1)
	item := items[0].(map[string]interface{})
	assert.Nil(t, item["dish_id"])
	assertAmount(t, "200.00", item["price"])
	assert.Equal(t, "400.00", data["total_price"])
}

func TestGetDishByIDNotFound(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForDishes(t)
	router := setupDishRouter(db)

	w := doJSON(t, router, "GET", "/dishes/42", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
