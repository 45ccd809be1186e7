package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/cafe-app/events"
	"github.com/yeremiapane/cafe-app/models"
	"github.com/yeremiapane/cafe-app/services"
	"github.com/yeremiapane/cafe-app/utils"
)

type OrderController struct {
	DB      *gorm.DB
	orders  *services.OrderService
	revenue *services.RevenueService
}

func NewOrderController(db *gorm.DB) *OrderController {
	return &OrderController{
		DB:      db,
		orders:  services.NewOrderService(db),
		revenue: services.NewRevenueService(db),
	}
}

// orderResponse adds the computed total to the serialized order.
type orderResponse struct {
	models.Order
	TotalPrice models.Amount `json:"total_price"`
}

func toOrderResponse(order *models.Order) orderResponse {
	return orderResponse{Order: *order, TotalPrice: order.TotalPrice()}
}

// respondServiceError maps service failures onto HTTP status codes:
// validation -> 400, missing records -> 404, anything else -> 500.
func respondServiceError(c *gin.Context, err error) {
	var vErr *services.ValidationError
	switch {
	case errors.As(err, &vErr):
		utils.RespondError(c, http.StatusBadRequest, err)
	case errors.Is(err, services.ErrOrderNotFound),
		errors.Is(err, services.ErrDishNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		utils.RespondError(c, http.StatusNotFound, err)
	default:
		utils.ErrorLogger.Printf("unexpected error: %v", err)
		utils.RespondError(c, http.StatusInternalServerError, err)
	}
}

func orderIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("order_id"), 10, 32)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid order id"))
		return 0, false
	}
	return uint(id), true
}

// GetAllOrders -> list orders with items, newest first.
// Optional filters: ?status=PAID&table_number=3
func (oc *OrderController) GetAllOrders(c *gin.Context) {
	orders, err := oc.orders.ListOrders(c.Query("status"), c.Query("table_number"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	resp := make([]orderResponse, 0, len(orders))
	for i := range orders {
		resp = append(resp, toOrderResponse(&orders[i]))
	}
	utils.RespondJSON(c, http.StatusOK, "List of orders", resp)
}

// CreateOrder -> new PENDING order with its line items. Duplicate dish
// entries in the payload collapse into a single item.
func (oc *OrderController) CreateOrder(c *gin.Context) {
	var body struct {
		TableNumber string                 `json:"table_number" binding:"required"`
		Items       []services.ItemRequest `json:"items" binding:"omitempty,dive"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	order, err := oc.orders.CreateOrder(body.TableNumber, body.Items)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	events.BroadcastOrderCreate(*order)
	utils.RespondJSON(c, http.StatusCreated, "Order created", toOrderResponse(order))
}

// GetOrderByID -> one order with items
func (oc *OrderController) GetOrderByID(c *gin.Context) {
	id, ok := orderIDParam(c)
	if !ok {
		return
	}

	order, err := oc.orders.GetOrder(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order detail", toOrderResponse(order))
}

// UpdateOrder -> edit table number and/or replace the item set. Items,
// when present, are a full replacement: omitted dishes are removed.
func (oc *OrderController) UpdateOrder(c *gin.Context) {
	id, ok := orderIDParam(c)
	if !ok {
		return
	}

	var body struct {
		TableNumber *string                 `json:"table_number"`
		Items       *[]services.ItemRequest `json:"items" binding:"omitempty,dive"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	order, err := oc.orders.UpdateOrder(id, services.UpdateOrderInput{
		TableNumber: body.TableNumber,
		Items:       body.Items,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	events.BroadcastOrderUpdate(*order)
	utils.RespondJSON(c, http.StatusOK, "Order updated", toOrderResponse(order))
}

// ChangeStatus -> PATCH /orders/:order_id/status
func (oc *OrderController) ChangeStatus(c *gin.Context) {
	id, ok := orderIDParam(c)
	if !ok {
		return
	}

	var body struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	order, err := oc.orders.ChangeStatus(id, body.Status)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	events.BroadcastOrderStatus(*order)
	if order.Status == models.StatusPaid {
		events.BroadcastStaffNotification(
			fmt.Sprintf("Order #%d paid, total %s", order.ID, utils.FormatAmount(order.TotalPrice().Decimal)))
	}
	utils.RespondJSON(c, http.StatusOK, "Order status updated", toOrderResponse(order))
}

// DeleteOrder removes an order together with its items
func (oc *OrderController) DeleteOrder(c *gin.Context) {
	id, ok := orderIDParam(c)
	if !ok {
		return
	}

	if err := oc.orders.DeleteOrder(id); err != nil {
		respondServiceError(c, err)
		return
	}

	events.BroadcastOrderDelete(id)
	utils.RespondJSON(c, http.StatusOK, "Order deleted", gin.H{"order_id": id})
}

// GetRevenue -> summed revenue of PAID orders for today / week / month /
// all time, in one pass against a single now snapshot.
func (oc *OrderController) GetRevenue(c *gin.Context) {
	revenue, err := oc.revenue.Compute(time.Now())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Revenue per period", revenue)
}
