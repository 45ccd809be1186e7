package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/yeremiapane/cafe-app/models"
)

// ItemRequest is one (dish, quantity) entry submitted with an order
// create or update.
type ItemRequest struct {
	DishID   uint `json:"dish_id" binding:"required"`
	Quantity int  `json:"quantity" binding:"required,min=1"`
}

// UpdateOrderInput carries the fields of an order update. Items is a full
// replacement of the item set when present; nil leaves the items alone.
type UpdateOrderInput struct {
	TableNumber *string
	Items       *[]ItemRequest
}

type OrderService struct {
	DB *gorm.DB
}

func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{DB: db}
}

// CollapseRequests merges duplicate dish entries within one submission:
// quantities sum into the first occurrence, which keeps its position.
// Both the create and update paths run their input through this first.
func CollapseRequests(requests []ItemRequest) []ItemRequest {
	collapsed := make([]ItemRequest, 0, len(requests))
	index := make(map[uint]int, len(requests))
	for _, req := range requests {
		if i, ok := index[req.DishID]; ok {
			collapsed[i].Quantity += req.Quantity
			continue
		}
		index[req.DishID] = len(collapsed)
		collapsed = append(collapsed, req)
	}
	return collapsed
}

func validateRequests(requests []ItemRequest) error {
	for _, req := range requests {
		if req.Quantity < 1 {
			return NewValidationError(fmt.Sprintf("quantity must be at least 1 (dish %d)", req.DishID))
		}
	}
	return nil
}

// activeDish resolves a request's dish reference against the catalog.
// Inactive and unknown dishes both fail validation.
func activeDish(tx *gorm.DB, dishID uint) (*models.Dish, error) {
	var dish models.Dish
	err := tx.Where("id = ? AND is_active = ?", dishID, true).First(&dish).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, NewValidationError(fmt.Sprintf("dish %d is not available", dishID))
	}
	if err != nil {
		return nil, err
	}
	return &dish, nil
}

// CreateOrder creates an order together with its line items in one
// transaction. Duplicate dish entries collapse into a single item whose
// quantity is the sum of the requested quantities; the price is frozen
// from the dish at creation time.
func (s *OrderService) CreateOrder(tableNumber string, requests []ItemRequest) (*models.Order, error) {
	if err := validateRequests(requests); err != nil {
		return nil, err
	}

	order := models.Order{
		TableNumber: tableNumber,
		Status:      models.StatusPending,
	}

	tx := s.DB.Begin()
	if err := tx.Create(&order).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	for _, req := range CollapseRequests(requests) {
		dish, err := activeDish(tx, req.DishID)
		if err != nil {
			tx.Rollback()
			return nil, err
		}
		item := models.OrderItem{
			OrderID:  order.ID,
			DishID:   &dish.ID,
			Quantity: req.Quantity,
			Price:    dish.Price,
		}
		if err := tx.Create(&item).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	return s.GetOrder(order.ID)
}

// UpdateOrder applies the order's own field updates and, when Items is
// present, reconciles the item set in the same transaction.
func (s *OrderService) UpdateOrder(orderID uint, input UpdateOrderInput) (*models.Order, error) {
	if input.Items != nil {
		if err := validateRequests(*input.Items); err != nil {
			return nil, err
		}
	}

	order, err := s.GetOrder(orderID)
	if err != nil {
		return nil, err
	}

	tx := s.DB.Begin()
	if input.TableNumber != nil {
		order.TableNumber = *input.TableNumber
	}
	if err := tx.Omit("Items").Save(order).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if input.Items != nil {
		if err := reconcileItems(tx, order, *input.Items); err != nil {
			tx.Rollback()
			return nil, err
		}
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	return s.GetOrder(orderID)
}

// reconcileItems replaces the order's item set with the requested one.
// Requested dishes already present keep their item (and its frozen price)
// with the quantity overwritten; new dishes get fresh price snapshots;
// current items whose dish was not requested are deleted, including items
// whose dish has since been removed from the catalog.
func reconcileItems(tx *gorm.DB, order *models.Order, requests []ItemRequest) error {
	current := make(map[uint]*models.OrderItem, len(order.Items))
	for i := range order.Items {
		item := &order.Items[i]
		if item.DishID != nil {
			current[*item.DishID] = item
		}
	}

	requested := make(map[uint]bool, len(requests))
	for _, req := range CollapseRequests(requests) {
		requested[req.DishID] = true
		if item, ok := current[req.DishID]; ok {
			// Replace, not add: a later submission overwrites quantity.
			if err := tx.Model(item).Update("quantity", req.Quantity).Error; err != nil {
				return err
			}
			continue
		}
		dish, err := activeDish(tx, req.DishID)
		if err != nil {
			return err
		}
		item := models.OrderItem{
			OrderID:  order.ID,
			DishID:   &dish.ID,
			Quantity: req.Quantity,
			Price:    dish.Price,
		}
		if err := tx.Create(&item).Error; err != nil {
			return err
		}
	}

	for i := range order.Items {
		item := &order.Items[i]
		if item.DishID != nil && requested[*item.DishID] {
			continue
		}
		if err := tx.Delete(&models.OrderItem{}, item.ID).Error; err != nil {
			return err
		}
	}
	return nil
}

// ChangeStatus moves an order to any of the recognized statuses. A
// transition into PAID also stamps PaidAt. Unknown status strings are
// rejected before the order is touched.
func (s *OrderService) ChangeStatus(orderID uint, status string) (*models.Order, error) {
	if !models.IsValidStatus(status) {
		return nil, NewValidationError(fmt.Sprintf("%q is not a valid status", status))
	}

	order, err := s.GetOrder(orderID)
	if err != nil {
		return nil, err
	}

	order.Status = status
	if status == models.StatusPaid {
		now := time.Now()
		order.PaidAt = &now
	}
	if err := s.DB.Omit("Items").Save(order).Error; err != nil {
		return nil, err
	}

	return s.GetOrder(orderID)
}

// DeleteOrder removes an order and cascades to its items.
func (s *OrderService) DeleteOrder(orderID uint) error {
	order, err := s.GetOrder(orderID)
	if err != nil {
		return err
	}

	tx := s.DB.Begin()
	if err := tx.Where("order_id = ?", order.ID).Delete(&models.OrderItem{}).Error; err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Delete(&models.Order{}, order.ID).Error; err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit().Error
}

// GetOrder loads one order with its items and their dishes.
func (s *OrderService) GetOrder(orderID uint) (*models.Order, error) {
	var order models.Order
	err := s.DB.Preload("Items").Preload("Items.Dish").First(&order, orderID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	if order.Items == nil {
		order.Items = []models.OrderItem{}
	}
	return &order, nil
}

// ListOrders returns orders newest first, optionally filtered by status
// and table number.
func (s *OrderService) ListOrders(status, tableNumber string) ([]models.Order, error) {
	query := s.DB.Preload("Items").Preload("Items.Dish").Order("created_at desc")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if tableNumber != "" {
		query = query.Where("table_number = ?", tableNumber)
	}

	var orders []models.Order
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}
