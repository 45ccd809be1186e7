package services

import (
	"os"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/yeremiapane/cafe-app/models"
)

// Revenue holds summed revenue of PAID orders over four overlapping
// windows. The windows are nested, so Today <= Week <= Month <= AllTime.
type Revenue struct {
	AllTime models.Amount `json:"all_time"`
	Today   models.Amount `json:"today"`
	Week    models.Amount `json:"week"`
	Month   models.Amount `json:"month"`
}

type RevenueService struct {
	DB *gorm.DB
	// UsePaidAt attributes an order's revenue by its PaidAt stamp instead
	// of the updated timestamp. Off by default: attribution by updated is
	// the legacy behavior, where editing a paid order shifts its revenue
	// period.
	UsePaidAt bool
}

func NewRevenueService(db *gorm.DB) *RevenueService {
	return &RevenueService{
		DB:        db,
		UsePaidAt: os.Getenv("REVENUE_USE_PAID_AT") == "true",
	}
}

// Compute aggregates all four windows from a single read of the PAID
// order set against a single "now" instant. Windows with no orders
// report 0.00. Week starts on Monday.
func (s *RevenueService) Compute(now time.Time) (*Revenue, error) {
	var orders []models.Order
	if err := s.DB.Preload("Items").Where("status = ?", models.StatusPaid).Find(&orders).Error; err != nil {
		return nil, err
	}

	today := truncateToDay(now)
	startOfWeek := today.AddDate(0, 0, -((int(today.Weekday()) + 6) % 7))
	startOfMonth := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())

	allTime, todaySum, weekSum, monthSum := decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero
	for i := range orders {
		order := &orders[i]
		total := order.TotalPrice().Decimal
		day := truncateToDay(s.attribution(order).In(now.Location()))

		allTime = allTime.Add(total)
		if day.Equal(today) {
			todaySum = todaySum.Add(total)
		}
		if !day.Before(startOfWeek) {
			weekSum = weekSum.Add(total)
		}
		if !day.Before(startOfMonth) {
			monthSum = monthSum.Add(total)
		}
	}

	return &Revenue{
		AllTime: models.NewAmount(allTime),
		Today:   models.NewAmount(todaySum),
		Week:    models.NewAmount(weekSum),
		Month:   models.NewAmount(monthSum),
	}, nil
}

func (s *RevenueService) attribution(order *models.Order) time.Time {
	if s.UsePaidAt && order.PaidAt != nil {
		return *order.PaidAt
	}
	return order.UpdatedAt
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
