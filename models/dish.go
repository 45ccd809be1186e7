package models

import "time"

type Dish struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"type:varchar(250);unique;not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	Price       Amount `gorm:"type:decimal(10,2);not null" json:"price"`
	// No column default for the active flag: with one, gorm drops a false
	// value from the insert and the dish comes back active.
	IsActive  bool      `gorm:"not null" json:"is_active"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}
