package models

import (
	"time"
)

// PriceSnapshot archives one recorded price observation. Unlike the JSON
// price history, the archive is unbounded.
type PriceSnapshot struct {
	ID        uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	Card      string    `json:"card" gorm:"not null;index"`
	Day       string    `json:"day" gorm:"not null;index"` // ISO 8601 date
	Price     float64   `json:"price"`
	Listings  int       `json:"listings"`
	CreatedAt time.Time `json:"created_at"`
}
