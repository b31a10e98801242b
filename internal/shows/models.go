package shows

import (
	"time"

	"github.com/google/uuid"
)

// Show is one bookable performance referencing a seating layout.
type Show struct {
	ID              uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Title           string    `json:"title" gorm:"not null"`
	Date            time.Time `json:"date" gorm:"type:date;not null;index"`
	StartAt         time.Time `json:"start_at" gorm:"not null;index"`
	DurationMinutes int       `json:"duration_minutes" gorm:"not null;default:120"`
	Price           float64   `json:"price" gorm:"not null"`
	LayoutID        uuid.UUID `json:"layout_id" gorm:"type:uuid;not null;index"`
	Status          Status    `json:"status" gorm:"not null;default:'ACTIVE';index"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (Show) TableName() string {
	return "shows"
}

// SerialDate is the YYYYMMDD string embedded in ticket codes minted for this
// show. Scoped per calendar date across all shows on that date.
func (s *Show) SerialDate() string {
	return s.Date.Format("20060102")
}

// EndAt is when the show finishes.
func (s *Show) EndAt() time.Time {
	return s.StartAt.Add(time.Duration(s.DurationMinutes) * time.Minute)
}
