package layouts

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Layout is the static seating description of the venue hall. Seat codes are
// derived from sections, never stored per seat.
type Layout struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Name      string    `json:"name" gorm:"uniqueIndex;not null"`
	Sections  []Section `json:"sections" gorm:"foreignKey:LayoutID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Section groups rows of seats under one price. Rows are lettered A, B, C, ...
// top to bottom; seats are numbered 1..SeatsPerRow left to right.
type Section struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	LayoutID    uuid.UUID `json:"layout_id" gorm:"type:uuid;not null;index"`
	Name        string    `json:"name" gorm:"not null"`
	Rows        int       `json:"rows" gorm:"not null"`
	SeatsPerRow int       `json:"seats_per_row" gorm:"not null"`
	Price       float64   `json:"price" gorm:"not null"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Layout) TableName() string {
	return "layouts"
}

func (Section) TableName() string {
	return "layout_sections"
}

// Initial is the single uppercase letter that prefixes every seat code in
// this section ("North" -> "N").
func (s *Section) Initial() string {
	name := strings.TrimSpace(s.Name)
	if name == "" {
		return ""
	}
	return strings.ToUpper(name[:1])
}

// SeatCodes enumerates every seat code in this section, row by row.
// Code format: <SectionInitial><RowLetter><SeatNumber>, e.g. NA1.
func (s *Section) SeatCodes() []string {
	initial := s.Initial()
	codes := make([]string, 0, s.Rows*s.SeatsPerRow)
	for row := 0; row < s.Rows; row++ {
		rowLetter := string(rune('A' + row))
		for seat := 1; seat <= s.SeatsPerRow; seat++ {
			codes = append(codes, fmt.Sprintf("%s%s%d", initial, rowLetter, seat))
		}
	}
	return codes
}

// SeatCount returns the number of physical seats in this section.
func (s *Section) SeatCount() int {
	return s.Rows * s.SeatsPerRow
}

// SeatCodes enumerates every seat code in the layout, section by section.
func (l *Layout) SeatCodes() []string {
	codes := make([]string, 0, l.SeatCount())
	for i := range l.Sections {
		codes = append(codes, l.Sections[i].SeatCodes()...)
	}
	return codes
}

// SeatCount returns the total seat capacity of the layout.
func (l *Layout) SeatCount() int {
	total := 0
	for i := range l.Sections {
		total += l.Sections[i].SeatCount()
	}
	return total
}

// SeatPrices maps every seat code in the layout to its section price.
func (l *Layout) SeatPrices() map[string]float64 {
	prices := make(map[string]float64, l.SeatCount())
	for i := range l.Sections {
		for _, code := range l.Sections[i].SeatCodes() {
			prices[code] = l.Sections[i].Price
		}
	}
	return prices
}

// HasSeat reports whether code names a seat that exists in this layout.
func (l *Layout) HasSeat(code string) bool {
	_, ok := l.SeatPrices()[code]
	return ok
}

// maxRowsPerSection keeps row letters within A..Z.
const maxRowsPerSection = 26

// Validate checks structural invariants: non-empty sections, row/seat bounds,
// and unique section initials (duplicate initials would collide seat codes).
func (l *Layout) Validate() error {
	if strings.TrimSpace(l.Name) == "" {
		return fmt.Errorf("layout name is required")
	}
	if len(l.Sections) == 0 {
		return fmt.Errorf("layout must have at least one section")
	}

	seen := make(map[string]string, len(l.Sections))
	for i := range l.Sections {
		sec := &l.Sections[i]
		if strings.TrimSpace(sec.Name) == "" {
			return fmt.Errorf("section %d: name is required", i+1)
		}
		if sec.Rows < 1 || sec.Rows > maxRowsPerSection {
			return fmt.Errorf("section %q: rows must be between 1 and %d", sec.Name, maxRowsPerSection)
		}
		if sec.SeatsPerRow < 1 {
			return fmt.Errorf("section %q: seats per row must be at least 1", sec.Name)
		}
		if sec.Price < 0 {
			return fmt.Errorf("section %q: price must not be negative", sec.Name)
		}

		initial := sec.Initial()
		if prev, dup := seen[initial]; dup {
			return fmt.Errorf("sections %q and %q share the initial %q; seat codes would collide", prev, sec.Name, initial)
		}
		seen[initial] = sec.Name
	}
	return nil
}
