package constants

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Redis cache keys and TTLs for the box-office service.
// Pattern: boxoffice:{module}:{operation}:{identifier}

// Semi-static data (changes only via admin CRUD)
const (
	TTLLayout   = 4 * time.Hour
	TTLShowList = 15 * time.Minute
)

// Highly dynamic data (mutated by the booking transaction)
const (
	TTLSeatAvailability = 30 * time.Second
)

func KeyLayout(layoutID uuid.UUID) string {
	return fmt.Sprintf("boxoffice:layouts:detail:%s", layoutID)
}

func KeyShowSeatAvailability(showID uuid.UUID) string {
	return fmt.Sprintf("boxoffice:bookings:availability:%s", showID)
}

func KeyShowList() string {
	return "boxoffice:shows:list"
}
