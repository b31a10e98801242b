package bookings

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatTicketCode(t *testing.T) {
	assert.Equal(t, "TKT-20250110-0001-NA1", FormatTicketCode("20250110", 1, "NA1"))
	assert.Equal(t, "TKT-20250110-0042-BB12", FormatTicketCode("20250110", 42, "BB12"))
	assert.Equal(t, "TKT-20251231-9999-SA1", FormatTicketCode("20251231", 9999, "SA1"))

	// Past four digits the number keeps growing rather than wrapping.
	assert.Equal(t, "TKT-20250110-10001-NA1", FormatTicketCode("20250110", 10001, "NA1"))
}

func TestNewBookingRef(t *testing.T) {
	ref := NewBookingRef()
	assert.True(t, strings.HasPrefix(ref, "BKG-"))
	assert.Len(t, ref, 12)
	assert.NotEqual(t, ref, NewBookingRef())
}
