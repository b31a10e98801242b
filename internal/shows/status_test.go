package shows

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStatusTransitions(t *testing.T) {
	tests := []struct {
		from    Status
		to      Status
		allowed bool
	}{
		{StatusActive, StatusHouseFull, true},
		{StatusActive, StatusShowStarted, true},
		{StatusActive, StatusShowDone, false},
		{StatusHouseFull, StatusActive, true},
		{StatusHouseFull, StatusShowStarted, true},
		{StatusHouseFull, StatusShowDone, false},
		{StatusShowStarted, StatusShowDone, true},
		{StatusShowStarted, StatusActive, false},
		{StatusShowDone, StatusActive, false},
		{StatusShowDone, StatusShowStarted, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"_to_"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestStatusBookability(t *testing.T) {
	assert.True(t, StatusActive.IsBookable())
	assert.False(t, StatusHouseFull.IsBookable())
	assert.False(t, StatusShowStarted.IsBookable())
	assert.False(t, StatusShowDone.IsBookable())
}

func TestStatusValidity(t *testing.T) {
	assert.True(t, StatusActive.IsValid())
	assert.True(t, StatusShowDone.IsValid())
	assert.False(t, Status("PENDING").IsValid())
	assert.True(t, StatusShowDone.IsTerminal())
	assert.False(t, StatusActive.IsTerminal())
}

func TestShowSerialDate(t *testing.T) {
	show := Show{Date: time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)}
	assert.Equal(t, "20250110", show.SerialDate())
}

func TestShowEndAt(t *testing.T) {
	start := time.Date(2025, 1, 10, 19, 30, 0, 0, time.UTC)
	show := Show{StartAt: start, DurationMinutes: 150}
	assert.Equal(t, start.Add(150*time.Minute), show.EndAt())
}
