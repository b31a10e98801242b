package layouts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSectionSeatCodes(t *testing.T) {
	section := Section{Name: "North", Rows: 2, SeatsPerRow: 3}

	codes := section.SeatCodes()

	assert.Equal(t, []string{"NA1", "NA2", "NA3", "NB1", "NB2", "NB3"}, codes)
	assert.Equal(t, 6, section.SeatCount())
}

func TestSectionInitialIsUppercased(t *testing.T) {
	section := Section{Name: "balcony", Rows: 1, SeatsPerRow: 1}

	assert.Equal(t, []string{"BA1"}, section.SeatCodes())
}

func TestLayoutSeatCodesAreUnique(t *testing.T) {
	layout := Layout{
		Name: "Main Hall",
		Sections: []Section{
			{Name: "North", Rows: 3, SeatsPerRow: 10, Price: 250},
			{Name: "South", Rows: 3, SeatsPerRow: 10, Price: 250},
			{Name: "Balcony", Rows: 2, SeatsPerRow: 8, Price: 400},
		},
	}

	codes := layout.SeatCodes()
	require.Len(t, codes, layout.SeatCount())

	seen := make(map[string]bool, len(codes))
	for _, code := range codes {
		assert.False(t, seen[code], "duplicate seat code %s", code)
		seen[code] = true
	}
}

func TestLayoutSeatPrices(t *testing.T) {
	layout := Layout{
		Name: "Main Hall",
		Sections: []Section{
			{Name: "North", Rows: 1, SeatsPerRow: 2, Price: 250},
			{Name: "Balcony", Rows: 1, SeatsPerRow: 1, Price: 400},
		},
	}

	prices := layout.SeatPrices()

	assert.Equal(t, 250.0, prices["NA1"])
	assert.Equal(t, 250.0, prices["NA2"])
	assert.Equal(t, 400.0, prices["BA1"])
	assert.True(t, layout.HasSeat("NA1"))
	assert.False(t, layout.HasSeat("XA1"))
}

func TestLayoutValidate(t *testing.T) {
	tests := []struct {
		name    string
		layout  Layout
		wantErr string
	}{
		{
			name: "valid layout",
			layout: Layout{
				Name: "Main Hall",
				Sections: []Section{
					{Name: "North", Rows: 2, SeatsPerRow: 5, Price: 100},
				},
			},
		},
		{
			name:    "missing name",
			layout:  Layout{Sections: []Section{{Name: "North", Rows: 1, SeatsPerRow: 1}}},
			wantErr: "name is required",
		},
		{
			name:    "no sections",
			layout:  Layout{Name: "Empty"},
			wantErr: "at least one section",
		},
		{
			name: "duplicate section initials collide seat codes",
			layout: Layout{
				Name: "Main Hall",
				Sections: []Section{
					{Name: "North", Rows: 1, SeatsPerRow: 1, Price: 100},
					{Name: "Nosebleed", Rows: 1, SeatsPerRow: 1, Price: 50},
				},
			},
			wantErr: "share the initial",
		},
		{
			name: "too many rows",
			layout: Layout{
				Name: "Main Hall",
				Sections: []Section{
					{Name: "North", Rows: 27, SeatsPerRow: 1, Price: 100},
				},
			},
			wantErr: "rows must be between",
		},
		{
			name: "negative price",
			layout: Layout{
				Name: "Main Hall",
				Sections: []Section{
					{Name: "North", Rows: 1, SeatsPerRow: 1, Price: -1},
				},
			},
			wantErr: "price must not be negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.layout.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
