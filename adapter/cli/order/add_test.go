package order

import (
	"testing"

	"github.com/felixgeelhaar/sublima/internal/production/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseItemSpec(t *testing.T) {
	tests := []struct {
		name     string
		spec     string
		garment  domain.GarmentType
		quantity int
		wantErr  bool
	}{
		{name: "polo item", spec: "polo:3", garment: domain.GarmentPolo, quantity: 3},
		{name: "hyphenated garment", spec: "long-sleeve-polo:1", garment: domain.GarmentLongSleevePolo, quantity: 1},
		{name: "missing quantity", spec: "polo", wantErr: true},
		{name: "unknown garment", spec: "cape:2", wantErr: true},
		{name: "non-numeric quantity", spec: "polo:two", wantErr: true},
		{name: "zero quantity", spec: "polo:0", wantErr: true},
		{name: "negative quantity", spec: "shorts:-1", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			item, err := parseItemSpec(tc.spec)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.garment, item.Garment)
			assert.Equal(t, tc.quantity, item.Quantity)
		})
	}
}

func TestShortID(t *testing.T) {
	assert.Equal(t, "12345678", shortID("123456789abcdef"))
	assert.Equal(t, "abc", shortID("abc"))
	assert.Equal(t, "", shortID(""))
}
