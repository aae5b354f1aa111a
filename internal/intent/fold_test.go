package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIndexFold(t *testing.T) {
	tests := []struct {
		s, sub      string
		first, last int
	}{
		{"Rent Status rent status", "rent status", 0, 12},
		{"İstanbul RENT status", "rent status", 10, 10},
		{"no match here", "bedrooms", -1, -1},
		{"short", "longer than s", -1, -1},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.first, IndexFold(tt.s, tt.sub), tt.s)
		assert.Equal(t, tt.last, LastIndexFold(tt.s, tt.sub), tt.s)
	}
}
