package discount

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapSet_Add_And_Lookup(t *testing.T) {
	set := NewMapSet(10)

	set.Add("WELCOME10", 10)
	pct, ok := set.Lookup("WELCOME10")
	assert.True(t, ok)
	assert.Equal(t, 10.0, pct)

	_, ok = set.Lookup("NOTEXIST")
	assert.False(t, ok)

	// Re-adding a code replaces its percent
	set.Add("WELCOME10", 15)
	pct, ok = set.Lookup("WELCOME10")
	assert.True(t, ok)
	assert.Equal(t, 15.0, pct)
	assert.Equal(t, 1, set.Size())
}

func TestMapSet_Size(t *testing.T) {
	tests := []struct {
		name     string
		codes    map[string]float64
		expected int
	}{
		{
			name:     "Empty set",
			codes:    map[string]float64{},
			expected: 0,
		},
		{
			name:     "Single code",
			codes:    map[string]float64{"CODE123": 5},
			expected: 1,
		},
		{
			name:     "Multiple codes",
			codes:    map[string]float64{"CODE1": 5, "CODE2": 10, "CODE3": 15},
			expected: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set := NewMapSet(10)
			for code, pct := range tt.codes {
				set.Add(code, pct)
			}
			assert.Equal(t, tt.expected, set.Size())
		})
	}
}

func TestMapSet_Lookup_CaseSensitive(t *testing.T) {
	set := NewMapSet(10)
	set.Add("SUMMER2026", 15)

	// Callers normalize to upper case before lookup
	_, ok := set.Lookup("summer2026")
	assert.False(t, ok)

	pct, ok := set.Lookup("SUMMER2026")
	assert.True(t, ok)
	assert.Equal(t, 15.0, pct)
}
