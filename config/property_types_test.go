package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompatibleTypes(t *testing.T) {
	tests := []struct {
		name         string
		propertyType string
		expected     []string
	}{
		{
			name:         "Single family only matches itself",
			propertyType: "Single Family",
			expected:     []string{"Single Family"},
		},
		{
			name:         "Two/three family matches multi family",
			propertyType: "Two/Three Family",
			expected:     []string{"Two/Three Family", "Multi Family"},
		},
		{
			name:         "Multi family matches two/three family",
			propertyType: "Multi Family",
			expected:     []string{"Multi Family", "Two/Three Family"},
		},
		{
			name:         "Townhouse also matches condominium",
			propertyType: "Townhouse",
			expected:     []string{"Townhouse", "Condominium"},
		},
		{
			name:         "Condominium does not match townhouse",
			propertyType: "Condominium",
			expected:     []string{"Condominium"},
		},
		{
			name:         "Case insensitive lookup",
			propertyType: "townhouse",
			expected:     []string{"Townhouse", "Condominium"},
		},
		{
			name:         "Unknown type matches itself",
			propertyType: "Mobile Home",
			expected:     []string{"Mobile Home"},
		},
		{
			name:         "Empty type matches nothing",
			propertyType: "",
			expected:     nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CompatibleTypes(tt.propertyType)
			assert.Equal(t, tt.expected, result,
				"CompatibleTypes(%q) = %v, want %v", tt.propertyType, result, tt.expected)
		})
	}
}

func TestCompatibleTypesReturnsCopy(t *testing.T) {
	types := CompatibleTypes("Townhouse")
	types[0] = "Changed"

	assert.Equal(t, "Townhouse", CompatibleTypes("Townhouse")[0])
}
