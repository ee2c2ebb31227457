package config

import "strings"

// PropertyTypeGroup lists the property types a subject of Type may be
// compared against
type PropertyTypeGroup struct {
	Type       string   `json:"type"`
	Compatible []string `json:"compatible"`
}

// PropertyTypeGroups is the comparable compatibility table for the market
var PropertyTypeGroups = []PropertyTypeGroup{
	{
		Type:       "Single Family",
		Compatible: []string{"Single Family"},
	},
	{
		Type:       "Two/Three Family",
		Compatible: []string{"Two/Three Family", "Multi Family"},
	},
	{
		Type:       "Multi Family",
		Compatible: []string{"Multi Family", "Two/Three Family"},
	},
	{
		Type:       "Townhouse",
		Compatible: []string{"Townhouse", "Condominium"},
	},
	{
		Type:       "Condominium",
		Compatible: []string{"Condominium"},
	},
	// Add more property types here as needed
}

// CompatibleTypes returns the property types a comparable search for
// propertyType should accept. Unknown types only match themselves.
func CompatibleTypes(propertyType string) []string {
	for _, group := range PropertyTypeGroups {
		if strings.EqualFold(group.Type, propertyType) {
			types := make([]string, len(group.Compatible))
			copy(types, group.Compatible)
			return types
		}
	}
	if propertyType == "" {
		return nil
	}
	return []string{propertyType}
}
