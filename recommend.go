package catalog

import (
	"sort"
	"strings"
)

// knownRecommendations fixes the display order and titles of the
// usual print settings. Settings outside this list still render, after
// the known ones, titled by their key.
var knownRecommendations = []struct {
	key   string
	title string
}{
	{"nozzle_size", "Nozzle Size"},
	{"layer_height", "Layer Height"},
	{"filament", "Filament"},
	{"perimeters", "Perimeters"},
	{"slicer_profile", "Prusa Slicer Profile"},
	{"extras", "Extra Options"},
}

// OrderRecommendations turns raw key/value print settings into display
// rows: known settings first in their usual order, anything else
// sorted by key.
func OrderRecommendations(values map[string]string) []Recommendation {
	recs := make([]Recommendation, 0, len(values))
	seen := make(map[string]bool, len(values))
	for _, known := range knownRecommendations {
		if value, ok := values[known.key]; ok {
			recs = append(recs, Recommendation{Key: known.key, Title: known.title, Value: value})
			seen[known.key] = true
		}
	}
	extras := make([]string, 0, len(values))
	for key := range values {
		if !seen[key] {
			extras = append(extras, key)
		}
	}
	sort.Strings(extras)
	for _, key := range extras {
		recs = append(recs, Recommendation{Key: key, Title: titleForKey(key), Value: values[key]})
	}
	return recs
}

// RecommendationTitle returns the display title for a print-setting
// key.
func RecommendationTitle(key string) string {
	for _, known := range knownRecommendations {
		if known.key == key {
			return known.title
		}
	}
	return titleForKey(key)
}

// titleForKey derives a readable title from a configuration key,
// "bed_temperature" becoming "Bed Temperature".
func titleForKey(key string) string {
	words := strings.Split(key, "_")
	for i, word := range words {
		if word == "" {
			continue
		}
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}
