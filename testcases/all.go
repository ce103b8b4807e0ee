package testcases

import (
	"maps"
	"slices"
	"strings"
)

// All contains all test scenes, grouped by category.
// The category name is used as a prefix in output filenames.
var All = map[string][]Scene{
	"basic":     basicScenes,
	"motion":    motionScenes,
	"occlusion": occlusionScenes,
	"polyline":  polylineScenes,
}

// Names returns the full names ("category_name") of all scenes, sorted.
func Names() []string {
	var names []string
	for _, category := range slices.Sorted(maps.Keys(All)) {
		for _, s := range All[category] {
			names = append(names, category+"_"+s.Name)
		}
	}
	return names
}

// Lookup finds a scene by its full name.
func Lookup(name string) (Scene, bool) {
	category, rest, ok := strings.Cut(name, "_")
	if !ok {
		return Scene{}, false
	}
	for _, s := range All[category] {
		if s.Name == rest {
			return s, true
		}
	}
	return Scene{}, false
}
