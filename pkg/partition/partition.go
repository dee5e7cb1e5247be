// Package partition assigns schemas to the modules that use them and hoists
// schemas shared by two or more selected modules into a common bucket.
package partition

import "sort"

// Result carries the filtered per-module schema lists and the shared set.
// A schema name appears in exactly one place: a single module's list or
// Common.
type Result struct {
	Modules map[string][]string
	Common  []string
}

// Partition splits moduleSchemas between the selected modules and the
// common set. Sharing is only meaningful across modules: with fewer than
// two selected modules the input is returned as-is (copied) with an empty
// common set.
//
// The computation is pure: inputs are never mutated, and the outcome does
// not depend on the order of the selected slice. "Common" is a property of
// the current selection, not of the spec, so callers recompute it per run.
func Partition(moduleSchemas map[string][]string, selected []string) Result {
	selectedSet := make(map[string]struct{}, len(selected))
	for _, module := range selected {
		if _, ok := moduleSchemas[module]; ok {
			selectedSet[module] = struct{}{}
		}
	}

	result := Result{Modules: make(map[string][]string, len(selectedSet))}

	if len(selectedSet) < 2 {
		for module := range selectedSet {
			result.Modules[module] = append([]string(nil), moduleSchemas[module]...)
		}
		return result
	}

	// Count, per schema, how many distinct selected modules reference it.
	usage := make(map[string]int)
	for module := range selectedSet {
		seen := make(map[string]struct{})
		for _, name := range moduleSchemas[module] {
			if _, dup := seen[name]; dup {
				continue
			}
			seen[name] = struct{}{}
			usage[name]++
		}
	}

	common := make(map[string]struct{})
	for name, count := range usage {
		if count >= 2 {
			common[name] = struct{}{}
		}
	}

	for module := range selectedSet {
		filtered := make([]string, 0, len(moduleSchemas[module]))
		for _, name := range moduleSchemas[module] {
			if _, shared := common[name]; shared {
				continue
			}
			filtered = append(filtered, name)
		}
		result.Modules[module] = filtered
	}

	result.Common = make([]string, 0, len(common))
	for name := range common {
		result.Common = append(result.Common, name)
	}
	sort.Strings(result.Common)

	return result
}
