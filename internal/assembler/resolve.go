package assembler

import "sort"

// Resolve returns the load order for the discovered fragment IDs.
//
// IDs named in hint come first, in hint order. Everything else follows in
// lexicographic order. Hint entries that were not discovered are skipped, and
// the result is always a duplicate-free permutation of discovered.
func Resolve(discovered, hint []string) []string {
	present := make(map[string]bool, len(discovered))
	for _, id := range discovered {
		present[id] = true
	}

	ordered := make([]string, 0, len(present))
	placed := make(map[string]bool, len(present))
	for _, id := range hint {
		if !present[id] || placed[id] {
			continue
		}
		ordered = append(ordered, id)
		placed[id] = true
	}

	// Remaining IDs, sorted so the output does not depend on discovery order.
	rest := make([]string, 0, len(present)-len(placed))
	for id := range present {
		if !placed[id] {
			rest = append(rest, id)
		}
	}
	sort.Strings(rest)

	return append(ordered, rest...)
}

// Unmatched returns the hint entries that do not name a discovered fragment.
// These are tolerated by Resolve; callers may log them.
func Unmatched(discovered, hint []string) []string {
	present := make(map[string]bool, len(discovered))
	for _, id := range discovered {
		present[id] = true
	}
	var missing []string
	for _, id := range hint {
		if !present[id] {
			missing = append(missing, id)
		}
	}
	return missing
}
