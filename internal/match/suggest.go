package match

import "unicode/utf8"

// Suggest returns the known name closest to name, if one is close enough to
// be a plausible typo. Ties go to the earlier entry of known.
func Suggest(name string, known []string) (string, bool) {
	norm := NormalizeIdent(name)
	if norm == "" {
		return "", false
	}

	best, bestDist := "", -1

	for _, k := range known {
		d := Levenshtein(norm, NormalizeIdent(k))
		if bestDist < 0 || d < bestDist {
			best, bestDist = k, d
		}
	}

	if bestDist < 0 || bestDist > threshold(norm) {
		return "", false
	}

	return best, true
}

// threshold allows one edit per three characters, at least one.
func threshold(norm string) int {
	return max(1, utf8.RuneCountInString(norm)/3)
}
