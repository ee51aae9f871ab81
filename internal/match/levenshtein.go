package match

// Levenshtein is the number of single-rune insertions, deletions or
// substitutions turning a into b. Identifiers may be any Unicode letters, so
// the distance counts runes rather than bytes.
func Levenshtein(a, b string) int {
	if a == b {
		return 0
	}

	return distance([]rune(a), []rune(b))
}

func distance(a, b []rune) int {
	if len(a) > len(b) {
		a, b = b, a
	}

	if len(a) == 0 {
		return len(b)
	}

	// row[i] holds the distance between a[:i] and the prefix of b seen so far.
	row := make([]int, len(a)+1)
	for i := range row {
		row[i] = i
	}

	for j := range b {
		diag := row[0]
		row[0] = j + 1

		for i := range a {
			sub := diag
			if a[i] != b[j] {
				sub++
			}

			diag = row[i+1]
			row[i+1] = min(row[i+1]+1, row[i]+1, sub)
		}
	}

	return row[len(a)]
}
