// Package similarity scores how alike two company names are, used to
// guard against leads being entered twice under slightly different names.
package similarity

import "strings"

// Score returns the number of matching characters between a and b together
// with the similarity percentage. Matching characters are counted by finding
// the longest common substring and recursing into the unmatched prefixes and
// suffixes on both sides.
func Score(a, b string) (int, float64) {
	if len(a) == 0 && len(b) == 0 {
		return 0, 0
	}
	sim := commonChars(a, b)
	percent := float64(sim*2) / float64(len(a)+len(b)) * 100
	return sim, percent
}

// NearDuplicate reports whether two names are close enough to be treated as
// the same company. Comparison is case-insensitive and the threshold is
// strictly above 95 percent, so a pair scoring exactly 95.0 is allowed.
func NearDuplicate(a, b string) bool {
	_, percent := Score(strings.ToLower(a), strings.ToLower(b))
	return percent > 95.0
}

func commonChars(a, b string) int {
	posA, posB, max := longestCommonRun(a, b)
	if max == 0 {
		return 0
	}
	sum := max
	if posA > 0 && posB > 0 {
		sum += commonChars(a[:posA], b[:posB])
	}
	if posA+max < len(a) && posB+max < len(b) {
		sum += commonChars(a[posA+max:], b[posB+max:])
	}
	return sum
}

// longestCommonRun finds the longest common substring of a and b, returning
// its start offset in each string and its length. Earlier offsets in a win
// ties, matching how the scoring has always behaved.
func longestCommonRun(a, b string) (posA, posB, max int) {
	for i := 0; i < len(a); i++ {
		for j := 0; j < len(b); j++ {
			k := 0
			for i+k < len(a) && j+k < len(b) && a[i+k] == b[j+k] {
				k++
			}
			if k > max {
				posA, posB, max = i, j, k
			}
		}
	}
	return posA, posB, max
}
