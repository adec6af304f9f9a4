package dedup

import "strings"

// Similarity is a normalized longest-common-subsequence ratio over
// lower-cased tokens: 2*LCS / (len(a)+len(b)), in [0,1].
func Similarity(a, b string) float64 {
	ta := tokens(a)
	tb := tokens(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}
	l := lcs(ta, tb)
	return float64(2*l) / float64(len(ta)+len(tb))
}

func tokens(s string) []string {
	return strings.Fields(strings.ToLower(s))
}

// lcs is the classic DP over two rows.
func lcs(a, b []string) int {
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				cur[j] = prev[j-1] + 1
			} else if prev[j] >= cur[j-1] {
				cur[j] = prev[j]
			} else {
				cur[j] = cur[j-1]
			}
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}
