// ABOUTME: Fuzzy scoring: ordered-subsequence match with boundary, contiguity and gap terms
// ABOUTME: Dynamic programming picks the best-scoring alignment and records its rune positions

package matcher

import (
	"math"
	"unicode"
)

// Score terms.
const (
	scoreMatch      = 1 // every matched rune
	bonusBoundary   = 2 // matched rune at start or after a non-alphanumeric rune
	bonusContiguous = 3 // matched rune directly after the previous matched rune
	penaltyGap      = 1 // each unmatched rune between two matched runes
)

const unreachable = math.MinInt32 / 2

// Result is a successful match: its score and the matched rune positions
// in the candidate text, ascending.
type Result struct {
	Score     int
	Positions []int
}

// CaseSensitive reports whether query selects case-sensitive matching:
// any uppercase letter makes the whole query case-sensitive.
func CaseSensitive(query string) bool {
	for _, r := range query {
		if unicode.IsUpper(r) {
			return true
		}
	}
	return false
}

// maxCells bounds the alignment table. Wider searches take the greedy
// alignment instead.
const maxCells = 1 << 17

// Score matches pattern against text. ok is false when pattern is not an
// ordered subsequence of text. An empty pattern matches with score 0.
//
// The best alignment is searched only between the first rune that can
// start a match and the last rune that can end one. When that window is
// too large for the table, the shortest greedy alignment is scored.
func Score(pattern []rune, text string, caseSensitive bool) (Result, bool) {
	if len(pattern) == 0 {
		return Result{}, true
	}
	runes := []rune(text)
	if !caseSensitive {
		pattern = lowerRunes(pattern)
	}
	lo, hi, ok := matchWindow(pattern, runes, caseSensitive)
	if !ok {
		return Result{}, false
	}

	var positions []int
	if len(pattern)*(hi-lo+1) > maxCells {
		positions = greedyAlign(pattern, runes, lo, caseSensitive)
	} else {
		positions = bestAlign(pattern, runes, lo, hi, caseSensitive)
	}
	return Result{Score: alignmentScore(runes, positions), Positions: positions}, true
}

// matchWindow returns the inclusive range of runes any alignment can use:
// from the first match of pattern[0] to the last match of the final
// pattern rune. ok is false when pattern is not a subsequence.
func matchWindow(pattern, runes []rune, caseSensitive bool) (lo, hi int, ok bool) {
	lo, j := -1, 0
	for i, r := range runes {
		if equalFold(pattern[j], r, caseSensitive) {
			if j == 0 {
				lo = i
			}
			if j++; j == len(pattern) {
				break
			}
		}
	}
	if j < len(pattern) {
		return 0, 0, false
	}
	last := pattern[len(pattern)-1]
	for hi = len(runes) - 1; !equalFold(last, runes[hi], caseSensitive); hi-- {
	}
	return lo, hi, true
}

// bestAlign runs the alignment DP over runes[lo:hi+1] and returns the
// positions of the top-scoring alignment. Scores live in two rows; the
// back-pointer table is bounded by maxCells.
func bestAlign(pattern, runes []rune, lo, hi int, caseSensitive bool) []int {
	m, n := len(pattern), hi-lo+1
	window := runes[lo : hi+1]
	prev := make([]int32, n)
	row := make([]int32, n)
	// from[j*n+i]: window position of pattern[j-1] when pattern[j] sits at i.
	from := make([]int32, m*n)

	for i := range n {
		prev[i] = unreachable
		if equalFold(pattern[0], window[i], caseSensitive) {
			prev[i] = int32(scoreMatch + boundary(runes, lo+i))
		}
	}

	for j := 1; j < m; j++ {
		rowFrom := from[j*n : (j+1)*n]
		row[0] = unreachable

		// gapBest tracks max(prev[k] + penaltyGap*k) over k < i-1 so the
		// gap penalty -penaltyGap*(i-k-1) can be applied in O(1) per i.
		gapBest, gapFrom := int32(unreachable), int32(-1)
		for i := 1; i < n; i++ {
			row[i] = unreachable
			if k := i - 2; k >= 0 && prev[k] > unreachable && prev[k]+penaltyGap*int32(k) > gapBest {
				gapBest, gapFrom = prev[k]+penaltyGap*int32(k), int32(k)
			}
			if !equalFold(pattern[j], window[i], caseSensitive) {
				continue
			}
			base := int32(scoreMatch + boundary(runes, lo+i))

			cand, src := int32(unreachable), int32(-1)
			if prev[i-1] > unreachable {
				cand, src = prev[i-1]+bonusContiguous, int32(i-1)
			}
			if gapFrom >= 0 {
				if g := gapBest - penaltyGap*int32(i-1); g > cand {
					cand, src = g, gapFrom
				}
			}
			if src >= 0 {
				row[i] = base + cand
				rowFrom[i] = src
			}
		}
		prev, row = row, prev
	}

	end := -1
	for i := range n {
		if prev[i] > unreachable && (end < 0 || prev[i] > prev[end]) {
			end = i
		}
	}

	positions := make([]int, m)
	for j, i := m-1, end; j >= 0; j-- {
		positions[j] = lo + i
		i = int(from[j*n+i])
	}
	return positions
}

// greedyAlign matches forward from lo to the earliest complete match, then
// backward from its end, which yields the shortest alignment ending there.
// It runs in linear time and allocates only the result.
func greedyAlign(pattern, runes []rune, lo int, caseSensitive bool) []int {
	m := len(pattern)
	end, j := lo, 0
	for i := lo; j < m; i++ {
		if equalFold(pattern[j], runes[i], caseSensitive) {
			j++
			end = i
		}
	}

	positions := make([]int, m)
	j = m - 1
	for i := end; j >= 0; i-- {
		if equalFold(pattern[j], runes[i], caseSensitive) {
			positions[j] = i
			j--
		}
	}
	return positions
}

// alignmentScore scores an alignment: each matched rune earns scoreMatch
// plus its boundary bonus, then either the contiguity bonus or the gap
// penalty relative to the previous matched rune.
func alignmentScore(runes []rune, positions []int) int {
	score := 0
	for j, i := range positions {
		score += scoreMatch + boundary(runes, i)
		if j == 0 {
			continue
		}
		if gap := i - positions[j-1] - 1; gap == 0 {
			score += bonusContiguous
		} else {
			score -= penaltyGap * gap
		}
	}
	return score
}

// boundary returns the word-boundary bonus for a match at runes[i].
func boundary(runes []rune, i int) int {
	if i == 0 || !isAlnum(runes[i-1]) {
		return bonusBoundary
	}
	return 0
}

func isAlnum(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func equalFold(p, r rune, caseSensitive bool) bool {
	if caseSensitive {
		return p == r
	}
	return p == unicode.ToLower(r)
}

func lowerRunes(rs []rune) []rune {
	out := make([]rune, len(rs))
	for i, r := range rs {
		out[i] = unicode.ToLower(r)
	}
	return out
}
