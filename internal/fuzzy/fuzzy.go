// Package fuzzy scores and ranks candidates against a query using ordered
// subsequence matching.
//
// A candidate matches when every rune of the query occurs in it in the same
// order, ignoring case. Among all ways to place the query, the scorer keeps
// the one with the highest score, where each matched rune earns:
//
//   - a flat match score,
//   - a position bonus that shrinks the further into the candidate it lands,
//   - a boundary bonus at the start of the candidate or after a separator,
//   - a consecutive bonus that grows with the length of the current run.
package fuzzy

import (
	"sort"
	"unicode"
)

const (
	scoreMatch       = 16
	bonusBoundary    = 8
	bonusConsecutive = 4
	maxPositionBonus = 10
	unreachable      = -1 << 30
)

// Match is one candidate that matched a query.
type Match struct {
	// Str is the candidate as given.
	Str string
	// Index is the candidate's position in the input slice.
	Index int
	// Score is the relevance; higher is better. It is 0 for an empty query.
	Score int
	// MatchedIndexes are the rune offsets in Str that matched the query, in
	// increasing order, for highlighting.
	MatchedIndexes []int
}

// Score matches query against candidate. ok is false when query is not an
// ordered subsequence of candidate.
func Score(query, candidate string) (m Match, ok bool) {
	q := lowerRunes(query)
	m = Match{Str: candidate}
	if len(q) == 0 {
		return m, true
	}
	orig := []rune(candidate)
	c := lowerRunes(candidate)
	if len(q) > len(c) || !isSubsequence(q, c) {
		return Match{}, false
	}

	n, k := len(c), len(q)
	// score[i][j] is the best total for q[:i+1] with q[i] placed on c[j];
	// run[i][j] is the consecutive run ending there, prev[i][j] where q[i-1] sat.
	score := make([][]int, k)
	run := make([][]int, k)
	prev := make([][]int, k)
	for i := range k {
		score[i] = make([]int, n)
		run[i] = make([]int, n)
		prev[i] = make([]int, n)
		for j := range n {
			score[i][j] = unreachable
			prev[i][j] = -1
		}
	}

	for i := range k {
		gapBest, gapIdx := unreachable, -1
		for j := i; j < n; j++ {
			if i > 0 && j >= 2 && score[i-1][j-2] > gapBest {
				gapBest, gapIdx = score[i-1][j-2], j-2
			}
			if c[j] != q[i] {
				continue
			}
			base := scoreMatch + positionBonus(j) + boundaryBonus(orig, j)
			if i == 0 {
				score[i][j] = base
				run[i][j] = 1
				continue
			}
			best, bestRun, from := unreachable, 0, -1
			if gapIdx >= 0 {
				best, bestRun, from = gapBest+base, 1, gapIdx
			}
			if score[i-1][j-1] > unreachable {
				r := run[i-1][j-1] + 1
				if v := score[i-1][j-1] + base + bonusConsecutive*(r-1); v >= best {
					best, bestRun, from = v, r, j-1
				}
			}
			if from >= 0 {
				score[i][j] = best
				run[i][j] = bestRun
				prev[i][j] = from
			}
		}
	}

	end := -1
	for j := k - 1; j < n; j++ {
		if score[k-1][j] > unreachable && (end < 0 || score[k-1][j] > score[k-1][end]) {
			end = j
		}
	}
	if end < 0 {
		return Match{}, false
	}

	positions := make([]int, k)
	for i, j := k-1, end; i >= 0; i-- {
		positions[i] = j
		j = prev[i][j]
	}
	m.Score = score[k-1][end]
	m.MatchedIndexes = positions
	return m, true
}

// Rank returns the candidates matching query, best first. Ties go to the
// shorter candidate, then to the earlier one in the input. An empty query
// matches everything and keeps the input order.
func Rank(query string, candidates []string) []Match {
	matches := make([]Match, 0, len(candidates))
	for i, c := range candidates {
		m, ok := Score(query, c)
		if !ok {
			continue
		}
		m.Index = i
		matches = append(matches, m)
	}
	if len(lowerRunes(query)) == 0 {
		return matches
	}
	sort.SliceStable(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		la, lb := len([]rune(a.Str)), len([]rune(b.Str))
		if la != lb {
			return la < lb
		}
		return a.Index < b.Index
	})
	return matches
}

func positionBonus(j int) int {
	if j >= maxPositionBonus {
		return 0
	}
	return maxPositionBonus - j
}

func boundaryBonus(s []rune, j int) int {
	if j == 0 {
		return bonusBoundary
	}
	p := s[j-1]
	if !unicode.IsLetter(p) && !unicode.IsDigit(p) {
		return bonusBoundary
	}
	return 0
}

func isSubsequence(q, c []rune) bool {
	i := 0
	for _, r := range c {
		if i < len(q) && q[i] == r {
			i++
		}
	}
	return i == len(q)
}

func lowerRunes(s string) []rune {
	rs := []rune(s)
	for i, r := range rs {
		rs[i] = unicode.ToLower(r)
	}
	return rs
}
