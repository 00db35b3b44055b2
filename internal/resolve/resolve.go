// Package resolve fuzzy-matches a free-text query against a candidate set
// of canonical names and aliases. It is pure and stateless: the same query
// against the same candidates always produces the same match and score.
package resolve

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/unicode/norm"
)

// Candidate is a canonical entity name plus any aliases it is known by
// (abbreviations, era-specific codes).
type Candidate struct {
	Name    string
	Aliases []string
}

// Match is the outcome of a successful resolution.
type Match struct {
	Name  string  // canonical name, as stored
	Score float64 // confidence, 0–100
}

// tieEpsilon is the score delta under which two candidates are considered
// tied and broken deterministically.
const tieEpsilon = 0.5

// Best scores the query against every candidate name and alias and returns
// the strongest match. The boolean is false when the top score falls below
// minScore; the Match is still returned so callers can report how close the
// nearest miss was.
//
// A case-insensitive exact match on a name or alias short-circuits with
// confidence 100. Ties within tieEpsilon are broken by exact-substring
// preference, then by lexical order of the canonical name.
func Best(query string, candidates []Candidate, minScore float64) (Match, bool) {
	nq := normalize(query)
	if nq == "" || len(candidates) == 0 {
		return Match{}, false
	}

	var (
		best       Match
		bestSub    bool
		haveResult bool
	)
	for _, c := range candidates {
		score := scoreCandidate(nq, c)
		if score >= 100 {
			return Match{Name: c.Name, Score: 100}, true
		}
		sub := strings.Contains(normalize(c.Name), nq)
		switch {
		case !haveResult, score > best.Score+tieEpsilon:
			best = Match{Name: c.Name, Score: score}
			bestSub = sub
			haveResult = true
		case score > best.Score-tieEpsilon:
			// Tie: exact-substring wins, then lexical order. The winner
			// reports its own score, not the displaced candidate's.
			if (sub && !bestSub) || (sub == bestSub && c.Name < best.Name) {
				best = Match{Name: c.Name, Score: score}
				bestSub = sub
			}
		}
	}
	return best, best.Score >= minScore
}

// scoreCandidate returns the best similarity between the normalized query
// and any of the candidate's names.
func scoreCandidate(nq string, c Candidate) float64 {
	score := similarity(nq, normalize(c.Name))
	for _, alias := range c.Aliases {
		if s := similarity(nq, normalize(alias)); s > score {
			score = s
		}
	}
	return score
}

// similarity combines plain edit-distance ratio, token-sort ratio (word
// order insensitivity: "james lebron" ~ "lebron james"), and a containment
// score for partial queries ("chicago" ~ "chicago bulls").
func similarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 100
	}
	s := ratio(a, b)
	if ts := ratio(tokenSort(a), tokenSort(b)); ts > s {
		s = ts
	}
	if cs := containment(a, b); cs > s {
		s = cs
	}
	return s
}

// ratio is the normalized Levenshtein similarity on a 0–100 scale.
func ratio(a, b string) float64 {
	la, lb := len([]rune(a)), len([]rune(b))
	max := la
	if lb > max {
		max = lb
	}
	if max == 0 {
		return 0
	}
	d := levenshtein.ComputeDistance(a, b)
	return 100 * (1 - float64(d)/float64(max))
}

// containment rewards one string being a whole substring of the other,
// scaled by how much of the longer string is covered. Queries shorter than
// three characters are too ambiguous to reward.
func containment(a, b string) float64 {
	short, long := a, b
	if len(short) > len(long) {
		short, long = long, short
	}
	if len(short) < 3 || !strings.Contains(long, short) {
		return 0
	}
	return 80 + 15*float64(len(short))/float64(len(long))
}

// tokenSort rebuilds a string from its words in sorted order.
func tokenSort(s string) string {
	fields := strings.Fields(s)
	sort.Strings(fields)
	return strings.Join(fields, " ")
}

// normalize lowercases, folds accented letters to their base ("Dončić" and
// "doncic" compare equal), strips punctuation, and collapses runs of
// whitespace. NFD decomposition splits off combining marks so the base
// letter survives the ASCII filter.
func normalize(s string) string {
	decomposed := norm.NFD.String(strings.ToLower(s))
	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '-', r == '_', r == '.':
			b.WriteByte(' ')
		default:
			// apostrophes, combining marks, and other punctuation drop out
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
