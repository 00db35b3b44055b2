package engine

import "fmt"

// NotFoundError means the resolver found no candidate above the confidence
// threshold. It carries the original query and the best score that missed,
// so callers can say how close the nearest candidate was.
type NotFoundError struct {
	Entity    string // "player" or "team"
	Query     string
	BestScore float64
	BestName  string
}

func (e *NotFoundError) Error() string {
	if e.BestName == "" {
		return fmt.Sprintf("%s %q not found", e.Entity, e.Query)
	}
	return fmt.Sprintf("%s %q not found (closest: %q, score %.1f)",
		e.Entity, e.Query, e.BestName, e.BestScore)
}

// SeasonNotFoundError means a season-scoped operation that strictly requires
// the season found zero rows for it in an otherwise healthy dataset.
type SeasonNotFoundError struct {
	Season int
}

func (e *SeasonNotFoundError) Error() string {
	return fmt.Sprintf("no data for season %d", e.Season)
}

// AmbiguousDataError flags a dataset where the precedence rules cannot pick
// a row deterministically (e.g. two aggregate rows for one player-season).
// This is a data-quality failure, never silently resolved.
type AmbiguousDataError struct {
	Dataset string
	Key     string
}

func (e *AmbiguousDataError) Error() string {
	return fmt.Sprintf("ambiguous rows in %s for %s", e.Dataset, e.Key)
}
