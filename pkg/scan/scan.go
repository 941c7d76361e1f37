// Package scan derives production years for the models of a make from
// per-year presence queries.
//
// The scan walks an inclusive year range in ascending order and issues one
// presence query per year. A failed query leaves that year unknown: it is
// neither counted as presence nor as absence, and it never moves the make's
// first or last year.
package scan

import (
	"context"

	"github.com/agentstation/carmap/pkg/errors"
	"github.com/agentstation/carmap/pkg/logging"
	"github.com/agentstation/carmap/pkg/vehicles"
)

// PresenceQuerier reports which model ids of a make exist in a model year.
type PresenceQuerier interface {
	ModelsPresent(ctx context.Context, makeID, year int) ([]int, error)
}

// YearRange is an inclusive range of model years.
type YearRange struct {
	From int
	To   int
}

// Validate checks that the range is not inverted.
func (r YearRange) Validate() error {
	if r.From > r.To {
		return errors.NewValidationError("year_range", r, "from year must not exceed to year")
	}
	return nil
}

// Len returns the number of years in the range.
func (r YearRange) Len() int {
	if r.From > r.To {
		return 0
	}
	return r.To - r.From + 1
}

// Result is the outcome of scanning one make.
type Result struct {
	// Years maps each candidate model id to the years it was present.
	// Every candidate has an entry, possibly empty.
	Years map[int]vehicles.Years

	// Unknown lists the years whose presence query failed.
	Unknown []int

	// FirstYear and LastYear span every candidate's presence; nil when none was seen.
	FirstYear *int
	LastYear  *int
}

// Span returns the observed year span.
func (r *Result) Span() (first, last int, ok bool) {
	if r.FirstYear == nil || r.LastYear == nil {
		return 0, 0, false
	}
	return *r.FirstYear, *r.LastYear, true
}

// Scan queries presence for every year in r and folds it into per-model year lists.
// Presence ids that are not among modelIDs are ignored.
// The only error returned is a cancellation of ctx.
func Scan(ctx context.Context, q PresenceQuerier, makeID int, modelIDs []int, r YearRange) (*Result, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	logger := logging.FromContext(ctx)

	result := &Result{Years: make(map[int]vehicles.Years, len(modelIDs))}
	for _, id := range modelIDs {
		result.Years[id] = vehicles.Years{}
	}

	for year := r.From; year <= r.To; year++ {
		if err := ctx.Err(); err != nil {
			return nil, errors.WrapResource("scan", "make", "", errors.ErrCanceled)
		}

		present, err := q.ModelsPresent(ctx, makeID, year)
		if err != nil {
			if ctx.Err() != nil {
				return nil, errors.WrapResource("scan", "make", "", errors.ErrCanceled)
			}
			logger.Warn().Err(err).Int("make_id", makeID).Int("year", year).Msg("Presence query failed, year left unknown")
			result.Unknown = append(result.Unknown, year)
			continue
		}

		seen := false
		for _, id := range present {
			years, ok := result.Years[id]
			if !ok {
				continue
			}
			if years.Add(year) {
				result.Years[id] = years
			}
			seen = true
		}
		if seen {
			if result.FirstYear == nil {
				first := year
				result.FirstYear = &first
			}
			last := year
			result.LastYear = &last
		}
	}

	logger.Debug().
		Int("make_id", makeID).
		Int("models", len(modelIDs)).
		Ints("unknown_years", result.Unknown).
		Msg("Year scan complete")

	return result, nil
}
