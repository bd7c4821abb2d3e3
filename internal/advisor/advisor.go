// Package advisor is the optional AI capability behind header mapping,
// natural-language search, rule conversion, and fix suggestions. It is
// advisory only: every caller owns a deterministic fallback, and a
// failed or absent advisor never changes a validation result.
package advisor

import (
	"context"
	"errors"
	"strings"

	"allocprep/internal/models"
	"allocprep/internal/validation"
)

// ErrNotConfigured is returned by every call on an unconfigured
// capability. Callers treat it like any other advisor failure: use the
// deterministic fallback.
var ErrNotConfigured = errors.New("advisor is not configured")

// Capability is the injected advisory handle. Implementations must be
// safe to call with a nil-result fallback in mind: callers never depend
// on them for correctness.
type Capability interface {
	// Configured reports whether calls can possibly succeed.
	Configured() bool

	// MapHeaders proposes a mapping from raw CSV headers to the listed
	// canonical columns that exact/normalized matching could not place.
	MapHeaders(ctx context.Context, entity models.Entity, headers []string, missing []string) (map[string]string, error)

	// SuggestFixes proposes replacement values for the cell a finding
	// points at. Callers filter the candidates through correction.Resolves.
	SuggestFixes(ctx context.Context, finding validation.Finding, currentValue string) ([]string, error)

	// Search returns the indexes of rows matching a natural-language
	// query. Rows are passed pre-rendered, one string per row.
	Search(ctx context.Context, query string, rows []string) ([]int, error)

	// RuleFromText converts a natural-language sentence into a rule.
	RuleFromText(ctx context.Context, text string, tasks []models.Task) (*models.Rule, error)
}

// New returns a Gemini-backed capability when an API key is supplied and
// the explicit Unconfigured capability otherwise. The key is injected by
// the caller; this package never reads the environment.
func New(apiKey, model string) Capability {
	if apiKey == "" {
		return Unconfigured{}
	}
	return NewGemini(apiKey, model)
}

// Unconfigured is the capability used when no API key was provided.
type Unconfigured struct{}

func (Unconfigured) Configured() bool { return false }

func (Unconfigured) MapHeaders(context.Context, models.Entity, []string, []string) (map[string]string, error) {
	return nil, ErrNotConfigured
}

func (Unconfigured) SuggestFixes(context.Context, validation.Finding, string) ([]string, error) {
	return nil, ErrNotConfigured
}

func (Unconfigured) Search(context.Context, string, []string) ([]int, error) {
	return nil, ErrNotConfigured
}

func (Unconfigured) RuleFromText(context.Context, string, []models.Task) (*models.Rule, error) {
	return nil, ErrNotConfigured
}

// FallbackSearch is the deterministic search used when the advisor is
// unavailable: case-insensitive substring match over the rendered rows.
func FallbackSearch(query string, rows []string) []int {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil
	}
	var matches []int
	for i, row := range rows {
		if strings.Contains(strings.ToLower(row), query) {
			matches = append(matches, i)
		}
	}
	return matches
}
