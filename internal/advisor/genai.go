package advisor

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"google.golang.org/genai"

	"allocprep/internal/models"
	"allocprep/internal/validation"
)

// DefaultModel is used when no model name is supplied.
const DefaultModel = "gemini-2.0-flash"

// Gemini is the Capability backed by the Gemini API. The client is
// created lazily on first use so construction never needs a context.
type Gemini struct {
	apiKey string
	model  string

	mu     sync.Mutex
	client *genai.Client
}

// NewGemini creates a Gemini-backed capability. The key must be
// non-empty; use New to fall back to Unconfigured otherwise.
func NewGemini(apiKey, model string) *Gemini {
	if model == "" {
		model = DefaultModel
	}
	return &Gemini{apiKey: apiKey, model: model}
}

func (g *Gemini) Configured() bool { return g.apiKey != "" }

func (g *Gemini) ensureClient(ctx context.Context) (*genai.Client, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.client != nil {
		return g.client, nil
	}
	if g.apiKey == "" {
		return nil, ErrNotConfigured
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: g.apiKey})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	g.client = client
	return client, nil
}

// generate sends a single prompt and returns the response text.
func (g *Gemini) generate(ctx context.Context, prompt string) (string, error) {
	client, err := g.ensureClient(ctx)
	if err != nil {
		return "", err
	}
	resp, err := client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("Gemini generation failed: %w", err)
	}
	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("Gemini returned an empty response")
	}
	return text, nil
}

func (g *Gemini) MapHeaders(ctx context.Context, entity models.Entity, headers []string, missing []string) (map[string]string, error) {
	prompt := fmt.Sprintf(`You map spreadsheet headers to canonical column names for %s data.
Raw headers: %s
Unmatched canonical columns: %s
Respond with a JSON object mapping each raw header to one of the
unmatched canonical columns. Omit headers you cannot place. Respond
with JSON only, no prose.`,
		entity, strings.Join(headers, ", "), strings.Join(missing, ", "))

	text, err := g.generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	var mapping map[string]string
	if err := json.Unmarshal(extractJSON(text), &mapping); err != nil {
		return nil, fmt.Errorf("failed to parse header mapping response: %w", err)
	}
	// Drop proposals that name a column we did not ask about.
	allowed := make(map[string]bool, len(missing))
	for _, col := range missing {
		allowed[col] = true
	}
	for raw, col := range mapping {
		if !allowed[col] {
			delete(mapping, raw)
		}
	}
	return mapping, nil
}

func (g *Gemini) SuggestFixes(ctx context.Context, finding validation.Finding, currentValue string) ([]string, error) {
	prompt := fmt.Sprintf(`A validation check failed on tabular resource-allocation data.
Problem: %s (%s)
Entity: %s, row %d, column %q
Current cell value: %q
Propose up to 3 replacement values for that single cell. Respond with a
JSON array of strings, most likely fix first. JSON only, no prose.`,
		finding.Message, finding.Kind, finding.Entity, finding.Row, finding.Column, currentValue)

	text, err := g.generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	var candidates []string
	if err := json.Unmarshal(extractJSON(text), &candidates); err != nil {
		return nil, fmt.Errorf("failed to parse fix suggestion response: %w", err)
	}
	return candidates, nil
}

func (g *Gemini) Search(ctx context.Context, query string, rows []string) ([]int, error) {
	var sb strings.Builder
	for i, row := range rows {
		fmt.Fprintf(&sb, "%d: %s\n", i, row)
	}
	prompt := fmt.Sprintf(`Given these data rows (index: content):
%s
Return the indexes of rows matching this query: %q
Respond with a JSON array of integers. JSON only, no prose.`, sb.String(), query)

	text, err := g.generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	var indexes []int
	if err := json.Unmarshal(extractJSON(text), &indexes); err != nil {
		return nil, fmt.Errorf("failed to parse search response: %w", err)
	}
	var valid []int
	for _, i := range indexes {
		if i >= 0 && i < len(rows) {
			valid = append(valid, i)
		}
	}
	return valid, nil
}

func (g *Gemini) RuleFromText(ctx context.Context, text string, tasks []models.Task) (*models.Rule, error) {
	ids := make([]string, len(tasks))
	for i, task := range tasks {
		ids[i] = task.ID
	}
	prompt := fmt.Sprintf(`Convert this sentence into an allocation rule.
Sentence: %q
Known task IDs: %s
Rule types and their fields:
- coRun: tasks (2 or more known task IDs)
- slotRestriction: group, minCommonSlots (>= 1)
- loadLimit: group, maxSlotsPerPhase (>= 1)
- phaseWindow: task (known ID), allowedPhases (>= 1 phase numbers)
- patternMatch: regex, template
- precedence: tasks (known IDs), priority (>= 1)
Respond with a JSON object with a "type" field and the fields for that
type. JSON only, no prose.`, text, strings.Join(ids, ", "))

	response, err := g.generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	var rule models.Rule
	if err := json.Unmarshal(extractJSON(response), &rule); err != nil {
		return nil, fmt.Errorf("failed to parse rule conversion response: %w", err)
	}
	if rule.Type == "" {
		return nil, fmt.Errorf("rule conversion response has no type")
	}
	return &rule, nil
}

// extractJSON strips markdown code fences the model sometimes wraps
// around its JSON answer.
func extractJSON(text string) []byte {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		if i := strings.LastIndex(text, "```"); i >= 0 {
			text = text[:i]
		}
		text = strings.TrimSpace(text)
	}
	return []byte(text)
}
