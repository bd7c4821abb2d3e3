package advisor

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

func TestUnconfigured(t *testing.T) {
	var c Capability = Unconfigured{}
	if c.Configured() {
		t.Error("expected Unconfigured to report not configured")
	}
	if _, err := c.Search(context.Background(), "query", nil); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("expected ErrNotConfigured, got %v", err)
	}
	if _, err := c.RuleFromText(context.Background(), "text", nil); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("expected ErrNotConfigured, got %v", err)
	}
}

func TestNew(t *testing.T) {
	if c := New("", ""); c.Configured() {
		t.Error("expected empty key to yield an unconfigured capability")
	}
	if c := New("key", ""); !c.Configured() {
		t.Error("expected a key to yield a configured capability")
	}
}

func TestFallbackSearch(t *testing.T) {
	rows := []string{
		"C1 Acme priority 5",
		"C2 Globex priority 1",
		"C3 acme subsidiary priority 3",
	}

	if got := FallbackSearch("acme", rows); !reflect.DeepEqual(got, []int{0, 2}) {
		t.Errorf("expected case-insensitive substring matches [0 2], got %v", got)
	}
	if got := FallbackSearch("initech", rows); got != nil {
		t.Errorf("expected no matches, got %v", got)
	}
	if got := FallbackSearch("   ", rows); got != nil {
		t.Errorf("expected empty query to match nothing, got %v", got)
	}
}

func TestExtractJSON(t *testing.T) {
	cases := map[string]string{
		`{"a":1}`:                 `{"a":1}`,
		"```json\n{\"a\":1}\n```": `{"a":1}`,
		"```\n[1,2]\n```":         `[1,2]`,
		"  {\"a\":1}  ":           `{"a":1}`,
	}

	for input, want := range cases {
		if got := string(extractJSON(input)); got != want {
			t.Errorf("extractJSON(%q) = %q, want %q", input, got, want)
		}
	}
}
