package decode

import (
	"encoding/json"
	"strconv"
	"strings"
)

// IntListResult is the outcome of decoding one ambiguous integer-list
// cell. A failed decode is a value, not an error: the validators turn it
// into a finding and move on to the next row.
type IntListResult struct {
	Values []int
	OK     bool
	Reason string
}

func ok(values []int) IntListResult {
	return IntListResult{Values: values, OK: true}
}

func fail(reason string) IntListResult {
	return IntListResult{Reason: reason}
}

// strategy is one parse attempt in a try-in-order chain. applied reports
// whether the strategy claimed the input; when false the chain moves on
// regardless of the result.
type strategy func(raw string) (result IntListResult, applied bool)

func tryInOrder(raw string, strategies ...strategy) IntListResult {
	for _, s := range strategies {
		if result, applied := s(raw); applied {
			return result
		}
	}
	return fail("unrecognized format")
}

// IntList decodes a cell holding a list of integers encoded either as a
// JSON array ("[1,2,3]") or a comma-separated string ("1, 2, 3"). Every
// element must be an integer >= min. Used for worker available slots.
func IntList(raw string, min int) IntListResult {
	return tryInOrder(raw,
		jsonArrayStrategy(min),
		commaListStrategy(min),
	)
}

// PhaseList decodes a task's preferred phases, which may be a JSON array
// ("[1,2,3]"), a hyphenated range ("1-3"), or a comma-separated list
// ("1,2,3"), tried in that order. Phases must be >= 1.
func PhaseList(raw string) IntListResult {
	return tryInOrder(raw,
		jsonArrayStrategy(1),
		rangeStrategy(1),
		commaListStrategy(1),
	)
}

// jsonArrayStrategy claims the input only when it parses as a JSON array.
// A string that parses as some other JSON value (a bare number, say)
// falls through to the next strategy.
func jsonArrayStrategy(min int) strategy {
	return func(raw string) (IntListResult, bool) {
		var elems []json.Number
		dec := json.NewDecoder(strings.NewReader(raw))
		dec.UseNumber()
		if err := dec.Decode(&elems); err != nil {
			return IntListResult{}, false
		}
		values := make([]int, 0, len(elems))
		for _, e := range elems {
			n, err := strconv.Atoi(e.String())
			if err != nil {
				return fail("element " + e.String() + " is not an integer"), true
			}
			if n < min {
				return fail("element " + e.String() + " is below minimum " + strconv.Itoa(min)), true
			}
			values = append(values, n)
		}
		return ok(values), true
	}
}

// rangeStrategy claims any input containing a hyphen. "a-b" must be two
// integers with a <= b and expands to the inclusive range.
func rangeStrategy(min int) strategy {
	return func(raw string) (IntListResult, bool) {
		if !strings.Contains(raw, "-") {
			return IntListResult{}, false
		}
		parts := strings.Split(raw, "-")
		if len(parts) != 2 {
			return fail("range must be start-end"), true
		}
		start, err := strconv.Atoi(strings.TrimSpace(parts[0]))
		if err != nil {
			return fail("range start " + strings.TrimSpace(parts[0]) + " is not an integer"), true
		}
		end, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil {
			return fail("range end " + strings.TrimSpace(parts[1]) + " is not an integer"), true
		}
		if start > end {
			return fail("range start is after end"), true
		}
		if start < min {
			return fail("range start is below minimum " + strconv.Itoa(min)), true
		}
		values := make([]int, 0, end-start+1)
		for n := start; n <= end; n++ {
			values = append(values, n)
		}
		return ok(values), true
	}
}

// commaListStrategy is the last resort and always claims the input.
func commaListStrategy(min int) strategy {
	return func(raw string) (IntListResult, bool) {
		var values []int
		for _, token := range strings.Split(raw, ",") {
			token = strings.TrimSpace(token)
			if token == "" {
				continue
			}
			n, err := strconv.Atoi(token)
			if err != nil {
				return fail("token " + token + " is not an integer"), true
			}
			if n < min {
				return fail("token " + token + " is below minimum " + strconv.Itoa(min)), true
			}
			values = append(values, n)
		}
		return ok(values), true
	}
}

// SplitList splits a delimited identifier or skill-tag cell on commas,
// trimming whitespace and dropping empty tokens. It never fails: a cell
// without delimiters is a single-element list, an empty cell is empty.
func SplitList(raw string) []string {
	var out []string
	for _, token := range strings.Split(raw, ",") {
		token = strings.TrimSpace(token)
		if token != "" {
			out = append(out, token)
		}
	}
	return out
}

// JSONValue is the tagged decode result of an opaque attributes cell:
// either a parsed JSON document or the raw text kept for display.
type JSONValue struct {
	Raw    string
	Parsed any
	Valid  bool
}

// Object checks an attributes cell. Any text that parses as JSON is
// accepted; downstream code must not assume a fixed schema. An empty
// cell is valid (the field is optional).
func Object(raw string) JSONValue {
	if strings.TrimSpace(raw) == "" {
		return JSONValue{Raw: raw, Valid: true}
	}
	var parsed any
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return JSONValue{Raw: raw}
	}
	return JSONValue{Raw: raw, Parsed: parsed, Valid: true}
}
