package decode

import (
	"reflect"
	"testing"
)

func TestIntList_JSONAndCommaFormsAgree(t *testing.T) {
	jsonForm := IntList("[1,2,3]", 1)
	commaForm := IntList("1, 2, 3", 1)

	if !jsonForm.OK {
		t.Fatalf("expected [1,2,3] to decode, got failure: %s", jsonForm.Reason)
	}
	if !commaForm.OK {
		t.Fatalf("expected \"1, 2, 3\" to decode, got failure: %s", commaForm.Reason)
	}
	if !reflect.DeepEqual(jsonForm.Values, commaForm.Values) {
		t.Errorf("expected both forms to decode to the same list, got %v and %v", jsonForm.Values, commaForm.Values)
	}
	if !reflect.DeepEqual(jsonForm.Values, []int{1, 2, 3}) {
		t.Errorf("expected [1 2 3], got %v", jsonForm.Values)
	}
}

func TestIntList_SubMinimumFailsInBothForms(t *testing.T) {
	for _, raw := range []string{"[1,-2]", "1,-2"} {
		result := IntList(raw, 1)
		if result.OK {
			t.Errorf("expected %q to fail (element below minimum), got %v", raw, result.Values)
		}
	}
}

func TestIntList_NonNumericToken(t *testing.T) {
	result := IntList("1,2,x", 1)
	if result.OK {
		t.Errorf("expected failure for non-numeric token, got %v", result.Values)
	}
}

func TestIntList_NonIntegerJSONElement(t *testing.T) {
	result := IntList("[1, 2.5]", 1)
	if result.OK {
		t.Errorf("expected failure for fractional element, got %v", result.Values)
	}
}

func TestIntList_BareNumberFallsThroughToCommaList(t *testing.T) {
	// "5" is valid JSON but not an array, so the JSON strategy must not
	// claim it; the comma-list fallback yields a single-element list.
	result := IntList("5", 1)
	if !result.OK {
		t.Fatalf("expected bare number to decode, got failure: %s", result.Reason)
	}
	if !reflect.DeepEqual(result.Values, []int{5}) {
		t.Errorf("expected [5], got %v", result.Values)
	}
}

func TestPhaseList_Range(t *testing.T) {
	result := PhaseList("1-3")
	if !result.OK {
		t.Fatalf("expected \"1-3\" to decode, got failure: %s", result.Reason)
	}
	if !reflect.DeepEqual(result.Values, []int{1, 2, 3}) {
		t.Errorf("expected [1 2 3], got %v", result.Values)
	}
}

func TestPhaseList_ReversedRangeFails(t *testing.T) {
	result := PhaseList("3-1")
	if result.OK {
		t.Errorf("expected \"3-1\" to fail (start after end), got %v", result.Values)
	}
}

func TestPhaseList_JSONArrayTakesPriority(t *testing.T) {
	result := PhaseList("[1,2,3]")
	if !result.OK {
		t.Fatalf("expected JSON array to decode, got failure: %s", result.Reason)
	}
	if !reflect.DeepEqual(result.Values, []int{1, 2, 3}) {
		t.Errorf("expected [1 2 3], got %v", result.Values)
	}
}

func TestPhaseList_CommaListFallback(t *testing.T) {
	result := PhaseList("2, 4, 5")
	if !result.OK {
		t.Fatalf("expected comma list to decode, got failure: %s", result.Reason)
	}
	if !reflect.DeepEqual(result.Values, []int{2, 4, 5}) {
		t.Errorf("expected [2 4 5], got %v", result.Values)
	}
}

func TestPhaseList_RangeWithSpaces(t *testing.T) {
	result := PhaseList("2 - 4")
	if !result.OK {
		t.Fatalf("expected \"2 - 4\" to decode, got failure: %s", result.Reason)
	}
	if !reflect.DeepEqual(result.Values, []int{2, 3, 4}) {
		t.Errorf("expected [2 3 4], got %v", result.Values)
	}
}

func TestSplitList(t *testing.T) {
	cases := []struct {
		raw  string
		want []string
	}{
		{"a, b ,c", []string{"a", "b", "c"}},
		{"solo", []string{"solo"}},
		{"", nil},
		{" , ,", nil},
		{"T1,,T2", []string{"T1", "T2"}},
	}
	for _, c := range cases {
		got := SplitList(c.raw)
		if !reflect.DeepEqual(got, c.want) {
			t.Errorf("SplitList(%q) = %v, want %v", c.raw, got, c.want)
		}
	}
}

func TestObject_ValidJSON(t *testing.T) {
	v := Object(`{"vip": true, "budget": 10000}`)
	if !v.Valid {
		t.Fatal("expected valid JSON object to be accepted")
	}
	m, ok := v.Parsed.(map[string]any)
	if !ok {
		t.Fatalf("expected parsed map, got %T", v.Parsed)
	}
	if m["vip"] != true {
		t.Errorf("expected vip=true, got %v", m["vip"])
	}
}

func TestObject_InvalidJSONKeepsRawText(t *testing.T) {
	v := Object("not json at all")
	if v.Valid {
		t.Error("expected invalid JSON to be rejected")
	}
	if v.Raw != "not json at all" {
		t.Errorf("expected raw text to be preserved, got %q", v.Raw)
	}
}

func TestObject_EmptyIsValid(t *testing.T) {
	if v := Object(""); !v.Valid {
		t.Error("expected empty attributes cell to be valid (field is optional)")
	}
}
