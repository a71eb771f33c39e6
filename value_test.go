package catalog_test

import (
	"testing"

	catalog "github.com/LuckyResistor/3d-model-catalog-generator"
)

func TestParseValue(t *testing.T) {
	cases := []struct {
		raw  string
		kind catalog.Kind
		text string
	}{
		{"120", catalog.KindInt, "120"},
		{"-4", catalog.KindInt, "-4"},
		{"0.4", catalog.KindFloat, "0.4"},
		{"2.5", catalog.KindFloat, "2.5"},
		{"Grid layout 2", catalog.KindString, "Grid layout 2"},
		{"Yes", catalog.KindString, "Yes"},
		{"1.2.3", catalog.KindString, "1.2.3"},
		{"", catalog.KindString, ""},
	}
	for _, c := range cases {
		v := catalog.ParseValue(c.raw)
		if v.Kind() != c.kind {
			t.Errorf("ParseValue(%q): kind = %v, want %v", c.raw, v.Kind(), c.kind)
		}
		if v.String() != c.text {
			t.Errorf("ParseValue(%q): String() = %q, want %q", c.raw, v.String(), c.text)
		}
	}
}

func TestValueOfJSONNumbers(t *testing.T) {
	v, err := catalog.ValueOf(float64(120))
	if err != nil {
		t.Fatalf("ValueOf: %v", err)
	}
	if v.Kind() != catalog.KindInt || v.Int() != 120 {
		t.Errorf("whole float64 = %v (%v), want int 120", v, v.Kind())
	}

	v, err = catalog.ValueOf(0.4)
	if err != nil {
		t.Fatalf("ValueOf: %v", err)
	}
	if v.Kind() != catalog.KindFloat {
		t.Errorf("fractional float64 kind = %v, want KindFloat", v.Kind())
	}

	if _, err := catalog.ValueOf(nil); err == nil {
		t.Error("expected error for null value")
	}
}

func TestValueFormat(t *testing.T) {
	cases := []struct {
		v    catalog.Value
		unit string
		want string
	}{
		{catalog.IntValue(120), "mm", "120 mm"},
		{catalog.IntValue(120), "", "120"},
		{catalog.FloatValue(0.4), "mm", "0.4 mm"},
		{catalog.FloatValue(2.5), "", "2.5"},
		{catalog.StringValue("None"), "", "None"},
	}
	for _, c := range cases {
		if got := c.v.Format(c.unit); got != c.want {
			t.Errorf("Format(%q) = %q, want %q", c.unit, got, c.want)
		}
	}
}

func TestValueIdentity(t *testing.T) {
	if !catalog.IntValue(1).Equal(catalog.FloatValue(1.0)) {
		t.Error("1 and 1.0 should be the same set member")
	}
	if catalog.IntValue(1).Equal(catalog.StringValue("1")) {
		t.Error("number 1 and string \"1\" are distinct members")
	}
}

func TestValueCompare(t *testing.T) {
	lt := func(a, b catalog.Value) {
		t.Helper()
		if a.Compare(b) >= 0 {
			t.Errorf("Compare(%v, %v) = %d, want < 0", a, b, a.Compare(b))
		}
		if b.Compare(a) <= 0 {
			t.Errorf("Compare(%v, %v) = %d, want > 0", b, a, b.Compare(a))
		}
	}
	lt(catalog.IntValue(60), catalog.IntValue(120))
	lt(catalog.FloatValue(0.4), catalog.IntValue(1))
	lt(catalog.IntValue(9), catalog.StringValue("Grid layout 1"))
	lt(catalog.StringValue("No"), catalog.StringValue("Yes"))

	if catalog.IntValue(1).Compare(catalog.FloatValue(1.0)) != 0 {
		t.Error("1 and 1.0 should compare equal")
	}
}
