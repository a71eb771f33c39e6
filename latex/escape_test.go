package latex

import "testing"

func TestEscapeSpecialCharacters(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"plain text", "plain text"},
		{"50% larger", `50\% larger`},
		{"part_id", `part\_id`},
		{"{braces}", `\{braces\}`},
		{"#4 & #5", `\#4 \& \#5`},
		{"$5", `\$5`},
		{"~", `\~{}`},
		{"^", `\^{}`},
		{`back\slash`, `back\textbackslash{}slash`},
		{`he said "no"`, "he said no"},
		{"wait...", `wait\ldots{}`},
		{"wait.....", `wait\ldots{}`},
		{"a/b", `a\/b`},
		{"..", ".."},
	}
	for _, c := range cases {
		if got := Escape(c.in); got != c.want {
			t.Errorf("Escape(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestEscapeDoesNotReprocessInsertions(t *testing.T) {
	// The backslashes and braces inserted by the escaping itself must
	// survive untouched.
	got := Escape(`100% \done`)
	want := `100\% \textbackslash{}done`
	if got != want {
		t.Errorf("Escape = %q, want %q", got, want)
	}
}
