package token

import "testing"

func TestKindString(t *testing.T) {
	cases := map[Kind]string{
		Identifier: "identifier",
		EOF:        "end-of-input",
		Invalid:    "invalid",
	}
	for k, want := range cases {
		if got := k.String(); got != want {
			t.Errorf("Kind(%d).String() = %q, want %q", k, got, want)
		}
	}
	if got := Kind(999).String(); got != "Kind(999)" {
		t.Errorf("out-of-range Kind.String() = %q", got)
	}
}

func TestPositionEnd(t *testing.T) {
	p := Position{Offset: 10, Length: 4}
	if got := p.End(); got != 14 {
		t.Errorf("End() = %d, want 14", got)
	}
}

func TestTokenIsTrivia(t *testing.T) {
	cases := []struct {
		kind   Kind
		trivia bool
	}{
		{Whitespace, true},
		{Comment, true},
		{Identifier, false},
		{Operator, false},
	}
	for _, c := range cases {
		tok := Token{Kind: c.kind}
		if got := tok.IsTrivia(); got != c.trivia {
			t.Errorf("Token{Kind: %s}.IsTrivia() = %v, want %v", c.kind, got, c.trivia)
		}
	}
}

func TestTokenString(t *testing.T) {
	tok := Token{Kind: Identifier, Text: "x", Position: Position{Line: 1, Column: 2}}
	want := `identifier("x")@1:2`
	if got := tok.String(); got != want {
		t.Errorf("Token.String() = %q, want %q", got, want)
	}
}
