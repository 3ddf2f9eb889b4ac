package lexer

import (
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/latticec/wfc/pkgs/diag"
	"github.com/latticec/wfc/pkgs/token"
)

// suggestKeyword checks whether an identifier that just missed keyword
// promotion is a near-miss typo of a real keyword (e.g. "retrun" for
// "return"), and if so records an info-level diagnostic carrying the
// suggestion. This never changes the token's Kind — the identifier
// stays an identifier per spec.md §4.1 — it only enriches diagnostics,
// the concrete home for lithammer/fuzzysearch named in SPEC_FULL.md.
func (s *Scanner) suggestKeyword(text string, pos token.Position) {
	if len(text) < 3 {
		return
	}
	lower := strings.ToLower(text)
	best, bestDist := "", -1
	for _, kw := range KeywordNames() {
		d := fuzzy.LevenshteinDistance(lower, kw)
		if bestDist < 0 || d < bestDist || (d == bestDist && kw < best) {
			best, bestDist = kw, d
		}
	}
	if bestDist <= 0 || bestDist > 2 {
		return
	}
	s.diags.Add(diag.Diagnostic{
		Severity:   diag.Info,
		Category:   diag.Lexical,
		Position:   pos,
		Message:    "identifier closely resembles a keyword",
		Suggestion: best,
	})
}
