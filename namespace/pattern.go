package namespace

import (
	"strings"
	"unicode"

	"github.com/gobwas/glob"
)

// Pattern is a single compiled namespace pattern.
//
// The source token is kept next to the compiled matcher so a PatternSet can be
// serialized back to an enable-string without looking at the matcher itself.
type Pattern struct {
	source string
	g      glob.Glob
	minLen int
}

// NewPattern compiles a single token. A '*' matches any run of characters,
// everything else matches literally. If compilation fails the pattern matches
// nothing.
func NewPattern(source string) Pattern {
	segments := strings.Split(source, "*")
	for i, seg := range segments {
		segments[i] = glob.QuoteMeta(seg)
	}

	g, err := glob.Compile(strings.Join(segments, "*"))
	if err != nil {
		return Pattern{source: source}
	}
	// the literal parts of the pattern may not overlap in a match
	minLen := len(strings.ReplaceAll(source, "*", ""))
	return Pattern{source: source, g: g, minLen: minLen}
}

// Match reports whether name matches the whole pattern.
func (p Pattern) Match(name string) bool {
	if p.g == nil || len(name) < p.minLen {
		return false
	}
	return p.g.Match(name)
}

// String returns the token the pattern was compiled from.
func (p Pattern) String() string {
	return p.source
}

// PatternSet is the compiled form of an enable-string. It is immutable once
// built; reconfiguration builds a new set.
type PatternSet struct {
	positives []Pattern
	negatives []Pattern
}

// Compile turns an enable-string such as "api:*,-api:internal worker" into a
// PatternSet. Tokens are separated by any mix of commas and whitespace and
// empty tokens are skipped. A leading '-' marks a negation.
func Compile(s string) *PatternSet {
	ps := &PatternSet{}
	for _, tok := range splitTokens(s) {
		if strings.HasPrefix(tok, "-") {
			ps.negatives = append(ps.negatives, NewPattern(tok[1:]))
			continue
		}
		ps.positives = append(ps.positives, NewPattern(tok))
	}
	return ps
}

func splitTokens(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
}

// Enabled reports whether name is enabled by the set.
//
// A name ending in '*' is always enabled. Otherwise negations are checked
// first and win over any positive match regardless of declaration order.
// A nil set enables nothing.
func (ps *PatternSet) Enabled(name string) bool {
	if strings.HasSuffix(name, "*") {
		return true
	}
	if ps == nil {
		return false
	}

	for _, p := range ps.negatives {
		if p.Match(name) {
			return false
		}
	}
	for _, p := range ps.positives {
		if p.Match(name) {
			return true
		}
	}
	return false
}

// Positives returns the source tokens of the positive patterns.
func (ps *PatternSet) Positives() []string {
	if ps == nil {
		return nil
	}
	return sources(ps.positives)
}

// Negatives returns the source tokens of the negated patterns, without the
// leading '-'.
func (ps *PatternSet) Negatives() []string {
	if ps == nil {
		return nil
	}
	return sources(ps.negatives)
}

// Empty reports whether the set has no patterns at all.
func (ps *PatternSet) Empty() bool {
	return ps == nil || len(ps.positives)+len(ps.negatives) == 0
}

// String serializes the set into its canonical enable-string: positives
// first, then negations prefixed with '-', joined by commas. Compiling the
// result yields a set with the same matching behavior.
func (ps *PatternSet) String() string {
	if ps == nil {
		return ""
	}

	parts := make([]string, 0, len(ps.positives)+len(ps.negatives))
	parts = append(parts, sources(ps.positives)...)
	for _, p := range ps.negatives {
		parts = append(parts, "-"+p.source)
	}
	return strings.Join(parts, ",")
}

func sources(patterns []Pattern) []string {
	out := make([]string, len(patterns))
	for i, p := range patterns {
		out[i] = p.source
	}
	return out
}
