package policy

import "regexp"

// Rule is one category of contact-sharing patterns. The rule set is data:
// adding a category or a pattern never touches the send path.
type Rule struct {
	Category string
	Patterns []*regexp.Regexp
}

// DefaultRules returns the built-in rule table. Patterns are matched
// case-insensitively against the whole message text; a hit in any category
// blocks the message while the match is locked.
//
// The table is deliberately coarse. It is an anti-circumvention gate, not a
// security boundary: a false positive costs one annoyed retry, a false
// negative defeats the paywall.
func DefaultRules() []Rule {
	return []Rule{
		{
			Category: "phone",
			Patterns: compile(
				`\b\d{8,14}\b`,
				`\b(digit|number|contact)\b`,
				`\bcall\b`,
				`\btext me\b`,
			),
		},
		{
			Category: "messaging_app",
			Patterns: compile(
				`\bwhatsapp\b`,
				`\btelegram\b`,
				`\binstagram\b`,
				`\bdm me\b`,
				`\bwa\.me\b`,
			),
		},
		{
			Category: "email",
			Patterns: compile(
				`\b[a-z0-9._%+-]+@[a-z0-9.-]+\.[a-z]{2,}\b`,
			),
		},
		{
			Category: "address",
			Patterns: compile(
				`\bi live\b`,
				`\bi stay\b`,
				`\bmy place\b`,
				`\bmy house\b`,
				`\baddress\b`,
				`\bwhere you stay\b`,
				// Address structure: "no 6", "house 10", "flat 3b".
				`\bno\.?\s?\d+\b`,
				`\bhouse\s?\d+\b`,
				`\bflat\s?\d+\b`,
				`\bstreet\b`,
				`\broad\b`,
				`\bavenue\b`,
				`\bclose\b`,
			),
		},
		{
			Category: "meet_intent",
			Patterns: compile(
				`\bcome here\b`,
				`\bcome ehre\b`, // common typo, kept on purpose
				`\bcome over\b`,
				`\bmeet me\b`,
				`\bmeet\b`,
				`\blet us meet\b`,
				`\bmake we meet\b`,
				`\bmy area\b`,
				`\bnear me\b`,
				`\baround here\b`,
			),
		},
		{
			Category: "location_name",
			Patterns: compile(
				`\blagos\b`,
				`\babuja\b`,
				`\bibadan\b`,
				`\bport harcourt\b`,
				`\benugu\b`,
				`\bowerri\b`,
				`\baba\b`,
				`\bonitsha\b`,
				`\basaba\b`,
				`\bgbagada\b`,
				`\bikorodu\b`,
				`\blekki\b`,
				`\byaba\b`,
				`\bsurulere\b`,
				`\bajah\b`,
				`\bikoyi\b`,
				`\bikeja\b`,
			),
		},
	}
}

func compile(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(exprs))
	for _, e := range exprs {
		out = append(out, regexp.MustCompile(`(?i)`+e))
	}
	return out
}
