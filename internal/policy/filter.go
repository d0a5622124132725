// Package policy decides whether message text contains contact-sharing
// intent that must be blocked until a match is paid for and unlocked.
package policy

// Filter evaluates message text against a rule table. Zero I/O; safe for
// concurrent use once constructed.
type Filter struct {
	rules []Rule
}

// NewFilter returns a Filter with the default rule table.
func NewFilter() *Filter {
	return &Filter{rules: DefaultRules()}
}

// NewFilterWithRules returns a Filter over a caller-supplied rule table.
func NewFilterWithRules(rules []Rule) *Filter {
	return &Filter{rules: rules}
}

// IsBlocked reports whether text must be rejected. Once a match is
// unlocked there is no restriction at all.
func (f *Filter) IsBlocked(text string, unlocked bool) bool {
	if unlocked {
		return false
	}
	_, hit := f.Match(text)
	return hit
}

// Match returns the first category whose patterns hit the text.
func (f *Filter) Match(text string) (category string, hit bool) {
	if text == "" {
		return "", false
	}
	for _, rule := range f.rules {
		for _, p := range rule.Patterns {
			if p.MatchString(text) {
				return rule.Category, true
			}
		}
	}
	return "", false
}
