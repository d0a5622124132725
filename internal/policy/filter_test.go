package policy

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsBlocked_UnlockedNeverBlocks(t *testing.T) {
	f := NewFilter()

	// Every one of these hits a rule when locked.
	texts := []string{
		"call me at 08012345678",
		"add me on whatsapp",
		"jane@example.com",
		"i live in lekki",
	}

	for _, text := range texts {
		assert.True(t, f.IsBlocked(text, false), "locked match should block %q", text)
		assert.False(t, f.IsBlocked(text, true), "unlocked match must never block %q", text)
	}
}

func TestMatch_Categories(t *testing.T) {
	f := NewFilter()

	tests := []struct {
		name     string
		input    string
		category string
		hit      bool
	}{
		{"raw phone number", "here 08012345678 ok", "phone", true},
		{"call intent", "just CALL when you can", "phone", true},
		{"whatsapp", "my WhatsApp is free", "messaging_app", true},
		{"dm me", "dm me on the other app", "messaging_app", true},
		{"email shape", "reach me at Jane.Doe+x@mail.co", "email", true},
		{"address vocab", "my place is nice", "address", true},
		{"house number", "house 10 down the street", "address", true},
		{"no dot number", "it's no. 6", "address", true},
		{"meet intent", "make we meet tomorrow", "meet_intent", true},
		{"come over", "come over this evening", "meet_intent", true},
		{"city name", "I grew up in Ibadan", "location_name", true},
		{"lagos area", "surulere side", "location_name", true},
		{"clean text", "how was your day?", "", false},
		{"short digits pass", "I am 27", "", false},
		{"empty text", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			category, hit := f.Match(tt.input)
			assert.Equal(t, tt.hit, hit, "Match(%q)", tt.input)
			assert.Equal(t, tt.category, category, "Match(%q) category", tt.input)
		})
	}
}

func TestMatch_CaseInsensitive(t *testing.T) {
	f := NewFilter()

	for _, text := range []string{"WHATSAPP", "WhatsApp", "whatsapp"} {
		category, hit := f.Match(text)
		assert.True(t, hit, "case variant %q should hit", text)
		assert.Equal(t, "messaging_app", category)
	}
}

func TestNewFilterWithRules_ExtensibleWithoutTouchingCallSites(t *testing.T) {
	custom := append(DefaultRules(), Rule{
		Category: "handles",
		Patterns: []*regexp.Regexp{regexp.MustCompile(`(?i)\bsnap\b`)},
	})
	f := NewFilterWithRules(custom)

	category, hit := f.Match("add my snap")
	assert.True(t, hit)
	assert.Equal(t, "handles", category)

	// Default categories still present.
	assert.True(t, f.IsBlocked("meet me later", false))
}

func TestDefaultRules_AllPatternsCompiledCaseInsensitive(t *testing.T) {
	for _, rule := range DefaultRules() {
		assert.NotEmpty(t, rule.Category)
		assert.NotEmpty(t, rule.Patterns, "category %s has no patterns", rule.Category)
	}
}
