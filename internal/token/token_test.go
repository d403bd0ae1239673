package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenize(t *testing.T) {
	tz := NewTokenizer(nil)

	tests := []struct {
		name string
		in   string
		want []Token
	}{
		{"snake", "user_name", []Token{"user", "name"}},
		{"kebab", "user-name", []Token{"user", "name"}},
		{"camel", "userName", []Token{"user", "name"}},
		{"pascal", "UserName", []Token{"user", "name"}},
		{"screaming_snake", "USER_NAME", []Token{"user", "name"}},
		{"acronym_prefix", "XMLParser", []Token{"xml", "parser"}},
		{"digit_boundary", "user2Name", []Token{"user", "2", "name"}},
		{"dot_path", "api.old.client", []Token{"api", "old", "client"}},
		{"single_lower", "widget", []Token{"widget"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tz.Tokenize(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTokenizeAtomic(t *testing.T) {
	tz := NewTokenizer([]string{"DocSpring"})

	got, err := tz.Tokenize("DocSpringUser")
	require.NoError(t, err)
	assert.Equal(t, []Token{"docspring", "user"}, got)
}

func TestTokenizeAmbiguousInput(t *testing.T) {
	tz := NewTokenizer(nil)

	_, err := tz.Tokenize("___")
	require.Error(t, err)
}

func TestRenderRoundTrip(t *testing.T) {
	tz := NewTokenizer(nil)

	for _, style := range AllStyles {
		tokens, err := tz.Tokenize("user_name")
		require.NoError(t, err)

		rendered := Render(style, tokens)
		got, err := tz.Tokenize(rendered)
		require.NoError(t, err)
		assert.Equal(t, tokens, got, "round trip failed for style %s (%q)", style, rendered)
	}
}

func TestRenderStyles(t *testing.T) {
	tokens := []Token{"user", "name"}

	tests := []struct {
		style Style
		want  string
	}{
		{Snake, "user_name"},
		{Kebab, "user-name"},
		{Camel, "userName"},
		{Pascal, "UserName"},
		{ScreamingSnake, "USER_NAME"},
		{ScreamingKebab, "USER-NAME"},
		{Title, "User Name"},
		{Dot, "user.name"},
		{LowerFlat, "username"},
		{UpperFlat, "USERNAME"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Render(tt.style, tokens), "style %s", tt.style)
	}
}

func TestVariantsScenario1(t *testing.T) {
	// spec.md §8 scenario 1: old="user_name", new="customer_name".
	tz := NewTokenizer(nil)
	vm, err := Variants(tz, "user_name", "customer_name", []Style{Snake, Camel, Pascal})
	require.NoError(t, err)

	snakeOut, ok := vm.Get("user_name")
	require.True(t, ok)
	assert.Equal(t, "customer_name", snakeOut)

	camelOut, ok := vm.Get("userName")
	require.True(t, ok)
	assert.Equal(t, "customerName", camelOut)

	pascalOut, ok := vm.Get("UserName")
	require.True(t, ok)
	assert.Equal(t, "CustomerName", pascalOut)
}

func TestVariantsDeduplicatesKeys(t *testing.T) {
	// A single lowercase token collapses camel/snake/lower_flat and the
	// verbatim key to the same string; pascal renders it as "Widget".
	tz := NewTokenizer(nil)
	vm, err := Variants(tz, "widget", "gadget", []Style{Snake, Camel, Pascal, LowerFlat})
	require.NoError(t, err)

	// "widget" appears once no matter how many styles would have produced it.
	count := 0
	for _, k := range vm.Keys() {
		if k == "widget" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestClassesDiffer(t *testing.T) {
	assert.True(t, ClassesDiffer('d', 'N', true, true), "lower vs upper differ")
	assert.False(t, ClassesDiffer('d', 'e', true, true), "lower vs lower same")
	assert.True(t, ClassesDiffer('d', 0, true, false), "file boundary always differs")
}
