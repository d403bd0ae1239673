package token

import (
	"strings"
	"unicode"

	"github.com/renamecraft/renamecraft/internal/errs"
)

// Style is a rendering of a token list with a fixed separator and
// capitalization pattern (spec.md §3). "Original" is deliberately absent:
// verbatim preservation of the input is handled by the caller, not a Style.
type Style string

const (
	Snake           Style = "snake"            // a_b_c
	Kebab           Style = "kebab"             // a-b-c
	Camel           Style = "camel"             // aBC
	Pascal          Style = "pascal"            // ABc
	ScreamingSnake  Style = "screaming_snake"    // A_B_C
	ScreamingKebab  Style = "screaming_kebab"    // A-B-C (alias: "train")
	Title           Style = "title"             // A B C
	Dot             Style = "dot"                // a.b.c
	LowerFlat       Style = "lower_flat"         // abc
	UpperFlat       Style = "upper_flat"         // ABC
)

// AllStyles is the fixed enumeration of renderable styles, in the order
// they appear in spec.md §3.
var AllStyles = []Style{
	Snake, Kebab, Camel, Pascal, ScreamingSnake, ScreamingKebab, Title, Dot, LowerFlat, UpperFlat,
}

// ParseStyle resolves a style name, accepting "train" as an alias for
// ScreamingKebab per spec.md §3.
func ParseStyle(name string) (Style, error) {
	switch Style(name) {
	case Snake, Kebab, Camel, Pascal, ScreamingSnake, ScreamingKebab, Title, Dot, LowerFlat, UpperFlat:
		return Style(name), nil
	case "train":
		return ScreamingKebab, nil
	default:
		return "", errs.InvalidInput("unknown style " + name)
	}
}

// Render renders a token list in the given style. An empty token list
// renders to the empty string.
func Render(style Style, tokens []Token) string {
	if len(tokens) == 0 {
		return ""
	}

	switch style {
	case Snake:
		return join(tokens, "_", strings.ToLower)
	case Kebab:
		return join(tokens, "-", strings.ToLower)
	case ScreamingSnake:
		return join(tokens, "_", strings.ToUpper)
	case ScreamingKebab:
		return join(tokens, "-", strings.ToUpper)
	case Title:
		return join(tokens, " ", titleCase)
	case Dot:
		return join(tokens, ".", strings.ToLower)
	case LowerFlat:
		return join(tokens, "", strings.ToLower)
	case UpperFlat:
		return join(tokens, "", strings.ToUpper)
	case Camel:
		return renderCamel(tokens, false)
	case Pascal:
		return renderCamel(tokens, true)
	default:
		return join(tokens, "_", strings.ToLower)
	}
}

func join(tokens []Token, sep string, wordCase func(string) string) string {
	parts := make([]string, len(tokens))
	for i, t := range tokens {
		parts[i] = wordCase(string(t))
	}
	return strings.Join(parts, sep)
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

// renderCamel renders camelCase (first token lowercase) or PascalCase
// (every token capitalized).
func renderCamel(tokens []Token, pascal bool) string {
	var b strings.Builder
	for i, t := range tokens {
		word := string(t)
		if i == 0 && !pascal {
			b.WriteString(strings.ToLower(word))
			continue
		}
		b.WriteString(titleCase(word))
	}
	return b.String()
}
