// Package style implements the contextual style coercer: it inspects the
// bytes surrounding a raw match and, when the surroundings are unambiguously
// a path, a URL, or a namespaced identifier, overrides the replacement's
// separator style to match (spec.md §4.3).
package style

import (
	"regexp"
	"strings"

	"github.com/renamecraft/renamecraft/internal/token"
)

// windowBytes is the bounded context window inspected on each side of a
// match, per spec.md §4.3.
const windowBytes = 32

// schemeRe detects a URL scheme prefix like "https://" inside the window,
// followed only by non-whitespace up to the match.
var schemeRe = regexp.MustCompile(`[a-zA-Z][a-zA-Z0-9+.-]*://\S*$`)

// Context carries the bytes around a match site needed to decide coercion.
type Context struct {
	// Before is up to windowBytes of file content immediately preceding the
	// match; After is up to windowBytes immediately following it.
	Before, After []byte
	// NewTokens is the token list for the replacement side of the matched
	// variant, used to re-render under a coerced style.
	NewTokens []token.Token
	// DefaultReplacement is the VariantMap's replacement for this key,
	// returned unchanged when no coercion applies.
	DefaultReplacement string
}

// Result is the outcome of coercion.
type Result struct {
	Replacement string
	Coerced     bool
}

// Coerce decides the replacement text for a single match, overriding the
// separator style when the surrounding bytes are unambiguously a path, a
// URL, or a namespaced identifier. Coercion never changes which tokens are
// emitted, only how they are joined (spec.md §4.3).
func Coerce(ctx Context) Result {
	before := lastWindow(ctx.Before, windowBytes)
	after := firstWindow(ctx.After, windowBytes)

	switch {
	case isURLContext(before):
		return render(ctx, token.Kebab)
	case isPathContext(before, after):
		return render(ctx, dominantPathStyle(before, after))
	case isNamespaceContext(before, after, "::"):
		return render(ctx, token.Snake)
	case isNamespaceContext(before, after, "."):
		return render(ctx, token.Dot)
	default:
		return Result{Replacement: ctx.DefaultReplacement, Coerced: false}
	}
}

func render(ctx Context, style token.Style) Result {
	out := token.Render(style, ctx.NewTokens)
	return Result{Replacement: out, Coerced: out != ctx.DefaultReplacement}
}

// isURLContext reports whether before contains a scheme-like prefix such as
// "https://" with no intervening whitespace up to the match.
func isURLContext(before []byte) bool {
	return schemeRe.Match(before)
}

// isPathContext reports whether the immediate neighbors contain a path
// separator with no word characters between the separator and the match.
func isPathContext(before, after []byte) bool {
	return endsWithPathSep(before) || startsWithPathSep(after)
}

func endsWithPathSep(b []byte) bool {
	if len(b) == 0 {
		return false
	}
	return b[len(b)-1] == '/' || b[len(b)-1] == '\\'
}

func startsWithPathSep(b []byte) bool {
	if len(b) == 0 {
		return false
	}
	return b[0] == '/' || b[0] == '\\'
}

// dominantPathStyle picks kebab or snake to match the dominant separator
// already present in the surrounding path text.
func dominantPathStyle(before, after []byte) token.Style {
	dashes := strings.Count(string(before), "-") + strings.Count(string(after), "-")
	underscores := strings.Count(string(before), "_") + strings.Count(string(after), "_")
	if dashes > underscores {
		return token.Kebab
	}
	return token.Snake
}

// isNamespaceContext reports whether sep (either "::" or ".") appears
// immediately adjacent to the match on either side, signaling a
// module/namespace path rather than free text.
func isNamespaceContext(before, after []byte, sep string) bool {
	return strings.HasSuffix(string(before), sep) || strings.HasPrefix(string(after), sep)
}

func lastWindow(b []byte, n int) []byte {
	if len(b) <= n {
		return b
	}
	return b[len(b)-n:]
}

func firstWindow(b []byte, n int) []byte {
	if len(b) <= n {
		return b
	}
	return b[:n]
}
