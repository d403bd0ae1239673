// Package token splits identifiers into case-normalized tokens and renders
// them back out in any of the supported naming styles.
package token

import (
	"strings"
	"unicode"

	"github.com/renamecraft/renamecraft/internal/errs"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// class is the character class used by the boundary rule: two adjacent
// runes belong to the same token unless a class transition or explicit
// separator sits between them.
type class int

const (
	classSeparator class = iota
	classLower
	classUpper
	classDigit
	classOther
)

// separators are the explicit token-boundary characters (spec.md §3).
func isSeparator(r rune) bool {
	switch r {
	case '_', '-', '.', ' ', '/':
		return true
	}
	return false
}

func classify(r rune) class {
	switch {
	case isSeparator(r):
		return classSeparator
	case unicode.IsUpper(r):
		return classUpper
	case unicode.IsLower(r):
		return classLower
	case unicode.IsDigit(r):
		return classDigit
	default:
		return classOther
	}
}

// ClassesDiffer reports whether the runes on either side of a candidate
// match edge belong to different classes, or either side is absent (a file
// boundary). It is the boundary rule the scanner applies at both ends of a
// match (spec.md §4.2).
func ClassesDiffer(before, after rune, beforeOK, afterOK bool) bool {
	if !beforeOK || !afterOK {
		return true
	}
	return classify(before) != classify(after)
}

// normalize applies NFC Unicode normalization and strips combining marks
// that would otherwise split a token mid-grapheme (e.g. a precomposed vs.
// decomposed accented letter reaching the tokenizer as two runes).
func normalize(s string) string {
	out, _, err := transform.String(transform.Chain(norm.NFC, runes.Remove(runes.In(unicode.Mn))), s)
	if err != nil {
		return s
	}
	return out
}

// Token is one maximal substring of an identifier belonging to a single
// character class, case-normalized to lowercase once recognized. The
// original casing is discarded once tokens are known (spec.md §3).
type Token string

// Tokenizer splits identifiers into Tokens, honoring a configured set of
// atomic identifiers that must never be split.
type Tokenizer struct {
	atomics []string // sorted longest-first so the longest atomic wins a tie
}

// NewTokenizer creates a Tokenizer. Atomic identifiers are matched
// case-sensitively as a whole-token prefix at the current scan position
// (spec.md §4.1); they take priority over acronym splitting per the Open
// Question resolution recorded in DESIGN.md.
func NewTokenizer(atomics []string) *Tokenizer {
	sorted := make([]string, len(atomics))
	copy(sorted, atomics)
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && len(sorted[j]) > len(sorted[j-1]); j-- {
			sorted[j], sorted[j-1] = sorted[j-1], sorted[j]
		}
	}
	return &Tokenizer{atomics: sorted}
}

// Tokenize splits s into Tokens via a single left-to-right pass, emitting a
// boundary at every explicit separator, lower→upper transition,
// letter→digit/digit→letter transition, and acronym boundary (a run of two
// or more uppercase letters followed by a lowercase letter splits before the
// last uppercase letter, e.g. "XMLParser" -> "XML", "Parser").
//
// Fails with AmbiguousInput if s has zero tokens after splitting.
func (tz *Tokenizer) Tokenize(s string) ([]Token, error) {
	s = normalize(s)
	runesIn := []rune(s)
	var tokens []Token
	i := 0
	n := len(runesIn)

	for i < n {
		if isSeparator(runesIn[i]) {
			i++
			continue
		}

		if lit, width := tz.matchAtomic(runesIn, i); width > 0 {
			tokens = append(tokens, Token(strings.ToLower(lit)))
			i += width
			continue
		}

		start := i
		i++
		for i < n && !isSeparator(runesIn[i]) && !isBoundary(runesIn, i) {
			i++
		}
		tokens = append(tokens, Token(strings.ToLower(string(runesIn[start:i]))))
	}

	if len(tokens) == 0 {
		return nil, errs.AmbiguousInput(s)
	}
	return tokens, nil
}

// matchAtomic returns the literal text and rune-width of an atomic
// identifier that matches s at position i, or ("", 0) if none matches.
func (tz *Tokenizer) matchAtomic(s []rune, i int) (string, int) {
	for _, atom := range tz.atomics {
		atomRunes := []rune(atom)
		w := len(atomRunes)
		if i+w > len(s) {
			continue
		}
		if string(s[i:i+w]) == atom {
			return atom, w
		}
	}
	return "", 0
}

// isBoundary reports whether a token boundary falls immediately before
// position i, given the already-scanned prefix.
func isBoundary(s []rune, i int) bool {
	prev, cur := s[i-1], s[i]
	prevClass, curClass := classify(prev), classify(cur)

	if prevClass == classLower && curClass == classUpper {
		return true // lower -> upper
	}
	if prevClass != classDigit && curClass == classDigit {
		return true // letter -> digit
	}
	if prevClass == classDigit && curClass != classDigit {
		return true // digit -> letter
	}
	// Acronym boundary: upper,upper,lower sequence splits between the two
	// uppers ("XMLParser" splits at "XML|Parser", not "XMLP|arser").
	if prevClass == classUpper && curClass == classUpper && i+1 < len(s) && classify(s[i+1]) == classLower {
		return true
	}
	return false
}

