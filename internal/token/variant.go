package token

// VariantMap is a finite mapping from old concrete string to new concrete
// string, one entry per enabled style plus the verbatim old->new pair
// (spec.md §3). Entries are deduplicated by key, preserving first-seen
// insertion order so callers get a deterministic iteration order.
type VariantMap struct {
	order  []string
	pairs  map[string]string
	styles map[string]string // key -> style name ("verbatim" for the raw pair)
}

// NewVariantMap creates an empty VariantMap.
func NewVariantMap() *VariantMap {
	return &VariantMap{pairs: make(map[string]string), styles: make(map[string]string)}
}

// Put inserts key->value if key hasn't been seen, preserving the existing
// entry for the rest (first enabled style to claim a key wins). The key is
// tagged "verbatim"; use PutStyled to tag it with a specific Style's name.
func (vm *VariantMap) Put(key, value string) {
	vm.PutStyled(key, value, "verbatim")
}

// PutStyled inserts key->value tagged with styleName if key hasn't been seen.
func (vm *VariantMap) PutStyled(key, value, styleName string) {
	if _, ok := vm.pairs[key]; ok {
		return
	}
	vm.order = append(vm.order, key)
	vm.pairs[key] = value
	vm.styles[key] = styleName
}

// StyleOf returns the style name a key was tagged with, or "" if unknown.
func (vm *VariantMap) StyleOf(key string) string {
	return vm.styles[key]
}

// Keys returns the old-string keys in insertion order.
func (vm *VariantMap) Keys() []string {
	out := make([]string, len(vm.order))
	copy(out, vm.order)
	return out
}

// Get returns the replacement for key and whether it was present.
func (vm *VariantMap) Get(key string) (string, bool) {
	v, ok := vm.pairs[key]
	return v, ok
}

// Len reports the number of distinct keys.
func (vm *VariantMap) Len() int { return len(vm.order) }

// Variants builds the VariantMap driving both scanning and replacement: for
// each enabled style S, it maps render(S, tokenize(old)) -> render(S,
// tokenize(new)), plus the verbatim old->new pair. The old and new token
// lists are rendered independently, so their token counts need not match:
// each key maps to the rendering of new's full token list, a direct
// token-list substitution (spec.md §4.1).
func Variants(tz *Tokenizer, old, new_ string, styles []Style) (*VariantMap, error) {
	oldTokens, err := tz.Tokenize(old)
	if err != nil {
		return nil, err
	}
	newTokens, err := tz.Tokenize(new_)
	if err != nil {
		return nil, err
	}

	vm := NewVariantMap()
	vm.Put(old, new_) // verbatim pair always present

	for _, s := range styles {
		vm.PutStyled(Render(s, oldTokens), Render(s, newTokens), string(s))
	}

	return vm, nil
}
