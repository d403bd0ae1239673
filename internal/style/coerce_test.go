package style

import (
	"testing"

	"github.com/renamecraft/renamecraft/internal/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tokensOf(t *testing.T, s string) []token.Token {
	t.Helper()
	tz := token.NewTokenizer(nil)
	toks, err := tz.Tokenize(s)
	require.NoError(t, err)
	return toks
}

func TestCoerceNamespaceDoubleColon(t *testing.T) {
	// spec.md §8 scenario 3: "api::old_client::fetch" coerces to snake.
	res := Coerce(Context{
		Before:             []byte("api::"),
		After:              []byte("::fetch"),
		NewTokens:          tokensOf(t, "new_client"),
		DefaultReplacement: "newClient",
	})

	assert.True(t, res.Coerced)
	assert.Equal(t, "new_client", res.Replacement)
}

func TestCoerceNamespaceDot(t *testing.T) {
	res := Coerce(Context{
		Before:             []byte("com."),
		After:              []byte(".widget"),
		NewTokens:          tokensOf(t, "new_client"),
		DefaultReplacement: "newClient",
	})

	assert.True(t, res.Coerced)
	assert.Equal(t, "new.client", res.Replacement)
}

func TestCoerceURL(t *testing.T) {
	res := Coerce(Context{
		Before:             []byte("https://"),
		After:              []byte("/releases"),
		NewTokens:          tokensOf(t, "new_client"),
		DefaultReplacement: "newClient",
	})

	assert.Equal(t, "new-client", res.Replacement)
}

func TestCoercePath(t *testing.T) {
	res := Coerce(Context{
		Before:             []byte("src/"),
		After:              []byte(".ts"),
		NewTokens:          tokensOf(t, "new_gadget"),
		DefaultReplacement: "newGadget",
	})

	// No dashes or underscores nearby: dominant style ties, defaulting to snake.
	assert.Equal(t, "new_gadget", res.Replacement)
}

func TestCoerceDefaultNoOverride(t *testing.T) {
	res := Coerce(Context{
		Before:             []byte("let x = "),
		After:              []byte(";"),
		NewTokens:          tokensOf(t, "new_client"),
		DefaultReplacement: "newClient",
	})

	assert.False(t, res.Coerced)
	assert.Equal(t, "newClient", res.Replacement)
}
