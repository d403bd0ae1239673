package scan

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsBinaryNulByte(t *testing.T) {
	assert.True(t, IsBinary([]byte("hello\x00world")))
}

func TestIsBinaryPlainText(t *testing.T) {
	assert.False(t, IsBinary([]byte("package main\n\nfunc main() {}\n")))
}

func TestIsBinaryEmpty(t *testing.T) {
	assert.False(t, IsBinary(nil))
}

func TestIsBinaryHighInvalidUTF8Density(t *testing.T) {
	data := make([]byte, 0, 64)
	for i := 0; i < 64; i++ {
		data = append(data, 0x80+byte(i%16)) // continuation bytes with no lead byte: always invalid
	}
	assert.True(t, IsBinary(data))
}
