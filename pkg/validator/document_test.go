package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidDocument(t *testing.T) {
	t.Run("valid CPF", func(t *testing.T) {
		assert.True(t, IsValidDocument("529.982.247-25"))
		assert.True(t, IsValidDocument("52998224725"))
	})

	t.Run("invalid CPF", func(t *testing.T) {
		assert.False(t, IsValidDocument("529.982.247-26"))
		assert.False(t, IsValidDocument("111.111.111-11"))
		assert.False(t, IsValidDocument("123"))
	})

	t.Run("valid CNPJ", func(t *testing.T) {
		assert.True(t, IsValidDocument("11.222.333/0001-81"))
		assert.True(t, IsValidDocument("11222333000181"))
	})

	t.Run("invalid CNPJ", func(t *testing.T) {
		assert.False(t, IsValidDocument("11.222.333/0001-80"))
		assert.False(t, IsValidDocument("00.000.000/0000-00"))
	})

	t.Run("empty", func(t *testing.T) {
		assert.False(t, IsValidDocument(""))
	})
}

func TestNormalizeDocument(t *testing.T) {
	assert.Equal(t, "52998224725", NormalizeDocument("529.982.247-25"))
	assert.Equal(t, "11222333000181", NormalizeDocument("11.222.333/0001-81"))
}
