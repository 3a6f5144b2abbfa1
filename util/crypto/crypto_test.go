package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheck(t *testing.T) {
	hash, err := HashPasswordAsBcrypt("secret")
	require.NoError(t, err)

	assert.True(t, IsBcryptHash(hash))
	assert.True(t, CheckPasswordHash(hash, "secret"))
	assert.False(t, CheckPasswordHash(hash, "Secret"))
}

func TestIsBcryptHash(t *testing.T) {
	assert.False(t, IsBcryptHash("secret"))
	assert.False(t, IsBcryptHash("$2a$short"))
	assert.False(t, IsBcryptHash(""))
}
