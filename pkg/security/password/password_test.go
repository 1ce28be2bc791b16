package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerify(t *testing.T) {
	hasher := NewHasher(bcrypt.MinCost)

	tests := []struct {
		name      string
		plaintext string
	}{
		{name: "simple password", plaintext: "12345"},
		{name: "complex password", plaintext: "P@ssw0rd!#$%^&*()"},
		{name: "unicode password", plaintext: "비밀번호123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			secret, err := hasher.Hash(tt.plaintext)
			require.NoError(t, err)
			require.NotEmpty(t, secret)
			assert.NotEqual(t, tt.plaintext, secret)

			assert.True(t, hasher.Verify(tt.plaintext, secret))
			assert.False(t, hasher.Verify(tt.plaintext+"x", secret))
			assert.False(t, hasher.Verify("", secret))
		})
	}
}

func TestHashIsSalted(t *testing.T) {
	hasher := NewHasher(bcrypt.MinCost)

	first, err := hasher.Hash("samepassword")
	require.NoError(t, err)
	second, err := hasher.Hash("samepassword")
	require.NoError(t, err)

	// Same plaintext, different salts, both valid.
	assert.NotEqual(t, first, second)
	assert.True(t, hasher.Verify("samepassword", first))
	assert.True(t, hasher.Verify("samepassword", second))
}

func TestNewHasherClampsCost(t *testing.T) {
	assert.Equal(t, DefaultCost, NewHasher(-1).cost)
	assert.Equal(t, DefaultCost, NewHasher(bcrypt.MaxCost+1).cost)
	assert.Equal(t, bcrypt.MinCost, NewHasher(bcrypt.MinCost).cost)
}
