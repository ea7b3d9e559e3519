package auth

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBcryptHasher_HashAndCompare(t *testing.T) {
	hasher := NewBcryptHasher(4) // low cost keeps the test fast

	hash, err := hasher.Hash("correct horse battery staple")
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	require.NotEqual(t, "correct horse battery staple", hash)

	require.NoError(t, hasher.Compare(hash, "correct horse battery staple"))
	require.Error(t, hasher.Compare(hash, "wrong password"))
}
