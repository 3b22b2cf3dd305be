package auth

import (
	"crypto/sha256"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/crypto/pbkdf2"
)

func TestPasswordHasher_RoundTripEveryScheme(t *testing.T) {
	for _, name := range []string{SchemeArgon2id, SchemePBKDF2SHA256, SchemeBcrypt} {
		hasher, err := NewPasswordHasher(name)
		require.NoError(t, err)
		assert.Equal(t, name, hasher.Scheme())

		hash, err := hasher.Hash("secret")
		require.NoError(t, err, name)
		assert.NotEqual(t, "secret", hash)

		assert.True(t, hasher.Verify("secret", hash), name)
		assert.False(t, hasher.Verify("Secret", hash), name)
		assert.False(t, hasher.Verify("", hash), name)
	}
}

func TestPasswordHasher_CurrentSchemeFormat(t *testing.T) {
	hasher, err := NewPasswordHasher(SchemeArgon2id)
	require.NoError(t, err)

	hash, err := hasher.Hash("secret")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$v=19$m=65536,t=3,p=1$"), hash)
}

func TestPasswordHasher_UniqueSalts(t *testing.T) {
	hasher, err := NewPasswordHasher(SchemeArgon2id)
	require.NoError(t, err)

	first, err := hasher.Hash("same-password")
	require.NoError(t, err)
	second, err := hasher.Hash("same-password")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, hasher.Verify("same-password", first))
	assert.True(t, hasher.Verify("same-password", second))
}

func TestPasswordHasher_VerifiesDeprecatedSchemes(t *testing.T) {
	hasher, err := NewPasswordHasher(SchemeArgon2id)
	require.NoError(t, err)

	legacyBcrypt, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	require.NoError(t, err)
	assert.True(t, hasher.Verify("secret", string(legacyBcrypt)))
	assert.False(t, hasher.Verify("wrong", string(legacyBcrypt)))

	salt := []byte("0123456789abcdef")
	key := pbkdf2.Key([]byte("secret"), salt, 1000, sha256.Size, sha256.New)
	legacyPBKDF2 := fmt.Sprintf("$pbkdf2-sha256$1000$%s$%s", ab64Encode(salt), ab64Encode(key))
	assert.True(t, hasher.Verify("secret", legacyPBKDF2))
	assert.False(t, hasher.Verify("wrong", legacyPBKDF2))

	// New hashes still use the current scheme.
	hash, err := hasher.Hash("secret")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$"))
}

func TestAB64Encoding(t *testing.T) {
	assert.Equal(t, "c2FsdA", ab64Encode([]byte("salt")))
	assert.Equal(t, ".w", ab64Encode([]byte{0xfb}))

	decoded, err := ab64Decode(".w")
	require.NoError(t, err)
	assert.Equal(t, []byte{0xfb}, decoded)
}

func TestPasswordHasher_MalformedHashes(t *testing.T) {
	hasher, err := NewPasswordHasher(SchemeArgon2id)
	require.NoError(t, err)

	key := "a2V5a2V5a2V5a2V5a2V5a2V5"
	checksum := ab64Encode(make([]byte, sha256.Size))

	malformed := []string{
		"",
		"invalid_hash",
		"$argon2id$",
		"$argon2id$v=19$m=65536,t=3,p=1$!!!$!!!",
		"$argon2id$v=1$m=65536,t=3,p=1$c2FsdA$c2FsdA",
		"$pbkdf2-sha256$abc$c2FsdA$c2FsdA",
		"$pbkdf2-sha256$1000$c2FsdA",
		"$2b$10$short",
		"$md5$whatever",
		// cost parameters out of range
		"$argon2id$v=19$m=65536,t=0,p=1$c2FsdHNhbHQ$" + key,
		"$argon2id$v=19$m=65536,t=1000,p=1$c2FsdHNhbHQ$" + key,
		"$argon2id$v=19$m=4294967295,t=3,p=1$c2FsdHNhbHQ$" + key,
		"$argon2id$v=19$m=4,t=3,p=1$c2FsdHNhbHQ$" + key,
		"$argon2id$v=19$m=65536,t=3,p=0$c2FsdHNhbHQ$" + key,
		"$argon2id$v=19$m=65536,t=3,p=200$c2FsdHNhbHQ$" + key,
		"$argon2id$v=19$m=65536,t=3,p=1$c2FsdHNhbHQ$a2V5",
		"$pbkdf2-sha256$0$c2FsdA$" + checksum,
		"$pbkdf2-sha256$2000000000$c2FsdA$" + checksum,
		"$pbkdf2-sha256$1000$c2FsdA$c2FsdA",
	}
	for _, h := range malformed {
		assert.NotPanics(t, func() {
			assert.False(t, hasher.Verify("secret", h), "hash %q", h)
		}, "hash %q", h)
	}
}

func TestNewPasswordHasher_UnknownScheme(t *testing.T) {
	hasher, err := NewPasswordHasher("md5")
	assert.Error(t, err)
	assert.Nil(t, hasher)
}
