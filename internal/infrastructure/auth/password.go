// Package auth provides the password hashing and bearer token adapters.
package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/crypto/pbkdf2"
)

// Supported scheme identifiers.
const (
	SchemeArgon2id     = "argon2id"
	SchemeBcrypt       = "bcrypt"
	SchemePBKDF2SHA256 = "pbkdf2-sha256"
)

// Argon2id parameters (OWASP recommendation).
const (
	argonTime    = 3
	argonMemory  = 64 * 1024
	argonThreads = 1
	argonKeyLen  = 32
	saltLen      = 16
)

// pbkdf2Rounds matches the passlib default the previous deployment wrote.
const pbkdf2Rounds = 29000

// Limits on cost parameters read back from stored hashes. A hash outside
// them is rejected instead of being computed.
const (
	maxArgonTime    = 16
	maxArgonMemory  = 256 * 1024
	maxArgonThreads = 16
	maxPBKDF2Rounds = 1_000_000
	minKeyLen       = 16
	maxKeyLen       = 64
)

// scheme is one password hashing algorithm with its own encoding.
type scheme interface {
	name() string
	identifies(encoded string) bool
	hash(password string) (string, error)
	verify(password, encoded string) (bool, error)
}

// PasswordHasher hashes with one current scheme and verifies hashes produced
// by any registered scheme, so deprecated hashes keep working until replaced.
type PasswordHasher struct {
	current scheme
	schemes []scheme
}

// NewPasswordHasher returns a hasher whose new hashes use the named scheme.
func NewPasswordHasher(current string) (*PasswordHasher, error) {
	schemes := []scheme{argon2idScheme{}, pbkdf2Scheme{}, bcryptScheme{}}
	for _, s := range schemes {
		if s.name() == current {
			return &PasswordHasher{current: s, schemes: schemes}, nil
		}
	}
	return nil, fmt.Errorf("unknown password scheme %q", current)
}

// Scheme returns the name of the scheme used by Hash.
func (h *PasswordHasher) Scheme() string {
	return h.current.name()
}

// Hash returns a salted hash of password. Two calls never return the same string.
func (h *PasswordHasher) Hash(password string) (string, error) {
	return h.current.hash(password)
}

// Verify reports whether password matches encodedHash. Unknown or malformed
// hashes never match.
func (h *PasswordHasher) Verify(password, encodedHash string) bool {
	for _, s := range h.schemes {
		if !s.identifies(encodedHash) {
			continue
		}
		ok, err := s.verify(password, encodedHash)
		return err == nil && ok
	}
	return false
}

func randomSalt() ([]byte, error) {
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("generating salt: %w", err)
	}
	return salt, nil
}

// argon2idScheme writes PHC strings: $argon2id$v=19$m=65536,t=3,p=1$<salt>$<hash>
type argon2idScheme struct{}

func (argon2idScheme) name() string { return SchemeArgon2id }

func (argon2idScheme) identifies(encoded string) bool {
	return strings.HasPrefix(encoded, "$argon2id$")
}

func (argon2idScheme) hash(password string) (string, error) {
	salt, err := randomSalt()
	if err != nil {
		return "", err
	}
	key := argon2.IDKey([]byte(password), salt, argonTime, argonMemory, argonThreads, argonKeyLen)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		argonMemory, argonTime, argonThreads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

func (argon2idScheme) verify(password, encoded string) (bool, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 {
		return false, errors.New("invalid PHC hash format")
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return false, fmt.Errorf("parsing version: %w", err)
	}
	if version != argon2.Version {
		return false, fmt.Errorf("unsupported argon2 version %d", version)
	}

	var memory, iterations uint32
	var threads uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &iterations, &threads); err != nil {
		return false, fmt.Errorf("parsing parameters: %w", err)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false, fmt.Errorf("decoding salt: %w", err)
	}
	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return false, fmt.Errorf("decoding hash: %w", err)
	}
	if iterations < 1 || iterations > maxArgonTime ||
		memory < 8*uint32(threads) || memory > maxArgonMemory ||
		threads < 1 || threads > maxArgonThreads ||
		len(key) < minKeyLen || len(key) > maxKeyLen {
		return false, errors.New("invalid PHC hash parameters")
	}

	candidate := argon2.IDKey([]byte(password), salt, iterations, memory, threads, uint32(len(key)))
	return subtle.ConstantTimeCompare(key, candidate) == 1, nil
}

// pbkdf2Scheme reads and writes the passlib format:
// $pbkdf2-sha256$<rounds>$<ab64 salt>$<ab64 checksum>
type pbkdf2Scheme struct{}

func (pbkdf2Scheme) name() string { return SchemePBKDF2SHA256 }

func (pbkdf2Scheme) identifies(encoded string) bool {
	return strings.HasPrefix(encoded, "$pbkdf2-sha256$")
}

func (pbkdf2Scheme) hash(password string) (string, error) {
	salt, err := randomSalt()
	if err != nil {
		return "", err
	}
	key := pbkdf2.Key([]byte(password), salt, pbkdf2Rounds, sha256.Size, sha256.New)

	return fmt.Sprintf("$pbkdf2-sha256$%d$%s$%s", pbkdf2Rounds, ab64Encode(salt), ab64Encode(key)), nil
}

func (pbkdf2Scheme) verify(password, encoded string) (bool, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 5 {
		return false, errors.New("invalid pbkdf2 hash format")
	}

	rounds, err := strconv.Atoi(parts[2])
	if err != nil || rounds < 1 || rounds > maxPBKDF2Rounds {
		return false, fmt.Errorf("invalid pbkdf2 rounds %q", parts[2])
	}
	salt, err := ab64Decode(parts[3])
	if err != nil {
		return false, fmt.Errorf("decoding salt: %w", err)
	}
	key, err := ab64Decode(parts[4])
	if err != nil {
		return false, fmt.Errorf("decoding hash: %w", err)
	}
	if len(key) < minKeyLen || len(key) > maxKeyLen {
		return false, errors.New("invalid pbkdf2 checksum length")
	}

	candidate := pbkdf2.Key([]byte(password), salt, rounds, len(key), sha256.New)
	return subtle.ConstantTimeCompare(key, candidate) == 1, nil
}

// ab64 is passlib's adapted base64: standard alphabet with '.' for '+', no padding.
func ab64Encode(b []byte) string {
	return strings.ReplaceAll(base64.RawStdEncoding.EncodeToString(b), "+", ".")
}

func ab64Decode(s string) ([]byte, error) {
	return base64.RawStdEncoding.DecodeString(strings.ReplaceAll(s, ".", "+"))
}

type bcryptScheme struct{}

func (bcryptScheme) name() string { return SchemeBcrypt }

func (bcryptScheme) identifies(encoded string) bool {
	return strings.HasPrefix(encoded, "$2a$") ||
		strings.HasPrefix(encoded, "$2b$") ||
		strings.HasPrefix(encoded, "$2y$")
}

func (bcryptScheme) hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(b), err
}

func (bcryptScheme) verify(password, encoded string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(encoded), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, err
	}
}
