// Package cryptox hashes and verifies account passwords with argon2id.
package cryptox

import (
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"strings"

	"github.com/dmitrijs2005/codehunt/internal/common"
	"golang.org/x/crypto/argon2"
)

const (
	scheme    = "argon2id"
	saltSize  = 16
	keyLength = 32

	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
)

var ErrMalformedHash = errors.New("malformed password hash")

func deriveKey(password, salt []byte) []byte {
	return argon2.IDKey(password, salt, argonTime, argonMemory, argonThreads, keyLength)
}

// HashPassword returns "argon2id$<salt>$<key>" with hex encoded parts.
func HashPassword(password []byte) string {
	salt := common.GenerateRandByteArray(saltSize)
	key := deriveKey(password, salt)
	return scheme + "$" + hex.EncodeToString(salt) + "$" + hex.EncodeToString(key)
}

// VerifyPassword reports whether password matches an encoded hash produced by HashPassword.
func VerifyPassword(encoded string, password []byte) (bool, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 3 || parts[0] != scheme {
		return false, ErrMalformedHash
	}

	salt, err := hex.DecodeString(parts[1])
	if err != nil {
		return false, ErrMalformedHash
	}
	want, err := hex.DecodeString(parts[2])
	if err != nil {
		return false, ErrMalformedHash
	}

	got := deriveKey(password, salt)
	return subtle.ConstantTimeCompare(want, got) == 1, nil
}
