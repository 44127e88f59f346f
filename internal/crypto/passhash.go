// Package crypto implements server-side password hashing and verification.
package crypto

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Argon2id parameters (tuned for server-side hashing).
const (
	argonTime    uint32 = 3         // iterations
	argonMemory  uint32 = 64 * 1024 // 64 MB
	argonThreads uint8  = 1
	argonKeyLen  uint32 = 32
	saltLen             = 16
)

// RandBytes returns n cryptographically secure random bytes.
func RandBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	_, err := rand.Read(b)
	return b, err
}

// HashPassword returns a self-contained digest string "salt$hash" with both
// parts base64-encoded. The salt is generated per call.
func HashPassword(password string) (string, error) {
	salt, err := RandBytes(saltLen)
	if err != nil {
		return "", err
	}
	key := argon2.IDKey([]byte(password), salt, argonTime, argonMemory, argonThreads, argonKeyLen)
	return base64.RawStdEncoding.EncodeToString(salt) + "$" +
		base64.RawStdEncoding.EncodeToString(key), nil
}

// VerifyPassword reports whether the password matches the digest produced by
// HashPassword. Malformed digests verify as false, never as an error.
func VerifyPassword(password, digest string) bool {
	salt, expected, err := decodeDigest(digest)
	if err != nil {
		return false
	}
	got := argon2.IDKey([]byte(password), salt, argonTime, argonMemory, argonThreads, argonKeyLen)
	return subtle.ConstantTimeCompare(got, expected) == 1
}

func decodeDigest(digest string) (salt, key []byte, err error) {
	parts := strings.SplitN(digest, "$", 2)
	if len(parts) != 2 {
		return nil, nil, fmt.Errorf("malformed digest")
	}
	salt, err = base64.RawStdEncoding.DecodeString(parts[0])
	if err != nil {
		return nil, nil, err
	}
	key, err = base64.RawStdEncoding.DecodeString(parts[1])
	if err != nil {
		return nil, nil, err
	}
	return salt, key, nil
}
