// Package auth verifies the shared admin secret. The server never sees the
// plain secret at rest: configuration holds an Argon2id hash, and every
// admin request is checked against it in constant time. With no hash
// configured, verification fails closed.
package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"os"
	"strings"

	"github.com/masjidnoor/ramadan-volunteers/internal/apperr"
	"golang.org/x/crypto/argon2"
)

// EnvSecretHash is the environment variable holding the Argon2id hash of
// the admin secret, as printed by the hash-secret subcommand.
const EnvSecretHash = "ADMIN_SECRET_HASH"

// Argon2id parameters (OWASP recommended).
const (
	argon2Time    = 1
	argon2Memory  = 64 * 1024 // 64 MB
	argon2Threads = 4
	argon2KeyLen  = 32
	saltLen       = 16
)

// Verifier checks candidate secrets against a configured Argon2id hash.
type Verifier struct {
	hash string
}

// New constructs a Verifier for the given encoded hash. An empty hash
// produces a verifier that rejects everything.
func New(hash string) *Verifier {
	return &Verifier{hash: strings.TrimSpace(hash)}
}

// FromEnv builds a Verifier from ADMIN_SECRET_HASH.
func FromEnv() *Verifier {
	return New(os.Getenv(EnvSecretHash))
}

// Configured reports whether an admin secret hash is present.
func (v *Verifier) Configured() bool {
	return v != nil && v.hash != ""
}

// Verify returns nil iff secret matches the configured hash. Any other
// outcome - wrong secret, malformed hash, or no hash configured at all -
// is apperr.ErrUnauthorized.
func (v *Verifier) Verify(secret string) error {
	if !v.Configured() {
		return apperr.ErrUnauthorized
	}
	ok, err := verifyHash(secret, v.hash)
	if err != nil || !ok {
		return apperr.ErrUnauthorized
	}
	return nil
}

// HashSecret creates an Argon2id hash of the secret, encoded as
// $argon2id$v=19$m=65536,t=1,p=4$salt$hash.
func HashSecret(secret string) (string, error) {
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	hash := argon2.IDKey([]byte(secret), salt, argon2Time, argon2Memory, argon2Threads, argon2KeyLen)

	b64Salt := base64.RawStdEncoding.EncodeToString(salt)
	b64Hash := base64.RawStdEncoding.EncodeToString(hash)

	return fmt.Sprintf("$argon2id$v=19$m=%d,t=%d,p=%d$%s$%s",
		argon2Memory, argon2Time, argon2Threads, b64Salt, b64Hash), nil
}

// verifyHash verifies a secret against an encoded Argon2id hash using the
// parameters embedded in the encoding.
func verifyHash(secret, encoded string) (bool, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 {
		return false, fmt.Errorf("invalid hash format")
	}
	if parts[1] != "argon2id" {
		return false, fmt.Errorf("not an argon2id hash")
	}

	var memory, time, threads uint32
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &time, &threads); err != nil {
		return false, fmt.Errorf("parse hash parameters: %w", err)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false, fmt.Errorf("decode salt: %w", err)
	}
	want, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return false, fmt.Errorf("decode hash: %w", err)
	}

	got := argon2.IDKey([]byte(secret), salt, time, memory, uint8(threads), uint32(len(want)))

	return subtle.ConstantTimeCompare(want, got) == 1, nil
}
