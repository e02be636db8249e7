// Package credential derives and verifies salted scrypt password credentials.
//
// A credential is stored as "salt.hash": salt is 8 random bytes hex encoded,
// hash is the hex encoded scrypt output computed over the salt's text.
package credential

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/msomdec/accounts/internal/domain"
	"golang.org/x/crypto/scrypt"
	"golang.org/x/sync/semaphore"
)

const (
	saltBytes = 8
	separator = "."
)

// Params are the scrypt cost parameters and output length.
type Params struct {
	N      int
	R      int
	P      int
	KeyLen int
}

// DefaultParams match the Node.js crypto.scrypt defaults with a 32 byte key,
// so credentials written by earlier deployments still verify.
func DefaultParams() Params {
	return Params{N: 16384, R: 8, P: 1, KeyLen: 32}
}

// Validate reports whether scrypt will accept the parameters.
func (p Params) Validate() error {
	if p.N <= 1 || p.N&(p.N-1) != 0 {
		return fmt.Errorf("%w: scrypt N must be a power of two greater than 1", domain.ErrInvalidInput)
	}
	if p.R <= 0 || p.P <= 0 {
		return fmt.Errorf("%w: scrypt r and p must be positive", domain.ErrInvalidInput)
	}
	if p.KeyLen <= 0 {
		return fmt.Errorf("%w: key length must be positive", domain.ErrInvalidInput)
	}
	return nil
}

// Hasher produces and checks credentials. It is safe for concurrent use.
// At most concurrency derivations run at once; each holds N*r*128 bytes.
type Hasher struct {
	params Params
	sem    *semaphore.Weighted
}

// NewHasher creates a Hasher. A concurrency below 1 is treated as 1.
func NewHasher(params Params, concurrency int) (*Hasher, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if concurrency < 1 {
		concurrency = 1
	}
	return &Hasher{
		params: params,
		sem:    semaphore.NewWeighted(int64(concurrency)),
	}, nil
}

// Hash derives a credential for password using a fresh salt.
func (h *Hasher) Hash(ctx context.Context, password string) (string, error) {
	salt, err := GenerateSalt()
	if err != nil {
		return "", err
	}

	key, err := h.derive(ctx, password, salt)
	if err != nil {
		return "", err
	}
	return Encode(salt, key), nil
}

// Verify reports whether password matches the stored credential.
// A malformed credential yields an error wrapping domain.ErrCorruptCredential,
// never a plain mismatch.
func (h *Hasher) Verify(ctx context.Context, password, credential string) (bool, error) {
	salt, storedHash, err := Decode(credential)
	if err != nil {
		return false, err
	}

	key, err := h.derive(ctx, password, salt)
	if err != nil {
		return false, err
	}

	computed := hex.EncodeToString(key)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(storedHash)) == 1, nil
}

func (h *Hasher) derive(ctx context.Context, password, salt string) ([]byte, error) {
	if err := h.sem.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("wait for hash slot: %w", err)
	}
	defer h.sem.Release(1)

	return Derive(password, salt, h.params)
}

// GenerateSalt returns 8 bytes from crypto/rand, hex encoded.
func GenerateSalt() (string, error) {
	b := make([]byte, saltBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// Derive runs scrypt over password with the salt text as the salt bytes.
func Derive(password, salt string, params Params) ([]byte, error) {
	key, err := scrypt.Key([]byte(password), []byte(salt), params.N, params.R, params.P, params.KeyLen)
	if err != nil {
		return nil, fmt.Errorf("derive key: %w", err)
	}
	return key, nil
}

// Encode joins the salt and hex encoded key into a stored credential.
func Encode(salt string, key []byte) string {
	return salt + separator + hex.EncodeToString(key)
}

// Decode splits a stored credential into its salt and hash components.
func Decode(credential string) (salt, hash string, err error) {
	parts := strings.Split(credential, separator)
	if len(parts) != 2 {
		return "", "", fmt.Errorf("%w: expected 2 components, got %d", domain.ErrCorruptCredential, len(parts))
	}
	if parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("%w: empty component", domain.ErrCorruptCredential)
	}
	return parts[0], parts[1], nil
}
