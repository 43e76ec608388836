package secret

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"

	"github.com/GehirnInc/crypt"
	_ "github.com/GehirnInc/crypt/sha512_crypt" // registers crypt.SHA512
)

const (
	// DefaultRounds is the SHA-512 crypt work factor.
	DefaultRounds = 5000

	saltLength = 16
	saltChars  = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789./"
)

// SHA512Hasher hashes secrets with SHA-512 crypt ("$6$").
type SHA512Hasher struct {
	Rounds int
}

// NewSHA512Hasher returns a hasher using DefaultRounds.
func NewSHA512Hasher() *SHA512Hasher {
	return &SHA512Hasher{Rounds: DefaultRounds}
}

// Hash returns a salted SHA-512 crypt string for secret.
func (h *SHA512Hasher) Hash(secret string) (string, error) {
	rounds := h.Rounds
	if rounds == 0 {
		rounds = DefaultRounds
	}

	salt, err := genSalt(saltLength)
	if err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	settings := fmt.Sprintf("$6$rounds=%d$%s", rounds, salt)
	hash, err := crypt.SHA512.New().Generate([]byte(secret), []byte(settings))
	if err != nil {
		return "", fmt.Errorf("sha512 crypt: %w", err)
	}
	return hash, nil
}

// Verify checks secret against a SHA-512 crypt string.
func Verify(hash, secret string) error {
	return crypt.SHA512.New().Verify(hash, []byte(secret))
}

// IsCrypted reports whether s looks like a crypt(3) hash kickstart accepts
// with --iscrypted.
func IsCrypted(s string) bool {
	for _, prefix := range []string{"$2b$", "$6$", "$5$"} {
		if strings.HasPrefix(s, prefix) {
			return true
		}
	}
	return false
}

func genSalt(length int) (string, error) {
	b := make([]byte, length)
	for i := range b {
		idx, err := rand.Int(rand.Reader, big.NewInt(int64(len(saltChars))))
		if err != nil {
			return "", err
		}
		b[i] = saltChars[idx.Int64()]
	}
	return string(b), nil
}
