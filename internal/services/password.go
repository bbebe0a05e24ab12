package services

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"golang.org/x/crypto/argon2"
)

// PasswordHasher hashes and verifies passwords with argon2id. Parameters are
// captured once at construction so handlers never consult config at request
// time.
type PasswordHasher struct {
	time       uint32
	memory     uint32
	threads    uint8
	keyLength  uint32
	saltLength int
}

// NewPasswordHasher builds a hasher from configuration.
func NewPasswordHasher() *PasswordHasher {
	viper.SetDefault("argon2.time", 1)
	viper.SetDefault("argon2.memory", 64*1024)
	viper.SetDefault("argon2.threads", 4)
	viper.SetDefault("argon2.key_length", 32)
	viper.SetDefault("argon2.salt_length", 16)

	return &PasswordHasher{
		time:       uint32(viper.GetInt("argon2.time")),
		memory:     uint32(viper.GetInt("argon2.memory")),
		threads:    uint8(viper.GetInt("argon2.threads")),
		keyLength:  uint32(viper.GetInt("argon2.key_length")),
		saltLength: viper.GetInt("argon2.salt_length"),
	}
}

// Hash returns "base64(salt)$base64(key)" for the given password.
func (h *PasswordHasher) Hash(password string) (string, error) {
	salt := make([]byte, h.saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}

	key := argon2.IDKey([]byte(password), salt, h.time, h.memory, h.threads, h.keyLength)
	return fmt.Sprintf("%s$%s",
		base64.StdEncoding.EncodeToString(salt),
		base64.StdEncoding.EncodeToString(key)), nil
}

// Verify reports whether password matches the stored hash.
func (h *PasswordHasher) Verify(password, hashedPassword string) bool {
	parts := strings.Split(hashedPassword, "$")
	if len(parts) != 2 {
		return false
	}

	salt, err := base64.StdEncoding.DecodeString(parts[0])
	if err != nil {
		return false
	}

	key, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		return false
	}

	computed := argon2.IDKey([]byte(password), salt, h.time, h.memory, h.threads, h.keyLength)
	return subtle.ConstantTimeCompare(key, computed) == 1
}
