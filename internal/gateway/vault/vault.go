// Package vault seals captured payment fields before they reach the
// order metadata store. Values are encrypted with AES-256-GCM under a
// key derived from the configured capture secret.
package vault

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
)

type sealedPayload struct {
	Version    int    `json:"version"`
	Nonce      string `json:"nonce"`
	Ciphertext string `json:"ciphertext"`
}

var (
	ErrNoKey          = errors.New("no_key")
	ErrInvalidPayload = errors.New("invalid_payload")
)

type Vault struct {
	key []byte
}

func New(secret string) *Vault {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return &Vault{}
	}

	sum := sha256.Sum256([]byte(secret))
	return &Vault{key: sum[:]}
}

// Seal encrypts plaintext and returns a versioned JSON envelope safe
// to store as an order meta value.
func (v *Vault) Seal(plaintext string) (string, error) {
	if len(v.key) == 0 {
		return "", ErrNoKey
	}

	block, err := aes.NewCipher(v.key)
	if err != nil {
		return "", err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}

	ciphertext := gcm.Seal(nil, nonce, []byte(plaintext), nil)
	out, err := json.Marshal(sealedPayload{
		Version:    1,
		Nonce:      base64.RawStdEncoding.EncodeToString(nonce),
		Ciphertext: base64.RawStdEncoding.EncodeToString(ciphertext),
	})
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// Open decrypts a value produced by Seal.
func (v *Vault) Open(sealed string) (string, error) {
	if len(v.key) == 0 {
		return "", ErrNoKey
	}

	var payload sealedPayload
	if err := json.Unmarshal([]byte(sealed), &payload); err != nil {
		return "", ErrInvalidPayload
	}
	if payload.Version != 1 {
		return "", ErrInvalidPayload
	}

	nonce, err := base64.RawStdEncoding.DecodeString(payload.Nonce)
	if err != nil {
		return "", ErrInvalidPayload
	}
	ciphertext, err := base64.RawStdEncoding.DecodeString(payload.Ciphertext)
	if err != nil {
		return "", ErrInvalidPayload
	}

	block, err := aes.NewCipher(v.key)
	if err != nil {
		return "", err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}
	if len(nonce) != gcm.NonceSize() {
		return "", ErrInvalidPayload
	}

	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", ErrInvalidPayload
	}
	return string(plaintext), nil
}

// MaskCardNumber keeps the last four digits and blanks the rest.
func MaskCardNumber(number string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, number)

	if len(digits) <= 4 {
		return digits
	}
	return "•••• •••• •••• " + digits[len(digits)-4:]
}

// MaskCVV never reveals any part of the code.
func MaskCVV() string { return "•••" }
