// Package session issues and validates stateless authenticated session tokens.
//
// A token is XChaCha20-Poly1305 ciphertext over a fixed 16-byte payload
// (user id, expiry unix seconds; both big-endian), with the random nonce
// prepended and the whole value base64url-encoded. Nothing is stored server
// side; revocation is the transport discarding the token.
package session

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"time"

	"golang.org/x/crypto/chacha20poly1305"

	"github.com/gamelog-dev/gamelog/internal/errs"
)

// KeyLen is the required symmetric key size in bytes.
const KeyLen = chacha20poly1305.KeySize

const payloadLen = 16 // user id (8) + expiry unix (8)

// Manager encrypts and decrypts session tokens under an immutable process-wide key.
type Manager struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

// New constructs a Manager. The key must be KeyLen bytes; ttl bounds token
// lifetime (ttl <= 0 issues tokens without expiry).
func New(key []byte, ttl time.Duration) (*Manager, error) {
	if len(key) != KeyLen {
		return nil, fmt.Errorf("session key must be %d bytes, got %d", KeyLen, len(key))
	}
	return &Manager{key: append([]byte(nil), key...), ttl: ttl, now: time.Now}, nil
}

// Issue returns an opaque token embedding userID.
func (m *Manager) Issue(userID int64) (string, error) {
	aead, err := chacha20poly1305.NewX(m.key)
	if err != nil {
		return "", fmt.Errorf("session aead: %w", err)
	}
	nonce := make([]byte, chacha20poly1305.NonceSizeX)
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("session nonce: %w: %v", errs.ErrCrypto, err)
	}

	var exp int64
	if m.ttl > 0 {
		exp = m.now().Add(m.ttl).Unix()
	}
	payload := make([]byte, payloadLen)
	binary.BigEndian.PutUint64(payload[:8], uint64(userID))
	binary.BigEndian.PutUint64(payload[8:], uint64(exp))

	out := make([]byte, 0, len(nonce)+payloadLen+aead.Overhead())
	out = append(out, nonce...)
	out = append(out, aead.Seal(nil, nonce, payload, nil)...)
	return base64.RawURLEncoding.EncodeToString(out), nil
}

// Validate decrypts and authenticates a token and returns the embedded user id.
// Every failure mode — bad encoding, truncation, tampering, wrong key, expiry —
// yields ErrUnauthenticated.
func (m *Manager) Validate(token string) (int64, error) {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return 0, errs.ErrUnauthenticated
	}
	if len(raw) < chacha20poly1305.NonceSizeX {
		return 0, errs.ErrUnauthenticated
	}
	aead, err := chacha20poly1305.NewX(m.key)
	if err != nil {
		return 0, errs.ErrUnauthenticated
	}
	nonce := raw[:chacha20poly1305.NonceSizeX]
	ct := raw[chacha20poly1305.NonceSizeX:]
	payload, err := aead.Open(nil, nonce, ct, nil)
	if err != nil || len(payload) != payloadLen {
		return 0, errs.ErrUnauthenticated
	}
	userID := int64(binary.BigEndian.Uint64(payload[:8]))
	exp := int64(binary.BigEndian.Uint64(payload[8:]))
	if exp != 0 && m.now().Unix() > exp {
		return 0, errs.ErrUnauthenticated
	}
	if userID <= 0 {
		return 0, errs.ErrUnauthenticated
	}
	return userID, nil
}
