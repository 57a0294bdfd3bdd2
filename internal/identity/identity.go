// Package identity hands out visitor identifiers. A visitor either gets a
// fresh anonymous ID, or presents a custom token minted under the server
// secret and gets back the ID embedded in it. Nothing is persisted;
// obtaining the identifier is the whole job.
package identity

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"log"
	"strings"

	"github.com/google/uuid"
)

// ErrInvalidToken is returned for malformed tokens or bad signatures.
var ErrInvalidToken = errors.New("identity: invalid token")

// Issuer mints and verifies tokens of the form "<id>.<sig>", where sig is
// the hex HMAC-SHA256 of the id under the server secret.
type Issuer struct {
	secret []byte
}

// NewIssuer builds an issuer over the given secret. With an empty secret a
// random one is generated, which means custom tokens only survive a single
// process lifetime.
func NewIssuer(secret string) *Issuer {
	if secret == "" {
		buf := make([]byte, 32)
		if _, err := rand.Read(buf); err != nil {
			log.Fatal("identity: failed to generate secret:", err)
		}
		secret = hex.EncodeToString(buf)
		log.Println("identity: IDENTITY_SECRET not set, custom tokens will not survive restarts")
	}
	return &Issuer{secret: []byte(secret)}
}

// Anonymous returns a fresh anonymous visitor identifier.
func (i *Issuer) Anonymous() string {
	return uuid.NewString()
}

// MintToken signs an identifier into a custom token.
func (i *Issuer) MintToken(id string) string {
	return id + "." + i.sign(id)
}

// Verify checks a custom token and returns the identifier it carries.
func (i *Issuer) Verify(token string) (string, error) {
	dot := strings.LastIndex(token, ".")
	if dot <= 0 || dot == len(token)-1 {
		return "", ErrInvalidToken
	}
	id, sig := token[:dot], token[dot+1:]
	if subtle.ConstantTimeCompare([]byte(sig), []byte(i.sign(id))) != 1 {
		return "", ErrInvalidToken
	}
	return id, nil
}

func (i *Issuer) sign(id string) string {
	mac := hmac.New(sha256.New, i.secret)
	mac.Write([]byte(id))
	return hex.EncodeToString(mac.Sum(nil))
}
