package hyper

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// Signer authenticates requests to the exchange endpoint. The private
// key is held as []byte so it can be wiped from memory on shutdown.
type Signer struct {
	account    string
	privateKey []byte
}

// NewSigner creates a signer for the given account.
func NewSigner(account, privateKey string) *Signer {
	return &Signer{
		account:    account,
		privateKey: []byte(privateKey),
	}
}

// Account returns the address orders are placed for.
func (s *Signer) Account() string { return s.account }

// Wipe zeroes the key material.
func (s *Signer) Wipe() {
	if s == nil {
		return
	}
	for i := range s.privateKey {
		s.privateKey[i] = 0
	}
}

// Headers produces the authentication headers for a signed request:
// an HMAC-SHA256 over timestamp and body, keyed by the private key.
func (s *Signer) Headers(body []byte) map[string]string {
	timestamp := fmt.Sprintf("%d", time.Now().UnixMilli())

	mac := hmac.New(sha256.New, s.privateKey)
	mac.Write([]byte(timestamp))
	mac.Write(body)

	return map[string]string{
		"X-HL-Account":   s.account,
		"X-HL-Timestamp": timestamp,
		"X-HL-Signature": hex.EncodeToString(mac.Sum(nil)),
		"Content-Type":   "application/json",
	}
}
