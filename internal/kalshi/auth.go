// Package kalshi is the authenticated transport for the venue's trade API:
// signed REST requests with throttling and retry, plus a market-data
// websocket feed.
package kalshi

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Request signature headers expected by the venue.
const (
	headerAccessKey       = "KALSHI-ACCESS-KEY"
	headerAccessTimestamp = "KALSHI-ACCESS-TIMESTAMP"
	headerAccessSignature = "KALSHI-ACCESS-SIGNATURE"
)

// Signer produces per-request authentication headers. The venue verifies an
// RSA PKCS#1 v1.5 SHA-256 signature over timestamp + method + path.
type Signer struct {
	keyID string
	key   *rsa.PrivateKey
}

// NewSigner creates a signer for the given API key id and private key.
func NewSigner(keyID string, key *rsa.PrivateKey) *Signer {
	return &Signer{keyID: keyID, key: key}
}

// LoadPrivateKey reads an RSA private key from a PEM file, accepting both
// PKCS#1 and PKCS#8 encodings.
func LoadPrivateKey(path string) (*rsa.PrivateKey, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read private key: %w", err)
	}

	block, _ := pem.Decode(raw)
	if block == nil {
		return nil, fmt.Errorf("no PEM block in %s", path)
	}

	if key, err := x509.ParsePKCS1PrivateKey(block.Bytes); err == nil {
		return key, nil
	}

	parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("parse private key: %w", err)
	}
	key, ok := parsed.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("private key in %s is not RSA", path)
	}
	return key, nil
}

// Headers signs method + path at the given instant and returns the three
// authentication headers. The path excludes the query string.
func (s *Signer) Headers(method, path string, now time.Time) (map[string]string, error) {
	timestamp := strconv.FormatInt(now.UnixMilli(), 10)

	digest := sha256.Sum256([]byte(timestamp + method + path))
	signature, err := rsa.SignPKCS1v15(rand.Reader, s.key, crypto.SHA256, digest[:])
	if err != nil {
		return nil, fmt.Errorf("sign request: %w", err)
	}

	return map[string]string{
		headerAccessKey:       s.keyID,
		headerAccessTimestamp: timestamp,
		headerAccessSignature: base64.StdEncoding.EncodeToString(signature),
	}, nil
}
