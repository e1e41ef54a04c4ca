package kalshi

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func generateTestKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	return key
}

func TestSigner_HeadersVerify(t *testing.T) {
	key := generateTestKey(t)
	signer := NewSigner("key-id-123", key)

	now := time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC)
	headers, err := signer.Headers("GET", "/trade-api/v2/markets/KXHIGHNY-24AUG23-B54/orderbook", now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if headers[headerAccessKey] != "key-id-123" {
		t.Errorf("unexpected key header %q", headers[headerAccessKey])
	}
	if headers[headerAccessTimestamp] != "1787486400000" {
		t.Errorf("unexpected timestamp %q", headers[headerAccessTimestamp])
	}

	sig, err := base64.StdEncoding.DecodeString(headers[headerAccessSignature])
	if err != nil {
		t.Fatalf("signature is not base64: %v", err)
	}

	message := headers[headerAccessTimestamp] + "GET" + "/trade-api/v2/markets/KXHIGHNY-24AUG23-B54/orderbook"
	digest := sha256.Sum256([]byte(message))
	if err := rsa.VerifyPKCS1v15(&key.PublicKey, crypto.SHA256, digest[:], sig); err != nil {
		t.Errorf("signature does not verify: %v", err)
	}
}

func TestLoadPrivateKey_PKCS1(t *testing.T) {
	key := generateTestKey(t)

	path := filepath.Join(t.TempDir(), "key.pem")
	block := &pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)}
	if err := os.WriteFile(path, pem.EncodeToMemory(block), 0o600); err != nil {
		t.Fatalf("write key: %v", err)
	}

	loaded, err := LoadPrivateKey(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loaded.N.Cmp(key.N) != 0 {
		t.Error("loaded key does not match")
	}
}

func TestLoadPrivateKey_PKCS8(t *testing.T) {
	key := generateTestKey(t)

	der, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		t.Fatalf("marshal pkcs8: %v", err)
	}
	path := filepath.Join(t.TempDir(), "key.pem")
	block := &pem.Block{Type: "PRIVATE KEY", Bytes: der}
	if err := os.WriteFile(path, pem.EncodeToMemory(block), 0o600); err != nil {
		t.Fatalf("write key: %v", err)
	}

	loaded, err := LoadPrivateKey(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loaded.N.Cmp(key.N) != 0 {
		t.Error("loaded key does not match")
	}
}

func TestLoadPrivateKey_Errors(t *testing.T) {
	if _, err := LoadPrivateKey(filepath.Join(t.TempDir(), "missing.pem")); err == nil {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "garbage.pem")
	if err := os.WriteFile(path, []byte("not a pem file"), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if _, err := LoadPrivateKey(path); err == nil {
		t.Error("expected error for non-PEM content")
	}
}
