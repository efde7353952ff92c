// Package certstore manages the signing identities backing digital
// signatures: self-signed generation, PEM and PKCS#12 import, and an
// on-disk store with one flat record per certificate.
//
// Known limitations carried over from the original design: private keys are
// persisted as cleartext PEM inside the same record as the public
// certificate, and validity checking is a time-window test only, with no
// chain-of-trust or revocation handling.
package certstore

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rsa"
	"crypto/x509"
	"encoding/hex"
	"encoding/pem"
	"errors"
	"fmt"
	"math/big"
	"time"
)

// Common errors
var (
	ErrCertificateNotFound = errors.New("certificate not found")
	ErrCertificateNotValid = errors.New("certificate is not valid")
	ErrNoCertFound         = errors.New("no certificate found in data")
	ErrNoKeyFound          = errors.New("no private key found in data")
	ErrUnknownKeyType      = errors.New("unknown private key type")
	ErrInvalidPEMBlock     = errors.New("invalid PEM block")
	ErrDecryptionFailed    = errors.New("failed to decrypt private key")
	ErrNoPrivateKey        = errors.New("certificate has no private key")
)

// PrivateKey is a private key usable for signing.
type PrivateKey interface {
	crypto.Signer
}

// Certificate is a signing identity held by the store. The PEM fields are
// the canonical representation; parsed forms are derived on demand.
type Certificate struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Organization string    `json:"organization"`
	Email        string    `json:"email"`
	ValidFrom    time.Time `json:"valid_from"`
	ValidUntil   time.Time `json:"valid_until"`
	SerialNumber string    `json:"serial_number"`
	Issuer       string    `json:"issuer"`

	CertificatePEM string `json:"certificate_pem"`
	PrivateKeyPEM  string `json:"private_key_pem,omitempty"`
}

// Valid reports whether the certificate is valid at the given instant.
func (c *Certificate) Valid(at time.Time) bool {
	return !at.Before(c.ValidFrom) && !at.After(c.ValidUntil)
}

// IsValid reports whether the certificate is valid on the wall clock.
// Callers holding a Store should prefer Store.IsValid, which uses the
// store's injected clock.
func (c *Certificate) IsValid() bool {
	return c.Valid(time.Now())
}

// HasPrivateKey reports whether a private key is attached.
func (c *Certificate) HasPrivateKey() bool {
	return c.PrivateKeyPEM != ""
}

// X509 parses and returns the underlying x509 certificate.
func (c *Certificate) X509() (*x509.Certificate, error) {
	block, _ := pem.Decode([]byte(c.CertificatePEM))
	if block == nil || block.Type != "CERTIFICATE" {
		return nil, ErrNoCertFound
	}
	cert, err := x509.ParseCertificate(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse certificate: %w", err)
	}
	return cert, nil
}

// Key parses and returns the attached private key.
func (c *Certificate) Key() (PrivateKey, error) {
	if c.PrivateKeyPEM == "" {
		return nil, ErrNoPrivateKey
	}
	block, _ := pem.Decode([]byte(c.PrivateKeyPEM))
	if block == nil {
		return nil, ErrInvalidPEMBlock
	}
	return parsePrivateKeyByType(block.Type, block.Bytes)
}

// serialID derives the store id from a certificate serial number: the
// 20-byte big-endian form in hex.
func serialID(serial *big.Int) string {
	buf := make([]byte, 20)
	serial.FillBytes(buf)
	return hex.EncodeToString(buf)
}

// parsePrivateKeyByType parses a private key based on the PEM block type.
// Legacy encrypted blocks must be decrypted before calling.
func parsePrivateKeyByType(blockType string, keyBytes []byte) (PrivateKey, error) {
	switch blockType {
	case "RSA PRIVATE KEY":
		return x509.ParsePKCS1PrivateKey(keyBytes)
	case "EC PRIVATE KEY":
		return x509.ParseECPrivateKey(keyBytes)
	case "PRIVATE KEY", "ENCRYPTED PRIVATE KEY":
		key, err := x509.ParsePKCS8PrivateKey(keyBytes)
		if err != nil {
			return nil, fmt.Errorf("failed to parse PKCS#8 private key: %w", err)
		}
		return toPrivateKey(key)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownKeyType, blockType)
	}
}

// toPrivateKey converts a parsed key interface to our PrivateKey type.
func toPrivateKey(key any) (PrivateKey, error) {
	switch k := key.(type) {
	case *rsa.PrivateKey:
		return k, nil
	case *ecdsa.PrivateKey:
		return k, nil
	case ed25519.PrivateKey:
		return k, nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownKeyType, key)
	}
}

// encodeKeyPEM re-encodes a private key as unencrypted PKCS#8 PEM, the
// store's canonical key form.
func encodeKeyPEM(key PrivateKey) (string, error) {
	der, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		return "", fmt.Errorf("failed to encode private key: %w", err)
	}
	return string(pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der})), nil
}

// isPEM checks if the data appears to be PEM encoded.
func isPEM(data []byte) bool {
	return len(data) > 10 && string(data[:5]) == "-----"
}
