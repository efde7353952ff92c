package certstore

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/json"
	"encoding/pem"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
	pkcs12 "software.sslmate.com/src/go-pkcs12"
)

// serialLimit bounds random serial numbers to 160 bits.
var serialLimit = new(big.Int).Lsh(big.NewInt(1), 160)

// Store holds signing identities in memory and persists each one as a flat
// JSON record named <id>.json inside its directory. The directory is given
// explicitly at construction; there is no ambient store path.
type Store struct {
	dir   string
	certs map[string]*Certificate

	clock clockwork.Clock
	log   *zap.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the store's logger.
func WithLogger(log *zap.Logger) Option {
	return func(s *Store) {
		if log != nil {
			s.log = log
		}
	}
}

// WithClock sets the clock used for validity windows and checks.
func WithClock(clock clockwork.Clock) Option {
	return func(s *Store) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// Open creates the store directory if needed and loads any certificates
// already persisted there.
func Open(dir string, opts ...Option) (*Store, error) {
	s := &Store{
		dir:   dir,
		certs: make(map[string]*Certificate),
		clock: clockwork.NewRealClock(),
		log:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create certificate store %s: %w", dir, err)
	}
	if err := s.Load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Dir returns the store directory.
func (s *Store) Dir() string {
	return s.dir
}

// Clock returns the clock the store uses for validity windows.
func (s *Store) Clock() clockwork.Clock {
	return s.clock
}

// SelfSignedOptions configures CreateSelfSigned.
type SelfSignedOptions struct {
	Organization string
	Email        string
	Country      string
	State        string
	Locality     string
	ValidityDays int
}

// CreateSelfSigned generates a fresh RSA-2048 key pair and a self-signed
// SHA-256 certificate whose subject and issuer are the same identity, valid
// from now for the configured number of days (default 365). The result is
// registered in memory and persisted.
func (s *Store) CreateSelfSigned(name string, opts SelfSignedOptions) (*Certificate, error) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return nil, fmt.Errorf("failed to generate key: %w", err)
	}

	serial, err := rand.Int(rand.Reader, serialLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to generate serial number: %w", err)
	}

	days := opts.ValidityDays
	if days <= 0 {
		days = 365
	}
	validFrom := s.clock.Now()
	validUntil := validFrom.AddDate(0, 0, days)

	subject := pkix.Name{CommonName: name}
	if opts.Organization != "" {
		subject.Organization = []string{opts.Organization}
	}
	if opts.Country != "" {
		subject.Country = []string{opts.Country}
	}
	if opts.State != "" {
		subject.Province = []string{opts.State}
	}
	if opts.Locality != "" {
		subject.Locality = []string{opts.Locality}
	}

	template := &x509.Certificate{
		SerialNumber:       serial,
		Subject:            subject,
		NotBefore:          validFrom,
		NotAfter:           validUntil,
		DNSNames:           []string{name},
		SignatureAlgorithm: x509.SHA256WithRSA,
		KeyUsage:           x509.KeyUsageDigitalSignature,
	}
	if opts.Email != "" {
		template.EmailAddresses = []string{opts.Email}
	}

	der, err := x509.CreateCertificate(rand.Reader, template, template, &key.PublicKey, key)
	if err != nil {
		return nil, fmt.Errorf("failed to create certificate: %w", err)
	}

	keyPEM, err := encodeKeyPEM(key)
	if err != nil {
		return nil, err
	}

	cert := &Certificate{
		ID:             serialID(serial),
		Name:           name,
		Organization:   opts.Organization,
		Email:          opts.Email,
		ValidFrom:      validFrom,
		ValidUntil:     validUntil,
		SerialNumber:   serial.String(),
		Issuer:         subject.String(),
		CertificatePEM: string(pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})),
		PrivateKeyPEM:  keyPEM,
	}

	if err := s.register(cert); err != nil {
		return nil, err
	}
	s.log.Info("created self-signed certificate",
		zap.String("id", cert.ID), zap.String("name", name))
	return cert, nil
}

// Import loads a PEM certificate from certPath, optionally with a matching
// private key from keyPath (decrypted with password when the key is an
// encrypted legacy PEM block), and registers and persists it.
func (s *Store) Import(certPath, keyPath, password string) (*Certificate, error) {
	data, err := os.ReadFile(certPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read certificate %s: %w", certPath, err)
	}
	parsed, certPEM, err := parseCertPEM(data)
	if err != nil {
		return nil, err
	}

	keyPEM := ""
	if keyPath != "" {
		keyData, err := os.ReadFile(keyPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read key %s: %w", keyPath, err)
		}
		key, err := parseKeyData(keyData, []byte(password))
		if err != nil {
			return nil, err
		}
		keyPEM, err = encodeKeyPEM(key)
		if err != nil {
			return nil, err
		}
	}

	cert := fromX509(parsed, certPEM, keyPEM)
	if err := s.register(cert); err != nil {
		return nil, err
	}
	s.log.Info("imported certificate",
		zap.String("id", cert.ID), zap.String("name", cert.Name))
	return cert, nil
}

// ImportPKCS12 loads a PKCS#12 credential bundle (certificate plus private
// key) and registers and persists it.
func (s *Store) ImportPKCS12(path, password string) (*Certificate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read PKCS#12 file %s: %w", path, err)
	}
	key, leaf, _, err := pkcs12.DecodeChain(data, password)
	if err != nil {
		return nil, fmt.Errorf("failed to decode PKCS#12 file %s: %w", path, err)
	}

	signer, err := toPrivateKey(key)
	if err != nil {
		return nil, err
	}
	keyPEM, err := encodeKeyPEM(signer)
	if err != nil {
		return nil, err
	}
	certPEM := string(pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: leaf.Raw}))

	cert := fromX509(leaf, certPEM, keyPEM)
	if err := s.register(cert); err != nil {
		return nil, err
	}
	s.log.Info("imported PKCS#12 credential",
		zap.String("id", cert.ID), zap.String("name", cert.Name))
	return cert, nil
}

// parseCertPEM extracts the first certificate from PEM (or raw DER) data and
// returns both the parsed form and its PEM encoding.
func parseCertPEM(data []byte) (*x509.Certificate, string, error) {
	if isPEM(data) {
		rest := data
		for len(rest) > 0 {
			var block *pem.Block
			block, rest = pem.Decode(rest)
			if block == nil {
				break
			}
			if block.Type != "CERTIFICATE" {
				continue
			}
			cert, err := x509.ParseCertificate(block.Bytes)
			if err != nil {
				return nil, "", fmt.Errorf("failed to parse certificate: %w", err)
			}
			return cert, string(pem.EncodeToMemory(block)), nil
		}
		return nil, "", ErrNoCertFound
	}
	cert, err := x509.ParseCertificate(data)
	if err != nil {
		return nil, "", fmt.Errorf("failed to parse DER certificate: %w", err)
	}
	certPEM := string(pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: cert.Raw}))
	return cert, certPEM, nil
}

// parseKeyData parses a PEM private key, decrypting legacy encrypted blocks
// with the passphrase.
func parseKeyData(data, passphrase []byte) (PrivateKey, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, ErrInvalidPEMBlock
	}

	keyBytes := block.Bytes
	if x509.IsEncryptedPEMBlock(block) { //nolint:staticcheck
		if len(passphrase) == 0 {
			return nil, fmt.Errorf("private key is encrypted but no passphrase provided")
		}
		decrypted, err := x509.DecryptPEMBlock(block, passphrase) //nolint:staticcheck
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDecryptionFailed, err)
		}
		keyBytes = decrypted
	}

	return parsePrivateKeyByType(block.Type, keyBytes)
}

// fromX509 builds a store certificate from a parsed x509 certificate,
// defaulting absent subject fields to empty strings.
func fromX509(cert *x509.Certificate, certPEM, keyPEM string) *Certificate {
	org := ""
	if len(cert.Subject.Organization) > 0 {
		org = cert.Subject.Organization[0]
	}
	email := ""
	if len(cert.EmailAddresses) > 0 {
		email = cert.EmailAddresses[0]
	}
	return &Certificate{
		ID:             serialID(cert.SerialNumber),
		Name:           cert.Subject.CommonName,
		Organization:   org,
		Email:          email,
		ValidFrom:      cert.NotBefore,
		ValidUntil:     cert.NotAfter,
		SerialNumber:   cert.SerialNumber.String(),
		Issuer:         cert.Issuer.String(),
		CertificatePEM: certPEM,
		PrivateKeyPEM:  keyPEM,
	}
}

// register stores the certificate in memory and persists its record.
func (s *Store) register(cert *Certificate) error {
	s.certs[cert.ID] = cert
	return s.save(cert)
}

func (s *Store) save(cert *Certificate) error {
	data, err := json.MarshalIndent(cert, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode certificate %s: %w", cert.ID, err)
	}
	path := filepath.Join(s.dir, cert.ID+".json")
	if err := os.WriteFile(path, append(data, '\n'), 0o600); err != nil {
		return fmt.Errorf("failed to write certificate %s: %w", path, err)
	}
	return nil
}

// Export writes the certificate's public PEM to path. The private key is
// never exported this way.
func (s *Store) Export(id, path string) error {
	cert, ok := s.certs[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrCertificateNotFound, id)
	}
	if err := os.WriteFile(path, []byte(cert.CertificatePEM), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// Delete removes the certificate from memory and deletes its record file.
func (s *Store) Delete(id string) error {
	if _, ok := s.certs[id]; !ok {
		return fmt.Errorf("%w: %s", ErrCertificateNotFound, id)
	}
	delete(s.certs, id)
	path := filepath.Join(s.dir, id+".json")
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete certificate record %s: %w", path, err)
	}
	return nil
}

// Get returns the certificate with the given id, or an error if absent.
func (s *Store) Get(id string) (*Certificate, error) {
	cert, ok := s.certs[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrCertificateNotFound, id)
	}
	return cert, nil
}

// IsValid reports whether the certificate with the given id is inside its
// validity window on the store's clock. Absent certificates are not valid.
func (s *Store) IsValid(id string) bool {
	cert, ok := s.certs[id]
	return ok && cert.Valid(s.clock.Now())
}

// All returns all certificates sorted by name, then id.
func (s *Store) All() []*Certificate {
	out := make([]*Certificate, 0, len(s.certs))
	for _, cert := range s.certs {
		out = append(out, cert)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Load rescans the store directory, replacing the in-memory map. Files that
// fail to read or parse are skipped and logged so the remaining
// certificates still load.
func (s *Store) Load() error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return fmt.Errorf("failed to read certificate store %s: %w", s.dir, err)
	}

	s.certs = make(map[string]*Certificate)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		path := filepath.Join(s.dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			s.log.Warn("failed to read certificate record",
				zap.String("file", entry.Name()), zap.Error(err))
			continue
		}
		var cert Certificate
		if err := json.Unmarshal(data, &cert); err != nil {
			s.log.Warn("failed to parse certificate record",
				zap.String("file", entry.Name()), zap.Error(err))
			continue
		}
		s.certs[cert.ID] = &cert
	}
	return nil
}
