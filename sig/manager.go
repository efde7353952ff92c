package sig

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/georgepadayatti/overlay/certstore"
	"github.com/georgepadayatti/overlay/engine"
	"github.com/georgepadayatti/overlay/geom"
	"github.com/georgepadayatti/overlay/record"
)

// Common errors
var (
	ErrSignatureNotFound    = errors.New("signature not found")
	ErrPageNotFound         = errors.New("page not found")
	ErrNoImageData          = errors.New("no signature image data")
	ErrUnknownSignatureType = errors.New("unknown signature type")
)

// defaultRect is where a digital signature lands when the caller gives no
// rectangle.
var defaultRect = geom.NewRect(100, 100, 300, 200)

// Manager owns the placed signatures for a document and reads signing
// identities from a certificate store.
type Manager struct {
	store      *certstore.Store
	signatures []*Signature

	clock clockwork.Clock
	log   *zap.Logger
}

// NewManager creates a signature manager bound to the given certificate
// store.
func NewManager(store *certstore.Store, opts ...Option) *Manager {
	m := &Manager{
		store: store,
		clock: clockwork.NewRealClock(),
		log:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the manager's logger.
func WithLogger(log *zap.Logger) Option {
	return func(m *Manager) {
		if log != nil {
			m.log = log
		}
	}
}

// WithClock sets the clock used for signature timestamps and validity
// checks.
func WithClock(clock clockwork.Clock) Option {
	return func(m *Manager) {
		if clock != nil {
			m.clock = clock
		}
	}
}

// newSignatureID derives a short id from the given seed and the current
// time: the first 16 hex characters of a SHA-256 digest.
func (m *Manager) newSignatureID(seed string) string {
	sum := sha256.Sum256([]byte(seed + m.clock.Now().Format(time.RFC3339Nano)))
	return hex.EncodeToString(sum[:])[:16]
}

// DigitalSignatureOptions configures AddDigitalSignature.
type DigitalSignatureOptions struct {
	CertificateID string
	Rect          geom.Rect
	Reason        string
	Location      string
	ShowDate      bool
	ShowName      bool
	ShowReason    bool
}

// AddDigitalSignature places a certificate-backed signature block on the
// given page. The certificate must exist in the store and be currently
// valid. The visual appearance is rasterized and inserted into the page;
// the recorded entity references the certificate by id only.
func (m *Manager) AddDigitalSignature(doc engine.Document, page int, opts DigitalSignatureOptions) (*Signature, error) {
	cert, err := m.store.Get(opts.CertificateID)
	if err != nil {
		return nil, err
	}
	if !cert.Valid(m.clock.Now()) {
		return nil, fmt.Errorf("%w: %s", certstore.ErrCertificateNotValid, cert.ID)
	}

	rect := opts.Rect
	if rect.IsEmpty() {
		rect = defaultRect
	}

	s := &Signature{
		ID:            m.newSignatureID(opts.CertificateID),
		Type:          TypeDigital,
		Page:          page,
		Rect:          rect,
		CertificateID: cert.ID,
		Author:        cert.Name,
		Timestamp:     m.clock.Now(),
		Reason:        opts.Reason,
		Location:      opts.Location,
		ShowDate:      opts.ShowDate,
		ShowName:      opts.ShowName,
		ShowReason:    opts.ShowReason,
		ImageFormat:   "png",
	}

	appearance, err := renderAppearance(s, cert)
	if err != nil {
		return nil, err
	}
	s.ImageData = appearance

	p, ok := doc.Page(page)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrPageNotFound, page)
	}
	if err := p.InsertImage(rect, appearance); err != nil {
		return nil, fmt.Errorf("failed to insert signature appearance: %w", err)
	}

	m.signatures = append(m.signatures, s)
	m.log.Info("added digital signature",
		zap.String("id", s.ID), zap.Int("page", page),
		zap.String("certificate", cert.ID))
	return s, nil
}

// AddHandwrittenSignature inserts the given signature image directly onto
// the page. No certificate is involved.
func (m *Manager) AddHandwrittenSignature(doc engine.Document, page int, imageData []byte, rect geom.Rect, author string) (*Signature, error) {
	if len(imageData) == 0 {
		return nil, ErrNoImageData
	}

	s := &Signature{
		ID:          m.newSignatureID("handwritten"),
		Type:        TypeHandwritten,
		Page:        page,
		Rect:        rect,
		ImageData:   append([]byte(nil), imageData...),
		ImageFormat: "png",
		Author:      author,
		Timestamp:   m.clock.Now(),
		ShowDate:    true,
		ShowName:    true,
	}

	p, ok := doc.Page(page)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrPageNotFound, page)
	}
	if err := p.InsertImage(rect, imageData); err != nil {
		return nil, fmt.Errorf("failed to insert signature image: %w", err)
	}

	m.signatures = append(m.signatures, s)
	m.log.Info("added handwritten signature",
		zap.String("id", s.ID), zap.Int("page", page))
	return s, nil
}

// VerifySignature performs the simplified verification of a digital
// signature: the signature must exist, be digital, and its certificate must
// be present and inside its validity window. On success the signature is
// marked verified. This is not a cryptographic check over document bytes.
func (m *Manager) VerifySignature(id string) (bool, string) {
	var s *Signature
	for _, candidate := range m.signatures {
		if candidate.ID == id {
			s = candidate
			break
		}
	}
	if s == nil {
		return false, "Signature not found"
	}
	if s.Type != TypeDigital {
		return false, "Not a digital signature"
	}

	cert, err := m.store.Get(s.CertificateID)
	if err != nil {
		return false, "Certificate not found"
	}
	if !cert.Valid(m.clock.Now()) {
		return false, "Certificate has expired"
	}

	s.IsVerified = true
	s.VerificationMessage = "Signature verified successfully"
	return true, s.VerificationMessage
}

// Signatures returns copies of all placed signatures in placement order.
func (m *Manager) Signatures() []*Signature {
	out := make([]*Signature, len(m.signatures))
	for i, s := range m.signatures {
		out[i] = s.Clone()
	}
	return out
}

// SignaturesForPage returns copies of the signatures on the given page.
func (m *Manager) SignaturesForPage(page int) []*Signature {
	var out []*Signature
	for _, s := range m.signatures {
		if s.Page == page {
			out = append(out, s.Clone())
		}
	}
	return out
}

// RemoveSignature removes the signature with the given id, returning false
// if absent.
func (m *Manager) RemoveSignature(id string) bool {
	for i, s := range m.signatures {
		if s.ID == id {
			m.signatures = append(m.signatures[:i], m.signatures[i+1:]...)
			return true
		}
	}
	return false
}

// ClearSignatures removes all signatures.
func (m *Manager) ClearSignatures() {
	m.signatures = nil
}

// SaveFile serializes the signatures to path as an ordered list of flat
// records. Image bytes are not part of the record format.
func (m *Manager) SaveFile(path string) error {
	list := make([]*Signature, len(m.signatures))
	copy(list, m.signatures)
	return record.SaveList(path, list)
}

// LoadFile replaces the signatures with the records read from path. An
// unrecognized kind tag fails the whole load and leaves the collection
// unmodified.
func (m *Manager) LoadFile(path string) error {
	list, err := record.LoadList[*Signature](path)
	if err != nil {
		return err
	}
	for _, s := range list {
		if !s.Type.Valid() {
			return fmt.Errorf("%w: %q in %s", ErrUnknownSignatureType, s.Type, path)
		}
	}
	m.signatures = list
	return nil
}
