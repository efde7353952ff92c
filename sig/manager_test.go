package sig

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/georgepadayatti/overlay/certstore"
	"github.com/georgepadayatti/overlay/engine/memdoc"
	"github.com/georgepadayatti/overlay/geom"
)

func newTestSetup(t *testing.T) (*Manager, *certstore.Store, *clockwork.FakeClock) {
	t.Helper()
	clock := clockwork.NewFakeClock()
	store, err := certstore.Open(t.TempDir(), certstore.WithClock(clock))
	require.NoError(t, err)
	return NewManager(store, WithClock(clock)), store, clock
}

func TestAddDigitalSignature(t *testing.T) {
	m, store, clock := newTestSetup(t)
	cert, err := store.CreateSelfSigned("Alice", certstore.SelfSignedOptions{})
	require.NoError(t, err)

	doc := memdoc.New(2, 612, 792)
	s, err := m.AddDigitalSignature(doc, 0, DigitalSignatureOptions{
		CertificateID: cert.ID,
		Rect:          geom.NewRect(350, 650, 550, 750),
		Reason:        "Approval",
		ShowDate:      true,
		ShowName:      true,
		ShowReason:    true,
	})
	require.NoError(t, err)

	assert.Equal(t, TypeDigital, s.Type)
	assert.Equal(t, cert.ID, s.CertificateID)
	assert.Equal(t, "Alice", s.Author)
	assert.Equal(t, clock.Now(), s.Timestamp)
	assert.Len(t, s.ID, 16)
	assert.NotEmpty(t, s.ImageData)

	// The appearance landed on the page.
	images := doc.MemPage(0).Images()
	require.Len(t, images, 1)
	assert.Equal(t, geom.NewRect(350, 650, 550, 750), images[0].Rect)
}

func TestAddDigitalSignatureDefaultRect(t *testing.T) {
	m, store, _ := newTestSetup(t)
	cert, err := store.CreateSelfSigned("Alice", certstore.SelfSignedOptions{})
	require.NoError(t, err)

	doc := memdoc.New(1, 612, 792)
	s, err := m.AddDigitalSignature(doc, 0, DigitalSignatureOptions{CertificateID: cert.ID})
	require.NoError(t, err)
	assert.Equal(t, geom.NewRect(100, 100, 300, 200), s.Rect)
}

func TestAddDigitalSignatureUnknownCertificate(t *testing.T) {
	m, _, _ := newTestSetup(t)
	doc := memdoc.New(1, 612, 792)

	_, err := m.AddDigitalSignature(doc, 0, DigitalSignatureOptions{CertificateID: "missing"})
	assert.ErrorIs(t, err, certstore.ErrCertificateNotFound)
}

func TestAddDigitalSignatureExpiredCertificate(t *testing.T) {
	m, store, clock := newTestSetup(t)
	cert, err := store.CreateSelfSigned("Expired", certstore.SelfSignedOptions{ValidityDays: 1})
	require.NoError(t, err)
	clock.Advance(48 * time.Hour)

	doc := memdoc.New(1, 612, 792)
	_, err = m.AddDigitalSignature(doc, 0, DigitalSignatureOptions{CertificateID: cert.ID})
	assert.ErrorIs(t, err, certstore.ErrCertificateNotValid)
}

func TestAddDigitalSignatureBadPage(t *testing.T) {
	m, store, _ := newTestSetup(t)
	cert, err := store.CreateSelfSigned("Alice", certstore.SelfSignedOptions{})
	require.NoError(t, err)

	doc := memdoc.New(1, 612, 792)
	_, err = m.AddDigitalSignature(doc, 5, DigitalSignatureOptions{CertificateID: cert.ID})
	assert.ErrorIs(t, err, ErrPageNotFound)
	assert.Empty(t, m.Signatures())
}

func TestAddHandwrittenSignature(t *testing.T) {
	m, _, _ := newTestSetup(t)
	doc := memdoc.New(1, 612, 792)

	img, err := DrawnSignatureImage([]geom.Point{{X: 10, Y: 50}, {X: 100, Y: 80}}, DefaultDrawOptions())
	require.NoError(t, err)

	s, err := m.AddHandwrittenSignature(doc, 0, img, geom.NewRect(100, 600, 300, 680), "Bob")
	require.NoError(t, err)
	assert.Equal(t, TypeHandwritten, s.Type)
	assert.Equal(t, "Bob", s.Author)
	assert.Empty(t, s.CertificateID)
	assert.Len(t, doc.MemPage(0).Images(), 1)
}

func TestAddHandwrittenSignatureNoImage(t *testing.T) {
	m, _, _ := newTestSetup(t)
	doc := memdoc.New(1, 612, 792)

	_, err := m.AddHandwrittenSignature(doc, 0, nil, geom.NewRect(0, 0, 100, 50), "Bob")
	assert.ErrorIs(t, err, ErrNoImageData)
}

func TestVerifySignature(t *testing.T) {
	m, store, _ := newTestSetup(t)
	cert, err := store.CreateSelfSigned("Alice", certstore.SelfSignedOptions{})
	require.NoError(t, err)

	doc := memdoc.New(1, 612, 792)
	s, err := m.AddDigitalSignature(doc, 0, DigitalSignatureOptions{CertificateID: cert.ID})
	require.NoError(t, err)

	ok, msg := m.VerifySignature(s.ID)
	assert.True(t, ok)
	assert.Equal(t, "Signature verified successfully", msg)

	got := m.Signatures()[0]
	assert.True(t, got.IsVerified)
	assert.Equal(t, "Signature verified successfully", got.VerificationMessage)
}

func TestVerifySignatureFailures(t *testing.T) {
	m, store, clock := newTestSetup(t)
	cert, err := store.CreateSelfSigned("Alice", certstore.SelfSignedOptions{ValidityDays: 1})
	require.NoError(t, err)

	doc := memdoc.New(1, 612, 792)
	digital, err := m.AddDigitalSignature(doc, 0, DigitalSignatureOptions{CertificateID: cert.ID})
	require.NoError(t, err)

	img, err := TextSignatureImage("Bob", DefaultTextOptions())
	require.NoError(t, err)
	handwritten, err := m.AddHandwrittenSignature(doc, 0, img, geom.NewRect(0, 0, 100, 50), "Bob")
	require.NoError(t, err)

	ok, msg := m.VerifySignature("no-such-id")
	assert.False(t, ok)
	assert.Equal(t, "Signature not found", msg)

	ok, msg = m.VerifySignature(handwritten.ID)
	assert.False(t, ok)
	assert.Equal(t, "Not a digital signature", msg)

	// Expire the certificate.
	clock.Advance(48 * time.Hour)
	ok, msg = m.VerifySignature(digital.ID)
	assert.False(t, ok)
	assert.Equal(t, "Certificate has expired", msg)

	// Delete the certificate entirely.
	require.NoError(t, store.Delete(cert.ID))
	ok, msg = m.VerifySignature(digital.ID)
	assert.False(t, ok)
	assert.Equal(t, "Certificate not found", msg)
}

func TestSignaturesForPage(t *testing.T) {
	m, store, _ := newTestSetup(t)
	cert, err := store.CreateSelfSigned("Alice", certstore.SelfSignedOptions{})
	require.NoError(t, err)

	doc := memdoc.New(3, 612, 792)
	_, err = m.AddDigitalSignature(doc, 0, DigitalSignatureOptions{CertificateID: cert.ID})
	require.NoError(t, err)
	s1, err := m.AddDigitalSignature(doc, 2, DigitalSignatureOptions{CertificateID: cert.ID})
	require.NoError(t, err)

	onPage := m.SignaturesForPage(2)
	require.Len(t, onPage, 1)
	assert.Equal(t, s1.ID, onPage[0].ID)
	assert.Empty(t, m.SignaturesForPage(1))
}

func TestRemoveAndClearSignatures(t *testing.T) {
	m, store, _ := newTestSetup(t)
	cert, err := store.CreateSelfSigned("Alice", certstore.SelfSignedOptions{})
	require.NoError(t, err)

	doc := memdoc.New(1, 612, 792)
	s, err := m.AddDigitalSignature(doc, 0, DigitalSignatureOptions{CertificateID: cert.ID})
	require.NoError(t, err)

	assert.True(t, m.RemoveSignature(s.ID))
	assert.False(t, m.RemoveSignature(s.ID))
	assert.Empty(t, m.Signatures())

	_, err = m.AddDigitalSignature(doc, 0, DigitalSignatureOptions{CertificateID: cert.ID})
	require.NoError(t, err)
	m.ClearSignatures()
	assert.Empty(t, m.Signatures())
}

func TestUniqueSignatureIDs(t *testing.T) {
	m, store, clock := newTestSetup(t)
	cert, err := store.CreateSelfSigned("Alice", certstore.SelfSignedOptions{})
	require.NoError(t, err)

	doc := memdoc.New(1, 612, 792)
	seen := make(map[string]bool)
	for i := 0; i < 5; i++ {
		s, err := m.AddDigitalSignature(doc, 0, DigitalSignatureOptions{CertificateID: cert.ID})
		require.NoError(t, err)
		assert.False(t, seen[s.ID], "duplicate id %s", s.ID)
		seen[s.ID] = true
		clock.Advance(time.Millisecond)
	}
}

func TestLoadFileUnknownType(t *testing.T) {
	m, store, _ := newTestSetup(t)
	cert, err := store.CreateSelfSigned("Alice", certstore.SelfSignedOptions{})
	require.NoError(t, err)

	doc := memdoc.New(1, 612, 792)
	_, err = m.AddDigitalSignature(doc, 0, DigitalSignatureOptions{CertificateID: cert.ID})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "bad.json")
	content := `[{"id":"abc","type":"hologram","page":0,"rect":[0,0,100,50]}]`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	err = m.LoadFile(path)
	assert.ErrorIs(t, err, ErrUnknownSignatureType)
	assert.Contains(t, err.Error(), "hologram")
	// Collection is unmodified by the failed load.
	assert.Len(t, m.Signatures(), 1)
}

func TestSaveLoadFile(t *testing.T) {
	m, store, _ := newTestSetup(t)
	cert, err := store.CreateSelfSigned("Alice", certstore.SelfSignedOptions{})
	require.NoError(t, err)

	doc := memdoc.New(1, 612, 792)
	s, err := m.AddDigitalSignature(doc, 0, DigitalSignatureOptions{
		CertificateID: cert.ID,
		Reason:        "Approval",
	})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "signatures.json")
	require.NoError(t, m.SaveFile(path))

	loaded := NewManager(store)
	require.NoError(t, loaded.LoadFile(path))
	got := loaded.Signatures()
	require.Len(t, got, 1)
	assert.Equal(t, s.ID, got[0].ID)
	assert.Equal(t, cert.ID, got[0].CertificateID)
	assert.Equal(t, "Approval", got[0].Reason)
	// Image bytes are not part of the record format.
	assert.Empty(t, got[0].ImageData)
}
