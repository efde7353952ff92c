// Package sig manages placed signatures: certificate-backed digital
// signatures, handwritten image signatures and stamps. Digital signing here
// produces a labeled visual block plus bookkeeping; it does not emit a
// cryptographically verifiable signature over document bytes, and
// verification is a certificate validity-window check only. Both are
// deliberate carry-overs from the original design.
package sig

import (
	"time"

	"github.com/georgepadayatti/overlay/geom"
)

// Type identifies a signature kind.
type Type string

// Signature kinds.
const (
	TypeDigital     Type = "digital"
	TypeHandwritten Type = "handwritten"
	TypeStamp       Type = "stamp"
)

// Valid reports whether the type is a member of the closed kind set.
func (t Type) Valid() bool {
	return t == TypeDigital || t == TypeHandwritten || t == TypeStamp
}

// Signature is a signature placed on a document page. The certificate is
// referenced by id, never by pointer: the store owns certificates and the
// reference is only a lookup key.
type Signature struct {
	ID   string    `json:"id"`
	Type Type      `json:"type"`
	Page int       `json:"page"`
	Rect geom.Rect `json:"rect"`

	CertificateID string `json:"certificate_id,omitempty"`

	ImageData   []byte `json:"-"`
	ImageFormat string `json:"image_format,omitempty"`

	Author    string    `json:"author"`
	Timestamp time.Time `json:"timestamp"`
	Reason    string    `json:"reason"`
	Location  string    `json:"location"`

	ShowDate   bool `json:"show_date"`
	ShowName   bool `json:"show_name"`
	ShowReason bool `json:"show_reason"`

	IsVerified          bool   `json:"is_verified"`
	VerificationMessage string `json:"verification_message"`
}

// Clone returns a deep copy of the signature.
func (s *Signature) Clone() *Signature {
	c := *s
	c.ImageData = append([]byte(nil), s.ImageData...)
	return &c
}
