package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/georgepadayatti/overlay/annot"
	"github.com/georgepadayatti/overlay/certstore"
	"github.com/georgepadayatti/overlay/engine/memdoc"
	"github.com/georgepadayatti/overlay/form"
	"github.com/georgepadayatti/overlay/geom"
	"github.com/georgepadayatti/overlay/sig"
)

// DemoCommand exercises the overlay layer against an in-memory document:
// annotations, form fields and a self-signed digital signature, with the
// resulting record files written to an output directory.
func DemoCommand(args []string) {
	fs := flag.NewFlagSet("demo", flag.ExitOnError)
	out := fs.String("out", "overlay-demo", "Output directory for record files")
	if err := fs.Parse(args[2:]); err != nil {
		return
	}

	if err := runDemo(*out); err != nil {
		fail(err)
	}
}

func runDemo(out string) error {
	if err := os.MkdirAll(out, 0o755); err != nil {
		return err
	}

	doc := memdoc.New(3, 612, 792)
	ctx := context.Background()

	// Annotations on the first two pages.
	annots := annot.NewManager()
	annots.CreateHighlight(0, geom.NewRect(72, 100, 300, 115), geom.Yellow, "important passage")
	annots.CreateTextNote(0, geom.Point{X: 320, Y: 100}, "Check this paragraph", "Comment")
	annots.CreateInk(1, [][]geom.Point{{
		{X: 100, Y: 200}, {X: 140, Y: 180}, {X: 180, Y: 210},
	}}, geom.Blue, 2)
	annots.CreateStamp(1, geom.NewRect(400, 50, 520, 90), "")

	issues, err := annots.ExportToDocument(ctx, doc, nil)
	if err != nil {
		return err
	}
	for _, issue := range issues {
		fmt.Printf("annotation export issue: %v\n", issue)
	}
	fmt.Printf("Placed %d annotation(s)\n", annots.Count())

	// A small form on page 2.
	fields := form.NewManager()
	name := fields.CreateTextField(2, geom.NewRect(72, 700, 300, 720), "name", form.TextFieldOptions{Required: true})
	fields.CreateCheckbox(2, geom.NewRect(72, 670, 87, 685), "subscribe", "Yes", false, false)
	fields.CreateDropdown(2, geom.NewRect(72, 640, 200, 660), "country", []string{"US", "DE", "IN"}, 0, false, false)

	fields.SetFieldValue(name.ID, "Jane Roe")
	for _, issue := range fields.ValidateAll() {
		fmt.Printf("form validation issue: %s: %s\n", issue.FieldID, issue.Message)
	}
	if _, err := fields.ExportToDocument(ctx, doc, nil); err != nil {
		return err
	}
	fmt.Printf("Placed %d form field(s)\n", fields.Count())

	// A throwaway certificate store and a signed page.
	store, err := certstore.Open(filepath.Join(out, "certificates"))
	if err != nil {
		return err
	}
	cert, err := store.CreateSelfSigned("Demo Signer", certstore.SelfSignedOptions{
		Organization: "Overlay Demo",
		ValidityDays: 1,
	})
	if err != nil {
		return err
	}

	sigs := sig.NewManager(store)
	signature, err := sigs.AddDigitalSignature(doc, 0, sig.DigitalSignatureOptions{
		CertificateID: cert.ID,
		Rect:          geom.NewRect(350, 650, 550, 750),
		Reason:        "Demonstration",
		ShowDate:      true,
		ShowName:      true,
		ShowReason:    true,
	})
	if err != nil {
		return err
	}
	ok, msg := sigs.VerifySignature(signature.ID)
	fmt.Printf("Signature %s: %s (verified=%v)\n", signature.ID, msg, ok)

	if err := annots.SaveFile(filepath.Join(out, "annotations.json")); err != nil {
		return err
	}
	if err := fields.SaveFile(filepath.Join(out, "fields.json")); err != nil {
		return err
	}
	if err := sigs.SaveFile(filepath.Join(out, "signatures.json")); err != nil {
		return err
	}
	fmt.Printf("Record files written to %s\n", out)
	return nil
}
