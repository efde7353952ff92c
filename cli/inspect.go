package cli

import (
	"flag"
	"fmt"
	"os"

	"github.com/georgepadayatti/overlay/annot"
	"github.com/georgepadayatti/overlay/form"
	"github.com/georgepadayatti/overlay/record"
	"github.com/georgepadayatti/overlay/sig"
)

// InspectCommand summarizes an overlay record file.
func InspectCommand(args []string) {
	fs := flag.NewFlagSet("inspect", flag.ExitOnError)
	kind := fs.String("kind", "annotations", "Record kind: annotations, fields or signatures")
	fs.Usage = func() {
		fmt.Printf("Usage: %s inspect [options] <records.json>\n\n", os.Args[0])
		fs.PrintDefaults()
	}
	if err := fs.Parse(args[2:]); err != nil {
		return
	}
	if fs.NArg() != 1 {
		fs.Usage()
		osExit(2)
		return
	}

	path := fs.Arg(0)
	var err error
	switch *kind {
	case "annotations":
		err = inspectAnnotations(path)
	case "fields":
		err = inspectFields(path)
	case "signatures":
		err = inspectSignatures(path)
	default:
		fmt.Fprintf(os.Stderr, "Unknown record kind: %s\n", *kind)
		osExit(2)
		return
	}
	if err != nil {
		fail(err)
	}
}

func inspectAnnotations(path string) error {
	list, err := record.LoadList[*annot.Annotation](path)
	if err != nil {
		return err
	}
	fmt.Printf("%d annotation(s)\n", len(list))
	perPage := map[int]int{}
	for _, a := range list {
		perPage[a.Page]++
		fmt.Printf("  %s  page %d  %-13s %s\n", a.ID, a.Page, a.Type, a.Text)
	}
	fmt.Printf("Pages touched: %d\n", len(perPage))
	return nil
}

func inspectFields(path string) error {
	list, err := record.LoadList[*form.Field](path)
	if err != nil {
		return err
	}
	fmt.Printf("%d field(s)\n", len(list))
	for _, f := range list {
		required := ""
		if f.Required {
			required = "  (required)"
		}
		fmt.Printf("  %s  page %d  %-11s %-20s value=%v%s\n",
			f.ID, f.Page, f.Type, f.Name, f.Value, required)
	}
	return nil
}

func inspectSignatures(path string) error {
	list, err := record.LoadList[*sig.Signature](path)
	if err != nil {
		return err
	}
	fmt.Printf("%d signature(s)\n", len(list))
	for _, s := range list {
		verified := "unverified"
		if s.IsVerified {
			verified = "verified"
		}
		fmt.Printf("  %s  page %d  %-11s %-20s %s  %s\n",
			s.ID, s.Page, s.Type, s.Author,
			s.Timestamp.Format("2006-01-02 15:04:05"), verified)
	}
	return nil
}
