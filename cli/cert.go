package cli

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/georgepadayatti/overlay/certstore"
	"github.com/georgepadayatti/overlay/config"
)

// CertCommand dispatches the 'cert' subcommands.
func CertCommand(args []string) {
	if len(args) < 3 {
		certUsage()
		return
	}

	switch args[2] {
	case "create":
		certCreate(args[3:])
	case "import":
		certImport(args[3:])
	case "list":
		certList(args[3:])
	case "export":
		certExport(args[3:])
	case "delete":
		certDelete(args[3:])
	case "-h", "--help", "help":
		certUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown cert subcommand: %s\n\n", args[2])
		certUsage()
	}
}

func certUsage() {
	fmt.Printf("Usage: %s cert <create|import|list|export|delete> [options]\n\n", os.Args[0])
	fmt.Println("Subcommands:")
	fmt.Println("  create   Generate a new self-signed signing certificate")
	fmt.Println("  import   Import a PEM or PKCS#12 certificate into the store")
	fmt.Println("  list     List all certificates in the store")
	fmt.Println("  export   Export a certificate's public PEM")
	fmt.Println("  delete   Delete a certificate from the store")
}

// storeFlag registers the shared -store flag and returns the directory
// resolver.
func storeFlag(fs *flag.FlagSet) *string {
	return fs.String("store", "", "Certificate store directory (default: config default)")
}

func openStore(dir string) (*certstore.Store, error) {
	if dir == "" {
		dir = config.Default().Store.Dir
	}
	return certstore.Open(dir)
}

func certCreate(args []string) {
	fs := flag.NewFlagSet("cert create", flag.ExitOnError)
	dir := storeFlag(fs)
	name := fs.String("name", "", "Common name of the signer (required)")
	org := fs.String("org", "", "Organization")
	email := fs.String("email", "", "Email address")
	country := fs.String("country", "US", "Country code")
	state := fs.String("state", "", "State or province")
	locality := fs.String("locality", "", "Locality")
	days := fs.Int("days", 365, "Validity period in days")
	if err := fs.Parse(args); err != nil {
		return
	}
	if *name == "" {
		fmt.Fprintln(os.Stderr, "cert create: -name is required")
		osExit(2)
		return
	}

	store, err := openStore(*dir)
	if err != nil {
		fail(err)
		return
	}
	cert, err := store.CreateSelfSigned(*name, certstore.SelfSignedOptions{
		Organization: *org,
		Email:        *email,
		Country:      *country,
		State:        *state,
		Locality:     *locality,
		ValidityDays: *days,
	})
	if err != nil {
		fail(err)
		return
	}
	fmt.Printf("Created certificate %s\n", cert.ID)
	fmt.Printf("  Subject:  %s\n", cert.Name)
	fmt.Printf("  Valid:    %s to %s\n",
		cert.ValidFrom.Format("2006-01-02"), cert.ValidUntil.Format("2006-01-02"))
}

func certImport(args []string) {
	fs := flag.NewFlagSet("cert import", flag.ExitOnError)
	dir := storeFlag(fs)
	keyPath := fs.String("key", "", "PEM private key file")
	password := fs.String("password", "", "Key or PKCS#12 passphrase")
	fs.Usage = func() {
		fmt.Printf("Usage: %s cert import [options] <certificate.pem|bundle.p12>\n", os.Args[0])
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return
	}
	if fs.NArg() != 1 {
		fs.Usage()
		osExit(2)
		return
	}

	store, err := openStore(*dir)
	if err != nil {
		fail(err)
		return
	}

	path := fs.Arg(0)
	var cert *certstore.Certificate
	switch filepath.Ext(path) {
	case ".p12", ".pfx":
		cert, err = store.ImportPKCS12(path, *password)
	default:
		cert, err = store.Import(path, *keyPath, *password)
	}
	if err != nil {
		fail(err)
		return
	}
	fmt.Printf("Imported certificate %s (%s)\n", cert.ID, cert.Name)
}

func certList(args []string) {
	fs := flag.NewFlagSet("cert list", flag.ExitOnError)
	dir := storeFlag(fs)
	if err := fs.Parse(args); err != nil {
		return
	}

	store, err := openStore(*dir)
	if err != nil {
		fail(err)
		return
	}

	certs := store.All()
	if len(certs) == 0 {
		fmt.Println("No certificates in store")
		return
	}
	for _, cert := range certs {
		status := "valid"
		if !store.IsValid(cert.ID) {
			status = "expired or not yet valid"
		}
		key := ""
		if cert.HasPrivateKey() {
			key = ", has private key"
		}
		fmt.Printf("%s  %-24s %s (%s%s)\n",
			cert.ID, cert.Name, cert.ValidUntil.Format("2006-01-02"), status, key)
	}
}

func certExport(args []string) {
	fs := flag.NewFlagSet("cert export", flag.ExitOnError)
	dir := storeFlag(fs)
	fs.Usage = func() {
		fmt.Printf("Usage: %s cert export [options] <id> <output.pem>\n", os.Args[0])
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return
	}
	if fs.NArg() != 2 {
		fs.Usage()
		osExit(2)
		return
	}

	store, err := openStore(*dir)
	if err != nil {
		fail(err)
		return
	}
	if err := store.Export(fs.Arg(0), fs.Arg(1)); err != nil {
		fail(err)
		return
	}
	fmt.Printf("Exported %s to %s\n", fs.Arg(0), fs.Arg(1))
}

func certDelete(args []string) {
	fs := flag.NewFlagSet("cert delete", flag.ExitOnError)
	dir := storeFlag(fs)
	fs.Usage = func() {
		fmt.Printf("Usage: %s cert delete [options] <id>\n", os.Args[0])
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return
	}
	if fs.NArg() != 1 {
		fs.Usage()
		osExit(2)
		return
	}

	store, err := openStore(*dir)
	if err != nil {
		fail(err)
		return
	}
	if err := store.Delete(fs.Arg(0)); err != nil {
		fail(err)
		return
	}
	fmt.Printf("Deleted %s\n", fs.Arg(0))
}
