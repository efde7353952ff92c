package cli

import (
	"os"
	"path/filepath"
	"testing"
)

// swapExit replaces osExit for the duration of a test and records the codes
// passed to it.
func swapExit(t *testing.T) *[]int {
	t.Helper()
	var codes []int
	old := osExit
	osExit = func(code int) { codes = append(codes, code) }
	t.Cleanup(func() { osExit = old })
	return &codes
}

func TestRunDemoWritesRecords(t *testing.T) {
	codes := swapExit(t)
	out := filepath.Join(t.TempDir(), "demo")

	Run([]string{"overlayctl", "demo", "-out", out})

	if len(*codes) != 0 {
		t.Fatalf("demo exited with codes %v", *codes)
	}
	for _, name := range []string{"annotations.json", "fields.json", "signatures.json"} {
		if _, err := os.Stat(filepath.Join(out, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}
}

func TestCertCreateListDelete(t *testing.T) {
	codes := swapExit(t)
	store := filepath.Join(t.TempDir(), "certs")

	Run([]string{"overlayctl", "cert", "create", "-store", store, "-name", "Test Signer"})
	if len(*codes) != 0 {
		t.Fatalf("cert create exited with codes %v", *codes)
	}

	entries, err := os.ReadDir(store)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("store has %d entries, want 1", len(entries))
	}

	id := entries[0].Name()
	id = id[:len(id)-len(".json")]
	Run([]string{"overlayctl", "cert", "delete", "-store", store, id})
	if len(*codes) != 0 {
		t.Fatalf("cert delete exited with codes %v", *codes)
	}

	entries, _ = os.ReadDir(store)
	if len(entries) != 0 {
		t.Errorf("store has %d entries after delete, want 0", len(entries))
	}
}

func TestCertCreateRequiresName(t *testing.T) {
	codes := swapExit(t)
	Run([]string{"overlayctl", "cert", "create", "-store", t.TempDir()})
	if len(*codes) == 0 || (*codes)[0] != 2 {
		t.Errorf("exit codes = %v, want [2]", *codes)
	}
}

func TestInspectMissingFile(t *testing.T) {
	codes := swapExit(t)
	Run([]string{"overlayctl", "inspect", filepath.Join(t.TempDir(), "absent.json")})
	if len(*codes) == 0 || (*codes)[0] != 1 {
		t.Errorf("exit codes = %v, want [1]", *codes)
	}
}

func TestInspectDemoOutput(t *testing.T) {
	codes := swapExit(t)
	out := filepath.Join(t.TempDir(), "demo")
	Run([]string{"overlayctl", "demo", "-out", out})

	Run([]string{"overlayctl", "inspect", "-kind", "annotations", filepath.Join(out, "annotations.json")})
	Run([]string{"overlayctl", "inspect", "-kind", "fields", filepath.Join(out, "fields.json")})
	Run([]string{"overlayctl", "inspect", "-kind", "signatures", filepath.Join(out, "signatures.json")})
	if len(*codes) != 0 {
		t.Errorf("inspect exited with codes %v", *codes)
	}
}

func TestUnknownCommandShowsUsage(t *testing.T) {
	codes := swapExit(t)
	Run([]string{"overlayctl", "frobnicate"})
	Run([]string{"overlayctl"})
	Run([]string{"overlayctl", "version"})
	if len(*codes) != 0 {
		t.Errorf("exit codes = %v, want none", *codes)
	}
}
