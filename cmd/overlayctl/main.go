// Command overlayctl manages the overlay layer's certificate store and
// inspects overlay record files.
//
// Usage:
//
//	overlayctl <command> [options] <args>
//
// Commands:
//
//	cert     Manage signing certificates (create, import, list, export, delete)
//	inspect  Summarize an overlay record file
//	demo     Build an in-memory document with overlay objects
//	version  Show version information
//	help     Show help message
//
// Examples:
//
//	# Create a self-signed signing certificate
//	overlayctl cert create -name "John Doe" -org "Example Inc" -days 365
//
//	# List the store
//	overlayctl cert list
//
//	# Summarize a saved annotation file
//	overlayctl inspect -kind annotations annotations.json
package main

import (
	"os"

	"github.com/georgepadayatti/overlay/cli"
)

// These variables are set at build time using ldflags:
//
//	go build -ldflags "-X main.version=1.0.0 -X main.buildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)" ./cmd/overlayctl
var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	// Set version info
	cli.Version = version
	cli.BuildTime = buildTime

	// Run the CLI
	cli.Run(os.Args)
}
