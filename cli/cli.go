// Package cli provides the command-line interface for managing the overlay
// certificate store and inspecting overlay record files.
package cli

import (
	"fmt"
	"os"
)

// Version information
var (
	Version   = "dev"
	BuildTime = "unknown"
)

// osExit is a variable for os.Exit to allow testing
var osExit = os.Exit

// Run executes the CLI with the given arguments.
// This is the main entry point for the CLI.
func Run(args []string) {
	if len(args) < 2 {
		Usage()
		return
	}

	command := args[1]

	switch command {
	case "cert":
		CertCommand(args)
	case "inspect":
		InspectCommand(args)
	case "demo":
		DemoCommand(args)
	case "version":
		VersionCommand()
	case "help", "-h", "--help":
		Usage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		Usage()
	}
}

// Usage prints the CLI usage information.
func Usage() {
	fmt.Printf("overlayctl - document overlay certificate and record tool\n\n")
	fmt.Printf("Usage: %s <command> [options] <args>\n\n", os.Args[0])
	fmt.Println("Commands:")
	fmt.Println("  cert     Manage signing certificates (create, import, list, export, delete)")
	fmt.Println("  inspect  Summarize an overlay record file")
	fmt.Println("  demo     Build an in-memory document with overlay objects")
	fmt.Println("  version  Show version information")
	fmt.Println("  help     Show this help message")
	fmt.Println("")
	fmt.Printf("Use '%s <command> -h' for command-specific help\n", os.Args[0])
	fmt.Println("")
	fmt.Println("Examples:")
	fmt.Printf("  %s cert create -name \"John Doe\" -org \"Example Inc\" -days 365\n", os.Args[0])
	fmt.Printf("  %s cert list\n", os.Args[0])
	fmt.Printf("  %s inspect -kind annotations annotations.json\n", os.Args[0])
}

// VersionCommand prints version information.
func VersionCommand() {
	fmt.Printf("overlayctl version %s\n", Version)
	fmt.Printf("Build time: %s\n", BuildTime)
}

// fail prints the error and exits with a non-zero status.
func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	osExit(1)
}
