// Package commands implements the CLI subcommands of the server binary.
package commands

import (
	"flag"
	"fmt"
	"os"
	"syscall"

	"github.com/masjidnoor/ramadan-volunteers/internal/auth"
	"golang.org/x/term"
)

// HashSecret handles the hash-secret subcommand: it prompts for the admin
// secret (hidden input) and prints the Argon2id hash to configure via the
// ADMIN_SECRET_HASH environment variable.
func HashSecret(args []string) {
	fs := flag.NewFlagSet("hash-secret", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: ramadan-volunteers hash-secret\n\n")
		fmt.Fprintf(os.Stderr, "Prompts for the admin secret and prints its Argon2id hash.\n")
		fmt.Fprintf(os.Stderr, "Set the printed value as %s for the server.\n", auth.EnvSecretHash)
	}
	_ = fs.Parse(args)

	secret := readSecret("Enter admin secret:   ")
	confirm := readSecret("Confirm admin secret: ")

	if secret == "" {
		fmt.Fprintln(os.Stderr, "Secret cannot be empty")
		os.Exit(1)
	}
	if secret != confirm {
		fmt.Fprintln(os.Stderr, "Secrets do not match")
		os.Exit(1)
	}

	hash, err := auth.HashSecret(secret)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("\n%s='%s'\n", auth.EnvSecretHash, hash)
}

// readSecret reads a line from the terminal without echoing it. When stdin
// is not a terminal (piped input), it falls back to a plain read.
func readSecret(prompt string) string {
	fmt.Print(prompt)

	if term.IsTerminal(int(syscall.Stdin)) {
		secret, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading secret: %v\n", err)
			os.Exit(1)
		}
		return string(secret)
	}

	var secret string
	if _, err := fmt.Scanln(&secret); err != nil {
		fmt.Fprintf(os.Stderr, "Error reading secret: %v\n", err)
		os.Exit(1)
	}
	return secret
}
