// Command hash-generator prints bcrypt hashes for seeding the users table.
//
//	hash-generator -cost 12 alicepassword bobpassword
//
// With no arguments, passwords are read from stdin, one per line.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/phrazzld/vigilant-todo/internal/service/auth"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	cost := flag.Int("cost", bcrypt.DefaultCost, "bcrypt cost factor (4-31)")
	flag.Parse()

	passwords := flag.Args()
	if len(passwords) == 0 {
		var err error
		passwords, err = readLines(os.Stdin)
		if err != nil {
			fmt.Fprintf(os.Stderr, "read passwords: %v\n", err)
			os.Exit(1)
		}
	}

	if err := writeHashes(os.Stdout, auth.NewBcryptHasher(*cost), passwords); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func readLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if line := scanner.Text(); line != "" {
			lines = append(lines, line)
		}
	}
	return lines, scanner.Err()
}

// writeHashes prints one "password<TAB>hash" line per password. It stops at
// the first password the hasher rejects.
func writeHashes(w io.Writer, hasher auth.PasswordHasher, passwords []string) error {
	for _, password := range passwords {
		hash, err := hasher.Hash(password)
		if err != nil {
			return fmt.Errorf("hash %q: %w", password, err)
		}
		if _, err := fmt.Fprintf(w, "%s\t%s\n", password, hash); err != nil {
			return err
		}
	}
	return nil
}
