// Command hash-generator prints the bcrypt hash of a password, for seeding
// users.password in environments without self-registration.
//
// Usage:
//
//	hash-generator -cost 12 < password.txt
//	echo -n 's3cret!!' | hash-generator
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/phrazzld/console-api/internal/service/auth"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	cost := flag.Int("cost", bcrypt.DefaultCost, "bcrypt cost factor")
	flag.Parse()

	hash, err := hashFromReader(bufio.NewReader(os.Stdin), *cost)
	if err != nil {
		fmt.Fprintf(os.Stderr, "hash-generator: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(hash)
}

// hashFromReader hashes the first line read from r.
func hashFromReader(r *bufio.Reader, cost int) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	password := strings.TrimRight(line, "\r\n")
	if password == "" {
		return "", errors.New("password is empty")
	}
	return auth.NewBcryptHasher(cost).Hash(password)
}
