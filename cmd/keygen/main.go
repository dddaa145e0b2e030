package main

import (
	"crypto/rand"
	"encoding/hex"
	"flag"
	"fmt"
	"os"

	"github.com/fitcity/fitcity-backend/pkg/util"
)

// keygen prints the secrets the server needs: a fresh AES-256 key for
// IBAN encryption and, when a password is given, its bcrypt hash for
// ADMIN_PASSWORD_HASH.
func main() {
	password := flag.String("admin-password", "", "admin password to hash")
	flag.Parse()

	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		fmt.Fprintf(os.Stderr, "failed to generate key: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("IBAN_ENCRYPTION_KEY=%s\n", hex.EncodeToString(key))

	if *password != "" {
		hash, err := util.HashPassword(*password)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to hash password: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("ADMIN_PASSWORD_HASH=%s\n", hash)
	}
}
