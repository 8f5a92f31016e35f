// Command devtoken mints a short-lived HS256 bearer token for local testing.
// It mirrors the token format the upstream identity resolver issues: subject
// is the decimal account id.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func main() {
	key := flag.String("jwt-key", "", "HS256 signing key (required)")
	account := flag.Int64("account", 0, "account id to act as (required)")
	ttl := flag.Duration("ttl", 15*time.Minute, "token lifetime")
	flag.Parse()

	if *key == "" || *account == 0 {
		fmt.Fprintln(os.Stderr, "usage: devtoken --jwt-key <key> --account <id> [--ttl <dur>]")
		os.Exit(2)
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   fmt.Sprintf("%d", *account),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(*ttl)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(*key))
	if err != nil {
		fmt.Fprintln(os.Stderr, "sign:", err)
		os.Exit(1)
	}
	fmt.Println(signed)
}
