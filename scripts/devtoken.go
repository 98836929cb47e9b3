// One-off: go run scripts/devtoken.go <user-id> [role]
// Prints a session token signed with IDP_JWT_SECRET for local testing.
package main

import (
	"fmt"
	"os"
	"time"

	"Tasks/internal/auth"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()
	secret := os.Getenv("IDP_JWT_SECRET")
	if secret == "" {
		fmt.Fprintln(os.Stderr, "IDP_JWT_SECRET is not set")
		os.Exit(1)
	}
	userID := "user_dev"
	if len(os.Args) > 1 {
		userID = os.Args[1]
	}
	role := ""
	if len(os.Args) > 2 {
		role = os.Args[2]
	}
	tok, err := auth.SignHS256(secret, userID, role, 24*time.Hour)
	if err != nil {
		panic(err)
	}
	fmt.Print(tok)
}
