package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/2beens/admingate/pkg"
)

// small helper to generate the bcrypt hash for ADMIN_GATE_ADMIN_PASSWORD_HASH
func main() {
	password := flag.String("password", "", "password to hash")
	flag.Parse()

	if *password == "" {
		fmt.Println("password not provided, use -password")
		os.Exit(1)
	}

	hash, err := pkg.HashPassword(*password)
	if err != nil {
		fmt.Printf("failed to hash password: %s\n", err)
		os.Exit(1)
	}

	fmt.Println(hash)
}
