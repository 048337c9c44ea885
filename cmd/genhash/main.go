// cmd/genhash/main.go — Genera hashes bcrypt para resetear contraseñas a mano.
// Uso: go run cmd/genhash/main.go <password> [username]
// Con username imprime el UPDATE listo para pegar en psql.
package main

import (
	"fmt"
	"os"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "uso: genhash <password> [username]")
		os.Exit(1)
	}

	h, err := bcrypt.GenerateFromPassword([]byte(os.Args[1]), 12)
	if err != nil {
		panic(err)
	}

	if len(os.Args) >= 3 {
		fmt.Printf("UPDATE usuarios SET password_hash = '%s' WHERE username = '%s';\n", h, os.Args[2])
		return
	}
	fmt.Println(string(h))
}
