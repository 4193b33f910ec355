// Command empregol runs database maintenance tasks: migrate, seed and clean-db.
package main

import (
	"os"

	"empregol-backend/cmd/empregol/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
