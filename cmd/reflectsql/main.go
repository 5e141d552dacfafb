// Package main provides the reflectsql CLI.
package main

import (
	"os"

	"github.com/code-vine/reflectivesql/internal/cli"

	// Entity catalog and stores are registered from init().
	_ "github.com/code-vine/reflectivesql/internal/bookshelf"
	_ "github.com/code-vine/reflectivesql/pkg/stores/postgres"
	_ "github.com/code-vine/reflectivesql/pkg/stores/sqlite"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
