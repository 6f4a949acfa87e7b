package postgres

import (
	"embed"
	"io/fs"
)

//go:embed migrations/*.up.sql
var embedded embed.FS

// Migrations returns the cart store schema files, rooted so that
// database.RunMigrations sees them at the top level.
func Migrations() fs.FS {
	sub, err := fs.Sub(embedded, "migrations")
	if err != nil {
		panic(err)
	}
	return sub
}
