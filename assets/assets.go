// Package assets embeds the files the binaries ship with.
package assets

import "embed"

// FS holds the email templates and the database migrations.
//go:embed all:templates migrations
var FS embed.FS

const (
	EmailTemplatesDir = "templates/email"
	MigrationsDir     = "migrations"
)
