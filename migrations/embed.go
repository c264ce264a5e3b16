// Package migrations содержит SQL схемы для хранилища на PostgreSQL.
package migrations

import "embed"

// FS — встроенные файлы миграций, применяются по имени в лексикографическом порядке.
//
//go:embed *.sql
var FS embed.FS
