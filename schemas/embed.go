// Package schemas embeds the MySQL schema applied by `microcourse migrate`.
package schemas

import "embed"

// Migrations holds the ordered schema files under migrations/.
//
//go:embed migrations/*.sql
var Migrations embed.FS
