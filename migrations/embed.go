// Copyright 2026 ApexPro Tecnologia Ltda.
// SPDX-License-Identifier: AGPL-3.0

package migrations

import (
	"embed"
)

//go:embed *.sql
var EmbedMigrations embed.FS
