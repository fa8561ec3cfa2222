// Copyright 2025, Canvascraft Authors
// SPDX-License-Identifier: Apache-2.0

package db

import "embed"

//go:embed migrations/*.sql
var MigrationFS embed.FS
