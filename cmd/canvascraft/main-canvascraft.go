// Copyright 2025, Canvascraft Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"github.com/canvascraft/canvascraft/cmd/canvascraft/cmd"
)

func main() {
	cmd.Execute()
}
