// Copyright 2026 The MapLoc Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"github.com/maploc/maploc/cmd"
)

var Version = "development"

func main() {
	cmd.Execute(Version)
}
