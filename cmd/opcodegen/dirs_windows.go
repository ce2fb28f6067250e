// Copyright 2026 The opcodegen Authors
// SPDX-License-Identifier: MIT

package main

import "os"

func configDirs() []string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return nil
	}
	return []string{dir}
}
