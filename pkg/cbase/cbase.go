// Copyright 2025, Canvascraft Authors
// SPDX-License-Identifier: Apache-2.0

// Package cbase locates the canvascraft home directory and owns the few
// process-wide constants every other package needs.
package cbase

import (
	"fmt"
	"os"
	"path"
	"sync"
)

const HomeVarName = "HOME"
const CraftHomeVarName = "CANVASCRAFT_HOME"
const CraftDevVarName = "CANVASCRAFT_DEV"
const CraftDirName = ".canvascraft"
const CraftDirNameDev = ".canvascraft-dev"
const CraftVersion = "v0.1.0"

var ensureLock = &sync.Mutex{}
var ensuredDirs = make(map[string]bool)

func IsDevMode() bool {
	return os.Getenv(CraftDevVarName) != ""
}

func GetCraftHomeDir() string {
	craftHome := os.Getenv(CraftHomeVarName)
	if craftHome != "" {
		return craftHome
	}
	homeVar := os.Getenv(HomeVarName)
	if homeVar == "" {
		homeVar = "/"
	}
	if IsDevMode() {
		return path.Join(homeVar, CraftDirNameDev)
	}
	return path.Join(homeVar, CraftDirName)
}

// EnsureHomeDir creates the home directory if needed (0700, it holds the
// project database).  Results are cached per path.
func EnsureHomeDir() (string, error) {
	homeDir := GetCraftHomeDir()
	ensureLock.Lock()
	defer ensureLock.Unlock()
	if ensuredDirs[homeDir] {
		return homeDir, nil
	}
	info, err := os.Stat(homeDir)
	if err != nil && os.IsNotExist(err) {
		err = os.MkdirAll(homeDir, 0700)
		if err != nil {
			return "", fmt.Errorf("cannot create %s directory %q: %w", CraftHomeVarName, homeDir, err)
		}
		info, err = os.Stat(homeDir)
	}
	if err != nil {
		return "", err
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%s %q is not a directory", CraftHomeVarName, homeDir)
	}
	ensuredDirs[homeDir] = true
	return homeDir, nil
}
