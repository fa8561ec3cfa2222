// Copyright 2025, Canvascraft Authors
// SPDX-License-Identifier: Apache-2.0

// Package cconfig reads the settings file from the canvascraft home
// directory.  A missing file is not an error; fields missing from the
// file keep their defaults.
package cconfig

import (
	"encoding/json"
	"fmt"
	"os"
	"path"

	"github.com/canvascraft/canvascraft/pkg/cbase"
)

const SettingsFileName = "settings.json"

type SettingsType struct {
	ListenAddr         string `json:"listenaddr,omitempty"`
	AutoSaveIntervalMs int64  `json:"autosaveintervalms,omitempty"`
	DefaultProjectName string `json:"defaultprojectname,omitempty"`
}

func GetSettingsDefaults() SettingsType {
	return SettingsType{
		ListenAddr:         "127.0.0.1:8190",
		AutoSaveIntervalMs: 30000,
		DefaultProjectName: "untitled",
	}
}

func GetSettingsPath() string {
	return path.Join(cbase.GetCraftHomeDir(), SettingsFileName)
}

// ReadSettings returns defaults overlaid with whatever the settings file
// provides.  A malformed file is an error (silently reverting a user's
// config to defaults hides the problem).
func ReadSettings() (SettingsType, error) {
	settings := GetSettingsDefaults()
	fileName := GetSettingsPath()
	barr, err := os.ReadFile(fileName)
	if err != nil {
		if os.IsNotExist(err) {
			return settings, nil
		}
		return settings, fmt.Errorf("reading settings file %q: %w", fileName, err)
	}
	err = json.Unmarshal(barr, &settings)
	if err != nil {
		return GetSettingsDefaults(), fmt.Errorf("parsing settings file %q: %w", fileName, err)
	}
	return settings, nil
}

// WriteSettings writes the settings file atomically (temp file + rename).
func WriteSettings(settings SettingsType) error {
	homeDir, err := cbase.EnsureHomeDir()
	if err != nil {
		return err
	}
	barr, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling settings: %w", err)
	}
	fileName := path.Join(homeDir, SettingsFileName)
	tmpName := fileName + ".tmp"
	err = os.WriteFile(tmpName, barr, 0644)
	if err != nil {
		return fmt.Errorf("writing settings file %q: %w", tmpName, err)
	}
	return os.Rename(tmpName, fileName)
}
