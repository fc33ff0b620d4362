package config

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

const appDirName = "stockchat"

// UserConfigPath returns the default location of the user's config file.
func UserConfigPath() string {
	return filepath.Join(xdg.ConfigHome, appDirName, "config.json")
}
