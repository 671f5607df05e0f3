//go:build windows

package storage

import (
	"os"
	"path/filepath"
)

func platformConfigDefault() string {
	return filepath.Join(os.Getenv("APPDATA"), "filenavigator")
}

func platformDataDefault() string {
	return filepath.Join(os.Getenv("LOCALAPPDATA"), "filenavigator")
}

func platformStateDefault() string {
	return filepath.Join(os.Getenv("LOCALAPPDATA"), "filenavigator", "state")
}
