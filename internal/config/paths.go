package config

import (
	"errors"
	"os"
	"path/filepath"
)

const appDirName = "deadwood"

// DataDir is where deadwood keeps per-user state, under the OS config dir.
func DataDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	if base == "" {
		return "", errors.New("user config directory not found")
	}
	return filepath.Join(base, appDirName), nil
}

// DefaultLedgerPath is the results database used by -record when no ledger
// path is configured.
func DefaultLedgerPath() (string, error) {
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "results.db"), nil
}

// ResolveLedgerPath returns the configured ledger path, or the default one
// when record is set and nothing is configured. The parent directory is
// created. An empty result means results are not kept.
func (d Deadwood) ResolveLedgerPath(record bool) (string, error) {
	path := d.LedgerPath
	if path == "" && record {
		def, err := DefaultLedgerPath()
		if err != nil {
			return "", err
		}
		path = def
	}
	if path == "" {
		return "", nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	return path, nil
}
