// Package nomachine rewrites the "Server host" entry in locally stored
// NoMachine session files so they follow a machine's freshly assigned
// address.
package nomachine

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var rxServerHost = regexp.MustCompile(`(<option\s+key="Server host"\s+value=")[^"]*(")`)

// ErrNotFound is returned when no session file matches the machine name.
var ErrNotFound = errors.New("session file not found")

// Updater locates .nxs session files in a directory and points their
// "Server host" option at a new address.
type Updater struct {
	// Dir holds the session files, e.g. ~/Documents/NoMachine.
	Dir string
}

// Apply rewrites the session file for the named machine to target ip.
// The file <name>.nxs is matched exactly first, then case-insensitively.
// Returns (false, nil) when the file already carries the address.
func (u *Updater) Apply(name, ip string) (bool, error) {
	if u.Dir == "" {
		return false, errors.New("session directory not set")
	}
	if _, err := os.Stat(u.Dir); err != nil {
		return false, fmt.Errorf("session directory %s: %w", u.Dir, err)
	}

	path, err := u.find(name)
	if err != nil {
		return false, err
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("reading %s: %w", path, err)
	}

	updated := rxServerHost.ReplaceAllString(string(raw), "${1}"+ip+"${2}")
	if updated == string(raw) {
		return false, nil
	}

	if err := os.WriteFile(path, []byte(updated), 0o644); err != nil {
		return false, fmt.Errorf("writing %s: %w", path, err)
	}
	return true, nil
}

func (u *Updater) find(name string) (string, error) {
	want := name + ".nxs"

	exact := filepath.Join(u.Dir, want)
	if _, err := os.Stat(exact); err == nil {
		return exact, nil
	}

	entries, err := os.ReadDir(u.Dir)
	if err != nil {
		return "", fmt.Errorf("listing %s: %w", u.Dir, err)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.EqualFold(e.Name(), want) {
			return filepath.Join(u.Dir, e.Name()), nil
		}
	}
	return "", fmt.Errorf("%w: %s in %s", ErrNotFound, want, u.Dir)
}
