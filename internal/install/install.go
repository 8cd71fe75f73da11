// Package install locates the WPS Office executables.
package install

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/adcondev/wps-print/internal/printerrors"
)

// Supplier yields a directory believed to hold the office executables
type Supplier interface {
	InstallDir() (string, bool)
}

// Override is a directory given on the command line or in the config file
type Override string

func (o Override) InstallDir() (string, bool) {
	return string(o), o != ""
}

// Chain asks each supplier in turn and returns the first answer
type Chain []Supplier

func (c Chain) InstallDir() (string, bool) {
	for _, s := range c {
		if s == nil {
			continue
		}
		if dir, ok := s.InstallDir(); ok {
			return dir, true
		}
	}
	return "", false
}

// binDir is where recent WPS builds keep et.exe and wps.exe below InstallRoot
const binDir = "office6"

// Verify returns the full path of executable under the supplied directory.
// It fails with ErrInstallationNotFound however the directory was obtained.
func Verify(fs afero.Fs, supplier Supplier, executable string) (string, error) {
	dir, ok := supplier.InstallDir()
	if !ok {
		return "", fmt.Errorf("%w: no installation directory configured or discovered", printerrors.ErrInstallationNotFound)
	}

	for _, candidate := range []string{
		filepath.Join(dir, executable),
		filepath.Join(dir, binDir, executable),
	} {
		info, err := fs.Stat(candidate)
		if err == nil && !info.IsDir() {
			return candidate, nil
		}
	}

	return "", fmt.Errorf("%w: %s not found in %s", printerrors.ErrInstallationNotFound, executable, dir)
}
