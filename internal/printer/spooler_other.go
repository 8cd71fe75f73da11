//go:build !windows

package printer

import "github.com/adcondev/wps-print/internal/printerrors"

// Spooler is only functional on Windows
type Spooler struct{}

// NewSpooler returns a registry that reports ErrUnsupportedPlatform
func NewSpooler() *Spooler {
	return &Spooler{}
}

func (s *Spooler) Lookup(string) (Info, error)     { return Info{}, printerrors.ErrUnsupportedPlatform }
func (s *Spooler) List() ([]Info, error)           { return nil, printerrors.ErrUnsupportedPlatform }
func (s *Spooler) Default() (string, error)        { return "", printerrors.ErrUnsupportedPlatform }
func (s *Spooler) SetDefault(string) error         { return printerrors.ErrUnsupportedPlatform }
func (s *Spooler) Alloc(int) (NativeBuffer, error) { return nil, printerrors.ErrUnsupportedPlatform }

func (s *Spooler) Capabilities(string, string, Query, NativeBuffer) (int, error) {
	return 0, printerrors.ErrUnsupportedPlatform
}
