//go:build !windows

package office

import "github.com/adcondev/wps-print/internal/printerrors"

// COM is only functional on Windows
type COM struct{}

// NewCOM creates a launcher that reports ErrUnsupportedPlatform
func NewCOM() *COM {
	return &COM{}
}

func (c *COM) Launch(string) (Application, error) {
	return nil, printerrors.ErrUnsupportedPlatform
}

func (c *COM) Reclaim() {}
