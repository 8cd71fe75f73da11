//go:build windows

package install

import (
	"golang.org/x/sys/windows/registry"
)

const (
	commonKey    = `Software\Kingsoft\Office\6.0\Common`
	commonKeyWow = `Software\WOW6432Node\Kingsoft\Office\6.0\Common`
	installValue = "InstallRoot"
)

// Registry reads InstallRoot written by the WPS installer
type Registry struct{}

// InstallDir checks the per-user install first, then the machine-wide ones
func (Registry) InstallDir() (string, bool) {
	lookups := []struct {
		root registry.Key
		path string
	}{
		{registry.CURRENT_USER, commonKey},
		{registry.LOCAL_MACHINE, commonKey},
		{registry.LOCAL_MACHINE, commonKeyWow},
	}

	for _, l := range lookups {
		k, err := registry.OpenKey(l.root, l.path, registry.QUERY_VALUE)
		if err != nil {
			continue
		}
		dir, _, err := k.GetStringValue(installValue)
		_ = k.Close()
		if err == nil && dir != "" {
			return dir, true
		}
	}
	return "", false
}
