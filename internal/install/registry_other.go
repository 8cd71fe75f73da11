//go:build !windows

package install

// Registry has nothing to read outside Windows
type Registry struct{}

func (Registry) InstallDir() (string, bool) {
	return "", false
}
