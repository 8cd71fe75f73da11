package printer

// Registry is the OS printer registry
type Registry interface {
	// Lookup returns the named printer or an error wrapping printerrors.ErrPrinterNotFound.
	Lookup(name string) (Info, error)
	List() ([]Info, error)
	Default() (string, error)
	// SetDefault changes the process-wide default printer. The change persists after exit.
	SetDefault(name string) error
}

// Driver runs capability queries against a printer driver
type Driver interface {
	// Capabilities returns the entry count for query. When buf is nil only the count is
	// computed; otherwise the entries are written into buf. A non-positive count comes
	// with the OS last error, if any.
	Capabilities(name, port string, query Query, buf NativeBuffer) (int, error)
	Alloc(size int) (NativeBuffer, error)
}

// NativeBuffer is memory handed to the driver. It must be released exactly once.
type NativeBuffer interface {
	Bytes() []byte
	Release() error
}

var (
	_ Registry = (*Spooler)(nil)
	_ Driver   = (*Spooler)(nil)
	_ Registry = (*Cache)(nil)
)
