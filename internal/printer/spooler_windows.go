//go:build windows

package printer

import (
	"errors"
	"fmt"
	"runtime"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/adcondev/wps-print/internal/printerrors"
)

var (
	modwinspool = windows.NewLazySystemDLL("winspool.drv")

	procOpenPrinterW        = modwinspool.NewProc("OpenPrinterW")
	procClosePrinter        = modwinspool.NewProc("ClosePrinter")
	procGetPrinterW         = modwinspool.NewProc("GetPrinterW")
	procEnumPrintersW       = modwinspool.NewProc("EnumPrintersW")
	procGetDefaultPrinterW  = modwinspool.NewProc("GetDefaultPrinterW")
	procSetDefaultPrinterW  = modwinspool.NewProc("SetDefaultPrinterW")
	procDeviceCapabilitiesW = modwinspool.NewProc("DeviceCapabilitiesW")
)

const (
	printerEnumLocal        = 0x00000002
	printerEnumConnections  = 0x00000004
	printerAttributeDefault = 0x00000004

	lmemZeroInit = 0x0040
)

// printerInfo2 mirrors PRINTER_INFO_2W
type printerInfo2 struct {
	ServerName         *uint16
	PrinterName        *uint16
	ShareName          *uint16
	PortName           *uint16
	DriverName         *uint16
	Comment            *uint16
	Location           *uint16
	DevMode            uintptr
	SepFile            *uint16
	PrintProcessor     *uint16
	Datatype           *uint16
	Parameters         *uint16
	SecurityDescriptor uintptr
	Attributes         uint32
	Priority           uint32
	DefaultPriority    uint32
	StartTime          uint32
	UntilTime          uint32
	Status             uint32
	Jobs               uint32
	AveragePPM         uint32
}

// Spooler talks to the Windows print spooler. It implements Registry and Driver.
type Spooler struct{}

// NewSpooler returns the winspool-backed registry
func NewSpooler() *Spooler {
	return &Spooler{}
}

// Lookup opens the printer to read its port, then asks the driver for its paper names
func (s *Spooler) Lookup(name string) (Info, error) {
	h, err := openPrinter(name)
	if err != nil {
		return Info{}, fmt.Errorf("%w: %q: %v", printerrors.ErrPrinterNotFound, name, err)
	}
	defer closePrinter(h)

	pi, buf, err := getPrinter2(h)
	if err != nil {
		return Info{}, fmt.Errorf("%w: %q: %v", printerrors.ErrPrinterNotFound, name, err)
	}
	info := infoFrom(pi)
	runtime.KeepAlive(buf)

	// A driver that cannot list names leaves PaperNames empty; the resolver reports why.
	info.PaperNames, info.namesErr = s.paperNames(info.Name, info.Port)
	return info, nil
}

// List enumerates local and connected printers
func (s *Spooler) List() ([]Info, error) {
	flags := uintptr(printerEnumLocal | printerEnumConnections)

	var needed, returned uint32
	r1, _, e1 := procEnumPrintersW.Call(flags, 0, 2, 0, 0,
		uintptr(unsafe.Pointer(&needed)), uintptr(unsafe.Pointer(&returned)))
	if r1 == 0 && !errors.Is(e1, windows.ERROR_INSUFFICIENT_BUFFER) {
		return nil, fmt.Errorf("EnumPrintersW: %w", e1)
	}
	if needed == 0 {
		return nil, nil
	}

	buf := make([]byte, needed)
	r1, _, e1 = procEnumPrintersW.Call(flags, 0, 2,
		uintptr(unsafe.Pointer(&buf[0])), uintptr(needed),
		uintptr(unsafe.Pointer(&needed)), uintptr(unsafe.Pointer(&returned)))
	if r1 == 0 {
		return nil, fmt.Errorf("EnumPrintersW: %w", e1)
	}

	entries := unsafe.Slice((*printerInfo2)(unsafe.Pointer(&buf[0])), returned)
	defaultName, _ := s.Default()

	printers := make([]Info, 0, returned)
	for i := range entries {
		info := infoFrom(&entries[i])
		info.IsDefault = info.IsDefault || info.Name == defaultName
		printers = append(printers, info)
	}
	runtime.KeepAlive(buf)
	return printers, nil
}

// Default returns the current default printer name
func (s *Spooler) Default() (string, error) {
	var size uint32
	r1, _, e1 := procGetDefaultPrinterW.Call(0, uintptr(unsafe.Pointer(&size)))
	if r1 == 0 && !errors.Is(e1, windows.ERROR_INSUFFICIENT_BUFFER) {
		if errors.Is(e1, windows.ERROR_FILE_NOT_FOUND) {
			return "", fmt.Errorf("%w: no default printer configured", printerrors.ErrPrinterNotFound)
		}
		return "", fmt.Errorf("GetDefaultPrinterW: %w", e1)
	}

	buf := make([]uint16, size)
	r1, _, e1 = procGetDefaultPrinterW.Call(uintptr(unsafe.Pointer(&buf[0])), uintptr(unsafe.Pointer(&size)))
	if r1 == 0 {
		return "", fmt.Errorf("GetDefaultPrinterW: %w", e1)
	}
	return windows.UTF16ToString(buf), nil
}

// SetDefault makes name the system default printer
func (s *Spooler) SetDefault(name string) error {
	h, err := openPrinter(name)
	if err != nil {
		return fmt.Errorf("%w: %q: %v", printerrors.ErrPrinterNotFound, name, err)
	}
	closePrinter(h)

	p, err := windows.UTF16PtrFromString(name)
	if err != nil {
		return err
	}
	r1, _, e1 := procSetDefaultPrinterW.Call(uintptr(unsafe.Pointer(p)))
	if r1 == 0 {
		return fmt.Errorf("SetDefaultPrinterW(%q): %w", name, e1)
	}
	return nil
}

// Capabilities calls DeviceCapabilitiesW
func (s *Spooler) Capabilities(name, port string, query Query, buf NativeBuffer) (int, error) {
	pName, err := windows.UTF16PtrFromString(name)
	if err != nil {
		return 0, err
	}
	pPort, err := windows.UTF16PtrFromString(port)
	if err != nil {
		return 0, err
	}

	var out unsafe.Pointer
	if buf != nil {
		b := buf.Bytes()
		if len(b) == 0 {
			return 0, errors.New("empty capability buffer")
		}
		out = unsafe.Pointer(&b[0])
	}

	r1, _, e1 := procDeviceCapabilitiesW.Call(
		uintptr(unsafe.Pointer(pName)),
		uintptr(unsafe.Pointer(pPort)),
		uintptr(query),
		uintptr(out),
		0,
	)
	runtime.KeepAlive(buf)
	n := int(int32(r1))
	if n <= 0 {
		return n, lastError(e1)
	}
	return n, nil
}

// Alloc reserves zeroed memory with LocalAlloc
func (s *Spooler) Alloc(size int) (NativeBuffer, error) {
	if size <= 0 {
		return nil, fmt.Errorf("invalid buffer size %d", size)
	}
	h, err := windows.LocalAlloc(lmemZeroInit, uint32(size))
	if err != nil {
		return nil, fmt.Errorf("LocalAlloc(%d): %w", size, err)
	}
	// LMEM_FIXED memory: the handle is the address and lives outside the Go heap
	ptr := *(*unsafe.Pointer)(unsafe.Pointer(&h))
	return &localBuffer{ptr: ptr, size: size}, nil
}

// paperNames reads the driver's fixed-width name table
func (s *Spooler) paperNames(name, port string) ([]string, error) {
	count, err := s.Capabilities(name, port, QueryPaperNames, nil)
	if count <= 0 {
		if err == nil {
			err = fmt.Errorf("driver reported %d %s", count, QueryPaperNames)
		}
		return nil, err
	}

	raw := make([]uint16, count*paperNameChars)
	n, err := s.Capabilities(name, port, QueryPaperNames, goBuffer(unsafe.Slice((*byte)(unsafe.Pointer(&raw[0])), len(raw)*2)))
	if n <= 0 {
		if err == nil {
			err = fmt.Errorf("driver filled %d %s", n, QueryPaperNames)
		}
		return nil, err
	}
	if n > count {
		n = count
	}

	names := make([]string, n)
	for i := range names {
		names[i] = windows.UTF16ToString(raw[i*paperNameChars : (i+1)*paperNameChars])
	}
	return names, nil
}

type localBuffer struct {
	ptr  unsafe.Pointer
	size int
}

func (b *localBuffer) Bytes() []byte {
	if b.ptr == nil {
		return nil
	}
	return unsafe.Slice((*byte)(b.ptr), b.size)
}

func (b *localBuffer) Release() error {
	if b.ptr == nil {
		return nil
	}
	_, err := windows.LocalFree(windows.Handle(uintptr(b.ptr)))
	b.ptr = nil
	return err
}

// goBuffer adapts Go-owned memory; nothing to free
type goBuffer []byte

func (b goBuffer) Bytes() []byte  { return b }
func (b goBuffer) Release() error { return nil }

func openPrinter(name string) (windows.Handle, error) {
	p, err := windows.UTF16PtrFromString(name)
	if err != nil {
		return 0, err
	}
	var h windows.Handle
	r1, _, e1 := procOpenPrinterW.Call(uintptr(unsafe.Pointer(p)), uintptr(unsafe.Pointer(&h)), 0)
	if r1 == 0 {
		return 0, lastError(e1)
	}
	return h, nil
}

func closePrinter(h windows.Handle) {
	_, _, _ = procClosePrinter.Call(uintptr(h))
}

func getPrinter2(h windows.Handle) (*printerInfo2, []byte, error) {
	var needed uint32
	r1, _, e1 := procGetPrinterW.Call(uintptr(h), 2, 0, 0, uintptr(unsafe.Pointer(&needed)))
	if r1 == 0 && !errors.Is(e1, windows.ERROR_INSUFFICIENT_BUFFER) {
		return nil, nil, fmt.Errorf("GetPrinterW: %w", e1)
	}
	if needed == 0 {
		return nil, nil, errors.New("GetPrinterW: empty printer info")
	}

	buf := make([]byte, needed)
	r1, _, e1 = procGetPrinterW.Call(uintptr(h), 2, uintptr(unsafe.Pointer(&buf[0])), uintptr(needed), uintptr(unsafe.Pointer(&needed)))
	if r1 == 0 {
		return nil, nil, fmt.Errorf("GetPrinterW: %w", e1)
	}
	return (*printerInfo2)(unsafe.Pointer(&buf[0])), buf, nil
}

func infoFrom(pi *printerInfo2) Info {
	return Info{
		Name:      windows.UTF16PtrToString(pi.PrinterName),
		Port:      windows.UTF16PtrToString(pi.PortName),
		Driver:    windows.UTF16PtrToString(pi.DriverName),
		IsDefault: pi.Attributes&printerAttributeDefault != 0,
	}
}

// lastError drops the "operation completed successfully" errno that Proc.Call always returns
func lastError(err error) error {
	var errno syscall.Errno
	if errors.As(err, &errno) && errno == 0 {
		return nil
	}
	return err
}
