package printer

import (
	"encoding/binary"
	"errors"
	"fmt"
	"syscall"

	"github.com/adcondev/wps-print/internal/printerrors"
)

type fakeRegistry struct {
	printers    map[string]Info
	defaultName string
	lookups     int
	lists       int
	listErr     error
}

func newFakeRegistry(printers ...Info) *fakeRegistry {
	r := &fakeRegistry{printers: make(map[string]Info)}
	for _, p := range printers {
		r.printers[p.Name] = p
	}
	return r
}

func (r *fakeRegistry) Lookup(name string) (Info, error) {
	r.lookups++
	p, ok := r.printers[name]
	if !ok {
		return Info{}, fmt.Errorf("%w: %q", printerrors.ErrPrinterNotFound, name)
	}
	return p, nil
}

func (r *fakeRegistry) List() ([]Info, error) {
	r.lists++
	if r.listErr != nil {
		return nil, r.listErr
	}
	out := make([]Info, 0, len(r.printers))
	for _, p := range r.printers {
		out = append(out, p)
	}
	return out, nil
}

func (r *fakeRegistry) Default() (string, error) {
	if r.defaultName == "" {
		return "", printerrors.ErrPrinterNotFound
	}
	return r.defaultName, nil
}

func (r *fakeRegistry) SetDefault(name string) error {
	if _, ok := r.printers[name]; !ok {
		return fmt.Errorf("%w: %q", printerrors.ErrPrinterNotFound, name)
	}
	r.defaultName = name
	return nil
}

// fakeDriver answers capability queries from fixed tables
type fakeDriver struct {
	ids        []uint16
	nameCount  int   // entries reported for QueryPaperNames; defaults to len(ids)
	countOnly  int   // overrides the count query when non-zero
	lastErr    error // returned alongside non-positive counts
	allocErrAt int   // 1-based Alloc call that fails; 0 never

	allocs   int
	released int
	queries  []Query
}

func (d *fakeDriver) Capabilities(_, _ string, q Query, buf NativeBuffer) (int, error) {
	d.queries = append(d.queries, q)
	count := len(d.ids)
	if q == QueryPaperNames && d.nameCount != 0 {
		count = d.nameCount
	}
	if buf == nil && d.countOnly != 0 {
		count = d.countOnly
	}
	if count <= 0 {
		return count, d.lastErr
	}
	if buf != nil && q == QueryPapers {
		b := buf.Bytes()
		for i, id := range d.ids {
			if (i+1)*paperIDSize > len(b) {
				break
			}
			binary.LittleEndian.PutUint16(b[i*paperIDSize:], id)
		}
	}
	return count, nil
}

func (d *fakeDriver) Alloc(size int) (NativeBuffer, error) {
	d.allocs++
	if d.allocErrAt == d.allocs {
		return nil, errors.New("out of memory")
	}
	return &trackedBuffer{data: make([]byte, size), driver: d}, nil
}

type trackedBuffer struct {
	data   []byte
	driver *fakeDriver
	done   bool
}

func (b *trackedBuffer) Bytes() []byte { return b.data }

func (b *trackedBuffer) Release() error {
	if b.done {
		return errors.New("double release")
	}
	b.done = true
	b.driver.released++
	return nil
}

var errAccessDenied = syscall.Errno(5)
