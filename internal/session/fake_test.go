package session

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/adcondev/wps-print/internal/install"
	"github.com/adcondev/wps-print/internal/office"
	"github.com/adcondev/wps-print/internal/printer"
	"github.com/adcondev/wps-print/internal/printerrors"
)

// recorder collects automation calls in order and injects failures by call name
type recorder struct {
	calls []string
	fail  map[string]error
	panic map[string]bool
}

func newRecorder() *recorder {
	return &recorder{fail: make(map[string]error), panic: make(map[string]bool)}
}

func (r *recorder) call(name string) error {
	r.calls = append(r.calls, name)
	if r.panic[name] {
		panic("boom in " + name)
	}
	return r.fail[name]
}

func (r *recorder) count(name string) int {
	n := 0
	for _, c := range r.calls {
		if c == name {
			n++
		}
	}
	return n
}

// cleanup returns the release-phase calls in order
func (r *recorder) cleanup() []string {
	var out []string
	for _, c := range r.calls {
		switch c {
		case "doc.SetSaved", "doc.Close", "doc.Release", "app.Quit", "app.Release", "Reclaim":
			out = append(out, c)
		}
	}
	return out
}

type fakeLauncher struct {
	rec    *recorder
	sheets int
	nilApp bool
	nilDoc bool

	app      *fakeApp
	progIDs  []string
	launched int
}

func (l *fakeLauncher) Launch(progID string) (office.Application, error) {
	l.launched++
	l.progIDs = append(l.progIDs, progID)
	if err := l.rec.call("Launch"); err != nil {
		return nil, err
	}
	if l.nilApp {
		return nil, nil
	}
	l.app = &fakeApp{rec: l.rec, sheets: l.sheets, nilDoc: l.nilDoc}
	return l.app, nil
}

func (l *fakeLauncher) Reclaim() {
	_ = l.rec.call("Reclaim")
}

type fakeApp struct {
	rec    *recorder
	sheets int
	nilDoc bool

	visible       *bool
	activePrinter string
	doc           *fakeDoc
}

func (a *fakeApp) SetVisible(v bool) error {
	a.visible = &v
	return a.rec.call("app.SetVisible")
}

func (a *fakeApp) OpenWorkbook(path string) (office.Document, error) {
	return a.open("app.OpenWorkbook", path, a.sheets)
}

func (a *fakeApp) OpenDocument(path string) (office.Document, error) {
	return a.open("app.OpenDocument", path, 1)
}

func (a *fakeApp) open(call, path string, targets int) (office.Document, error) {
	if err := a.rec.call(call); err != nil {
		return nil, err
	}
	if a.nilDoc {
		return nil, nil
	}
	a.doc = &fakeDoc{rec: a.rec, path: path}
	for i := 0; i < targets; i++ {
		a.doc.setups = append(a.doc.setups, &fakePageSetup{rec: a.rec, orientation: -1, paper: -1})
	}
	return a.doc, nil
}

func (a *fakeApp) SetActivePrinter(name string) error {
	a.activePrinter = name
	return a.rec.call("app.SetActivePrinter")
}

func (a *fakeApp) Quit() error    { return a.rec.call("app.Quit") }
func (a *fakeApp) Release() error { return a.rec.call("app.Release") }

type fakeDoc struct {
	rec    *recorder
	path   string
	setups []*fakePageSetup
	saved  bool
}

func (d *fakeDoc) PageSetups() ([]office.PageSetup, error) {
	if err := d.rec.call("doc.PageSetups"); err != nil {
		return nil, err
	}
	out := make([]office.PageSetup, len(d.setups))
	for i, s := range d.setups {
		out[i] = s
	}
	return out, nil
}

func (d *fakeDoc) PrintOut() error { return d.rec.call("doc.PrintOut") }

func (d *fakeDoc) SetSaved(saved bool) error {
	d.saved = saved
	return d.rec.call("doc.SetSaved")
}

func (d *fakeDoc) Close() error   { return d.rec.call("doc.Close") }
func (d *fakeDoc) Release() error { return d.rec.call("doc.Release") }

type fakePageSetup struct {
	rec         *recorder
	orientation int
	paper       int
	released    bool
}

func (p *fakePageSetup) SetOrientation(code int) error {
	p.orientation = code
	return p.rec.call("ps.SetOrientation")
}

func (p *fakePageSetup) SetPaperSize(id int) error {
	p.paper = id
	return p.rec.call("ps.SetPaperSize")
}

func (p *fakePageSetup) Release() error {
	p.released = true
	return nil
}

type fakeRegistry struct {
	printers    map[string]printer.Info
	defaultName string
}

func newFakeRegistry(defaultName string, printers ...printer.Info) *fakeRegistry {
	r := &fakeRegistry{printers: make(map[string]printer.Info), defaultName: defaultName}
	for _, p := range printers {
		r.printers[p.Name] = p
	}
	return r
}

func (r *fakeRegistry) Lookup(name string) (printer.Info, error) {
	p, ok := r.printers[name]
	if !ok {
		return printer.Info{}, fmt.Errorf("%w: %q", printerrors.ErrPrinterNotFound, name)
	}
	return p, nil
}

func (r *fakeRegistry) List() ([]printer.Info, error) {
	var out []printer.Info
	for _, p := range r.printers {
		out = append(out, p)
	}
	return out, nil
}

func (r *fakeRegistry) Default() (string, error) {
	if r.defaultName == "" {
		return "", fmt.Errorf("%w: no default printer", printerrors.ErrPrinterNotFound)
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

// tableDriver serves paper ids from memory for printer.Resolver
type tableDriver struct {
	ids map[string][]uint16
}

func (d *tableDriver) Capabilities(name, _ string, q printer.Query, buf printer.NativeBuffer) (int, error) {
	ids := d.ids[name]
	if buf != nil && q == printer.QueryPapers {
		b := buf.Bytes()
		for i, id := range ids {
			b[2*i] = byte(id)
			b[2*i+1] = byte(id >> 8)
		}
	}
	return len(ids), nil
}

func (d *tableDriver) Alloc(size int) (printer.NativeBuffer, error) {
	return memBuffer(make([]byte, size)), nil
}

type memBuffer []byte

func (b memBuffer) Bytes() []byte  { return b }
func (b memBuffer) Release() error { return nil }

const installDir = `/opt/wps`

// harness wires a Controller to fakes with an OfficeJet that knows A4 (9) and Letter (1)
type harness struct {
	rec      *recorder
	launcher *fakeLauncher
	registry *fakeRegistry
	driver   *tableDriver
	logs     *observer.ObservedLogs
	ctrl     *Controller
}

func newHarness(t *testing.T, sheets int) *harness {
	t.Helper()

	fs := afero.NewMemMapFs()
	for _, exe := range []string{"et.exe", "wps.exe"} {
		require.NoError(t, afero.WriteFile(fs, filepath.Join(installDir, exe), []byte("MZ"), 0o644))
	}

	rec := newRecorder()
	launcher := &fakeLauncher{rec: rec, sheets: sheets}
	registry := newFakeRegistry("OfficeJet",
		printer.Info{Name: "OfficeJet", Port: "USB001", PaperNames: []string{"A4", "Letter"}},
		printer.Info{Name: "Laser", Port: "IP_10.0.0.5", PaperNames: []string{"Letter", "Legal"}},
	)
	driver := &tableDriver{ids: map[string][]uint16{
		"OfficeJet": {9, 1},
		"Laser":     {1, 5},
	}}

	core, logs := observer.New(zapcore.DebugLevel)
	log := zap.New(core)

	ctrl := New(Config{
		Launcher: launcher,
		Registry: registry,
		Resolver: printer.NewResolver(registry, driver, log),
		Install:  install.Override(installDir),
		Fs:       fs,
		Logger:   log,
	})
	return &harness{rec: rec, launcher: launcher, registry: registry, driver: driver, logs: logs, ctrl: ctrl}
}

var errAutomation = errors.New("automation error 0x800A03EC")

func joined(calls []string) string {
	return strings.Join(calls, " > ")
}
