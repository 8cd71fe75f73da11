package commands

import (
	"bytes"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/adcondev/wps-print/internal/app"
	"github.com/adcondev/wps-print/internal/install"
	"github.com/adcondev/wps-print/internal/office"
	"github.com/adcondev/wps-print/internal/printer"
	"github.com/adcondev/wps-print/internal/printerrors"
)

type stubRegistry struct {
	printers    []printer.Info
	defaultName string
}

func (r *stubRegistry) Lookup(name string) (printer.Info, error) {
	for _, p := range r.printers {
		if p.Name == name {
			return p, nil
		}
	}
	return printer.Info{}, fmt.Errorf("%w: %q", printerrors.ErrPrinterNotFound, name)
}

func (r *stubRegistry) List() ([]printer.Info, error) {
	out := make([]printer.Info, len(r.printers))
	copy(out, r.printers)
	for i := range out {
		out[i].IsDefault = out[i].Name == r.defaultName
	}
	return out, nil
}

func (r *stubRegistry) Default() (string, error) { return r.defaultName, nil }

func (r *stubRegistry) SetDefault(name string) error {
	if _, err := r.Lookup(name); err != nil {
		return err
	}
	r.defaultName = name
	return nil
}

type stubDriver map[string][]uint16

func (d stubDriver) Capabilities(name, _ string, q printer.Query, buf printer.NativeBuffer) (int, error) {
	ids := d[name]
	if buf != nil && q == printer.QueryPapers {
		b := buf.Bytes()
		for i, id := range ids {
			b[2*i] = byte(id)
			b[2*i+1] = byte(id >> 8)
		}
	}
	return len(ids), nil
}

func (d stubDriver) Alloc(size int) (printer.NativeBuffer, error) {
	return byteBuffer(make([]byte, size)), nil
}

type byteBuffer []byte

func (b byteBuffer) Bytes() []byte  { return b }
func (b byteBuffer) Release() error { return nil }

// stubLauncher records what reached the automation layer
type stubLauncher struct {
	progIDs []string
	opened  []string
	papers  []int
	printed int
	quit    int
}

func (l *stubLauncher) Launch(progID string) (office.Application, error) {
	l.progIDs = append(l.progIDs, progID)
	return &stubApp{l: l}, nil
}

func (l *stubLauncher) Reclaim() {}

type stubApp struct{ l *stubLauncher }

func (a *stubApp) SetVisible(bool) error { return nil }

func (a *stubApp) OpenWorkbook(path string) (office.Document, error) {
	a.l.opened = append(a.l.opened, path)
	return &stubDoc{l: a.l}, nil
}

func (a *stubApp) OpenDocument(path string) (office.Document, error) {
	return a.OpenWorkbook(path)
}

func (a *stubApp) SetActivePrinter(string) error { return nil }
func (a *stubApp) Quit() error                   { a.l.quit++; return nil }
func (a *stubApp) Release() error                { return nil }

type stubDoc struct{ l *stubLauncher }

func (d *stubDoc) PageSetups() ([]office.PageSetup, error) {
	return []office.PageSetup{&stubPageSetup{l: d.l}}, nil
}

func (d *stubDoc) PrintOut() error     { d.l.printed++; return nil }
func (d *stubDoc) SetSaved(bool) error { return nil }
func (d *stubDoc) Close() error        { return nil }
func (d *stubDoc) Release() error      { return nil }

type stubPageSetup struct{ l *stubLauncher }

func (p *stubPageSetup) SetOrientation(int) error { return nil }
func (p *stubPageSetup) SetPaperSize(id int) error {
	p.l.papers = append(p.l.papers, id)
	return nil
}
func (p *stubPageSetup) Release() error { return nil }

const wpsDir = "/opt/wps"

type fixture struct {
	fs       afero.Fs
	launcher *stubLauncher
	deps     app.Deps
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	fs := afero.NewMemMapFs()
	for _, exe := range []string{"et.exe", "wps.exe"} {
		require.NoError(t, afero.WriteFile(fs, filepath.Join(wpsDir, exe), []byte("MZ"), 0o644))
	}

	launcher := &stubLauncher{}
	return &fixture{
		fs:       fs,
		launcher: launcher,
		deps: app.Deps{
			Registry: &stubRegistry{
				defaultName: "OfficeJet",
				printers: []printer.Info{
					{Name: "OfficeJet", Port: "USB001", Driver: "HP Universal", PaperNames: []string{"A4", "Letter"}},
					{Name: "Laser", Port: "IP_10.0.0.5", Driver: "PCL6", PaperNames: []string{"Letter", "Legal"}},
				},
			},
			Driver:   stubDriver{"OfficeJet": {9, 1}, "Laser": {1, 5}},
			Launcher: launcher,
			Install:  install.Override(wpsDir),
			Fs:       fs,
		},
	}
}

// file creates a document in the fixture filesystem and returns its absolute path
func (f *fixture) file(t *testing.T, name string) string {
	t.Helper()
	abs, err := filepath.Abs(name)
	require.NoError(t, err)
	require.NoError(t, afero.WriteFile(f.fs, abs, []byte("doc"), 0o644))
	return abs
}

func (f *fixture) run(args ...string) (string, string, error) {
	var stdout, stderr bytes.Buffer
	err := run(args, f.deps, &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}
