package session

import (
	"fmt"

	"github.com/adcondev/wps-print/internal/document"
	"github.com/adcondev/wps-print/internal/office"
	"github.com/adcondev/wps-print/internal/printer"
	"github.com/adcondev/wps-print/internal/printerrors"
)

// flavor holds what differs between spreadsheets and text documents
type flavor interface {
	open(app office.Application, path string) (office.Document, error)
	selectPrinter(app office.Application, registry printer.Registry, name string) error
	orientationCode(o document.Orientation) int
}

func flavorFor(kind document.Kind) (flavor, error) {
	switch kind {
	case document.Spreadsheet:
		return spreadsheet{}, nil
	case document.WordProcessor:
		return wordProcessor{}, nil
	default:
		return nil, fmt.Errorf("%w: no automation for %s", printerrors.ErrUnsupportedType, kind)
	}
}

// OrientationCode returns the PageSetup.Orientation value for kind
func OrientationCode(kind document.Kind, o document.Orientation) (int, error) {
	f, err := flavorFor(kind)
	if err != nil {
		return 0, err
	}
	return f.orientationCode(o), nil
}

type spreadsheet struct{}

func (spreadsheet) open(app office.Application, path string) (office.Document, error) {
	return app.OpenWorkbook(path)
}

// selectPrinter switches the system default: workbooks print to it and take no target printer.
// The previous default is not restored.
func (spreadsheet) selectPrinter(_ office.Application, registry printer.Registry, name string) error {
	return registry.SetDefault(name)
}

func (spreadsheet) orientationCode(o document.Orientation) int {
	if o == document.Landscape {
		return 2 // xlLandscape
	}
	return 1 // xlPortrait
}

type wordProcessor struct{}

func (wordProcessor) open(app office.Application, path string) (office.Document, error) {
	return app.OpenDocument(path)
}

func (wordProcessor) selectPrinter(app office.Application, registry printer.Registry, name string) error {
	if _, err := registry.Lookup(name); err != nil {
		return err
	}
	return app.SetActivePrinter(name)
}

func (wordProcessor) orientationCode(o document.Orientation) int {
	if o == document.Landscape {
		return 1 // wdOrientLandscape
	}
	return 0 // wdOrientPortrait
}
