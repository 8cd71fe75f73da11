// Package office wraps the WPS Office automation objects a print run needs.
//
// The interfaces mirror the object model exposed by KET.Application and
// KWps.Application. Every handle returned here has exactly one owner, which
// must call Release once it is done with it.
package office

// Launcher starts automation applications
type Launcher interface {
	// Launch instantiates the COM class registered under progID.
	Launch(progID string) (Application, error)
	// Reclaim forces collection of lingering native references after every handle is released.
	Reclaim()
}

// Application is a running office application
type Application interface {
	SetVisible(visible bool) error
	// OpenWorkbook opens a spreadsheet through Workbooks.Open.
	OpenWorkbook(path string) (Document, error)
	// OpenDocument opens a text document through Documents.Open.
	OpenDocument(path string) (Document, error)
	SetActivePrinter(name string) error
	Quit() error
	Release() error
}

// Document is an open workbook or text document
type Document interface {
	// PageSetups returns one entry per worksheet for a workbook, a single entry otherwise.
	PageSetups() ([]PageSetup, error)
	PrintOut() error
	SetSaved(saved bool) error
	// Close discards unsaved changes.
	Close() error
	Release() error
}

// PageSetup is the page configuration of one printable target
type PageSetup interface {
	SetOrientation(code int) error
	SetPaperSize(paperID int) error
	Release() error
}

var _ Launcher = (*COM)(nil)
