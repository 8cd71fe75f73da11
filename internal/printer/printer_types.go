// Package printer resolves paper sizes against installed printer drivers.
package printer

// Info is the structured view of an installed printer
type Info struct {
	Name       string
	Port       string
	Driver     string
	IsDefault  bool
	PaperNames []string

	// namesErr is why PaperNames could not be read from the driver
	namesErr error
}

// Capability pairs a driver paper id with its display name
type Capability struct {
	PaperID   int
	PaperName string
}

// Query selects what a capability query returns
type Query uint16

// DeviceCapabilities query kinds
const (
	QueryPapers     Query = 2  // DC_PAPERS: one WORD per entry
	QueryPaperNames Query = 16 // DC_PAPERNAMES: one 64-WCHAR string per entry
)

const (
	paperIDSize    = 2
	paperNameChars = 64
	paperNameSize  = paperNameChars * 2
)

func (q Query) String() string {
	switch q {
	case QueryPapers:
		return "papers"
	case QueryPaperNames:
		return "paper-names"
	default:
		return "query"
	}
}
