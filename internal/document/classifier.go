// Package document maps file extensions to the WPS Office component that prints them.
package document

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/adcondev/wps-print/internal/printerrors"
)

// Kind is the family of office application needed for a document
type Kind int

const (
	Spreadsheet Kind = iota + 1
	WordProcessor
)

func (k Kind) String() string {
	switch k {
	case Spreadsheet:
		return "spreadsheet"
	case WordProcessor:
		return "word-processor"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Spec describes how to automate one document kind
type Spec struct {
	Kind       Kind
	Executable string // binary expected in the installation directory
	ProgID     string // COM automation entry point
}

var (
	spreadsheetSpec = Spec{Kind: Spreadsheet, Executable: "et.exe", ProgID: "KET.Application"}
	wordSpec        = Spec{Kind: WordProcessor, Executable: "wps.exe", ProgID: "KWps.Application"}
)

// extensions is the fixed lookup table; every entry maps to exactly one spec
var extensions = map[string]Spec{
	".xlsx": spreadsheetSpec,
	".xls":  spreadsheetSpec,
	".et":   spreadsheetSpec,
	".docx": wordSpec,
	".doc":  wordSpec,
	".wps":  wordSpec,
}

// Classify returns the automation spec for the file's extension
func Classify(path string) (Spec, error) {
	ext := strings.ToLower(filepath.Ext(path))
	spec, ok := extensions[ext]
	if !ok {
		return Spec{}, &printerrors.UnsupportedTypeError{
			Extension: ext,
			Supported: SupportedExtensions(),
		}
	}
	return spec, nil
}

// SupportedExtensions returns the accepted extensions in sorted order
func SupportedExtensions() []string {
	exts := make([]string, 0, len(extensions))
	for ext := range extensions {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}
