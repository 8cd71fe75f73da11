//go:build windows

package office

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/go-ole/go-ole"
	"github.com/go-ole/go-ole/oleutil"
)

const (
	sFalse             = 0x00000001 // CoInitializeEx: already initialized on this thread
	wdDoNotSaveChanges = 0
)

// COM launches applications through OLE automation. All calls must stay on
// the goroutine that called Launch; the OS thread is locked until Reclaim.
type COM struct {
	initialized bool
	locked      bool
}

// NewCOM creates a COM launcher
func NewCOM() *COM {
	return &COM{}
}

func (c *COM) Launch(progID string) (Application, error) {
	if !c.locked {
		runtime.LockOSThread()
		c.locked = true
	}
	if !c.initialized {
		if err := ole.CoInitializeEx(0, ole.COINIT_APARTMENTTHREADED); err != nil {
			var oleErr *ole.OleError
			if !errors.As(err, &oleErr) || oleErr.Code() != sFalse {
				return nil, fmt.Errorf("CoInitializeEx: %w", err)
			}
		}
		c.initialized = true
	}

	unknown, err := oleutil.CreateObject(progID)
	if err != nil {
		return nil, fmt.Errorf("CreateObject(%s): %w", progID, err)
	}
	defer unknown.Release()

	disp, err := unknown.QueryInterface(ole.IID_IDispatch)
	if err != nil {
		return nil, fmt.Errorf("QueryInterface(%s): %w", progID, err)
	}
	return &comApplication{disp: disp}, nil
}

func (c *COM) Reclaim() {
	runtime.GC()
	if c.initialized {
		ole.CoUninitialize()
		c.initialized = false
	}
	if c.locked {
		runtime.UnlockOSThread()
		c.locked = false
	}
}

type comApplication struct {
	disp *ole.IDispatch
}

func (a *comApplication) SetVisible(visible bool) error {
	return putProperty(a.disp, "Visible", visible)
}

func (a *comApplication) OpenWorkbook(path string) (Document, error) {
	return a.open("Workbooks", path, true)
}

func (a *comApplication) OpenDocument(path string) (Document, error) {
	return a.open("Documents", path, false)
}

func (a *comApplication) open(collection, path string, workbook bool) (Document, error) {
	coll, err := dispatchProperty(a.disp, collection)
	if err != nil {
		return nil, err
	}
	defer coll.Release()

	v, err := oleutil.CallMethod(coll, "Open", path)
	if err != nil {
		return nil, fmt.Errorf("%s.Open: %w", collection, err)
	}
	disp := v.ToIDispatch()
	if disp == nil {
		return nil, fmt.Errorf("%s.Open returned no document", collection)
	}
	return &comDocument{disp: disp, workbook: workbook}, nil
}

func (a *comApplication) SetActivePrinter(name string) error {
	return putProperty(a.disp, "ActivePrinter", name)
}

func (a *comApplication) Quit() error {
	if a.disp == nil {
		return errors.New("application already released")
	}
	_, err := oleutil.CallMethod(a.disp, "Quit")
	return err
}

func (a *comApplication) Release() error {
	if a.disp == nil {
		return nil
	}
	a.disp.Release()
	a.disp = nil
	return nil
}

type comDocument struct {
	disp     *ole.IDispatch
	workbook bool
}

func (d *comDocument) PageSetups() ([]PageSetup, error) {
	if !d.workbook {
		ps, err := dispatchProperty(d.disp, "PageSetup")
		if err != nil {
			return nil, err
		}
		return []PageSetup{&comPageSetup{disp: ps}}, nil
	}

	sheets, err := dispatchProperty(d.disp, "Worksheets")
	if err != nil {
		return nil, err
	}
	defer sheets.Release()

	cv, err := oleutil.GetProperty(sheets, "Count")
	if err != nil {
		return nil, fmt.Errorf("Worksheets.Count: %w", err)
	}
	count := int(cv.Val)

	setups := make([]PageSetup, 0, count)
	for i := 1; i <= count; i++ {
		ps, err := sheetPageSetup(sheets, i)
		if err != nil {
			for _, s := range setups {
				_ = s.Release()
			}
			return nil, err
		}
		setups = append(setups, &comPageSetup{disp: ps})
	}
	return setups, nil
}

func sheetPageSetup(sheets *ole.IDispatch, index int) (*ole.IDispatch, error) {
	sv, err := oleutil.GetProperty(sheets, "Item", index)
	if err != nil {
		return nil, fmt.Errorf("Worksheets.Item(%d): %w", index, err)
	}
	sheet := sv.ToIDispatch()
	if sheet == nil {
		return nil, fmt.Errorf("Worksheets.Item(%d) is not an object", index)
	}
	defer sheet.Release()
	return dispatchProperty(sheet, "PageSetup")
}

func (d *comDocument) PrintOut() error {
	_, err := oleutil.CallMethod(d.disp, "PrintOut")
	return err
}

func (d *comDocument) SetSaved(saved bool) error {
	return putProperty(d.disp, "Saved", saved)
}

func (d *comDocument) Close() error {
	if d.disp == nil {
		return errors.New("document already released")
	}
	var err error
	if d.workbook {
		_, err = oleutil.CallMethod(d.disp, "Close", false)
	} else {
		_, err = oleutil.CallMethod(d.disp, "Close", wdDoNotSaveChanges)
	}
	return err
}

func (d *comDocument) Release() error {
	if d.disp == nil {
		return nil
	}
	d.disp.Release()
	d.disp = nil
	return nil
}

type comPageSetup struct {
	disp *ole.IDispatch
}

func (p *comPageSetup) SetOrientation(code int) error {
	return putProperty(p.disp, "Orientation", code)
}

func (p *comPageSetup) SetPaperSize(paperID int) error {
	return putProperty(p.disp, "PaperSize", paperID)
}

func (p *comPageSetup) Release() error {
	if p.disp == nil {
		return nil
	}
	p.disp.Release()
	p.disp = nil
	return nil
}

func dispatchProperty(disp *ole.IDispatch, name string) (*ole.IDispatch, error) {
	if disp == nil {
		return nil, fmt.Errorf("get %s: object released", name)
	}
	v, err := oleutil.GetProperty(disp, name)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", name, err)
	}
	d := v.ToIDispatch()
	if d == nil {
		return nil, fmt.Errorf("get %s: not an object", name)
	}
	return d, nil
}

func putProperty(disp *ole.IDispatch, name string, value interface{}) error {
	if disp == nil {
		return fmt.Errorf("set %s: object released", name)
	}
	if _, err := oleutil.PutProperty(disp, name, value); err != nil {
		return fmt.Errorf("set %s: %w", name, err)
	}
	return nil
}
