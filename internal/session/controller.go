// Package session drives one document through open, configure, print and release.
package session

import (
	"errors"
	"fmt"
	"runtime/debug"

	"github.com/spf13/afero"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/adcondev/wps-print/internal/document"
	"github.com/adcondev/wps-print/internal/install"
	"github.com/adcondev/wps-print/internal/office"
	"github.com/adcondev/wps-print/internal/printer"
	"github.com/adcondev/wps-print/internal/printerrors"
)

// Job is one print request. FilePath must be absolute.
type Job struct {
	FilePath    string
	Printer     string // empty keeps the current printer
	PageSize    string // empty keeps the driver's default paper
	Orientation document.Orientation
}

// PaperResolver maps a paper name to a driver paper id
type PaperResolver interface {
	Resolve(printerName, paperName string) (printer.Capability, error)
}

// Config holds the collaborators of a Controller
type Config struct {
	Launcher office.Launcher
	Registry printer.Registry
	Resolver PaperResolver
	Install  install.Supplier
	Fs       afero.Fs
	Logger   *zap.Logger
}

// Controller owns the automation handles of a single print run. It is not reusable.
type Controller struct {
	launcher office.Launcher
	registry printer.Registry
	resolver PaperResolver
	install  install.Supplier
	fs       afero.Fs
	log      *zap.Logger

	flavor   flavor
	state    State
	progress State
	launched bool
	app      office.Application
	doc      office.Document
}

// New creates a controller in the Created state
func New(cfg Config) *Controller {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	fs := cfg.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &Controller{
		launcher: cfg.Launcher,
		registry: cfg.Registry,
		resolver: cfg.Resolver,
		install:  cfg.Install,
		fs:       fs,
		log:      log.Named("session"),
		state:    Created,
	}
}

// State returns the current state
func (c *Controller) State() State {
	return c.state
}

// Progress returns the furthest state reached before release
func (c *Controller) Progress() State {
	return c.progress
}

// Run prints job. Every acquired handle is released before Run returns,
// and the first failure is the one returned.
func (c *Controller) Run(job Job) (err error) {
	if c.state != Created {
		return fmt.Errorf("session already %s", c.state)
	}

	// Capturar panics y convertirlos en errores
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic recovered in print session: %v", r)
			c.log.Error("[SESSION] 💥 Panic", zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
		}
	}()

	spec, err := document.Classify(job.FilePath)
	if err != nil {
		return err
	}
	c.flavor, err = flavorFor(spec.Kind)
	if err != nil {
		return err
	}

	exe, err := install.Verify(c.fs, c.install, spec.Executable)
	if err != nil {
		return err
	}
	c.log.Debug("[SESSION] Installation verified", zap.String("executable", exe))

	defer func() {
		if cerr := c.Release(); cerr != nil {
			c.log.Warn("[SESSION] ⚠️ Cleanup incomplete", zap.Error(cerr))
		}
	}()

	if err := c.acquire(spec); err != nil {
		return err
	}
	if err := c.open(job.FilePath); err != nil {
		return err
	}
	if err := c.configure(job); err != nil {
		return err
	}
	return c.print()
}

func (c *Controller) acquire(spec document.Spec) error {
	c.launched = true
	app, err := c.launcher.Launch(spec.ProgID)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", printerrors.ErrAutomationUnavailable, spec.ProgID, err)
	}
	if app == nil {
		return fmt.Errorf("%w: %s returned no application", printerrors.ErrAutomationUnavailable, spec.ProgID)
	}
	c.app = app
	c.advance(ApplicationAcquired)

	if err := app.SetVisible(false); err != nil {
		c.log.Warn("[SESSION] ⚠️ Could not hide application window", zap.Error(err))
	}
	c.log.Info("[SESSION] ✅ Application started", zap.String("prog_id", spec.ProgID))
	return nil
}

func (c *Controller) open(path string) error {
	doc, err := c.flavor.open(c.app, path)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", printerrors.ErrDocumentOpenFailed, path, err)
	}
	if doc == nil {
		return fmt.Errorf("%w: %s", printerrors.ErrDocumentOpenFailed, path)
	}
	c.doc = doc
	c.advance(DocumentOpened)
	c.log.Info("[SESSION] 📄 Document opened", zap.String("path", path))
	return nil
}

func (c *Controller) configure(job Job) error {
	if job.Printer != "" {
		if err := c.flavor.selectPrinter(c.app, c.registry, job.Printer); err != nil {
			if errors.Is(err, printerrors.ErrPrinterNotFound) {
				return err
			}
			return fmt.Errorf("select printer %q: %w", job.Printer, err)
		}
		c.log.Info("[SESSION] 🖨️ Printer selected", zap.String("printer", job.Printer))
	}

	setups, err := c.doc.PageSetups()
	if err != nil {
		return fmt.Errorf("read page setup: %w", err)
	}
	defer func() {
		for _, ps := range setups {
			if err := ps.Release(); err != nil {
				c.log.Warn("[SESSION] ⚠️ Error releasing page setup", zap.Error(err))
			}
		}
	}()

	if job.PageSize != "" {
		if err := c.applyPaperSize(job, setups); err != nil {
			return err
		}
	}

	code := c.flavor.orientationCode(job.Orientation)
	for i, ps := range setups {
		if err := ps.SetOrientation(code); err != nil {
			return fmt.Errorf("set orientation on page setup %d: %w", i+1, err)
		}
	}

	c.advance(Configured)
	c.log.Info("[SESSION] ⚙️ Page setup applied",
		zap.Stringer("orientation", job.Orientation),
		zap.Int("targets", len(setups)))
	return nil
}

// applyPaperSize sets the resolved paper on every target. A paper that cannot be
// resolved is dropped with a warning and the driver default stays in effect.
func (c *Controller) applyPaperSize(job Job, setups []office.PageSetup) error {
	target := job.Printer
	if target == "" {
		name, err := c.registry.Default()
		if err != nil {
			c.log.Warn("[SESSION] ⚠️ No default printer to resolve paper size against; using driver default",
				zap.String("page_size", job.PageSize), zap.Error(err))
			return nil
		}
		target = name
	}

	capability, err := c.resolver.Resolve(target, job.PageSize)
	if err != nil {
		c.log.Warn("[SESSION] ⚠️ Paper size not applied; using driver default",
			zap.String("printer", target),
			zap.String("page_size", job.PageSize),
			zap.Bool("degraded", printerrors.IsDegraded(err)),
			zap.Error(err))
		return nil
	}

	for i, ps := range setups {
		if err := ps.SetPaperSize(capability.PaperID); err != nil {
			return fmt.Errorf("set paper size on page setup %d: %w", i+1, err)
		}
	}
	c.log.Info("[SESSION] 📐 Paper size applied",
		zap.String("printer", target),
		zap.String("page_size", capability.PaperName),
		zap.Int("paper_id", capability.PaperID))
	return nil
}

func (c *Controller) print() error {
	if err := c.doc.PrintOut(); err != nil {
		return fmt.Errorf("%w: %w", printerrors.ErrPrintFailed, err)
	}
	c.advance(Printed)
	c.log.Info("[SESSION] ✅ Print submitted")
	return nil
}

// Release closes the document, quits the application and reclaims automation
// resources. Each step runs even if an earlier one failed. Calling it again is a no-op.
func (c *Controller) Release() error {
	if c.state == Released {
		return nil
	}

	var errs error
	if c.doc != nil {
		errs = multierr.Append(errs, step("mark document saved", c.doc.SetSaved(true)))
		errs = multierr.Append(errs, step("close document", c.doc.Close()))
		errs = multierr.Append(errs, step("release document", c.doc.Release()))
		c.doc = nil
	}
	if c.app != nil {
		errs = multierr.Append(errs, step("quit application", c.app.Quit()))
		errs = multierr.Append(errs, step("release application", c.app.Release()))
		c.app = nil
	}
	if c.launched {
		c.launcher.Reclaim()
	}

	c.state = Released
	c.log.Debug("[SESSION] Resources released", zap.Stringer("progress", c.progress))

	if errs != nil {
		return fmt.Errorf("%w: %w", printerrors.ErrCleanupWarning, errs)
	}
	return nil
}

func (c *Controller) advance(s State) {
	c.state = s
	c.progress = s
}

func step(what string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", what, err)
}
