// Package app wires the printer registry, automation launcher and logger for the commands.
package app

import (
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/adcondev/wps-print/internal/config"
	"github.com/adcondev/wps-print/internal/install"
	"github.com/adcondev/wps-print/internal/office"
	"github.com/adcondev/wps-print/internal/printer"
	"github.com/adcondev/wps-print/internal/session"
)

// Deps are the platform collaborators. Zero values select the Windows implementations.
type Deps struct {
	Registry printer.Registry
	Driver   printer.Driver
	Launcher office.Launcher
	Install  install.Supplier
	Fs       afero.Fs
}

// App bundles everything a command needs
type App struct {
	Env      config.Environment
	Settings config.Settings
	Log      *zap.Logger

	Printers *printer.Cache
	Papers   *printer.Resolver
	Launcher office.Launcher
	Install  install.Supplier
	Fs       afero.Fs
}

// New builds the dependency graph
func New(env config.Environment, settings config.Settings, log *zap.Logger, deps Deps) *App {
	if deps.Registry == nil || deps.Driver == nil {
		spooler := printer.NewSpooler()
		if deps.Registry == nil {
			deps.Registry = spooler
		}
		if deps.Driver == nil {
			deps.Driver = spooler
		}
	}
	if deps.Launcher == nil {
		deps.Launcher = office.NewCOM()
	}
	if deps.Install == nil {
		deps.Install = install.Chain{install.Override(settings.InstallDir), install.Registry{}}
	}
	if deps.Fs == nil {
		deps.Fs = afero.NewOsFs()
	}

	printers := printer.NewCache(deps.Registry, env.PrinterCacheTTL)

	return &App{
		Env:      env,
		Settings: settings,
		Log:      log,
		Printers: printers,
		Papers:   printer.NewResolver(printers, deps.Driver, log),
		Launcher: deps.Launcher,
		Install:  deps.Install,
		Fs:       deps.Fs,
	}
}

// NewSession creates a controller for one print run
func (a *App) NewSession(log *zap.Logger) *session.Controller {
	return session.New(session.Config{
		Launcher: a.Launcher,
		Registry: a.Printers,
		Resolver: a.Papers,
		Install:  a.Install,
		Fs:       a.Fs,
		Logger:   log,
	})
}
