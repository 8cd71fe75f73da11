package commands

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/adcondev/wps-print/internal/config"
	"github.com/adcondev/wps-print/internal/document"
	"github.com/adcondev/wps-print/internal/printerrors"
	"github.com/adcondev/wps-print/internal/session"
)

func printCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "print <file>",
		Short: "Print one document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.print(args[0])
		},
	}
	addPrintFlags(cmd)
	return cmd
}

func (c *cli) print(path string) error {
	job, err := buildJob(c.app.Fs, path, c.app.Settings)
	if err != nil {
		return err
	}

	log := c.app.Log.With(zap.String("job_id", uuid.NewString()))
	log.Info("[PRINT] 🔄 Processing job",
		zap.String("file", job.FilePath),
		zap.String("printer", job.Printer),
		zap.String("page_size", job.PageSize),
		zap.Stringer("orientation", job.Orientation))

	start := time.Now()
	ctrl := c.app.NewSession(log)
	if err := ctrl.Run(job); err != nil {
		log.Error("[PRINT] ❌ Job FAILED",
			zap.Stringer("reached", ctrl.Progress()),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err))
		return err
	}

	log.Info("[PRINT] ✅ Job completed", zap.Duration("duration", time.Since(start).Round(time.Millisecond)))
	return nil
}

// buildJob validates the request before any automation resource is acquired
func buildJob(fs afero.Fs, path string, s config.Settings) (session.Job, error) {
	if path == "" {
		return session.Job{}, fmt.Errorf("%w: a file path is required", printerrors.ErrValidation)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return session.Job{}, fmt.Errorf("%w: %s: %w", printerrors.ErrValidation, path, err)
	}

	info, err := fs.Stat(abs)
	if err != nil {
		return session.Job{}, fmt.Errorf("%w: file %s does not exist", printerrors.ErrValidation, abs)
	}
	if info.IsDir() {
		return session.Job{}, fmt.Errorf("%w: %s is a directory", printerrors.ErrValidation, abs)
	}

	if _, err := document.Classify(abs); err != nil {
		return session.Job{}, err
	}

	orientation, err := document.ParseOrientation(s.Orientation)
	if err != nil {
		return session.Job{}, err
	}

	return session.Job{
		FilePath:    abs,
		Printer:     s.Printer,
		PageSize:    s.PageSize,
		Orientation: orientation,
	}, nil
}
