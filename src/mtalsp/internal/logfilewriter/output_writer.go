// Package logfilewriter keeps human readable reports apart from the server log.
package logfilewriter

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/uber/mta-lsp/src/mtalsp/internal/fs"
	"github.com/uber/mta-lsp/src/mtalsp/internal/serverinfofile"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	_fmtOutputKey = "output:%s"
	_reportsDir   = "mta-lsp"
)

// Params define the dependencies for SetupOutputWriter.
type Params struct {
	FS             fs.MtaFS
	Lifecycle      fx.Lifecycle
	ServerInfoFile serverinfofile.ServerInfoFile
}

// SetupOutputWriter creates a writer for the report called name.
// Reports go to a fresh file below the temp directory whose path is published in the server info file under "output:<name>".
// The file is removed when the application stops.
func SetupOutputWriter(p Params, name string) (io.Writer, error) {
	dir := filepath.Join(os.TempDir(), _reportsDir)
	if err := p.FS.MkdirAll(dir); err != nil {
		return nil, fmt.Errorf("creating report folder: %w", err)
	}

	reportFile, err := p.FS.TempFile(dir, name+"-*.log")
	if err != nil {
		return nil, fmt.Errorf("creating report file: %w", err)
	}

	if err := p.ServerInfoFile.UpdateField(fmt.Sprintf(_fmtOutputKey, name), reportFile.Name()); err != nil {
		reportFile.Close()
		p.FS.Remove(reportFile.Name())
		return nil, fmt.Errorf("publishing report file: %w", err)
	}

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
		zapcore.AddSync(reportFile),
		zap.InfoLevel,
	)
	reportLogger := zap.New(core).Sugar()

	p.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			reportLogger.Sync()
			reportFile.Close()
			return p.FS.Remove(reportFile.Name())
		},
	})

	return &lineWriter{logger: reportLogger}, nil
}

type lineWriter struct {
	logger *zap.SugaredLogger
}

// Write logs every non-empty line of p as its own entry.
func (w *lineWriter) Write(p []byte) (int, error) {
	for _, line := range strings.Split(string(p), "\n") {
		if line = strings.TrimRight(line, "\r"); line != "" {
			w.logger.Info(line)
		}
	}
	return len(p), nil
}
