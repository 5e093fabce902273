package mintpy

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
)

// executor abstracts process execution so the runner can be tested
// without a smallbaselineApp installation.
type executor interface {
	LookPath(file string) (string, error)
	Run(ctx context.Context, dir string, stdout, stderr io.Writer, name string, args ...string) error
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (osExecutor) Run(ctx context.Context, dir string, stdout, stderr io.Writer, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	return cmd.Run()
}

// Runner drives smallbaselineApp over a prepared work directory.
type Runner struct {
	executable string
	exec       executor
	logger     *slog.Logger
}

// NewRunner creates a runner for the given smallbaselineApp executable.
func NewRunner(executable string) *Runner {
	return &Runner{
		executable: executable,
		exec:       osExecutor{},
		logger:     slog.Default(),
	}
}

// WithLogger sets a custom logger for the runner.
func (r *Runner) WithLogger(logger *slog.Logger) *Runner {
	r.logger = logger
	return r
}

// Available reports whether the analysis executable can be found.
func (r *Runner) Available() bool {
	_, err := r.exec.LookPath(r.executable)
	return err == nil
}

// Run executes the small-baseline workflow with the given configuration
// file, working in workDir. Process output is forwarded to the logger
// line by line.
func (r *Runner) Run(ctx context.Context, workDir, configPath string) error {
	if _, err := r.exec.LookPath(r.executable); err != nil {
		return fmt.Errorf("%s not found in PATH: %w", r.executable, err)
	}

	r.logger.InfoContext(ctx, "starting time series analysis",
		slog.String("executable", r.executable),
		slog.String("config", configPath),
		slog.String("work_dir", workDir),
	)

	stdout := newLogWriter(ctx, r.logger, slog.LevelInfo)
	stderr := newLogWriter(ctx, r.logger, slog.LevelWarn)
	defer stdout.Close()
	defer stderr.Close()

	if err := r.exec.Run(ctx, workDir, stdout, stderr, r.executable, configPath); err != nil {
		return fmt.Errorf("time series analysis failed: %w", err)
	}

	r.logger.InfoContext(ctx, "time series analysis finished")
	return nil
}

// logWriter forwards process output to a logger one line at a time.
type logWriter struct {
	pw   *io.PipeWriter
	done chan struct{}
}

func newLogWriter(ctx context.Context, logger *slog.Logger, level slog.Level) *logWriter {
	pr, pw := io.Pipe()
	w := &logWriter{pw: pw, done: make(chan struct{})}
	go func() {
		defer close(w.done)
		scanner := bufio.NewScanner(pr)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			logger.Log(ctx, level, scanner.Text())
		}
	}()
	return w
}

func (w *logWriter) Write(p []byte) (int, error) {
	return w.pw.Write(p)
}

func (w *logWriter) Close() error {
	err := w.pw.Close()
	<-w.done
	return err
}
