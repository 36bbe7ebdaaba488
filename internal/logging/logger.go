package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"recodevideo/internal/config"
)

// LogFilePattern matches the per-run log files written into the log directory.
const LogFilePattern = "recode-video-*.log"

// Options describes logger construction parameters.
type Options struct {
	Level  string
	Format string
	// OutputPaths receive output in Format. "stdout" and "stderr" name the
	// standard streams; anything else is a file opened for appending.
	OutputPaths []string
	// JSONPaths receive JSON lines regardless of Format.
	JSONPaths   []string
	Development bool
}

// New constructs a slog logger using the provided options.
func New(opts Options) (*slog.Logger, error) {
	levelVar := new(slog.LevelVar)
	levelVar.Set(ParseLevel(opts.Level))
	addSource := opts.Development || levelVar.Level() <= slog.LevelDebug

	format := strings.ToLower(strings.TrimSpace(opts.Format))
	if format == "" {
		format = "console"
	}

	outputs := opts.OutputPaths
	if len(outputs) == 0 && len(opts.JSONPaths) == 0 {
		outputs = []string{"stderr"}
	}

	var handlers []slog.Handler
	if len(outputs) > 0 {
		writer, err := openWriters(outputs)
		if err != nil {
			return nil, err
		}
		switch format {
		case "json":
			handlers = append(handlers, newJSONHandler(writer, levelVar, addSource))
		case "console":
			handlers = append(handlers, newPrettyHandler(writer, levelVar, addSource))
		default:
			return nil, fmt.Errorf("log format: unsupported value %q", opts.Format)
		}
	}
	if len(opts.JSONPaths) > 0 {
		writer, err := openWriters(opts.JSONPaths)
		if err != nil {
			return nil, err
		}
		handlers = append(handlers, newJSONHandler(writer, levelVar, addSource))
	}

	return slog.New(newFanoutHandler(handlers...)), nil
}

// NewFromConfig creates the run logger: console (or JSON) output on stderr and
// a JSON log file for this run in the configured log directory. It returns the
// log file path.
func NewFromConfig(cfg *config.Config) (*slog.Logger, string, error) {
	if cfg == nil {
		logger, err := New(Options{Level: "info", Format: "console"})
		return logger, "", err
	}

	var jsonPaths []string
	var logPath string
	if cfg.Paths.LogDir != "" {
		if err := os.MkdirAll(cfg.Paths.LogDir, 0o755); err != nil {
			return nil, "", fmt.Errorf("ensure log directory: %w", err)
		}
		logPath = RunLogPath(cfg.Paths.LogDir, time.Now())
		jsonPaths = append(jsonPaths, logPath)
	}

	logger, err := New(Options{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		OutputPaths: []string{"stderr"},
		JSONPaths:   jsonPaths,
	})
	if err != nil {
		return nil, "", err
	}
	return logger, logPath, nil
}

// RunLogPath names the log file for a run started at ts.
func RunLogPath(dir string, ts time.Time) string {
	return filepath.Join(dir, "recode-video-"+ts.Format("20060102T150405")+".log")
}

// ParseLevel maps a config level name onto a slog level, defaulting to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func openWriters(paths []string) (io.Writer, error) {
	seen := map[string]struct{}{}
	var writers []io.Writer
	for _, path := range paths {
		trimmed := strings.TrimSpace(path)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}

		switch trimmed {
		case "stdout":
			writers = append(writers, os.Stdout)
		case "stderr":
			writers = append(writers, os.Stderr)
		default:
			if err := ensureLogDir(trimmed); err != nil {
				return nil, err
			}
			file, err := os.OpenFile(trimmed, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o664)
			if err != nil {
				return nil, fmt.Errorf("open log file %s: %w", trimmed, err)
			}
			writers = append(writers, file)
		}
	}

	switch len(writers) {
	case 0:
		return os.Stderr, nil
	case 1:
		return writers[0], nil
	default:
		return io.MultiWriter(writers...), nil
	}
}

func ensureLogDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func newJSONHandler(w io.Writer, lvl *slog.LevelVar, addSource bool) slog.Handler {
	opts := slog.HandlerOptions{
		Level:     lvl,
		AddSource: addSource,
		ReplaceAttr: func(groups []string, attr slog.Attr) slog.Attr {
			if len(groups) > 0 {
				return attr
			}
			switch attr.Key {
			case slog.TimeKey:
				attr.Key = "ts"
				if attr.Value.Kind() == slog.KindTime {
					attr.Value = slog.StringValue(attr.Value.Time().UTC().Format(time.RFC3339Nano))
				}
			case slog.LevelKey:
				attr.Value = slog.StringValue(strings.ToLower(attr.Value.String()))
			case slog.SourceKey:
				if src, ok := attr.Value.Any().(*slog.Source); ok && src != nil {
					attr.Value = slog.StringValue(fmt.Sprintf("%s:%d", filepath.Base(src.File), src.Line))
				}
			}
			return attr
		},
	}
	return slog.NewJSONHandler(w, &opts)
}
