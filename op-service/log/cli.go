package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/urfave/cli/v2"
	"golang.org/x/term"

	"github.com/ethereum/go-ethereum/log"

	opservice "github.com/mantlenetworkio/faucet-devnet/op-service"
)

const (
	LevelFlagName  = "log.level"
	FormatFlagName = "log.format"
	ColorFlagName  = "log.color"
)

// FormatType defines a type of log format.
type FormatType string

const (
	FormatText     FormatType = "text"
	FormatTerminal FormatType = "terminal"
	FormatLogFmt   FormatType = "logfmt"
	FormatJSON     FormatType = "json"
)

var formats = []FormatType{FormatText, FormatTerminal, FormatLogFmt, FormatJSON}

func (f FormatType) Check() error {
	for _, v := range formats {
		if f == v {
			return nil
		}
	}
	return fmt.Errorf("unrecognized log format: %q", string(f))
}

func CLIFlags(envPrefix string) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    LevelFlagName,
			Usage:   "The lowest log level that will be output",
			Value:   "info",
			EnvVars: opservice.PrefixEnvVar(envPrefix, "LOG_LEVEL"),
		},
		&cli.StringFlag{
			Name:    FormatFlagName,
			Usage:   "Format the log output. Supported formats: 'text', 'terminal', 'logfmt', 'json'",
			Value:   string(FormatText),
			EnvVars: opservice.PrefixEnvVar(envPrefix, "LOG_FORMAT"),
		},
		&cli.BoolFlag{
			Name:    ColorFlagName,
			Usage:   "Color the log output if in terminal mode",
			EnvVars: opservice.PrefixEnvVar(envPrefix, "LOG_COLOR"),
		},
	}
}

type CLIConfig struct {
	Level  slog.Level
	Color  bool
	Format FormatType
}

func (cfg CLIConfig) Check() error {
	return cfg.Format.Check()
}

// DefaultCLIConfig creates a default log config, coloring only when stdout is a terminal.
func DefaultCLIConfig() CLIConfig {
	return CLIConfig{
		Level:  log.LevelInfo,
		Format: FormatText,
		Color:  term.IsTerminal(int(os.Stdout.Fd())),
	}
}

// ReadCLIConfig reads the logger config from the CLI context.
// Invalid values are reported by Check.
func ReadCLIConfig(ctx *cli.Context) (CLIConfig, error) {
	cfg := DefaultCLIConfig()
	lvl, err := LevelFromString(ctx.String(LevelFlagName))
	if err != nil {
		return cfg, err
	}
	cfg.Level = lvl
	cfg.Format = FormatType(strings.ToLower(ctx.String(FormatFlagName)))
	if ctx.IsSet(ColorFlagName) {
		cfg.Color = ctx.Bool(ColorFlagName)
	}
	return cfg, cfg.Check()
}

// LevelFromString returns the appropriate level from a string name.
func LevelFromString(lvlString string) (slog.Level, error) {
	switch strings.ToLower(lvlString) {
	case "trace", "trce":
		return log.LevelTrace, nil
	case "debug", "dbug":
		return log.LevelDebug, nil
	case "info":
		return log.LevelInfo, nil
	case "warn":
		return log.LevelWarn, nil
	case "error", "eror":
		return log.LevelError, nil
	case "crit":
		return log.LevelCrit, nil
	default:
		return log.LevelDebug, fmt.Errorf("unknown level: %v", lvlString)
	}
}

// NewLogHandler creates a log handler for the given format, filtered by a level that can be
// changed at runtime through LvlSetter.
func NewLogHandler(wr io.Writer, cfg CLIConfig) slog.Handler {
	var h slog.Handler
	switch cfg.Format {
	case FormatJSON:
		h = JSONMsHandler(wr)
	case FormatLogFmt:
		h = LogfmtMsHandler(wr)
	case FormatText, FormatTerminal:
		h = log.NewTerminalHandlerWithLevel(wr, levelMaxVerbosity, cfg.Color)
	default:
		panic(fmt.Errorf("failed to create slog.Handler factory for format %q", cfg.Format))
	}
	return NewDynamicLogHandler(cfg.Level, h)
}

func NewLogger(wr io.Writer, cfg CLIConfig) log.Logger {
	return log.NewLogger(NewLogHandler(wr, cfg))
}

// SetGlobalLogHandler sets the log handlers as the handler of the global default logger.
func SetGlobalLogHandler(h slog.Handler) {
	log.SetDefault(log.NewLogger(h))
}

// SetupDefaults sets up the global logger, before the CLI config is parsed.
func SetupDefaults() {
	SetGlobalLogHandler(NewLogHandler(os.Stdout, DefaultCLIConfig()))
}

// FindLvlSetter returns the level setter of the handler, if it has one.
func FindLvlSetter(h slog.Handler) (LvlSetter, bool) {
	s, ok := h.(LvlSetter)
	return s, ok
}

// AppOut returns the writer of the CLI app, or stdout if the app has none.
func AppOut(ctx *cli.Context) io.Writer {
	if ctx == nil || ctx.App == nil || ctx.App.Writer == nil {
		return os.Stdout
	}
	return ctx.App.Writer
}
