package main

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"tkgrep/internal/search"
	"tkgrep/internal/token"
	"tkgrep/internal/tokenizer"
)

const (
	flagAfter        = "after-context"
	flagBefore       = "before-context"
	flagContext      = "context"
	flagType         = "type"
	flagIgnoreCase   = "ignore-case"
	flagColor        = "color"
	flagTheme        = "theme"
	flagRecursive    = "recursive"
	flagInclude      = "include"
	flagExclude      = "exclude"
	flagCount        = "count"
	flagNoMessages   = "no-messages"
	flagEngine       = "engine"
	flagMatchTimeout = "match-timeout"
	flagVerbose      = "verbose"
	flagConfig       = "config"
)

var boundFlags = []string{
	flagAfter, flagBefore, flagContext, flagType, flagIgnoreCase, flagColor, flagTheme,
	flagRecursive, flagInclude, flagExclude, flagCount, flagNoMessages, flagEngine,
	flagMatchTimeout, flagVerbose, flagConfig,
}

// initConfig reads the optional config file and applies the verbosity it
// ends up with. An explicit --config that cannot be read is fatal; a missing
// default file is not.
func (a *app) initConfig() error {
	a.log = newLogger(a.stderr, a.v.GetInt(flagVerbose))

	a.v.SetConfigType("toml")
	if file := a.v.GetString(flagConfig); file != "" {
		a.v.SetConfigFile(file)
	} else {
		a.v.SetConfigName(".tkgrep")
		a.v.AddConfigPath(".")
		a.v.AddConfigPath("$HOME")
	}

	err := a.v.ReadInConfig()
	if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		a.log.Debug().Msg("no config file found, using defaults")
	} else if err != nil {
		return errors.Wrap(err, "load config")
	} else {
		a.log.Debug().Str("file", a.v.ConfigFileUsed()).Msg("loaded config from file")
	}

	a.log = newLogger(a.stderr, a.v.GetInt(flagVerbose))
	for _, k := range a.v.AllKeys() {
		a.log.Trace().Msgf("%s=%v", k, a.v.Get(k))
	}
	return nil
}

// searchConfig assembles the run configuration from the positional
// arguments and the merged flag, env and file settings.
func (a *app) searchConfig(args []string) (search.Config, []string, error) {
	var cfg search.Config
	var files []string
	if len(args) > 0 {
		cfg.Pattern = args[0]
		files = args[1:]
	}

	before, err := a.contextLength(flagBefore)
	if err != nil {
		return cfg, nil, err
	}
	after, err := a.contextLength(flagAfter)
	if err != nil {
		return cfg, nil, err
	}
	both, err := a.contextLength(flagContext)
	if err != nil {
		return cfg, nil, err
	}
	cfg.Before = max(before, both)
	cfg.After = max(after, both)

	mask, unknown := token.ParseMask(a.v.GetString(flagType))
	for _, r := range unknown {
		a.log.Warn().Str("letter", string(r)).Msg("ignoring unknown token kind")
	}
	cfg.Target = mask

	engine, err := tokenizer.ParseEngine(a.v.GetString(flagEngine))
	if err != nil {
		return cfg, nil, err
	}
	cfg.Engine = engine

	marker, err := ThemeMarker(a.v.GetString(flagTheme))
	if err != nil {
		return cfg, nil, errors.Wrap(err, "invalid --theme")
	}
	cfg.Marker = marker

	cfg.IgnoreCase = a.v.GetBool(flagIgnoreCase)
	cfg.Color = a.v.GetBool(flagColor)
	cfg.StdoutIsTTY = isTerminal(a.stdout)
	cfg.OnlyCount = a.v.GetBool(flagCount)
	cfg.Quiet = a.v.GetBool(flagNoMessages)
	cfg.Recursive = a.v.GetBool(flagRecursive)
	cfg.Include = a.v.GetStringSlice(flagInclude)
	cfg.Exclude = a.v.GetStringSlice(flagExclude)
	cfg.MatchTimeout = a.v.GetDuration(flagMatchTimeout)
	return cfg, files, nil
}

// contextLength returns 0 for an unset context option; a value that was set
// must be positive.
func (a *app) contextLength(name string) (int, error) {
	if !a.v.IsSet(name) {
		return 0, nil
	}
	n := a.v.GetInt(name)
	if n <= 0 {
		return 0, errors.Errorf("%d: invalid context length argument", n)
	}
	return n, nil
}

func newLogger(w io.Writer, verbose int) zerolog.Logger {
	out := zerolog.ConsoleWriter{
		Out:          w,
		NoColor:      !isTerminal(w),
		PartsExclude: []string{zerolog.TimestampFieldName},
	}
	return zerolog.New(out).Level(logLevel(verbose))
}

func logLevel(verbose int) zerolog.Level {
	switch min(verbose, 2) {
	case 2:
		return zerolog.TraceLevel
	case 1:
		return zerolog.DebugLevel
	default:
		return zerolog.WarnLevel
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
