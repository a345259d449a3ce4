package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"tkgrep/internal/search"
	"tkgrep/internal/tokenizer"
)

type app struct {
	v      *viper.Viper
	log    zerolog.Logger
	stdout io.Writer
	stderr io.Writer
}

func run(args []string, stdout io.Writer, stderr io.Writer) int {
	a := &app{
		v:      viper.New(),
		log:    newLogger(stderr, 0),
		stdout: stdout,
		stderr: stderr,
	}
	cmd := a.command()
	cmd.SetArgs(args)
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		a.log.Error().Err(err).Msg("search failed")
		return 1
	}
	return 0
}

func (a *app) command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tkgrep [flags] PATTERN FILE...",
		Short: "Search source files for tokens whose spelling matches a pattern",
		Long: "tkgrep tokenizes each FILE and prints the lines holding a token whose spelling\n" +
			"contains a match for PATTERN. Every printed row is tagged with the kind of the\n" +
			"matched token: P punctuation, K keyword, I identifier, L literal, C comment,\n" +
			"U unknown. Context rows carry a blank tag.",
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       Version,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return a.initConfig()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runSearch(cmd.Context(), args)
		},
	}
	cmd.SetOut(a.stdout)
	cmd.SetErr(a.stderr)
	cmd.SetVersionTemplate(fmt.Sprintf("tkgrep version: %s git_commit: %s build_time: %s\n", Version, CommitHash, BuildTimestamp))

	f := cmd.Flags()
	f.SortFlags = false
	f.IntP(flagAfter, "A", 0, "print `N` lines of trailing context")
	f.IntP(flagBefore, "B", 0, "print `N` lines of leading context")
	f.IntP(flagContext, "C", 0, "print at least `N` lines of leading and trailing context")
	f.StringP(flagType, "t", "", "token kinds to search, any of `pkilcu` (default all)")
	f.BoolP(flagIgnoreCase, "i", false, "ignore case distinctions in pattern and tokens")
	f.BoolP(flagColor, "G", false, "highlight the matched text when writing to a terminal")
	f.String(flagTheme, "", "chroma style used for the highlight colour (for example: monokai, dracula)")
	f.BoolP(flagRecursive, "R", false, "search directories recursively, following symlinks (without it a directory operand is skipped)")
	f.StringArray(flagInclude, nil, "search only files matching `GLOB` while recursing")
	f.StringArray(flagExclude, nil, "skip files and directories matching `GLOB` while recursing")
	f.BoolP(flagCount, "c", false, "print only the number of matching lines per file")
	f.BoolP(flagNoMessages, "s", false, "suppress messages about unreadable or unparsable files")
	f.String(flagEngine, string(tokenizer.EngineAuto), "tokenizer engine: auto, treesitter or chroma")
	f.Duration(flagMatchTimeout, 0, "give up matching a single token after this long (0 disables)")
	f.CountP(flagVerbose, "v", "-v for debug logs (-vv for trace)")
	f.String(flagConfig, "", "path to a TOML config file (default ./.tkgrep.toml, then $HOME/.tkgrep.toml)")

	for _, name := range boundFlags {
		_ = a.v.BindPFlag(name, f.Lookup(name))
	}
	a.v.SetEnvPrefix("TKGREP")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	return cmd
}

func (a *app) runSearch(ctx context.Context, args []string) error {
	cfg, files, err := a.searchConfig(args)
	if err != nil {
		return err
	}

	s, err := search.New(cfg, nil, a.stdout, a.log)
	if err != nil {
		return err
	}
	return s.Run(ctx, files)
}
