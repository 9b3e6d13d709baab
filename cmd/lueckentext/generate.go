package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/deusflow/lueckentext/internal/app"
	"github.com/deusflow/lueckentext/internal/config"
	"github.com/deusflow/lueckentext/internal/dictionary"
	"github.com/deusflow/lueckentext/internal/logger"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// DictionaryFlag selects a dictionary provider.
type DictionaryFlag string

// Set implements pflag.Value.
func (d *DictionaryFlag) Set(v string) error {
	for _, name := range dictionary.ProviderNames() {
		if v == name {
			*d = DictionaryFlag(v)
			return nil
		}
	}
	return fmt.Errorf("invalid dictionary: %s, must be one of %v", v, dictionary.ProviderNames())
}

// String implements pflag.Value.
func (d DictionaryFlag) String() string {
	return string(d)
}

// Type implements pflag.Value.
func (d *DictionaryFlag) Type() string {
	return "dictionary"
}

var (
	_ pflag.Value = (*DictionaryFlag)(nil)
)

type generateFlags struct {
	feed       string
	domain     string
	outputDir  string
	dictionary DictionaryFlag
	seed       uint64
	answerKey  bool

	set *pflag.FlagSet
}

func (f *generateFlags) register(flags *pflag.FlagSet) {
	flags.StringVar(&f.feed, "feed", "", "Atom or RSS feed to pick the article from")
	flags.StringVar(&f.domain, "domain", "", "only use feed entries linking to this domain")
	flags.StringVar(&f.outputDir, "output-dir", "", "directory the exercise is written to")
	flags.Var(&f.dictionary, "dictionary", fmt.Sprintf("dictionary used to check capitalized words. Possible values are %v", dictionary.ProviderNames()))
	flags.Uint64Var(&f.seed, "seed", 0, "seed for article choice and gaps, random when not set")
	flags.BoolVar(&f.answerKey, "answer-key", false, "also write the solutions into a YAML file")
	f.set = flags
}

// apply overrides cfg with every flag given on the command line.
func (f *generateFlags) apply(cfg *config.Config) app.Options {
	var opts app.Options
	if f.set.Changed("feed") {
		cfg.Feeds.URL = f.feed
		cfg.Feeds.File = ""
	}
	if f.set.Changed("domain") {
		cfg.Feeds.Domain = f.domain
	}
	if f.set.Changed("output-dir") {
		cfg.Output.Directory = f.outputDir
	}
	if f.set.Changed("dictionary") {
		cfg.Dictionary.Provider = f.dictionary.String()
	}
	if f.set.Changed("answer-key") {
		cfg.Output.AnswerKey = f.answerKey
	}
	if f.set.Changed("seed") {
		seed := f.seed
		opts.Seed = &seed
	}
	return opts
}

func newGenerateCommand() *cobra.Command {
	var flags generateFlags
	command := &cobra.Command{
		Use:   "generate",
		Short: "Write an exercise for a random article of the feed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, &flags)
		},
	}
	flags.register(command.Flags())
	return command
}

func runGenerate(cmd *cobra.Command, flags *generateFlags) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if cfg.Debug && !debugMode {
		logger.Init(true, os.Stderr)
	}

	opts := flags.apply(cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := app.Run(ctx, cfg, opts)
	if err != nil {
		return fmt.Errorf("app.Run > %w", err)
	}

	color.Green("Exercise with %d gaps written to %s", result.Gaps, result.Path)
	return nil
}
