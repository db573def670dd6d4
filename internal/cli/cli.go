package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"lngcheck/internal/catalog"
	"lngcheck/internal/config"
	"lngcheck/internal/validate"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// langFlags maps the language-config flags shared by all commands.
type langFlags struct {
	dialect     string
	cases       []string
	genders     []string
	pluralCount int
	jsonOut     bool
}

func (f *langFlags) register(cmd *cobra.Command, cfg *config.Config) {
	cmd.Flags().StringVarP(&f.dialect, "dialect", "d", cfg.Dialect, "Dialect: openttd, newgrf or game-script")
	cmd.Flags().StringSliceVarP(&f.cases, "cases", "c", cfg.Cases, "Grammatical cases of the language")
	cmd.Flags().StringSliceVarP(&f.genders, "genders", "g", cfg.Genders, "Grammatical genders of the language")
	cmd.Flags().IntVarP(&f.pluralCount, "plural-count", "p", cfg.PluralCount, "Number of plural forms")
	cmd.Flags().BoolVar(&f.jsonOut, "json", false, "Emit the validation result as JSON")
}

func (f *langFlags) config() validate.LanguageConfig {
	return validate.LanguageConfig{
		Dialect:     f.dialect,
		Cases:       f.cases,
		Genders:     f.genders,
		PluralCount: f.pluralCount,
	}
}

// baseConfig strips cases and genders: the base language has none and
// always two plural forms.
func (f *langFlags) baseConfig() validate.LanguageConfig {
	return validate.LanguageConfig{Dialect: f.dialect, PluralCount: 2}
}

// Execute runs the CLI application.
func Execute() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg := config.Load()
	var catalogPath string

	rootCmd := &cobra.Command{
		Use:           "lngcheck",
		Short:         "Validate and normalize game translation strings",
		Long:          "Checks translation strings with embedded string commands against their base string, reporting structural issues with byte-accurate positions and producing a normalized form.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if catalogPath == "" {
				return nil
			}
			specs, err := catalog.Load(catalogPath)
			if err != nil {
				return fmt.Errorf("load catalog: %w", err)
			}
			if err := catalog.Install(specs); err != nil {
				return fmt.Errorf("install catalog: %w", err)
			}
			log.Info().Int("commands", len(specs)).Str("path", catalogPath).Msg("Injected extra string commands")
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVar(&catalogPath, "catalog", cfg.CatalogPath, "TOML file with extra string-command definitions")

	rootCmd.AddCommand(baseCmd(cfg))
	rootCmd.AddCommand(translationCmd(cfg))
	rootCmd.AddCommand(checkCmd(cfg))
	rootCmd.AddCommand(scanCmd(cfg))

	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("Command failed")
		os.Exit(1)
	}
}

func baseCmd(cfg *config.Config) *cobra.Command {
	flags := &langFlags{}
	cmd := &cobra.Command{
		Use:   "base <string>",
		Short: "Validate a base string and print its normalized form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result := validate.Base(flags.baseConfig(), args[0])
			return report(args[0], result, flags.jsonOut)
		},
	}
	flags.register(cmd, cfg)
	return cmd
}

func translationCmd(cfg *config.Config) *cobra.Command {
	flags := &langFlags{}
	caseName := "default"
	cmd := &cobra.Command{
		Use:   "translation <base> <translation>",
		Short: "Validate a translation against its base string",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			result := validate.Translation(flags.config(), args[0], caseName, args[1])
			return report(args[1], result, flags.jsonOut)
		},
	}
	flags.register(cmd, cfg)
	cmd.Flags().StringVar(&caseName, "case", "default", "Grammatical case of the translation")
	return cmd
}

// report prints a Result and returns an error when it contains
// Error-severity issues, so the process exits nonzero.
func report(input string, result validate.Result, jsonOut bool) error {
	if jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return fmt.Errorf("encode result: %w", err)
		}
	} else {
		printResult(os.Stdout, input, result)
	}
	if result.HasErrors() {
		return fmt.Errorf("validation failed")
	}
	return nil
}

// setupContext creates a cancellable context with signal handling.
func setupContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		log.Warn().Msg("Received shutdown signal, cancelling...")
		cancel()
	}()

	return ctx, cancel
}
