package cli

import (
	"context"
	"fmt"
	"os"

	"lngcheck/internal/config"
	"lngcheck/internal/langfile"
	"lngcheck/internal/textutil"
	"lngcheck/internal/validate"
	"lngcheck/internal/worker"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func checkCmd(cfg *config.Config) *cobra.Command {
	flags := &langFlags{}
	var workers int
	var write bool
	cmd := &cobra.Command{
		Use:   "check <base-file> <translation-file>",
		Short: "Validate a whole translation table against its base table",
		Long: `Reads two language tables (one string per line, "NAME :text") and
validates every translated string against its base string. Strings are
independent, so validation runs concurrently.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := setupContext()
			defer cancel()
			return runCheck(ctx, args[0], args[1], flags, workers, write)
		},
	}
	flags.register(cmd, cfg)
	cmd.Flags().IntVarP(&workers, "workers", "w", cfg.WorkerCount, "Number of concurrent validations")
	cmd.Flags().BoolVar(&write, "write", false, "Rewrite the translation table with normalized strings")
	return cmd
}

// checkItem is one translation entry paired with its base string.
type checkItem struct {
	entry langfile.Entry
	base  string
}

func runCheck(ctx context.Context, basePath, translationPath string, flags *langFlags, workers int, write bool) error {
	baseFile, err := langfile.Parse(basePath)
	if err != nil {
		return fmt.Errorf("parse base table: %w", err)
	}
	trFile, err := langfile.Parse(translationPath)
	if err != nil {
		return fmt.Errorf("parse translation table: %w", err)
	}

	var items []checkItem
	for _, e := range trFile.Entries {
		base, ok := baseFile.Get(e.Name, "")
		if !ok {
			log.Warn().Str("name", e.Name).Int("line", e.Line).Msg("No base string for translation")
			continue
		}
		items = append(items, checkItem{entry: e, base: base.Text})
	}

	langCfg := flags.config()

	// Identical (base, case, text) triples validate identically; cache by
	// hash so repeated strings cost one engine call.
	seen := map[string]validate.Result{}
	key := func(it checkItem) string {
		return textutil.Hash(it.base + "\x00" + it.entry.Case + "\x00" + it.entry.Text)
	}

	pool := worker.NewPool(workers, func(_ context.Context, it checkItem) (validate.Result, error) {
		caseName := it.entry.Case
		if caseName == "" {
			caseName = "default"
		}
		return validate.Translation(langCfg, it.base, caseName, it.entry.Text), nil
	})

	var todo []checkItem
	for _, it := range items {
		if _, dup := seen[key(it)]; dup {
			continue
		}
		seen[key(it)] = validate.Result{}
		todo = append(todo, it)
	}
	tasks := pool.Run(ctx, todo)
	// A cancelled run leaves zero-value results behind; reporting or
	// rewriting the table from those would pass strings that were never
	// validated.
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("check aborted: %w", err)
	}
	for _, task := range tasks {
		seen[key(task.Input)] = task.Result
	}

	normalized := map[int]string{}
	errCount, warnCount := 0, 0
	for _, it := range items {
		result := seen[key(it)]
		if len(result.Errors) > 0 {
			fmt.Fprintf(os.Stdout, "%s:%d: %s\n", translationPath, it.entry.Line,
				textutil.Truncate(it.entry.Text, 60))
			printResult(os.Stdout, it.entry.Text, result)
		}
		if result.HasErrors() {
			errCount++
		} else if len(result.Errors) > 0 {
			warnCount++
		}
		if result.Normalized != nil {
			normalized[it.entry.Line] = *result.Normalized
		}
	}

	if write && errCount == 0 {
		if err := os.WriteFile(translationPath, trFile.Reconstruct(normalized), 0o644); err != nil {
			return fmt.Errorf("write translation table: %w", err)
		}
		log.Info().Str("path", translationPath).Int("strings", len(normalized)).Msg("Wrote normalized table")
	}

	log.Info().
		Int("strings", len(items)).
		Int("errors", errCount).
		Int("warnings", warnCount).
		Msg("Check complete")

	if errCount > 0 {
		return fmt.Errorf("%d of %d strings failed validation", errCount, len(items))
	}
	return nil
}
