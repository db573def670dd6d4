package cli

import (
	"context"
	"fmt"
	"os"

	"lngcheck/internal/config"
	"lngcheck/internal/filewalker"
	"lngcheck/internal/langfile"
	"lngcheck/internal/textutil"
	"lngcheck/internal/validate"
	"lngcheck/internal/worker"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func scanCmd(cfg *config.Config) *cobra.Command {
	flags := &langFlags{}
	var workers int
	cmd := &cobra.Command{
		Use:   "scan <dir>",
		Short: "Validate every base-language table under a directory",
		Long: `Walks a directory tree for language tables and validates every string
as a base string. Use it on the source-language side of a project to catch
malformed strings before translators see them.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := setupContext()
			defer cancel()
			return runScan(ctx, args[0], flags, workers)
		},
	}
	flags.register(cmd, cfg)
	cmd.Flags().IntVarP(&workers, "workers", "w", cfg.WorkerCount, "Number of concurrent validations")
	return cmd
}

// scanItem is one base string with its table location.
type scanItem struct {
	path  string
	entry langfile.Entry
}

func runScan(ctx context.Context, root string, flags *langFlags, workers int) error {
	paths, err := filewalker.Walk(root)
	if err != nil {
		return err
	}

	var items []scanItem
	withCommands := 0
	for _, path := range paths {
		file, err := langfile.Parse(path)
		if err != nil {
			return err
		}
		for _, e := range file.Entries {
			if e.Case != "" {
				log.Warn().Str("name", e.Name).Str("path", path).Int("line", e.Line).
					Msg("Base table carries a case variant")
				continue
			}
			if textutil.HasCommandMarkers(e.Text) {
				withCommands++
			}
			items = append(items, scanItem{path: path, entry: e})
		}
	}

	baseCfg := flags.baseConfig()
	pool := worker.NewPool(workers, func(_ context.Context, it scanItem) (validate.Result, error) {
		return validate.Base(baseCfg, it.entry.Text), nil
	})

	tasks := pool.Run(ctx, items)
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("scan aborted: %w", err)
	}

	errCount := 0
	for _, task := range tasks {
		result := task.Result
		if len(result.Errors) == 0 {
			continue
		}
		fmt.Fprintf(os.Stdout, "%s:%d: %s\n", task.Input.path, task.Input.entry.Line,
			textutil.Truncate(task.Input.entry.Text, 60))
		printResult(os.Stdout, task.Input.entry.Text, result)
		if result.HasErrors() {
			errCount++
		}
	}

	log.Info().
		Int("files", len(paths)).
		Int("strings", len(items)).
		Int("with_commands", withCommands).
		Int("errors", errCount).
		Msg("Scan complete")

	if errCount > 0 {
		return fmt.Errorf("%d of %d strings failed validation", errCount, len(items))
	}
	return nil
}
