package cpgen

import (
	"context"
	"fmt"

	"github.com/arthur-debert/cpgen/internal/version"
	"github.com/arthur-debert/cpgen/pkg/cache"
	"github.com/arthur-debert/cpgen/pkg/config"
	"github.com/arthur-debert/cpgen/pkg/errors"
	"github.com/arthur-debert/cpgen/pkg/filesystem"
	"github.com/arthur-debert/cpgen/pkg/generator"
	"github.com/arthur-debert/cpgen/pkg/logging"
	"github.com/arthur-debert/cpgen/pkg/ui"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// globalOptions holds the persistent flags shared by every command.
type globalOptions struct {
	verbosity  int
	strict     bool
	configFile string
	output     string
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	initTemplateFormatting()

	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:     "cpgen",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(opts.verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand: show help
			return cmd.Help()
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	// Global flags
	rootCmd.PersistentFlags().CountVarP(&opts.verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().BoolVar(&opts.strict, "strict", false, MsgFlagStrict)
	rootCmd.PersistentFlags().StringVar(&opts.configFile, "config", "", MsgFlagConfig)
	rootCmd.PersistentFlags().StringVar(&opts.output, "output", ui.FormatAuto.String(), MsgFlagOutput)
	_ = rootCmd.RegisterFlagCompletionFunc("output", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return ui.FormatNames(), cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddGroup(&cobra.Group{
		ID:    "core",
		Title: "COMMANDS:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "misc",
		Title: "MISC:",
	})

	rootCmd.SetUsageTemplate(MsgUsageTemplate)

	rootCmd.AddCommand(newUpdateCmd(opts))
	rootCmd.AddCommand(newProjectCmd(opts))
	rootCmd.AddCommand(newAddLibraryCmd(opts))
	rootCmd.AddCommand(newAddExecutableCmd(opts))
	rootCmd.AddCommand(newAddTestCmd(opts))
	rootCmd.AddCommand(newConfigCmd(opts))
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())
	rootCmd.AddCommand(newManCmd())

	return rootCmd
}

// app is the per-invocation wiring of configuration, cache and generator.
type app struct {
	cfg     *config.Config
	cache   *cache.Cache
	gen     *generator.Generator
	printer *ui.Printer
}

// loadConfig reads the layered configuration, applying --strict when given.
func loadConfig(cmd *cobra.Command, opts *globalOptions) (*config.Config, error) {
	overrides := map[string]interface{}{}
	if cmd.Flags().Changed("strict") {
		overrides["substitution.strict"] = opts.strict
	}
	return config.Load(config.Options{
		File:      opts.configFile,
		Overrides: overrides,
	})
}

func newApp(cmd *cobra.Command, opts *globalOptions) (*app, error) {
	format, err := ui.ParseFormat(opts.output)
	if err != nil {
		return nil, err
	}

	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return nil, err
	}

	root, err := cache.ResolveRoot(cfg.Cache.Dir)
	if err != nil {
		return nil, err
	}

	fs := filesystem.NewOS()
	c := cache.New(fs, root, cache.Options{
		URL:     cfg.Templates.URL,
		Timeout: cfg.Fetch.Timeout,
	})
	gen := generator.New(fs, c, generator.Options{
		Strict:    cfg.Substitution.Strict,
		Marker:    cfg.Project.Marker,
		CacheRoot: root.Dir,
	})

	printer := ui.NewPrinter(cmd.OutOrStdout(), cmd.ErrOrStderr(), format)
	printer.SetVerbose(opts.verbosity > 0)

	log.Debug().
		Str("cacheRoot", root.Dir).
		Str("url", cfg.Templates.URL).
		Bool("strict", cfg.Substitution.Strict).
		Msg("Application configured")

	return &app{cfg: cfg, cache: c, gen: gen, printer: printer}, nil
}

// ensureTemplates downloads the templates when the cache holds none yet.
func (a *app) ensureTemplates(ctx context.Context) error {
	if a.cache.Ready() {
		return nil
	}
	sp := a.printer.StartSpinner(fmt.Sprintf(MsgDownloading, a.cfg.Templates.URL))
	defer sp.Stop()
	return a.gen.EnsureTemplates(ctx)
}

// update refreshes the template cache. With keepOld set, a failed refresh
// is downgraded to a warning when previously installed templates remain.
func (a *app) update(ctx context.Context, keepOld bool) error {
	sp := a.printer.StartSpinner(fmt.Sprintf(MsgDownloading, a.cfg.Templates.URL))
	res, err := a.gen.Update(ctx)
	sp.Stop()
	if err != nil {
		if keepOld && !errors.IsFatal(err) && a.cache.Ready() {
			log.Warn().Err(err).Msg(MsgKeepingOldTemplates)
			return nil
		}
		return err
	}
	a.printer.Updated(res)
	return nil
}
