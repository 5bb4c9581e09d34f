package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"shutter/pkg/config"
	"shutter/pkg/instagram"
	"shutter/pkg/logger"
	"shutter/pkg/ui"
)

var (
	// Version information
	version   = "0.2.0"
	gitCommit = "unknown"
	buildDate = "unknown"
)

// options holds the parsed command line
type options struct {
	configFile string
	logLevel   string
	noColor    bool

	profile    bool
	images     bool
	outdir     string
	concurrent int
	metadata   bool
	timeout    time.Duration
}

// flagMap returns the flags the user actually set, keyed the way
// config.MergeCommandLineFlags expects
func (o *options) flagMap(cmd *cobra.Command) map[string]interface{} {
	flags := make(map[string]interface{})
	changed := func(name string) bool {
		f := cmd.Flags().Lookup(name)
		return f != nil && f.Changed
	}

	if changed("outdir") {
		flags["output"] = o.outdir
	}
	if changed("concurrent") {
		flags["concurrent"] = o.concurrent
	}
	if changed("metadata") {
		flags["metadata"] = o.metadata
	}
	if changed("timeout") {
		flags["timeout"] = o.timeout
	}
	if changed("log-level") {
		flags["log-level"] = o.logLevel
	}
	return flags
}

// loadConfig resolves configuration from every source
func (o *options) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(o.configFile, o.flagMap(cmd))
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "shutter <username>",
		Short: "Fetch a public profile and download its images",
		Long: `shutter reads the public profile page of a user, prints the profile
and downloads the images embedded in it.

Only the images present on the profile page are downloaded; older posts
are not paginated. Private profiles expose no images.`,
		Example: `  # Print a profile
  shutter peterdn --profile

  # Download images into ./peterdn_images
  shutter peterdn --images

  # Download into a chosen directory with four workers
  shutter peterdn -i -o ./photos --concurrent 4`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate),
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if opts.noColor {
				ui.SetColor(false)
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScrape(cmd, opts, args[0])
		},
	}

	rootCmd.PersistentFlags().StringVarP(&opts.configFile, "config", "c", "", "config file (default is .shutter.yaml or ~/.config/shutter/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level (debug, info, warn, error, disabled)")
	rootCmd.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "disable colored output")

	rootCmd.Flags().BoolVarP(&opts.profile, "profile", "p", false, "print the profile")
	rootCmd.Flags().BoolVarP(&opts.images, "images", "i", false, "download the profile's images")
	rootCmd.Flags().StringVarP(&opts.outdir, "outdir", "o", "", "output directory for images (default <username>_images)")
	rootCmd.Flags().IntVar(&opts.concurrent, "concurrent", 0, "number of concurrent downloads (default one per CPU)")
	rootCmd.Flags().BoolVar(&opts.metadata, "metadata", false, "write profile.json next to the images")
	rootCmd.Flags().DurationVar(&opts.timeout, "timeout", 30*time.Second, "HTTP request timeout")

	rootCmd.SetVersionTemplate(`shutter {{.Version}}
Go Version: ` + runtime.Version() + `
OS/Arch: ` + runtime.GOOS + `/` + runtime.GOARCH + `
`)
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(newConfigCmd(opts))

	return rootCmd
}

// Execute runs the command line and exits non-zero on failure
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		ui.PrintError(err.Error())
		stop()
		os.Exit(1)
	}
}

func runScrape(cmd *cobra.Command, opts *options, arg string) error {
	username := instagram.SanitizeUsername(arg)
	if !instagram.IsValidUsername(username) {
		return fmt.Errorf("invalid username %q", arg)
	}

	cfg, err := opts.loadConfig(cmd)
	if err != nil {
		return err
	}

	if err := logger.Initialize(&cfg.Logging); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	log := logger.GetLogger().WithField("username", username)
	log.WithField("version", version).Info("shutter starting")

	// Without an action the profile is printed
	if !opts.profile && !opts.images {
		opts.profile = true
	}

	return scrape(cmd.Context(), cfg, log, username, opts.profile, opts.images)
}

// errDownloadsFailed prefixes the aggregate download error
var errDownloadsFailed = errors.New("some images could not be downloaded")
