package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"shutter/pkg/config"
	"shutter/pkg/ui"
)

const exampleConfig = `# shutter configuration file
#
# Every option can also be set with an environment variable prefixed
# with SHUTTER_, for example SHUTTER_OUTPUT_DIR or SHUTTER_LOG_LEVEL.

instagram:
  # Front end the profile pages are fetched from
  base_url: "https://www.instagram.com"

  # User agent sent with every request (optional)
  user_agent: ""

  # Per-request timeout
  timeout: 30s

download:
  # Number of concurrent downloads; 0 uses one per CPU
  concurrent_downloads: 0

  # Write profile.json next to the images
  save_metadata: false

output:
  # Directory downloads are placed in
  base_directory: "."

  # Put each profile in <base_directory>/<username>_images
  create_user_folders: true

logging:
  # debug, info, warn, error or disabled
  level: "warn"

  # Also write logs to this file (optional)
  file: ""
`

func newConfigCmd(opts *options) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration files",
		Long: `Manage shutter configuration files.

Configuration is resolved from, highest priority first:
  - Command line flags
  - Environment variables (SHUTTER_*)
  - .env files (./.env, ~/.shutter.env)
  - Configuration file
  - Default values`,
		Args: cobra.NoArgs,
	}

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Create an example configuration file",
		Long: `Create an example configuration file with all available options.

The file is created as '.shutter.yaml' in the current directory unless a
different path is given with --config.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigInit(opts)
		},
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show the resolved configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow(cmd, opts)
		},
	}

	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the configuration",
		Long: `Load the configuration from every source and check it.

This command checks:
  - YAML syntax
  - Value types and ranges
  - Output and log directory accessibility`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigValidate(cmd, opts)
		},
	}

	configCmd.AddCommand(initCmd, showCmd, validateCmd)
	return configCmd
}

func runConfigInit(opts *options) error {
	configPath := opts.configFile
	if configPath == "" {
		configPath = ".shutter.yaml"
	}

	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("configuration file already exists: %s", configPath)
	}

	// The example must stay loadable
	var probe config.Config
	if err := yaml.Unmarshal([]byte(exampleConfig), &probe); err != nil {
		return fmt.Errorf("invalid example configuration: %w", err)
	}

	if dir := filepath.Dir(configPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}
	if err := os.WriteFile(configPath, []byte(exampleConfig), 0644); err != nil {
		return fmt.Errorf("failed to create configuration file: %w", err)
	}

	ui.PrintSuccess("Configuration file created: " + configPath)
	fmt.Fprintln(ui.Output, "\nNext steps:")
	fmt.Fprintln(ui.Output, "1. Edit the configuration file")
	fmt.Fprintln(ui.Output, "2. Run 'shutter config validate' to check it")
	fmt.Fprintln(ui.Output, "3. Run 'shutter <username> --images' to download")
	return nil
}

func runConfigShow(cmd *cobra.Command, opts *options) error {
	cfg, err := opts.loadConfig(cmd)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to format configuration: %w", err)
	}

	ui.PrintHighlight("Current Configuration")
	fmt.Fprintln(ui.Output)
	fmt.Fprint(ui.Output, string(data))
	return nil
}

func runConfigValidate(cmd *cobra.Command, opts *options) error {
	if opts.configFile != "" {
		ui.PrintInfo("Validating configuration", opts.configFile)
	}

	cfg, err := opts.loadConfig(cmd)
	if err != nil {
		return err
	}

	var problems []string
	if err := checkWritableDir(cfg.Output.BaseDirectory); err != nil {
		problems = append(problems, fmt.Sprintf("output directory: %v", err))
	}
	if cfg.Logging.File != "" {
		if err := checkWritableDir(filepath.Dir(cfg.Logging.File)); err != nil {
			problems = append(problems, fmt.Sprintf("log directory: %v", err))
		}
	}

	if len(problems) > 0 {
		ui.PrintError("Configuration has errors:")
		for _, p := range problems {
			fmt.Fprintf(ui.ErrOutput, "  - %s\n", p)
		}
		return errors.New("configuration is not usable")
	}

	ui.PrintSuccess("Configuration is valid")

	fmt.Fprintln(ui.Output, "\nConfiguration summary:")
	fmt.Fprintf(ui.Output, "  Base URL: %s\n", cfg.Instagram.BaseURL)
	fmt.Fprintf(ui.Output, "  Timeout: %s\n", cfg.Instagram.Timeout)
	fmt.Fprintf(ui.Output, "  Concurrent downloads: %d\n", cfg.Download.Workers())
	fmt.Fprintf(ui.Output, "  Output directory: %s\n", cfg.Output.BaseDirectory)
	fmt.Fprintf(ui.Output, "  Log level: %s\n", cfg.Logging.Level)
	return nil
}

// checkWritableDir reports whether path is, or can become, a directory
func checkWritableDir(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", path)
	}
	return nil
}
