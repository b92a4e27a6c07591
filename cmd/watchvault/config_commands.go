package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/0xmhha/watchvault/pkg/config"
)

// redacted replaces secrets in config output.
const redacted = "********"

func (c *cli) runConfig(args []string) error {
	if len(args) == 0 {
		return c.showConfigHelp()
	}

	subcommand, subargs := args[0], args[1:]

	switch subcommand {
	case "show":
		return c.runConfigShow(subargs)
	case "path":
		return c.runConfigPath()
	case "reset":
		return c.runConfigReset(subargs)
	case "help":
		return c.showConfigHelp()
	default:
		return fmt.Errorf("unknown config subcommand: %s", subcommand)
	}
}

// runConfigShow displays the effective configuration with secrets masked.
func (c *cli) runConfigShow(args []string) error {
	fs := flag.NewFlagSet("config show", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	format := fs.String("format", "yaml", "output format (yaml, json)")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	cfg, err := config.NewLoader(c.configPath).Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	shown := redact(*cfg)

	switch *format {
	case "json":
		data, err := json.MarshalIndent(shown, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal config: %w", err)
		}
		fmt.Fprintln(c.stdout, string(data))
	case "yaml":
		data, err := yaml.Marshal(shown)
		if err != nil {
			return fmt.Errorf("failed to marshal config: %w", err)
		}
		fmt.Fprintln(c.stdout, "# Current Configuration")
		fmt.Fprintln(c.stdout, "# Source:", c.configSource())
		fmt.Fprintln(c.stdout)
		fmt.Fprint(c.stdout, string(data))
	default:
		return fmt.Errorf("unknown config format: %s", *format)
	}
	return nil
}

func redact(cfg config.Config) config.Config {
	if cfg.Credential.Pepper != "" {
		cfg.Credential.Pepper = redacted
	}
	if cfg.Catalog.APIKey != "" {
		cfg.Catalog.APIKey = redacted
	}
	if cfg.Catalog.Redis.Password != "" {
		cfg.Catalog.Redis.Password = redacted
	}
	return cfg
}

// runConfigPath shows the configuration file search paths.
func (c *cli) runConfigPath() error {
	paths := []string{"./config.yaml", config.DefaultConfigPath()}

	fmt.Fprintln(c.stdout, "Configuration file search paths (in order of precedence):")
	fmt.Fprintln(c.stdout)
	fmt.Fprintf(c.stdout, "  0. -config flag or $%s\n", config.EnvConfig)
	for i, p := range paths {
		exists := "not found"
		if _, err := os.Stat(p); err == nil {
			exists = "found"
		}
		fmt.Fprintf(c.stdout, "  %d. %s [%s]\n", i+1, p, exists)
	}

	fmt.Fprintln(c.stdout)
	fmt.Fprintln(c.stdout, "Active configuration:", c.configSource())
	return nil
}

// runConfigReset writes the default configuration.
func (c *cli) runConfigReset(args []string) error {
	fs := flag.NewFlagSet("config reset", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	force := fs.Bool("force", false, "skip confirmation prompt")
	output := fs.String("output", "", "output path for config file (default: ~/.config/watchvault/config.yaml)")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	outputPath := *output
	if outputPath == "" {
		outputPath = config.DefaultConfigPath()
	}

	if _, err := os.Stat(outputPath); err == nil && !*force {
		fmt.Fprintf(c.stdout, "Configuration file already exists at: %s\n", outputPath)
		if !c.confirm("Overwrite?") {
			fmt.Fprintln(c.stdout, "Reset cancelled.")
			return nil
		}
	}

	if err := config.Save(config.Default(), outputPath); err != nil {
		return err
	}

	fmt.Fprintf(c.stdout, "Configuration reset to defaults at: %s\n", outputPath)
	return nil
}

// configSource returns the path of the active configuration file.
func (c *cli) configSource() string {
	if c.configPath != "" {
		return c.configPath
	}
	if p := os.Getenv(config.EnvConfig); p != "" {
		return p
	}
	for _, p := range []string{"./config.yaml", config.DefaultConfigPath()} {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return "defaults (no config file found)"
}

func (c *cli) showConfigHelp() error {
	help := `Config - Configuration management

Usage:
  watchvault config <subcommand> [flags]

Subcommands:
  show      Display current configuration (secrets masked)
  path      Show configuration file paths
  reset     Reset configuration to defaults

Show Flags:
  -format   Output format (yaml, json) (default: yaml)

Reset Flags:
  -force    Skip confirmation prompt
  -output   Output path for config file

Examples:
  watchvault config show -format json
  watchvault config reset -force
`
	fmt.Fprint(c.stdout, help)
	return nil
}
