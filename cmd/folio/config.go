package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/folio-cv/folio/internal/config"
)

func init() {
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config [key] [value]",
	Short: "Get or set repository configuration values",
	Long: `Get or set repository configuration values.

Usage:
  folio config                        # Show all config
  folio config default-style          # Get specific value
  folio config default-style Harvard  # Set value

Keys:
  default-style  Citation style used when none is requested
  site-title     Heading of the citations page
  owner          Portfolio owner shown on the page

Server and logging settings live in ~/.config/folio/config.yml and can be
overridden with FOLIO_* environment variables.`,
	Args: cobra.MaximumNArgs(2),
	RunE: runConfig,
}

// ConfigResponse is the response for config get commands.
type ConfigResponse struct {
	DefaultStyle string `json:"default_style"`
	SiteTitle    string `json:"site_title"`
	Owner        string `json:"owner"`
}

func runConfig(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()
	cfg := mustLoadConfig(repoRoot)

	// No args: show all config
	if len(args) == 0 {
		if humanOutput {
			fmt.Printf("default-style: %s\n", cfg.DefaultStyle)
			fmt.Printf("site-title:    %s\n", cfg.SiteTitle)
			fmt.Printf("owner:         %s\n", cfg.Owner)
		} else {
			outputJSON(ConfigResponse{DefaultStyle: cfg.DefaultStyle, SiteTitle: cfg.SiteTitle, Owner: cfg.Owner})
		}
		return nil
	}

	key := normalizeKey(args[0])
	field := configField(cfg, key)
	if field == nil {
		exitWithError(ExitError, "unknown configuration key: %s", args[0])
	}

	// One arg: get specific value
	if len(args) == 1 {
		if humanOutput {
			fmt.Println(*field)
		} else {
			outputJSON(map[string]string{strings.ReplaceAll(key, "-", "_"): *field})
		}
		return nil
	}

	value := args[1]
	if key == "default-style" {
		if err := config.ValidateStyle(value); err != nil {
			exitWithError(ExitConfigError, "%v", err)
		}
		if value != "" {
			value = string(mustParseStyle(value))
		}
	}
	*field = value

	if err := cfg.Save(repoRoot); err != nil {
		exitWithError(ExitError, "saving config: %v", err)
	}

	if humanOutput {
		fmt.Printf("Set %s = %s\n", key, value)
	} else {
		outputJSON(UpdateResponse{Status: "updated", Key: key, Value: value})
	}
	return nil
}

// normalizeKey accepts default_style, defaultStyle and default-style.
func normalizeKey(key string) string {
	key = strings.ReplaceAll(key, "_", "-")
	var b strings.Builder
	for i, r := range key {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('-')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}

// configField returns a pointer to the config value for key, or nil.
func configField(cfg *config.Config, key string) *string {
	switch key {
	case "default-style":
		return &cfg.DefaultStyle
	case "site-title":
		return &cfg.SiteTitle
	case "owner":
		return &cfg.Owner
	default:
		return nil
	}
}
