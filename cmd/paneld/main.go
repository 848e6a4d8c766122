// Command paneld serves multi-persona panel discussions over HTTP.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hupe1980/panelmesh/internal/config"
	"github.com/hupe1980/panelmesh/persona"
)

var rootCmd = &cobra.Command{
	Use:   "paneld",
	Short: "Panel discussion server",
	Long: `paneld runs the panelmesh discussion engine as an HTTP daemon.

A panel session brings 2-4 AI personas into a shared discussion: every
persona answers every user message, sees the replies given earlier in the
same round, and an optional moderator opens the session and can summarize
it on demand.

Configuration is read from PANELMESH_* environment variables; a .env file
in the working directory is loaded first when present.`,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(configsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// buildRegistry seeds the built-in personas and merges any YAML definitions
// over them.
func buildRegistry(cfg config.RegistryConfig) (*persona.Registry, error) {
	registry := persona.NewRegistry()
	if err := registry.Seed(); err != nil {
		return nil, fmt.Errorf("seed registry: %w", err)
	}
	if cfg.PersonasDir != "" {
		if err := registry.LoadDir(cfg.PersonasDir); err != nil {
			return nil, fmt.Errorf("load personas from %s: %w", cfg.PersonasDir, err)
		}
	}
	return registry, nil
}
