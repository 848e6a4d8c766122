package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/hupe1980/panelmesh/internal/config"
)

var configsCmd = &cobra.Command{
	Use:   "configs",
	Short: "List the available panel configurations",
	Long: `Prints every panel configuration the server would offer, including
YAML definitions from PANELMESH_PERSONAS_DIR. The default configuration
is marked with an asterisk.`,
	RunE: runConfigs,
}

func runConfigs(cmd *cobra.Command, args []string) error {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("warning: failed to load .env file: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	registry, err := buildRegistry(cfg.Registry)
	if err != nil {
		return err
	}

	for _, pc := range registry.Configs() {
		marker := " "
		if pc.Default {
			marker = "*"
		}
		fmt.Printf("%s %s (%s)\n", marker, pc.ID, pc.Name)
		if pc.Description != "" {
			fmt.Printf("    %s\n", pc.Description)
		}
		fmt.Printf("    members: %s\n", strings.Join(pc.PersonaIDs, ", "))
	}

	return nil
}
