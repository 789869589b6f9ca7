package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/glosa/glosa/internal/config"
	"github.com/glosa/glosa/internal/home"
)

var configGlobal bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage glosa configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a starter config file",
	Long: `Write a starter config file.

By default the file is written to the current directory. With --global it is
written to the glosa home directory (~/.glosa), which is also created.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "config.yaml"
		if configGlobal {
			h, err := home.New(homeDir)
			if err != nil {
				return err
			}
			if err := h.EnsureExists(); err != nil {
				return err
			}
			path = h.ConfigPath()
		}
		if len(args) == 1 {
			path = args[0]
		}
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists, refusing to overwrite", path)
		}
		if err := config.WriteDefault(path); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", path)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		fmt.Printf("input:       %s\n", cfg.Input)
		fmt.Printf("output:      %s\n", cfg.Output)
		fmt.Printf("language:    %s\n", cfg.Language)
		fmt.Printf("model:       %s\n", cfg.Model)
		fmt.Printf("token_limit: %d\n", cfg.TokenLimit)
		fmt.Printf("template:    %s\n", cfg.Template)
		fmt.Printf("genre:       %s\n", cfg.Genre)
		fmt.Printf("bilingual:   %t\n", cfg.Bilingual)
		fmt.Printf("encoding:    %s\n", cfg.Encoding)
		fmt.Printf("base_url:    %s\n", cfg.Backend.BaseURL)

		h, err := home.New(homeDir)
		if err != nil {
			return err
		}
		switch {
		case !h.Exists():
			fmt.Printf("home:        %s (not created, run `glosa config init --global`)\n", h.Path())
		case !h.ConfigExists():
			fmt.Printf("home:        %s (no config file)\n", h.Path())
		default:
			fmt.Printf("home:        %s\n", h.Path())
		}
		return nil
	},
}

func init() {
	configInitCmd.Flags().BoolVar(&configGlobal, "global", false, "write to the glosa home directory")
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
}
