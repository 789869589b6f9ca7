package main

import (
	"github.com/spf13/cobra"

	"github.com/glosa/glosa/version"
)

var (
	cfgFile string
	homeDir string
)

var rootCmd = &cobra.Command{
	Use:   "glosa",
	Short: "EPUB translation powered by local or hosted language models",
	Long: `Glosa translates EPUB books paragraph by paragraph through any
OpenAI-compatible backend, including local Ollama servers.

The pipeline:
  - Splits each paragraph into sentence-aligned chunks that fit the model
  - Renders a user-supplied prompt template per chunk
  - Retries transient backend failures and skips chunks that never succeed
  - Writes translations back into a copy of the original archive`,
	Version: version.GitRelease,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.glosa/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVar(
		&homeDir, "home", "", "glosa home directory (default: ~/.glosa)",
	)

	rootCmd.AddCommand(translateCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}
