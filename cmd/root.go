package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var version = "0.1.0"

var envFile string

var rootCmd = &cobra.Command{
	Use:   "pdf-translator",
	Short: "Translate text and PDF documents",
	Long: `pdf-translator translates plain text and PDF documents through an
external machine-translation service (Hugging Face opus-mt models by default).

Run "pdf-translator serve" to start the HTTP API, or use
"pdf-translator translate" for one-off translations.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
}

// Execute 运行根命令
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
