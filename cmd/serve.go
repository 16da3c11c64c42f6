package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"pdf-translator/handlers"
	"pdf-translator/server"
	"pdf-translator/storage"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Start the HTTP API:

  POST /api/translate-text      JSON {text, sourceLanguage, targetLanguage}
  POST /api/translate-document  multipart: document, sourceLanguage, targetLanguage
  GET  /downloads/<file>        generated PDFs
  GET  /healthz, /metrics`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	store, err := storage.New(a.cfg.UploadTempDir, a.cfg.OutputDir, a.logger)
	if err != nil {
		return err
	}

	janitor := storage.NewJanitor(store, a.cfg.OutputTTL, a.cfg.CleanupInterval)
	if err := janitor.Start(); err != nil {
		return err
	}
	defer janitor.Stop(context.Background())

	h := handlers.New(a.client, a.documents(store.OutputDir), store, a.cfg.DownloadPrefix, a.logger)
	return server.New(a.cfg, a.logger, h).Run(ctx)
}
