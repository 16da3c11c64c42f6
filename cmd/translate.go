package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var (
	fromLang  string
	toLang    string
	outputDir string
)

var translateCmd = &cobra.Command{
	Use:   "translate",
	Short: "Translate text or a PDF document once and exit",
}

var translateTextCmd = &cobra.Command{
	Use:     "text [text...]",
	Short:   "Translate text given as arguments or on stdin",
	Example: `  pdf-translator translate text --from en --to es "Hello"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		text := strings.Join(args, " ")
		if text == "" {
			data, err := readAll(cmd)
			if err != nil {
				return err
			}
			text = strings.TrimSpace(data)
		}

		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		translated, err := a.client.Translate(cmd.Context(), text, fromLang, toLang)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), translated)
		return nil
	},
}

var translateDocumentCmd = &cobra.Command{
	Use:     "document <file.pdf>",
	Short:   "Translate a PDF and write translated_<name> to the output directory",
	Example: `  pdf-translator translate document --from en --to es report.pdf --out ./out`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		dir := outputDir
		if dir == "" {
			dir = a.cfg.OutputDir
		}
		result, err := a.documents(dir).TranslateDocument(cmd.Context(), args[0], fromLang, toLang)
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), result.TranslatedText)
		fmt.Fprintf(cmd.ErrOrStderr(), "Saved: %s (%d pages in source)\n", result.PDFPath, result.Pages)
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{translateTextCmd, translateDocumentCmd} {
		c.Flags().StringVarP(&fromLang, "from", "f", "", "source language code, e.g. en")
		c.Flags().StringVarP(&toLang, "to", "t", "", "target language code, e.g. es")
		_ = c.MarkFlagRequired("from")
		_ = c.MarkFlagRequired("to")
	}
	translateDocumentCmd.Flags().StringVarP(&outputDir, "out", "o", "", "output directory (default OUTPUT_DIR)")

	translateCmd.AddCommand(translateTextCmd, translateDocumentCmd)
	rootCmd.AddCommand(translateCmd)
}

func readAll(cmd *cobra.Command) (string, error) {
	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok {
		if info, err := f.Stat(); err == nil && info.Mode()&os.ModeCharDevice != 0 {
			return "", fmt.Errorf("no text given: pass it as arguments or pipe it on stdin")
		}
	}
	data, err := io.ReadAll(in)
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	return string(data), nil
}
