package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var logLevel string

var rootCmd = &cobra.Command{
	Use:   "pdf417scan",
	Short: "Read and write PDF417 barcodes",
	Long: `pdf417scan locates and decodes PDF417 barcodes in image files, and
renders text into new PDF417 symbols.

Examples:
  pdf417scan decode photo.jpg
  pdf417scan decode --multi --inverted scan.png
  pdf417scan encode --ec-level 5 --output out.png "hello world"`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn",
		"log level (debug, info, warn, error)")

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		var level slog.Level
		switch logLevel {
		case "debug":
			level = slog.LevelDebug
		case "info":
			level = slog.LevelInfo
		case "error":
			level = slog.LevelError
		default:
			level = slog.LevelWarn
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: level,
		})))
	}

	rootCmd.AddCommand(decodeCmd)
	rootCmd.AddCommand(encodeCmd)
}
