package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/testhr/llamagate/internal/config"
	"github.com/testhr/llamagate/pkg/log"
)

var debug bool

var rootCmd = &cobra.Command{
	Use:   "llamagate",
	Short: "llamagate — conversation-memory gateway for local LLMs",
	Long:  `llamagate fronts a local completion runtime with blended conversation memory, response quality control and durable chat history.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", config.IsDebug(), "enable debug logging")
}

func setupLogger(ctx context.Context) (context.Context, func()) {
	isDebug := debug || config.IsDebug()
	return log.NewContextWithLogger(ctx, isDebug)
}
