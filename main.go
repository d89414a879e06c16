package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/RichardoC/advisory-board/internal/config"
	"github.com/RichardoC/advisory-board/internal/llm"
	"github.com/RichardoC/advisory-board/internal/logging"
	"github.com/RichardoC/advisory-board/internal/scaffold"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "advisory-board",
		Short:        "Leadership coaching from a panel of four advisors",
		SilenceUsage: true,
	}
	root.AddCommand(newAskCmd(), newInitCmd())
	return root
}

func newAskCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ask <message>",
		Short: "Send one message to the board and print the reply",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger, err := logging.New(cfg.LogLevel)
			if err != nil {
				return err
			}
			defer logger.Sync()

			svc, err := llm.New(cfg.OpenAI.BaseURL, cfg.OpenAI.APIKey, cfg.OpenAI.Model, llm.WithTimeout(cfg.RelayTimeout))
			if err != nil {
				return fmt.Errorf("failed to initialize LLM service: %w", err)
			}

			completion, err := svc.Relay(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				kind := llm.KindOf(err)
				logger.Error("failed to generate completion",
					zap.Error(err),
					zap.String("kind", string(kind)),
					zap.Bool("retryable", kind.Retryable()))
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), completion)
			return nil
		},
	}
}

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init [dir]",
		Short: "Write .env.local.example and .gitignore for local development",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			res, err := scaffold.Init(dir)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, p := range res.Created {
				fmt.Fprintf(out, "created %s\n", p)
			}
			for _, p := range res.Skipped {
				fmt.Fprintf(out, "skipped %s (exists)\n", p)
			}
			fmt.Fprintln(out, "Next: copy .env.local.example to .env.local and add your OpenAI API key.")
			return nil
		},
	}
}
