package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	chatcmder "github.com/papercomputeco/sage/cmd/sage/chat"
	promptcmder "github.com/papercomputeco/sage/cmd/sage/prompt"
	servecmder "github.com/papercomputeco/sage/cmd/sage/serve"
)

func main() {
	root := &cobra.Command{
		Use:          "sage",
		Short:        "Sage is a supportive companion chat server",
		SilenceUsage: true,
	}
	root.AddCommand(
		servecmder.NewServeCmd(),
		chatcmder.NewChatCmd(),
		promptcmder.NewPromptCmd(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
