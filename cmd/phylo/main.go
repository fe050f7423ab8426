package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/matzehuels/phylo/internal/cli"
	errs "github.com/matzehuels/phylo/pkg/errors"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(130) // SIGINT
		}
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(exitCode(err))
	}
}

// exitCode is 2 for bad input and 1 for everything else.
func exitCode(err error) int {
	switch errs.GetCode(err) {
	case errs.ErrCodeInvalidInput, errs.ErrCodeSyntax, errs.ErrCodeFileNotFound:
		return 2
	}
	return 1
}

func run(ctx context.Context) error {
	var verbose bool

	c := cli.New(os.Stderr, cli.LogInfo)
	root := c.RootCommand()
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	configure := root.PersistentPreRunE
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if verbose {
			c.SetLogLevel(cli.LogDebug)
		}
		if configure != nil {
			return configure(cmd, args)
		}
		return nil
	}

	return root.ExecuteContext(ctx)
}
