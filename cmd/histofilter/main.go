package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	ucli "github.com/urfave/cli/v2"

	"github.com/Fepozopo/histofilter/pkg/cli"
)

func main() {
	// stages check for cancellation between scans
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cli.Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		code := 1
		var ec ucli.ExitCoder
		if errors.As(err, &ec) {
			code = ec.ExitCode()
		}
		stop()
		os.Exit(code)
	}
}
