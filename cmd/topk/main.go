package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aryankumar/topk/internal/cli"
	"github.com/aryankumar/topk/internal/util"
)

func main() {
	// Setup signal handling for graceful shutdown
	ctx, stop := util.SetupSignalHandler(context.Background(), nil)

	err := cli.Execute(ctx)
	stop()

	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", util.FriendlyError(err))
		os.Exit(1)
	}
}
