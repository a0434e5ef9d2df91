// Command wspace runs, lists and lints Whitespace programs.
package main

import (
	"bufio"
	"context"
	"os"
	"os/signal"

	"github.com/tebeka/atexit"
)

func main() {
	out := bufio.NewWriter(os.Stdout)
	atexit.Register(func() {
		out.Flush()
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	atexit.Register(stop)

	code := run(ctx, os.Args[1:], os.Stdin, out, os.Stderr)
	atexit.Exit(code)
}
