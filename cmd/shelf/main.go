package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/five82/shelf/internal/app"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := pflag.StringP("config", "c", "", "override config path (optional)")
	baseURL := pflag.StringP("url", "u", "", "catalog collection URL, e.g. http://127.0.0.1:3000/api/livros")
	refreshSeconds := pflag.IntP("refresh", "r", 0, "background refresh interval in seconds (0 disables)")
	pflag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := app.Options{ConfigPath: *configPath, BaseURL: *baseURL}
	if pflag.CommandLine.Changed("refresh") {
		if *refreshSeconds < 0 {
			fmt.Fprintln(os.Stderr, "shelf: --refresh must not be negative")
			return 2
		}
		d := time.Duration(*refreshSeconds) * time.Second
		opts.Refresh = &d
	}

	if err := app.Run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "shelf: %v\n", err)
		return 1
	}
	return 0
}
