package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/five82/shelf/internal/stubserver"
)

func main() {
	addr := pflag.StringP("addr", "a", "127.0.0.1:3000", "the address to bind the server to ([IP]:PORT)")
	prefix := pflag.StringP("prefix", "p", stubserver.DefaultPrefix, "collection path the books are served under")
	empty := pflag.Bool("empty", false, "start with no books instead of the sample set")
	pflag.Parse()

	if !strings.Contains(*addr, ":") {
		log.Fatalln("Error: invalid listening address")
	}

	seed := stubserver.SeedData()
	if *empty {
		seed = nil
	}

	srv := &http.Server{
		Addr:              *addr,
		Handler:           stubserver.New(*prefix, seed),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	go func() {
		<-ctx.Done()
		shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
		defer done()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Printf("catalog stub listening on http://%s%s", *addr, *prefix)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Printf("Error starting server: %s", err)
		os.Exit(1)
	}
}
