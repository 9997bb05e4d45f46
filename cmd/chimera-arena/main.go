package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ericogr/chimera-arena/internal/config"
	"github.com/ericogr/chimera-arena/internal/logging"
	"github.com/ericogr/chimera-arena/internal/version"
)

func main() {
	issueFor := flag.String("issue-token", "", "print a session token for the wallet address and exit")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.Get().String())
		return
	}

	env, err := config.ParseEnv()
	if err != nil {
		logging.Fatal("Invalid environment", err, nil)
	}
	logging.SetOutput(os.Stdout, env.Debug)
	defer logging.Sync()

	if *issueFor != "" {
		tok, err := issueToken(env, *issueFor)
		if err != nil {
			logging.Fatal("Failed to issue session token", err, nil)
		}
		fmt.Println(tok)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := newApp(ctx, env)
	if err := app.run(ctx); err != nil {
		logging.Fatal("Server stopped with error", err, nil)
	}
}
