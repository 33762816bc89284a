package main

import (
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/exp/slog"

	"github.com/anton-fomenko/payment-gateway/gateway"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout))

	config := gateway.LoadConfig(logger)

	app := gateway.NewApp(logger, config)
	if err := app.Start(); err != nil {
		logger.Error("starting app", "err", err)
		os.Exit(1)
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	app.Shutdown()
}
