package main

import (
	"context"
	"os"

	"roombook/internal/rooms/app"
	"roombook/pkg/config"
	apperrors "roombook/pkg/errors"
)

func main() {
	cfg := config.MustLoad(app.ServiceName)

	roombook, err := app.New(cfg)
	if err != nil {
		cfg.Log.Error("Failed to start", "error", err)
		os.Exit(apperrors.WriteError(os.Stderr, err, false))
	}

	os.Exit(roombook.Run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}
