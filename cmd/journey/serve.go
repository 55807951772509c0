package main

import (
	"context"
	"fmt"
	"log"

	"github.com/xhad/journey/server"
)

func runWeb(ctx context.Context, args []string) error {
	fs, cf := newFlagSet("web")
	port := fs.Int("port", 0, "Port to listen on (overrides config)")
	cfg, engine, err := setup(fs, cf, args)
	if err != nil {
		return err
	}
	if *port > 0 {
		cfg.Server.Port = *port
	}

	app := server.NewWebApp(engine, server.WebAppConfig{Streaming: cfg.UI.Streaming})
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("chat app on http://localhost%s (model %s)", addr, engine.ModelName())
	return server.ListenAndServe(ctx, addr, app.Handler())
}

func runAPI(ctx context.Context, args []string) error {
	fs, cf := newFlagSet("api")
	port := fs.Int("port", 0, "Port to listen on (overrides config)")
	profile := fs.String("profile", "", "local or cloud (overrides config)")
	cfg, engine, err := setup(fs, cf, args)
	if err != nil {
		return err
	}
	if *port > 0 {
		cfg.Server.Port = *port
	}
	if *profile != "" {
		cfg.Server.Profile = *profile
	}

	api, err := server.NewAPI(engine, server.APIConfig{
		Profile:   cfg.Server.Profile,
		RateLimit: cfg.Server.RateLimit,
	})
	if err != nil {
		return err
	}

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("%s API on http://localhost%s (model %s)", cfg.Server.Profile, addr, engine.ModelName())
	return server.ListenAndServe(ctx, addr, api.Handler())
}
