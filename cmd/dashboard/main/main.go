package main

import (
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fuad-daoud/bot-dashboard/bridge"
	"github.com/fuad-daoud/bot-dashboard/config"
	dashboardhttp "github.com/fuad-daoud/bot-dashboard/http"
	"github.com/fuad-daoud/bot-dashboard/integrations/digitalocean"
	"github.com/fuad-daoud/bot-dashboard/logger/dlog"
	"github.com/fuad-daoud/bot-dashboard/platform"
	"golang.org/x/net/context"
)

var configPath string

func init() {
	flag.StringVar(&configPath, "config", "config.yaml", "Path to an optional YAML config file")
	flag.Parse()
}

func main() {
	cfg, err := config.Load(configPath)
	if err != nil {
		panic(err)
	}

	var uploader dlog.Uploader
	if spacesConfig := digitalocean.Config(cfg.Spaces); spacesConfig.Enabled() {
		spaces, err := digitalocean.NewSpaces(spacesConfig)
		if err != nil {
			panic(err)
		}
		uploader = spaces
	}
	stopLogs, err := dlog.Setup(dlog.Config{
		Dir:         cfg.Log.Dir,
		Level:       cfg.Log.Level,
		ArchiveCron: cfg.Log.ArchiveCron,
		Uploader:    uploader,
	})
	if err != nil {
		panic(err)
	}
	defer stopLogs()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	session, err := platform.New(cfg.Token)
	if err != nil {
		dlog.Error("error creating discord client", "err", err)
		return
	}
	go func() {
		if err := session.Open(ctx); err != nil {
			dlog.Error("failed to open gateway", "err", err)
		}
	}()

	service := bridge.NewService(session, bridge.WithTimeout(cfg.Server.RequestTimeout))
	server := dashboardhttp.NewServer(service, cfg.Server.Origin)
	go func() {
		dlog.Info("Backend server is running", "port", cfg.Server.Port)
		if err := server.Start(cfg.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			dlog.Error("Could not serve", "addr", cfg.Addr(), "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	dlog.Info("Graceful shutdown")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		dlog.Error("error shutting down http server", "err", err)
	}
	session.Close(shutdownCtx)
}
