// File: cmd/stubserver/main.go
//
// Development stand-in for the external backend API. Run it next to the
// gate runtime and point backend.base_url at it.
package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"telegram-miniapp-gate/internal/domain/model"
	"telegram-miniapp-gate/internal/infra/stub"

	"github.com/rs/zerolog"
)

func main() {
	addr := flag.String("addr", ":9090", "listen address")
	apiKey := flag.String("api-key", "", "bearer key for the admin toggle routes")
	country := flag.String("country", "US", "country the stub resolves clients to")
	adsEnabled := flag.Bool("ads", false, "enable popup ads in served settings")
	adInterval := flag.Int("ad-interval", 120, "popup ad interval in seconds")
	flag.Parse()

	out := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	logger := zerolog.New(out).With().Timestamp().Logger()

	settings := model.AppSettings{
		PopupAdsEnabled: *adsEnabled,
		PopupAdInterval: *adInterval,
	}
	srv := stub.NewServer(*apiKey, *country, settings, &logger)

	server := &http.Server{Addr: *addr, Handler: srv.Router()}
	go func() {
		logger.Info().Str("addr", *addr).Msg("stub backend listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("stub backend server error")
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = server.Shutdown(shutdownCtx)
}
