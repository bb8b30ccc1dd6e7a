package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/silvertone-audio/duplexvoice/pkg/httpapi"
	"github.com/silvertone-audio/duplexvoice/pkg/voice"
	"github.com/silvertone-audio/duplexvoice/pkg/voice/providers"
	_ "github.com/silvertone-audio/duplexvoice/pkg/voice/providers/llm"
	"github.com/silvertone-audio/duplexvoice/pkg/voice/providers/stt"
	"github.com/silvertone-audio/duplexvoice/pkg/voice/providers/tts"
)

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Fprintln(os.Stderr, "note: no .env file found, using system environment variables")
	}

	root := newRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var addr string
	var responderName string
	var eventLogSize int

	cmd := &cobra.Command{
		Use:   "duplexvoice-server",
		Short: "Real-time duplex voice interaction server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), addr, responderName, eventLogSize)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", envOr("LISTEN_ADDR", ":8080"), "HTTP listen address")
	cmd.Flags().StringVar(&responderName, "responder", envOr("RESPONDER_PROVIDER", "trivial"), "responder provider name (trivial, openai)")
	cmd.Flags().IntVar(&eventLogSize, "event-log-size", 256, "per-session observability event ring size")

	return cmd
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func run(ctx context.Context, addr, responderName string, eventLogSize int) error {
	zlog, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	defer zlog.Sync()
	logger := newZapLogger(zlog.Sugar())

	mp, shutdownMeters, err := httpapi.InitMeterProvider()
	if err != nil {
		return fmt.Errorf("initializing meter provider: %w", err)
	}
	defer shutdownMeters(context.Background())

	meters, err := voice.NewMeters(mp.Meter("duplexvoice"))
	if err != nil {
		return fmt.Errorf("building meters: %w", err)
	}

	responderSettings := map[string]string{
		"api_key":       os.Getenv("OPENAI_API_KEY"),
		"model":         os.Getenv("RESPONDER_MODEL"),
		"system_prompt": os.Getenv("RESPONDER_SYSTEM_PROMPT"),
	}
	responder, err := providers.GetRegistry().New(responderName, responderSettings)
	if err != nil {
		return fmt.Errorf("building responder %q: %w", responderName, err)
	}
	logger.Info("responder configured", "provider", responder.Name())

	cfg, err := voice.NewConfig(voice.WithEventLogSize(eventLogSize))
	if err != nil {
		return fmt.Errorf("building config: %w", err)
	}

	textSource := stt.NewRoundRobinSource(nil)
	registry := voice.NewRegistry()

	sessionFactory := func(id string, sink voice.OutboundSink) *voice.Session {
		return voice.NewSession(voice.SessionOptions{
			ID:          id,
			Transport:   sink,
			Recognizer:  voice.NewDefaultRecognizer(cfg, textSource),
			Synthesizer: tts.NewSineSynthesizer(),
			Responder:   responder,
			Metrics:     voice.NewMetrics(id, meters, cfg.EventLogSize),
			Logger:      logger,
			Config:      cfg,
		})
	}

	svc := httpapi.NewService(registry, sessionFactory, logger)
	router := httpapi.NewRouter(svc, registry)

	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-sigCh:
		logger.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	registry.Each(func(s *voice.Session) {
		s.Close()
	})

	return srv.Shutdown(shutdownCtx)
}
