package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"

	"github.com/Krestall88/cleaning-control-sub000/internal/calendar"
	"github.com/Krestall88/cleaning-control-sub000/internal/config"
	"github.com/Krestall88/cleaning-control-sub000/internal/httpmw"
	"github.com/Krestall88/cleaning-control-sub000/internal/store"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := run(context.Background(), *configPath, logger); err != nil {
		logger.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath string, logger *slog.Logger) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	st, err := store.New(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.SeedDemo(ctx); err != nil {
		return err
	}

	svc := calendar.NewService(st, st, calendar.RealClock{}, logger, calendar.Options{
		WindowBack:      cfg.Calendar.WindowBack,
		WindowForward:   cfg.Calendar.WindowForward,
		OverdueLookback: cfg.Calendar.OverdueLookback,
		Location:        loc,
	})

	mux := http.NewServeMux()
	calendar.NewHandler(svc, logger).Register(mux)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	handler := httpmw.Chain(mux,
		httpmw.WithRequestID,
		httpmw.WithRecover(logger),
		httpmw.WithAccessLog(logger),
	)

	logger.Info("listening", "addr", cfg.Listen, "db", cfg.Database.Path, "tz", cfg.Timezone)
	return http.ListenAndServe(cfg.Listen, handler)
}
