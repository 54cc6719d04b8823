package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"stocktree/internal/app"
	"stocktree/internal/logging"
	"stocktree/internal/model"
	"stocktree/internal/store"
)

func main() {
	configPath := flag.String("config", model.DefaultConfigPath(), "path to the configuration file")
	flag.Parse()

	cfg, err := model.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "stocktree: %v\n", err)
		os.Exit(1)
	}

	logPath := cfg.Log.File
	if logPath == "" {
		logPath = logging.DefaultLogPath()
	}
	logger, closeLog := logging.Setup(logPath, cfg.Log.Level)
	defer closeLog()

	dbPath := cfg.DatabasePath
	if dbPath == "" {
		dbPath = model.DefaultDatabasePath()
	}

	s, err := store.NewSQLiteStore(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "stocktree: opening database: %v\n", err)
		os.Exit(1)
	}
	defer s.Close()

	logger.Info("starting", slog.String("db", dbPath))

	p := tea.NewProgram(app.New(s, cfg), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		logger.Error("program failed", slog.Any("error", err))
		fmt.Fprintf(os.Stderr, "stocktree: %v\n", err)
		os.Exit(1)
	}
}
