package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"imobi/server/config"
	"imobi/server/internal/export"
	"imobi/server/internal/query"
	"imobi/server/internal/service"
	"imobi/server/internal/store"
	"imobi/server/internal/store/docstore"
	"imobi/server/internal/store/localstore"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	exportCSV := flag.Bool("export", false, "write the current list as CSV and exit")
	search := flag.String("search", "", "text filter applied to the printed table")
	status := flag.String("status", query.All, "status filter applied to the printed table")
	category := flag.String("category", query.All, "category filter applied to the printed table")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}

	backend, closeBackend, err := openBackend(cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize storage backend")
	}
	defer closeBackend()

	logger.WithFields(logrus.Fields{
		"backend":   cfg.Backend,
		"partition": cfg.PartitionKey(),
	}).Info("Storage backend ready")

	svc := service.New(backend, stdinConfirmer{}, logger)

	filter := query.Filter{Search: *search, Status: *status, Category: *category}

	if *exportCSV {
		runExport(svc, filter, cfg.Storage.ExportDir, logger)
		return
	}

	unsubscribe, err := svc.Subscribe(func(snapshot store.Snapshot) {
		printDashboard(snapshot, filter)
	})
	if err != nil {
		logger.WithError(err).Fatal("Failed to subscribe to property updates")
	}
	defer unsubscribe()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	logger.Info("Shutting down")
}

// openBackend builds the configured storage variant. The choice is made
// exactly once, here; nothing downstream branches on the backend kind.
func openBackend(cfg *config.Config, logger *logrus.Logger) (store.Backend, func(), error) {
	switch cfg.Backend {
	case config.BackendDocument:
		s, err := docstore.Open(cfg.Storage.DatabasePath, logger)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { _ = s.Close() }, nil
	default:
		opts := localstore.Options{
			PollInterval:  cfg.PollInterval(),
			InitialDelay:  cfg.InitialDelay(),
			CreateLatency: cfg.CreateLatency(),
			WriteLatency:  cfg.WriteLatency(),
		}
		s, err := localstore.New(cfg.Storage.DataDir, cfg.PartitionKey(), opts, logger)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	}
}

// runExport waits for one snapshot and writes the filtered list as CSV.
func runExport(svc *service.Service, filter query.Filter, dir string, logger *logrus.Logger) {
	snapshots := make(chan store.Snapshot, 1)
	unsubscribe, err := svc.Subscribe(func(snapshot store.Snapshot) {
		select {
		case snapshots <- snapshot:
		default:
		}
	})
	if err != nil {
		logger.WithError(err).Fatal("Failed to subscribe for export")
	}
	defer unsubscribe()

	select {
	case snapshot := <-snapshots:
		list := query.Apply(snapshot, filter)
		if len(list) == 0 {
			logger.Warn("No data to export")
			return
		}
		path, err := export.WriteFile(dir, list, time.Now())
		if err != nil {
			logger.WithError(err).Fatal("Failed to write CSV export")
		}
		logger.WithField("path", path).Info("Exported properties")
	case <-time.After(10 * time.Second):
		logger.Fatal("Timed out waiting for the first snapshot")
	}
}

func printDashboard(snapshot store.Snapshot, filter query.Filter) {
	stats := query.Aggregate(snapshot)
	list := query.Apply(snapshot, filter)
	list = query.Sort(list, query.FieldLastUpdated, query.Descending)

	fmt.Printf("\nTotal %d | Residencial %d | Comercial %d | Disponíveis %d | Em processo %d | Desocupando %d | Suspensos %d | Locados %d\n",
		stats.Total, stats.Residential, stats.Commercial,
		stats.Available, stats.InProcess, stats.Vacating, stats.Suspended, stats.Leased)

	for _, p := range list {
		fmt.Printf("%-8s %-30s %-15s %-12s %10.2f  %s\n",
			p.Code, p.Address, p.Neighborhood, p.Type, p.Value, p.Status)
	}
}

// stdinConfirmer gates destructive operations through the terminal.
type stdinConfirmer struct{}

func (stdinConfirmer) Confirm(prompt string) bool {
	fmt.Printf("%s [s/N] ", prompt)
	reader := bufio.NewReader(os.Stdin)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "s" || answer == "sim"
}
