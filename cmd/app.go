package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"permit-sync/core/config"
	"permit-sync/core/database"
	"permit-sync/core/logger"
	"permit-sync/core/storage"
	"permit-sync/core/tabular"
	"permit-sync/feature/tablesync"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

var (
	jsonOutput bool
	yesConfirm bool
)

// app bundles the configuration and collaborators shared by commands.
type app struct {
	cfg     *config.Config
	log     *zap.Logger
	client  *database.Client
	store   storage.Client
	service *tablesync.Service
}

// newApp loads configuration, connects to the database and builds the sync
// service. Object storage is only set up when one of the locations needs it.
func newApp(locations ...string) (*app, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	var store storage.Client
	locations = append(locations, cfg.Source.DataURL, cfg.Source.OutputPath)
	for _, loc := range locations {
		if storage.IsObjectURL(loc) {
			store, err = storage.NewClient(cfg.Storage)
			if err != nil {
				return nil, fmt.Errorf("failed to connect to storage: %w", err)
			}
			break
		}
	}

	client, err := database.Open(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	l.Debug("Connected to database",
		zap.String("driver", client.Dialect()),
		zap.String("host", cfg.Database.Host),
		zap.String("name", cfg.Database.Name))

	stager := tabular.NewStager(cfg.Source, store, cfg.Storage.Bucket)
	svc, err := tablesync.NewService(client, stager, cfg.Source, cfg.Target, l)
	if err != nil {
		_ = client.Close()
		return nil, err
	}

	return &app{cfg: cfg, log: l, client: client, store: store, service: svc}, nil
}

// Close releases the database connection and flushes the logger.
func (a *app) Close() {
	if err := a.client.Close(); err != nil {
		a.log.Warn("Failed to close database connection", zap.Error(err))
	}
	_ = a.log.Sync()
}

// printJSON writes v to stdout as indented JSON.
func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(os.Stdout, string(data))
	return err
}

// confirm prompts the user for confirmation or uses the --yes flag.
func confirm(prompt string) bool {
	if yesConfirm {
		fmt.Fprintln(os.Stderr, "\n✓ Auto-confirmed via --yes flag")
		return true
	}

	fmt.Fprintf(os.Stderr, "\n⚠️  %s Type 'yes' to continue: ", prompt)
	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	return strings.TrimSpace(response) == "yes"
}
