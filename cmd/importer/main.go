// Command importer runs the Import Orchestrator as a standalone service: it
// exposes a small HTTP trigger for importTable calls and a Prometheus
// /metrics endpoint, and wires its collaborators (catalog, source metadata,
// worker pool) from command-line flags, with the pipeline tunables loaded
// from the environment.
//
// Grounded on the teacher's cmd/coordinator/main.go for the HTTP server and
// signal-based graceful shutdown skeleton, with spf13/cobra added as the CLI
// entry point framework (mycelianCli's NewRootCmd pattern) and rs/zerolog
// for structured logging in place of the teacher's log.Printf calls.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/dreamware/shardflow/internal/catalog"
	"github.com/dreamware/shardflow/internal/config"
	"github.com/dreamware/shardflow/internal/importer"
	"github.com/dreamware/shardflow/internal/metrics"
	"github.com/dreamware/shardflow/internal/model"
	"github.com/dreamware/shardflow/internal/source"
)

var (
	metaURL    string
	catalogURL string
	workersArg string
	listenAddr string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCmd builds the importer CLI; exposed for testing the flag wiring
// without invoking main.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "importer",
		Short: "Runs the Hive-to-sharded-store import orchestrator",
		RunE:  runServe,
	}

	root.Flags().StringVar(&metaURL, "source-metadata-url", "", "base URL of the source metadata service")
	root.Flags().StringVar(&catalogURL, "catalog-url", "", "base URL of the shard-manager catalog")
	root.Flags().StringVar(&workersArg, "workers", "", "comma-separated nodeIdentifier=httpUri worker list")
	root.Flags().StringVar(&listenAddr, "listen-addr", ":8090", "address the trigger/metrics HTTP server listens on")

	return root
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Str("service", "importer").Logger()

	cfg, err := config.Load("IMPORTER")
	if err != nil {
		logger.Error().Err(err).Msg("failed to load configuration")
		return err
	}

	workers, err := parseWorkers(workersArg)
	if err != nil {
		logger.Error().Err(err).Msg("failed to parse --workers")
		return err
	}
	if len(workers) == 0 {
		err := errors.New("at least one worker must be configured via --workers")
		logger.Error().Msg(err.Error())
		return err
	}

	shardMgr := catalog.NewClient(catalogURL)
	metaClient := source.NewHTTPMetadataClient(metaURL)
	suppliers := func(databaseName, tableName string, partition model.Partition) (source.ChunkSupplier, error) {
		return source.NewHTTPChunkSupplier(metaURL, databaseName, tableName, partition), nil
	}

	orch, err := importer.New(cfg, workers, shardMgr, metaClient, suppliers, logger)
	if err != nil {
		logger.Error().Err(err).Msg("failed to construct orchestrator")
		return err
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry(), promhttp.HandlerOpts{}))
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/v1/import", newImportHandler(orch, logger))

	httpSrv := &http.Server{
		Addr:              listenAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", listenAddr).Msg("importer listening")
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("listen failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info().Msg("shutting down orchestrator")
	orch.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("http server shutdown error")
	}
	logger.Info().Msg("importer stopped")
	return nil
}

type importRequest struct {
	TableID      uint64              `json:"tableId"`
	SourceName   string              `json:"sourceName"`
	DatabaseName string              `json:"databaseName"`
	TableName    string              `json:"tableName"`
	Fields       []model.ImportField `json:"fields"`
}

func newImportHandler(orch *importer.Orchestrator, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var req importRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "malformed request body", http.StatusBadRequest)
			return
		}

		err := orch.ImportTable(r.Context(), req.TableID, req.SourceName, req.DatabaseName, req.TableName, req.Fields)
		if err != nil {
			logger.Warn().Err(err).Uint64("table_id", req.TableID).Msg("importTable rejected")
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusAccepted)
	}
}

// parseWorkers parses a comma-separated "nodeIdentifier=httpUri" list, the
// format accepted by the --workers flag.
func parseWorkers(s string) ([]model.Worker, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	var workers []model.Worker
	for _, entry := range strings.Split(s, ",") {
		parts := strings.SplitN(entry, "=", 2)
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			return nil, &workerParseError{entry: entry}
		}
		workers = append(workers, model.Worker{NodeIdentifier: parts[0], HTTPURI: parts[1]})
	}
	return workers, nil
}

type workerParseError struct{ entry string }

func (e *workerParseError) Error() string {
	return "malformed --workers entry (want nodeIdentifier=httpUri): " + e.entry
}
