package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/Royalwole/sesame-sub004/internal/core/config"
	"github.com/Royalwole/sesame-sub004/internal/health"
	"github.com/Royalwole/sesame-sub004/internal/snapshot"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show stored view snapshots and the running service's upstream health",
	Run:   runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	if cfg.Redis.URL == "" {
		slog.Error("Status requires a Redis snapshot store", "hint", "set redis.url in the config")
		os.Exit(1)
	}

	store, err := snapshot.NewRedisStore(cfg.Redis)
	if err != nil {
		slog.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	defer func() {
		_ = store.Close()
	}()

	entries, err := store.Entries(context.Background())
	if err != nil {
		slog.Error("Failed to list snapshots", "error", err)
		os.Exit(1)
	}

	if len(entries) == 0 {
		fmt.Println("No snapshots stored")
	} else {
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', tabwriter.Debug)
		_, _ = fmt.Fprintln(w, "KEY\tTTL")

		for _, e := range entries {
			_, _ = fmt.Fprintf(w, "%s\t%s\n", e.Key, e.TTL)
		}
		_ = w.Flush()
	}

	printUpstreamHealth(cfg.Server.Port)
}

// printUpstreamHealth asks the running service for its health report. A
// stopped service is not an error for status.
func printUpstreamHealth(port int) {
	client := &http.Client{Timeout: 3 * time.Second}
	resp, err := client.Get(fmt.Sprintf("http://localhost:%d/health/detailed", port))
	if err != nil {
		fmt.Println("\nService not reachable, no upstream health to report")
		return
	}
	defer resp.Body.Close()

	var report health.HealthReport
	if err := json.NewDecoder(resp.Body).Decode(&report); err != nil {
		slog.Error("Failed to decode health report", "error", err)
		return
	}

	fmt.Printf("\nSystem status: %s\n", report.SystemStatus)
	if len(report.Endpoints) == 0 {
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', tabwriter.Debug)
	_, _ = fmt.Fprintln(w, "ENDPOINT\tSTATUS\tERROR RATE\tFALLBACKS\tAVG LATENCY")

	for _, ep := range report.Endpoints {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%.2f\t%d\t%s\n",
			ep.Endpoint, ep.Status, ep.ErrorRate, ep.Fallbacks, ep.AverageLatency)
	}
	_ = w.Flush()
}
