package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Royalwole/sesame-sub004/internal/core/config"
	"github.com/Royalwole/sesame-sub004/internal/marketplace"
)

var getCmd = &cobra.Command{
	Use:   "get [listing-id]",
	Short: "Fetch a single listing by its document id",
	Args:  cobra.ExactArgs(1),
	Run:   runGet,
}

func init() {
	rootCmd.AddCommand(getCmd)
}

func runGet(cmd *cobra.Command, args []string) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	client, err := marketplace.NewClient(marketplace.Config{
		BaseURL:    cfg.API.BaseURL,
		SignInPath: cfg.API.SignInPath,
	}, nil)
	if err != nil {
		slog.Error("Failed to build client", "error", err)
		os.Exit(1)
	}

	listing, res, err := client.GetListingByID(context.Background(), args[0])
	if err != nil {
		slog.Error("Failed to fetch listing", "id", args[0], "error", err)
		os.Exit(1)
	}

	if listing == nil {
		if marketplace.NotFound(res) {
			fmt.Printf("Listing %s not found\n", args[0])
		} else {
			fmt.Printf("Listing %s unavailable: %s (request %s, %d attempts)\n",
				args[0], res.FallbackReason, res.RequestID, res.Attempts)
		}
		os.Exit(1)
	}

	out, err := json.MarshalIndent(listing, "", "  ")
	if err != nil {
		slog.Error("Failed to encode listing", "error", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}
