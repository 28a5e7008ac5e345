package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Royalwole/sesame-sub004/internal/core/config"
	"github.com/Royalwole/sesame-sub004/internal/core/domain"
	"github.com/Royalwole/sesame-sub004/internal/marketplace"
)

var (
	listStatus   string
	listType     string
	listCity     string
	listState    string
	listAgent    string
	listSearch   string
	listMinPrice int64
	listMaxPrice int64
	listPage     int
	listLimit    int
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List marketplace listings with optional filters",
	Run:   runList,
}

func init() {
	listCmd.Flags().StringVar(&listStatus, "status", "", "filter by status (for_sale, for_rent, sold, ...)")
	listCmd.Flags().StringVar(&listType, "type", "", "filter by listing type (house, apartment, ...)")
	listCmd.Flags().StringVar(&listCity, "city", "", "filter by city")
	listCmd.Flags().StringVar(&listState, "state", "", "filter by state")
	listCmd.Flags().StringVar(&listAgent, "agent", "", "fetch listings owned by this agent")
	listCmd.Flags().StringVar(&listSearch, "search", "", "free-text search")
	listCmd.Flags().Int64Var(&listMinPrice, "min-price", 0, "minimum price")
	listCmd.Flags().Int64Var(&listMaxPrice, "max-price", 0, "maximum price")
	listCmd.Flags().IntVar(&listPage, "page", 1, "page number")
	listCmd.Flags().IntVar(&listLimit, "limit", domain.DefaultPageLimit, "page size")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) {
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

	query := marketplace.ListingQuery{
		Status:      listStatus,
		ListingType: listType,
		City:        listCity,
		State:       listState,
		Search:      listSearch,
		MinPrice:    listMinPrice,
		MaxPrice:    listMaxPrice,
		Page:        listPage,
		Limit:       listLimit,
	}

	ctx := context.Background()
	var page *domain.ListingPage
	if listAgent != "" {
		page, err = client.AgentListings(ctx, listAgent, query)
	} else {
		page, err = client.ListListings(ctx, query)
	}
	if err != nil {
		slog.Error("Failed to fetch listings", "error", err)
		os.Exit(1)
	}

	if page.Fallback {
		fmt.Printf("Live data unavailable: %s\n", page.FallbackReason)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', tabwriter.Debug)
	_, _ = fmt.Fprintln(w, "ID\tTITLE\tTYPE\tSTATUS\tPRICE\tCITY")

	for _, l := range page.Listings {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\n",
			l.ID, l.Title, l.ListingType, l.Status, l.Price, l.City)
	}
	_ = w.Flush()

	fmt.Printf("Page %d of %d (%d listings total)\n",
		page.Pagination.CurrentPage, page.Pagination.TotalPages, page.Pagination.Total)
}
