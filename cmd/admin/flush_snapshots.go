package main

import (
	"context"
	"fmt"
	"os"

	"github.com/Royalwole/sesame-sub004/internal/snapshot"
)

func main() {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		url = "redis://localhost:6379/0"
	}

	store, err := snapshot.NewRedisStore(snapshot.Config{
		URL:      url,
		Password: os.Getenv("REDIS_PASSWORD"),
	})
	if err != nil {
		panic(err)
	}
	defer store.Close()

	ctx := context.Background()
	entries, err := store.Entries(ctx)
	if err != nil {
		panic(err)
	}

	if err := store.Flush(ctx); err != nil {
		panic(err)
	}

	fmt.Printf("Successfully flushed %d snapshot keys\n", len(entries))
}
