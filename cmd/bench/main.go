package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/aretw0/jotter"
	"github.com/aretw0/jotter/pkg/core"
)

func main() {
	count := flag.Int("count", 1000, "Number of notes to generate")
	adapter := flag.String("adapter", jotter.AdapterJSON, "Storage adapter (json or sqlite)")
	keep := flag.Bool("keep", false, "Keep the benchmark data directory after running")
	flag.Parse()

	benchDir, err := os.MkdirTemp("", "jotter_bench_")
	if err != nil {
		panic(err)
	}
	defer func() {
		if !*keep {
			os.RemoveAll(benchDir)
		} else {
			fmt.Printf("Keeping bench dir: %s\n", benchDir)
		}
	}()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelWarn}))
	svc, err := jotter.New(benchDir,
		jotter.WithAdapter(*adapter),
		jotter.WithLogger(logger),
		jotter.WithIterations(10000),
	)
	if err != nil {
		panic(err)
	}
	defer svc.Close()

	ctx := context.Background()
	user, err := svc.Register(ctx, "bench", "bench-password")
	if err != nil {
		panic(err)
	}

	// Every save rewrites the whole notes collection, so this phase is
	// quadratic in count for both adapters.
	fmt.Printf("Saving %d notes with the %s adapter in %s...\n", *count, *adapter, benchDir)
	startSave := time.Now()
	for i := 0; i < *count; i++ {
		_, err := svc.SaveNote(ctx, core.Note{
			ID:      fmt.Sprintf("note_%d", i),
			OwnerID: user.ID,
			Title:   fmt.Sprintf("Note %d", i),
			Content: "This is a benchmark note.",
			Tags:    []string{"benchmark", fmt.Sprintf("bucket/%d", i%10)},
		})
		if err != nil {
			panic(err)
		}
	}
	saveDuration := time.Since(startSave)

	startList := time.Now()
	list, err := svc.ListNotes(ctx, user.ID)
	if err != nil {
		panic(err)
	}
	listDuration := time.Since(startList)

	startSearch := time.Now()
	found, err := svc.SearchNotes(ctx, user.ID, "note 99")
	if err != nil {
		panic(err)
	}
	searchDuration := time.Since(startSearch)

	fmt.Printf("--------------------------------------------------\n")
	fmt.Printf("Benchmark Result (%d notes, %s):\n", *count, *adapter)
	fmt.Printf("  Save:   %v total, %v/op\n", saveDuration, saveDuration/time.Duration(max(*count, 1)))
	fmt.Printf("  List:   %v (Items: %d)\n", listDuration, len(list))
	fmt.Printf("  Search: %v (Hits: %d)\n", searchDuration, len(found))
	fmt.Printf("--------------------------------------------------\n")
}
