// Command main runs the database seeder for PawCircle.
package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"sort"
	"syscall"

	"pawcircle/internal/bootstrap"
	"pawcircle/internal/config"
	"pawcircle/internal/seed"
)

func main() {
	defaults := seed.DefaultOptions()

	opts := seed.Options{}
	flag.Int64Var(&opts.Seed, "seed", defaults.Seed, "Random seed; the same seed yields the same records")
	flag.IntVar(&opts.Posts, "posts", defaults.Posts, "Number of community posts to create")
	flag.IntVar(&opts.Articles, "articles", defaults.Articles, "Number of wiki articles to create")
	flag.IntVar(&opts.Alerts, "alerts", defaults.Alerts, "Number of emergency alerts to create")
	flag.IntVar(&opts.Events, "events", defaults.Events, "Number of events to create")
	flag.IntVar(&opts.Circles, "circles", defaults.Circles, "Number of neighbourhood circles to create")
	flag.IntVar(&opts.Clubs, "clubs", defaults.Clubs, "Number of breed clubs to create")
	flag.IntVar(&opts.Profiles, "profiles", defaults.Profiles, "Number of pet profiles to create")
	flag.IntVar(&opts.MaxDays, "days", defaults.MaxDays, "Spread record dates over this many past days")
	flag.Parse()

	log.Println("🌱 Database Seeder")
	log.Println("==================")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rt, err := bootstrap.InitRuntime(ctx, cfg, bootstrap.Options{})
	if err != nil {
		log.Fatalf("Failed to connect to %s backend: %v", cfg.ContentBackend, err)
	}
	defer func() { _ = rt.Close(context.Background()) }()

	report, err := seed.NewSeeder(rt.Catalog, opts).Run(ctx)
	if err != nil {
		log.Fatalf("❌ Seeding failed: %v", err)
	}

	collections := make([]string, 0, len(report))
	for name := range report {
		collections = append(collections, name)
	}
	sort.Strings(collections)
	for _, name := range collections {
		log.Printf("  %-22s %d", name, report[name])
	}
	log.Printf("✨ All done! Created %d records on the %s backend.", report.Total(), rt.Backend)
}
