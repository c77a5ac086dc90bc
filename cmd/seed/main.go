package main

import (
	"fmt"
	"os"

	"github.com/rafiki-work/rafiki-backend/internal/app"
	"github.com/rafiki-work/rafiki-backend/internal/data/db"
	"github.com/rafiki-work/rafiki-backend/internal/data/repos"
	"github.com/rafiki-work/rafiki-backend/internal/platform/dbctx"
	"github.com/rafiki-work/rafiki-backend/internal/platform/envutil"
	"github.com/rafiki-work/rafiki-backend/internal/platform/logger"
	"github.com/rafiki-work/rafiki-backend/internal/services"
)

// seed inserts the canonical global guided-path modules. Running it twice
// creates nothing the second time.
func main() {
	log, err := logger.New(envutil.String("LOG_MODE", "development"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	app.LoadEnvFile(log)

	store, err := db.Open(log, db.DSNFromEnv())
	if err != nil {
		log.Error("Failed to open database", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	if err := db.AutoMigrateAll(store.DB()); err != nil {
		log.Error("Automigrate failed", "error", err)
		os.Exit(1)
	}

	admin := services.NewModuleAdminService(store.DB(), log, repos.NewGuidedModuleRepo(store.DB(), log))
	created, err := admin.SeedCanonical(dbctx.Background())
	if err != nil {
		log.Error("Seed failed", "error", err)
		os.Exit(1)
	}
	for _, m := range created {
		fmt.Printf("created %s (%s) %s\n", m.Name, m.Category, m.ID)
	}
	fmt.Printf("%d module(s) created\n", len(created))
}
