package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gorm.io/gorm"

	"emiscal_backend/internals/configs"
	database "emiscal_backend/internals/databases"
	"emiscal_backend/internals/features/calendar/repository"
	"emiscal_backend/internals/features/calendar/repository/memory"
	"emiscal_backend/internals/features/calendar/scheduler"
	routes "emiscal_backend/internals/route"
	"emiscal_backend/internals/seeds"
)

func main() {
	cfg := configs.LoadEnv()

	// 🔌 store: postgres (default) atau memory untuk demo/dev
	var (
		store repository.Store
		db    *gorm.DB
	)
	switch cfg.DBDriver {
	case "memory":
		log.Println("⚠️ DB_DRIVER=memory, data hilang saat restart")
		store = memory.New()
	default:
		var err error
		db, err = database.ConnectDB(cfg)
		if err != nil {
			log.Fatalf("❌ Gagal konek DB: %v", err)
		}
		database.TunePool(db)
		if cfg.DBAutoMigrate {
			if err := database.AutoMigrate(db); err != nil {
				log.Fatalf("❌ AutoMigrate gagal: %v", err)
			}
		}
		database.WarmUpQueries(db)
		store = repository.NewGormStore(db)
	}

	if cfg.SeedOnStart {
		if err := seeds.RunAllSeeds(context.Background(), store, cfg.SeedDir); err != nil {
			log.Fatalf("[SEED] gagal: %v", err)
		}
	}

	// ⏱ scheduler setelah DB siap
	purger := scheduler.NewPurger(store.Events(), scheduler.PurgeConfig{
		CronSchedule:  cfg.PurgeCron,
		RetentionDays: cfg.PurgeRetentionDays,
	})
	if err := purger.Start(); err != nil {
		log.Fatalf("[PURGE] add cron gagal: %v", err)
	}

	app := routes.NewApp(cfg, store)

	// 🔒 Keep-Alive & timeout koneksi server
	app.Server().ReadTimeout = 15 * time.Second
	app.Server().WriteTimeout = 30 * time.Second
	app.Server().IdleTimeout = 90 * time.Second

	go func() {
		log.Printf("✅ Listening on :%s", cfg.Port)
		if err := app.Listen("0.0.0.0:" + cfg.Port); err != nil {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown + tutup pool DB
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = app.ShutdownWithContext(ctx)
	purger.Stop(ctx)

	if db != nil {
		database.Close(db)
	}
}
