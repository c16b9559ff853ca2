package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/clinicops/migrator/internal/backend"
	"github.com/clinicops/migrator/internal/config"
	"github.com/clinicops/migrator/internal/data/namecache"
	"github.com/clinicops/migrator/internal/dedup"
	"github.com/clinicops/migrator/internal/domain/recordModel"
	"github.com/clinicops/migrator/internal/export"
	"github.com/clinicops/migrator/internal/migrate"
	"github.com/clinicops/migrator/internal/server"
	drivesource "github.com/clinicops/migrator/internal/source/drive"
	"github.com/clinicops/migrator/internal/source/folder"
	"github.com/clinicops/migrator/internal/source/sqlitedb"
	"github.com/clinicops/migrator/internal/ui"
	"github.com/clinicops/migrator/pkg/logger_i"
)

var (
	legacyDBPath  string
	driveFolderID string
	docsDir       string
	dryRun        bool
	noPrompt      bool
)

func main() {

	logger_i.Init()
	var logger = logger_i.NewLogger("main")

	//config
	flag.StringVar(&legacyDBPath, "db", "", "path to the legacy SQLite database")
	flag.StringVar(&driveFolderID, "drive-folder", "", "Google Drive folder id holding patient documents")
	flag.StringVar(&docsDir, "docs-dir", "", "local directory holding patient documents")
	flag.BoolVar(&dryRun, "dry-run", false, "migrate into an in-memory backend instead of Supabase")
	flag.BoolVar(&noPrompt, "migrate", false, "skip the action prompt and migrate directly")
	flag.Parse()

	if legacyDBPath == "" && driveFolderID == "" && docsDir == "" {
		logger.Error("Nothing to do: pass -db, -drive-folder or -docs-dir")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Backend credentials are the only fatal precondition; checked before
	// any record is touched.
	settings, err := config.Load()
	if err != nil {
		if !dryRun {
			logger.Error("Configuration invalid", "error", err)
			os.Exit(1)
		}
		settings.RedisAddr = config.RedisAddr
		settings.ListenAddr = config.StatusListenAddr
		settings.ExportDir = config.DefaultExportDir
	}

	var target recordModel.BackendClient
	if dryRun {
		logger.Info("Dry run: records go to an in-memory backend")
		target = backend.InitInMemoryBackend()
	} else {
		target = backend.NewSupabaseClient(settings)
	}

	var cache recordModel.NameCache
	if redisCache := namecache.GetRedisNameCache(ctx, settings.RedisAddr); redisCache != nil {
		cache = redisCache
	} else {
		logger.Warn("Redis name cache is offline, using in-memory cache")
		cache = namecache.InitInMemoryNameCache()
	}

	coordinator := dedup.NewCoordinator(target, cache)
	driver := migrate.NewDriver(coordinator, target)

	go server.CreateStatusServer(settings.ListenAddr, driver.Progress)

	action := ui.ActionMigrate
	if legacyDBPath != "" && !noPrompt {
		action, err = ui.ChooseAction()
		if err != nil {
			logger.Info("Aborted before any processing")
			return
		}
	}

	if legacyDBPath != "" {
		runLegacyDB(ctx, logger, driver, action, settings.ExportDir)
	}
	if driveFolderID != "" {
		runDriveFolder(ctx, logger, driver)
	}
	if docsDir != "" {
		runDocsDir(ctx, logger, driver)
	}

	summary := driver.Progress()
	logger.Info("=== Migration finished ===", "processed", summary.Processed, "errors", summary.Errors)
}

func runLegacyDB(ctx context.Context, logger *logger_i.Logger, driver *migrate.Driver, action ui.Action, exportDir string) {
	db, err := sqlitedb.Open(legacyDBPath)
	if err != nil {
		logger.Error("Cannot open legacy database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if action == ui.ActionExport || action == ui.ActionBoth {
		if err := export.AllTables(ctx, db, exportDir); err != nil {
			logger.Error("CSV export failed", "error", err)
		}
	}

	if action == ui.ActionMigrate || action == ui.ActionBoth {
		if _, err := driver.RunTableSource(ctx, db); err != nil {
			logger.Error("Legacy database migration failed", "error", err)
		}
	}
}

func runDriveFolder(ctx context.Context, logger *logger_i.Logger, driver *migrate.Driver) {
	authOption, err := drivesource.AuthOption(ctx)
	if err != nil {
		logger.Error("Google Drive authentication failed", "error", err)
		os.Exit(1)
	}
	reader, err := drivesource.NewReader(ctx, driveFolderID, authOption)
	if err != nil {
		logger.Error("Cannot list Drive folder", "error", err)
		os.Exit(1)
	}
	driver.Run(ctx, reader, nil)
}

func runDocsDir(ctx context.Context, logger *logger_i.Logger, driver *migrate.Driver) {
	reader, err := folder.NewReader(docsDir)
	if err != nil {
		logger.Error("Cannot read documents directory", "error", err)
		os.Exit(1)
	}
	driver.Run(ctx, reader, nil)
}
