package main

import (
	"context"
	"flag"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/isp/backend/internal/infrastructure/config"
	csvimport "github.com/isp/backend/internal/infrastructure/import"
	"github.com/isp/backend/internal/infrastructure/logger"
	"github.com/isp/backend/internal/infrastructure/migration"
	"github.com/isp/backend/internal/infrastructure/osm"
	"github.com/isp/backend/internal/infrastructure/persistence"
	"github.com/isp/backend/internal/infrastructure/seed"
	"go.uber.org/zap"
)

func main() {
	var (
		fixturePath string
		osmNames    string
		surveyPath  string
		dryRun      bool
		migrateUp   bool
	)
	flag.StringVar(&fixturePath, "file", "", "YAML fixture with neighborhoods, poles and the plan catalog")
	flag.StringVar(&osmNames, "osm", "", "Comma separated neighborhood names whose poles are imported from OpenStreetMap")
	flag.StringVar(&surveyPath, "poles-csv", "", "CSV pole survey with columns codigo,barrio,lat,lng[,capacidad,notas]")
	flag.BoolVar(&dryRun, "dry-run", false, "Validate the pole survey without writing it")
	flag.BoolVar(&migrateUp, "migrate", false, "Apply pending migrations before seeding")
	flag.Parse()

	if fixturePath == "" && osmNames == "" && surveyPath == "" && !migrateUp {
		fmt.Fprintln(os.Stderr, "usage: seed [-migrate] [-file seeds/la_paz.yaml] [-poles-csv survey.csv [-dry-run]] [-osm \"Sopocachi,Miraflores\"]")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: "console",
		Output: "stdout",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = log.Sync()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, log, "warn")
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		_ = db.Close()
	}()

	if migrateUp {
		sqlDB, err := db.DB.DB()
		if err != nil {
			log.Fatal("Failed to get sql.DB", zap.Error(err))
		}
		m, err := migration.New(sqlDB, log)
		if err != nil {
			log.Fatal("Failed to create migrator", zap.Error(err))
		}
		// Closing the migrator would close the shared pool
		if err := m.Up(); err != nil {
			log.Fatal("Migration up failed", zap.Error(err))
		}
	}

	neighborhoodRepo := persistence.NewGormNeighborhoodRepository(db.DB)
	poleRepo := persistence.NewGormPoleRepository(db.DB)

	if fixturePath != "" {
		fx, err := seed.LoadFile(fixturePath)
		if err != nil {
			log.Fatal("Failed to load fixture", zap.String("file", fixturePath), zap.Error(err))
		}
		seeder := seed.NewSeeder(seed.Repositories{
			Neighborhoods:   neighborhoodRepo,
			Poles:           poleRepo,
			PaymentMethods:  persistence.NewGormPaymentMethodRepository(db.DB),
			ConnectionTypes: persistence.NewGormConnectionTypeRepository(db.DB),
			Plans:           persistence.NewGormPlanRepository(db.DB),
		}, log)
		report, err := seeder.Apply(ctx, fx)
		if err != nil {
			log.Fatal("Seeding failed", zap.Error(err))
		}
		log.Info("Fixture applied",
			zap.String("file", fixturePath),
			zap.Int("neighborhoods", report.NeighborhoodsCreated),
			zap.Int("poles", report.PolesCreated),
			zap.Int("payment_methods", report.PaymentMethodsCreated),
			zap.Int("connection_types", report.ConnectionTypesCreated),
			zap.Int("plans", report.PlansCreated),
		)
	}

	if surveyPath != "" {
		if err := importSurvey(ctx, csvimport.NewPoleImporter(neighborhoodRepo, poleRepo, log), surveyPath, dryRun, log); err != nil {
			log.Fatal("Pole survey import failed", zap.String("file", surveyPath), zap.Error(err))
		}
	}

	if osmNames == "" {
		return
	}

	importer := osm.NewImporter(
		osm.NewClient(cfg.OSM.OverpassURL, cfg.OSM.Timeout),
		cfg.OSM,
		neighborhoodRepo,
		poleRepo,
		log,
	)
	failed := 0
	for _, name := range strings.Split(osmNames, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, err := importer.ImportByName(ctx, name); err != nil {
			log.Error("OSM import failed", zap.String("neighborhood", name), zap.Error(err))
			failed++
		}
	}
	if failed > 0 {
		os.Exit(1)
	}
}

func importSurvey(ctx context.Context, importer *csvimport.PoleImporter, path string, dryRun bool, log *zap.Logger) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	report, err := importer.Import(ctx, f, dryRun)
	if err != nil {
		return err
	}
	if report.Errors.HasErrors() {
		fmt.Fprint(os.Stderr, report.Errors.String())
		return errors.New("survey rejected, no poles were written")
	}
	log.Info("Pole survey checked",
		zap.Bool("dry_run", dryRun),
		zap.Int("rows", report.Rows),
		zap.Int("created", report.Created),
		zap.Int("skipped", report.Skipped),
		zap.String("encoding", report.Encoding))
	return nil
}
