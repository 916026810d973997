package config

import (
	"context"
	"fmt"
	"time"

	"food-ordering-api/models"
	"food-ordering-api/repository"

	"github.com/glebarez/sqlite"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	cgosqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenGorm connects a sqlite backend and migrates every model. Slow and
// failed statements go to log; a missing record is an answer, not a failure.
func OpenGorm(driver, source string, log logrus.FieldLogger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case DriverSQLite:
		dialector = sqlite.Open(source)
	case DriverSQLiteCgo:
		dialector = cgosqlite.Open(source)
	default:
		return nil, fmt.Errorf("driver %q is not a gorm backend", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.New(log.WithField("component", "gorm"), logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	// sqlite allows one writer; a single connection queues writes instead of
	// failing them with "database is locked"
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("database handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(models.All()...); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	return db, nil
}

// OpenStore opens the backend named by DB_DRIVER.
func OpenStore(ctx context.Context, cfg *Config, log logrus.FieldLogger) (*repository.Store, error) {
	if cfg.DBDriver == DriverMongo {
		ctx, cancel := context.WithTimeout(ctx, cfg.StoreTimeout)
		defer cancel()

		opts := options.Client().ApplyURI(cfg.MongoURI).SetTimeout(cfg.StoreTimeout)
		client, err := mongo.Connect(ctx, opts)
		if err != nil {
			return nil, fmt.Errorf("connect to mongo: %w", err)
		}
		if err := client.Ping(ctx, nil); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, fmt.Errorf("ping mongo: %w", err)
		}
		store, err := repository.NewMongoStore(ctx, client, cfg.MongoDatabase)
		if err != nil {
			_ = client.Disconnect(context.Background())
			return nil, err
		}
		log.WithField("database", cfg.MongoDatabase).Info("mongo store ready")
		return store, nil
	}

	db, err := OpenGorm(cfg.DBDriver, cfg.DBSource, log)
	if err != nil {
		return nil, err
	}
	log.WithFields(logrus.Fields{"driver": cfg.DBDriver, "source": cfg.DBSource}).Info("database connected and migrated")
	return repository.NewGormStore(db), nil
}
