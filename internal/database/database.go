package database

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"herdview/config"
	logg "herdview/internal/logger"

	"github.com/valkey-io/valkey-go"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type CacheClient valkey.Client

type Cache struct {
	General     CacheClient
	Session     CacheClient
	Collections CacheClient
	Events      CacheClient
}

type DB struct {
	SQL   *gorm.DB
	Cache Cache
	log   logg.Logger
}

func New(config config.Config) (DB, error) {
	log := logg.New("database").Function("New")

	log.Info("Initializing database")
	db := &DB{log: log}

	err := db.initializeDB(config)
	if err != nil {
		return DB{}, log.Err("failed to initialize database", err)
	}

	err = db.initializeCacheDB(config)
	if err != nil {
		return DB{}, log.Err("failed to initialize cache database", err)
	}

	return *db, nil
}

func (s *DB) initializeDB(config config.Config) error {
	gormLogger := logger.New(
		slog.NewLogLogger(slog.Default().Handler(), slog.LevelInfo),
		logger.Config{
			SlowThreshold:             1 * time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			ParameterizedQueries:      false,
			Colorful:                  false,
		},
	)

	gormConfig := &gorm.Config{
		Logger:      gormLogger,
		PrepareStmt: true,
	}

	return s.initializeSQLiteDB(gormConfig, config)
}

func (s *DB) initializeSQLiteDB(gormConfig *gorm.Config, config config.Config) error {
	log := s.log.Function("initializeSQLiteDB")

	dbPath := config.DatabaseDbPath
	if dbPath == "" {
		return log.Error("database path is empty", "dbPath", dbPath)
	}

	if dbPath != ":memory:" {
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return log.Err("failed to create database directory", err, "dir", dir)
		}
	}

	db, err := gorm.Open(sqlite.Open(dbPath), gormConfig)
	if err != nil {
		return log.Err("failed to open database with GORM", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return log.Err("failed to get database from GORM", err)
	}

	if err := sqlDB.Ping(); err != nil {
		return log.Err("failed to ping database through GORM", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	s.SQL = db

	return nil
}

// One logical valkey database per concern keeps flushes and key scans
// scoped.
const (
	cacheDBGeneral     = 0
	cacheDBSession     = 1
	cacheDBCollections = 2
	cacheDBEvents      = 3
)

func (s *DB) initializeCacheDB(config config.Config) error {
	log := s.log.Function("initializeCacheDB")

	address := fmt.Sprintf("%s:%d", config.DatabaseCacheAddress, config.DatabaseCachePort)

	clients := []struct {
		target   *CacheClient
		selectDB int
		name     string
	}{
		{&s.Cache.General, cacheDBGeneral, "General"},
		{&s.Cache.Session, cacheDBSession, "Session"},
		{&s.Cache.Collections, cacheDBCollections, "Collections"},
		{&s.Cache.Events, cacheDBEvents, "Events"},
	}

	for _, c := range clients {
		client, err := valkey.NewClient(valkey.ClientOption{
			InitAddress: []string{address},
			SelectDB:    c.selectDB,
		})
		if err != nil {
			return log.Err("failed to create cache client", err, "cache", c.name, "address", address)
		}
		*c.target = client
	}

	log.Info("Connected to cache", "address", address)
	return nil
}

func (s *DB) Close() (err error) {
	if s.SQL != nil {
		sqlDB, sqlErr := s.SQL.DB()
		if sqlErr == nil {
			if closeErr := sqlDB.Close(); closeErr != nil {
				_ = s.log.Err("failed to close database", closeErr)
			}
		}
	}

	for _, client := range []CacheClient{
		s.Cache.General,
		s.Cache.Session,
		s.Cache.Collections,
		s.Cache.Events,
	} {
		if client != nil {
			client.Close()
		}
	}

	return
}

func (s *DB) SQLWithContext(ctx context.Context) *gorm.DB {
	return s.SQL.WithContext(ctx)
}

func (s *DB) FlushAllCaches() error {
	log := s.log.Function("FlushAllCaches")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cacheClients := []struct {
		client CacheClient
		name   string
	}{
		{s.Cache.General, "General"},
		{s.Cache.Session, "Session"},
		{s.Cache.Collections, "Collections"},
		{s.Cache.Events, "Events"},
	}

	for _, cache := range cacheClients {
		if cache.client != nil {
			if err := cache.client.Do(ctx, cache.client.B().Flushdb().Build()).Error(); err != nil {
				return log.Err("failed to flush cache database", err, "cache", cache.name)
			}
		}
	}

	return nil
}
