package main

import (
	"context"
	"flag"
	"os"

	"glyco/defs"
	"glyco/pkg/http"
	"glyco/pkg/mg"
	"glyco/pkg/report"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

var configFile string

func init() {
	flag.StringVar(&configFile, "f", "config.yaml", "config file")
	flag.Parse()
}

func main() {
	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	// Fields missing from the file keep these defaults.
	config := defs.Config{
		Glucose:   defs.DefaultThresholds,
		Analytics: defs.DefaultAnalytics,
		HTTP:      defs.HTTPConfig{Address: defs.DefaultAddress, CacheSize: defs.DefaultCacheSize},
		Logger:    logger,
	}

	file, err := os.ReadFile(configFile)
	if err != nil {
		panic(err)
	}

	if err = yaml.Unmarshal(file, &config); err != nil {
		panic(err)
	}
	if err = config.Validate(); err != nil {
		panic(err)
	}

	logger.Debug("loaded config file", zap.Any("config file", config))

	loc, err := config.Location()
	if err != nil {
		panic(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), defs.TimeoutInterval)
	defer cancel()

	store, err := mg.New(ctx, config.Mongo, logger)
	if err != nil {
		logger.Fatal("unable to connect to mongo", zap.Error(err))
	}
	defer store.Close(context.Background())

	cache, err := report.NewCache(logger, config.HTTP.CacheSize)
	if err != nil {
		logger.Fatal("unable to create report cache", zap.Error(err))
	}

	server, err := http.New(store, cache, config, loc)
	if err != nil {
		logger.Fatal("unable to create server", zap.Error(err))
	}
	if err := server.Run(config.HTTP.Address); err != nil {
		logger.Error("server stopped", zap.Error(err))
	}
}
