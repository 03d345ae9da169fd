package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	_ "time/tzdata"

	"github.com/Aymix/whitecart/config"
	"github.com/Aymix/whitecart/internal/app"
	"github.com/Aymix/whitecart/internal/infrastructure/cache/redis"
	"github.com/Aymix/whitecart/internal/infrastructure/database/mongodb"
	"github.com/Aymix/whitecart/internal/infrastructure/search/elasticsearch"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

	config := config.CreateNewConfig()
	if config.JWTConfig.Secret == "" {
		log.Fatal().Msg("JWT_SECRET must be set")
	}

	ctx := context.Background()

	db, err := mongodb.ConnectToMongoDB(ctx, config.MongoDBConfig.URI, config.MongoDBConfig.DBName)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to the database")
	}
	defer db.Client().Disconnect(context.Background())

	if err = mongodb.EnsureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("Failed to create indexes")
	}

	redisClient := redis.CreateRedisClient(config)
	if redisClient != nil {
		defer redisClient.Close()
	}

	server := app.App{
		DB:     db,
		Redis:  redisClient,
		Search: elasticsearch.CreateElasticsearchClient(config),
		Config: config,
	}

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit

		if err := server.StopServer(); err != nil {
			log.Error().Err(err).Msg("Failed to stop server cleanly")
		}
	}()

	server.Start()
	<-stopped
}
