package main

import (
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/tanmayjain06/videotube/internal/db"
	"github.com/tanmayjain06/videotube/internal/http/middleware"
	"github.com/tanmayjain06/videotube/internal/redis"
)

func main() {
	// .env is optional; real deployments set env vars directly
	_ = godotenv.Load()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("APP_ENV") == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	env := LoadEnvironment()

	if err := db.Init(env.DatabaseURL); err != nil {
		log.Fatal().Err(err).Msg("db init failed")
	}
	if err := db.RunMigrations(env.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("db migrate failed")
	}
	store := db.NewStore(db.DB)

	if env.RedisAddress != "" {
		redis.InitRedis(env.RedisAddress, env.RedisUsername, env.RedisPassword)
	}

	if env.MQTTBrokerURL != "" {
		middleware.SetBrokerURL(env.MQTTBrokerURL)
		if _, err := middleware.CreateMQTTClient("videotube-server"); err != nil {
			// eventing is best effort, the API works without it
			log.Warn().Err(err).Msg("MQTT broker unreachable, publish events disabled")
		}
		defer middleware.CleanupMQTT()
	}

	storageSystem := InitStorage(env)

	if env.Environment != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()

	RegisterRoutes(r, env, store, storageSystem)

	log.Info().Str("address", env.ServerAddress).Msg("listening")
	if err := r.Run(env.ServerAddress); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
}
