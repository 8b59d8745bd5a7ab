package main

import (
	"flag"
	"log"

	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/hassanbadawy/media-downloader/internal/config"
	"github.com/hassanbadawy/media-downloader/internal/server"
	"github.com/hassanbadawy/media-downloader/pkg/db/aws"
	"github.com/hassanbadawy/media-downloader/pkg/db/postgres"
	"github.com/hassanbadawy/media-downloader/pkg/db/redis"
	"github.com/hassanbadawy/media-downloader/pkg/logger"
)

func main() {
	configFile := flag.String("config", "config.yml", "path to config file")
	flag.Parse()

	log.Println("Starting server")
	cfgFile, err := config.LoadConfig(*configFile)
	if err != nil {
		log.Fatalf("loadConfig: %v", err)
	}
	cfg, err := config.ParseConfig(cfgFile)
	if err != nil {
		log.Fatalf("parseConfig: %v", err)
	}

	appLogger := logger.NewApiLogger(cfg)
	appLogger.InitLogger()
	appLogger.Infof("AppVersion: %s, LogLevel: %s, Mode: %s", cfg.Server.AppVersion, cfg.Logger.Level, cfg.Server.Mode)

	psqlDB, err := postgres.NewPsqlDB(cfg)
	if err != nil {
		appLogger.Fatalf("could not connect to db: %s", err)
	}
	defer psqlDB.Close()
	appLogger.Infof("db connected, status: %#v", psqlDB.Stats())

	redisClient, err := redis.NewRedisClient(cfg)
	if err != nil {
		appLogger.Fatalf("could not connect to redis: %s", err)
	}
	defer redisClient.Close()
	appLogger.Infof("redis connected")

	var s3Client *s3.Client
	var presignClient *s3.PresignClient
	if cfg.S3.Enabled {
		s3Client, presignClient, err = aws.NewAWSClient(cfg.S3.Endpoint, cfg.S3.Region, cfg.S3.AccessKey, cfg.S3.SecretKey)
		if err != nil {
			appLogger.Fatalf("could not connect to s3: %s", err)
		}
		appLogger.Infof("s3 archive enabled, bucket: %s", cfg.S3.ArchiveBucket)
	}

	s := server.NewServer(cfg, psqlDB, redisClient, s3Client, presignClient, appLogger)
	if err = s.Run(); err != nil {
		appLogger.Fatalf("could not start server: %s", err)
	}
}
