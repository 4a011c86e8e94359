package main

import (
	"context"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/tenk-lab/backend/config"
	"github.com/tenk-lab/backend/internal/domain"
	"github.com/tenk-lab/backend/internal/repository"
	"github.com/tenk-lab/backend/pkg/blockchain/eth"
	iface "github.com/tenk-lab/backend/pkg/blockchain/interface"
	"github.com/tenk-lab/backend/pkg/kafka"
	"github.com/tenk-lab/backend/pkg/logger"
	"github.com/tenk-lab/backend/pkg/pubsub"
	"github.com/tenk-lab/backend/pkg/xcontext"
	"github.com/tenk-lab/backend/pkg/xredis"
	"github.com/urfave/cli/v2"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

type srv struct {
	app *cli.App

	userRepo         repository.UserRepository
	refreshTokenRepo repository.RefreshTokenRepository
	distributionRepo repository.DistributionRepository
	seedRequestRepo  repository.SeedRequestRepository
	tokenSlotRepo    repository.TokenSlotRepository
	giftRepo         repository.GiftRepository
	claimReceiptRepo repository.ClaimReceiptRepository

	authDomain         domain.AuthDomain
	userDomain         domain.UserDomain
	seedOracleDomain   domain.SeedOracleDomain
	distributionDomain domain.DistributionDomain
	claimDomain        domain.ClaimDomain

	ethClient   eth.EthClient
	ownership   iface.OwnershipRegistry
	payout      iface.PayoutFacility
	coordinator iface.SeedCoordinator

	publisher   pubsub.Publisher
	redisClient xredis.Client

	db     *gorm.DB
	logger logger.Logger

	configs *config.Configs

	server *http.Server
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}

	return fallback
}

func parseDuration(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		panic(err)
	}

	return d
}

func parseInt(s string) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		panic(err)
	}

	return i
}

func (s *srv) loadConfig() {
	s.configs = &config.Configs{
		Env: getEnv("ENV", "local"),
		Database: config.DatabaseConfigs{
			Host:     getEnv("MYSQL_HOST", "mysql"),
			Port:     getEnv("MYSQL_PORT", "3306"),
			User:     getEnv("MYSQL_USER", "tenk"),
			Password: getEnv("MYSQL_PASSWORD", "tenk"),
			Database: getEnv("MYSQL_DATABASE", "tenk"),
		},
		ApiServer: config.ServerConfigs{
			Host: getEnv("HOST", "localhost"),
			Port: getEnv("PORT", "8080"),
			Cert: getEnv("SERVER_CERT", "cert"),
			Key:  getEnv("SERVER_KEY", "key"),
		},
		Auth: config.AuthConfigs{
			TokenSecret: getEnv("TOKEN_SECRET", "token_secret"),
			AccessToken: config.TokenConfigs{
				Name:       "access_token",
				Expiration: parseDuration(getEnv("ACCESS_TOKEN_DURATION", "5m")),
			},
			RefreshToken: config.TokenConfigs{
				Name:       "refresh_token",
				Expiration: parseDuration(getEnv("REFRESH_TOKEN_DURATION", "20m")),
			},
			SuperAdminAddresses: strings.Split(getEnv("SUPER_ADMIN_ADDRESSES", ""), ","),
		},
		Redis: config.RedisConfigs{
			Addr: getEnv("REDIS_ADDRESS", "localhost:6379"),
		},
		Kafka: config.KafkaConfigs{
			Addr:       getEnv("KAFKA_ADDRESS", "localhost:9092"),
			ClaimTopic: getEnv("KAFKA_CLAIM_TOPIC", "claim_events"),
		},
		Eth: config.EthConfigs{
			Chain:              s.loadChainConfig(),
			SecretKey:          getEnv("ETH_SECRET_KEY", "secret"),
			CollectionAddress:  getEnv("COLLECTION_ADDRESS", ""),
			PayoutTokenAddress: getEnv("PAYOUT_TOKEN_ADDRESS", ""),
			CoordinatorAddress: getEnv("COORDINATOR_ADDRESS", ""),
			WatcherInterval:    parseDuration(getEnv("WATCHER_INTERVAL", "15s")),
		},
		Distribution: config.DistributionConfigs{
			TotalTokens:   parseInt(getEnv("TOTAL_TOKENS", "10000")),
			ClaimDuration: parseDuration(getEnv("CLAIM_DURATION", "720h")),
		},
	}
}

func (s *srv) loadChainConfig() config.ChainConfig {
	var chain config.ChainConfig
	if _, err := toml.DecodeFile(getEnv("CHAIN_CONFIG", "./chain.toml"), &chain); err != nil {
		panic(err)
	}

	return chain
}

func (s *srv) loadLogger() {
	level := logger.INFO
	if s.configs.Env == "local" {
		level = logger.DEBUG
	}

	s.logger = logger.NewLogger(level)
}

func (s *srv) newContext() context.Context {
	ctx := context.Background()
	ctx = xcontext.WithConfigs(ctx, *s.configs)
	ctx = xcontext.WithLogger(ctx, s.logger)
	if s.db != nil {
		ctx = xcontext.WithDB(ctx, s.db)
	}

	return ctx
}

func (s *srv) loadDatabase() {
	var err error
	s.db, err = gorm.Open(mysql.New(mysql.Config{
		DSN:                       s.configs.Database.ConnectionString(),
		DefaultStringSize:         256,
		DisableDatetimePrecision:  true,
		DontSupportRenameIndex:    true,
		DontSupportRenameColumn:   true,
		SkipInitializeWithVersion: false,
	}), &gorm.Config{})
	if err != nil {
		panic(err)
	}
}

func (s *srv) loadRedisClient(ctx context.Context) {
	var err error
	s.redisClient, err = xredis.NewClient(ctx)
	if err != nil {
		panic(err)
	}
}

func (s *srv) loadPublisher() {
	var err error
	s.publisher, err = kafka.NewPublisher("tenk-api", []string{s.configs.Kafka.Addr})
	if err != nil {
		panic(err)
	}
}

func (s *srv) loadEthClient(ctx context.Context) {
	s.ethClient = eth.NewEthClients(s.configs.Eth.Chain, true)
	s.ethClient.Start(ctx)

	s.ownership = eth.NewOwnershipRegistry(s.ethClient, s.configs.Eth)
	s.payout = eth.NewPayoutFacility(s.ethClient, s.configs.Eth)
	s.coordinator = eth.NewSeedCoordinator(s.ethClient, s.configs.Eth)
}

func (s *srv) loadRepos() {
	s.userRepo = repository.NewUserRepository()
	s.refreshTokenRepo = repository.NewRefreshTokenRepository()
	s.distributionRepo = repository.NewDistributionRepository()
	s.seedRequestRepo = repository.NewSeedRequestRepository()
	s.tokenSlotRepo = repository.NewTokenSlotRepository()
	s.giftRepo = repository.NewGiftRepository()
	s.claimReceiptRepo = repository.NewClaimReceiptRepository()
}

func (s *srv) loadDomains() {
	s.authDomain = domain.NewAuthDomain(s.userRepo, s.refreshTokenRepo, s.redisClient)
	s.userDomain = domain.NewUserDomain(s.userRepo)
	s.seedOracleDomain = domain.NewSeedOracleDomain(
		s.distributionRepo, s.seedRequestRepo, s.userRepo, s.coordinator)
	s.distributionDomain = domain.NewDistributionDomain(
		s.distributionRepo, s.seedRequestRepo, s.tokenSlotRepo, s.giftRepo, s.userRepo)
	s.claimDomain = domain.NewClaimDomain(
		s.distributionRepo, s.giftRepo, s.claimReceiptRepo, s.userRepo,
		s.ownership, s.payout, s.publisher)
}
