package testutil

import (
	"context"
	"time"

	"github.com/tenk-lab/backend/config"
	"github.com/tenk-lab/backend/migration"
	"github.com/tenk-lab/backend/pkg/authenticator"
	"github.com/tenk-lab/backend/pkg/logger"
	"github.com/tenk-lab/backend/pkg/xcontext"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func MockContext() context.Context {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		panic(err)
	}

	cfg := config.Configs{
		Auth: config.AuthConfigs{
			TokenSecret: "secret",
			AccessToken: config.TokenConfigs{
				Name:       "access_token",
				Expiration: time.Minute,
			},
			RefreshToken: config.TokenConfigs{
				Name:       "refresh_token",
				Expiration: time.Minute,
			},
		},
		Kafka: config.KafkaConfigs{
			ClaimTopic: "claim_events",
		},
		Distribution: config.DistributionConfigs{
			// Small enough to keep pipeline tests fast, large enough to
			// cover every prize tier boundary below the third one.
			TotalTokens:   200,
			ClaimDuration: time.Hour,
		},
	}

	ctx := context.Background()
	ctx = xcontext.WithConfigs(ctx, cfg)
	ctx = xcontext.WithLogger(ctx, logger.NewLogger(logger.SILENCE))
	ctx = xcontext.WithTokenEngine(ctx, authenticator.NewTokenEngine(cfg.Auth.TokenSecret))
	ctx = xcontext.WithDB(ctx, db)

	if err := migration.AutoMigrate(ctx); err != nil {
		panic(err)
	}

	return ctx
}

func MockContextWithUserID(userID string) context.Context {
	return xcontext.WithRequestUserID(MockContext(), userID)
}
