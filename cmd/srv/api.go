package main

import (
	"fmt"
	"net/http"

	"github.com/tenk-lab/backend/internal/middleware"
	"github.com/tenk-lab/backend/pkg/prometheus"
	"github.com/tenk-lab/backend/pkg/router"
	"github.com/urfave/cli/v2"
)

func (s *srv) startApi(*cli.Context) error {
	s.loadConfig()
	s.loadLogger()
	s.loadDatabase()

	ctx := s.newContext()
	s.loadRedisClient(ctx)
	s.loadPublisher()
	s.loadEthClient(ctx)
	s.loadRepos()
	s.loadDomains()

	root := s.loadRouter()

	s.logger.Infof("Starting api server on port %s", s.configs.ApiServer.Port)
	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%s", s.configs.ApiServer.Port),
		Handler: root.Handler(),
	}

	if err := s.server.ListenAndServe(); err != nil {
		panic(err)
	}

	return nil
}

func (s *srv) loadRouter() *router.Router {
	root := router.New(s.db, *s.configs, s.logger)
	root.Before(middleware.WithStartTime())
	root.AddCloser(middleware.Logger())
	root.AddCloser(middleware.Prometheus())
	root.Handle("/metrics", prometheus.NewHandler())

	// Public routes.
	onlyGuest := root.Branch()
	router.POST(onlyGuest, "/loginWallet", s.authDomain.WalletLogin)
	router.POST(onlyGuest, "/verifyWallet", s.authDomain.WalletVerify)
	router.POST(onlyGuest, "/refreshToken", s.authDomain.Refresh)
	router.GET(onlyGuest, "/getDistribution", s.distributionDomain.GetDistribution)
	router.GET(onlyGuest, "/getGift", s.claimDomain.GetGift)
	router.GET(onlyGuest, "/getPrize", s.claimDomain.GetPrize)
	router.POST(onlyGuest, "/fulfillSeed", s.seedOracleDomain.FulfillSeed)

	// Authenticated routes.
	onlyTokenAuth := root.Branch()
	authVerifier := middleware.NewAuthVerifier().WithAccessToken()
	onlyTokenAuth.Before(authVerifier.Middleware())
	router.GET(onlyTokenAuth, "/getMe", s.userDomain.GetMe)
	router.GET(onlyTokenAuth, "/getMyReceipts", s.claimDomain.GetMyReceipts)
	router.POST(onlyTokenAuth, "/claimGift", s.claimDomain.Claim)

	// Admin routes.
	onlyAdmin := root.Branch()
	onlyAdmin.Before(authVerifier.Middleware())
	onlyAdmin.Before(middleware.NewOnlyAdmin(s.userRepo).Middleware())
	router.POST(onlyAdmin, "/requestSeed", s.seedOracleDomain.RequestSeed)
	router.POST(onlyAdmin, "/initializeTokens", s.distributionDomain.InitializeTokens)
	router.POST(onlyAdmin, "/shuffleTokens", s.distributionDomain.ShuffleTokens)
	router.POST(onlyAdmin, "/assignTiers", s.distributionDomain.AssignTiers)
	router.POST(onlyAdmin, "/setClaimWindow", s.distributionDomain.SetClaimWindow)
	router.POST(onlyAdmin, "/setPayoutAddress", s.distributionDomain.SetPayoutAddress)

	return root
}
