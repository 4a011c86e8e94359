package main

import (
	"github.com/tenk-lab/backend/pkg/blockchain/eth"
	"github.com/urfave/cli/v2"
)

func (s *srv) startWatcher(*cli.Context) error {
	s.loadConfig()
	s.loadLogger()
	s.loadDatabase()

	ctx := s.newContext()
	s.loadRedisClient(ctx)
	s.loadEthClient(ctx)
	s.loadRepos()
	s.loadDomains()

	watcher := eth.NewSeedWatcher(
		s.configs.Eth, s.ethClient, s.redisClient, s.seedOracleDomain.HandleSeedLog)
	watcher.Start(ctx)

	select {}
}
