package main

import "github.com/urfave/cli/v2"

// NewApp creates an app with sane defaults.
func (s *srv) loadApp() {
	app := cli.NewApp()
	app.Action = cli.ShowAppHelp
	app.Name = "Tenk"
	app.Usage = ""
	app.Commands = []*cli.Command{
		{
			Action:      server.startApi,
			Name:        "api",
			Usage:       "Start service api",
			Flags:       []cli.Flag{},
			Category:    "Api",
			Description: `Used for start service api, the main service included all apis.`,
		},
		{
			Action:      server.startWatcher,
			Name:        "watcher",
			Usage:       "Start the seed watcher",
			Flags:       []cli.Flag{},
			Category:    "Worker",
			Description: `Used to start the worker that watches the chain for seed fulfillments.`,
		},
		{
			Action:      server.startMigrate,
			Name:        "migrate",
			Usage:       "Migrate the database schema",
			Flags:       []cli.Flag{},
			Category:    "Database",
			Description: `Used to bring the database schema up to the latest version.`,
		},
	}

	s.app = app
}
