package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	_ "medicare/docs"
	"medicare/internal/config"
)

// @title MediCare API
// @version 1.0
// @description Medicine catalog of the MediCare storefront.
// @host localhost:9091
// @BasePath /api/v1
func main() {
	app := &cli.App{
		Name:  "medicare",
		Usage: "online medicine storefront",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "env-file",
				Usage: "dotenv file read before the environment",
				Value: ".env",
			},
		},
		Commands: []*cli.Command{
			serveCommand(),
			importCommand(),
			exportCommand(),
			{
				Name:  "env",
				Usage: "list the supported environment variables",
				Action: func(*cli.Context) error {
					return config.Usage()
				},
			},
		},
		DefaultCommand: "serve",
	}

	if err := app.Run(os.Args); err != nil {
		logrus.WithError(err).Fatal("medicare")
	}
}
