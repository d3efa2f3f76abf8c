package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli"

	"algotrader/cmd/dashboard"
	"algotrader/src/database"
	"algotrader/src/server"
)

var Version string

func main() {
	if err := godotenv.Load(); err != nil {
		logrus.Debug("no .env file found, using process environment")
	}

	app := cli.NewApp()
	app.Name = "AlgoTrader CMD"
	app.Usage = "The AlgoTrader command line interface"
	app.Version = Version

	app.Commands = []cli.Command{
		serverCMD,
		dashboardCMD,
	}

	if err := app.Run(os.Args); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var (
	serverCMD = cli.Command{
		Name:        "server",
		Usage:       "run the backend proxy server",
		Action:      serverAction,
		ArgsUsage:   "",
		Flags:       []cli.Flag{},
		Description: `Run the DhanHQ/Upstox proxy server`,
	}
	dashboardCMD = cli.Command{
		Name:        "dashboard",
		Usage:       "run the dashboard state layer",
		Action:      dashboardAction,
		ArgsUsage:   "",
		Flags:       []cli.Flag{},
		Description: `Run the dashboard stores and pollers`,
	}
)

func serverAction(_ *cli.Context) error {
	logrus.Info("Starting proxy server CMD")

	if err := database.InitMainDB(); err != nil {
		logrus.WithError(err).Fatal("Failed to connect to database")
	}

	server.StartServer(server.GetConfig().Port)
	return nil
}

func dashboardAction(_ *cli.Context) error {
	logrus.Info("Starting dashboard CMD")

	// Repositories capture the DB handle at construction, so connect first.
	if err := database.InitMainDB(); err != nil {
		logrus.WithError(err).Fatal("Failed to connect to database")
	}

	d := dashboard.New()
	if err := d.Start(); err != nil {
		logrus.WithError(err).Error("Starting cmd")
		return err
	}

	return nil
}
