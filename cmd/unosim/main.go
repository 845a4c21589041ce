package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	cmdcommon "github.com/nrawrx3/unosim/cmd"
	"github.com/nrawrx3/unosim/console"
	"github.com/nrawrx3/unosim/internal/utils"
	"github.com/nrawrx3/unosim/server"
	"github.com/sirupsen/logrus"
)

func main() {
	var configFile string
	flag.StringVar(&configFile, "conf", ".env", "Dotenv config file")
	flag.Parse()

	envConfig, err := cmdcommon.LoadEnvConfig(configFile)
	if err != nil {
		logrus.Fatal(err)
	}

	logger, err := utils.NewLogger(envConfig.LogLevel)
	if err != nil {
		logrus.Fatal(err)
	}
	// The REPL owns the terminal, so logs go to a file while it runs.
	if envConfig.LogFile || envConfig.RunREPL {
		fileLogger, err := utils.CreateFileLogger(false, "unosim")
		if err != nil {
			logger.Fatal(err)
		}
		fileLogger.SetLevel(logger.GetLevel())
		logger = fileLogger
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serverDone := make(chan error, 1)
	if envConfig.RunServer {
		config := &server.ConfigNewServer{MaxConns: envConfig.MaxConns, Logger: logger}
		config.ListenAddr.SetHostPort(envConfig.ListenAddr, envConfig.ListenPort)
		s := server.NewServer(config)
		go func() {
			serverDone <- s.RunServer(ctx)
		}()
	} else {
		close(serverDone)
	}

	if envConfig.RunREPL {
		c := console.NewConsole(&console.ConfigNewConsole{
			Out:       os.Stdout,
			Logger:    logger,
			ServerURL: envConfig.ServerURL,
		})
		if err := c.RunREPL(ctx); err != nil {
			logger.Error(err)
		}
		stop()
	}

	if err := <-serverDone; err != nil {
		logger.WithError(err).Fatal("server stopped")
	}
}
