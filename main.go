package main

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/SafeMPC/zklogin-service/cmd/login"
	"github.com/SafeMPC/zklogin-service/cmd/probe"
	"github.com/SafeMPC/zklogin-service/cmd/server"
	"github.com/SafeMPC/zklogin-service/internal/config"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "zklogin-service",
		Short: "zkLogin credential derivation service",
		Run: func(cmd *cobra.Command, _ []string) {
			_ = cmd.Help()
		},
	}

	rootCmd.AddCommand(
		server.New(),
		probe.New(),
		login.New(),
	)

	config.InitLogger(config.DefaultServiceConfigFromEnv().Logger)

	if err := rootCmd.Execute(); err != nil {
		log.Fatal().Err(err).Msg("Failed to execute command")
	}
}
