package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/Alturino/lairai/internal/constants"
	"github.com/Alturino/lairai/internal/log"
)

func Start() {
	logger := zerolog.New(os.Stderr).
		Level(zerolog.InfoLevel).
		With().
		Timestamp().
		Str(log.KeyAppName, constants.APP_NAME).
		Str(log.KeyTag, "main Start").
		Logger()

	logger.Info().Msg("adding listener for SIGINT and SIGTERM")
	c, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	logger.Info().Msg("added listener for SIGINT and SIGTERM")

	c = logger.WithContext(c)

	var configName string
	rootCmd := &cobra.Command{
		Use:           constants.APP_NAME,
		Short:         "Front-of-house gateway and operator tools for the restaurant backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&configName, "config", constants.APP_NAME, "config name under ./env")

	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the front-of-house gateway",
			Run: func(cmd *cobra.Command, args []string) {
				runGateway(cmd.Context(), configName)
			},
		},
		newTablesCommand(&configName),
		newMenuCommand(&configName),
		newOrdersCommand(&configName),
		newPaymentsCommand(&configName),
		newRevenueCommand(&configName),
		newSettleCommand(&configName),
	)
	if err := rootCmd.ExecuteContext(c); err != nil {
		logger.Fatal().Err(err).Msgf("error when executing command=%s", err.Error())
	}
}
