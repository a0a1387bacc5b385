// Package serve implements the serve command.
package serve

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/weathercloset/weathercloset/internal/api"
	"github.com/weathercloset/weathercloset/internal/buildinfo"
	"github.com/weathercloset/weathercloset/internal/classifier"
	"github.com/weathercloset/weathercloset/internal/closet"
	"github.com/weathercloset/weathercloset/internal/conf"
	"github.com/weathercloset/weathercloset/internal/datastore"
	"github.com/weathercloset/weathercloset/internal/httpclient"
	"github.com/weathercloset/weathercloset/internal/imagestore"
	"github.com/weathercloset/weathercloset/internal/logger"
	"github.com/weathercloset/weathercloset/internal/observability"
	"github.com/weathercloset/weathercloset/internal/security"
	"github.com/weathercloset/weathercloset/internal/telemetry"
	"github.com/weathercloset/weathercloset/internal/weather"
)

const telemetryFlushTimeout = 2 * time.Second

// Command creates the serve command.
func Command(info *buildinfo.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Long:  "Start the Weather Closet API and web pages.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(ctx, conf.GetSettings(), info)
		},
	}

	cmd.Flags().String("host", "", "Address to listen on")
	cmd.Flags().String("port", "", "Port to listen on")
	for key, flag := range map[string]string{"webserver.host": "host", "webserver.port": "port"} {
		if err := viper.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
			panic(fmt.Sprintf("error binding %s flag: %v", flag, err))
		}
	}

	return cmd
}

func run(ctx context.Context, settings *conf.Settings, info *buildinfo.Context) error {
	log := logger.Global().Module("serve")
	log.Info("starting weathercloset", logger.String("version", info.GetVersion()))

	if _, err := telemetry.Init(settings.Telemetry, info.GetVersion(), nil); err != nil {
		log.Warn("telemetry not started", logger.Error(err))
	}
	defer telemetry.Flush(telemetryFlushTimeout)

	m, err := observability.NewMetrics()
	if err != nil {
		return fmt.Errorf("error creating metrics: %w", err)
	}

	store, err := datastore.Open(ctx, settings.Database, m.Datastore)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Warn("failed to close database", logger.Error(err))
		}
	}()

	images, err := imagestore.New(ctx, settings.Storage)
	if err != nil {
		return err
	}

	tokens, err := security.NewTokenService(settings.Security)
	if err != nil {
		return err
	}

	client := httpclient.New(&httpclient.Config{DefaultTimeout: settings.Weather.Timeout})
	defer client.Close()
	weather.InstrumentClient(client, m.Weather)
	provider, err := weather.NewProvider("", settings.Weather, client)
	if err != nil {
		return err
	}
	weatherService, err := weather.NewService(settings.Weather, provider, m.Weather)
	if err != nil {
		return err
	}

	cls := classifier.FromSettings(settings.Classifier, m.Classifier)
	tagger := closet.NewTagger(cls, store.Tags(), m.Closet)
	recommender := closet.NewRecommender(weatherService, cls, store.Items(), m.Closet)
	closetService := closet.NewService(store.Items(), images, tagger, recommender, m.Closet)

	server, err := api.New(settings,
		api.WithUsers(store.Users()),
		api.WithTokens(tokens),
		api.WithCloset(closetService),
		api.WithMetrics(m),
		api.WithHealthChecker(store))
	if err != nil {
		return err
	}

	return server.Run(ctx)
}
