package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"weather-history/config"
	"weather-history/internal/api"
	"weather-history/internal/collector"
	"weather-history/internal/geo"
	"weather-history/internal/logger"
	"weather-history/internal/mqtt"
	"weather-history/internal/session"
	"weather-history/internal/storage"
	"weather-history/internal/weather"
)

var (
	configFile string
	verbose    bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "weather-history",
		Short:         "OpenWeather history search",
		Long:          "Resolve a city to coordinates and collect its hourly weather history for the previous days",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(searchCmd())
	rootCmd.AddCommand(fetchCmd())
	rootCmd.AddCommand(coordsCmd())
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(searchesCmd())

	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, geo.ErrInvalidCoordinate) {
			log.WithError(err).Error("Search aborted")
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	level := cfg.Log.Level
	if verbose {
		level = "debug"
	}
	logger.Setup(level, cfg.Log.Format, nil)
	return cfg, nil
}

func newResolver(cfg *config.Config) (*geo.Resolver, error) {
	parser, err := geo.NewParser(cfg.Geonames.Parser)
	if err != nil {
		return nil, err
	}
	return geo.NewResolver(cfg.Geonames.BaseURL, parser, cfg.Geonames.Timeout), nil
}

// newCollector wires the resolver, the OpenWeather fetcher and the optional
// archive and MQTT sinks.
func newCollector(cfg *config.Config, outputDir string, exportCSV bool) (*collector.Collector, *storage.Database, error) {
	if err := cfg.RequireAPIKey(); err != nil {
		return nil, nil, err
	}

	resolver, err := newResolver(cfg)
	if err != nil {
		return nil, nil, err
	}

	client := weather.NewOpenWeatherClient(cfg.Weather.APIKey, cfg.Weather.BaseURL, cfg.Weather.Units, cfg.Weather.Timeout)
	aggregator := weather.NewAggregator(client, cfg.Weather.MaxDays)

	var db *storage.Database
	if cfg.Database.Enabled {
		db, err = storage.NewDatabase(cfg.Database.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open database: %w", err)
		}
		log.WithField("path", cfg.Database.Path).Debug("Database opened")
	}

	publisher, err := mqtt.NewPublisher(mqtt.PublisherConfig{
		Broker:      cfg.MQTT.Broker,
		ClientID:    cfg.MQTT.ClientID,
		Username:    cfg.MQTT.Username,
		Password:    cfg.MQTT.Password,
		TopicPrefix: cfg.MQTT.TopicPrefix,
		Enabled:     cfg.MQTT.Enabled,
	})
	if err != nil {
		log.WithError(err).Warn("MQTT connection failed")
	} else if cfg.MQTT.Enabled {
		log.WithField("broker", cfg.MQTT.Broker).Info("MQTT connected")
		if err := publisher.PublishHomeAssistantDiscovery(); err != nil {
			log.WithError(err).Warn("Home Assistant discovery failed")
		}
	}

	coll := collector.NewCollector(collector.CollectorConfig{
		Resolver:   resolver,
		Aggregator: aggregator,
		Database:   db,
		Publisher:  publisher,
		OutputDir:  outputDir,
		ExportCSV:  exportCSV,
	})
	return coll, db, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

func searchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search",
		Short: "Interactive history search",
		Long:  "Prompt for a city and a look-back window, then write the hourly history to a CSV file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			coll, _, err := newCollector(cfg, cfg.Output.Dir, true)
			if err != nil {
				return err
			}
			defer coll.Stop()

			ctx, cancel := signalContext()
			defer cancel()

			return session.New(coll, cmd.InOrStdin(), cmd.OutOrStdout()).Run(ctx)
		},
	}
}

func fetchCmd() *cobra.Command {
	var (
		location string
		days     int
		output   string
	)

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch the history of one location",
		Long:  "Resolve a location and write its hourly history for the previous days to a CSV file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if output == "" {
				output = cfg.Output.Dir
			}

			coll, _, err := newCollector(cfg, output, true)
			if err != nil {
				return err
			}
			defer coll.Stop()

			ctx, cancel := signalContext()
			defer cancel()

			result, err := coll.Search(ctx, location, days)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, offset := range result.FailedOffsets {
				fmt.Fprintf(out, "scratch weather data for previous %d day(s) failed.\n", offset)
			}
			fmt.Fprintf(out, "Process completed. %d rows from %d/%d days written to %s\n",
				result.Table.Len(), result.FetchedDays(), result.Days, result.File)
			return nil
		},
	}

	cmd.Flags().StringVarP(&location, "location", "l", "", "location as \"city, country\"")
	cmd.Flags().IntVarP(&days, "days", "d", 1, "number of previous days")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output directory (default from config)")
	_ = cmd.MarkFlagRequired("location")

	return cmd
}

func coordsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "coords <city, country>",
		Short: "Resolve a location to coordinates",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			resolver, err := newResolver(cfg)
			if err != nil {
				return err
			}

			ctx, cancel := signalContext()
			defer cancel()

			location := strings.Join(args, " ")
			coord, err := resolver.Resolve(ctx, location)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", location, coord)
			return nil
		},
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Long:  "Serve coordinate lookups, history searches and the search archive over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if !cfg.API.Enabled {
				return errors.New("api is disabled in config")
			}

			coll, db, err := newCollector(cfg, cfg.Output.Dir, false)
			if err != nil {
				return err
			}

			serverCfg := api.ServerConfig{
				Port:     cfg.API.Port,
				Searcher: coll,
			}
			if db != nil {
				serverCfg.Archive = db
			}
			server := api.NewServer(serverCfg)

			ctx, cancel := signalContext()
			defer cancel()

			go func() {
				if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.WithError(err).Error("API server error")
					cancel()
				}
			}()

			log.Info("Weather history API started. Press Ctrl+C to stop.")

			<-ctx.Done()
			log.Info("Shutting down...")

			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutdownCancel()
			if err := server.Stop(shutdownCtx); err != nil {
				log.WithError(err).Warn("API shutdown failed")
			}
			coll.Stop()

			return nil
		},
	}
}

func searchesCmd() *cobra.Command {
	var (
		limit int
		prune time.Duration
	)

	cmd := &cobra.Command{
		Use:   "searches",
		Short: "List archived searches",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if !cfg.Database.Enabled {
				return errors.New("database is disabled in config")
			}

			db, err := storage.NewDatabase(cfg.Database.Path)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer db.Close()

			if prune > 0 {
				if err := db.CleanOldSearches(prune); err != nil {
					return fmt.Errorf("failed to prune searches: %w", err)
				}
			}

			searches, err := db.GetSearches(limit)
			if err != nil {
				return err
			}

			output, _ := json.MarshalIndent(searches, "", "  ")
			fmt.Fprintln(cmd.OutOrStdout(), string(output))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of searches to list")
	cmd.Flags().DurationVar(&prune, "prune", 0, "delete searches older than this before listing")

	return cmd
}
