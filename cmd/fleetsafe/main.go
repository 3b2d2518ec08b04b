package main

import (
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	_ "modernc.org/sqlite"

	"fleet-safety-service/internal/adapters/battery"
	"fleet-safety-service/internal/adapters/cache"
	"fleet-safety-service/internal/adapters/maps"
	"fleet-safety-service/internal/adapters/stores"
	"fleet-safety-service/internal/adapters/weather"
	"fleet-safety-service/internal/api"
	"fleet-safety-service/internal/config"
	"fleet-safety-service/internal/platform/db"
	"fleet-safety-service/internal/platform/obs"
	"fleet-safety-service/internal/ports"
	"fleet-safety-service/internal/ranking"
	"fleet-safety-service/internal/reroute"
	"fleet-safety-service/internal/riskagg"
	"fleet-safety-service/internal/scoring"
)

var configPath string

func main() {
	root := &cobra.Command{
		Use:   "fleetsafe",
		Short: "Fleet safety scoring and adaptive rerouting service",
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to YAML config file")

	root.AddCommand(serveCmd(), initdbCmd())

	if err := root.Execute(); err != nil {
		obs.Logger.Fatal(err)
	}
}

func loadConfig() (config.Config, error) {
	if configPath == "" {
		configPath = os.Getenv("CONFIG_PATH")
	}
	if configPath == "" {
		return config.Default(), nil
	}
	return config.Load(configPath)
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := godotenv.Load(); err != nil {
				obs.Logger.Info("No .env file found (using environment variables)")
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			mapsKey := os.Getenv("MAPS_API_KEY")
			if strings.TrimSpace(mapsKey) == "" {
				return fmt.Errorf("MAPS_API_KEY is required")
			}
			mapsClient, err := maps.NewClient(mapsKey, config.Get("MAPS_BASE_URL", "https://maps.internal.example.com"))
			if err != nil {
				return err
			}

			var weatherProvider ports.WeatherProvider = weather.NewOpenMeteo()
			if addr := os.Getenv("REDIS_ADDR"); addr != "" {
				client := redis.NewClient(&redis.Options{Addr: addr})
				weatherProvider = cache.NewRedisWeatherCache(client, weatherProvider, 10*time.Minute)
			}

			history, closeDB, err := openHistory()
			if err != nil {
				return err
			}
			if closeDB != nil {
				defer closeDB()
			}

			seed, _ := strconv.ParseInt(config.Get("BATTERY_SIM_SEED", "1"), 10, 64)
			batterySource := battery.NewSimulatedSource(seed, 0.05)

			scorer := scoring.NewScorer(mapsClient, cfg.Corridors)
			ranker := ranking.NewRanker(scorer)
			engine := reroute.NewEngine(
				stores.NewMemoryTripStore(),
				mapsClient,
				batterySource,
				history,
				cfg.Reroute,
			)
			aggregator := riskagg.NewAggregator(stores.NewMemoryRiskStore(), stores.NewMemoryFatigueStore())

			router := api.NewRouter(scorer, ranker, engine, aggregator, weatherProvider)

			port := config.Get("PORT", "8080")
			obs.Logger.WithField("addr", ":"+port).Info("server listening")

			// Timeouts are tuned for cold-cache directions lookups (external API latency).
			srv := &http.Server{
				Addr:              ":" + port,
				Handler:           router,
				ReadHeaderTimeout: 5 * time.Second,
				ReadTimeout:       10 * time.Second,
				WriteTimeout:      120 * time.Second,
				IdleTimeout:       60 * time.Second,
			}
			return srv.ListenAndServe()
		},
	}
}

// openHistory picks the reroute history backend: Postgres when DATABASE_URL
// is set, SQLite when DB_PATH is set, in-memory otherwise.
func openHistory() (ports.RerouteHistory, func() error, error) {
	if databaseURL := os.Getenv("DATABASE_URL"); strings.TrimSpace(databaseURL) != "" {
		conn, err := db.OpenPostgres(databaseURL)
		if err != nil {
			return nil, nil, err
		}
		return stores.NewSQLRerouteHistory(conn), conn.Close, nil
	}

	if dbPath := os.Getenv("DB_PATH"); strings.TrimSpace(dbPath) != "" {
		conn, err := db.OpenSQLite(dbPath)
		if err != nil {
			return nil, nil, err
		}
		if err := stores.InitSchema(conn); err != nil {
			conn.Close()
			return nil, nil, err
		}
		return stores.NewSqliteRerouteHistory(conn), conn.Close, nil
	}

	obs.Logger.Info("no database configured, reroute history is in-memory")
	return stores.NewMemoryRerouteHistory(), nil, nil
}

func initdbCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "initdb",
		Short: "Initialize the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := godotenv.Load(); err != nil {
				obs.Logger.Info("No .env file found (using environment variables)")
			}

			var conn *sql.DB
			var err error

			if databaseURL := os.Getenv("DATABASE_URL"); strings.TrimSpace(databaseURL) != "" {
				conn, err = db.OpenPostgres(databaseURL)
			} else {
				conn, err = db.OpenSQLite(config.Get("DB_PATH", "data/fleetsafe.db"))
			}
			if err != nil {
				return err
			}
			defer conn.Close()

			obs.Logger.Info("initializing database schema")
			if err := stores.InitSchema(conn); err != nil {
				return err
			}
			obs.Logger.Info("schema ready")
			return nil
		},
	}
}
