// cmd/analyze/main.go
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/ovenpilot/analytics/internal/accuracy"
	"github.com/ovenpilot/analytics/internal/allocation"
	"github.com/ovenpilot/analytics/internal/config"
	"github.com/ovenpilot/analytics/internal/domain"
	"github.com/ovenpilot/analytics/internal/forecast"
	"github.com/ovenpilot/analytics/internal/oracle"
	"github.com/ovenpilot/analytics/internal/repository/postgres"
)

const dateLayout = "2006-01-02"

func newDBURLFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "db-url",
		Usage:   "Database connection string (overrides --sales-file)",
		EnvVars: []string{"DATABASE_URL"},
	}
}

func newSalesFileFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:  "sales-file",
		Usage: "JSON file with sale log entries",
	}
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: could not load .env file: %v", err)
	}

	app := &cli.App{
		Name:  "analyze",
		Usage: "Run demand analytics over sales history",
		Commands: []*cli.Command{
			{
				Name:  "forecast",
				Usage: "Forecast demand for one product on a date",
				Flags: []cli.Flag{
					newDBURLFlag(),
					newSalesFileFlag(),
					&cli.StringFlag{
						Name:     "product",
						Usage:    "Product id to forecast",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "date",
						Usage: "Target date (YYYY-MM-DD), defaults to tomorrow",
					},
					&cli.StringFlag{
						Name:  "weather",
						Usage: "Expected weather condition for the target date",
					},
					&cli.StringFlag{
						Name:  "market",
						Usage: "Restrict history to one market id",
					},
				},
				Action: runForecast,
			},
			{
				Name:  "reconcile",
				Usage: "Compare past forecasts against realized sales",
				Flags: []cli.Flag{
					newDBURLFlag(),
					newSalesFileFlag(),
					&cli.StringFlag{Name: "forecasts-file", Usage: "JSON file with forecast records"},
					&cli.StringFlag{Name: "products-file", Usage: "JSON file with the product catalog"},
					&cli.StringFlag{Name: "inventory-file", Usage: "JSON file with daily inventory records"},
					&cli.StringFlag{Name: "from", Usage: "Range start (YYYY-MM-DD), db mode only"},
					&cli.StringFlag{Name: "to", Usage: "Range end (YYYY-MM-DD), db mode only"},
				},
				Action: runReconcile,
			},
			{
				Name:  "mine",
				Usage: "Mine demand patterns, combos and cannibalization",
				Flags: []cli.Flag{
					newDBURLFlag(),
					newSalesFileFlag(),
					&cli.StringFlag{
						Name:     "product",
						Usage:    "Product id to mine patterns for",
						Required: true,
					},
				},
				Action: runMine,
			},
			{
				Name:  "plan",
				Usage: "Allocation math for production and transfer",
				Subcommands: []*cli.Command{
					{
						Name:  "production",
						Usage: "How many batches to run for a daily target",
						Flags: []cli.Flag{
							&cli.IntFlag{Name: "current-stock", Usage: "Units already on hand"},
							&cli.IntFlag{Name: "daily-target", Usage: "Units the day should cover", Required: true},
							&cli.IntFlag{Name: "batch-size", Usage: "Units per production batch"},
						},
						Action: runPlanProduction,
					},
					{
						Name:  "transfer",
						Usage: "Split available stock between shop and storage",
						Flags: []cli.Flag{
							&cli.IntFlag{Name: "total-available", Usage: "Units available to place", Required: true},
							&cli.IntFlag{Name: "shop-capacity", Usage: "Shop display capacity"},
						},
						Action: runPlanTransfer,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func runForecast(c *cli.Context) error {
	targetDate := time.Now().AddDate(0, 0, 1)
	if raw := c.String("date"); raw != "" {
		parsed, err := time.Parse(dateLayout, raw)
		if err != nil {
			return fmt.Errorf("invalid --date %q: %w", raw, err)
		}
		targetDate = parsed
	}

	opts := forecast.Options{
		Weather:  c.String("weather"),
		MarketID: c.String("market"),
	}

	var sales []domain.SaleLogEntry
	if dbURL := c.String("db-url"); dbURL != "" {
		repo, err := openRepository(dbURL)
		if err != nil {
			return err
		}
		from, to, err := parseRange(c)
		if err != nil {
			return err
		}
		if sales, err = repo.GetSaleLogs(c.Context, from, to); err != nil {
			return err
		}
		if opts.MarketID != "" {
			if opts.MarketReports, err = repo.GetMarketReports(c.Context, opts.MarketID); err != nil {
				return err
			}
		}
	} else {
		var err error
		if sales, err = decodeFile[domain.SaleLogEntry](c.String("sales-file")); err != nil {
			return err
		}
	}

	return printJSON(forecast.Generate(c.String("product"), targetDate, sales, opts))
}

func runReconcile(c *cli.Context) error {
	var (
		forecasts []domain.ForecastRecord
		sales     []domain.SaleLogEntry
		products  []domain.Product
		inventory []domain.DailyInventoryRecord
	)

	if dbURL := c.String("db-url"); dbURL != "" {
		from, to, err := parseRange(c)
		if err != nil {
			return err
		}

		repo, err := openRepository(dbURL)
		if err != nil {
			return err
		}

		ctx := c.Context
		if forecasts, err = repo.GetForecasts(ctx, from, to); err != nil {
			return err
		}
		if sales, err = repo.GetSaleLogs(ctx, from, to); err != nil {
			return err
		}
		if products, err = repo.GetProducts(ctx); err != nil {
			return err
		}
		if inventory, err = repo.GetInventoryRecords(ctx, from, to); err != nil {
			return err
		}
	} else {
		var err error
		if forecasts, err = decodeFile[domain.ForecastRecord](c.String("forecasts-file")); err != nil {
			return err
		}
		if sales, err = decodeFile[domain.SaleLogEntry](c.String("sales-file")); err != nil {
			return err
		}
		if products, err = decodeFile[domain.Product](c.String("products-file")); err != nil {
			return err
		}
		if inventory, err = decodeFile[domain.DailyInventoryRecord](c.String("inventory-file")); err != nil {
			return err
		}
	}

	return printJSON(accuracy.Reconcile(forecasts, sales, products, inventory))
}

func runMine(c *cli.Context) error {
	sales, err := loadSales(c)
	if err != nil {
		return err
	}

	engine := config.Load().Engine
	patterns := oracle.Mine(c.String("product"), sales, oracle.MinerConfig{
		ExcludedMarkets: engine.ExcludedMarkets,
		Budget:          engine.MiningBudget,
	})

	return printJSON(map[string]any{
		"patterns":        patterns,
		"combos":          oracle.FindCombos(sales),
		"cannibalization": oracle.FindCannibalization(sales),
	})
}

func runPlanProduction(c *cli.Context) error {
	batchSize := c.Int("batch-size")
	if batchSize == 0 {
		batchSize = config.Load().Engine.DefaultBatchSize
	}

	plan, err := allocation.PlanDailyProduction(c.Int("current-stock"), c.Int("daily-target"), batchSize)
	if err != nil {
		return err
	}
	return printJSON(plan)
}

func runPlanTransfer(c *cli.Context) error {
	capacity := c.Int("shop-capacity")
	if capacity == 0 {
		capacity = config.Load().Engine.DefaultShopCapacity
	}

	plan, err := allocation.PlanStockTransfer(c.Int("total-available"), capacity)
	if err != nil {
		return err
	}
	return printJSON(plan)
}

// loadSales reads sale logs from the database when --db-url is set,
// otherwise from --sales-file.
func loadSales(c *cli.Context) ([]domain.SaleLogEntry, error) {
	if dbURL := c.String("db-url"); dbURL != "" {
		repo, err := openRepository(dbURL)
		if err != nil {
			return nil, err
		}
		from, to, err := parseRange(c)
		if err != nil {
			return nil, err
		}
		return repo.GetSaleLogs(c.Context, from, to)
	}

	return decodeFile[domain.SaleLogEntry](c.String("sales-file"))
}

func openRepository(dbURL string) (*postgres.HistoryRepository, error) {
	db, err := postgres.NewDBFromURL("pgx", dbURL)
	if err != nil {
		return nil, err
	}
	return postgres.NewHistoryRepository(db), nil
}

// parseRange reads --from/--to, defaulting to the trailing 90 days.
func parseRange(c *cli.Context) (time.Time, time.Time, error) {
	to := time.Now().AddDate(0, 0, 1)
	from := to.AddDate(0, 0, -91)

	if raw := c.String("from"); raw != "" {
		parsed, err := time.Parse(dateLayout, raw)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --from %q: %w", raw, err)
		}
		from = parsed
	}
	if raw := c.String("to"); raw != "" {
		parsed, err := time.Parse(dateLayout, raw)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --to %q: %w", raw, err)
		}
		to = parsed
	}
	return from, to, nil
}

func decodeFile[T any](path string) ([]T, error) {
	if path == "" {
		return nil, fmt.Errorf("no input: provide --db-url or a JSON file flag")
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", path, err)
	}
	defer file.Close()

	var items []T
	if err := json.NewDecoder(file).Decode(&items); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return items, nil
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
