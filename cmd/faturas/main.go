package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ujorgeleite/fatura-ledger/internal/api"
	"github.com/ujorgeleite/fatura-ledger/internal/config"
	"github.com/ujorgeleite/fatura-ledger/internal/ledger"
	"github.com/ujorgeleite/fatura-ledger/internal/logger"
	"github.com/ujorgeleite/fatura-ledger/internal/writer"
)

const version = "1.0.0"

var (
	cfgFile  string
	dataDir  string
	logLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "faturas",
	Short: "Reconcile credit card statement exports into a single ledger",
	Long: `Faturas ingests the CSV and PDF statement exports the card issuers
provide (fatura_<period>_<card>.csv / .pdf), reconciles them into one
normalized transaction ledger, and categorizes every purchase.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("faturas v%s\n", version)
		fmt.Println("Use --help for available commands")
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (TOML)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "directory holding the statement exports")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")

	exportCmd.Flags().StringVar(&exportOutput, "output", "", "output file path (defaults to faturas.csv / faturas.xlsx)")
	exportCmd.Flags().StringVar(&exportFormat, "format", "csv", "output format: csv or xlsx")

	rootCmd.AddCommand(serveCmd, exportCmd, summaryCmd)
}

// setup resolves flags over the config file and builds the shared pieces.
func setup() (*config.Config, zerolog.Logger, *ledger.Service, error) {
	cfg, err := config.LoadConfig(cfgFile)
	if err != nil {
		return nil, zerolog.Nop(), nil, err
	}
	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	log := logger.New(cfg.LogLevel)
	svc := ledger.NewService(log)
	if cfg.Year != 0 {
		year := cfg.Year
		svc.Year = func() int { return year }
	}
	return cfg, log, svc, nil
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the ledger over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, svc, err := setup()
		if err != nil {
			return err
		}

		h := &api.Handler{
			Loader: ledger.NewLoader(svc, cfg.DataDir),
			Log:    log,
		}

		app := fiber.New(fiber.Config{
			AppName:               "faturas v" + version,
			DisableStartupMessage: true,
		})
		h.Register(app)

		log.Info().
			Str("addr", cfg.ListenAddr).
			Str("dataDir", cfg.DataDir).
			Msg("listening")
		return app.Listen(cfg.ListenAddr)
	},
}

var (
	exportOutput string
	exportFormat string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Load every statement export and write the combined ledger",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, svc, err := setup()
		if err != nil {
			return err
		}

		fmt.Printf("Processing: %s\n", cfg.DataDir)
		res, err := svc.Load(cfg.DataDir)
		if err != nil {
			return err
		}
		fmt.Printf("  Loaded %d file(s), skipped %d\n", res.Files, res.Skipped)
		for _, w := range res.Warnings {
			fmt.Printf("  Warning: %s: %s\n", w.File, w.Message)
		}
		fmt.Printf("  Found %d transaction(s)\n", res.Ledger.Len())

		outPath := exportOutput
		switch strings.ToLower(exportFormat) {
		case "csv":
			if outPath == "" {
				outPath = "faturas.csv"
			}
			w := &writer.CSVWriter{}
			if err := w.WriteToFile(outPath, res.Ledger); err != nil {
				return fmt.Errorf("CSV write failed: %w", err)
			}
		case "xlsx":
			if outPath == "" {
				outPath = "faturas.xlsx"
			}
			w := &writer.XLSXWriter{}
			if err := w.WriteToFile(outPath, res.Ledger); err != nil {
				return fmt.Errorf("XLSX write failed: %w", err)
			}
		default:
			return fmt.Errorf("unknown format %q, expected csv or xlsx", exportFormat)
		}

		fmt.Printf("  Output: %s\n", outPath)
		fmt.Println("  Done.")
		return nil
	},
}

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print spending aggregates for the combined ledger",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, svc, err := setup()
		if err != nil {
			return err
		}

		res, err := svc.Load(cfg.DataDir)
		if err != nil {
			return err
		}
		s := ledger.Summarize(res.Ledger)

		fmt.Printf("Transactions: %d\n", s.Transactions)
		fmt.Printf("Total spent:  %.2f\n", s.TotalSpent)
		fmt.Printf("Mean spent:   %.2f\n", s.MeanSpent)
		if s.InstallmentCount > 0 {
			fmt.Printf("Installments: %d (projected %.2f, billed %.2f, remaining %.2f)\n",
				s.InstallmentCount,
				s.Installments.ProjectedTotal,
				s.Installments.BilledSoFar,
				s.Installments.Remaining)
		}

		printGroup("By category", s.ByCategory)
		printGroup("By card", s.ByCard)
		printGroup("By holder", s.ByHolder)
		printGroup("By month", s.ByMonth)
		return nil
	},
}

func printGroup(title string, groups []ledger.GroupTotal) {
	if len(groups) == 0 {
		return
	}
	fmt.Printf("\n%s:\n", title)
	for _, g := range groups {
		fmt.Printf("  %-24s %10.2f  (%d)\n", g.Key, g.Total, g.Count)
	}
}
