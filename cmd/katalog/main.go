// Copyright 2025 Searchwerk
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
	"github.com/searchwerk/katalog"
	"github.com/searchwerk/katalog/ai"
	"github.com/searchwerk/katalog/core"
	"github.com/searchwerk/katalog/ingestion"
	"github.com/searchwerk/katalog/reembed"
	"github.com/searchwerk/katalog/search"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "katalog",
		Usage: "Product catalog query resolution",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to YAML config file",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "build",
				Usage:  "Build the search index from a catalog JSON file",
				Action: buildCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to index directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "catalog",
						Usage:    "Path to catalog JSON file",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "embedding-host",
						Usage: "Embedding service host URL",
					},
					&cli.StringFlag{
						Name:  "embedding-model",
						Usage: "Embedding model name",
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of documents to embed per request",
						Value: 64,
					},
				},
			},
			{
				Name:      "search",
				Usage:     "Resolve a query against the index",
				ArgsUsage: "<query>",
				Action:    searchCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to index directory",
						Required: true,
					},
					&cli.IntFlag{
						Name:    "top",
						Aliases: []string{"k"},
						Usage:   "Maximum number of results",
					},
					&cli.BoolFlag{
						Name:  "code-only",
						Usage: "Match order codes only, skip text tiers",
					},
					&cli.StringFlag{
						Name:  "embedding-host",
						Usage: "Embedding service host URL",
					},
					&cli.StringFlag{
						Name:  "embedding-model",
						Usage: "Embedding model name",
					},
				},
			},
			{
				Name:   "reembed",
				Usage:  "Regenerate all stored vectors with a new embedding model",
				Action: reembedCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to index directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "embedding-host",
						Usage: "Embedding service host URL",
					},
					&cli.StringFlag{
						Name:     "embedding-model",
						Usage:    "Embedding model name",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of documents to process in each batch",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N documents",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for failed operations",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}

// loadSettings merges the config file with command-line overrides.
func loadSettings(c *cli.Context) (*katalog.Config, *ai.Config, error) {
	cfg, err := katalog.LoadConfig(c.String("config"))
	if err != nil {
		return nil, nil, err
	}

	if host := c.String("embedding-host"); host != "" {
		cfg.Embedding.Host = host
	}
	if model := c.String("embedding-model"); model != "" {
		cfg.Embedding.Model = model
	}

	aiConfig := ai.NewConfig(
		ai.WithHost(cfg.Embedding.Host),
		ai.WithModel(cfg.Embedding.Model),
	)
	if err := aiConfig.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid embedding configuration: %w", err)
	}
	return cfg, aiConfig, nil
}

func buildCommand(c *cli.Context) error {
	ctx := context.Background()

	cfg, aiConfig, err := loadSettings(c)
	if err != nil {
		return err
	}

	products, err := ingestion.LoadCatalog(c.String("catalog"))
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	cat, err := katalog.Open(c.String("db"), katalog.WithAIConfig(aiConfig))
	if err != nil {
		return fmt.Errorf("failed to open index: %w", err)
	}
	defer cat.Close()

	var bar *progressbar.ProgressBar
	builder, err := cat.NewBuilder(
		ingestion.WithBatchSize(c.Int("batch-size")),
		ingestion.WithSynonyms(mergedSynonyms(cfg)),
		ingestion.WithProgress(func(done, total int) {
			if bar == nil {
				bar = newProgressBar(total, "Embedding documents")
			}
			bar.Set(done)
		}),
	)
	if err != nil {
		return err
	}
	defer builder.Release()

	n, err := builder.Build(ctx, products)
	if err != nil {
		return fmt.Errorf("index build failed: %w", err)
	}
	if bar != nil {
		bar.Finish()
		fmt.Fprintln(os.Stderr)
	}

	fmt.Printf("Indexed %d documents from %d products\n", n, len(products))
	return nil
}

func searchCommand(c *cli.Context) error {
	ctx := context.Background()

	query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if query == "" {
		return fmt.Errorf("query argument is required")
	}

	cfg, aiConfig, err := loadSettings(c)
	if err != nil {
		return err
	}

	topK := cfg.Search.TopK
	if c.IsSet("top") {
		topK = c.Int("top")
	}

	cat, err := katalog.Open(c.String("db"), katalog.WithAIConfig(aiConfig))
	if err != nil {
		return fmt.Errorf("failed to open index: %w", err)
	}
	defer cat.Close()

	resolver, err := cat.NewResolver(ctx, search.WithConfig(search.Config{
		RecallThreshold: cfg.Search.RecallThreshold,
		FuzzyCutoff:     cfg.Search.FuzzyCutoff,
		ShortQueryLimit: cfg.Search.ShortQueryLimit,
	}))
	if err != nil {
		return fmt.Errorf("failed to load index: %w", err)
	}

	result, err := resolver.Resolve(ctx, query, topK, c.Bool("code-only"))
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	switch result.Outcome {
	case search.OutcomeDeferred:
		color.Yellow("Query too short to search the catalog. Add a word or an order number.")
	case search.OutcomeNoCodeMatch:
		color.Red("No product with this order number.")
	case search.OutcomeNoMatch:
		color.Red("No matching products found.")
	case search.OutcomeMatched:
		fmt.Printf("%d result(s) via %s tier\n\n", len(result.Documents), result.Tier)
		for _, doc := range result.Documents {
			printDocument(doc)
		}
	}
	return nil
}

func printDocument(doc *core.Document) {
	title := doc.Title
	if doc.Config != "" {
		title += " — " + doc.Config
	}
	color.New(color.Bold).Printf("* %s\n", title)

	if doc.Category != "" {
		fmt.Printf("  Kategorie: %s\n", doc.Category)
	}
	fmt.Printf("  Bestell-Nr.: %s\n", doc.Code)

	var commercial []string
	if doc.PriceEUR != nil {
		commercial = append(commercial, fmt.Sprintf("Preis: %s €",
			strconv.FormatFloat(*doc.PriceEUR, 'f', -1, 64)))
	}
	if doc.PackUnit != nil {
		commercial = append(commercial, fmt.Sprintf("VE: %d", *doc.PackUnit))
	}
	if len(commercial) > 0 {
		fmt.Printf("  %s\n", strings.Join(commercial, " | "))
	}

	if dims := doc.Dimensions(); len(dims) > 0 {
		rendered := make([]string, len(dims))
		for i, dim := range dims {
			rendered[i] = dim.String()
		}
		fmt.Printf("  %s\n", strings.Join(rendered, ", "))
	}
	fmt.Println()
}

func reembedCommand(c *cli.Context) error {
	ctx := context.Background()

	_, aiConfig, err := loadSettings(c)
	if err != nil {
		return err
	}

	reembedConfig := &reembed.Config{
		BatchSize:      c.Int("batch-size"),
		ReportInterval: c.Int("report-interval"),
		MaxRetries:     c.Int("max-retries"),
		RetryDelay:     c.Duration("retry-delay"),
	}
	if reembedConfig.BatchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}
	if reembedConfig.ReportInterval <= 0 {
		return fmt.Errorf("report-interval must be greater than 0")
	}
	if reembedConfig.MaxRetries <= 0 {
		return fmt.Errorf("max-retries must be greater than 0")
	}

	cat, err := katalog.Open(c.String("db"), katalog.WithAIConfig(aiConfig))
	if err != nil {
		return fmt.Errorf("failed to open index: %w", err)
	}
	defer cat.Close()

	fmt.Fprintf(os.Stderr, "Index: %s\n", c.String("db"))
	fmt.Fprintf(os.Stderr, "Embedding host: %s\n", aiConfig.Host)
	fmt.Fprintf(os.Stderr, "Embedding model: %s\n", aiConfig.Model)
	fmt.Fprintln(os.Stderr)

	if err := cat.NewReembedder(reembedConfig, os.Stderr).Run(ctx); err != nil {
		return fmt.Errorf("reembedding failed: %w", err)
	}
	return nil
}

func mergedSynonyms(cfg *katalog.Config) *ingestion.Synonyms {
	if len(cfg.Synonyms) == 0 {
		return nil
	}
	return ingestion.MergeSynonyms(cfg.Synonyms)
}

func newProgressBar(total int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetDescription(color.BlueString(description)),
		progressbar.OptionSetItsString("docs"),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetRenderBlankState(true),
	)
}
