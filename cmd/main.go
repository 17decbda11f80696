package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/uptrace/bun"

	"word-qa/internal/config"
	"word-qa/internal/db"
	"word-qa/internal/helper"
	"word-qa/internal/llmservice"
	"word-qa/internal/models"
	"word-qa/internal/parser"
	"word-qa/internal/rag"
	"word-qa/internal/report"
)

const (
	configFilePath = "./configs/config.yaml"
	rule           = "------------------------------------------------------------"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).With().Caller().Logger()

	configPath := flag.String("config", configFilePath, "Path to the YAML config file")
	dataDir := flag.String("data-dir", "", "Directory holding the article documents (overrides config)")
	outputDir := flag.String("output-dir", "", "Directory for saved reports (overrides config)")
	showDetails := flag.Bool("details", false, "Print technical details after the answer")
	history := flag.Int("history", 0, "Print the N most recent runs from the history database and exit")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] \"question\"\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Error loading config")
	}
	zerolog.SetGlobalLevel(cfg.LogLevel())
	if *dataDir != "" {
		cfg.DataDir = *dataDir
	}
	if *outputDir != "" {
		cfg.OutputDir = *outputDir
	}
	log.Debug().Interface("config", cfg).Msg("Loaded config")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if *history > 0 {
		if err := printHistory(ctx, cfg, *history); err != nil {
			log.Fatal().Err(err).Msg("Error reading history")
		}
		return
	}

	question := strings.TrimSpace(strings.Join(flag.Args(), " "))
	if question == "" {
		flag.Usage()
		os.Exit(2)
	}

	if err := answerQuestion(ctx, cfg, question, *showDetails); err != nil {
		log.Fatal().Err(err).Msg("Error answering question")
	}
}

func answerQuestion(ctx context.Context, cfg *config.Config, question string, showDetails bool) error {
	transport, err := newTransport(cfg)
	if err != nil {
		return err
	}

	invoker := llmservice.NewInvoker(transport, llmservice.InvokerConfig{
		Policy:    llmservice.FallbackPolicy{Candidates: cfg.Models},
		Timeout:   cfg.Timeout(),
		WordLimit: cfg.Answer.WordLimit,
	})
	pipeline := rag.NewRAG(invoker, cfg)

	corpus, err := parser.ProcessDataDirectory(cfg.DataDir)
	if err != nil {
		return err
	}

	start := time.Now()
	answer, details, err := pipeline.Answer(ctx, question, corpus.Text, corpus.Articles, cfg.ChunkBudget())
	if err != nil {
		return err
	}
	log.Info().Dur("elapsed", time.Since(start)).Str("final_model", details.FinalModel).Msg("Question answered")

	fmt.Println(rule)
	if answer == "" {
		fmt.Println("No answer received.")
	} else {
		fmt.Println(answer)
	}
	fmt.Println(rule)

	if showDetails {
		helper.PrettyPrint(details)
	}

	name, err := report.Save(cfg.OutputDir, report.Report{
		Question: question,
		Answer:   answer,
		Details:  details,
	})
	if err != nil {
		log.Error().Err(err).Msg("Error saving report")
	} else {
		log.Info().Str("dir", cfg.OutputDir).Str("file", name).Msg("Report saved")
	}

	if cfg.Database.DSN != "" {
		if err := storeRun(ctx, cfg, question, answer, details); err != nil {
			log.Error().Err(err).Msg("Error storing run history")
		}
	}
	return nil
}

func newTransport(cfg *config.Config) (llmservice.Transport, error) {
	var key string
	if env := cfg.APIKeyEnv(); env != "" {
		var err error
		key, err = config.LoadAPIKey(env)
		if err != nil {
			return nil, err
		}
	}

	switch cfg.Provider {
	case config.ProviderAnthropic:
		return llmservice.NewAnthropicClient(&cfg.Anthropic, key, cfg.Timeout())
	case config.ProviderOpenAI, config.ProviderOllama:
		cfg.LLM.Key = key
		return llmservice.NewLangChainClient(cfg.Provider, &cfg.LLM)
	default:
		return nil, fmt.Errorf("%w: got %q", config.ErrUnknownProvider, cfg.Provider)
	}
}

func openHistory(ctx context.Context, cfg *config.Config) (*bun.DB, error) {
	sqldb, err := db.ConnectDB(&cfg.Database)
	if err != nil {
		return nil, err
	}
	dbInstance := db.NewDB(sqldb, cfg.Database.Debug)
	if err := db.InitDB(ctx, dbInstance); err != nil {
		dbInstance.Close()
		return nil, fmt.Errorf("init history table: %w", err)
	}
	return dbInstance, nil
}

func storeRun(ctx context.Context, cfg *config.Config, question, answer string, details *models.TechnicalDetails) error {
	dbInstance, err := openHistory(ctx, cfg)
	if err != nil {
		return err
	}
	defer dbInstance.Close()

	rec, err := db.NewRecord(question, answer, details)
	if err != nil {
		return err
	}
	if err := db.StoreRun(ctx, dbInstance, rec); err != nil {
		return err
	}
	log.Info().Str("run_id", rec.ID).Msg("Run stored")
	return nil
}

func printHistory(ctx context.Context, cfg *config.Config, limit int) error {
	if cfg.Database.DSN == "" {
		return db.ErrNoDSN
	}
	dbInstance, err := openHistory(ctx, cfg)
	if err != nil {
		return err
	}
	defer dbInstance.Close()

	runs, err := db.RecentRuns(ctx, dbInstance, limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No runs recorded.")
		return nil
	}
	for _, run := range runs {
		fmt.Println(rule)
		fmt.Printf("%s  %s  (%s)\n", run.CreatedAt.Format(time.RFC3339), run.ID, orNone(run.FinalModel))
		fmt.Printf("Q: %s\n", run.Question)
		fmt.Printf("A: %s\n", orNone(run.Answer))
	}
	fmt.Println(rule)
	return nil
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}
