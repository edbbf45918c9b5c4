// Command agentctl runs the article generation agent from the command line.
// It plays the role of the dispatcher that would normally sit behind a job
// queue: it creates a job record, runs the workflow and reports the outcome.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/kataras/golog"
	"github.com/spf13/cobra"
	lcopenai "github.com/tmc/langchaingo/llms/openai"

	"github.com/chronicle-ai/article-agent/agent"
	"github.com/chronicle-ai/article-agent/llm"
	"github.com/chronicle-ai/article-agent/log"
	"github.com/chronicle-ai/article-agent/scraper"
	"github.com/chronicle-ai/article-agent/store"
	"github.com/chronicle-ai/article-agent/store/memory"
	"github.com/chronicle-ai/article-agent/store/postgres"
	storeredis "github.com/chronicle-ai/article-agent/store/redis"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "agentctl",
		Short:         "Run and inspect article generation jobs",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to YAML config file")

	root.AddCommand(newGenerateCmd(&configPath))
	root.AddCommand(newStatusCmd(&configPath))
	root.AddCommand(newInitSchemaCmd(&configPath))
	return root
}

func newGenerateCmd(configPath *string) *cobra.Command {
	var userID string

	cmd := &cobra.Command{
		Use:   "generate <prompt>",
		Short: "Generate an article from a prompt",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig(*configPath)
			if err != nil {
				return err
			}

			logger := newLogger(cfg.Log.Level)

			llmClient, err := buildLLM(cfg.LLM)
			if err != nil {
				return err
			}
			source, err := buildScraper(cfg.Scraper)
			if err != nil {
				return err
			}
			articles, jobs, cleanup, err := buildStores(cmd.Context(), cfg.Store)
			if err != nil {
				return err
			}
			defer cleanup()

			job, err := jobs.CreateJob(cmd.Context(), userID, args[0])
			if err != nil {
				return fmt.Errorf("create job: %w", err)
			}
			logger.Info("created job %s", job.ID)

			a, err := agent.New(llmClient, source, articles, jobs,
				agent.WithConfig(agentConfig(cfg.Agent)),
				agent.WithLogger(logger),
			)
			if err != nil {
				return err
			}

			result, err := a.Run(cmd.Context(), agent.Input{
				Prompt: args[0],
				UserID: userID,
				JobID:  job.ID,
			})
			if err != nil {
				return err
			}

			printJSON(cmd, map[string]any{
				"job_id":     job.ID,
				"success":    result.Success,
				"article_id": result.ArticleID,
				"error":      result.Error,
			})
			if !result.Success {
				return errors.New("generation failed")
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&userID, "user", "u", "cli", "user id to attribute the job to")
	return cmd
}

func newStatusCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "status <job-id>",
		Short: "Show the current state of a job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig(*configPath)
			if err != nil {
				return err
			}
			_, jobs, cleanup, err := buildStores(cmd.Context(), cfg.Store)
			if err != nil {
				return err
			}
			defer cleanup()

			job, err := jobs.GetJob(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printJSON(cmd, job)
			return nil
		},
	}
}

func newInitSchemaCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "init-schema",
		Short: "Create the PostgreSQL tables used by the agent",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig(*configPath)
			if err != nil {
				return err
			}
			if cfg.Store.Postgres.ConnString == "" {
				return errors.New("store.postgres.conn_string (or DATABASE_URL) is required")
			}

			pg, err := postgres.New(cmd.Context(), postgres.Options{
				ConnString:    cfg.Store.Postgres.ConnString,
				ArticlesTable: cfg.Store.Postgres.ArticlesTable,
				JobsTable:     cfg.Store.Postgres.JobsTable,
			})
			if err != nil {
				return err
			}
			defer pg.Close()

			if err := pg.InitSchema(cmd.Context()); err != nil {
				return err
			}
			cmd.Println("schema ready")
			return nil
		},
	}
}

func newLogger(level string) log.Logger {
	logger := log.NewGologLogger(golog.New())
	logger.SetLevel(log.ParseLevel(level))
	return logger
}

func buildLLM(cfg LLMConfig) (llm.Client, error) {
	switch cfg.Provider {
	case "openrouter":
		opts := []llm.OpenRouterOption{llm.WithModel(cfg.Model)}
		if cfg.BaseURL != "" {
			opts = append(opts, llm.WithBaseURL(cfg.BaseURL))
		}
		if cfg.Temperature > 0 {
			opts = append(opts, llm.WithTemperature(cfg.Temperature))
		}
		if cfg.SiteURL != "" || cfg.SiteName != "" {
			opts = append(opts, llm.WithSite(cfg.SiteURL, cfg.SiteName))
		}
		return llm.NewOpenRouterClient(cfg.APIKey, opts...)

	case "openai":
		opts := []lcopenai.Option{lcopenai.WithToken(cfg.APIKey)}
		if cfg.Model != "" {
			opts = append(opts, lcopenai.WithModel(cfg.Model))
		}
		if cfg.BaseURL != "" {
			opts = append(opts, lcopenai.WithBaseURL(cfg.BaseURL))
		}
		model, err := lcopenai.New(opts...)
		if err != nil {
			return nil, fmt.Errorf("openai client: %w", err)
		}
		return llm.NewLangChainClient(model), nil

	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}

func buildScraper(cfg ScraperConfig) (scraper.Source, error) {
	var opts []scraper.ServiceOption
	if cfg.FetchPages {
		opts = append(opts, scraper.WithPageFetcher(scraper.NewPageFetcher()))
	}
	return scraper.NewServiceClient(cfg.BaseURL, opts...)
}

// buildStores wires the article and job stores from config. Articles live in
// memory or Postgres; jobs follow the same driver unless jobs_driver points
// them at Redis.
func buildStores(ctx context.Context, cfg StoreConfig) (store.ArticleStore, store.JobStore, func(), error) {
	cleanup := func() {}

	var articles store.ArticleStore
	var jobs store.JobStore

	switch cfg.Driver {
	case "memory":
		mem := memory.New()
		articles = mem
		jobs = mem
	case "postgres":
		pg, err := postgres.New(ctx, postgres.Options{
			ConnString:    cfg.Postgres.ConnString,
			ArticlesTable: cfg.Postgres.ArticlesTable,
			JobsTable:     cfg.Postgres.JobsTable,
		})
		if err != nil {
			return nil, nil, nil, err
		}
		articles = pg
		jobs = pg
		cleanup = pg.Close
	default:
		return nil, nil, nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}

	if cfg.JobsDriver == "redis" {
		rds := storeredis.NewJobStore(storeredis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.Redis.Prefix,
			TTL:      time.Duration(cfg.Redis.TTL),
		})
		prev := cleanup
		cleanup = func() {
			rds.Close()
			prev()
		}
		jobs = rds
	} else if cfg.JobsDriver != cfg.Driver {
		return nil, nil, nil, fmt.Errorf("unknown jobs driver %q", cfg.JobsDriver)
	}

	return articles, jobs, cleanup, nil
}

func agentConfig(cfg AgentConfig) agent.Config {
	out := agent.DefaultConfig()
	if cfg.MinResearchResults > 0 {
		out.MinResearchResults = cfg.MinResearchResults
	}
	if cfg.MaxSearchAttempts > 0 {
		out.MaxSearchAttempts = cfg.MaxSearchAttempts
	}
	if cfg.ResultsPerQuery > 0 {
		out.ResultsPerQuery = cfg.ResultsPerQuery
	}
	if cfg.MaxArticleImages > 0 {
		out.MaxArticleImages = cfg.MaxArticleImages
	}
	if cfg.SourceExcerptChars > 0 {
		out.SourceExcerptChars = cfg.SourceExcerptChars
	}
	return out
}

func printJSON(cmd *cobra.Command, v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		cmd.PrintErrln(err)
		return
	}
	cmd.Println(string(data))
}
