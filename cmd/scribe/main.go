// Package main provides the scribe CLI: it turns meeting recordings into
// transcripts and structured summaries, keeps them in a local store, and
// answers questions about a single meeting or the whole history.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/entrhq/scribe/pkg/asr"
	"github.com/entrhq/scribe/pkg/asr/whisper"
	"github.com/entrhq/scribe/pkg/assembler"
	"github.com/entrhq/scribe/pkg/cache"
	appconfig "github.com/entrhq/scribe/pkg/config"
	"github.com/entrhq/scribe/pkg/llm/openai"
	"github.com/entrhq/scribe/pkg/pipeline"
	"github.com/entrhq/scribe/pkg/store"
)

const version = "0.1.0"

// Config holds the parsed command line.
type Config struct {
	AudioPath   string
	Quality     string
	Ask         string
	AskHistory  string
	List        bool
	ConfigPath  string
	ShowVersion bool
}

func main() {
	config := parseFlags()

	if config.ShowVersion {
		fmt.Printf("scribe v%s\n", version)
		return
	}

	if err := config.validate(); err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\n\nShutting down gracefully...")
		cancel()
	}()

	if runErr := run(ctx, config); runErr != nil {
		cancel()
		log.Fatalf("Application error: %v", runErr)
	}
}

// parseFlags parses command line flags and environment variables
func parseFlags() *Config {
	config := &Config{}

	flag.StringVar(&config.AudioPath, "audio", "", "Path to a meeting recording to process (.mp3, .wav, .m4a)")
	flag.StringVar(&config.Quality, "quality", "", "Transcription quality level: tiny, base, small, medium (default from config)")
	flag.StringVar(&config.Ask, "ask", "", "Ask a question about the most recent meeting (or the one processed by -audio)")
	flag.StringVar(&config.AskHistory, "ask-history", "", "Ask a question across the entire meeting history")
	flag.BoolVar(&config.List, "list", false, "List stored meetings, most recent first")
	flag.StringVar(&config.ConfigPath, "config", defaultConfigPath(), "Path to the scribe configuration file (YAML)")
	flag.BoolVar(&config.ShowVersion, "version", false, "Show version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Scribe - meeting transcription and summarization\n\n")
		fmt.Fprintf(os.Stderr, "Usage: scribe [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  OPENAI_API_KEY        Generation API key\n")
		fmt.Fprintf(os.Stderr, "  SCRIBE_LLM_API_KEY    Generation API key (wins over OPENAI_API_KEY)\n")
		fmt.Fprintf(os.Stderr, "  SCRIBE_LLM_BASE_URL   Generation API base URL (for compatible APIs)\n")
		fmt.Fprintf(os.Stderr, "  SCRIBE_ASR_API_KEY    Transcription API key (optional for local servers)\n")
		fmt.Fprintf(os.Stderr, "  SCRIBE_ASR_BASE_URL   Transcription API base URL\n")
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  scribe -audio standup.mp3                # Transcribe, summarize, and store\n")
		fmt.Fprintf(os.Stderr, "  scribe -audio standup.mp3 -quality small\n")
		fmt.Fprintf(os.Stderr, "  scribe -list\n")
		fmt.Fprintf(os.Stderr, "  scribe -ask \"What was decided?\"\n")
		fmt.Fprintf(os.Stderr, "  scribe -ask-history \"Have we ever discussed the Q3 budget?\"\n")
	}

	flag.Parse()
	return config
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "scribe.yaml"
	}
	return filepath.Join(home, ".scribe", "config.yaml")
}

// validate checks that the flags describe exactly one task.
func (c *Config) validate() error {
	if c.AudioPath == "" && c.Ask == "" && c.AskHistory == "" && !c.List {
		return fmt.Errorf("nothing to do: use -audio, -ask, -ask-history, or -list (see -h)")
	}
	if c.Quality != "" {
		if _, err := asr.ParseQuality(c.Quality); err != nil {
			return err
		}
	}
	if c.AudioPath != "" {
		if err := pipeline.ValidateFilename(filepath.Base(c.AudioPath)); err != nil {
			return err
		}
	}
	return nil
}

// run wires the pipeline from configuration and dispatches the requested task.
func run(ctx context.Context, config *Config) error {
	cfg, err := appconfig.Load(config.ConfigPath)
	if err != nil {
		return err
	}

	asrOpts := []whisper.ProviderOption{}
	if cfg.ASR.BaseURL != "" {
		asrOpts = append(asrOpts, whisper.WithBaseURL(cfg.ASR.BaseURL))
	}
	asrProvider := whisper.NewProvider(cfg.ASR.APIKey, asrOpts...)

	llmOpts := []openai.ProviderOption{openai.WithModel(cfg.LLM.Model)}
	if cfg.LLM.BaseURL != "" {
		llmOpts = append(llmOpts, openai.WithBaseURL(cfg.LLM.BaseURL))
	}
	llmProvider, err := openai.NewProvider(cfg.LLM.APIKey, llmOpts...)
	if err != nil {
		return err
	}

	strategy, err := assembler.ForName(cfg.Context.Strategy, cfg.Context.MaxRecords, cfg.Context.MaxTokens)
	if err != nil {
		return err
	}

	meetingStore, err := store.Open(cfg.Store.Path)
	if err != nil {
		return err
	}
	defer meetingStore.Close()

	orchestrator := pipeline.New(
		asrProvider,
		llmProvider,
		cache.New(cache.WithMaxEntries(cfg.Cache.MaxEntries)),
		meetingStore,
		strategy,
		pipeline.WithCallTimeout(time.Duration(cfg.Pipeline.CallTimeoutSeconds)*time.Second),
		pipeline.WithMaxConcurrentCalls(cfg.Pipeline.MaxConcurrentCalls),
	)

	if config.AudioPath != "" {
		if err := runProcess(ctx, orchestrator, config, cfg.ASR.Quality); err != nil {
			return err
		}
	}
	if config.List {
		if err := runList(ctx, orchestrator); err != nil {
			return err
		}
	}
	if config.Ask != "" {
		if err := runAsk(ctx, orchestrator, config.Ask); err != nil {
			return err
		}
	}
	if config.AskHistory != "" {
		if err := runAskHistory(ctx, orchestrator, config.AskHistory); err != nil {
			return err
		}
	}
	return nil
}

// runProcess pushes one recording through the pipeline and renders the
// stored result.
func runProcess(ctx context.Context, o *pipeline.Orchestrator, config *Config, defaultQuality string) error {
	audio, err := os.ReadFile(config.AudioPath)
	if err != nil {
		return fmt.Errorf("read audio: %w", err)
	}

	quality := config.Quality
	if quality == "" {
		quality = defaultQuality
	}
	parsedQuality, err := asr.ParseQuality(quality)
	if err != nil {
		return err
	}

	fmt.Printf("Processing %s (quality: %s)...\n\n", filepath.Base(config.AudioPath), parsedQuality)

	result, err := o.Process(ctx, pipeline.UploadRequest{
		Filename: filepath.Base(config.AudioPath),
		Audio:    audio,
		Quality:  parsedQuality,
	})
	if err != nil {
		return err
	}

	fmt.Println(renderResult(result))
	return nil
}

func runList(ctx context.Context, o *pipeline.Orchestrator) error {
	records, err := o.History(ctx)
	if err != nil {
		return err
	}
	fmt.Println(renderHistory(records))
	return nil
}

// runAsk answers a question about the most recent meeting.
func runAsk(ctx context.Context, o *pipeline.Orchestrator, question string) error {
	records, err := o.History(ctx)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println(pipeline.NoHistoryAnswer)
		return nil
	}

	answer, err := o.QueryMeeting(ctx, question, records[0])
	if err != nil {
		return err
	}
	fmt.Println(renderAnswer(records[0].Filename, question, answer))
	return nil
}

func runAskHistory(ctx context.Context, o *pipeline.Orchestrator, question string) error {
	answer, err := o.QueryHistory(ctx, question)
	if err != nil {
		return err
	}
	fmt.Println(renderAnswer("meeting history", question, answer))
	return nil
}
