package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/hashicorp/go-multierror"
	"google.golang.org/grpc"

	"github.com/VarunSharma3520/autocomplete/internal/config"
	"github.com/VarunSharma3520/autocomplete/internal/fs"
	"github.com/VarunSharma3520/autocomplete/internal/llm"
	"github.com/VarunSharma3520/autocomplete/internal/logger"
	"github.com/VarunSharma3520/autocomplete/internal/suggest"
	"github.com/VarunSharma3520/autocomplete/internal/types"
	"github.com/VarunSharma3520/autocomplete/internal/ui"
	"github.com/VarunSharma3520/autocomplete/internal/vector"
)

// seedCandidates fills a fresh candidates file so the first run has
// something to complete.
var seedCandidates = []string{
	"Apple", "Apricot", "Avocado", "Banana", "Blackberry", "Blueberry",
	"Cherry", "Coconut", "Cranberry", "Date", "Dragonfruit", "Fig",
	"Grape", "Grapefruit", "Guava", "Kiwi", "Lemon", "Lime", "Lychee",
	"Mango", "Melon", "Nectarine", "Orange", "Papaya", "Peach", "Pear",
	"Pineapple", "Plum", "Pomegranate", "Raspberry", "Strawberry", "Watermelon",
}

// hashEmbedModel selects the offline trigram embedder instead of Ollama.
const hashEmbedModel = "hash"

// backend is the suggestion source plus whatever it holds open.
type backend struct {
	source suggest.Source
	store  *vector.VectorStore
	conn   *grpc.ClientConn
}

func (b *backend) Close() error {
	if b.conn == nil {
		return nil
	}
	return b.conn.Close()
}

func main() {
	// Ensure vault exists before starting UI
	if err := fs.EnsureVaultExists(config.VaultPath()); err != nil {
		log.Fatalf("Failed to ensure vault folder exists: %v", err)
	}

	wroteConfig, err := config.EnsureConfigFile()
	if err != nil {
		log.Fatalf("Failed to write default config: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logPath := filepath.Join(config.VaultPath(), "autocomplete.log")
	appLogger, err := logger.GetLogger(logPath)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	appLogger.SetLevel(logger.ParseLevel(cfg.LogLevel))
	if wroteConfig {
		appLogger.Info("wrote default config", map[string]interface{}{"dir": config.VaultPath()})
	}

	created, err := fs.EnsureCandidatesFile(cfg.CandidatesFile, seedCandidates)
	if err != nil {
		log.Fatalf("Failed to create candidates file: %v", err)
	}
	if created {
		appLogger.Info("seeded candidates file", map[string]interface{}{"path": cfg.CandidatesFile})
	}

	candidates, err := fs.ReadCandidates(cfg.CandidatesFile)
	if err != nil {
		log.Fatalf("Failed to read candidates: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	be, err := openBackend(ctx, cfg, candidates, appLogger)
	if err != nil {
		appLogger.Error("failed to open suggestion source", err, map[string]interface{}{"source": cfg.Source})
		log.Fatalf("Failed to open %s source: %v", cfg.Source, err)
	}

	field := ui.NewAutoCompleteFieldWithSource(be.source)
	field.SetLabel(fmt.Sprintf("Search (%s)", cfg.Source))
	model := ui.InitialModel(field)
	model.SetLogger(appLogger)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithOutput(os.Stdout),
	)

	if !cfg.DisableWatch {
		if err := watchCandidates(ctx, p, cfg.CandidatesFile, be, appLogger); err != nil {
			appLogger.Error("candidates watcher disabled", err, map[string]interface{}{"path": cfg.CandidatesFile})
		}
	}

	appLogger.Info("starting", map[string]interface{}{
		"source":     cfg.Source,
		"candidates": len(candidates),
		"match":      cfg.Match,
	})

	_, runErr := p.Run()
	cancel()
	model.Shutdown()

	var result *multierror.Error
	if runErr != nil {
		result = multierror.Append(result, fmt.Errorf("program: %w", runErr))
	}
	if err := be.Close(); err != nil {
		result = multierror.Append(result, fmt.Errorf("close source: %w", err))
	}
	if err := appLogger.Close(); err != nil {
		result = multierror.Append(result, fmt.Errorf("close logger: %w", err))
	}
	if err := result.ErrorOrNil(); err != nil {
		log.SetOutput(os.Stderr)
		log.Printf("Alas, there's been an error: %v\n", err)
		os.Exit(1)
	}
}

// openBackend builds the suggestion source the config asks for.
func openBackend(ctx context.Context, cfg *config.Config, candidates []string, appLogger *logger.Logger) (*backend, error) {
	mode, err := suggest.ParseMatch(cfg.Match)
	if err != nil {
		return nil, err
	}
	opts := []suggest.Option{
		suggest.WithMatch(mode),
		suggest.WithCaseSensitive(cfg.CaseSensitive),
		suggest.WithLimit(cfg.MaxSuggestions),
	}
	timeout := time.Duration(cfg.FetchTimeoutMS) * time.Millisecond

	switch cfg.Source {
	case config.SourceTrie:
		return &backend{source: suggest.NewTrie(candidates, opts...)}, nil

	case config.SourceVector:
		conn, err := vector.ConnectToQdrant(cfg.QdrantAddr)
		if err != nil {
			return nil, err
		}

		var embedder vector.Embedder = vector.NewOllamaEmbedder(cfg.APIURL, cfg.EmbedModel)
		if cfg.EmbedModel == hashEmbedModel {
			embedder = vector.NewHashEmbedder(int(cfg.VectorSize))
		}
		store := vector.NewVectorStore(conn, cfg.Collection, embedder, appLogger)
		store.SetLimit(cfg.MaxSuggestions)

		if err := store.EnsureCollection(ctx, cfg.VectorSize); err != nil {
			conn.Close()
			return nil, err
		}
		// Points get deterministic ids, so indexing on every start only
		// refreshes what is already there.
		if _, err := store.IndexCandidates(ctx, candidates); err != nil {
			appLogger.Error("some candidates were not indexed", err, nil)
		}
		return &backend{source: suggest.NewAsync(store, timeout), store: store, conn: conn}, nil

	case config.SourceLLM:
		c := llm.NewCompleter(cfg.APIURL, cfg.ModelName, cfg.Temperature, appLogger)
		c.SetLimit(cfg.MaxSuggestions)
		return &backend{source: suggest.NewAsync(c, timeout)}, nil

	default:
		return &backend{source: suggest.NewList(candidates, opts...)}, nil
	}
}

// watchCandidates re-reads the candidates file whenever it changes and hands
// the new set to the program. A vector backend is re-indexed first.
func watchCandidates(ctx context.Context, p *tea.Program, path string, be *backend, appLogger *logger.Logger) error {
	refreshCh := make(chan struct{}, 1)
	if err := fs.WatchCandidates(ctx, path, refreshCh, appLogger); err != nil {
		return err
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-refreshCh:
			}

			items, err := fs.ReadCandidates(path)
			if err != nil {
				appLogger.Error("failed to reload candidates", err, map[string]interface{}{"path": path})
				p.Send(types.StatusMsg{Message: "Failed to reload candidates", Duration: 3 * time.Second})
				continue
			}

			if be.store != nil {
				n, err := be.store.IndexCandidates(ctx, items)
				if err != nil {
					appLogger.Error("re-index failed", err, map[string]interface{}{"indexed": n})
				}
				p.Send(types.StatusMsg{Message: fmt.Sprintf("Indexed %d/%d candidates", n, len(items)), Duration: 3 * time.Second})
				continue
			}
			p.Send(types.CandidatesReloadedMsg{Items: items})
		}
	}()
	return nil
}
