package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/fictionkit/storyloom/internal/config"
	"github.com/fictionkit/storyloom/internal/console"
	"github.com/fictionkit/storyloom/internal/logger"
	"github.com/fictionkit/storyloom/internal/storage"
	"github.com/fictionkit/storyloom/pkg/engine"
	"github.com/fictionkit/storyloom/pkg/lexicon"
	"github.com/fictionkit/storyloom/pkg/state"
)

func main() {
	var (
		storyFile = flag.String("story", "", "starting story file (default: choose interactively)")
		block     = flag.String("block", "", "starting block (default: the document's first block)")
		name      = flag.String("name", "storyloom", "save identity for this playthrough")
		plain     = flag.Bool("plain", false, "line mode instead of the full-screen UI")
		resume    = flag.Bool("resume", false, "resume from the saved game if present")
	)
	flag.Parse()

	cfg := config.Load()
	log := logger.Setup(cfg)
	ctx := context.Background()

	store, err := newStore(ctx, cfg, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Could not open the save store: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = store.Close()
	}()

	library := storage.NewLibrary(cfg.StoryDir, log)

	st := state.New(*name)
	if *resume {
		loaded, err := store.LoadState(ctx, *name)
		switch {
		case err == nil:
			st = loaded
		case errors.Is(err, storage.ErrNotFound):
			fmt.Println("No save data found, starting fresh.")
		default:
			fmt.Fprintf(os.Stderr, "Could not load the saved game: %v\n", err)
			os.Exit(1)
		}
	}

	if st.Progress.Document == "" {
		doc := *storyFile
		if doc == "" {
			doc, err = chooseStory(library)
			if err != nil {
				fmt.Fprintf(os.Stderr, "%v\n", err)
				os.Exit(1)
			}
		}
		st.SetProgress(doc, *block)
	}

	if *plain {
		runPlain(ctx, cfg, store, library, st, log)
		return
	}

	p := tea.NewProgram(NewUI(cfg, store, library, st, log), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}
}

// newStore opens the configured save backend. Redis availability is checked
// up front so a misconfigured backend fails at startup, not at first save.
func newStore(ctx context.Context, cfg *config.Config, log *slog.Logger) (storage.Store, error) {
	switch cfg.SaveBackend {
	case "redis":
		store, err := storage.NewRedisStore(cfg.RedisURL, log)
		if err != nil {
			return nil, err
		}
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := store.Ping(pingCtx); err != nil {
			return nil, err
		}
		return store, nil
	case "file":
		return storage.NewFileStore(cfg.SaveDir, log), nil
	default:
		return nil, fmt.Errorf("unknown save backend %q", cfg.SaveBackend)
	}
}

// chooseStory lists the library's documents and asks the player to pick one.
func chooseStory(library *storage.Library) (string, error) {
	names, err := library.List()
	if err != nil {
		return "", fmt.Errorf("listing stories: %w", err)
	}
	if len(names) == 0 {
		return "", fmt.Errorf("no story files found")
	}
	if len(names) == 1 {
		return names[0], nil
	}

	fmt.Println("Available stories:")
	for i, n := range names {
		fmt.Printf("  %d - %s\n", i+1, n)
	}
	fmt.Print("\nSelect a story by number: ")

	var choice int
	if _, err := fmt.Scanf("%d", &choice); err != nil || choice < 1 || choice > len(names) {
		return "", fmt.Errorf("invalid selection")
	}
	return names[choice-1], nil
}

func runPlain(ctx context.Context, cfg *config.Config, store storage.Store, library *storage.Library, st *state.State, log *slog.Logger) {
	cons := console.NewPlain(os.Stdin, os.Stdout, cfg)
	input := console.NewControlInput(cons, store, st, cons, log)
	eng := engine.New(library, cons, input, engine.NewMatcher(lexicon.Dict{}), st, log)

	if err := eng.Run(ctx); err != nil {
		logger.WithError(log, err).Error("run failed")
		fmt.Fprintf(os.Stderr, "Couldn't start the story: %v\n", err)
		os.Exit(1)
	}

	cons.Notice("The End.")
	log.Debug("final state", "state", st.String())
}
