// Package main provides the player entry point.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/alecthomas/kingpin/v2"
	"github.com/joho/godotenv"
	zlog "github.com/rs/zerolog/log"

	"github.com/kinokawa/discbox/internal/app/notify"
	"github.com/kinokawa/discbox/internal/app/player"
	"github.com/kinokawa/discbox/internal/app/queue"
	"github.com/kinokawa/discbox/internal/app/recommend"
	"github.com/kinokawa/discbox/internal/app/resolve"
	"github.com/kinokawa/discbox/internal/domain/media"
	"github.com/kinokawa/discbox/internal/infra/audio"
	"github.com/kinokawa/discbox/internal/infra/config"
	"github.com/kinokawa/discbox/internal/infra/logger"
	"github.com/kinokawa/discbox/internal/infra/spotify"
)

var (
	app        = kingpin.New("discbox", "discbox media player")
	configPath = app.Flag("config", "Path to config file").Default("config/player.yaml").String()
	verbose    = app.Flag("verbose", "Enable verbose (DEBUG) logging").Short('v').Bool()
	logfile    = app.Flag("logfile", "Path to log file (default: stderr)").String()

	// list-providers command
	listProvidersCmd = app.Command("list-providers", "List available recommendation providers and exit")
)

func init() {
	app.Command("start", "Start the player (default)").Default()
}

func main() {
	// Load .env file if it exists (errors are ignored)
	_ = godotenv.Load()

	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	if command == listProvidersCmd.FullCommand() {
		printProviders()
		return
	}

	loggerConfig := logger.Config{
		Output: "console",
		Level:  "info",
	}
	if *verbose {
		loggerConfig.Level = "debug"
	}
	if *logfile != "" {
		loggerConfig.Output = "file"
		loggerConfig.File = *logfile
	}
	if err := logger.Init(loggerConfig); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}

	zlog.Info().Msgf("Loading config from %s", *configPath)
	cfg, err := config.Load(*configPath)
	if err != nil {
		zlog.Fatal().Msgf("Failed to load config: %v", err)
	}

	if err := run(cfg); err != nil {
		zlog.Error().Msgf("Player error: %v", err)
		os.Exit(1)
	}
}

// run executes the main player logic. Using a separate function ensures
// defer statements are executed even when returning with an error.
func run(cfg *config.Config) error {
	ctx := context.Background()

	// Spotify is optional; file playback works without it.
	var spotifyClient *spotify.Client
	if cfg.Spotify.Enabled() {
		var err error
		spotifyClient, err = spotify.New(ctx, spotify.Config{
			ClientID:     cfg.Spotify.ClientID,
			ClientSecret: cfg.Spotify.ClientSecret,
			RefreshToken: cfg.Spotify.RefreshToken,
			Market:       cfg.Spotify.Market,
		})
		if err != nil {
			return fmt.Errorf("failed to create Spotify client: %w", err)
		}
	}

	registry := resolve.NewRegistry()
	registry.Register(media.KindFile, resolve.NewFileResolver())
	if spotifyClient != nil {
		registry.Register(media.KindSpotify, resolve.NewSpotifyResolver(spotifyClient))
	}

	var recommender queue.Recommender
	if len(cfg.Recommend.Providers) > 0 {
		var rc recommend.SpotifyClient
		if spotifyClient != nil {
			rc = spotifyClient
		}
		chain, err := recommend.NewChainFromConfig(cfg, rc)
		if err != nil {
			return fmt.Errorf("failed to build recommenders: %w", err)
		}
		if chain != nil {
			recommender = chain
		}
	}

	notifier := notify.NewManager()
	defer notifier.Close()
	notifier.Subscribe(notify.ConsoleStream{})
	status := notify.LogStatus{}

	bus := player.NewBus()
	backend := audio.NewBackend(bus)
	defer backend.Stop()

	queueMgr := queue.NewManager(registry, recommender, notifier, cfg.Player.AutoPlay)
	p := player.New(queueMgr, registry, backend, bus, notifier, status)

	zlog.Info().Msgf("Player ready: auto_play=%v default_kind=%s", cfg.Player.AutoPlay, cfg.Player.DefaultKind)

	return prompt(ctx, cfg, p, queueMgr)
}

// prompt reads commands from stdin until EOF, "quit", or a signal.
func prompt(ctx context.Context, cfg *config.Config, p *player.Player, queueMgr *queue.Manager) error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	lines := make(chan string)
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		close(lines)
	}()

	for {
		select {
		case <-sigCh:
			zlog.Info().Msg("Received shutdown signal...")
			return p.Stop(ctx)
		case line, ok := <-lines:
			if !ok {
				return p.Stop(ctx)
			}
			quit, err := dispatch(ctx, cfg, p, queueMgr, line)
			if err != nil {
				fmt.Printf("error: %v\n", err)
			}
			if quit {
				return p.Stop(ctx)
			}
		}
	}
}

func dispatch(ctx context.Context, cfg *config.Config, p *player.Player, queueMgr *queue.Manager, line string) (quit bool, err error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}

	switch fields[0] {
	case "add":
		if len(fields) < 2 {
			return false, fmt.Errorf("usage: add <url> [file|spotify]")
		}
		kind := media.Kind(cfg.Player.DefaultKind)
		if len(fields) >= 3 {
			kind = media.Kind(fields[2])
		}
		return false, queueMgr.AddMedia(ctx, &media.Item{Kind: kind, URL: fields[1]}, false)
	case "play":
		return false, p.Play(ctx)
	case "pause":
		return false, p.Pause(ctx)
	case "stop":
		return false, p.Stop(ctx)
	case "skip":
		return false, p.Skip(ctx)
	case "queue":
		names := queueMgr.Names()
		if len(names) == 0 {
			fmt.Println("(queue is empty)")
			return false, nil
		}
		for i, name := range names {
			fmt.Printf("%3d. %s\n", i+1, name)
		}
		return false, nil
	case "move":
		if len(fields) != 3 {
			return false, fmt.Errorf("usage: move <from> <to>")
		}
		from, ferr := strconv.Atoi(fields[1])
		to, terr := strconv.Atoi(fields[2])
		if ferr != nil || terr != nil {
			return false, fmt.Errorf("usage: move <from> <to>")
		}
		queueMgr.Move(from-1, to-1)
		return false, nil
	case "shuffle":
		queueMgr.Shuffle()
		return false, nil
	case "clear":
		queueMgr.Clear()
		return false, nil
	case "autoplay":
		if len(fields) != 2 || (fields[1] != "on" && fields[1] != "off") {
			return false, fmt.Errorf("usage: autoplay on|off")
		}
		queueMgr.SetAutoPlay(fields[1] == "on")
		return false, nil
	case "state":
		fmt.Println(p.State())
		return false, nil
	case "help":
		printHelp()
		return false, nil
	case "quit", "exit":
		return true, nil
	default:
		return false, fmt.Errorf("unknown command: %s (try \"help\")", fields[0])
	}
}

func printHelp() {
	fmt.Print(`Commands:
  add <url> [file|spotify]  Add a track to the queue
  play                      Start or resume playback
  pause                     Pause playback
  stop                      Stop playback
  skip                      Skip the current track
  queue                     Show the queue
  move <from> <to>          Move a queued track
  shuffle                   Shuffle the queue
  clear                     Clear the queue
  autoplay on|off           Toggle recommendation fallback
  state                     Show the player state
  quit                      Stop and exit
`)
}

// printProviders prints available recommendation providers.
func printProviders() {
	fmt.Println("Available Providers:")
	fmt.Printf("  %-10s - %s\n", "lastfm", "Last.fm similar tracks resolved against Spotify")
	fmt.Printf("  %-10s - %s\n", "playlist", "Random picks from a configured Spotify playlist")
}
