// Package main provides the tunedeck entry point.
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
	"time"

	"github.com/alecthomas/kingpin/v2"
	"github.com/joho/godotenv"
	zlog "github.com/rs/zerolog/log"

	"github.com/tunedeck/tunedeck/internal/app/notification"
	"github.com/tunedeck/tunedeck/internal/app/persist"
	"github.com/tunedeck/tunedeck/internal/app/session"
	"github.com/tunedeck/tunedeck/internal/domain/track"
	"github.com/tunedeck/tunedeck/internal/infra/auth"
	"github.com/tunedeck/tunedeck/internal/infra/config"
	"github.com/tunedeck/tunedeck/internal/infra/logger"
	"github.com/tunedeck/tunedeck/internal/infra/store"
)

var (
	app        = kingpin.New("tunedeck", "tunedeck playback session controller")
	configPath = app.Flag("config", "Path to config file").Default("config/tunedeck.yaml").String()
	verbose    = app.Flag("verbose", "Enable verbose (DEBUG) logging").Short('v').Bool()
	logfile    = app.Flag("logfile", "Path to log file (default: stderr)").String()
)

// consoleSink prints notifications to the terminal.
type consoleSink struct{}

func (consoleSink) Notify(level notification.Level, message string) {
	fmt.Printf("[%s] %s\n", level, message)
}

func main() {
	// Load .env file if it exists (errors are ignored)
	_ = godotenv.Load()

	kingpin.MustParse(app.Parse(os.Args[1:]))

	// Initialize logger. Logs go to stderr so they do not interleave with
	// the prompt.
	loggerConfig := logger.Config{Output: "stderr", Level: "info"}
	if *verbose {
		loggerConfig.Level = "debug"
	}
	if *logfile != "" {
		loggerConfig.Output = *logfile
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
		zlog.Error().Msgf("tunedeck error: %v", err)
		os.Exit(1)
	}
}

// run executes the main session loop. Using a separate function ensures
// defer statements run even when returning with an error.
func run(cfg *config.Config) error {
	storage, err := store.NewFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("failed to create store: %w", err)
	}
	defer storage.Close()

	provider, err := auth.New(auth.Config{
		ClientID:     cfg.Auth.ClientID,
		ClientSecret: cfg.Auth.ClientSecret,
		RefreshToken: cfg.Auth.RefreshToken,
		TokenURL:     cfg.Auth.TokenURL,
		UserInfoURL:  cfg.Auth.UserInfoURL,
	})
	if err != nil {
		return fmt.Errorf("failed to create identity provider: %w", err)
	}

	notifier := notification.NewManager()
	defer notifier.Close()
	notifier.Subscribe(consoleSink{})

	st := session.NewStore()
	mgr := session.NewManager(st, storage, notifier)
	syncer := persist.NewSynchronizer(st, storage, notifier)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Consume identity transitions for the life of the process
	go func() {
		if err := syncer.Run(ctx, provider); err != nil && ctx.Err() == nil {
			zlog.Error().Msgf("synchronizer stopped: %v", err)
		}
	}()

	// Read commands until EOF or quit
	replDone := make(chan struct{})
	go func() {
		defer close(replDone)
		repl(ctx, mgr, provider)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigCh:
		zlog.Info().Msg("Received shutdown signal...")
	case <-replDone:
	}

	// Best-effort flush on the way out. Not durable-guaranteed: a hard kill
	// between the last mutation and this point loses it remotely.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	syncer.Shutdown(shutdownCtx)

	zlog.Info().Msg("tunedeck stopped")
	return nil
}

// repl reads user commands from stdin and applies them to the session.
func repl(ctx context.Context, mgr *session.Manager, provider *auth.Provider) {
	scanner := bufio.NewScanner(os.Stdin)
	printHelp()

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if fields[0] == "quit" || fields[0] == "exit" {
			return
		}
		handle(ctx, mgr, provider, fields)
	}
}

func handle(ctx context.Context, mgr *session.Manager, provider *auth.Provider, fields []string) {
	st := mgr.Store()

	switch fields[0] {
	case "help":
		printHelp()

	case "signin":
		if _, err := provider.SignIn(ctx); err != nil {
			zlog.Error().Msgf("sign-in failed: %v", err)
			fmt.Println("Sign-in failed.")
		}

	case "signout":
		if err := provider.SignOut(ctx); err != nil {
			zlog.Error().Msgf("sign-out failed: %v", err)
			fmt.Println("Sign-out failed.")
		}

	case "play":
		if len(fields) < 2 {
			fmt.Println("usage: play <videoId> [title...]")
			return
		}
		t := track.Track{VideoID: fields[1], Title: strings.Join(fields[2:], " ")}
		if err := mgr.Select(t); err == nil {
			fmt.Printf("Now playing: %s\n", describe(t))
		}

	case "like":
		current := st.CurrentTrack()
		if current == nil {
			fmt.Println("Nothing is playing.")
			return
		}
		if st.IsLiked(current.VideoID) {
			fmt.Println("Already in liked songs.")
			return
		}
		mgr.ToggleLike(*current, false)
		fmt.Printf("Liked: %s\n", describe(*current))

	case "unlike":
		current := st.CurrentTrack()
		if current == nil {
			fmt.Println("Nothing is playing.")
			return
		}
		if !st.IsLiked(current.VideoID) {
			fmt.Println("Not in liked songs.")
			return
		}
		mgr.ToggleLike(*current, true)
		fmt.Printf("Removed from liked songs: %s\n", describe(*current))

	case "move":
		if len(fields) != 3 {
			fmt.Println("usage: move <from> <to>")
			return
		}
		from, err1 := strconv.Atoi(fields[1])
		to, err2 := strconv.Atoi(fields[2])
		if err1 != nil || err2 != nil {
			fmt.Println("usage: move <from> <to>")
			return
		}
		mgr.Reorder(from, to)
		printList("Liked songs", st.LikedSongs())

	case "rm":
		if len(fields) != 2 {
			fmt.Println("usage: rm <videoId>")
			return
		}
		if err := mgr.DeleteRecentlyPlayed(ctx, fields[1]); err == nil {
			printList("Recently played", st.RecentlyPlayed())
		}

	case "next":
		if t, ok := mgr.Next(); ok {
			fmt.Printf("Now playing: %s\n", describe(t))
		} else {
			fmt.Println("No next track.")
		}

	case "prev":
		if t, ok := mgr.Prev(); ok {
			fmt.Printf("Now playing: %s\n", describe(t))
		} else {
			fmt.Println("No previous track.")
		}

	case "now":
		if t := st.CurrentTrack(); t != nil {
			fmt.Printf("Now playing: %s\n", describe(*t))
		} else {
			fmt.Println("Nothing is playing.")
		}

	case "liked":
		printList("Liked songs", st.LikedSongs())

	case "recent":
		printList("Recently played", st.RecentlyPlayed())

	case "whoami":
		if id := st.Identity(); id != nil {
			fmt.Printf("Signed in as %s (%s)\n", id.DisplayName, id.UserID)
		} else {
			fmt.Println("Anonymous session.")
		}

	default:
		fmt.Printf("Unknown command: %s (try 'help')\n", fields[0])
	}
}

func describe(t track.Track) string {
	if t.Title == "" {
		return t.VideoID
	}
	if t.Artist == "" {
		return fmt.Sprintf("%s [%s]", t.Title, t.VideoID)
	}
	return fmt.Sprintf("%s - %s [%s]", t.Artist, t.Title, t.VideoID)
}

func printList(name string, tracks []track.Track) {
	fmt.Printf("%s (%d):\n", name, len(tracks))
	for i, t := range tracks {
		fmt.Printf("  %2d. %s\n", i, describe(t))
	}
}

func printHelp() {
	fmt.Println(`Commands:
  signin | signout | whoami
  play <videoId> [title...]      select a track (records history)
  like | unlike                  toggle the current track in liked songs
  move <from> <to>               reorder liked songs
  next | prev                    navigate within liked songs
  now | liked | recent
  rm <videoId>                   delete a recently played entry
  quit`)
}
