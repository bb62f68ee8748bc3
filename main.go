package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/automoto/doomerang-arena/assets"
	"github.com/automoto/doomerang-arena/bot"
	cfg "github.com/automoto/doomerang-arena/config"
	"github.com/automoto/doomerang-arena/identity"
	"github.com/automoto/doomerang-arena/network"
	"github.com/automoto/doomerang-arena/session"
	"github.com/automoto/doomerang-arena/ui"
	"github.com/gdamore/tcell/v2"
)

const appName = "doomerang-arena"

// headlessReportInterval is how often the bot prints its HUD line.
const headlessReportInterval = 5 * time.Second

func main() {
	addr := flag.String("addr", cfg.Client.ServerAddr, "Relay address (host:port)")
	room := flag.String("room", cfg.Room.ID, "Room id")
	kind := flag.String("kind", cfg.Room.PrimaryKind, "Preferred room kind")
	fallback := flag.Bool("fallback", cfg.Room.AllowFallback, "Fall back to the shared room kind if the preferred one fails")
	name := flag.String("name", "", "Display name (defaults to the saved guest name)")
	botMode := flag.Bool("bot", false, "Run a headless bot instead of the terminal UI")
	debug := flag.Bool("debug", false, "Verbose logging")
	logFile := flag.String("logfile", "", "Write logs to this file")
	seed := flag.Uint64("seed", 0, "Random seed (0 = time based)")
	flag.Parse()

	cfg.Debug.Verbose = *debug
	cfg.Room.ID = *room
	cfg.Room.PrimaryKind = *kind
	cfg.Room.AllowFallback = *fallback

	closeLog, err := setupLogging(*logFile, *botMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "log setup: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	if *seed == 0 {
		*seed = uint64(time.Now().UnixNano())
	}
	rng := rand.New(rand.NewPCG(*seed, *seed>>32|1))

	var storage identity.Storage = identity.NewMemStorage()
	if !*botMode {
		if s, err := identity.OpenStorage(appName); err != nil {
			log.Printf("Profile storage unavailable, using memory: %v", err)
		} else {
			storage = s
		}
	}
	guests := identity.NewGuestStore(storage, rng)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	profile, err := guests.SignInAsGuest(ctx)
	if err != nil {
		log.Fatalf("Sign-in failed: %v", err)
	}
	if *name != "" {
		if err := guests.Rename(*name); err != nil {
			log.Printf("Rename failed: %v", err)
		}
	}

	client := network.NewClient(*addr)
	client.SetToken(profile.ID)
	defer client.Close()

	arena := assets.LoadArena()
	sess := session.New(client, guests, arena, rng)
	defer sess.Leave()

	if err := sess.Connect(ctx); err != nil {
		log.Printf("Connect failed: %v", err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	if *botMode {
		runHeadless(ctx, sess, bot.NewDriver(rng, arena.MaxPlayerX), sigChan)
		return
	}

	screen, err := ui.NewScreen(arena.MaxPlayerX)
	if err != nil {
		log.Fatalf("Terminal init failed: %v", err)
	}
	defer screen.Fini()
	sess.Registry().SetObserver(screen.Observer())
	runInteractive(ctx, sess, screen, sigChan)
}

// setupLogging keeps log output off the terminal UI. The headless bot logs to
// stderr unless a file is given.
func setupLogging(path string, headless bool) (func(), error) {
	if path == "" {
		if !headless {
			log.SetOutput(io.Discard)
		}
		return func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	log.SetOutput(f)
	return func() { _ = f.Close() }, nil
}

func runInteractive(ctx context.Context, sess *session.Session, screen *ui.Screen, sigChan <-chan os.Signal) {
	done := make(chan struct{})
	defer close(done)
	events := screen.Events(done)

	ticker := time.NewTicker(time.Second / time.Duration(cfg.Client.TickRate))
	defer ticker.Stop()
	last := time.Now()

	for {
		select {
		case <-sigChan:
			return
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventResize:
				screen.Sync()
			case *tcell.EventKey:
				if !handleKey(sess, ev) {
					return
				}
			}
		case now := <-ticker.C:
			delta := now.Sub(last).Seconds()
			last = now
			sess.Tick(ctx, delta)
			for _, cue := range sess.DrainCues() {
				screen.Cue(cue)
			}
			screen.Draw(sess.View())
		}
	}
}

// handleKey applies one key press. It returns false when the player quits.
func handleKey(sess *session.Session, ev *tcell.EventKey) bool {
	step := cfg.Input.MoveStep
	switch cfg.ActionFor(ev.Key(), ev.Rune()) {
	case cfg.ActionQuit:
		return false
	case cfg.ActionToggleControl:
		sess.SetControlled(!sess.Controlled())
	case cfg.ActionMoveForward:
		sess.Move(1, 0, step)
	case cfg.ActionMoveBack:
		sess.Move(-1, 0, step)
	case cfg.ActionStrafeLeft:
		sess.Move(0, -1, step)
	case cfg.ActionStrafeRight:
		sess.Move(0, 1, step)
	case cfg.ActionTurnLeft:
		sess.Look(cfg.Input.TurnStep, 0)
	case cfg.ActionTurnRight:
		sess.Look(-cfg.Input.TurnStep, 0)
	case cfg.ActionLookUp:
		sess.Look(0, cfg.Input.PitchStep)
	case cfg.ActionLookDown:
		sess.Look(0, -cfg.Input.PitchStep)
	case cfg.ActionShoot:
		sess.Shoot()
	}
	return true
}

func runHeadless(ctx context.Context, sess *session.Session, driver *bot.Driver, sigChan <-chan os.Signal) {
	sess.SetControlled(true)

	ticker := time.NewTicker(time.Second / time.Duration(cfg.Client.TickRate))
	defer ticker.Stop()
	report := time.NewTicker(headlessReportInterval)
	defer report.Stop()
	last := time.Now()

	for {
		select {
		case <-sigChan:
			log.Println("Bot shutting down")
			return
		case <-report.C:
			v := sess.View()
			log.Printf("[bot] %s | %s | %s", ui.HUDLine(v), ui.HealthLine(v), v.Status)
		case now := <-ticker.C:
			delta := now.Sub(last).Seconds()
			last = now
			bot.Apply(sess, driver.Step(sess.View(), delta), delta)
			sess.Tick(ctx, delta)
			for _, cue := range sess.DrainCues() {
				if cfg.Debug.Verbose {
					log.Printf("[bot] cue %s", cue)
				}
			}
		}
	}
}
