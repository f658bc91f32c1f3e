// Command phonond runs the decoder worker as a standalone daemon,
// driven by a line-oriented controller read from stdin. The controller
// protocol itself (a player thread with its own UI) is out of scope;
// this harness exists to exercise the worker end to end.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/time/rate"

	"github.com/mx-silva/phonond/internal/config"
	"github.com/mx-silva/phonond/internal/control"
	"github.com/mx-silva/phonond/internal/decoder"
	"github.com/mx-silva/phonond/internal/decoder/plugins"
	"github.com/mx-silva/phonond/internal/sink"
	"github.com/mx-silva/phonond/internal/stream"
)

var (
	configPath = flag.String("config", "", "Path to configuration file")
	debug      = flag.Bool("debug", false, "Enable debug logging for all components")
	Version    = "dev"
)

func main() {
	flag.Parse()

	if *debug {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
		log.Println("[MAIN] Debug mode enabled - all components will log detailed information")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("[MAIN] Failed to load config: %v", err)
	}
	if *debug {
		cfg.Debug = true
		log.Printf("[MAIN] Configuration loaded successfully")
		log.Printf("[MAIN] - Library root: %s", cfg.Library.Root)
		log.Printf("[MAIN] - Sinks: %d configured", len(cfg.Sinks))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	worker, err := buildWorker(cfg)
	if err != nil {
		log.Fatalf("[MAIN] Failed to build worker: %v", err)
	}

	go worker.Run(ctx)
	setupGracefulShutdown(cancel, worker.Sink)

	runController(ctx, worker.State)
}

// buildWorker wires config, the decoder registry, a sink, and an HTTP
// opener into a ready-to-run decoder.Worker.
func buildWorker(cfg *config.Config) (*decoder.Worker, error) {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = cfg.Network.Retries
	retryClient.HTTPClient.Timeout = time.Duration(cfg.Network.TimeoutSeconds) * time.Second
	retryClient.Logger = nil

	pacer := rate.NewLimiter(rate.Limit(cfg.Network.RequestsPerSecond), cfg.Network.Burst)

	opener := &stream.DefaultOpener{
		HTTPClient: retryClient,
		Pacer:      pacer,
		Debug:      cfg.Debug,
	}

	registry := decoder.NewRegistry()
	plugins.RegisterAll(registry)

	sinkRegistry := sink.NewRegistry()
	sinkRegistry.Register("portaudio", sink.NewPortaudioSink)
	sinkRegistry.Register("pipe", sink.NewPipeSink)

	if len(cfg.Sinks) == 0 {
		return nil, fmt.Errorf("no sinks configured")
	}
	chosen := cfg.Sinks[0]
	snk, err := sinkRegistry.Build(sink.Config{
		Name:    chosen.Name,
		Plugin:  chosen.Plugin,
		Options: chosen.Options,
	})
	if err != nil {
		return nil, fmt.Errorf("build sink %q: %w", chosen.Name, err)
	}

	return &decoder.Worker{
		State:       control.NewControlState(),
		Registry:    registry,
		Opener:      opener,
		Sink:        snk,
		LibraryRoot: cfg.Library.Root,
		MaxPathLen:  cfg.Library.MaxPathLength,
		Debug:       cfg.Debug,
	}, nil
}

func setupGracefulShutdown(cancel context.CancelFunc, snk sink.Sink) {
	go func() {
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)

		sig := <-c
		log.Printf("[MAIN] Received signal: %v", sig)
		log.Printf("[MAIN] Initiating graceful shutdown...")

		cancel()
		_ = snk.Close()

		log.Printf("[MAIN] Graceful shutdown completed")
		os.Exit(0)
	}()
}

// runController is a minimal stand-in for the out-of-scope player
// thread: it reads commands from stdin and drives the shared
// control.ControlState, printing the worker's state after each
// round-trip.
func runController(ctx context.Context, state *control.ControlState) {
	fmt.Println("phonond ready. commands: play <path-or-url>, seek <seconds>, stop, quit")
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "play":
			if len(fields) < 2 {
				fmt.Println("usage: play <path-or-url>")
				continue
			}
			state.SetNextSong(parseSong(fields[1]))
			state.SetCommand(control.CommandStart)
			state.NotifyWorker.Signal()
			state.NotifyController.Wait()

		case "seek":
			if len(fields) < 2 {
				fmt.Println("usage: seek <seconds>")
				continue
			}
			secs, err := strconv.ParseFloat(fields[1], 64)
			if err != nil {
				fmt.Printf("bad seek offset: %v\n", err)
				continue
			}
			state.SetSeekWhere(time.Duration(secs * float64(time.Second)))
			state.SetCommand(control.CommandSeek)
			state.NotifyWorker.Signal()

		case "stop":
			state.SetCommand(control.CommandStop)
			state.NotifyWorker.Signal()
			state.NotifyController.Wait()

		case "quit":
			return

		default:
			fmt.Printf("unknown command %q\n", fields[0])
			continue
		}

		fmt.Printf("state=%s error=%s\n", state.State(), state.Error())
	}
}

func parseSong(arg string) stream.Song {
	if strings.HasPrefix(arg, "http://") || strings.HasPrefix(arg, "https://") {
		return stream.Song{URL: arg}
	}
	return stream.Song{Path: arg}
}
