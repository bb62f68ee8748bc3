package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	cfg "github.com/automoto/doomerang-arena/config"
	"github.com/automoto/doomerang-arena/server/core"
)

func main() {
	port := flag.Uint("port", cfg.Relay.Port, "Server port")
	tickRate := flag.Int("tickrate", cfg.Relay.TickRate, "Presence flushes per second")
	kinds := flag.String("kinds", strings.Join(cfg.Relay.AllowedKinds, ","), "Comma-separated room kinds this relay hosts")
	verbose := flag.Bool("verbose", false, "Log per-message detail")
	flag.Parse()

	cfg.Debug.Verbose = *verbose

	var allowed []string
	for _, k := range strings.Split(*kinds, ",") {
		if k = strings.TrimSpace(k); k != "" {
			allowed = append(allowed, k)
		}
	}

	server := core.NewServer(*tickRate, allowed)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Println("Shutting down relay...")
		server.Stop()
		os.Exit(0)
	}()

	log.Printf("Starting doomerang-arena relay on port %d (tick rate: %d/s, kinds: %s)",
		*port, *tickRate, strings.Join(allowed, ","))
	if err := server.Start(*port); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
