// Command checkersd runs the checkers REST API server.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/yourusername/checkers/pkg/api"
	"github.com/yourusername/checkers/pkg/engine"
)

const version = "0.1.0"

func main() {
	// Command line flags
	host := flag.String("host", "localhost", "Host to bind to (use 0.0.0.0 for all interfaces)")
	port := flag.Int("port", 8080, "Port to listen on")
	depth := flag.Int("depth", engine.DefaultDepth, "Default engine search depth")
	workers := flag.Int("workers", 0, "Search goroutines per request (0 = GOMAXPROCS)")
	cacheSize := flag.Int("cache", engine.DefaultCacheSize, "Analysis cache entries (negative disables)")
	maxSearches := flag.Int("max-searches", 4, "Concurrent searches before requests queue")
	queueTimeout := flag.Duration("queue-timeout", 30*time.Second, "Max wait for a search slot (negative = no limit)")
	sessionTTL := flag.Duration("session-ttl", time.Hour, "Drop games idle this long (negative = never)")
	readTimeout := flag.Duration("read-timeout", 30*time.Second, "HTTP read timeout")
	writeTimeout := flag.Duration("write-timeout", 60*time.Second, "HTTP write timeout")
	logSearches := flag.Bool("log-searches", false, "Log every engine search")
	showVersion := flag.Bool("version", false, "Show version and exit")

	flag.Parse()

	if *showVersion {
		fmt.Printf("Checkers API Server v%s\n", version)
		os.Exit(0)
	}

	log.Printf("Checkers API Server v%s", version)

	opts := engine.EngineOptions{
		Depth:     *depth,
		Rules:     engine.DefaultRules(),
		Workers:   *workers,
		CacheSize: *cacheSize,
	}
	if *logSearches {
		opts.Logger = log.Default()
	}
	eng := engine.NewEngine(opts)

	config := api.DefaultConfig()
	config.Host = *host
	config.Port = *port
	config.ReadTimeout = *readTimeout
	config.WriteTimeout = *writeTimeout
	config.MaxSlowWorkers = *maxSearches
	config.SessionTTL = *sessionTTL
	config.QueueTimeout = *queueTimeout

	server := api.NewServer(eng, config, version)

	if err := server.ListenAndServeWithGracefulShutdown(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
