package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/foxden/kitsune/internal/database"
	"github.com/foxden/kitsune/internal/logging"
	"github.com/foxden/kitsune/internal/loyalty"
	"github.com/foxden/kitsune/internal/server"
)

func main() {
	logger := logging.Setup(os.Getenv("KITSUNE_LOG_LEVEL"))

	addr := os.Getenv("KITSUNE_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	dbPath := os.Getenv("KITSUNE_DB_PATH")
	if dbPath == "" {
		dbPath = "kitsune.db"
	}

	staffKeyHash := os.Getenv("KITSUNE_STAFF_KEY_HASH")
	if staffKeyHash == "" {
		log.Fatal("KITSUNE_STAFF_KEY_HASH is required; generate one with the staffkey tool")
	}

	staffIDs, err := parseStaffIDs(os.Getenv("KITSUNE_STAFF_IDS"))
	if err != nil {
		log.Fatalf("invalid KITSUNE_STAFF_IDS: %v", err)
	}

	ladder := loyalty.DefaultLadder()
	if path := os.Getenv("KITSUNE_TIERS_PATH"); path != "" {
		ladder, err = loyalty.LoadLadder(path)
		if err != nil {
			log.Fatalf("failed to load tier ladder: %v", err)
		}
		logger.Info("loaded tier ladder", "path", path, "tiers", len(ladder))
	}

	db, err := database.Open(dbPath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	srv := server.New(db, ladder, staffIDs, staffKeyHash, logger)

	// No WriteTimeout: the chat and feed websockets are long-lived and a
	// server-wide write deadline would tear them down.
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	cleanupDone := make(chan struct{})
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				srv.RateLimiter().Cleanup()
			case <-cleanupDone:
				return
			}
		}
	}()

	go func() {
		fmt.Printf("Kitsune tea house running at http://localhost%s\n", addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	fmt.Println("\nShutting down...")
	close(cleanupDone)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Fatalf("shutdown error: %v", err)
	}
}

// parseStaffIDs splits a comma-separated list of sender IDs. An empty value
// means no staff members can use in-chat staff actions.
func parseStaffIDs(raw string) ([]int64, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}

	parts := strings.Split(raw, ",")
	ids := make([]int64, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse staff id %q: %w", p, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
