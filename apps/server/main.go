package main

import (
	"log"
	"net/http"
	"os"
	"strings"

	"pokernight/apps/server/internal/auth"
	"pokernight/apps/server/internal/gateway"
	"pokernight/apps/server/internal/room"
	"pokernight/eventlog"
)

func main() {
	authService, authMode, err := auth.NewServiceFromEnv()
	if err != nil {
		log.Fatalf("[Server] Failed to init auth service: %v", err)
	}
	defer authService.Close()

	store, storeMode, err := eventlog.NewStoreFromEnv(authMode)
	if err != nil {
		log.Fatalf("[Server] Failed to init event log: %v", err)
	}
	defer store.Close()

	registry := room.NewRegistry(store)
	gw := gateway.New(registry, authService)
	authHTTP := auth.NewHTTPHandler(authService)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", gw.HandleWebSocket)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	authHTTP.RegisterRoutes(mux)

	addr := listenAddrFromEnv()
	log.Printf("[Server] Auth mode: %s", authMode)
	log.Printf("[Server] Event log mode: %s", storeMode)
	log.Printf("[Server] Starting WebSocket server on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("[Server] Failed to start: %v", err)
	}
}

func listenAddrFromEnv() string {
	if v := strings.TrimSpace(os.Getenv("LISTEN_ADDR")); v != "" {
		return v
	}
	return ":8080"
}
