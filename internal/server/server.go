// Package server provides HTTP server initialization and lifecycle management
// for the Loreweaver API.
package server

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/thornquist/loreweaver/internal/config"
	"github.com/thornquist/loreweaver/internal/engine"
	"github.com/thornquist/loreweaver/web/handlers"
)

// securityHeadersMiddleware adds security headers to all HTTP responses.
func securityHeadersMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("X-XSS-Protection", "1; mode=block")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}

// Start initializes and starts the HTTP server over the given engine.
// Returns the actual address being listened on (useful for testing with
// port 0) and the FeedHub, already registered with the engine so world
// happenings stream to connected clients.
func Start(ctx context.Context, cfg *config.Config, eng *engine.Engine) (string, *handlers.FeedHub) {
	mux := http.NewServeMux()

	// Create the live feed hub and wire it into the engine
	feedHub := handlers.NewFeedHub()
	go feedHub.Run()
	eng.AddBroadcaster(feedHub)

	rateLimiter := handlers.NewRateLimiter(cfg.Security.RateLimit, cfg.Security.RateLimitBurst)

	apiHandlers := handlers.NewAPIHandlers(eng)

	// API routes (require auth in production mode)
	apiMux := http.NewServeMux()
	apiMux.HandleFunc("/api/characters", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			apiHandlers.ListCharacters(w, r)
		case http.MethodPost:
			apiHandlers.CreateCharacter(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})
	apiMux.HandleFunc("/api/characters/{id}", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			apiHandlers.GetCharacter(w, r)
		} else {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})
	apiMux.HandleFunc("/api/characters/{id}/mood", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPut {
			apiHandlers.UpdateCharacterMood(w, r)
		} else {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})

	apiMux.HandleFunc("/api/conversations", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			apiHandlers.ListConversations(w, r)
		case http.MethodPost:
			apiHandlers.StartConversation(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})
	apiMux.HandleFunc("/api/conversations/{id}", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			apiHandlers.GetConversation(w, r)
		} else {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})
	apiMux.HandleFunc("/api/conversations/{id}/messages", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			apiHandlers.GetMessages(w, r)
		case http.MethodPost:
			apiHandlers.SendMessage(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})

	apiMux.HandleFunc("/api/quests", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			apiHandlers.ListQuests(w, r)
		} else {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})
	apiMux.HandleFunc("/api/quests/{id}", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			apiHandlers.GetQuest(w, r)
		} else {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})
	apiMux.HandleFunc("POST /api/quests/{id}/accept", apiHandlers.AcceptQuest)
	apiMux.HandleFunc("POST /api/quests/{id}/progress", apiHandlers.UpdateQuestProgress)
	apiMux.HandleFunc("POST /api/quests/{id}/complete", apiHandlers.CompleteQuest)
	apiMux.HandleFunc("POST /api/quests/{id}/abandon", apiHandlers.AbandonQuest)

	apiMux.HandleFunc("/api/world/events", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			apiHandlers.ListActiveEvents(w, r)
		case http.MethodPost:
			apiHandlers.CreateEvent(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})
	apiMux.HandleFunc("GET /api/world/events/all", apiHandlers.ListAllEvents)
	apiMux.HandleFunc("POST /api/world/events/generate", apiHandlers.GenerateEvent)
	apiMux.HandleFunc("POST /api/world/events/{id}/deactivate", apiHandlers.DeactivateEvent)

	// Health endpoint - no auth required, used by monitoring
	mux.HandleFunc("/api/health", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy","version":"1.0.0"}`))
	})

	// Wrap API routes with auth middleware
	mux.Handle("/api/", handlers.RequireAuth(apiMux, cfg))

	// WebSocket endpoint (no auth required - origin validation handles security)
	mux.Handle("/ws", feedHub)

	// Wrap entire server with rate limiting, then security headers
	handler := handlers.RateLimitMiddleware(mux, rateLimiter)
	handler = securityHeadersMiddleware(handler)

	// Create server with security timeouts
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		log.Fatalf("Failed to listen on %s: %v", addr, err)
	}

	actualAddr := listener.Addr().String()

	go func() {
		if err := server.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Printf("Server error: %v", err)
		}
	}()

	// Handle graceful shutdown
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
		feedHub.Stop()
	}()

	return actualAddr, feedHub
}
