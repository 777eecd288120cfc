package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/swapshelf/bookswap/config"
	"github.com/swapshelf/bookswap/db"
	"github.com/swapshelf/bookswap/services"
)

type Server struct {
	Config            *config.Config
	AuthRepository    db.AuthRepository
	AuthService       services.AuthService
	ListingRepository db.ListingRepository
	ListingService    services.ListingService
	MessageRepository db.MessageRepository
	MessageService    services.MessageService
	DB                db.GormDB
}

// Start runs the HTTP server until an interrupt arrives, then shuts it
// down gracefully.
func (s *Server) Start() {
	r := s.setupRouter()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.Config.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server started on port %d", s.Config.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	log.Println("Server exited")
}
