package main

import (
	"log"

	"github.com/swapshelf/bookswap/config"
	"github.com/swapshelf/bookswap/db"
	"github.com/swapshelf/bookswap/server"
	"github.com/swapshelf/bookswap/services"
)

func main() {
	conf, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	gormDB := db.GetDB(conf)
	authRepo := db.NewAuthRepo(gormDB)
	listingRepo := db.NewListingRepo(gormDB)
	messageRepo := db.NewMessageRepo(gormDB)

	authService := services.NewAuthService(authRepo, conf)
	listingService := services.NewListingService(listingRepo, conf)
	messageService := services.NewMessageService(messageRepo, listingRepo, conf)

	s := &server.Server{
		Config:            conf,
		AuthRepository:    authRepo,
		AuthService:       authService,
		ListingRepository: listingRepo,
		ListingService:    listingService,
		MessageRepository: messageRepo,
		MessageService:    messageService,
		DB:                *gormDB,
	}

	s.Start()
}
