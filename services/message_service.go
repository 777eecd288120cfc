package services

import (
	"log"
	"net/http"

	"github.com/pkg/errors"
	"github.com/swapshelf/bookswap/config"
	"github.com/swapshelf/bookswap/db"
	apiError "github.com/swapshelf/bookswap/errors"
	"github.com/swapshelf/bookswap/models"
	"gorm.io/gorm"
)

// MessageService interface
type MessageService interface {
	SendMessage(senderID uint, request *models.SendMessageRequest) (*models.Message, error)
	GetThread(userID, listingID uint) ([]models.Message, error)
	GetOverview(userID uint) ([]models.ConversationSummary, error)
}

type messageService struct {
	Config      *config.Config
	messageRepo db.MessageRepository
	listingRepo db.ListingRepository
}

// NewMessageService instantiate a messageService
func NewMessageService(messageRepo db.MessageRepository, listingRepo db.ListingRepository, conf *config.Config) MessageService {
	return &messageService{
		Config:      conf,
		messageRepo: messageRepo,
		listingRepo: listingRepo,
	}
}

// SendMessage stores a message from senderID to the owner of the listing.
// Messaging yourself about your own listing is rejected.
func (s *messageService) SendMessage(senderID uint, request *models.SendMessageRequest) (*models.Message, error) {
	if senderID == 0 {
		return nil, apiError.ErrUnauthorized
	}
	if err := models.ValidateWhiteSpaces(request); err != nil {
		return nil, apiError.ValidationError(err.Error())
	}
	if request.Body == "" {
		return nil, apiError.ValidationError("message body is required")
	}

	listing, err := s.listingRepo.FindListingByID(request.ListingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apiError.New("listing not found", http.StatusNotFound)
		}
		return nil, apiError.ErrInternalServerError
	}
	if listing.OwnerID == senderID {
		return nil, apiError.ValidationError("you cannot message yourself about your own listing")
	}

	message := &models.Message{
		SenderID:   senderID,
		ReceiverID: listing.OwnerID,
		ListingID:  listing.ID,
		Body:       request.Body,
	}
	message, err = s.messageRepo.CreateMessage(message)
	if err != nil {
		log.Printf("SendMessage error: %v", err)
		return nil, apiError.ErrInternalServerError
	}
	return message, nil
}

// GetThread returns the conversation between userID and the listing owner
// for that listing, oldest first. The owner is party to every message on
// their listing, so for the owner the thread is all of them.
func (s *messageService) GetThread(userID, listingID uint) ([]models.Message, error) {
	if userID == 0 {
		return nil, apiError.ErrUnauthorized
	}
	listing, err := s.listingRepo.FindListingByID(listingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apiError.New("listing not found", http.StatusNotFound)
		}
		return nil, apiError.ErrInternalServerError
	}

	var messages []models.Message
	if userID == listing.OwnerID {
		messages, err = s.messageRepo.FindMessagesForListing(listing.ID)
	} else {
		messages, err = s.messageRepo.FindThread(listing.ID, userID, listing.OwnerID)
	}
	if err != nil {
		return nil, apiError.ErrInternalServerError
	}
	return messages, nil
}

// GetOverview groups the user's messages by (counterpart, listing) and
// keeps the latest message of each group, most recent first.
func (s *messageService) GetOverview(userID uint) ([]models.ConversationSummary, error) {
	if userID == 0 {
		return nil, apiError.ErrUnauthorized
	}
	messages, err := s.messageRepo.FindMessagesInvolving(userID)
	if err != nil {
		return nil, apiError.ErrInternalServerError
	}

	type key struct {
		listingID     uint
		counterpartID uint
	}
	seen := make(map[key]bool)
	summaries := make([]models.ConversationSummary, 0)

	// Messages arrive newest first, so the first message of each group
	// is the latest one.
	for i := range messages {
		msg := &messages[i]
		counterpart := msg.Sender
		counterpartID := msg.SenderID
		if msg.SenderID == userID {
			counterpart = msg.Receiver
			counterpartID = msg.ReceiverID
		}
		k := key{listingID: msg.ListingID, counterpartID: counterpartID}
		if seen[k] {
			continue
		}
		seen[k] = true
		summaries = append(summaries, models.ConversationSummary{
			ListingID:           msg.ListingID,
			ListingTitle:        msg.Listing.Title,
			CounterpartID:       counterpartID,
			CounterpartUsername: counterpart.Username,
			LastMessageBody:     msg.Body,
			LastMessageAt:       msg.CreatedAt,
			LastMessageFromMe:   msg.SenderID == userID,
		})
	}
	return summaries, nil
}
