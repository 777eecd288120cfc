package db

import (
	"log"

	"github.com/pkg/errors"
	"github.com/swapshelf/bookswap/models"
	"gorm.io/gorm"
)

type MessageRepository interface {
	CreateMessage(message *models.Message) (*models.Message, error)
	FindThread(listingID, userA, userB uint) ([]models.Message, error)
	FindMessagesForListing(listingID uint) ([]models.Message, error)
	FindMessagesInvolving(userID uint) ([]models.Message, error)
}

type messageRepo struct {
	DB *gorm.DB
}

func NewMessageRepo(db *GormDB) MessageRepository {
	return &messageRepo{db.DB}
}

func (m *messageRepo) CreateMessage(message *models.Message) (*models.Message, error) {
	if message == nil {
		return nil, errors.New("message is nil")
	}
	result := m.DB.Create(message)
	if result.Error != nil {
		log.Printf("CreateMessage error: %v", result.Error)
		return nil, result.Error
	}
	return message, nil
}

// FindThread returns every message between userA and userB about one
// listing, oldest first. The pair is unordered; both participants see
// the identical sequence.
func (m *messageRepo) FindThread(listingID, userA, userB uint) ([]models.Message, error) {
	var messages []models.Message
	err := m.DB.Preload("Sender").Preload("Receiver").
		Where("listing_id = ?", listingID).
		Where(
			m.DB.Where("sender_id = ? AND receiver_id = ?", userA, userB).
				Or("sender_id = ? AND receiver_id = ?", userB, userA),
		).
		Order("created_at ASC, id ASC").
		Find(&messages).Error
	if err != nil {
		log.Printf("FindThread error: %v", err)
		return nil, err
	}
	return messages, nil
}

// FindMessagesForListing returns every message about one listing, oldest
// first. The listing owner is party to all of them.
func (m *messageRepo) FindMessagesForListing(listingID uint) ([]models.Message, error) {
	var messages []models.Message
	err := m.DB.Preload("Sender").Preload("Receiver").
		Where("listing_id = ?", listingID).
		Order("created_at ASC, id ASC").
		Find(&messages).Error
	if err != nil {
		log.Printf("FindMessagesForListing error: %v", err)
		return nil, err
	}
	return messages, nil
}

// FindMessagesInvolving returns every message the user sent or received,
// newest first, with sender, receiver and listing preloaded. The overview
// grouping happens in the service.
func (m *messageRepo) FindMessagesInvolving(userID uint) ([]models.Message, error) {
	var messages []models.Message
	err := m.DB.Preload("Sender").Preload("Receiver").Preload("Listing").
		Where("sender_id = ? OR receiver_id = ?", userID, userID).
		Order("created_at DESC, id DESC").
		Find(&messages).Error
	if err != nil {
		log.Printf("FindMessagesInvolving error: %v", err)
		return nil, err
	}
	return messages, nil
}
