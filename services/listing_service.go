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

// ListingService interface
type ListingService interface {
	CreateListing(ownerID uint, request *models.CreateListingRequest) (*models.Listing, error)
	Browse(filter *models.ListingFilter) ([]models.Listing, error)
	GetListing(id uint) (*models.Listing, error)
	OwnListings(ownerID uint) ([]models.Listing, error)
	RecentListings(limit int) ([]models.ListingCard, error)
	FilterOptions() (genres []string, conditions []string, err error)
}

type listingService struct {
	Config      *config.Config
	listingRepo db.ListingRepository
}

// NewListingService instantiate a listingService
func NewListingService(listingRepo db.ListingRepository, conf *config.Config) ListingService {
	return &listingService{
		Config:      conf,
		listingRepo: listingRepo,
	}
}

func (s *listingService) CreateListing(ownerID uint, request *models.CreateListingRequest) (*models.Listing, error) {
	if ownerID == 0 {
		return nil, apiError.ErrUnauthorized
	}
	if err := models.ValidateWhiteSpaces(request); err != nil {
		return nil, apiError.ValidationError(err.Error())
	}
	if request.Title == "" || request.Author == "" {
		return nil, apiError.ValidationError("title and author are required")
	}
	if !models.ValidCondition(request.Condition) {
		return nil, apiError.ValidationError("unknown condition")
	}

	listing := &models.Listing{
		Title:       request.Title,
		Author:      request.Author,
		Genre:       request.Genre,
		Condition:   request.Condition,
		Description: request.Description,
		OwnerID:     ownerID,
	}
	listing, err := s.listingRepo.CreateListing(listing)
	if err != nil {
		log.Printf("CreateListing error: %v", err)
		return nil, apiError.ErrInternalServerError
	}
	return listing, nil
}

// Browse returns listings newest first, narrowed by the optional filter.
func (s *listingService) Browse(filter *models.ListingFilter) ([]models.Listing, error) {
	if filter != nil {
		if err := models.ValidateWhiteSpaces(filter); err != nil {
			return nil, apiError.ValidationError(err.Error())
		}
	}
	listings, err := s.listingRepo.FilterListings(filter)
	if err != nil {
		return nil, apiError.ErrInternalServerError
	}
	return listings, nil
}

func (s *listingService) GetListing(id uint) (*models.Listing, error) {
	listing, err := s.listingRepo.FindListingByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apiError.New("listing not found", http.StatusNotFound)
		}
		return nil, apiError.ErrInternalServerError
	}
	return listing, nil
}

func (s *listingService) OwnListings(ownerID uint) ([]models.Listing, error) {
	if ownerID == 0 {
		return nil, apiError.ErrUnauthorized
	}
	listings, err := s.listingRepo.FindListingsByOwner(ownerID)
	if err != nil {
		return nil, apiError.ErrInternalServerError
	}
	return listings, nil
}

// RecentListings shapes the newest listings for the embedded page data
// consumed by the client-side filter widget.
func (s *listingService) RecentListings(limit int) ([]models.ListingCard, error) {
	listings, err := s.listingRepo.RecentListings(limit)
	if err != nil {
		return nil, apiError.ErrInternalServerError
	}
	cards := make([]models.ListingCard, 0, len(listings))
	for i := range listings {
		cards = append(cards, models.NewListingCard(&listings[i]))
	}
	return cards, nil
}

// FilterOptions returns the distinct genres and conditions in use, for
// the browse page dropdowns.
func (s *listingService) FilterOptions() ([]string, []string, error) {
	genres, err := s.listingRepo.DistinctGenres()
	if err != nil {
		return nil, nil, apiError.ErrInternalServerError
	}
	conditions, err := s.listingRepo.DistinctConditions()
	if err != nil {
		return nil, nil, apiError.ErrInternalServerError
	}
	return genres, conditions, nil
}
