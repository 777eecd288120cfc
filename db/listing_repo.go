package db

import (
	"log"
	"strings"

	"github.com/pkg/errors"
	"github.com/swapshelf/bookswap/models"
	"gorm.io/gorm"
)

type ListingRepository interface {
	CreateListing(listing *models.Listing) (*models.Listing, error)
	FindListingByID(id uint) (*models.Listing, error)
	FilterListings(filter *models.ListingFilter) ([]models.Listing, error)
	FindListingsByOwner(ownerID uint) ([]models.Listing, error)
	RecentListings(limit int) ([]models.Listing, error)
	DistinctGenres() ([]string, error)
	DistinctConditions() ([]string, error)
}

type listingRepo struct {
	DB *gorm.DB
}

func NewListingRepo(db *GormDB) ListingRepository {
	return &listingRepo{db.DB}
}

func (l *listingRepo) CreateListing(listing *models.Listing) (*models.Listing, error) {
	if listing == nil {
		return nil, errors.New("listing is nil")
	}
	result := l.DB.Create(listing)
	if result.Error != nil {
		log.Printf("CreateListing error: %v", result.Error)
		return nil, result.Error
	}
	return listing, nil
}

func (l *listingRepo) FindListingByID(id uint) (*models.Listing, error) {
	var listing models.Listing
	err := l.DB.Preload("Owner").Where("id = ?", id).First(&listing).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, gorm.ErrRecordNotFound
		}
		return nil, errors.Wrap(err, "error finding listing")
	}
	return &listing, nil
}

// FilterListings returns listings newest first. The keyword matches
// case-insensitively as a substring of title, author or description;
// genre and condition are exact matches.
func (l *listingRepo) FilterListings(filter *models.ListingFilter) ([]models.Listing, error) {
	query := l.DB.Model(&models.Listing{}).Preload("Owner")

	if filter != nil {
		if filter.Keyword != "" {
			pattern := "%" + strings.ToLower(filter.Keyword) + "%"
			query = query.Where(
				"LOWER(title) LIKE ? OR LOWER(author) LIKE ? OR LOWER(description) LIKE ?",
				pattern, pattern, pattern,
			)
		}
		if filter.Genre != "" {
			query = query.Where("genre = ?", filter.Genre)
		}
		if filter.Condition != "" {
			query = query.Where("`condition` = ?", filter.Condition)
		}
	}

	var listings []models.Listing
	if err := query.Order("created_at DESC, id DESC").Find(&listings).Error; err != nil {
		log.Printf("FilterListings error: %v", err)
		return nil, err
	}
	return listings, nil
}

func (l *listingRepo) FindListingsByOwner(ownerID uint) ([]models.Listing, error) {
	var listings []models.Listing
	err := l.DB.Where("owner_id = ?", ownerID).Order("created_at DESC, id DESC").Find(&listings).Error
	if err != nil {
		return nil, err
	}
	return listings, nil
}

func (l *listingRepo) RecentListings(limit int) ([]models.Listing, error) {
	var listings []models.Listing
	err := l.DB.Order("created_at DESC, id DESC").Limit(limit).Find(&listings).Error
	if err != nil {
		return nil, err
	}
	return listings, nil
}

func (l *listingRepo) DistinctGenres() ([]string, error) {
	var genres []string
	err := l.DB.Model(&models.Listing{}).
		Where("genre <> ''").
		Distinct().
		Order("genre").
		Pluck("genre", &genres).Error
	if err != nil {
		return nil, err
	}
	return genres, nil
}

func (l *listingRepo) DistinctConditions() ([]string, error) {
	var conditions []string
	err := l.DB.Model(&models.Listing{}).
		Where("`condition` <> ''").
		Distinct().
		Order("`condition`").
		Pluck("condition", &conditions).Error
	if err != nil {
		return nil, err
	}
	return conditions, nil
}
