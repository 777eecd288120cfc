package models

import "time"

// Book conditions a listing may advertise.
const (
	ConditionNew  = "New"
	ConditionGood = "Good"
	ConditionFair = "Fair"
	ConditionPoor = "Poor"
)

// Conditions lists the accepted condition values in display order.
var Conditions = []string{ConditionNew, ConditionGood, ConditionFair, ConditionPoor}

// ValidCondition reports whether s is one of the accepted condition values.
// The empty string is allowed; condition is optional on a listing.
func ValidCondition(s string) bool {
	if s == "" {
		return true
	}
	for _, c := range Conditions {
		if s == c {
			return true
		}
	}
	return false
}

// Listing represents a book offered for exchange.
type Listing struct {
	Model
	Title       string `json:"title" gorm:"not null"`
	Author      string `json:"author" gorm:"not null"`
	Genre       string `json:"genre,omitempty"`
	Condition   string `json:"condition,omitempty"`
	Description string `json:"description,omitempty" gorm:"type:text"`
	OwnerID     uint   `json:"owner_id" gorm:"not null;index"`
	Owner       User   `json:"-" gorm:"foreignKey:OwnerID"`

	Messages []Message `json:"-" gorm:"foreignKey:ListingID"`
}

type CreateListingRequest struct {
	Title       string `json:"title" form:"title" binding:"required" conform:"trim"`
	Author      string `json:"author" form:"author" binding:"required" conform:"trim"`
	Genre       string `json:"genre" form:"genre" conform:"trim"`
	Condition   string `json:"condition" form:"condition" binding:"omitempty,bookcondition" conform:"trim"`
	Description string `json:"description" form:"description" conform:"trim"`
}

// ListingFilter narrows a browse query. Zero values mean "no constraint".
type ListingFilter struct {
	Keyword   string `json:"q" form:"q" conform:"trim"`
	Genre     string `json:"genre" form:"genre" conform:"trim"`
	Condition string `json:"condition" form:"condition" conform:"trim"`
}

type ListingResponse struct {
	ID            uint      `json:"id"`
	Title         string    `json:"title"`
	Author        string    `json:"author"`
	Genre         string    `json:"genre,omitempty"`
	Condition     string    `json:"condition,omitempty"`
	Description   string    `json:"description,omitempty"`
	OwnerID       uint      `json:"owner_id"`
	OwnerUsername string    `json:"owner_username"`
	CreatedAt     time.Time `json:"created_at"`
}

// ListingCard is the trimmed shape embedded as page data for the
// client-side filter widget.
type ListingCard struct {
	ID        uint      `json:"id"`
	Title     string    `json:"title"`
	Author    string    `json:"author"`
	Genre     string    `json:"genre"`
	Condition string    `json:"condition"`
	CreatedAt time.Time `json:"created_at"`
}

// NewListingResponse shapes a listing with its owner's public identity.
func NewListingResponse(l *Listing) *ListingResponse {
	return &ListingResponse{
		ID:            l.ID,
		Title:         l.Title,
		Author:        l.Author,
		Genre:         l.Genre,
		Condition:     l.Condition,
		Description:   l.Description,
		OwnerID:       l.OwnerID,
		OwnerUsername: l.Owner.Username,
		CreatedAt:     l.CreatedAt,
	}
}

// NewListingCard shapes a listing for the embedded page data array.
func NewListingCard(l *Listing) ListingCard {
	return ListingCard{
		ID:        l.ID,
		Title:     l.Title,
		Author:    l.Author,
		Genre:     l.Genre,
		Condition: l.Condition,
		CreatedAt: l.CreatedAt,
	}
}
