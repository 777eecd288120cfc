package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/swapshelf/bookswap/errors"
	"github.com/swapshelf/bookswap/models"
	"github.com/swapshelf/bookswap/server/response"
)

func (s *Server) handleGetListings() gin.HandlerFunc {
	return func(c *gin.Context) {
		var filter models.ListingFilter
		if err := c.ShouldBindQuery(&filter); err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, err)
			return
		}

		listings, err := s.ListingService.Browse(&filter)
		if err != nil {
			response.JSON(c, "", errors.Status(err), nil, err)
			return
		}

		results := make([]*models.ListingResponse, 0, len(listings))
		for i := range listings {
			results = append(results, models.NewListingResponse(&listings[i]))
		}
		response.JSON(c, "", http.StatusOK, results, nil)
	}
}

func (s *Server) handleGetListing() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := parseIDParam(c, "id")
		if err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, err)
			return
		}

		listing, svcErr := s.ListingService.GetListing(id)
		if svcErr != nil {
			response.JSON(c, "", errors.Status(svcErr), nil, svcErr)
			return
		}
		response.JSON(c, "", http.StatusOK, models.NewListingResponse(listing), nil)
	}
}

func (s *Server) handleCreateListing() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			response.JSON(c, "", http.StatusUnauthorized, nil, errors.ErrUnauthorized)
			return
		}

		var request models.CreateListingRequest
		if err := decode(c, &request); err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, err)
			return
		}

		listing, err := s.ListingService.CreateListing(user.ID, &request)
		if err != nil {
			response.JSON(c, "", errors.Status(err), nil, err)
			return
		}
		listing.Owner = *user
		response.JSON(c, "Listing created successfully", http.StatusCreated, models.NewListingResponse(listing), nil)
	}
}

func parseIDParam(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0, errors.New("invalid id", http.StatusBadRequest)
	}
	return uint(id), nil
}
