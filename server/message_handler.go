package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/swapshelf/bookswap/errors"
	"github.com/swapshelf/bookswap/models"
	"github.com/swapshelf/bookswap/server/response"
)

func (s *Server) handleSendMessage() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			response.JSON(c, "", http.StatusUnauthorized, nil, errors.ErrUnauthorized)
			return
		}

		var request models.SendMessageRequest
		if err := decode(c, &request); err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, err)
			return
		}

		message, err := s.MessageService.SendMessage(user.ID, &request)
		if err != nil {
			response.JSON(c, "", errors.Status(err), nil, err)
			return
		}
		message.Sender = *user
		response.JSON(c, "Message sent successfully", http.StatusCreated, models.NewMessageResponse(message), nil)
	}
}

func (s *Server) handleGetThread() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			response.JSON(c, "", http.StatusUnauthorized, nil, errors.ErrUnauthorized)
			return
		}

		listingID, err := parseIDParam(c, "id")
		if err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, err)
			return
		}

		messages, svcErr := s.MessageService.GetThread(user.ID, listingID)
		if svcErr != nil {
			response.JSON(c, "", errors.Status(svcErr), nil, svcErr)
			return
		}

		results := make([]models.MessageResponse, 0, len(messages))
		for i := range messages {
			results = append(results, models.NewMessageResponse(&messages[i]))
		}
		response.JSON(c, "", http.StatusOK, results, nil)
	}
}

func (s *Server) handleGetOverview() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			response.JSON(c, "", http.StatusUnauthorized, nil, errors.ErrUnauthorized)
			return
		}

		summaries, err := s.MessageService.GetOverview(user.ID)
		if err != nil {
			response.JSON(c, "", errors.Status(err), nil, err)
			return
		}
		response.JSON(c, "", http.StatusOK, summaries, nil)
	}
}
