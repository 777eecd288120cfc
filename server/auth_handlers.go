package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/swapshelf/bookswap/errors"
	"github.com/swapshelf/bookswap/models"
	"github.com/swapshelf/bookswap/server/response"
)

func (s *Server) handleSignup() gin.HandlerFunc {
	return func(c *gin.Context) {
		var request models.RegisterRequest
		if err := decode(c, &request); err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, err)
			return
		}

		user, err := s.AuthService.SignupUser(&request)
		if err != nil {
			response.JSON(c, "", errors.Status(err), nil, err)
			return
		}
		response.JSON(c, "Signup successful", http.StatusCreated, models.NewUserResponse(user), nil)
	}
}

func (s *Server) handleLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		var loginRequest models.LoginRequest
		if err := decode(c, &loginRequest); err != nil {
			response.JSON(c, "", errors.ErrBadRequest.Status, nil, err)
			return
		}
		userResponse, err := s.AuthService.LoginUser(&loginRequest)
		if err != nil {
			response.JSON(c, "", err.Status, nil, err)
			return
		}
		response.JSON(c, "login successful", http.StatusOK, userResponse, nil)
	}
}

// handleLogout revokes the bearer token used for this request.
func (s *Server) handleLogout() gin.HandlerFunc {
	return func(c *gin.Context) {
		accessToken := c.GetString("access_token")
		if err := s.AuthService.RevokeAccessToken(accessToken); err != nil {
			response.JSON(c, "", http.StatusInternalServerError, nil, errors.ErrInternalServerError)
			return
		}
		response.JSON(c, "logout successful", http.StatusOK, nil, nil)
	}
}

func (s *Server) handleShowProfile() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			response.JSON(c, "", http.StatusUnauthorized, nil, errors.ErrUnauthorized)
			return
		}
		response.JSON(c, "", http.StatusOK, models.NewUserResponse(user), nil)
	}
}
