package services

import (
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/swapshelf/bookswap/config"
	"github.com/swapshelf/bookswap/db"
	apiError "github.com/swapshelf/bookswap/errors"
	"github.com/swapshelf/bookswap/models"
	"github.com/swapshelf/bookswap/services/jwt"
	"golang.org/x/crypto/bcrypt"
)

// AuthService interface
type AuthService interface {
	SignupUser(request *models.RegisterRequest) (*models.User, error)
	LoginUser(loginRequest *models.LoginRequest) (*models.LoginResponse, *apiError.Error)
	Logout(sessionToken string) error
	RevokeAccessToken(accessToken string) error
	CurrentUser(sessionToken string) (*models.User, *apiError.Error)
}

// authService struct
type authService struct {
	Config   *config.Config
	authRepo db.AuthRepository
}

// NewAuthService instantiate an authService
func NewAuthService(authRepo db.AuthRepository, conf *config.Config) AuthService {
	return &authService{
		Config:   conf,
		authRepo: authRepo,
	}
}

func (s *authService) SignupUser(request *models.RegisterRequest) (*models.User, error) {
	if request == nil {
		return nil, apiError.ValidationError("request is nil")
	}
	if err := models.ValidateWhiteSpaces(request); err != nil {
		return nil, apiError.ValidationError(err.Error())
	}
	if request.Username == "" || request.Email == "" || request.Password == "" {
		return nil, apiError.ValidationError("all fields are required")
	}
	if request.Confirm != "" && request.Confirm != request.Password {
		return nil, apiError.ValidationError("passwords do not match")
	}
	if err := models.ValidatePassword(request.Password); err != nil {
		return nil, apiError.ValidationError(err.Error())
	}

	if err := s.authRepo.IsUsernameExist(request.Username); err != nil {
		log.Printf("SignupUser error: %v", err)
		return nil, apiError.ValidationError("username already taken")
	}
	if err := s.authRepo.IsEmailExist(request.Email); err != nil {
		log.Printf("SignupUser error: %v", err)
		return nil, apiError.ValidationError("email already registered")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(request.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("SignupUser error hashing password: %v", err)
		return nil, apiError.ErrInternalServerError
	}

	user := &models.User{
		Username:       request.Username,
		Email:          request.Email,
		HashedPassword: string(hashedPassword),
	}
	user, err = s.authRepo.CreateUser(user)
	if err != nil {
		log.Printf("SignupUser error creating user: %v", err)
		return nil, apiError.ErrInternalServerError
	}
	return user, nil
}

// LoginUser verifies the credentials, opens a server-side session and
// issues an API access token.
func (s *authService) LoginUser(loginRequest *models.LoginRequest) (*models.LoginResponse, *apiError.Error) {
	if err := models.ValidateWhiteSpaces(loginRequest); err != nil {
		return nil, apiError.ValidationError(err.Error())
	}

	foundUser, err := s.authRepo.FindUserByUsername(loginRequest.Username)
	if err != nil {
		return nil, apiError.ErrInvalidLogin
	}
	if err := foundUser.VerifyPassword(loginRequest.Password); err != nil {
		log.Printf("Invalid password for user %s", foundUser.Username)
		return nil, apiError.ErrInvalidLogin
	}

	session := &models.Session{
		Token:     uuid.NewString(),
		UserID:    foundUser.ID,
		ExpiresAt: time.Now().Add(time.Duration(s.Config.SessionTTLHours) * time.Hour),
	}
	if err := s.authRepo.CreateSession(session); err != nil {
		log.Printf("Error creating session for user %s: %v", foundUser.Username, err)
		return nil, apiError.ErrInternalServerError
	}

	accessToken, err := jwt.GenerateToken(foundUser.ID, foundUser.Username, s.Config.SessionSecret)
	if err != nil {
		log.Printf("Error generating access token for user %s: %v", foundUser.Username, err)
		return nil, apiError.ErrInternalServerError
	}

	return &models.LoginResponse{
		UserResponse: *models.NewUserResponse(foundUser),
		AccessToken:  accessToken,
		SessionToken: session.Token,
		ExpiresAt:    session.ExpiresAt,
	}, nil
}

// Logout destroys the session. Unknown tokens are ignored so repeated
// logouts succeed.
func (s *authService) Logout(sessionToken string) error {
	if sessionToken == "" {
		return nil
	}
	return s.authRepo.DeleteSession(sessionToken)
}

// RevokeAccessToken blacklists an API bearer token.
func (s *authService) RevokeAccessToken(accessToken string) error {
	if accessToken == "" {
		return nil
	}
	return s.authRepo.AddToBlackList(&models.Blacklist{Token: accessToken})
}

// CurrentUser resolves a session cookie token to its user. Expired
// sessions are deleted on sight.
func (s *authService) CurrentUser(sessionToken string) (*models.User, *apiError.Error) {
	if sessionToken == "" {
		return nil, apiError.ErrUnauthorized
	}
	session, err := s.authRepo.FindSession(sessionToken)
	if err != nil {
		return nil, apiError.ErrUnauthorized
	}
	if session.Expired() {
		if err := s.authRepo.DeleteSession(session.Token); err != nil {
			log.Printf("Error deleting expired session: %v", err)
		}
		return nil, apiError.New("session expired", http.StatusUnauthorized)
	}
	user, err := s.authRepo.FindUserByID(session.UserID)
	if err != nil {
		return nil, apiError.ErrUnauthorized
	}
	return user, nil
}
