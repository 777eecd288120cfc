package server

import (
	"encoding/json"
	stderrors "errors"
	"html/template"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	apiError "github.com/swapshelf/bookswap/errors"
	"github.com/swapshelf/bookswap/models"
	"github.com/swapshelf/bookswap/server/response"
)

const flashCookieName = "bookswap_flash"

// setFlash queues a one-shot notice for the next rendered page.
func setFlash(c *gin.Context, level, message string) {
	value := url.QueryEscape(level + "|" + message)
	c.SetCookie(flashCookieName, value, 60, "/", "", false, true)
}

// popFlash reads and clears the pending flash notice, if any.
func popFlash(c *gin.Context) (level, message string) {
	raw, err := c.Cookie(flashCookieName)
	if err != nil || raw == "" {
		return "", ""
	}
	c.SetCookie(flashCookieName, "", -1, "/", "", false, true)
	decoded, err := url.QueryUnescape(raw)
	if err != nil {
		return "", ""
	}
	parts := strings.SplitN(decoded, "|", 2)
	if len(parts) != 2 {
		return "", ""
	}
	return parts[0], parts[1]
}

// render wraps c.HTML with the data every page shares: the signed-in
// user, the pending flash notice and the footer year.
func (s *Server) render(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	if user, ok := currentUser(c); ok {
		data["User"] = user
	}
	level, message := popFlash(c)
	data["FlashLevel"] = level
	data["FlashMessage"] = message
	data["Year"] = time.Now().Year()
	c.HTML(status, name, data)
}

func (s *Server) handleIndexPage() gin.HandlerFunc {
	return func(c *gin.Context) {
		cards, err := s.ListingService.RecentListings(5)
		if err != nil {
			cards = []models.ListingCard{}
		}
		cardsJSON, err := json.Marshal(cards)
		if err != nil {
			cardsJSON = []byte("[]")
		}
		s.render(c, http.StatusOK, "index.html", gin.H{
			"Listings":     cards,
			"ListingsJSON": template.JS(cardsJSON),
		})
	}
}

func (s *Server) showRegisterPage() gin.HandlerFunc {
	return func(c *gin.Context) {
		s.render(c, http.StatusOK, "register.html", nil)
	}
}

func (s *Server) handleRegisterForm() gin.HandlerFunc {
	return func(c *gin.Context) {
		var request models.RegisterRequest
		if err := c.ShouldBind(&request); err != nil {
			setFlash(c, "danger", "All fields are required.")
			c.Redirect(http.StatusSeeOther, "/register")
			return
		}

		if _, err := s.AuthService.SignupUser(&request); err != nil {
			setFlash(c, "danger", flashText(err))
			c.Redirect(http.StatusSeeOther, "/register")
			return
		}

		// Log the new user straight in, like any marketplace would.
		loginResponse, loginErr := s.AuthService.LoginUser(&models.LoginRequest{
			Username: request.Username,
			Password: request.Password,
		})
		if loginErr != nil {
			setFlash(c, "success", "Registration successful! Please log in.")
			c.Redirect(http.StatusSeeOther, "/login")
			return
		}
		s.setSessionCookie(c, loginResponse)
		setFlash(c, "success", "Registration successful! Welcome to the book exchange.")
		c.Redirect(http.StatusSeeOther, "/")
	}
}

func (s *Server) showLoginPage() gin.HandlerFunc {
	return func(c *gin.Context) {
		s.render(c, http.StatusOK, "login.html", gin.H{
			"Next": c.Query("next"),
		})
	}
}

func (s *Server) handleLoginForm() gin.HandlerFunc {
	return func(c *gin.Context) {
		var request models.LoginRequest
		if err := c.ShouldBind(&request); err != nil {
			setFlash(c, "danger", "Username and password are required.")
			c.Redirect(http.StatusSeeOther, "/login")
			return
		}

		loginResponse, err := s.AuthService.LoginUser(&request)
		if err != nil {
			setFlash(c, "danger", "Invalid username or password.")
			c.Redirect(http.StatusSeeOther, "/login")
			return
		}
		s.setSessionCookie(c, loginResponse)
		setFlash(c, "success", "Logged in successfully.")

		next := c.Query("next")
		if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
			next = "/"
		}
		c.Redirect(http.StatusSeeOther, next)
	}
}

func (s *Server) handleLogoutForm() gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, err := c.Cookie(sessionCookieName); err == nil {
			if err := s.AuthService.Logout(token); err != nil {
				setFlash(c, "danger", "Something went wrong. Try again.")
				c.Redirect(http.StatusSeeOther, "/")
				return
			}
		}
		c.SetCookie(sessionCookieName, "", -1, "/", "", false, true)
		setFlash(c, "info", "You have been logged out.")
		c.Redirect(http.StatusSeeOther, "/")
	}
}

func (s *Server) handleListingsPage() gin.HandlerFunc {
	return func(c *gin.Context) {
		var filter models.ListingFilter
		if err := c.ShouldBindQuery(&filter); err != nil {
			filter = models.ListingFilter{}
		}

		listings, err := s.ListingService.Browse(&filter)
		if err != nil {
			listings = []models.Listing{}
		}
		genres, conditions, err := s.ListingService.FilterOptions()
		if err != nil {
			genres, conditions = nil, nil
		}

		s.render(c, http.StatusOK, "listings.html", gin.H{
			"Listings":   listings,
			"Genres":     genres,
			"Conditions": conditions,
			"Filter":     filter,
		})
	}
}

func (s *Server) showCreateListingPage() gin.HandlerFunc {
	return func(c *gin.Context) {
		s.render(c, http.StatusOK, "listing_new.html", gin.H{
			"Conditions": models.Conditions,
		})
	}
}

func (s *Server) handleCreateListingForm() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, _ := currentUser(c)

		var request models.CreateListingRequest
		if err := c.ShouldBind(&request); err != nil {
			setFlash(c, "danger", "Title and author are required.")
			c.Redirect(http.StatusSeeOther, "/listings/new")
			return
		}

		if _, err := s.ListingService.CreateListing(user.ID, &request); err != nil {
			setFlash(c, "danger", flashText(err))
			c.Redirect(http.StatusSeeOther, "/listings/new")
			return
		}
		setFlash(c, "success", "Listing created successfully.")
		c.Redirect(http.StatusSeeOther, "/listings")
	}
}

func (s *Server) handleListingDetailPage() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := parseIDParam(c, "id")
		if err != nil {
			s.render(c, http.StatusNotFound, "404.html", nil)
			return
		}

		listing, svcErr := s.ListingService.GetListing(id)
		if svcErr != nil {
			s.render(c, http.StatusNotFound, "404.html", nil)
			return
		}

		data := gin.H{
			"Listing": listing,
			"IsOwner": false,
		}
		if user, ok := currentUser(c); ok {
			data["IsOwner"] = user.ID == listing.OwnerID
			messages, threadErr := s.MessageService.GetThread(user.ID, listing.ID)
			if threadErr == nil {
				data["Messages"] = messages
			}
		}
		s.render(c, http.StatusOK, "listing_detail.html", data)
	}
}

func (s *Server) handleSendMessageForm() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, _ := currentUser(c)

		id, err := parseIDParam(c, "id")
		if err != nil {
			s.render(c, http.StatusNotFound, "404.html", nil)
			return
		}

		request := models.SendMessageRequest{
			ListingID: id,
			Body:      c.PostForm("body"),
		}
		if _, err := s.MessageService.SendMessage(user.ID, &request); err != nil {
			setFlash(c, "danger", flashText(err))
		} else {
			setFlash(c, "success", "Message sent.")
		}
		c.Redirect(http.StatusSeeOther, "/listings/"+c.Param("id"))
	}
}

func (s *Server) handleMyListingsPage() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, _ := currentUser(c)
		listings, err := s.ListingService.OwnListings(user.ID)
		if err != nil {
			listings = []models.Listing{}
		}
		s.render(c, http.StatusOK, "my_listings.html", gin.H{
			"Listings": listings,
		})
	}
}

func (s *Server) handleMessagesPage() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, _ := currentUser(c)
		summaries, err := s.MessageService.GetOverview(user.ID)
		if err != nil {
			summaries = []models.ConversationSummary{}
		}
		s.render(c, http.StatusOK, "messages.html", gin.H{
			"Conversations": summaries,
		})
	}
}

func (s *Server) handleNotFoundPage() gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			response.JSON(c, "", http.StatusNotFound, nil, apiError.ErrNotFound)
			return
		}
		s.render(c, http.StatusNotFound, "404.html", nil)
	}
}

func (s *Server) setSessionCookie(c *gin.Context, loginResponse *models.LoginResponse) {
	maxAge := int(time.Until(loginResponse.ExpiresAt).Seconds())
	c.SetCookie(sessionCookieName, loginResponse.SessionToken, maxAge, "/", "", false, true)
}

// flashText keeps service error messages readable in a flash notice.
func flashText(err error) string {
	var e *apiError.Error
	if stderrors.As(err, &e) {
		return e.Message
	}
	return "Something went wrong. Try again."
}
