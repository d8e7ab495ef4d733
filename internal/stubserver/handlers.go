package stubserver

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
)

type registerRequest struct {
	Username     string `json:"username" validate:"required"`
	Phone        string `json:"phone"    validate:"required"`
	Password     string `json:"password" validate:"required"`
	ReferralCode string `json:"referralCode"`
}

type loginRequest struct {
	Phone    string `json:"phone"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing required fields")
	}

	s.mu.Lock()
	if _, exists := s.users[req.Phone]; exists {
		s.mu.Unlock()
		return echo.NewHTTPError(http.StatusBadRequest, "Phone number already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.MinCost)
	if err != nil {
		s.mu.Unlock()
		return err
	}

	var referredBy string
	if req.ReferralCode != "" {
		for _, u := range s.users {
			if u.ReferralCode == req.ReferralCode {
				referredBy = u.ID
				break
			}
		}
	}

	u := &user{
		ID:           s.newIDLocked("user"),
		Username:     req.Username,
		Phone:        req.Phone,
		PasswordHash: string(hash),
		ReferralCode: strings.ToUpper(req.Username),
		ReferredBy:   referredBy,
		IsActive:     true,
		CreatedAt:    now(),
		UpdatedAt:    now(),
	}
	s.users[req.Phone] = u
	s.mu.Unlock()

	if err := s.issueCookie(c, u.ID); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, map[string]any{"user": userJSON(u)})
}

func (s *Server) login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing required fields")
	}

	s.mu.Lock()
	u := s.users[req.Phone]
	s.mu.Unlock()

	if u == nil || bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)) != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid credentials")
	}

	if err := s.issueCookie(c, u.ID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"user": userJSON(u)})
}

func (s *Server) verify(c echo.Context) error {
	u := s.sessionUser(c)
	if u == nil {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}
	return c.JSON(http.StatusOK, map[string]any{"user": userJSON(u)})
}

func (s *Server) logout(c echo.Context) error {
	clearCookie(c)
	return c.JSON(http.StatusOK, map[string]string{"message": "Logged out successfully"})
}

func (s *Server) updateProfile(c echo.Context) error {
	var fields map[string]any
	if err := c.Bind(&fields); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	s.mu.Lock()
	u := s.userByIDLocked(c.Get("user_id").(string))
	if u == nil {
		s.mu.Unlock()
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}
	if v, ok := fields["username"].(string); ok && v != "" {
		u.Username = v
	}
	u.UpdatedAt = now()
	s.mu.Unlock()

	return c.JSON(http.StatusOK, map[string]any{"user": userJSON(u)})
}

// sessionUser resolves the user injected by requireSession.
func (s *Server) sessionUser(c echo.Context) *user {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, _ := c.Get("user_id").(string)
	return s.userByIDLocked(id)
}
