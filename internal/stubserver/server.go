// Package stubserver is a self-contained implementation of the backend wire
// contract, used as the local development target and as the fixture for
// integration tests. It implements the endpoints and envelopes only; product
// business rules live in the real backend.
package stubserver

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

type user struct {
	ID           string
	Username     string
	Phone        string
	PasswordHash string
	Balance      float64
	ReferralCode string
	ReferredBy   string
	IsAdmin      bool
	IsActive     bool
	CreatedAt    string
	UpdatedAt    string
}

type transaction struct {
	ID     string  `json:"_id"`
	UserID string  `json:"user_id"`
	Type   string  `json:"type"`
	Amount float64 `json:"amount"`
	Status string  `json:"status"`
}

type investment struct {
	ID           string  `json:"id"`
	UserID       string  `json:"userId"`
	ForexPair    string  `json:"forexPair"`
	Amount       float64 `json:"amount"`
	DailyROI     float64 `json:"dailyROI"`
	EntryPrice   float64 `json:"entryPrice"`
	CurrentPrice float64 `json:"currentPrice"`
	Status       string  `json:"status"`
	Profit       float64 `json:"profit"`
	CreatedAt    string  `json:"createdAt"`
}

// Server holds the in-memory world the stub serves from. All access goes
// through the mutex; the state is intentionally disposable.
type Server struct {
	mu           sync.Mutex
	secret       string
	nextID       int
	users        map[string]*user // keyed by phone
	transactions []*transaction
	investments  []*investment
	log          zerolog.Logger
}

func New(secret string, log zerolog.Logger) *Server {
	return &Server{
		secret: secret,
		users:  make(map[string]*user),
		log:    log,
	}
}

// SeedUser registers an account directly, bypassing the HTTP surface.
// Returns the assigned user ID.
func (s *Server) SeedUser(username, phone, password string, admin bool) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(fmt.Sprintf("stubserver: hash seed password: %v", err))
	}
	u := &user{
		ID:           s.newIDLocked("user"),
		Username:     username,
		Phone:        phone,
		PasswordHash: string(hash),
		ReferralCode: strings.ToUpper(username),
		IsAdmin:      admin,
		IsActive:     true,
		CreatedAt:    now(),
		UpdatedAt:    now(),
	}
	s.users[phone] = u
	return u.ID
}

// SeedBalance credits a user directly, for tests that need spendable funds.
func (s *Server) SeedBalance(userID string, amount float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u := s.userByIDLocked(userID); u != nil {
		u.Balance += amount
	}
}

// Handler builds the echo instance with every route registered.
func (s *Server) Handler() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = newValidator()
	e.HTTPErrorHandler = newHTTPErrorHandler(s.log)
	e.Use(echomiddleware.Recover())

	e.GET("/health", s.health)

	e.POST("/api/auth/register", s.register)
	e.POST("/api/auth/login", s.login)
	e.POST("/api/auth/logout", s.logout)

	session := s.requireSession()
	e.GET("/api/auth/verify", s.verify, session)
	e.PUT("/api/users/profile", s.updateProfile, session)

	e.GET("/api/transactions", s.listTransactions, session)
	e.POST("/api/transactions/deposit", s.initiateDeposit, session)
	e.POST("/api/transactions/withdraw", s.initiateWithdrawal, session)
	e.POST("/api/transactions/deposit/:id/confirm", s.confirmDeposit, session)

	e.GET("/api/investments", s.listInvestments, session)
	e.POST("/api/investments", s.createInvestment, session)
	e.GET("/api/investments/earnings", s.earnings, session)
	e.GET("/api/investments/history", s.investmentHistory, session)
	e.POST("/api/investments/:id/close", s.closeInvestment, session)

	e.GET("/api/referral/stats", s.referralStats, session)
	e.GET("/api/referral/history", s.referralHistory, session)

	admin := s.requireAdmin()
	e.GET("/admin/transactions/pending", s.pendingTransactions, session, admin)
	e.GET("/admin/verifications/pending", s.pendingVerifications, session, admin)
	e.POST("/admin/transactions/:id/approve", s.approveTransaction, session, admin)
	e.POST("/admin/transactions/:id/reject", s.rejectTransaction, session, admin)
	e.POST("/admin/users/:id/verify", s.verifyUser, session, admin)

	return e
}

func (s *Server) newIDLocked(prefix string) string {
	s.nextID++
	return fmt.Sprintf("%s_%d", prefix, s.nextID)
}

func (s *Server) userByIDLocked(id string) *user {
	for _, u := range s.users {
		if u.ID == id {
			return u
		}
	}
	return nil
}

// userJSON renders a user the way the backend does, password omitted.
func userJSON(u *user) map[string]any {
	out := map[string]any{
		"_id":          u.ID,
		"username":     u.Username,
		"phone":        u.Phone,
		"balance":      u.Balance,
		"referralCode": u.ReferralCode,
		"isAdmin":      u.IsAdmin,
		"isActive":     u.IsActive,
		"createdAt":    u.CreatedAt,
		"updatedAt":    u.UpdatedAt,
	}
	if u.ReferredBy != "" {
		out["referredBy"] = u.ReferredBy
	}
	return out
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}
