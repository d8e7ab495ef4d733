package stubserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type amountRequest struct {
	Amount float64 `json:"amount" validate:"required,gt=0"`
}

type createInvestmentRequest struct {
	Pair     string  `json:"pair"     validate:"required"`
	Amount   float64 `json:"amount"   validate:"required,gt=0"`
	DailyROI float64 `json:"dailyROI" validate:"required,gt=0"`
}

func (s *Server) listTransactions(c echo.Context) error {
	userID := c.Get("user_id").(string)

	s.mu.Lock()
	out := make([]*transaction, 0)
	for _, tx := range s.transactions {
		if tx.UserID == userID {
			out = append(out, tx)
		}
	}
	s.mu.Unlock()

	return c.JSON(http.StatusOK, map[string]any{"transactions": out})
}

func (s *Server) initiateDeposit(c echo.Context) error {
	return s.initiateTransaction(c, "deposit")
}

func (s *Server) initiateWithdrawal(c echo.Context) error {
	return s.initiateTransaction(c, "withdrawal")
}

func (s *Server) initiateTransaction(c echo.Context, kind string) error {
	var req amountRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid amount")
	}

	s.mu.Lock()
	tx := &transaction{
		ID:     s.newIDLocked("tx"),
		UserID: c.Get("user_id").(string),
		Type:   kind,
		Amount: req.Amount,
		Status: "pending",
	}
	s.transactions = append(s.transactions, tx)
	s.mu.Unlock()

	return c.JSON(http.StatusOK, map[string]any{"transaction": tx})
}

func (s *Server) confirmDeposit(c echo.Context) error {
	userID := c.Get("user_id").(string)
	txID := c.Param("id")

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, tx := range s.transactions {
		if tx.ID == txID && tx.UserID == userID {
			tx.Status = "completed"
			if u := s.userByIDLocked(userID); u != nil {
				u.Balance += tx.Amount
			}
			return c.JSON(http.StatusOK, map[string]any{"transaction": tx})
		}
	}
	return echo.NewHTTPError(http.StatusNotFound, "Transaction not found")
}

func (s *Server) listInvestments(c echo.Context) error {
	return s.investmentsByStatus(c, "open")
}

func (s *Server) investmentHistory(c echo.Context) error {
	return s.investmentsByStatus(c, "closed")
}

func (s *Server) investmentsByStatus(c echo.Context, status string) error {
	userID := c.Get("user_id").(string)

	s.mu.Lock()
	out := make([]*investment, 0)
	for _, inv := range s.investments {
		if inv.UserID == userID && inv.Status == status {
			out = append(out, inv)
		}
	}
	s.mu.Unlock()

	return c.JSON(http.StatusOK, map[string]any{"investments": out})
}

func (s *Server) createInvestment(c echo.Context) error {
	var req createInvestmentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing required fields")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.userByIDLocked(c.Get("user_id").(string))
	if u == nil {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}
	if req.Amount > u.Balance {
		return echo.NewHTTPError(http.StatusBadRequest, "Insufficient balance")
	}

	u.Balance -= req.Amount
	inv := &investment{
		ID:           s.newIDLocked("inv"),
		UserID:       u.ID,
		ForexPair:    req.Pair,
		Amount:       req.Amount,
		DailyROI:     req.DailyROI,
		EntryPrice:   1.0,
		CurrentPrice: 1.0,
		Status:       "open",
		CreatedAt:    now(),
	}
	s.investments = append(s.investments, inv)

	return c.JSON(http.StatusOK, map[string]any{
		"message":    "Investment created successfully",
		"investment": inv,
	})
}

func (s *Server) earnings(c echo.Context) error {
	userID := c.Get("user_id").(string)

	s.mu.Lock()
	var total float64
	var active int
	for _, inv := range s.investments {
		if inv.UserID != userID {
			continue
		}
		total += inv.Profit
		if inv.Status == "open" {
			active++
		}
	}
	s.mu.Unlock()

	return c.JSON(http.StatusOK, map[string]any{
		"total_earnings":     total,
		"active_investments": active,
		"earnings_history":   []any{},
	})
}

// closeInvestment answers with the bare investment object, not an envelope,
// matching the one endpoint the real backend shapes that way.
func (s *Server) closeInvestment(c echo.Context) error {
	userID := c.Get("user_id").(string)
	invID := c.Param("id")

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, inv := range s.investments {
		if inv.ID == invID && inv.UserID == userID && inv.Status == "open" {
			inv.Status = "closed"
			if u := s.userByIDLocked(userID); u != nil {
				u.Balance += inv.Amount + inv.Profit
			}
			return c.JSON(http.StatusOK, inv)
		}
	}
	return echo.NewHTTPError(http.StatusNotFound, "Investment not found or already closed")
}

func (s *Server) referralStats(c echo.Context) error {
	userID := c.Get("user_id").(string)

	s.mu.Lock()
	level1 := s.referredByLocked(userID)
	var level2, level3 []*user
	for _, r := range level1 {
		level2 = append(level2, s.referredByLocked(r.ID)...)
	}
	for _, r := range level2 {
		level3 = append(level3, s.referredByLocked(r.ID)...)
	}
	s.mu.Unlock()

	total := len(level1) + len(level2) + len(level3)
	return c.JSON(http.StatusOK, map[string]any{
		"counts": map[string]int{
			"level1": len(level1),
			"level2": len(level2),
			"level3": len(level3),
			"total":  total,
		},
		"earnings": 0.0,
	})
}

func (s *Server) referralHistory(c echo.Context) error {
	userID := c.Get("user_id").(string)

	s.mu.Lock()
	refs := make([]map[string]any, 0)
	for level, group := range s.referralLevelsLocked(userID) {
		for _, r := range group {
			refs = append(refs, map[string]any{
				"_id":           r.ID,
				"username":      r.Username,
				"phone":         r.Phone,
				"joinedAt":      r.CreatedAt,
				"isActive":      r.IsActive,
				"referralCount": len(s.referredByLocked(r.ID)),
				"level":         level + 1,
				"earnings": map[string]float64{
					"oneTimeRewards":   0,
					"dailyCommissions": 0,
					"total":            0,
				},
			})
		}
	}
	s.mu.Unlock()

	return c.JSON(http.StatusOK, map[string]any{"referrals": refs})
}

func (s *Server) referredByLocked(userID string) []*user {
	var out []*user
	for _, u := range s.users {
		if u.ReferredBy == userID {
			out = append(out, u)
		}
	}
	return out
}

func (s *Server) referralLevelsLocked(userID string) [][]*user {
	level1 := s.referredByLocked(userID)
	var level2, level3 []*user
	for _, r := range level1 {
		level2 = append(level2, s.referredByLocked(r.ID)...)
	}
	for _, r := range level2 {
		level3 = append(level3, s.referredByLocked(r.ID)...)
	}
	return [][]*user{level1, level2, level3}
}

func (s *Server) pendingTransactions(c echo.Context) error {
	s.mu.Lock()
	out := make([]*transaction, 0)
	for _, tx := range s.transactions {
		if tx.Status == "pending" {
			out = append(out, tx)
		}
	}
	s.mu.Unlock()
	return c.JSON(http.StatusOK, map[string]any{"transactions": out})
}

func (s *Server) pendingVerifications(c echo.Context) error {
	s.mu.Lock()
	out := make([]map[string]any, 0)
	for _, u := range s.users {
		if !u.IsActive {
			out = append(out, userJSON(u))
		}
	}
	s.mu.Unlock()
	return c.JSON(http.StatusOK, map[string]any{"verifications": out})
}

func (s *Server) approveTransaction(c echo.Context) error {
	return s.settleTransaction(c, "completed")
}

func (s *Server) rejectTransaction(c echo.Context) error {
	return s.settleTransaction(c, "rejected")
}

func (s *Server) settleTransaction(c echo.Context, status string) error {
	txID := c.Param("id")

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, tx := range s.transactions {
		if tx.ID == txID {
			tx.Status = status
			if status == "completed" {
				if u := s.userByIDLocked(tx.UserID); u != nil {
					switch tx.Type {
					case "deposit":
						u.Balance += tx.Amount
					case "withdrawal":
						u.Balance -= tx.Amount
					}
				}
			}
			return c.JSON(http.StatusOK, map[string]any{"transaction": tx})
		}
	}
	return echo.NewHTTPError(http.StatusNotFound, "Transaction not found")
}

func (s *Server) verifyUser(c echo.Context) error {
	targetID := c.Param("id")

	s.mu.Lock()
	defer s.mu.Unlock()
	if u := s.userByIDLocked(targetID); u != nil {
		u.IsActive = true
		u.UpdatedAt = now()
		return c.JSON(http.StatusOK, map[string]any{"user": userJSON(u)})
	}
	return echo.NewHTTPError(http.StatusNotFound, "User not found")
}
