package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// Investment is an open or closed forex position.
type Investment struct {
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
	// UserBalance rides along on creation responses only.
	UserBalance float64 `json:"userBalance,omitempty"`
}

// Earnings summarizes investment returns.
type Earnings struct {
	TotalEarnings     float64           `json:"total_earnings"`
	ActiveInvestments int               `json:"active_investments"`
	EarningsHistory   []json.RawMessage `json:"earnings_history"`
}

// InvestmentAPI groups the investment endpoints.
type InvestmentAPI struct {
	client *Client
}

func NewInvestmentAPI(client *Client) *InvestmentAPI {
	return &InvestmentAPI{client: client}
}

type createInvestmentRequest struct {
	Pair     string  `json:"pair"`
	Amount   float64 `json:"amount"`
	DailyROI float64 `json:"dailyROI"`
}

func (i *InvestmentAPI) Create(ctx context.Context, pair string, amount, dailyROI float64) (*Investment, error) {
	raw, err := i.client.Do(ctx, "/api/investments", Options{
		Method: http.MethodPost,
		Body:   createInvestmentRequest{Pair: pair, Amount: amount, DailyROI: dailyROI},
	})
	if err != nil {
		return nil, err
	}
	var env struct {
		Investment *Investment `json:"investment"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("create investment: decode response: %w", err)
	}
	if env.Investment == nil {
		return nil, fmt.Errorf("create investment: response missing investment")
	}
	return env.Investment, nil
}

func (i *InvestmentAPI) List(ctx context.Context) ([]Investment, error) {
	return i.list(ctx, "/api/investments")
}

// History returns closed positions.
func (i *InvestmentAPI) History(ctx context.Context) ([]Investment, error) {
	return i.list(ctx, "/api/investments/history")
}

func (i *InvestmentAPI) Earnings(ctx context.Context) (*Earnings, error) {
	raw, err := i.client.Do(ctx, "/api/investments/earnings", Options{})
	if err != nil {
		return nil, err
	}
	var e Earnings
	if err := json.Unmarshal(raw, &e); err != nil {
		return nil, fmt.Errorf("earnings: decode response: %w", err)
	}
	return &e, nil
}

// Close liquidates an open position, crediting principal and profit back to
// the balance. The backend answers with the updated investment itself, not an
// envelope.
func (i *InvestmentAPI) Close(ctx context.Context, investmentID string) (*Investment, error) {
	raw, err := i.client.Do(ctx, "/api/investments/"+investmentID+"/close", Options{
		Method: http.MethodPost,
	})
	if err != nil {
		return nil, err
	}
	var inv Investment
	if err := json.Unmarshal(raw, &inv); err != nil {
		return nil, fmt.Errorf("close investment: decode response: %w", err)
	}
	return &inv, nil
}

func (i *InvestmentAPI) list(ctx context.Context, path string) ([]Investment, error) {
	raw, err := i.client.Do(ctx, path, Options{})
	if err != nil {
		return nil, err
	}
	var env struct {
		Investments []Investment `json:"investments"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("list investments: decode response: %w", err)
	}
	return env.Investments, nil
}
