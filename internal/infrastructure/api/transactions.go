package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// Transaction is a deposit or withdrawal as the backend reports it.
type Transaction struct {
	ID     string  `json:"_id"`
	UserID string  `json:"user_id"`
	Type   string  `json:"type"`
	Amount float64 `json:"amount"`
	Status string  `json:"status"`
}

// TransactionAPI groups the money-movement endpoints.
type TransactionAPI struct {
	client *Client
}

func NewTransactionAPI(client *Client) *TransactionAPI {
	return &TransactionAPI{client: client}
}

type amountRequest struct {
	Amount float64 `json:"amount"`
}

func (t *TransactionAPI) List(ctx context.Context) ([]Transaction, error) {
	raw, err := t.client.Do(ctx, "/api/transactions", Options{})
	if err != nil {
		return nil, err
	}
	var env struct {
		Transactions []Transaction `json:"transactions"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("list transactions: decode response: %w", err)
	}
	return env.Transactions, nil
}

func (t *TransactionAPI) InitiateDeposit(ctx context.Context, amount float64) (*Transaction, error) {
	return t.initiate(ctx, "/api/transactions/deposit", amount)
}

func (t *TransactionAPI) InitiateWithdrawal(ctx context.Context, amount float64) (*Transaction, error) {
	return t.initiate(ctx, "/api/transactions/withdraw", amount)
}

// ConfirmDeposit marks a pending deposit as completed.
func (t *TransactionAPI) ConfirmDeposit(ctx context.Context, transactionID string) (*Transaction, error) {
	raw, err := t.client.Do(ctx, "/api/transactions/deposit/"+transactionID+"/confirm", Options{
		Method: http.MethodPost,
	})
	if err != nil {
		return nil, err
	}
	return decodeTransaction(raw)
}

func (t *TransactionAPI) initiate(ctx context.Context, path string, amount float64) (*Transaction, error) {
	raw, err := t.client.Do(ctx, path, Options{
		Method: http.MethodPost,
		Body:   amountRequest{Amount: amount},
	})
	if err != nil {
		return nil, err
	}
	return decodeTransaction(raw)
}

func decodeTransaction(raw json.RawMessage) (*Transaction, error) {
	var env struct {
		Transaction *Transaction `json:"transaction"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("decode transaction: %w", err)
	}
	if env.Transaction == nil {
		return nil, fmt.Errorf("response missing transaction")
	}
	return env.Transaction, nil
}
