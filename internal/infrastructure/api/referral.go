package api

import (
	"context"
	"encoding/json"
	"fmt"
)

// ReferralCounts breaks referrals down by depth.
type ReferralCounts struct {
	Level1 int `json:"level1"`
	Level2 int `json:"level2"`
	Level3 int `json:"level3"`
	Total  int `json:"total"`
}

// ReferralStats is the aggregate view of the visitor's referral tree.
type ReferralStats struct {
	Counts   ReferralCounts `json:"counts"`
	Earnings float64        `json:"earnings"`
}

// ReferralEarnings details what a single referral has produced.
type ReferralEarnings struct {
	OneTimeRewards   float64 `json:"oneTimeRewards"`
	DailyCommissions float64 `json:"dailyCommissions"`
	Total            float64 `json:"total"`
}

// Referral is one referred user in the history listing.
type Referral struct {
	ID            string           `json:"_id"`
	Username      string           `json:"username"`
	Phone         string           `json:"phone"`
	JoinedAt      string           `json:"joinedAt"`
	IsActive      bool             `json:"isActive"`
	ReferralCount int              `json:"referralCount"`
	Level         int              `json:"level"`
	Earnings      ReferralEarnings `json:"earnings"`
}

// ReferralAPI groups the referral endpoints.
type ReferralAPI struct {
	client *Client
}

func NewReferralAPI(client *Client) *ReferralAPI {
	return &ReferralAPI{client: client}
}

func (r *ReferralAPI) Stats(ctx context.Context) (*ReferralStats, error) {
	raw, err := r.client.Do(ctx, "/api/referral/stats", Options{})
	if err != nil {
		return nil, err
	}
	var stats ReferralStats
	if err := json.Unmarshal(raw, &stats); err != nil {
		return nil, fmt.Errorf("referral stats: decode response: %w", err)
	}
	return &stats, nil
}

func (r *ReferralAPI) History(ctx context.Context) ([]Referral, error) {
	raw, err := r.client.Do(ctx, "/api/referral/history", Options{})
	if err != nil {
		return nil, err
	}
	var env struct {
		Referrals []Referral `json:"referrals"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("referral history: decode response: %w", err)
	}
	return env.Referrals, nil
}
