package app

import (
	"context"
	"fmt"
	"io"

	"github.com/smarthomeo/fxclient/internal/core/domain"
	"github.com/smarthomeo/fxclient/internal/infrastructure/api"
)

// ProfileSource reads the visitor's profile while keeping the session slot in
// step with the response. Screens never write the slot themselves.
type ProfileSource interface {
	RefreshProfile(ctx context.Context) (*domain.UserInfo, error)
}

// Views holds the screen renderers. Rendering is deliberately plain text:
// the interesting part of every screen is the facade call behind it.
type Views struct {
	profile      ProfileSource
	transactions *api.TransactionAPI
	investments  *api.InvestmentAPI
	referrals    *api.ReferralAPI
}

func NewViews(profile ProfileSource, transactions *api.TransactionAPI, investments *api.InvestmentAPI, referrals *api.ReferralAPI) *Views {
	return &Views{
		profile:      profile,
		transactions: transactions,
		investments:  investments,
		referrals:    referrals,
	}
}

// Register wires every route into the router.
func (v *Views) Register(r *Router) {
	r.Handle(RouteLanding, v.Landing)
	r.Handle(RouteLogin, v.Login)
	r.Handle(RouteSignup, v.Signup)
	r.HandleProtected(RouteDashboard, v.Dashboard)
	r.HandleProtected(RouteProfile, v.Profile)
	r.HandleProtected(RouteReferrals, v.Referrals)
	r.HandleProtected(RouteForex, v.Forex)
}

func (v *Views) Landing(_ context.Context, w io.Writer) error {
	fmt.Fprintln(w, "Welcome. Use 'login' or 'register' to get started.")
	return nil
}

func (v *Views) Login(_ context.Context, w io.Writer) error {
	fmt.Fprintln(w, "Sign in: login <phone> <password>")
	return nil
}

func (v *Views) Signup(_ context.Context, w io.Writer) error {
	fmt.Fprintln(w, "Create an account: register <username> <phone> <password> [referral code]")
	return nil
}

func (v *Views) Dashboard(ctx context.Context, w io.Writer) error {
	user, err := v.profile.RefreshProfile(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Dashboard: %s (balance %.2f)\n", user.Username, user.Balance)

	earnings, err := v.investments.Earnings(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Earnings: %.2f across %d active investments\n", earnings.TotalEarnings, earnings.ActiveInvestments)

	txs, err := v.transactions.List(ctx)
	if err != nil {
		return err
	}
	for _, tx := range txs {
		fmt.Fprintf(w, "  %-10s %10.2f  %s\n", tx.Type, tx.Amount, tx.Status)
	}
	return nil
}

func (v *Views) Profile(ctx context.Context, w io.Writer) error {
	user, err := v.profile.RefreshProfile(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Profile: %s\nPhone: %s\nBalance: %.2f\nReferral code: %s\n",
		user.Username, user.Phone, user.Balance, user.ReferralCode)
	return nil
}

func (v *Views) Referrals(ctx context.Context, w io.Writer) error {
	stats, err := v.referrals.Stats(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Referrals: %d total (L1 %d / L2 %d / L3 %d), earned %.2f\n",
		stats.Counts.Total, stats.Counts.Level1, stats.Counts.Level2, stats.Counts.Level3, stats.Earnings)

	refs, err := v.referrals.History(ctx)
	if err != nil {
		return err
	}
	for _, ref := range refs {
		fmt.Fprintf(w, "  L%d %-16s joined %s  earned %.2f\n", ref.Level, ref.Username, ref.JoinedAt, ref.Earnings.Total)
	}
	return nil
}

func (v *Views) Forex(ctx context.Context, w io.Writer) error {
	positions, err := v.investments.List(ctx)
	if err != nil {
		return err
	}
	if len(positions) == 0 {
		fmt.Fprintln(w, "No open positions.")
		return nil
	}
	for _, p := range positions {
		fmt.Fprintf(w, "  %-8s %10.2f @ %.5f -> %.5f  roi %.2f%%  profit %.2f  [%s]\n",
			p.ForexPair, p.Amount, p.EntryPrice, p.CurrentPrice, p.DailyROI, p.Profit, p.Status)
	}
	return nil
}
