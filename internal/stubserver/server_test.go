package stubserver

import (
	"bytes"
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/smarthomeo/fxclient/internal/app"
	"github.com/smarthomeo/fxclient/internal/core/domain"
	"github.com/smarthomeo/fxclient/internal/core/service"
	"github.com/smarthomeo/fxclient/internal/infrastructure/api"
	sessionstore "github.com/smarthomeo/fxclient/internal/infrastructure/session"
)

type fixture struct {
	stub   *Server
	srv    *httptest.Server
	client *api.Client
	auth   *api.AuthAPI
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	stub := New("test-secret", zerolog.Nop())
	srv := httptest.NewServer(stub.Handler())
	t.Cleanup(srv.Close)

	client := api.NewClient(srv.URL, api.NewHTTPClient(5*time.Second), zerolog.Nop())
	return &fixture{stub: stub, srv: srv, client: client, auth: api.NewAuthAPI(client)}
}

func TestRegisterLoginVerifyFlow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user, err := f.auth.Register(ctx, "alice", "254700000001", "pw", "")
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user.Username != "alice" || !user.IsActive {
		t.Fatalf("unexpected registered user: %+v", user)
	}

	// the cookie from registration authenticates the verify call
	verified, err := f.auth.Verify(ctx)
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if verified.ID != user.ID {
		t.Fatalf("verify returned a different user: %+v", verified)
	}

	if err := f.auth.Logout(ctx); err != nil {
		t.Fatalf("Logout returned error: %v", err)
	}
	if _, err := f.auth.Verify(ctx); err == nil {
		t.Fatalf("verify must fail after logout")
	}

	if _, err := f.auth.Login(ctx, "254700000001", "wrong"); err == nil {
		t.Fatalf("expected invalid credentials error")
	}
	if _, err := f.auth.Login(ctx, "254700000001", "pw"); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
}

func TestDepositInvestEarningsFlow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.auth.Register(ctx, "bob", "254700000002", "pw", ""); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	transactions := api.NewTransactionAPI(f.client)
	tx, err := transactions.InitiateDeposit(ctx, 500)
	if err != nil {
		t.Fatalf("InitiateDeposit returned error: %v", err)
	}
	if tx.Status != "pending" {
		t.Fatalf("expected pending deposit, got %s", tx.Status)
	}

	confirmed, err := transactions.ConfirmDeposit(ctx, tx.ID)
	if err != nil {
		t.Fatalf("ConfirmDeposit returned error: %v", err)
	}
	if confirmed.Status != "completed" {
		t.Fatalf("expected completed deposit, got %s", confirmed.Status)
	}

	investments := api.NewInvestmentAPI(f.client)
	if _, err := investments.Create(ctx, "EUR/USD", 10000, 1.5); err == nil {
		t.Fatalf("expected insufficient balance error")
	}

	inv, err := investments.Create(ctx, "EUR/USD", 200, 1.5)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if inv.ForexPair != "EUR/USD" || inv.Status != "open" {
		t.Fatalf("unexpected investment: %+v", inv)
	}

	open, err := investments.List(ctx)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(open) != 1 {
		t.Fatalf("expected one open position, got %d", len(open))
	}

	earnings, err := investments.Earnings(ctx)
	if err != nil {
		t.Fatalf("Earnings returned error: %v", err)
	}
	if earnings.ActiveInvestments != 1 {
		t.Fatalf("expected one active investment, got %d", earnings.ActiveInvestments)
	}

	if _, err := investments.Close(ctx, inv.ID); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}
	closed, err := investments.History(ctx)
	if err != nil {
		t.Fatalf("History returned error: %v", err)
	}
	if len(closed) != 1 || closed[0].Status != "closed" {
		t.Fatalf("expected one closed position, got %+v", closed)
	}
}

func TestUnauthenticatedCallTripsSentinel(t *testing.T) {
	f := newFixture(t)

	_, err := api.NewTransactionAPI(f.client).List(context.Background())
	if !errors.Is(err, domain.ErrAuthenticationRequired) {
		t.Fatalf("expected ErrAuthenticationRequired, got %v", err)
	}
}

// Persisted session confirmed by the server: bootstrap authenticates and the
// dashboard renders.
func TestBootstrapAgainstServer_Confirmed(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user, err := f.auth.Register(ctx, "carol", "254700000003", "pw", "")
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	// simulate a previous run that persisted the session
	sessions := sessionstore.NewMemoryStore()
	if err := sessions.Save(ctx, domain.NewSession(*user)); err != nil {
		t.Fatalf("seed session: %v", err)
	}

	nav := app.NewHistory(app.RouteLanding)
	svc := service.NewAuthService(f.auth, api.NewUserAPI(f.client), sessions, nav, app.RouteLogin, zerolog.Nop())
	if !svc.Bootstrap(ctx) {
		t.Fatalf("expected authenticated bootstrap")
	}

	out := &bytes.Buffer{}
	transactions := api.NewTransactionAPI(f.client)
	router := app.NewRouter(app.NewGuard(svc), svc, nav, out, zerolog.Nop())
	app.NewViews(svc, transactions, api.NewInvestmentAPI(f.client), api.NewReferralAPI(f.client)).Register(router)

	nav.Navigate(app.RouteDashboard)
	if err := router.Render(ctx, nav.Current()); err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if !strings.Contains(out.String(), "carol") {
		t.Fatalf("expected dashboard for carol, got %q", out.String())
	}

	// a confirmed deposit must show up on the next dashboard draw, and the
	// refreshed balance must land in the persisted slot as well
	tx, err := transactions.InitiateDeposit(ctx, 500)
	if err != nil {
		t.Fatalf("InitiateDeposit returned error: %v", err)
	}
	if _, err := transactions.ConfirmDeposit(ctx, tx.ID); err != nil {
		t.Fatalf("ConfirmDeposit returned error: %v", err)
	}

	out.Reset()
	if err := router.Render(ctx, nav.Current()); err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if !strings.Contains(out.String(), "balance 500.00") {
		t.Fatalf("dashboard shows a stale balance: %q", out.String())
	}
	if slot, _ := sessions.Load(ctx); slot == nil || slot.Balance != 500 {
		t.Fatalf("slot not refreshed after deposit: %+v", slot)
	}
}

// Persisted session the server rejects: bootstrap downgrades, the slot is
// emptied, and /dashboard replaces to /login.
func TestBootstrapAgainstServer_Rejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// a stale persisted session with no matching server-side cookie
	sessions := sessionstore.NewMemoryStore()
	stale := &domain.Session{ID: "user_99", Username: "ghost", Phone: "254700000099"}
	if err := sessions.Save(ctx, stale); err != nil {
		t.Fatalf("seed session: %v", err)
	}

	nav := app.NewHistory(app.RouteLanding)
	svc := service.NewAuthService(f.auth, api.NewUserAPI(f.client), sessions, nav, app.RouteLogin, zerolog.Nop())
	if svc.Bootstrap(ctx) {
		t.Fatalf("expected unauthenticated bootstrap")
	}
	if got, _ := sessions.Load(ctx); got != nil {
		t.Fatalf("slot must be cleared, got %+v", got)
	}

	router := app.NewRouter(app.NewGuard(svc), svc, nav, &bytes.Buffer{}, zerolog.Nop())
	app.NewViews(svc, api.NewTransactionAPI(f.client), api.NewInvestmentAPI(f.client), api.NewReferralAPI(f.client)).Register(router)

	nav.Navigate(app.RouteDashboard)
	if err := router.Render(ctx, nav.Current()); err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if nav.Current() != app.RouteLogin {
		t.Fatalf("expected redirect to login, at %s", nav.Current())
	}
}

func TestAdminSurface(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.stub.SeedUser("root", "254700000000", "admin", true)

	// a regular user leaves a pending withdrawal behind
	if _, err := f.auth.Register(ctx, "dave", "254700000004", "pw", ""); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if _, err := api.NewTransactionAPI(f.client).InitiateWithdrawal(ctx, 50); err != nil {
		t.Fatalf("InitiateWithdrawal returned error: %v", err)
	}

	admin := api.NewAdminAPI(f.client)

	// still logged in as dave: forbidden, reported with the fixed message
	if _, err := admin.PendingTransactions(ctx); err == nil {
		t.Fatalf("non-admin must be rejected")
	}

	if _, err := f.auth.Login(ctx, "254700000000", "admin"); err != nil {
		t.Fatalf("admin login failed: %v", err)
	}
	raw, err := admin.PendingTransactions(ctx)
	if err != nil {
		t.Fatalf("PendingTransactions returned error: %v", err)
	}
	if !strings.Contains(string(raw), "withdrawal") {
		t.Fatalf("expected the pending withdrawal, got %s", raw)
	}
}

func TestReferralTree(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	root, err := f.auth.Register(ctx, "eve", "254700000005", "pw", "")
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if _, err := f.auth.Register(ctx, "frank", "254700000006", "pw", root.ReferralCode); err != nil {
		t.Fatalf("Register referred user: %v", err)
	}

	if _, err := f.auth.Login(ctx, "254700000005", "pw"); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	referrals := api.NewReferralAPI(f.client)

	stats, err := referrals.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats returned error: %v", err)
	}
	if stats.Counts.Level1 != 1 || stats.Counts.Total != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}

	history, err := referrals.History(ctx)
	if err != nil {
		t.Fatalf("History returned error: %v", err)
	}
	if len(history) != 1 || history[0].Username != "frank" || history[0].Level != 1 {
		t.Fatalf("unexpected history: %+v", history)
	}
}
