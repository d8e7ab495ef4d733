// Command fxclient is the terminal client for the forex-investment platform.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/smarthomeo/fxclient/internal/app"
	"github.com/smarthomeo/fxclient/internal/core/domain"
	"github.com/smarthomeo/fxclient/internal/core/ports"
	"github.com/smarthomeo/fxclient/internal/core/service"
	"github.com/smarthomeo/fxclient/internal/infrastructure/api"
	"github.com/smarthomeo/fxclient/internal/infrastructure/config"
	sessionstore "github.com/smarthomeo/fxclient/internal/infrastructure/session"
	"github.com/smarthomeo/fxclient/pkg/logger"
)

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.Env == "development"})

	ctx := context.Background()

	sessions, err := buildSessionStore(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("session store init failed")
	}

	client := api.NewClient(cfg.BackendURL, api.NewHTTPClient(cfg.HTTPTimeout), log)
	authAPI := api.NewAuthAPI(client)

	nav := app.NewHistory(app.RouteLanding)
	auth := service.NewAuthService(authAPI, api.NewUserAPI(client), sessions, nav, app.RouteLogin, log)
	guard := app.NewGuard(auth)
	router := app.NewRouter(guard, auth, nav, os.Stdout, log)

	transactions := api.NewTransactionAPI(client)
	investments := api.NewInvestmentAPI(client)
	app.NewViews(auth, transactions, investments, api.NewReferralAPI(client)).Register(router)

	// Explicit loading state: nothing route-shaped renders until the
	// persisted session has been reconciled with the server.
	fmt.Println("Loading...")
	if auth.Bootstrap(ctx) {
		nav.Replace(app.RouteDashboard)
	}

	run(ctx, router, nav, auth, transactions, investments)
}

func buildSessionStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (ports.SessionRepository, error) {
	switch cfg.Session.Backend {
	case "file":
		path := cfg.Session.File
		if path == "" {
			var err error
			if path, err = sessionstore.DefaultFilePath(); err != nil {
				return nil, err
			}
		}
		return sessionstore.NewFileStore(path, log), nil
	case "redis":
		client, err := sessionstore.Connect(ctx, sessionstore.RedisConfig{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			return nil, err
		}
		return sessionstore.NewRedisStore(client, log), nil
	case "memory":
		return sessionstore.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown session backend %q", cfg.Session.Backend)
	}
}

func run(ctx context.Context, router *app.Router, nav *app.History, auth *service.AuthService, transactions *api.TransactionAPI, investments *api.InvestmentAPI) {
	render := func() {
		if err := router.RenderCurrent(ctx); err != nil {
			// Screen-level failures surface as a message, never a crash.
			fmt.Printf("! %v\n", friendly(err))
		}
	}
	render()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Printf("[%s] > ", nav.Current())
		if !scanner.Scan() {
			return
		}
		args := strings.Fields(scanner.Text())
		if len(args) == 0 {
			continue
		}

		var err error
		switch args[0] {
		case "quit", "exit":
			return
		case "go":
			if len(args) == 2 {
				nav.Navigate(args[1])
			}
		case "back":
			nav.Back()
		case "login":
			if len(args) != 3 {
				fmt.Println("usage: login <phone> <password>")
				continue
			}
			if _, err = auth.Login(ctx, args[1], args[2]); err == nil {
				nav.Navigate(app.RouteDashboard)
			}
		case "register":
			if len(args) < 4 {
				fmt.Println("usage: register <username> <phone> <password> [referral code]")
				continue
			}
			code := ""
			if len(args) == 5 {
				code = args[4]
			}
			if _, err = auth.Register(ctx, args[1], args[2], args[3], code); err == nil {
				nav.Navigate(app.RouteDashboard)
			}
		case "logout":
			err = auth.Logout(ctx)
			nav.Replace(app.RouteLanding)
		case "deposit":
			err = withAmount(args, func(amount float64) error {
				tx, dErr := transactions.InitiateDeposit(ctx, amount)
				if dErr != nil {
					return dErr
				}
				fmt.Printf("deposit %s pending; confirm with: confirm %s\n", tx.ID, tx.ID)
				return nil
			})
		case "confirm":
			if len(args) == 2 {
				_, err = transactions.ConfirmDeposit(ctx, args[1])
			}
		case "withdraw":
			err = withAmount(args, func(amount float64) error {
				_, wErr := transactions.InitiateWithdrawal(ctx, amount)
				return wErr
			})
		case "invest":
			if len(args) != 4 {
				fmt.Println("usage: invest <pair> <amount> <daily roi>")
				continue
			}
			amount, aErr := strconv.ParseFloat(args[2], 64)
			roi, rErr := strconv.ParseFloat(args[3], 64)
			if aErr != nil || rErr != nil {
				fmt.Println("amount and roi must be numbers")
				continue
			}
			_, err = investments.Create(ctx, args[1], amount, roi)
		default:
			fmt.Println("commands: go back login register logout deposit confirm withdraw invest quit")
			continue
		}

		if errors.Is(err, domain.ErrAuthenticationRequired) {
			auth.HandleUnauthorized(ctx)
		} else if err != nil {
			fmt.Printf("! %v\n", friendly(err))
		}
		render()
	}
}

func withAmount(args []string, fn func(float64) error) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: %s <amount>", args[0])
	}
	amount, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("amount must be a number")
	}
	return fn(amount)
}

// friendly strips the transport detail off API errors, leaving the message
// the backend meant for the visitor.
func friendly(err error) string {
	var apiErr *domain.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}
