package main

import (
	"context"
	"flag"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"

	"argus/internal/adapters/config"
	"argus/internal/adapters/postgres"
	"argus/internal/domain/holding"
	"argus/internal/domain/user"
	repo "argus/internal/repository/postgres"
	"argus/internal/services/strategies"
	"argus/pkg/errors"
	"argus/pkg/logger"
)

// sample positions seeded for local development
var sampleHoldings = []struct {
	symbol    string
	shares    float64
	costBasis float64
}{
	{"AAPL", 25, 172.40},
	{"MSFT", 10, 338.12},
	{"IONQ/WS", 200, 4.85},
	{"NVDA", 8, 455.90},
}

func main() {
	preset := flag.String("preset", "capital-preservation", "Strategy preset to apply (empty to skip)")
	holdings := flag.Bool("holdings", true, "Seed sample holdings")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	if err := logger.Init(cfg.App.LogLevel, cfg.App.Env); err != nil {
		panic("failed to init logger: " + err.Error())
	}
	defer logger.Sync()

	log := logger.Get()
	log.Infow("Starting seeder",
		"database", cfg.Postgres.Database,
		"preset", *preset,
		"holdings", *holdings,
	)

	pgClient, err := postgres.NewClient(cfg.Postgres)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pgClient.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db := pgClient.DB()
	userRepo := repo.NewUserRepository(db)
	holdingRepo := repo.NewHoldingRepository(db)
	ruleRepo := repo.NewRuleRepository(db)

	u, err := ensureUser(ctx, userRepo, cfg.App.DefaultUserEmail)
	if err != nil {
		log.Fatalf("Failed to ensure default user: %v", err)
	}
	log.Infow("Using user", "email", u.Email, "id", u.ID)

	if *holdings {
		if err := seedHoldings(ctx, holdingRepo, u.ID); err != nil {
			log.Fatalf("Failed to seed holdings: %v", err)
		}
	}

	if *preset != "" {
		created, err := strategies.NewService(ruleRepo, log).Apply(ctx, u.ID, strings.ToLower(*preset))
		if err != nil {
			log.Fatalf("Failed to apply preset: %v", err)
		}
		log.Infow("Applied preset", "preset", *preset, "rules_created", len(created))
	}

	log.Info("✅ Seeding complete")
}

func ensureUser(ctx context.Context, users user.Repository, email string) (*user.User, error) {
	u, err := users.GetByEmail(ctx, email)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, errors.ErrNotFound) {
		return nil, err
	}

	u = &user.User{ID: uuid.New(), Email: email, CreatedAt: time.Now().UTC()}
	if err := users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func seedHoldings(ctx context.Context, holdings holding.Repository, userID uuid.UUID) error {
	existing, err := holdings.ListByUser(ctx, userID)
	if err != nil {
		return err
	}

	held := make(map[string]bool, len(existing))
	for _, h := range existing {
		held[h.Symbol] = true
	}

	for _, s := range sampleHoldings {
		if held[s.symbol] {
			logger.Get().Debugw("Holding already seeded, skipping", "symbol", s.symbol)
			continue
		}
		now := time.Now().UTC()
		h := &holding.Holding{
			ID:        uuid.New(),
			UserID:    userID,
			Symbol:    s.symbol,
			Shares:    decimal.NewFromFloat(s.shares),
			CostBasis: decimal.NewFromFloat(s.costBasis),
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := holdings.Create(ctx, h); err != nil {
			return err
		}
		logger.Get().Infow("Seeded holding", "symbol", s.symbol, "shares", s.shares)
	}

	return nil
}
