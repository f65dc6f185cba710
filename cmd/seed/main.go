package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"furrylink/internal/core/auth"
	"furrylink/internal/core/config"
	"furrylink/internal/core/database"
	"furrylink/internal/core/logger"
	"furrylink/internal/core/session"
	"furrylink/internal/domain"
	"furrylink/internal/policy"
	"furrylink/internal/repo"
	"furrylink/internal/service"
)

func strp(s string) *string { return &s }

// 演示数据：一个收容所账号、一个个人账号、一条评价；已存在则跳过
func main() {
	cfgPath := flag.String("config", "", "config file")
	password := flag.String("password", "password123", "password for seeded users")
	flag.Parse()

	_ = godotenv.Load()
	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log, cleanup := logger.NewFromConfig(cfg.Log)
	defer cleanup()
	if cfg.DB.Driver == "memory" {
		log.Fatal("seed needs a real database; set db.driver to postgres or mysql")
	}

	db, err := database.NewGorm(cfg.DB, log)
	if err != nil {
		log.Fatal("db open", zap.Error(err))
	}
	st := repo.NewStore(db)
	if err := st.Migrate(); err != nil {
		log.Fatal("automigrate failed", zap.Error(err))
	}

	ctx := context.Background()
	sessions := session.NewManager(session.NewMemoryStore(),
		&auth.JWTer{Secret: []byte(cfg.Session.Secret), Issuer: cfg.Session.Issuer, TTL: cfg.Session.TTL()}, log)
	authSvc := service.NewAuthService(st, sessions, log)
	users := service.NewUserService(st, policy.New(policy.Options{}), nil, log)
	reviews := service.NewReviewService(st, policy.New(policy.Options{}), log)

	seeds := []service.SignupInput{
		{
			Email: "animalshelter@example.com", Telephone: "0767-812-345", Password: *password,
			AnimalShelter: true, OrganizationName: strp("Animal Shelter"),
		},
		{
			FirstName: strp("Jane"), LastName: strp("Doe"),
			Email: "jane@example.com", Telephone: "0767-812-346", Password: *password,
		},
	}
	var ids []uint
	for _, in := range seeds {
		u, _, err := authSvc.Signup(ctx, in)
		switch {
		case errors.Is(err, domain.ErrConflict):
			existing, ferr := findExisting(ctx, st.Users(), in)
			if ferr != nil || existing == nil {
				log.Fatal("seed lookup", zap.String("email", in.Email), zap.Error(ferr))
			}
			log.Info("user exists, skipped", zap.String("email", in.Email), zap.Uint("id", existing.ID))
			ids = append(ids, existing.ID)
		case err != nil:
			log.Fatal("seed user", zap.String("email", in.Email), zap.Error(err))
		default:
			log.Info("seeded user", zap.String("email", in.Email), zap.Uint("id", u.ID))
			ids = append(ids, u.ID)
		}
	}

	reviewer := domain.Identity{UserID: ids[len(ids)-1]}
	d, err := users.Detail(ctx, reviewer.UserID)
	if err != nil {
		log.Fatal("seed detail", zap.Error(err))
	}
	if len(d.Reviews) == 0 {
		if _, err := reviews.Create(ctx, reviewer, "Amazing app"); err != nil {
			log.Fatal("seed review", zap.Error(err))
		}
		log.Info("seeded review", zap.Uint("uid", reviewer.UserID))
	}
	fmt.Printf("seeded %d users (password=%s)\n", len(ids), *password)
}

// findExisting 冲突可能来自 email，也可能来自 telephone
func findExisting(ctx context.Context, users domain.UserRepository, in service.SignupInput) (*domain.User, error) {
	u, err := users.FindByEmail(ctx, in.Email)
	if err != nil || u != nil {
		return u, err
	}
	return users.FindByTelephone(ctx, in.Telephone)
}
