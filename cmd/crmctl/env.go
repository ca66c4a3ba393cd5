package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/diewo77/epic-crm/internal/audit"
	"github.com/diewo77/epic-crm/internal/config"
	"github.com/diewo77/epic-crm/internal/db"
	"github.com/diewo77/epic-crm/internal/policy"
	"github.com/diewo77/epic-crm/internal/services"
	"github.com/urfave/cli/v3"
	"gorm.io/gorm"
)

// env is what every command runs against.
type env struct {
	cfg   *config.Config
	db    *gorm.DB
	svc   *services.Services
	flush func()
}

func openEnv(ctx context.Context) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	gdb, err := db.Open(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	sink, flush, err := audit.Setup(gdb, cfg.Audit.SentryDSN, cfg.Audit.SentryEnvironment)
	if err != nil {
		return nil, err
	}
	ag := policy.NewAuthGate(gdb, cfg.Auth.IdentityCacheTTL)
	svc := services.New(gdb, ag, services.Options{
		Ownership: services.ContractOwnership(cfg.App.ContractOwnership),
		Sink:      sink,
	})
	return &env{cfg: cfg, db: gdb, svc: svc, flush: flush}, nil
}

// withRequester opens the environment, authenticates --as and runs fn.
func withRequester(fn func(ctx context.Context, c *cli.Command, e *env, r policy.Requester) error) cli.ActionFunc {
	return func(ctx context.Context, c *cli.Command) error {
		email := c.String("as")
		if email == "" {
			return errors.New("--as (or CRM_AS) is required")
		}
		e, err := openEnv(ctx)
		if err != nil {
			return err
		}
		defer e.flush()
		identity, err := e.svc.Identities.Authenticate(ctx, email, c.String("password"))
		if err != nil {
			return err
		}
		return fn(ctx, c, e, policy.FromIdentity(identity))
	}
}

// idArg parses the first positional argument as a record id.
func idArg(c *cli.Command) (uint, error) {
	raw := c.Args().First()
	if raw == "" {
		return 0, errors.New("missing id argument")
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return uint(id), nil
}

// optional returns a pointer to the flag value when it was set.
func optional[T any](c *cli.Command, name string, get func(string) T) *T {
	if !c.IsSet(name) {
		return nil
	}
	v := get(name)
	return &v
}
