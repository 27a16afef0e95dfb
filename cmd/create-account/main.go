// create-account seeds an account directly into Postgres. It is the only
// way to create an admin account.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/config"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/observability"
	"github.com/spec-kit/helpdesk-service/internal/persistence"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	"github.com/spec-kit/helpdesk-service/internal/service"
)

type options struct {
	name     string
	email    string
	password string
	role     string
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags(args []string) (options, domain.Role, error) {
	var opts options
	flagSet := pflag.NewFlagSet("create-account", pflag.ContinueOnError)
	flagSet.StringVar(&opts.name, "name", "", "display name (1-30 characters)")
	flagSet.StringVar(&opts.email, "email", "", "login email")
	flagSet.StringVar(&opts.password, "password", "", "initial password (8+ characters, one uppercase letter, one digit)")
	flagSet.StringVar(&opts.role, "role", string(domain.RoleStaff), "staff, supporter or admin")

	if err := flagSet.Parse(args); err != nil {
		return opts, "", err
	}
	if opts.name == "" || opts.email == "" || opts.password == "" {
		return opts, "", errors.New("--name, --email and --password are required")
	}
	role, err := domain.ParseRole(opts.role)
	if err != nil {
		return opts, "", err
	}
	return opts, role, nil
}

func run(args []string) error {
	opts, role, err := parseFlags(args)
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx := context.Background()
	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pg.Close()
	if pg.PoolHandle() == nil {
		return errors.New("POSTGRES_DSN is required")
	}

	accounts := service.NewAccountService(service.AccountDependencies{
		AccountRepo: repository.NewAccountRepository(pg.PoolHandle()),
		Tx:          persistence.NewTxManager(pg.PoolHandle(), logger),
		BcryptCost:  cfg.Auth.BcryptCost,
		Logger:      logger,
	})
	account, err := accounts.BootstrapAccount(ctx, service.AccountCreateInput{
		Name:     opts.name,
		Email:    opts.email,
		Password: opts.password,
		Role:     role,
	})
	if err != nil {
		return err
	}

	logger.Info("account ready", zap.Int64("account_id", account.ID), zap.String("email", account.Email))
	fmt.Printf("created %s account %d (%s)\n", account.Role, account.ID, account.Email)
	return nil
}
