package orchestrator

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"

	"github.com/fleetdocs/certintake/internal/common"
	"github.com/fleetdocs/certintake/internal/entity"
	"github.com/fleetdocs/certintake/internal/repository"
)

// BootstrapAdmin ensures the admin account exists. Safe to run on every
// startup: an existing account is left untouched. When the account is
// created and no password is configured, a random one is generated and
// logged once.
func BootstrapAdmin(ctx context.Context, users repository.UserRepository, username, password string, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	if username == "" {
		username = "admin"
	}

	_, err := users.FindByUsername(ctx, username)
	if err == nil {
		logger.Info("bootstrap.admin_exists", "username", username)
		return nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		return fmt.Errorf("bootstrap admin lookup: %w", err)
	}

	generated := false
	if password == "" {
		buf := make([]byte, 16)
		if _, err := rand.Read(buf); err != nil {
			return fmt.Errorf("bootstrap admin password: %w", err)
		}
		password = hex.EncodeToString(buf)
		generated = true
	}

	sum := sha256.Sum256([]byte(password))
	_, err = users.Create(ctx, &entity.User{
		Username:     username,
		PasswordHash: hex.EncodeToString(sum[:]),
		IsAdmin:      true,
	})
	if err != nil {
		return fmt.Errorf("bootstrap admin create: %w", err)
	}

	if generated {
		logger.Warn("bootstrap.admin_created_with_generated_password",
			"username", username, "password", password)
	} else {
		logger.Info("bootstrap.admin_created", "username", username)
	}
	return nil
}
