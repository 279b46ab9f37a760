package ports

import (
	"context"
	"time"

	"github.com/hrmanager/hrm-api/internal/core/domain"
)

// InstallationRepository persists the installation singleton. Claim is the
// single mutual-exclusion point: it must be one conditional write.
type InstallationRepository interface {
	// Get returns the current record; a missing record means uninstalled.
	Get(ctx context.Context) (*domain.Installation, error)
	// Claim atomically moves an uninstalled system (or a claim older than
	// staleBefore) into the installing state under token, recording the admin
	// id the holder will create. Any other state yields
	// domain.ErrAlreadyInstalled. When a stale claim is taken over, the
	// abandoned record is returned; otherwise the result is nil.
	Claim(ctx context.Context, token, adminID string, now, staleBefore time.Time) (*domain.Installation, error)
	// Complete moves the claim held by token to installed.
	Complete(ctx context.Context, token string, at time.Time) error
	// Release drops the claim held by token so installation can be retried.
	Release(ctx context.Context, token string) error
}

// AdminInput is the first administrator account created by Install.
type AdminInput struct {
	Name     string `json:"name" validate:"required,max=120"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// InstallInput carries everything Install needs.
type InstallInput struct {
	Admin AdminInput `json:"admin"`
	// Settings override the built-in defaults by key.
	Settings map[string]string `json:"settings"`
}

// InstallResult is returned by a successful Install.
type InstallResult struct {
	Admin    *domain.User      `json:"admin"`
	Settings []*domain.Setting `json:"settings"`
}

// InstallService runs the one-time bootstrap.
type InstallService interface {
	CheckInitialState(ctx context.Context) (domain.InstallationStatus, error)
	Install(ctx context.Context, input InstallInput) (*InstallResult, error)
}
