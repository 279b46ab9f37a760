package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/hrmanager/hrm-api/internal/core/domain"
	"github.com/hrmanager/hrm-api/internal/core/ports"
	"github.com/hrmanager/hrm-api/internal/core/validation"
)

// claimTTL bounds how long an unfinished installation blocks others. A claim
// older than this is treated as abandoned by a crashed process.
const claimTTL = 5 * time.Minute

// InstallService drives the uninstalled → installed transition.
type InstallService struct {
	installs  ports.InstallationRepository
	users     ports.UserRepository
	settings  ports.ResourceRepository[domain.Setting]
	defaults  []domain.Setting
	validator *validation.Validator
	log       zerolog.Logger

	now      func() time.Time
	newToken func() string
}

// NewInstallService builds the service. defaults is the full set of setting
// keys seeded at install time; Install may override their values only.
func NewInstallService(
	installs ports.InstallationRepository,
	users ports.UserRepository,
	settings ports.ResourceRepository[domain.Setting],
	defaults []domain.Setting,
	v *validation.Validator,
	log zerolog.Logger,
) *InstallService {
	if v == nil {
		v = validation.New()
	}
	return &InstallService{
		installs:  installs,
		users:     users,
		settings:  settings,
		defaults:  defaults,
		validator: v,
		log:       log,
		now:       time.Now,
		newToken:  uuid.NewString,
	}
}

// CheckInitialState reports whether the first-run setup has completed.
func (s *InstallService) CheckInitialState(ctx context.Context) (domain.InstallationStatus, error) {
	inst, err := s.installs.Get(ctx)
	if err != nil {
		return domain.InstallationStatus{}, fmt.Errorf("read installation state: %w", err)
	}
	return inst.Status(), nil
}

// Install creates the first admin and the settings, then marks the system
// installed. Concurrent callers race on a single conditional write; exactly
// one wins and every other caller gets domain.ErrAlreadyInstalled before
// anything is written.
func (s *InstallService) Install(ctx context.Context, in ports.InstallInput) (*ports.InstallResult, error) {
	in.Admin.Name = strings.TrimSpace(in.Admin.Name)
	in.Admin.Email = normalizeEmail(in.Admin.Email)
	if err := s.validator.Struct(ctx, &in); err != nil {
		return nil, err
	}
	settings, err := s.mergeSettings(in.Settings)
	if err != nil {
		return nil, err
	}
	hash, err := HashPassword(in.Admin.Password)
	if err != nil {
		return nil, err
	}

	current, err := s.installs.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("read installation state: %w", err)
	}
	if current != nil && current.State == domain.StateInstalled {
		return nil, domain.ErrAlreadyInstalled
	}

	now := s.now().UTC()
	token := s.newToken()
	admin := &domain.User{
		Meta:         domain.Meta{ID: uuid.NewString(), CreatedAt: now, UpdatedAt: now},
		Name:         in.Admin.Name,
		Email:        in.Admin.Email,
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
	}
	admin.CreatedBy = admin.ID

	abandoned, err := s.installs.Claim(ctx, token, admin.ID, now, now.Add(-claimTTL))
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyInstalled) {
			s.log.Info().Msg("install rejected: already installed or in progress")
		}
		return nil, err
	}
	if err := s.clearAbandoned(ctx, abandoned); err != nil {
		s.rollback(ctx, token, admin.ID, settings)
		return nil, err
	}

	if err := s.seed(ctx, admin, settings, now); err != nil {
		s.rollback(ctx, token, admin.ID, settings)
		return nil, err
	}
	if err := s.installs.Complete(ctx, token, now); err != nil {
		if errors.Is(err, domain.ErrAlreadyInstalled) {
			// the claim was taken over; the settings now belong to the new holder
			s.rollback(ctx, token, admin.ID, nil)
		} else {
			s.rollback(ctx, token, admin.ID, settings)
		}
		return nil, fmt.Errorf("complete installation: %w", err)
	}

	s.log.Info().Str("admin_id", admin.ID).Int("settings", len(settings)).Msg("system installed")
	return &ports.InstallResult{Admin: admin, Settings: settings}, nil
}

// clearAbandoned removes the admin created by a claim that was taken over.
// Its settings are replaced by seed.
func (s *InstallService) clearAbandoned(ctx context.Context, prev *domain.Installation) error {
	if prev == nil || prev.AdminID == "" {
		return nil
	}
	if err := s.users.Delete(ctx, prev.AdminID); err != nil && !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("remove abandoned admin: %w", err)
	}
	s.log.Warn().
		Str("abandoned_admin_id", prev.AdminID).
		Time("claimed_at", prev.ClaimedAt).
		Msg("took over abandoned installation")
	return nil
}

func (s *InstallService) seed(ctx context.Context, admin *domain.User, settings []*domain.Setting, now time.Time) error {
	if err := s.users.Insert(ctx, admin); err != nil {
		return fmt.Errorf("create admin: %w", err)
	}

	keys := settingKeys(settings)
	// Leftovers from an earlier failed attempt would collide with the inserts.
	if _, err := s.settings.DeleteMany(ctx, keys); err != nil {
		return fmt.Errorf("clear settings: %w", err)
	}
	for _, st := range settings {
		st.CreatedBy = admin.ID
		st.CreatedAt, st.UpdatedAt = now, now
		if err := s.settings.Insert(ctx, st); err != nil {
			return fmt.Errorf("seed setting %s: %w", st.ID, err)
		}
	}
	return nil
}

// rollback undoes a partial installation so a later attempt can succeed.
func (s *InstallService) rollback(ctx context.Context, token, adminID string, settings []*domain.Setting) {
	ctx = context.WithoutCancel(ctx)
	if err := s.users.Delete(ctx, adminID); err != nil && !errors.Is(err, domain.ErrNotFound) {
		s.log.Error().Err(err).Str("admin_id", adminID).Msg("install rollback: delete admin")
	}
	if len(settings) > 0 {
		if _, err := s.settings.DeleteMany(ctx, settingKeys(settings)); err != nil {
			s.log.Error().Err(err).Msg("install rollback: delete settings")
		}
	}
	if err := s.installs.Release(ctx, token); err != nil {
		s.log.Error().Err(err).Msg("install rollback: release claim")
	}
	s.log.Warn().Msg("installation rolled back")
}

// mergeSettings overlays overrides on the defaults. Unknown keys are rejected
// so the set of settings stays fixed at install time.
func (s *InstallService) mergeSettings(overrides map[string]string) ([]*domain.Setting, error) {
	out := make([]*domain.Setting, 0, len(s.defaults))
	known := make(map[string]struct{}, len(s.defaults))
	for _, d := range s.defaults {
		st := d
		known[st.ID] = struct{}{}
		if v, ok := overrides[st.ID]; ok {
			st.Value = strings.TrimSpace(v)
		}
		out = append(out, &st)
	}

	var unknown []string
	for k := range overrides {
		if _, ok := known[k]; !ok {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, domain.Validationf("unknown settings: %s", strings.Join(unknown, ", "))
	}

	for _, st := range out {
		if st.ID == domain.SettingCompanyName && st.Value == "" {
			return nil, domain.Validationf("settings.%s is required", domain.SettingCompanyName)
		}
	}
	if _, ok := known[domain.SettingCompanyName]; !ok {
		return nil, domain.Validationf("settings.%s is required", domain.SettingCompanyName)
	}
	return out, nil
}

func settingKeys(settings []*domain.Setting) []string {
	keys := make([]string, len(settings))
	for i, st := range settings {
		keys[i] = st.ID
	}
	return keys
}
