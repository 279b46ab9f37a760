package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/hrmanager/hrm-api/internal/core/domain"
	"github.com/hrmanager/hrm-api/internal/core/ports"
)

var _ ports.InstallService = (*InstallService)(nil)

type installFixture struct {
	installs *stubInstallRepo
	users    *stubUserRepo
	settings *memRepo[domain.Setting, *domain.Setting]
}

func newInstallFixture() *installFixture {
	return &installFixture{
		installs: &stubInstallRepo{},
		users:    newStubUserRepo(),
		settings: newMemRepo[domain.Setting](),
	}
}

func (f *installFixture) service() *InstallService {
	defaults := []domain.Setting{
		{Meta: domain.Meta{ID: domain.SettingCompanyName}, Value: "", Group: "company"},
		{Meta: domain.Meta{ID: domain.SettingCurrency}, Value: "USD", Group: "finance"},
		{Meta: domain.Meta{ID: "timezone"}, Value: "UTC", Group: "company"},
	}
	return NewInstallService(f.installs, f.users, f.settings, defaults, nil, discardLogger)
}

func validInstall() ports.InstallInput {
	return ports.InstallInput{
		Admin: ports.AdminInput{Name: "Ada Admin", Email: "Ada@Example.com ", Password: "s3cret-pass"},
		Settings: map[string]string{
			domain.SettingCompanyName: "Acme",
			domain.SettingCurrency:    "EUR",
		},
	}
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestInstall_FreshSystem(t *testing.T) {
	f := newInstallFixture()
	svc := f.service()

	status, err := svc.CheckInitialState(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status.Installed || status.State != domain.StateUninstalled {
		t.Fatalf("expected uninstalled, got %+v", status)
	}

	res, err := svc.Install(context.Background(), validInstall())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Admin.Role != domain.RoleAdmin {
		t.Errorf("expected admin role, got %q", res.Admin.Role)
	}
	if res.Admin.Email != "ada@example.com" {
		t.Errorf("email not normalized: %q", res.Admin.Email)
	}
	if res.Admin.PasswordHash == "" || res.Admin.Password != "" {
		t.Error("admin must carry a hash and no plaintext password")
	}
	if !checkPassword(res.Admin.PasswordHash, "s3cret-pass") {
		t.Error("stored hash does not match the password")
	}
	if f.settings.len() != 3 {
		t.Errorf("expected 3 settings, got %d", f.settings.len())
	}
	cur, _ := f.settings.FindByID(context.Background(), domain.SettingCurrency)
	if cur.Value != "EUR" {
		t.Errorf("override not applied: %q", cur.Value)
	}
	tz, _ := f.settings.FindByID(context.Background(), "timezone")
	if tz.Value != "UTC" || tz.CreatedBy != res.Admin.ID {
		t.Errorf("default setting not seeded correctly: %+v", tz)
	}

	status, _ = svc.CheckInitialState(context.Background())
	if !status.Installed || status.InstalledAt == nil {
		t.Fatalf("expected installed, got %+v", status)
	}
}

func TestInstall_SecondCallIsRejected(t *testing.T) {
	f := newInstallFixture()
	svc := f.service()
	if _, err := svc.Install(context.Background(), validInstall()); err != nil {
		t.Fatalf("first install: %v", err)
	}

	in := validInstall()
	in.Admin.Email = "other@example.com"
	_, err := svc.Install(context.Background(), in)
	if !errors.Is(err, domain.ErrAlreadyInstalled) {
		t.Fatalf("expected ErrAlreadyInstalled, got %v", err)
	}
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatal("ErrAlreadyInstalled must map to a conflict")
	}
	if f.users.len() != 1 {
		t.Fatalf("expected a single admin, got %d users", f.users.len())
	}
}

func TestInstall_ConcurrentCallsCreateOneAdmin(t *testing.T) {
	f := newInstallFixture()
	svc := f.service()

	const callers = 16
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		ok       int
		rejected int
		other    []error
	)
	start := make(chan struct{})
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := svc.Install(context.Background(), validInstall())
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, domain.ErrAlreadyInstalled):
				rejected++
			default:
				other = append(other, err)
			}
		}()
	}
	close(start)
	wg.Wait()

	if ok != 1 {
		t.Fatalf("expected exactly one successful install, got %d", ok)
	}
	if rejected != callers-1 {
		t.Fatalf("expected %d rejections, got %d (unexpected errors: %v)", callers-1, rejected, other)
	}
	if f.users.len() != 1 {
		t.Fatalf("expected one admin, got %d", f.users.len())
	}
	if f.installs.claims != 1 {
		t.Fatalf("expected one claim, got %d", f.installs.claims)
	}
}

func TestInstall_StateSurvivesRestart(t *testing.T) {
	f := newInstallFixture()
	if _, err := f.service().Install(context.Background(), validInstall()); err != nil {
		t.Fatalf("install: %v", err)
	}

	restarted := f.service()
	status, err := restarted.CheckInitialState(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !status.Installed {
		t.Fatal("installation must be read back from storage after a restart")
	}
	if _, err := restarted.Install(context.Background(), validInstall()); !errors.Is(err, domain.ErrAlreadyInstalled) {
		t.Fatalf("expected ErrAlreadyInstalled after restart, got %v", err)
	}
}

func TestInstall_FailedSeedRollsBack(t *testing.T) {
	f := newInstallFixture()
	svc := f.service()
	f.settings.insertErr = errors.New("disk full")

	if _, err := svc.Install(context.Background(), validInstall()); err == nil {
		t.Fatal("expected an error")
	}
	if f.users.len() != 0 {
		t.Errorf("admin must be removed on rollback, got %d users", f.users.len())
	}
	status, _ := svc.CheckInitialState(context.Background())
	if status.Installed || status.InProgress {
		t.Fatalf("claim must be released on rollback, got %+v", status)
	}

	f.settings.insertErr = nil
	if _, err := svc.Install(context.Background(), validInstall()); err != nil {
		t.Fatalf("retry after rollback: %v", err)
	}
}

func TestInstall_StaleClaimIsTakenOver(t *testing.T) {
	f := newInstallFixture()
	f.installs.record = &domain.Installation{
		State:      domain.StateInstalling,
		ClaimToken: "crashed",
		ClaimedAt:  time.Now().Add(-time.Hour),
	}
	svc := f.service()

	status, _ := svc.CheckInitialState(context.Background())
	if status.Installed || !status.InProgress {
		t.Fatalf("expected in-progress uninstalled state, got %+v", status)
	}
	if _, err := svc.Install(context.Background(), validInstall()); err != nil {
		t.Fatalf("expected stale claim takeover, got %v", err)
	}
}

func TestInstall_FreshClaimBlocks(t *testing.T) {
	f := newInstallFixture()
	f.installs.record = &domain.Installation{
		State:      domain.StateInstalling,
		ClaimToken: "running",
		ClaimedAt:  time.Now(),
	}

	_, err := f.service().Install(context.Background(), validInstall())
	if !errors.Is(err, domain.ErrAlreadyInstalled) {
		t.Fatalf("expected ErrAlreadyInstalled, got %v", err)
	}
	if f.users.len() != 0 {
		t.Fatal("a blocked install must not write")
	}
}

func TestInstall_InvalidInput(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ports.InstallInput)
	}{
		{"missing email", func(in *ports.InstallInput) { in.Admin.Email = "" }},
		{"bad email", func(in *ports.InstallInput) { in.Admin.Email = "nope" }},
		{"short password", func(in *ports.InstallInput) { in.Admin.Password = "short" }},
		{"missing company", func(in *ports.InstallInput) { delete(in.Settings, domain.SettingCompanyName) }},
		{"blank company", func(in *ports.InstallInput) { in.Settings[domain.SettingCompanyName] = "  " }},
		{"unknown setting", func(in *ports.InstallInput) { in.Settings["favourite_colour"] = "blue" }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newInstallFixture()
			in := validInstall()
			tc.mutate(&in)

			_, err := f.service().Install(context.Background(), in)
			if !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
			if f.installs.claims != 0 || f.users.len() != 0 {
				t.Fatal("invalid input must not claim or write")
			}
		})
	}
}

func TestInstall_NormalizesAdminBeforeValidation(t *testing.T) {
	f := newInstallFixture()
	in := validInstall()
	in.Admin.Name = "  Ada Admin\t"
	in.Admin.Email = "  ADA@Example.COM  "

	res, err := f.service().Install(context.Background(), in)
	if err != nil {
		t.Fatalf("padded admin input must be accepted, got %v", err)
	}
	if res.Admin.Name != "Ada Admin" || res.Admin.Email != "ada@example.com" {
		t.Fatalf("admin not normalized: name=%q email=%q", res.Admin.Name, res.Admin.Email)
	}
	if _, err := f.users.FindByEmail(context.Background(), "ada@example.com"); err != nil {
		t.Fatalf("admin must be stored under the normalized email: %v", err)
	}
}

func TestInstall_TakeoverRemovesAbandonedAdmin(t *testing.T) {
	tests := []struct {
		name        string
		orphanEmail string
	}{
		{"same email", "ada@example.com"},
		{"different email", "ghost@example.com"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ctx := context.Background()
			f := newInstallFixture()
			orphan := &domain.User{Meta: domain.Meta{ID: "orphan-admin"}, Name: "Crashed", Email: tc.orphanEmail, Role: domain.RoleAdmin}
			if err := f.users.Insert(ctx, orphan); err != nil {
				t.Fatalf("seed orphan: %v", err)
			}
			// leftover from the crashed attempt
			if err := f.settings.Insert(ctx, &domain.Setting{Meta: domain.Meta{ID: domain.SettingCompanyName}, Value: "Old"}); err != nil {
				t.Fatalf("seed setting: %v", err)
			}
			f.installs.record = &domain.Installation{
				State:      domain.StateInstalling,
				ClaimToken: "crashed",
				ClaimedAt:  time.Now().Add(-time.Hour),
				AdminID:    orphan.ID,
			}

			res, err := f.service().Install(ctx, validInstall())
			if err != nil {
				t.Fatalf("takeover install failed: %v", err)
			}
			if f.users.len() != 1 {
				t.Fatalf("expected exactly one admin after takeover, got %d users", f.users.len())
			}
			if _, err := f.users.FindByID(ctx, orphan.ID); !errors.Is(err, domain.ErrNotFound) {
				t.Fatalf("abandoned admin must be removed, got %v", err)
			}
			if _, err := f.users.FindByID(ctx, res.Admin.ID); err != nil {
				t.Fatalf("new admin missing: %v", err)
			}
			company, _ := f.settings.FindByID(ctx, domain.SettingCompanyName)
			if company == nil || company.Value != "Acme" {
				t.Fatalf("settings must be reseeded, got %+v", company)
			}
			status, _ := f.service().CheckInitialState(ctx)
			if !status.Installed {
				t.Fatalf("expected installed, got %+v", status)
			}
		})
	}
}
