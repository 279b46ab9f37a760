package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gosimple/slug"

	"github.com/hrmanager/hrm-api/internal/core/domain"
	"github.com/hrmanager/hrm-api/internal/core/ports"
)

const fallbackCurrency = "USD"

// UserHooks hash passwords and keep the stored hash when an update does not
// carry a new password.
func UserHooks() Hooks[domain.User] {
	return Hooks[domain.User]{
		BeforeCreate: func(_ context.Context, u *domain.User) error {
			u.Email = normalizeEmail(u.Email)
			if u.Password == "" {
				return domain.Validationf("password is required")
			}
			hash, err := HashPassword(u.Password)
			if err != nil {
				return err
			}
			u.PasswordHash, u.Password = hash, ""
			return nil
		},
		BeforeUpdate: func(_ context.Context, existing, incoming *domain.User) error {
			incoming.Email = normalizeEmail(incoming.Email)
			if incoming.Password == "" {
				incoming.PasswordHash = existing.PasswordHash
				return nil
			}
			hash, err := HashPassword(incoming.Password)
			if err != nil {
				return err
			}
			incoming.PasswordHash, incoming.Password = hash, ""
			return nil
		},
	}
}

func AttendanceHooks() Hooks[domain.Attendance] {
	check := func(a *domain.Attendance) error {
		if a.CheckIn != nil && a.CheckOut != nil && a.CheckOut.Before(*a.CheckIn) {
			return domain.Validationf("check_out must not be before check_in")
		}
		return nil
	}
	return Hooks[domain.Attendance]{
		BeforeCreate: func(_ context.Context, a *domain.Attendance) error {
			if a.Status == "" {
				a.Status = "present"
			}
			return check(a)
		},
		BeforeUpdate: func(_ context.Context, _, a *domain.Attendance) error {
			return check(a)
		},
	}
}

// LeaveHooks start every request as pending, enforce review transitions and
// notify admins on submission and the employee on review.
func LeaveHooks(n ports.Notifier) Hooks[domain.Leave] {
	return Hooks[domain.Leave]{
		BeforeCreate: func(_ context.Context, l *domain.Leave) error {
			l.Status = domain.ReviewPending
			return nil
		},
		BeforeUpdate: func(_ context.Context, existing, incoming *domain.Leave) error {
			return reviewMove(&incoming.Status, existing.Status)
		},
		AfterCreate: func(_ context.Context, l *domain.Leave) {
			notify(n, ports.NotificationInput{
				Audience:   domain.RoleAdmin,
				Title:      "Leave request submitted",
				Message:    fmt.Sprintf("%s leave from %s to %s", l.Type, day(l.StartDate), day(l.EndDate)),
				SourceKind: domain.KindLeave,
				SourceID:   l.ID,
			})
		},
		AfterUpdate: func(_ context.Context, before, after *domain.Leave) {
			if before.Status == after.Status {
				return
			}
			notify(n, ports.NotificationInput{
				RecipientID: after.EmployeeID,
				Title:       "Leave request " + after.Status,
				SourceKind:  domain.KindLeave,
				SourceID:    after.ID,
			})
		},
	}
}

// ExpenseHooks mirror LeaveHooks and default the currency from the currency
// setting.
func ExpenseHooks(n ports.Notifier, settings ports.ResourceRepository[domain.Setting]) Hooks[domain.Expense] {
	return Hooks[domain.Expense]{
		BeforeCreate: func(ctx context.Context, e *domain.Expense) error {
			e.Status = domain.ReviewPending
			if e.Currency == "" {
				cur, err := defaultCurrency(ctx, settings)
				if err != nil {
					return err
				}
				e.Currency = cur
			}
			e.Currency = strings.ToUpper(e.Currency)
			return nil
		},
		BeforeUpdate: func(_ context.Context, existing, incoming *domain.Expense) error {
			if incoming.Currency == "" {
				incoming.Currency = existing.Currency
			}
			incoming.Currency = strings.ToUpper(incoming.Currency)
			return reviewMove(&incoming.Status, existing.Status)
		},
		AfterCreate: func(_ context.Context, e *domain.Expense) {
			notify(n, ports.NotificationInput{
				Audience:   domain.RoleAdmin,
				Activity:   domain.ActivityExpense,
				Title:      "Expense submitted",
				Message:    fmt.Sprintf("%s: %.2f %s", e.Title, e.Amount, e.Currency),
				SourceKind: domain.KindExpense,
				SourceID:   e.ID,
			})
		},
		AfterUpdate: func(_ context.Context, before, after *domain.Expense) {
			if before.Status == after.Status {
				return
			}
			notify(n, ports.NotificationInput{
				RecipientID: after.EmployeeID,
				Activity:    domain.ActivityExpense,
				Title:       "Expense " + after.Status,
				Message:     after.Title,
				SourceKind:  domain.KindExpense,
				SourceID:    after.ID,
			})
		},
	}
}

func ProjectHooks(n ports.Notifier) Hooks[domain.Project] {
	check := func(p *domain.Project) error {
		if p.StartDate != nil && p.EndDate != nil && p.EndDate.Before(*p.StartDate) {
			return domain.Validationf("end_date must not be before start_date")
		}
		return nil
	}
	return Hooks[domain.Project]{
		BeforeCreate: func(_ context.Context, p *domain.Project) error {
			if p.Status == "" {
				p.Status = "planned"
			}
			return check(p)
		},
		BeforeUpdate: func(_ context.Context, _, p *domain.Project) error {
			return check(p)
		},
		AfterCreate: func(_ context.Context, p *domain.Project) {
			for _, member := range p.MemberIDs {
				notify(n, ports.NotificationInput{
					RecipientID: member,
					Activity:    domain.ActivityProject,
					Title:       "Added to project " + p.Name,
					SourceKind:  domain.KindProject,
					SourceID:    p.ID,
				})
			}
		},
	}
}

func TaskHooks(n ports.Notifier) Hooks[domain.Task] {
	assigned := func(t *domain.Task) {
		notify(n, ports.NotificationInput{
			RecipientID: t.AssigneeID,
			Activity:    domain.ActivityTask,
			Title:       "Task assigned: " + t.Title,
			SourceKind:  domain.KindTask,
			SourceID:    t.ID,
		})
	}
	return Hooks[domain.Task]{
		BeforeCreate: func(_ context.Context, t *domain.Task) error {
			if t.Status == "" {
				t.Status = "todo"
			}
			if t.Priority == "" {
				t.Priority = "medium"
			}
			return nil
		},
		AfterCreate: func(_ context.Context, t *domain.Task) {
			if t.AssigneeID != "" {
				assigned(t)
			}
		},
		AfterUpdate: func(_ context.Context, before, after *domain.Task) {
			if after.AssigneeID != "" && after.AssigneeID != before.AssigneeID {
				assigned(after)
			}
		},
	}
}

func DepartmentHooks() Hooks[domain.Department] {
	return Hooks[domain.Department]{
		BeforeCreate: func(_ context.Context, d *domain.Department) error {
			d.Slug = slug.Make(d.Name)
			return nil
		},
		BeforeUpdate: func(_ context.Context, _, d *domain.Department) error {
			d.Slug = slug.Make(d.Name)
			return nil
		},
	}
}

func DesignationHooks() Hooks[domain.Designation] {
	return Hooks[domain.Designation]{
		BeforeCreate: func(_ context.Context, d *domain.Designation) error {
			d.Slug = slug.Make(d.Name)
			return nil
		},
		BeforeUpdate: func(_ context.Context, _, d *domain.Designation) error {
			d.Slug = slug.Make(d.Name)
			return nil
		},
	}
}

// AnnouncementHooks stamp the publication time and broadcast a notification.
func AnnouncementHooks(n ports.Notifier) Hooks[domain.Announcement] {
	return Hooks[domain.Announcement]{
		BeforeCreate: func(_ context.Context, a *domain.Announcement) error {
			if a.PublishedAt == nil {
				now := time.Now().UTC()
				a.PublishedAt = &now
			}
			return nil
		},
		AfterCreate: func(_ context.Context, a *domain.Announcement) {
			notify(n, ports.NotificationInput{
				Title:      a.Title,
				Message:    a.Body,
				SourceKind: domain.KindAnnouncement,
				SourceID:   a.ID,
			})
		},
	}
}

// reviewMove keeps the stored status when none is given and rejects moves
// the review workflow does not allow.
func reviewMove(next *string, current string) error {
	if *next == "" {
		*next = current
		return nil
	}
	if !domain.CanReview(current, *next) {
		return domain.Validationf("status cannot change from %s to %s", current, *next)
	}
	return nil
}

func defaultCurrency(ctx context.Context, settings ports.ResourceRepository[domain.Setting]) (string, error) {
	if settings == nil {
		return fallbackCurrency, nil
	}
	s, err := settings.FindByID(ctx, domain.SettingCurrency)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return fallbackCurrency, nil
	case err != nil:
		return "", fmt.Errorf("read currency setting: %w", err)
	case s.Value == "":
		return fallbackCurrency, nil
	}
	return s.Value, nil
}

func notify(n ports.Notifier, in ports.NotificationInput) {
	if n != nil {
		n.Enqueue(in)
	}
}

func day(t time.Time) string { return t.Format(time.DateOnly) }
