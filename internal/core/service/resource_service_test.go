package service

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/hrmanager/hrm-api/internal/core/domain"
	"github.com/hrmanager/hrm-api/internal/core/ports"
)

var _ ports.ResourceService[domain.Task] = (*ResourceService[domain.Task, *domain.Task])(nil)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func newTaskService(policy domain.DeletePolicy) (*ResourceService[domain.Task, *domain.Task], *memRepo[domain.Task, *domain.Task]) {
	repo := newMemRepo[domain.Task]()
	svc := NewResourceService[domain.Task](domain.KindTask, repo, nil, discardLogger, ResourceConfig[domain.Task]{
		Hooks:        TaskHooks(nil),
		DeletePolicy: policy,
	})
	ids := 0
	svc.newID = func() string {
		ids++
		return fmt.Sprintf("t%d", ids)
	}
	svc.now = func() time.Time { return time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC) }
	return svc, repo
}

func seedTasks(repo *memRepo[domain.Task, *domain.Task], ids ...string) {
	for _, id := range ids {
		repo.put(&domain.Task{Meta: domain.Meta{ID: id}, Title: "task " + id, Status: "todo", Priority: "low"})
	}
}

func actorCtx(id string, role domain.Role) context.Context {
	return domain.WithActor(context.Background(), &domain.Actor{UserID: id, Role: role, TokenID: "tok-" + id})
}

// ---------------------------------------------------------------------------
// Create
// ---------------------------------------------------------------------------

func TestResourceService_Create_AssignsIdentityAndAuthor(t *testing.T) {
	svc, repo := newTaskService(domain.DeleteBestEffort)

	in := &domain.Task{Meta: domain.Meta{ID: "client-chosen"}, Title: "Prepare payroll"}
	out, err := svc.Create(actorCtx("u1", domain.RoleEmployee), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.ID != "t1" {
		t.Errorf("expected server assigned id t1, got %q", out.ID)
	}
	if out.CreatedBy != "u1" {
		t.Errorf("expected created_by u1, got %q", out.CreatedBy)
	}
	if out.CreatedAt.IsZero() || !out.CreatedAt.Equal(out.UpdatedAt) {
		t.Errorf("timestamps not set: %v / %v", out.CreatedAt, out.UpdatedAt)
	}
	if out.Status != "todo" || out.Priority != "medium" {
		t.Errorf("defaults not applied: status=%q priority=%q", out.Status, out.Priority)
	}
	if !repo.has("t1") || repo.has("client-chosen") {
		t.Error("entity stored under the wrong id")
	}
}

func TestResourceService_Create_ValidationFailsBeforeWrite(t *testing.T) {
	svc, repo := newTaskService(domain.DeleteBestEffort)

	_, err := svc.Create(context.Background(), &domain.Task{Priority: "urgent"})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if repo.inserts != 0 {
		t.Errorf("expected no insert, got %d", repo.inserts)
	}
}

func TestResourceService_Create_NilPayload(t *testing.T) {
	svc, _ := newTaskService(domain.DeleteBestEffort)
	if _, err := svc.Create(context.Background(), nil); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestResourceService_Create_ConflictPassesThrough(t *testing.T) {
	svc, repo := newTaskService(domain.DeleteBestEffort)
	repo.insertErr = fmt.Errorf("%w: duplicate key", domain.ErrConflict)

	_, err := svc.Create(context.Background(), &domain.Task{Title: "x"})
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestResourceService_Create_StorageFailureIsWrapped(t *testing.T) {
	svc, repo := newTaskService(domain.DeleteBestEffort)
	boom := errors.New("connection reset")
	repo.insertErr = boom

	_, err := svc.Create(context.Background(), &domain.Task{Title: "x"})
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped storage error, got %v", err)
	}
	for _, kind := range []error{domain.ErrNotFound, domain.ErrValidation, domain.ErrConflict} {
		if errors.Is(err, kind) {
			t.Fatalf("storage failure must not look like %v", kind)
		}
	}
}

// ---------------------------------------------------------------------------
// Get / List
// ---------------------------------------------------------------------------

func TestResourceService_Get_UnknownIDIsNotFound(t *testing.T) {
	svc, repo := newTaskService(domain.DeleteBestEffort)
	seedTasks(repo, "a")

	for _, id := range []string{"missing", "", "   "} {
		got, err := svc.Get(context.Background(), id)
		if !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("id %q: expected ErrNotFound, got %v", id, err)
		}
		if got != nil {
			t.Errorf("id %q: expected nil entity, got %+v", id, got)
		}
	}
}

func TestResourceService_Get_Found(t *testing.T) {
	svc, repo := newTaskService(domain.DeleteBestEffort)
	seedTasks(repo, "a")

	got, err := svc.Get(context.Background(), "a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Title != "task a" {
		t.Errorf("unexpected task: %+v", got)
	}
}

func TestResourceService_List_EmptyIsNotNil(t *testing.T) {
	svc, _ := newTaskService(domain.DeleteBestEffort)

	items, err := svc.List(context.Background(), domain.ListOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if items == nil || len(items) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", items)
	}
}

func TestResourceService_List_Paging(t *testing.T) {
	svc, repo := newTaskService(domain.DeleteBestEffort)
	seedTasks(repo, "a", "b", "c")

	items, err := svc.List(context.Background(), domain.ListOptions{Limit: 1, Offset: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 || items[0].ID != "b" {
		t.Fatalf("unexpected page: %+v", items)
	}

	if _, err := svc.List(context.Background(), domain.ListOptions{Limit: -1}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for negative limit, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Update
// ---------------------------------------------------------------------------

func TestResourceService_Update_UnknownIDNeverCreates(t *testing.T) {
	svc, repo := newTaskService(domain.DeleteBestEffort)

	_, err := svc.Update(context.Background(), "ghost", &domain.Task{Title: "x", Status: "todo", Priority: "low"})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if repo.len() != 0 || repo.inserts != 0 || repo.replaces != 0 {
		t.Fatalf("update of unknown id wrote to storage: len=%d inserts=%d replaces=%d", repo.len(), repo.inserts, repo.replaces)
	}
}

func TestResourceService_Update_KeepsIdentity(t *testing.T) {
	svc, repo := newTaskService(domain.DeleteBestEffort)
	created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	repo.put(&domain.Task{
		Meta:     domain.Meta{ID: "a", CreatedBy: "u1", CreatedAt: created, UpdatedAt: created},
		Title:    "old",
		Status:   "todo",
		Priority: "low",
	})

	in := &domain.Task{
		Meta:     domain.Meta{ID: "other", CreatedBy: "intruder"},
		Title:    "new",
		Status:   "done",
		Priority: "high",
	}
	out, err := svc.Update(actorCtx("u2", domain.RoleEmployee), "a", in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.ID != "a" || out.CreatedBy != "u1" || !out.CreatedAt.Equal(created) {
		t.Errorf("identity not preserved: %+v", out.Meta)
	}
	if !out.UpdatedAt.After(created) {
		t.Errorf("updated_at not advanced: %v", out.UpdatedAt)
	}
	stored, _ := repo.FindByID(context.Background(), "a")
	if stored.Title != "new" || stored.Status != "done" {
		t.Errorf("replace not applied: %+v", stored)
	}
	if repo.has("other") {
		t.Error("payload id must not create a second entity")
	}
}

func TestResourceService_Update_ValidationFails(t *testing.T) {
	svc, repo := newTaskService(domain.DeleteBestEffort)
	seedTasks(repo, "a")

	_, err := svc.Update(context.Background(), "a", &domain.Task{Title: "", Status: "todo", Priority: "low"})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if repo.replaces != 0 {
		t.Fatal("invalid update must not be written")
	}
}

// ---------------------------------------------------------------------------
// BatchDelete
// ---------------------------------------------------------------------------

func TestResourceService_BatchDelete_BestEffort(t *testing.T) {
	svc, repo := newTaskService(domain.DeleteBestEffort)
	seedTasks(repo, "1", "3")

	res, err := svc.BatchDelete(context.Background(), "1,2,3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(res.Deleted, []string{"1", "3"}) {
		t.Errorf("deleted = %v", res.Deleted)
	}
	if !reflect.DeepEqual(res.NotFound, []string{"2"}) {
		t.Errorf("not_found = %v", res.NotFound)
	}
	if res.Policy != domain.DeleteBestEffort {
		t.Errorf("policy = %q", res.Policy)
	}
	if repo.has("1") || repo.has("3") {
		t.Error("existing ids should be removed")
	}
}

func TestResourceService_BatchDelete_AllOrNothing(t *testing.T) {
	svc, repo := newTaskService(domain.DeleteAllOrNothing)
	seedTasks(repo, "1", "3")

	_, err := svc.BatchDelete(context.Background(), "1,2,3")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if !repo.has("1") || !repo.has("3") {
		t.Fatal("all-or-nothing must leave every id in place when one is missing")
	}

	res, err := svc.BatchDelete(context.Background(), "1, 3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(res.Deleted, []string{"1", "3"}) || len(res.NotFound) != 0 {
		t.Errorf("unexpected result: %+v", res)
	}
	if repo.len() != 0 {
		t.Error("expected every id removed")
	}
}

func TestResourceService_BatchDelete_RejectsMalformedList(t *testing.T) {
	svc, repo := newTaskService(domain.DeleteBestEffort)
	seedTasks(repo, "1")

	for _, csv := range []string{"", "1,,2", ",", " , 1"} {
		if _, err := svc.BatchDelete(context.Background(), csv); !errors.Is(err, domain.ErrValidation) {
			t.Errorf("%q: expected ErrValidation, got %v", csv, err)
		}
	}
	if !repo.has("1") {
		t.Fatal("malformed list must not delete anything")
	}
}

func TestResourceService_BatchDelete_StorageFailureStopsBatch(t *testing.T) {
	svc, repo := newTaskService(domain.DeleteBestEffort)
	seedTasks(repo, "1", "2", "3")
	boom := errors.New("timeout")
	repo.deleteErr["2"] = boom

	_, err := svc.BatchDelete(context.Background(), "1,2,3")
	if !errors.Is(err, boom) {
		t.Fatalf("expected storage error, got %v", err)
	}
	if !repo.has("3") {
		t.Error("ids after the failure must not be attempted")
	}
}

func TestResourceService_BatchDelete_SamePolicyForEveryKind(t *testing.T) {
	repo := newMemRepo[domain.Department]()
	repo.put(&domain.Department{Meta: domain.Meta{ID: "1"}, Name: "Ops"})
	repo.put(&domain.Department{Meta: domain.Meta{ID: "3"}, Name: "HR"})
	svc := NewResourceService[domain.Department](domain.KindDepartment, repo, nil, discardLogger, ResourceConfig[domain.Department]{
		DeletePolicy: domain.DeleteAllOrNothing,
	})

	if _, err := svc.BatchDelete(context.Background(), "1,2,3"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if repo.len() != 2 {
		t.Fatalf("expected both departments kept, got %d", repo.len())
	}
}
