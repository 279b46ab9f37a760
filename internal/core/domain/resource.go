package domain

import (
	"strings"
	"time"
)

// Kind identifies one of the fixed resource collections exposed by the API.
type Kind string

const (
	KindAnnouncement Kind = "announcement"
	KindAttendance   Kind = "attendance"
	KindDepartment   Kind = "department"
	KindDesignation  Kind = "designation"
	KindExpense      Kind = "expense"
	KindLeave        Kind = "leave"
	KindNotification Kind = "notification"
	KindProject      Kind = "project"
	KindSetting      Kind = "setting"
	KindTask         Kind = "task"
	KindUser         Kind = "user"
)

// Action is an operation of the uniform resource contract.
type Action string

const (
	ActionList   Action = "list"
	ActionGet    Action = "get"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Meta is embedded in every resource entity.
type Meta struct {
	ID        string    `json:"id" bson:"_id"`
	CreatedBy string    `json:"created_by,omitempty" bson:"created_by,omitempty"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// Metadata gives generic code access to the embedded Meta.
func (m *Meta) Metadata() *Meta { return m }

// ListOptions bounds a List call. Zero values mean "everything".
type ListOptions struct {
	Limit  int
	Offset int
}

// DeletePolicy decides how a batch delete treats ids that do not exist.
type DeletePolicy string

const (
	// DeleteBestEffort removes every id that exists and reports the rest as not found.
	DeleteBestEffort DeletePolicy = "best_effort"
	// DeleteAllOrNothing removes nothing unless every id exists.
	DeleteAllOrNothing DeletePolicy = "all_or_nothing"
)

// ParseDeletePolicy accepts the configuration spelling of a policy.
func ParseDeletePolicy(s string) (DeletePolicy, error) {
	switch p := DeletePolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case DeleteBestEffort, DeleteAllOrNothing:
		return p, nil
	case "":
		return DeleteBestEffort, nil
	default:
		return "", Validationf("unknown batch delete policy %q", s)
	}
}

// BatchDeleteResult reports the per-id outcome of a batch delete.
type BatchDeleteResult struct {
	Policy   DeletePolicy `json:"policy"`
	Deleted  []string     `json:"deleted"`
	NotFound []string     `json:"not_found"`
}

// ActivityType tags notifications raised by the activity-tracking kinds.
type ActivityType string

const (
	ActivityAttendance ActivityType = "attendance"
	ActivityExpense    ActivityType = "expense"
	ActivityProject    ActivityType = "project"
	ActivityTask       ActivityType = "task"
)

var activityNames = map[ActivityType]string{
	ActivityAttendance: "Attendance",
	ActivityExpense:    "Expense",
	ActivityProject:    "Project",
	ActivityTask:       "Task",
}

// Name is the human readable label.
func (a ActivityType) Name() string { return activityNames[a] }
