package domain

import "time"

// Project groups tasks and members.
type Project struct {
	Meta        `bson:",inline"`
	Name        string     `json:"name" bson:"name" validate:"required,max=200"`
	Description string     `json:"description,omitempty" bson:"description,omitempty"`
	Status      string     `json:"status" bson:"status" validate:"required,oneof=planned active on_hold completed"`
	StartDate   *time.Time `json:"start_date,omitempty" bson:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty" bson:"end_date,omitempty"`
	MemberIDs   []string   `json:"member_ids,omitempty" bson:"member_ids,omitempty"`
}

// Task is a unit of work, optionally inside a project.
type Task struct {
	Meta        `bson:",inline"`
	ProjectID   string     `json:"project_id,omitempty" bson:"project_id,omitempty"`
	Title       string     `json:"title" bson:"title" validate:"required,max=200"`
	Description string     `json:"description,omitempty" bson:"description,omitempty"`
	AssigneeID  string     `json:"assignee_id,omitempty" bson:"assignee_id,omitempty"`
	Status      string     `json:"status" bson:"status" validate:"required,oneof=todo in_progress done"`
	Priority    string     `json:"priority" bson:"priority" validate:"required,oneof=low medium high"`
	DueDate     *time.Time `json:"due_date,omitempty" bson:"due_date,omitempty"`
}
