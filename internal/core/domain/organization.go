package domain

import "time"

type Department struct {
	Meta        `bson:",inline"`
	Name        string `json:"name" bson:"name" validate:"required,max=120"`
	Slug        string `json:"slug" bson:"slug"`
	Description string `json:"description,omitempty" bson:"description,omitempty"`
	HeadID      string `json:"head_id,omitempty" bson:"head_id,omitempty"`
}

type Designation struct {
	Meta         `bson:",inline"`
	Name         string `json:"name" bson:"name" validate:"required,max=120"`
	Slug         string `json:"slug" bson:"slug"`
	DepartmentID string `json:"department_id,omitempty" bson:"department_id,omitempty"`
	Description  string `json:"description,omitempty" bson:"description,omitempty"`
}

// Announcement is a company-wide message.
type Announcement struct {
	Meta        `bson:",inline"`
	Title       string     `json:"title" bson:"title" validate:"required,max=200"`
	Body        string     `json:"body" bson:"body" validate:"required"`
	PublishedAt *time.Time `json:"published_at,omitempty" bson:"published_at,omitempty"`
}

// Setting is a keyed configuration value. Its ID is its key; the set of keys
// is fixed when the system is installed.
type Setting struct {
	Meta        `bson:",inline"`
	Value       string `json:"value" bson:"value" validate:"required"`
	Group       string `json:"group,omitempty" bson:"group,omitempty"`
	Description string `json:"description,omitempty" bson:"description,omitempty"`
}

// Well-known setting keys.
const (
	SettingCompanyName = "company_name"
	SettingCurrency    = "currency"
)

// Notification is produced internally and only listed through the API.
type Notification struct {
	Meta        `bson:",inline"`
	RecipientID string       `json:"recipient_id,omitempty" bson:"recipient_id,omitempty"`
	Audience    Role         `json:"audience,omitempty" bson:"audience,omitempty"`
	Activity    ActivityType `json:"activity,omitempty" bson:"activity,omitempty"`
	Title       string       `json:"title" bson:"title" validate:"required"`
	Message     string       `json:"message,omitempty" bson:"message,omitempty"`
	SourceKind  Kind         `json:"source_kind" bson:"source_kind"`
	SourceID    string       `json:"source_id,omitempty" bson:"source_id,omitempty"`
	Read        bool         `json:"read" bson:"read"`
}
