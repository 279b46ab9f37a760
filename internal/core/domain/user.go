package domain

import "time"

// User models an employee or administrator account.
type User struct {
	Meta          `bson:",inline"`
	Name          string     `json:"name" bson:"name" validate:"required,max=120"`
	Email         string     `json:"email" bson:"email" validate:"required,email"`
	Password      string     `json:"password,omitempty" bson:"-" validate:"omitempty,min=8,max=72"`
	PasswordHash  string     `json:"-" bson:"password_hash"`
	Role          Role       `json:"role" bson:"role" validate:"required,oneof=admin employee"`
	Phone         string     `json:"phone,omitempty" bson:"phone,omitempty"`
	DepartmentID  string     `json:"department_id,omitempty" bson:"department_id,omitempty"`
	DesignationID string     `json:"designation_id,omitempty" bson:"designation_id,omitempty"`
	JoinedAt      *time.Time `json:"joined_at,omitempty" bson:"joined_at,omitempty"`
}
