package domain

import "time"

// Attendance is one employee's presence record for a day.
type Attendance struct {
	Meta       `bson:",inline"`
	EmployeeID string     `json:"employee_id" bson:"employee_id" validate:"required"`
	Date       time.Time  `json:"date" bson:"date" validate:"required"`
	CheckIn    *time.Time `json:"check_in,omitempty" bson:"check_in,omitempty"`
	CheckOut   *time.Time `json:"check_out,omitempty" bson:"check_out,omitempty"`
	Status     string     `json:"status" bson:"status" validate:"required,oneof=present absent late half_day"`
	Note       string     `json:"note,omitempty" bson:"note,omitempty" validate:"max=500"`
}

// Review states shared by leave requests and expense claims.
const (
	ReviewPending  = "pending"
	ReviewApproved = "approved"
	ReviewRejected = "rejected"
)

// reviewTransitions lists the allowed review moves. Approved is terminal; a
// rejected request can be resubmitted.
var reviewTransitions = map[string][]string{
	ReviewPending:  {ReviewApproved, ReviewRejected},
	ReviewRejected: {ReviewPending},
}

// CanReview reports whether a review status may move from current to next.
// Staying in the same status is always allowed.
func CanReview(current, next string) bool {
	if current == next {
		return true
	}
	for _, allowed := range reviewTransitions[current] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Leave is a request for time off.
type Leave struct {
	Meta       `bson:",inline"`
	EmployeeID string    `json:"employee_id" bson:"employee_id" validate:"required"`
	Type       string    `json:"type" bson:"type" validate:"required,oneof=annual sick unpaid other"`
	StartDate  time.Time `json:"start_date" bson:"start_date" validate:"required"`
	EndDate    time.Time `json:"end_date" bson:"end_date" validate:"required,gtefield=StartDate"`
	Reason     string    `json:"reason,omitempty" bson:"reason,omitempty" validate:"max=1000"`
	Status     string    `json:"status" bson:"status" validate:"required,oneof=pending approved rejected"`
}

// Expense is a reimbursement claim.
type Expense struct {
	Meta       `bson:",inline"`
	EmployeeID string     `json:"employee_id" bson:"employee_id" validate:"required"`
	Title      string     `json:"title" bson:"title" validate:"required,max=200"`
	Amount     float64    `json:"amount" bson:"amount" validate:"required,gt=0"`
	Currency   string     `json:"currency" bson:"currency" validate:"required,len=3"`
	Category   string     `json:"category,omitempty" bson:"category,omitempty"`
	SpentAt    *time.Time `json:"spent_at,omitempty" bson:"spent_at,omitempty"`
	Status     string     `json:"status" bson:"status" validate:"required,oneof=pending approved rejected"`
}
