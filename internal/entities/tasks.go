package entities

import "time"

type TaskPriority string

const (
	TaskPriorityHigh   TaskPriority = "High"
	TaskPriorityMedium TaskPriority = "Medium"
	TaskPriorityLow    TaskPriority = "Low"
)

// ValidPriority reports whether the priority is one of the known levels.
func ValidPriority(p TaskPriority) bool {
	return p == TaskPriorityHigh || p == TaskPriorityMedium || p == TaskPriorityLow
}

type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "Pending"
	TaskStatusInProgress TaskStatus = "In Progress"
	TaskStatusCompleted  TaskStatus = "Completed"
)

// ValidTaskStatus reports whether the status is one of the known states.
// Transitions between states are deliberately unconstrained.
func ValidTaskStatus(s TaskStatus) bool {
	return s == TaskStatusPending || s == TaskStatusInProgress || s == TaskStatusCompleted
}

// Task is a unit of work assigned by an admin to a staff member.
// GivenBy is a display-name snapshot of the assigning admin taken at
// creation time, not a foreign key; GivenTo and CreatedBy reference
// existing users and are immutable after creation.
type Task struct {
	ID             uint         `gorm:"primaryKey" json:"id"`
	Task           string       `gorm:"type:text" json:"task"`
	DateAllocation time.Time    `json:"date_allocation"`
	GivenBy        string       `gorm:"size:100" json:"given_by"`
	GivenTo        uint         `gorm:"index" json:"given_to"`
	TargetDate     *time.Time   `json:"target_date,omitempty"`
	StepsTaken     string       `gorm:"type:text" json:"steps_taken,omitempty"`
	LastUpdated    *time.Time   `json:"last_updated,omitempty"`
	NextUpdate     *time.Time   `json:"next_update,omitempty"`
	Priority       TaskPriority `gorm:"index;size:10;default:'Medium'" json:"priority"`
	Status         TaskStatus   `gorm:"index;size:15;default:'Pending'" json:"status"`
	CreatedBy      uint         `gorm:"index" json:"created_by"`

	Assignee User `gorm:"foreignKey:GivenTo" json:"assignee,omitempty"`
	Creator  User `gorm:"foreignKey:CreatedBy" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Task) TableName() string {
	return "tasks"
}

// DashboardStats is the read-side completion summary for the caller's
// visible task set.
type DashboardStats struct {
	TotalTasks        int64 `json:"totalTasks"`
	PendingTasks      int64 `json:"pendingTasks"`
	CompletedTasks    int64 `json:"completedTasks"`
	CompletionPercent int   `json:"completionPercent"`
}
