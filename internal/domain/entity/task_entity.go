package entity

import "time"

type TaskStatus string

const (
	TaskStatusPending TaskStatus = "pending"
	TaskStatusDone    TaskStatus = "done"
)

// Valid reports whether s is one of the known statuses.
func (s TaskStatus) Valid() bool {
	return s == TaskStatusPending || s == TaskStatusDone
}

// Task belongs to exactly one User. UserID never changes after creation.
// Owner is populated by reads that resolve the owning user.
type Task struct {
	ID          string
	Title       string
	Description string
	Status      TaskStatus
	UserID      string
	CreatedAt   time.Time

	Owner *User
}

// OwnerName returns the resolved owner's name, or "" when the owner was not loaded.
func (t *Task) OwnerName() string {
	if t.Owner == nil {
		return ""
	}
	return t.Owner.Name
}
