package models

import "time"

// Project groups the tasks of a board.
type Project struct {
	ID          int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Name        string    `json:"name" gorm:"not null;uniqueIndex" validate:"required,max=100"`
	Description string    `json:"description" gorm:"not null;default:''" validate:"max=300"`
	Color       string    `json:"color" gorm:"not null;default:'#2563eb'"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Project) TableName() string { return "projects" }

// TaskStatus is a board column a task can sit in.
type TaskStatus struct {
	ID   int64  `json:"id" gorm:"primaryKey;autoIncrement"`
	Name string `json:"name" gorm:"not null;uniqueIndex" validate:"required,max=50"`
}

func (TaskStatus) TableName() string { return "task_status" }

// User is identified by the subject of the ID token it signs in with.
type User struct {
	ID        string    `json:"id" gorm:"primaryKey" validate:"required,max=255"`
	FirstName string    `json:"first_name" gorm:"not null;default:''" validate:"max=100"`
	LastName  string    `json:"last_name" gorm:"not null;default:''" validate:"max=100"`
	Email     string    `json:"email" gorm:"not null;default:''" validate:"omitempty,email"`
	CreatedAt time.Time `json:"created_at"`
}

func (User) TableName() string { return "users" }

// Task is a single card on the board. The foreign keys are the source of
// truth; Status, Project and Assignee are only filled when the store
// fetches them explicitly.
type Task struct {
	ID          int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Title       string    `json:"title" gorm:"size:100;not null" validate:"required,max=100"`
	Description string    `json:"description" gorm:"size:300;not null" validate:"required,max=300"`
	StatusID    int64     `json:"status_id" gorm:"not null;index" validate:"required"`
	ProjectID   int64     `json:"project_id" gorm:"not null;index" validate:"required"`
	AssigneeID  *string   `json:"assignee_id" gorm:"index"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Status   *TaskStatus `json:"status" gorm:"foreignKey:StatusID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" validate:"-"`
	Project  *Project    `json:"project" gorm:"foreignKey:ProjectID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" validate:"-"`
	Assignee *User       `json:"assignee" gorm:"foreignKey:AssigneeID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" validate:"-"`
}

func (Task) TableName() string { return "tasks" }

// TaskFilter narrows a task listing. Zero values match everything.
type TaskFilter struct {
	ProjectID  int64
	AssigneeID string
}

// ActivityLog is an append-only record of a change made to a task.
// ProjectID is copied from the task when the entry is written.
type ActivityLog struct {
	ID          int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	TaskID      int64     `json:"task_id" gorm:"not null;index"`
	ProjectID   int64     `json:"project_id" gorm:"not null;index"`
	UserID      *string   `json:"user_id"`
	Description string    `json:"description" gorm:"size:300;not null"`
	Timestamp   time.Time `json:"timestamp" gorm:"not null;index"`

	Task *Task `json:"-" gorm:"foreignKey:TaskID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

func (ActivityLog) TableName() string { return "activity_log" }

// DefaultTaskStatuses are seeded on first start, in id order.
var DefaultTaskStatuses = []string{"To Do", "In Progress", "Done"}
