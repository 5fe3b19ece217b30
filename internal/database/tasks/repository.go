// Package tasks provides database operations for task management:
// filtered listing, single-record CRUD and the dashboard counts.
package tasks

import (
	"errors"
	"math"
	"time"

	"gorm.io/gorm"

	"github.com/taskdesk/taskdesk/internal/entities"
)

var ErrTaskNotFound = errors.New("task not found")

// Filter narrows GetTasks results. AssigneeID == 0 means unscoped;
// the access policy sets it for staff callers.
type Filter struct {
	AssigneeID uint
	Status     entities.TaskStatus
	Priority   entities.TaskPriority
	GivenBy    string
	Search     string
}

// Repository handles all task database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new tasks repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateTask inserts a new task and reloads it with the assignee
// preloaded.
func (r *Repository) CreateTask(task *entities.Task) (*entities.Task, error) {
	if err := r.db.Create(task).Error; err != nil {
		return nil, err
	}
	return r.GetTaskByID(task.ID)
}

// GetTaskByID retrieves one task with its assignee.
func (r *Repository) GetTaskByID(id uint) (*entities.Task, error) {
	var task entities.Task
	err := r.db.Preload("Assignee").First(&task, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	return &task, nil
}

// GetTasks lists tasks matching the filter, newest first. Search
// matches the description or the assigner name, case-insensitively.
func (r *Repository) GetTasks(filter Filter) ([]entities.Task, error) {
	query := r.db.Preload("Assignee")

	if filter.AssigneeID != 0 {
		query = query.Where("given_to = ?", filter.AssigneeID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Priority != "" {
		query = query.Where("priority = ?", filter.Priority)
	}
	if filter.GivenBy != "" {
		query = query.Where("given_by = ?", filter.GivenBy)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("LOWER(task) LIKE LOWER(?) OR LOWER(given_by) LIKE LOWER(?)", pattern, pattern)
	}

	var tasks []entities.Task
	err := query.Order("created_at DESC").Find(&tasks).Error
	return tasks, err
}

// UpdateTask applies the given column updates to one task and returns
// the fresh record. The updates map is expected to be allow-listed by
// the caller before it reaches the repository.
func (r *Repository) UpdateTask(id uint, updates map[string]any) (*entities.Task, error) {
	result := r.db.Model(&entities.Task{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrTaskNotFound
	}
	return r.GetTaskByID(id)
}

// DeleteTask removes a task record.
func (r *Repository) DeleteTask(id uint) error {
	result := r.db.Delete(&entities.Task{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}

// GetDashboardStats computes the completion summary for the given
// scope (assigneeID == 0 means all tasks). completionPercent is 0 when
// there are no tasks at all.
func (r *Repository) GetDashboardStats(assigneeID uint) (*entities.DashboardStats, error) {
	scope := func() *gorm.DB {
		q := r.db.Model(&entities.Task{})
		if assigneeID != 0 {
			q = q.Where("given_to = ?", assigneeID)
		}
		return q
	}

	var stats entities.DashboardStats
	if err := scope().Count(&stats.TotalTasks).Error; err != nil {
		return nil, err
	}
	if err := scope().Where("status = ?", entities.TaskStatusPending).Count(&stats.PendingTasks).Error; err != nil {
		return nil, err
	}
	if err := scope().Where("status = ?", entities.TaskStatusCompleted).Count(&stats.CompletedTasks).Error; err != nil {
		return nil, err
	}

	if stats.TotalTasks > 0 {
		stats.CompletionPercent = int(math.Round(float64(stats.CompletedTasks) / float64(stats.TotalTasks) * 100))
	}

	return &stats, nil
}

// CountOverdue counts tasks whose target date has passed without the
// task reaching Completed.
func (r *Repository) CountOverdue(now time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&entities.Task{}).
		Where("target_date IS NOT NULL AND target_date < ? AND status <> ?", now, entities.TaskStatusCompleted).
		Count(&count).Error
	return count, err
}
