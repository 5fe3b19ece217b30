package http

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/taskdesk/taskdesk/internal/audit"
	"github.com/taskdesk/taskdesk/internal/auth"
	"github.com/taskdesk/taskdesk/internal/database/tasks"
	"github.com/taskdesk/taskdesk/internal/database/users"
	"github.com/taskdesk/taskdesk/internal/entities"
)

// TasksController handles task CRUD and the dashboard endpoint.
type TasksController struct {
	tasks   *tasks.Repository
	users   *users.Repository
	auditor *audit.Service
}

// NewTasksController creates a new tasks controller.
func NewTasksController(taskRepo *tasks.Repository, userRepo *users.Repository, auditor *audit.Service) *TasksController {
	return &TasksController{tasks: taskRepo, users: userRepo, auditor: auditor}
}

// GetTasks lists tasks visible to the caller: everything for admins,
// only the caller's own assignments for staff. Optional query filters:
// status, priority, givenBy, search.
func (tc *TasksController) GetTasks(c *gin.Context) {
	filter := tasks.Filter{
		AssigneeID: auth.TaskScope(auth.GetUserRole(c), auth.GetUserID(c)),
		GivenBy:    c.Query("givenBy"),
		Search:     c.Query("search"),
	}

	if status := c.Query("status"); status != "" {
		if !entities.ValidTaskStatus(entities.TaskStatus(status)) {
			respondBadRequest(c, "invalid status filter")
			return
		}
		filter.Status = entities.TaskStatus(status)
	}
	if priority := c.Query("priority"); priority != "" {
		if !entities.ValidPriority(entities.TaskPriority(priority)) {
			respondBadRequest(c, "invalid priority filter")
			return
		}
		filter.Priority = entities.TaskPriority(priority)
	}

	result, err := tc.tasks.GetTasks(filter)
	if err != nil {
		respondInternalError(c, err, "list tasks")
		return
	}

	c.JSON(http.StatusOK, result)
}

type createTaskRequest struct {
	Task           string                `json:"task"`
	DateAllocation *time.Time            `json:"date_allocation"`
	GivenTo        uint                  `json:"given_to"`
	TargetDate     *time.Time            `json:"target_date"`
	NextUpdate     *time.Time            `json:"next_update"`
	Priority       entities.TaskPriority `json:"priority"`
}

// CreateTask creates a task (admin only). The assigner name and
// creator ID are snapshots of the caller's identity, never taken from
// the request body.
func (tc *TasksController) CreateTask(c *gin.Context) {
	role := auth.GetUserRole(c)
	if !auth.Can(role, auth.OpTaskCreate, false) {
		respondForbidden(c)
		return
	}

	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	if req.Task == "" {
		respondBadRequest(c, "task description is required")
		return
	}
	if req.DateAllocation == nil {
		respondBadRequest(c, "date_allocation is required")
		return
	}
	if req.GivenTo == 0 {
		respondBadRequest(c, "given_to is required")
		return
	}
	priority := req.Priority
	if priority == "" {
		priority = entities.TaskPriorityMedium
	}
	if !entities.ValidPriority(priority) {
		respondBadRequest(c, "invalid priority")
		return
	}

	// Assignee must reference an existing user
	if _, err := tc.users.GetUserByID(req.GivenTo); err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			respondBadRequest(c, "assignee not found")
			return
		}
		respondInternalError(c, err, "create task")
		return
	}

	task := &entities.Task{
		Task:           req.Task,
		DateAllocation: *req.DateAllocation,
		GivenBy:        auth.GetUserName(c),
		GivenTo:        req.GivenTo,
		TargetDate:     req.TargetDate,
		NextUpdate:     req.NextUpdate,
		Priority:       priority,
		Status:         entities.TaskStatusPending,
		CreatedBy:      auth.GetUserID(c),
	}

	created, err := tc.tasks.CreateTask(task)
	if err != nil {
		respondInternalError(c, err, "create task")
		return
	}

	tc.logTask(c, "task_create", "Created task: "+created.Task, created.ID)
	respondCreated(c, created)
}

type updateTaskRequest struct {
	Task           *string                `json:"task"`
	DateAllocation *time.Time             `json:"date_allocation"`
	GivenBy        *string                `json:"given_by"`
	GivenTo        *uint                  `json:"given_to"`
	TargetDate     *time.Time             `json:"target_date"`
	StepsTaken     *string                `json:"steps_taken"`
	LastUpdated    *time.Time             `json:"last_updated"`
	NextUpdate     *time.Time             `json:"next_update"`
	Priority       *entities.TaskPriority `json:"priority"`
	Status         *entities.TaskStatus   `json:"status"`
	CreatedBy      *uint                  `json:"created_by"`
}

// fields returns the set of columns the request is trying to change.
func (r *updateTaskRequest) fields() map[string]any {
	updates := make(map[string]any)
	if r.Task != nil {
		updates["task"] = *r.Task
	}
	if r.DateAllocation != nil {
		updates["date_allocation"] = *r.DateAllocation
	}
	if r.GivenBy != nil {
		updates["given_by"] = *r.GivenBy
	}
	if r.GivenTo != nil {
		updates["given_to"] = *r.GivenTo
	}
	if r.TargetDate != nil {
		updates["target_date"] = *r.TargetDate
	}
	if r.StepsTaken != nil {
		updates["steps_taken"] = *r.StepsTaken
	}
	if r.LastUpdated != nil {
		updates["last_updated"] = *r.LastUpdated
	}
	if r.NextUpdate != nil {
		updates["next_update"] = *r.NextUpdate
	}
	if r.Priority != nil {
		updates["priority"] = *r.Priority
	}
	if r.Status != nil {
		updates["status"] = *r.Status
	}
	if r.CreatedBy != nil {
		updates["created_by"] = *r.CreatedBy
	}
	return updates
}

// UpdateTask mutates a task. Admins may change anything except the
// identity-snapshot columns; staff are limited to progress fields on
// their own assignments. Disallowed fields are rejected, not silently
// dropped.
func (tc *TasksController) UpdateTask(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	task, err := tc.tasks.GetTaskByID(id)
	if err != nil {
		if errors.Is(err, tasks.ErrTaskNotFound) {
			respondNotFound(c, "task")
			return
		}
		respondInternalError(c, err, "update task")
		return
	}

	role := auth.GetUserRole(c)
	userID := auth.GetUserID(c)
	if !auth.Can(role, auth.OpTaskUpdate, task.GivenTo == userID) {
		respondForbidden(c)
		return
	}

	var req updateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	updates := req.fields()
	if len(updates) == 0 {
		respondBadRequest(c, "no fields to update")
		return
	}

	for field := range updates {
		if auth.CanUpdateTaskField(role, field) {
			continue
		}
		// Identity snapshots are immutable for everyone; staff are
		// additionally limited to their progress allow-list.
		if field == "given_by" || field == "created_by" {
			respondBadRequest(c, field+" cannot be modified")
			return
		}
		respondForbidden(c)
		return
	}

	if req.Status != nil && !entities.ValidTaskStatus(*req.Status) {
		respondBadRequest(c, "invalid status")
		return
	}
	if req.Priority != nil && !entities.ValidPriority(*req.Priority) {
		respondBadRequest(c, "invalid priority")
		return
	}
	if req.GivenTo != nil {
		if _, err := tc.users.GetUserByID(*req.GivenTo); err != nil {
			if errors.Is(err, users.ErrUserNotFound) {
				respondBadRequest(c, "assignee not found")
				return
			}
			respondInternalError(c, err, "update task")
			return
		}
	}

	updated, err := tc.tasks.UpdateTask(id, updates)
	if err != nil {
		if errors.Is(err, tasks.ErrTaskNotFound) {
			respondNotFound(c, "task")
			return
		}
		respondInternalError(c, err, "update task")
		return
	}

	tc.logTask(c, "task_update", fmt.Sprintf("Updated %d field(s)", len(updates)), updated.ID)
	c.JSON(http.StatusOK, updated)
}

// DeleteTask removes a task (admin only).
func (tc *TasksController) DeleteTask(c *gin.Context) {
	if !auth.Can(auth.GetUserRole(c), auth.OpTaskDelete, false) {
		respondForbidden(c)
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := tc.tasks.DeleteTask(id); err != nil {
		if errors.Is(err, tasks.ErrTaskNotFound) {
			respondNotFound(c, "task")
			return
		}
		respondInternalError(c, err, "delete task")
		return
	}

	tc.logTask(c, "task_delete", "Deleted task", id)
	respondSuccess(c, "task deleted successfully")
}

// GetDashboardStats reports completion counts over the caller's
// visible task set.
func (tc *TasksController) GetDashboardStats(c *gin.Context) {
	scope := auth.TaskScope(auth.GetUserRole(c), auth.GetUserID(c))

	stats, err := tc.tasks.GetDashboardStats(scope)
	if err != nil {
		respondInternalError(c, err, "dashboard stats")
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (tc *TasksController) logTask(c *gin.Context, action, description string, taskID uint) {
	if tc.auditor == nil {
		return
	}
	tc.auditor.LogTask(auth.GetUserID(c), action, description, taskID)
}
