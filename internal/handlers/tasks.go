package handlers

import (
	"eisenhower-matrix/internal/models"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

const invalidTaskMessage = "Invalid task data. Title is required and must be 1-200 characters. Quadrant must be valid."

func (h *Handler) GetTasks(c *gin.Context) {
	tasks, err := h.store.ListTasks(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		failWith(c, "Get tasks", err, "Failed to fetch tasks")
		return
	}

	ok(c, http.StatusOK, models.Bucket(tasks), "")
}

func (h *Handler) CreateTask(c *gin.Context) {
	request := &models.NewTask{}
	err := c.ShouldBindBodyWithJSON(request)
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := request.Normalize(); err != nil {
		fail(c, http.StatusBadRequest, invalidTaskMessage)
		return
	}
	request.UserID = currentUser(c).ID

	task, err := h.store.CreateTask(c.Request.Context(), *request)
	if err != nil {
		failWith(c, "Create task", err, "Failed to create task")
		return
	}

	ok(c, http.StatusCreated, task, "Task created successfully")
}

func (h *Handler) UpdateTask(c *gin.Context) {
	taskId, err := parseId(c.Param("id"))
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid id")
		return
	}

	request := &models.TaskPatch{}
	err = c.ShouldBindBodyWithJSON(request)
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if request.Empty() {
		fail(c, http.StatusBadRequest, "No valid fields to update")
		return
	}
	if err := request.Normalize(); err != nil {
		failWith(c, "Update task", err, "Invalid task data")
		return
	}

	task, err := h.store.UpdateTask(c.Request.Context(), currentUser(c).ID, taskId.String(), *request)
	if err != nil {
		failWith(c, "Update task", err, "Failed to update task")
		return
	}

	ok(c, http.StatusOK, task, "Task updated successfully")
}

func (h *Handler) DeleteTask(c *gin.Context) {
	taskId, err := parseId(c.Param("id"))
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid id")
		return
	}

	err = h.store.DeleteTask(c.Request.Context(), currentUser(c).ID, taskId.String())
	if err != nil {
		failWith(c, "Delete task", err, "Failed to delete task")
		return
	}

	ok(c, http.StatusOK, nil, "Task deleted successfully")
}

func (h *Handler) GetTasksByQuadrant(c *gin.Context) {
	quadrant := models.Quadrant(c.Param("quadrant"))
	if !quadrant.Valid() {
		fail(c, http.StatusBadRequest, "Invalid quadrant")
		return
	}

	tasks, err := h.store.ListTasksInQuadrant(c.Request.Context(), currentUser(c).ID, quadrant)
	if err != nil {
		failWith(c, "Get tasks by quadrant", err, "Failed to fetch tasks")
		return
	}

	ok(c, http.StatusOK, tasks, "")
}

func (h *Handler) BulkMoveTasks(c *gin.Context) {
	request := &models.BulkMoveRequest{}
	err := c.ShouldBindBodyWithJSON(request)
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}

	if len(request.TaskIDs) == 0 {
		fail(c, http.StatusBadRequest, "taskIds must be a non-empty array")
		return
	}
	if !request.Quadrant.Valid() {
		fail(c, http.StatusBadRequest, "Invalid quadrant")
		return
	}

	ids := make([]string, 0, len(request.TaskIDs))
	for _, raw := range request.TaskIDs {
		id, err := parseId(raw)
		if err != nil {
			fail(c, http.StatusBadRequest, "invalid id")
			return
		}
		ids = append(ids, id.String())
	}

	tasks, err := h.store.MoveTasks(c.Request.Context(), currentUser(c).ID, ids, request.Quadrant)
	if err != nil {
		failWith(c, "Bulk update tasks", err, "Failed to update tasks")
		return
	}

	ok(c, http.StatusOK, tasks, fmt.Sprintf("%d tasks updated successfully", len(tasks)))
}
