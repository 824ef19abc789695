package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Paul-Karonji/client-task-tracker/internal/db"
	"github.com/Paul-Karonji/client-task-tracker/internal/model"
	"github.com/Paul-Karonji/client-task-tracker/internal/validate"
)

type Handler struct {
	store     db.Store
	zapLogger *zap.Logger
	debug     bool
	started   time.Time
}

// SetupHandlers mounts the task routes under /api plus the health probe.
// Extra middleware (rate limiting) applies to the /api group only.
func SetupHandlers(r *gin.Engine, store db.Store, zapLogger *zap.Logger, debug bool, apiMiddleware ...gin.HandlerFunc) {
	h := &Handler{store: store, zapLogger: zapLogger, debug: debug, started: time.Now()}

	api := r.Group("/api", apiMiddleware...)
	api.GET("/tasks", h.ListTasks)
	api.POST("/tasks", h.CreateTask)
	api.PUT("/tasks/:id", h.UpdateTask)
	api.PATCH("/tasks/:id/toggle-payment", h.TogglePayment)
	api.DELETE("/tasks/:id", h.DeleteTask)

	r.GET("/health", h.Health)
}

func (h *Handler) ListTasks(c *gin.Context) {
	tasks, err := h.store.ListTasks(c.Request.Context())
	if err != nil {
		h.zapLogger.Error("list tasks", zap.Error(err))
		h.serverError(c, err, "Failed to fetch tasks")
		return
	}
	c.JSON(http.StatusOK, tasks)
}

func (h *Handler) CreateTask(c *gin.Context) {
	var payload model.TaskPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.zapLogger.Warn("malformed task payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request body"})
		return
	}

	input, details := validate.Task(&payload)
	if details != nil {
		h.zapLogger.Warn("task payload rejected", zap.Strings("details", details))
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Validation error", "details": details})
		return
	}

	task, err := h.store.InsertTask(c.Request.Context(), input)
	if err != nil {
		if errors.Is(err, db.ErrorConstraintViolation) {
			h.zapLogger.Warn("insert rejected by constraint", zap.Error(err))
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Duplicate or invalid reference in request"})
			return
		}
		h.zapLogger.Error("insert task", zap.String("client_name", input.ClientName), zap.Error(err))
		h.serverError(c, err, "Failed to create task")
		return
	}
	h.zapLogger.Info("task created", zap.Int64("task_id", int64(task.ID)))
	c.JSON(http.StatusCreated, task)
}

func (h *Handler) UpdateTask(c *gin.Context) {
	taskId, ok := h.taskId(c)
	if !ok {
		return
	}

	// Existence first so a missing target is a 404 with no write attempted.
	if _, err := h.store.GetTask(c.Request.Context(), taskId); err != nil {
		h.replyLookupError(c, taskId, err)
		return
	}

	var payload model.TaskPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.zapLogger.Warn("malformed task payload", zap.Int64("task_id", int64(taskId)), zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request body"})
		return
	}

	input, details := validate.Task(&payload)
	if details != nil {
		h.zapLogger.Warn("task payload rejected", zap.Int64("task_id", int64(taskId)), zap.Strings("details", details))
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Validation error", "details": details})
		return
	}

	task, err := h.store.UpdateTask(c.Request.Context(), taskId, input)
	if err != nil {
		if errors.Is(err, db.ErrorNotFound) {
			// Deleted between the check and the write.
			h.zapLogger.Warn("task vanished during update", zap.Int64("task_id", int64(taskId)))
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Task not found"})
			return
		}
		if errors.Is(err, db.ErrorConstraintViolation) {
			h.zapLogger.Warn("update rejected by constraint", zap.Int64("task_id", int64(taskId)), zap.Error(err))
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Duplicate or invalid reference in request"})
			return
		}
		h.zapLogger.Error("update task", zap.Int64("task_id", int64(taskId)), zap.Error(err))
		h.serverError(c, err, "Failed to update task")
		return
	}
	h.zapLogger.Info("task updated", zap.Int64("task_id", int64(taskId)))
	c.JSON(http.StatusOK, task)
}

func (h *Handler) TogglePayment(c *gin.Context) {
	taskId, ok := h.taskId(c)
	if !ok {
		return
	}

	if _, err := h.store.GetTask(c.Request.Context(), taskId); err != nil {
		h.replyLookupError(c, taskId, err)
		return
	}

	task, err := h.store.TogglePayment(c.Request.Context(), taskId)
	if err != nil {
		if errors.Is(err, db.ErrorNotFound) {
			h.zapLogger.Warn("task vanished during toggle", zap.Int64("task_id", int64(taskId)))
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Task not found"})
			return
		}
		h.zapLogger.Error("toggle payment", zap.Int64("task_id", int64(taskId)), zap.Error(err))
		h.serverError(c, err, "Failed to update payment status")
		return
	}
	h.zapLogger.Info("payment toggled", zap.Int64("task_id", int64(taskId)), zap.Bool("is_paid", task.IsPaid))
	c.JSON(http.StatusOK, task)
}

func (h *Handler) DeleteTask(c *gin.Context) {
	taskId, ok := h.taskId(c)
	if !ok {
		return
	}

	if _, err := h.store.GetTask(c.Request.Context(), taskId); err != nil {
		h.replyLookupError(c, taskId, err)
		return
	}

	removed, err := h.store.DeleteTask(c.Request.Context(), taskId)
	if err != nil {
		h.zapLogger.Error("delete task", zap.Int64("task_id", int64(taskId)), zap.Error(err))
		h.serverError(c, err, "Failed to delete task")
		return
	}
	if !removed {
		h.zapLogger.Warn("task vanished during delete", zap.Int64("task_id", int64(taskId)))
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Task not found"})
		return
	}
	h.zapLogger.Info("task deleted", zap.Int64("task_id", int64(taskId)))
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Task deleted successfully"})
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"message":   "Server is running",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"uptime":    time.Since(h.started).Seconds(),
	})
}

// taskId parses the :id path parameter; anything but a positive integer
// is rejected before the store is touched.
func (h *Handler) taskId(c *gin.Context) (model.TaskId, bool) {
	raw := c.Param("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		h.zapLogger.Warn("invalid task id", zap.String("id", raw))
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid task ID"})
		return 0, false
	}
	return model.TaskId(id), true
}

func (h *Handler) replyLookupError(c *gin.Context, taskId model.TaskId, err error) {
	if errors.Is(err, db.ErrorNotFound) {
		h.zapLogger.Warn("task not found", zap.Int64("task_id", int64(taskId)))
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Task not found"})
		return
	}
	h.zapLogger.Error("get task", zap.Int64("task_id", int64(taskId)), zap.Error(err))
	h.serverError(c, err, "Failed to fetch task")
}

// serverError hides the raw failure in production and exposes it in
// development, matching the original backend's debug behavior.
func (h *Handler) serverError(c *gin.Context, err error, msg string) {
	if h.debug {
		msg = err.Error()
	}
	c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": msg})
}
