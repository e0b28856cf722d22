package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"octofit.com/tracker/internal/modules/workout/dto"
	workout "octofit.com/tracker/internal/modules/workout/service"
	"octofit.com/tracker/pkg/response"
)

type WorkoutHandler struct {
	service workout.WorkoutService
}

func NewWorkoutHandler(service workout.WorkoutService) *WorkoutHandler {
	return &WorkoutHandler{service: service}
}

func (h *WorkoutHandler) CreateWorkout(c *gin.Context) {
	var req dto.WorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindingError(c, err)
		return
	}

	created, err := h.service.CreateWorkout(c.Request.Context(), req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

func (h *WorkoutHandler) GetAllWorkouts(c *gin.Context) {
	var filter dto.WorkoutFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BindingError(c, err)
		return
	}

	workouts, err := h.service.ListWorkouts(c.Request.Context(), filter)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.Data(c, workouts)
}

func (h *WorkoutHandler) SearchWorkouts(c *gin.Context) {
	var query dto.WorkoutSearchQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BindingError(c, err)
		return
	}

	workouts, err := h.service.SearchWorkouts(c.Request.Context(), query)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.Data(c, workouts)
}

func (h *WorkoutHandler) GetWorkout(c *gin.Context) {
	id, ok := response.BindID(c)
	if !ok {
		return
	}

	found, err := h.service.GetWorkout(c.Request.Context(), id)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, found)
}

func (h *WorkoutHandler) UpdateWorkout(c *gin.Context) {
	id, ok := response.BindID(c)
	if !ok {
		return
	}

	var req dto.WorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindingError(c, err)
		return
	}

	updated, err := h.service.UpdateWorkout(c.Request.Context(), id, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

func (h *WorkoutHandler) PatchWorkout(c *gin.Context) {
	id, ok := response.BindID(c)
	if !ok {
		return
	}

	var req dto.PatchWorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindingError(c, err)
		return
	}

	updated, err := h.service.PatchWorkout(c.Request.Context(), id, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

func (h *WorkoutHandler) DeleteWorkout(c *gin.Context) {
	id, ok := response.BindID(c)
	if !ok {
		return
	}

	if err := h.service.DeleteWorkout(c.Request.Context(), id); err != nil {
		response.ResponseError(c, err)
		return
	}

	response.Message(c, "workout deleted successfully")
}
