package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"octofit.com/tracker/internal/modules/team/dto"
	team "octofit.com/tracker/internal/modules/team/service"
	commonDto "octofit.com/tracker/pkg/dto"
	"octofit.com/tracker/pkg/response"
)

type TeamHandler struct {
	service team.TeamService
}

func NewTeamHandler(service team.TeamService) *TeamHandler {
	return &TeamHandler{service: service}
}

func (h *TeamHandler) CreateTeam(c *gin.Context) {
	var req dto.CreateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindingError(c, err)
		return
	}

	created, err := h.service.CreateTeam(c.Request.Context(), req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

func (h *TeamHandler) GetAllTeams(c *gin.Context) {
	var filter commonDto.SearchFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BindingError(c, err)
		return
	}

	teams, err := h.service.ListTeams(c.Request.Context(), filter.Search)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.Data(c, teams)
}

func (h *TeamHandler) GetTeam(c *gin.Context) {
	id, ok := response.BindID(c)
	if !ok {
		return
	}

	found, err := h.service.GetTeam(c.Request.Context(), id)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, found)
}

func (h *TeamHandler) UpdateTeam(c *gin.Context) {
	id, ok := response.BindID(c)
	if !ok {
		return
	}

	var req dto.UpdateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindingError(c, err)
		return
	}

	updated, err := h.service.UpdateTeam(c.Request.Context(), id, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

func (h *TeamHandler) PatchTeam(c *gin.Context) {
	id, ok := response.BindID(c)
	if !ok {
		return
	}

	var req dto.PatchTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindingError(c, err)
		return
	}

	updated, err := h.service.PatchTeam(c.Request.Context(), id, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

func (h *TeamHandler) DeleteTeam(c *gin.Context) {
	id, ok := response.BindID(c)
	if !ok {
		return
	}

	if err := h.service.DeleteTeam(c.Request.Context(), id); err != nil {
		response.ResponseError(c, err)
		return
	}

	response.Message(c, "team deleted successfully")
}

func (h *TeamHandler) GetTeamStats(c *gin.Context) {
	id, ok := response.BindID(c)
	if !ok {
		return
	}

	summary, err := h.service.GetTeamStats(c.Request.Context(), id)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}
