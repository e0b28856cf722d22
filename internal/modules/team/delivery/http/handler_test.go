package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"octofit.com/tracker/internal/entity"
	"octofit.com/tracker/internal/modules/team/dto"
	"octofit.com/tracker/pkg/apperror"
)

type mockTeamService struct {
	mock.Mock
}

func (m *mockTeamService) CreateTeam(ctx context.Context, req dto.CreateTeamRequest) (*entity.Team, error) {
	args := m.Called(ctx, req)
	if t := args.Get(0); t != nil {
		return t.(*entity.Team), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockTeamService) GetTeam(ctx context.Context, id uuid.UUID) (*entity.Team, error) {
	args := m.Called(ctx, id)
	if t := args.Get(0); t != nil {
		return t.(*entity.Team), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockTeamService) ListTeams(ctx context.Context, search string) ([]entity.Team, error) {
	args := m.Called(ctx, search)
	return args.Get(0).([]entity.Team), args.Error(1)
}

func (m *mockTeamService) UpdateTeam(ctx context.Context, id uuid.UUID, req dto.UpdateTeamRequest) (*entity.Team, error) {
	args := m.Called(ctx, id, req)
	if t := args.Get(0); t != nil {
		return t.(*entity.Team), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockTeamService) PatchTeam(ctx context.Context, id uuid.UUID, req dto.PatchTeamRequest) (*entity.Team, error) {
	args := m.Called(ctx, id, req)
	if t := args.Get(0); t != nil {
		return t.(*entity.Team), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockTeamService) DeleteTeam(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockTeamService) GetTeamStats(ctx context.Context, id uuid.UUID) (*dto.TeamStats, error) {
	args := m.Called(ctx, id)
	if s := args.Get(0); s != nil {
		return s.(*dto.TeamStats), args.Error(1)
	}
	return nil, args.Error(1)
}

func newRouter(svc *mockTeamService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewTeamHandler(svc)

	r := gin.New()
	r.POST("/api/teams", h.CreateTeam)
	r.GET("/api/teams", h.GetAllTeams)
	r.GET("/api/teams/:id/stats", h.GetTeamStats)
	return r
}

func TestCreateTeamConflict(t *testing.T) {
	svc := new(mockTeamService)
	svc.On("CreateTeam", mock.Anything, mock.Anything).
		Return(nil, apperror.Conflict("team Team Marvel already exists"))

	req := httptest.NewRequest(http.MethodPost, "/api/teams", strings.NewReader(`{"name":"Team Marvel"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	newRouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestListTeamsPassesSearch(t *testing.T) {
	svc := new(mockTeamService)
	svc.On("ListTeams", mock.Anything, "marvel").
		Return([]entity.Team{{Name: "Team Marvel", Members: []string{"Thor"}}}, nil)

	w := httptest.NewRecorder()
	newRouter(svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/teams?search=marvel", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"members":["Thor"]`)
}

func TestGetTeamStats(t *testing.T) {
	svc := new(mockTeamService)
	id := uuid.Must(uuid.NewV7())
	svc.On("GetTeamStats", mock.Anything, id).Return(&dto.TeamStats{
		Team: "Team DC", RankedMembers: 2, TotalCalories: 900, MeanCalories: 450, MedianCalories: 450, BestRank: 1, TopMember: "Batman",
	}, nil)

	w := httptest.NewRecorder()
	newRouter(svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/teams/"+id.String()+"/stats", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"top_member":"Batman"`)
	assert.Contains(t, w.Body.String(), `"mean_calories":450`)
}
