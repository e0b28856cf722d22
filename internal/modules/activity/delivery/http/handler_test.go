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
	"octofit.com/tracker/internal/modules/activity/dto"
	"octofit.com/tracker/pkg/apperror"
)

type mockActivityService struct {
	mock.Mock
}

func (m *mockActivityService) CreateActivity(ctx context.Context, req dto.CreateActivityRequest) (*entity.Activity, error) {
	args := m.Called(ctx, req)
	if a := args.Get(0); a != nil {
		return a.(*entity.Activity), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockActivityService) GetActivity(ctx context.Context, id uuid.UUID) (*entity.Activity, error) {
	args := m.Called(ctx, id)
	if a := args.Get(0); a != nil {
		return a.(*entity.Activity), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockActivityService) ListActivities(ctx context.Context, filter dto.ActivityFilter) ([]entity.Activity, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]entity.Activity), args.Error(1)
}

func (m *mockActivityService) UpdateActivity(ctx context.Context, id uuid.UUID, req dto.UpdateActivityRequest) (*entity.Activity, error) {
	args := m.Called(ctx, id, req)
	if a := args.Get(0); a != nil {
		return a.(*entity.Activity), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockActivityService) PatchActivity(ctx context.Context, id uuid.UUID, req dto.PatchActivityRequest) (*entity.Activity, error) {
	args := m.Called(ctx, id, req)
	if a := args.Get(0); a != nil {
		return a.(*entity.Activity), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockActivityService) DeleteActivity(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func newRouter(svc *mockActivityService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewActivityHandler(svc)

	r := gin.New()
	r.POST("/api/activities", h.CreateActivity)
	r.GET("/api/activities", h.GetAllActivities)
	r.PATCH("/api/activities/:id", h.PatchActivity)
	r.DELETE("/api/activities/:id", h.DeleteActivity)
	return r
}

func sendJSON(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateActivity(t *testing.T) {
	svc := new(mockActivityService)
	distance := 5.5
	svc.On("CreateActivity", mock.Anything, dto.CreateActivityRequest{
		UserID: "u-1", ActivityType: "Running", Duration: 30, Distance: &distance, Calories: 300,
	}).Return(&entity.Activity{ID: uuid.Must(uuid.NewV7()), UserID: "u-1", UserName: "Flash", ActivityType: "Running", Duration: 30, Distance: &distance, Calories: 300}, nil)

	w := sendJSON(newRouter(svc), http.MethodPost, "/api/activities",
		`{"user_id":"u-1","activity_type":"Running","duration":30,"distance":5.5,"calories":300}`)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"user_name":"Flash"`)
	svc.AssertExpectations(t)
}

func TestCreateActivityRejectsNonPositiveValues(t *testing.T) {
	svc := new(mockActivityService)
	r := newRouter(svc)

	for _, body := range []string{
		`{"user_id":"u-1","activity_type":"Yoga","duration":0,"calories":100}`,
		`{"user_id":"u-1","activity_type":"Yoga","duration":30,"calories":-5}`,
		`{"user_id":"u-1","activity_type":"Running","duration":30,"distance":-1,"calories":100}`,
		`{"activity_type":"Yoga","duration":30,"calories":100}`,
	} {
		w := sendJSON(r, http.MethodPost, "/api/activities", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
	}
	svc.AssertNotCalled(t, "CreateActivity", mock.Anything, mock.Anything)
}

func TestCreateActivityForUnknownUserWithoutName(t *testing.T) {
	svc := new(mockActivityService)
	svc.On("CreateActivity", mock.Anything, mock.Anything).
		Return(nil, apperror.ErrInvalidInput)

	w := sendJSON(newRouter(svc), http.MethodPost, "/api/activities",
		`{"user_id":"ghost","activity_type":"Boxing","duration":30,"calories":100}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListActivitiesPassesFilter(t *testing.T) {
	svc := new(mockActivityService)
	svc.On("ListActivities", mock.Anything, dto.ActivityFilter{UserID: "u-1", ActivityType: "Cycling"}).
		Return([]entity.Activity{{UserID: "u-1", ActivityType: "Cycling", Calories: 400}}, nil)

	w := httptest.NewRecorder()
	newRouter(svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/activities?user_id=u-1&activity_type=Cycling", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"data":[`)
	assert.Contains(t, w.Body.String(), `"calories":400`)
}

func TestPatchAndDeleteActivity(t *testing.T) {
	svc := new(mockActivityService)
	id := uuid.Must(uuid.NewV7())
	calories := 650
	svc.On("PatchActivity", mock.Anything, id, dto.PatchActivityRequest{Calories: &calories}).
		Return(&entity.Activity{ID: id, Calories: calories}, nil)
	svc.On("DeleteActivity", mock.Anything, id).Return(apperror.ErrNotFound)
	r := newRouter(svc)

	w := sendJSON(r, http.MethodPatch, "/api/activities/"+id.String(), `{"calories":650}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"calories":650`)

	w = sendJSON(r, http.MethodPatch, "/api/activities/"+id.String(), `{"calories":0}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = sendJSON(r, http.MethodDelete, "/api/activities/"+id.String(), "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
