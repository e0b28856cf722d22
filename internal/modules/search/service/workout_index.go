package service

import (
	"encoding/json"
	"fmt"
	"html"
	"strings"

	"github.com/meilisearch/meilisearch-go"
	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"

	"octofit.com/tracker/internal/entity"
	"octofit.com/tracker/pkg/logger"
)

const workoutsIndex = "workouts"

// WorkoutIndex keeps the workout catalog searchable in Meilisearch.
type WorkoutIndex interface {
	IndexWorkouts(workouts ...entity.Workout) error
	DeleteWorkout(id string) error
	// ClearWorkouts drops every indexed document.
	ClearWorkouts() error
	// SearchWorkoutIDs returns matching workout ids, best match first.
	SearchWorkoutIDs(query string, filter WorkoutSearchFilter, limit int64) ([]string, error)
}

// WorkoutSearchFilter narrows a search to exact category or difficulty values.
type WorkoutSearchFilter struct {
	Category   string
	Difficulty string
}

type meiliWorkoutIndex struct {
	client    meilisearch.ServiceManager
	sanitizer *bluemonday.Policy
	logger    *zap.Logger
}

type meiliWorkoutDoc struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	Description        string `json:"description"`
	Category           string `json:"category"`
	Difficulty         string `json:"difficulty"`
	Duration           int    `json:"duration"`
	CaloriesPerSession int    `json:"calories_per_session"`
}

func NewMeiliWorkoutIndex(client meilisearch.ServiceManager, log *zap.Logger) WorkoutIndex {
	s := &meiliWorkoutIndex{
		client:    client,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger.OrNop(log).Named("search"),
	}
	s.initIndex()
	return s
}

func (s *meiliWorkoutIndex) initIndex() {
	filterableAttrs := []string{"category", "difficulty"}
	filterableInterface := make([]any, len(filterableAttrs))
	for i, v := range filterableAttrs {
		filterableInterface[i] = v
	}
	if _, err := s.client.Index(workoutsIndex).UpdateFilterableAttributes(&filterableInterface); err != nil {
		s.logger.Warn("failed to update workouts filterable attributes", zap.Error(err))
	}

	sortableAttrs := []string{"calories_per_session", "duration"}
	if _, err := s.client.Index(workoutsIndex).UpdateSortableAttributes(&sortableAttrs); err != nil {
		s.logger.Warn("failed to update workouts sortable attributes", zap.Error(err))
	}
}

func (s *meiliWorkoutIndex) IndexWorkouts(workouts ...entity.Workout) error {
	if len(workouts) == 0 {
		return nil
	}

	docs := make([]meiliWorkoutDoc, 0, len(workouts))
	for _, w := range workouts {
		docs = append(docs, meiliWorkoutDoc{
			ID:                 w.ID.String(),
			Name:               w.Name,
			Description:        s.cleanText(w.Description),
			Category:           w.Category,
			Difficulty:         w.Difficulty,
			Duration:           w.Duration,
			CaloriesPerSession: w.CaloriesPerSession,
		})
	}

	primaryKey := "id"
	task, err := s.client.Index(workoutsIndex).AddDocuments(docs, &primaryKey)
	if err != nil {
		return fmt.Errorf("failed to index workouts: %w", err)
	}
	s.logger.Debug("workouts queued for indexing", zap.Int("count", len(docs)), zap.Int64("task_uid", task.TaskUID))
	return nil
}

func (s *meiliWorkoutIndex) DeleteWorkout(id string) error {
	if _, err := s.client.Index(workoutsIndex).DeleteDocument(id); err != nil {
		return fmt.Errorf("failed to remove workout %s from index: %w", id, err)
	}
	return nil
}

func (s *meiliWorkoutIndex) ClearWorkouts() error {
	if _, err := s.client.Index(workoutsIndex).DeleteAllDocuments(); err != nil {
		return fmt.Errorf("failed to clear workouts index: %w", err)
	}
	return nil
}

func (s *meiliWorkoutIndex) SearchWorkoutIDs(query string, filter WorkoutSearchFilter, limit int64) ([]string, error) {
	req := &meilisearch.SearchRequest{
		Limit:                limit,
		AttributesToRetrieve: []string{"id"},
	}
	if expr := filter.expression(); expr != "" {
		req.Filter = expr
	}

	raw, err := s.client.Index(workoutsIndex).SearchRaw(query, req)
	if err != nil {
		return nil, fmt.Errorf("workout search failed: %w", err)
	}
	return decodeHitIDs(*raw)
}

func (f WorkoutSearchFilter) expression() string {
	var parts []string
	if f.Category != "" {
		parts = append(parts, fmt.Sprintf("category = %s", quote(f.Category)))
	}
	if f.Difficulty != "" {
		parts = append(parts, fmt.Sprintf("difficulty = %s", quote(f.Difficulty)))
	}
	return strings.Join(parts, " AND ")
}

func quote(v string) string {
	return `"` + strings.ReplaceAll(v, `"`, `\"`) + `"`
}

func decodeHitIDs(raw []byte) ([]string, error) {
	var body struct {
		Hits []struct {
			ID string `json:"id"`
		} `json:"hits"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	ids := make([]string, 0, len(body.Hits))
	for _, hit := range body.Hits {
		ids = append(ids, hit.ID)
	}
	return ids, nil
}

func (s *meiliWorkoutIndex) cleanText(content string) string {
	cleanText := html.UnescapeString(s.sanitizer.Sanitize(content))
	return strings.Join(strings.Fields(cleanText), " ")
}
