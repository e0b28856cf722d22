package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/microcosm-cc/bluemonday"
	"github.com/montanaflynn/stats"
	"gorm.io/gorm"

	"octofit.com/tracker/internal/entity"
	"octofit.com/tracker/internal/modules/team/dto"
	"octofit.com/tracker/internal/modules/team/repository"
	"octofit.com/tracker/pkg/apperror"
)

// StandingsReader lists leaderboard rows for a team.
type StandingsReader interface {
	FindAll(ctx context.Context, team string) ([]entity.Leaderboard, error)
}

// TeamRenamer moves rows that reference a team by name to its new name.
type TeamRenamer interface {
	RenameTeam(ctx context.Context, from, to string) error
}

type TeamService interface {
	CreateTeam(ctx context.Context, req dto.CreateTeamRequest) (*entity.Team, error)
	GetTeam(ctx context.Context, id uuid.UUID) (*entity.Team, error)
	ListTeams(ctx context.Context, search string) ([]entity.Team, error)
	UpdateTeam(ctx context.Context, id uuid.UUID, req dto.UpdateTeamRequest) (*entity.Team, error)
	PatchTeam(ctx context.Context, id uuid.UUID, req dto.PatchTeamRequest) (*entity.Team, error)
	DeleteTeam(ctx context.Context, id uuid.UUID) error
	GetTeamStats(ctx context.Context, id uuid.UUID) (*dto.TeamStats, error)
}

type teamService struct {
	repo      repository.TeamRepository
	standings StandingsReader
	renamers  []TeamRenamer
	sanitizer *bluemonday.Policy
}

func NewTeamService(repo repository.TeamRepository, standings StandingsReader, renamers ...TeamRenamer) TeamService {
	return &teamService{
		repo:      repo,
		standings: standings,
		renamers:  renamers,
		sanitizer: bluemonday.StrictPolicy(),
	}
}

func (s *teamService) CreateTeam(ctx context.Context, req dto.CreateTeamRequest) (*entity.Team, error) {
	name := strings.TrimSpace(req.Name)
	if err := s.ensureNameFree(ctx, name, uuid.Nil); err != nil {
		return nil, err
	}

	team := &entity.Team{
		Name:        name,
		Description: s.sanitizer.Sanitize(req.Description),
		Members:     memberList(req.Members),
	}
	if err := s.repo.Create(ctx, team); err != nil {
		return nil, translate(err, name)
	}
	return team, nil
}

func (s *teamService) GetTeam(ctx context.Context, id uuid.UUID) (*entity.Team, error) {
	team, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("team not found: %w", apperror.ErrNotFound)
		}
		return nil, err
	}
	return team, nil
}

func (s *teamService) ListTeams(ctx context.Context, search string) ([]entity.Team, error) {
	return s.repo.FindAll(ctx, search)
}

func (s *teamService) UpdateTeam(ctx context.Context, id uuid.UUID, req dto.UpdateTeamRequest) (*entity.Team, error) {
	team, err := s.GetTeam(ctx, id)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if err := s.ensureNameFree(ctx, name, team.ID); err != nil {
		return nil, err
	}
	previous := team.Name
	team.Name = name
	team.Description = s.sanitizer.Sanitize(req.Description)
	team.Members = memberList(req.Members)

	if err := s.repo.Update(ctx, team); err != nil {
		return nil, translate(err, name)
	}
	if err := s.renameReferences(ctx, previous, team.Name); err != nil {
		return nil, err
	}
	return team, nil
}

func (s *teamService) PatchTeam(ctx context.Context, id uuid.UUID, req dto.PatchTeamRequest) (*entity.Team, error) {
	team, err := s.GetTeam(ctx, id)
	if err != nil {
		return nil, err
	}

	previous := team.Name
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if err := s.ensureNameFree(ctx, name, team.ID); err != nil {
			return nil, err
		}
		team.Name = name
	}
	if req.Description != nil {
		team.Description = s.sanitizer.Sanitize(*req.Description)
	}
	if req.Members != nil {
		team.Members = memberList(*req.Members)
	}

	if err := s.repo.Update(ctx, team); err != nil {
		return nil, translate(err, team.Name)
	}
	if err := s.renameReferences(ctx, previous, team.Name); err != nil {
		return nil, err
	}
	return team, nil
}

func (s *teamService) DeleteTeam(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetTeam(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// GetTeamStats summarises the team's rows in the current leaderboard. The
// figures are only as fresh as the last recompute.
func (s *teamService) GetTeamStats(ctx context.Context, id uuid.UUID) (*dto.TeamStats, error) {
	team, err := s.GetTeam(ctx, id)
	if err != nil {
		return nil, err
	}

	rows, err := s.standings.FindAll(ctx, team.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to load standings for team %s: %w", team.Name, err)
	}

	summary := &dto.TeamStats{
		Team:          team.Name,
		Members:       []string(team.Members),
		RankedMembers: len(rows),
	}
	if len(rows) == 0 {
		return summary, nil
	}

	calories := make(stats.Float64Data, 0, len(rows))
	for _, row := range rows {
		calories = append(calories, float64(row.TotalCalories))
		summary.TotalCalories += row.TotalCalories
		summary.TotalActivities += row.TotalActivities
		if summary.BestRank == 0 || row.Rank < summary.BestRank {
			summary.BestRank = row.Rank
			summary.TopMember = row.UserName
		}
	}

	if summary.MeanCalories, err = stats.Mean(calories); err != nil {
		return nil, err
	}
	if summary.MedianCalories, err = stats.Median(calories); err != nil {
		return nil, err
	}
	summary.MeanCalories, _ = stats.Round(summary.MeanCalories, 2)
	return summary, nil
}

// renameReferences keeps users and leaderboard rows attached to a renamed team.
func (s *teamService) renameReferences(ctx context.Context, from, to string) error {
	if from == to {
		return nil
	}
	for _, r := range s.renamers {
		if err := r.RenameTeam(ctx, from, to); err != nil {
			return fmt.Errorf("failed to rename team %s to %s: %w", from, to, err)
		}
	}
	return nil
}

func (s *teamService) ensureNameFree(ctx context.Context, name string, self uuid.UUID) error {
	existing, err := s.repo.FindByName(ctx, name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	if existing.ID != self {
		return apperror.Conflict(fmt.Sprintf("team with name %s already exists", name))
	}
	return nil
}

func memberList(names []string) pq.StringArray {
	team := entity.Team{Members: pq.StringArray{}}
	for _, name := range names {
		team.AddMember(strings.TrimSpace(name))
	}
	return team.Members
}

func translate(err error, name string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperror.Conflict(fmt.Sprintf("team with name %s already exists", name))
	}
	return err
}
