package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"octofit.com/tracker/internal/entity"
	"octofit.com/tracker/internal/modules/user/dto"
	"octofit.com/tracker/internal/modules/user/repository"
	"octofit.com/tracker/pkg/apperror"
	"octofit.com/tracker/pkg/logger"
)

// TeamDirectory is the slice of the team store used to keep Team.Members in step.
type TeamDirectory interface {
	FindByName(ctx context.Context, name string) (*entity.Team, error)
	Update(ctx context.Context, team *entity.Team) error
}

type UserService interface {
	CreateUser(ctx context.Context, req dto.CreateUserRequest) (*entity.User, error)
	GetUser(ctx context.Context, id uuid.UUID) (*entity.User, error)
	ListUsers(ctx context.Context, filter dto.UserFilter) ([]entity.User, error)
	UpdateUser(ctx context.Context, id uuid.UUID, req dto.UpdateUserRequest) (*entity.User, error)
	PatchUser(ctx context.Context, id uuid.UUID, req dto.PatchUserRequest) (*entity.User, error)
	DeleteUser(ctx context.Context, id uuid.UUID) error
}

type userService struct {
	repo   repository.UserRepository
	teams  TeamDirectory
	logger *zap.Logger
}

// NewUserService builds the service. teams may be nil, which disables the
// membership cache.
func NewUserService(repo repository.UserRepository, teams TeamDirectory, log *zap.Logger) UserService {
	return &userService{
		repo:   repo,
		teams:  teams,
		logger: logger.OrNop(log).Named("user"),
	}
}

func (s *userService) CreateUser(ctx context.Context, req dto.CreateUserRequest) (*entity.User, error) {
	if err := s.ensureEmailFree(ctx, req.Email, uuid.Nil); err != nil {
		return nil, err
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Team:         normalizeTeam(req.Team),
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, translate(err, req.Email)
	}

	s.syncMembership(ctx, "", "", user.Name, user.TeamName())
	return user, nil
}

func (s *userService) GetUser(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user not found: %w", apperror.ErrNotFound)
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) ListUsers(ctx context.Context, filter dto.UserFilter) ([]entity.User, error) {
	return s.repo.FindAll(ctx, filter)
}

func (s *userService) UpdateUser(ctx context.Context, id uuid.UUID, req dto.UpdateUserRequest) (*entity.User, error) {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	oldName, oldTeam := user.Name, user.TeamName()

	if err := s.ensureEmailFree(ctx, req.Email, user.ID); err != nil {
		return nil, err
	}

	user.Name = req.Name
	user.Email = req.Email
	user.Team = normalizeTeam(req.Team)
	if req.Password != "" {
		if user.PasswordHash, err = HashPassword(req.Password); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, translate(err, req.Email)
	}

	s.syncMembership(ctx, oldName, oldTeam, user.Name, user.TeamName())
	return user, nil
}

func (s *userService) PatchUser(ctx context.Context, id uuid.UUID, req dto.PatchUserRequest) (*entity.User, error) {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	oldName, oldTeam := user.Name, user.TeamName()

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Email != nil {
		if err := s.ensureEmailFree(ctx, *req.Email, user.ID); err != nil {
			return nil, err
		}
		user.Email = *req.Email
	}
	if req.Password != nil {
		if user.PasswordHash, err = HashPassword(*req.Password); err != nil {
			return nil, err
		}
	}
	if req.Team != nil {
		user.Team = normalizeTeam(req.Team)
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, translate(err, user.Email)
	}

	s.syncMembership(ctx, oldName, oldTeam, user.Name, user.TeamName())
	return user, nil
}

// DeleteUser removes the user only. Activities keep pointing at the id and
// Team.Members keeps the name.
func (s *userService) DeleteUser(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetUser(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// HashPassword returns the bcrypt hash stored in place of the password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

func (s *userService) ensureEmailFree(ctx context.Context, email string, self uuid.UUID) error {
	existing, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	if existing.ID != self {
		return apperror.Conflict(fmt.Sprintf("user with email %s already exists", email))
	}
	return nil
}

// syncMembership moves the user's name between cached team member lists when
// the team changed. The lists are a cache, so failures are only logged.
func (s *userService) syncMembership(ctx context.Context, oldName, oldTeam, newName, newTeam string) {
	if s.teams == nil || oldTeam == newTeam {
		return
	}
	if oldTeam != "" {
		s.updateMembers(ctx, oldTeam, func(t *entity.Team) bool { return t.RemoveMember(oldName) })
	}
	if newTeam != "" {
		s.updateMembers(ctx, newTeam, func(t *entity.Team) bool { return t.AddMember(newName) })
	}
}

func (s *userService) updateMembers(ctx context.Context, teamName string, change func(*entity.Team) bool) {
	team, err := s.teams.FindByName(ctx, teamName)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Warn("failed to load team for membership update", zap.String("team", teamName), zap.Error(err))
		}
		return
	}
	if !change(team) {
		return
	}
	if err := s.teams.Update(ctx, team); err != nil {
		s.logger.Warn("failed to update team members", zap.String("team", teamName), zap.Error(err))
	}
}

func normalizeTeam(team *string) *string {
	if team == nil {
		return nil
	}
	name := strings.TrimSpace(*team)
	if name == "" {
		return nil
	}
	return &name
}

func translate(err error, email string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperror.Conflict(fmt.Sprintf("user with email %s already exists", email))
	}
	return err
}
