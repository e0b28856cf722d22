package bootstrap

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"octofit.com/tracker/internal/entity"
	"octofit.com/tracker/pkg/logger"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&entity.User{},
		&entity.Team{},
		&entity.Activity{},
		&entity.Workout{},
		&entity.Leaderboard{},
	)
}

// Recomputer rebuilds the leaderboard from the stored users and activities.
type Recomputer interface {
	Recompute(ctx context.Context) ([]entity.Leaderboard, error)
}

// WorkoutIndexer mirrors the seeded catalog into the search index.
type WorkoutIndexer interface {
	ClearWorkouts() error
	IndexWorkouts(workouts ...entity.Workout) error
}

// SeedResult holds the row counts after a seed run.
type SeedResult struct {
	Users       int64
	Teams       int64
	Activities  int64
	Workouts    int64
	Leaderboard int64
}

type heroSeed struct {
	Name  string
	Email string
}

type teamSeed struct {
	Name        string
	Description string
	Heroes      []heroSeed
}

const demoPassword = "password123"

var demoTeams = []teamSeed{
	{
		Name:        "Team Marvel",
		Description: "Heroes from the Marvel Universe",
		Heroes: []heroSeed{
			{"Iron Man", "ironman@marvel.com"},
			{"Captain America", "captainamerica@marvel.com"},
			{"Thor", "thor@marvel.com"},
			{"Black Widow", "blackwidow@marvel.com"},
			{"Hulk", "hulk@marvel.com"},
			{"Spider-Man", "spiderman@marvel.com"},
		},
	},
	{
		Name:        "Team DC",
		Description: "Heroes from the DC Universe",
		Heroes: []heroSeed{
			{"Batman", "batman@dc.com"},
			{"Superman", "superman@dc.com"},
			{"Wonder Woman", "wonderwoman@dc.com"},
			{"Flash", "flash@dc.com"},
			{"Aquaman", "aquaman@dc.com"},
			{"Green Lantern", "greenlantern@dc.com"},
		},
	},
}

var demoActivityTypes = []string{
	entity.ActivityRunning,
	entity.ActivityCycling,
	entity.ActivitySwimming,
	entity.ActivityWeightlifting,
	entity.ActivityYoga,
	entity.ActivityBoxing,
}

// DemoWorkouts is the fixed catalog written by every seed run.
var DemoWorkouts = []entity.Workout{
	{Name: "Super Soldier Training", Description: "High-intensity workout to build strength and endurance", Category: "Strength", Difficulty: entity.DifficultyHard, Duration: 60, CaloriesPerSession: 600},
	{Name: "Web Slinger Cardio", Description: "Fast-paced cardio to improve agility and speed", Category: "Cardio", Difficulty: entity.DifficultyMedium, Duration: 45, CaloriesPerSession: 450},
	{Name: "Asgardian Warrior Workout", Description: "Intense strength training for warriors", Category: "Strength", Difficulty: entity.DifficultyHard, Duration: 75, CaloriesPerSession: 700},
	{Name: "Speedster Sprint", Description: "Speed and endurance training", Category: "Cardio", Difficulty: entity.DifficultyMedium, Duration: 30, CaloriesPerSession: 350},
	{Name: "Amazon Warrior Training", Description: "Combat and strength training", Category: "Strength", Difficulty: entity.DifficultyHard, Duration: 60, CaloriesPerSession: 550},
	{Name: "Detective Recovery Yoga", Description: "Flexibility and recovery focused yoga", Category: "Flexibility", Difficulty: entity.DifficultyEasy, Duration: 45, CaloriesPerSession: 200},
	{Name: "Gamma Strength Builder", Description: "Maximum strength training", Category: "Strength", Difficulty: entity.DifficultyHard, Duration: 90, CaloriesPerSession: 800},
	{Name: "Atlantean Swimming", Description: "Swimming endurance and technique", Category: "Cardio", Difficulty: entity.DifficultyMedium, Duration: 60, CaloriesPerSession: 500},
}

// Seeder builds the demo dataset.
type Seeder struct {
	db         *gorm.DB
	recomputer Recomputer
	index      WorkoutIndexer
	rng        *rand.Rand
	logger     *zap.Logger
}

// NewSeeder builds a Seeder. index may be nil. The same seed value
// reproduces the same random activities.
func NewSeeder(db *gorm.DB, recomputer Recomputer, index WorkoutIndexer, seed uint64, log *zap.Logger) *Seeder {
	return &Seeder{
		db:         db,
		recomputer: recomputer,
		index:      index,
		rng:        rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		logger:     logger.OrNop(log).Named("seed"),
	}
}

// SeedIfEmpty seeds only when no user exists yet. It reports whether it ran.
func (s *Seeder) SeedIfEmpty(ctx context.Context) (*SeedResult, bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&entity.User{}).Count(&count).Error; err != nil {
		return nil, false, err
	}
	if count > 0 {
		s.logger.Info("users already exist, skipping seed", zap.Int64("users", count))
		return nil, false, nil
	}

	result, err := s.Seed(ctx)
	return result, err == nil, err
}

// Seed clears every collection and writes the demo dataset. The leaderboard
// is recomputed once, after all activities are stored.
func (s *Seeder) Seed(ctx context.Context) (*SeedResult, error) {
	s.logger.Info("clearing existing data")
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := clearAll(tx); err != nil {
			return err
		}

		s.logger.Info("creating teams and users")
		users, err := s.createTeamsAndUsers(tx)
		if err != nil {
			return err
		}

		s.logger.Info("creating activities")
		if err := s.createActivities(tx, users); err != nil {
			return err
		}

		s.logger.Info("creating workouts")
		return s.createWorkouts(tx)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to seed database: %w", err)
	}

	s.logger.Info("creating leaderboard")
	if _, err := s.recomputer.Recompute(ctx); err != nil {
		return nil, fmt.Errorf("failed to recompute leaderboard after seeding: %w", err)
	}

	result, err := s.count(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Info("database seeded",
		zap.Int64("users", result.Users),
		zap.Int64("teams", result.Teams),
		zap.Int64("activities", result.Activities),
		zap.Int64("workouts", result.Workouts),
		zap.Int64("leaderboard", result.Leaderboard),
	)
	return result, nil
}

func clearAll(tx *gorm.DB) error {
	all := tx.Session(&gorm.Session{AllowGlobalUpdate: true})
	for _, model := range []any{&entity.Activity{}, &entity.Leaderboard{}, &entity.User{}, &entity.Team{}, &entity.Workout{}} {
		if err := all.Delete(model).Error; err != nil {
			return err
		}
	}
	return nil
}

func (s *Seeder) createTeamsAndUsers(tx *gorm.DB) ([]entity.User, error) {
	var users []entity.User
	for _, ts := range demoTeams {
		team := entity.Team{Name: ts.Name, Description: ts.Description}
		if err := tx.Create(&team).Error; err != nil {
			return nil, err
		}

		for _, hero := range ts.Heroes {
			hash, err := bcrypt.GenerateFromPassword([]byte(demoPassword), bcrypt.DefaultCost)
			if err != nil {
				return nil, err
			}
			teamName := ts.Name
			user := entity.User{
				Name:         hero.Name,
				Email:        hero.Email,
				PasswordHash: string(hash),
				Team:         &teamName,
			}
			if err := tx.Create(&user).Error; err != nil {
				return nil, err
			}
			users = append(users, user)
			team.AddMember(hero.Name)
		}

		if err := tx.Save(&team).Error; err != nil {
			return nil, err
		}
	}
	return users, nil
}

func (s *Seeder) createActivities(tx *gorm.DB, users []entity.User) error {
	var activities []entity.Activity
	for _, user := range users {
		for i := 5 + s.rng.IntN(11); i > 0; i-- {
			activities = append(activities, s.randomActivity(user))
		}
	}
	return tx.CreateInBatches(activities, 100).Error
}

func (s *Seeder) randomActivity(user entity.User) entity.Activity {
	activityType := demoActivityTypes[s.rng.IntN(len(demoActivityTypes))]
	activity := entity.Activity{
		UserID:       user.ID.String(),
		UserName:     user.Name,
		ActivityType: activityType,
		Duration:     20 + s.rng.IntN(101),
		Calories:     100 + s.rng.IntN(701),
	}
	if entity.IsDistanceBased(activityType) {
		distance := math.Round((1+s.rng.Float64()*19)*100) / 100
		activity.Distance = &distance
	}
	return activity
}

func (s *Seeder) createWorkouts(tx *gorm.DB) error {
	workouts := make([]entity.Workout, len(DemoWorkouts))
	copy(workouts, DemoWorkouts)
	if err := tx.Create(&workouts).Error; err != nil {
		return err
	}

	if s.index == nil {
		return nil
	}
	// The search index is a secondary copy; seeding continues without it.
	if err := s.index.ClearWorkouts(); err != nil {
		s.logger.Warn("failed to clear workouts index", zap.Error(err))
	}
	if err := s.index.IndexWorkouts(workouts...); err != nil {
		s.logger.Warn("failed to index workouts", zap.Error(err))
	}
	return nil
}

func (s *Seeder) count(ctx context.Context) (*SeedResult, error) {
	db := s.db.WithContext(ctx)
	result := &SeedResult{}
	counts := []struct {
		model any
		dst   *int64
	}{
		{&entity.User{}, &result.Users},
		{&entity.Team{}, &result.Teams},
		{&entity.Activity{}, &result.Activities},
		{&entity.Workout{}, &result.Workouts},
		{&entity.Leaderboard{}, &result.Leaderboard},
	}
	for _, c := range counts {
		if err := db.Model(c.model).Count(c.dst).Error; err != nil {
			return nil, err
		}
	}
	return result, nil
}

// DefaultSeed returns a seed value that differs between runs.
func DefaultSeed() uint64 {
	return uint64(time.Now().UnixNano())
}
