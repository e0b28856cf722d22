package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	activityHttp "octofit.com/tracker/internal/modules/activity/delivery/http"
	activityRepo "octofit.com/tracker/internal/modules/activity/repository"
	activityService "octofit.com/tracker/internal/modules/activity/service"

	leaderboardHttp "octofit.com/tracker/internal/modules/leaderboard/delivery/http"
	leaderboardRepo "octofit.com/tracker/internal/modules/leaderboard/repository"
	leaderboardService "octofit.com/tracker/internal/modules/leaderboard/service"

	teamHttp "octofit.com/tracker/internal/modules/team/delivery/http"
	teamRepo "octofit.com/tracker/internal/modules/team/repository"
	teamService "octofit.com/tracker/internal/modules/team/service"

	userHttp "octofit.com/tracker/internal/modules/user/delivery/http"
	userRepo "octofit.com/tracker/internal/modules/user/repository"
	userService "octofit.com/tracker/internal/modules/user/service"

	workoutHttp "octofit.com/tracker/internal/modules/workout/delivery/http"
	workoutRepo "octofit.com/tracker/internal/modules/workout/repository"
	workoutService "octofit.com/tracker/internal/modules/workout/service"

	"octofit.com/tracker/pkg/dto"
	"octofit.com/tracker/pkg/logger"
	"octofit.com/tracker/pkg/response"
)

// Services groups the domain services behind the HTTP API.
type Services struct {
	Users       userService.UserService
	Teams       teamService.TeamService
	Activities  activityService.ActivityService
	Workouts    workoutService.WorkoutService
	Leaderboard leaderboardService.LeaderboardService
}

// NewServices wires repositories and services on top of infra.
func NewServices(infra *Infra) *Services {
	db := infra.DB

	userRepository := userRepo.NewUserRepository(db)
	teamRepository := teamRepo.NewTeamRepository(db)
	activityRepository := activityRepo.NewActivityRepository(db)
	workoutRepository := workoutRepo.NewWorkoutRepository(db)
	leaderboardRepository := leaderboardRepo.NewLeaderboardRepository(db)

	return &Services{
		Users:      userService.NewUserService(userRepository, teamRepository, infra.Logger),
		Teams:      teamService.NewTeamService(teamRepository, leaderboardRepository, userRepository, leaderboardRepository),
		Activities: activityService.NewActivityService(activityRepository, userRepository),
		Workouts:   workoutService.NewWorkoutService(workoutRepository, infra.WorkoutIndex, infra.Logger),
		Leaderboard: leaderboardService.NewLeaderboardService(
			leaderboardRepository,
			userRepository,
			activityRepository,
			infra.Locker,
			infra.Publisher,
			infra.Logger,
		),
	}
}

type Server struct {
	engine *gin.Engine
	infra  *Infra
}

func NewServer(infra *Infra, services *Services) *Server {
	log := logger.OrNop(infra.Logger)
	response.SetLogger(log)

	userHandler := userHttp.NewUserHandler(services.Users)
	teamHandler := teamHttp.NewTeamHandler(services.Teams)
	activityHandler := activityHttp.NewActivityHandler(services.Activities)
	workoutHandler := workoutHttp.NewWorkoutHandler(services.Workouts)
	leaderboardHandler := leaderboardHttp.NewLeaderboardHandler(services.Leaderboard, infra.Redis, log)

	router := gin.New()

	var origins []string
	if infra.Config != nil {
		origins = infra.Config.AllowedOrigins
	}
	setupCORS(router, origins)

	router.Use(gin.Recovery())
	router.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		SkipPaths: []string{"/healthz", "/metrics"},
	}))

	s := &Server{engine: router, infra: infra}

	router.GET("/", apiRoot)
	router.GET("/healthz", s.healthz)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	api.GET("", apiRoot)
	{
		api.POST("/users", userHandler.CreateUser)
		api.GET("/users", userHandler.GetAllUsers)
		api.GET("/users/:id", userHandler.GetUser)
		api.PUT("/users/:id", userHandler.UpdateUser)
		api.PATCH("/users/:id", userHandler.PatchUser)
		api.DELETE("/users/:id", userHandler.DeleteUser)
		api.GET("/users/:id/totals", leaderboardHandler.GetUserTotals)

		api.POST("/teams", teamHandler.CreateTeam)
		api.GET("/teams", teamHandler.GetAllTeams)
		api.GET("/teams/:id", teamHandler.GetTeam)
		api.PUT("/teams/:id", teamHandler.UpdateTeam)
		api.PATCH("/teams/:id", teamHandler.PatchTeam)
		api.DELETE("/teams/:id", teamHandler.DeleteTeam)
		api.GET("/teams/:id/stats", teamHandler.GetTeamStats)

		api.POST("/activities", activityHandler.CreateActivity)
		api.GET("/activities", activityHandler.GetAllActivities)
		api.GET("/activities/:id", activityHandler.GetActivity)
		api.PUT("/activities/:id", activityHandler.UpdateActivity)
		api.PATCH("/activities/:id", activityHandler.PatchActivity)
		api.DELETE("/activities/:id", activityHandler.DeleteActivity)

		api.POST("/workouts", workoutHandler.CreateWorkout)
		api.GET("/workouts", workoutHandler.GetAllWorkouts)
		api.GET("/workouts/search", workoutHandler.SearchWorkouts)
		api.GET("/workouts/:id", workoutHandler.GetWorkout)
		api.PUT("/workouts/:id", workoutHandler.UpdateWorkout)
		api.PATCH("/workouts/:id", workoutHandler.PatchWorkout)
		api.DELETE("/workouts/:id", workoutHandler.DeleteWorkout)

		api.GET("/leaderboard", leaderboardHandler.GetLeaderboard)
		api.POST("/leaderboard", leaderboardHandler.CreateEntry)
		api.POST("/leaderboard/recompute", leaderboardHandler.Recompute)
		api.GET("/leaderboard/ws", leaderboardHandler.HandleWebSocket)
		api.GET("/leaderboard/:id", leaderboardHandler.GetEntry)
		api.PUT("/leaderboard/:id", leaderboardHandler.UpdateEntry)
		api.PATCH("/leaderboard/:id", leaderboardHandler.PatchEntry)
		api.DELETE("/leaderboard/:id", leaderboardHandler.DeleteEntry)
	}

	return s
}

// Handler exposes the router, mainly for http.Server and tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) Run(addr string) error {
	return s.engine.Run(addr)
}

func (s *Server) healthz(c *gin.Context) {
	if s.infra.DB == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	sqlDB, err := s.infra.DB.DB()
	if err == nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		err = sqlDB.PingContext(ctx)
	}
	if err != nil {
		logger.OrNop(s.infra.Logger).Warn("health check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func apiRoot(c *gin.Context) {
	scheme := "http"
	if c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	base := scheme + "://" + c.Request.Host + "/api/"

	c.JSON(http.StatusOK, dto.APIRoot{
		Users:       base + "users/",
		Teams:       base + "teams/",
		Activities:  base + "activities/",
		Leaderboard: base + "leaderboard/",
		Workouts:    base + "workouts/",
	})
}

func setupCORS(router *gin.Engine, origins []string) {
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}
