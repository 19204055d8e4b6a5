// file: routes/router.go
package routes

import (
	"crazy88/controllers"
	"crazy88/middlewares"
	"crazy88/models"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

func SetupRouter() *gin.Engine {
	r := gin.Default()

	apiV1 := r.Group("/api/v1")
	{
		// --- 登录 ---
		authRoutes := apiV1.Group("/auth")
		{
			authRoutes.POST("/login", controllers.Login)
			authRoutes.POST("/team-login", controllers.TeamLogin)
		}

		// --- 公开接口：计时器状态与排行榜 ---
		apiV1.GET("/clock", controllers.GetClockStatus)
		apiV1.GET("/scoreboard", controllers.GetScoreboard)

		// --- 任务目录（队伍 Token 附带本队状态） ---
		assignmentRoutes := apiV1.Group("/assignments")
		assignmentRoutes.Use(middlewares.JWTAuthMiddleware())
		{
			assignmentRoutes.GET("", controllers.ListAssignments)
		}

		// --- 队伍提交：证据上传走限流 ---
		submissionRoutes := apiV1.Group("/submissions")
		submissionRoutes.Use(middlewares.JWTAuthMiddleware(), middlewares.RateLimit(rate.Limit(1), 5))
		{
			submissionRoutes.POST("/:number", controllers.SubmitEvidence)
		}

		// --- 评审员接口 ---
		reviewRoutes := apiV1.Group("/review")
		reviewRoutes.Use(middlewares.JWTAuthMiddleware(), middlewares.RoleAuthMiddleware(models.RoleReviewer))
		{
			reviewRoutes.GET("/queue", controllers.ListReviewQueue)
			reviewRoutes.POST("/:number/approve", controllers.ApproveSubmission)
			reviewRoutes.POST("/:number/reject", controllers.RejectSubmission)
		}

		// --- 评审团接口：计时控制、直接授分、修复扫描、后台管理 ---
		juryRoutes := apiV1.Group("/jury")
		juryRoutes.Use(middlewares.JWTAuthMiddleware(), middlewares.RoleAuthMiddleware(models.RoleJury))
		{
			juryRoutes.PUT("/clock/duration", controllers.SetClockDuration)
			juryRoutes.POST("/clock/start", controllers.StartClock)
			juryRoutes.POST("/clock/pause", controllers.PauseClock)
			juryRoutes.POST("/clock/resume", controllers.ResumeClock)
			juryRoutes.POST("/clock/stop", controllers.StopClock)
			juryRoutes.PUT("/clock/double-points", controllers.SetDoublePoints)
			juryRoutes.PUT("/clock/announcement", controllers.SetAnnouncement)

			juryRoutes.POST("/award", controllers.JuryAward)
			juryRoutes.POST("/creativity", controllers.JuryCreativityAward)
			juryRoutes.POST("/resync", controllers.ResyncScores)
			juryRoutes.POST("/scoreboard/refresh", controllers.RefreshScoreboard)

			juryRoutes.GET("/teams", controllers.ListTeams)
			juryRoutes.POST("/teams", controllers.CreateTeam)
			juryRoutes.DELETE("/teams/:id", controllers.DeleteTeam)
			juryRoutes.POST("/teams/:id/reset-access-code", controllers.ResetAccessCode)
			juryRoutes.GET("/teams/:id/progress", controllers.GetTeamProgress)

			juryRoutes.POST("/assignments", controllers.UpsertAssignment)

			juryRoutes.GET("/sessions", controllers.ListSessions)
			juryRoutes.POST("/sessions", controllers.CreateSession)
			juryRoutes.POST("/sessions/:id/reset", controllers.ResetSession)
		}
	}

	return r
}
