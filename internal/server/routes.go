// Package server contain implementation of go-gin-server and each route handlers
package server

import (
	"net/http"
	"os"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"empregol-backend/internal/auth"
	"empregol-backend/internal/controller/application"
	"empregol-backend/internal/controller/candidate"
	"empregol-backend/internal/controller/company"
	"empregol-backend/internal/controller/dashboard"
	"empregol-backend/internal/controller/jobpost"
	"empregol-backend/internal/controller/savedjob"
	"empregol-backend/internal/middleware"
	"empregol-backend/internal/model"
)

// RegisterRoutes will register each http endpoint routes to bound Server instance
func (s *MyServer) RegisterRoutes() http.Handler {
	r := gin.Default()

	allowOrginsStr := os.Getenv("ALLOW_ORIGIN")
	allowOrgins := strings.Split(allowOrginsStr, ",")
	if allowOrginsStr == "" {
		allowOrgins = []string{"http://localhost:3000"}
	}

	gAuth := auth.NewOauthLoginHandler(s.DB, s.OauthConfig, s.UserInfoEndpoint)
	lAuth := auth.NewLocalAuthHandler(s.DB)
	logout := auth.NewLogoutController(s.Blacklist)
	me := auth.NewMeController(s.DB)

	jobPosts := jobpost.NewJobPostController(s.DB)
	applications := application.NewApplicationController(s.DB, s.Metrics)
	savedJobs := savedjob.NewSavedJobController(s.DB, s.Metrics)
	candidates := candidate.NewCandidateController(s.DB)
	companies := company.NewCompanyController(s.DB)
	dashboards := dashboard.NewDashboardController(s.DB)

	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowOrgins, // Add your frontend URL
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true, // Enable cookies/auth
	}))
	r.Use(middleware.SafeHeader(), middleware.RequestMetrics(s.Metrics))

	rateLimit := middleware.EnvRateLimitMiddleware(s.Redis)

	r.GET("/", s.HelloWorldHandler)
	r.GET("/health", s.healthHandler)
	r.GET("/metrics", gin.WrapH(s.Metrics.Handler()))

	v1 := r.Group("/api/v1")
	v1.Use(middleware.SizeLimit(middleware.DefaultMaxBodyBytes))
	{
		authRoute := v1.Group("/auth")
		{
			authRoute.Use(rateLimit)
			authRoute.POST("google/candidato", gAuth.CandidateGoogleLoginHandler)
			authRoute.POST("google/empresa", gAuth.CompanyGoogleLoginHandler)
			authRoute.GET("google/callback", gAuth.Callback)

			authRoute.POST("login", lAuth.LoginHandler)
			authRoute.POST("cadastro", lAuth.RegisterHandler)
		}

		// Anyone, session user is attached when present
		public := v1.Group("")
		{
			public.Use(middleware.OptionalAuth(s.DB, s.Blacklist), rateLimit)
			public.GET("status", applications.StatusVocabulary)
			public.GET("vagas", jobPosts.GetPosts)
			public.GET("vagas/:id", jobPosts.GetPostByID)
			public.GET("empresas/:company_id", companies.GetCompanyByID)
		}

		needAuth := v1.Group("")
		{
			needAuth.Use(middleware.RequireAuth(s.DB, s.Blacklist), rateLimit)
			needAuth.POST("auth/logout", logout.LogoutHandler)
			needAuth.GET("auth/me", me.Me)

			needCandidate := needAuth.Group("")
			{
				needCandidate.Use(middleware.CheckRole(model.RoleCandidate))
				needCandidate.GET("vagas/:id/candidatura", applications.CanApply)

				candidateRoute := needCandidate.Group("/candidato")
				{
					candidateRoute.GET("perfil", candidates.GetMyProfile)
					candidateRoute.PATCH("perfil", candidates.EditProfile)
					candidateRoute.POST("candidaturas", applications.Apply)
					candidateRoute.GET("candidaturas", applications.ListMine)
					candidateRoute.GET("candidaturas/:id", applications.GetMine)
					candidateRoute.GET("vagas-salvas", savedJobs.List)
					candidateRoute.POST("vagas-salvas/:vaga_id", savedJobs.Toggle)
				}
			}

			companyRoute := needAuth.Group("/empresa")
			{
				companyRoute.Use(middleware.CheckRole(model.RoleCompany))
				companyRoute.GET("perfil", companies.GetCompanyProfile)
				companyRoute.PATCH("perfil", companies.EditCompanyProfile)
				companyRoute.GET("estatisticas", companies.GetStatistics)

				companyRoute.POST("vagas", jobPosts.CreateJobPostHandler)
				companyRoute.GET("vagas", jobPosts.GetOwnPosts)
				companyRoute.PATCH("vagas/:id", jobPosts.EditJobPost)
				companyRoute.PATCH("vagas/:id/status", jobPosts.UpdateJobPostStatus)

				companyRoute.GET("candidaturas", applications.ListForCompany)
				companyRoute.PATCH("candidaturas/:id/status", applications.UpdateStatus)
			}
		}
	}

	// Role gated pages
	candidatePages := r.Group("/dashboard")
	{
		candidatePages.Use(middleware.RequirePageRole(s.DB, s.Blacklist, model.RoleCandidate))
		candidatePages.GET("", dashboards.Candidate)
		candidatePages.GET("/*page", dashboards.Page)
	}

	companyPages := r.Group("/empresa/dashboard")
	{
		companyPages.Use(middleware.RequirePageRole(s.DB, s.Blacklist, model.RoleCompany))
		companyPages.GET("", dashboards.Company)
		companyPages.GET("/*page", dashboards.Page)
	}

	return r
}

// HelloWorldHandler handle request by return message "Hello World"
func (s *MyServer) HelloWorldHandler(c *gin.Context) {
	resp := make(map[string]string)
	resp["message"] = "EmpreGol API"

	c.JSON(http.StatusOK, resp)
}

func (s *MyServer) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, s.DB.Health())
}
