// Package dashboard provides the data behind the role gated dashboard pages.
package dashboard

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"empregol-backend/internal/controller/application"
	"empregol-backend/internal/controller/candidate"
	"empregol-backend/internal/controller/company"
	"empregol-backend/internal/database"
	"empregol-backend/internal/model"
	"empregol-backend/internal/status"
	"empregol-backend/internal/utilities"
)

// RecentLimit is the number of applications listed on a dashboard
const RecentLimit = 5

// DashboardController serves dashboard data for both roles
type DashboardController struct {
	DB *database.DBinstanceStruct
}

// NewDashboardController creates a new instance of DashboardController
func NewDashboardController(db *database.DBinstanceStruct) *DashboardController {
	return &DashboardController{
		DB: db,
	}
}

// CandidateDashboard is the data of the candidate home page
type CandidateDashboard struct {
	Profile           model.CandidateProfileResponse     `json:"perfil"`
	TotalApplications int64                              `json:"total_candidaturas"`
	ByStatus          map[status.Status]int64            `json:"por_status"`
	SavedJobs         int64                              `json:"vagas_salvas"`
	Recent            []application.CandidateApplication `json:"recentes"`
}

// CompanyDashboard is the data of the company home page
type CompanyDashboard struct {
	Company    model.Company           `json:"empresa"`
	Statistics company.Statistics      `json:"estatisticas"`
	Recent     []model.ApplicationView `json:"recentes"`
}

// PageSession is the session of a dashboard sub page
type PageSession struct {
	User model.User `json:"user"`
	Page string     `json:"pagina"`
	Home string     `json:"home"`
}

// Page answers sub pages of a dashboard with the session user loaded by the
// page gate, so the page can render without another lookup.
// @Summary Dashboard sub page session
// @Tags Dashboard
// @Produce json
// @Param page path string true "Sub page path"
// @Success 200 {object} PageSession "Session user of the page"
// @Failure 302 {string} string "Redirect to login page or to the dashboard of the user role"
// @Router /dashboard/{page} [get]
// @Router /empresa/dashboard/{page} [get]
func (dc *DashboardController) Page(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, PageSession{
		User: user,
		Page: strings.TrimPrefix(c.Param("page"), "/"),
		Home: user.HomePath(),
	})
}

// Candidate serves the candidate dashboard.
// @Summary Candidate dashboard
// @Description Profile completeness, application counts per status and the most recent applications
// @Tags Dashboard
// @Produce json
// @Success 200 {object} CandidateDashboard "Dashboard data"
// @Failure 302 {string} string "Redirect to login page or to the dashboard of the user role"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /dashboard [get]
func (dc *DashboardController) Candidate(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	data, err := LoadCandidateDashboard(dc.DB.WithContext(c.Request.Context()), user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to load dashboard: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, data)
}

// Company serves the company dashboard.
// @Summary Company dashboard
// @Description Job post and application statistics and the most recent applications
// @Tags Dashboard
// @Produce json
// @Success 200 {object} CompanyDashboard "Dashboard data"
// @Failure 302 {string} string "Redirect to login page or to the dashboard of the user role"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /empresa/dashboard [get]
func (dc *DashboardController) Company(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	data, err := LoadCompanyDashboard(dc.DB.WithContext(c.Request.Context()), user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to load dashboard: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, data)
}

// LoadCandidateDashboard collects dashboard data of a candidate
func LoadCandidateDashboard(db *gorm.DB, user model.User) (CandidateDashboard, error) {
	data := CandidateDashboard{}

	profile, err := candidate.LoadProfile(db, user)
	if err != nil {
		return data, err
	}
	data.Profile = profile.ToProfileResponse()

	data.ByStatus, data.TotalApplications, err = application.CountByStatus(
		db.Model(&model.Application{}).Where("candidate_id = ?", user.ID),
	)
	if err != nil {
		return data, err
	}

	if err := db.Model(&model.SavedJob{}).Where("candidate_id = ?", user.ID).Count(&data.SavedJobs).Error; err != nil {
		return data, err
	}

	var recent []model.Application
	if err := application.CandidateQuery(db, user.ID).
		Order("created_at DESC").
		Limit(RecentLimit).
		Find(&recent).Error; err != nil {
		return data, err
	}
	data.Recent = application.ToCandidateApplications(recent, &user)
	return data, nil
}

// LoadCompanyDashboard collects dashboard data of a company
func LoadCompanyDashboard(db *gorm.DB, user model.User) (CompanyDashboard, error) {
	data := CompanyDashboard{}

	if err := db.Preload("User").Where("user_id = ?", user.ID).First(&data.Company).Error; err != nil {
		return data, err
	}

	stats, err := company.LoadStatistics(db, user.ID)
	if err != nil {
		return data, err
	}
	data.Statistics = stats

	var recent []model.Application
	if err := application.CompanyQuery(db, user.ID).
		Order("created_at DESC").
		Limit(RecentLimit).
		Find(&recent).Error; err != nil {
		return data, err
	}
	data.Recent = model.ToViews(recent)
	return data, nil
}
