// Package company provides HTTP handlers for company profile and statistics.
package company

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"empregol-backend/internal/controller/application"
	"empregol-backend/internal/controller/jobpost"
	"empregol-backend/internal/database"
	"empregol-backend/internal/model"
	"empregol-backend/internal/status"
	"empregol-backend/internal/utilities"
)

// CompanyController handles company related endpoints
type CompanyController struct {
	DB *database.DBinstanceStruct
}

// NewCompanyController creates a new instance of CompanyController
func NewCompanyController(db *database.DBinstanceStruct) *CompanyController {
	return &CompanyController{
		DB: db,
	}
}

type editCompanyUser struct {
	model.EditableCompanyInfo
	model.EditableUserInfo
}

// PublicProfile is a company profile with its active job posts
type PublicProfile struct {
	model.Company
	JobPosts []model.JobPostResponse `json:"vagas"`
}

// Statistics are the real counts shown on the company dashboard
type Statistics struct {
	ActivePosts       int64                   `json:"vagas_ativas"`
	PausedPosts       int64                   `json:"vagas_pausadas"`
	ClosedPosts       int64                   `json:"vagas_fechadas"`
	TotalApplications int64                   `json:"total_candidaturas"`
	ByStatus          map[status.Status]int64 `json:"por_status"`
}

// GetCompanyProfile function retrieve company profile from database
// and response as JSON format.
// @Summary Retrieve company profile from database
// @Tags Company
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Success 200 {object} model.Company "Successfully retrieve company profile"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not logged in as company"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /empresa/perfil [get]
func (cc *CompanyController) GetCompanyProfile(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	company := model.Company{}

	// Retrieve company profile from database.
	if err := cc.DB.WithContext(c.Request.Context()).
		Preload("User").
		Where("user_id = ?", user.ID).
		First(&company).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve user information from database: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, company)
}

// EditCompanyProfile function overwrite company profile, save into database
// ,and response edited profile as JSON format.
// @Summary Edit company profile
// @Description Overwrite company profile and save into database
// @Description Sensitive field like id, email, role and job posts can't be overwritten
// @Tags Company
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param company_profile body editCompanyUser true "Company info to be written"
// @Success 200 {object} model.Company "Successfully overwrite"
// @Failure 400 {object} utilities.ErrorResponse "Invalid request body"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not logged in as company"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /empresa/perfil [patch]
func (cc *CompanyController) EditCompanyProfile(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	db := cc.DB.WithContext(c.Request.Context())
	company := model.Company{}

	// Retrieve company profile from database
	if err := db.Preload("User").
		Where("user_id = ?", user.ID).
		First(&company).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Fail to retrieve user information from database: %s", err.Error()),
		})
		return
	}

	edited := editCompanyUser{}
	decoder := json.NewDecoder(c.Request.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&edited); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid request body: %s", err.Error()),
		})
		return
	}

	utilities.MergeNonEmpty(&company.EditableCompanyInfo, &edited.EditableCompanyInfo)
	utilities.MergeNonEmpty(&company.User.EditableUserInfo, &edited.EditableUserInfo)

	// Save updated profile to database
	if err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&company.User).Error; err != nil {
			return err
		}
		return tx.Omit("User", "JobPosts").Save(&company).Error
	}); err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to update user information: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, company)
}

// GetCompanyByID retrieves a company by its user ID with its active job posts.
// @Summary Retrieve public company profile by given ID
// @Tags Company
// @Produce json
// @Param company_id path string true "ID of company"
// @Success 200 {object} PublicProfile "Successfully retrieve company profile"
// @Failure 400 {object} utilities.ErrorResponse "Invalid company id"
// @Failure 404 {object} utilities.ErrorResponse "Company not exist"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /empresas/{company_id} [get]
func (cc *CompanyController) GetCompanyByID(c *gin.Context) {
	companyID, err := uuid.Parse(c.Param("company_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "Invalid company id"})
		return
	}

	viewer := utilities.OptionalUser(c)
	db := cc.DB.WithContext(c.Request.Context())

	company := model.Company{}
	if err := db.Preload("User").
		Preload("JobPosts", func(tx *gorm.DB) *gorm.DB {
			return tx.Where("status = ?", model.JobStatusActive).Order("created_at DESC")
		}).
		Where("user_id = ?", companyID).
		First(&company).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Company not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve company information from database: %s", err.Error()),
		})
		return
	}

	posts := make([]model.JobPostResponse, 0, len(company.JobPosts))
	for i := range company.JobPosts {
		resp := company.JobPosts[i].ToJobPostResponse(viewer)
		resp.CompanyName = company.DisplayName()
		posts = append(posts, resp)
	}
	if err := jobpost.MarkCandidateState(db, viewer, posts); err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to process job post: %s", err.Error()),
		})
		return
	}
	company.JobPosts = nil

	c.JSON(http.StatusOK, PublicProfile{Company: company, JobPosts: posts})
}

// GetStatistics returns job post and application counts of the logged in company.
// @Summary Company statistics
// @Tags Company
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Success 200 {object} Statistics "Counts of job posts and applications"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not logged in as company"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /empresa/estatisticas [get]
func (cc *CompanyController) GetStatistics(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	stats, err := LoadStatistics(cc.DB.WithContext(c.Request.Context()), user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to compute statistics: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, stats)
}

// LoadStatistics counts job posts by status and applications received by a company
func LoadStatistics(db *gorm.DB, companyID uuid.UUID) (Statistics, error) {
	stats := Statistics{}

	var rows []struct {
		Status string
		Total  int64
	}
	if err := db.Model(&model.JobPost{}).
		Select("status, count(*) AS total").
		Where("company_id = ?", companyID).
		Group("status").
		Scan(&rows).Error; err != nil {
		return stats, err
	}
	for _, r := range rows {
		switch r.Status {
		case model.JobStatusActive:
			stats.ActivePosts = r.Total
		case model.JobStatusPaused:
			stats.PausedPosts = r.Total
		case model.JobStatusClosed:
			stats.ClosedPosts = r.Total
		}
	}

	byStatus, total, err := application.CountByStatus(application.CompanyQuery(db, companyID))
	if err != nil {
		return stats, err
	}
	stats.ByStatus = byStatus
	stats.TotalApplications = total
	return stats, nil
}
