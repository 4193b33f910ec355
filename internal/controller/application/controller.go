// Package application provides HTTP handlers for job application (candidatura) operations.
package application

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"empregol-backend/internal/controller/jobpost"
	"empregol-backend/internal/database"
	"empregol-backend/internal/metrics"
	"empregol-backend/internal/model"
	"empregol-backend/internal/status"
	"empregol-backend/internal/utilities"
)

// ApplicationController handles job application related endpoints
type ApplicationController struct {
	DB      *database.DBinstanceStruct
	Metrics *metrics.Metrics
}

// NewApplicationController creates a new instance of ApplicationController with the provided database connection.
func NewApplicationController(db *database.DBinstanceStruct, m *metrics.Metrics) *ApplicationController {
	return &ApplicationController{
		DB:      db,
		Metrics: m,
	}
}

type applyRequest struct {
	JobPostID   uint   `json:"vaga_id" binding:"required"`
	CoverLetter string `json:"carta_apresentacao"`
}

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

// CanApplyResponse tells a candidate whether a new application is accepted
type CanApplyResponse struct {
	CanApply    bool                   `json:"can_apply"`
	Application *model.ApplicationView `json:"candidatura,omitempty"`
}

// CandidateApplication is an application as seen by the candidate, with the
// job post shown the way the public sees it.
type CandidateApplication struct {
	model.ApplicationView
	JobPost *model.JobPostResponse `json:"vaga,omitempty"`
}

var errInvalidStatusFilter = errors.New("Invalid status filter")

// ParseStatusFilter reads the ?status= filter of list endpoints. Empty and
// "todas" mean no filter. The returned values include known aliases so rows
// written before normalisation still match.
func ParseStatusFilter(raw string) ([]string, error) {
	if raw == "" || raw == "todas" {
		return nil, nil
	}
	s, ok := status.Parse(raw)
	if !ok {
		return nil, fmt.Errorf("%w: %s", errInvalidStatusFilter, raw)
	}
	return append([]string{s.String()}, status.Aliases(s)...), nil
}

// Apply handles the creation of a new job application by a candidate user.
// @Summary Apply to a job post
// @Description Only candidate user can access this endpoint. A candidate can apply only once per job post.
// @Tags Application
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param application body applyRequest true "Application information"
// @Success 201 {object} model.ApplicationView "Successfully apply job post"
// @Failure 400 {object} utilities.ErrorResponse "Invalid request body, job post is not active"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not logged in as candidate"
// @Failure 404 {object} utilities.ErrorResponse "Job post not found"
// @Failure 409 {object} utilities.ErrorResponse "Already applied"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /candidato/candidaturas [post]
func (ac *ApplicationController) Apply(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	req := applyRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid request body: %s", err.Error()),
		})
		return
	}

	db := ac.DB.WithContext(c.Request.Context())

	job := model.JobPost{}
	if err := db.Where("id = ?", req.JobPostID).First(&job).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Job post not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve job post: %s", err.Error()),
		})
		return
	}
	if !job.IsActive() {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "Job post is not accepting applications"})
		return
	}

	// Prevent duplicate applications, the unique index catches concurrent ones
	existing, err := findApplication(db, user.ID, job.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: "Failed to check existing application",
		})
		return
	}
	if existing != nil {
		c.JSON(http.StatusConflict, utilities.ErrorResponse{
			Error: "You have already applied to this job post",
		})
		return
	}

	application := model.Application{
		JobPostID:   job.ID,
		CandidateID: user.ID,
		Status:      status.Submitted,
		CoverLetter: req.CoverLetter,
	}
	if err := db.Omit(clause.Associations).Create(&application).Error; err != nil {
		if database.IsUniqueViolation(err) {
			c.JSON(http.StatusConflict, utilities.ErrorResponse{
				Error: "You have already applied to this job post",
			})
			return
		}
		if database.IsForeignKeyViolation(err) {
			c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
				Error: fmt.Sprintf("Invalid vaga_id or candidate profile: %s", err.Error()),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to create application: %s", err.Error()),
		})
		return
	}
	ac.Metrics.ApplicationCreated()

	c.JSON(http.StatusCreated, application.ToView())
}

// CanApply reports whether the logged in candidate can apply to a job post.
// @Summary Check whether candidate can apply
// @Tags Application
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of job post"
// @Success 200 {object} CanApplyResponse "can_apply and the existing application, if any"
// @Failure 400 {object} utilities.ErrorResponse "Invalid job post id"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not logged in as candidate"
// @Failure 404 {object} utilities.ErrorResponse "Job post not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /vagas/{id}/candidatura [get]
func (ac *ApplicationController) CanApply(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	id, err := jobpost.ParseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	db := ac.DB.WithContext(c.Request.Context())

	job := model.JobPost{}
	if err := db.Where("id = ?", id).First(&job).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Job post not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve job post: %s", err.Error()),
		})
		return
	}

	existing, err := findApplication(db, user.ID, job.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: "Failed to check existing application",
		})
		return
	}

	resp := CanApplyResponse{CanApply: existing == nil && job.IsActive()}
	if existing != nil {
		view := existing.ToView()
		resp.Application = &view
	}
	c.JSON(http.StatusOK, resp)
}

// ListMine list applications of the logged in candidate, newest first.
// @Summary List own applications
// @Tags Application
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param status query string false "Status filter, empty or todas for every status"
// @Success 200 {array} CandidateApplication "Applications with badge and timeline"
// @Failure 400 {object} utilities.ErrorResponse "Invalid status filter"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not logged in as candidate"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /candidato/candidaturas [get]
func (ac *ApplicationController) ListMine(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	statuses, err := ParseStatusFilter(c.Query("status"))
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	query := CandidateQuery(ac.DB.WithContext(c.Request.Context()), user.ID)
	if statuses != nil {
		query = query.Where("status IN ?", statuses)
	}

	var apps []model.Application
	if err := query.Order("created_at DESC").Find(&apps).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve applications: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, ToCandidateApplications(apps, &user))
}

// GetMine retrieve a single application of the logged in candidate.
// @Summary Get own application by ID
// @Tags Application
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of application"
// @Success 200 {object} CandidateApplication "Application with badge and timeline"
// @Failure 400 {object} utilities.ErrorResponse "Invalid application id"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not logged in as candidate"
// @Failure 404 {object} utilities.ErrorResponse "Application not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /candidato/candidaturas/{id} [get]
func (ac *ApplicationController) GetMine(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	id, err := parseApplicationID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	app := model.Application{}
	if err := CandidateQuery(ac.DB.WithContext(c.Request.Context()), user.ID).
		Where("id = ?", id).
		First(&app).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Application not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve application: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, ToCandidateApplications([]model.Application{app}, &user)[0])
}

// ListForCompany list applications received by job posts of the logged in company.
// @Summary List received applications
// @Tags Application
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param status query string false "Status filter, empty or todas for every status"
// @Param vaga_id query integer false "Only applications of this job post"
// @Success 200 {array} model.ApplicationView "Applications with candidate and badge"
// @Failure 400 {object} utilities.ErrorResponse "Invalid filter"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not logged in as company"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /empresa/candidaturas [get]
func (ac *ApplicationController) ListForCompany(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	statuses, err := ParseStatusFilter(c.Query("status"))
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	query := CompanyQuery(ac.DB.WithContext(c.Request.Context()), user.ID)
	if statuses != nil {
		query = query.Where("status IN ?", statuses)
	}
	if rawJob := c.Query("vaga_id"); rawJob != "" {
		jobID, err := jobpost.ParseID(rawJob)
		if err != nil {
			c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: err.Error()})
			return
		}
		query = query.Where("job_post_id = ?", jobID)
	}

	var apps []model.Application
	if err := query.Order("created_at DESC").Find(&apps).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve applications: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, model.ToViews(apps))
}

// UpdateStatus set status of an application received by the logged in company.
// Any status of the vocabulary can follow any other.
// @Summary Update application status
// @Tags Application
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of application"
// @Param status body statusRequest true "New status"
// @Success 200 {object} model.ApplicationView "Updated application"
// @Failure 400 {object} utilities.ErrorResponse "Invalid status"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Application of another company"
// @Failure 404 {object} utilities.ErrorResponse "Application not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /empresa/candidaturas/{id}/status [patch]
func (ac *ApplicationController) UpdateStatus(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	id, err := parseApplicationID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	req := statusRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid request body: %s", err.Error()),
		})
		return
	}
	newStatus, ok := status.Parse(req.Status)
	if !ok {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "Invalid status: " + req.Status})
		return
	}

	db := ac.DB.WithContext(c.Request.Context())

	app := model.Application{}
	if err := db.Preload("JobPost").Where("id = ?", id).First(&app).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Application not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve application: %s", err.Error()),
		})
		return
	}

	if app.JobPost == nil || app.JobPost.CompanyID != user.ID {
		c.JSON(http.StatusForbidden, utilities.ErrorResponse{
			Error: "You are not allowed to update this application",
		})
		return
	}

	if err := db.Model(&app).Omit(clause.Associations).Update("status", newStatus).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to update application: %s", err.Error()),
		})
		return
	}
	app.Status = newStatus
	ac.Metrics.StatusChanged(newStatus)

	c.JSON(http.StatusOK, app.ToView())
}

// StatusVocabulary list every application status with its badge, in display order.
// @Summary Application status vocabulary
// @Tags Application
// @Produce json
// @Success 200 {array} status.BadgeInfo "Ordered status vocabulary"
// @Router /status [get]
func (ac *ApplicationController) StatusVocabulary(c *gin.Context) {
	c.JSON(http.StatusOK, status.Vocabulary())
}

// CandidateQuery selects applications of a candidate with job post and company preloaded
func CandidateQuery(db *gorm.DB, candidateID uuid.UUID) *gorm.DB {
	return db.Model(&model.Application{}).
		Preload("JobPost.Company.User").
		Where("candidate_id = ?", candidateID)
}

// CompanyQuery selects applications received by job posts of a company
func CompanyQuery(db *gorm.DB, companyID uuid.UUID) *gorm.DB {
	owned := db.Session(&gorm.Session{NewDB: true}).
		Model(&model.JobPost{}).
		Select("id").
		Where("company_id = ?", companyID)
	return db.Model(&model.Application{}).
		Preload("Candidate.User").
		Preload("JobPost").
		Where("job_post_id IN (?)", owned)
}

// CountByStatus groups the applications selected by query by status. Every
// status of the vocabulary is present in the result. Unknown stored values
// are counted under the status their badge resolves to.
func CountByStatus(query *gorm.DB) (map[status.Status]int64, int64, error) {
	var rows []struct {
		Status string
		Total  int64
	}
	if err := query.Select("status, count(*) AS total").Group("status").Scan(&rows).Error; err != nil {
		return nil, 0, err
	}

	counts := make(map[status.Status]int64, len(status.All))
	for _, s := range status.All {
		counts[s] = 0
	}
	var total int64
	for _, r := range rows {
		counts[status.Badge(status.Status(r.Status)).Status] += r.Total
		total += r.Total
	}
	return counts, total, nil
}

// ToCandidateApplications attach badge, timeline and the public view of the job post
func ToCandidateApplications(apps []model.Application, viewer *model.User) []CandidateApplication {
	out := make([]CandidateApplication, 0, len(apps))
	for i := range apps {
		item := CandidateApplication{ApplicationView: apps[i].ToView()}
		if apps[i].JobPost != nil {
			post := apps[i].JobPost.ToJobPostResponse(viewer)
			post.UserApplied = true
			item.JobPost = &post
		}
		out = append(out, item)
	}
	return out
}

func findApplication(db *gorm.DB, candidateID uuid.UUID, jobPostID uint) (*model.Application, error) {
	app := model.Application{}
	err := db.Where("candidate_id = ? AND job_post_id = ?", candidateID, jobPostID).First(&app).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &app, nil
}

func parseApplicationID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid application id: %s", raw)
	}
	return uint(id), nil
}
