// Package savedjob provides HTTP handlers for saved job posts (vagas salvas).
package savedjob

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"empregol-backend/internal/controller/jobpost"
	"empregol-backend/internal/database"
	"empregol-backend/internal/metrics"
	"empregol-backend/internal/model"
	"empregol-backend/internal/utilities"
)

// SavedJobController handles saved job related endpoints
type SavedJobController struct {
	DB      *database.DBinstanceStruct
	Metrics *metrics.Metrics
}

// NewSavedJobController creates a new instance of SavedJobController
func NewSavedJobController(db *database.DBinstanceStruct, m *metrics.Metrics) *SavedJobController {
	return &SavedJobController{
		DB:      db,
		Metrics: m,
	}
}

// ToggleResponse is the membership after a toggle
type ToggleResponse struct {
	Saved bool `json:"saved"`
}

// Toggle saves a job post for the logged in candidate, or removes it when it
// is already saved.
// @Summary Save or unsave a job post
// @Description Calling it twice restores the original state
// @Tags SavedJob
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param vaga_id path integer true "ID of job post"
// @Success 200 {object} ToggleResponse "Whether the job post is saved now"
// @Failure 400 {object} utilities.ErrorResponse "Invalid job post id"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not logged in as candidate"
// @Failure 404 {object} utilities.ErrorResponse "Job post not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /candidato/vagas-salvas/{vaga_id} [post]
func (sc *SavedJobController) Toggle(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	jobID, err := jobpost.ParseID(c.Param("vaga_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	db := sc.DB.WithContext(c.Request.Context())

	var exists int64
	if err := db.Model(&model.JobPost{}).Where("id = ?", jobID).Count(&exists).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve job post: %s", err.Error()),
		})
		return
	}
	if exists == 0 {
		c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Job post not found"})
		return
	}

	var saved bool
	err = db.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("candidate_id = ? AND job_post_id = ?", user.ID, jobID).Delete(&model.SavedJob{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			saved = false
			return nil
		}

		saved = true
		return tx.Clauses(clause.OnConflict{DoNothing: true}).
			Omit(clause.Associations).
			Create(&model.SavedJob{CandidateID: user.ID, JobPostID: jobID}).Error
	})
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
				Error: fmt.Sprintf("Invalid job post or candidate profile: %s", err.Error()),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to toggle saved job: %s", err.Error()),
		})
		return
	}
	sc.Metrics.SavedJobToggled(saved)

	c.JSON(http.StatusOK, ToggleResponse{Saved: saved})
}

// List retrieve job posts saved by the logged in candidate, most recently saved first.
// @Summary List saved job posts
// @Tags SavedJob
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Success 200 {array} model.JobPostResponse "Saved job posts"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not logged in as candidate"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /candidato/vagas-salvas [get]
func (sc *SavedJobController) List(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	db := sc.DB.WithContext(c.Request.Context())

	var saved []model.SavedJob
	if err := db.Preload("JobPost.Company.User").
		Where("candidate_id = ?", user.ID).
		Order("created_at DESC").
		Find(&saved).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve saved jobs: %s", err.Error()),
		})
		return
	}

	posts := make([]model.JobPostResponse, 0, len(saved))
	for i := range saved {
		if saved[i].JobPost == nil {
			continue
		}
		posts = append(posts, saved[i].JobPost.ToJobPostResponse(&user))
	}
	if err := jobpost.MarkCandidateState(db, &user, posts); err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to process saved jobs: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, posts)
}
