// Package jobpost provides HTTP handlers for job post (vaga) operations.
package jobpost

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"empregol-backend/internal/database"
	"empregol-backend/internal/model"
	"empregol-backend/internal/utilities"
)

// JobPostController handles job post related endpoints
type JobPostController struct {
	DB *database.DBinstanceStruct
}

// NewJobPostController creates a new instance of JobPostController
func NewJobPostController(db *database.DBinstanceStruct) *JobPostController {
	return &JobPostController{
		DB: db,
	}
}

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ParseID parses the numeric id of a job post from a path parameter
func ParseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid job post id: %s", raw)
	}
	return uint(id), nil
}

// CreateJobPostHandler handles the creation of a new job post by a company user.
// @Summary Create job post based on given json structure
// @Description Only company users have access to this endpoint. New posts start as ativa.
// @Tags Jobpost
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param Jobpost body model.EditableJobPostInfo true "Input jobpost information"
// @Success 201 {object} model.JobPostResponse "Successfully create job post"
// @Failure 400 {object} utilities.ErrorResponse "Invalid job post struct"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not logged in as company"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /empresa/vagas [post]
func (jc *JobPostController) CreateJobPostHandler(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	// construct job post from request
	jobPost := model.JobPost{}
	decoder := json.NewDecoder(c.Request.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&jobPost.EditableJobPostInfo); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid request body: %s", err.Error()),
		})
		return
	}
	if err := jobPost.Validate(false); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	jobPost.CompanyID = user.ID
	jobPost.Status = model.JobStatusActive
	if err := jc.DB.WithContext(c.Request.Context()).Omit(clause.Associations).Create(&jobPost).Error; err != nil {
		if database.IsForeignKeyViolation(err) {
			c.JSON(http.StatusForbidden, utilities.ErrorResponse{Error: "Only company users can create job posts"})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprint("Failed to create job post: ", err),
		})
		return
	}

	c.JSON(http.StatusCreated, jobPost.ToJobPostResponse(&user))
}

// GetOwnPosts list every job post of the logged in company with its application count.
// @Summary List own job posts
// @Tags Jobpost
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param status query string false "Only posts with this status (ativa, pausada, fechada)"
// @Success 200 {array} model.JobPostResponse "Company job posts, newest first"
// @Failure 400 {object} utilities.ErrorResponse "Invalid status"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not logged in as company"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /empresa/vagas [get]
func (jc *JobPostController) GetOwnPosts(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	db := jc.DB.WithContext(c.Request.Context())
	query := db.Preload("Company.User").Where("company_id = ?", user.ID)
	if rawStatus := c.Query("status"); rawStatus != "" {
		if !model.IsJobStatus(rawStatus) {
			c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "Invalid job post status: " + rawStatus})
			return
		}
		query = query.Where("status = ?", rawStatus)
	}

	var rawPosts []model.JobPost
	if err := query.Order("created_at DESC").Find(&rawPosts).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprint("Failed to fetch job post: ", err.Error()),
		})
		return
	}

	counts, err := ApplicationCounts(db, postIDs(rawPosts))
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprint("Failed to count applications: ", err.Error()),
		})
		return
	}

	posts := make([]model.JobPostResponse, 0, len(rawPosts))
	for i := range rawPosts {
		resp := rawPosts[i].ToJobPostResponse(&user)
		count := counts[rawPosts[i].ID]
		resp.ApplicationCount = &count
		posts = append(posts, resp)
	}

	c.JSON(http.StatusOK, posts)
}

// GetPosts fetches active job posts that match query from the database
// and returns them as a JSON response.
// @Summary Search active job posts
// @Description Every query are not required, but they have specific use defined in their description
// @Tags Jobpost
// @Produce json
// @Param search query string false "Search from job post title with substring matching and case insensitive"
// @Param tipo_contrato query string false "Contract type, must exactly match"
// @Param modelo_trabalho query string false "Work model, must exactly match"
// @Param nivel query string false "Seniority level, must exactly match"
// @Param localizacao query string false "Search from location with substring matching and case insensitive"
// @Param tag query string false "Search if tags field contain tag param, no substring matching and case insensitive"
// @Param desc query boolean false "Sorting by post time in descending if true, otherwise ascending"
// @Success 200 {array} model.JobPostResponse "Return active job post(s)"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /vagas [get]
func (jc *JobPostController) GetPosts(c *gin.Context) {
	viewer := utilities.OptionalUser(c)

	rawSearch := c.Query("search")
	rawContract := c.Query("tipo_contrato")
	rawWorkModel := c.Query("modelo_trabalho")
	rawLevel := c.Query("nivel")
	rawLocation := c.Query("localizacao")
	rawTag := c.Query("tag")
	rawDesc := c.Query("desc")

	db := jc.DB.WithContext(c.Request.Context())
	result := db.Preload("Company.User").
		Where("status = ?", model.JobStatusActive)

	if rawSearch != "" {
		result = result.Where("title ILIKE ?", "%"+rawSearch+"%")
	}

	if rawContract != "" {
		result = result.Where("contract_type = ?", rawContract)
	}

	if rawWorkModel != "" {
		result = result.Where("work_model = ?", rawWorkModel)
	}

	if rawLevel != "" {
		result = result.Where("level = ?", rawLevel)
	}

	if rawLocation != "" {
		result = result.Where("location ILIKE ?", "%"+rawLocation+"%")
	}

	if rawTag != "" {
		result = result.Where("? ILIKE ANY(tags)", rawTag)
	}

	var rawPosts []model.JobPost
	result = result.Order(clause.OrderByColumn{
		Column: clause.Column{Name: "created_at"},
		Desc:   strings.ToLower(rawDesc) == "true",
	}).Find(&rawPosts)

	if err := result.Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprint("Failed to fetch job post: ", err.Error()),
		})
		return
	}

	posts := make([]model.JobPostResponse, 0, len(rawPosts))
	for i := range rawPosts {
		posts = append(posts, rawPosts[i].ToJobPostResponse(viewer))
	}

	if err := MarkCandidateState(db, viewer, posts); err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprint("Failed to process job post: ", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, posts)
}

// GetPostByID fetches a job post by its ID from the database
// and returns it as a JSON response.
// @Summary Get job post by ID
// @Description Posts that are not ativa are only visible to the company that owns them
// @Tags Jobpost
// @Produce json
// @Param id path integer true "ID of desired job post"
// @Success 200 {object} model.JobPostResponse "Return the job post with the specified ID"
// @Failure 400 {object} utilities.ErrorResponse "Invalid job post id"
// @Failure 404 {object} utilities.ErrorResponse "Job post not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /vagas/{id} [get]
func (jc *JobPostController) GetPostByID(c *gin.Context) {
	id, err := ParseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	viewer := utilities.OptionalUser(c)
	db := jc.DB.WithContext(c.Request.Context())

	job := model.JobPost{}
	if err := db.Preload("Company.User").
		Where("id = ?", id).
		First(&job).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Job post not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve job post: %s", err.Error()),
		})
		return
	}

	isOwner := viewer != nil && viewer.ID == job.CompanyID
	if !job.IsActive() && !isOwner {
		c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Job post not found"})
		return
	}

	resp := []model.JobPostResponse{job.ToJobPostResponse(viewer)}
	if isOwner {
		counts, err := ApplicationCounts(db, []uint{job.ID})
		if err != nil {
			c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
				Error: fmt.Sprint("Failed to count applications: ", err.Error()),
			})
			return
		}
		count := counts[job.ID]
		resp[0].ApplicationCount = &count
	}
	if err := MarkCandidateState(db, viewer, resp); err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprint("Failed to process job post: ", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, resp[0])
}

// EditJobPost allows a company user to update a job post they own.
// Only non-empty fields of the body overwrite the stored post.
// @Summary Edit job post based on given json structure
// @Description Only company that own the post have access to this endpoint
// @Tags Jobpost
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of desired job post"
// @Param Jobpost body model.EditableJobPostInfo true "Input jobpost information"
// @Success 200 {object} model.JobPostResponse "Successfully update job post"
// @Failure 400 {object} utilities.ErrorResponse "Invalid job post struct"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Do not have permission to edit"
// @Failure 404 {object} utilities.ErrorResponse "Post not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /empresa/vagas/{id} [patch]
func (jc *JobPostController) EditJobPost(c *gin.Context) {
	user, job, ok := jc.ownedPost(c)
	if !ok {
		return
	}

	edited := model.EditableJobPostInfo{}
	decoder := json.NewDecoder(c.Request.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&edited); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to parse request body: %s", err.Error()),
		})
		return
	}
	if err := edited.Validate(true); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	utilities.MergeNonEmpty(&job.EditableJobPostInfo, &edited)
	if err := job.Validate(false); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	if err := jc.DB.WithContext(c.Request.Context()).Omit(clause.Associations).Save(&job).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to update job post: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, job.ToJobPostResponse(&user))
}

// UpdateJobPostStatus pause, resume or close a job post.
// @Summary Change job post status
// @Description Closing is terminal from the candidate point of view, the post is hidden from search
// @Tags Jobpost
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of desired job post"
// @Param status body statusRequest true "New status: ativa, pausada or fechada"
// @Success 200 {object} model.JobPostResponse "Successfully update job post status"
// @Failure 400 {object} utilities.ErrorResponse "Invalid status"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Do not have permission to edit"
// @Failure 404 {object} utilities.ErrorResponse "Post not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /empresa/vagas/{id}/status [patch]
func (jc *JobPostController) UpdateJobPostStatus(c *gin.Context) {
	req := statusRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid request body: %s", err.Error()),
		})
		return
	}
	newStatus := strings.ToLower(strings.TrimSpace(req.Status))
	if !model.IsJobStatus(newStatus) {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "Invalid job post status: " + req.Status})
		return
	}

	user, job, ok := jc.ownedPost(c)
	if !ok {
		return
	}

	if err := jc.DB.WithContext(c.Request.Context()).Model(&job).Update("status", newStatus).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to update job post: %s", err.Error()),
		})
		return
	}
	job.Status = newStatus

	c.JSON(http.StatusOK, job.ToJobPostResponse(&user))
}

// ownedPost loads the job post of the path and checks that the session
// company owns it. The error response is already written when ok is false.
func (jc *JobPostController) ownedPost(c *gin.Context) (user model.User, job model.JobPost, ok bool) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return user, job, false
	}

	id, err := ParseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: err.Error()})
		return user, job, false
	}

	if err := jc.DB.WithContext(c.Request.Context()).Where("id = ?", id).First(&job).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Job post not found"})
			return user, job, false
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve job post: %s", err.Error()),
		})
		return user, job, false
	}

	if job.CompanyID != user.ID {
		c.JSON(http.StatusForbidden, utilities.ErrorResponse{
			Error: "You are not allowed to edit this job post",
		})
		return user, job, false
	}
	return user, job, true
}

// ApplicationCounts returns the number of applications of every given job post
func ApplicationCounts(db *gorm.DB, ids []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(ids))
	if len(ids) == 0 {
		return counts, nil
	}

	var rows []struct {
		JobPostID uint
		Total     int64
	}
	if err := db.Model(&model.Application{}).
		Select("job_post_id, count(*) AS total").
		Where("job_post_id IN ?", ids).
		Group("job_post_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, r := range rows {
		counts[r.JobPostID] = r.Total
	}
	return counts, nil
}

// MarkCandidateState sets the applied and saved flags of each post for a
// candidate viewer. Posts are left untouched for anyone else.
func MarkCandidateState(db *gorm.DB, viewer *model.User, posts []model.JobPostResponse) error {
	if viewer == nil || viewer.Role != model.RoleCandidate || len(posts) == 0 {
		return nil
	}

	ids := make([]uint, 0, len(posts))
	for i := range posts {
		ids = append(ids, posts[i].ID)
	}

	applied, err := memberIDs(db, &model.Application{}, viewer.ID, ids)
	if err != nil {
		return err
	}
	saved, err := memberIDs(db, &model.SavedJob{}, viewer.ID, ids)
	if err != nil {
		return err
	}

	for i := range posts {
		posts[i].UserApplied = applied[posts[i].ID]
		posts[i].UserSaved = saved[posts[i].ID]
	}
	return nil
}

func memberIDs(db *gorm.DB, table interface{}, candidateID uuid.UUID, ids []uint) (map[uint]bool, error) {
	var found []uint
	if err := db.Model(table).
		Where("candidate_id = ? AND job_post_id IN ?", candidateID, ids).
		Pluck("job_post_id", &found).Error; err != nil {
		return nil, err
	}
	set := make(map[uint]bool, len(found))
	for _, id := range found {
		set[id] = true
	}
	return set, nil
}

func postIDs(posts []model.JobPost) []uint {
	ids := make([]uint, 0, len(posts))
	for i := range posts {
		ids = append(ids, posts[i].ID)
	}
	return ids
}
