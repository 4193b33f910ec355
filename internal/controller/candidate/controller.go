// Package candidate provides HTTP handlers for candidate profile operations.
package candidate

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"empregol-backend/internal/database"
	"empregol-backend/internal/model"
	"empregol-backend/internal/utilities"
)

// CandidateController handles candidate related endpoints
type CandidateController struct {
	DB *database.DBinstanceStruct
}

// NewCandidateController creates a new instance of CandidateController
func NewCandidateController(db *database.DBinstanceStruct) *CandidateController {
	return &CandidateController{
		DB: db,
	}
}

type editCandidate struct {
	model.EditableCandidateInfo
	model.EditableUserInfo
}

// LoadProfile retrieve candidate record of user with the shared profile preloaded
func LoadProfile(db *gorm.DB, user model.User) (model.Candidate, error) {
	candidate := model.Candidate{}
	err := db.Preload("User").Where("user_id = ?", user.ID).First(&candidate).Error
	return candidate, err
}

// GetMyProfile retrieve profile of the logged in candidate.
// @Summary Retrieve candidate profile
// @Tags Candidate
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Success 200 {object} model.CandidateProfileResponse "Candidate profile with completude"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not logged in as candidate"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /candidato/perfil [get]
func (cc *CandidateController) GetMyProfile(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	candidate, err := LoadProfile(cc.DB.WithContext(c.Request.Context()), user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve user information from database: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, candidate.ToProfileResponse())
}

// EditProfile handles editing a candidate profile. Only non-empty fields of
// the body overwrite the stored profile.
// @Summary Edit candidate profile
// @Description Overwrite candidate profile and save into database
// @Description Sensitive field like id, email and role can't be overwritten
// @Tags Candidate
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param candidate_profile body editCandidate true "Candidate info to be written"
// @Success 200 {object} model.CandidateProfileResponse "Successfully overwrite"
// @Failure 400 {object} utilities.ErrorResponse "Invalid request body"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not logged in as candidate"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /candidato/perfil [patch]
func (cc *CandidateController) EditProfile(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	db := cc.DB.WithContext(c.Request.Context())

	// Retrieve original profile from DB
	candidate, err := LoadProfile(db, user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve user information from database: %s", err.Error()),
		})
		return
	}

	edited := editCandidate{}
	decoder := json.NewDecoder(c.Request.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&edited); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid request body: %s", err.Error()),
		})
		return
	}

	utilities.MergeNonEmpty(&candidate.User.EditableUserInfo, &edited.EditableUserInfo)
	utilities.MergeNonEmpty(&candidate.EditableCandidateInfo, &edited.EditableCandidateInfo)

	if err := SaveProfile(db, &candidate); err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to update user information: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, candidate.ToProfileResponse())
}

// SaveProfile writes the shared profile and the candidate record in one transaction
func SaveProfile(db *gorm.DB, candidate *model.Candidate) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&candidate.User).Error; err != nil {
			return err
		}
		return tx.Omit("User").Save(candidate).Error
	})
}
