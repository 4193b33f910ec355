package auth

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"empregol-backend/internal/database"
	"empregol-backend/internal/model"
	"empregol-backend/internal/utilities"
)

// MeController answers who the current session belongs to
type MeController struct {
	DB *database.DBinstanceStruct
}

// NewMeController creates a new instance of MeController
func NewMeController(db *database.DBinstanceStruct) *MeController {
	return &MeController{DB: db}
}

// Me returns the session user with its role record and dashboard path
// @Summary Current session user
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.MeResponse
// @Failure 401 {object} utilities.ErrorResponse "Not logged in"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /auth/me [get]
func (mc *MeController) Me(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	resp := model.MeResponse{User: user, Home: user.HomePath()}

	record, err := LoadRoleRecord(mc.DB.WithContext(c.Request.Context()), user)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		// profile row missing, answer with the shared identity only
	case err != nil:
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve user data: %s", err.Error()),
		})
		return
	default:
		switch r := record.(type) {
		case *model.Candidate:
			resp.Candidate = r
		case *model.Company:
			resp.Company = r
		}
	}

	c.JSON(http.StatusOK, resp)
}
