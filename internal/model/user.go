// Package model contain gorm model for recording data to database
package model

import (
	"time"

	"github.com/google/uuid"
)

// Roles a user can register with
const (
	RoleCandidate = "candidato"
	RoleCompany   = "empresa"
)

// EditableUserInfo is the part of the shared profile a user can overwrite
type EditableUserInfo struct {
	Name      string `gorm:"type:text" json:"nome"`
	Phone     string `gorm:"type:text" json:"telefone"`
	City      string `gorm:"type:text" json:"cidade"`
	AvatarURL string `gorm:"type:text" json:"avatar_url"`
}

// User is the shared identity (perfil) of every account, keyed by user id.
// Role specific attributes live in Candidate or Company under the same id.
type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	Email    string    `gorm:"type:text;uniqueIndex;not null" json:"email"`
	Password string    `gorm:"type:text" json:"-"`
	GoogleID *string   `gorm:"type:text;uniqueIndex" json:"-"`
	Role     string    `gorm:"type:text;not null;check:role IN ('candidato','empresa')" json:"role"`
	EditableUserInfo
	CreatedAt time.Time `gorm:"<-:create" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HomePath is the dashboard a user of this role lands on.
func (u User) HomePath() string {
	if u.Role == RoleCompany {
		return "/empresa/dashboard"
	}
	return "/dashboard"
}

// GoogleUserInfo is the subset of the userinfo payload used to register a user
type GoogleUserInfo struct {
	GID            string `json:"sub"`
	Email          string `json:"email"`
	FirstName      string `json:"given_name"`
	LastName       string `json:"family_name"`
	ProfilePicture string `json:"picture"`
}

// FullName joins first and last name
func (g GoogleUserInfo) FullName() string {
	if g.LastName == "" {
		return g.FirstName
	}
	if g.FirstName == "" {
		return g.LastName
	}
	return g.FirstName + " " + g.LastName
}

// UserModel is implemented by role records that can be created from an OAuth login
type UserModel interface {
	FillGoogleInfo(info GoogleUserInfo)
	GetID() uuid.UUID
	GetRole() string
	GetLoginResponse(accessToken string) interface{}
}

func newGoogleUser(info GoogleUserInfo, role string) User {
	gid := info.GID
	return User{
		Email:    info.Email,
		GoogleID: &gid,
		Role:     role,
		EditableUserInfo: EditableUserInfo{
			Name:      info.FullName(),
			AvatarURL: info.ProfilePicture,
		},
	}
}
