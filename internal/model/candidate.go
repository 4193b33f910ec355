package model

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// EditableCandidateInfo is the part of candidate profile that can be edited
type EditableCandidateInfo struct {
	Headline          string         `gorm:"type:text" json:"titulo"`
	Summary           string         `gorm:"type:text" json:"resumo"`
	Skills            pq.StringArray `gorm:"type:text[]" json:"habilidades"`
	Experience        string         `gorm:"type:text" json:"experiencia"`
	Education         string         `gorm:"type:text" json:"formacao"`
	LinkedIn          string         `gorm:"type:text" json:"linkedin"`
	Portfolio         string         `gorm:"type:text" json:"portfolio"`
	ResumeURL         string         `gorm:"type:text" json:"curriculo_url"`
	SalaryExpectation string         `gorm:"type:text" json:"pretensao_salarial"`
}

// Candidate is role specific record of candidato user
type Candidate struct {
	UserID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	User   User      `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE" json:"user"`
	EditableCandidateInfo
}

// TableName overrides gorm default table name
func (Candidate) TableName() string {
	return "candidatos"
}

// FillGoogleInfo fill user information from google userinfo
func (c *Candidate) FillGoogleInfo(info GoogleUserInfo) {
	c.User = newGoogleUser(info, RoleCandidate)
}

// GetID return user id of candidate
func (c *Candidate) GetID() uuid.UUID {
	return c.UserID
}

// GetRole return role of this record
func (c *Candidate) GetRole() string {
	return RoleCandidate
}

// GetLoginResponse wrap candidate with access token
func (c *Candidate) GetLoginResponse(accessToken string) interface{} {
	return CandidateResponse{
		User:        *c,
		AccessToken: accessToken,
	}
}

// Completeness is the percentage of filled profile fields, shown as the
// progress ring of the candidate dashboard.
func (c *Candidate) Completeness() int {
	fields := []bool{
		c.User.Name != "",
		c.User.Phone != "",
		c.User.City != "",
		c.Headline != "",
		c.Summary != "",
		len(c.Skills) > 0,
		c.Experience != "",
		c.Education != "",
		c.LinkedIn != "" || c.Portfolio != "",
		c.ResumeURL != "",
	}
	filled := 0
	for _, f := range fields {
		if f {
			filled++
		}
	}
	return filled * 100 / len(fields)
}

// CandidateProfileResponse is candidate profile with completeness percentage
type CandidateProfileResponse struct {
	Candidate
	Completeness int `json:"completude"`
}

// ToProfileResponse attach completeness to candidate profile
func (c *Candidate) ToProfileResponse() CandidateProfileResponse {
	return CandidateProfileResponse{
		Candidate:    *c,
		Completeness: c.Completeness(),
	}
}
