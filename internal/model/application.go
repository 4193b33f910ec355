package model

import (
	"time"

	"github.com/google/uuid"

	"empregol-backend/internal/status"
)

// Application (candidatura) links one candidate to one job post. The pair is
// unique; the job post and candidate can not change after creation.
type Application struct {
	ID          uint          `gorm:"primaryKey;autoIncrement" json:"id"`
	JobPostID   uint          `gorm:"not null;uniqueIndex:idx_application_candidate_job;<-:create" json:"vaga_id"`
	JobPost     *JobPost      `gorm:"foreignKey:JobPostID;references:ID" json:"vaga,omitempty"`
	CandidateID uuid.UUID     `gorm:"type:uuid;not null;index;uniqueIndex:idx_application_candidate_job;<-:create" json:"candidato_id"`
	Candidate   *Candidate    `gorm:"foreignKey:CandidateID;references:UserID;constraint:OnDelete:CASCADE" json:"candidato,omitempty"`
	Status      status.Status `gorm:"type:text;not null;default:'enviada'" json:"status"`
	CoverLetter string        `gorm:"type:text" json:"carta_apresentacao"`
	CreatedAt   time.Time     `gorm:"<-:create" json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// TableName overrides gorm default table name
func (Application) TableName() string {
	return "candidaturas"
}

// ApplicationView is an application as shown in candidate and company dashboards
type ApplicationView struct {
	Application
	Badge    status.BadgeInfo `json:"badge"`
	Timeline status.Timeline  `json:"timeline"`
}

// ToView attach badge and timeline of current status
func (a *Application) ToView() ApplicationView {
	return ApplicationView{
		Application: *a,
		Badge:       status.Badge(a.Status),
		Timeline:    status.BuildTimeline(a.Status, a.CreatedAt, a.UpdatedAt),
	}
}

// ToViews convert every application to ApplicationView
func ToViews(apps []Application) []ApplicationView {
	views := make([]ApplicationView, 0, len(apps))
	for i := range apps {
		views = append(views, apps[i].ToView())
	}
	return views
}

// SavedJob (vaga salva) marks a job post as favorite of a candidate
type SavedJob struct {
	CandidateID uuid.UUID  `gorm:"type:uuid;primaryKey" json:"candidato_id"`
	Candidate   *Candidate `gorm:"foreignKey:CandidateID;references:UserID;constraint:OnDelete:CASCADE" json:"-"`
	JobPostID   uint       `gorm:"primaryKey;autoIncrement:false" json:"vaga_id"`
	JobPost     *JobPost   `gorm:"foreignKey:JobPostID;references:ID;constraint:OnDelete:CASCADE" json:"vaga,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// TableName overrides gorm default table name
func (SavedJob) TableName() string {
	return "vagas_salvas"
}
