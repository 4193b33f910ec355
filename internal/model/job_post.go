package model

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Job post (vaga) status
const (
	JobStatusActive = "ativa"
	JobStatusPaused = "pausada"
	JobStatusClosed = "fechada"
)

var (
	// JobStatuses are allowed job post status
	JobStatuses = []string{JobStatusActive, JobStatusPaused, JobStatusClosed}
	// ContractTypes are allowed tipo_contrato values
	ContractTypes = []string{"clt", "pj", "estagio", "temporario", "freelancer"}
	// WorkModels are allowed modelo_trabalho values
	WorkModels = []string{"presencial", "remoto", "hibrido"}
	// Levels are allowed nivel values
	Levels = []string{"estagio", "junior", "pleno", "senior", "especialista"}
)

// EditableJobPostInfo is part of job post that can be edited
type EditableJobPostInfo struct {
	Title        string         `gorm:"type:text" json:"titulo"`
	Description  string         `gorm:"type:text" json:"descricao"`
	Requirements TextList       `gorm:"type:text[]" json:"requisitos"`
	Benefits     TextList       `gorm:"type:text[]" json:"beneficios"`
	ContractType string         `gorm:"type:text" json:"tipo_contrato"`
	WorkModel    string         `gorm:"type:text" json:"modelo_trabalho"`
	Level        string         `gorm:"type:text" json:"nivel"`
	Location     string         `gorm:"type:text" json:"localizacao"`
	SalaryMin    *float64       `json:"salario_min,omitempty"`
	SalaryMax    *float64       `json:"salario_max,omitempty"`
	ShowSalary   *bool          `gorm:"default:true" json:"mostrar_salario,omitempty"`
	Tags         pq.StringArray `gorm:"type:text[]" json:"tags"`
}

// Validate checks enumerated fields. When partial is false the fields
// required to publish a job post must be present as well.
func (e *EditableJobPostInfo) Validate(partial bool) error {
	if !partial {
		if e.Title == "" || e.Description == "" {
			return errors.New("titulo and descricao are required")
		}
		if e.ContractType == "" || e.WorkModel == "" || e.Level == "" {
			return errors.New("tipo_contrato, modelo_trabalho and nivel are required")
		}
	}
	if e.ContractType != "" && !slices.Contains(ContractTypes, e.ContractType) {
		return fmt.Errorf("invalid tipo_contrato: %s", e.ContractType)
	}
	if e.WorkModel != "" && !slices.Contains(WorkModels, e.WorkModel) {
		return fmt.Errorf("invalid modelo_trabalho: %s", e.WorkModel)
	}
	if e.Level != "" && !slices.Contains(Levels, e.Level) {
		return fmt.Errorf("invalid nivel: %s", e.Level)
	}
	if e.SalaryMin != nil && e.SalaryMax != nil && *e.SalaryMin > *e.SalaryMax {
		return errors.New("salario_min must not be greater than salario_max")
	}
	return nil
}

// JobPost is gorm model for store job post (vaga) data in DB
type JobPost struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CompanyID uuid.UUID `gorm:"type:uuid;not null;index;<-:create" json:"empresa_id"`
	Company   *Company  `gorm:"foreignKey:CompanyID;references:UserID;constraint:OnDelete:CASCADE" json:"empresa,omitempty"`
	EditableJobPostInfo
	Status       string        `gorm:"type:text;not null;default:'ativa';check:status IN ('ativa','pausada','fechada')" json:"status"`
	CreatedAt    time.Time     `gorm:"<-:create" json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
	Applications []Application `gorm:"foreignKey:JobPostID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName overrides gorm default table name
func (JobPost) TableName() string {
	return "vagas"
}

// IsJobStatus reports whether s is a known job post status
func IsJobStatus(s string) bool {
	return slices.Contains(JobStatuses, s)
}

// IsActive reports whether candidates can apply to this job post
func (j *JobPost) IsActive() bool {
	return j.Status == JobStatusActive
}

// SalaryVisible reports whether salary can be shown publicly
func (j *JobPost) SalaryVisible() bool {
	return j.ShowSalary == nil || *j.ShowSalary
}

// JobPostResponse is job post with information relative to requesting user
type JobPostResponse struct {
	JobPost
	CompanyName      string `json:"empresa_nome"`
	ApplicationCount *int64 `json:"total_candidaturas,omitempty"`
	UserApplied      bool   `json:"candidatou"`
	UserSaved        bool   `json:"salva"`
}

// ToJobPostResponse hides salary from anyone except owner when the company
// chose not to show it
func (j *JobPost) ToJobPostResponse(viewer *User) JobPostResponse {
	resp := JobPostResponse{JobPost: *j}
	if j.Company != nil {
		resp.CompanyName = j.Company.DisplayName()
	}

	isOwner := viewer != nil && viewer.ID == j.CompanyID
	if !isOwner && !j.SalaryVisible() {
		resp.SalaryMin = nil
		resp.SalaryMax = nil
	}
	return resp
}
