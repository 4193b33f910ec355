package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	m "empregol-backend/internal/model"
	"empregol-backend/internal/utilities"
)

// SeedFixture is the content of a seed file: accounts to create and the job
// posts each company publishes.
type SeedFixture struct {
	Candidates []SeedCandidate `yaml:"candidatos"`
	Companies  []SeedCompany   `yaml:"empresas"`
}

// SeedCandidate is a candidate account of a seed file
type SeedCandidate struct {
	Email    string   `yaml:"email"`
	Password string   `yaml:"senha"`
	Name     string   `yaml:"nome"`
	City     string   `yaml:"cidade"`
	Headline string   `yaml:"titulo"`
	Skills   []string `yaml:"habilidades"`
}

// SeedCompany is a company account of a seed file
type SeedCompany struct {
	Email     string        `yaml:"email"`
	Password  string        `yaml:"senha"`
	Name      string        `yaml:"nome"`
	TradeName string        `yaml:"nome_fantasia"`
	Industry  string        `yaml:"setor"`
	City      string        `yaml:"cidade"`
	JobPosts  []SeedJobPost `yaml:"vagas"`
}

// SeedJobPost is a job post of a seed file
type SeedJobPost struct {
	Title        string   `yaml:"titulo"`
	Description  string   `yaml:"descricao"`
	Requirements []string `yaml:"requisitos"`
	Benefits     []string `yaml:"beneficios"`
	ContractType string   `yaml:"tipo_contrato"`
	WorkModel    string   `yaml:"modelo_trabalho"`
	Level        string   `yaml:"nivel"`
	Location     string   `yaml:"localizacao"`
	SalaryMin    *float64 `yaml:"salario_min"`
	SalaryMax    *float64 `yaml:"salario_max"`
	Tags         []string `yaml:"tags"`
	Status       string   `yaml:"status"`
}

// SeedResult counts what ApplySeed created
type SeedResult struct {
	Candidates int
	Companies  int
	JobPosts   int
	Skipped    int
}

// ApplySeed creates every account of the fixture whose email is not
// registered yet. Existing accounts are skipped so a seed file can be applied
// more than once.
func (d *DBinstanceStruct) ApplySeed(ctx context.Context, fixture SeedFixture) (SeedResult, error) {
	var result SeedResult

	err := d.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, sc := range fixture.Candidates {
			exists, err := emailTaken(tx, sc.Email)
			if err != nil {
				return err
			}
			if exists {
				result.Skipped++
				continue
			}

			hashed, err := utilities.HashPassword(sc.Password)
			if err != nil {
				return fmt.Errorf("hash password of %s: %w", sc.Email, err)
			}
			candidate := m.Candidate{
				User: m.User{
					Email:            sc.Email,
					Password:         hashed,
					Role:             m.RoleCandidate,
					EditableUserInfo: m.EditableUserInfo{Name: sc.Name, City: sc.City},
				},
				EditableCandidateInfo: m.EditableCandidateInfo{
					Headline: sc.Headline,
					Skills:   sc.Skills,
				},
			}
			if err := tx.Create(&candidate).Error; err != nil {
				return fmt.Errorf("create candidate %s: %w", sc.Email, err)
			}
			result.Candidates++
		}

		for _, sc := range fixture.Companies {
			exists, err := emailTaken(tx, sc.Email)
			if err != nil {
				return err
			}
			if exists {
				result.Skipped++
				continue
			}

			hashed, err := utilities.HashPassword(sc.Password)
			if err != nil {
				return fmt.Errorf("hash password of %s: %w", sc.Email, err)
			}
			company := m.Company{
				User: m.User{
					Email:            sc.Email,
					Password:         hashed,
					Role:             m.RoleCompany,
					EditableUserInfo: m.EditableUserInfo{Name: sc.Name, City: sc.City},
				},
				EditableCompanyInfo: m.EditableCompanyInfo{
					TradeName: sc.TradeName,
					Industry:  sc.Industry,
				},
			}
			if err := tx.Create(&company).Error; err != nil {
				return fmt.Errorf("create company %s: %w", sc.Email, err)
			}
			result.Companies++

			for _, sj := range sc.JobPosts {
				post, err := sj.toJobPost(company.UserID)
				if err != nil {
					return fmt.Errorf("job post %q of %s: %w", sj.Title, sc.Email, err)
				}
				if err := tx.Omit("Company").Create(&post).Error; err != nil {
					return err
				}
				result.JobPosts++
			}
		}
		return nil
	})

	return result, err
}

func (sj SeedJobPost) toJobPost(companyID uuid.UUID) (m.JobPost, error) {
	info := m.EditableJobPostInfo{
		Title:        sj.Title,
		Description:  sj.Description,
		Requirements: m.TextList(sj.Requirements).Normalize(),
		Benefits:     m.TextList(sj.Benefits).Normalize(),
		ContractType: sj.ContractType,
		WorkModel:    sj.WorkModel,
		Level:        sj.Level,
		Location:     sj.Location,
		SalaryMin:    sj.SalaryMin,
		SalaryMax:    sj.SalaryMax,
		Tags:         sj.Tags,
	}
	if err := info.Validate(false); err != nil {
		return m.JobPost{}, err
	}

	status := sj.Status
	if status == "" {
		status = m.JobStatusActive
	}
	if !m.IsJobStatus(status) {
		return m.JobPost{}, fmt.Errorf("invalid status: %s", status)
	}

	return m.JobPost{
		CompanyID:           companyID,
		Status:              status,
		EditableJobPostInfo: info,
	}, nil
}

func emailTaken(tx *gorm.DB, email string) (bool, error) {
	if email == "" {
		return false, errors.New("seed account without email")
	}
	var count int64
	if err := tx.Model(&m.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
