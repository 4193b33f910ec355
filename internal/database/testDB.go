package database

import (
	"context"
	"fmt"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	// Load env
	_ "github.com/joho/godotenv/autoload"

	m "empregol-backend/internal/model"
	"empregol-backend/internal/utilities"
)

var testDBInstance *DBinstanceStruct
var teardown func(context.Context, ...testcontainers.TerminateOption) error

// Exported test users & profiles
var (
	TestUserCandidate1 m.User
	TestUserCandidate2 m.User
	TestUserCompany1   m.User
	TestUserCompany2   m.User
	TestCandidate1     m.Candidate
	TestCandidate2     m.Candidate
	TestCompany1       m.Company
	TestCompany2       m.Company

	// Plain password shared by every seeded user
	TestSeedPassword = "SeedPass123!"

	// Seeded job posts. 1 and 2 are active posts of company 1, 3 is a paused
	// post of company 2.
	TestJobPost1 m.JobPost
	TestJobPost2 m.JobPost
	TestJobPost3 m.JobPost
)

var testEmails = []string{
	"ana.candidata@example.com",
	"bruno.candidato@example.com",
	"rh@technova.example.com",
	"vagas@dataforge.example.com",
}

// GetTestDB starts a PostgreSQL test container and returns a teardown function,
// the DB instance, and any error encountered during setup.
func GetTestDB() (func(context.Context, ...testcontainers.TerminateOption) error, *DBinstanceStruct, error) {

	if testDBInstance != nil && teardown != nil {
		return teardown, testDBInstance, nil
	}

	// Database configuration
	var (
		dbName = "database"
		dbPwd  = "password"
		dbUser = "user"
	)

	dbContainer, err := postgres.Run(
		context.Background(),
		"postgres:latest",
		postgres.WithDatabase(dbName),
		postgres.WithUsername(dbUser),
		postgres.WithPassword(dbPwd),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		return nil, nil, err
	}

	dbHost, err := dbContainer.Host(context.Background())
	if err != nil {
		return dbContainer.Terminate, nil, err
	}

	dbPort, err := dbContainer.MappedPort(context.Background(), nat.Port("5432/tcp"))
	if err != nil {
		return dbContainer.Terminate, nil, err
	}

	config := &DBConfig{
		DBName:    dbName,
		useConstr: true,
		Constr:    fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable", dbHost, dbPort.Port(), dbUser, dbPwd, dbName),
	}

	db, err := NewDBInstance(config)
	if err != nil {
		return dbContainer.Terminate, nil, err
	}

	if err := seedTestData(db); err != nil {
		_ = dbContainer.Terminate(context.Background())
		return nil, nil, err
	}

	testDBInstance = db
	teardown = dbContainer.Terminate

	return dbContainer.Terminate, db, nil
}

// seedTestData inserts two candidates, two companies and three job posts if empty.
func seedTestData(db *DBinstanceStruct) error {
	var userCount int64
	if err := db.Model(&m.User{}).Count(&userCount).Error; err != nil {
		return err
	}
	if userCount > 0 {
		return loadTestData(db)
	}

	hashedPwd, errHash := utilities.HashPassword(TestSeedPassword)
	if errHash != nil {
		return errHash
	}

	userSpecs := []struct {
		name string
		city string
		role string
	}{
		{"Ana Souza", "São Paulo", m.RoleCandidate},
		{"Bruno Lima", "Recife", m.RoleCandidate},
		{"Carla Mendes", "Belo Horizonte", m.RoleCompany},
		{"Diego Rocha", "Curitiba", m.RoleCompany},
	}

	users := make([]m.User, 0, len(userSpecs))
	for i, s := range userSpecs {
		users = append(users, m.User{
			ID:       uuid.New(),
			Email:    testEmails[i],
			Password: hashedPwd,
			Role:     s.role,
			EditableUserInfo: m.EditableUserInfo{
				Name: s.name,
				City: s.city,
			},
		})
	}
	if err := db.Create(&users).Error; err != nil {
		return err
	}
	TestUserCandidate1, TestUserCandidate2 = users[0], users[1]
	TestUserCompany1, TestUserCompany2 = users[2], users[3]

	candidates := []m.Candidate{
		{
			UserID: TestUserCandidate1.ID,
			EditableCandidateInfo: m.EditableCandidateInfo{
				Headline:   "Desenvolvedora Backend",
				Summary:    "Três anos construindo APIs em Go",
				Skills:     pq.StringArray{"go", "postgres", "docker"},
				Experience: "Backend na Fintech X",
				Education:  "Ciência da Computação - USP",
				LinkedIn:   "https://linkedin.com/in/ana-souza",
			},
		},
		{
			UserID: TestUserCandidate2.ID,
			EditableCandidateInfo: m.EditableCandidateInfo{
				Headline: "Analista de Dados Júnior",
				Skills:   pq.StringArray{"sql", "python"},
			},
		},
	}
	if err := db.Omit("User").Create(&candidates).Error; err != nil {
		return err
	}

	companies := []m.Company{
		{
			UserID: TestUserCompany1.ID,
			EditableCompanyInfo: m.EditableCompanyInfo{
				TradeName:   "TechNova",
				CNPJ:        "12.345.678/0001-90",
				Industry:    "Software",
				Size:        "51-200",
				Description: "Plataformas digitais para o varejo",
			},
		},
		{
			UserID: TestUserCompany2.ID,
			EditableCompanyInfo: m.EditableCompanyInfo{
				TradeName: "DataForge",
				Industry:  "Consultoria",
				Size:      "11-50",
			},
		},
	}
	if err := db.Omit("User").Create(&companies).Error; err != nil {
		return err
	}

	salMin1, salMax1 := 8000.0, 12000.0
	salMin2, salMax2 := 3000.0, 4500.0
	hideSalary := false

	jobPosts := []m.JobPost{
		{
			CompanyID: TestUserCompany1.ID,
			Status:    m.JobStatusActive,
			EditableJobPostInfo: m.EditableJobPostInfo{
				Title:        "Desenvolvedor Go Pleno",
				Description:  "Manutenção de microsserviços e APIs REST.",
				Requirements: m.TextList{"Go", "PostgreSQL", "Docker"},
				Benefits:     m.TextList{"Vale refeição", "Plano de saúde"},
				ContractType: "clt",
				WorkModel:    "remoto",
				Level:        "pleno",
				Location:     "São Paulo, SP",
				SalaryMin:    &salMin1,
				SalaryMax:    &salMax1,
				Tags:         pq.StringArray{"go", "backend"},
			},
		},
		{
			CompanyID: TestUserCompany1.ID,
			Status:    m.JobStatusActive,
			EditableJobPostInfo: m.EditableJobPostInfo{
				Title:        "Estágio em Frontend",
				Description:  "Apoio no desenvolvimento da biblioteca de componentes React.",
				Requirements: m.TextList{"JavaScript", "HTML e CSS"},
				ContractType: "estagio",
				WorkModel:    "hibrido",
				Level:        "estagio",
				Location:     "Belo Horizonte, MG",
				SalaryMin:    &salMin2,
				SalaryMax:    &salMax2,
				ShowSalary:   &hideSalary,
				Tags:         pq.StringArray{"react", "frontend"},
			},
		},
		{
			CompanyID: TestUserCompany2.ID,
			Status:    m.JobStatusPaused,
			EditableJobPostInfo: m.EditableJobPostInfo{
				Title:        "Analista de Dados",
				Description:  "Limpeza de dados e criação de dashboards.",
				Requirements: m.TextList{"SQL", "Estatística básica"},
				ContractType: "pj",
				WorkModel:    "presencial",
				Level:        "junior",
				Location:     "Curitiba, PR",
				Tags:         pq.StringArray{"dados", "sql"},
			},
		},
	}
	if err := db.Omit("Company").Create(&jobPosts).Error; err != nil {
		return err
	}

	TestCandidate1, TestCandidate2 = candidates[0], candidates[1]
	TestCandidate1.User, TestCandidate2.User = TestUserCandidate1, TestUserCandidate2
	TestCompany1, TestCompany2 = companies[0], companies[1]
	TestCompany1.User, TestCompany2.User = TestUserCompany1, TestUserCompany2
	TestJobPost1, TestJobPost2, TestJobPost3 = jobPosts[0], jobPosts[1], jobPosts[2]

	return nil
}

// loadTestData populates exported variables when records already exist.
func loadTestData(db *DBinstanceStruct) error {
	var users []m.User
	if err := db.Where("email IN ?", testEmails).Find(&users).Error; err != nil {
		return err
	}
	for _, u := range users {
		switch u.Email {
		case testEmails[0]:
			TestUserCandidate1 = u
		case testEmails[1]:
			TestUserCandidate2 = u
		case testEmails[2]:
			TestUserCompany1 = u
		case testEmails[3]:
			TestUserCompany2 = u
		}
	}

	_ = db.Preload("User").First(&TestCandidate1, "user_id = ?", TestUserCandidate1.ID).Error
	_ = db.Preload("User").First(&TestCandidate2, "user_id = ?", TestUserCandidate2.ID).Error
	_ = db.Preload("User").First(&TestCompany1, "user_id = ?", TestUserCompany1.ID).Error
	_ = db.Preload("User").First(&TestCompany2, "user_id = ?", TestUserCompany2.ID).Error

	// Load first three job posts deterministically
	var posts []m.JobPost
	if err := db.Order("id ASC").Limit(3).Find(&posts).Error; err == nil {
		if len(posts) > 0 {
			TestJobPost1 = posts[0]
		}
		if len(posts) > 1 {
			TestJobPost2 = posts[1]
		}
		if len(posts) > 2 {
			TestJobPost3 = posts[2]
		}
	}

	return nil
}
