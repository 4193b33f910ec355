package company

import (
	"context"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"gorm.io/gorm/clause"

	"empregol-backend/internal/auth"
	"empregol-backend/internal/database"
	"empregol-backend/internal/middleware"
	"empregol-backend/internal/model"
	"empregol-backend/internal/status"
	"empregol-backend/internal/testutil"
)

var testDB *database.DBinstanceStruct

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	var err error
	var midTeardown func(context.Context, ...testcontainers.TerminateOption) error
	midTeardown, testDB, err = database.GetTestDB()
	if err != nil {
		os.Exit(1)
	}
	code := m.Run()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if midTeardown != nil {
		_ = midTeardown(ctx)
	}
	os.Exit(code)
}

func companyEngine() *gin.Engine {
	r := gin.New()
	cc := NewCompanyController(testDB)
	r.GET("/empresas/:company_id", middleware.OptionalAuth(testDB, nil), cc.GetCompanyByID)

	g := r.Group("/empresa", middleware.RequireAuth(testDB, nil), middleware.CheckRole(model.RoleCompany))
	g.GET("/perfil", cc.GetCompanyProfile)
	g.PATCH("/perfil", cc.EditCompanyProfile)
	g.GET("/estatisticas", cc.GetStatistics)
	return r
}

func token(t *testing.T, user model.User) string {
	t.Helper()
	tok, err := auth.GetAccessToken(t, testDB, user.Email, database.TestSeedPassword)
	require.NoError(t, err)
	return tok
}

func TestEditCompanyProfile_NonCompanyForbidden(t *testing.T) {
	body := gin.H{"nome_fantasia": "Malicious Update"}

	rec, resp := testutil.MakeJSONRequest(body, token(t, database.TestUserCandidate1), companyEngine(), "/empresa/perfil", http.MethodPatch)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, resp["error"], "permission")
}

func TestGetMyCompanyProfile_Success(t *testing.T) {
	rec, resp := testutil.MakeJSONRequest(nil, token(t, database.TestUserCompany1), companyEngine(), "/empresa/perfil", http.MethodGet)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, database.TestUserCompany1.ID.String(), resp["id"])
	assert.Equal(t, "TechNova", resp["nome_fantasia"])
	assert.Equal(t, "12.345.678/0001-90", resp["cnpj"])
	user := resp["user"].(map[string]interface{})
	assert.Equal(t, model.RoleCompany, user["role"])
}

func TestEditCompanyProfile_Success(t *testing.T) {
	engine := companyEngine()
	companyToken := token(t, database.TestUserCompany2)

	body := gin.H{
		"site":      "https://dataforge.example.com",
		"descricao": "Engenharia de dados sob demanda",
		"telefone":  "(41) 3333-0000",
	}
	rec, resp := testutil.MakeJSONRequest(body, companyToken, engine, "/empresa/perfil", http.MethodPatch)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "https://dataforge.example.com", resp["site"])
	assert.Equal(t, "DataForge", resp["nome_fantasia"])

	stored := model.Company{}
	require.NoError(t, testDB.Preload("User").First(&stored, "user_id = ?", database.TestUserCompany2.ID).Error)
	assert.Equal(t, "Engenharia de dados sob demanda", stored.Description)
	assert.Equal(t, "Consultoria", stored.Industry)
	assert.Equal(t, "(41) 3333-0000", stored.User.Phone)
	assert.Equal(t, "Diego Rocha", stored.User.Name)

	// job posts are untouched
	var posts int64
	testDB.Model(&model.JobPost{}).Where("company_id = ?", database.TestUserCompany2.ID).Count(&posts)
	assert.GreaterOrEqual(t, posts, int64(1))
}

func TestEditCompanyProfile_Invalid(t *testing.T) {
	companyToken := token(t, database.TestUserCompany2)

	for _, body := range []gin.H{
		{"email": "x@example.com"},
		{"vagas": []interface{}{}},
		{"nome_fantasia": 10},
	} {
		rec, _ := testutil.MakeJSONRequest(body, companyToken, companyEngine(), "/empresa/perfil", http.MethodPatch)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
}

func TestGetCompanyByID_Success(t *testing.T) {
	path := "/empresas/" + database.TestUserCompany1.ID.String()

	rec, resp := testutil.MakeJSONRequest(nil, token(t, database.TestUserCandidate1), companyEngine(), path, http.MethodGet)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "TechNova", resp["nome_fantasia"])

	posts := resp["vagas"].([]interface{})
	require.Len(t, posts, 2)
	for _, p := range posts {
		post := p.(map[string]interface{})
		assert.Equal(t, model.JobStatusActive, post["status"])
		assert.Equal(t, "TechNova", post["empresa_nome"])
		assert.Contains(t, post, "salva")
	}
}

func TestGetCompanyByID_OnlyActivePosts(t *testing.T) {
	rec, resp := testutil.MakeJSONRequest(nil, "", companyEngine(), "/empresas/"+database.TestUserCompany2.ID.String(), http.MethodGet)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, resp["vagas"])
}

func TestGetCompanyByID_NotFound(t *testing.T) {
	rec, resp := testutil.MakeJSONRequest(nil, "", companyEngine(), "/empresas/"+uuid.NewString(), http.MethodGet)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Company not found", resp["error"])

	rec, resp = testutil.MakeJSONRequest(nil, "", companyEngine(), "/empresas/not-a-uuid", http.MethodGet)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid company id", resp["error"])

	// candidates are not companies
	rec, _ = testutil.MakeJSONRequest(nil, "", companyEngine(), "/empresas/"+database.TestUserCandidate1.ID.String(), http.MethodGet)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetStatistics(t *testing.T) {
	closed := model.JobPost{
		CompanyID: database.TestUserCompany2.ID,
		Status:    model.JobStatusClosed,
		EditableJobPostInfo: model.EditableJobPostInfo{
			Title: "Cientista de Dados", Description: "Modelos preditivos.",
			ContractType: "clt", WorkModel: "remoto", Level: "senior",
		},
	}
	require.NoError(t, testDB.Omit(clause.Associations).Create(&closed).Error)
	apps := []model.Application{
		{CandidateID: database.TestUserCandidate1.ID, JobPostID: closed.ID, Status: status.Interview},
		{CandidateID: database.TestUserCandidate2.ID, JobPostID: closed.ID, Status: status.Rejected},
		{CandidateID: database.TestUserCandidate1.ID, JobPostID: database.TestJobPost3.ID, Status: status.Submitted},
	}
	require.NoError(t, testDB.Omit(clause.Associations).Create(&apps).Error)
	// applications of other companies are not counted
	require.NoError(t, testDB.Omit(clause.Associations).Create(&model.Application{
		CandidateID: database.TestUserCandidate2.ID, JobPostID: database.TestJobPost1.ID,
	}).Error)

	rec, resp := testutil.MakeJSONRequest(nil, token(t, database.TestUserCompany2), companyEngine(), "/empresa/estatisticas", http.MethodGet)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 0.0, resp["vagas_ativas"])
	assert.Equal(t, 1.0, resp["vagas_pausadas"])
	assert.Equal(t, 1.0, resp["vagas_fechadas"])
	assert.Equal(t, 3.0, resp["total_candidaturas"])

	byStatus := resp["por_status"].(map[string]interface{})
	assert.Equal(t, 1.0, byStatus["enviada"])
	assert.Equal(t, 1.0, byStatus["entrevista"])
	assert.Equal(t, 1.0, byStatus["recusada"])
	assert.Equal(t, 0.0, byStatus["aprovado"])
	assert.Equal(t, 0.0, byStatus["em_analise"])
}
