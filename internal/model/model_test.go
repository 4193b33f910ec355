package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"empregol-backend/internal/status"
)

func TestTextList_UnmarshalList(t *testing.T) {
	var l TextList
	require.NoError(t, json.Unmarshal([]byte(`["  Go ", "", "SQL"]`), &l))
	assert.Equal(t, TextList{"Go", "SQL"}, l)
}

func TestTextList_UnmarshalBlob(t *testing.T) {
	var l TextList
	require.NoError(t, json.Unmarshal([]byte(`"- Vale refeição\n- Plano de saúde\n\n• Gympass"`), &l))
	assert.Equal(t, TextList{"Vale refeição", "Plano de saúde", "Gympass"}, l)

	require.NoError(t, json.Unmarshal([]byte(`"Inglês avançado; Docker"`), &l))
	assert.Equal(t, TextList{"Inglês avançado", "Docker"}, l)
}

func TestTextList_UnmarshalInvalid(t *testing.T) {
	var l TextList
	assert.Error(t, json.Unmarshal([]byte(`42`), &l))
}

func TestTextList_ScanArray(t *testing.T) {
	var l TextList
	require.NoError(t, l.Scan([]byte(`{"Go","Experiência com APIs"}`)))
	assert.Equal(t, TextList{"Go", "Experiência com APIs"}, l)
}

func TestTextList_ScanLegacyBlob(t *testing.T) {
	var l TextList
	require.NoError(t, l.Scan("Ensino superior\nGit"))
	assert.Equal(t, TextList{"Ensino superior", "Git"}, l)

	require.NoError(t, l.Scan(nil))
	assert.Nil(t, l)

	assert.Error(t, l.Scan(12))
}

func TestTextList_Value(t *testing.T) {
	v, err := TextList{"a", "b c"}.Value()
	require.NoError(t, err)
	assert.Equal(t, `{"a","b c"}`, v)
}

func TestCandidateCompleteness(t *testing.T) {
	c := Candidate{}
	assert.Equal(t, 0, c.Completeness())

	c.User.Name = "Ana"
	c.Headline = "Desenvolvedora Go"
	c.Skills = []string{"go"}
	c.ResumeURL = "https://example.com/cv.pdf"
	c.LinkedIn = "https://linkedin.com/in/ana"
	assert.Equal(t, 50, c.Completeness())
	assert.Equal(t, 50, c.ToProfileResponse().Completeness)
}

func TestJobPostValidate(t *testing.T) {
	full := EditableJobPostInfo{
		Title:        "Dev Go",
		Description:  "APIs",
		ContractType: "clt",
		WorkModel:    "remoto",
		Level:        "pleno",
	}
	assert.NoError(t, full.Validate(false))

	assert.Error(t, (&EditableJobPostInfo{Title: "x"}).Validate(false))
	assert.NoError(t, (&EditableJobPostInfo{Title: "x"}).Validate(true))
	assert.Error(t, (&EditableJobPostInfo{WorkModel: "lua"}).Validate(true))

	lo, hi := 9000.0, 5000.0
	assert.Error(t, (&EditableJobPostInfo{SalaryMin: &lo, SalaryMax: &hi}).Validate(true))
}

func TestJobPostResponse_HidesSalary(t *testing.T) {
	owner := User{ID: uuid.New(), Role: RoleCompany}
	other := User{ID: uuid.New(), Role: RoleCandidate}
	salMin, salMax := 4000.0, 6000.0
	hidden := false

	post := JobPost{
		CompanyID: owner.ID,
		Company:   &Company{UserID: owner.ID, EditableCompanyInfo: EditableCompanyInfo{TradeName: "Acme"}},
		EditableJobPostInfo: EditableJobPostInfo{
			SalaryMin:  &salMin,
			SalaryMax:  &salMax,
			ShowSalary: &hidden,
		},
	}

	resp := post.ToJobPostResponse(&other)
	assert.Nil(t, resp.SalaryMin)
	assert.Nil(t, resp.SalaryMax)
	assert.Equal(t, "Acme", resp.CompanyName)

	resp = post.ToJobPostResponse(nil)
	assert.Nil(t, resp.SalaryMin)

	resp = post.ToJobPostResponse(&owner)
	require.NotNil(t, resp.SalaryMin)
	assert.Equal(t, salMin, *resp.SalaryMin)
	// original post untouched
	assert.NotNil(t, post.SalaryMin)
}

func TestApplicationToView(t *testing.T) {
	created := time.Now().Add(-48 * time.Hour)
	app := Application{Status: "aprovada", CreatedAt: created, UpdatedAt: time.Now()}

	view := app.ToView()
	assert.Equal(t, status.Approved, view.Badge.Status)
	assert.Equal(t, 100, view.Timeline.Progress)

	views := ToViews([]Application{app, {Status: status.Rejected}})
	require.Len(t, views, 2)
	assert.True(t, views[1].Timeline.Rejected)
}

func TestUserHomePath(t *testing.T) {
	assert.Equal(t, "/dashboard", User{Role: RoleCandidate}.HomePath())
	assert.Equal(t, "/empresa/dashboard", User{Role: RoleCompany}.HomePath())
}

func TestGoogleUserInfoFullName(t *testing.T) {
	assert.Equal(t, "Ana Souza", GoogleUserInfo{FirstName: "Ana", LastName: "Souza"}.FullName())
	assert.Equal(t, "Ana", GoogleUserInfo{FirstName: "Ana"}.FullName())
	assert.Equal(t, "Souza", GoogleUserInfo{LastName: "Souza"}.FullName())
}
