package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"

	"empregol-backend/internal/auth"
	"empregol-backend/internal/database"
	"empregol-backend/internal/model"
	"empregol-backend/internal/utilities"
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

func protectedEngine(bl auth.JwtBlacklistStore) *gin.Engine {
	r := gin.New()
	r.GET("/protected", RequireAuth(testDB, bl), checkUserHandler)
	return r
}

func checkUserHandler(c *gin.Context) {
	u, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "user": u, "message": "Hello, " + u.Role})
}

func doGet(engine *gin.Engine, path string, mod func(r *http.Request)) (*httptest.ResponseRecorder, map[string]interface{}) {
	req, _ := http.NewRequest(http.MethodGet, path, nil)
	if mod != nil {
		mod(req)
	}
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	body := map[string]interface{}{}
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	return rec, body
}

func bearer(token string) func(r *http.Request) {
	return func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) }
}

func sessionCookie(token string) func(r *http.Request) {
	return func(r *http.Request) { r.AddCookie(&http.Cookie{Name: utilities.SessionCookie, Value: token}) }
}

func TestRequireAuth_Success(t *testing.T) {
	token, err := auth.GetAccessToken(t, testDB, database.TestUserCandidate1.Email, database.TestSeedPassword)
	require.NoError(t, err)

	rec, body := doGet(protectedEngine(nil), "/protected", bearer(token))

	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, "Hello, candidato", body["message"])
}

func TestRequireAuth_Cookie(t *testing.T) {
	token, err := auth.GetAccessToken(t, testDB, database.TestUserCompany1.Email, database.TestSeedPassword)
	require.NoError(t, err)

	rec, body := doGet(protectedEngine(nil), "/protected", sessionCookie(token))

	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Hello, empresa", body["message"])
}

func TestRequireAuth_NoToken(t *testing.T) {
	rec, body := doGet(protectedEngine(nil), "/protected", nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, body["error"], "Session token not provided")
}

func TestRequireAuth_ExpiredToken(t *testing.T) {
	token, err := auth.GenerateTokenWithDuration(database.TestUserCandidate1.ID, -1*time.Minute, auth.JwtIssuer)
	require.NoError(t, err)

	rec, body := doGet(protectedEngine(nil), "/protected", bearer(token))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Access token expired", body["error"])
}

func TestRequireAuth_InvalidToken(t *testing.T) {
	// Create a valid token then corrupt it (signature mismatch)
	validToken, err := auth.GenerateTokenWithDuration(database.TestUserCandidate1.ID, time.Hour, auth.JwtIssuer)
	require.NoError(t, err)

	rec, body := doGet(protectedEngine(nil), "/protected", bearer(validToken+"x"))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, body["error"], "Failed to validate token")
}

func TestRequireAuth_UnknownUser(t *testing.T) {
	token, err := auth.GenerateTokenWithDuration(uuid.New(), time.Hour, auth.JwtIssuer)
	require.NoError(t, err)

	rec, body := doGet(protectedEngine(nil), "/protected", bearer(token))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, body["error"], "User not exist")
}

func TestRequireAuth_InvalidIssuer(t *testing.T) {
	token, err := auth.GenerateTokenWithDuration(database.TestCandidate1.UserID, time.Hour, "invalid-issuer")
	require.NoError(t, err)

	rec, body := doGet(protectedEngine(nil), "/protected", bearer(token))

	assert.Equal(t, http.StatusUnauthorized, rec.Code, rec.Body.String())
	assert.Contains(t, body["error"], "Invalid token issuer")
}

func TestRequireAuth_RevokedToken(t *testing.T) {
	bl := auth.NewInMemoryBlacklistStore()
	defer bl.Close()
	engine := gin.New()
	engine.GET("/protected", RequireAuth(testDB, bl), checkUserHandler)
	engine.POST("/logout", RequireAuth(testDB, bl), auth.NewLogoutController(bl).LogoutHandler)

	token, err := auth.GetAccessToken(t, testDB, database.TestUserCandidate2.Email, database.TestSeedPassword)
	require.NoError(t, err)

	rec, _ := doGet(engine, "/protected", bearer(token))
	require.Equal(t, http.StatusOK, rec.Code)

	req, _ := http.NewRequest(http.MethodPost, "/logout", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	logoutRec := httptest.NewRecorder()
	engine.ServeHTTP(logoutRec, req)
	require.Equal(t, http.StatusOK, logoutRec.Code, logoutRec.Body.String())

	rec, body := doGet(engine, "/protected", bearer(token))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Token has been revoked", body["error"])

	// a fresh login is not affected
	fresh, err := auth.GetAccessToken(t, testDB, database.TestUserCandidate2.Email, database.TestSeedPassword)
	require.NoError(t, err)
	rec, _ = doGet(engine, "/protected", bearer(fresh))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestOptionalAuth(t *testing.T) {
	engine := gin.New()
	engine.GET("/maybe", OptionalAuth(testDB, nil), func(c *gin.Context) {
		if u := utilities.OptionalUser(c); u != nil {
			c.JSON(http.StatusOK, gin.H{"role": u.Role})
			return
		}
		c.JSON(http.StatusOK, gin.H{"role": "anonymous"})
	})

	_, body := doGet(engine, "/maybe", nil)
	assert.Equal(t, "anonymous", body["role"])

	_, body = doGet(engine, "/maybe", bearer("garbage"))
	assert.Equal(t, "anonymous", body["role"])

	token, err := auth.GetAccessToken(t, testDB, database.TestUserCompany2.Email, database.TestSeedPassword)
	require.NoError(t, err)
	_, body = doGet(engine, "/maybe", bearer(token))
	assert.Equal(t, model.RoleCompany, body["role"])
}

func TestCheckRole_NoRequireAuthBefore(t *testing.T) {
	engine := gin.New()
	engine.GET("/need-role", CheckRole(model.RoleCandidate), checkUserHandler)

	rec, body := doGet(engine, "/need-role", nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, body["error"], "User information not provided")
}

func TestCheckRole_WrongRole(t *testing.T) {
	engine := gin.New()
	engine.GET("/need-role", RequireAuth(testDB, nil), CheckRole(model.RoleCompany), checkUserHandler)
	token, err := auth.GetAccessToken(t, testDB, database.TestUserCandidate1.Email, database.TestSeedPassword)
	require.NoError(t, err)

	rec, body := doGet(engine, "/need-role", bearer(token))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, body["error"], "User doesn't have permission to access")
}

func TestCheckRole_MultipleRoleCheck(t *testing.T) {
	engine := gin.New()
	engine.GET("/need-role", RequireAuth(testDB, nil), CheckRole(model.RoleCandidate, model.RoleCompany), checkUserHandler)

	for _, email := range []string{database.TestUserCandidate1.Email, database.TestUserCompany1.Email} {
		token, err := auth.GetAccessToken(t, testDB, email, database.TestSeedPassword)
		require.NoError(t, err)

		rec, body := doGet(engine, "/need-role", bearer(token))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, true, body["ok"])
	}
}
