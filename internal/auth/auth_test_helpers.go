package auth

import (
	"fmt"
	"net/http"
	"testing"

	"empregol-backend/internal/database"
	"empregol-backend/internal/utilities"
)

// GetAccessToken is a helper function to obtain an access token for a user by simulating a login API call.
// It takes the testing object, database connection, email, and password as parameters.
// It returns the access token as a string and any error encountered during the process.
func GetAccessToken(
	t *testing.T,
	db *database.DBinstanceStruct,
	email string,
	password string,
) (string, error) {
	t.Helper()
	handler := NewLocalAuthHandler(db)
	rec, resp, err := utilities.SimulateAPICall(handler.LoginHandler, "/login", http.MethodPost, map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return "", err
	}
	if rec.Code != http.StatusOK {
		return "", fmt.Errorf("login Failed: status %d, body: %s", rec.Code, rec.Body.String())
	}
	token, ok := resp["access_token"].(string)
	if !ok || token == "" {
		return "", fmt.Errorf("login Failed: no access_token in response: %s", rec.Body.String())
	}
	return token, nil
}
