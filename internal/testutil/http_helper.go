// Package testutil provides utility functions for testing HTTP handlers.
package testutil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
)

// MakeJSONRequest is a helper function for making JSON requests in tests.
// An empty authToken sends the request without Authorization header.
func MakeJSONRequest(body interface{}, authToken string, r *gin.Engine, endpoint string, method string) (*httptest.ResponseRecorder, map[string]interface{}) {
	rec := Do(body, authToken, r, endpoint, method)

	resp := map[string]interface{}{}
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)

	return rec, resp
}

// MakeJSONListRequest is MakeJSONRequest for endpoints answering with a JSON array
func MakeJSONListRequest(body interface{}, authToken string, r *gin.Engine, endpoint string, method string) (*httptest.ResponseRecorder, []map[string]interface{}) {
	rec := Do(body, authToken, r, endpoint, method)

	resp := []map[string]interface{}{}
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)

	return rec, resp
}

// Do serves a single request and returns the raw recorder
func Do(body interface{}, authToken string, r *gin.Engine, endpoint string, method string) *httptest.ResponseRecorder {
	var payload []byte
	if body != nil {
		payload, _ = json.Marshal(body)
	}

	req, _ := http.NewRequest(method, endpoint, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if authToken != "" {
		req.Header.Set("Authorization", "Bearer "+authToken)
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}
