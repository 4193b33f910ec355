// Package utilities contain utility code that use across the package
package utilities

import (
	"errors"
	"reflect"

	"github.com/gin-gonic/gin"

	"empregol-backend/internal/model"
)

// ErrorResponse type for swagger docs
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse type for swagger docs
type MessageResponse struct {
	Message string `json:"message"`
}

// ContextUserKey is the gin context key the authentication middleware stores the session user under
const ContextUserKey = "user"

// ExtractUser extracts the user model from Gin context.
// It does not abort the request; it returns an error when missing/invalid.
func ExtractUser(c *gin.Context) (model.User, error) {
	u, _ := c.Get(ContextUserKey)
	if u == nil {
		return model.User{}, errors.New("User information not provided")
	}

	user, ok := u.(model.User)
	if !ok {
		return model.User{}, errors.New("Failed to assert type")
	}
	return user, nil
}

// OptionalUser returns the session user when an optional authentication
// middleware found one.
func OptionalUser(c *gin.Context) *model.User {
	user, err := ExtractUser(c)
	if err != nil {
		return nil
	}
	return &user
}

// MergeNonEmpty help merge struct with non-empty field. Embedded structs are
// merged field by field.
func MergeNonEmpty(dst, src interface{}) {
	dv := reflect.ValueOf(dst).Elem()
	sv := reflect.ValueOf(src).Elem()

	for i := 0; i < sv.NumField(); i++ {
		sf := sv.Field(i)
		ft := sv.Type().Field(i)
		df := dv.FieldByName(ft.Name)
		if !df.IsValid() || !df.CanSet() {
			continue
		}
		if ft.Anonymous && sf.Kind() == reflect.Struct {
			MergeNonEmpty(df.Addr().Interface(), sf.Addr().Interface())
			continue
		}
		if !sf.IsZero() {
			df.Set(sf)
		}
	}
}
