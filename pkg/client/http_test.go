package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPClient_Login(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/auth/login", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "alice@test.com", body["email"])

		json.NewEncoder(w).Encode(AuthResponse{
			Token: "server-token",
			User:  &UserProfile{ID: "u1", Email: "alice@test.com", Role: RoleStudent},
		})
	}))
	defer server.Close()

	c := NewHTTPClient(server.URL + "/api")
	resp, err := c.Login(context.Background(), "alice@test.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "server-token", resp.Token)
	assert.Equal(t, "u1", resp.User.ID)
}

func TestHTTPClient_ListStudents_Query(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/students", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		assert.Equal(t, "Graduated", r.URL.Query().Get("statusFilter"))
		assert.Equal(t, "Bearer admin-token", r.Header.Get("Authorization"))

		json.NewEncoder(w).Encode(StudentList{
			Students: []UserProfile{{ID: "s1", Role: RoleStudent, Status: StatusGraduated}},
			Total:    11,
		})
	}))
	defer server.Close()

	c := NewHTTPClient(server.URL + "/api")
	list, err := c.ListStudents(context.Background(), "admin-token", ListOptions{
		Page: 2, Limit: 5, StatusFilter: StatusGraduated,
	})
	require.NoError(t, err)
	assert.Equal(t, 11, list.Total)
	require.Len(t, list.Students, 1)
	assert.Equal(t, StatusGraduated, list.Students[0].Status)
}

func TestHTTPClient_ErrorBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"message":"insufficient permissions"}`))
	}))
	defer server.Close()

	c := NewHTTPClient(server.URL + "/api")
	_, err := c.ListStudents(context.Background(), "student-token", ListOptions{})

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusForbidden, apiErr.Status)
	assert.Equal(t, "insufficient permissions", apiErr.Message)
}

func TestHTTPClient_ErrorWithoutBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	c := NewHTTPClient(server.URL + "/api")
	_, err := c.GetStats(context.Background(), "token")

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.NotEmpty(t, apiErr.Message)
}

func TestHTTPClient_UpdateStudent_OmitsNilFields(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/students/s1", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		// Only the set field travels; nil pointers are not serialized
		assert.Equal(t, map[string]any{"phone": "555-123-4567"}, body)

		json.NewEncoder(w).Encode(UserProfile{ID: "s1", Phone: "555-123-4567"})
	}))
	defer server.Close()

	phone := "555-123-4567"
	c := NewHTTPClient(server.URL + "/api")
	updated, err := c.UpdateStudent(context.Background(), "admin-token", "s1", &UpdateStudentRequest{Phone: &phone})
	require.NoError(t, err)
	assert.Equal(t, phone, updated.Phone)
}

func TestHTTPClient_DeleteStudent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/api/students/s1", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]string{"message": "student removed successfully"})
	}))
	defer server.Close()

	c := NewHTTPClient(server.URL + "/api")
	assert.NoError(t, c.DeleteStudent(context.Background(), "admin-token", "s1"))
}

func TestHTTPClient_ChangeUserRole(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/users/u1/role", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, RoleAdmin, body["role"])

		json.NewEncoder(w).Encode(UserProfile{ID: "u1", Role: RoleAdmin})
	}))
	defer server.Close()

	c := NewHTTPClient(server.URL + "/api")
	updated, err := c.ChangeUserRole(context.Background(), "admin-token", "u1", RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, updated.Role)
}
