package knack

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(Credentials{ApplicationID: "app_1", APIKey: "key_1"},
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		WithBaseURL(srv.URL+"/"))
	require.NoError(t, err)
	return client
}

func TestNewClient_RequiresCredentials(t *testing.T) {
	tests := []struct {
		name        string
		credentials Credentials
	}{
		{name: "missing application id", credentials: Credentials{APIKey: "key"}},
		{name: "missing api key", credentials: Credentials{ApplicationID: "app"}},
		{name: "missing both", credentials: Credentials{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewClient(tt.credentials, nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid knack credentials")
		})
	}
}

func TestHTTPRequest_PutRecord(t *testing.T) {
	var gotMethod, gotPath string
	var gotHeaders http.Header
	var gotBody map[string]interface{}

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotHeaders = r.Header.Clone()
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"rec_123","field_10":"new value"}`))
	})

	result, err := client.HTTPRequest(context.Background(), RequestOptions{
		Method:    http.MethodPut,
		ObjectKey: "object_1",
		RecordID:  "rec_123",
		Data:      map[string]interface{}{"field_10": "new value"},
	})
	require.NoError(t, err)

	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/objects/object_1/records/rec_123", gotPath)
	assert.Equal(t, "app_1", gotHeaders.Get("X-Knack-Application-Id"))
	assert.Equal(t, "key_1", gotHeaders.Get("X-Knack-REST-API-Key"))
	assert.Equal(t, "application/json", gotHeaders.Get("Content-Type"))
	assert.Equal(t, map[string]interface{}{"field_10": "new value"}, gotBody)
	assert.Equal(t, map[string]interface{}{"id": "rec_123", "field_10": "new value"}, result)
}

func TestHTTPRequest_NonSuccessStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"errors":["record not found"]}`, http.StatusNotFound)
	})

	_, err := client.HTTPRequest(context.Background(), RequestOptions{
		Method:    http.MethodPut,
		ObjectKey: "object_1",
		RecordID:  "missing",
		Data:      map[string]interface{}{},
	})
	require.Error(t, err)

	var transportErr *TransportError
	require.True(t, errors.As(err, &transportErr))
	assert.Equal(t, http.StatusNotFound, transportErr.StatusCode)
	assert.Equal(t, http.MethodPut, transportErr.Method)
	assert.Contains(t, transportErr.Body, "record not found")

	status, ok := StatusCode(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestHTTPRequest_MalformedResponse(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	})

	_, err := client.HTTPRequest(context.Background(), RequestOptions{ObjectKey: "object_1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error decoding response")

	_, ok := StatusCode(err)
	assert.False(t, ok)
}

func TestHTTPRequest_EmptyBodyDefaultsToGet(t *testing.T) {
	var gotMethod, gotPath string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
	})

	result, err := client.HTTPRequest(context.Background(), RequestOptions{ObjectKey: "object_2"})
	require.NoError(t, err)
	assert.Nil(t, result)
	assert.Equal(t, http.MethodGet, gotMethod)
	assert.Equal(t, "/objects/object_2/records", gotPath)
}

func TestListObjects(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/objects", r.URL.Path)
		w.Write([]byte(`{"objects":[{"key":"object_1","name":"Contacts"},{"key":"object_2","name":"Orders"}]}`))
	})

	objects, err := client.ListObjects(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []Object{
		{Key: "object_1", Name: "Contacts"},
		{Key: "object_2", Name: "Orders"},
	}, objects)
}

func TestWithTimeout_DoesNotModifySharedClient(t *testing.T) {
	shared := &http.Client{Timeout: 5 * time.Second}

	client, err := NewClient(Credentials{ApplicationID: "app", APIKey: "key"}, nil,
		WithHTTPClient(shared), WithTimeout(time.Second))
	require.NoError(t, err)

	assert.Equal(t, 5*time.Second, shared.Timeout)
	assert.Equal(t, time.Second, client.httpClient.Timeout)
	assert.NotSame(t, shared, client.httpClient)
}
