package pinapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "header.payload.signature"

func TestNewClient(t *testing.T) {
	logger := zerolog.Nop()

	tests := []struct {
		name    string
		baseURL string
		key     string
		wantErr error
	}{
		{
			name:    "valid config",
			baseURL: "http://localhost:8080",
			key:     "a.b.c",
		},
		{
			name:    "valid jwt-shaped key",
			baseURL: "http://localhost:8080",
			key:     testKey,
		},
		{
			name:    "missing URL",
			baseURL: "",
			key:     testKey,
			wantErr: ErrMissingURL,
		},
		{
			name:    "missing key",
			baseURL: "http://localhost:8080",
			key:     "",
			wantErr: ErrMissingKey,
		},
		{
			name:    "no dots",
			baseURL: "http://localhost:8080",
			key:     "justonesegment",
			wantErr: ErrMalformedKey,
		},
		{
			name:    "one dot",
			baseURL: "http://localhost:8080",
			key:     "two.segments",
			wantErr: ErrMalformedKey,
		},
		{
			name:    "three dots",
			baseURL: "http://localhost:8080",
			key:     "a.b.c.d",
			wantErr: ErrMalformedKey,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(tt.baseURL, tt.key, logger)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.NotNil(t, client)
			assert.Equal(t, tt.key, client.key)
		})
	}
}

func TestNewClientTrimsTrailingSlash(t *testing.T) {
	client, err := NewClient("http://localhost:8080/", testKey, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080", client.baseURL)
}

func TestForcedHeaders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// The forced headers must win over conflicting defaults and appear
		// exactly once each.
		assert.Equal(t, []string{"Bearer " + testKey}, r.Header.Values("Authorization"))
		assert.Equal(t, []string{"application/json"}, r.Header.Values("Content-Type"))
		assert.Equal(t, "custom-value", r.Header.Get("X-Custom"))
		assert.NotEmpty(t, r.Header.Get("X-Request-Id"))

		json.NewEncoder(w).Encode([]Pin{})
	}))
	defer server.Close()

	headers := http.Header{}
	headers.Set("Authorization", "Bearer stolen.other.key")
	headers.Set("Content-Type", "text/plain")
	headers.Set("X-Custom", "custom-value")

	client, err := NewClient(server.URL, testKey, zerolog.Nop(), WithRequestHeaders(headers))
	require.NoError(t, err)

	_, err = client.GetPins(context.Background(), "meta1")
	require.NoError(t, err)
}

func TestCreatePinsEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/pins", r.URL.Path)

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.JSONEq(t, "[]", string(body))

		w.Write([]byte("[]"))
	}))
	defer server.Close()

	client, err := NewClient(server.URL, testKey, zerolog.Nop())
	require.NoError(t, err)

	pins, err := client.CreatePins(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, pins)
}

func TestCreatePinsServerDefaults(t *testing.T) {
	// A CreatePin with all optional fields omitted must not serialize them;
	// the echoed pin carries the server-applied defaults untouched.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload []map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		require.Len(t, payload, 1)

		assert.NotContains(t, payload[0], "offset")
		assert.NotContains(t, payload[0], "opacity")
		assert.NotContains(t, payload[0], "enableLine")
		assert.NotContains(t, payload[0], "alert")

		json.NewEncoder(w).Encode([]Pin{{
			ID:       "pin-1",
			MetaID:   payload[0]["meta_id"].(string),
			Position: Vector3{X: 1, Y: 2, Z: 3},
			Offset:   Vector3{},
			HTML:     payload[0]["html"].(string),
			Opacity:  1,
		}})
	}))
	defer server.Close()

	client, err := NewClient(server.URL, testKey, zerolog.Nop())
	require.NoError(t, err)

	created, err := client.CreatePins(context.Background(), []CreatePin{{
		MetaID:   "meta1",
		Position: Vector3{X: 1, Y: 2, Z: 3},
		HTML:     "<b>hello</b>",
	}})
	require.NoError(t, err)
	require.Len(t, created, 1)

	assert.Equal(t, "pin-1", created[0].ID)
	assert.Equal(t, "meta1", created[0].MetaID)
	assert.Equal(t, Vector3{X: 1, Y: 2, Z: 3}, created[0].Position)
	assert.Equal(t, "<b>hello</b>", created[0].HTML)
	assert.Equal(t, Vector3{}, created[0].Offset)
	assert.Equal(t, 1.0, created[0].Opacity)
	assert.False(t, created[0].EnableLine)
	assert.False(t, created[0].Alert)
}

func TestGetPins(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/pins", r.URL.Path)
		assert.Equal(t, "meta1", r.URL.Query().Get("meta-id"))

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.Empty(t, body)

		json.NewEncoder(w).Encode([]Pin{{ID: "pin-1", MetaID: "meta1"}})
	}))
	defer server.Close()

	client, err := NewClient(server.URL, testKey, zerolog.Nop())
	require.NoError(t, err)

	pins, err := client.GetPins(context.Background(), "meta1")
	require.NoError(t, err)
	require.Len(t, pins, 1)
	assert.Equal(t, "pin-1", pins[0].ID)
}

func TestUpdatePins(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/pins", r.URL.Path)

		var payload []map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		require.Len(t, payload, 1)

		// Only the ID and the fields being changed are serialized.
		assert.Equal(t, "pin-1", payload[0]["id"])
		assert.Equal(t, 0.5, payload[0]["opacity"])
		assert.NotContains(t, payload[0], "position")
		assert.NotContains(t, payload[0], "html")

		json.NewEncoder(w).Encode([]Pin{{ID: "pin-1", Opacity: 0.5}})
	}))
	defer server.Close()

	client, err := NewClient(server.URL, testKey, zerolog.Nop())
	require.NoError(t, err)

	opacity := 0.5
	updated, err := client.UpdatePins(context.Background(), []UpdatePin{{ID: "pin-1", Opacity: &opacity}})
	require.NoError(t, err)
	require.Len(t, updated, 1)
	assert.Equal(t, 0.5, updated[0].Opacity)
}

func TestDeletePins(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/pins", r.URL.Path)

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.JSONEq(t, `["pin-1","pin-2"]`, string(body))

		json.NewEncoder(w).Encode(DeleteResult{Deleted: 2})
	}))
	defer server.Close()

	client, err := NewClient(server.URL, testKey, zerolog.Nop())
	require.NoError(t, err)

	result, err := client.DeletePins(context.Background(), []string{"pin-1", "pin-2"})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Deleted)
}

func TestGetMetadata(t *testing.T) {
	raw := `{"floor":"2","anything":{"nested":[1,2,3]}}`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/metadata/meta1", r.URL.Path)

		w.Write([]byte(raw))
	}))
	defer server.Close()

	client, err := NewClient(server.URL, testKey, zerolog.Nop())
	require.NoError(t, err)

	metadata, err := client.GetMetadata(context.Background(), "meta1")
	require.NoError(t, err)
	assert.JSONEq(t, raw, string(metadata))
}

func TestErrorResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"not found"}`))
	}))
	defer server.Close()

	client, err := NewClient(server.URL, testKey, zerolog.Nop())
	require.NoError(t, err)

	_, err = client.GetPins(context.Background(), "missing")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 404, apiErr.Status)
	assert.Equal(t, map[string]any{"error": "not found"}, apiErr.Body)
	assert.True(t, apiErr.IsNotFound())
}

func TestStatus399IsSuccess(t *testing.T) {
	// Statuses up to 399 are treated as success and the body decoded as-is.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(399)
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client, err := NewClient(server.URL, testKey, zerolog.Nop())
	require.NoError(t, err)

	pins, err := client.GetPins(context.Background(), "meta1")
	require.NoError(t, err)
	assert.Empty(t, pins)
}

func TestMalformedResponsePropagates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{not json`))
	}))
	defer server.Close()

	client, err := NewClient(server.URL, testKey, zerolog.Nop())
	require.NoError(t, err)

	_, err = client.GetPins(context.Background(), "meta1")
	require.Error(t, err)

	var syntaxErr *json.SyntaxError
	assert.ErrorAs(t, err, &syntaxErr)
}

func TestTransportErrorPropagates(t *testing.T) {
	client, err := NewClient("http://127.0.0.1:1", testKey, zerolog.Nop())
	require.NoError(t, err)

	_, err = client.GetPins(context.Background(), "meta1")
	require.Error(t, err)

	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr))
}

func TestConcurrentGetPins(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		metaID := r.URL.Query().Get("meta-id")
		json.NewEncoder(w).Encode([]Pin{{ID: "pin-" + metaID, MetaID: metaID}})
	}))
	defer server.Close()

	client, err := NewClient(server.URL, testKey, zerolog.Nop())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		for _, metaID := range []string{"meta1", "meta2"} {
			metaID := metaID
			wg.Add(1)
			go func() {
				defer wg.Done()

				pins, err := client.GetPins(context.Background(), metaID)
				assert.NoError(t, err)
				if assert.Len(t, pins, 1) {
					assert.Equal(t, metaID, pins[0].MetaID)
				}
			}()
		}
	}
	wg.Wait()
}

func TestGetPinsByMetaIDs(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		metaID := r.URL.Query().Get("meta-id")
		json.NewEncoder(w).Encode([]Pin{{ID: "pin-" + metaID, MetaID: metaID}})
	}))
	defer server.Close()

	client, err := NewClient(server.URL, testKey, zerolog.Nop())
	require.NoError(t, err)

	results, err := client.GetPinsByMetaIDs(context.Background(), []string{"meta1", "meta2", "meta3"})
	require.NoError(t, err)
	require.Len(t, results, 3)

	for _, metaID := range []string{"meta1", "meta2", "meta3"} {
		require.Len(t, results[metaID], 1)
		assert.Equal(t, metaID, results[metaID][0].MetaID)
	}
}

func TestGetPinsByMetaIDsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("meta-id") == "meta2" {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"error":"boom"}`))
			return
		}
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client, err := NewClient(server.URL, testKey, zerolog.Nop())
	require.NoError(t, err)

	_, err = client.GetPinsByMetaIDs(context.Background(), []string{"meta1", "meta2"})
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 500, apiErr.Status)
}

func TestAPIError(t *testing.T) {
	t.Run("Error message", func(t *testing.T) {
		err := &APIError{Status: 404, Body: map[string]any{"error": "not found"}}
		assert.Equal(t, "pin API error: status 404: not found", err.Error())
	})

	t.Run("Error message without body", func(t *testing.T) {
		err := &APIError{Status: 500}
		assert.Equal(t, "pin API error: status 500", err.Error())
	})

	t.Run("IsNotFound", func(t *testing.T) {
		err := &APIError{Status: 404}
		assert.True(t, err.IsNotFound())

		err.Status = 500
		assert.False(t, err.IsNotFound())
	})

	t.Run("IsUnauthorized", func(t *testing.T) {
		tests := []struct {
			code     int
			expected bool
		}{
			{401, true},
			{403, true},
			{404, false},
			{500, false},
		}

		for _, tt := range tests {
			err := &APIError{Status: tt.code}
			assert.Equal(t, tt.expected, err.IsUnauthorized())
		}
	})
}
