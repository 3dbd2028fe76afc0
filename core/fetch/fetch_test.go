package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeRecords(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    int
		wantErr bool
	}{
		{"BareArray", `[{"id": 1}, {"id": 2}]`, 2, false},
		{"DataWrapper", `{"data": [{"id": 1}]}`, 1, false},
		{"EmptyArray", `[]`, 0, false},
		{"ObjectWithoutData", `{"items": []}`, 0, true},
		{"Scalar", `42`, 0, true},
		{"Malformed", `{"data": [`, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := DecodeRecords([]byte(tt.body))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, records, tt.want)
		})
	}
}

func TestHTTPClient_FetchRecords(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "application/json", r.Header.Get("Accept"))
			w.Write([]byte(`[{"id": 5, "name": "Downtown Store"}]`))
		}))
		defer srv.Close()

		client := NewHTTPClient(5)
		records, err := client.FetchRecords(context.Background(), srv.URL)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "Downtown Store", records[0]["name"])
	})

	t.Run("NonOKStatus", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()

		client := NewHTTPClient(5)
		_, err := client.FetchRecords(context.Background(), srv.URL)
		require.Error(t, err)

		var fetchErr *FetchError
		require.True(t, errors.As(err, &fetchErr))
		assert.Equal(t, srv.URL, fetchErr.URL)
	})

	t.Run("MalformedBody", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`not json`))
		}))
		defer srv.Close()

		client := NewHTTPClient(5)
		_, err := client.FetchRecords(context.Background(), srv.URL)

		var fetchErr *FetchError
		require.True(t, errors.As(err, &fetchErr))
	})

	t.Run("ConnectionRefused", func(t *testing.T) {
		client := NewHTTPClient(1)
		_, err := client.FetchRecords(context.Background(), "http://127.0.0.1:1/feed.json")

		var fetchErr *FetchError
		require.True(t, errors.As(err, &fetchErr))
		assert.NotNil(t, fetchErr.Unwrap())
	})
}
