package rest_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jrsteele09/go-hms/client/rest"
	"github.com/jrsteele09/go-hms/client/tokenstore"
	"github.com/stretchr/testify/require"
)

type widget struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

func TestBearerAttachedWhenStored(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	store := tokenstore.NewMemStore()
	client := rest.NewClient(server.URL, store)

	require.NoError(t, client.Get(context.Background(), "/api/auth/profile/", nil))
	require.Empty(t, gotAuth)

	require.NoError(t, store.Set(tokenstore.Credentials{AccessToken: "T1", RefreshToken: "R1"}))
	require.NoError(t, client.Get(context.Background(), "/api/auth/profile/", nil))
	require.Equal(t, "Bearer T1", gotAuth)
}

func TestDecodesDetailError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"detail":"Invalid credentials"}`))
	}))
	defer server.Close()

	client := rest.NewClient(server.URL, tokenstore.NewMemStore())
	err := client.Post(context.Background(), "/api/auth/login/", map[string]string{}, nil)

	var apiErr *rest.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	require.Equal(t, "Invalid credentials", apiErr.Detail)
	require.Equal(t, "Invalid credentials", apiErr.Error())
}

func TestDecodesFieldErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"email":["This field is required."]}`))
	}))
	defer server.Close()

	client := rest.NewClient(server.URL, tokenstore.NewMemStore())
	err := client.Post(context.Background(), "/api/patients/", map[string]string{}, nil)

	var apiErr *rest.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, []string{"This field is required."}, apiErr.Fields["email"])
	require.Equal(t, "email: This field is required.", apiErr.Error())
}

func TestUndecodableErrorFallsBackToGenericMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`<html>boom</html>`))
	}))
	defer server.Close()

	client := rest.NewClient(server.URL, tokenstore.NewMemStore())
	err := client.Get(context.Background(), "/api/patients/", nil)

	var apiErr *rest.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	require.Equal(t, rest.GenericFailureMessage, apiErr.Error())
}

func TestGetListNormalizesEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"count":    12,
			"next":     "http://example.com/api/widgets/?page=2",
			"previous": nil,
			"results":  []widget{{ID: 1, Name: "first"}, {ID: 2, Name: "second"}},
		})
	}))
	defer server.Close()

	client := rest.NewClient(server.URL, tokenstore.NewMemStore())
	list, err := rest.GetList[widget](context.Background(), client, "/api/widgets/")
	require.NoError(t, err)
	require.Equal(t, 12, list.Count)
	require.Len(t, list.Results, 2)
	require.Equal(t, "first", list.Results[0].Name)
}

func TestGetListNormalizesBareArray(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]widget{{ID: 3, Name: "third"}})
	}))
	defer server.Close()

	client := rest.NewClient(server.URL, tokenstore.NewMemStore())
	list, err := rest.GetList[widget](context.Background(), client, "/api/appointments/today/")
	require.NoError(t, err)
	require.Equal(t, 1, list.Count)
	require.Equal(t, "third", list.Results[0].Name)
}

func TestQuery(t *testing.T) {
	require.Equal(t, "", rest.Query(nil))
	require.Equal(t, "", rest.Query(map[string]string{"search": ""}))
	require.Equal(t, "?search=smith", rest.Query(map[string]string{"search": "smith"}))
}
