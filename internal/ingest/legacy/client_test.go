package legacy

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient_RequiresCredentials(t *testing.T) {
	_, err := NewClient(nil, "", "key")
	assert.True(t, errors.Is(err, ErrMissingCredentials))

	_, err = NewClient(nil, "https://legacy.example.com", " ")
	assert.True(t, errors.Is(err, ErrMissingCredentials))
}

func TestClient_FetchContacts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/v1/contacts_master", r.URL.Path)
		assert.Equal(t, "not.is.null", r.URL.Query().Get("company_name"))
		assert.Equal(t, "50", r.URL.Query().Get("limit"))
		assert.Equal(t, contactsSelect, r.URL.Query().Get("select"))
		assert.Equal(t, "secret", r.Header.Get("apikey"))
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":"1","company_name":"Polk Plumbing","niche":"plumbing","phone":"8635550100"}]`))
	}))
	defer srv.Close()

	client, err := NewClient(srv.Client(), srv.URL+"/", "secret")
	require.NoError(t, err)

	contacts, err := client.FetchContacts(context.Background(), 50)
	require.NoError(t, err)
	require.Len(t, contacts, 1)
	assert.Equal(t, "Polk Plumbing", contacts[0].CompanyName)
	assert.Equal(t, "plumbing", contacts[0].Niche)
}

func TestClient_FetchContacts_DefaultLimitAndError(t *testing.T) {
	var gotLimit string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotLimit = r.URL.Query().Get("limit")
		http.Error(w, `{"message":"invalid key"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	client, err := NewClient(srv.Client(), srv.URL, "bad")
	require.NoError(t, err)

	_, err = client.FetchContacts(context.Background(), 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
	assert.Equal(t, "1000", gotLimit)
}
