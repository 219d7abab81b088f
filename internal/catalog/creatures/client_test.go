package creatures

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/pokemon", r.URL.Path)
		assert.Equal(t, fmt.Sprint(PageSize), r.URL.Query().Get("limit"))
		assert.Equal(t, "400", r.URL.Query().Get("offset"))
		w.Write([]byte(`{"count":1302,"next":"n","previous":"p","results":[{"name":"pikachu","url":"u"}]}`))
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	page, err := c.List(context.Background(), 400)
	require.NoError(t, err)
	assert.Equal(t, 1302, page.Count)
	require.Len(t, page.Results, 1)
	assert.Equal(t, "pikachu", page.Results[0].Name)
}

func TestGet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/pokemon/pikachu":
			w.Write([]byte(`{
				"id":25,"name":"pikachu","height":4,"weight":60,"base_experience":112,
				"types":[{"slot":1,"type":{"name":"electric"}}],
				"stats":[{"base_stat":35,"stat":{"name":"hp"}}],
				"abilities":[{"ability":{"name":"static"},"is_hidden":false}]
			}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := New(srv.URL, nil)

	got, err := c.Get(context.Background(), "Pikachu")
	require.NoError(t, err, "lookup should be case-insensitive")
	assert.Equal(t, 25, got.ID)
	require.Len(t, got.Types, 1)
	assert.Equal(t, "electric", got.Types[0].Type.Name)

	_, err = c.Get(context.Background(), "missingno")
	assert.Error(t, err)
}
