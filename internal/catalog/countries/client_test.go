package countries

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAll(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/all", r.URL.Path)
		assert.Equal(t, listFields, r.URL.Query().Get("fields"))
		w.Write([]byte(`[
			{"name":{"common":"Sweden"},"cca3":"SWE","flags":{"png":"se.png"}},
			{"name":{"common":""},"cca3":"XXX","flags":{"png":"x.png"}},
			{"name":{"common":"austria"},"cca3":"AUT","flags":{"png":"at.png"}},
			{"name":{"common":"Broken"},"cca3":"","flags":{"png":"b.png"}}
		]`))
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	got, err := c.All(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2, "invalid records should be filtered out")
	assert.Equal(t, "austria", got[0].Name.Common, "sorted case-insensitively")
	assert.Equal(t, "Sweden", got[1].Name.Common)
}

func TestAll_FallsBackToLegacyEndpoint(t *testing.T) {
	primary := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer primary.Close()

	legacy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/all", r.URL.Path)
		assert.Equal(t, legacyListFields, r.URL.Query().Get("fields"))
		w.Write([]byte(`[
			{"name":"Norway","alpha3Code":"NOR","flags":{"png":"no.png"},"region":"Europe","capital":"Oslo","population":5400000},
			{"name":"Chile","alpha3Code":"CHL","flags":{"png":"cl.png"},"region":"Americas","population":19000000}
		]`))
	}))
	defer legacy.Close()

	c := New(primary.URL, nil)
	c.legacyURL = legacy.URL

	got, err := c.All(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Chile", got[0].Name.Common)
	assert.Empty(t, got[0].Capital)
	assert.Equal(t, "Norway", got[1].Name.Common)
	assert.Equal(t, []string{"Oslo"}, got[1].Capital, "v2 capital is a single string")
}

func TestAll_ErrorWhenBothEndpointsFail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	c.legacyURL = srv.URL

	_, err := c.All(context.Background())
	require.Error(t, err)
}

func TestSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/name/ger":
			w.Write([]byte(`[{"name":{"common":"Germany"},"cca3":"DEU","flags":{"png":"de.png"}}]`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := New(srv.URL, nil)

	tests := []struct {
		name string
		term string
		want int
	}{
		{"match", "ger", 1},
		{"no match yields empty, not error", "zzz", 0},
		{"too short", "g", 0},
		{"blank", "  ", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Search(context.Background(), tt.term)
			require.NoError(t, err)
			assert.Len(t, got, tt.want)
		})
	}
}

func TestByCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/alpha/NOR":
			w.Write([]byte(`[{"name":{"common":"Norway"},"cca3":"NOR","flags":{"png":"no.png"}}]`))
		case "/alpha/EMP":
			w.Write([]byte(`[]`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := New(srv.URL, nil)

	got, err := c.ByCode(context.Background(), "NOR")
	require.NoError(t, err)
	assert.Equal(t, "Norway", got.Name.Common)

	_, err = c.ByCode(context.Background(), "EMP")
	assert.ErrorIs(t, err, errNotFound)

	_, err = c.ByCode(context.Background(), "ZZZ")
	assert.Error(t, err)
}
