package cli

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vkarpova/atlasinfo/internal/catalog/countries"
	"github.com/vkarpova/atlasinfo/internal/catalog/weather"
)

func loginAdmin(t *testing.T, app *App) {
	t.Helper()
	app.manager.EnsureAdminBootstrap(context.Background())
	restore := stubInputs(t, []string{"admin"}, []byte("admin123"))
	defer restore()
	require.NoError(t, app.Login(context.Background()))
}

func TestCountry_ShowsCapitalWeatherByCoords(t *testing.T) {
	silencePrintln(t)

	countriesSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/alpha/NOR", r.URL.Path)
		w.Write([]byte(`[{"name":{"common":"Norway"},"cca3":"NOR","flags":{"png":"no.png"},
			"capital":["Oslo"],"latlng":[62.0,10.0]}]`))
	}))
	defer countriesSrv.Close()

	var weatherQuery string
	weatherSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		weatherQuery = r.URL.RawQuery
		w.Write([]byte(`{"name":"Oslo","main":{"temp":4.5}}`))
	}))
	defer weatherSrv.Close()

	app := newTestApp(t)
	app.countries = countries.New(countriesSrv.URL, nil)
	app.weather = weather.New(weatherSrv.URL, "key", nil)
	loginAdmin(t, app)

	require.NoError(t, app.Country(context.Background(), "NOR"))
	assert.Contains(t, weatherQuery, "lat=62", "coordinates are preferred over the capital name")
}

func TestCountry_FallsBackToCapitalName(t *testing.T) {
	silencePrintln(t)

	countriesSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"name":{"common":"Norway"},"cca3":"NOR","flags":{"png":"no.png"},
			"capital":["Oslo"],"latlng":[62.0,10.0]}]`))
	}))
	defer countriesSrv.Close()

	var cities []string
	weatherSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		city := r.URL.Query().Get("q")
		if city == "" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		cities = append(cities, city)
		w.Write([]byte(`{"name":"Oslo","main":{"temp":4.5}}`))
	}))
	defer weatherSrv.Close()

	app := newTestApp(t)
	app.countries = countries.New(countriesSrv.URL, nil)
	app.weather = weather.New(weatherSrv.URL, "key", nil)
	loginAdmin(t, app)

	require.NoError(t, app.Country(context.Background(), "NOR"))
	assert.Equal(t, []string{"Oslo"}, cities, "city lookup runs when coordinates fail")
}
