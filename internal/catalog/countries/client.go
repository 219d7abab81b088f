// Package countries is a client for the REST Countries v3.1 API.
package countries

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"
)

// DefaultBaseURL is the public REST Countries endpoint.
const DefaultBaseURL = "https://restcountries.com/v3.1"

// DefaultLegacyBaseURL is the older v2 endpoint, tried when the v3.1 list
// request fails.
const DefaultLegacyBaseURL = "https://restcountries.com/v2"

// listFields keeps list payloads small; detail requests fetch everything.
const listFields = "name,cca2,cca3,flags,region,subregion,capital,population"

// legacyListFields is the v2 equivalent of listFields.
const legacyListFields = "name,alpha3Code,flags,region,subregion,capital,population"

// Name is the nested country name object.
type Name struct {
	Common   string `json:"common"`
	Official string `json:"official"`
}

// Flags carries the flag image URLs.
type Flags struct {
	PNG string `json:"png"`
	SVG string `json:"svg"`
	Alt string `json:"alt,omitempty"`
}

// Currency describes one national currency.
type Currency struct {
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}

// Country is a REST Countries record. Detail requests fill all fields;
// list requests only the subset of listFields.
type Country struct {
	Name       Name                `json:"name"`
	CCA2       string              `json:"cca2"`
	CCA3       string              `json:"cca3"`
	Flags      Flags               `json:"flags"`
	Region     string              `json:"region"`
	Subregion  string              `json:"subregion,omitempty"`
	Capital    []string            `json:"capital,omitempty"`
	Population int64               `json:"population"`
	Area       float64             `json:"area,omitempty"`
	Languages  map[string]string   `json:"languages,omitempty"`
	Currencies map[string]Currency `json:"currencies,omitempty"`
	LatLng     []float64           `json:"latlng,omitempty"`
	Timezones  []string            `json:"timezones,omitempty"`
	Borders    []string            `json:"borders,omitempty"`
}

// valid filters out records the UI cannot render.
func (c Country) valid() bool {
	return c.Name.Common != "" && c.CCA3 != "" && c.Flags.PNG != ""
}

// Client talks to the REST Countries API.
type Client struct {
	baseURL   string
	legacyURL string
	hc        *http.Client
}

// New builds a client. Empty baseURL selects DefaultBaseURL; nil hc gets a
// client with a sane timeout.
func New(baseURL string, hc *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if hc == nil {
		hc = &http.Client{Timeout: 20 * time.Second}
	}
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		legacyURL: DefaultLegacyBaseURL,
		hc:        hc,
	}
}

// All returns every country, invalid records skipped, sorted by common name.
// When the v3.1 list request fails the v2 endpoint is tried before giving up.
func (c *Client) All(ctx context.Context) ([]Country, error) {
	var raw []Country
	if err := c.getJSON(ctx, c.baseURL, "/all?fields="+listFields, &raw); err != nil {
		legacy, lerr := c.allLegacy(ctx)
		if lerr != nil {
			return nil, fmt.Errorf("list countries: %w", err)
		}
		raw = legacy
	}

	countries := raw[:0]
	for _, country := range raw {
		if country.valid() {
			countries = append(countries, country)
		}
	}

	sort.Slice(countries, func(i, j int) bool {
		return strings.ToLower(countries[i].Name.Common) < strings.ToLower(countries[j].Name.Common)
	})
	return countries, nil
}

// legacyCountry is a v2 record; the v2 payload is flatter than v3.
type legacyCountry struct {
	Name       string `json:"name"`
	Alpha3Code string `json:"alpha3Code"`
	Flags      Flags  `json:"flags"`
	Region     string `json:"region"`
	Subregion  string `json:"subregion"`
	Capital    string `json:"capital"`
	Population int64  `json:"population"`
}

func (c *Client) allLegacy(ctx context.Context) ([]Country, error) {
	var raw []legacyCountry
	if err := c.getJSON(ctx, c.legacyURL, "/all?fields="+legacyListFields, &raw); err != nil {
		return nil, err
	}

	countries := make([]Country, 0, len(raw))
	for _, lc := range raw {
		country := Country{
			Name:       Name{Common: lc.Name, Official: lc.Name},
			CCA3:       lc.Alpha3Code,
			Flags:      lc.Flags,
			Region:     lc.Region,
			Subregion:  lc.Subregion,
			Population: lc.Population,
		}
		if lc.Capital != "" {
			country.Capital = []string{lc.Capital}
		}
		countries = append(countries, country)
	}
	return countries, nil
}

// Search looks countries up by name. Terms shorter than two characters and
// not-found responses both yield an empty result rather than an error.
func (c *Client) Search(ctx context.Context, term string) ([]Country, error) {
	term = strings.TrimSpace(term)
	if len(term) < 2 {
		return nil, nil
	}

	path := "/name/" + url.PathEscape(term) + "?fields=" + listFields
	var raw []Country
	if err := c.getJSON(ctx, c.baseURL, path, &raw); err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("search countries %q: %w", term, err)
	}

	sort.Slice(raw, func(i, j int) bool {
		return strings.ToLower(raw[i].Name.Common) < strings.ToLower(raw[j].Name.Common)
	})
	return raw, nil
}

// ByCode fetches one country by its cca3 (or cca2) code. The API answers
// with a single-element array.
func (c *Client) ByCode(ctx context.Context, code string) (*Country, error) {
	var raw []Country
	if err := c.getJSON(ctx, c.baseURL, "/alpha/"+url.PathEscape(code), &raw); err != nil {
		return nil, fmt.Errorf("country %q: %w", code, err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("country %q: %w", code, errNotFound)
	}
	return &raw[0], nil
}

var errNotFound = errors.New("not found")

type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("unexpected status %d", e.code)
}

func isNotFound(err error) bool {
	var se *statusError
	return errors.As(err, &se) && se.code == http.StatusNotFound
}

func (c *Client) getJSON(ctx context.Context, base, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+path, nil)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("get: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &statusError{code: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}
