package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/vkarpova/atlasinfo/internal/catalog/countries"
	"github.com/vkarpova/atlasinfo/internal/catalog/creatures"
	"github.com/vkarpova/atlasinfo/internal/catalog/weather"
	"github.com/vkarpova/atlasinfo/internal/guard"
)

// requireAuth checks the auth guard and reports the redirect the front end
// would perform. Returns false when the command must not run.
func (a *App) requireAuth(ctx context.Context) bool {
	d := guard.Auth(ctx, a.manager)
	if !d.Allowed {
		printlnFn("Please log in first (redirect: " + d.RedirectTo + ")")
		return false
	}
	return true
}

// Countries lists all countries, or searches by name when term is given.
func (a *App) Countries(ctx context.Context, term string) error {
	if !a.requireAuth(ctx) {
		return nil
	}

	var (
		list []countries.Country
		err  error
	)
	if term == "" {
		list, err = a.countries.All(ctx)
	} else {
		list, err = a.countries.Search(ctx, term)
	}
	if err != nil {
		a.log.Warn(ctx, "country lookup failed", "error", err)
		return err
	}
	if len(list) == 0 {
		printlnFn("No countries found")
		return nil
	}
	for _, c := range list {
		printlnFn(fmt.Sprintf("%-4s %s (%s)", c.CCA3, c.Name.Common, c.Region))
	}
	return nil
}

// Country shows one country by its alpha code.
func (a *App) Country(ctx context.Context, code string) error {
	if !a.requireAuth(ctx) {
		return nil
	}

	c, err := a.countries.ByCode(ctx, code)
	if err != nil {
		printlnFn("Country not found:", code)
		return err
	}
	printlnFn(c.Name.Common + " (" + c.Name.Official + ")")
	printlnFn("Region:     " + c.Region + " / " + c.Subregion)
	printlnFn("Capital:    " + strings.Join(c.Capital, ", "))
	printlnFn(fmt.Sprintf("Population: %d", c.Population))
	for _, cur := range c.Currencies {
		printlnFn("Currency:   " + cur.Name + " (" + cur.Symbol + ")")
	}
	a.printCapitalWeather(ctx, c)
	return nil
}

// printCapitalWeather appends current weather for the capital to the country
// detail. Coordinates are tried first, then the capital name; a miss does not
// fail the command.
func (a *App) printCapitalWeather(ctx context.Context, c *countries.Country) {
	if len(c.Capital) == 0 {
		return
	}

	var (
		w   *weather.Data
		err error
	)
	if len(c.LatLng) >= 2 {
		w, err = a.weather.ByCoords(ctx, c.LatLng[0], c.LatLng[1])
	}
	if w == nil {
		w, err = a.weather.ByCity(ctx, c.Capital[0])
	}
	if err != nil {
		a.log.Warn(ctx, "capital weather lookup failed", "capital", c.Capital[0], "error", err)
		return
	}
	printlnFn(fmt.Sprintf("Weather:    %s %.1f°C", c.Capital[0], w.Main.Temp))
}

// Weather prints current weather for a city.
func (a *App) Weather(ctx context.Context, city string) error {
	if !a.requireAuth(ctx) {
		return nil
	}

	w, err := a.weather.ByCity(ctx, city)
	if err != nil {
		printlnFn("Weather lookup failed for", city)
		return err
	}
	desc := ""
	if len(w.Weather) > 0 {
		desc = w.Weather[0].Description
	}
	printlnFn(fmt.Sprintf("%s, %s: %.1f°C (feels like %.1f°C), %s", w.Name, w.Sys.Country, w.Main.Temp, w.Main.FeelsLike, desc))
	printlnFn(fmt.Sprintf("Humidity %d%%, wind %.1f m/s", w.Main.Humidity, w.Wind.Speed))
	return nil
}

// Creatures lists one page of the creature index. Pages are 1-based.
func (a *App) Creatures(ctx context.Context, page int) error {
	if !a.requireAuth(ctx) {
		return nil
	}

	offset := (page - 1) * creatures.PageSize
	res, err := a.creatures.List(ctx, offset)
	if err != nil {
		a.log.Warn(ctx, "creature list failed", "error", err)
		return err
	}
	for i, entry := range res.Results {
		printlnFn(fmt.Sprintf("%4d %s", offset+i+1, entry.Name))
	}
	printlnFn(fmt.Sprintf("Page %d, %d creatures total", page, res.Count))
	return nil
}

// Creature shows one creature by name or numeric id.
func (a *App) Creature(ctx context.Context, name string) error {
	if !a.requireAuth(ctx) {
		return nil
	}

	cr, err := a.creatures.Get(ctx, name)
	if err != nil {
		printlnFn("Creature not found:", name)
		return err
	}
	printlnFn(fmt.Sprintf("#%d %s", cr.ID, cr.Name))
	printlnFn(fmt.Sprintf("Height %d, weight %d, base experience %d", cr.Height, cr.Weight, cr.BaseExperience))
	var types []string
	for _, tp := range cr.Types {
		types = append(types, tp.Type.Name)
	}
	printlnFn("Types: " + strings.Join(types, ", "))
	for _, st := range cr.Stats {
		printlnFn(fmt.Sprintf("  %-16s %d", st.Stat.Name, st.BaseStat))
	}
	return nil
}
