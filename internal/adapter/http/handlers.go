package http

import (
	"log/slog"
	"net/http"

	"github.com/couchcryptid/ufo-sightings/internal/chart"
	"github.com/couchcryptid/ufo-sightings/internal/domain"
	"github.com/couchcryptid/ufo-sightings/internal/mapdata"
	"github.com/gin-gonic/gin"
)

type handlers struct {
	querier  domain.SightingQuerier
	geometry GeometrySource
	logger   *slog.Logger
}

// summary backs the map view's headline count and per-country strip.
type summary struct {
	Count     int               `json:"count"`
	Countries []chart.Frequency `json:"countries"`
}

func (h *handlers) register(api *gin.RouterGroup) {
	api.GET("/bounds", h.bounds)

	options := api.Group("/options")
	options.GET("/countries", h.countryOptions)
	options.GET("/dependent", h.dependentOptions)

	api.GET("/sightings", h.sightings)
	api.GET("/summary", h.summary)

	charts := api.Group("/charts")
	charts.GET("/countries", h.ranked(chart.ColumnCountry))
	charts.GET("/shapes", h.ranked(chart.ColumnShape))
	charts.GET("/season-shape", h.rowsView(func(rows []domain.Sighting) any {
		return chart.SeasonByShape(rows)
	}))
	charts.GET("/seasons", h.rowsView(func(rows []domain.Sighting) any {
		return chart.SeasonShare(rows)
	}))
	charts.GET("/years", h.rowsView(func(rows []domain.Sighting) any {
		return chart.YearSeries(rows)
	}))
	charts.GET("/months", h.rowsView(func(rows []domain.Sighting) any {
		return chart.MonthSeries(rows)
	}))

	maps := api.Group("/map")
	maps.GET("/markers", h.rowsView(func(rows []domain.Sighting) any {
		return mapdata.Markers(rows)
	}))
	maps.GET("/choropleth", h.choropleth)
}

func (h *handlers) bounds(c *gin.Context) {
	b, err := h.querier.Bounds(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *handlers) countryOptions(c *gin.Context) {
	f, ok := h.filter(c)
	if !ok {
		return
	}
	opts, err := h.querier.CountryOptions(c.Request.Context(), f)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, opts)
}

func (h *handlers) dependentOptions(c *gin.Context) {
	f, ok := h.filter(c)
	if !ok {
		return
	}
	opts, err := h.querier.DependentOptions(c.Request.Context(), f)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, opts)
}

func (h *handlers) sightings(c *gin.Context) {
	rows, ok := h.rows(c)
	if !ok {
		return
	}
	h.negotiate(c, http.StatusOK, domain.NewTable(rows))
}

func (h *handlers) summary(c *gin.Context) {
	rows, ok := h.rows(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, summary{
		Count:     len(rows),
		Countries: chart.Frequencies(rows, chart.ColumnCountry),
	})
}

func (h *handlers) ranked(column chart.Column) gin.HandlerFunc {
	return func(c *gin.Context) {
		mode, err := chart.ParseMode(c.Query("mode"))
		if err != nil {
			h.fail(c, err)
			return
		}
		rows, ok := h.rows(c)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, chart.Ranked(rows, column, mode))
	}
}

// rowsView serves a pure projection of the filtered rows.
func (h *handlers) rowsView(view func([]domain.Sighting) any) gin.HandlerFunc {
	return func(c *gin.Context) {
		rows, ok := h.rows(c)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, view(rows))
	}
}

func (h *handlers) choropleth(c *gin.Context) {
	rows, ok := h.rows(c)
	if !ok {
		return
	}
	geometry, err := h.geometry.Countries(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	out, err := mapdata.BuildChoropleth(rows, geometry)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// filter binds the request's filter against the store's bounds. On failure the
// error response is already written.
func (h *handlers) filter(c *gin.Context) (domain.Filter, bool) {
	b, err := h.querier.Bounds(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return domain.Filter{}, false
	}
	f, err := bindFilter(c, b)
	if err != nil {
		h.fail(c, err)
		return domain.Filter{}, false
	}
	return f, true
}

func (h *handlers) rows(c *gin.Context) ([]domain.Sighting, bool) {
	f, ok := h.filter(c)
	if !ok {
		return nil, false
	}
	rows, err := h.querier.Sightings(c.Request.Context(), f)
	if err != nil {
		h.fail(c, err)
		return nil, false
	}
	return rows, true
}
