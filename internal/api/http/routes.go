package httpapi

import (
	"errors"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-lookup/internal/geo"
	"github.com/i474232898/weather-lookup/internal/recent"
	"github.com/i474232898/weather-lookup/internal/weather"
)

var validate = validator.New()

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *weather.Service) {
	v1 := app.Group("/api/v1")

	v1.Get("/weather/city/:name", func(c *fiber.Ctx) error {
		q := parseCityParam(c)
		if err := validate.Struct(q); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		view, err := service.CityByName(c.UserContext(), q.Name)
		if err != nil {
			if errors.Is(err, weather.ErrCityNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "city not found")
			}
			return fiber.NewError(fiber.StatusBadGateway, "failed to fetch weather data")
		}

		return c.JSON(view)
	})

	v1.Get("/weather/coord", func(c *fiber.Ctx) error {
		coord, err := parseCoordQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		view, err := service.CityByCoord(c.UserContext(), coord)
		if err != nil {
			if errors.Is(err, geo.ErrInvalidCoordinate) {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
			return fiber.NewError(fiber.StatusBadGateway, "failed to fetch weather data")
		}

		return c.JSON(view)
	})

	v1.Post("/locations/select", func(c *fiber.Ctx) error {
		var req selectRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		sel, err := service.SelectLocation(c.UserContext(), req.toCoordinate())
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		return c.JSON(sel)
	})

	v1.Get("/recent", func(c *fiber.Ctx) error {
		searches, err := service.RecentSearches(c.UserContext())
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to load recent searches")
		}

		latest := make(map[string]weather.Current, len(searches))
		for _, s := range searches {
			if cur, err := service.Latest(s.Name); err == nil {
				latest[s.Name] = cur
			}
		}

		return c.JSON(fiber.Map{
			"searches": searches,
			"latest":   latest,
		})
	})

	v1.Post("/recent", func(c *fiber.Ctx) error {
		var req searchRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		searches, err := service.SaveSearch(c.UserContext(), req.Name)
		if err != nil {
			if errors.Is(err, recent.ErrEmptyName) {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to save recent search")
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"searches": searches})
	})
}

// cityQuery holds the path parameter identifying a place by name.
type cityQuery struct {
	Name string `validate:"required"`
}

func parseCityParam(c *fiber.Ctx) cityQuery {
	name := c.Params("name")
	if unescaped, err := url.PathUnescape(name); err == nil {
		name = unescaped
	}
	return cityQuery{Name: strings.TrimSpace(name)}
}

// coordQuery holds query parameters for a coordinate lookup.
type coordQuery struct {
	Lat float64 `validate:"gte=-90,lte=90"`
	Lon float64 `validate:"gte=-180,lte=180"`
}

func parseCoordQuery(c *fiber.Ctx) (geo.Coordinate, error) {
	latStr, lonStr := c.Query("lat"), c.Query("lon")
	if latStr == "" || lonStr == "" {
		return geo.Coordinate{}, errors.New("lat and lon query parameters are required")
	}

	var q coordQuery
	var err error
	if q.Lat, err = strconv.ParseFloat(latStr, 64); err != nil {
		return geo.Coordinate{}, errors.New("invalid lat")
	}
	if q.Lon, err = strconv.ParseFloat(lonStr, 64); err != nil {
		return geo.Coordinate{}, errors.New("invalid lon")
	}
	if err := validate.Struct(q); err != nil {
		return geo.Coordinate{}, err
	}

	return geo.Coordinate{Lat: q.Lat, Lng: q.Lon}, nil
}

// selectRequest is the body of a map selection.
type selectRequest struct {
	Lat *float64 `json:"lat" validate:"required,gte=-90,lte=90"`
	Lng *float64 `json:"lng" validate:"required,gte=-180,lte=180"`
}

func (r selectRequest) toCoordinate() geo.Coordinate {
	return geo.Coordinate{Lat: *r.Lat, Lng: *r.Lng}
}

// searchRequest is the body of a submitted search.
type searchRequest struct {
	Name string `json:"name" validate:"required"`
}
