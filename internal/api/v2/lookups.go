// internal/api/v2/lookups.go
package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// initLookupRoutes registers the lookup entity listing endpoints. These feed
// the submission form: available platforms, areas and rendering options.
func (c *Controller) initLookupRoutes() {
	c.Group.GET("/mosaic/satellites", c.ListSatellites)
	c.Group.GET("/mosaic/areas", c.ListAreas)
	c.Group.GET("/mosaic/compositors", c.ListCompositors)
	c.Group.GET("/mosaic/animation-types", c.ListAnimationTypes)
	c.Group.GET("/mosaic/result-types", c.ListResultTypes)
}

// ListSatellites returns all selectable imaging platforms.
func (c *Controller) ListSatellites(ctx echo.Context) error {
	satellites, err := c.DS.GetAllSatellites(ctx.Request().Context())
	if err != nil {
		return c.HandleError(ctx, err, "Failed to list satellites", errorStatus(err))
	}
	return ctx.JSON(http.StatusOK, satellites)
}

// ListAreas returns all selectable analysis regions.
func (c *Controller) ListAreas(ctx echo.Context) error {
	areas, err := c.DS.GetAllAreas(ctx.Request().Context())
	if err != nil {
		return c.HandleError(ctx, err, "Failed to list areas", errorStatus(err))
	}
	return ctx.JSON(http.StatusOK, areas)
}

// ListCompositors returns all selectable compositing methods.
func (c *Controller) ListCompositors(ctx echo.Context) error {
	compositors, err := c.DS.GetAllCompositors(ctx.Request().Context())
	if err != nil {
		return c.HandleError(ctx, err, "Failed to list compositors", errorStatus(err))
	}
	return ctx.JSON(http.StatusOK, compositors)
}

// ListAnimationTypes returns all selectable animated product outputs.
func (c *Controller) ListAnimationTypes(ctx echo.Context) error {
	animationTypes, err := c.DS.GetAllAnimationTypes(ctx.Request().Context())
	if err != nil {
		return c.HandleError(ctx, err, "Failed to list animation types", errorStatus(err))
	}
	return ctx.JSON(http.StatusOK, animationTypes)
}

// ListResultTypes returns all selectable result display types.
func (c *Controller) ListResultTypes(ctx echo.Context) error {
	resultTypes, err := c.DS.GetAllResultTypes(ctx.Request().Context())
	if err != nil {
		return c.HandleError(ctx, err, "Failed to list result types", errorStatus(err))
	}
	return ctx.JSON(http.StatusOK, resultTypes)
}
