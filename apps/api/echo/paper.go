package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/daftari/core/paper"
)

type paperApi struct {
	svc *paper.Service
}

func registerPaperAPI(g *echo.Group, svc *paper.Service) {
	api := paperApi{svc: svc}

	pg := g.Group("/papers")
	pg.POST("", api.create)
	pg.GET("", api.query)
	pg.GET("/types", api.queryTypes)

	// detail endpoints
	dg := pg.Group("/:id")
	dg.GET("", api.retrieve)
	dg.PUT("", api.update)
	dg.PATCH("", api.update)
	dg.DELETE("", api.destroy)
}

// Handlers

func (api *paperApi) create(ctx echo.Context) error {
	var data paper.NewPaper
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewPaper")
	}
	if err := data.Validate(ctx.Request().Context(), api.svc); err != nil {
		return err
	}

	ppr, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating paper")
	}
	return ctx.JSON(http.StatusCreated, ppr)
}

func (api *paperApi) query(ctx echo.Context) error {
	filter := new(paper.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []paper.Paper{})
	}
	filter.Clean()
	ordering := new(Ordering)
	ordering.Bind(ctx)

	papers, err := api.svc.Query(ctx.Request().Context(), filter, ordering.Orderings)
	if err != nil {
		return errors.Wrap(err, "querying papers")
	}
	if papers == nil {
		papers = []paper.Paper{}
	}
	return ctx.JSON(http.StatusOK, papers)
}

func (api *paperApi) queryTypes(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, paper.Types)
}

func (api *paperApi) retrieve(ctx echo.Context) error {
	ppr, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, ppr)
}

func (api *paperApi) update(ctx echo.Context) error {
	ppr, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}

	var data paper.UpdatePaper
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdatePaper")
	}
	if err = data.Validate(ctx.Request().Context(), ppr, api.svc); err != nil {
		return err
	}

	ppr, err = api.svc.Update(ctx.Request().Context(), ppr, data)
	if err != nil {
		return errors.Wrap(err, "updating paper")
	}
	return ctx.JSON(http.StatusOK, ppr)
}

// destroy deletes the paper along with its grades.
func (api *paperApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}
