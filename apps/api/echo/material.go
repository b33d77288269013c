package echoapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/material"
	"github.com/trezcool/darasa/core/user"
)

type materialApi struct {
	svc     *material.Service
	userSvc *user.Service
	conf    *core.Config
}

func registerMaterialAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *material.Service, userSvc *user.Service, conf *core.Config) {
	api := materialApi{svc: svc, userSvc: userSvc, conf: conf}

	mg := g.Group("/materials", jwt)
	mg.POST("", api.upload)

	g.GET("/courses/:id/materials", api.listByCourse, jwt)
}

// Handlers

// upload accepts a multipart form: course_id, title and a mandatory "file".
func (api *materialApi) upload(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	courseID, _ := strconv.Atoi(ctx.FormValue("course_id"))
	data := material.NewMaterial{
		CourseID: courseID,
		Title:    ctx.FormValue("title"),
	}
	if fh, err := ctx.FormFile("file"); err == nil {
		f, err := fh.Open()
		if err != nil {
			return errors.Wrap(err, "opening uploaded file")
		}
		defer func() { _ = f.Close() }()
		data.File = &core.FileUpload{Name: fh.Filename, Size: fh.Size, Content: f}
	}
	if err := data.Validate(); err != nil {
		return err
	}

	mat, err := api.svc.Upload(ctx.Request().Context(), usr, data)
	if err != nil {
		return errors.Wrap(err, "uploading material")
	}
	return ctx.JSON(http.StatusCreated, mat)
}

func (api *materialApi) listByCourse(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	id, err := pathID(ctx)
	if err != nil {
		return err
	}

	mats, err := api.svc.ListByCourse(ctx.Request().Context(), usr, id)
	if err != nil {
		return errors.Wrap(err, "listing materials")
	}
	return ctx.JSON(http.StatusOK, mats)
}
