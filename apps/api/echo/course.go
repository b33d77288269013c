package echoapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/course"
	"github.com/trezcool/darasa/core/user"
)

type courseApi struct {
	svc     *course.Service
	userSvc *user.Service
	conf    *core.Config
}

func registerCourseAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *course.Service, userSvc *user.Service, conf *core.Config) {
	api := courseApi{svc: svc, userSvc: userSvc, conf: conf}

	cg := g.Group("/courses", jwt)
	cg.POST("", api.create)
	cg.GET("", api.list)
	cg.POST("/join", api.join)
	cg.GET("/:id", api.retrieve)
	cg.GET("/:id/students", api.listStudents)
	cg.POST("/:id/teachers", api.addTeacher)
}

// Handlers

func (api *courseApi) create(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	var data course.NewCourse
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewCourse")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	crs, err := api.svc.Create(ctx.Request().Context(), usr, data)
	if err != nil {
		return errors.Wrap(err, "creating course")
	}
	return ctx.JSON(http.StatusCreated, crs)
}

func (api *courseApi) list(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	courses, err := api.svc.ListForUser(ctx.Request().Context(), usr)
	if err != nil {
		return errors.Wrap(err, "listing courses")
	}
	return ctx.JSON(http.StatusOK, courses)
}

func (api *courseApi) join(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	var data course.JoinCourse
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to JoinCourse")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	crs, err := api.svc.Join(ctx.Request().Context(), usr, data)
	if err != nil {
		return errors.Wrap(err, "joining course")
	}
	return ctx.JSON(http.StatusOK, crs)
}

func (api *courseApi) retrieve(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	id, err := pathID(ctx)
	if err != nil {
		return err
	}

	crs, err := api.svc.GetByID(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "finding course by ID")
	}

	ok, err := api.svc.IsMember(ctx.Request().Context(), crs.ID, usr)
	if err != nil {
		return errors.Wrap(err, "checking course membership")
	}
	if !ok {
		return course.ErrNotMember
	}
	return ctx.JSON(http.StatusOK, crs)
}

func (api *courseApi) listStudents(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	id, err := pathID(ctx)
	if err != nil {
		return err
	}

	if err = api.svc.CheckCourseTeacher(ctx.Request().Context(), id, usr); err != nil {
		return err
	}

	students, err := api.svc.ListStudents(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "listing course students")
	}
	return ctx.JSON(http.StatusOK, students)
}

func (api *courseApi) addTeacher(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	id, err := pathID(ctx)
	if err != nil {
		return err
	}

	var data AddTeacherRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to AddTeacherRequest")
	}
	if err := core.Validate.Struct(&data); err != nil {
		return err
	}

	target, err := api.userSvc.GetByID(ctx.Request().Context(), data.UserID)
	if err != nil {
		return errors.Wrap(err, "finding target user")
	}

	if err = api.svc.AddTeacher(ctx.Request().Context(), usr, id, target); err != nil {
		return errors.Wrap(err, "adding course teacher")
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: "teacher added to course"})
}

// pathID parses the ":id" path param.
func pathID(ctx echo.Context) (int, error) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return 0, errHttpNotFound
	}
	return id, nil
}
