package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/announcement"
	"github.com/trezcool/darasa/core/course"
	"github.com/trezcool/darasa/core/user"
)

type announcementApi struct {
	svc       *announcement.Service
	courseSvc *course.Service
	userSvc   *user.Service
	conf      *core.Config
}

func registerAnnouncementAPI(
	g *echo.Group,
	jwt echo.MiddlewareFunc,
	svc *announcement.Service,
	courseSvc *course.Service,
	userSvc *user.Service,
	conf *core.Config,
) {
	api := announcementApi{svc: svc, courseSvc: courseSvc, userSvc: userSvc, conf: conf}

	ag := g.Group("/announcements", jwt)
	ag.POST("", api.create)
	ag.POST("/:id/comments", api.addComment)
	ag.GET("/:id/comments", api.listComments)

	g.GET("/courses/:id/announcements", api.listByCourse, jwt)
	g.DELETE("/comments/:id", api.deleteComment, jwt)
}

// Handlers

func (api *announcementApi) create(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	var data announcement.NewAnnouncement
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAnnouncement")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	ann, err := api.svc.Create(ctx.Request().Context(), usr, data)
	if err != nil {
		return errors.Wrap(err, "creating announcement")
	}
	return ctx.JSON(http.StatusCreated, ann)
}

func (api *announcementApi) listByCourse(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	id, err := pathID(ctx)
	if err != nil {
		return err
	}

	ok, err := api.courseSvc.IsMember(ctx.Request().Context(), id, usr)
	if err != nil {
		return errors.Wrap(err, "checking course membership")
	}
	if !ok {
		return course.ErrNotMember
	}

	anns, err := api.svc.ListByCourse(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "listing announcements")
	}
	return ctx.JSON(http.StatusOK, anns)
}

func (api *announcementApi) addComment(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	id, err := pathID(ctx)
	if err != nil {
		return err
	}

	var data announcement.NewComment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewComment")
	}
	data.AnnouncementID = id
	if err := data.Validate(); err != nil {
		return err
	}

	cmt, err := api.svc.AddComment(ctx.Request().Context(), usr, data)
	if err != nil {
		return errors.Wrap(err, "adding comment")
	}
	return ctx.JSON(http.StatusCreated, cmt)
}

func (api *announcementApi) listComments(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	id, err := pathID(ctx)
	if err != nil {
		return err
	}

	ann, err := api.svc.GetByID(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "finding announcement by ID")
	}
	ok, err := api.courseSvc.IsMember(ctx.Request().Context(), ann.CourseID, usr)
	if err != nil {
		return errors.Wrap(err, "checking course membership")
	}
	if !ok {
		return course.ErrNotMember
	}

	cmts, err := api.svc.ListComments(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "listing comments")
	}
	return ctx.JSON(http.StatusOK, cmts)
}

func (api *announcementApi) deleteComment(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	id, err := pathID(ctx)
	if err != nil {
		return err
	}

	if err = api.svc.DeleteComment(ctx.Request().Context(), usr, id); err != nil {
		return errors.Wrap(err, "deleting comment")
	}
	return ctx.NoContent(http.StatusNoContent)
}
