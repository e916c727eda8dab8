package handler

import (
	"github.com/labstack/echo/v4"

	"sociogram/internal/adapter/api/middleware"
	"sociogram/internal/usecase"
	"sociogram/pkg/errors"
	"sociogram/pkg/response"
)

type CommentHandler struct {
	commentUseCase *usecase.CommentUseCase
}

func NewCommentHandler(commentUseCase *usecase.CommentUseCase) *CommentHandler {
	return &CommentHandler{commentUseCase: commentUseCase}
}

type createCommentRequest struct {
	Content string   `form:"content" json:"content" validate:"omitempty,max=2000"`
	Tags    []string `form:"tags" json:"tags"`
}

func (h *CommentHandler) create(c echo.Context, parentID string) error {
	var req createCommentRequest
	if err := c.Bind(&req); err != nil {
		return errors.BadRequest("Invalid request body", err)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	var uploads []usecase.AttachmentUpload
	if form, err := c.MultipartForm(); err == nil && form != nil {
		var closeAll func()
		uploads, closeAll, err = attachmentsFromForm(form.File["attachments"])
		if err != nil {
			return err
		}
		defer closeAll()
	}

	comment, err := h.commentUseCase.Create(c.Request().Context(), middleware.CurrentUser(c), c.Param("postId"), parentID, usecase.CreateCommentInput{
		Content:     req.Content,
		Tags:        req.Tags,
		Attachments: uploads,
	})
	if err != nil {
		return err
	}
	return response.Created(c, comment)
}

func (h *CommentHandler) Create(c echo.Context) error {
	return h.create(c, "")
}

// Reply nests under an existing comment, at most two levels below a top
// level comment.
func (h *CommentHandler) Reply(c echo.Context) error {
	return h.create(c, c.Param("commentId"))
}

type updateCommentRequest struct {
	Content string `json:"content" validate:"required,max=2000"`
}

func (h *CommentHandler) Update(c echo.Context) error {
	var req updateCommentRequest
	if err := c.Bind(&req); err != nil {
		return errors.BadRequest("Invalid request body", err)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if err := h.commentUseCase.Update(c.Request().Context(), middleware.CurrentUser(c), c.Param("commentId"), req.Content); err != nil {
		return err
	}
	return response.Success(c, nil)
}

func (h *CommentHandler) Freeze(c echo.Context) error {
	if err := h.commentUseCase.Freeze(c.Request().Context(), middleware.CurrentUser(c), c.Param("commentId")); err != nil {
		return err
	}
	return response.Success(c, nil)
}

func (h *CommentHandler) Delete(c echo.Context) error {
	if err := h.commentUseCase.Delete(c.Request().Context(), middleware.CurrentUser(c), c.Param("commentId")); err != nil {
		return err
	}
	return response.Success(c, nil)
}
