package handler

import (
	"mime/multipart"

	"github.com/labstack/echo/v4"

	"sociogram/internal/adapter/api/middleware"
	"sociogram/internal/domain/entity"
	"sociogram/internal/usecase"
	"sociogram/pkg/errors"
	"sociogram/pkg/response"
)

type PostHandler struct {
	postUseCase *usecase.PostUseCase
}

func NewPostHandler(postUseCase *usecase.PostUseCase) *PostHandler {
	return &PostHandler{postUseCase: postUseCase}
}

func attachmentsFromForm(files []*multipart.FileHeader) ([]usecase.AttachmentUpload, func(), error) {
	uploads := make([]usecase.AttachmentUpload, 0, len(files))
	var closers []multipart.File
	closeAll := func() {
		for _, f := range closers {
			f.Close()
		}
	}
	for _, file := range files {
		src, err := file.Open()
		if err != nil {
			closeAll()
			return nil, nil, errors.BadRequest("Failed to read uploaded file", err)
		}
		closers = append(closers, src)
		uploads = append(uploads, usecase.AttachmentUpload{
			Reader:      src,
			Size:        file.Size,
			Filename:    file.Filename,
			ContentType: file.Header.Get("Content-Type"),
		})
	}
	return uploads, closeAll, nil
}

type createPostRequest struct {
	Content       string   `form:"content" json:"content" validate:"omitempty,max=5000"`
	Availability  string   `form:"availability" json:"availability" validate:"omitempty,oneof=public friends only-me"`
	AllowComments string   `form:"allowComments" json:"allowComments" validate:"omitempty,oneof=allow deny"`
	Tags          []string `form:"tags" json:"tags" validate:"omitempty,dive,required"`
}

func (h *PostHandler) Create(c echo.Context) error {
	var req createPostRequest
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

	post, err := h.postUseCase.Create(c.Request().Context(), middleware.CurrentUser(c), usecase.CreatePostInput{
		Content:       req.Content,
		Availability:  entity.Availability(req.Availability),
		AllowComments: entity.AllowComments(req.AllowComments),
		Tags:          req.Tags,
		Attachments:   uploads,
	})
	if err != nil {
		return err
	}
	return response.Created(c, post)
}

type updatePostRequest struct {
	Content            string   `form:"content" json:"content" validate:"omitempty,max=5000"`
	Availability       string   `form:"availability" json:"availability" validate:"omitempty,oneof=public friends only-me"`
	AllowComments      string   `form:"allowComments" json:"allowComments" validate:"omitempty,oneof=allow deny"`
	AddedTags          []string `form:"addedTags" json:"addedTags"`
	RemovedTags        []string `form:"removedTags" json:"removedTags"`
	RemovedAttachments []string `form:"removedAttachments" json:"removedAttachments"`
}

func (h *PostHandler) Update(c echo.Context) error {
	var req updatePostRequest
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

	post, err := h.postUseCase.Update(c.Request().Context(), middleware.CurrentUser(c), c.Param("postId"), usecase.UpdatePostInput{
		Content:            req.Content,
		Availability:       entity.Availability(req.Availability),
		AllowComments:      entity.AllowComments(req.AllowComments),
		AddedTags:          req.AddedTags,
		RemovedTags:        req.RemovedTags,
		RemovedAttachments: req.RemovedAttachments,
		AddedAttachments:   uploads,
	})
	if err != nil {
		return err
	}
	return response.Success(c, post)
}

func (h *PostHandler) Get(c echo.Context) error {
	post, err := h.postUseCase.Get(c.Request().Context(), middleware.CurrentUser(c), c.Param("postId"))
	if err != nil {
		return err
	}
	return response.Success(c, post)
}

// Feed answers with the availability-scoped listing: paginated when page
// is numeric, the whole history when page is "all" or absent.
func (h *PostHandler) Feed(c echo.Context) error {
	listing, err := h.postUseCase.Feed(c.Request().Context(), middleware.CurrentUser(c), pageFromQuery(c))
	if err != nil {
		return err
	}
	return response.Success(c, listing)
}

func (h *PostHandler) Like(c echo.Context) error {
	post, err := h.postUseCase.Like(c.Request().Context(), middleware.CurrentUser(c), c.Param("postId"))
	if err != nil {
		return err
	}
	return response.Success(c, post)
}

func (h *PostHandler) Unlike(c echo.Context) error {
	post, err := h.postUseCase.Unlike(c.Request().Context(), middleware.CurrentUser(c), c.Param("postId"))
	if err != nil {
		return err
	}
	return response.Success(c, post)
}

func (h *PostHandler) Freeze(c echo.Context) error {
	if err := h.postUseCase.FreezePost(c.Request().Context(), middleware.CurrentUser(c), c.Param("postId")); err != nil {
		return err
	}
	return response.Success(c, nil)
}

func (h *PostHandler) Delete(c echo.Context) error {
	if err := h.postUseCase.Delete(c.Request().Context(), middleware.CurrentUser(c), c.Param("postId")); err != nil {
		return err
	}
	return response.Success(c, nil)
}

func (h *PostHandler) ListAll(c echo.Context) error {
	listing, err := h.postUseCase.ListAll(c.Request().Context(), pageFromQuery(c))
	if err != nil {
		return err
	}
	return response.Success(c, listing)
}
