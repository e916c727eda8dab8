package handler

import (
	"github.com/labstack/echo/v4"

	"sociogram/internal/adapter/api/middleware"
	"sociogram/internal/domain/entity"
	"sociogram/internal/domain/repository"
	"sociogram/internal/usecase"
	"sociogram/pkg/errors"
	"sociogram/pkg/response"
	"sociogram/pkg/utils"
)

type UserHandler struct {
	userUseCase *usecase.UserUseCase
}

func NewUserHandler(userUseCase *usecase.UserUseCase) *UserHandler {
	return &UserHandler{userUseCase: userUseCase}
}

func (h *UserHandler) Profile(c echo.Context) error {
	result, err := h.userUseCase.Profile(c.Request().Context(), middleware.CurrentUser(c))
	if err != nil {
		return err
	}
	return response.Success(c, result)
}

func (h *UserHandler) SharedProfile(c echo.Context) error {
	user, err := h.userUseCase.GetShared(c.Request().Context(), c.Param("profileId"))
	if err != nil {
		return err
	}
	return response.Success(c, user)
}

type updateBasicInfoRequest struct {
	Username string `json:"username" validate:"omitempty,min=2,max=32"`
	Phone    string `json:"phone" validate:"omitempty,e164"`
	Bio      string `json:"bio" validate:"omitempty,max=280"`
}

func (h *UserHandler) UpdateBasicInfo(c echo.Context) error {
	var req updateBasicInfoRequest
	if err := c.Bind(&req); err != nil {
		return errors.BadRequest("Invalid request body", err)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if err := h.userUseCase.UpdateBasicInfo(c.Request().Context(), middleware.CurrentUser(c).ID, usecase.UpdateBasicInfoInput{
		Username: req.Username,
		Phone:    req.Phone,
		Bio:      req.Bio,
	}); err != nil {
		return err
	}
	return response.Success(c, nil)
}

type updatePasswordRequest struct {
	OldPassword     string `json:"oldPassword" validate:"required"`
	Password        string `json:"password" validate:"required,min=8"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
}

func (h *UserHandler) UpdatePassword(c echo.Context) error {
	var req updatePasswordRequest
	if err := c.Bind(&req); err != nil {
		return errors.BadRequest("Invalid request body", err)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if err := h.userUseCase.UpdatePassword(c.Request().Context(), middleware.CurrentUser(c), req.OldPassword, req.Password); err != nil {
		return err
	}
	return response.Success(c, nil)
}

type profileImageRequest struct {
	Filename string `json:"filename" validate:"required"`
}

func (h *UserHandler) ProfileImageUploadURL(c echo.Context) error {
	var req profileImageRequest
	if err := c.Bind(&req); err != nil {
		return errors.BadRequest("Invalid request body", err)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	url, err := h.userUseCase.ProfileImageUploadURL(c.Request().Context(), middleware.CurrentUser(c), req.Filename)
	if err != nil {
		return err
	}
	return response.Success(c, map[string]string{"uploadUrl": url})
}

func (h *UserHandler) ConfirmProfileImage(c echo.Context) error {
	if err := h.userUseCase.ConfirmProfileImage(c.Request().Context(), middleware.CurrentUser(c)); err != nil {
		return err
	}
	return response.Success(c, nil)
}

func (h *UserHandler) UploadCoverImages(c echo.Context) error {
	form, err := c.MultipartForm()
	if err != nil {
		return errors.BadRequest("Expected multipart form", err)
	}
	files := form.File["attachments"]
	if len(files) == 0 {
		return errors.BadRequest("No files uploaded", nil)
	}

	uploads := make([]usecase.CoverUpload, 0, len(files))
	for _, file := range files {
		src, err := file.Open()
		if err != nil {
			return errors.BadRequest("Failed to read uploaded file", err)
		}
		defer src.Close()
		uploads = append(uploads, usecase.CoverUpload{
			Reader:      src,
			Size:        file.Size,
			Filename:    file.Filename,
			ContentType: file.Header.Get("Content-Type"),
		})
	}

	keys, err := h.userUseCase.UploadCoverImages(c.Request().Context(), middleware.CurrentUser(c), uploads)
	if err != nil {
		return err
	}
	return response.Created(c, map[string][]string{"coverImageKeys": keys})
}

func (h *UserHandler) SendFriendRequest(c echo.Context) error {
	request, err := h.userUseCase.SendFriendRequest(c.Request().Context(), middleware.CurrentUser(c), c.Param("profileId"))
	if err != nil {
		return err
	}
	return response.Created(c, request)
}

func (h *UserHandler) AcceptFriendRequest(c echo.Context) error {
	if err := h.userUseCase.AcceptFriendRequest(c.Request().Context(), middleware.CurrentUser(c), c.Param("requestId")); err != nil {
		return err
	}
	return response.Success(c, nil)
}

func pageFromQuery(c echo.Context) repository.Page {
	q := utils.GetPageQuery(c)
	if q.All {
		return repository.PageAll()
	}
	return repository.PageOf(q.Page, q.Size)
}

func (h *UserHandler) ListUsers(c echo.Context) error {
	listing, err := h.userUseCase.ListUsers(c.Request().Context(), pageFromQuery(c))
	if err != nil {
		return err
	}
	return response.Success(c, listing)
}

func (h *UserHandler) FreezeAccount(c echo.Context) error {
	if err := h.userUseCase.FreezeAccount(c.Request().Context(), middleware.CurrentUser(c), c.Param("userId")); err != nil {
		return err
	}
	return response.Success(c, nil)
}

func (h *UserHandler) RestoreAccount(c echo.Context) error {
	if err := h.userUseCase.RestoreAccount(c.Request().Context(), middleware.CurrentUser(c), c.Param("userId")); err != nil {
		return err
	}
	return response.Success(c, nil)
}

func (h *UserHandler) BlockAccount(c echo.Context) error {
	if err := h.userUseCase.BlockAccount(c.Request().Context(), middleware.CurrentUser(c), c.Param("userId")); err != nil {
		return err
	}
	return response.Success(c, nil)
}

type changeRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=user admin"`
}

func (h *UserHandler) ChangeRole(c echo.Context) error {
	var req changeRoleRequest
	if err := c.Bind(&req); err != nil {
		return errors.BadRequest("Invalid request body", err)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if err := h.userUseCase.ChangeRole(c.Request().Context(), middleware.CurrentUser(c), c.Param("userId"), entity.Role(req.Role)); err != nil {
		return err
	}
	return response.Success(c, nil)
}

func (h *UserHandler) DeleteAccount(c echo.Context) error {
	if err := h.userUseCase.DeleteAccount(c.Request().Context(), middleware.CurrentUser(c), c.Param("userId")); err != nil {
		return err
	}
	return response.Success(c, nil)
}
