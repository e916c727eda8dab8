package handler

import (
	"github.com/labstack/echo/v4"

	"sociogram/internal/adapter/api/middleware"
	"sociogram/internal/usecase"
	"sociogram/pkg/errors"
	"sociogram/pkg/response"
	"sociogram/pkg/utils"
)

type ChatHandler struct {
	chatUseCase *usecase.ChatUseCase
}

func NewChatHandler(chatUseCase *usecase.ChatUseCase) *ChatHandler {
	return &ChatHandler{chatUseCase: chatUseCase}
}

// GetDirect returns the conversation with another user. page and size
// select a window counted back from the newest message.
func (h *ChatHandler) GetDirect(c echo.Context) error {
	page, size := utils.GetWindowQuery(c)
	chat, err := h.chatUseCase.GetDirect(c.Request().Context(), middleware.CurrentUser(c), c.Param("userId"), page, size)
	if err != nil {
		return err
	}
	return response.Success(c, chat)
}

func (h *ChatHandler) GetGroup(c echo.Context) error {
	page, size := utils.GetWindowQuery(c)
	chat, err := h.chatUseCase.GetGroup(c.Request().Context(), middleware.CurrentUser(c), c.Param("groupId"), page, size)
	if err != nil {
		return err
	}
	return response.Success(c, chat)
}

type createGroupRequest struct {
	Group        string   `json:"group" validate:"required,min=2,max=64"`
	Participants []string `json:"participants" validate:"required,min=1,dive,required"`
}

func (h *ChatHandler) CreateGroup(c echo.Context) error {
	var req createGroupRequest
	if err := c.Bind(&req); err != nil {
		return errors.BadRequest("Invalid request body", err)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	chat, err := h.chatUseCase.CreateGroup(c.Request().Context(), middleware.CurrentUser(c), usecase.CreateGroupInput{
		Group:        req.Group,
		Participants: req.Participants,
	})
	if err != nil {
		return err
	}
	return response.Created(c, chat)
}

func (h *ChatHandler) UploadGroupImage(c echo.Context) error {
	file, err := c.FormFile("attachment")
	if err != nil {
		return errors.BadRequest("Expected an attachment", err)
	}
	src, err := file.Open()
	if err != nil {
		return errors.BadRequest("Failed to read uploaded file", err)
	}
	defer src.Close()

	key, err := h.chatUseCase.UploadGroupImage(c.Request().Context(), middleware.CurrentUser(c), c.Param("groupId"),
		src, file.Size, file.Filename, file.Header.Get("Content-Type"))
	if err != nil {
		return err
	}
	return response.Created(c, map[string]string{"groupImageKey": key})
}

type sendMessageRequest struct {
	Content string `json:"content" validate:"required,max=2000"`
}

// SendDirect is the HTTP path for sending a message; the same flow runs
// over the realtime channel.
func (h *ChatHandler) SendDirect(c echo.Context) error {
	var req sendMessageRequest
	if err := c.Bind(&req); err != nil {
		return errors.BadRequest("Invalid request body", err)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	message, err := h.chatUseCase.SendDirect(c.Request().Context(), middleware.CurrentUser(c), usecase.DirectMessageInput{
		Content: req.Content,
		SendTo:  c.Param("userId"),
	})
	if err != nil {
		return err
	}
	return response.Created(c, message)
}

func (h *ChatHandler) SendGroup(c echo.Context) error {
	var req sendMessageRequest
	if err := c.Bind(&req); err != nil {
		return errors.BadRequest("Invalid request body", err)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	message, err := h.chatUseCase.SendGroup(c.Request().Context(), middleware.CurrentUser(c), usecase.GroupMessageInput{
		Content: req.Content,
		GroupID: c.Param("groupId"),
	})
	if err != nil {
		return err
	}
	return response.Created(c, message)
}

func (h *ChatHandler) ListGroups(c echo.Context) error {
	groups, err := h.chatUseCase.ListGroups(c.Request().Context(), middleware.CurrentUser(c))
	if err != nil {
		return err
	}
	return response.Success(c, groups)
}
