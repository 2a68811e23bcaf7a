package handler

import (
	"github.com/labstack/echo/v4"

	"lokapasar/internal/usecase"
	"lokapasar/pkg/errors"
	"lokapasar/pkg/response"
	"lokapasar/pkg/utils"
)

type ChatHandler struct {
	chatUseCase *usecase.ChatUseCase
}

func NewChatHandler(chatUseCase *usecase.ChatUseCase) *ChatHandler {
	return &ChatHandler{
		chatUseCase: chatUseCase,
	}
}

// uid returns the authenticated user ID, or "" for anonymous visitors.
// Chat write paths surface SIGN_IN_REQUIRED from the use case so clients
// can prompt for login instead of showing a generic error.
func uid(c echo.Context) string {
	if userID, ok := c.Get("uid").(string); ok {
		return userID
	}
	return ""
}

type createThreadRequest struct {
	VendorID       string `json:"vendor_id" validate:"required"`
	ProductID      string `json:"product_id,omitempty"`
	InitialMessage string `json:"initial_message,omitempty"`
}

func (h *ChatHandler) CreateThread(c echo.Context) error {
	var req createThreadRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	thread, err := h.chatUseCase.CreateThread(c.Request().Context(), uid(c), usecase.CreateThreadInput{
		VendorID:       req.VendorID,
		ProductID:      req.ProductID,
		InitialMessage: req.InitialMessage,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, thread)
}

func (h *ChatHandler) ListThreads(c echo.Context) error {
	pagination := utils.GetPaginationParams(c)

	threads, total, err := h.chatUseCase.ListThreads(c.Request().Context(), uid(c), pagination.PageSize, pagination.Offset)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, threads, total, pagination.Page, pagination.PageSize)
}

type sendMessageRequest struct {
	Body string `json:"body" validate:"required"`
}

func (h *ChatHandler) SendMessage(c echo.Context) error {
	threadID := c.Param("id")
	if threadID == "" {
		return response.Error(c, errors.BadRequest("Thread ID is required", nil))
	}

	var req sendMessageRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	message, err := h.chatUseCase.SendMessage(c.Request().Context(), uid(c), threadID, req.Body)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, message)
}

func (h *ChatHandler) ListMessages(c echo.Context) error {
	threadID := c.Param("id")
	if threadID == "" {
		return response.Error(c, errors.BadRequest("Thread ID is required", nil))
	}

	pagination := utils.GetPaginationParams(c)

	messages, total, err := h.chatUseCase.ListMessages(c.Request().Context(), uid(c), threadID, pagination.PageSize, pagination.Offset)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, messages, total, pagination.Page, pagination.PageSize)
}

func (h *ChatHandler) MarkThreadRead(c echo.Context) error {
	threadID := c.Param("id")
	if threadID == "" {
		return response.Error(c, errors.BadRequest("Thread ID is required", nil))
	}

	if err := h.chatUseCase.MarkThreadRead(c.Request().Context(), uid(c), threadID); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{"status": "read"})
}

func (h *ChatHandler) UnreadCounts(c echo.Context) error {
	counts, err := h.chatUseCase.UnreadCounts(c.Request().Context(), uid(c))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, counts)
}
