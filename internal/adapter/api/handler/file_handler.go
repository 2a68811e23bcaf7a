package handler

import (
	"github.com/labstack/echo/v4"

	"lokapasar/internal/infrastructure/storage"
	"lokapasar/pkg/errors"
	"lokapasar/pkg/response"
)

const maxUploadBytes = 5 << 20

type FileHandler struct {
	storageClient *storage.CloudStorageClient
}

var fileHandler *FileHandler

func NewFileHandler(storageClient *storage.CloudStorageClient) *FileHandler {
	return &FileHandler{
		storageClient: storageClient,
	}
}

func SetupFileHandler(storageClient *storage.CloudStorageClient) {
	fileHandler = NewFileHandler(storageClient)
}

func GetFileHandler() *FileHandler {
	return fileHandler
}

var uploadFolders = map[string]bool{
	"products": true,
	"avatars":  true,
}

func (h *FileHandler) UploadImage(c echo.Context) error {
	folder := c.QueryParam("folder")
	if folder == "" {
		folder = "products"
	}
	if !uploadFolders[folder] {
		return response.Error(c, errors.BadRequest("Unknown upload folder", nil))
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return response.Error(c, errors.BadRequest("File is required", err))
	}

	if fileHeader.Size > maxUploadBytes {
		return response.Error(c, errors.BadRequest("File exceeds the 5MB limit", nil))
	}

	file, err := fileHeader.Open()
	if err != nil {
		return response.Error(c, errors.Internal("Failed to read uploaded file", err))
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")

	url, err := h.storageClient.UploadImage(c.Request().Context(), file, contentType, folder)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, map[string]string{"url": url})
}

type deleteFileRequest struct {
	URL string `json:"url" validate:"required"`
}

func (h *FileHandler) DeleteImage(c echo.Context) error {
	var req deleteFileRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	if err := h.storageClient.DeleteImage(c.Request().Context(), req.URL); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{"status": "deleted"})
}
