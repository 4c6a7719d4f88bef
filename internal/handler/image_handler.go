package handler

import (
	"errors"
	"io"
	"net/http"

	"bingo/internal/model"
	"bingo/internal/repository"
	"bingo/internal/session"
	"bingo/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ImageHandler struct {
	boardRepo repository.BoardRepositoryInterface
	images    *storage.ImageStore
	sessions  *session.Manager
}

func NewImageHandler(boardRepo repository.BoardRepositoryInterface, images *storage.ImageStore, sessions *session.Manager) *ImageHandler {
	return &ImageHandler{boardRepo: boardRepo, images: images, sessions: sessions}
}

// Upload stores an image for the board's header, footer or center slot and
// points the board at its URL. A previously uploaded image in the same
// slot is deleted once the new one is in place.
func (h *ImageHandler) Upload(c *gin.Context) {
	userID, boardID, ok := boardRequest(c)
	if !ok {
		return
	}

	slot := storage.Slot(c.Param("slot"))
	if !slot.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown image slot"})
		return
	}

	board, ok := h.ownedBoard(c, userID, boardID)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing image file"})
		return
	}
	if fileHeader.Size > storage.MaxImageSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": storage.ErrImageTooLarge.Error()})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unreadable image file"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unreadable image file"})
		return
	}

	result, err := h.images.Upload(c.Request.Context(), data, fileHeader.Header.Get("Content-Type"), userID, slot)
	switch {
	case errors.Is(err, storage.ErrUnsupportedImageType):
		c.JSON(http.StatusUnsupportedMediaType, gin.H{"error": err.Error()})
		return
	case errors.Is(err, storage.ErrImageTooLarge):
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": err.Error()})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload image"})
		return
	}

	previous := slotURL(board, slot)

	ctrl := h.sessions.For(userID)
	if err := ctrl.UpdateBoardDetails(c.Request.Context(), boardID, slotPatch(slot, result.URL)); err != nil {
		writeControllerError(c, err, "Failed to update board")
		return
	}

	if previous != nil {
		if path := h.images.PathFromURL(*previous); path != "" {
			_ = h.images.Delete(c.Request.Context(), path)
		}
	}

	c.JSON(http.StatusOK, result)
}

// Remove clears the slot's URL on the board and deletes the stored file.
func (h *ImageHandler) Remove(c *gin.Context) {
	userID, boardID, ok := boardRequest(c)
	if !ok {
		return
	}

	slot := storage.Slot(c.Param("slot"))
	if !slot.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown image slot"})
		return
	}

	board, ok := h.ownedBoard(c, userID, boardID)
	if !ok {
		return
	}

	ctrl := h.sessions.For(userID)
	if err := ctrl.UpdateBoardDetails(c.Request.Context(), boardID, slotPatch(slot, "")); err != nil {
		writeControllerError(c, err, "Failed to update board")
		return
	}

	if previous := slotURL(board, slot); previous != nil {
		if path := h.images.PathFromURL(*previous); path != "" {
			_ = h.images.Delete(c.Request.Context(), path)
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "Image removed"})
}

func (h *ImageHandler) ownedBoard(c *gin.Context, userID, boardID uuid.UUID) (*model.Board, bool) {
	board, err := h.boardRepo.GetByID(c.Request.Context(), boardID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve board"})
		return nil, false
	}
	if board == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": repository.ErrBoardNotFound.Error()})
		return nil, false
	}
	if board.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You don't have permission to access this board"})
		return nil, false
	}
	return board, true
}

func slotURL(board *model.Board, slot storage.Slot) *string {
	switch slot {
	case storage.SlotHeader:
		return board.HeaderImageURL
	case storage.SlotFooter:
		return board.FooterImageURL
	case storage.SlotCenter:
		return board.CenterImageURL
	}
	return nil
}

func slotPatch(slot storage.Slot, url string) *model.BoardPatch {
	patch := &model.BoardPatch{}
	switch slot {
	case storage.SlotHeader:
		patch.HeaderImageURL = &url
	case storage.SlotFooter:
		patch.FooterImageURL = &url
	case storage.SlotCenter:
		patch.CenterImageURL = &url
	}
	return patch
}
