package handler

import (
	"fmt"
	"net/http"
	"strings"

	"bingo/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ShareHandler struct {
	boardRepo repository.BoardRepositoryInterface
	origin    string
}

// NewShareHandler serves the public read-only view and the share URL used
// by the export surface (print, PNG, QR). origin is the public base URL of
// the deployment.
func NewShareHandler(boardRepo repository.BoardRepositoryInterface, origin string) *ShareHandler {
	return &ShareHandler{boardRepo: boardRepo, origin: strings.TrimSuffix(origin, "/")}
}

// ShareURL returns the public link for a board. Anyone holding the link
// can view the board without authenticating.
func (h *ShareHandler) ShareURL(c *gin.Context) {
	_, boardID, ok := boardRequest(c)
	if !ok {
		return
	}

	board, err := h.boardRepo.GetByID(c.Request.Context(), boardID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve board"})
		return
	}
	if board == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": repository.ErrBoardNotFound.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"shareUrl": fmt.Sprintf("%s/board/view/%s", h.origin, board.ID),
	})
}

// View is the public read-only board view behind the share URL. No
// authentication and no ownership check; the board id is the capability.
func (h *ShareHandler) View(c *gin.Context) {
	boardID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid board ID format"})
		return
	}

	board, err := h.boardRepo.GetByID(c.Request.Context(), boardID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve board"})
		return
	}
	if board == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": repository.ErrBoardNotFound.Error()})
		return
	}

	c.JSON(http.StatusOK, board)
}
