package handler

import (
	"errors"
	"fmt"
	"net/http"

	"bingo/internal/grid"
	"bingo/internal/model"
	"bingo/internal/repository"
	"bingo/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type SquaresHandler struct {
	boardRepo repository.BoardRepositoryInterface
	sessions  *session.Manager
}

func NewSquaresHandler(boardRepo repository.BoardRepositoryInterface, sessions *session.Manager) *SquaresHandler {
	return &SquaresHandler{boardRepo: boardRepo, sessions: sessions}
}

type ReplaceSquaresRequest struct {
	Squares []model.Square `json:"squares" binding:"required"`
}

type RepositionRequest struct {
	ActiveID uuid.UUID `json:"activeId" binding:"required"`
	OverID   uuid.UUID `json:"overId" binding:"required"`
}

type SquareContentRequest struct {
	Content string `json:"content"`
}

// Replace persists a full replacement of the board's 25-square sequence.
func (h *SquaresHandler) Replace(c *gin.Context) {
	userID, boardID, ok := boardRequest(c)
	if !ok {
		return
	}
	if !h.ownsBoard(c, userID, boardID) {
		return
	}

	var req ReplaceSquaresRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	if err := grid.Validate(req.Squares); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	for _, sq := range req.Squares {
		if len(sq.Content) > model.MaxSquareLen {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("square content exceeds %d characters", model.MaxSquareLen)})
			return
		}
	}

	ctrl := h.sessions.For(userID)
	if err := ctrl.UpdateSquares(c.Request.Context(), boardID, req.Squares); err != nil {
		writeControllerError(c, err, "Failed to update squares")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Squares updated"})
}

// Reposition applies a drag gesture: move the square identified by
// activeId to the slot of the square identified by overId, shifting the
// squares in between by one. Gestures touching the center square are
// rejected and the ordering is left unchanged.
func (h *SquaresHandler) Reposition(c *gin.Context) {
	userID, boardID, ok := boardRequest(c)
	if !ok {
		return
	}

	var req RepositionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	ctrl := h.sessions.For(userID)
	err := ctrl.RepositionSquare(c.Request.Context(), boardID, req.ActiveID, req.OverID)
	switch {
	case errors.Is(err, grid.ErrCenterPinned):
		c.JSON(http.StatusConflict, gin.H{"error": grid.ErrCenterPinned.Error()})
	case errors.Is(err, grid.ErrSquareNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": grid.ErrSquareNotFound.Error()})
	case err != nil:
		writeControllerError(c, err, "Failed to reposition square")
	default:
		c.JSON(http.StatusOK, ctrl.Board(boardID))
	}
}

// Randomize shuffles the non-center squares, keeping the center pinned.
func (h *SquaresHandler) Randomize(c *gin.Context) {
	userID, boardID, ok := boardRequest(c)
	if !ok {
		return
	}

	ctrl := h.sessions.For(userID)
	if err := ctrl.RandomizeSquares(c.Request.Context(), boardID); err != nil {
		writeControllerError(c, err, "Failed to randomize squares")
		return
	}

	c.JSON(http.StatusOK, ctrl.Board(boardID))
}

// Reset restores the squares captured when the board was loaded,
// discarding the session's reordering and content edits.
func (h *SquaresHandler) Reset(c *gin.Context) {
	userID, boardID, ok := boardRequest(c)
	if !ok {
		return
	}

	ctrl := h.sessions.For(userID)
	if err := ctrl.ResetSquares(c.Request.Context(), boardID); err != nil {
		writeControllerError(c, err, "Failed to reset squares")
		return
	}

	c.JSON(http.StatusOK, ctrl.Board(boardID))
}

// ownsBoard verifies the board exists and belongs to the user, writing the
// error response itself when it does not.
func (h *SquaresHandler) ownsBoard(c *gin.Context, userID, boardID uuid.UUID) bool {
	board, err := h.boardRepo.GetByID(c.Request.Context(), boardID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve board"})
		return false
	}
	if board == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": repository.ErrBoardNotFound.Error()})
		return false
	}
	if board.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You don't have permission to access this board"})
		return false
	}
	return true
}

// UpdateContent rewrites one square's text.
func (h *SquaresHandler) UpdateContent(c *gin.Context) {
	userID, boardID, ok := boardRequest(c)
	if !ok {
		return
	}

	squareID, err := uuid.Parse(c.Param("square_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid square ID format"})
		return
	}

	var req SquareContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	ctrl := h.sessions.For(userID)
	err = ctrl.UpdateSquareContent(c.Request.Context(), boardID, squareID, req.Content)
	switch {
	case errors.Is(err, grid.ErrSquareNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": grid.ErrSquareNotFound.Error()})
	case err != nil:
		writeControllerError(c, err, "Failed to update square")
	default:
		c.JSON(http.StatusOK, gin.H{"message": "Square updated"})
	}
}
