package handler

import (
	"errors"
	"net/http"

	"bingo/internal/model"
	"bingo/internal/repository"
	"bingo/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type BoardHandler struct {
	boardRepo repository.BoardRepositoryInterface
	sessions  *session.Manager
}

func NewBoardHandler(boardRepo repository.BoardRepositoryInterface, sessions *session.Manager) *BoardHandler {
	return &BoardHandler{
		boardRepo: boardRepo,
		sessions:  sessions,
	}
}

type CreateBoardRequest struct {
	Title       string            `json:"title" binding:"required,max=50"`
	Description string            `json:"description" binding:"max=200"`
	ColorScheme model.ColorScheme `json:"colorScheme"`
}

type ArchiveBoardRequest struct {
	Archive bool `json:"archive"`
}

// Create creates a new board with the default 25-square layout for the
// authenticated user and selects it as the current board.
func (h *BoardHandler) Create(c *gin.Context) {
	userID, ok := authenticatedUser(c)
	if !ok {
		return
	}

	var req CreateBoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	ctrl := h.sessions.For(userID)
	board, err := ctrl.CreateNewBoard(c.Request.Context(), req.Title, req.Description, req.ColorScheme)
	if err != nil {
		writeControllerError(c, err, "Failed to create board")
		return
	}

	c.JSON(http.StatusCreated, board)
}

// List returns the user's boards, most recently updated first. Archived
// boards are excluded unless ?include_archived=true.
func (h *BoardHandler) List(c *gin.Context) {
	userID, ok := authenticatedUser(c)
	if !ok {
		return
	}

	includeArchived := c.Query("include_archived") == "true"

	ctrl := h.sessions.For(userID)
	boards, err := ctrl.LoadBoards(c.Request.Context(), includeArchived)
	if err != nil {
		writeControllerError(c, err, "Failed to retrieve boards")
		return
	}

	c.JSON(http.StatusOK, boards)
}

// Get loads one of the user's boards and makes it the current board of the
// editing session.
func (h *BoardHandler) Get(c *gin.Context) {
	userID, boardID, ok := boardRequest(c)
	if !ok {
		return
	}

	ctrl := h.sessions.For(userID)
	board, err := ctrl.LoadBoard(c.Request.Context(), boardID)
	if err != nil {
		writeControllerError(c, err, "Failed to retrieve board")
		return
	}

	c.JSON(http.StatusOK, board)
}

// Update persists a partial update immediately (the explicit save path).
func (h *BoardHandler) Update(c *gin.Context) {
	userID, boardID, ok := boardRequest(c)
	if !ok {
		return
	}
	if !h.ownsBoard(c, userID, boardID) {
		return
	}

	var patch model.BoardPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	ctrl := h.sessions.For(userID)
	if err := ctrl.UpdateBoardDetails(c.Request.Context(), boardID, &patch); err != nil {
		writeControllerError(c, err, "Failed to update board")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Board updated"})
}

// Edit buffers a partial update for the debounced auto-save: rapid edits
// coalesce into one write after the quiet period.
func (h *BoardHandler) Edit(c *gin.Context) {
	userID, boardID, ok := boardRequest(c)
	if !ok {
		return
	}
	if !h.ownsBoard(c, userID, boardID) {
		return
	}

	var patch model.BoardPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	ctrl := h.sessions.For(userID)
	if err := ctrl.Edit(boardID, &patch); err != nil {
		writeControllerError(c, err, "Failed to record edit")
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"message": "Edit recorded"})
}

// Save flushes the board's pending auto-save edits right away.
func (h *BoardHandler) Save(c *gin.Context) {
	userID, boardID, ok := boardRequest(c)
	if !ok {
		return
	}

	ctrl := h.sessions.For(userID)
	if err := ctrl.Save(boardID); err != nil {
		writeControllerError(c, err, "Failed to save board")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Board saved"})
}

// Duplicate copies an already-loaded board under a fresh id with fresh
// square ids and a " (Copy)" title suffix.
func (h *BoardHandler) Duplicate(c *gin.Context) {
	userID, boardID, ok := boardRequest(c)
	if !ok {
		return
	}

	ctrl := h.sessions.For(userID)
	board, err := ctrl.DuplicateBoard(c.Request.Context(), boardID)
	if err != nil {
		writeControllerError(c, err, "Failed to duplicate board")
		return
	}

	c.JSON(http.StatusCreated, board)
}

// Archive soft-hides (or restores) a board without deleting it.
func (h *BoardHandler) Archive(c *gin.Context) {
	userID, boardID, ok := boardRequest(c)
	if !ok {
		return
	}
	if !h.ownsBoard(c, userID, boardID) {
		return
	}

	var req ArchiveBoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	ctrl := h.sessions.For(userID)
	if err := ctrl.ArchiveBoard(c.Request.Context(), boardID, req.Archive); err != nil {
		writeControllerError(c, err, "Failed to archive board")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Board archived"})
}

// Delete removes the board permanently.
func (h *BoardHandler) Delete(c *gin.Context) {
	userID, boardID, ok := boardRequest(c)
	if !ok {
		return
	}
	if !h.ownsBoard(c, userID, boardID) {
		return
	}

	ctrl := h.sessions.For(userID)
	if err := ctrl.DeleteUserBoard(c.Request.Context(), boardID); err != nil {
		writeControllerError(c, err, "Failed to delete board")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Board deleted"})
}

// ownsBoard verifies the board exists and belongs to the user, writing the
// error response itself when it does not.
func (h *BoardHandler) ownsBoard(c *gin.Context, userID, boardID uuid.UUID) bool {
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

// boardRequest pulls the authenticated user and the :id path parameter.
func boardRequest(c *gin.Context) (userID, boardID uuid.UUID, ok bool) {
	userID, ok = authenticatedUser(c)
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	boardID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid board ID format"})
		return uuid.Nil, uuid.Nil, false
	}
	return userID, boardID, true
}

// writeControllerError maps session controller failures onto HTTP codes.
func writeControllerError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, repository.ErrBoardNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": repository.ErrBoardNotFound.Error()})
	case errors.Is(err, repository.ErrNotAuthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": repository.ErrNotAuthenticated.Error()})
	case errors.Is(err, repository.ErrPersistenceFailed):
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	}
}
