// Package session holds the per-user editing session: an in-memory view of
// the user's boards, the currently open board, and the auto-save machinery
// that keeps both consistent with the persistence layer.
package session

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"bingo/internal/grid"
	"bingo/internal/model"
	"bingo/internal/repository"

	"github.com/google/uuid"
)

// Controller mediates between request handlers and the board store for a
// single user. It owns the boards cache and the current-board selection,
// and reconciles both after every persisted mutation so neither view needs
// a reload. All methods are safe for concurrent use.
type Controller struct {
	userID uuid.UUID
	store  repository.BoardRepositoryInterface
	notify func(text string)

	mu       sync.Mutex
	boards   []model.Board
	current  *model.Board
	snapshot []model.Square // squares as of the last LoadBoard, for Reset

	autosave *Autosaver
}

func NewController(userID uuid.UUID, store repository.BoardRepositoryInterface, quiet time.Duration, notify func(string)) *Controller {
	if notify == nil {
		notify = func(text string) { log.Printf("📋 %s", text) }
	}
	c := &Controller{
		userID: userID,
		store:  store,
		notify: notify,
	}
	c.autosave = NewAutosaver(quiet, c.persistPatch, func(boardID uuid.UUID, err error) {
		c.notify(fmt.Sprintf("Failed to save board %s: %v", boardID, err))
	})
	return c
}

// Boards returns a copy of the cached board list.
func (c *Controller) Boards() []model.Board {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]model.Board, len(c.boards))
	copy(out, c.boards)
	return out
}

// Current returns a copy of the currently loaded board, or nil.
func (c *Controller) Current() *model.Board {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil {
		return nil
	}
	b := *c.current
	return &b
}

// Board returns a copy of the board with the given id from the session's
// cached views, or nil when the session does not know it.
func (c *Controller) Board(id uuid.UUID) *model.Board {
	return c.findBoard(id)
}

// LoadBoards replaces the cached list with the user's boards. On failure
// the previous list is left intact.
func (c *Controller) LoadBoards(ctx context.Context, includeArchived bool) ([]model.Board, error) {
	boards, err := c.store.GetOwned(ctx, c.userID, includeArchived)
	if err != nil {
		c.notify("Failed to load boards")
		return nil, fmt.Errorf("%w: %v", repository.ErrPersistenceFailed, err)
	}
	c.mu.Lock()
	c.boards = boards
	c.mu.Unlock()
	return boards, nil
}

// LoadBoard replaces the current-board selection and captures the squares
// snapshot that ResetSquares restores. A missing board clears the
// selection and reports ErrBoardNotFound.
func (c *Controller) LoadBoard(ctx context.Context, id uuid.UUID) (*model.Board, error) {
	board, err := c.store.GetByID(ctx, id)
	if err != nil {
		c.notify("Failed to load board")
		return nil, fmt.Errorf("%w: %v", repository.ErrPersistenceFailed, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if board == nil || board.UserID != c.userID {
		// Другой владелец неотличим от отсутствующей доски.
		c.current = nil
		c.snapshot = nil
		c.notify("Board not found")
		return nil, repository.ErrBoardNotFound
	}
	c.current = board
	c.snapshot = append([]model.Square(nil), board.Squares...)
	b := *board
	return &b, nil
}

// CreateNewBoard persists a board with the default 25-square layout,
// prepends it to the cached list and selects it.
func (c *Controller) CreateNewBoard(ctx context.Context, title, description string, scheme model.ColorScheme) (*model.Board, error) {
	if c.userID == uuid.Nil {
		return nil, repository.ErrNotAuthenticated
	}
	if scheme == "" {
		scheme = model.DefaultColorScheme
	}
	if err := validateDetails(&title, &description, &scheme); err != nil {
		return nil, err
	}

	board := &model.Board{
		Title:       title,
		Description: description,
		UserID:      c.userID,
		ColorScheme: scheme,
		Squares:     grid.NewSquares(),
	}
	if err := c.store.Create(ctx, board); err != nil {
		c.notify("Failed to create board")
		return nil, fmt.Errorf("%w: %v", repository.ErrPersistenceFailed, err)
	}

	c.mu.Lock()
	c.boards = append([]model.Board{*board}, c.boards...)
	c.current = board
	c.snapshot = append([]model.Square(nil), board.Squares...)
	c.mu.Unlock()

	b := *board
	return &b, nil
}

// UpdateBoardDetails persists the patch immediately and applies the same
// merge to the cached list entry and the current board.
func (c *Controller) UpdateBoardDetails(ctx context.Context, id uuid.UUID, patch *model.BoardPatch) error {
	if err := validatePatch(patch); err != nil {
		return err
	}
	if err := c.store.Update(ctx, id, patch); err != nil {
		c.notify("Failed to update board")
		return fmt.Errorf("%w: %v", repository.ErrPersistenceFailed, err)
	}
	c.applyLocal(id, patch)
	return nil
}

// Edit buffers the patch for the board's debounced auto-save instead of
// persisting right away. The cached views reflect the edit immediately;
// persistence follows after the quiet period, or on Save.
func (c *Controller) Edit(id uuid.UUID, patch *model.BoardPatch) error {
	if err := validatePatch(patch); err != nil {
		return err
	}
	c.applyLocal(id, patch)
	c.autosave.Edit(id, patch)
	return nil
}

// Save flushes the board's pending edits to the store immediately.
func (c *Controller) Save(id uuid.UUID) error {
	return c.autosave.Flush(id)
}

// DuplicateBoard copies an already-loaded board under a new id: fresh
// square ids, fresh timestamps, title suffixed with " (Copy)", everything
// else verbatim. Image URLs are shared with the source board, not copied.
func (c *Controller) DuplicateBoard(ctx context.Context, id uuid.UUID) (*model.Board, error) {
	if c.userID == uuid.Nil {
		return nil, repository.ErrNotAuthenticated
	}

	c.mu.Lock()
	var src *model.Board
	for i := range c.boards {
		if c.boards[i].ID == id {
			b := c.boards[i]
			src = &b
			break
		}
	}
	c.mu.Unlock()
	if src == nil {
		return nil, repository.ErrBoardNotFound
	}

	squares := make([]model.Square, len(src.Squares))
	for i, sq := range src.Squares {
		sq.ID = uuid.New()
		squares[i] = sq
	}
	dup := &model.Board{
		Title:          src.Title + " (Copy)",
		Description:    src.Description,
		UserID:         c.userID,
		ColorScheme:    src.ColorScheme,
		HeaderImageURL: src.HeaderImageURL,
		FooterImageURL: src.FooterImageURL,
		CenterImageURL: src.CenterImageURL,
		Squares:        squares,
		IsArchived:     src.IsArchived,
	}
	if err := c.store.Create(ctx, dup); err != nil {
		c.notify("Failed to duplicate board")
		return nil, fmt.Errorf("%w: %v", repository.ErrPersistenceFailed, err)
	}

	c.mu.Lock()
	c.boards = append([]model.Board{*dup}, c.boards...)
	c.mu.Unlock()

	b := *dup
	return &b, nil
}

// ArchiveBoard toggles the soft-hide flag, persisting first and then
// reconciling the cached views.
func (c *Controller) ArchiveBoard(ctx context.Context, id uuid.UUID, archive bool) error {
	return c.UpdateBoardDetails(ctx, id, &model.BoardPatch{IsArchived: &archive})
}

// DeleteUserBoard removes the board from the store, the cached list, and
// the current selection if it matches.
func (c *Controller) DeleteUserBoard(ctx context.Context, id uuid.UUID) error {
	if err := c.store.Delete(ctx, id); err != nil {
		c.notify("Failed to delete board")
		return fmt.Errorf("%w: %v", repository.ErrPersistenceFailed, err)
	}
	c.autosave.Cancel(id)

	c.mu.Lock()
	for i := range c.boards {
		if c.boards[i].ID == id {
			c.boards = append(c.boards[:i], c.boards[i+1:]...)
			break
		}
	}
	if c.current != nil && c.current.ID == id {
		c.current = nil
		c.snapshot = nil
	}
	c.mu.Unlock()
	return nil
}

// UpdateSquares persists a full replacement of the board's squares. The
// pinned-center invariant is the grid package's responsibility; callers go
// through Reposition/Randomize/Reset for ordering changes.
func (c *Controller) UpdateSquares(ctx context.Context, boardID uuid.UUID, squares []model.Square) error {
	return c.UpdateBoardDetails(ctx, boardID, &model.BoardPatch{Squares: squares})
}

// RepositionSquare applies a drag gesture: the square identified by
// activeID moves to the slot of the square identified by overID.
func (c *Controller) RepositionSquare(ctx context.Context, boardID, activeID, overID uuid.UUID) error {
	board := c.findBoard(boardID)
	if board == nil {
		return repository.ErrBoardNotFound
	}
	squares, err := grid.Reposition(board.Squares, activeID, overID)
	if err != nil {
		return err
	}
	return c.UpdateSquares(ctx, boardID, squares)
}

// RandomizeSquares shuffles the board's non-center squares.
func (c *Controller) RandomizeSquares(ctx context.Context, boardID uuid.UUID) error {
	board := c.findBoard(boardID)
	if board == nil {
		return repository.ErrBoardNotFound
	}
	return c.UpdateSquares(ctx, boardID, grid.Randomize(board.Squares))
}

// UpdateSquareContent rewrites one square's text in place.
func (c *Controller) UpdateSquareContent(ctx context.Context, boardID, squareID uuid.UUID, content string) error {
	if len(content) > model.MaxSquareLen {
		return fmt.Errorf("square content exceeds %d characters", model.MaxSquareLen)
	}
	board := c.findBoard(boardID)
	if board == nil {
		return repository.ErrBoardNotFound
	}
	squares := append([]model.Square(nil), board.Squares...)
	found := false
	for i := range squares {
		if squares[i].ID == squareID {
			squares[i].Content = content
			found = true
			break
		}
	}
	if !found {
		return grid.ErrSquareNotFound
	}
	return c.UpdateSquares(ctx, boardID, squares)
}

// ResetSquares restores the squares captured when the current board was
// loaded, discarding every edit made in this session.
func (c *Controller) ResetSquares(ctx context.Context, boardID uuid.UUID) error {
	c.mu.Lock()
	if c.current == nil || c.current.ID != boardID || c.snapshot == nil {
		c.mu.Unlock()
		return repository.ErrBoardNotFound
	}
	squares := append([]model.Square(nil), c.snapshot...)
	c.mu.Unlock()
	return c.UpdateSquares(ctx, boardID, squares)
}

// Close stops the auto-save timers.
func (c *Controller) Close() {
	c.autosave.Close()
}

// findBoard looks the board up in the cached list, falling back to the
// current selection.
func (c *Controller) findBoard(id uuid.UUID) *model.Board {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.boards {
		if c.boards[i].ID == id {
			b := c.boards[i]
			return &b
		}
	}
	if c.current != nil && c.current.ID == id {
		b := *c.current
		return &b
	}
	return nil
}

// persistPatch is the Autosaver's save function.
func (c *Controller) persistPatch(boardID uuid.UUID, patch *model.BoardPatch) error {
	if err := c.store.Update(context.Background(), boardID, patch); err != nil {
		return fmt.Errorf("%w: %v", repository.ErrPersistenceFailed, err)
	}
	return nil
}

// applyLocal mirrors a persisted patch onto the cached list entry and the
// current board so both views reflect the change without a reload.
func (c *Controller) applyLocal(id uuid.UUID, patch *model.BoardPatch) {
	now := time.Now().UnixMilli()
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.boards {
		if c.boards[i].ID == id {
			applyPatch(&c.boards[i], patch, now)
			break
		}
	}
	if c.current != nil && c.current.ID == id {
		applyPatch(c.current, patch, now)
	}
}

func applyPatch(b *model.Board, patch *model.BoardPatch, now int64) {
	if patch == nil {
		return
	}
	if patch.Title != nil {
		b.Title = *patch.Title
	}
	if patch.Description != nil {
		b.Description = *patch.Description
	}
	if patch.ColorScheme != nil {
		b.ColorScheme = *patch.ColorScheme
	}
	if patch.HeaderImageURL != nil {
		b.HeaderImageURL = imageValue(patch.HeaderImageURL)
	}
	if patch.FooterImageURL != nil {
		b.FooterImageURL = imageValue(patch.FooterImageURL)
	}
	if patch.CenterImageURL != nil {
		b.CenterImageURL = imageValue(patch.CenterImageURL)
	}
	if patch.Squares != nil {
		b.Squares = append([]model.Square(nil), patch.Squares...)
	}
	if patch.IsArchived != nil {
		b.IsArchived = *patch.IsArchived
	}
	b.UpdatedAt = now
}

func imageValue(v *string) *string {
	if *v == "" {
		return nil
	}
	return v
}

func validateDetails(title, description *string, scheme *model.ColorScheme) error {
	if title != nil && len(*title) > model.MaxTitleLen {
		return fmt.Errorf("title exceeds %d characters", model.MaxTitleLen)
	}
	if description != nil && len(*description) > model.MaxDescriptionLen {
		return fmt.Errorf("description exceeds %d characters", model.MaxDescriptionLen)
	}
	if scheme != nil && !scheme.Valid() {
		return fmt.Errorf("unknown color scheme %q", *scheme)
	}
	return nil
}

func validatePatch(patch *model.BoardPatch) error {
	if patch == nil {
		return nil
	}
	return validateDetails(patch.Title, patch.Description, patch.ColorScheme)
}
