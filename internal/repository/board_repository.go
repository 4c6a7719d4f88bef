package repository

import (
	"context"
	"errors"
	"time"

	"bingo/internal/model"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type BoardRepository struct {
	db *gorm.DB
}

type BoardRepositoryInterface interface {
	Create(ctx context.Context, board *model.Board) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Board, error)
	GetOwned(ctx context.Context, userID uuid.UUID, includeArchived bool) ([]model.Board, error)
	Update(ctx context.Context, id uuid.UUID, patch *model.BoardPatch) error
	Delete(ctx context.Context, id uuid.UUID) error
}

var _ BoardRepositoryInterface = (*BoardRepository)(nil)

func NewBoardRepository(db *gorm.DB) *BoardRepository {
	return &BoardRepository{db: db}
}

// Create assigns a fresh id and timestamps to the board and stores it.
// Id assignment belongs to the store, never to the caller.
func (r *BoardRepository) Create(ctx context.Context, board *model.Board) error {
	board.ID = uuid.New()
	now := time.Now().UnixMilli()
	board.CreatedAt = now
	board.UpdatedAt = now
	return r.db.WithContext(ctx).Create(board).Error
}

func (r *BoardRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Board, error) {
	var board model.Board
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&board).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil // Return nil, nil to indicate that the board was not found
		}
		return nil, err
	}
	return &board, nil
}

// GetOwned returns the user's boards sorted by most recently updated first.
// Archived boards are excluded unless includeArchived is set.
func (r *BoardRepository) GetOwned(ctx context.Context, userID uuid.UUID, includeArchived bool) ([]model.Board, error) {
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if !includeArchived {
		q = q.Where("is_archived = ?", false)
	}
	var boards []model.Board
	err := q.Order("updated_at DESC").Find(&boards).Error
	return boards, err
}

// Update merges the non-nil patch fields into the stored board and always
// refreshes updated_at, even when the caller supplied nothing else. A
// missing id is a silent no-op.
func (r *BoardRepository) Update(ctx context.Context, id uuid.UUID, patch *model.BoardPatch) error {
	fields := map[string]interface{}{
		"updated_at": time.Now().UnixMilli(),
	}
	if patch != nil {
		if patch.Title != nil {
			fields["title"] = *patch.Title
		}
		if patch.Description != nil {
			fields["description"] = *patch.Description
		}
		if patch.ColorScheme != nil {
			fields["color_scheme"] = *patch.ColorScheme
		}
		if patch.HeaderImageURL != nil {
			fields["header_image_url"] = imageColumn(patch.HeaderImageURL)
		}
		if patch.FooterImageURL != nil {
			fields["footer_image_url"] = imageColumn(patch.FooterImageURL)
		}
		if patch.CenterImageURL != nil {
			fields["center_image_url"] = imageColumn(patch.CenterImageURL)
		}
		if patch.Squares != nil {
			fields["squares"] = datatypes.NewJSONSlice(patch.Squares)
		}
		if patch.IsArchived != nil {
			fields["is_archived"] = *patch.IsArchived
		}
	}
	return r.db.WithContext(ctx).Model(&model.Board{}).Where("id = ?", id).Updates(fields).Error
}

// Delete removes the board; absent ids are a silent no-op.
func (r *BoardRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Board{}).Error
}

// imageColumn maps an empty patch value to NULL so a cleared slot reads
// back as "no image set".
func imageColumn(v *string) interface{} {
	if v == nil || *v == "" {
		return nil
	}
	return *v
}
