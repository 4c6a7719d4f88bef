package repository_test

import (
	"context"
	"testing"

	"bingo/internal/model"
	"bingo/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func boardRows(boardID, userID uuid.UUID, title string, archived bool) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "title", "description", "created_at", "updated_at", "user_id", "color_scheme", "header_image_url", "footer_image_url", "center_image_url", "squares", "is_archived"}).
		AddRow(boardID.String(), title, "", int64(1000), int64(2000), userID.String(), "purple", nil, nil, nil, []byte(`[]`), archived)
}

func TestBoardRepository_Create_AssignsID(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	boardRepo := repository.NewBoardRepository(gormDB)

	board := &model.Board{
		Title:       "Trivia",
		UserID:      uuid.New(),
		ColorScheme: model.SchemeBlue,
		Squares:     []model.Square{},
	}

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "boards"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.New().String()))
	mock.ExpectCommit()

	// Act
	err := boardRepo.Create(context.Background(), board)

	// Assert
	assert.NoError(t, err)
	// Идентификатор и отметки времени назначает хранилище, не клиент
	assert.NotEqual(t, uuid.Nil, board.ID)
	assert.NotZero(t, board.CreatedAt)
	assert.Equal(t, board.CreatedAt, board.UpdatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBoardRepository_GetByID_Found(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	boardRepo := repository.NewBoardRepository(gormDB)

	boardID := uuid.New()
	userID := uuid.New()

	mock.ExpectQuery(`SELECT .* FROM "boards" WHERE id = .* LIMIT 1`).
		WithArgs(boardID).
		WillReturnRows(boardRows(boardID, userID, "Trivia", false))

	// Act
	board, err := boardRepo.GetByID(context.Background(), boardID)

	// Assert
	assert.NoError(t, err)
	assert.NotNil(t, board)
	assert.Equal(t, boardID, board.ID)
	assert.Equal(t, "Trivia", board.Title)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBoardRepository_GetByID_NotFound(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	boardRepo := repository.NewBoardRepository(gormDB)

	boardID := uuid.New()

	// Пустой результат
	mock.ExpectQuery(`SELECT .* FROM "boards" WHERE id = .* LIMIT 1`).
		WithArgs(boardID).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	// Act
	board, err := boardRepo.GetByID(context.Background(), boardID)

	// Assert
	assert.NoError(t, err) // отсутствие доски не является ошибкой
	assert.Nil(t, board)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBoardRepository_GetOwned_ExcludesArchivedByDefault(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	boardRepo := repository.NewBoardRepository(gormDB)

	userID := uuid.New()

	mock.ExpectQuery(`SELECT .* FROM "boards" WHERE user_id = .* AND is_archived = .* ORDER BY updated_at DESC`).
		WithArgs(userID, false).
		WillReturnRows(boardRows(uuid.New(), userID, "Active", false))

	// Act
	boards, err := boardRepo.GetOwned(context.Background(), userID, false)

	// Assert
	assert.NoError(t, err)
	assert.Len(t, boards, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBoardRepository_GetOwned_IncludeArchived(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	boardRepo := repository.NewBoardRepository(gormDB)

	userID := uuid.New()

	// Без фильтра is_archived
	mock.ExpectQuery(`SELECT .* FROM "boards" WHERE user_id = .* ORDER BY updated_at DESC`).
		WithArgs(userID).
		WillReturnRows(boardRows(uuid.New(), userID, "Archived", true))

	// Act
	boards, err := boardRepo.GetOwned(context.Background(), userID, true)

	// Assert
	assert.NoError(t, err)
	assert.Len(t, boards, 1)
	assert.True(t, boards[0].IsArchived)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBoardRepository_Update_AlwaysTouchesUpdatedAt(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	boardRepo := repository.NewBoardRepository(gormDB)

	boardID := uuid.New()
	title := "Renamed"

	mock.ExpectBegin()
	// updated_at выставляется даже при частичном обновлении
	mock.ExpectExec(`UPDATE "boards" SET .*"updated_at".*WHERE id = .*`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	// Act
	err := boardRepo.Update(context.Background(), boardID, &model.BoardPatch{Title: &title})

	// Assert
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBoardRepository_Update_MissingIDIsNoOp(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	boardRepo := repository.NewBoardRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "boards" SET .*WHERE id = .*`).
		WillReturnResult(sqlmock.NewResult(0, 0)) // ни одной строки
	mock.ExpectCommit()

	// Act
	err := boardRepo.Update(context.Background(), uuid.New(), nil)

	// Assert
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBoardRepository_Delete_MissingIDIsNoOp(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	boardRepo := repository.NewBoardRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "boards" WHERE id = .*`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	// Act
	err := boardRepo.Delete(context.Background(), uuid.New())

	// Assert
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
