package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/bizhub/backend/internal/domain/pipeline"
	"github.com/bizhub/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockDealRepository creates a GormDealRepository with a mocked SQL connection
func newMockDealRepository(t *testing.T) (*GormDealRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormDealRepository(gormDB), mock, mockDB
}

func TestGormDealRepository_CountByOption(t *testing.T) {
	t.Run("counts soft-deleted deals still holding the reference", func(t *testing.T) {
		repo, mock, mockDB := newMockDealRepository(t)
		defer mockDB.Close()

		optionID := uuid.New()

		// Anchored: the query must not filter on deleted_at, otherwise a
		// deal inside its restore window would not protect its stage from
		// deletion.
		mock.ExpectQuery(`^SELECT count\(\*\) FROM "deals" WHERE stage_id = \$1 OR label_id = \$2 OR source_id = \$3$`).
			WithArgs(optionID, optionID, optionID).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		count, err := repo.CountByOption(context.Background(), optionID)

		assert.NoError(t, err)
		assert.Equal(t, int64(1), count)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormDealRepository_FindAll(t *testing.T) {
	t.Run("excludes soft-deleted deals by default", func(t *testing.T) {
		repo, mock, mockDB := newMockDealRepository(t)
		defer mockDB.Close()

		rows := sqlmock.NewRows([]string{"id", "name", "status", "stage_name", "version", "deleted_at"}).
			AddRow(uuid.New(), "Roof replacement", "open", "Scheduled", 1, nil)

		mock.ExpectQuery(`SELECT \* FROM "deals" WHERE deleted_at IS NULL ORDER BY created_at DESC LIMIT \$1`).
			WithArgs(20).
			WillReturnRows(rows)

		deals, err := repo.FindAll(context.Background(), shared.DefaultFilter())

		assert.NoError(t, err)
		require.Len(t, deals, 1)
		assert.Nil(t, deals[0].DeletedAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns soft-deleted deals when the filter opts in", func(t *testing.T) {
		repo, mock, mockDB := newMockDealRepository(t)
		defer mockDB.Close()

		deletedAt := time.Now().Add(-24 * time.Hour)
		rows := sqlmock.NewRows([]string{"id", "name", "status", "stage_name", "version", "deleted_at"}).
			AddRow(uuid.New(), "Roof replacement", "open", "Scheduled", 1, nil).
			AddRow(uuid.New(), "Gutter repair", "open", "Scheduled", 2, deletedAt)

		mock.ExpectQuery(`^SELECT \* FROM "deals" ORDER BY created_at DESC LIMIT \$1$`).
			WithArgs(20).
			WillReturnRows(rows)

		filter := shared.DefaultFilter()
		filter.Filters["include_deleted"] = true

		deals, err := repo.FindAll(context.Background(), filter)

		assert.NoError(t, err)
		require.Len(t, deals, 2)
		assert.Nil(t, deals[0].DeletedAt)
		assert.NotNil(t, deals[1].DeletedAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormDealRepository_SaveWithLock(t *testing.T) {
	t.Run("rejects a stale save", func(t *testing.T) {
		repo, mock, mockDB := newMockDealRepository(t)
		defer mockDB.Close()

		stage, err := pipeline.NewOption(pipeline.OptionKindStage, "Scheduled", "#2563eb", 0)
		require.NoError(t, err)
		deal, err := pipeline.NewDeal("Roof replacement", stage)
		require.NoError(t, err)
		require.NoError(t, deal.Win())

		mock.ExpectExec(`UPDATE "deals" SET .* WHERE id = \$[0-9]+ AND version = \$[0-9]+`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err = repo.SaveWithLock(context.Background(), deal)

		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
