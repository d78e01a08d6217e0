package inspection

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetcheck/inspection-backend/internal/domain"
)

var listColumns = []string{
	"id", "user_id", "user_email", "location", "date", "time", "vehicle",
	"speedometer_reading", "defective_items", "truck_trailer_items",
	"trailer_number", "remarks", "condition_satisfactory",
	"driver_signature", "defects_corrected", "defects_need_correction",
	"mechanic_signature", "created_at", "updated_at", "updated_by",
}

func newMock(t *testing.T) (pgxmock.PgxPoolIface, *Repo) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock, New(mock)
}

func strPtr(s string) *string { return &s }

// anyArgs returns n pgxmock.AnyArg matchers; pgxmock requires the
// expectation's argument count to match the actual call.
func anyArgs(n int) []any {
	args := make([]any, n)
	for i := range args {
		args[i] = pgxmock.AnyArg()
	}
	return args
}

func fullRow(id int64) []any {
	date := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	created := time.Date(2026, 3, 15, 8, 0, 0, 0, time.UTC)
	return []any{
		id, "driver-7", strPtr("driver7@example.com"), strPtr("Yard B"),
		date, strPtr("07:45"), strPtr("Truck 12"),
		strPtr("123456"), []byte(`{"Brakes": true}`), []byte(`{}`),
		strPtr(""), strPtr("left mirror cracked"), false,
		strPtr("J. Doe"), false, true,
		strPtr(""), created, created, strPtr(""),
	}
}

func TestRepo_GetByID(t *testing.T) {
	mock, repo := newMock(t)

	mock.ExpectQuery(`SELECT .+ FROM vehicle_inspections vi LEFT JOIN users u`).
		WithArgs(int64(14)).
		WillReturnRows(pgxmock.NewRows(listColumns).AddRow(fullRow(14)...))

	rec, err := repo.GetByID(context.Background(), 14)

	require.NoError(t, err)
	assert.Equal(t, int64(14), rec.ID)
	assert.Equal(t, "driver7@example.com", rec.UserEmail)
	assert.True(t, rec.DefectiveItems.Defective("Brakes"))
	assert.Equal(t, 0, rec.TruckTrailerItems.Len())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepo_GetByID_NotFound(t *testing.T) {
	mock, repo := newMock(t)

	mock.ExpectQuery(`SELECT .+ FROM vehicle_inspections`).
		WithArgs(int64(99)).
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetByID(context.Background(), 99)

	require.ErrorIs(t, err, domain.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepo_GetByID_MalformedDefectColumnIsLenient(t *testing.T) {
	mock, repo := newMock(t)

	row := fullRow(14)
	row[8] = []byte(`{broken`) // defective_items

	mock.ExpectQuery(`SELECT .+ FROM vehicle_inspections`).
		WithArgs(int64(14)).
		WillReturnRows(pgxmock.NewRows(listColumns).AddRow(row...))

	rec, err := repo.GetByID(context.Background(), 14)

	require.NoError(t, err)
	assert.Equal(t, 0, rec.DefectiveItems.Len())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepo_List(t *testing.T) {
	mock, repo := newMock(t)

	mock.ExpectQuery(`SELECT .+ FROM vehicle_inspections vi LEFT JOIN users u ON vi.user_id = u.id ORDER BY vi.created_at DESC`).
		WillReturnRows(pgxmock.NewRows(listColumns).
			AddRow(fullRow(2)...).
			AddRow(fullRow(1)...))

	records, err := repo.List(context.Background())

	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, int64(2), records[0].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

// Update returns the written row without the join; the email survives from
// the caller's copy.
func TestRepo_Update(t *testing.T) {
	mock, repo := newMock(t)

	returning := append([]string{}, listColumns...)
	returning = append(returning[:2], returning[3:]...) // RETURNING has no user_email

	row := fullRow(14)
	row = append(row[:2], row[3:]...)

	mock.ExpectQuery(`UPDATE vehicle_inspections SET .+ RETURNING`).
		WithArgs(anyArgs(17)...).
		WillReturnRows(pgxmock.NewRows(returning).AddRow(row...))

	rec := &domain.InspectionRecord{
		ID:        14,
		UserEmail: "driver7@example.com",
		Location:  "Yard B",
		Date:      time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
		UpdatedAt: time.Now().UTC(),
		UpdatedBy: "admin-1",
	}

	updated, err := repo.Update(context.Background(), rec)

	require.NoError(t, err)
	assert.Equal(t, int64(14), updated.ID)
	assert.Equal(t, "driver7@example.com", updated.UserEmail)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepo_Update_RecordVanished(t *testing.T) {
	mock, repo := newMock(t)

	returning := append([]string{}, listColumns[:2]...)
	returning = append(returning, listColumns[3:]...)

	mock.ExpectQuery(`UPDATE vehicle_inspections SET`).
		WithArgs(anyArgs(17)...).
		WillReturnRows(pgxmock.NewRows(returning)) // zero rows matched

	_, err := repo.Update(context.Background(), &domain.InspectionRecord{ID: 99})

	require.ErrorIs(t, err, domain.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepo_Delete(t *testing.T) {
	mock, repo := newMock(t)

	mock.ExpectQuery(`DELETE FROM vehicle_inspections WHERE id = \$1 RETURNING id`).
		WithArgs(int64(14)).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(14)))

	require.NoError(t, repo.Delete(context.Background(), 14))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepo_Delete_NotFound(t *testing.T) {
	mock, repo := newMock(t)

	mock.ExpectQuery(`DELETE FROM vehicle_inspections`).
		WithArgs(int64(99)).
		WillReturnError(pgx.ErrNoRows)

	err := repo.Delete(context.Background(), 99)

	require.ErrorIs(t, err, domain.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepo_Stats(t *testing.T) {
	mock, repo := newMock(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\) AS total_inspections`).
		WillReturnRows(pgxmock.NewRows([]string{
			"total_inspections", "satisfactory_count", "unsatisfactory_count",
			"needs_correction_count", "total_users", "today_inspections",
		}).AddRow(int64(10), int64(7), int64(3), int64(2), int64(4), int64(1)))

	stats, err := repo.Stats(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 10, stats.TotalInspections)
	assert.Equal(t, 3, stats.UnsatisfactoryCount)
	assert.Equal(t, 4, stats.TotalUsers)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepo_ListDefectColumns(t *testing.T) {
	mock, repo := newMock(t)

	// The WHERE clause filters rows where both columns are empty in any
	// historical encoding.
	mock.ExpectQuery(`SELECT id, defective_items, truck_trailer_items FROM vehicle_inspections WHERE NOT`).
		WillReturnRows(pgxmock.NewRows([]string{"id", "defective_items", "truck_trailer_items"}).
			AddRow(int64(1), []byte(`{"Brakes": true}`), []byte(`null`)).
			AddRow(int64(2), []byte(`{broken`), []byte(`{"Lights": "true"}`)))

	cols, err := repo.ListDefectColumns(context.Background())

	require.NoError(t, err)
	require.Len(t, cols, 2)
	assert.Equal(t, int64(1), cols[0].InspectionID)
	// raw bytes pass through untouched, malformed or not
	assert.Equal(t, []byte(`{broken`), cols[1].DefectiveItems)
	require.NoError(t, mock.ExpectationsWereMet())
}
