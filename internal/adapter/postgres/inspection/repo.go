// Package inspection implements the InspectionRecord repository using
// PostgreSQL.
package inspection

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/fleetcheck/inspection-backend/internal/adapter/postgres"
	"github.com/fleetcheck/inspection-backend/internal/domain"
)

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Mutable columns written back on every update, in SET order.
var inspectionColumns = []string{
	"id", "user_id", "location", "date", "time", "vehicle",
	"speedometer_reading", "defective_items", "truck_trailer_items",
	"trailer_number", "remarks", "condition_satisfactory",
	"driver_signature", "defects_corrected", "defects_need_correction",
	"mechanic_signature", "created_at", "updated_at", "updated_by",
}

// bothDefectColumnsEmpty excludes rows where neither defect column carries
// data in any historical encoding (NULL, SQL-level JSON null, empty
// object, encoded empty string).
const bothDefectColumnsEmpty = `NOT (
	(defective_items IS NULL OR defective_items::text IN ('null', '{}', '""')) AND
	(truck_trailer_items IS NULL OR truck_trailer_items::text IN ('null', '{}', '""'))
)`

// Repo provides inspection persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new inspection repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

// List returns every inspection joined with its owner's email, newest
// first.
func (r *Repo) List(ctx context.Context) ([]domain.InspectionRecord, error) {
	query, args, err := listBuilder().
		OrderBy("vi.created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build inspection list query: %w", err)
	}

	var rows []inspectionRow
	if err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &rows, query, args...); err != nil {
		return nil, postgres.MapError(err, "inspections", "all")
	}

	out := make([]domain.InspectionRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

// GetByID returns a single inspection joined with its owner's email.
func (r *Repo) GetByID(ctx context.Context, id int64) (*domain.InspectionRecord, error) {
	query, args, err := listBuilder().
		Where(sq.Eq{"vi.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build inspection query: %w", err)
	}

	var row inspectionRow
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &row, query, args...); err != nil {
		return nil, postgres.MapError(err, "inspection", id)
	}

	rec := row.toDomain()
	return &rec, nil
}

// Update writes the fully merged record in one statement and returns the
// post-write row. A write that matches zero rows (record deleted between
// the caller's read and this write) yields domain.ErrNotFound.
func (r *Repo) Update(ctx context.Context, rec *domain.InspectionRecord) (*domain.InspectionRecord, error) {
	defectiveItems, err := json.Marshal(rec.DefectiveItems)
	if err != nil {
		return nil, fmt.Errorf("encode defective_items: %w", err)
	}
	truckTrailerItems, err := json.Marshal(rec.TruckTrailerItems)
	if err != nil {
		return nil, fmt.Errorf("encode truck_trailer_items: %w", err)
	}

	query, args, err := qb.
		Update("vehicle_inspections").
		Set("location", rec.Location).
		Set("date", rec.Date).
		Set("time", rec.Time).
		Set("vehicle", rec.Vehicle).
		Set("speedometer_reading", rec.SpeedometerReading).
		Set("defective_items", defectiveItems).
		Set("truck_trailer_items", truckTrailerItems).
		Set("trailer_number", rec.TrailerNumber).
		Set("remarks", rec.Remarks).
		Set("condition_satisfactory", rec.ConditionSatisfactory).
		Set("driver_signature", rec.DriverSignature).
		Set("defects_corrected", rec.DefectsCorrected).
		Set("defects_need_correction", rec.DefectsNeedCorrection).
		Set("mechanic_signature", rec.MechanicSignature).
		Set("updated_at", rec.UpdatedAt).
		Set("updated_by", rec.UpdatedBy).
		Where(sq.Eq{"id": rec.ID}).
		Suffix("RETURNING " + strings.Join(inspectionColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build inspection update: %w", err)
	}

	var row inspectionRow
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &row, query, args...); err != nil {
		return nil, postgres.MapError(err, "inspection", rec.ID)
	}

	updated := row.toDomain()
	updated.UserEmail = rec.UserEmail // RETURNING has no join
	return &updated, nil
}

// Delete hard-deletes an inspection. domain.ErrNotFound if no row matched.
func (r *Repo) Delete(ctx context.Context, id int64) error {
	query, args, err := qb.
		Delete("vehicle_inspections").
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("build inspection delete: %w", err)
	}

	var deleted int64
	if err := postgres.QuerierFromCtx(ctx, r.db).QueryRow(ctx, query, args...).Scan(&deleted); err != nil {
		return postgres.MapError(err, "inspection", id)
	}
	return nil
}

// Stats computes the dashboard aggregate counters in a single query.
func (r *Repo) Stats(ctx context.Context) (*domain.InspectionStats, error) {
	query, args, err := qb.
		Select(
			"COUNT(*) AS total_inspections",
			"COUNT(*) FILTER (WHERE condition_satisfactory) AS satisfactory_count",
			"COUNT(*) FILTER (WHERE NOT condition_satisfactory) AS unsatisfactory_count",
			"COUNT(*) FILTER (WHERE defects_need_correction) AS needs_correction_count",
			"COUNT(DISTINCT user_id) AS total_users",
			"COUNT(*) FILTER (WHERE created_at::date = CURRENT_DATE) AS today_inspections",
		).
		From("vehicle_inspections").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build stats query: %w", err)
	}

	var row statsRow
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &row, query, args...); err != nil {
		return nil, postgres.MapError(err, "inspections", "stats")
	}

	stats := row.toDomain()
	return &stats, nil
}

// ListDefectColumns returns the raw defect columns of every record whose
// two defect maps are not both empty. Values come back undecoded so the
// aggregator can isolate per-row decode failures.
func (r *Repo) ListDefectColumns(ctx context.Context) ([]domain.DefectColumns, error) {
	query, args, err := qb.
		Select("id", "defective_items", "truck_trailer_items").
		From("vehicle_inspections").
		Where(sq.Expr(bothDefectColumnsEmpty)).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build defect scan query: %w", err)
	}

	var rows []defectRow
	if err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &rows, query, args...); err != nil {
		return nil, postgres.MapError(err, "inspections", "defects")
	}

	out := make([]domain.DefectColumns, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.DefectColumns{
			InspectionID:      row.ID,
			DefectiveItems:    row.DefectiveItems,
			TruckTrailerItems: row.TruckTrailerItems,
		})
	}
	return out, nil
}

// listBuilder is the shared SELECT for single and multi-record reads.
func listBuilder() sq.SelectBuilder {
	return qb.
		Select(
			"vi.id", "vi.user_id", "u.email AS user_email", "vi.location",
			"vi.date", "vi.time", "vi.vehicle", "vi.speedometer_reading",
			"vi.defective_items", "vi.truck_trailer_items",
			"vi.trailer_number", "vi.remarks", "vi.condition_satisfactory",
			"vi.driver_signature", "vi.defects_corrected",
			"vi.defects_need_correction", "vi.mechanic_signature",
			"vi.created_at", "vi.updated_at", "vi.updated_by",
		).
		From("vehicle_inspections vi").
		LeftJoin("users u ON vi.user_id = u.id")
}

// ---------------------------------------------------------------------------
// Row mapping
// ---------------------------------------------------------------------------

type inspectionRow struct {
	ID                    int64     `db:"id"`
	UserID                string    `db:"user_id"`
	UserEmail             *string   `db:"user_email"`
	Location              *string   `db:"location"`
	Date                  time.Time `db:"date"`
	Time                  *string   `db:"time"`
	Vehicle               *string   `db:"vehicle"`
	SpeedometerReading    *string   `db:"speedometer_reading"`
	DefectiveItems        []byte    `db:"defective_items"`
	TruckTrailerItems     []byte    `db:"truck_trailer_items"`
	TrailerNumber         *string   `db:"trailer_number"`
	Remarks               *string   `db:"remarks"`
	ConditionSatisfactory bool      `db:"condition_satisfactory"`
	DriverSignature       *string   `db:"driver_signature"`
	DefectsCorrected      bool      `db:"defects_corrected"`
	DefectsNeedCorrection bool      `db:"defects_need_correction"`
	MechanicSignature     *string   `db:"mechanic_signature"`
	CreatedAt             time.Time `db:"created_at"`
	UpdatedAt             time.Time `db:"updated_at"`
	UpdatedBy             *string   `db:"updated_by"`
}

func (row inspectionRow) toDomain() domain.InspectionRecord {
	return domain.InspectionRecord{
		ID:                    row.ID,
		UserID:                row.UserID,
		UserEmail:             deref(row.UserEmail),
		Location:              deref(row.Location),
		Date:                  row.Date,
		Time:                  deref(row.Time),
		Vehicle:               deref(row.Vehicle),
		SpeedometerReading:    deref(row.SpeedometerReading),
		DefectiveItems:        lenientDecode(row.DefectiveItems),
		TruckTrailerItems:     lenientDecode(row.TruckTrailerItems),
		TrailerNumber:         deref(row.TrailerNumber),
		Remarks:               deref(row.Remarks),
		ConditionSatisfactory: row.ConditionSatisfactory,
		DriverSignature:       deref(row.DriverSignature),
		DefectsCorrected:      row.DefectsCorrected,
		DefectsNeedCorrection: row.DefectsNeedCorrection,
		MechanicSignature:     deref(row.MechanicSignature),
		CreatedAt:             row.CreatedAt,
		UpdatedAt:             row.UpdatedAt,
		UpdatedBy:             deref(row.UpdatedBy),
	}
}

type statsRow struct {
	TotalInspections     int64 `db:"total_inspections"`
	SatisfactoryCount    int64 `db:"satisfactory_count"`
	UnsatisfactoryCount  int64 `db:"unsatisfactory_count"`
	NeedsCorrectionCount int64 `db:"needs_correction_count"`
	TotalUsers           int64 `db:"total_users"`
	TodayInspections     int64 `db:"today_inspections"`
}

func (row statsRow) toDomain() domain.InspectionStats {
	return domain.InspectionStats{
		TotalInspections:     int(row.TotalInspections),
		SatisfactoryCount:    int(row.SatisfactoryCount),
		UnsatisfactoryCount:  int(row.UnsatisfactoryCount),
		NeedsCorrectionCount: int(row.NeedsCorrectionCount),
		TotalUsers:           int(row.TotalUsers),
		TodayInspections:     int(row.TodayInspections),
	}
}

type defectRow struct {
	ID                int64  `db:"id"`
	DefectiveItems    []byte `db:"defective_items"`
	TruckTrailerItems []byte `db:"truck_trailer_items"`
}

// deref returns the string value or "" for NULL text columns.
func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// lenientDecode normalizes a stored defect column for display reads.
// Malformed historical values render as empty rather than failing the
// whole read; the update path only touches these columns when the payload
// replaces them outright.
func lenientDecode(raw []byte) domain.DefectMap {
	m, err := domain.DecodeDefectMap(raw)
	if err != nil {
		return domain.DefectMap{}
	}
	return m
}
