package domain

import "time"

// InspectionRecord is one vehicle inspection report. The ID is immutable
// once assigned; UpdatedAt/UpdatedBy reflect the last successful admin
// mutation. Records are created by the driver-facing submission flow and
// mutated only through the admin partial-update path.
type InspectionRecord struct {
	ID                    int64
	UserID                string
	UserEmail             string // joined from users for admin listings
	Location              string
	Date                  time.Time
	Time                  string
	Vehicle               string
	SpeedometerReading    string
	DefectiveItems        DefectMap
	TruckTrailerItems     DefectMap
	TrailerNumber         string
	Remarks               string
	ConditionSatisfactory bool
	DriverSignature       string
	DefectsCorrected      bool
	DefectsNeedCorrection bool
	MechanicSignature     string
	CreatedAt             time.Time
	UpdatedAt             time.Time
	UpdatedBy             string
}

// DefectCategory names which defect column a tallied label came from.
type DefectCategory string

const (
	DefectCategoryCar          DefectCategory = "car"
	DefectCategoryTruckTrailer DefectCategory = "truck/trailer"
)

func (c DefectCategory) String() string { return string(c) }

// DefectTallyEntry is one row of the ranked defect frequency table.
// Derived, never persisted.
type DefectTallyEntry struct {
	Label    string         `json:"label"`
	Count    int            `json:"count"`
	Category DefectCategory `json:"category"`
}

// DefectColumns carries the two undecoded defect columns of one record.
// The aggregator decodes each independently so one malformed column never
// poisons the other, or the rest of the scan.
type DefectColumns struct {
	InspectionID      int64
	DefectiveItems    []byte
	TruckTrailerItems []byte
}

// InspectionStats holds the aggregate counters shown on the admin
// dashboard.
type InspectionStats struct {
	TotalInspections     int `json:"total_inspections"`
	SatisfactoryCount    int `json:"satisfactory_count"`
	UnsatisfactoryCount  int `json:"unsatisfactory_count"`
	NeedsCorrectionCount int `json:"needs_correction_count"`
	TotalUsers           int `json:"total_users"`
	TodayInspections     int `json:"today_inspections"`
}
