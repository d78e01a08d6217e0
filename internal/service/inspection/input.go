package inspection

import (
	"time"

	"github.com/fleetcheck/inspection-backend/internal/domain"
)

// dateLayout is the wire format for the inspection date.
const dateLayout = "2006-01-02"

// UpdateInput is the fixed-shape partial-update payload. Each field is an
// Optional: only fields whose key appeared in the request override the
// stored value, independent of the new value's truthiness. Unknown keys
// are dropped by the JSON decoder, which is the forward-compatibility
// policy for clients sending newer fields.
type UpdateInput struct {
	Location              domain.Optional[string]           `json:"location"`
	Date                  domain.Optional[string]           `json:"date"`
	Time                  domain.Optional[string]           `json:"time"`
	Vehicle               domain.Optional[string]           `json:"vehicle"`
	SpeedometerReading    domain.Optional[string]           `json:"speedometer_reading"`
	DefectiveItems        domain.Optional[domain.DefectMap] `json:"defective_items"`
	TruckTrailerItems     domain.Optional[domain.DefectMap] `json:"truck_trailer_items"`
	TrailerNumber         domain.Optional[string]           `json:"trailer_number"`
	Remarks               domain.Optional[string]           `json:"remarks"`
	ConditionSatisfactory domain.Optional[bool]             `json:"condition_satisfactory"`
	DriverSignature       domain.Optional[string]           `json:"driver_signature"`
	DefectsCorrected      domain.Optional[bool]             `json:"defects_corrected"`
	DefectsNeedCorrection domain.Optional[bool]             `json:"defects_need_correction"`
	MechanicSignature     domain.Optional[string]           `json:"mechanic_signature"`
}

// FieldCount returns how many recognized fields the payload carries.
// Zero means the request is a client usage error, not a no-op.
func (in UpdateInput) FieldCount() int {
	n := 0
	for _, present := range []bool{
		in.Location.Present, in.Date.Present, in.Time.Present,
		in.Vehicle.Present, in.SpeedometerReading.Present,
		in.DefectiveItems.Present, in.TruckTrailerItems.Present,
		in.TrailerNumber.Present, in.Remarks.Present,
		in.ConditionSatisfactory.Present, in.DriverSignature.Present,
		in.DefectsCorrected.Present, in.DefectsNeedCorrection.Present,
		in.MechanicSignature.Present,
	} {
		if present {
			n++
		}
	}
	return n
}

// apply merges the present fields into rec. Presence wins: a present
// empty string, false, or null overwrites; an absent key leaves the
// stored value untouched.
func (in UpdateInput) apply(rec *domain.InspectionRecord) error {
	applyString(in.Location, &rec.Location)
	applyString(in.Time, &rec.Time)
	applyString(in.Vehicle, &rec.Vehicle)
	applyString(in.SpeedometerReading, &rec.SpeedometerReading)
	applyString(in.TrailerNumber, &rec.TrailerNumber)
	applyString(in.Remarks, &rec.Remarks)
	applyString(in.DriverSignature, &rec.DriverSignature)
	applyString(in.MechanicSignature, &rec.MechanicSignature)

	applyBool(in.ConditionSatisfactory, &rec.ConditionSatisfactory)
	applyBool(in.DefectsCorrected, &rec.DefectsCorrected)
	applyBool(in.DefectsNeedCorrection, &rec.DefectsNeedCorrection)

	if in.DefectiveItems.Present {
		rec.DefectiveItems = in.DefectiveItems.Value
	}
	if in.TruckTrailerItems.Present {
		rec.TruckTrailerItems = in.TruckTrailerItems.Value
	}

	// The date column is NOT NULL, so the only way to change it is with a
	// parseable value; "clear this field" has no meaning for it.
	if in.Date.Present {
		if in.Date.Null || in.Date.Value == "" {
			return domain.NewValidationError("date", "date cannot be cleared")
		}
		parsed, err := time.Parse(dateLayout, in.Date.Value)
		if err != nil {
			return domain.NewValidationError("date", "must be YYYY-MM-DD")
		}
		rec.Date = parsed
	}

	return nil
}

func applyString(src domain.Optional[string], dst *string) {
	if src.Present {
		*dst = src.Value // null decodes to ""
	}
}

func applyBool(src domain.Optional[bool], dst *bool) {
	if src.Present {
		*dst = src.Value
	}
}
