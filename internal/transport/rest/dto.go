package rest

import (
	"time"

	"github.com/fleetcheck/inspection-backend/internal/domain"
)

const dateLayout = "2006-01-02"

type inspectionResponse struct {
	ID                    int64            `json:"id"`
	UserID                string           `json:"user_id"`
	UserEmail             string           `json:"user_email,omitempty"`
	Location              string           `json:"location"`
	Date                  string           `json:"date"`
	Time                  string           `json:"time"`
	Vehicle               string           `json:"vehicle"`
	SpeedometerReading    string           `json:"speedometer_reading"`
	DefectiveItems        domain.DefectMap `json:"defective_items"`
	TruckTrailerItems     domain.DefectMap `json:"truck_trailer_items"`
	TrailerNumber         string           `json:"trailer_number"`
	Remarks               string           `json:"remarks"`
	ConditionSatisfactory bool             `json:"condition_satisfactory"`
	DriverSignature       string           `json:"driver_signature"`
	DefectsCorrected      bool             `json:"defects_corrected"`
	DefectsNeedCorrection bool             `json:"defects_need_correction"`
	MechanicSignature     string           `json:"mechanic_signature"`
	CreatedAt             time.Time        `json:"created_at"`
	UpdatedAt             time.Time        `json:"updated_at"`
	UpdatedBy             string           `json:"updated_by,omitempty"`
}

func toInspectionResponse(rec *domain.InspectionRecord) inspectionResponse {
	return inspectionResponse{
		ID:                    rec.ID,
		UserID:                rec.UserID,
		UserEmail:             rec.UserEmail,
		Location:              rec.Location,
		Date:                  rec.Date.Format(dateLayout),
		Time:                  rec.Time,
		Vehicle:               rec.Vehicle,
		SpeedometerReading:    rec.SpeedometerReading,
		DefectiveItems:        rec.DefectiveItems,
		TruckTrailerItems:     rec.TruckTrailerItems,
		TrailerNumber:         rec.TrailerNumber,
		Remarks:               rec.Remarks,
		ConditionSatisfactory: rec.ConditionSatisfactory,
		DriverSignature:       rec.DriverSignature,
		DefectsCorrected:      rec.DefectsCorrected,
		DefectsNeedCorrection: rec.DefectsNeedCorrection,
		MechanicSignature:     rec.MechanicSignature,
		CreatedAt:             rec.CreatedAt,
		UpdatedAt:             rec.UpdatedAt,
		UpdatedBy:             rec.UpdatedBy,
	}
}

func toInspectionResponses(recs []domain.InspectionRecord) []inspectionResponse {
	out := make([]inspectionResponse, 0, len(recs))
	for i := range recs {
		out = append(out, toInspectionResponse(&recs[i]))
	}
	return out
}

type userResponse struct {
	ID              string    `json:"id"`
	Email           string    `json:"email"`
	Role            string    `json:"role"`
	CreatedAt       time.Time `json:"created_at"`
	InspectionCount *int      `json:"inspection_count,omitempty"`
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Email:     u.Email,
		Role:      u.Role.String(),
		CreatedAt: u.CreatedAt,
	}
}

func toUserListResponse(users []domain.UserWithCount) []userResponse {
	out := make([]userResponse, 0, len(users))
	for i := range users {
		resp := toUserResponse(&users[i].User)
		count := users[i].InspectionCount
		resp.InspectionCount = &count
		out = append(out, resp)
	}
	return out
}

type imageResponse struct {
	ID           int64     `json:"id"`
	InspectionID int64     `json:"inspection_id"`
	URL          string    `json:"url"`
	FileName     string    `json:"file_name"`
	FileSize     int64     `json:"file_size"`
	MimeType     string    `json:"mime_type"`
	ImageType    string    `json:"image_type"`
	UploadedBy   string    `json:"uploaded_by,omitempty"`
	UploadedAt   time.Time `json:"uploaded_at"`
}

func toImageResponse(img *domain.InspectionImage) imageResponse {
	return imageResponse{
		ID:           img.ID,
		InspectionID: img.InspectionID,
		URL:          img.DriveURL,
		FileName:     img.FileName,
		FileSize:     img.FileSize,
		MimeType:     img.MimeType,
		ImageType:    img.ImageType,
		UploadedBy:   img.UploadedBy,
		UploadedAt:   img.UploadedAt,
	}
}

func toImageResponses(imgs []domain.InspectionImage) []imageResponse {
	out := make([]imageResponse, 0, len(imgs))
	for i := range imgs {
		out = append(out, toImageResponse(&imgs[i]))
	}
	return out
}
