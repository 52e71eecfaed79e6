package services

import (
	"context"
	"fmt"
	"strings"

	"carrental/internal/domain"
	"carrental/internal/domain/models"
	"carrental/internal/repositories"
	"carrental/internal/utils"
)

type VehicleService struct {
	Vehicles  repositories.VehicleRepository
	RequestID string
}

// VehicleInput is the create/edit form of the inventory screen.
type VehicleInput struct {
	Code           string `json:"code"`
	Name           string `json:"name"`
	Brand          string `json:"brand"`
	Type           string `json:"type"`
	Transmission   string `json:"transmission"`
	Seats          int    `json:"seats"`
	PlateNumber    string `json:"plateNumber"`
	Color          string `json:"color"`
	Year           int    `json:"year"`
	DailyRate      int64  `json:"dailyRate"`
	WithDriverRate int64  `json:"withDriverRate"`
	Status         string `json:"status"`
	ImageURL       string `json:"imageUrl"`
	Kilometers     *int   `json:"kilometers"`
	LastService    string `json:"lastService"`
}

func (in VehicleInput) toModel() (models.Vehicle, error) {
	v := models.Vehicle{
		Code:           strings.ToUpper(strings.TrimSpace(in.Code)),
		Name:           utils.NormalizeSpace(in.Name),
		Brand:          utils.NormalizeSpace(in.Brand),
		Type:           strings.ToLower(strings.TrimSpace(in.Type)),
		Transmission:   strings.ToLower(strings.TrimSpace(in.Transmission)),
		Seats:          in.Seats,
		PlateNumber:    strings.ToUpper(utils.NormalizeSpace(in.PlateNumber)),
		Color:          utils.NormalizeSpace(in.Color),
		Year:           in.Year,
		DailyRate:      in.DailyRate,
		WithDriverRate: in.WithDriverRate,
		Status:         domain.VehicleStatus(strings.ToLower(strings.TrimSpace(in.Status))),
		ImageURL:       strings.TrimSpace(in.ImageURL),
		Kilometers:     in.Kilometers,
		LastService:    strings.TrimSpace(in.LastService),
	}
	if v.Status == "" {
		v.Status = domain.VehicleAvailable
	}

	switch {
	case v.Code == "":
		return v, domain.ValidationError{Field: "code", Msg: "wajib diisi"}
	case v.Name == "":
		return v, domain.ValidationError{Field: "name", Msg: "wajib diisi"}
	case v.PlateNumber == "":
		return v, domain.ValidationError{Field: "plateNumber", Msg: "wajib diisi"}
	case v.Seats < 1:
		return v, domain.ValidationError{Field: "seats", Msg: "minimal 1"}
	case v.DailyRate <= 0:
		return v, domain.ValidationError{Field: "dailyRate", Msg: "harus lebih dari 0"}
	case v.WithDriverRate < 0:
		return v, domain.ValidationError{Field: "withDriverRate", Msg: "tidak boleh negatif"}
	case !v.Status.Valid():
		return v, domain.ValidationError{Field: "status", Msg: "status tidak dikenal"}
	case v.Kilometers != nil && *v.Kilometers < 0:
		return v, domain.ValidationError{Field: "kilometers", Msg: "tidak boleh negatif"}
	}
	if v.LastService != "" {
		if _, err := utils.ParseDate(v.LastService); err != nil {
			return v, domain.ValidationError{Field: "lastService", Msg: "format harus YYYY-MM-DD", Err: err}
		}
	}
	return v, nil
}

type VehicleQuery struct {
	Q      string
	Status string
	Type   string
	Page   int
	Limit  int
}

// VehiclePage is one page of the inventory table.
type VehiclePage struct {
	Items      []models.Vehicle  `json:"items"`
	Pagination domain.Pagination `json:"pagination"`
}

func (s VehicleService) List(ctx context.Context, q VehicleQuery) (VehiclePage, error) {
	f := models.VehicleFilter{
		Q:    q.Q,
		Type: strings.ToLower(strings.TrimSpace(q.Type)),
		Page: domain.Pagination{Page: q.Page, Limit: q.Limit}.Normalize(),
	}
	if v := strings.ToLower(strings.TrimSpace(q.Status)); v != "" {
		f.Status = domain.VehicleStatus(v)
		if !f.Status.Valid() {
			return VehiclePage{}, domain.ValidationError{Field: "status", Msg: "status tidak dikenal"}
		}
	}
	items, total, err := s.Vehicles.List(ctx, f)
	if err != nil {
		return VehiclePage{}, domain.InternalError{Msg: "gagal mengambil kendaraan", Err: err}
	}
	page := f.Page
	page.Total = total
	return VehiclePage{Items: items, Pagination: page}, nil
}

func (s VehicleService) Get(ctx context.Context, id int64) (models.Vehicle, error) {
	if id <= 0 {
		return models.Vehicle{}, domain.ValidationError{Field: "id", Msg: "id tidak valid"}
	}
	return s.Vehicles.GetByID(ctx, id)
}

func (s VehicleService) Create(ctx context.Context, in VehicleInput) (models.Vehicle, error) {
	v, err := in.toModel()
	if err != nil {
		return models.Vehicle{}, err
	}
	id, err := s.Vehicles.Create(ctx, v)
	if err != nil {
		return models.Vehicle{}, wrapWriteErr("gagal menyimpan kendaraan", err)
	}
	utils.LogEvent(s.RequestID, "vehicles", "create", fmt.Sprintf("id=%d code=%s", id, v.Code))
	return s.Vehicles.GetByID(ctx, id)
}

func (s VehicleService) Update(ctx context.Context, id int64, in VehicleInput) (models.Vehicle, error) {
	if id <= 0 {
		return models.Vehicle{}, domain.ValidationError{Field: "id", Msg: "id tidak valid"}
	}
	v, err := in.toModel()
	if err != nil {
		return models.Vehicle{}, err
	}
	v.ID = id
	if err := s.Vehicles.Update(ctx, v); err != nil {
		return models.Vehicle{}, wrapWriteErr("gagal mengubah kendaraan", err)
	}
	utils.LogEvent(s.RequestID, "vehicles", "update", fmt.Sprintf("id=%d", id))
	return s.Vehicles.GetByID(ctx, id)
}

// SetStatus is the quick status toggle (e.g. to maintenance).
func (s VehicleService) SetStatus(ctx context.Context, id int64, status string) (models.Vehicle, error) {
	st := domain.VehicleStatus(strings.ToLower(strings.TrimSpace(status)))
	if !st.Valid() {
		return models.Vehicle{}, domain.ValidationError{Field: "status", Msg: "status tidak dikenal"}
	}
	if err := s.Vehicles.UpdateStatus(ctx, id, st); err != nil {
		return models.Vehicle{}, wrapWriteErr("gagal mengubah status kendaraan", err)
	}
	utils.LogEvent(s.RequestID, "vehicles", "set_status", fmt.Sprintf("id=%d status=%s", id, st))
	return s.Vehicles.GetByID(ctx, id)
}

func (s VehicleService) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return domain.ValidationError{Field: "id", Msg: "id tidak valid"}
	}
	if err := s.Vehicles.Delete(ctx, id); err != nil {
		return wrapWriteErr("gagal menghapus kendaraan", err)
	}
	utils.LogEvent(s.RequestID, "vehicles", "delete", fmt.Sprintf("id=%d", id))
	return nil
}
