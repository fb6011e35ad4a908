package services

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "ledgercast/internal/errors"
	"ledgercast/internal/forecast"
	"ledgercast/internal/ledger"
	"ledgercast/internal/models"
	"ledgercast/internal/month"
	"ledgercast/internal/pagination"
)

// forecastService handles forecast and scenario record lifecycles.
type forecastService struct {
	db       *gorm.DB
	workbook WorkbookServicer
}

// NewForecastService creates a new ForecastServicer.
func NewForecastService(db *gorm.DB, workbook WorkbookServicer) ForecastServicer {
	return &forecastService{db: db, workbook: workbook}
}

// validateInput checks the client-supplied record fields and the
// method parameters without touching the database.
func (s *forecastService) validateInput(input RecordInput) error {
	if input.Kind != models.RecordKindForecast && input.Kind != models.RecordKindScenario {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "kind must be forecast or scenario")
	}
	if input.Name == "" {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "record name is required")
	}
	if len(input.AccountIDs) == 0 {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "at least one target account is required")
	}
	if input.End.Before(input.Start) {
		return apperrors.ErrInvalidDateRange
	}

	probe := models.ProjectionRecord{
		Method:      input.Method,
		GrowthRate:  input.GrowthRate,
		FixedAmount: input.FixedAmount,
	}
	if _, err := forecast.MethodFor(&probe); err != nil {
		return mapEngineError(err)
	}
	return nil
}

// checkTargets verifies every target row exists and belongs to the user.
func (s *forecastService) checkTargets(userID string, accountIDs []string) error {
	for _, id := range accountIDs {
		if _, err := s.workbook.GetRowByID(userID, id); err != nil {
			return err
		}
	}
	return nil
}

// activeRecords loads the user's active records of one kind.
func (s *forecastService) activeRecords(userID string, kind models.RecordKind) ([]models.ProjectionRecord, error) {
	var records []models.ProjectionRecord
	err := s.db.Where("user_id = ? AND kind = ? AND status = ?", userID, kind, models.RecordStatusActive).
		Find(&records).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return records, nil
}

// CheckOverlap reports whether any active record of the given kind
// targets one of the accounts in an overlapping month range. The
// result carries the conflicting records and the shared account IDs so
// clients can show what blocks the save.
func (s *forecastService) CheckOverlap(userID string, kind models.RecordKind, accountIDs []string, start, end month.Month, excludeID string) (*forecast.OverlapResult, error) {
	existing, err := s.activeRecords(userID, kind)
	if err != nil {
		return nil, err
	}
	result := forecast.CheckOverlap(accountIDs, start, end, existing, excludeID)
	return &result, nil
}

// overlapConflict builds the rejection for a failed overlap gate. The
// detector's findings ride along in the error so the response names
// the conflicting records and the shared account IDs.
func overlapConflict(result *forecast.OverlapResult) error {
	return apperrors.WithDetails(apperrors.ErrOverlapConflict, result)
}

// CreateRecord validates and persists a new forecast or scenario.
// Creation is refused while another active record of the same kind
// claims any of the target accounts for an overlapping month.
func (s *forecastService) CreateRecord(userID string, input RecordInput) (*models.ProjectionRecord, error) {
	if err := s.validateInput(input); err != nil {
		return nil, err
	}
	if err := s.checkTargets(userID, input.AccountIDs); err != nil {
		return nil, err
	}

	result, err := s.CheckOverlap(userID, input.Kind, input.AccountIDs, input.Start, input.End, "")
	if err != nil {
		return nil, err
	}
	if result.HasOverlap {
		return nil, overlapConflict(result)
	}

	baselineMonths := input.BaselineMonths
	if baselineMonths <= 0 {
		baselineMonths = 3
	}

	record := &models.ProjectionRecord{
		UserID:         userID,
		Kind:           input.Kind,
		Name:           input.Name,
		AccountIDs:     input.AccountIDs,
		Method:         input.Method,
		GrowthRate:     input.GrowthRate,
		FixedAmount:    input.FixedAmount,
		BaselineMonths: baselineMonths,
		StartDate:      input.Start.Time(),
		EndDate:        input.End.Time(),
		Status:         models.RecordStatusActive,
	}

	if err := s.db.Create(record).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return record, nil
}

// GetUserRecords retrieves a paginated list of the user's records of
// one kind, newest first.
func (s *forecastService) GetUserRecords(userID string, kind models.RecordKind, page pagination.PageRequest) (*pagination.PageResponse[models.ProjectionRecord], error) {
	page.Defaults()

	base := s.db.Model(&models.ProjectionRecord{}).Where("user_id = ? AND kind = ?", userID, kind)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var records []models.ProjectionRecord
	if err := base.Order("created_at DESC").Scopes(pagination.Paginate(page)).Find(&records).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(records, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetRecordByID retrieves a record by ID for a specific user
func (s *forecastService) GetRecordByID(userID, recordID string) (*models.ProjectionRecord, error) {
	var record models.ProjectionRecord
	if err := s.db.Where("id = ? AND user_id = ?", recordID, userID).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrRecordNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &record, nil
}

// UpdateRecord replaces a record's definition. The kind is fixed at
// creation; the new account set and range are re-checked against the
// user's other active records when the record is active.
func (s *forecastService) UpdateRecord(userID, recordID string, input RecordInput) (*models.ProjectionRecord, error) {
	record, err := s.GetRecordByID(userID, recordID)
	if err != nil {
		return nil, err
	}

	input.Kind = record.Kind
	if err := s.validateInput(input); err != nil {
		return nil, err
	}
	if err := s.checkTargets(userID, input.AccountIDs); err != nil {
		return nil, err
	}

	if record.IsActive() {
		result, err := s.CheckOverlap(userID, record.Kind, input.AccountIDs, input.Start, input.End, record.ID)
		if err != nil {
			return nil, err
		}
		if result.HasOverlap {
			return nil, overlapConflict(result)
		}
	}

	record.Name = input.Name
	record.AccountIDs = input.AccountIDs
	record.Method = input.Method
	record.GrowthRate = input.GrowthRate
	record.FixedAmount = input.FixedAmount
	if input.BaselineMonths > 0 {
		record.BaselineMonths = input.BaselineMonths
	}
	record.StartDate = input.Start.Time()
	record.EndDate = input.End.Time()

	if err := s.db.Save(record).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return record, nil
}

// DeleteRecord soft-deletes a record. Values the record projected into
// the workbook stay in place until edited or re-projected.
func (s *forecastService) DeleteRecord(userID, recordID string) error {
	record, err := s.GetRecordByID(userID, recordID)
	if err != nil {
		return err
	}
	if err := s.db.Delete(record).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// PauseRecord takes a record out of overlap checks and application.
// Its projected values stay in the workbook.
func (s *forecastService) PauseRecord(userID, recordID string) (*models.ProjectionRecord, error) {
	record, err := s.GetRecordByID(userID, recordID)
	if err != nil {
		return nil, err
	}

	if err := s.db.Model(record).Update("status", models.RecordStatusPaused).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	record.Status = models.RecordStatusPaused
	return record, nil
}

// ActivateRecord resumes a paused record. The record's claim on its
// accounts is re-checked because other records may have taken the
// range while it was paused.
func (s *forecastService) ActivateRecord(userID, recordID string) (*models.ProjectionRecord, error) {
	record, err := s.GetRecordByID(userID, recordID)
	if err != nil {
		return nil, err
	}
	if record.IsActive() {
		return record, nil
	}

	result, err := s.CheckOverlap(userID, record.Kind, record.AccountIDs, record.Start(), record.End(), record.ID)
	if err != nil {
		return nil, err
	}
	if result.HasOverlap {
		return nil, overlapConflict(result)
	}

	if err := s.db.Model(record).Update("status", models.RecordStatusActive).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	record.Status = models.RecordStatusActive
	return record, nil
}

// ApplyRecord projects the record's method over its month range and
// persists the written values. Re-applying is idempotent: baselines
// derive only from raw values, never from projected ones.
func (s *forecastService) ApplyRecord(userID, recordID string) ([]models.MonthlyValue, error) {
	record, err := s.GetRecordByID(userID, recordID)
	if err != nil {
		return nil, err
	}

	l, err := s.workbook.LoadLedger(userID)
	if err != nil {
		return nil, err
	}

	written, err := forecast.Apply(l, record)
	if err != nil {
		return nil, mapEngineError(err)
	}

	out := make([]models.MonthlyValue, 0, len(written))
	err = s.db.Transaction(func(tx *gorm.DB) error {
		for _, mv := range written {
			row := models.MonthlyValue{
				RowID:       mv.RowID,
				Year:        mv.Year,
				Month:       mv.Month,
				Value:       mv.Value,
				IsProjected: true,
			}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "row_id"}, {Name: "year"}, {Name: "month"}},
				DoUpdates: clause.AssignmentColumns([]string{"value", "is_projected", "updated_at"}),
			}).Create(&row).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
			out = append(out, row)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// mapEngineError translates projection engine errors into AppErrors.
func mapEngineError(err error) error {
	switch {
	case errors.Is(err, forecast.ErrUnsupportedMethod):
		return apperrors.Wrap(apperrors.ErrUnsupportedMethod, err)
	case errors.Is(err, forecast.ErrMissingParameter):
		return apperrors.Wrap(apperrors.ErrMissingParameter, err)
	case errors.Is(err, forecast.ErrRecordNotActive):
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "record must be active to apply")
	case errors.Is(err, ledger.ErrRowNotFound):
		return apperrors.Wrap(apperrors.ErrRowNotFound, err)
	default:
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
}
