package services

import (
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "ledgercast/internal/errors"
	"ledgercast/internal/ledger"
	"ledgercast/internal/models"
	"ledgercast/internal/month"
)

// workbookService handles the chart-of-accounts tree and monthly values.
type workbookService struct {
	db *gorm.DB
}

// NewWorkbookService creates a new WorkbookServicer.
func NewWorkbookService(db *gorm.DB) WorkbookServicer {
	return &workbookService{db: db}
}

// CreateCategory creates a new category
func (s *workbookService) CreateCategory(userID, name, key string, rowType models.RowType, isCalculated bool, formula string, displayOrder int) (*models.Category, error) {
	if name == "" || key == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category name and key are required")
	}
	if isCalculated && formula == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "calculated categories require a formula")
	}
	if !isCalculated && rowType == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category type is required")
	}

	// Keys feed formula terms, so they must be unique per user.
	var count int64
	if err := s.db.Model(&models.Category{}).
		Where("user_id = ? AND key = ?", userID, key).
		Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category with this key already exists")
	}

	category := &models.Category{
		UserID:       userID,
		Name:         name,
		Key:          key,
		Type:         rowType,
		IsCalculated: isCalculated,
		IsExpanded:   true,
		Formula:      formula,
		DisplayOrder: displayOrder,
	}

	if err := s.db.Create(category).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return category, nil
}

// GetWorkbook retrieves the full category tree for a user, with
// subcategories and rows ordered for display. Monthly values are not
// loaded here; use LoadLedger or GetRowValues for values.
func (s *workbookService) GetWorkbook(userID string) ([]models.Category, error) {
	var categories []models.Category
	err := s.db.Where("user_id = ?", userID).
		Order("display_order, created_at").
		Preload("Subcategories", func(db *gorm.DB) *gorm.DB {
			return db.Order("display_order, created_at")
		}).
		Preload("Subcategories.Rows", func(db *gorm.DB) *gorm.DB {
			return db.Order("display_order, created_at")
		}).
		Find(&categories).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return categories, nil
}

// GetCategoryByID retrieves a category by ID for a specific user
func (s *workbookService) GetCategoryByID(userID, categoryID string) (*models.Category, error) {
	var category models.Category
	if err := s.db.Where("id = ? AND user_id = ?", categoryID, userID).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &category, nil
}

// UpdateCategory updates an existing category
func (s *workbookService) UpdateCategory(userID, categoryID, name, formula string, isExpanded *bool, displayOrder *int) (*models.Category, error) {
	category, err := s.GetCategoryByID(userID, categoryID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if name != "" {
		updates["name"] = name
	}
	if formula != "" {
		if !category.IsCalculated {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "only calculated categories carry a formula")
		}
		updates["formula"] = formula
	}
	if isExpanded != nil {
		updates["is_expanded"] = *isExpanded
	}
	if displayOrder != nil {
		updates["display_order"] = *displayOrder
	}

	if len(updates) > 0 {
		if err := s.db.Model(category).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return category, nil
}

// DeleteCategory soft-deletes a category together with its
// subcategories, rows, and their monthly values.
func (s *workbookService) DeleteCategory(userID, categoryID string) error {
	category, err := s.GetCategoryByID(userID, categoryID)
	if err != nil {
		return err
	}

	var rows []models.FinancialRow
	if err := s.db.Where("category_id = ?", categoryID).Find(&rows).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	for i := range rows {
		if err := s.checkRowNotInUse(userID, rows[i].ID); err != nil {
			return err
		}
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		for i := range rows {
			if err := tx.Where("row_id = ?", rows[i].ID).Delete(&models.MonthlyValue{}).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
		}
		if err := tx.Where("category_id = ?", categoryID).Delete(&models.FinancialRow{}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Where("category_id = ?", categoryID).Delete(&models.Subcategory{}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Delete(category).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
}

// CreateSubcategory creates a subcategory in a category
func (s *workbookService) CreateSubcategory(userID, categoryID, name string, displayOrder int) (*models.Subcategory, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "subcategory name is required")
	}

	category, err := s.GetCategoryByID(userID, categoryID)
	if err != nil {
		return nil, err
	}
	if category.IsCalculated {
		return nil, apperrors.ErrCalculatedCategory
	}

	sub := &models.Subcategory{
		UserID:       userID,
		CategoryID:   category.ID,
		Name:         name,
		DisplayOrder: displayOrder,
	}
	if err := s.db.Create(sub).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return sub, nil
}

func (s *workbookService) getSubcategoryByID(userID, subcategoryID string) (*models.Subcategory, error) {
	var sub models.Subcategory
	if err := s.db.Where("id = ? AND user_id = ?", subcategoryID, userID).First(&sub).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrSubcategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &sub, nil
}

// UpdateSubcategory updates a subcategory's name or position
func (s *workbookService) UpdateSubcategory(userID, subcategoryID, name string, displayOrder *int) (*models.Subcategory, error) {
	sub, err := s.getSubcategoryByID(userID, subcategoryID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if name != "" {
		updates["name"] = name
	}
	if displayOrder != nil {
		updates["display_order"] = *displayOrder
	}

	if len(updates) > 0 {
		if err := s.db.Model(sub).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return sub, nil
}

// DeleteSubcategory soft-deletes a subcategory and its rows.
func (s *workbookService) DeleteSubcategory(userID, subcategoryID string) error {
	sub, err := s.getSubcategoryByID(userID, subcategoryID)
	if err != nil {
		return err
	}

	var rows []models.FinancialRow
	if err := s.db.Where("subcategory_id = ?", subcategoryID).Find(&rows).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	for i := range rows {
		if err := s.checkRowNotInUse(userID, rows[i].ID); err != nil {
			return err
		}
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		for i := range rows {
			if err := tx.Where("row_id = ?", rows[i].ID).Delete(&models.MonthlyValue{}).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
		}
		if err := tx.Where("subcategory_id = ?", subcategoryID).Delete(&models.FinancialRow{}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Delete(sub).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
}

// CreateRow creates a financial row. The row inherits its category and
// type from the parent subcategory's category.
func (s *workbookService) CreateRow(userID, subcategoryID, name string, displayOrder int) (*models.FinancialRow, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "row name is required")
	}

	sub, err := s.getSubcategoryByID(userID, subcategoryID)
	if err != nil {
		return nil, err
	}
	category, err := s.GetCategoryByID(userID, sub.CategoryID)
	if err != nil {
		return nil, err
	}

	row := &models.FinancialRow{
		UserID:        userID,
		CategoryID:    category.ID,
		SubcategoryID: sub.ID,
		Name:          name,
		Type:          category.Type,
		DisplayOrder:  displayOrder,
	}
	if err := s.db.Create(row).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return row, nil
}

// GetRowByID retrieves a financial row by ID for a specific user
func (s *workbookService) GetRowByID(userID, rowID string) (*models.FinancialRow, error) {
	var row models.FinancialRow
	if err := s.db.Where("id = ? AND user_id = ?", rowID, userID).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrRowNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &row, nil
}

// UpdateRow updates a row's name or position
func (s *workbookService) UpdateRow(userID, rowID, name string, displayOrder *int) (*models.FinancialRow, error) {
	row, err := s.GetRowByID(userID, rowID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if name != "" {
		updates["name"] = name
	}
	if displayOrder != nil {
		updates["display_order"] = *displayOrder
	}

	if len(updates) > 0 {
		if err := s.db.Model(row).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return row, nil
}

// checkRowNotInUse rejects deletion of rows still referenced by an
// active forecast or scenario. Account sets are stored as JSON, so the
// membership test happens in Go rather than SQL.
func (s *workbookService) checkRowNotInUse(userID, rowID string) error {
	var records []models.ProjectionRecord
	if err := s.db.Where("user_id = ? AND status = ?", userID, models.RecordStatusActive).Find(&records).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	for i := range records {
		if records[i].Targets(rowID) {
			return apperrors.ErrRowInUse
		}
	}
	return nil
}

// DeleteRow soft-deletes a row and its values. Rows targeted by an
// active record cannot be deleted; pause or delete the record first.
// Previously projected values on other rows are left untouched.
func (s *workbookService) DeleteRow(userID, rowID string) error {
	row, err := s.GetRowByID(userID, rowID)
	if err != nil {
		return err
	}

	if err := s.checkRowNotInUse(userID, rowID); err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("row_id = ?", rowID).Delete(&models.MonthlyValue{}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Delete(row).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
}

// SetRowValue upserts a raw monthly value for a row. A direct edit
// always clears the projected flag, even when it overwrites a value an
// applied record wrote earlier.
func (s *workbookService) SetRowValue(userID, rowID string, m month.Month, value decimal.Decimal) (*models.MonthlyValue, error) {
	if _, err := s.GetRowByID(userID, rowID); err != nil {
		return nil, err
	}

	mv := &models.MonthlyValue{
		RowID: rowID,
		Year:  m.Year,
		Month: int(m.Month),
		Value: value,
	}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "row_id"}, {Name: "year"}, {Name: "month"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "is_projected", "updated_at"}),
	}).Create(mv).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return mv, nil
}

// GetRowValues lists a row's monthly values for a calendar year.
func (s *workbookService) GetRowValues(userID, rowID string, year int) ([]models.MonthlyValue, error) {
	if _, err := s.GetRowByID(userID, rowID); err != nil {
		return nil, err
	}

	var values []models.MonthlyValue
	if err := s.db.Where("row_id = ? AND year = ?", rowID, year).
		Order("month").
		Find(&values).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return values, nil
}

// LoadLedger loads the user's full workbook, values included, into an
// in-memory ledger for totals, formulas, and projections.
func (s *workbookService) LoadLedger(userID string) (*ledger.Ledger, error) {
	var categories []models.Category
	err := s.db.Where("user_id = ?", userID).
		Order("display_order, created_at").
		Preload("Subcategories", func(db *gorm.DB) *gorm.DB {
			return db.Order("display_order, created_at")
		}).
		Preload("Subcategories.Rows", func(db *gorm.DB) *gorm.DB {
			return db.Order("display_order, created_at")
		}).
		Preload("Subcategories.Rows.Values").
		Find(&categories).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return ledger.New(categories), nil
}

// Rollup computes the per-category and per-subcategory monthly totals
// for a calendar year.
func (s *workbookService) Rollup(userID string, year int) ([]ledger.CategoryRollup, error) {
	l, err := s.LoadLedger(userID)
	if err != nil {
		return nil, err
	}

	rollups, err := l.Rollup(year)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInvalidFormula, err)
	}
	return rollups, nil
}
