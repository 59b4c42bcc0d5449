package service

import (
	"context"
	"log"
	"strconv"
	"time"

	"gorm.io/gorm"

	"parceldesk/api/internal/model"
)

// AuditService persists the sync audit trail in postgres. Recording is
// best-effort: the coordinator must never fail an operation because the
// audit write failed.
type AuditService struct {
	db *gorm.DB
}

// NewAuditService creates a new audit service.
func NewAuditService(db *gorm.DB) *AuditService {
	return &AuditService{db: db}
}

// Record stores one sync outcome.
func (s *AuditService) Record(ctx context.Context, entry model.SyncAudit) {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
		log.Printf("[Audit] record %s %s failed: %v", entry.Kind, entry.Op, err)
	}
}

// List returns audit entries, newest first, filtered and paginated.
func (s *AuditService) List(ctx context.Context, kind, outcome, page, pageSize string) ([]model.SyncAudit, int64, error) {
	query := s.db.WithContext(ctx).Model(&model.SyncAudit{})
	if kind != "" {
		query = query.Where("kind = ?", kind)
	}
	if outcome != "" {
		query = query.Where("outcome = ?", outcome)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	p := parsePositive(page, 1)
	size := parsePositive(pageSize, 20)

	var entries []model.SyncAudit
	err := query.Order("created_at DESC").
		Offset((p - 1) * size).
		Limit(size).
		Find(&entries).Error
	return entries, total, err
}

// Stats summarizes today's sync health: how often operations had to
// fall back to the local cache.
func (s *AuditService) Stats(ctx context.Context) (map[string]interface{}, error) {
	var todayOps, todayFallbacks int64
	db := s.db.WithContext(ctx).Model(&model.SyncAudit{})

	if err := db.Where("DATE(created_at) = CURRENT_DATE").Count(&todayOps).Error; err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(&model.SyncAudit{}).
		Where("DATE(created_at) = CURRENT_DATE AND outcome = ?", model.SyncOutcomeFallback).
		Count(&todayFallbacks).Error; err != nil {
		return nil, err
	}

	type kindCount struct {
		Kind  string `gorm:"column:kind"`
		Count int64  `gorm:"column:count"`
	}
	var perKind []kindCount
	if err := s.db.WithContext(ctx).Model(&model.SyncAudit{}).
		Select("kind, COUNT(*) as count").
		Where("DATE(created_at) = CURRENT_DATE AND outcome = ?", model.SyncOutcomeFallback).
		Group("kind").
		Scan(&perKind).Error; err != nil {
		return nil, err
	}

	fallbacksByKind := make(map[string]int64, len(perKind))
	for _, kc := range perKind {
		fallbacksByKind[kc.Kind] = kc.Count
	}

	return map[string]interface{}{
		"today_operations":  todayOps,
		"today_fallbacks":   todayFallbacks,
		"fallbacks_by_kind": fallbacksByKind,
	}, nil
}

func parsePositive(s string, fallback int) int {
	if s == "" {
		return fallback
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
