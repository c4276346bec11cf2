package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/learnloop/learnloop-backend/internal/dto"
	"github.com/learnloop/learnloop-backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// HideThreshold is the live report count at which content is hidden
// automatically. A fixed, auditable trigger on purpose.
const HideThreshold = 5

var (
	ErrInvalidTarget    = errors.New("exactly one of post_id or comment_id is required")
	ErrInvalidReason    = errors.New("invalid report reason")
	ErrTargetNotFound   = errors.New("reported content not found")
	ErrSelfReport       = errors.New("cannot report your own content")
	ErrDuplicateReport  = errors.New("you have already reported this content")
	ErrReportNotFound   = errors.New("report not found")
	ErrEmailNotVerified = errors.New("email verification required")
)

// ReportService is the report ledger. Report creation and the
// threshold-triggered hide happen inside one transaction; the row lock on
// the target item serializes concurrent submissions against it.
type ReportService struct {
	db *gorm.DB
}

func NewReportService(db *gorm.DB) *ReportService {
	return &ReportService{db: db}
}

// Submit validates and records a report, hiding the target once its live
// report count reaches HideThreshold. All-or-nothing.
func (s *ReportService) Submit(reporterID uuid.UUID, req *dto.CreateReportRequest) (*models.Report, error) {
	if (req.PostID == nil) == (req.CommentID == nil) {
		return nil, ErrInvalidTarget
	}
	if !models.ValidReportReason(req.Reason) {
		return nil, ErrInvalidReason
	}
	if len(req.Details) > 1000 {
		return nil, invalidInput("details must be under 1000 characters")
	}

	var reporter models.User
	if err := s.db.First(&reporter, "id = ?", reporterID).Error; err != nil {
		return nil, ErrUserNotFound
	}
	if !reporter.IsVerified() {
		return nil, ErrEmailNotVerified
	}

	report := models.Report{
		ID:         uuid.New(),
		ReporterID: reporterID,
		PostID:     req.PostID,
		CommentID:  req.CommentID,
		Reason:     req.Reason,
		Details:    req.Details,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if req.PostID != nil {
			return s.submitAgainstPost(tx, &report)
		}
		return s.submitAgainstComment(tx, &report)
	})
	if err != nil {
		return nil, err
	}
	return &report, nil
}

func (s *ReportService) submitAgainstPost(tx *gorm.DB, report *models.Report) error {
	// The FOR UPDATE lock makes concurrent submissions against the same
	// post take turns, so each one counts every previously committed
	// report and the hide fires exactly once.
	var post models.Post
	if err := lockForUpdate(tx).First(&post, "id = ?", *report.PostID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTargetNotFound
		}
		return err
	}
	if post.AuthorID == report.ReporterID {
		return ErrSelfReport
	}

	var existing models.Report
	if err := tx.Where("reporter_id = ? AND post_id = ?", report.ReporterID, *report.PostID).
		First(&existing).Error; err == nil {
		return ErrDuplicateReport
	}

	if err := tx.Create(report).Error; err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}

	var count int64
	if err := tx.Model(&models.Report{}).Where("post_id = ?", *report.PostID).Count(&count).Error; err != nil {
		return err
	}
	if count >= HideThreshold && !post.IsHidden {
		return tx.Model(&models.Post{}).
			Where("id = ? AND is_hidden = ?", *report.PostID, false).
			Update("is_hidden", true).Error
	}
	return nil
}

func (s *ReportService) submitAgainstComment(tx *gorm.DB, report *models.Report) error {
	var comment models.Comment
	if err := lockForUpdate(tx).First(&comment, "id = ?", *report.CommentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTargetNotFound
		}
		return err
	}
	if comment.AuthorID == report.ReporterID {
		return ErrSelfReport
	}

	var existing models.Report
	if err := tx.Where("reporter_id = ? AND comment_id = ?", report.ReporterID, *report.CommentID).
		First(&existing).Error; err == nil {
		return ErrDuplicateReport
	}

	if err := tx.Create(report).Error; err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}

	var count int64
	if err := tx.Model(&models.Report{}).Where("comment_id = ?", *report.CommentID).Count(&count).Error; err != nil {
		return err
	}
	if count >= HideThreshold && !comment.IsHidden {
		return tx.Model(&models.Comment{}).
			Where("id = ? AND is_hidden = ?", *report.CommentID, false).
			Update("is_hidden", true).Error
	}
	return nil
}

// List returns the admin report queue, newest first, with live per-target
// totals. has_more is derived from whether the page filled the limit.
func (s *ReportService) List(limit, offset int) (*dto.AdminReportListResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	var reports []models.Report
	err := s.preloadTargets(s.db).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&reports).Error
	if err != nil {
		return nil, err
	}

	counts, err := s.targetCounts(reports)
	if err != nil {
		return nil, err
	}

	rows := make([]dto.AdminReportResponse, len(reports))
	for i := range reports {
		rows[i] = s.projectReport(&reports[i], counts, false)
	}

	return &dto.AdminReportListResponse{
		Reports: rows,
		Limit:   limit,
		Offset:  offset,
		HasMore: len(reports) == limit,
	}, nil
}

// Detail returns one report with full (email-bearing) projections and
// every sibling report against the same target.
func (s *ReportService) Detail(reportID uuid.UUID) (*dto.AdminReportDetailResponse, error) {
	var report models.Report
	if err := s.preloadTargets(s.db).First(&report, "id = ?", reportID).Error; err != nil {
		return nil, ErrReportNotFound
	}

	query := s.preloadTargets(s.db)
	if report.PostID != nil {
		query = query.Where("post_id = ?", *report.PostID)
	} else {
		query = query.Where("comment_id = ?", *report.CommentID)
	}

	var siblings []models.Report
	if err := query.Order("created_at DESC, id DESC").Find(&siblings).Error; err != nil {
		return nil, err
	}

	counts, err := s.targetCounts(siblings)
	if err != nil {
		return nil, err
	}

	all := make([]dto.AdminReportResponse, len(siblings))
	for i := range siblings {
		all[i] = s.projectReport(&siblings[i], counts, true)
	}

	return &dto.AdminReportDetailResponse{
		AdminReportResponse: s.projectReport(&report, counts, true),
		AllReports:          all,
	}, nil
}

// Unhide restores visibility of the reported item. Report rows stay.
func (s *ReportService) Unhide(reportID uuid.UUID) error {
	var report models.Report
	if err := s.db.First(&report, "id = ?", reportID).Error; err != nil {
		return ErrReportNotFound
	}

	if report.PostID != nil {
		return s.clearHidden(s.db, &models.Post{}, *report.PostID)
	}
	return s.clearHidden(s.db, &models.Comment{}, *report.CommentID)
}

// Dismiss deletes every report against the same target and restores its
// visibility, in one transaction.
func (s *ReportService) Dismiss(reportID uuid.UUID) error {
	var report models.Report
	if err := s.db.First(&report, "id = ?", reportID).Error; err != nil {
		return ErrReportNotFound
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if report.PostID != nil {
			if err := tx.Where("post_id = ?", *report.PostID).Delete(&models.Report{}).Error; err != nil {
				return err
			}
			return s.clearHidden(tx, &models.Post{}, *report.PostID)
		}
		if err := tx.Where("comment_id = ?", *report.CommentID).Delete(&models.Report{}).Error; err != nil {
			return err
		}
		return s.clearHidden(tx, &models.Comment{}, *report.CommentID)
	})
}

// clearHidden fails closed when the target row is gone entirely.
// Soft-deleted targets can still be unhidden, the two flags are
// independent.
func (s *ReportService) clearHidden(tx *gorm.DB, model interface{}, targetID uuid.UUID) error {
	result := tx.Unscoped().Model(model).Where("id = ?", targetID).Update("is_hidden", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTargetNotFound
	}
	return nil
}

// preloadTargets loads reporter, target, and target author, unscoped so
// soft-deleted rows still project in the admin views.
func (s *ReportService) preloadTargets(db *gorm.DB) *gorm.DB {
	return db.Model(&models.Report{}).
		Preload("Reporter", unscoped).
		Preload("Post", unscoped).
		Preload("Post.Author", unscoped).
		Preload("Comment", unscoped).
		Preload("Comment.Author", unscoped)
}

// targetCounts returns live report totals per target for a page of reports.
func (s *ReportService) targetCounts(reports []models.Report) (map[uuid.UUID]int64, error) {
	postIDs := make([]uuid.UUID, 0, len(reports))
	commentIDs := make([]uuid.UUID, 0, len(reports))
	for i := range reports {
		if reports[i].PostID != nil {
			postIDs = append(postIDs, *reports[i].PostID)
		}
		if reports[i].CommentID != nil {
			commentIDs = append(commentIDs, *reports[i].CommentID)
		}
	}

	counts := make(map[uuid.UUID]int64)

	if len(postIDs) > 0 {
		var rows []struct {
			PostID uuid.UUID
			Count  int64
		}
		err := s.db.Model(&models.Report{}).
			Select("post_id, count(*) as count").
			Where("post_id IN ?", postIDs).
			Group("post_id").
			Find(&rows).Error
		if err != nil {
			return nil, err
		}
		for _, r := range rows {
			counts[r.PostID] = r.Count
		}
	}

	if len(commentIDs) > 0 {
		var rows []struct {
			CommentID uuid.UUID
			Count     int64
		}
		err := s.db.Model(&models.Report{}).
			Select("comment_id, count(*) as count").
			Where("comment_id IN ?", commentIDs).
			Group("comment_id").
			Find(&rows).Error
		if err != nil {
			return nil, err
		}
		for _, r := range rows {
			counts[r.CommentID] = r.Count
		}
	}

	return counts, nil
}

func (s *ReportService) projectReport(report *models.Report, counts map[uuid.UUID]int64, includeEmail bool) dto.AdminReportResponse {
	row := dto.AdminReportResponse{
		ReportResponse: dto.ReportResponse{
			ID:        report.ID,
			PostID:    report.PostID,
			CommentID: report.CommentID,
			Reason:    report.Reason,
			Details:   report.Details,
			CreatedAt: report.CreatedAt,
		},
		Reporter: UserProjection(&report.Reporter, includeEmail),
	}

	if report.Post != nil {
		row.Target = dto.ReportTarget{
			Type:     "post",
			ID:       report.Post.ID,
			Excerpt:  excerpt(report.Post.Title),
			IsHidden: report.Post.IsHidden,
			Deleted:  report.Post.DeletedAt.Valid,
			Author:   UserProjection(&report.Post.Author, includeEmail),
		}
		row.TotalReports = counts[report.Post.ID]
	} else if report.Comment != nil {
		row.Target = dto.ReportTarget{
			Type:     "comment",
			ID:       report.Comment.ID,
			Excerpt:  excerpt(report.Comment.Body),
			IsHidden: report.Comment.IsHidden,
			Deleted:  report.Comment.DeletedAt.Valid,
			Author:   UserProjection(&report.Comment.Author, includeEmail),
		}
		row.TotalReports = counts[report.Comment.ID]
	}

	return row
}

// excerpt truncates on a rune boundary so multi-byte text stays valid
// UTF-8 in the admin projections.
func excerpt(text string) string {
	const max = 120
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max]) + "..."
}

// lockForUpdate takes a row lock on Postgres. SQLite allows a single
// writer per database, which covers the same serialization in tests.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}
