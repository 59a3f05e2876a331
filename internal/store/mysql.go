package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/interviewpartner/backend/internal/domain/feedback"
	interviewsession "github.com/interviewpartner/backend/internal/domain/interview_session"
)

type sessionModel struct {
	ID             string    `gorm:"primaryKey;size:36"`
	RoleName       string    `gorm:"size:100;not null"`
	Mode           string    `gorm:"size:16;not null"`
	State          string    `gorm:"size:16;not null"`
	QuestionIndex  int       `gorm:"not null"`
	FollowUpCount  int       `gorm:"not null"`
	TotalQuestions int       `gorm:"not null"`
	Persona        string    `gorm:"size:16;not null"`
	Revision       int       `gorm:"not null"`
	CreatedAt      time.Time `gorm:"index;autoCreateTime:false"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime:false"`
}

func (sessionModel) TableName() string { return "sessions" }

type messageModel struct {
	SessionID string    `gorm:"primaryKey;size:36"`
	Seq       int       `gorm:"primaryKey;autoIncrement:false"`
	Kind      string    `gorm:"size:16;not null"`
	Text      string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime:false"`
}

func (messageModel) TableName() string { return "messages" }

type feedbackModel struct {
	SessionID          string    `gorm:"primaryKey;size:36"`
	Communication      int       `gorm:"not null"`
	TechnicalKnowledge int       `gorm:"not null"`
	Structure          int       `gorm:"not null"`
	Strengths          string    `gorm:"type:text;not null"` // JSON array
	Improvements       string    `gorm:"type:text;not null"` // JSON array
	OverallFeedback    string    `gorm:"type:text;not null"`
	GeneratedAt        time.Time `gorm:"not null"`
}

func (feedbackModel) TableName() string { return "feedback" }

// MySQLStore persists sessions in MySQL through GORM.
type MySQLStore struct {
	db *gorm.DB
}

var _ Store = (*MySQLStore)(nil)

// NewMySQL opens the database and migrates the tables.
func NewMySQL(dsn string) (*MySQLStore, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.AutoMigrate(&sessionModel{}, &messageModel{}, &feedbackModel{}); err != nil {
		return nil, fmt.Errorf("failed to migrate tables: %w", err)
	}
	return &MySQLStore{db: db}, nil
}

func (s *MySQLStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB from gorm.DB: %w", err)
	}
	return sqlDB.Close()
}

func (s *MySQLStore) SaveSession(ctx context.Context, sess *interviewsession.Session) error {
	rec := RecordFromSession(sess)
	row := sessionModel{
		ID:             rec.ID,
		RoleName:       rec.RoleName,
		Mode:           rec.Mode,
		State:          rec.State,
		QuestionIndex:  rec.QuestionIndex,
		FollowUpCount:  rec.FollowUpCount,
		TotalQuestions: rec.TotalQuestions,
		Persona:        rec.Persona,
		Revision:       rec.Revision,
		CreatedAt:      rec.CreatedAt,
		UpdatedAt:      rec.UpdatedAt,
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&sessionModel{}).
			Where("id = ? AND revision < ?", row.ID, row.Revision).
			Updates(map[string]any{
				"state":          row.State,
				"question_index": row.QuestionIndex,
				"followup_count": row.FollowUpCount,
				"persona":        row.Persona,
				"revision":       row.Revision,
				"updated_at":     row.UpdatedAt,
			})
		if res.Error != nil {
			return fmt.Errorf("failed to update session: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			// Either new, or the stored revision is already newer.
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error; err != nil {
				return fmt.Errorf("failed to create session: %w", err)
			}
		}

		if len(rec.Transcript) == 0 {
			return nil
		}
		msgs := make([]messageModel, len(rec.Transcript))
		for i, m := range rec.Transcript {
			msgs[i] = messageModel{
				SessionID: rec.ID,
				Seq:       m.Seq,
				Kind:      string(m.Kind),
				Text:      m.Text,
				CreatedAt: m.Timestamp.UTC(),
			}
		}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&msgs).Error; err != nil {
			return fmt.Errorf("failed to save messages: %w", err)
		}
		return nil
	})
}

func (s *MySQLStore) SaveFeedback(ctx context.Context, r *feedback.Report) error {
	strengths, err := json.Marshal(r.Strengths)
	if err != nil {
		return err
	}
	improvements, err := json.Marshal(r.Improvements)
	if err != nil {
		return err
	}
	row := feedbackModel{
		SessionID:          r.SessionID,
		Communication:      r.Scores.Communication,
		TechnicalKnowledge: r.Scores.TechnicalKnowledge,
		Structure:          r.Scores.Structure,
		Strengths:          string(strengths),
		Improvements:       string(improvements),
		OverallFeedback:    r.OverallFeedback,
		GeneratedAt:        r.GeneratedAt.UTC(),
	}
	if err := s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error; err != nil {
		return fmt.Errorf("failed to save feedback: %w", err)
	}
	return nil
}

func (s *MySQLStore) GetSession(ctx context.Context, id string) (*StoredSession, error) {
	db := s.db.WithContext(ctx)

	var row sessionModel
	if err := db.First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var msgs []messageModel
	if err := db.Where("session_id = ?", id).Order("seq ASC").Find(&msgs).Error; err != nil {
		return nil, fmt.Errorf("failed to get messages: %w", err)
	}

	out := &StoredSession{Session: SessionRecord{
		ID:             row.ID,
		RoleName:       row.RoleName,
		Mode:           row.Mode,
		State:          row.State,
		QuestionIndex:  row.QuestionIndex,
		FollowUpCount:  row.FollowUpCount,
		TotalQuestions: row.TotalQuestions,
		Persona:        row.Persona,
		Revision:       row.Revision,
		CreatedAt:      row.CreatedAt.UTC(),
		UpdatedAt:      row.UpdatedAt.UTC(),
	}}
	for _, m := range msgs {
		out.Session.Transcript = append(out.Session.Transcript, interviewsession.Message{
			Seq:       m.Seq,
			Kind:      interviewsession.MessageKind(m.Kind),
			Text:      m.Text,
			Timestamp: m.CreatedAt.UTC(),
		})
	}

	var fb feedbackModel
	err := db.First(&fb, "session_id = ?", id).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
	case err != nil:
		return nil, fmt.Errorf("failed to get feedback: %w", err)
	default:
		report, err := fb.toReport()
		if err != nil {
			return nil, err
		}
		out.Feedback = report
	}
	return out, nil
}

func (s *MySQLStore) LoadHistory(ctx context.Context, limit int) (*History, error) {
	db := s.db.WithContext(ctx)

	type historyRow struct {
		ID                 string
		RoleName           string
		Mode               string
		State              string
		CreatedAt          time.Time
		Communication      *int
		TechnicalKnowledge *int
		Structure          *int
	}
	var rows []historyRow
	err := db.Table("sessions AS s").
		Select("s.id, s.role_name, s.mode, s.state, s.created_at, f.communication, f.technical_knowledge, f.structure").
		Joins("LEFT JOIN feedback f ON f.session_id = s.id").
		Order("s.created_at DESC").Order("s.id ASC").
		Limit(clampLimit(limit)).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}

	h := &History{Sessions: make([]HistoryEntry, 0, len(rows))}
	for _, r := range rows {
		e := HistoryEntry{
			SessionID: r.ID,
			RoleName:  r.RoleName,
			Mode:      r.Mode,
			State:     r.State,
			CreatedAt: r.CreatedAt.UTC(),
		}
		if r.Communication != nil && r.TechnicalKnowledge != nil && r.Structure != nil {
			e.HasFeedback = true
			e.AverageScore = feedback.Scores{
				Communication:      *r.Communication,
				TechnicalKnowledge: *r.TechnicalKnowledge,
				Structure:          *r.Structure,
			}.Average()
		}
		h.Sessions = append(h.Sessions, e)
	}

	var total int64
	if err := db.Model(&sessionModel{}).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count sessions: %w", err)
	}
	h.TotalSessions = int(total)

	var avg *float64
	if err := db.Model(&feedbackModel{}).
		Select("AVG((communication + technical_knowledge + structure) / 3.0)").
		Scan(&avg).Error; err != nil {
		return nil, fmt.Errorf("failed to average scores: %w", err)
	}
	if avg != nil {
		h.AverageScore = *avg
	}
	return h, nil
}

func (m feedbackModel) toReport() (*feedback.Report, error) {
	r := &feedback.Report{
		SessionID: m.SessionID,
		Scores: feedback.Scores{
			Communication:      m.Communication,
			TechnicalKnowledge: m.TechnicalKnowledge,
			Structure:          m.Structure,
		},
		OverallFeedback: m.OverallFeedback,
		GeneratedAt:     m.GeneratedAt.UTC(),
	}
	if err := json.Unmarshal([]byte(m.Strengths), &r.Strengths); err != nil {
		return nil, fmt.Errorf("failed to decode strengths: %w", err)
	}
	if err := json.Unmarshal([]byte(m.Improvements), &r.Improvements); err != nil {
		return nil, fmt.Errorf("failed to decode improvements: %w", err)
	}
	return r, nil
}
