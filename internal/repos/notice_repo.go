package repos

import (
	"github.com/jmoiron/sqlx"

	"offerbytes/internal/domain"
)

// NoticeRepo queues flash messages per session.
type NoticeRepo struct{ db *sqlx.DB }

func NewNoticeRepo(db *sqlx.DB) *NoticeRepo { return &NoticeRepo{db: db} }

func (r *NoticeRepo) Add(sessionID string, notices ...domain.Notice) error {
	if len(notices) == 0 {
		return nil
	}
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()
	for _, n := range notices {
		if _, err := tx.Exec(`INSERT INTO notices(session_id, kind, text) VALUES(?,?,?)`, sessionID, string(n.Kind), n.Text); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Drain returns the pending notices of a session in order and deletes them.
func (r *NoticeRepo) Drain(sessionID string) ([]domain.Notice, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	out := []domain.Notice{}
	if err := tx.Select(&out, `SELECT kind, text FROM notices WHERE session_id=? ORDER BY id`, sessionID); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return out, nil
	}
	if _, err := tx.Exec(`DELETE FROM notices WHERE session_id=?`, sessionID); err != nil {
		return nil, err
	}
	return out, tx.Commit()
}
