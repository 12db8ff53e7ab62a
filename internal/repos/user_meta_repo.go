package repos

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jmoiron/sqlx"
)

// UserMetaRepo is a per-user key/value store.
type UserMetaRepo struct{ db *sqlx.DB }

func NewUserMetaRepo(db *sqlx.DB) *UserMetaRepo { return &UserMetaRepo{db: db} }

// Get returns the value of key for userID; ok is false when unset.
func (r *UserMetaRepo) Get(userID, key string) (value string, ok bool, err error) {
	err = r.db.Get(&value, `SELECT meta_value FROM user_meta WHERE user_id=? AND meta_key=?`, userID, key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (r *UserMetaRepo) Set(userID, key, value string) error {
	_, err := r.db.Exec(`
		INSERT INTO user_meta(user_id, meta_key, meta_value) VALUES(?,?,?)
		ON CONFLICT(user_id, meta_key) DO UPDATE SET meta_value = excluded.meta_value
	`, userID, key, value)
	return err
}

// LockRepo keeps price locks as user metadata, one unix timestamp per product.
type LockRepo struct{ Meta *UserMetaRepo }

func NewLockRepo(db *sqlx.DB) *LockRepo { return &LockRepo{Meta: NewUserMetaRepo(db)} }

func lockKey(productID string) string { return "price_lock_" + productID }

func (r *LockRepo) LockedAt(userID, productID string) (time.Time, bool, error) {
	v, ok, err := r.Meta.Get(userID, lockKey(productID))
	if err != nil || !ok {
		return time.Time{}, false, err
	}
	sec, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("price lock %s/%s: %w", userID, productID, err)
	}
	return time.Unix(sec, 0), true, nil
}

func (r *LockRepo) SetLockedAt(userID, productID string, at time.Time) error {
	return r.Meta.Set(userID, lockKey(productID), strconv.FormatInt(at.Unix(), 10))
}
