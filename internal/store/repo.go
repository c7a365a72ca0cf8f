package store

import (
	"context"
	"time"
)

// User is a registered player.
type User struct {
	ID           string    `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	FullName     string    `db:"full_name" json:"fullName"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}

// ProgressRecord is one slot of a user's journey.
type ProgressRecord struct {
	UserID      string     `db:"user_id" json:"-"`
	GameNumber  int        `db:"game_number" json:"gameNumber"`
	Score       int        `db:"score" json:"score"`
	Completed   bool       `db:"completed" json:"completed"`
	Unlocked    bool       `db:"unlocked" json:"unlocked"`
	CompletedAt *time.Time `db:"completed_at" json:"completedAt,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"-"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updatedAt"`
}

// ProgressUpdate lists the fields to change on a slot. Nil pointers leave the
// column as is.
type ProgressUpdate struct {
	// Completed marks the slot completed. False never clears the flag.
	Completed bool
	Score     *int
	// CompletedAt is only written the first time the slot completes.
	CompletedAt *time.Time
	// UnlockNext also unlocks the following slot.
	UnlockNext bool
}

// Certificate is issued when the final game is completed.
type Certificate struct {
	ID             string    `db:"id" json:"id"`
	UserID         string    `db:"user_id" json:"userId"`
	Type           string    `db:"certificate_type" json:"certificateType"`
	TotalScore     int       `db:"total_score" json:"totalScore"`
	GamesCompleted int       `db:"games_completed" json:"gamesCompleted"`
	IssuedAt       time.Time `db:"issued_at" json:"issuedAt"`
}

// Achievement is a one-off badge.
type Achievement struct {
	ID          string    `db:"id" json:"id"`
	UserID      string    `db:"user_id" json:"-"`
	Type        string    `db:"achievement_type" json:"type"`
	Name        string    `db:"achievement_name" json:"name"`
	Description string    `db:"achievement_description" json:"description"`
	EarnedAt    time.Time `db:"earned_at" json:"earnedAt"`
}

// Photo is a gallery upload.
type Photo struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"userId"`
	ObjectKey string    `db:"object_key" json:"-"`
	URL       string    `db:"photo_url" json:"photoUrl"`
	Caption   string    `db:"caption" json:"caption"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// Wish is a message on the wish wall.
type Wish struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"userId"`
	Author    string    `db:"author" json:"author"`
	Text      string    `db:"text" json:"text"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// Digest summarizes activity for the daily report.
type Digest struct {
	Users        int `db:"users" json:"users"`
	Completions  int `db:"completions" json:"completions"`
	Certificates int `db:"certificates" json:"certificates"`
	Photos       int `db:"photos" json:"photos"`
	Wishes       int `db:"wishes" json:"wishes"`
}

// GameStat aggregates one game across all users.
type GameStat struct {
	GameNumber   int     `db:"game_number" json:"gameNumber"`
	Completions  int     `db:"completions" json:"completions"`
	AverageScore float64 `db:"average_score" json:"averageScore"`
}

// ListOpts paginates list queries.
type ListOpts struct {
	Limit  int // max results (0 = unlimited)
	Offset int
}

// UserRepo manages accounts.
type UserRepo interface {
	// Create inserts a user. A duplicate email yields ErrEmailTaken.
	Create(ctx context.Context, u *User) error

	// ByEmail returns the user with the given email or ErrNotFound.
	ByEmail(ctx context.Context, email string) (User, error)

	// ByID returns the user or ErrNotFound.
	ByID(ctx context.Context, id string) (User, error)

	// List returns users ordered by creation time.
	List(ctx context.Context) ([]User, error)
}

// ProgressRepo reads and writes game_progress rows.
type ProgressRepo interface {
	// Seed creates the six slots for a user with only the first unlocked.
	// Existing rows are left untouched.
	Seed(ctx context.Context, userID string) error

	// Get returns the user's slots ordered by game number.
	Get(ctx context.Context, userID string) ([]ProgressRecord, error)

	// GetGame returns one slot or ErrNotFound. Inside a Postgres transaction
	// the row is locked until commit.
	GetGame(ctx context.Context, userID string, game int) (ProgressRecord, error)

	// Update applies upd to a slot and returns the stored row. Completion is
	// never reverted.
	Update(ctx context.Context, userID string, game int, upd ProgressUpdate) (ProgressRecord, error)

	// UnlockNext unlocks the slot after game. It reports whether the slot
	// changed and is a no-op for the last game.
	UnlockNext(ctx context.Context, userID string, game int) (bool, error)

	// ListAll returns every row ordered by user and game, for export.
	ListAll(ctx context.Context) ([]ProgressRecord, error)

	// UserIDs lists users that have progress rows.
	UserIDs(ctx context.Context) ([]string, error)
}

// CertificateRepo stores completion certificates.
type CertificateRepo interface {
	// Insert appends a certificate. It is not idempotent.
	Insert(ctx context.Context, c *Certificate) error

	// ByID returns a certificate or ErrNotFound.
	ByID(ctx context.Context, id string) (Certificate, error)

	// ForUser lists a user's certificates, newest first.
	ForUser(ctx context.Context, userID string) ([]Certificate, error)

	// All lists every certificate, newest first.
	All(ctx context.Context) ([]Certificate, error)
}

// AchievementRepo stores badges.
type AchievementRepo interface {
	// Award inserts an achievement unless the user already has one of the
	// same type. It reports whether a row was added.
	Award(ctx context.Context, a *Achievement) (bool, error)

	// ForUser lists a user's achievements in the order they were earned.
	ForUser(ctx context.Context, userID string) ([]Achievement, error)
}

// PhotoRepo stores gallery metadata.
type PhotoRepo interface {
	Create(ctx context.Context, p *Photo) error
	List(ctx context.Context, opts ListOpts) ([]Photo, error)
}

// WishRepo stores wish wall messages.
type WishRepo interface {
	Create(ctx context.Context, w *Wish) error
	List(ctx context.Context, opts ListOpts) ([]Wish, error)
}

// StatsRepo computes aggregates.
type StatsRepo interface {
	// Digest counts activity since the given time. A zero time counts
	// everything.
	Digest(ctx context.Context, since time.Time) (Digest, error)

	// Games aggregates completions per game.
	Games(ctx context.Context) ([]GameStat, error)
}
