package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/lingo-social/internal/domain/apperror"
	"github.com/oksasatya/lingo-social/internal/domain/entity"
	"github.com/oksasatya/lingo-social/internal/domain/repository"
)

var errUserNotFound = apperror.NotFound("user not found")

const userColumns = `id::text, email, password_hash, full_name, bio, avatar_url,
	native_language, learning_language, location, is_onboarded, created_at, updated_at`

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func scanUser(row pgx.Row) (*entity.User, error) {
	u := &entity.User{}
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FullName, &u.Bio, &u.AvatarURL,
		&u.NativeLanguage, &u.LearningLanguage, &u.Location, &u.IsOnboarded,
		&u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errUserNotFound
		}
		return nil, err
	}
	return u, nil
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (email, password_hash, full_name, bio, avatar_url,
			native_language, learning_language, location, is_onboarded)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id::text, created_at, updated_at
	`, u.Email, u.PasswordHash, u.FullName, u.Bio, u.AvatarURL,
		u.NativeLanguage, u.LearningLanguage, u.Location, u.IsOnboarded)

	if err := row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("email already exists")
		}
		return err
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	if !validID(id) {
		return nil, errUserNotFound
	}
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
}

func (r *UserRepository) Update(ctx context.Context, u *entity.User) error {
	if !validID(u.ID) {
		return errUserNotFound
	}
	u.UpdatedAt = time.Now().UTC()

	res, err := r.pool.Exec(ctx, `
		UPDATE users
		SET email = $1, password_hash = $2, full_name = $3, bio = $4, avatar_url = $5,
			native_language = $6, learning_language = $7, location = $8,
			is_onboarded = $9, updated_at = $10
		WHERE id = $11
	`, u.Email, u.PasswordHash, u.FullName, u.Bio, u.AvatarURL,
		u.NativeLanguage, u.LearningLanguage, u.Location, u.IsOnboarded, u.UpdatedAt, u.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("email already exists")
		}
		return err
	}
	if res.RowsAffected() == 0 {
		return errUserNotFound
	}
	return nil
}

func (r *UserRepository) FindExcluding(ctx context.Context, f repository.UserFilter) ([]entity.User, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE NOT (id::text = ANY($1::text[]))
		  AND (NOT $2 OR is_onboarded)
		ORDER BY created_at DESC, id ASC
	`, validIDs(f.ExcludeIDs), f.OnboardedOnly)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []entity.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *u)
	}
	return out, rows.Err()
}

func (r *UserRepository) FriendIDs(ctx context.Context, userID string) ([]string, error) {
	if !validID(userID) {
		return []string{}, nil
	}
	rows, err := r.pool.Query(ctx, `SELECT friend_id::text FROM friendships WHERE user_id = $1`, userID)
	if err != nil {
		return nil, err
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, err
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}

func (r *UserRepository) ListFriends(ctx context.Context, userID string) ([]entity.UserSummary, error) {
	out := []entity.UserSummary{}
	if !validID(userID) {
		return out, nil
	}
	rows, err := r.pool.Query(ctx, `
		SELECT u.id::text, u.full_name, u.avatar_url, u.native_language, u.learning_language
		FROM friendships f
		JOIN users u ON u.id = f.friend_id
		WHERE f.user_id = $1
		ORDER BY u.full_name ASC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var s entity.UserSummary
		if err := rows.Scan(&s.ID, &s.FullName, &s.AvatarURL, &s.NativeLanguage, &s.LearningLanguage); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *UserRepository) AreFriends(ctx context.Context, a, b string) (bool, error) {
	if !validID(a) || !validID(b) {
		return false, nil
	}
	var ok bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM friendships WHERE user_id = $1 AND friend_id = $2)`, a, b,
	).Scan(&ok)
	return ok, err
}

var _ repository.UserRepository = (*UserRepository)(nil)
