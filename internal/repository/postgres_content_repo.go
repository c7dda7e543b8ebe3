package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/hitoshi/castplan/internal/model"
)

// PostgresContentRepo はPostgreSQLを使用した予約投稿リポジトリ。
// platformsとfilesはTEXT[]カラムとして保持し、pq.Arrayで読み書きする。
type PostgresContentRepo struct {
	db *sql.DB
}

// NewPostgresContentRepo はPostgresContentRepoを生成する。
func NewPostgresContentRepo(db *sql.DB) *PostgresContentRepo {
	return &PostgresContentRepo{db: db}
}

const contentColumns = `id, title, content, content_type, platforms, scheduled_for,
	hashtags, mentions, files, status, user_id, created_at`

// scanContent は1行分のコンテンツをスキャンする。
func scanContent(scan func(dest ...any) error) (*model.Content, error) {
	c := &model.Content{}
	err := scan(
		&c.ID, &c.Title, &c.Body, &c.ContentType, pq.Array(&c.Platforms), &c.ScheduledAt,
		&c.Hashtags, &c.Mentions, pq.Array(&c.Files), &c.Status, &c.UserID, &c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	// TEXT[]が空のときpq.Arrayはnilスライスを返す。APIでは常に[]として
	// 返したいので空スライスに正規化する。
	if c.Platforms == nil {
		c.Platforms = []string{}
	}
	if c.Files == nil {
		c.Files = []string{}
	}
	return c, nil
}

// FindByIDAndUser は指定IDかつ指定ユーザー所有のコンテンツを取得する。
// 見つからない場合（他ユーザー所有を含む）はnilを返す。
func (r *PostgresContentRepo) FindByIDAndUser(ctx context.Context, id int64, userID string) (*model.Content, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+contentColumns+` FROM contents WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	content, err := scanContent(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find content: %w", err)
	}
	return content, nil
}

// ListByUserID はユーザーの全コンテンツをscheduled_for降順で返す。
func (r *PostgresContentRepo) ListByUserID(ctx context.Context, userID string) ([]*model.Content, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+contentColumns+` FROM contents
		 WHERE user_id = $1
		 ORDER BY scheduled_for DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list contents: %w", err)
	}
	defer rows.Close()

	contents := []*model.Content{}
	for rows.Next() {
		content, err := scanContent(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan content: %w", err)
		}
		contents = append(contents, content)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate contents: %w", err)
	}

	return contents, nil
}

// Create はコンテンツを作成し、採番されたIDをcontent.IDに設定する。
func (r *PostgresContentRepo) Create(ctx context.Context, content *model.Content) error {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO contents
		 (title, content, content_type, platforms, scheduled_for,
		  hashtags, mentions, files, status, user_id, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 RETURNING id`,
		content.Title, content.Body, content.ContentType, pq.Array(content.Platforms),
		content.ScheduledAt, content.Hashtags, content.Mentions, pq.Array(content.Files),
		content.Status, content.UserID, content.CreatedAt,
	).Scan(&content.ID)
	if err != nil {
		return fmt.Errorf("failed to insert content: %w", err)
	}
	return nil
}

// Update はコンテンツの全フィールドを上書き更新する。
// 所有者不一致または不存在の場合はsql.ErrNoRowsを返す。
func (r *PostgresContentRepo) Update(ctx context.Context, content *model.Content) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE contents
		 SET title = $1, content = $2, content_type = $3, platforms = $4,
		     scheduled_for = $5, hashtags = $6, mentions = $7, files = $8
		 WHERE id = $9 AND user_id = $10`,
		content.Title, content.Body, content.ContentType, pq.Array(content.Platforms),
		content.ScheduledAt, content.Hashtags, content.Mentions, pq.Array(content.Files),
		content.ID, content.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to update content: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteByIDAndUser は指定IDかつ指定ユーザー所有のコンテンツを削除する。
// 削除対象が存在しない場合はsql.ErrNoRowsを返す。
func (r *PostgresContentRepo) DeleteByIDAndUser(ctx context.Context, id int64, userID string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM contents WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete content: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// compile-time interface check
var _ ContentRepository = (*PostgresContentRepo)(nil)
