package repository

import (
	"context"

	"github.com/jackc/pgx/v4/pgxpool"
)

// MemberDirectory definition sender display name lookup，
// member 表由會員服務維護，這裡只讀
type MemberDirectory interface {
	// FetchNames 批次查顯示名稱，查不到的 id 不會出現在結果裡
	FetchNames(ctx context.Context, memberIDs []string) (map[string]string, error)
}

type memberDirectory struct {
	db *pgxpool.Pool
}

// NewMemberDirectory create a MemberDirectory
func NewMemberDirectory(db *pgxpool.Pool) MemberDirectory {
	return &memberDirectory{db: db}
}

// FetchNames 一次查一批，省掉一則訊息一發 query
func (r *memberDirectory) FetchNames(ctx context.Context, memberIDs []string) (map[string]string, error) {
	names := make(map[string]string, len(memberIDs))
	if len(memberIDs) == 0 {
		return names, nil
	}

	rows, err := r.db.Query(ctx, "SELECT member_id, display_name FROM member WHERE member_id = ANY($1)", memberIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id, name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, err
		}
		names[id] = name
	}
	return names, rows.Err()
}
