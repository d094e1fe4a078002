package repository

import (
	"context"
	"strings"
	"time"
)

// PhotoSearchQuery defines filters & pagination for the public photo search.
type PhotoSearchQuery struct {
	Q         string    // substring match against description and unique_url
	Tag       string    // exact tag name
	MinRating float64   // minimum average rating, 0 = no filter
	From      time.Time // created_at lower bound, zero = no filter
	To        time.Time // created_at upper bound, zero = no filter
	Sort      string    // newest | oldest | rating
	Page      int
	PageSize  int
}

// PhotoSearchRow is one public search result with owner and rating info
// denormalized for the response.
type PhotoSearchRow struct {
	ID          uint64  `json:"id"`
	UniqueURL   string  `json:"unique_url"`
	Description string  `json:"description"`
	OwnerID     uint64  `json:"owner_id"`
	Owner       string  `json:"owner"`
	AvgRating   float64 `json:"avg_rating"`
	Ratings     int64   `json:"ratings"`
	CreatedAt   string  `json:"created_at"`
}

// Search runs the filtered photo query plus a matching COUNT. The WHERE and
// HAVING clauses are assembled from whichever filters are set.
func (r *PhotoRepo) Search(ctx context.Context, q PhotoSearchQuery) ([]PhotoSearchRow, int64, error) {
	where := []string{}
	args := []any{}

	if q.Q != "" {
		where = append(where, "(LOWER(p.description) LIKE ? OR LOWER(p.unique_url) LIKE ?)")
		needle := "%" + strings.ToLower(q.Q) + "%"
		args = append(args, needle, needle)
	}
	if q.Tag != "" {
		where = append(where,
			"EXISTS (SELECT 1 FROM photo_tags pt JOIN tags t ON t.id = pt.tag_id WHERE pt.photo_id = p.id AND t.name = ?)")
		args = append(args, strings.ToLower(q.Tag))
	}
	if !q.From.IsZero() {
		where = append(where, "p.created_at >= ?")
		args = append(args, q.From.UTC())
	}
	if !q.To.IsZero() {
		where = append(where, "p.created_at <= ?")
		args = append(args, q.To.UTC())
	}

	cond := "1=1"
	if len(where) > 0 {
		cond = strings.Join(where, " AND ")
	}

	having := ""
	havingArgs := []any{}
	if q.MinRating > 0 {
		having = " HAVING COALESCE(AVG(rt.value), 0) >= ?"
		havingArgs = append(havingArgs, q.MinRating)
	}

	order := "p.created_at DESC, p.id DESC"
	switch strings.ToLower(q.Sort) {
	case "oldest":
		order = "p.created_at ASC, p.id ASC"
	case "rating":
		order = "avg_rating DESC, p.id DESC"
	}

	base := ` FROM photos p
		JOIN users u ON u.id = p.user_id
		LEFT JOIN ratings rt ON rt.photo_id = p.id
		WHERE ` + cond + `
		GROUP BY p.id, p.unique_url, p.description, u.id, u.username, p.created_at` + having

	var total int64
	countSQL := "SELECT COUNT(*) FROM (SELECT p.id" + base + ") sub"
	countArgs := append(append([]any{}, args...), havingArgs...)
	if err := r.DB.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := q.PageSize
	offset := (q.Page - 1) * q.PageSize

	dataSQL := `SELECT
			p.id,
			p.unique_url,
			COALESCE(p.description, '') AS description,
			u.id AS owner_id,
			u.username AS owner,
			COALESCE(AVG(rt.value), 0) AS avg_rating,
			COUNT(rt.id) AS ratings,
			DATE_FORMAT(p.created_at, '%Y-%m-%d %T') AS created_at` +
		base + `
		ORDER BY ` + order + `
		LIMIT ? OFFSET ?`

	dataArgs := append(append(append([]any{}, args...), havingArgs...), limit, offset)

	rows, err := r.DB.QueryContext(ctx, dataSQL, dataArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]PhotoSearchRow, 0, limit)
	for rows.Next() {
		var d PhotoSearchRow
		if err := rows.Scan(
			&d.ID,
			&d.UniqueURL,
			&d.Description,
			&d.OwnerID,
			&d.Owner,
			&d.AvgRating,
			&d.Ratings,
			&d.CreatedAt,
		); err != nil {
			return nil, 0, err
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}
