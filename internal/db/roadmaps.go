package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/careergate/internal/types"
)

// CreateRoadmap inserts a roadmap and all of its items in one transaction.
// When a roadmap already exists for the (candidate, job) pair nothing is
// written and the stored roadmap is returned with created=false.
func (db *DB) CreateRoadmap(ctx context.Context, rm *types.Roadmap, drafts []types.LearningItemDraft) (*types.Roadmap, bool, error) {
	out := *rm
	if out.ID == uuid.Nil {
		out.ID = uuid.New()
	}

	created := false
	err := db.inTx(ctx, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx,
			`INSERT INTO roadmaps (id, user_id, job_id, compatibility_result_id)
			 VALUES ($1, $2, $3, $4)
			 ON CONFLICT (user_id, job_id) DO NOTHING
			 RETURNING created_at`,
			out.ID, out.CandidateID, out.JobID, out.CompatibilityResultID,
		).Scan(&out.CreatedAt)
		if err == pgx.ErrNoRows {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to create roadmap: %w", err)
		}
		created = true

		out.Items = make([]types.LearningItem, 0, len(drafts))
		for _, d := range drafts {
			item := types.LearningItem{
				ID:                 uuid.New(),
				RoadmapID:          out.ID,
				WeekNo:             d.WeekNo,
				DayNo:              d.DayNo,
				Title:              d.Title,
				Description:        d.Description,
				YouTubeVideoID:     d.YouTubeVideoID,
				YouTubeSearchQuery: d.YouTubeSearchQuery,
				ArticleLinks:       nonNilLinks(d.ArticleLinks),
			}
			_, err := tx.Exec(ctx,
				`INSERT INTO learning_items (id, roadmap_id, week_no, day_no, title, description,
				                             youtube_video_id, youtube_search_query, article_links)
				 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
				item.ID, item.RoadmapID, item.WeekNo, item.DayNo, item.Title, item.Description,
				item.YouTubeVideoID, item.YouTubeSearchQuery, item.ArticleLinks,
			)
			if err != nil {
				return fmt.Errorf("failed to insert learning item week %d day %d: %w", d.WeekNo, d.DayNo, err)
			}
			out.Items = append(out.Items, item)
		}
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	if !created {
		existing, err := db.GetRoadmapByPair(ctx, rm.CandidateID, rm.JobID)
		if err != nil {
			return nil, false, err
		}
		if existing == nil {
			return nil, false, fmt.Errorf("roadmap for candidate %s and job %s vanished after conflict", rm.CandidateID, rm.JobID)
		}
		return existing, false, nil
	}
	return &out, true, nil
}

func nonNilLinks(links []string) []string {
	if links == nil {
		return []string{}
	}
	return links
}

const roadmapSelect = `SELECT r.id, r.user_id, r.job_id, r.compatibility_result_id, j.title, r.created_at
	FROM roadmaps r JOIN jobs j ON j.id = r.job_id`

func scanRoadmap(row pgx.Row) (*types.Roadmap, error) {
	var rm types.Roadmap
	if err := row.Scan(&rm.ID, &rm.CandidateID, &rm.JobID, &rm.CompatibilityResultID, &rm.JobTitle, &rm.CreatedAt); err != nil {
		return nil, err
	}
	return &rm, nil
}

// GetRoadmap retrieves a roadmap with its items ordered by week then day.
// Returns nil, nil when not found.
func (db *DB) GetRoadmap(ctx context.Context, roadmapID uuid.UUID) (*types.Roadmap, error) {
	rm, err := scanRoadmap(db.pool.QueryRow(ctx, roadmapSelect+` WHERE r.id = $1`, roadmapID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get roadmap: %w", err)
	}
	if rm.Items, err = db.ListLearningItems(ctx, rm.ID); err != nil {
		return nil, err
	}
	return rm, nil
}

// GetRoadmapByPair retrieves the roadmap for a (candidate, job) pair.
// Returns nil, nil when not found.
func (db *DB) GetRoadmapByPair(ctx context.Context, candidateID, jobID uuid.UUID) (*types.Roadmap, error) {
	rm, err := scanRoadmap(db.pool.QueryRow(ctx,
		roadmapSelect+` WHERE r.user_id = $1 AND r.job_id = $2`, candidateID, jobID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get roadmap: %w", err)
	}
	if rm.Items, err = db.ListLearningItems(ctx, rm.ID); err != nil {
		return nil, err
	}
	return rm, nil
}

// ListRoadmaps lists a candidate's roadmaps, newest first, without items.
func (db *DB) ListRoadmaps(ctx context.Context, candidateID uuid.UUID) ([]types.Roadmap, error) {
	rows, err := db.pool.Query(ctx,
		roadmapSelect+` WHERE r.user_id = $1 ORDER BY r.created_at DESC`, candidateID)
	if err != nil {
		return nil, fmt.Errorf("failed to list roadmaps: %w", err)
	}
	defer rows.Close()

	roadmaps := []types.Roadmap{}
	for rows.Next() {
		rm, err := scanRoadmap(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan roadmap: %w", err)
		}
		roadmaps = append(roadmaps, *rm)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read roadmaps: %w", err)
	}
	return roadmaps, nil
}

const itemColumns = `li.id, li.roadmap_id, li.week_no, li.day_no, li.title, li.description,
	li.youtube_video_id, li.youtube_search_query, li.article_links, li.completed, li.completed_at`

func scanItem(row pgx.Row) (*types.LearningItem, error) {
	var it types.LearningItem
	err := row.Scan(&it.ID, &it.RoadmapID, &it.WeekNo, &it.DayNo, &it.Title, &it.Description,
		&it.YouTubeVideoID, &it.YouTubeSearchQuery, &it.ArticleLinks, &it.Completed, &it.CompletedAt)
	if err != nil {
		return nil, err
	}
	return &it, nil
}

// ListLearningItems lists a roadmap's items ordered by (week, day).
func (db *DB) ListLearningItems(ctx context.Context, roadmapID uuid.UUID) ([]types.LearningItem, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+itemColumns+` FROM learning_items li
		 WHERE li.roadmap_id = $1
		 ORDER BY li.week_no, li.day_no`,
		roadmapID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list learning items: %w", err)
	}
	defer rows.Close()

	items := []types.LearningItem{}
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan learning item: %w", err)
		}
		items = append(items, *it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read learning items: %w", err)
	}
	return items, nil
}

// GetLearningItem retrieves an item that belongs to one of the candidate's
// roadmaps. Items owned by anyone else read as not found (nil, nil).
func (db *DB) GetLearningItem(ctx context.Context, candidateID, itemID uuid.UUID) (*types.LearningItem, error) {
	it, err := scanItem(db.pool.QueryRow(ctx,
		`SELECT `+itemColumns+` FROM learning_items li
		 JOIN roadmaps r ON r.id = li.roadmap_id
		 WHERE li.id = $1 AND r.user_id = $2`,
		itemID, candidateID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get learning item: %w", err)
	}
	return it, nil
}

// MarkLearningItemComplete sets completed on one of the candidate's items.
// Only the completion fields change; completed_at keeps its first value so
// repeating the call is a no-op. Returns nil, nil when the item is not the
// candidate's.
func (db *DB) MarkLearningItemComplete(ctx context.Context, candidateID, itemID uuid.UUID) (*types.LearningItem, error) {
	it, err := scanItem(db.pool.QueryRow(ctx,
		`UPDATE learning_items li
		 SET completed = TRUE, completed_at = COALESCE(li.completed_at, NOW())
		 FROM roadmaps r
		 WHERE li.id = $1 AND r.id = li.roadmap_id AND r.user_id = $2
		 RETURNING `+itemColumns,
		itemID, candidateID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to complete learning item: %w", err)
	}
	return it, nil
}
