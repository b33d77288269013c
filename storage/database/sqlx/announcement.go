package sqlxrepos

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core/announcement"
)

type announcementRepository struct {
	db *sqlx.DB
}

var _ announcement.Repository = (*announcementRepository)(nil) // interface compliance check

func NewAnnouncementRepository(db *sqlx.DB) *announcementRepository {
	return &announcementRepository{db: db}
}

func (repo announcementRepository) CreateAnnouncement(ctx context.Context, ann announcement.Announcement) (announcement.Announcement, error) {
	err := repo.db.GetContext(ctx, &ann.ID, `
        INSERT INTO announcements (course_id, title, content, created_at)
        VALUES ($1, $2, $3, $4)
        RETURNING id`,
		ann.CourseID, ann.Title, ann.Content, ann.CreatedAt,
	)
	if err != nil {
		return announcement.Announcement{}, trapErr(err, "inserting announcement", announcement.ErrNotFound)
	}
	return ann, nil
}

func (repo announcementRepository) GetAnnouncementByID(ctx context.Context, id int) (announcement.Announcement, error) {
	var ann announcement.Announcement
	if err := repo.db.GetContext(ctx, &ann, `SELECT * FROM announcements WHERE id = $1`, id); err != nil {
		return announcement.Announcement{}, trapErr(err, "getting announcement by ID", announcement.ErrNotFound)
	}
	return ann, nil
}

func (repo announcementRepository) QueryAnnouncementsByCourse(ctx context.Context, courseID int) ([]announcement.Announcement, error) {
	anns := make([]announcement.Announcement, 0)
	err := repo.db.SelectContext(ctx, &anns, `
        SELECT * FROM announcements WHERE course_id = $1
        ORDER BY created_at DESC`,
		courseID,
	)
	if err != nil {
		return nil, errors.Wrap(err, "querying announcements by course")
	}
	return anns, nil
}

func (repo announcementRepository) CreateComment(ctx context.Context, cmt announcement.Comment) (announcement.Comment, error) {
	err := repo.db.GetContext(ctx, &cmt.ID, `
        INSERT INTO comments (announcement_id, user_id, content, created_at)
        VALUES ($1, $2, $3, $4)
        RETURNING id`,
		cmt.AnnouncementID, cmt.UserID, cmt.Content, cmt.CreatedAt,
	)
	if err != nil {
		return announcement.Comment{}, trapErr(err, "inserting comment", announcement.ErrNotFound)
	}
	return cmt, nil
}

func (repo announcementRepository) QueryCommentsByAnnouncement(ctx context.Context, announcementID int) ([]announcement.AuthorComment, error) {
	cmts := make([]announcement.AuthorComment, 0)
	err := repo.db.SelectContext(ctx, &cmts, `
        SELECT c.*, u.username, u.first_name, u.last_name
        FROM comments c
        JOIN users u ON u.id = c.user_id
        WHERE c.announcement_id = $1
        ORDER BY c.created_at`,
		announcementID,
	)
	if err != nil {
		return nil, errors.Wrap(err, "querying comments by announcement")
	}
	return cmts, nil
}

func (repo announcementRepository) DeleteComment(ctx context.Context, id, userID int) (bool, error) {
	res, err := repo.db.ExecContext(ctx, `DELETE FROM comments WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return false, errors.Wrap(err, "deleting comment")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, errors.Wrap(err, "deleting comment")
	}
	return n > 0, nil
}
