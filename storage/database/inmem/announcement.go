package inmem

import (
	"context"
	"sort"

	"github.com/trezcool/darasa/core/announcement"
)

type announcementRepository struct {
	db *DB
}

var _ announcement.Repository = (*announcementRepository)(nil) // interface compliance check

func NewAnnouncementRepository(db *DB) *announcementRepository {
	return &announcementRepository{db: db}
}

func (repo announcementRepository) CreateAnnouncement(_ context.Context, ann announcement.Announcement) (announcement.Announcement, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	ann.ID = repo.db.nextID()
	repo.db.announcements[ann.ID] = ann
	return ann, nil
}

func (repo announcementRepository) GetAnnouncementByID(_ context.Context, id int) (announcement.Announcement, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	ann, ok := repo.db.announcements[id]
	if !ok {
		return announcement.Announcement{}, announcement.ErrNotFound
	}
	return ann, nil
}

func (repo announcementRepository) QueryAnnouncementsByCourse(_ context.Context, courseID int) ([]announcement.Announcement, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	anns := make([]announcement.Announcement, 0)
	for _, ann := range repo.db.announcements {
		if ann.CourseID == courseID {
			anns = append(anns, ann)
		}
	}
	sort.Slice(anns, func(i, j int) bool { return anns[i].ID < anns[j].ID })
	return anns, nil
}

func (repo announcementRepository) CreateComment(_ context.Context, cmt announcement.Comment) (announcement.Comment, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	cmt.ID = repo.db.nextID()
	repo.db.comments[cmt.ID] = cmt
	return cmt, nil
}

func (repo announcementRepository) QueryCommentsByAnnouncement(_ context.Context, announcementID int) ([]announcement.AuthorComment, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	cmts := make([]announcement.AuthorComment, 0)
	for _, cmt := range repo.db.comments {
		if cmt.AnnouncementID != announcementID {
			continue
		}
		acmt := announcement.AuthorComment{Comment: cmt}
		if usr, ok := repo.db.users[cmt.UserID]; ok {
			acmt.Username = usr.Username
			acmt.FirstName = usr.FirstName
			acmt.LastName = usr.LastName
		}
		cmts = append(cmts, acmt)
	}
	sort.Slice(cmts, func(i, j int) bool { return cmts[i].ID < cmts[j].ID })
	return cmts, nil
}

func (repo announcementRepository) DeleteComment(_ context.Context, id, userID int) (bool, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	cmt, ok := repo.db.comments[id]
	if !ok || cmt.UserID != userID {
		return false, nil
	}
	delete(repo.db.comments, id)
	return true, nil
}
