// Package inmem provides map-backed repositories for tests. They honor the
// same unique constraints as the Postgres schema and surface violations as
// core.DuplicateKeyError with the matching constraint names.
package inmem

import (
	"sync"

	"github.com/trezcool/darasa/core/announcement"
	"github.com/trezcool/darasa/core/assignment"
	"github.com/trezcool/darasa/core/course"
	"github.com/trezcool/darasa/core/material"
	"github.com/trezcool/darasa/core/user"
)

type enrollment struct {
	courseID int
	userID   int
}

// DB is the shared state behind all in-memory repositories.
type DB struct {
	mu sync.Mutex

	users          map[int]user.User
	courses        map[int]course.Course
	enrollments    map[int]enrollment
	courseTeachers map[enrollment]bool
	assignments    map[int]assignment.Assignment
	submissions    map[int]assignment.Submission
	announcements  map[int]announcement.Announcement
	comments       map[int]announcement.Comment
	materials      map[int]material.Material

	lastID int
}

func NewDB() *DB {
	return &DB{
		users:          make(map[int]user.User),
		courses:        make(map[int]course.Course),
		enrollments:    make(map[int]enrollment),
		courseTeachers: make(map[enrollment]bool),
		assignments:    make(map[int]assignment.Assignment),
		submissions:    make(map[int]assignment.Submission),
		announcements:  make(map[int]announcement.Announcement),
		comments:       make(map[int]announcement.Comment),
		materials:      make(map[int]material.Material),
	}
}

// nextID must be called with mu held.
func (db *DB) nextID() int {
	db.lastID++
	return db.lastID
}
