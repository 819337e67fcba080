// Package inmemdb provides in-memory repositories with the same observable
// behavior as the postgres ones (uniqueness, cascades, filtering, ordering).
// Test double only; nothing is persisted.
package inmemdb

import (
	"strings"
	"sync"

	"github.com/trezcool/daftari/core"
	"github.com/trezcool/daftari/core/grade"
	"github.com/trezcool/daftari/core/paper"
	"github.com/trezcool/daftari/core/student"
	"github.com/trezcool/daftari/core/subject"
)

type (
	// papers and grades are stored as rows referencing their owners by id;
	// the embedded objects are assembled on read, like the JOINs do.
	paperRow struct {
		id           string
		name         string
		paperType    string
		subjectID    string
		totalScore   core.Decimal
		dateAssigned core.Date
	}

	gradeRow struct {
		id           string
		studentID    string
		paperID      string
		score        core.Decimal
		dateRecorded core.Date
		notes        string
	}

	DB struct {
		mutex    sync.RWMutex
		students map[string]student.Student
		subjects map[string]subject.Subject
		papers   map[string]paperRow
		grades   map[string]gradeRow
	}
)

func Open() (*DB, error) {
	return &DB{
		students: make(map[string]student.Student),
		subjects: make(map[string]subject.Subject),
		papers:   make(map[string]paperRow),
		grades:   make(map[string]gradeRow),
	}, nil
}

// callers must hold the lock
func (db *DB) assemblePaper(row paperRow) paper.Paper {
	return paper.Paper{
		ID:           row.id,
		Name:         row.name,
		PaperType:    row.paperType,
		Subject:      db.subjects[row.subjectID],
		TotalScore:   row.totalScore,
		DateAssigned: row.dateAssigned,
	}
}

// callers must hold the lock
func (db *DB) assembleGrade(row gradeRow) grade.Grade {
	return grade.Grade{
		ID:           row.id,
		Student:      db.students[row.studentID],
		Paper:        db.assemblePaper(db.papers[row.paperID]),
		Score:        row.score,
		DateRecorded: row.dateRecorded,
		Notes:        row.notes,
	}
}

// callers must hold the lock
func (db *DB) deleteGradesOfPaper(paperID string) {
	for id, row := range db.grades {
		if row.paperID == paperID {
			delete(db.grades, id)
		}
	}
}

// callers must hold the lock
func (db *DB) deletePapersOfSubject(subjectID string) {
	for id, row := range db.papers {
		if row.subjectID == subjectID {
			db.deleteGradesOfPaper(id)
			delete(db.papers, id)
		}
	}
}

// contains is a case-insensitive substring match on any of vals.
func contains(search string, vals ...string) bool {
	search = strings.ToLower(search)
	for _, val := range vals {
		if strings.Contains(strings.ToLower(val), search) {
			return true
		}
	}
	return false
}

func compareFold(a, b string) int {
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}
