package main

import (
	"log"
	"os"

	"github.com/trezcool/daftari/core"
	"github.com/trezcool/daftari/core/grade"
	"github.com/trezcool/daftari/core/paper"
	"github.com/trezcool/daftari/core/student"
	"github.com/trezcool/daftari/core/subject"
	"github.com/trezcool/daftari/storage/database"
	sqlxrepos "github.com/trezcool/daftari/storage/database/sqlx"
)

var logger *log.Logger // todo: logger service

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf := core.NewConfig()
	cli := commandLine{conf: conf}

	// createdb runs before the app database can be opened
	if len(os.Args) > 1 && os.Args[1] != "createdb" {
		db, err := database.Open(conf)
		errAndDie(err)
		defer db.Close()
		errAndDie(db.Ping())

		cli.db = db
		cli.studentSvc = student.NewService(sqlxrepos.NewStudentRepository(db))
		cli.subjectSvc = subject.NewService(sqlxrepos.NewSubjectRepository(db))
		cli.paperSvc = paper.NewService(sqlxrepos.NewPaperRepository(db), cli.subjectSvc)
		cli.gradeSvc = grade.NewService(sqlxrepos.NewGradeRepository(db), cli.studentSvc, cli.paperSvc)
	}

	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
