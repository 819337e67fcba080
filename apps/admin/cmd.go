package main

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/trezcool/daftari/core"
	"github.com/trezcool/daftari/core/grade"
	"github.com/trezcool/daftari/core/paper"
	"github.com/trezcool/daftari/core/student"
	"github.com/trezcool/daftari/core/subject"
)

var errHelp = errors.New("help provided")

type commandLine struct {
	db   *sql.DB
	conf *core.Config

	studentSvc *student.Service
	subjectSvc *subject.Service
	paperSvc   *paper.Service
	gradeSvc   *grade.Service
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  createdb               - create the database and app user if they do not exist")
	fmt.Println("  migrate COMMAND [ARGS] - run a migration command (up, down, status, ...)")
	fmt.Println("  seed                   - load a small demo dataset")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	switch args[1] {
	case "createdb":
		return cli.createDB()
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])
	case "seed":
		return cli.seed()
	default:
		cli.printUsage()
		return errHelp
	}
}
