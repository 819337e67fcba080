package main

import (
	"github.com/trezcool/goose"

	appfs "github.com/trezcool/daftari/fs"
	"github.com/trezcool/daftari/storage/database"
)

var (
	gooseRunFunc = goose.RunFS              // mockable
	createDBFunc = database.CreateIfNotExist // mockable
)

func (cli *commandLine) createDB() error {
	return createDBFunc(cli.conf)
}

func (cli *commandLine) migrate(args []string) error {
	arguments := make([]string, 0)
	if len(args) > 1 {
		arguments = append(arguments, args[1:]...)
	}
	return gooseRunFunc(args[0], cli.db, appfs.FS, "migrations", arguments...)
}
