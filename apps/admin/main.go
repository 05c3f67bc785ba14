package main

import (
	"log"
	"os"

	"github.com/jmoiron/sqlx"

	"github.com/ViNit736/GFM-record-management-app-sub001/core"
	"github.com/ViNit736/GFM-record-management-app-sub001/storage/database"
	sqlxrepos "github.com/ViNit736/GFM-record-management-app-sub001/storage/database/sqlx"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	// set up DB
	db, err := database.Open(core.Conf)
	errAndDie(err)
	defer db.Close()
	errAndDie(db.Ping())
	sdb := sqlx.NewDb(db, core.Conf.Database.Engine)

	// start CLI
	cli := commandLine{
		db:         db,
		usrRepo:    sqlxrepos.NewUserRepository(sdb),
		rosterRepo: sqlxrepos.NewRosterRepository(sdb),
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
