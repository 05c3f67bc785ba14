package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"

	echoapi "github.com/ViNit736/GFM-record-management-app-sub001/apps/api/echo"
	"github.com/ViNit736/GFM-record-management-app-sub001/core"
	"github.com/ViNit736/GFM-record-management-app-sub001/core/attendance"
	"github.com/ViNit736/GFM-record-management-app-sub001/core/comms"
	"github.com/ViNit736/GFM-record-management-app-sub001/core/report"
	"github.com/ViNit736/GFM-record-management-app-sub001/core/roster"
	"github.com/ViNit736/GFM-record-management-app-sub001/core/user"
	emailsvc "github.com/ViNit736/GFM-record-management-app-sub001/services/email"
	logsvc "github.com/ViNit736/GFM-record-management-app-sub001/services/logger"
	"github.com/ViNit736/GFM-record-management-app-sub001/storage/database"
	sqlxrepos "github.com/ViNit736/GFM-record-management-app-sub001/storage/database/sqlx"
)

func main() {
	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lshortfile),
		core.Conf,
	)

	// set up DB
	db, err := database.Open(core.Conf)
	errAndDie(err)
	defer db.Close()
	sdb := sqlx.NewDb(db, core.Conf.Database.Engine)

	// set up services
	var mailSvc core.EmailService
	if core.Conf.Debug {
		mailSvc = emailsvc.NewConsoleService()
	} else {
		mailSvc = emailsvc.NewSendgridService(logger)
	}
	usrSvc := user.NewService(sqlxrepos.NewUserRepository(sdb), mailSvc)
	rosterSvc := roster.NewService(sqlxrepos.NewRosterRepository(sdb), logger, roster.NewYearAliases(core.Conf.YearAliases))
	attendanceSvc := attendance.NewService(sqlxrepos.NewAttendanceRepository(sdb), logger)
	commsSvc := comms.NewService(sqlxrepos.NewCommsRepository(sdb), logger)
	reportSvc := report.NewService(rosterSvc, attendanceSvc, commsSvc, usrSvc, mailSvc, logger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	// start API server
	app := echoapi.NewServer(
		&echoapi.Options{
			Address:  core.Conf.Server.Address(),
			Logger:   logger,
			Shutdown: func() { quit <- syscall.SIGTERM },

			UserSvc:       usrSvc,
			RosterSvc:     rosterSvc,
			AttendanceSvc: attendanceSvc,
			CommsSvc:      commsSvc,
			ReportSvc:     reportSvc,
		},
	)
	go app.Start()

	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	errAndDie(app.Stop(ctx))
}

func errAndDie(err error) {
	if err != nil {
		log.Fatal(err)
	}
}
