package main

import (
	"context"
	"log"
	"os"

	"github.com/go-playground/validator/v10"

	"github.com/KS-2006-TD/LMS/core"
	"github.com/KS-2006-TD/LMS/core/lms"
	"github.com/KS-2006-TD/LMS/core/user"
	logsvc "github.com/KS-2006-TD/LMS/services/logger"
	"github.com/KS-2006-TD/LMS/storage/database"
	"github.com/KS-2006-TD/LMS/storage/database/postgres"
)

func main() {
	conf := core.NewConfig()
	logger := logsvc.NewRollbarLogger(log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile), conf)

	// set up the record store
	store, err := database.Open(context.Background(), conf)
	if err != nil {
		logger.Fatal("opening record store", err)
	}
	defer store.Close()

	translator := core.NewTranslator()
	validate := validator.New()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)

	// start CLI
	cli := commandLine{
		store:    store,
		svc:      lms.NewService(store, nil, nil, logger),
		validate: validate,
		out:      os.Stdout,
	}
	if pg, ok := store.(*postgres.Store); ok {
		cli.db = pg.DB()
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Error("command failed", err)
		}
		store.Close()
		os.Exit(1)
	}
}
