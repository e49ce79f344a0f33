package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/trezcool/dashboard/core"
	"github.com/trezcool/dashboard/core/room"
	logsvc "github.com/trezcool/dashboard/services/logger"
	"github.com/trezcool/dashboard/storage/database"
	inmemdb "github.com/trezcool/dashboard/storage/database/inmem"
	sqlxrepos "github.com/trezcool/dashboard/storage/database/sqlx"
)

const engineMemory = "memory"

func main() {
	conf := core.NewConfig()
	logger := logsvc.NewRollbarLogger(
		log.New(os.Stderr, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	defer logger.Wait()

	cli, closeDB, err := newCommandLine(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}

	err = cli.run(os.Args)
	if cErr := closeDB(); cErr != nil {
		logger.Error("closing database", cErr)
	}
	if err != nil {
		if err != errHelp {
			logger.Error(fmt.Sprintf("error: %v", err), err)
		}
		os.Exit(1)
	}
}

func newCommandLine(conf *core.Config) (*commandLine, func() error, error) {
	if conf.Database.Engine == engineMemory {
		db := inmemdb.Open()
		return &commandLine{
			usrRepo: inmemdb.NewUserRepository(db),
			roomSvc: room.NewService(inmemdb.NewRoomRepository(db)),
			out:     os.Stdout,
		}, func() error { return nil }, nil
	}

	ctx := context.Background()
	if err := database.CreateIfNotExist(ctx, conf); err != nil {
		return nil, nil, err
	}
	db, err := database.Open(ctx, conf)
	if err != nil {
		return nil, nil, err
	}
	return &commandLine{
		db:      db.DB,
		usrRepo: sqlxrepos.NewUserRepository(db),
		roomSvc: room.NewService(sqlxrepos.NewRoomRepository(db)),
		out:     os.Stdout,
	}, db.Close, nil
}
