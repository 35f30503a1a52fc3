package main

import (
	"iot-panel/confs"
	"iot-panel/db"
	"iot-panel/logging"
	"iot-panel/server"
)

func main() {
	// load config
	if err := confs.LoadConfig(); err != nil {
		panic(err)
	}

	log := logging.New()

	// connect to database Postgres
	database, err := db.Connect(log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to DB")
	}

	// run server
	srv := server.NewServer(database, log)
	if err := srv.Start(); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
