// cmd/historian/main.go runs the standalone historian service: it drains
// finished-hand records from the Redis queue and persists them to Postgres.
package main

import (
	"os"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload"
	log "github.com/sirupsen/logrus"

	"github.com/fanxiao/doudizhu/internal/historian"
)

func main() {
	hs := historian.NewService()
	go hs.Run()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	hs.Stop()
	log.Info("historian shutdown complete")
}
