// cmd/server/main.go
package main

import (
	"log"
	"net/http"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"

	"github.com/fanxiao/doudizhu/internal/auth"
	"github.com/fanxiao/doudizhu/internal/cache"
	"github.com/fanxiao/doudizhu/internal/database"
	"github.com/fanxiao/doudizhu/internal/handlers"
	"github.com/fanxiao/doudizhu/internal/middleware"
)

func main() {
	auth.Init()
	database.ConnectDB()

	logger := logrus.New()
	logger.SetLevel(logrus.DebugLevel)

	if err := cache.ConnectRedis(); err != nil {
		// Hand records just stay unpersisted; play continues.
		logger.Warnf("redis unavailable, hand history disabled: %v", err)
	}

	mux := http.NewServeMux()

	// user endpoints
	mux.HandleFunc("/user/create", handlers.CreateUserHandler)
	mux.HandleFunc("/user/login", handlers.LoginHandler)
	mux.HandleFunc("/user/claim", handlers.ClaimEphemeralHandler)

	// room server
	rs := handlers.NewRoomServer(logger)

	// room endpoints
	mux.Handle("/room/create", middleware.LogMiddleware(logger)(http.HandlerFunc(
		handlers.CreateRoomHandler(rs),
	)))
	mux.Handle("/room/list", middleware.LogMiddleware(logger)(http.HandlerFunc(
		handlers.ListRoomsHandler(rs),
	)))
	mux.Handle("/room/join", middleware.LogMiddleware(logger)(http.HandlerFunc(
		handlers.JoinRoomHandler(rs),
	)))
	mux.Handle("/room/state/", middleware.LogMiddleware(logger)(http.HandlerFunc(
		handlers.RoomStateHandler(rs),
	)))
	mux.Handle("/room/history/", middleware.LogMiddleware(logger)(http.HandlerFunc(
		handlers.RoomHistoryHandler(rs),
	)))

	// room websocket
	mux.Handle("/room/ws/", middleware.LogMiddleware(logger)(http.HandlerFunc(
		handlers.RoomWSHandler(logger, rs),
	)))

	// stats endpoints
	mux.Handle("/stats/leaderboard", middleware.LogMiddleware(logger)(http.HandlerFunc(
		handlers.LeaderboardHandler,
	)))
	mux.Handle("/stats/player/", middleware.LogMiddleware(logger)(http.HandlerFunc(
		handlers.PlayerStatsHandler,
	)))

	addr := ":8080"
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}
	logger.Infof("Running on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}
