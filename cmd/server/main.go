package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/jrsteele09/go-hms/appointments"
	"github.com/jrsteele09/go-hms/internal/config"
	"github.com/jrsteele09/go-hms/nursetasks"
	"github.com/jrsteele09/go-hms/patients"
	"github.com/jrsteele09/go-hms/records"
	"github.com/jrsteele09/go-hms/server"
	"github.com/jrsteele09/go-hms/storage/postgres"
	"github.com/jrsteele09/go-hms/token/refresh/redisrepo"
	refreshfake "github.com/jrsteele09/go-hms/token/refresh/repofake"
	userfake "github.com/jrsteele09/go-hms/users/repofake"
	"github.com/redis/go-redis/v9"
)

func main() {
	for {
		if err := run(); err != nil {
			log.Fatalf("Error running server: %s\n", err)
			time.Sleep(1 * time.Second)
		} else {
			break
		}
	}
	log.Printf("Server stopped\n")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Recovered from panic: %v\n", r)
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	config.LoadDotEnv()
	c := config.New()
	displayAppname(c.GetAppName())

	repos, cleanup, err := buildRepos(c)
	if err != nil {
		return err
	}
	defer cleanup()

	handler, err := server.New(c, repos)
	if err != nil {
		return fmt.Errorf("server.New: %w", err)
	}

	httpServer := &http.Server{Addr: c.GetPort(), Handler: handler}
	go listenAndServe(httpServer)
	waitForStopSignal()
	returnError = shutdown(httpServer)
	return returnError
}

// buildRepos selects the storage backends. DATABASE_URL switches the domain
// data to PostgreSQL and REDIS_ADDR moves refresh tokens to Redis; without
// them everything runs in memory, which is enough for development.
func buildRepos(c config.Config) (server.Repos, func(), error) {
	repos := server.Repos{
		Users:         userfake.NewFakeUserRepo(),
		Patients:      patients.NewInMemoryRepo(),
		Appointments:  appointments.NewInMemoryRepo(),
		Records:       records.NewInMemoryRepo(),
		Tasks:         nursetasks.NewInMemoryRepo(),
		RefreshTokens: refreshfake.NewFakeRefreshTokenRepo(),
	}
	cleanup := func() {}

	if databaseURL := c.GetDatabaseURL(); databaseURL != "" {
		ctx := context.Background()
		pool, err := postgres.Connect(ctx, databaseURL)
		if err != nil {
			return server.Repos{}, nil, fmt.Errorf("postgres.Connect: %w", err)
		}
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			return server.Repos{}, nil, fmt.Errorf("postgres.Migrate: %w", err)
		}
		repos.Users = postgres.NewUserRepo(pool)
		repos.Patients = postgres.NewPatientRepo(pool)
		repos.Appointments = postgres.NewAppointmentRepo(pool)
		repos.Records = postgres.NewRecordRepo(pool)
		repos.Tasks = postgres.NewTaskRepo(pool)
		repos.RefreshTokens = postgres.NewRefreshTokenRepo(pool)
		cleanup = pool.Close
	}

	if redisAddr := c.GetRedisAddr(); redisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: redisAddr})
		repos.RefreshTokens = redisrepo.New(client, c.GetRefreshTokenExpiry())
	}

	return repos, cleanup, nil
}

func listenAndServe(httpServer *http.Server) error {
	log.Printf("Server listening on %s\n", httpServer.Addr)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func waitForStopSignal() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
}

func shutdown(httpServer *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
