package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"carrental/internal/cache"
	intconfig "carrental/internal/config"
	intdb "carrental/internal/db"
	router "carrental/internal/http"
	"carrental/internal/http/handlers"
	"carrental/internal/services"

	"github.com/gin-gonic/gin"
)

func main() {
	env := intconfig.LoadEnv()
	if env.GinMode != "" {
		gin.SetMode(env.GinMode)
	}

	db := intconfig.ConnectDB(env.DSN())
	defer intconfig.CloseDB()

	if env.MigrateOnStart {
		if err := intdb.Migrate(db); err != nil {
			log.Fatalf("Migrasi database gagal: %v", err)
		}
	}

	bootCtx, bootCancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := (services.UserService{}).EnsureAdmin(bootCtx, env.AdminEmail, env.AdminPassword); err != nil {
		log.Printf("warning: gagal membuat akun admin awal: %v", err)
	}
	bootCancel()

	deps := handlers.Deps{
		Rules:     env.Pricing.Rules(),
		JWTSecret: []byte(env.JWTSecret),
		JWTTTL:    env.JWTTTL,
	}
	rdb := intconfig.ConnectRedis(env)
	if rdb != nil {
		defer rdb.Close()
		if kc := cache.NewKPICache(rdb, env.KPICacheTTL); kc != nil {
			deps.KPICache = kc
		}
	}
	handlers.Configure(deps)

	// Router (Gin engine)
	r := router.NewRouter(env)
	handlers.SetRouter(r)

	srv := &http.Server{
		Addr:              env.AppAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       20 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("Server berjalan di http://localhost%s", env.AppAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Gagal menjalankan server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("Mematikan server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Shutdown server gagal: %v", err)
	}

	log.Println("Server berhenti dengan aman.")
}
