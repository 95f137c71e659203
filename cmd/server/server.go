package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Mshel/gridsnake/internal/config"
	"github.com/Mshel/gridsnake/internal/leaderboard"
	"github.com/Mshel/gridsnake/internal/netlimit"
	"github.com/Mshel/gridsnake/internal/ui"
	"github.com/Mshel/gridsnake/internal/web"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/bubbletea"
	"github.com/charmbracelet/wish/logging"
)

const shutdownTimeout = 30 * time.Second

func connectionLimiterMiddleware(limiter *netlimit.Limiter) wish.Middleware {
	return func(next ssh.Handler) ssh.Handler {
		return func(s ssh.Session) {
			ip := netlimit.HostOf(s.RemoteAddr())

			allowed, current := limiter.Acquire(ip)
			if !allowed {
				log.Warn("Connection denied: IP limit exceeded", "ip", ip, "attempted_count", current+1, "current_limit", limiter.Max())
				errorMessage := fmt.Sprintf("Too many active connections from your IP (%d/%d). Please try again later.\r\n", current+1, limiter.Max())
				s.Write([]byte(errorMessage))
				s.Close()
				return
			}

			log.Info("Connection accepted", "ip", ip, "current_count", current, "limit", limiter.Max())
			next(s)
			limiter.Release(ip)
			log.Info("Connection closed and counter decremented", "ip", ip, "count_after", limiter.Count(ip))
		}
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Invalid configuration", "error", err)
	}
	log.SetLevel(cfg.LogLevel)

	scores, err := leaderboard.NewHighScoreService()
	if err != nil {
		log.Fatal("Could not open the leaderboard", "error", err)
	}
	defer scores.Close()

	// ssh and websocket connections share one per-IP budget
	limiter := netlimit.NewLimiter(cfg.MaxConnectionsIP)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sshServer, serverCreateErr := wish.NewServer(
		wish.WithAddress(cfg.SSHAddress()),
		wish.WithHostKeyPath(cfg.PrivateKeyPath),
		wish.WithMiddleware(
			bubbletea.Middleware(viewHandler(cfg, scores)),
			logging.Middleware(),
			activeterm.Middleware(),
			connectionLimiterMiddleware(limiter),
		),
	)
	if serverCreateErr != nil {
		log.Fatal("Failed to create ssh server", "error", serverCreateErr)
	}

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddress(),
		Handler:           web.NewServer(ctx, cfg, scores, limiter).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverDoneChannel := make(chan os.Signal, 1)
	// Capturing system signal to stop the servers
	signal.Notify(serverDoneChannel, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	log.Info("Starting SSH server", "address", cfg.SSHAddress())
	go func() {
		if err := sshServer.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			log.Error("Could not start ssh server", "error", err)
			serverDoneChannel <- nil
		}
	}()

	log.Info("Starting HTTP server", "address", cfg.HTTPAddress())
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Could not start http server", "error", err)
			serverDoneChannel <- nil
		}
	}()

	<-serverDoneChannel

	log.Info("Stopping servers")
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := sshServer.Shutdown(shutdownCtx); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
		log.Error("Could not stop ssh server", "error", err)
	}
	if err := httpServer.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("Could not stop http server", "error", err)
	}
}

func viewHandler(cfg config.Config, scores *leaderboard.HighScoreService) bubbletea.Handler {
	return func(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
		pty, _, _ := sshSession.Pty()
		controllerModel := ui.NewControllerModel(sshSession.Context(), cfg, scores, sshSession.User(), pty.Window.Width, pty.Window.Height)
		return controllerModel, []tea.ProgramOption{tea.WithAltScreen(), tea.WithMouseCellMotion()}
	}
}
