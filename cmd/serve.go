package cmd

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/frostline/holidayquest/internal/achievements"
	"github.com/frostline/holidayquest/internal/auth"
	"github.com/frostline/holidayquest/internal/blob"
	"github.com/frostline/holidayquest/internal/gallery"
	"github.com/frostline/holidayquest/internal/games/coding"
	"github.com/frostline/holidayquest/internal/greeting"
	"github.com/frostline/holidayquest/internal/llm"
	"github.com/frostline/holidayquest/internal/notify"
	"github.com/frostline/holidayquest/internal/progress"
	"github.com/frostline/holidayquest/internal/scheduler"
	"github.com/frostline/holidayquest/internal/web"
)

const hubBuffer = 16

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API, progress stream and background jobs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		cfg, logger, st, err := setup(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		hub := progress.NewHub(hubBuffer)
		ach := achievements.NewService(st.AchievementRepo(), logger)
		notifier, err := notify.New(cfg.Telegram, logger)
		if err != nil {
			return err
		}
		defer notifier.Close()

		gate := progress.NewGate(st, progress.WithLogger(logger))
		gate.Subscribe(ach)
		gate.Subscribe(hub)
		gate.Subscribe(notifier)

		var photos gallery.Blob
		if cfg.Storage.Enabled() {
			b, err := blob.New(cfg.Storage)
			if err != nil {
				return err
			}
			if err := b.EnsureBucket(ctx); err != nil {
				return err
			}
			photos = b
		} else {
			logger.Warn("object storage not configured, photo uploads are disabled")
		}
		gal := gallery.NewService(photos, st.PhotoRepo(), st.WishRepo(),
			gallery.WithMaxPhotoBytes(cfg.Gallery.MaxPhotoBytes),
			gallery.WithHooks(ach),
			gallery.WithLogger(logger),
		)

		cfg.LLM.Discover()
		provider, err := llm.NewProvider(ctx, cfg.LLM, logger)
		if err != nil {
			return err
		}
		if provider == nil {
			logger.Info("no llm provider configured, greetings use the built-in texts")
		}

		runner, err := coding.NewRunner(cfg.Coding.RunnerConfig())
		if err != nil {
			return err
		}

		sched, err := scheduler.New(cfg.Scheduler, logger)
		if err != nil {
			return err
		}
		if err := sched.ScheduleResync(hub, st.ProgressRepo()); err != nil {
			return err
		}
		if cfg.Telegram.Enabled() {
			if err := sched.ScheduleDigest(st.StatsRepo(), notifier); err != nil {
				return err
			}
		}
		sched.Start()
		defer sched.Stop()

		srv := web.New(web.Deps{
			Store:        st,
			Gate:         gate,
			Hub:          hub,
			Auth:         auth.NewService(st, cfg.Auth.BcryptCost, logger),
			Sessions:     auth.NewSessions(cfg.Auth.Session, logger),
			Achievements: ach,
			Gallery:      gal,
			Greeter:      greeting.New(provider, cfg.LLM.Timeout, logger),
			Runner:       runner,
			Logger:       logger,
			Prefix:       cfg.Server.Prefix,
			Version:      version,
			HTTPS:        cfg.Server.Scheme() == "https" || cfg.Auth.Session.Secure,
		})
		if err := srv.ListenAndServe(ctx, cfg.Server); err != nil {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	},
}

func init() {
	fs := serveCmd.Flags()
	fs.StringP("bind", "b", "0.0.0.0", "address to bind to (env: HOLIDAYQUEST_SERVER_BIND)")
	fs.IntP("port", "p", 8080, "port to listen on (env: HOLIDAYQUEST_SERVER_PORT)")
	fs.String("prefix", "", "path to prepend to all URLs, for use behind reverse proxy (env: HOLIDAYQUEST_SERVER_PREFIX)")
	fs.String("tls-cert", "", "path to tls certificate (env: HOLIDAYQUEST_SERVER_TLS_CERT)")
	fs.String("tls-key", "", "path to tls keyfile (env: HOLIDAYQUEST_SERVER_TLS_KEY)")
}
