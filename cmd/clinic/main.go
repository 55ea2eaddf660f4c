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

	"fyne.io/fyne/v2/app"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"clinic-booking/internal/auth"
	"clinic-booking/internal/booking"
	"clinic-booking/internal/config"
	"clinic-booking/internal/handler"
	"clinic-booking/internal/logger"
	"clinic-booking/internal/middleware"
	"clinic-booking/internal/slots"
	"clinic-booking/internal/store"
	"clinic-booking/internal/store/migrations"
	"clinic-booking/internal/ui"
)

const appID = "com.clinic.booking"

func main() {
	rootCmd := &cobra.Command{
		Use:   "clinic",
		Short: "Clinic appointment booking",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGUI()
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(slotsCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func slotsCmd() *cobra.Command {
	var date, doctor string
	cmd := &cobra.Command{
		Use:   "slots",
		Short: "Print the open slots for a date",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup()
			if err != nil {
				return err
			}
			st, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			svc, err := newService(cfg, st, log)
			if err != nil {
				return err
			}
			open, err := svc.AvailableSlots(cmd.Context(), doctor, date)
			if err != nil {
				return err
			}
			for _, s := range open {
				fmt.Fprintln(cmd.OutOrStdout(), s)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", time.Now().Format("2006-01-02"), "date as YYYY-MM-DD")
	cmd.Flags().StringVar(&doctor, "doctor", "", "doctor username; empty lists every candidate")
	return cmd
}

func migrateCmd() *cobra.Command {
	var status bool
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup()
			if err != nil {
				return err
			}
			if cfg.Storage != config.StoragePostgres {
				return fmt.Errorf("migrate needs STORAGE=%s", config.StoragePostgres)
			}
			db, err := store.Open(cfg.DBDriver, cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer db.Close()

			m := migrations.New(db)
			if status {
				pending, err := m.Pending(cmd.Context())
				if err != nil {
					return err
				}
				for _, n := range pending {
					fmt.Fprintln(cmd.OutOrStdout(), "pending", n)
				}
				return m.Verify(cmd.Context())
			}

			applied, err := m.Up(cmd.Context())
			if err != nil {
				return err
			}
			log.Info().Strs("applied", applied).Msg("migrations done")
			return nil
		},
	}
	cmd.Flags().BoolVar(&status, "status", false, "list pending files and check the booked slot index")
	return cmd
}

func setup() (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	return cfg, logger.New(os.Stderr, cfg.LogLevel, cfg.LogFormat), nil
}

func openStore(cfg *config.Config) (store.Store, error) {
	if cfg.Storage != config.StoragePostgres {
		return store.NewFile(cfg.UsersPath(), cfg.AppointmentsPath()), nil
	}
	db, err := store.Open(cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return store.New(db), nil
}

func newService(cfg *config.Config, st store.Store, log zerolog.Logger) (*booking.Service, error) {
	hasher, err := auth.NewHasher(cfg.PasswordHashing)
	if err != nil {
		return nil, err
	}
	return booking.New(st, st, slots.NewGenerator(), hasher, log), nil
}

func runGUI() error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	svc, err := newService(cfg, st, log)
	if err != nil {
		return err
	}
	ui.New(app.NewWithID(appID), svc, log).Run()
	return nil
}

func runServer() error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	if cfg.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()
	log.Info().Str("storage", cfg.Storage).Msg("store ready")

	svc, err := newService(cfg, st, log)
	if err != nil {
		return err
	}

	rl := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	defer rl.Close()
	h := handler.New(svc, cfg.JWTSecret, rl, log)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           h.Handler(cfg.CORSOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}
	srvLog := logger.Component(log, "server")
	go func() {
		srvLog.Info().Str("addr", srv.Addr).Msg("http listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			srvLog.Error().Err(err).Msg("http")
		}
	}()

	// graceful shutdown
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	<-ch
	srvLog.Info().Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}
