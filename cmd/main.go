package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/LeeDev428/smile-republic-dcms-sub000/cmd/bootstrap"
	"github.com/LeeDev428/smile-republic-dcms-sub000/config"
	"github.com/LeeDev428/smile-republic-dcms-sub000/internal/domain/entity"
	"github.com/LeeDev428/smile-republic-dcms-sub000/internal/infrastructure/cache"
	"github.com/LeeDev428/smile-republic-dcms-sub000/internal/infrastructure/database"
	"github.com/LeeDev428/smile-republic-dcms-sub000/pkg/jwt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "dcms",
		Short: "Dental clinic appointment scheduling server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(slotsCmd())
	rootCmd.AddCommand(tokenCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Initialize application with all dependencies
			app, err := bootstrap.New()
			if err != nil {
				logrus.Errorf("Failed to initialize application: %v", err)
				return err
			}

			// Run the application
			app.Run()
			return nil
		},
	}
}

func openMigrator() (*database.Migrator, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	log := bootstrap.NewLogger(cfg.Log.Level)
	return database.NewMigrator(cfg.DB.MigrateURL(), log)
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	// migrate up
	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			migrator, err := openMigrator()
			if err != nil {
				return err
			}
			defer migrator.Close()

			if err := migrator.Up(); err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			fmt.Println("Schema is up to date.")
			return nil
		},
	})

	// migrate down
	downCmd := &cobra.Command{
		Use:   "down",
		Short: "Roll back applied migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			steps, _ := cmd.Flags().GetInt("steps")

			migrator, err := openMigrator()
			if err != nil {
				return err
			}
			defer migrator.Close()

			if err := migrator.Down(steps); err != nil {
				return err
			}
			fmt.Printf("Rolled back %d migration(s).\n", steps)
			return nil
		},
	}
	downCmd.Flags().Int("steps", 1, "Number of migrations to roll back")
	cmd.AddCommand(downCmd)

	// migrate status
	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show the applied schema version",
		RunE: func(cmd *cobra.Command, args []string) error {
			migrator, err := openMigrator()
			if err != nil {
				return err
			}
			defer migrator.Close()

			version, dirty, ok, err := migrator.Version()
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}
			if !ok {
				fmt.Println("No migrations applied.")
				return nil
			}
			fmt.Printf("Version: %d  Dirty: %t\n", version, dirty)
			return nil
		},
	})

	return cmd
}

func slotsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "slots",
		Short: "Print the available start times for a dentist on a date",
		RunE: func(cmd *cobra.Command, args []string) error {
			dentistArg, _ := cmd.Flags().GetString("dentist")
			dateArg, _ := cmd.Flags().GetString("date")
			duration, _ := cmd.Flags().GetInt("duration")

			dentistID, err := uuid.Parse(dentistArg)
			if err != nil {
				return fmt.Errorf("invalid --dentist: %w", err)
			}

			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			log := bootstrap.NewLogger(cfg.Log.Level)

			clinic, err := bootstrap.LoadClinic(cfg.Scheduling)
			if err != nil {
				return err
			}
			date, err := clinic.Calendar.ParseDate(dateArg)
			if err != nil {
				return fmt.Errorf("invalid --date: %w", err)
			}

			db, err := database.NewPostgresConnection(cfg.DB, cfg.Scheduling.Timezone, false)
			if err != nil {
				return err
			}
			if sqlDB, err := db.DB(); err == nil {
				defer sqlDB.Close()
			}

			usecases := bootstrap.BuildUsecases(cfg, clinic, log, db, nil, nil, nil)
			starts, window, err := usecases.Slot.AvailableStarts(context.Background(), dentistID, date, duration)
			if err != nil {
				return err
			}

			labels := make([]string, len(starts))
			for i, s := range starts {
				labels[i] = s.String()
			}
			fmt.Printf("Window %s-%s, %d slot(s) of %d min\n", window.Start, window.End, len(starts), duration)
			if len(labels) > 0 {
				fmt.Println(strings.Join(labels, " "))
			}
			return nil
		},
	}
	cmd.Flags().String("dentist", "", "Dentist user ID")
	cmd.Flags().String("date", "", "Date as YYYY-MM-DD")
	cmd.Flags().Int("duration", 30, "Service duration in minutes")
	_ = cmd.MarkFlagRequired("dentist")
	_ = cmd.MarkFlagRequired("date")
	return cmd
}

func tokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a staff access token",
		RunE: func(cmd *cobra.Command, args []string) error {
			userArg, _ := cmd.Flags().GetString("user")
			email, _ := cmd.Flags().GetString("email")
			role, _ := cmd.Flags().GetString("role")

			userID, err := uuid.Parse(userArg)
			if err != nil {
				return fmt.Errorf("invalid --user: %w", err)
			}
			roleID, ok := entity.RoleIDByName(role)
			if !ok {
				return fmt.Errorf("unknown --role %q", role)
			}

			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}

			redisClient, err := cache.NewRedisClient(cfg.Redis)
			if err != nil {
				return err
			}
			defer redisClient.Close()

			jwtService := jwt.NewJWTService(cfg.JWT)
			token, tokenID, err := jwtService.GenerateAccessToken(userID, email, roleID)
			if err != nil {
				return fmt.Errorf("failed to sign token: %w", err)
			}

			ctx := context.Background()
			key := jwt.AccessTokenKey(userID, tokenID)
			if err := redisClient.Set(ctx, key, "1", jwtService.GetAccessExpiry()).Err(); err != nil {
				return fmt.Errorf("failed to register token: %w", err)
			}

			fmt.Println(token)
			return nil
		},
	}
	cmd.Flags().String("user", "", "Staff user ID")
	cmd.Flags().String("email", "", "Staff email")
	cmd.Flags().String("role", entity.RoleFrontDesk, "Role: admin, dentist or front_desk")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
