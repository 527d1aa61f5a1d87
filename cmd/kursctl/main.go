package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lkd-web/kurs/internal/config"
	"github.com/lkd-web/kurs/internal/db"
	"github.com/lkd-web/kurs/internal/model"
	"github.com/lkd-web/kurs/internal/repository"
	"github.com/lkd-web/kurs/internal/validation"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	root := &cobra.Command{
		Use:           "kursctl",
		Short:         "Operations tool for the kurs server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(migrateCmd())
	root.AddCommand(createAdminCmd())
	root.AddCommand(grantAdminCmd())

	err := root.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate [up|down]",
		Short: "Apply or roll back database migrations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
			if err != nil {
				return fmt.Errorf("failed to initialize database: %w", err)
			}
			defer db.Close(database)

			switch args[0] {
			case "up":
				return db.RunMigrations(database.DB, cfg.DBDriver)
			case "down":
				return db.MigrateDown(database.DB, cfg.DBDriver)
			default:
				return fmt.Errorf("unknown direction %q, want up or down", args[0])
			}
		},
	}
	return cmd
}

func createAdminCmd() *cobra.Command {
	var email, password, name string

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an administrator account",
		RunE: func(cmd *cobra.Command, args []string) error {
			err := validation.ValidateEmail(email)
			if err != nil {
				return err
			}
			err = validation.ValidatePassword(password)
			if err != nil {
				return err
			}
			err = validation.ValidateName(name)
			if err != nil {
				return err
			}

			cfg := config.Load()
			database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
			if err != nil {
				return fmt.Errorf("failed to initialize database: %w", err)
			}
			defer db.Close(database)

			err = db.RunMigrations(database.DB, cfg.DBDriver)
			if err != nil {
				return fmt.Errorf("failed to run migrations: %w", err)
			}

			hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
			if err != nil {
				return fmt.Errorf("failed to hash password: %w", err)
			}

			userRepo := repository.NewUserRepository(database)
			profileRepo := repository.NewProfileRepository(database)

			user := &model.User{
				ID:           uuid.New().String(),
				Email:        strings.ToLower(strings.TrimSpace(email)),
				PasswordHash: string(hash),
				IsAdmin:      true,
				CreatedAt:    time.Now(),
			}
			err = userRepo.Create(user)
			if err != nil {
				return fmt.Errorf("failed to create user: %w", err)
			}

			err = profileRepo.Create(&model.Profile{
				UserID: user.ID,
				Name:   name,
			})
			if err != nil {
				return fmt.Errorf("failed to create profile: %w", err)
			}

			fmt.Printf("admin created: %s (%s)\n", user.Email, user.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "admin email address")
	cmd.Flags().StringVar(&password, "password", "", "admin password")
	cmd.Flags().StringVar(&name, "name", "", "admin display name")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("password")
	cmd.MarkFlagRequired("name")

	return cmd
}

func grantAdminCmd() *cobra.Command {
	var email string
	var revoke bool

	cmd := &cobra.Command{
		Use:   "grant-admin",
		Short: "Grant or revoke admin access for an existing user",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
			if err != nil {
				return fmt.Errorf("failed to initialize database: %w", err)
			}
			defer db.Close(database)

			userRepo := repository.NewUserRepository(database)
			user, err := userRepo.ByEmail(strings.ToLower(strings.TrimSpace(email)))
			if err != nil {
				return fmt.Errorf("failed to look up user: %w", err)
			}

			err = userRepo.SetAdmin(user.ID, !revoke)
			if err != nil {
				return fmt.Errorf("failed to update admin flag: %w", err)
			}

			if revoke {
				fmt.Printf("admin revoked: %s\n", user.Email)
			} else {
				fmt.Printf("admin granted: %s\n", user.Email)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "user email address")
	cmd.Flags().BoolVar(&revoke, "revoke", false, "revoke instead of grant")
	cmd.MarkFlagRequired("email")

	return cmd
}
