package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/Affo25/imsdashboard/internal/user"
	userRepo "github.com/Affo25/imsdashboard/internal/user/postgres"
	"github.com/Affo25/imsdashboard/pkg/logger"
	"github.com/spf13/cobra"
)

var (
	seedEmail     string
	seedPassword  string
	seedFirstName string
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the initial admin account",
	Long:  `Create an admin account so the dashboard can be used before anyone registers.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(seedPassword) < 6 {
			return errors.New("password must be at least 6 characters long")
		}

		cfg, err := loadConfig(".")
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		lg := logger.LoggerWrapper()

		db, err := initDB(cfg.Database)
		if err != nil {
			return fmt.Errorf("failed to init db: %w", err)
		}
		defer db.Close()

		gdb, err := openGorm(cfg.Database, db)
		if err != nil {
			return err
		}

		svc := user.NewService(userRepo.NewUserRepository(gdb), cfg.Security.BCryptCost, lg)
		admin, err := svc.CreateUser(context.Background(), user.CreateUserInput{
			Email:     seedEmail,
			Password:  seedPassword,
			FirstName: seedFirstName,
			Role:      user.RoleAdmin,
		})
		if errors.Is(err, user.ErrDuplicateEmail) {
			lg.Info("admin account already exists", "email", seedEmail)
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to seed admin: %w", err)
		}

		lg.Info("seeded admin account", "user_id", admin.ID, "email", admin.Email)
		return nil
	},
}

func init() {
	seedCmd.Flags().StringVar(&seedEmail, "email", "admin@example.com", "admin email")
	seedCmd.Flags().StringVar(&seedPassword, "password", "", "admin password (at least 6 characters)")
	seedCmd.Flags().StringVar(&seedFirstName, "first-name", "Admin", "admin first name")
	_ = seedCmd.MarkFlagRequired("password")
}
