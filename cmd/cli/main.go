package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"fintrack-backend/config"
	"fintrack-backend/internal/database"
	"fintrack-backend/internal/models"
	"fintrack-backend/internal/repository"
)

var (
	// Command flags
	createUser  = flag.Bool("create", false, "Create a new user")
	deleteUser  = flag.Bool("delete", false, "Delete a user")
	makeAdmin   = flag.Bool("make-admin", false, "Make user an admin")
	removeAdmin = flag.Bool("remove-admin", false, "Remove admin privileges")
	migrate     = flag.Bool("migrate", false, "Run database migrations")
	sweep       = flag.Bool("sweep-tokens", false, "Delete expired token records")

	// User data flags
	email      = flag.String("email", "", "User's email")
	password   = flag.String("password", "", "User's password")
	name       = flag.String("name", "", "User's name")
	configPath = flag.String("config", "config.yaml", "Path to the config file")
)

func main() {
	flag.Parse()

	if err := run(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := database.Initialize(&cfg.Database); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close()

	userRepo := repository.NewUserRepository(database.GetDB())

	switch {
	case *migrate:
		return database.RunMigrations(database.GetDB())
	case *sweep:
		return handleSweep(ctx, repository.NewTokenRepository(database.GetDB()))
	case *createUser:
		return handleCreateUser(ctx, userRepo)
	case *deleteUser:
		return handleDeleteUser(ctx, userRepo)
	case *makeAdmin:
		return handleSetRole(ctx, userRepo, models.RoleAdmin)
	case *removeAdmin:
		return handleSetRole(ctx, userRepo, models.RoleUser)
	default:
		printUsage()
		return nil
	}
}

func handleCreateUser(ctx context.Context, userRepo *repository.UserRepository) error {
	if *email == "" || *password == "" || *name == "" {
		return errors.New("email, password, and name are required")
	}

	user := &models.User{
		Email:    *email,
		Name:     *name,
		Role:     models.RoleUser,
		Provider: models.ProviderLocal,
	}
	user.SetPassword(*password)

	if err := userRepo.CreateUser(ctx, user); err != nil {
		if repository.IsDuplicate(err) {
			return fmt.Errorf("user %s already exists", user.Email)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	fmt.Printf("Successfully created user: %s\n", user.Email)
	return nil
}

func findUser(ctx context.Context, userRepo *repository.UserRepository) (*models.User, error) {
	if *email == "" {
		return nil, errors.New("email is required")
	}
	user, err := userRepo.GetUserByEmail(ctx, *email)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, errors.New("user not found")
	}
	return user, nil
}

func handleDeleteUser(ctx context.Context, userRepo *repository.UserRepository) error {
	user, err := findUser(ctx, userRepo)
	if err != nil {
		return err
	}
	if err := userRepo.DeleteUser(ctx, user.ID); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	fmt.Printf("Successfully deleted user: %s\n", user.Email)
	return nil
}

func handleSetRole(ctx context.Context, userRepo *repository.UserRepository, role models.Role) error {
	user, err := findUser(ctx, userRepo)
	if err != nil {
		return err
	}
	if _, err := userRepo.UpdateRole(ctx, user.ID, role); err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	fmt.Printf("Successfully set role %s for user: %s\n", role, user.Email)
	return nil
}

func handleSweep(ctx context.Context, tokens *repository.TokenRepository) error {
	removed, err := tokens.DeleteExpired(ctx, time.Now())
	if err != nil {
		return fmt.Errorf("failed to delete expired tokens: %w", err)
	}
	fmt.Printf("Removed %d expired token records\n", removed)
	return nil
}

func printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  Create user:    cli -create -email=user@example.com -password=secret -name=\"John Doe\"")
	fmt.Println("  Delete user:    cli -delete -email=user@example.com")
	fmt.Println("  Make admin:     cli -make-admin -email=user@example.com")
	fmt.Println("  Remove admin:   cli -remove-admin -email=user@example.com")
	fmt.Println("  Migrate:        cli -migrate")
	fmt.Println("  Sweep tokens:   cli -sweep-tokens")
}
