package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/taskhive/taskhive-api/internal/domain"
	"github.com/taskhive/taskhive-api/internal/platform/logger"
	"github.com/taskhive/taskhive-api/internal/service/auth"
	"github.com/taskhive/taskhive-api/internal/store"
)

// onboardingTaskTitles are the starter tasks seeded for every new account.
// They are created in the same transaction as the user row, so a visible
// account always has its starter tasks.
var onboardingTaskTitles = []string{
	"Complete your profile",
	"Add your first task",
	"Explore the app features",
}

// RegistrationResult reports the outcome of a successful registration.
type RegistrationResult struct {
	User         *domain.User
	TasksCreated int
}

// UserService exposes account lifecycle operations.
type UserService interface {
	// Register creates a new account and seeds its onboarding tasks
	// atomically. Returns store.ErrEmailExists if the email is taken.
	Register(ctx context.Context, name, email, password string) (*RegistrationResult, error)

	// Authenticate verifies an email/password pair.
	// Returns auth.ErrInvalidCredentials on any mismatch, without
	// distinguishing an unknown email from a wrong password.
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)

	// GetByID retrieves an account by id.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// Delete removes an account and, through the schema cascade, every
	// task it owns.
	Delete(ctx context.Context, id uuid.UUID) error
}

type userService struct {
	db       *sql.DB
	users    store.UserStore
	tasks    store.TaskStore
	hasher   auth.PasswordHasher
	verifier auth.PasswordVerifier
	logger   *slog.Logger
}

// NewUserService creates a UserService. The db handle is used to open the
// registration transaction spanning the user and task stores.
func NewUserService(db *sql.DB, users store.UserStore, tasks store.TaskStore, hasher auth.PasswordHasher, verifier auth.PasswordVerifier, log *slog.Logger) UserService {
	if db == nil {
		panic("NewUserService: db cannot be nil")
	}
	if users == nil {
		panic("NewUserService: user store cannot be nil")
	}
	if tasks == nil {
		panic("NewUserService: task store cannot be nil")
	}
	if hasher == nil || verifier == nil {
		panic("NewUserService: password hasher and verifier cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &userService{
		db:       db,
		users:    users,
		tasks:    tasks,
		hasher:   hasher,
		verifier: verifier,
		logger:   log.With(slog.String("component", "user_service")),
	}
}

func (s *userService) Register(ctx context.Context, name, email, password string) (*RegistrationResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := domain.NewUser(name, email, password)
	if err != nil {
		return nil, err
	}

	// Fast path for the common duplicate case. The unique index still
	// backstops the race where two registrations pass this check.
	if _, err := s.users.GetByEmail(ctx, user.Email); err == nil {
		return nil, store.ErrEmailExists
	} else if !errors.Is(err, store.ErrUserNotFound) {
		return nil, fmt.Errorf("checking email availability: %w", err)
	}

	hashed, err := s.hasher.Hash(user.Password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}
	user.HashedPassword = hashed
	user.Password = ""

	onboarding := make([]*domain.Task, 0, len(onboardingTaskTitles))
	for _, title := range onboardingTaskTitles {
		task, terr := domain.NewTask(user.ID, title, domain.DefaultPriority)
		if terr != nil {
			return nil, fmt.Errorf("building onboarding task: %w", terr)
		}
		onboarding = append(onboarding, task)
	}

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		if err := s.users.WithTx(tx).Create(ctx, user); err != nil {
			return err
		}
		return s.tasks.WithTx(tx).CreateMultiple(ctx, onboarding)
	})
	if err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			return nil, store.ErrEmailExists
		}
		return nil, fmt.Errorf("registering user: %w", err)
	}

	log.Info("user registered",
		slog.String("user_id", user.ID.String()),
		slog.Int("onboarding_tasks", len(onboarding)))

	return &RegistrationResult{User: user, TasksCreated: len(onboarding)}, nil
}

func (s *userService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, auth.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("looking up user: %w", err)
	}

	if err := s.verifier.Compare(user.HashedPassword, password); err != nil {
		log.Debug("password mismatch", slog.String("user_id", user.ID.String()))
		return nil, auth.ErrInvalidCredentials
	}

	return user, nil
}

func (s *userService) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("getting user: %w", err)
	}
	return user, nil
}

func (s *userService) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := s.users.Delete(ctx, id); err != nil {
		return fmt.Errorf("deleting user: %w", err)
	}

	log.Info("user deleted", slog.String("user_id", id.String()))
	return nil
}
