package accounts

import (
	"context"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
)

// DefaultAdminEmail is the bootstrap administrator identifier used when the
// seed message leaves Email empty
const DefaultAdminEmail = "admin@example.com"

// SeedAdminMessage bootstraps the first administrator account. Running it
// against a store that already holds the account is a no-op, so deployments
// can execute it on every start.
type SeedAdminMessage struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (e SeedAdminMessage) Type() string { return "user.seed_admin" }

type SeedAdminHandler struct {
	repo   RepositoryManager
	hasher PasswordAuthenticator
	logger Logger
}

func NewSeedAdminHandler(repo RepositoryManager) *SeedAdminHandler {
	return &SeedAdminHandler{
		repo:   repo,
		hasher: NewHasher(DefaultBcryptCost),
		logger: defLogger{},
	}
}

func (h *SeedAdminHandler) WithLogger(l Logger) *SeedAdminHandler {
	if l != nil {
		h.logger = l
	}
	return h
}

func (h *SeedAdminHandler) WithHasher(hasher PasswordAuthenticator) *SeedAdminHandler {
	if hasher != nil {
		h.hasher = hasher
	}
	return h
}

func (h *SeedAdminHandler) Execute(ctx context.Context, event SeedAdminMessage) error {
	email := event.Email
	if email == "" {
		email = DefaultAdminEmail
	}

	if _, err := h.repo.Users().GetByIdentifier(ctx, email); err == nil {
		h.logger.Info("seed admin already present", "email", email)
		return nil
	} else if !repository.IsRecordNotFound(err) && !goerrors.IsNotFound(err) {
		return goerrors.Wrap(err, goerrors.CategoryOperation, "failed to check for existing admin")
	}

	hash, err := h.hasher.HashPassword(event.Password)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid seed password")
	}

	user := &User{
		Email:        email,
		PasswordHash: hash,
		Role:         RoleAdmin,
	}

	if _, err := h.repo.Users().Register(ctx, user); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "could not create seed admin")
	}

	h.logger.Info("seed admin created", "email", email)
	return nil
}
