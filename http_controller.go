package accounts

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
	"github.com/google/uuid"
)

// RouteRegistrar is the slice of the router the controllers need
type RouteRegistrar interface {
	Get(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo
	Post(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo
	Patch(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo
	Delete(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo
}

// Controller serves the auth, users, items, and health endpoints. Guards run
// inside handlers against the principal the middleware resolved; a request
// that failed resolution never gets this far.
type Controller struct {
	Debug        bool
	Logger       Logger
	Repo         RepositoryManager
	Auther       *RouteAuthenticator
	Hasher       PasswordAuthenticator
	ErrorHandler func(c router.Context, err error) error
}

type ControllerOption func(*Controller) *Controller

func NewController(opts ...ControllerOption) *Controller {
	c := &Controller{
		Logger: defLogger{},
		Hasher: NewHasher(DefaultBcryptCost),
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Repo == nil {
		panic("Missing RepositoryManager in accounts controller...")
	}

	if c.Auther == nil {
		panic("Missing RouteAuthenticator in accounts controller...")
	}

	if c.ErrorHandler == nil {
		c.ErrorHandler = c.Auther.ErrorHandler
	}

	return c
}

func WithControllerRepo(repo RepositoryManager) ControllerOption {
	return func(c *Controller) *Controller {
		c.Repo = repo
		return c
	}
}

func WithControllerAuther(auther *RouteAuthenticator) ControllerOption {
	return func(c *Controller) *Controller {
		c.Auther = auther
		return c
	}
}

func WithControllerHasher(hasher PasswordAuthenticator) ControllerOption {
	return func(c *Controller) *Controller {
		c.Hasher = hasher
		return c
	}
}

func WithControllerLogger(logger Logger) ControllerOption {
	return func(c *Controller) *Controller {
		c.Logger = logger
		return c
	}
}

// RegisterRoutes wires every endpoint. The login and health endpoints are the
// only unauthenticated surface.
func (a *Controller) RegisterRoutes(app RouteRegistrar) {
	protected := a.Auther.ProtectedRoute(nil)

	app.Get("/healthz", a.HealthShow)

	app.Post("/auth/login", a.LoginPost)
	app.Get("/auth/me", a.ProfileShow, protected)

	app.Post("/users", a.UserCreate, protected)
	app.Get("/users", a.UserList, protected)
	app.Get("/users/:id", a.UserShow, protected)
	app.Patch("/users/:id", a.UserUpdate, protected)
	app.Delete("/users/:id", a.UserDelete, protected)

	app.Post("/items", a.ItemCreate, protected)
	app.Get("/items", a.ItemList, protected)
	app.Get("/items/:id", a.ItemShow, protected)
	app.Patch("/items/:id", a.ItemUpdate, protected)
	app.Delete("/items/:id", a.ItemDelete, protected)
}

func (a *Controller) HealthShow(ctx router.Context) error {
	return ctx.JSON(router.StatusOK, map[string]string{
		"status": "ok",
	})
}

// LoginRequest payload
type LoginRequest struct {
	Identifier string `form:"identifier" json:"identifier"`
	Password   string `form:"password" json:"password"`
}

// GetIdentifier returns the identifier
func (r LoginRequest) GetIdentifier() string {
	return r.Identifier
}

// GetPassword will return the password
func (r LoginRequest) GetPassword() string {
	return r.Password
}

// Validate will run validation rules
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Identifier,
			validation.Required,
			is.Email,
		),
		validation.Field(
			&r.Password,
			validation.Required,
		),
	)
}

// TokenResponse is the login success body
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

func (a *Controller) LoginPost(ctx router.Context) error {
	payload := new(LoginRequest)

	if err := ctx.Bind(payload); err != nil {
		return a.ErrorHandler(ctx, goerrors.Wrap(err, goerrors.CategoryBadInput, "could not parse login payload"))
	}

	if err := payload.Validate(); err != nil {
		return a.ErrorHandler(ctx, goerrors.Wrap(err, goerrors.CategoryValidation, "invalid login payload"))
	}

	if a.Debug {
		fmt.Println(print.MaybePrettyJSON(map[string]any{"identifier": payload.Identifier}))
	}

	token, err := a.Auther.Login(ctx, payload)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusOK, TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
	})
}

// UserResponse is the outward principal view; it never carries the hash
type UserResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func userResponseFrom(identity Identity) UserResponse {
	return UserResponse{
		ID:    identity.ID(),
		Email: identity.Email(),
		Role:  identity.Role(),
	}
}

func userResponseFromRecord(user *User) UserResponse {
	return UserResponse{
		ID:    user.ID.String(),
		Email: user.Email,
		Role:  string(user.Role),
	}
}

func (a *Controller) ProfileShow(ctx router.Context) error {
	identity, err := a.currentIdentity(ctx)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusOK, userResponseFrom(identity))
}

// UserCreateRequest payload
type UserCreateRequest struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
	Role     string `form:"role" json:"role"`
}

// Validate will run validation rules
func (r UserCreateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Email,
			validation.Required,
			is.Email,
		),
		validation.Field(
			&r.Password,
			validation.Required,
			validation.Length(8, 0),
		),
		validation.Field(
			&r.Role,
			validation.In(string(RoleUser), string(RoleAdmin)),
		),
	)
}

func (a *Controller) UserCreate(ctx router.Context) error {
	identity, err := a.currentIdentity(ctx)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	if _, err := Authorize(identity, RequireAdmin()); err != nil {
		return a.ErrorHandler(ctx, err)
	}

	payload := new(UserCreateRequest)
	if err := ctx.Bind(payload); err != nil {
		return a.ErrorHandler(ctx, goerrors.Wrap(err, goerrors.CategoryBadInput, "could not parse user payload"))
	}

	if err := payload.Validate(); err != nil {
		return a.ErrorHandler(ctx, goerrors.Wrap(err, goerrors.CategoryValidation, "invalid user payload"))
	}

	hash, err := a.Hasher.HashPassword(payload.Password)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	role := UserRole(payload.Role)
	if role == "" {
		role = RoleUser
	}

	user, err := a.Repo.Users().Register(ctx.Context(), &User{
		Email:        payload.Email,
		PasswordHash: hash,
		Role:         role,
	})
	if err != nil {
		return a.ErrorHandler(ctx, goerrors.Wrap(err, goerrors.CategoryConflict, "email already registered"))
	}

	return ctx.JSON(router.StatusCreated, userResponseFromRecord(user))
}

func (a *Controller) UserList(ctx router.Context) error {
	identity, err := a.currentIdentity(ctx)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	if _, err := Authorize(identity, RequireAdmin()); err != nil {
		return a.ErrorHandler(ctx, err)
	}

	records, err := a.Repo.Users().ListNewestFirst(ctx.Context())
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	out := make([]UserResponse, 0, len(records))
	for _, user := range records {
		out = append(out, userResponseFromRecord(user))
	}

	return ctx.JSON(router.StatusOK, out)
}

func (a *Controller) UserShow(ctx router.Context) error {
	identity, targetID, err := a.identityAndTarget(ctx)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	if _, err := Authorize(identity, RequireSelfOrAdmin(targetID)); err != nil {
		return a.ErrorHandler(ctx, err)
	}

	user, err := a.Repo.Users().GetByID(ctx.Context(), targetID.String())
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusOK, userResponseFromRecord(user))
}

// UserUpdateRequest payload; nil fields are left untouched
type UserUpdateRequest struct {
	Email    *string `form:"email" json:"email"`
	Password *string `form:"password" json:"password"`
	Role     *string `form:"role" json:"role"`
}

// Validate will run validation rules
func (r UserUpdateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Email,
			is.Email,
		),
		validation.Field(
			&r.Password,
			validation.Length(8, 0),
		),
		validation.Field(
			&r.Role,
			validation.In(string(RoleUser), string(RoleAdmin)),
		),
	)
}

func (a *Controller) UserUpdate(ctx router.Context) error {
	actor, targetID, err := a.identityAndTarget(ctx)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	if _, err := Authorize(actor, RequireSelfOrAdmin(targetID)); err != nil {
		return a.ErrorHandler(ctx, err)
	}

	payload := new(UserUpdateRequest)
	if err := ctx.Bind(payload); err != nil {
		return a.ErrorHandler(ctx, goerrors.Wrap(err, goerrors.CategoryBadInput, "could not parse user payload"))
	}

	if err := payload.Validate(); err != nil {
		return a.ErrorHandler(ctx, goerrors.Wrap(err, goerrors.CategoryValidation, "invalid user payload"))
	}

	user, err := a.Repo.Users().GetByID(ctx.Context(), targetID.String())
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	if payload.Email != nil {
		user.Email = *payload.Email
	}

	if payload.Password != nil {
		hash, err := a.Hasher.HashPassword(*payload.Password)
		if err != nil {
			return a.ErrorHandler(ctx, err)
		}
		user.PasswordHash = hash
	}

	if payload.Role != nil {
		// escalation rule: only an admin may change a role, including their own
		if _, err := Authorize(actor, RequireAdmin()); err != nil {
			return a.ErrorHandler(ctx, err)
		}
		role, ok := ParseRole(*payload.Role)
		if !ok {
			return a.ErrorHandler(ctx, ErrInvalidRole)
		}
		user.Role = role
	}

	updated, err := a.Repo.Users().Update(ctx.Context(), user)
	if err != nil {
		return a.ErrorHandler(ctx, goerrors.Wrap(err, goerrors.CategoryConflict, "email already registered"))
	}

	return ctx.JSON(router.StatusOK, userResponseFromRecord(updated))
}

func (a *Controller) UserDelete(ctx router.Context) error {
	identity, targetID, err := a.identityAndTarget(ctx)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	if _, err := Authorize(identity, RequireAdmin()); err != nil {
		return a.ErrorHandler(ctx, err)
	}

	if err := a.Repo.Users().DeleteByID(ctx.Context(), targetID); err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusNoContent, nil)
}

// ItemRequest payload for create and rename
type ItemRequest struct {
	Name string `form:"name" json:"name"`
}

// Validate will run validation rules
func (r ItemRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Name,
			validation.Required,
			validation.Length(1, 255),
		),
	)
}

func (a *Controller) ItemCreate(ctx router.Context) error {
	_, ownerID, err := a.currentOwner(ctx)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	payload := new(ItemRequest)
	if err := ctx.Bind(payload); err != nil {
		return a.ErrorHandler(ctx, goerrors.Wrap(err, goerrors.CategoryBadInput, "could not parse item payload"))
	}

	if err := payload.Validate(); err != nil {
		return a.ErrorHandler(ctx, goerrors.Wrap(err, goerrors.CategoryValidation, "invalid item payload"))
	}

	item, err := a.Repo.Items().Create(ctx.Context(), &Item{
		Name:    payload.Name,
		OwnerID: ownerID,
	})
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusCreated, item)
}

func (a *Controller) ItemList(ctx router.Context) error {
	_, ownerID, err := a.currentOwner(ctx)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	records, err := a.Repo.Items().ListByOwner(ctx.Context(), ownerID)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusOK, records)
}

func (a *Controller) ItemShow(ctx router.Context) error {
	_, ownerID, err := a.currentOwner(ctx)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	itemID, err := paramUUID(ctx, "id")
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	item, err := a.Repo.Items().GetOwned(ctx.Context(), ownerID, itemID)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusOK, item)
}

func (a *Controller) ItemUpdate(ctx router.Context) error {
	_, ownerID, err := a.currentOwner(ctx)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	itemID, err := paramUUID(ctx, "id")
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	payload := new(ItemRequest)
	if err := ctx.Bind(payload); err != nil {
		return a.ErrorHandler(ctx, goerrors.Wrap(err, goerrors.CategoryBadInput, "could not parse item payload"))
	}

	if err := payload.Validate(); err != nil {
		return a.ErrorHandler(ctx, goerrors.Wrap(err, goerrors.CategoryValidation, "invalid item payload"))
	}

	item, err := a.Repo.Items().RenameOwned(ctx.Context(), ownerID, itemID, payload.Name)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusOK, item)
}

func (a *Controller) ItemDelete(ctx router.Context) error {
	_, ownerID, err := a.currentOwner(ctx)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	itemID, err := paramUUID(ctx, "id")
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	if err := a.Repo.Items().DeleteOwned(ctx.Context(), ownerID, itemID); err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusNoContent, nil)
}

func (a *Controller) currentIdentity(ctx router.Context) (Identity, error) {
	raw := ctx.Locals(a.Auther.cfg.GetContextKey())
	if raw == nil {
		return nil, ErrPrincipalNotFound
	}

	identity, ok := raw.(Identity)
	if !ok {
		return nil, ErrPrincipalNotFound
	}

	return identity, nil
}

func (a *Controller) currentOwner(ctx router.Context) (Identity, uuid.UUID, error) {
	identity, err := a.currentIdentity(ctx)
	if err != nil {
		return nil, uuid.Nil, err
	}

	ownerID, err := uuid.Parse(identity.ID())
	if err != nil {
		return nil, uuid.Nil, ErrMalformedSubject
	}

	return identity, ownerID, nil
}

func (a *Controller) identityAndTarget(ctx router.Context) (Identity, uuid.UUID, error) {
	identity, err := a.currentIdentity(ctx)
	if err != nil {
		return nil, uuid.Nil, err
	}

	targetID, err := paramUUID(ctx, "id")
	if err != nil {
		return nil, uuid.Nil, err
	}

	return identity, targetID, nil
}

func paramUUID(ctx router.Context, name string) (uuid.UUID, error) {
	raw := ctx.Param(name)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, goerrors.New("invalid identifier in path", goerrors.CategoryBadInput).
			WithCode(goerrors.CodeBadRequest).
			WithMetadata(map[string]any{"param": name})
	}
	return id, nil
}
