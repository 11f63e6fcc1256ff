package userController

import (
	"context"
	"strings"

	"herdview/internal/actiongate"
	"herdview/internal/controllers"
	"herdview/internal/logger"
	"herdview/internal/metrics"
	. "herdview/internal/models"
	"herdview/internal/notify"
	"herdview/internal/pipeline"
	"herdview/internal/repositories"
	"herdview/internal/services"
	"herdview/internal/session"
)

const (
	Resource = "users"
	pageSize = 8
)

type UserAPI interface {
	Users(ctx context.Context) ([]User, error)
	Login(ctx context.Context, request LoginRequest) (User, error)
	CreateUser(ctx context.Context, request UserRequest) (User, error)
	UpdateUser(ctx context.Context, id int, request UserRequest) (User, error)
	DeleteUser(ctx context.Context, id int) error
}

type UserView struct {
	User
	RoleName string             `json:"roleName"`
	Actions  actiongate.Actions `json:"actions"`
}

type UserListPage struct {
	pipeline.Result[UserView]
	CanCreate bool            `json:"canCreate"`
	Stale     bool            `json:"stale"`
	Notices   []notify.Notice `json:"notices,omitempty"`
}

type UserController struct {
	api          UserAPI
	sessions     *session.Store
	snapshots    repositories.SnapshotRepository
	generations  *services.GenerationService
	invalidation controllers.Invalidator
	log          logger.Logger
}

func New(
	api UserAPI,
	sessions *session.Store,
	snapshots repositories.SnapshotRepository,
	generations *services.GenerationService,
	invalidation controllers.Invalidator,
) *UserController {
	return &UserController{
		api:          api,
		sessions:     sessions,
		snapshots:    snapshots,
		generations:  generations,
		invalidation: invalidation,
		log:          logger.New("UserController"),
	}
}

var userSpec = pipeline.Spec[UserView]{
	SearchFields: func(v UserView) []string {
		return []string{v.Name, v.Email}
	},
	Comparators: map[string]func(a, b UserView) int{
		"name":  func(a, b UserView) int { return pipeline.CompareStrings(a.Name, b.Name) },
		"email": func(a, b UserView) int { return pipeline.CompareStrings(a.Email, b.Email) },
		"role":  func(a, b UserView) int { return pipeline.CompareStrings(a.RoleName, b.RoleName) },
	},
}

// Login checks credentials upstream and opens a session. The returned
// token goes into the session cookie; nothing credential-shaped is kept
// here.
func (uc *UserController) Login(ctx context.Context, request LoginRequest) (User, string, error) {
	log := uc.log.Function("Login")

	if strings.TrimSpace(request.Email) == "" || request.Password == "" {
		return User{}, "", controllers.Invalid("email and password are required")
	}

	user, err := uc.api.Login(ctx, request)
	if err != nil {
		return User{}, "", log.Err("login failed", err)
	}
	if !Role(user.RoleID).Valid() {
		return User{}, "", log.Error("login returned a user with an unknown role")
	}

	token, err := uc.sessions.Create(ctx, user)
	if err != nil {
		return User{}, "", err
	}

	return user, token, nil
}

func (uc *UserController) Logout(ctx context.Context, token string) error {
	return uc.sessions.Destroy(ctx, token)
}

// List is the staff directory. Only admins can open it.
func (uc *UserController) List(ctx context.Context, session Session, query pipeline.Query) (*UserListPage, error) {
	log := uc.log.Function("List")

	if session.Role != RoleAdmin {
		return nil, controllers.Blocked("only administrators can manage users")
	}
	metrics.ObserveListRequest(Resource)

	load, err := controllers.LoadCollection(ctx, Resource, "all", uc.generations, uc.api.Users, uc.snapshots, log)
	if err != nil {
		return nil, log.Err("failed to load users", err)
	}

	actions := actiongate.For(session.Role, actiongate.ClassHerd)
	views := make([]UserView, 0, len(load.Items))
	for _, user := range load.Items {
		views = append(views, UserView{
			User:     user,
			RoleName: Role(user.RoleID).String(),
			Actions:  actions,
		})
	}

	query.PageSize = pageSize
	page := &UserListPage{
		Result:    pipeline.Apply(views, query, userSpec),
		CanCreate: actions.CanCreate,
		Stale:     load.Stale,
	}
	if load.Stale {
		page.Notices = append(page.Notices, notify.Warning("showing the last saved user list; refresh failed"))
	}

	return page, nil
}

func (uc *UserController) Create(ctx context.Context, session Session, request UserRequest) (User, error) {
	log := uc.log.Function("Create")

	if !actiongate.For(session.Role, actiongate.ClassHerd).CanCreate {
		return User{}, controllers.Blocked(actiongate.ReasonRoleReadOnly)
	}
	if err := controllers.ValidateUser(request, true); err != nil {
		return User{}, err
	}

	created, err := uc.api.CreateUser(ctx, request)
	if err != nil {
		return User{}, log.Err("failed to create user", err)
	}

	uc.afterMutation(ctx, session, "User created successfully")
	return created, nil
}

func (uc *UserController) Update(ctx context.Context, session Session, id int, request UserRequest) (User, error) {
	log := uc.log.Function("Update")

	if !actiongate.For(session.Role, actiongate.ClassHerd).CanEdit {
		return User{}, controllers.Blocked(actiongate.ReasonRoleReadOnly)
	}
	if err := controllers.ValidateUser(request, false); err != nil {
		return User{}, err
	}

	updated, err := uc.api.UpdateUser(ctx, id, request)
	if err != nil {
		return User{}, log.Err("failed to update user", err, "id", id)
	}

	uc.afterMutation(ctx, session, "User updated successfully")
	return updated, nil
}

func (uc *UserController) Delete(ctx context.Context, session Session, id int) error {
	log := uc.log.Function("Delete")

	if !actiongate.For(session.Role, actiongate.ClassHerd).CanDelete {
		return controllers.Blocked(actiongate.ReasonRoleReadOnly)
	}
	if id == session.UserID {
		return controllers.Blocked("you cannot delete your own account")
	}

	if err := uc.api.DeleteUser(ctx, id); err != nil {
		return log.Err("failed to delete user", err, "id", id)
	}

	uc.afterMutation(ctx, session, "User deleted successfully")
	return nil
}

func (uc *UserController) afterMutation(ctx context.Context, session Session, message string) {
	log := uc.log.Function("afterMutation")

	if err := uc.invalidation.InvalidateCollection(ctx, Resource); err != nil {
		log.Warn("failed to invalidate user collection", "error", err)
	}
	uc.invalidation.PushNotice(session.UserID, notify.Success(message))
}
