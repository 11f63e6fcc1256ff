package userController

import (
	"context"
	"testing"
	"time"

	"herdview/internal/controllers"
	. "herdview/internal/models"
	"herdview/internal/notify"
	"herdview/internal/pipeline"
	"herdview/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubUserAPI struct {
	users   []User
	login   User
	created []UserRequest
	updated []int
	deleted []int
}

func (s *stubUserAPI) Users(ctx context.Context) ([]User, error) {
	return s.users, nil
}

func (s *stubUserAPI) Login(ctx context.Context, request LoginRequest) (User, error) {
	return s.login, nil
}

func (s *stubUserAPI) CreateUser(ctx context.Context, request UserRequest) (User, error) {
	s.created = append(s.created, request)
	return User{ID: 42, Name: request.Name, Email: request.Email, RoleID: request.RoleID}, nil
}

func (s *stubUserAPI) UpdateUser(ctx context.Context, id int, request UserRequest) (User, error) {
	s.updated = append(s.updated, id)
	return User{ID: id, Name: request.Name, Email: request.Email, RoleID: request.RoleID}, nil
}

func (s *stubUserAPI) DeleteUser(ctx context.Context, id int) error {
	s.deleted = append(s.deleted, id)
	return nil
}

type noopSnapshots struct{}

func (noopSnapshots) Save(ctx context.Context, resource, scope string, generation uint64, collection any) error {
	return nil
}

func (noopSnapshots) Load(ctx context.Context, resource, scope string, dest any) (time.Time, bool, error) {
	return time.Time{}, false, nil
}

type noticeRecorder struct {
	invalidated []string
	notices     []notify.Notice
}

func (n *noticeRecorder) InvalidateCollection(ctx context.Context, resource string) error {
	n.invalidated = append(n.invalidated, resource)
	return nil
}

func (n *noticeRecorder) PushNotice(userID int, notice notify.Notice) {
	n.notices = append(n.notices, notice)
}

func newUserController(api *stubUserAPI) (*UserController, *noticeRecorder) {
	recorder := &noticeRecorder{}
	return New(api, nil, noopSnapshots{}, services.NewGenerationService(), recorder), recorder
}

func staff() []User {
	return []User{
		{ID: 1, Name: "Alice", Email: "alice@farm.test", RoleID: int(RoleAdmin)},
		{ID: 2, Name: "Berta", Email: "berta@farm.test", RoleID: int(RoleSupervisor)},
		{ID: 7, Name: "Chris", Email: "chris@farm.test", RoleID: int(RoleFarmer)},
	}
}

func TestList_AdminOnly(t *testing.T) {
	controller, _ := newUserController(&stubUserAPI{users: staff()})

	for _, role := range []Role{RoleSupervisor, RoleFarmer} {
		_, err := controller.List(context.Background(), Session{UserID: 9, Role: role}, pipeline.Query{Page: 1})

		var blocked *controllers.BlockedError
		require.ErrorAs(t, err, &blocked, "role %v", role)
	}

	page, err := controller.List(context.Background(), Session{UserID: 1, Role: RoleAdmin}, pipeline.Query{Page: 1})
	require.NoError(t, err)
	assert.Equal(t, 3, page.TotalCount)
	assert.True(t, page.CanCreate)
}

func TestList_ResolvesRoleNames(t *testing.T) {
	controller, _ := newUserController(&stubUserAPI{users: staff()})

	page, err := controller.List(context.Background(), Session{UserID: 1, Role: RoleAdmin}, pipeline.Query{Page: 1, SortKey: "name"})
	require.NoError(t, err)

	require.Len(t, page.Items, 3)
	assert.Equal(t, RoleAdmin.String(), page.Items[0].RoleName)
	assert.Equal(t, RoleSupervisor.String(), page.Items[1].RoleName)
}

func TestCreate_RejectsUnknownRole(t *testing.T) {
	api := &stubUserAPI{}
	controller, _ := newUserController(api)

	_, err := controller.Create(context.Background(), Session{UserID: 1, Role: RoleAdmin}, UserRequest{
		Name: "Dana", Email: "dana@farm.test", Password: "pasture-gate", RoleID: 9,
	})

	var invalid *controllers.ValidationError
	require.ErrorAs(t, err, &invalid)
	assert.Empty(t, api.created)
}

func TestCreate_NonAdminBlocked(t *testing.T) {
	api := &stubUserAPI{}
	controller, _ := newUserController(api)

	_, err := controller.Create(context.Background(), Session{UserID: 7, Role: RoleFarmer}, UserRequest{
		Name: "Dana", Email: "dana@farm.test", Password: "pasture-gate", RoleID: int(RoleFarmer),
	})

	var blocked *controllers.BlockedError
	require.ErrorAs(t, err, &blocked)
	assert.Empty(t, api.created)
}

func TestDelete_SelfDeleteRefused(t *testing.T) {
	api := &stubUserAPI{}
	controller, _ := newUserController(api)

	err := controller.Delete(context.Background(), Session{UserID: 1, Role: RoleAdmin}, 1)

	var blocked *controllers.BlockedError
	require.ErrorAs(t, err, &blocked)
	assert.Empty(t, api.deleted)
}

func TestDelete_OtherUserSucceeds(t *testing.T) {
	api := &stubUserAPI{}
	controller, recorder := newUserController(api)

	err := controller.Delete(context.Background(), Session{UserID: 1, Role: RoleAdmin}, 7)
	require.NoError(t, err)

	assert.Equal(t, []int{7}, api.deleted)
	require.Len(t, recorder.notices, 1)
}

func TestCreate_SendsInitialPasswordUpstream(t *testing.T) {
	api := &stubUserAPI{}
	controller, _ := newUserController(api)

	created, err := controller.Create(context.Background(), Session{UserID: 1, Role: RoleAdmin}, UserRequest{
		Name: "Dana", Email: "dana@farm.test", Password: "pasture-gate", RoleID: int(RoleFarmer),
	})
	require.NoError(t, err)

	require.Len(t, api.created, 1)
	assert.Equal(t, "pasture-gate", api.created[0].Password)
	assert.Equal(t, "Dana", created.Name)
}

func TestCreate_RequiresInitialPassword(t *testing.T) {
	api := &stubUserAPI{}
	controller, _ := newUserController(api)

	_, err := controller.Create(context.Background(), Session{UserID: 1, Role: RoleAdmin}, UserRequest{
		Name: "Dana", Email: "dana@farm.test", RoleID: int(RoleFarmer),
	})

	var invalid *controllers.ValidationError
	require.ErrorAs(t, err, &invalid)
	assert.Empty(t, api.created)
}

func TestUpdate_BlankPasswordKeepsStoredCredential(t *testing.T) {
	api := &stubUserAPI{}
	controller, _ := newUserController(api)

	_, err := controller.Update(context.Background(), Session{UserID: 1, Role: RoleAdmin}, 5, UserRequest{
		Name: "Dana", Email: "dana@farm.test", RoleID: int(RoleFarmer),
	})
	require.NoError(t, err)
	assert.Equal(t, []int{5}, api.updated)
}
