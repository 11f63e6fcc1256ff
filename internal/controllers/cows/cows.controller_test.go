package cowController

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"herdview/internal/actiongate"
	"herdview/internal/controllers"
	. "herdview/internal/models"
	"herdview/internal/notify"
	"herdview/internal/pipeline"
	"herdview/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCowAPI struct {
	cows       []Cow
	byUser     map[int][]Cow
	listErr    error
	created    []CowRequest
	updated    []int
	deleted    []int
	upstreamOK func() // fires on any upstream call when set
}

func (s *stubCowAPI) touch() {
	if s.upstreamOK != nil {
		s.upstreamOK()
	}
}

func (s *stubCowAPI) Cows(ctx context.Context) ([]Cow, error) {
	s.touch()
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.cows, nil
}

func (s *stubCowAPI) CowsByUser(ctx context.Context, userID int) ([]Cow, error) {
	s.touch()
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.byUser[userID], nil
}

func (s *stubCowAPI) CreateCow(ctx context.Context, request CowRequest) (Cow, error) {
	s.touch()
	s.created = append(s.created, request)
	return Cow{ID: 99, Name: request.Name}, nil
}

func (s *stubCowAPI) UpdateCow(ctx context.Context, id int, request CowRequest) (Cow, error) {
	s.touch()
	s.updated = append(s.updated, id)
	return Cow{ID: id, Name: request.Name}, nil
}

func (s *stubCowAPI) DeleteCow(ctx context.Context, id int) error {
	s.touch()
	s.deleted = append(s.deleted, id)
	return nil
}

type memoryCollections struct{}

func (memoryCollections) GetAll(ctx context.Context, resource string, dest any) (bool, error) {
	return false, nil
}

func (memoryCollections) SetAll(ctx context.Context, resource string, collection any) error {
	return nil
}

type memorySnapshots struct {
	saved map[string][]Cow
}

func snapshotKey(resource, scope string) string {
	return fmt.Sprintf("%s/%s", resource, scope)
}

func (m *memorySnapshots) Save(ctx context.Context, resource, scope string, generation uint64, collection any) error {
	cows, ok := collection.([]Cow)
	if !ok {
		return errors.New("unexpected snapshot payload")
	}
	if m.saved == nil {
		m.saved = make(map[string][]Cow)
	}
	m.saved[snapshotKey(resource, scope)] = cows
	return nil
}

func (m *memorySnapshots) Load(ctx context.Context, resource, scope string, dest any) (time.Time, bool, error) {
	cows, ok := m.saved[snapshotKey(resource, scope)]
	if !ok {
		return time.Time{}, false, nil
	}
	*dest.(*[]Cow) = cows
	return time.Now().Add(-time.Minute), true, nil
}

type recordingInvalidator struct {
	invalidated []string
	notices     []notify.Notice
}

func (r *recordingInvalidator) InvalidateCollection(ctx context.Context, resource string) error {
	r.invalidated = append(r.invalidated, resource)
	return nil
}

func (r *recordingInvalidator) PushNotice(userID int, notice notify.Notice) {
	r.notices = append(r.notices, notice)
}

func newTestController(api *stubCowAPI) (*CowController, *memorySnapshots, *recordingInvalidator) {
	snapshots := &memorySnapshots{}
	invalidator := &recordingInvalidator{}
	controller := New(api, memoryCollections{}, snapshots, services.NewGenerationService(), invalidator)
	return controller, snapshots, invalidator
}

func herd(total, females int) []Cow {
	cows := make([]Cow, 0, total)
	for i := 1; i <= total; i++ {
		gender := GenderMale
		if i <= females {
			gender = GenderFemale
		}
		cows = append(cows, Cow{
			ID:        i,
			Name:      fmt.Sprintf("Cow %02d", i),
			Breed:     "Holstein",
			Gender:    gender,
			Weight:    500,
			BirthDate: "2022-03-01",
		})
	}
	return cows
}

func TestList_AdminSeesWholeHerdPaginated(t *testing.T) {
	api := &stubCowAPI{cows: herd(10, 6)}
	controller, _, _ := newTestController(api)
	session := Session{UserID: 1, Role: RoleAdmin}

	page, err := controller.List(context.Background(), session, pipeline.Query{Page: 1})
	require.NoError(t, err)

	assert.Len(t, page.Items, 8)
	assert.Equal(t, 10, page.TotalCount)
	assert.Equal(t, 2, page.TotalPages)
	assert.InDelta(t, 60.0, page.FemalePercentage, 0.001)
	assert.True(t, page.CanCreate)
	assert.False(t, page.Stale)

	second, err := controller.List(context.Background(), session, pipeline.Query{Page: 2})
	require.NoError(t, err)
	assert.Len(t, second.Items, 2)
}

func TestList_FemalePercentageCoversWholeCollectionNotThePage(t *testing.T) {
	// All females land on page two; the ratio must still see them.
	cows := herd(10, 0)
	for i := 8; i < 10; i++ {
		cows[i].Gender = GenderFemale
	}
	api := &stubCowAPI{cows: cows}
	controller, _, _ := newTestController(api)

	page, err := controller.List(context.Background(), Session{UserID: 1, Role: RoleAdmin}, pipeline.Query{Page: 1})
	require.NoError(t, err)
	assert.InDelta(t, 20.0, page.FemalePercentage, 0.001)
}

func TestList_FarmerOnlySeesOwnCows(t *testing.T) {
	api := &stubCowAPI{
		byUser: map[int][]Cow{
			7: {
				{ID: 3, Name: "Bella", Gender: GenderFemale},
				{ID: 5, Name: "Daisy", Gender: GenderFemale},
			},
		},
	}
	controller, _, _ := newTestController(api)
	session := Session{UserID: 7, Role: RoleFarmer}

	page, err := controller.List(context.Background(), session, pipeline.Query{Page: 1})
	require.NoError(t, err)

	assert.Equal(t, 2, page.TotalCount)
	assert.False(t, page.CanCreate)
	for _, view := range page.Items {
		assert.False(t, view.Actions.CanEdit)
		assert.False(t, view.Actions.CanDelete)
	}
}

func TestList_ServesSnapshotWhenRefreshFails(t *testing.T) {
	api := &stubCowAPI{cows: herd(3, 2)}
	controller, _, _ := newTestController(api)
	session := Session{UserID: 1, Role: RoleAdmin}

	first, err := controller.List(context.Background(), session, pipeline.Query{Page: 1})
	require.NoError(t, err)
	require.False(t, first.Stale)

	api.listErr = errors.New("upstream down")
	second, err := controller.List(context.Background(), session, pipeline.Query{Page: 1})
	require.NoError(t, err)

	assert.True(t, second.Stale)
	assert.Equal(t, 3, second.TotalCount)
	require.Len(t, second.Notices, 1)
	assert.Equal(t, notify.LevelWarning, second.Notices[0].Level)
}

func TestList_FailsWhenNoSnapshotExists(t *testing.T) {
	api := &stubCowAPI{listErr: errors.New("upstream down")}
	controller, _, _ := newTestController(api)

	_, err := controller.List(context.Background(), Session{UserID: 1, Role: RoleAdmin}, pipeline.Query{Page: 1})
	assert.Error(t, err)
}

func TestCreate_BlockedRoleNeverReachesUpstream(t *testing.T) {
	calls := 0
	api := &stubCowAPI{upstreamOK: func() { calls++ }}
	controller, _, invalidator := newTestController(api)

	_, err := controller.Create(context.Background(), Session{UserID: 7, Role: RoleFarmer}, CowRequest{
		Name: "Bella", Breed: "Holstein", Gender: GenderFemale, Weight: 500, BirthDate: "2022-03-01",
	})

	var blocked *controllers.BlockedError
	require.ErrorAs(t, err, &blocked)
	assert.Equal(t, actiongate.ReasonRoleReadOnly, blocked.Reason)
	assert.Zero(t, calls)
	assert.Empty(t, invalidator.notices)
}

func TestCreate_InvalidRequestNeverReachesUpstream(t *testing.T) {
	calls := 0
	api := &stubCowAPI{upstreamOK: func() { calls++ }}
	controller, _, _ := newTestController(api)

	_, err := controller.Create(context.Background(), Session{UserID: 1, Role: RoleAdmin}, CowRequest{
		Name: "Bella", Breed: "Holstein", Gender: GenderFemale, Weight: 50, BirthDate: "2022-03-01",
	})

	var invalid *controllers.ValidationError
	require.ErrorAs(t, err, &invalid)
	assert.Zero(t, calls)
}

func TestCreate_InvalidatesAndNotifies(t *testing.T) {
	api := &stubCowAPI{}
	controller, _, invalidator := newTestController(api)

	_, err := controller.Create(context.Background(), Session{UserID: 1, Role: RoleAdmin}, CowRequest{
		Name: "Bella", Breed: "Holstein", Gender: GenderFemale, Weight: 500, BirthDate: "2022-03-01",
	})
	require.NoError(t, err)

	require.Len(t, api.created, 1)
	assert.Equal(t, []string{Resource}, invalidator.invalidated)
	require.Len(t, invalidator.notices, 1)
	assert.Equal(t, notify.LevelSuccess, invalidator.notices[0].Level)
}

func TestDelete_InvalidatesAndNotifies(t *testing.T) {
	api := &stubCowAPI{}
	controller, _, invalidator := newTestController(api)

	err := controller.Delete(context.Background(), Session{UserID: 1, Role: RoleAdmin}, 4)
	require.NoError(t, err)

	assert.Equal(t, []int{4}, api.deleted)
	require.Len(t, invalidator.notices, 1)
}

func TestExport_ReturnsFilteredCollectionWithoutPagination(t *testing.T) {
	api := &stubCowAPI{cows: herd(10, 6)}
	controller, _, _ := newTestController(api)

	views, err := controller.Export(context.Background(), Session{UserID: 1, Role: RoleAdmin}, pipeline.Query{
		SortKey:   "name",
		Direction: pipeline.Descending,
	})
	require.NoError(t, err)

	assert.Len(t, views, 10)
	assert.Equal(t, "Cow 10", views[0].Name)
}
