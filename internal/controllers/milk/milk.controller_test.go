package milkController

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

type stubMilkAPI struct {
	yields  []MilkYield
	cows    []Cow
	created []MilkYieldRequest
}

func (s *stubMilkAPI) MilkYields(ctx context.Context) ([]MilkYield, error) {
	return s.yields, nil
}

func (s *stubMilkAPI) Cows(ctx context.Context) ([]Cow, error) {
	return s.cows, nil
}

func (s *stubMilkAPI) CowsByUser(ctx context.Context, userID int) ([]Cow, error) {
	return s.cows, nil
}

func (s *stubMilkAPI) CreateMilkYield(ctx context.Context, request MilkYieldRequest) (MilkYield, error) {
	s.created = append(s.created, request)
	return MilkYield{ID: 99, Cow: Ref{ID: request.CowID}, Liters: request.Liters}, nil
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

func newMilkController(api *stubMilkAPI) (*MilkController, *noticeRecorder) {
	recorder := &noticeRecorder{}
	return New(api, noopSnapshots{}, services.NewGenerationService(), recorder), recorder
}

func TestList_TotalsSumTheWholeCollection(t *testing.T) {
	// Seven yields across two cows: pagination shows six, the chart
	// totals must still cover all seven.
	api := &stubMilkAPI{
		cows: []Cow{{ID: 3, Name: "Bella"}, {ID: 5, Name: "Daisy"}},
		yields: []MilkYield{
			{ID: 1, Cow: Ref{ID: 3}, Date: "2025-08-01", Liters: 10},
			{ID: 2, Cow: Ref{ID: 3}, Date: "2025-08-02", Liters: 12},
			{ID: 3, Cow: Ref{ID: 3}, Date: "2025-08-03", Liters: 11},
			{ID: 4, Cow: Ref{ID: 5}, Date: "2025-08-01", Liters: 8},
			{ID: 5, Cow: Ref{ID: 5}, Date: "2025-08-02", Liters: 9},
			{ID: 6, Cow: Ref{ID: 5}, Date: "2025-08-03", Liters: 7},
			{ID: 7, Cow: Ref{ID: 5}, Date: "2025-08-04", Liters: 6},
		},
	}
	controller, _ := newMilkController(api)

	page, err := controller.List(context.Background(), Session{UserID: 1, Role: RoleAdmin}, pipeline.Query{Page: 1})
	require.NoError(t, err)

	assert.Len(t, page.Items, 6)
	assert.Equal(t, 7, page.TotalCount)

	require.Len(t, page.Totals, 2)
	assert.Equal(t, CowMilkTotal{CowID: 3, CowName: "Bella", Liters: 33}, page.Totals[0])
	assert.Equal(t, CowMilkTotal{CowID: 5, CowName: "Daisy", Liters: 30}, page.Totals[1])
}

func TestList_FarmerTotalsOnlyCoverManagedCows(t *testing.T) {
	api := &stubMilkAPI{
		cows: []Cow{{ID: 3, Name: "Bella"}},
		yields: []MilkYield{
			{ID: 1, Cow: Ref{ID: 3}, Date: "2025-08-01", Liters: 10},
			{ID: 2, Cow: Ref{ID: 9}, Date: "2025-08-01", Liters: 50},
		},
	}
	controller, _ := newMilkController(api)

	page, err := controller.List(context.Background(), Session{UserID: 7, Role: RoleFarmer}, pipeline.Query{Page: 1})
	require.NoError(t, err)

	assert.Equal(t, 1, page.TotalCount)
	require.Len(t, page.Totals, 1)
	assert.Equal(t, 3, page.Totals[0].CowID)
}

func TestCreate_RecordsYieldAndNotifies(t *testing.T) {
	api := &stubMilkAPI{cows: []Cow{{ID: 3, Name: "Bella"}}}
	controller, recorder := newMilkController(api)

	_, err := controller.Create(context.Background(), Session{UserID: 7, Role: RoleFarmer}, MilkYieldRequest{
		CowID: 3, Date: "2025-08-30", Liters: 12,
	})
	require.NoError(t, err)

	require.Len(t, api.created, 1)
	assert.Equal(t, []string{Resource}, recorder.invalidated)
	require.Len(t, recorder.notices, 1)
	assert.Equal(t, notify.LevelSuccess, recorder.notices[0].Level)
}

func TestCreate_SupervisorIsReadOnly(t *testing.T) {
	controller, _ := newMilkController(&stubMilkAPI{})

	_, err := controller.Create(context.Background(), Session{UserID: 2, Role: RoleSupervisor}, MilkYieldRequest{
		CowID: 3, Date: "2025-08-30", Liters: 12,
	})

	var blocked *controllers.BlockedError
	require.ErrorAs(t, err, &blocked)
}

func TestCreate_NegativeLitersRejected(t *testing.T) {
	api := &stubMilkAPI{}
	controller, _ := newMilkController(api)

	_, err := controller.Create(context.Background(), Session{UserID: 7, Role: RoleFarmer}, MilkYieldRequest{
		CowID: 3, Date: "2025-08-30", Liters: -1,
	})

	var invalid *controllers.ValidationError
	require.ErrorAs(t, err, &invalid)
	assert.Empty(t, api.created)
}
