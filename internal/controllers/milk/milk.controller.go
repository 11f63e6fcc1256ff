package milkController

import (
	"context"
	"fmt"
	"sort"

	"herdview/internal/actiongate"
	"herdview/internal/controllers"
	cowController "herdview/internal/controllers/cows"
	"herdview/internal/farmapi"
	"herdview/internal/logger"
	"herdview/internal/metrics"
	. "herdview/internal/models"
	"herdview/internal/notify"
	"herdview/internal/pipeline"
	"herdview/internal/repositories"
	"herdview/internal/services"
)

const (
	Resource = "milkyields"
	pageSize = 6
)

type MilkAPI interface {
	MilkYields(ctx context.Context) ([]MilkYield, error)
	Cows(ctx context.Context) ([]Cow, error)
	CowsByUser(ctx context.Context, userID int) ([]Cow, error)
	CreateMilkYield(ctx context.Context, request MilkYieldRequest) (MilkYield, error)
}

type MilkYieldView struct {
	MilkYield
	CowName string             `json:"cowName"`
	Actions actiongate.Actions `json:"actions"`
}

// CowMilkTotal is one bar of the production chart.
type CowMilkTotal struct {
	CowID   int     `json:"cowId"`
	CowName string  `json:"cowName"`
	Liters  float64 `json:"liters"`
}

type MilkListPage struct {
	pipeline.Result[MilkYieldView]
	CanCreate bool            `json:"canCreate"`
	Totals    []CowMilkTotal  `json:"totals"`
	Stale     bool            `json:"stale"`
	Notices   []notify.Notice `json:"notices,omitempty"`
}

type MilkController struct {
	api          MilkAPI
	snapshots    repositories.SnapshotRepository
	generations  *services.GenerationService
	invalidation controllers.Invalidator
	log          logger.Logger
}

func New(
	api MilkAPI,
	snapshots repositories.SnapshotRepository,
	generations *services.GenerationService,
	invalidation controllers.Invalidator,
) *MilkController {
	return &MilkController{
		api:          api,
		snapshots:    snapshots,
		generations:  generations,
		invalidation: invalidation,
		log:          logger.New("MilkController"),
	}
}

var milkSpec = pipeline.Spec[MilkYieldView]{
	SearchFields: func(v MilkYieldView) []string {
		return []string{v.CowName}
	},
	Comparators: map[string]func(a, b MilkYieldView) int{
		"cow":    func(a, b MilkYieldView) int { return pipeline.CompareStrings(a.CowName, b.CowName) },
		"date":   func(a, b MilkYieldView) int { return pipeline.CompareDates(a.Date, b.Date) },
		"liters": func(a, b MilkYieldView) int { return pipeline.CompareNumbers(a.Liters, b.Liters) },
	},
}

func (mc *MilkController) List(ctx context.Context, session Session, query pipeline.Query) (*MilkListPage, error) {
	metrics.ObserveListRequest(Resource)

	visible, stale, err := mc.visibleViews(ctx, session)
	if err != nil {
		return nil, err
	}

	query.PageSize = pageSize
	page := &MilkListPage{
		Result:    pipeline.Apply(visible, query, milkSpec),
		CanCreate: actiongate.For(session.Role, actiongate.ClassClinical).CanCreate,
		Totals:    milkTotals(visible),
		Stale:     stale,
	}
	if stale {
		page.Notices = append(page.Notices, notify.Warning("showing the last saved milk yields; refresh failed"))
	}

	return page, nil
}

// Export returns the searched and sorted collection without pagination.
func (mc *MilkController) Export(ctx context.Context, session Session, query pipeline.Query) ([]MilkYieldView, error) {
	visible, _, err := mc.visibleViews(ctx, session)
	if err != nil {
		return nil, err
	}
	return pipeline.Filter(visible, query, milkSpec), nil
}

func (mc *MilkController) visibleViews(ctx context.Context, session Session) ([]MilkYieldView, bool, error) {
	log := mc.log.Function("visibleViews")

	scope := "all"
	fetchCows := mc.api.Cows
	if !session.Role.SeesAllRecords() {
		scope = fmt.Sprintf("user:%d", session.UserID)
		fetchCows = func(ctx context.Context) ([]Cow, error) {
			return mc.api.CowsByUser(ctx, session.UserID)
		}
	}

	var (
		milkLoad controllers.LoadResult[MilkYield]
		cowsLoad controllers.LoadResult[Cow]
		milkErr  error
		cowsErr  error
	)
	farmapi.Join(
		func() error {
			milkLoad, milkErr = controllers.LoadCollection(ctx, Resource, "all", mc.generations, mc.api.MilkYields, mc.snapshots, log)
			return milkErr
		},
		func() error {
			cowsLoad, cowsErr = controllers.LoadCollection(ctx, cowController.Resource, scope, mc.generations, fetchCows, mc.snapshots, log)
			return cowsErr
		},
	)
	if milkErr != nil {
		return nil, false, log.Err("failed to load milk yields", milkErr)
	}
	if cowsErr != nil {
		return nil, false, log.Err("failed to load cows for milk yields", cowsErr)
	}

	cowNames := make(map[int]string, len(cowsLoad.Items))
	for _, cow := range cowsLoad.Items {
		cowNames[cow.ID] = cow.Name
	}

	actions := actiongate.For(session.Role, actiongate.ClassClinical)
	views := make([]MilkYieldView, 0, len(milkLoad.Items))
	for _, yield := range milkLoad.Items {
		views = append(views, MilkYieldView{
			MilkYield: yield,
			CowName:   cowNames[yield.Cow.ID],
			Actions:   actions,
		})
	}

	managed := NewCowSet(cowsLoad.Items)
	visible := pipeline.Visible(views, session.Role, managed, func(v MilkYieldView) (int, bool) {
		if !v.Cow.Valid() {
			return 0, false
		}
		return v.Cow.ID, true
	})

	return visible, milkLoad.Stale || cowsLoad.Stale, nil
}

// milkTotals sums liters per cow across the full visible collection,
// not just the current page.
func milkTotals(views []MilkYieldView) []CowMilkTotal {
	byCow := make(map[int]*CowMilkTotal)
	for _, v := range views {
		total, ok := byCow[v.Cow.ID]
		if !ok {
			total = &CowMilkTotal{CowID: v.Cow.ID, CowName: v.CowName}
			byCow[v.Cow.ID] = total
		}
		total.Liters += v.Liters
	}

	totals := make([]CowMilkTotal, 0, len(byCow))
	for _, total := range byCow {
		totals = append(totals, *total)
	}
	sort.Slice(totals, func(i, j int) bool { return totals[i].CowID < totals[j].CowID })
	return totals
}

func (mc *MilkController) Create(ctx context.Context, session Session, request MilkYieldRequest) (MilkYield, error) {
	log := mc.log.Function("Create")

	if !actiongate.For(session.Role, actiongate.ClassClinical).CanCreate {
		return MilkYield{}, controllers.Blocked(actiongate.ReasonRoleReadOnly)
	}
	if err := controllers.ValidateMilkYield(request); err != nil {
		return MilkYield{}, err
	}

	yield, err := mc.api.CreateMilkYield(ctx, request)
	if err != nil {
		return MilkYield{}, log.Err("failed to record milk yield", err)
	}

	mc.afterMutation(ctx, session, "Milk yield recorded successfully")
	return yield, nil
}

func (mc *MilkController) afterMutation(ctx context.Context, session Session, message string) {
	log := mc.log.Function("afterMutation")

	if err := mc.invalidation.InvalidateCollection(ctx, Resource); err != nil {
		log.Warn("failed to invalidate milk yield collection", "error", err)
	}
	mc.invalidation.PushNotice(session.UserID, notify.Success(message))
}
