package cowController

import (
	"context"
	"fmt"

	"herdview/internal/actiongate"
	"herdview/internal/controllers"
	"herdview/internal/logger"
	"herdview/internal/metrics"
	. "herdview/internal/models"
	"herdview/internal/notify"
	"herdview/internal/pipeline"
	"herdview/internal/repositories"
	"herdview/internal/services"
)

const (
	Resource = "cows"
	pageSize = 8
)

// CowAPI is the slice of the upstream client this controller needs.
type CowAPI interface {
	Cows(ctx context.Context) ([]Cow, error)
	CowsByUser(ctx context.Context, userID int) ([]Cow, error)
	CreateCow(ctx context.Context, request CowRequest) (Cow, error)
	UpdateCow(ctx context.Context, id int, request CowRequest) (Cow, error)
	DeleteCow(ctx context.Context, id int) error
}

type CowView struct {
	Cow
	Actions actiongate.Actions `json:"actions"`
}

type CowListPage struct {
	pipeline.Result[CowView]
	CanCreate        bool            `json:"canCreate"`
	FemalePercentage float64         `json:"femalePercentage"`
	Stale            bool            `json:"stale"`
	Notices          []notify.Notice `json:"notices,omitempty"`
}

type CowController struct {
	api          CowAPI
	collections  repositories.CollectionRepository
	snapshots    repositories.SnapshotRepository
	generations  *services.GenerationService
	invalidation controllers.Invalidator
	log          logger.Logger
}

func New(
	api CowAPI,
	collections repositories.CollectionRepository,
	snapshots repositories.SnapshotRepository,
	generations *services.GenerationService,
	invalidation controllers.Invalidator,
) *CowController {
	return &CowController{
		api:          api,
		collections:  collections,
		snapshots:    snapshots,
		generations:  generations,
		invalidation: invalidation,
		log:          logger.New("CowController"),
	}
}

var cowSpec = pipeline.Spec[CowView]{
	SearchFields: func(v CowView) []string {
		return []string{v.Name, v.Breed}
	},
	Comparators: map[string]func(a, b CowView) int{
		"name":       func(a, b CowView) int { return pipeline.CompareStrings(a.Name, b.Name) },
		"breed":      func(a, b CowView) int { return pipeline.CompareStrings(a.Breed, b.Breed) },
		"gender":     func(a, b CowView) int { return pipeline.CompareStrings(a.Gender, b.Gender) },
		"weight":     func(a, b CowView) int { return pipeline.CompareNumbers(a.Weight, b.Weight) },
		"birth_date": func(a, b CowView) int { return pipeline.CompareDates(a.BirthDate, b.BirthDate) },
	},
}

func (cc *CowController) List(ctx context.Context, session Session, query pipeline.Query) (*CowListPage, error) {
	metrics.ObserveListRequest(Resource)

	visible, stale, err := cc.visibleViews(ctx, session)
	if err != nil {
		return nil, err
	}

	actions := actiongate.For(session.Role, actiongate.ClassHerd)
	query.PageSize = pageSize
	page := &CowListPage{
		Result:           pipeline.Apply(visible, query, cowSpec),
		CanCreate:        actions.CanCreate,
		FemalePercentage: femalePercentage(visible),
		Stale:            stale,
	}
	if stale {
		page.Notices = append(page.Notices, notify.Warning("showing the last saved herd list; refresh failed"))
	}

	return page, nil
}

// Export returns the searched and sorted collection without pagination.
func (cc *CowController) Export(ctx context.Context, session Session, query pipeline.Query) ([]CowView, error) {
	visible, _, err := cc.visibleViews(ctx, session)
	if err != nil {
		return nil, err
	}
	return pipeline.Filter(visible, query, cowSpec), nil
}

func (cc *CowController) visibleViews(ctx context.Context, session Session) ([]CowView, bool, error) {
	log := cc.log.Function("visibleViews")

	scope := "all"
	fetch := cc.fetchAll
	if !session.Role.SeesAllRecords() {
		scope = fmt.Sprintf("user:%d", session.UserID)
		fetch = func(ctx context.Context) ([]Cow, error) {
			return cc.api.CowsByUser(ctx, session.UserID)
		}
	}

	load, err := controllers.LoadCollection(ctx, Resource, scope, cc.generations, fetch, cc.snapshots, log)
	if err != nil {
		return nil, false, log.Err("failed to load cows", err, "scope", scope)
	}

	actions := actiongate.For(session.Role, actiongate.ClassHerd)
	views := make([]CowView, 0, len(load.Items))
	for _, cow := range load.Items {
		views = append(views, CowView{Cow: cow, Actions: actions})
	}

	// The by-user endpoint already scopes a farmer's fetch; the filter
	// still runs so an over-returning backend cannot leak records.
	managed := NewCowSet(load.Items)
	visible := pipeline.Visible(views, session.Role, managed, func(v CowView) (int, bool) {
		return v.ID, true
	})

	return visible, load.Stale, nil
}

func femalePercentage(cows []CowView) float64 {
	if len(cows) == 0 {
		return 0
	}

	females := 0
	for _, cow := range cows {
		if cow.Gender == GenderFemale {
			females++
		}
	}

	return float64(females) / float64(len(cows)) * 100
}

func (cc *CowController) fetchAll(ctx context.Context) ([]Cow, error) {
	log := cc.log.Function("fetchAll")

	var cached []Cow
	if found, err := cc.collections.GetAll(ctx, Resource, &cached); err == nil && found {
		return cached, nil
	}

	cows, err := cc.api.Cows(ctx)
	if err != nil {
		return nil, err
	}

	if err := cc.collections.SetAll(ctx, Resource, cows); err != nil {
		log.Warn("failed to cache cow collection", "error", err)
	}

	return cows, nil
}

func (cc *CowController) Create(ctx context.Context, session Session, request CowRequest) (Cow, error) {
	log := cc.log.Function("Create")

	if !actiongate.For(session.Role, actiongate.ClassHerd).CanCreate {
		return Cow{}, controllers.Blocked(actiongate.ReasonRoleReadOnly)
	}
	if err := controllers.ValidateCow(request); err != nil {
		return Cow{}, err
	}

	cow, err := cc.api.CreateCow(ctx, request)
	if err != nil {
		return Cow{}, log.Err("failed to create cow", err)
	}

	cc.afterMutation(ctx, session, "Cow added successfully")
	return cow, nil
}

func (cc *CowController) Update(ctx context.Context, session Session, id int, request CowRequest) (Cow, error) {
	log := cc.log.Function("Update")

	if !actiongate.For(session.Role, actiongate.ClassHerd).CanEdit {
		return Cow{}, controllers.Blocked(actiongate.ReasonRoleReadOnly)
	}
	if err := controllers.ValidateCow(request); err != nil {
		return Cow{}, err
	}

	cow, err := cc.api.UpdateCow(ctx, id, request)
	if err != nil {
		return Cow{}, log.Err("failed to update cow", err, "id", id)
	}

	cc.afterMutation(ctx, session, "Cow updated successfully")
	return cow, nil
}

func (cc *CowController) Delete(ctx context.Context, session Session, id int) error {
	log := cc.log.Function("Delete")

	if !actiongate.For(session.Role, actiongate.ClassHerd).CanDelete {
		return controllers.Blocked(actiongate.ReasonRoleReadOnly)
	}

	if err := cc.api.DeleteCow(ctx, id); err != nil {
		return log.Err("failed to delete cow", err, "id", id)
	}

	cc.afterMutation(ctx, session, "Cow deleted successfully")
	return nil
}

func (cc *CowController) afterMutation(ctx context.Context, session Session, message string) {
	log := cc.log.Function("afterMutation")

	if err := cc.invalidation.InvalidateCollection(ctx, Resource); err != nil {
		log.Warn("failed to invalidate cow collection", "error", err)
	}
	cc.invalidation.PushNotice(session.UserID, notify.Success(message))
}
