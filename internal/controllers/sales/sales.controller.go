package salesController

import (
	"context"

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
	Resource = "sales"
	pageSize = 8
)

type SalesAPI interface {
	Sales(ctx context.Context) ([]SalesTransaction, error)
	CreateSale(ctx context.Context, request SalesRequest) (SalesTransaction, error)
	UpdateSale(ctx context.Context, id int, request SalesRequest) (SalesTransaction, error)
	DeleteSale(ctx context.Context, id int) error
}

type SalesView struct {
	SalesTransaction
	Actions actiongate.Actions `json:"actions"`
}

type SalesListPage struct {
	pipeline.Result[SalesView]
	CanCreate    bool            `json:"canCreate"`
	TotalRevenue float64         `json:"totalRevenue"`
	Stale        bool            `json:"stale"`
	Notices      []notify.Notice `json:"notices,omitempty"`
}

type SalesController struct {
	api          SalesAPI
	snapshots    repositories.SnapshotRepository
	generations  *services.GenerationService
	invalidation controllers.Invalidator
	log          logger.Logger
}

func New(
	api SalesAPI,
	snapshots repositories.SnapshotRepository,
	generations *services.GenerationService,
	invalidation controllers.Invalidator,
) *SalesController {
	return &SalesController{
		api:          api,
		snapshots:    snapshots,
		generations:  generations,
		invalidation: invalidation,
		log:          logger.New("SalesController"),
	}
}

var salesSpec = pipeline.Spec[SalesView]{
	SearchFields: func(v SalesView) []string {
		return []string{v.Buyer, v.Product}
	},
	Comparators: map[string]func(a, b SalesView) int{
		"buyer":   func(a, b SalesView) int { return pipeline.CompareStrings(a.Buyer, b.Buyer) },
		"product": func(a, b SalesView) int { return pipeline.CompareStrings(a.Product, b.Product) },
		"date":    func(a, b SalesView) int { return pipeline.CompareDates(a.Date, b.Date) },
		"total":   func(a, b SalesView) int { return pipeline.CompareNumbers(a.Total, b.Total) },
	},
}

// List returns sales for any signed-in role. Sales belong to the farm,
// not to a cow, so there is no per-farmer visibility cut.
func (sc *SalesController) List(ctx context.Context, session Session, query pipeline.Query) (*SalesListPage, error) {
	metrics.ObserveListRequest(Resource)

	views, stale, err := sc.views(ctx, session)
	if err != nil {
		return nil, err
	}

	var revenue float64
	for _, view := range views {
		revenue += view.Total
	}

	query.PageSize = pageSize
	page := &SalesListPage{
		Result:       pipeline.Apply(views, query, salesSpec),
		CanCreate:    actiongate.For(session.Role, actiongate.ClassHerd).CanCreate,
		TotalRevenue: revenue,
		Stale:        stale,
	}
	if stale {
		page.Notices = append(page.Notices, notify.Warning("showing the last saved sales; refresh failed"))
	}

	return page, nil
}

// Export returns the searched and sorted collection without pagination.
func (sc *SalesController) Export(ctx context.Context, session Session, query pipeline.Query) ([]SalesView, error) {
	views, _, err := sc.views(ctx, session)
	if err != nil {
		return nil, err
	}
	return pipeline.Filter(views, query, salesSpec), nil
}

func (sc *SalesController) views(ctx context.Context, session Session) ([]SalesView, bool, error) {
	log := sc.log.Function("views")

	load, err := controllers.LoadCollection(ctx, Resource, "all", sc.generations, sc.api.Sales, sc.snapshots, log)
	if err != nil {
		return nil, false, log.Err("failed to load sales", err)
	}

	actions := actiongate.For(session.Role, actiongate.ClassHerd)
	views := make([]SalesView, 0, len(load.Items))
	for _, sale := range load.Items {
		views = append(views, SalesView{SalesTransaction: sale, Actions: actions})
	}

	return views, load.Stale, nil
}

func (sc *SalesController) Create(ctx context.Context, session Session, request SalesRequest) (SalesTransaction, error) {
	log := sc.log.Function("Create")

	if !actiongate.For(session.Role, actiongate.ClassHerd).CanCreate {
		return SalesTransaction{}, controllers.Blocked(actiongate.ReasonRoleReadOnly)
	}
	if err := controllers.ValidateSale(request); err != nil {
		return SalesTransaction{}, err
	}

	sale, err := sc.api.CreateSale(ctx, request)
	if err != nil {
		return SalesTransaction{}, log.Err("failed to create sale", err)
	}

	sc.afterMutation(ctx, session, "Sale recorded successfully")
	return sale, nil
}

func (sc *SalesController) Update(ctx context.Context, session Session, id int, request SalesRequest) (SalesTransaction, error) {
	log := sc.log.Function("Update")

	if !actiongate.For(session.Role, actiongate.ClassHerd).CanEdit {
		return SalesTransaction{}, controllers.Blocked(actiongate.ReasonRoleReadOnly)
	}
	if err := controllers.ValidateSale(request); err != nil {
		return SalesTransaction{}, err
	}

	sale, err := sc.api.UpdateSale(ctx, id, request)
	if err != nil {
		return SalesTransaction{}, log.Err("failed to update sale", err, "id", id)
	}

	sc.afterMutation(ctx, session, "Sale updated successfully")
	return sale, nil
}

func (sc *SalesController) Delete(ctx context.Context, session Session, id int) error {
	log := sc.log.Function("Delete")

	if !actiongate.For(session.Role, actiongate.ClassHerd).CanDelete {
		return controllers.Blocked(actiongate.ReasonRoleReadOnly)
	}

	if err := sc.api.DeleteSale(ctx, id); err != nil {
		return log.Err("failed to delete sale", err, "id", id)
	}

	sc.afterMutation(ctx, session, "Sale deleted successfully")
	return nil
}

func (sc *SalesController) afterMutation(ctx context.Context, session Session, message string) {
	log := sc.log.Function("afterMutation")

	if err := sc.invalidation.InvalidateCollection(ctx, Resource); err != nil {
		log.Warn("failed to invalidate sales collection", "error", err)
	}
	sc.invalidation.PushNotice(session.UserID, notify.Success(message))
}
