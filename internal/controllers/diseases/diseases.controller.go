package diseaseController

import (
	"context"
	"fmt"

	"herdview/internal/actiongate"
	"herdview/internal/controllers"
	cowController "herdview/internal/controllers/cows"
	healthCheckController "herdview/internal/controllers/healthchecks"
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
	Resource = "diseasehistory"
	pageSize = 5
)

type DiseaseAPI interface {
	DiseaseHistories(ctx context.Context) ([]DiseaseHistory, error)
	HealthChecks(ctx context.Context) ([]HealthCheck, error)
	HealthChecksByUser(ctx context.Context, userID int) ([]HealthCheck, error)
	Cows(ctx context.Context) ([]Cow, error)
	CowsByUser(ctx context.Context, userID int) ([]Cow, error)
	CreateDiseaseHistory(ctx context.Context, request DiseaseHistoryRequest) (DiseaseHistory, error)
	UpdateDiseaseHistory(ctx context.Context, id int, request DiseaseHistoryRequest) (DiseaseHistory, error)
}

type DiseaseView struct {
	DiseaseHistory
	CowID   int                `json:"cowId"`
	CowName string             `json:"cowName"`
	Actions actiongate.Actions `json:"actions"`
}

type DiseaseListPage struct {
	pipeline.Result[DiseaseView]
	CanCreate bool            `json:"canCreate"`
	Stale     bool            `json:"stale"`
	Notices   []notify.Notice `json:"notices,omitempty"`
}

type DiseaseController struct {
	api          DiseaseAPI
	snapshots    repositories.SnapshotRepository
	generations  *services.GenerationService
	invalidation controllers.Invalidator
	log          logger.Logger
}

func New(
	api DiseaseAPI,
	snapshots repositories.SnapshotRepository,
	generations *services.GenerationService,
	invalidation controllers.Invalidator,
) *DiseaseController {
	return &DiseaseController{
		api:          api,
		snapshots:    snapshots,
		generations:  generations,
		invalidation: invalidation,
		log:          logger.New("DiseaseController"),
	}
}

var diseaseSpec = pipeline.Spec[DiseaseView]{
	SearchFields: func(v DiseaseView) []string {
		return []string{v.CowName, v.DiseaseName}
	},
	Comparators: map[string]func(a, b DiseaseView) int{
		"cow":            func(a, b DiseaseView) int { return pipeline.CompareStrings(a.CowName, b.CowName) },
		"disease":        func(a, b DiseaseView) int { return pipeline.CompareStrings(a.DiseaseName, b.DiseaseName) },
		"treatment_date": func(a, b DiseaseView) int { return pipeline.CompareDates(a.TreatmentDate, b.TreatmentDate) },
	},
}

func (dc *DiseaseController) List(ctx context.Context, session Session, query pipeline.Query) (*DiseaseListPage, error) {
	log := dc.log.Function("List")
	metrics.ObserveListRequest(Resource)

	scope := "all"
	fetchChecks := dc.api.HealthChecks
	fetchCows := dc.api.Cows
	if !session.Role.SeesAllRecords() {
		scope = fmt.Sprintf("user:%d", session.UserID)
		fetchChecks = func(ctx context.Context) ([]HealthCheck, error) {
			return dc.api.HealthChecksByUser(ctx, session.UserID)
		}
		fetchCows = func(ctx context.Context) ([]Cow, error) {
			return dc.api.CowsByUser(ctx, session.UserID)
		}
	}

	var (
		diseasesLoad controllers.LoadResult[DiseaseHistory]
		checksLoad   controllers.LoadResult[HealthCheck]
		cowsLoad     controllers.LoadResult[Cow]
		diseasesErr  error
		checksErr    error
		cowsErr      error
	)
	farmapi.Join(
		func() error {
			diseasesLoad, diseasesErr = controllers.LoadCollection(ctx, Resource, "all", dc.generations, dc.api.DiseaseHistories, dc.snapshots, log)
			return diseasesErr
		},
		func() error {
			checksLoad, checksErr = controllers.LoadCollection(ctx, healthCheckController.Resource, scope, dc.generations, fetchChecks, dc.snapshots, log)
			return checksErr
		},
		func() error {
			cowsLoad, cowsErr = controllers.LoadCollection(ctx, cowController.Resource, scope, dc.generations, fetchCows, dc.snapshots, log)
			return cowsErr
		},
	)
	if diseasesErr != nil {
		return nil, log.Err("failed to load disease histories", diseasesErr)
	}
	if checksErr != nil {
		return nil, log.Err("failed to load health checks for disease histories", checksErr)
	}
	if cowsErr != nil {
		return nil, log.Err("failed to load cows for disease histories", cowsErr)
	}

	checksByID := make(map[int]HealthCheck, len(checksLoad.Items))
	for _, check := range checksLoad.Items {
		checksByID[check.ID] = check
	}
	cowNames := make(map[int]string, len(cowsLoad.Items))
	for _, cow := range cowsLoad.Items {
		cowNames[cow.ID] = cow.Name
	}

	views := make([]DiseaseView, 0, len(diseasesLoad.Items))
	for _, disease := range diseasesLoad.Items {
		view := DiseaseView{
			DiseaseHistory: disease,
			Actions:        actiongate.For(session.Role, actiongate.ClassArchive),
		}
		if check, ok := checksByID[disease.HealthCheck.ID]; ok {
			view.CowID = check.Cow.ID
			view.CowName = cowNames[check.Cow.ID]
		}
		views = append(views, view)
	}

	managed := NewCowSet(cowsLoad.Items)
	visible := pipeline.Visible(views, session.Role, managed, func(v DiseaseView) (int, bool) {
		if v.CowID == 0 {
			return 0, false
		}
		return v.CowID, true
	})

	query.PageSize = pageSize
	page := &DiseaseListPage{
		Result:    pipeline.Apply(visible, query, diseaseSpec),
		CanCreate: actiongate.For(session.Role, actiongate.ClassArchive).CanCreate,
		Stale:     diseasesLoad.Stale || checksLoad.Stale || cowsLoad.Stale,
	}
	if diseasesLoad.Stale {
		page.Notices = append(page.Notices, notify.Warning("showing the last saved disease history; refresh failed"))
	}

	return page, nil
}

func (dc *DiseaseController) Create(ctx context.Context, session Session, request DiseaseHistoryRequest) (DiseaseHistory, error) {
	log := dc.log.Function("Create")

	if !actiongate.For(session.Role, actiongate.ClassArchive).CanCreate {
		return DiseaseHistory{}, controllers.Blocked(actiongate.ReasonRoleReadOnly)
	}
	if request.HealthCheckID <= 0 {
		return DiseaseHistory{}, controllers.Invalid("a health check is required")
	}
	if request.DiseaseName == "" {
		return DiseaseHistory{}, controllers.Invalid("disease name is required")
	}

	disease, err := dc.api.CreateDiseaseHistory(ctx, request)
	if err != nil {
		return DiseaseHistory{}, log.Err("failed to create disease history", err)
	}

	dc.afterMutation(ctx, session, "Disease history recorded successfully")
	return disease, nil
}

func (dc *DiseaseController) Update(ctx context.Context, session Session, id int, request DiseaseHistoryRequest) (DiseaseHistory, error) {
	log := dc.log.Function("Update")

	if !actiongate.For(session.Role, actiongate.ClassArchive).CanEdit {
		return DiseaseHistory{}, controllers.Blocked(actiongate.ReasonRoleReadOnly)
	}

	disease, err := dc.api.UpdateDiseaseHistory(ctx, id, request)
	if err != nil {
		return DiseaseHistory{}, log.Err("failed to update disease history", err, "id", id)
	}

	dc.afterMutation(ctx, session, "Disease history updated successfully")
	return disease, nil
}

// Delete always refuses: the medical archive is append-only for every
// role. The handler exposes this as a disabled control, and any direct
// attempt gets the same denial.
func (dc *DiseaseController) Delete(Session) error {
	return controllers.Blocked(actiongate.ReasonArchiveDelete)
}

func (dc *DiseaseController) afterMutation(ctx context.Context, session Session, message string) {
	log := dc.log.Function("afterMutation")

	if err := dc.invalidation.InvalidateCollection(ctx, Resource); err != nil {
		log.Warn("failed to invalidate disease history collection", "error", err)
	}
	dc.invalidation.PushNotice(session.UserID, notify.Success(message))
}
