package healthCheckController

import (
	"context"
	"fmt"

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
	"herdview/internal/utils"
)

const (
	Resource = "healthchecks"
	pageSize = 5
)

type HealthCheckAPI interface {
	HealthChecks(ctx context.Context) ([]HealthCheck, error)
	HealthChecksByUser(ctx context.Context, userID int) ([]HealthCheck, error)
	Cows(ctx context.Context) ([]Cow, error)
	CowsByUser(ctx context.Context, userID int) ([]Cow, error)
	CreateHealthCheck(ctx context.Context, request HealthCheckRequest) (HealthCheck, error)
	UpdateHealthCheck(ctx context.Context, id int, request HealthCheckRequest) (HealthCheck, error)
	DeleteHealthCheck(ctx context.Context, id int) error
}

type HealthCheckView struct {
	HealthCheck
	CowName string             `json:"cowName"`
	Actions actiongate.Actions `json:"actions"`
}

type HealthCheckListPage struct {
	pipeline.Result[HealthCheckView]
	CanCreate       bool            `json:"canCreate"`
	CanCreateReason string          `json:"canCreateReason,omitempty"`
	Stale           bool            `json:"stale"`
	Notices         []notify.Notice `json:"notices,omitempty"`
}

type HealthCheckController struct {
	api          HealthCheckAPI
	snapshots    repositories.SnapshotRepository
	generations  *services.GenerationService
	invalidation controllers.Invalidator
	log          logger.Logger
}

func New(
	api HealthCheckAPI,
	snapshots repositories.SnapshotRepository,
	generations *services.GenerationService,
	invalidation controllers.Invalidator,
) *HealthCheckController {
	return &HealthCheckController{
		api:          api,
		snapshots:    snapshots,
		generations:  generations,
		invalidation: invalidation,
		log:          logger.New("HealthCheckController"),
	}
}

var checkSpec = pipeline.Spec[HealthCheckView]{
	SearchFields: func(v HealthCheckView) []string {
		return []string{v.CowName, string(v.Status)}
	},
	Comparators: map[string]func(a, b HealthCheckView) int{
		"cow":          func(a, b HealthCheckView) int { return pipeline.CompareStrings(a.CowName, b.CowName) },
		"status":       func(a, b HealthCheckView) int { return pipeline.CompareStrings(string(a.Status), string(b.Status)) },
		"checkup_date": func(a, b HealthCheckView) int { return pipeline.CompareDates(a.CheckupDate, b.CheckupDate) },
		"temperature": func(a, b HealthCheckView) int {
			return pipeline.CompareNumbers(a.RectalTemperature, b.RectalTemperature)
		},
	},
}

func (hc *HealthCheckController) List(ctx context.Context, session Session, query pipeline.Query) (*HealthCheckListPage, error) {
	metrics.ObserveListRequest(Resource)

	loaded, err := hc.load(ctx, session)
	if err != nil {
		return nil, err
	}
	visible := hc.visibleViews(session, loaded)

	canCreate := actiongate.For(session.Role, actiongate.ClassClinical).CanCreate
	canCreateReason := ""
	if canCreate && !actiongate.CanCreateHealthCheck(loaded.cows.Items, loaded.checks.Items) {
		canCreate = false
		canCreateReason = actiongate.ReasonNoEligibleCow
	}

	query.PageSize = pageSize
	page := &HealthCheckListPage{
		Result:          pipeline.Apply(visible, query, checkSpec),
		CanCreate:       canCreate,
		CanCreateReason: canCreateReason,
		Stale:           loaded.checks.Stale || loaded.cows.Stale,
	}
	if loaded.checks.Stale {
		page.Notices = append(page.Notices, notify.Warning("showing the last saved health checks; refresh failed"))
	}
	if loaded.cows.Stale {
		page.Notices = append(page.Notices, notify.Warning("cow names may be out of date; refresh failed"))
	}

	return page, nil
}

// Export returns the searched and sorted collection without pagination.
func (hc *HealthCheckController) Export(ctx context.Context, session Session, query pipeline.Query) ([]HealthCheckView, error) {
	loaded, err := hc.load(ctx, session)
	if err != nil {
		return nil, err
	}
	return pipeline.Filter(hc.visibleViews(session, loaded), query, checkSpec), nil
}

type loadedChecks struct {
	checks controllers.LoadResult[HealthCheck]
	cows   controllers.LoadResult[Cow]
}

func (hc *HealthCheckController) load(ctx context.Context, session Session) (loadedChecks, error) {
	log := hc.log.Function("load")

	checksScope, cowsScope := "all", "all"
	fetchChecks := hc.api.HealthChecks
	fetchCows := hc.api.Cows
	if !session.Role.SeesAllRecords() {
		checksScope = fmt.Sprintf("user:%d", session.UserID)
		cowsScope = checksScope
		fetchChecks = func(ctx context.Context) ([]HealthCheck, error) {
			return hc.api.HealthChecksByUser(ctx, session.UserID)
		}
		fetchCows = func(ctx context.Context) ([]Cow, error) {
			return hc.api.CowsByUser(ctx, session.UserID)
		}
	}

	// The two collections are independent; fetch them concurrently and
	// join after both resolve.
	var (
		checksLoad controllers.LoadResult[HealthCheck]
		cowsLoad   controllers.LoadResult[Cow]
		checksErr  error
		cowsErr    error
	)
	farmapi.Join(
		func() error {
			checksLoad, checksErr = controllers.LoadCollection(ctx, Resource, checksScope, hc.generations, fetchChecks, hc.snapshots, log)
			return checksErr
		},
		func() error {
			cowsLoad, cowsErr = controllers.LoadCollection(ctx, cowController.Resource, cowsScope, hc.generations, fetchCows, hc.snapshots, log)
			return cowsErr
		},
	)
	if checksErr != nil {
		return loadedChecks{}, log.Err("failed to load health checks", checksErr, "scope", checksScope)
	}
	if cowsErr != nil {
		return loadedChecks{}, log.Err("failed to load cows for health checks", cowsErr, "scope", cowsScope)
	}

	return loadedChecks{checks: checksLoad, cows: cowsLoad}, nil
}

func (hc *HealthCheckController) visibleViews(session Session, loaded loadedChecks) []HealthCheckView {
	cowNames := make(map[int]string, len(loaded.cows.Items))
	for _, cow := range loaded.cows.Items {
		cowNames[cow.ID] = cow.Name
	}

	views := make([]HealthCheckView, 0, len(loaded.checks.Items))
	for _, check := range loaded.checks.Items {
		views = append(views, HealthCheckView{
			HealthCheck: check,
			CowName:     cowNames[check.Cow.ID],
			Actions:     actiongate.ForRecord(session.Role, actiongate.ClassClinical, check.Status),
		})
	}

	managed := NewCowSet(loaded.cows.Items)
	return pipeline.Visible(views, session.Role, managed, func(v HealthCheckView) (int, bool) {
		if !v.Cow.Valid() {
			return 0, false
		}
		return v.Cow.ID, true
	})
}

func (hc *HealthCheckController) Create(ctx context.Context, session Session, request HealthCheckRequest) (HealthCheck, error) {
	log := hc.log.Function("Create")

	if !actiongate.For(session.Role, actiongate.ClassClinical).CanCreate {
		return HealthCheck{}, controllers.Blocked(actiongate.ReasonRoleReadOnly)
	}
	if request.CowID <= 0 {
		return HealthCheck{}, controllers.Invalid("a cow is required")
	}
	if _, ok := utils.ParseDate(request.CheckupDate); !ok {
		return HealthCheck{}, controllers.Invalid("checkup date is required and must be a valid date")
	}

	// Scan the current collections for an eligible target before
	// issuing the create: a cow with an open check cannot get another.
	var (
		cows     []Cow
		checks   []HealthCheck
		cowsErr  error
		checkErr error
	)
	farmapi.Join(
		func() error { cows, cowsErr = hc.api.CowsByUser(ctx, session.UserID); return cowsErr },
		func() error { checks, checkErr = hc.api.HealthChecksByUser(ctx, session.UserID); return checkErr },
	)
	if cowsErr != nil {
		return HealthCheck{}, log.Err("failed to load cows for eligibility scan", cowsErr)
	}
	if checkErr != nil {
		return HealthCheck{}, log.Err("failed to load health checks for eligibility scan", checkErr)
	}

	if !actiongate.CanCreateHealthCheck(cows, checks) {
		return HealthCheck{}, controllers.Blocked(actiongate.ReasonNoEligibleCow)
	}
	for _, check := range checks {
		if check.Cow.ID == request.CowID && !check.Status.Terminal() {
			return HealthCheck{}, controllers.Blocked("this cow already has an open health check")
		}
	}

	created, err := hc.api.CreateHealthCheck(ctx, request)
	if err != nil {
		return HealthCheck{}, log.Err("failed to create health check", err)
	}

	hc.afterMutation(ctx, session, "Health check recorded successfully")
	return created, nil
}

// Update refuses edits to settled checks. The record's current status
// is read from upstream, never trusted from the caller.
func (hc *HealthCheckController) Update(ctx context.Context, session Session, id int, request HealthCheckRequest) (HealthCheck, error) {
	log := hc.log.Function("Update")

	current, err := hc.lookup(ctx, session, id)
	if err != nil {
		return HealthCheck{}, err
	}

	actions := actiongate.ForRecord(session.Role, actiongate.ClassClinical, current.Status)
	if !actions.CanEdit {
		return HealthCheck{}, controllers.Blocked(actions.Reason)
	}

	updated, err := hc.api.UpdateHealthCheck(ctx, id, request)
	if err != nil {
		return HealthCheck{}, log.Err("failed to update health check", err, "id", id)
	}

	hc.afterMutation(ctx, session, "Health check updated successfully")
	return updated, nil
}

// lookup fetches the caller's view of one health check. A record the
// caller cannot see is reported as not found, not as forbidden.
func (hc *HealthCheckController) lookup(ctx context.Context, session Session, id int) (HealthCheck, error) {
	log := hc.log.Function("lookup")

	fetch := hc.api.HealthChecks
	if !session.Role.SeesAllRecords() {
		fetch = func(ctx context.Context) ([]HealthCheck, error) {
			return hc.api.HealthChecksByUser(ctx, session.UserID)
		}
	}

	checks, err := fetch(ctx)
	if err != nil {
		return HealthCheck{}, log.Err("failed to load health checks", err, "id", id)
	}
	for _, check := range checks {
		if check.ID == id {
			return check, nil
		}
	}
	return HealthCheck{}, controllers.Invalid("health check not found")
}

func (hc *HealthCheckController) Delete(ctx context.Context, session Session, id int) error {
	log := hc.log.Function("Delete")

	if !actiongate.For(session.Role, actiongate.ClassClinical).CanDelete {
		return controllers.Blocked(actiongate.ReasonRoleReadOnly)
	}

	if err := hc.api.DeleteHealthCheck(ctx, id); err != nil {
		return log.Err("failed to delete health check", err, "id", id)
	}

	hc.afterMutation(ctx, session, "Health check deleted successfully")
	return nil
}

func (hc *HealthCheckController) afterMutation(ctx context.Context, session Session, message string) {
	log := hc.log.Function("afterMutation")

	if err := hc.invalidation.InvalidateCollection(ctx, Resource); err != nil {
		log.Warn("failed to invalidate health check collection", "error", err)
	}
	hc.invalidation.PushNotice(session.UserID, notify.Success(message))
}
