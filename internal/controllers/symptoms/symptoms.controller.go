package symptomController

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
	Resource = "symptoms"
	pageSize = 5
)

type SymptomAPI interface {
	Symptoms(ctx context.Context) ([]Symptom, error)
	HealthChecks(ctx context.Context) ([]HealthCheck, error)
	HealthChecksByUser(ctx context.Context, userID int) ([]HealthCheck, error)
	Cows(ctx context.Context) ([]Cow, error)
	CowsByUser(ctx context.Context, userID int) ([]Cow, error)
	CreateSymptom(ctx context.Context, request SymptomRequest) (Symptom, error)
	UpdateSymptom(ctx context.Context, id int, request SymptomRequest) (Symptom, error)
	DeleteSymptom(ctx context.Context, id int) error
}

// SymptomView carries the two-hop resolution result: the symptom's
// health check, and through it the owning cow.
type SymptomView struct {
	Symptom
	CowID   int                `json:"cowId"`
	CowName string             `json:"cowName"`
	Actions actiongate.Actions `json:"actions"`
}

type SymptomListPage struct {
	pipeline.Result[SymptomView]
	CanCreate bool            `json:"canCreate"`
	Stale     bool            `json:"stale"`
	Notices   []notify.Notice `json:"notices,omitempty"`
}

type SymptomController struct {
	api          SymptomAPI
	snapshots    repositories.SnapshotRepository
	generations  *services.GenerationService
	invalidation controllers.Invalidator
	log          logger.Logger
}

func New(
	api SymptomAPI,
	snapshots repositories.SnapshotRepository,
	generations *services.GenerationService,
	invalidation controllers.Invalidator,
) *SymptomController {
	return &SymptomController{
		api:          api,
		snapshots:    snapshots,
		generations:  generations,
		invalidation: invalidation,
		log:          logger.New("SymptomController"),
	}
}

var symptomSpec = pipeline.Spec[SymptomView]{
	SearchFields: func(v SymptomView) []string {
		return []string{v.CowName, v.EyeCondition, v.MouthCondition, v.BehaviorCondition}
	},
	Comparators: map[string]func(a, b SymptomView) int{
		"cow": func(a, b SymptomView) int { return pipeline.CompareStrings(a.CowName, b.CowName) },
		"eye": func(a, b SymptomView) int { return pipeline.CompareStrings(a.EyeCondition, b.EyeCondition) },
	},
}

func (sc *SymptomController) List(ctx context.Context, session Session, query pipeline.Query) (*SymptomListPage, error) {
	log := sc.log.Function("List")
	metrics.ObserveListRequest(Resource)

	scope := "all"
	fetchChecks := sc.api.HealthChecks
	fetchCows := sc.api.Cows
	if !session.Role.SeesAllRecords() {
		scope = fmt.Sprintf("user:%d", session.UserID)
		fetchChecks = func(ctx context.Context) ([]HealthCheck, error) {
			return sc.api.HealthChecksByUser(ctx, session.UserID)
		}
		fetchCows = func(ctx context.Context) ([]Cow, error) {
			return sc.api.CowsByUser(ctx, session.UserID)
		}
	}

	var (
		symptomsLoad controllers.LoadResult[Symptom]
		checksLoad   controllers.LoadResult[HealthCheck]
		cowsLoad     controllers.LoadResult[Cow]
		symptomsErr  error
		checksErr    error
		cowsErr      error
	)
	farmapi.Join(
		func() error {
			symptomsLoad, symptomsErr = controllers.LoadCollection(ctx, Resource, "all", sc.generations, sc.api.Symptoms, sc.snapshots, log)
			return symptomsErr
		},
		func() error {
			checksLoad, checksErr = controllers.LoadCollection(ctx, healthCheckController.Resource, scope, sc.generations, fetchChecks, sc.snapshots, log)
			return checksErr
		},
		func() error {
			cowsLoad, cowsErr = controllers.LoadCollection(ctx, cowController.Resource, scope, sc.generations, fetchCows, sc.snapshots, log)
			return cowsErr
		},
	)
	if symptomsErr != nil {
		return nil, log.Err("failed to load symptoms", symptomsErr)
	}
	if checksErr != nil {
		return nil, log.Err("failed to load health checks for symptoms", checksErr)
	}
	if cowsErr != nil {
		return nil, log.Err("failed to load cows for symptoms", cowsErr)
	}

	checksByID := make(map[int]HealthCheck, len(checksLoad.Items))
	for _, check := range checksLoad.Items {
		checksByID[check.ID] = check
	}
	cowNames := make(map[int]string, len(cowsLoad.Items))
	for _, cow := range cowsLoad.Items {
		cowNames[cow.ID] = cow.Name
	}

	views := make([]SymptomView, 0, len(symptomsLoad.Items))
	for _, symptom := range symptomsLoad.Items {
		view := SymptomView{Symptom: symptom}
		if check, ok := checksByID[symptom.HealthCheck.ID]; ok {
			view.CowID = check.Cow.ID
			view.CowName = cowNames[check.Cow.ID]
			view.Actions = actiongate.ForRecord(session.Role, actiongate.ClassClinical, check.Status)
		} else {
			view.Actions = actiongate.For(session.Role, actiongate.ClassClinical)
		}
		views = append(views, view)
	}

	managed := NewCowSet(cowsLoad.Items)
	visible := pipeline.Visible(views, session.Role, managed, func(v SymptomView) (int, bool) {
		if v.CowID == 0 {
			return 0, false
		}
		return v.CowID, true
	})

	query.PageSize = pageSize
	page := &SymptomListPage{
		Result:    pipeline.Apply(visible, query, symptomSpec),
		CanCreate: actiongate.For(session.Role, actiongate.ClassClinical).CanCreate,
		Stale:     symptomsLoad.Stale || checksLoad.Stale || cowsLoad.Stale,
	}
	if symptomsLoad.Stale {
		page.Notices = append(page.Notices, notify.Warning("showing the last saved symptoms; refresh failed"))
	}

	return page, nil
}

func (sc *SymptomController) Create(ctx context.Context, session Session, request SymptomRequest) (Symptom, error) {
	log := sc.log.Function("Create")

	if !actiongate.For(session.Role, actiongate.ClassClinical).CanCreate {
		return Symptom{}, controllers.Blocked(actiongate.ReasonRoleReadOnly)
	}
	if request.HealthCheckID <= 0 {
		return Symptom{}, controllers.Invalid("a health check is required")
	}

	symptom, err := sc.api.CreateSymptom(ctx, request)
	if err != nil {
		return Symptom{}, log.Err("failed to create symptom", err)
	}

	sc.afterMutation(ctx, session, "Symptom recorded successfully")
	return symptom, nil
}

// Update follows the symptom to its parent health check and applies the
// check's status to the edit gate: symptoms of a settled check are as
// frozen as the check itself.
func (sc *SymptomController) Update(ctx context.Context, session Session, id int, request SymptomRequest) (Symptom, error) {
	log := sc.log.Function("Update")

	parentStatus, err := sc.parentStatus(ctx, session, id)
	if err != nil {
		return Symptom{}, err
	}

	actions := actiongate.ForRecord(session.Role, actiongate.ClassClinical, parentStatus)
	if !actions.CanEdit {
		return Symptom{}, controllers.Blocked(actions.Reason)
	}

	symptom, err := sc.api.UpdateSymptom(ctx, id, request)
	if err != nil {
		return Symptom{}, log.Err("failed to update symptom", err, "id", id)
	}

	sc.afterMutation(ctx, session, "Symptom updated successfully")
	return symptom, nil
}

func (sc *SymptomController) parentStatus(ctx context.Context, session Session, id int) (HealthStatus, error) {
	log := sc.log.Function("parentStatus")

	fetchChecks := sc.api.HealthChecks
	if !session.Role.SeesAllRecords() {
		fetchChecks = func(ctx context.Context) ([]HealthCheck, error) {
			return sc.api.HealthChecksByUser(ctx, session.UserID)
		}
	}

	var (
		symptoms []Symptom
		checks   []HealthCheck
		sympErr  error
		checkErr error
	)
	farmapi.Join(
		func() error { symptoms, sympErr = sc.api.Symptoms(ctx); return sympErr },
		func() error { checks, checkErr = fetchChecks(ctx); return checkErr },
	)
	if sympErr != nil {
		return "", log.Err("failed to load symptoms", sympErr, "id", id)
	}
	if checkErr != nil {
		return "", log.Err("failed to load health checks for symptom", checkErr, "id", id)
	}

	for _, symptom := range symptoms {
		if symptom.ID != id {
			continue
		}
		for _, check := range checks {
			if check.ID == symptom.HealthCheck.ID {
				return check.Status, nil
			}
		}
		break
	}
	return "", controllers.Invalid("symptom not found")
}

func (sc *SymptomController) Delete(ctx context.Context, session Session, id int) error {
	log := sc.log.Function("Delete")

	if !actiongate.For(session.Role, actiongate.ClassClinical).CanDelete {
		return controllers.Blocked(actiongate.ReasonRoleReadOnly)
	}

	if err := sc.api.DeleteSymptom(ctx, id); err != nil {
		return log.Err("failed to delete symptom", err, "id", id)
	}

	sc.afterMutation(ctx, session, "Symptom deleted successfully")
	return nil
}

func (sc *SymptomController) afterMutation(ctx context.Context, session Session, message string) {
	log := sc.log.Function("afterMutation")

	if err := sc.invalidation.InvalidateCollection(ctx, Resource); err != nil {
		log.Warn("failed to invalidate symptom collection", "error", err)
	}
	sc.invalidation.PushNotice(session.UserID, notify.Success(message))
}
