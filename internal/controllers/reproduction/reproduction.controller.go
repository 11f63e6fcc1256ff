package reproductionController

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
)

const (
	Resource = "reproductions"
	pageSize = 5
)

type ReproductionAPI interface {
	Reproductions(ctx context.Context) ([]Reproduction, error)
	Cows(ctx context.Context) ([]Cow, error)
	CowsByUser(ctx context.Context, userID int) ([]Cow, error)
	CreateReproduction(ctx context.Context, request ReproductionRequest) (Reproduction, error)
	UpdateReproduction(ctx context.Context, id int, request ReproductionRequest) (Reproduction, error)
}

type ReproductionView struct {
	Reproduction
	CowName string             `json:"cowName"`
	Actions actiongate.Actions `json:"actions"`
}

type ReproductionListPage struct {
	pipeline.Result[ReproductionView]
	CanCreate bool            `json:"canCreate"`
	Stale     bool            `json:"stale"`
	Notices   []notify.Notice `json:"notices,omitempty"`
}

type ReproductionController struct {
	api          ReproductionAPI
	snapshots    repositories.SnapshotRepository
	generations  *services.GenerationService
	invalidation controllers.Invalidator
	log          logger.Logger
}

func New(
	api ReproductionAPI,
	snapshots repositories.SnapshotRepository,
	generations *services.GenerationService,
	invalidation controllers.Invalidator,
) *ReproductionController {
	return &ReproductionController{
		api:          api,
		snapshots:    snapshots,
		generations:  generations,
		invalidation: invalidation,
		log:          logger.New("ReproductionController"),
	}
}

var reproductionSpec = pipeline.Spec[ReproductionView]{
	SearchFields: func(v ReproductionView) []string {
		return []string{v.CowName}
	},
	Comparators: map[string]func(a, b ReproductionView) int{
		"cow": func(a, b ReproductionView) int { return pipeline.CompareStrings(a.CowName, b.CowName) },
		"insemination_date": func(a, b ReproductionView) int {
			return pipeline.CompareDates(a.InseminationDate, b.InseminationDate)
		},
		"calving_date": func(a, b ReproductionView) int {
			return pipeline.CompareDates(a.CalvingDate, b.CalvingDate)
		},
	},
}

func (rc *ReproductionController) List(ctx context.Context, session Session, query pipeline.Query) (*ReproductionListPage, error) {
	log := rc.log.Function("List")
	metrics.ObserveListRequest(Resource)

	scope := "all"
	fetchCows := rc.api.Cows
	if !session.Role.SeesAllRecords() {
		scope = fmt.Sprintf("user:%d", session.UserID)
		fetchCows = func(ctx context.Context) ([]Cow, error) {
			return rc.api.CowsByUser(ctx, session.UserID)
		}
	}

	var (
		reproLoad controllers.LoadResult[Reproduction]
		cowsLoad  controllers.LoadResult[Cow]
		reproErr  error
		cowsErr   error
	)
	farmapi.Join(
		func() error {
			reproLoad, reproErr = controllers.LoadCollection(ctx, Resource, "all", rc.generations, rc.api.Reproductions, rc.snapshots, log)
			return reproErr
		},
		func() error {
			cowsLoad, cowsErr = controllers.LoadCollection(ctx, cowController.Resource, scope, rc.generations, fetchCows, rc.snapshots, log)
			return cowsErr
		},
	)
	if reproErr != nil {
		return nil, log.Err("failed to load reproduction records", reproErr)
	}
	if cowsErr != nil {
		return nil, log.Err("failed to load cows for reproduction records", cowsErr)
	}

	cowNames := make(map[int]string, len(cowsLoad.Items))
	for _, cow := range cowsLoad.Items {
		cowNames[cow.ID] = cow.Name
	}

	actions := actiongate.For(session.Role, actiongate.ClassArchive)
	views := make([]ReproductionView, 0, len(reproLoad.Items))
	for _, record := range reproLoad.Items {
		views = append(views, ReproductionView{
			Reproduction: record,
			CowName:      cowNames[record.Cow.ID],
			Actions:      actions,
		})
	}

	managed := NewCowSet(cowsLoad.Items)
	visible := pipeline.Visible(views, session.Role, managed, func(v ReproductionView) (int, bool) {
		if !v.Cow.Valid() {
			return 0, false
		}
		return v.Cow.ID, true
	})

	query.PageSize = pageSize
	page := &ReproductionListPage{
		Result:    pipeline.Apply(visible, query, reproductionSpec),
		CanCreate: actions.CanCreate,
		Stale:     reproLoad.Stale || cowsLoad.Stale,
	}
	if reproLoad.Stale {
		page.Notices = append(page.Notices, notify.Warning("showing the last saved reproduction records; refresh failed"))
	}

	return page, nil
}

func (rc *ReproductionController) Create(ctx context.Context, session Session, request ReproductionRequest) (Reproduction, error) {
	log := rc.log.Function("Create")

	if !actiongate.For(session.Role, actiongate.ClassArchive).CanCreate {
		return Reproduction{}, controllers.Blocked(actiongate.ReasonRoleReadOnly)
	}
	if request.CowID <= 0 {
		return Reproduction{}, controllers.Invalid("a cow is required")
	}
	if err := controllers.ValidateReproduction(request); err != nil {
		return Reproduction{}, err
	}

	record, err := rc.api.CreateReproduction(ctx, request)
	if err != nil {
		return Reproduction{}, log.Err("failed to create reproduction record", err)
	}

	rc.afterMutation(ctx, session, "Reproduction record added successfully")
	return record, nil
}

func (rc *ReproductionController) Update(ctx context.Context, session Session, id int, request ReproductionRequest) (Reproduction, error) {
	log := rc.log.Function("Update")

	if !actiongate.For(session.Role, actiongate.ClassArchive).CanEdit {
		return Reproduction{}, controllers.Blocked(actiongate.ReasonRoleReadOnly)
	}
	if err := controllers.ValidateReproduction(request); err != nil {
		return Reproduction{}, err
	}

	record, err := rc.api.UpdateReproduction(ctx, id, request)
	if err != nil {
		return Reproduction{}, log.Err("failed to update reproduction record", err, "id", id)
	}

	rc.afterMutation(ctx, session, "Reproduction record updated successfully")
	return record, nil
}

// Delete always refuses; reproduction records are part of the medical
// archive.
func (rc *ReproductionController) Delete(Session) error {
	return controllers.Blocked(actiongate.ReasonArchiveDelete)
}

func (rc *ReproductionController) afterMutation(ctx context.Context, session Session, message string) {
	log := rc.log.Function("afterMutation")

	if err := rc.invalidation.InvalidateCollection(ctx, Resource); err != nil {
		log.Warn("failed to invalidate reproduction collection", "error", err)
	}
	rc.invalidation.PushNotice(session.UserID, notify.Success(message))
}
