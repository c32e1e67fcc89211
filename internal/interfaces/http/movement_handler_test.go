package http_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Movimientos-api/internal/application/movement"
	"github.com/jhoicas/Movimientos-api/internal/domain/entity"
	"github.com/jhoicas/Movimientos-api/internal/domain/workflow"
	"github.com/jhoicas/Movimientos-api/internal/infrastructure/notify"
	"github.com/jhoicas/Movimientos-api/internal/infrastructure/postgres"
	apphttp "github.com/jhoicas/Movimientos-api/internal/interfaces/http"
	"github.com/jhoicas/Movimientos-api/pkg/logger"
)

const otherCompanyID = "99999999-9999-9999-9999-999999999999"

// fakeMovementRepo repositorio de movimientos en memoria con la misma
// semántica de pertenencia que el repositorio postgres: las operaciones bulk
// solo tocan filas de la empresa indicada.
type fakeMovementRepo struct {
	items map[string]*entity.StockMovement
}

func newFakeMovementRepo(seed ...*entity.StockMovement) *fakeMovementRepo {
	f := &fakeMovementRepo{items: make(map[string]*entity.StockMovement)}
	for _, m := range seed {
		cp := *m
		f.items[m.ID] = &cp
	}
	return f
}

func (f *fakeMovementRepo) Create(m *entity.StockMovement) error {
	cp := *m
	f.items[m.ID] = &cp
	return nil
}

func (f *fakeMovementRepo) GetByID(id string) (*entity.StockMovement, error) {
	m, ok := f.items[id]
	if !ok {
		return nil, nil
	}
	cp := *m
	return &cp, nil
}

func (f *fakeMovementRepo) Update(m *entity.StockMovement) error {
	cp := *m
	f.items[m.ID] = &cp
	return nil
}

func (f *fakeMovementRepo) UpdateStatus(id string, status workflow.Status, rejectionReason string) (*entity.StockMovement, error) {
	m, ok := f.items[id]
	if !ok {
		return nil, nil
	}
	m.Status = status
	if rejectionReason != "" {
		m.RejectionReason = rejectionReason
	}
	cp := *m
	return &cp, nil
}

func (f *fakeMovementRepo) ListByCompany(companyID, kind string, status workflow.Status, limit, offset int) ([]*entity.StockMovement, int, error) {
	var out []*entity.StockMovement
	for _, m := range f.items {
		if m.CompanyID == companyID {
			cp := *m
			out = append(out, &cp)
		}
	}
	return out, len(out), nil
}

func (f *fakeMovementRepo) Delete(id string) error {
	delete(f.items, id)
	return nil
}

func (f *fakeMovementRepo) BulkUpdateStatus(companyID string, ids []string, status workflow.Status) error {
	for _, id := range ids {
		if m, ok := f.items[id]; ok && m.CompanyID == companyID {
			m.Status = status
		}
	}
	return nil
}

func (f *fakeMovementRepo) BulkDelete(companyID string, ids []string) error {
	for _, id := range ids {
		if m, ok := f.items[id]; ok && m.CompanyID == companyID {
			delete(f.items, id)
		}
	}
	return nil
}

// movementApp monta los endpoints bulk con el motor completo detrás: caché,
// coordinador y adaptador autoritativo sobre el repositorio en memoria.
func movementApp(repo *fakeMovementRepo) *fiber.App {
	log := logger.New(logger.Config{Env: "production", Level: "error"})
	remote := postgres.NewRemoteActions(repo, log)
	notifier := notify.NewLogNotifier(log)
	cache := movement.NewCache()
	ctl := movement.NewController(cache, remote, remote, notifier, log)
	flow := movement.NewCancellationFlow(cache, ctl)
	co := movement.NewCoordinator(cache, remote, remote, notifier, movement.PartialFailureReport, log)
	submit := movement.NewSubmitUseCase(nil, nil, remote, cache)
	h := apphttp.NewMovementHandler(submit, ctl, flow, co, cache, repo)

	app := fiber.New()
	grp := app.Group("/movements", apphttp.AuthMiddleware(testJWTSecret))
	grp.Post("/bulk/status", h.BulkStatus)
	grp.Post("/bulk/delete", h.BulkDelete)
	return app
}

func postJSON(t *testing.T, app *fiber.App, path string, payload any, authHeader string) *http.Response {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", authHeader)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func seededMovement(id, companyID string) *entity.StockMovement {
	return &entity.StockMovement{
		ID:        id,
		CompanyID: companyID,
		Kind:      entity.MovementKindAdjustment,
		Status:    workflow.StatusPending,
		ProductID: "33333333-3333-3333-3333-333333333333",
		StoreID:   "44444444-4444-4444-4444-444444444444",
	}
}

func TestBulkStatus_IdDeOtraEmpresaRechazado(t *testing.T) {
	foreignID := "aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa"
	repo := newFakeMovementRepo(seededMovement(foreignID, otherCompanyID))
	app := movementApp(repo)

	resp := postJSON(t, app, "/movements/bulk/status",
		fiber.Map{"ids": []string{foreignID}, "status": "cancelled"},
		tokenForRole(t, entity.RoleAdmin))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode,
		"un id ajeno corta la operación entera")

	m, err := repo.GetByID(foreignID)
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, workflow.StatusPending, m.Status,
		"el movimiento de la otra empresa queda intacto")
}

func TestBulkDelete_IdDeOtraEmpresaRechazado(t *testing.T) {
	foreignID := "bbbbbbbb-bbbb-bbbb-bbbb-bbbbbbbbbbbb"
	ownID := "cccccccc-cccc-cccc-cccc-cccccccccccc"
	repo := newFakeMovementRepo(
		seededMovement(foreignID, otherCompanyID),
		seededMovement(ownID, testCompanyID),
	)
	app := movementApp(repo)

	resp := postJSON(t, app, "/movements/bulk/delete",
		fiber.Map{"ids": []string{ownID, foreignID}},
		tokenForRole(t, entity.RoleAdmin))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	foreign, _ := repo.GetByID(foreignID)
	assert.NotNil(t, foreign, "el movimiento ajeno sigue existiendo")
	own, _ := repo.GetByID(ownID)
	assert.NotNil(t, own, "con un id ajeno en la lista no se borra nada")
}

func TestBulkStatus_SeleccionPropiaAplicada(t *testing.T) {
	id1 := "dddddddd-dddd-dddd-dddd-dddddddddddd"
	id2 := "eeeeeeee-eeee-eeee-eeee-eeeeeeeeeeee"
	repo := newFakeMovementRepo(
		seededMovement(id1, testCompanyID),
		seededMovement(id2, testCompanyID),
	)
	app := movementApp(repo)

	resp := postJSON(t, app, "/movements/bulk/status",
		fiber.Map{"ids": []string{id1, id2}, "status": "approved"},
		tokenForRole(t, entity.RoleAdmin))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusAccepted, resp.StatusCode)
	for _, id := range []string{id1, id2} {
		m, _ := repo.GetByID(id)
		require.NotNil(t, m)
		assert.Equal(t, workflow.StatusApproved, m.Status)
	}
}
