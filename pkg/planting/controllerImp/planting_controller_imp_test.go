package controllerImp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gardencare/database"
	"gardencare/entities"
	catalogRepoImp "gardencare/pkg/catalog/repositoryImp"
	gardenRepoImp "gardencare/pkg/garden/repositoryImp"
	genSvc "gardencare/pkg/generator/service"
	plantingRepoImp "gardencare/pkg/planting/repositoryImp"
)

type brokenGenerator struct{ genSvc.GeneratorService }

func (brokenGenerator) OnPlantingCreated(context.Context, uint) (genSvc.Outcome, error) {
	return genSvc.Outcome{}, errors.New("database is locked")
}

func setup(t *testing.T) (*PlantingCtrl, entities.Garden, uint) {
	t.Helper()
	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "pc.db"))
	require.NoError(t, err)
	ctx := context.Background()
	g := entities.Garden{Name: "Bed"}
	require.NoError(t, gardenRepoImp.New(db).Create(ctx, &g))
	vr := catalogRepoImp.New(db)
	require.NoError(t, vr.Upsert(ctx, []entities.PlantVarietyProfile{{Name: "Roma", Species: "tomato", DaysToHarvest: 80, WaterRequirement: entities.WaterMedium}}))
	vs, err := vr.List(ctx)
	require.NoError(t, err)
	return New(plantingRepoImp.New(db), gardenRepoImp.New(db), vr, brokenGenerator{}, nil), g, vs[0].VarietyID
}

func post(h echo.HandlerFunc, gardenID uint, body string) *httptest.ResponseRecorder {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprint(gardenID))
	_ = h(c)
	return rec
}

func TestCreateKeepsPlantingWhenGenerationFails(t *testing.T) {
	ctrl, g, vid := setup(t)
	rec := post(ctrl.Create, g.GardenID, fmt.Sprintf(`{"variety_id":%d,"planting_date":"2026-03-01","plant_count":3}`, vid))
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp createResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotZero(t, resp.Planting.PlantingID)
	assert.Equal(t, entities.HealthHealthy, resp.Planting.HealthStatus)
	assert.Empty(t, resp.TaskIDs)
	assert.Equal(t, "database is locked", resp.TaskGenerationError)
}

func TestCreateValidates(t *testing.T) {
	ctrl, g, vid := setup(t)
	cases := map[string]struct {
		garden uint
		body   string
		want   int
	}{
		"bad date":        {g.GardenID, fmt.Sprintf(`{"variety_id":%d,"planting_date":"March","plant_count":1}`, vid), http.StatusBadRequest},
		"negative count":  {g.GardenID, fmt.Sprintf(`{"variety_id":%d,"planting_date":"2026-03-01","plant_count":-4}`, vid), http.StatusBadRequest},
		"unknown variety": {g.GardenID, `{"variety_id":999,"planting_date":"2026-03-01","plant_count":1}`, http.StatusBadRequest},
		"unknown health":  {g.GardenID, fmt.Sprintf(`{"variety_id":%d,"planting_date":"2026-03-01","health_status":"wilted"}`, vid), http.StatusBadRequest},
		"unknown garden":  {404, fmt.Sprintf(`{"variety_id":%d,"planting_date":"2026-03-01","plant_count":1}`, vid), http.StatusNotFound},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, post(ctrl.Create, tc.garden, tc.body).Code)
		})
	}
}
