package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/jielong/internal/actionlog"
	"github.com/smallbiznis/jielong/internal/backup"
	catalogdomain "github.com/smallbiznis/jielong/internal/catalog/domain"
	catalogservice "github.com/smallbiznis/jielong/internal/catalog/service"
	"github.com/smallbiznis/jielong/internal/clock"
	"github.com/smallbiznis/jielong/internal/config"
	directorydomain "github.com/smallbiznis/jielong/internal/directory/domain"
	directoryservice "github.com/smallbiznis/jielong/internal/directory/service"
	ledgerdomain "github.com/smallbiznis/jielong/internal/ledger/domain"
	ledgerservice "github.com/smallbiznis/jielong/internal/ledger/service"
	"github.com/smallbiznis/jielong/internal/reconcile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memProductRepo struct{ products []catalogdomain.Product }

func (r *memProductRepo) Load(ctx context.Context) ([]catalogdomain.Product, error) {
	return r.products, nil
}
func (r *memProductRepo) Save(ctx context.Context, p []catalogdomain.Product) error {
	r.products = p
	return nil
}

type memCustomerRepo struct{ customers []directorydomain.Customer }

func (r *memCustomerRepo) Load(ctx context.Context) ([]directorydomain.Customer, error) {
	return r.customers, nil
}
func (r *memCustomerRepo) Save(ctx context.Context, c []directorydomain.Customer) error {
	r.customers = c
	return nil
}

type memOrderRepo struct{ orders []ledgerdomain.Order }

func (r *memOrderRepo) Load(ctx context.Context) ([]ledgerdomain.Order, error) {
	return r.orders, nil
}
func (r *memOrderRepo) Save(ctx context.Context, o []ledgerdomain.Order) error {
	r.orders = o
	return nil
}

func newTestServer(t *testing.T) (*Server, *gin.Engine) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	logger := zap.NewNop()
	cfg := config.Config{AppVersion: "2.5.1", HTTPAddr: ":0"}
	clk := clock.NewFakeClock(time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC))
	recorder := actionlog.NewRecorder(actionlog.Params{Log: logger, Clock: clk})

	catalogSvc, err := catalogservice.New(catalogservice.Params{Log: logger, GenID: node, Repo: &memProductRepo{}})
	require.NoError(t, err)
	directorySvc, err := directoryservice.New(directoryservice.Params{Log: logger, GenID: node, Repo: &memCustomerRepo{}})
	require.NoError(t, err)
	ledgerSvc, err := ledgerservice.New(ledgerservice.Params{Log: logger, Repo: &memOrderRepo{}, Recorder: recorder})
	require.NoError(t, err)

	reconciler := reconcile.New(reconcile.Params{
		Log: logger, GenID: node, Clock: clk,
		Catalog: catalogSvc, Directory: directorySvc, Ledger: ledgerSvc, Recorder: recorder,
	})
	backupSvc := backup.New(backup.Params{
		Log: logger, Cfg: cfg, Clock: clk,
		Catalog: catalogSvc, Directory: directorySvc, Ledger: ledgerSvc, Recorder: recorder,
	})

	engine := gin.New()
	engine.Use(ErrorHandlingMiddleware())

	srv := NewServer(ServerParams{
		Gin: engine, Cfg: cfg, Log: logger,
		CatalogSvc: catalogSvc, DirectorySvc: directorySvc, LedgerSvc: ledgerSvc,
		Reconciler: reconciler, BackupSvc: backupSvc, Recorder: recorder,
	})
	srv.RegisterAPIRoutes()
	return srv, engine
}

func doJSON(engine *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestReconcileEndpoint(t *testing.T) {
	_, engine := newTestServer(t)

	w := doJSON(engine, http.MethodPost, "/api/v1/products",
		`{"name":"奶茶","price":10,"specs":[{"name":"大杯","price":14}]}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(engine, http.MethodPost, "/api/v1/orders/reconcile",
		`{"wechatNickname":"小明","items":[{"productName":"奶茶","specName":"大杯","quantity":2}]}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Data ledgerdomain.Order `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 28.0, resp.Data.TotalAmount)
	assert.Equal(t, ledgerdomain.StatusPendingPayment, resp.Data.Status)
	require.Len(t, resp.Data.Items, 1)
	assert.Equal(t, 14.0, resp.Data.Items[0].PriceAtTime)
}

func TestAdvanceEndpoint_BackwardIsNoOp(t *testing.T) {
	_, engine := newTestServer(t)

	w := doJSON(engine, http.MethodPost, "/api/v1/orders/reconcile",
		`{"wechatNickname":"小明","items":[{"productName":"随便","quantity":1}]}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var created struct {
		Data ledgerdomain.Order `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = doJSON(engine, http.MethodPost, "/api/v1/orders/"+created.Data.ID+"/advance", `{"status":"PAID"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(engine, http.MethodPost, "/api/v1/orders/"+created.Data.ID+"/advance", `{"status":"PENDING_PAYMENT"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var after struct {
		Data ledgerdomain.Order `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &after))
	assert.Equal(t, ledgerdomain.StatusPaid, after.Data.Status)
}

func TestImportEndpoint_RequiresConfirmation(t *testing.T) {
	_, engine := newTestServer(t)

	w := doJSON(engine, http.MethodPost, "/api/v1/backup/import",
		`{"products":[],"customers":[],"orders":[]}`)
	assert.Equal(t, http.StatusPreconditionRequired, w.Code)

	w = doJSON(engine, http.MethodPost, "/api/v1/backup/import?confirm=true",
		`{"products":[],"customers":[],"orders":[]}`)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestImportEndpoint_RejectsInvalidDocument(t *testing.T) {
	_, engine := newTestServer(t)

	for _, body := range []string{`[1,2,3]`, `null`, `"str"`} {
		w := doJSON(engine, http.MethodPost, "/api/v1/backup/import?confirm=true", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, "body %q", body)
	}
}

func TestImportEndpoint_RejectsOversizedBody(t *testing.T) {
	_, engine := newTestServer(t)

	body := `{"products":[` + strings.Repeat(" ", maxImportBytes) + `]}`
	w := doJSON(engine, http.MethodPost, "/api/v1/backup/import?confirm=true", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExportEndpoint_Filename(t *testing.T) {
	_, engine := newTestServer(t)

	w := doJSON(engine, http.MethodGet, "/api/v1/backup/export", "")
	require.Equal(t, http.StatusOK, w.Code)
	disposition := w.Header().Get("Content-Disposition")
	assert.Contains(t, disposition, "2024-06-01.json")

	var doc backup.Document
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	assert.Equal(t, "2.5.1", doc.Version)
}

func TestUnknownOrderIs404(t *testing.T) {
	_, engine := newTestServer(t)

	w := doJSON(engine, http.MethodGet, "/api/v1/orders/nope", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
