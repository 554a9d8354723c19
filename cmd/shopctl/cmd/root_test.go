package cmd

import (
	"bytes"
	"context"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/terraconstructs/shopctl/internal/apitest"
)

type harness struct {
	t    *testing.T
	api  *apitest.Server
	base []string
}

type runResult struct {
	code   int
	stdout string
	stderr string
}

func newHarness(t *testing.T, opts ...apitest.Option) *harness {
	t.Helper()
	pterm.DisableStyling()
	dir := t.TempDir()
	api := apitest.New(t, opts...)
	return &harness{
		t:   t,
		api: api,
		base: []string{
			"--server", api.BaseURL(),
			"--session-backend", "file",
			"--session-dir", filepath.Join(dir, "session"),
			"--workspace", filepath.Join(dir, ".shopctl.json"),
		},
	}
}

func (h *harness) run(args ...string) runResult {
	h.t.Helper()
	var stdout, stderr bytes.Buffer
	code := Run(context.Background(), append(append([]string{}, h.base...), args...), &stdout, &stderr)
	return runResult{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

func (h *harness) mustRun(args ...string) runResult {
	h.t.Helper()
	res := h.run(args...)
	require.Equal(h.t, 0, res.code, "shopctl %v failed: %s", args, res.stderr)
	return res
}

func (h *harness) last() apitest.Recorded {
	h.t.Helper()
	rec, ok := h.api.Last()
	require.True(h.t, ok, "no request reached the API")
	return rec
}

func TestRun_OrderStatusDeniedUntilVendorLogin(t *testing.T) {
	h := newHarness(t)

	res := h.run("orders", "status", "ord_1")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "Not permitted")
	assert.Empty(t, h.api.Requests(), "denied operations must not reach the API")

	h.mustRun("auth", "login", "--email", "vendor@example.com", "--password", "pw")
	status := h.mustRun("auth", "status")
	assert.Contains(t, status.stdout, "Logged in as vendor")

	h.mustRun("orders", "status", "ord_1")
	rec := h.last()
	assert.Equal(t, http.MethodPut, rec.Method)
	assert.Equal(t, "/orders/ord_1/status", rec.Path)
	assert.Equal(t, "Bearer "+apitest.TokenFor("vendor"), rec.Authorization)
	assert.Equal(t, map[string]any{"status": "processing"}, rec.Body)
	assert.NotEmpty(t, rec.RequestID)
}

func TestRun_CreatedProductBecomesCurrent(t *testing.T) {
	h := newHarness(t)
	h.mustRun("auth", "login", "--email", "admin@example.com", "--password", "pw")

	h.mustRun("products", "create", "--name", "Mug", "--price", "19.99", "--tags", "a, b ,c")
	created := h.last()
	assert.Equal(t, 19.99, created.Body["price"])
	assert.Equal(t, []any{"a", "b", "c"}, created.Body["tags"])
	assert.Nil(t, created.Body["weight"])

	h.mustRun("products", "get")
	assert.Equal(t, "/products/prod_1", h.last().Path)

	shown := h.mustRun("refs", "show")
	assert.Contains(t, shown.stdout, "prod_1")

	h.mustRun("refs", "set", "product", "prod_override")
	h.mustRun("products", "reviews")
	assert.Equal(t, "/products/prod_override/reviews", h.last().Path)
}

func TestRun_OrderDraftAndPayment(t *testing.T) {
	h := newHarness(t)
	h.mustRun("auth", "login", "--email", "customer@example.com", "--password", "pw")

	h.mustRun("orders", "items", "edit", "1", "--item-id", "prod_1", "--quantity", "2")
	h.mustRun("orders", "items", "add", "--kind", "service", "--item-id", "svc_1")
	h.mustRun("orders", "items", "remove", "2")
	shown := h.mustRun("orders", "items", "remove", "1")
	assert.Contains(t, shown.stdout, "prod_1", "the sole line is never removed")

	res := h.run("orders", "items", "add", "--kind", "gift")
	assert.Equal(t, 1, res.code)

	h.mustRun("orders", "create", "--shipping-address", "1 Main St")
	order := h.last()
	assert.Equal(t, "/orders", order.Path)
	assert.Equal(t, []any{
		map[string]any{"item_type": "product", "item_id": "prod_1", "quantity": float64(2), "variant": ""},
	}, order.Body["items"])

	draft := h.mustRun("payments", "draft")
	assert.Contains(t, draft.stdout, "ord_1")

	h.mustRun("payments", "create", "--amount", "10.50")
	payment := h.last()
	assert.Equal(t, "/payments", payment.Path)
	assert.Equal(t, "ord_1", payment.Body["order_id"])
	assert.Equal(t, 10.5, payment.Body["amount"])
	assert.Equal(t, "credit_card", payment.Body["method"])

	h.mustRun("tracking", "get")
	assert.Equal(t, "/orders/ord_1/tracking", h.last().Path)
}

func TestRun_UsersListSetsCurrentUser(t *testing.T) {
	h := newHarness(t, apitest.WithUsers(map[string]any{"id": 7, "email": "a@example.com"}, map[string]any{"id": 8}))
	h.mustRun("auth", "login", "--email", "admin@example.com", "--password", "pw")

	h.mustRun("users", "list")
	h.mustRun("users", "update")
	rec := h.last()
	assert.Equal(t, "/admin/users/7", rec.Path)
	assert.Equal(t, map[string]any{"role": "admin", "is_verified": true, "is_active": true}, rec.Body)
}

func TestRun_ServerErrorIsRendered(t *testing.T) {
	h := newHarness(t, apitest.WithFailure(http.MethodPost, "/products", http.StatusBadRequest, "price is required"))
	h.mustRun("auth", "login", "--email", "vendor@example.com", "--password", "pw")

	res := h.run("products", "create", "--name", "Mug")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "price is required (HTTP 400)")

	refsOut := h.mustRun("refs", "show")
	assert.NotContains(t, refsOut.stdout, "prod_")
}

func TestRun_TransportErrorIsRendered(t *testing.T) {
	h := newHarness(t)
	h.api.Close()

	res := h.run("health")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "Request failed")
}

func TestRun_LogoutIsIdempotent(t *testing.T) {
	h := newHarness(t)
	h.mustRun("auth", "login", "--email", "customer@example.com", "--password", "pw")
	before := len(h.api.Requests())

	h.mustRun("auth", "logout")
	h.mustRun("auth", "logout")
	assert.Len(t, h.api.Requests(), before)

	status := h.mustRun("auth", "status")
	assert.Contains(t, status.stdout, "Not logged in")
}

func TestRun_ProfileUpdatePrefills(t *testing.T) {
	h := newHarness(t)
	h.mustRun("auth", "login", "--email", "customer@example.com", "--password", "pw")

	h.mustRun("auth", "profile", "get")
	h.mustRun("auth", "profile", "update", "--city", "Paris")
	rec := h.last()
	assert.Equal(t, "Paris", rec.Body["city"])
	assert.Equal(t, "Ada", rec.Body["first_name"])
	assert.Equal(t, "", rec.Body["phone"])
}

func TestRun_OutputFormats(t *testing.T) {
	h := newHarness(t)

	res := h.mustRun("health", "-o", "json")
	assert.Equal(t, "{\"status\":\"healthy\"}\n", res.stdout)

	res = h.mustRun("search", "red shoes")
	assert.Contains(t, res.stdout, "\"query\": \"red shoes\"")
	assert.Equal(t, "red shoes", h.last().Query.Get("q"))
}

func TestRun_ListFilter(t *testing.T) {
	h := newHarness(t)
	h.mustRun("auth", "login", "--email", "admin@example.com", "--password", "pw")
	h.mustRun("products", "create", "--name", "Mug", "--price", "19.99")
	h.mustRun("products", "create", "--name", "Lamp", "--price", "45")

	res := h.mustRun("products", "list", "-o", "json", "--filter", `name == "Lamp"`)
	assert.Contains(t, res.stdout, `"name":"Lamp"`)
	assert.NotContains(t, res.stdout, "Mug")
	assert.Contains(t, res.stderr, "1 entries match")

	bad := h.run("products", "list", "--filter", "name ==")
	assert.Equal(t, 1, bad.code)
	assert.Contains(t, bad.stderr, "invalid filter")
}

func TestRun_InvalidFilterIsRejectedBeforeSending(t *testing.T) {
	h := newHarness(t, apitest.WithUsers(map[string]any{"id": "u_1", "role": "vendor"}, map[string]any{"id": "u_2", "role": "admin"}))
	h.mustRun("auth", "login", "--email", "admin@example.com", "--password", "pw")
	sent := len(h.api.Requests())

	res := h.run("users", "list", "--filter", "role ==")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "invalid filter")
	assert.Len(t, h.api.Requests(), sent, "a malformed filter must not reach the API")

	h.mustRun("users", "list", "--filter", `role == "admin"`)
	shown := h.mustRun("refs", "show")
	assert.Contains(t, shown.stdout, "u_1", "the first user of the unfiltered listing stays current")
}

func TestRun_FilterOnSingleObjectKeepsEffects(t *testing.T) {
	h := newHarness(t)
	h.mustRun("auth", "login", "--email", "customer@example.com", "--password", "pw")

	res := h.mustRun("auth", "profile", "get", "--filter", `city == "London"`)
	assert.Contains(t, res.stderr, "filter not applied")
	assert.Contains(t, res.stdout, "Lovelace")

	h.mustRun("auth", "profile", "update", "--city", "Paris")
	assert.Equal(t, "Ada", h.last().Body["first_name"])
}

func TestRun_AnalyticsSalesQuery(t *testing.T) {
	h := newHarness(t)
	h.mustRun("auth", "login", "--email", "admin@example.com", "--password", "pw")

	h.mustRun("analytics", "sales", "--days", "7")
	assert.Equal(t, "7", h.last().Query.Get("days"))
	h.mustRun("analytics", "sales")
	assert.Equal(t, "30", h.last().Query.Get("days"))
}

func TestRun_OpsListsPermissions(t *testing.T) {
	h := newHarness(t)
	res := h.mustRun("ops")
	assert.Contains(t, res.stdout, "orders.status")
	assert.Contains(t, res.stdout, "vendor|admin")
	assert.Empty(t, h.api.Requests())
}

func TestRun_InvalidConfiguration(t *testing.T) {
	h := newHarness(t)
	res := h.run("--session-backend", "sqlite", "health")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "sqlite")
	assert.Empty(t, h.api.Requests())
}
