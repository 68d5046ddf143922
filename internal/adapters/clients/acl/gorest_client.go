package acl

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/jsamuelsen/user-sync-service/internal/adapters/clients"
	"github.com/jsamuelsen/user-sync-service/internal/domain"
	"github.com/jsamuelsen/user-sync-service/internal/platform/logging"
	"github.com/jsamuelsen/user-sync-service/internal/ports"
)

// HeaderPaginationPages carries the total page count of a GoREST list response.
const HeaderPaginationPages = "X-Pagination-Pages"

// defaultPerPage matches GoREST's own default page size.
const defaultPerPage = 10

// Compile-time interface checks.
var (
	_ ports.UserSource    = (*GoRESTClient)(nil)
	_ ports.HealthChecker = (*GoRESTClient)(nil)
)

// GoRESTClientConfig contains configuration for the GoREST client.
type GoRESTClientConfig struct {
	// Client is the instrumented HTTP client whose BaseURL points at the
	// GoREST v2 API (e.g. https://gorest.co.in/public/v2).
	Client *clients.Client

	// ServiceName names the dependency in errors and health reports.
	ServiceName string

	// PerPage is the page size requested when listing users.
	PerPage int

	// Logger is the structured logger.
	Logger *slog.Logger
}

// GoRESTClient fetches users from the GoREST public API.
type GoRESTClient struct {
	client  *clients.Client
	name    string
	perPage int
	logger  *slog.Logger
}

// NewGoRESTClient creates a GoREST adapter.
// Panics if Client is nil.
func NewGoRESTClient(cfg GoRESTClientConfig) *GoRESTClient {
	if cfg.Client == nil {
		panic("GoRESTClient: Client is required")
	}

	name := cfg.ServiceName
	if name == "" {
		name = "gorest"
	}

	perPage := cfg.PerPage
	if perPage <= 0 {
		perPage = defaultPerPage
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &GoRESTClient{
		client:  cfg.Client,
		name:    name,
		perPage: perPage,
		logger:  logger,
	}
}

// FetchUser retrieves a single remote user.
// A 404, a null body or an object without an id is reported as
// domain.ErrNotFound.
func (c *GoRESTClient) FetchUser(ctx context.Context, id int64) (*domain.User, error) {
	idStr := strconv.FormatInt(id, 10)
	c.logger.Log(ctx, logging.LevelTrace, "fetching remote user", slog.Int64("user_id", id))

	resp, err := c.get(ctx, "/users/"+idStr, nil, Operation{
		Name:     "fetch user",
		Entity:   "user",
		EntityID: idStr,
	})
	if err != nil {
		if domain.IsNotFound(err) {
			return nil, domain.UserNotFound(id)
		}

		return nil, err
	}

	ext, found, err := decodeBody[goRESTUser](resp.Body, c.name)
	if err != nil {
		return nil, err
	}

	if !found || ext.ID == 0 {
		return nil, domain.NewNotFoundErrorWithReason("user", idStr, "User data was null")
	}

	return translateUser(&ext, c.name)
}

// FetchAllUsers walks every page of the remote user list in order.
// The page count comes from the first response; a failure on any page
// aborts the whole fetch.
func (c *GoRESTClient) FetchAllUsers(ctx context.Context) ([]*domain.User, error) {
	users, pages, err := c.fetchPage(ctx, 1)
	if err != nil {
		return nil, fmt.Errorf("fetching page 1: %w", err)
	}

	for page := 2; page <= pages; page++ {
		pageUsers, _, err := c.fetchPage(ctx, page)
		if err != nil {
			return nil, fmt.Errorf("fetching page %d of %d: %w", page, pages, err)
		}

		users = append(users, pageUsers...)
	}

	c.logger.DebugContext(ctx, "fetched remote users",
		slog.Int("pages", pages),
		slog.Int("count", len(users)),
	)

	return users, nil
}

// fetchPage returns the users on one page and the total page count.
func (c *GoRESTClient) fetchPage(ctx context.Context, page int) ([]*domain.User, int, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("per_page", strconv.Itoa(c.perPage))

	c.logger.Log(ctx, logging.LevelTrace, "fetching remote page", slog.Int("page", page))

	resp, err := c.get(ctx, "/users", query, Operation{
		Name:   fmt.Sprintf("fetch users page %d", page),
		Entity: "users",
	})
	if err != nil {
		return nil, 0, err
	}

	pages, err := parsePageCount(resp.Header.Get(HeaderPaginationPages))
	if err != nil {
		_ = resp.Body.Close()
		return nil, 0, domain.NewUnavailableError(c.name, err.Error())
	}

	list, _, err := decodeBody[[]goRESTUser](resp.Body, c.name)
	if err != nil {
		return nil, 0, err
	}

	users, err := translateUsers(list, c.name)
	if err != nil {
		return nil, 0, err
	}

	return users, pages, nil
}

// parsePageCount reads the pagination header. A missing header means the
// response is the only page.
func parsePageCount(header string) (int, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return 1, nil
	}

	pages, err := strconv.Atoi(header)
	if err != nil || pages < 0 {
		return 0, fmt.Errorf("invalid %s header %q", HeaderPaginationPages, header)
	}

	return pages, nil
}

// Name is the dependency name used in errors and readiness output.
func (c *GoRESTClient) Name() string {
	return c.name
}

// Check requests a one-item page to verify the API is reachable. A failure
// reported while the breaker is not closed names the breaker position.
func (c *GoRESTClient) Check(ctx context.Context) error {
	query := url.Values{}
	query.Set("page", "1")
	query.Set("per_page", "1")

	resp, err := c.get(ctx, "/users", query, Operation{Name: "health check", Entity: "users"})
	if err != nil {
		if state := c.client.CircuitState(); state != clients.StateClosed {
			return fmt.Errorf("%w (circuit %s)", err, state)
		}

		return err
	}

	return resp.Body.Close()
}

// get performs a GET and hands back the response only on a 2xx status; the
// caller then owns the body. Transport failures and other statuses are
// mapped to domain errors.
func (c *GoRESTClient) get(ctx context.Context, path string, query url.Values, op Operation) (*http.Response, error) {
	op.Service = c.name

	resp, err := c.client.Get(ctx, path, query)
	if err != nil {
		return nil, MapHTTPError(nil, err, op)
	}

	if resp.StatusCode/100 != 2 {
		defer func() { _ = resp.Body.Close() }()
		return nil, MapHTTPError(resp, nil, op)
	}

	return resp, nil
}
