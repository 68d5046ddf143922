package acl

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/jsamuelsen/user-sync-service/internal/domain"
)

// goRESTUser is the user object of the GoREST v2 API.
type goRESTUser struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Gender string `json:"gender"`
	Status string `json:"status"`
}

// translateUser maps the remote shape onto a domain user. Gender and status
// are copied as-is; the application layer decides whether they are valid.
// A user without a positive id is a broken reply from service.
func translateUser(ext *goRESTUser, service string) (*domain.User, error) {
	if ext.ID <= 0 {
		return nil, domain.NewUnavailableError(service, fmt.Sprintf("remote user has no valid id (got %d)", ext.ID))
	}

	return &domain.User{
		ID:     ext.ID,
		Name:   ext.Name,
		Email:  ext.Email,
		Gender: domain.Gender(ext.Gender),
		Status: domain.Status(ext.Status),
	}, nil
}

// translateUsers keeps page order and stops at the first bad entry.
func translateUsers(page []goRESTUser, service string) ([]*domain.User, error) {
	out := make([]*domain.User, 0, len(page))

	for i := range page {
		u, err := translateUser(&page[i], service)
		if err != nil {
			return nil, fmt.Errorf("remote user at index %d: %w", i, err)
		}

		out = append(out, u)
	}

	return out, nil
}

// decodeBody reads and closes a JSON body. found is false when GoREST sent
// an empty body or a literal null. Read and decode failures are the remote's
// fault and come back as an UnavailableError for service.
func decodeBody[T any](body io.ReadCloser, service string) (v T, found bool, err error) {
	if body == nil {
		return v, false, nil
	}
	defer func() { _ = body.Close() }()

	raw, err := io.ReadAll(body)
	if err != nil {
		return v, false, domain.NewUnavailableError(service, "reading response: "+err.Error())
	}

	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return v, false, nil
	}

	if err := json.Unmarshal(raw, &v); err != nil {
		return v, false, domain.NewUnavailableError(service, "decoding response: "+err.Error())
	}

	return v, true, nil
}
