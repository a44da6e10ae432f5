package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"storefront/internal/model"
)

// CreateVisitor opens a visitor session.
func (c *Client) CreateVisitor(ctx context.Context, req model.CreateVisitorRequest) (*model.Visitor, error) {
	return payload[model.Visitor](ctx, c, request{
		method: http.MethodPost,
		path:   "/api/visitors",
		body:   req,
	})
}

// UpdateVisitor appends page visits to the session of visitorID.
func (c *Client) UpdateVisitor(ctx context.Context, visitorID string, req model.UpdateVisitorRequest) (*model.Visitor, error) {
	return payload[model.Visitor](ctx, c, request{
		method: http.MethodPatch,
		path:   "/api/visitors/" + visitorID,
		body:   req,
	})
}

// GetVisitor returns the latest session of visitorID.
func (c *Client) GetVisitor(ctx context.Context, visitorID string) (*model.Visitor, error) {
	return payload[model.Visitor](ctx, c, request{
		method: http.MethodGet,
		path:   "/api/visitors/" + visitorID,
	})
}

// ListVisitors returns a page of visitor sessions. Requires an admin token.
func (c *Client) ListVisitors(ctx context.Context, q model.VisitorsQuery) (*model.VisitorsPage, error) {
	params := url.Values{}
	if q.PerPage > 0 {
		params.Set("per_page", strconv.Itoa(q.PerPage))
	}
	if q.Page > 0 {
		params.Set("page", strconv.Itoa(q.Page))
	}
	if q.GteDate != "" {
		params.Set("gte_date", q.GteDate)
	}
	if q.LteDate != "" {
		params.Set("lte_date", q.LteDate)
	}

	env, err := call[[]model.Visitor](ctx, c, request{
		method: http.MethodGet,
		path:   "/api/visitors",
		query:  params,
	})
	if err != nil {
		return nil, err
	}
	return &model.VisitorsPage{Visitors: env.Data, Meta: env.Meta}, nil
}

// VisitorAnalytics returns the aggregated visitor report.
func (c *Client) VisitorAnalytics(ctx context.Context) (*model.VisitorAnalytics, error) {
	return payload[model.VisitorAnalytics](ctx, c, request{
		method: http.MethodGet,
		path:   "/api/visitors/analytics",
	})
}
