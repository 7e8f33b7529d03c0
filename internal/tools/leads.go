package tools

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/blashnikovpro/page4u-mcp/internal/page4u"
)

func (r *Registry) handleGetLeads(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.Params.Arguments
	if err := assertNoUnknownArguments(args, map[string]struct{}{
		"slug": {}, "status": {}, "limit": {},
	}); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	slug, err := parseRequiredString(args, "slug")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	status, err := parseOptionalString(args, "status")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	query := url.Values{}
	if status != "" {
		query.Set("status", status)
	}
	if raw, ok := args["limit"]; ok {
		limit, parseErr := parseInteger(raw, "limit")
		if parseErr != nil {
			return mcp.NewToolResultError(parseErr.Error()), nil
		}
		if limit < 1 || limit > 500 {
			return mcp.NewToolResultError("limit must be between 1 and 500"), nil
		}
		query.Set("limit", strconv.Itoa(limit))
	}

	path := "/pages/" + url.PathEscape(slug) + "/leads"
	if len(query) > 0 {
		path += "?" + query.Encode()
	}
	res, err := r.client.Do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var leads []page4u.Lead
	if err := json.Unmarshal(res.Data, &leads); err != nil {
		return mcp.NewToolResultError("unexpected leads payload: " + err.Error()), nil
	}
	return mcp.NewToolResultText(renderLeads(slug, leads, res.Total)), nil
}
