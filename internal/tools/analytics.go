package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/blashnikovpro/page4u-mcp/internal/page4u"
)

func (r *Registry) handleGetAnalytics(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.Params.Arguments
	if err := assertNoUnknownArguments(args, map[string]struct{}{
		"slug": {}, "from": {}, "to": {},
	}); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	slug, err := parseRequiredString(args, "slug")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	query := url.Values{}
	for _, key := range []string{"from", "to"} {
		value, err := parseOptionalString(args, key)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if value == "" {
			continue
		}
		if _, err := time.Parse("2006-01-02", value); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("%s must be a date in YYYY-MM-DD format", key)), nil
		}
		query.Set(key, value)
	}

	path := "/pages/" + url.PathEscape(slug) + "/analytics"
	if len(query) > 0 {
		path += "?" + query.Encode()
	}
	res, err := r.client.Do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var snapshot page4u.AnalyticsSnapshot
	if err := json.Unmarshal(res.Data, &snapshot); err != nil {
		return mcp.NewToolResultError("unexpected analytics payload: " + err.Error()), nil
	}
	return mcp.NewToolResultText(renderAnalytics(slug, snapshot)), nil
}
