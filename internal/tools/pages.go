package tools

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/blashnikovpro/page4u-mcp/internal/page4u"
)

// updatableFields is the closed set of page settings update_page may
// send, in rendering order.
var updatableFields = []string{
	"businessName",
	"headline",
	"description",
	"phone",
	"email",
	"whatsapp",
	"primaryColor",
	"secondaryColor",
	"googleAnalyticsId",
	"facebookPixelId",
}

func (r *Registry) handleListPages(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.Params.Arguments
	if err := assertNoUnknownArguments(args, map[string]struct{}{"status": {}}); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	status, err := parseEnum(args, "status", "draft", "published", "archived")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	path := "/pages"
	if status != "" {
		path += "?" + url.Values{"status": {status}}.Encode()
	}
	res, err := r.client.Do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var pages []page4u.Page
	if err := json.Unmarshal(res.Data, &pages); err != nil {
		return mcp.NewToolResultError("unexpected pages payload: " + err.Error()), nil
	}
	return mcp.NewToolResultText(renderPages(pages, res.Total)), nil
}

func (r *Registry) handleGetPage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.Params.Arguments
	if err := assertNoUnknownArguments(args, map[string]struct{}{"slug": {}}); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	slug, err := parseRequiredString(args, "slug")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	res, err := r.client.Do(ctx, http.MethodGet, "/pages/"+url.PathEscape(slug), nil)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(renderRawRecord(fmt.Sprintf("Page %q:", slug), res.Data)), nil
}

func (r *Registry) handleDeployPage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.Params.Arguments
	if err := assertNoUnknownArguments(args, map[string]struct{}{
		"html": {}, "assets": {}, "slug": {}, "locale": {}, "whatsapp": {},
	}); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	html, err := parseRequiredString(args, "html")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	slug, err := parseOptionalString(args, "slug")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	locale, err := parseEnum(args, "locale", "he", "en")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	whatsapp, err := parseOptionalString(args, "whatsapp")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	assets, err := parseAssets(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	fields := map[string]string{}
	if slug != "" {
		fields["slug"] = slug
	}
	if locale != "" {
		fields["locale"] = locale
	}
	if whatsapp != "" {
		fields["whatsapp"] = whatsapp
	}

	// Two payload shapes, chosen once per call: with assets the page
	// ships as a zip archive, without them the bare document goes up
	// as a single file.
	var payload page4u.FilePayload
	if len(assets) > 0 {
		archive, err := page4u.BuildArchive([]byte(html), assets)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		payload = page4u.FilePayload{Field: "file", Filename: "site.zip", Content: archive, Fields: fields}
	} else {
		payload = page4u.FilePayload{Field: "file", Filename: page4u.RootDocumentName, Content: []byte(html), Fields: fields}
	}

	res, err := r.client.Do(ctx, http.MethodPost, "/pages", payload)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var deployed page4u.DeployResult
	if err := json.Unmarshal(res.Data, &deployed); err != nil {
		return mcp.NewToolResultError("unexpected deploy payload: " + err.Error()), nil
	}
	return mcp.NewToolResultText(renderDeploy(deployed)), nil
}

// parseAssets decodes the assets argument into archive entries. Content
// arrives base64-encoded since tool arguments are JSON text.
func parseAssets(args map[string]interface{}) ([]page4u.Asset, error) {
	raw, ok := args["assets"]
	if !ok || raw == nil {
		return nil, nil
	}
	items, ok := raw.([]interface{})
	if !ok {
		return nil, fmt.Errorf("assets must be an array")
	}
	assets := make([]page4u.Asset, 0, len(items))
	for idx, item := range items {
		obj, ok := item.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("assets[%d] must be an object", idx)
		}
		path, err := parseRequiredString(obj, "path")
		if err != nil {
			return nil, fmt.Errorf("assets[%d]: %s", idx, err)
		}
		encoded, err := parseRequiredString(obj, "content")
		if err != nil {
			return nil, fmt.Errorf("assets[%d]: %s", idx, err)
		}
		content, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			return nil, fmt.Errorf("assets[%d].content is not valid base64", idx)
		}
		assets = append(assets, page4u.Asset{Path: path, Content: content})
	}
	return assets, nil
}

func (r *Registry) handleUpdatePage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.Params.Arguments
	allowed := map[string]struct{}{"slug": {}}
	for _, field := range updatableFields {
		allowed[field] = struct{}{}
	}
	if err := assertNoUnknownArguments(args, allowed); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	slug, err := parseRequiredString(args, "slug")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	// Only explicitly provided fields are sent. An explicit empty
	// string is a valid value (clear the field), distinct from
	// omission.
	updates := map[string]string{}
	for _, field := range updatableFields {
		value, provided, err := parseProvidedString(args, field)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if provided {
			updates[field] = value
		}
	}
	if len(updates) == 0 {
		return mcp.NewToolResultText("Nothing to update: no fields were provided."), nil
	}

	res, err := r.client.Do(ctx, http.MethodPatch, "/pages/"+url.PathEscape(slug), page4u.JSONPayload(updates))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var updated page4u.UpdateResult
	if err := json.Unmarshal(res.Data, &updated); err != nil {
		return mcp.NewToolResultError("unexpected update payload: " + err.Error()), nil
	}
	if updated.Slug == "" {
		updated.Slug = slug
	}
	return mcp.NewToolResultText(renderUpdate(updated, updates)), nil
}

func (r *Registry) handleDeletePage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.Params.Arguments
	if err := assertNoUnknownArguments(args, map[string]struct{}{"slug": {}}); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	slug, err := parseRequiredString(args, "slug")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if _, err := r.client.Do(ctx, http.MethodDelete, "/pages/"+url.PathEscape(slug), nil); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	// Confirmation uses the input slug; the record is gone and cannot
	// be re-fetched.
	return mcp.NewToolResultText(fmt.Sprintf("Page %q was deleted. This cannot be undone.", slug)), nil
}
