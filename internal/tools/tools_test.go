package tools

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/blashnikovpro/page4u-mcp/internal/page4u"
)

// fakeBackend wraps an httptest server and counts the requests the
// registry issues, so tests can assert the one-call-per-operation
// property (and the zero-call short-circuits).
type fakeBackend struct {
	server   *httptest.Server
	requests int
	lastReq  *http.Request
	lastBody []byte
}

func newFakeBackend(t *testing.T, respond func(w http.ResponseWriter, r *http.Request, body []byte)) (*fakeBackend, *Registry) {
	t.Helper()
	fb := &fakeBackend{}
	fb.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(bytes.NewReader(body))
		fb.requests++
		fb.lastReq = r
		fb.lastBody = body
		respond(w, r, body)
	}))
	t.Cleanup(fb.server.Close)
	client := page4u.NewClient(fb.server.URL, "test-token", "0.0.0")
	return fb, NewRegistry(client)
}

func callRequest(name string, args map[string]interface{}) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func textOf(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if res == nil || len(res.Content) == 0 {
		t.Fatal("result has no content")
	}
	text, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content[0] is %T, want TextContent", res.Content[0])
	}
	return text.Text
}

func successEnvelope(data string, total *int64) string {
	if total != nil {
		return fmt.Sprintf(`{"success":true,"data":%s,"total":%d}`, data, *total)
	}
	return `{"success":true,"data":` + data + `}`
}

func TestListPages_Empty(t *testing.T) {
	fb, reg := newFakeBackend(t, func(w http.ResponseWriter, _ *http.Request, _ []byte) {
		_, _ = w.Write([]byte(successEnvelope(`[]`, nil)))
	})

	res, err := reg.handleListPages(context.Background(), callRequest("list_pages", map[string]interface{}{}))
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	if got := textOf(t, res); got != "No pages found." {
		t.Fatalf("text = %q", got)
	}
	if fb.requests != 1 {
		t.Fatalf("expected exactly one request, got %d", fb.requests)
	}
}

func TestListPages_RendersRecordsAndStatusFilter(t *testing.T) {
	fb, reg := newFakeBackend(t, func(w http.ResponseWriter, _ *http.Request, _ []byte) {
		_, _ = w.Write([]byte(successEnvelope(
			`[{"slug":"my-bakery","businessName":"My Bakery","status":"published","createdAt":"2026-08-01"}]`, nil)))
	})

	res, err := reg.handleListPages(context.Background(), callRequest("list_pages", map[string]interface{}{
		"status": "published",
	}))
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	text := textOf(t, res)
	if !strings.HasPrefix(text, "1 page(s):") {
		t.Fatalf("text = %q", text)
	}
	if !strings.Contains(text, "my-bakery") || !strings.Contains(text, "My Bakery") {
		t.Fatalf("text = %q", text)
	}
	if got := fb.lastReq.URL.Query().Get("status"); got != "published" {
		t.Fatalf("status query = %q", got)
	}
}

func TestListPages_InvalidStatus(t *testing.T) {
	fb, reg := newFakeBackend(t, func(w http.ResponseWriter, _ *http.Request, _ []byte) {
		_, _ = w.Write([]byte(successEnvelope(`[]`, nil)))
	})

	res, err := reg.handleListPages(context.Background(), callRequest("list_pages", map[string]interface{}{
		"status": "live",
	}))
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	if !res.IsError {
		t.Fatal("expected error result")
	}
	if got := textOf(t, res); !strings.Contains(got, "status") {
		t.Fatalf("error should name the field: %q", got)
	}
	if fb.requests != 0 {
		t.Fatalf("validation failure must not reach the network, got %d request(s)", fb.requests)
	}
}

func TestGetPage_PrettyPrintsRecord(t *testing.T) {
	fb, reg := newFakeBackend(t, func(w http.ResponseWriter, _ *http.Request, _ []byte) {
		_, _ = w.Write([]byte(successEnvelope(`{"slug":"my-bakery","status":"published"}`, nil)))
	})

	res, err := reg.handleGetPage(context.Background(), callRequest("get_page", map[string]interface{}{
		"slug": "my-bakery",
	}))
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	text := textOf(t, res)
	if !strings.Contains(text, `Page "my-bakery":`) {
		t.Fatalf("text = %q", text)
	}
	if !strings.Contains(text, "\n{\n  \"slug\": \"my-bakery\"") {
		t.Fatalf("expected indented JSON, got %q", text)
	}
	if fb.lastReq.URL.Path != "/api/v1/pages/my-bakery" {
		t.Fatalf("path = %q", fb.lastReq.URL.Path)
	}
}

func TestGetPage_BackendErrorSurfacesCodeAndMessage(t *testing.T) {
	_, reg := newFakeBackend(t, func(w http.ResponseWriter, _ *http.Request, _ []byte) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"success":false,"error":{"code":"NOT_FOUND","message":"no page with that slug"}}`))
	})

	res, err := reg.handleGetPage(context.Background(), callRequest("get_page", map[string]interface{}{
		"slug": "ghost",
	}))
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	if !res.IsError {
		t.Fatal("expected error result")
	}
	text := textOf(t, res)
	if !strings.Contains(text, "NOT_FOUND") || !strings.Contains(text, "no page with that slug") {
		t.Fatalf("error text = %q", text)
	}
}

func TestDeployPage_SingleFileWithoutAssets(t *testing.T) {
	fb, reg := newFakeBackend(t, func(w http.ResponseWriter, r *http.Request, _ []byte) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		_, _ = w.Write([]byte(successEnvelope(`{"url":"https://page4u.app/p/my-bakery","slug":"my-bakery"}`, nil)))
	})

	res, err := reg.handleDeployPage(context.Background(), callRequest("deploy_page", map[string]interface{}{
		"html": "<html><body>hi</body></html>",
	}))
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	text := textOf(t, res)
	if !strings.Contains(text, "https://page4u.app/p/my-bakery") || !strings.Contains(text, "my-bakery") {
		t.Fatalf("text = %q", text)
	}

	_, filename, err := multipartFile(fb)
	if err != nil {
		t.Fatalf("form file: %v", err)
	}
	if filename != "index.html" {
		t.Fatalf("filename = %q, want single-file document", filename)
	}
}

func TestDeployPage_ArchiveWithAssets(t *testing.T) {
	fb, reg := newFakeBackend(t, func(w http.ResponseWriter, r *http.Request, _ []byte) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		_, _ = w.Write([]byte(successEnvelope(`{"url":"https://page4u.app/p/x","slug":"x","warnings":["asset css/style.css is large"]}`, nil)))
	})

	res, err := reg.handleDeployPage(context.Background(), callRequest("deploy_page", map[string]interface{}{
		"html": "<html></html>",
		"assets": []interface{}{
			map[string]interface{}{
				"path":    "css/style.css",
				"content": base64.StdEncoding.EncodeToString([]byte("body{}")),
			},
		},
		"slug":   "x",
		"locale": "he",
	}))
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	text := textOf(t, res)
	if !strings.Contains(text, "Warnings:") || !strings.Contains(text, "asset css/style.css is large") {
		t.Fatalf("warnings missing from %q", text)
	}

	content, filename, err := multipartFile(fb)
	if err != nil {
		t.Fatalf("form file: %v", err)
	}
	if filename != "site.zip" {
		t.Fatalf("filename = %q, want archive", filename)
	}
	r, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		t.Fatalf("open uploaded archive: %v", err)
	}
	var names []string
	for _, f := range r.File {
		names = append(names, f.Name)
	}
	sort.Strings(names)
	if strings.Join(names, ",") != "css/style.css,index.html" {
		t.Fatalf("archive entries = %v", names)
	}
	if got := fb.lastReq.FormValue("locale"); got != "he" {
		t.Fatalf("locale field = %q", got)
	}
}

func TestDeployPage_MissingHTML(t *testing.T) {
	fb, reg := newFakeBackend(t, func(w http.ResponseWriter, _ *http.Request, _ []byte) {
		_, _ = w.Write([]byte(successEnvelope(`{}`, nil)))
	})

	res, err := reg.handleDeployPage(context.Background(), callRequest("deploy_page", map[string]interface{}{}))
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	if !res.IsError || !strings.Contains(textOf(t, res), "html") {
		t.Fatalf("expected validation error naming html, got %q", textOf(t, res))
	}
	if fb.requests != 0 {
		t.Fatalf("expected no request, got %d", fb.requests)
	}
}

func TestUpdatePage_NothingToUpdate(t *testing.T) {
	fb, reg := newFakeBackend(t, func(w http.ResponseWriter, _ *http.Request, _ []byte) {
		_, _ = w.Write([]byte(successEnvelope(`{}`, nil)))
	})

	res, err := reg.handleUpdatePage(context.Background(), callRequest("update_page", map[string]interface{}{
		"slug": "my-bakery",
	}))
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	if got := textOf(t, res); got != "Nothing to update: no fields were provided." {
		t.Fatalf("text = %q", got)
	}
	if fb.requests != 0 {
		t.Fatalf("expected no network call, got %d", fb.requests)
	}
}

func TestUpdatePage_SendsOnlyProvidedFields(t *testing.T) {
	fb, reg := newFakeBackend(t, func(w http.ResponseWriter, _ *http.Request, _ []byte) {
		_, _ = w.Write([]byte(successEnvelope(`{"slug":"my-bakery","updated":["headline","phone"]}`, nil)))
	})

	// phone is an explicit empty string: a valid value, distinct from
	// omission, and must be sent.
	res, err := reg.handleUpdatePage(context.Background(), callRequest("update_page", map[string]interface{}{
		"slug":     "my-bakery",
		"headline": "Fresh bread daily",
		"phone":    "",
	}))
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	if fb.requests != 1 {
		t.Fatalf("expected one request, got %d", fb.requests)
	}
	if fb.lastReq.Method != http.MethodPatch {
		t.Fatalf("method = %q", fb.lastReq.Method)
	}

	var sent map[string]string
	if err := json.Unmarshal(fb.lastBody, &sent); err != nil {
		t.Fatalf("unmarshal body: %v", err)
	}
	if len(sent) != 2 {
		t.Fatalf("body = %v, want exactly the provided fields", sent)
	}
	if sent["headline"] != "Fresh bread daily" {
		t.Fatalf("headline = %q", sent["headline"])
	}
	if value, ok := sent["phone"]; !ok || value != "" {
		t.Fatalf("phone should be sent as explicit empty string, body = %v", sent)
	}
	if got := textOf(t, res); !strings.Contains(got, "my-bakery") {
		t.Fatalf("text = %q", got)
	}
}

func TestDeletePage_ConfirmsWithInputSlug(t *testing.T) {
	fb, reg := newFakeBackend(t, func(w http.ResponseWriter, _ *http.Request, _ []byte) {
		_, _ = w.Write([]byte(successEnvelope(`{}`, nil)))
	})

	res, err := reg.handleDeletePage(context.Background(), callRequest("delete_page", map[string]interface{}{
		"slug": "my-bakery",
	}))
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	if got := textOf(t, res); !strings.Contains(got, `"my-bakery"`) {
		t.Fatalf("confirmation must carry the input slug, got %q", got)
	}
	if fb.lastReq.Method != http.MethodDelete {
		t.Fatalf("method = %q", fb.lastReq.Method)
	}
}

func TestGetLeads_HeaderUsesEnvelopeTotal(t *testing.T) {
	total := int64(5)
	fb, reg := newFakeBackend(t, func(w http.ResponseWriter, _ *http.Request, _ []byte) {
		_, _ = w.Write([]byte(successEnvelope(
			`[{"name":"Dana","phone":"050-1234567","status":"new","createdAt":"2026-08-20"},
			  {"name":"Avi","email":"avi@example.com","message":"Do you deliver?"}]`, &total)))
	})

	res, err := reg.handleGetLeads(context.Background(), callRequest("get_leads", map[string]interface{}{
		"slug":  "my-bakery",
		"limit": float64(2),
	}))
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	text := textOf(t, res)
	lines := strings.Split(text, "\n")
	if lines[0] != `5 lead(s) for "my-bakery":` {
		t.Fatalf("header = %q", lines[0])
	}
	if len(lines) != 3 {
		t.Fatalf("expected header plus 2 lead lines, got %d lines: %q", len(lines), text)
	}
	if got := fb.lastReq.URL.Query().Get("limit"); got != "2" {
		t.Fatalf("limit query = %q", got)
	}
}

func TestGetLeads_Empty(t *testing.T) {
	_, reg := newFakeBackend(t, func(w http.ResponseWriter, _ *http.Request, _ []byte) {
		_, _ = w.Write([]byte(successEnvelope(`[]`, nil)))
	})

	res, err := reg.handleGetLeads(context.Background(), callRequest("get_leads", map[string]interface{}{
		"slug": "my-bakery",
	}))
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	if got := textOf(t, res); got != `No leads found for "my-bakery".` {
		t.Fatalf("text = %q", got)
	}
}

func TestGetLeads_LimitRange(t *testing.T) {
	fb, reg := newFakeBackend(t, func(w http.ResponseWriter, _ *http.Request, _ []byte) {
		_, _ = w.Write([]byte(successEnvelope(`[]`, nil)))
	})

	for _, limit := range []float64{0, 501} {
		res, err := reg.handleGetLeads(context.Background(), callRequest("get_leads", map[string]interface{}{
			"slug":  "my-bakery",
			"limit": limit,
		}))
		if err != nil {
			t.Fatalf("handler: %v", err)
		}
		if !res.IsError {
			t.Fatalf("limit %v should be rejected", limit)
		}
	}
	if fb.requests != 0 {
		t.Fatalf("expected no requests, got %d", fb.requests)
	}
}

func TestGetAnalytics_ThousandsSeparatorsAndLabel(t *testing.T) {
	_, reg := newFakeBackend(t, func(w http.ResponseWriter, _ *http.Request, _ []byte) {
		_, _ = w.Write([]byte(successEnvelope(
			`{"period":"Last 30 days","views":12345,"uniqueViews":9876,"leads":321,"whatsappClicks":1500,"phoneClicks":7}`, nil)))
	})

	res, err := reg.handleGetAnalytics(context.Background(), callRequest("get_analytics", map[string]interface{}{
		"slug": "my-bakery",
	}))
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	text := textOf(t, res)
	if !strings.Contains(text, "(Last 30 days)") {
		t.Fatalf("period label missing: %q", text)
	}
	for _, want := range []string{"12,345", "9,876", "1,500"} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected separator-formatted %q in %q", want, text)
		}
	}
}

func TestGetAnalytics_FromToRangeFallback(t *testing.T) {
	fb, reg := newFakeBackend(t, func(w http.ResponseWriter, _ *http.Request, _ []byte) {
		_, _ = w.Write([]byte(successEnvelope(
			`{"from":"2026-07-01","to":"2026-07-31","views":10}`, nil)))
	})

	res, err := reg.handleGetAnalytics(context.Background(), callRequest("get_analytics", map[string]interface{}{
		"slug": "my-bakery",
		"from": "2026-07-01",
		"to":   "2026-07-31",
	}))
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	if text := textOf(t, res); !strings.Contains(text, "(2026-07-01 to 2026-07-31)") {
		t.Fatalf("range missing: %q", text)
	}
	if got := fb.lastReq.URL.Query().Get("from"); got != "2026-07-01" {
		t.Fatalf("from query = %q", got)
	}
}

func TestGetAnalytics_RejectsBadDates(t *testing.T) {
	fb, reg := newFakeBackend(t, func(w http.ResponseWriter, _ *http.Request, _ []byte) {
		_, _ = w.Write([]byte(successEnvelope(`{}`, nil)))
	})

	res, err := reg.handleGetAnalytics(context.Background(), callRequest("get_analytics", map[string]interface{}{
		"slug": "my-bakery",
		"from": "July 1st",
	}))
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	if !res.IsError || !strings.Contains(textOf(t, res), "from") {
		t.Fatalf("expected validation error naming from, got %q", textOf(t, res))
	}
	if fb.requests != 0 {
		t.Fatalf("expected no requests, got %d", fb.requests)
	}
}

func TestUnknownArgumentRejected(t *testing.T) {
	fb, reg := newFakeBackend(t, func(w http.ResponseWriter, _ *http.Request, _ []byte) {
		_, _ = w.Write([]byte(successEnvelope(`[]`, nil)))
	})

	res, err := reg.handleListPages(context.Background(), callRequest("list_pages", map[string]interface{}{
		"stats": "published",
	}))
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	if !res.IsError || !strings.Contains(textOf(t, res), "unknown argument") {
		t.Fatalf("expected unknown-argument error, got %q", textOf(t, res))
	}
	if fb.requests != 0 {
		t.Fatalf("expected no requests, got %d", fb.requests)
	}
}

// multipartFile re-parses the captured request body and returns the
// uploaded file's content and filename.
func multipartFile(fb *fakeBackend) ([]byte, string, error) {
	req, err := http.NewRequest(fb.lastReq.Method, "http://replay", bytes.NewReader(fb.lastBody))
	if err != nil {
		return nil, "", err
	}
	req.Header.Set("Content-Type", fb.lastReq.Header.Get("Content-Type"))
	if err := req.ParseMultipartForm(16 << 20); err != nil {
		return nil, "", err
	}
	file, header, err := req.FormFile("file")
	if err != nil {
		return nil, "", err
	}
	defer func() { _ = file.Close() }()
	content, err := io.ReadAll(file)
	if err != nil {
		return nil, "", err
	}
	return content, header.Filename, nil
}
