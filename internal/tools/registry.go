// Package tools defines the MCP tool surface of the Page4U bridge:
// seven operations over pages, leads, and analytics, each validating
// its arguments, issuing at most one API call, and rendering the
// decoded payload as display text.
package tools

import (
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/blashnikovpro/page4u-mcp/internal/page4u"
)

// Registry binds the tool set to one API client. Tools are registered
// once at startup and are immutable for the process lifetime.
type Registry struct {
	client *page4u.Client
}

func NewRegistry(client *page4u.Client) *Registry {
	return &Registry{client: client}
}

// Register adds every tool to the MCP server.
func (r *Registry) Register(srv *server.MCPServer) {
	srv.AddTool(listPagesTool(), r.handleListPages)
	srv.AddTool(getPageTool(), r.handleGetPage)
	srv.AddTool(deployPageTool(), r.handleDeployPage)
	srv.AddTool(updatePageTool(), r.handleUpdatePage)
	srv.AddTool(deletePageTool(), r.handleDeletePage)
	srv.AddTool(getLeadsTool(), r.handleGetLeads)
	srv.AddTool(getAnalyticsTool(), r.handleGetAnalytics)
}

func listPagesTool() mcp.Tool {
	return mcp.NewTool("list_pages",
		mcp.WithDescription("List your Page4U landing pages, optionally filtered by status."),
		mcp.WithString("status",
			mcp.Description("Filter by page status"),
			mcp.Enum("draft", "published", "archived"),
		),
	)
}

func getPageTool() mcp.Tool {
	return mcp.NewTool("get_page",
		mcp.WithDescription("Fetch the full record of one landing page by slug."),
		mcp.WithString("slug",
			mcp.Description("Unique page identifier (URL path segment)"),
			mcp.Required(),
		),
	)
}

// deployPageTool carries a nested array-of-objects schema for assets,
// which the property-option builders cannot express, so the schema is
// written out as raw JSON.
func deployPageTool() mcp.Tool {
	schema := json.RawMessage(`{
  "type": "object",
  "properties": {
    "html": {
      "type": "string",
      "description": "Full HTML document for the landing page"
    },
    "assets": {
      "type": "array",
      "description": "Auxiliary files referenced by the document (images, CSS, fonts)",
      "items": {
        "type": "object",
        "properties": {
          "path": {
            "type": "string",
            "description": "Path relative to the document, used inside the page's links"
          },
          "content": {
            "type": "string",
            "description": "File content, base64-encoded"
          }
        },
        "required": ["path", "content"]
      }
    },
    "slug": {
      "type": "string",
      "description": "Requested slug; the backend generates one when omitted"
    },
    "locale": {
      "type": "string",
      "enum": ["he", "en"],
      "description": "Page language"
    },
    "whatsapp": {
      "type": "string",
      "description": "WhatsApp number for the page's contact button"
    }
  },
  "required": ["html"]
}`)
	return mcp.NewToolWithRawSchema("deploy_page",
		"Deploy a landing page from an HTML document, optionally bundling auxiliary assets.",
		schema,
	)
}

func updatePageTool() mcp.Tool {
	return mcp.NewTool("update_page",
		mcp.WithDescription("Update settings of an existing page. Only the fields you pass are changed; pass an empty string to clear a field."),
		mcp.WithString("slug", mcp.Description("Page to update"), mcp.Required()),
		mcp.WithString("businessName", mcp.Description("Business display name")),
		mcp.WithString("headline", mcp.Description("Hero headline")),
		mcp.WithString("description", mcp.Description("Hero description text")),
		mcp.WithString("phone", mcp.Description("Contact phone number")),
		mcp.WithString("email", mcp.Description("Contact email address")),
		mcp.WithString("whatsapp", mcp.Description("WhatsApp number")),
		mcp.WithString("primaryColor", mcp.Description("Primary brand color (hex)")),
		mcp.WithString("secondaryColor", mcp.Description("Secondary brand color (hex)")),
		mcp.WithString("googleAnalyticsId", mcp.Description("Google Analytics measurement ID")),
		mcp.WithString("facebookPixelId", mcp.Description("Facebook Pixel ID")),
	)
}

func deletePageTool() mcp.Tool {
	return mcp.NewTool("delete_page",
		mcp.WithDescription("Permanently delete a landing page. This cannot be undone."),
		mcp.WithString("slug", mcp.Description("Page to delete"), mcp.Required()),
	)
}

func getLeadsTool() mcp.Tool {
	return mcp.NewTool("get_leads",
		mcp.WithDescription("Fetch leads captured by a landing page's contact form."),
		mcp.WithString("slug", mcp.Description("Page whose leads to fetch"), mcp.Required()),
		mcp.WithString("status", mcp.Description("Filter by lead status")),
		mcp.WithNumber("limit", mcp.Description("Maximum number of leads to return (1-500)")),
	)
}

func getAnalyticsTool() mcp.Tool {
	return mcp.NewTool("get_analytics",
		mcp.WithDescription("Fetch visit and conversion counters for a landing page."),
		mcp.WithString("slug", mcp.Description("Page whose analytics to fetch"), mcp.Required()),
		mcp.WithString("from", mcp.Description("Period start, YYYY-MM-DD")),
		mcp.WithString("to", mcp.Description("Period end, YYYY-MM-DD")),
	)
}
