package tools

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/blashnikovpro/page4u-mcp/internal/page4u"
)

// Text rendering for tool results. Output is plain display text for the
// calling assistant; structure is conveyed with headers and one line
// per record.

func renderPages(pages []page4u.Page, total *int64) string {
	if len(pages) == 0 {
		return "No pages found."
	}
	count := int64(len(pages))
	if total != nil && *total > count {
		count = *total
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d page(s):\n", count)
	for _, p := range pages {
		line := fmt.Sprintf("- %s", p.Slug)
		if p.BusinessName != "" {
			line += fmt.Sprintf(" (%s)", p.BusinessName)
		}
		if p.Status != "" {
			line += " [" + p.Status + "]"
		}
		if p.CreatedAt != "" {
			line += " created " + p.CreatedAt
		}
		b.WriteString(line + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// renderRawRecord pretty-prints an opaque backend record under a
// header. The record's shape is trusted, not interpreted.
func renderRawRecord(header string, data json.RawMessage) string {
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, data, "", "  "); err != nil {
		return header + "\n" + string(data)
	}
	return header + "\n" + pretty.String()
}

func renderDeploy(res page4u.DeployResult) string {
	var b strings.Builder
	b.WriteString("Page deployed successfully.\n")
	if res.URL != "" {
		fmt.Fprintf(&b, "URL: %s\n", res.URL)
	}
	if res.Slug != "" {
		fmt.Fprintf(&b, "Slug: %s\n", res.Slug)
	}
	if len(res.Warnings) > 0 {
		b.WriteString("Warnings:\n")
		for _, warning := range res.Warnings {
			fmt.Fprintf(&b, "- %s\n", warning)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderUpdate(res page4u.UpdateResult, sent map[string]string) string {
	fields := res.Updated
	if len(fields) == 0 {
		// Preserve the request's field order for stable output.
		for _, field := range updatableFields {
			if _, ok := sent[field]; ok {
				fields = append(fields, field)
			}
		}
	}
	return fmt.Sprintf("Page %q updated (%s).", res.Slug, strings.Join(fields, ", "))
}

func renderLeads(slug string, leads []page4u.Lead, total *int64) string {
	if len(leads) == 0 {
		return fmt.Sprintf("No leads found for %q.", slug)
	}
	count := int64(len(leads))
	if total != nil && *total > count {
		count = *total
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d lead(s) for %q:\n", count, slug)
	for _, lead := range leads {
		parts := make([]string, 0, 4)
		if lead.Name != "" {
			parts = append(parts, lead.Name)
		}
		if lead.Phone != "" {
			parts = append(parts, lead.Phone)
		}
		if lead.Email != "" {
			parts = append(parts, lead.Email)
		}
		if lead.Message != "" {
			parts = append(parts, fmt.Sprintf("%q", lead.Message))
		}
		line := "- " + strings.Join(parts, " | ")
		if lead.Status != "" {
			line += " [" + lead.Status + "]"
		}
		if lead.CreatedAt != "" {
			line += " at " + lead.CreatedAt
		}
		b.WriteString(line + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderAnalytics(slug string, snap page4u.AnalyticsSnapshot) string {
	period := snap.Period
	if period == "" && (snap.From != "" || snap.To != "") {
		period = snap.From + " to " + snap.To
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Analytics for %q", slug)
	if period != "" {
		fmt.Fprintf(&b, " (%s)", period)
	}
	b.WriteString(":\n")
	fmt.Fprintf(&b, "Views: %s\n", humanize.Comma(snap.Views))
	fmt.Fprintf(&b, "Unique views: %s\n", humanize.Comma(snap.UniqueViews))
	fmt.Fprintf(&b, "Leads: %s\n", humanize.Comma(snap.Leads))
	fmt.Fprintf(&b, "WhatsApp clicks: %s\n", humanize.Comma(snap.WhatsApp))
	fmt.Fprintf(&b, "Phone clicks: %s", humanize.Comma(snap.PhoneClicks))
	return b.String()
}
