package web

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"

	"leadrouter/internal/campaign"
	"leadrouter/internal/database"
)

// IntakeView is everything the intake page renders.
type IntakeView struct {
	Lead     campaign.Lead
	Result   *campaign.MatchResult
	Error    string
	Recent   []database.AssignmentRecord
	Strategy campaign.Strategy
}

// IntakePage renders the lead intake form, the latest result or error, and
// the most recent assignments.
func IntakePage(view IntakeView) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		p := &printer{w: w}
		p.raw(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>Lead Campaign Selector</title>
  <link href="/assets/css/intake.css" rel="stylesheet" />
</head>
<body>
<div class="container">
  <div class="header">
    <h1>Lead Campaign Selector</h1>
    <p>Submit a lead to route it to an outreach campaign. Strategy: <span class="badge" id="strategy">`)
		p.text(string(view.Strategy))
		p.raw("</span></p>\n  </div>\n")

		if err := leadForm(view.Lead).Render(ctx, w); err != nil {
			return err
		}
		if view.Error != "" {
			p.raw(`  <div class="panel error" id="assignment-error" role="alert">`)
			p.text(view.Error)
			p.raw("</div>\n")
		}
		if view.Result != nil {
			if err := resultPanel(*view.Result).Render(ctx, w); err != nil {
				return err
			}
		}
		if err := recentAssignments(view.Recent).Render(ctx, w); err != nil {
			return err
		}

		p.raw("</div>\n</body>\n</html>\n")
		return p.err
	})
}

func leadForm(lead campaign.Lead) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		p := &printer{w: w}
		p.raw(`  <form class="panel" id="lead-form" method="post" action="/web/assign">
    <h2>Lead Information</h2>
    <label for="lead-name">Company Name</label>
    <input type="text" id="lead-name" name="name" required value="`)
		p.text(lead.Name)
		p.raw(`" />
    <label for="lead-industry">Industry</label>
    <input type="text" id="lead-industry" name="industry" value="`)
		p.text(lead.Industry)
		p.raw(`" />
    <label for="lead-keywords">Keywords (comma-separated)</label>
    <input type="text" id="lead-keywords" name="keywords" value="`)
		p.text(strings.Join(lead.Keywords, ", "))
		p.raw(`" />
    <button type="submit" id="assign-button">Assign Campaign</button>
  </form>
`)
		return p.err
	})
}

func resultPanel(result campaign.MatchResult) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		p := &printer{w: w}
		class := "panel result"
		if result.Fallback {
			class += " fallback"
		}
		p.raw(`  <div class="` + class + `" id="assignment-result">
    <h2>Campaign Assignment</h2>
    <dl>
`)
		p.row("Assigned Campaign", result.Campaign.Name)
		p.row("Campaign ID", result.Campaign.ID)
		p.row("Smartlead ID", result.Campaign.SmartleadID)
		p.row("Match Reason", result.Reason)
		p.row("Strategy", string(result.Strategy))
		if result.Fallback {
			p.row("Fallback", result.FallbackReason)
		}
		p.raw("    </dl>\n  </div>\n")
		return p.err
	})
}

func recentAssignments(records []database.AssignmentRecord) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		p := &printer{w: w}
		p.raw(`  <div class="panel" id="recent-assignments">
    <h2>Recent Assignments</h2>
`)
		if len(records) == 0 {
			p.raw(`    <p class="empty">No assignments yet.</p>` + "\n  </div>\n")
			return p.err
		}

		p.raw("    <table>\n      <thead><tr><th>When (UTC)</th><th>Lead</th><th>Campaign</th><th>Strategy</th><th>Surface</th></tr></thead>\n      <tbody>\n")
		for _, r := range records {
			p.raw("        <tr><td>")
			p.text(r.CreatedAt.UTC().Format("2006-01-02 15:04"))
			p.raw("</td><td>")
			p.text(r.LeadName)
			p.raw("</td><td>")
			p.text(r.CampaignName)
			p.raw("</td><td>")
			p.text(r.Strategy)
			if r.Fallback {
				p.raw(` <span class="badge">fallback</span>`)
			}
			p.raw("</td><td>")
			p.text(r.Surface)
			p.raw("</td></tr>\n")
		}
		p.raw("      </tbody>\n    </table>\n  </div>\n")
		return p.err
	})
}

// printer keeps the first write error so components can write unconditionally.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) raw(s string) {
	if p.err != nil {
		return
	}
	_, p.err = io.WriteString(p.w, s)
}

func (p *printer) text(s string) {
	p.raw(templ.EscapeString(s))
}

func (p *printer) row(label, value string) {
	p.raw(fmt.Sprintf("      <dt>%s</dt><dd>", templ.EscapeString(label)))
	p.text(value)
	p.raw("</dd>\n")
}
