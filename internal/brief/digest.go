package brief

import (
	"fmt"
	"html"
	"strings"
	"time"
)

// Digest is the composed document holding all of one user's meeting briefs
// for the day.
type Digest struct {
	Subject string
	HTML    string
}

// ComposeDigest merges the day's briefs, in calendar start-time order, into
// one HTML document with a count-and-date subject line. Times are rendered in
// the user's location.
func ComposeDigest(briefs []MeetingBrief, now time.Time, loc *time.Location) Digest {
	if loc == nil {
		loc = time.UTC
	}
	today := now.In(loc).Format("Monday, January 2, 2006")
	total := len(briefs)

	var cards strings.Builder
	for _, b := range briefs {
		writeMeetingCard(&cards, b, loc)
	}

	var doc strings.Builder
	doc.WriteString(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"><meta name="viewport" content="width=device-width, initial-scale=1.0"></head>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; background: #f5f7fa; margin: 0; padding: 20px;">
<div style="max-width: 700px; margin: 0 auto; background: white; border-radius: 12px; box-shadow: 0 2px 20px rgba(0,0,0,0.08); overflow: hidden;">
`)
	fmt.Fprintf(&doc, `<div style="background: linear-gradient(135deg, #667eea 0%%, #764ba2 100%%); color: white; padding: 30px; text-align: center;">
<h1 style="margin: 0 0 8px 0; font-size: 26px;">Meeting Preparation Brief</h1>
<p style="margin: 0; font-size: 16px; opacity: 0.9;">%s</p>
<p style="margin: 8px 0 0 0; font-size: 14px; opacity: 0.8;">You have <strong>%d</strong> %s today</p>
</div>
`, today, total, pluralize(total, "meeting", "meetings"))
	doc.WriteString(`<div style="padding: 25px;">` + "\n")
	doc.WriteString(cards.String())
	doc.WriteString(`</div>
<div style="background: #f8f9fa; padding: 20px; text-align: center; border-top: 1px solid #eee;">
<p style="margin: 0; color: #888; font-size: 12px;">Generated by Meeting Preparation Automation<br>Powered by MadeEA | <a href="mailto:hello@madeeas.com" style="color: #667eea;">hello@madeeas.com</a></p>
</div>
</div>
</body>
</html>
`)

	return Digest{
		Subject: fmt.Sprintf("Meeting Prep Brief: %d %s today - %s", total, pluralize(total, "meeting", "meetings"), today),
		HTML:    doc.String(),
	}
}

func writeMeetingCard(sb *strings.Builder, b MeetingBrief, loc *time.Location) {
	fmt.Fprintf(sb, `<div style="background: linear-gradient(135deg, #667eea 0%%, #764ba2 100%%); padding: 20px; border-radius: 10px; margin-bottom: 15px; color: white;">
<h2 style="margin: 0 0 10px 0; font-size: 20px;">%s</h2>
<div style="font-size: 14px; opacity: 0.9;">%s &bull; %d attendees &bull; %d emails &bull; %d docs</div>
`,
		html.EscapeString(b.Subject),
		formatCardTime(b.Start, loc),
		len(b.Attendees),
		b.Stats.Emails,
		b.Stats.Documents,
	)
	if link := b.Meeting.HangoutLink; link != "" {
		fmt.Fprintf(sb, `<div style="margin-top: 10px;"><a href="%s" style="background: rgba(255,255,255,0.2); color: white; padding: 8px 16px; border-radius: 6px; text-decoration: none;">Join Meeting</a></div>
`, html.EscapeString(link))
	}
	sb.WriteString("</div>\n")

	fmt.Fprintf(sb, `<div style="background: #f8f9fa; padding: 20px; border-radius: 8px; border-left: 4px solid #667eea; margin-bottom: 40px;">
<div style="line-height: 1.8; color: #333;">%s</div>
</div>
<hr style="border: none; border-top: 1px solid #eee; margin: 30px 0;">
`, RenderBriefHTML(b.Brief))
}

// RenderBriefHTML converts the synthesizer's lightweight markup into HTML:
// a line starting with "## " becomes a heading, paired "**" markers become
// bold, newlines become breaks. Lines with an odd number of "**" markers are
// left untouched.
func RenderBriefHTML(text string) string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if heading, ok := strings.CutPrefix(line, "## "); ok {
			out = append(out, fmt.Sprintf(`<h3 style="color: #667eea; margin-top: 20px;">%s</h3>`, html.EscapeString(heading)))
			continue
		}
		out = append(out, renderBold(line))
	}
	return strings.Join(out, "<br>")
}

func renderBold(line string) string {
	parts := strings.Split(line, "**")
	if len(parts)%2 == 0 {
		// Unbalanced markers: escape and leave the line as-is.
		return html.EscapeString(line)
	}
	var sb strings.Builder
	for i, part := range parts {
		if i > 0 {
			if i%2 == 1 {
				sb.WriteString("<strong>")
			} else {
				sb.WriteString("</strong>")
			}
		}
		sb.WriteString(html.EscapeString(part))
	}
	return sb.String()
}

func formatCardTime(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return "TBD"
	}
	return t.In(loc).Format("3:04 PM")
}

func pluralize(n int, singular, plural string) string {
	if n == 1 {
		return singular
	}
	return plural
}
