package models

import "strings"

// Badge describes how a ticket status is presented: a color tone plus a
// short glyph. Upstream statuses are free text maintained by shop staff, so
// the mapping below is configuration data, not logic, and new statuses fall
// through to a neutral default rather than failing.
type Badge struct {
	Tone  Tone
	Glyph string
}

// Tone is a presentation color class for a status badge.
type Tone string

// Badge tones. Concrete terminal colors are chosen by the renderer.
const (
	ToneBlue    Tone = "blue"
	ToneOrange  Tone = "orange"
	TonePurple  Tone = "purple"
	ToneYellow  Tone = "yellow"
	ToneGreen   Tone = "green"
	ToneNeutral Tone = "neutral"
)

// defaultBadge is used for any status not in the table.
var defaultBadge = Badge{Tone: ToneNeutral, Glyph: "●"}

// statusBadges maps lowercased upstream status labels to badges. The label
// set mirrors what the shop's workflow actually produces, including a few
// tech-name statuses used as assignment markers.
var statusBadges = map[string]Badge{
	"new":    {Tone: ToneBlue, Glyph: "●"},
	"marcus": {Tone: ToneBlue, Glyph: "●"},
	"mike":   {Tone: ToneBlue, Glyph: "●"},

	"in progress":                   {Tone: ToneOrange, Glyph: "↻"},
	"diagnostic in progress":        {Tone: ToneOrange, Glyph: "↻"},
	"diagnostic completed":          {Tone: ToneOrange, Glyph: "↻"},
	"2- just approved! start work.": {Tone: ToneOrange, Glyph: "↻"},
	"d4b - in progress":             {Tone: ToneOrange, Glyph: "↻"},
	"alamy - in progress":           {Tone: ToneOrange, Glyph: "↻"},

	"waiting for parts":               {Tone: TonePurple, Glyph: "◷"},
	"part arrived! awaiting customer": {Tone: TonePurple, Glyph: "◷"},

	"waiting on customer": {Tone: ToneYellow, Glyph: "?"},

	"repair complete":   {Tone: ToneGreen, Glyph: "✓"},
	"ready for pick-up": {Tone: ToneGreen, Glyph: "✓"},

	"resolved":                     {Tone: ToneNeutral, Glyph: "▣"},
	"done->customer action needed": {Tone: ToneNeutral, Glyph: "▣"},
	"scheduled":                    {Tone: ToneNeutral, Glyph: "▣"},
	"cognism - stored device":      {Tone: ToneNeutral, Glyph: "▣"},
}

// StatusBadge returns the badge for a status label, matching
// case-insensitively and falling back to a neutral badge for labels the
// table does not know.
func StatusBadge(status string) Badge {
	if b, ok := statusBadges[strings.ToLower(status)]; ok {
		return b
	}
	return defaultBadge
}
