package teams

import (
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/tyler180/fpl-championship-analysis/internal/logging"
)

// worldfootball.net spelling → FPL spelling.
var championshipToFPL = map[string]string{
	"Burnley FC":              "Burnley",
	"Fulham FC":               "Fulham",
	"Hull City":               "Hull",
	"Brighton & Hove Albion":  "Brighton",
	"Huddersfield Town":       "Huddersfield",
	"Middlesbrough FC":        "Middlesbrough",
	"Wolverhampton Wanderers": "Wolves",
	"Sheffield United":        "Sheffield Utd",
	"Leeds United":            "Leeds",
	"Watford FC":              "Watford",
	"Brentford FC":            "Brentford",
	"Cardiff City":            "Cardiff",
	"Ipswich Town":            "Ipswich",
	"Nottingham Forest":       "Nott'm Forest",
	"Newcastle United":        "Newcastle",
	"Norwich City":            "Norwich",
	"Luton Town":              "Luton",
	"Leicester City":          "Leicester",
	"AFC Bournemouth":         "Bournemouth",
	"Southampton FC":          "Southampton",
	"West Bromwich Albion":    "West Brom",
}

// RenameTable returns a copy of the Championship → FPL rename table.
func RenameTable() map[string]string {
	out := make(map[string]string, len(championshipToFPL))
	for k, v := range championshipToFPL {
		out[k] = v
	}
	return out
}

// Reconciler maps Championship team names onto FPL names. Names that are
// neither rename keys nor known canonical names are passed through and
// logged once per Reconciler.
type Reconciler struct {
	renames map[string]string
	known   map[string]struct{}
	warned  map[string]struct{}
	log     *logrus.Entry
}

// NewReconciler seeds the known canonical names with the rename targets plus
// any extra names (typically every team in the promotion table).
func NewReconciler(extraKnown ...string) *Reconciler {
	r := &Reconciler{
		renames: championshipToFPL,
		known:   make(map[string]struct{}, len(championshipToFPL)+len(extraKnown)),
		warned:  map[string]struct{}{},
		log:     logging.WithComponent("teams"),
	}
	for _, v := range championshipToFPL {
		r.known[v] = struct{}{}
	}
	for _, n := range extraKnown {
		if n = strings.TrimSpace(n); n != "" {
			r.known[n] = struct{}{}
		}
	}
	return r
}

// Canonical returns the FPL spelling for name. Applying it twice is a no-op
// because no rename target is itself a rename key.
func (r *Reconciler) Canonical(name string) string {
	name = strings.TrimSpace(name)
	if v, ok := r.renames[name]; ok {
		return v
	}
	if _, ok := r.known[name]; ok || name == "" {
		return name
	}
	if _, ok := r.warned[name]; !ok {
		r.warned[name] = struct{}{}
		r.log.WithField("team", name).Warn("team name has no FPL mapping; passing through")
	}
	return name
}

// Unmapped lists the names Canonical passed through without a mapping.
func (r *Reconciler) Unmapped() []string {
	out := make([]string, 0, len(r.warned))
	for n := range r.warned {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
