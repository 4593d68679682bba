package stitch

import (
	"fmt"
	"log"
	"time"

	"via-stitcher/internal/board"
	"via-stitcher/internal/drc"
	"via-stitcher/pkg/geometry"
)

// GroupPrefix names the groups created by the stitch runner. The clear
// action recognizes previously stitched vias by this prefix.
const GroupPrefix = "ViaStitching"

// existingViaFactor pads the keep-out radius around existing board vias.
const existingViaFactor = 1.1

// Host is the board document surface the runner needs: the read-only
// snapshot of nets and vias, and the write side for creating objects.
type Host interface {
	NetByName(name string) (board.Net, bool)
	NetName(code int) string
	Vias() []*board.Via
	GroupNames() []string
	GroupsWithPrefix(prefix string) []*board.Group

	AddVia(pos geometry.Point2D, diameter, drill float64, netCode int) *board.Via
	AddGroup(name string, viaIDs []string) *board.Group
	RemoveVia(id string) bool
	RemoveEmptyGroups() int
}

// Result summarizes one stitch run.
type Result struct {
	Candidates int // planner output across all zones
	Created    int // vias actually added
	Rejected   int // candidates dropped for proximity to existing vias
	Groups     []string
	PerNet     map[string]int // created vias per net name
}

// Runner executes stitch and clear operations against a board document.
type Runner struct {
	host Host
	now  func() time.Time
}

// NewRunner creates a runner for the given board document.
func NewRunner(host Host) *Runner {
	return &Runner{host: host, now: time.Now}
}

// Stitch plans and creates vias in each selected zone. Nothing is created
// until every zone has planned successfully, so a failing zone leaves the
// board untouched.
func (r *Runner) Stitch(zones []*board.Zone, p Params) (*Result, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if len(zones) == 0 {
		return nil, fmt.Errorf("no zones selected")
	}

	type zonePlan struct {
		zone    *board.Zone
		netCode int
		netName string
		points  []geometry.Point2D
	}

	// Plan every zone before mutating anything.
	plans := make([]zonePlan, 0, len(zones))
	res := &Result{PerNet: make(map[string]int)}
	for _, z := range zones {
		netCode, netName, err := r.resolveNet(z, p)
		if err != nil {
			return nil, err
		}
		points, err := Plan(z.Outline, p.PlanSpec())
		if err != nil {
			return nil, fmt.Errorf("zone %s: %w", z.ID, err)
		}
		res.Candidates += len(points)
		plans = append(plans, zonePlan{zone: z, netCode: netCode, netName: netName, points: points})
	}

	// Keep-out index over the vias already on the board.
	existing := r.host.Vias()
	positions := make([]geometry.Point2D, len(existing))
	for i, v := range existing {
		positions[i] = v.Position
	}
	index := drc.NewIndex(positions)
	keepOut := p.ViaSize * existingViaFactor

	netVias := make(map[string][]string) // net name -> created via IDs
	var netOrder []string
	for _, zp := range plans {
		for _, pt := range zp.points {
			if index.TooClose(pt, keepOut) {
				res.Rejected++
				continue
			}
			v := r.host.AddVia(pt, p.ViaSize, p.DrillSize, zp.netCode)
			index.Insert(pt)
			if _, seen := netVias[zp.netName]; !seen {
				netOrder = append(netOrder, zp.netName)
			}
			netVias[zp.netName] = append(netVias[zp.netName], v.ID)
			res.Created++
			res.PerNet[zp.netName]++
		}
	}

	if p.GroupVias {
		for _, netName := range netOrder {
			ids := netVias[netName]
			if len(ids) == 0 {
				continue
			}
			name := r.uniqueGroupName(netName)
			r.host.AddGroup(name, ids)
			res.Groups = append(res.Groups, name)
			log.Printf("Grouped %d vias as %q", len(ids), name)
		}
	}

	log.Printf("Stitch: %d candidates, %d created, %d rejected by clearance",
		res.Candidates, res.Created, res.Rejected)
	return res, nil
}

// Clear removes stitched vias from the selected zones. A via is removed
// when it matches the resolved net, lies inside the zone outline, and —
// when ClearPluginOnly is set — belongs to a stitching group. Returns the
// number of vias removed.
func (r *Runner) Clear(zones []*board.Zone, p Params) (int, error) {
	if len(zones) == 0 {
		return 0, fmt.Errorf("no zones selected")
	}

	var stitched map[string]bool
	if p.ClearPluginOnly {
		stitched = make(map[string]bool)
		for _, g := range r.host.GroupsWithPrefix(GroupPrefix) {
			for _, id := range g.ViaIDs {
				stitched[id] = true
			}
		}
	}

	removed := 0
	for _, z := range zones {
		netCode, _, err := r.resolveNet(z, p)
		if err != nil {
			return removed, err
		}
		for _, v := range r.host.Vias() {
			if v.NetCode != netCode {
				continue
			}
			if stitched != nil && !stitched[v.ID] {
				continue
			}
			if !z.Contains(v.Position) {
				continue
			}
			if r.host.RemoveVia(v.ID) {
				removed++
			}
		}
	}
	r.host.RemoveEmptyGroups()

	log.Printf("Clear: removed %d vias from %d zones", removed, len(zones))
	return removed, nil
}

// resolveNet returns the net for created vias in the given zone: the zone's
// own net when UseZoneNet is set, otherwise the configured net name looked
// up in the board's net table.
func (r *Runner) resolveNet(z *board.Zone, p Params) (int, string, error) {
	if p.UseZoneNet {
		return z.NetCode, r.host.NetName(z.NetCode), nil
	}
	n, ok := r.host.NetByName(p.NetName)
	if !ok {
		return 0, "", fmt.Errorf("net %q not found", p.NetName)
	}
	return n.Code, n.Name, nil
}

// uniqueGroupName builds a timestamped group name, appending a counter if
// the board already has a group by that name.
func (r *Runner) uniqueGroupName(netName string) string {
	stamp := r.now().Format("20060102150405")
	name := fmt.Sprintf("%s - %s_%s", GroupPrefix, netName, stamp)

	existing := make(map[string]bool)
	for _, n := range r.host.GroupNames() {
		existing[n] = true
	}
	if !existing[name] {
		return name
	}
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s_%d", name, i)
		if !existing[candidate] {
			return candidate
		}
	}
}
