package workflow

import (
	"fmt"

	"github.com/rehabib/plan-report-tourism/internal/model"
)

// pillarHop stands in for the pillar of the plan's department. It is
// never stored.
const pillarHop model.Role = "pillar"

// defaultFlow maps a level to the role that reviews it.
var defaultFlow = map[model.Role]model.Role{
	model.RoleIndividual:               model.RoleDesk,
	model.RoleDesk:                     model.RoleDepartment,
	model.RoleDepartment:               pillarHop,
	model.RoleCorporate:                model.RoleStrategicTeam,
	model.RoleStateMinisterDestination: model.RoleStrategicTeam,
	model.RoleStateMinisterPromotion:   model.RoleStrategicTeam,
	model.RoleStrategicTeam:            model.RoleMinister,
}

// RoleGraph routes plans up the organization. It is immutable after
// construction and safe for concurrent use.
type RoleGraph struct {
	next   map[model.Role]model.Role
	finals map[model.Role]model.Role
}

// NewRoleGraph builds the standard graph. finals optionally stops the
// chain for a level at a given role instead of walking to the top. The
// role must sit on that level's chain for every pillar, so pillar roles
// are refused where the chain crosses the pillar hop.
func NewRoleGraph(finals map[model.Role]model.Role) (*RoleGraph, error) {
	g := &RoleGraph{
		next:   make(map[model.Role]model.Role, len(defaultFlow)),
		finals: make(map[model.Role]model.Role, len(finals)),
	}
	for k, v := range defaultFlow {
		g.next[k] = v
	}
	for level, role := range finals {
		if !level.Valid() {
			return nil, fmt.Errorf("final approver: unknown level %q", level)
		}
		if !role.Valid() {
			return nil, fmt.Errorf("final approver for %s: unknown role %q", level, role)
		}
		if role.IsPillar() && g.reachable(level, role) {
			// a pillar role would stop only the plans of its own departments
			return nil, fmt.Errorf("final approver for %s: %s is a pillar and differs between departments", level, role)
		}
		if !g.reachable(level, role) {
			return nil, fmt.Errorf("final approver for %s: %s is not on its approval chain", level, role)
		}
		g.finals[level] = role
	}
	return g, nil
}

// DefaultRoleGraph is the graph without overrides.
func DefaultRoleGraph() *RoleGraph {
	g, _ := NewRoleGraph(nil)
	return g
}

// reachable reports whether role can appear on the chain of level for
// some pillar.
func (g *RoleGraph) reachable(level, role model.Role) bool {
	cur := level
	for i := 0; i <= len(g.next); i++ {
		nxt, ok := g.next[cur]
		if !ok {
			return false
		}
		if nxt == pillarHop {
			if role.IsPillar() {
				return true
			}
			// every pillar feeds the same next hop
			nxt = model.RoleCorporate
		}
		if nxt == role {
			return true
		}
		cur = nxt
	}
	return false
}

// NextReviewer returns the role that reviews after from. ok is false when
// nobody does, which makes the current approval final. pillar is
// substituted for the pillar hop; a nil or invalid pillar there yields a
// ConfigurationError.
func (g *RoleGraph) NextReviewer(from model.Role, pillar *model.Role) (model.Role, bool, error) {
	nxt, ok := g.next[from]
	if !ok {
		return "", false, nil
	}
	if nxt != pillarHop {
		return nxt, true, nil
	}
	if pillar == nil || *pillar == "" {
		return "", false, &ConfigurationError{Level: from, Reason: "department has no pillar assigned"}
	}
	if !pillar.IsPillar() {
		return "", false, &ConfigurationError{Level: from, Reason: fmt.Sprintf("%q is not a pillar", *pillar)}
	}
	return *pillar, true, nil
}

// IsFinalApprover reports whether role is the last hop on the chain for
// plans of the given level.
func (g *RoleGraph) IsFinalApprover(level, role model.Role) bool {
	if final, ok := g.finals[level]; ok {
		return role == final
	}
	_, ok := g.next[role]
	return !ok
}

// Chain lists the reviewers a plan of the given level passes through,
// in order. On a ConfigurationError the hops resolved so far are returned
// with the error.
func (g *RoleGraph) Chain(level model.Role, pillar *model.Role) ([]model.Role, error) {
	var chain []model.Role
	cur := level
	for i := 0; i <= len(g.next); i++ {
		nxt, ok, err := g.NextReviewer(cur, pillar)
		if err != nil {
			return chain, err
		}
		if !ok {
			break
		}
		chain = append(chain, nxt)
		if g.IsFinalApprover(level, nxt) {
			break
		}
		cur = nxt
	}
	return chain, nil
}
