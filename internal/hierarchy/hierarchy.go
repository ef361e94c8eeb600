// Package hierarchy builds the organization tree shown for a dataset:
// company, executive office, departments, direct managers and employees.
package hierarchy

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/KaramelBytes/staffscope-cli/internal/locale"
	"github.com/KaramelBytes/staffscope-cli/internal/record"
)

// Node is one box of the org chart.
type Node struct {
	Name     string  `json:"name"`
	Role     string  `json:"role"`
	Children []*Node `json:"children"`
}

type member struct {
	name string
	job  string
}

// Build groups records by department then manager. Values are read per
// record from the first non-empty candidate column, so mixed exports still
// land in the right place. Every level is sorted with the locale collator.
//
// When no record has a department column at all the executive node is left
// empty; see Available.
func Build(raws []*record.Raw, companyName string, loc locale.Locale) *Node {
	if strings.TrimSpace(companyName) == "" {
		companyName = locale.DefaultCompany
	}
	root := &Node{Name: companyName, Role: loc.CompanyRole, Children: []*Node{}}
	exec := &Node{Name: loc.ExecutiveName, Children: []*Node{}}
	root.Children = append(root.Children, exec)

	if !anyDepartment(raws) {
		return root
	}

	depts := map[string]map[string][]member{}
	for _, r := range raws {
		if r == nil {
			continue
		}
		dept := loc.OrBlank(strings.TrimSpace(pick(r, record.HierarchyDepartmentKeys)))
		mgr := strings.TrimSpace(pick(r, record.HierarchyManagerKeys))
		if mgr == "" {
			mgr = loc.NoManager
		}
		m := member{
			name: strings.TrimSpace(pick(r, record.HierarchyNameKeys)),
			job:  strings.TrimSpace(pick(r, record.HierarchyJobKeys)),
		}
		mgrs, ok := depts[dept]
		if !ok {
			mgrs = map[string][]member{}
			depts[dept] = mgrs
		}
		mgrs[mgr] = append(mgrs[mgr], m)
	}

	col := loc.Collator()
	less := func(a, b string) bool { return col.CompareString(a, b) < 0 }

	for _, dept := range sortedKeys(depts, less) {
		dn := &Node{Name: dept, Role: loc.DepartmentRole, Children: []*Node{}}
		mgrs := depts[dept]
		for _, mgr := range sortedKeys(mgrs, less) {
			mn := &Node{Name: mgr, Role: loc.ManagerRole, Children: []*Node{}}
			members := mgrs[mgr]
			sort.SliceStable(members, func(i, j int) bool { return less(members[i].name, members[j].name) })
			for _, m := range members {
				name := m.name
				if name == "" {
					name = loc.EmployeeUnnamed
				}
				mn.Children = append(mn.Children, &Node{Name: name, Role: m.job, Children: []*Node{}})
			}
			dn.Children = append(dn.Children, mn)
		}
		exec.Children = append(exec.Children, dn)
	}
	return root
}

// Available reports whether the tree has at least one department under the
// executive node.
func (n *Node) Available() bool {
	if n == nil || len(n.Children) == 0 {
		return false
	}
	return len(n.Children[0].Children) > 0
}

// Render writes the tree as an indented outline, one node per line.
func (n *Node) Render(w io.Writer) error {
	return n.render(w, 0)
}

func (n *Node) render(w io.Writer, depth int) error {
	if n == nil {
		return nil
	}
	line := strings.Repeat("  ", depth) + "- " + n.Name
	if n.Role != "" {
		line += " (" + n.Role + ")"
	}
	if _, err := fmt.Fprintln(w, line); err != nil {
		return err
	}
	for _, c := range n.Children {
		if err := c.render(w, depth+1); err != nil {
			return err
		}
	}
	return nil
}

// String renders the tree to a string.
func (n *Node) String() string {
	var b strings.Builder
	_ = n.Render(&b)
	return b.String()
}

func anyDepartment(raws []*record.Raw) bool {
	for _, r := range raws {
		if r != nil && record.HasAny(r, record.HierarchyDepartmentKeys) {
			return true
		}
	}
	return false
}

func pick(r *record.Raw, keys []string) string {
	col, ok := record.FirstFilled(r, keys)
	if !ok {
		return ""
	}
	return r.Text(col)
}

func sortedKeys[V any](m map[string]V, less func(a, b string) bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	// map order is random; a plain sort first keeps equal-collating keys stable
	sort.Strings(keys)
	sort.SliceStable(keys, func(i, j int) bool { return less(keys[i], keys[j]) })
	return keys
}
