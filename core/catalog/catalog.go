package catalog

import (
	"fmt"
	"strings"

	"itrack/config"
)

// Catalog holds the configured enumerations every write goes through. The
// sets are closed: a root cause or status outside the current configuration
// never reaches the database.
type Catalog struct {
	rootCauses         []string
	incidentStatuses   []string
	actionItemStatuses []string
	assignees          []string
}

type MissingError struct {
	Key string
}

func (e *MissingError) Error() string {
	return fmt.Sprintf("config missing: %s enumeration is empty", e.Key)
}

func New(cfg config.CatalogConfig) (*Catalog, error) {
	c := &Catalog{
		rootCauses:         cleanList(cfg.RootCauses),
		incidentStatuses:   cleanList(cfg.IncidentStatuses),
		actionItemStatuses: cleanList(cfg.ActionItemStatuses),
		assignees:          cleanList(cfg.Assignees),
	}
	switch {
	case len(c.rootCauses) == 0:
		return nil, &MissingError{Key: "root_causes"}
	case len(c.incidentStatuses) == 0:
		return nil, &MissingError{Key: "incident_statuses"}
	case len(c.actionItemStatuses) == 0:
		return nil, &MissingError{Key: "action_item_statuses"}
	case len(c.assignees) == 0:
		return nil, &MissingError{Key: "assignees"}
	}
	return c, nil
}

func cleanList(in []string) []string {
	var out []string
	for _, raw := range in {
		if v := strings.TrimSpace(raw); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func (c *Catalog) RootCauses() []string { return append([]string(nil), c.rootCauses...) }

func (c *Catalog) IncidentStatuses() []string { return append([]string(nil), c.incidentStatuses...) }

func (c *Catalog) ActionItemStatuses() []string {
	return append([]string(nil), c.actionItemStatuses...)
}

func (c *Catalog) Assignees() []string { return append([]string(nil), c.assignees...) }

// DefaultIncidentStatus is the first configured status; newly created
// incidents start there.
func (c *Catalog) DefaultIncidentStatus() string {
	return c.incidentStatuses[0]
}

func (c *Catalog) ValidRootCause(v string) bool { return contains(c.rootCauses, v) }

func (c *Catalog) ValidIncidentStatus(v string) bool { return contains(c.incidentStatuses, v) }

func (c *Catalog) ValidActionItemStatus(v string) bool { return contains(c.actionItemStatuses, v) }

func (c *Catalog) ValidAssignee(v string) bool { return contains(c.assignees, v) }

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
