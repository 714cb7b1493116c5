// Package template serves the compliance-template catalog. The catalog is
// reference data provisioned out of band; this subsystem only reads it, so
// templates sit outside the mutation and audit path.
package template

// JurisdictionLevel indicates which level of government issues a template.
type JurisdictionLevel string

const (
	Federal JurisdictionLevel = "Federal"
	State   JurisdictionLevel = "State"
	Local   JurisdictionLevel = "Local"
)

// ComplianceTemplate is one reporting template in the catalog.
type ComplianceTemplate struct {
	ID   string            `json:"id"`
	Name string            `json:"name"`
	Type JurisdictionLevel `json:"type"`
}

var catalog = []ComplianceTemplate{
	{ID: "tmpl-epa-phase1", Name: "EPA Phase I Environmental Site Assessment", Type: Federal},
	{ID: "tmpl-epa-phase2", Name: "EPA Phase II Subsurface Investigation", Type: Federal},
	{ID: "tmpl-npdes-dmr", Name: "NPDES Discharge Monitoring Report", Type: Federal},
	{ID: "tmpl-state-ust", Name: "State Underground Storage Tank Closure Report", Type: State},
	{ID: "tmpl-state-aqp", Name: "State Air Quality Permit Compliance Summary", Type: State},
	{ID: "tmpl-local-swppp", Name: "Municipal Stormwater Pollution Prevention Plan", Type: Local},
	{ID: "tmpl-local-noise", Name: "Municipal Noise Ordinance Survey", Type: Local},
}

// List returns the full catalog in provisioning order. Callers receive a
// copy; the catalog itself is immutable.
func List() []ComplianceTemplate {
	out := make([]ComplianceTemplate, len(catalog))
	copy(out, catalog)
	return out
}
