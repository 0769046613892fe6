package filter

import "github.com/google/uuid"

// Company is a selectable operator.
type Company struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// HullJob is a selectable maintenance job.
type HullJob struct {
	ID    uuid.UUID `json:"id"`
	Code  string    `json:"code"`
	Label string    `json:"label"`
}

// Companies is the company catalog in display order.
var Companies = []Company{
	{ID: "cmp2", Label: "Company 1"},
	{ID: "cmp1", Label: "Company 2"},
	{ID: "cmp3", Label: "Company 3"},
}

// HullJobs is the hull job catalog in display order.
var HullJobs = []HullJob{
	{ID: uuid.MustParse("03573a58-6a32-4433-9e1a-9f9d31c71edb"), Code: "HI", Label: "Hull Inspection"},
	{ID: uuid.MustParse("b10dd87b-68b4-496d-9b60-39cf9f03c0bb"), Code: "PP", Label: "Propeller Polish"},
	{ID: uuid.MustParse("ee828f1f-f1cd-4962-a980-12ccc4e48e7b"), Code: "HC", Label: "Hull Cleaning"},
	{ID: uuid.MustParse("3a95d310-64bc-4599-8c4d-9304d12bb986"), Code: "PI", Label: "Propeller Inspection"},
	{ID: uuid.MustParse("c854b265-067c-4b7a-8d6a-d00f7304297b"), Code: "DD", Label: "Drydock"},
}

var vesselsByCompany = map[string][]string{
	"cmp1": {"Vessel A", "Vessel B"},
	"cmp2": {"Vessel C", "Vessel D"},
	"cmp3": {"Vessel E", "Vessel F"},
}

// DefaultCompanyID is preselected in fresh criteria.
const DefaultCompanyID = "cmp2"

// CompanyByID looks up a company.
func CompanyByID(id string) (Company, bool) {
	for _, c := range Companies {
		if c.ID == id {
			return c, true
		}
	}
	return Company{}, false
}

// HullJobByRef looks up a hull job by UUID or by its short code.
func HullJobByRef(ref string) (HullJob, bool) {
	if id, err := uuid.Parse(ref); err == nil {
		for _, j := range HullJobs {
			if j.ID == id {
				return j, true
			}
		}
		return HullJob{}, false
	}
	for _, j := range HullJobs {
		if j.Code == ref {
			return j, true
		}
	}
	return HullJob{}, false
}

// VesselsFor lists the selectable vessels. Vessels are only offered when
// exactly one company is selected.
func VesselsFor(companyIDs []string) []string {
	if len(companyIDs) != 1 {
		return nil
	}
	vessels := vesselsByCompany[companyIDs[0]]
	out := make([]string, len(vessels))
	copy(out, vessels)
	return out
}
