package models

import "github.com/brokeragehq/backoffice/internal/audit"

// ChangePage is the paginated envelope returned by the change-log read
// paths. TotalCount is the number of records matching the filter, not the
// page length, so UIs can render page controls.
type ChangePage struct {
	Items      []audit.ChangeRecord `json:"items"`
	Page       int64                `json:"page"`
	PageSize   int64                `json:"page_size"`
	TotalCount int64                `json:"total_count"`
}
