package job

import (
	"context"

	"github.com/proveedores/liquidaciones/logger"
	"github.com/proveedores/liquidaciones/web/service"
)

// RefreshSourceJob reloads the spreadsheet when the cached snapshot has
// expired so the next request does not pay for the fetch.
type RefreshSourceJob struct {
	dataService *service.DataService

	failures int
}

func NewRefreshSourceJob(dataService *service.DataService) *RefreshSourceJob {
	return &RefreshSourceJob{dataService: dataService}
}

func (j *RefreshSourceJob) Run() {
	if _, _, err := j.dataService.LoadData(context.Background()); err != nil {
		j.failures++
		// a single failed fetch is already logged by the data service
		if j.failures > 1 {
			logger.Errorf("spreadsheet refresh failed %d times in a row: %v", j.failures, err)
		}
		return
	}
	j.failures = 0
}

// Failures returns the number of consecutive failed runs.
func (j *RefreshSourceJob) Failures() int {
	return j.failures
}
