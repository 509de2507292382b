package autocomplete

import (
	"context"
	"log"
	"time"

	"github.com/mindgarden/consultation/cmd/mgloop/recurring"
	kschedule "github.com/mindgarden/consultation/pkg/domain/schedule/db"
)

// Task completes schedules which have ended before now.
//
// The value passed between rounds is the number of schedules completed so far.
// A round counts as updated when it completed at least one schedule.
func Task(db kschedule.ScheduleInterface, now func() time.Time, logger *log.Logger) recurring.Task[int] {
	return func(ctx context.Context, total int) (int, bool, error) {
		ids, err := db.AutoComplete(ctx, now())
		if err != nil {
			logger.Printf("failed to complete ended schedules: %s", err)
			return total, false, err
		}
		if len(ids) == 0 {
			return total, false, nil
		}
		logger.Printf("completed %d schedule(s): %v", len(ids), ids)
		return total + len(ids), true, nil
	}
}
