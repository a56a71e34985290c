// File: /jobs/connection_audit_job.go
package jobs

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"crosspaths-api/repositories"
)

// ConnectionAuditJob periodically re-derives paths_crossed from the
// shared-event rows and repairs drift. The aggregator keeps the counter and
// the shared set in step transactionally, so a repair firing means a bug or
// manual data surgery; either way the shared-event rows are the source of
// truth.
type ConnectionAuditJob struct {
	db             *gorm.DB
	connectionRepo *repositories.ConnectionRepository
	ticker         *time.Ticker
	done           chan bool
}

// NewConnectionAuditJob creates a new audit job
func NewConnectionAuditJob(db *gorm.DB, interval time.Duration) *ConnectionAuditJob {
	return &ConnectionAuditJob{
		db:             db,
		connectionRepo: repositories.NewConnectionRepository(db),
		ticker:         time.NewTicker(interval),
		done:           make(chan bool),
	}
}

// Start begins the audit job
func (j *ConnectionAuditJob) Start() {
	fmt.Println("Connection audit job started")

	go func() {
		// Run immediately on start
		j.audit()

		for {
			select {
			case <-j.ticker.C:
				j.audit()
			case <-j.done:
				fmt.Println("Connection audit job stopped")
				return
			}
		}
	}()
}

// Stop stops the audit job
func (j *ConnectionAuditJob) Stop() {
	j.ticker.Stop()
	j.done <- true
}

// audit checks paths_crossed == count(connection_events) for every pair
func (j *ConnectionAuditJob) audit() {
	connections, err := j.connectionRepo.All()
	if err != nil {
		fmt.Printf("Error loading connections for audit: %v\n", err)
		return
	}

	repaired := 0
	for _, conn := range connections {
		count, err := j.connectionRepo.SharedEventCount(conn.ID)
		if err != nil {
			fmt.Printf("Error counting shared events for connection %d: %v\n", conn.ID, err)
			continue
		}

		if int64(conn.PathsCrossed) == count {
			continue
		}

		fmt.Printf("Connection %d (%s, %s): paths_crossed=%d but %d shared events, repairing\n",
			conn.ID, conn.UserAID, conn.UserBID, conn.PathsCrossed, count)

		if err := j.connectionRepo.SetPathsCrossed(conn.ID, int(count)); err != nil {
			fmt.Printf("Error repairing connection %d: %v\n", conn.ID, err)
			continue
		}
		repaired++
	}

	if repaired > 0 {
		fmt.Printf("Connection audit repaired %d counters\n", repaired)
	}
}
