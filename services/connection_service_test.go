// File: /services/connection_service_test.go
package services

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"crosspaths-api/models"
	"crosspaths-api/repositories"
)

func newConnectionService(db *gorm.DB) *ConnectionService {
	return NewConnectionService(db, repositories.NewConnectionRepository(db))
}

// requireInvariant checks paths_crossed == count(connection_events) for every
// pair in the database.
func requireInvariant(t *testing.T, db *gorm.DB) {
	t.Helper()

	var conns []models.Connection
	require.NoError(t, db.Find(&conns).Error)
	for _, conn := range conns {
		var count int64
		require.NoError(t, db.Model(&models.ConnectionEvent{}).
			Where("connection_id = ?", conn.ID).
			Count(&count).Error)
		require.Equal(t, count, int64(conn.PathsCrossed),
			"connection %d counter drifted from its shared-event set", conn.ID)
	}
}

func TestRecordSharedEventCreatesConnection(t *testing.T) {
	db := setupTestDB(t)
	svc := newConnectionService(db)

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	event := createTestEvent(t, db, "meetup", floatPtr(10), floatPtr(10), alice.ID, time.Now())

	at := time.Now().Truncate(time.Second)
	conn, err := svc.RecordSharedEvent(alice.ID, bob.ID, event.ID, at)
	require.NoError(t, err)

	assert.Equal(t, 1, conn.PathsCrossed)
	assert.Equal(t, event.ID, conn.FirstEventID)
	assert.True(t, conn.FirstMetAt.Equal(at))
	assert.True(t, conn.LastMetAt.Equal(at))
	assert.Equal(t, models.ConnectionStatusNone, conn.Status)
	requireInvariant(t, db)
}

func TestRecordSharedEventIsOrderIndependent(t *testing.T) {
	db := setupTestDB(t)
	svc := newConnectionService(db)

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	e1 := createTestEvent(t, db, "first", floatPtr(10), floatPtr(10), alice.ID, time.Now())
	e2 := createTestEvent(t, db, "second", floatPtr(10), floatPtr(10), alice.ID, time.Now())

	_, err := svc.RecordSharedEvent(alice.ID, bob.ID, e1.ID, time.Now())
	require.NoError(t, err)
	conn, err := svc.RecordSharedEvent(bob.ID, alice.ID, e2.ID, time.Now())
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&models.Connection{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
	assert.Equal(t, 2, conn.PathsCrossed)
	assert.Less(t, conn.UserAID, conn.UserBID)
	requireInvariant(t, db)
}

func TestRecordSharedEventIdempotentPerEvent(t *testing.T) {
	db := setupTestDB(t)
	svc := newConnectionService(db)

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	event := createTestEvent(t, db, "meetup", floatPtr(10), floatPtr(10), alice.ID, time.Now())

	_, err := svc.RecordSharedEvent(alice.ID, bob.ID, event.ID, time.Now())
	require.NoError(t, err)
	conn, err := svc.RecordSharedEvent(alice.ID, bob.ID, event.ID, time.Now().Add(time.Hour))
	require.NoError(t, err)

	assert.Equal(t, 1, conn.PathsCrossed)
	requireInvariant(t, db)
}

func TestRecordSharedEventRejectsSelfPair(t *testing.T) {
	db := setupTestDB(t)
	svc := newConnectionService(db)

	alice := createTestUser(t, db, "alice")
	event := createTestEvent(t, db, "meetup", floatPtr(10), floatPtr(10), alice.ID, time.Now())

	_, err := svc.RecordSharedEvent(alice.ID, alice.ID, event.ID, time.Now())
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestRepeatedSharedEventsAccumulate(t *testing.T) {
	db := setupTestDB(t)
	svc := newConnectionService(db)

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	t0 := time.Now().Truncate(time.Second)
	e1 := createTestEvent(t, db, "breakfast", floatPtr(10), floatPtr(10), alice.ID, t0)
	e2 := createTestEvent(t, db, "afterparty", floatPtr(10), floatPtr(10), alice.ID, t0)

	_, err := svc.RecordSharedEvent(alice.ID, bob.ID, e1.ID, t0)
	require.NoError(t, err)
	conn, err := svc.RecordSharedEvent(alice.ID, bob.ID, e2.ID, t0.Add(time.Hour))
	require.NoError(t, err)

	assert.Equal(t, 2, conn.PathsCrossed)
	assert.True(t, conn.FirstMetAt.Equal(t0))
	assert.True(t, conn.LastMetAt.Equal(t0.Add(time.Hour)))
	assert.Equal(t, e1.ID, conn.FirstEventID)

	repo := repositories.NewConnectionRepository(db)
	shared, err := repo.SharedEventIDs(conn.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{e1.ID, e2.ID}, shared)
	requireInvariant(t, db)
}

func TestConcurrentSharedEventDetectionsIncrementOnce(t *testing.T) {
	db := setupTestDB(t)
	svc := newConnectionService(db)

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	event := createTestEvent(t, db, "meetup", floatPtr(10), floatPtr(10), alice.ID, time.Now())

	var wg sync.WaitGroup
	errs := make(chan error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.RecordSharedEvent(alice.ID, bob.ID, event.ID, time.Now())
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	var conn models.Connection
	require.NoError(t, db.First(&conn).Error)
	assert.Equal(t, 1, conn.PathsCrossed)
	requireInvariant(t, db)
}

func TestRequestRequiresExistingConnection(t *testing.T) {
	db := setupTestDB(t)
	svc := newConnectionService(db)

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	_, _, err := svc.Request(alice.ID, bob.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestRequestRespondLifecycle(t *testing.T) {
	db := setupTestDB(t)
	svc := newConnectionService(db)

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	event := createTestEvent(t, db, "meetup", floatPtr(10), floatPtr(10), alice.ID, time.Now())

	_, err := svc.RecordSharedEvent(alice.ID, bob.ID, event.ID, time.Now())
	require.NoError(t, err)

	// none -> requested
	conn, changed, err := svc.Request(alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, models.ConnectionStatusRequested, conn.Status)
	require.NotNil(t, conn.RequestedBy)
	assert.Equal(t, alice.ID, *conn.RequestedBy)

	// re-request is a no-op
	_, changed, err = svc.Request(alice.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, changed)

	// the requester cannot respond to their own request
	_, err = svc.Respond(alice.ID, alice.ID, true)
	assert.Error(t, err)

	// accept -> mutual
	conn, err = svc.Respond(bob.ID, alice.ID, true)
	require.NoError(t, err)
	assert.Equal(t, models.ConnectionStatusMutual, conn.Status)
	assert.Nil(t, conn.RequestedBy)

	// mutual is terminal; another request changes nothing
	conn, changed, err = svc.Request(bob.ID, alice.ID)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, models.ConnectionStatusMutual, conn.Status)
}

func TestDeclineReturnsToNoneAndAllowsRerequest(t *testing.T) {
	db := setupTestDB(t)
	svc := newConnectionService(db)

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	event := createTestEvent(t, db, "meetup", floatPtr(10), floatPtr(10), alice.ID, time.Now())

	_, err := svc.RecordSharedEvent(alice.ID, bob.ID, event.ID, time.Now())
	require.NoError(t, err)

	_, _, err = svc.Request(alice.ID, bob.ID)
	require.NoError(t, err)

	conn, err := svc.Respond(bob.ID, alice.ID, false)
	require.NoError(t, err)
	assert.Equal(t, models.ConnectionStatusNone, conn.Status)
	assert.Nil(t, conn.RequestedBy)

	// after a decline either side may request again
	conn, changed, err := svc.Request(bob.ID, alice.ID)
	require.NoError(t, err)
	assert.True(t, changed)
	require.NotNil(t, conn.RequestedBy)
	assert.Equal(t, bob.ID, *conn.RequestedBy)
}

func TestRespondWithoutPendingRequest(t *testing.T) {
	db := setupTestDB(t)
	svc := newConnectionService(db)

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	event := createTestEvent(t, db, "meetup", floatPtr(10), floatPtr(10), alice.ID, time.Now())

	_, err := svc.RecordSharedEvent(alice.ID, bob.ID, event.ID, time.Now())
	require.NoError(t, err)

	_, err = svc.Respond(bob.ID, alice.ID, true)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestDisconnectResetsStateButKeepsHistory(t *testing.T) {
	db := setupTestDB(t)
	svc := newConnectionService(db)

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	e1 := createTestEvent(t, db, "first", floatPtr(10), floatPtr(10), alice.ID, time.Now())
	e2 := createTestEvent(t, db, "second", floatPtr(10), floatPtr(10), alice.ID, time.Now())

	_, err := svc.RecordSharedEvent(alice.ID, bob.ID, e1.ID, time.Now())
	require.NoError(t, err)
	_, err = svc.RecordSharedEvent(alice.ID, bob.ID, e2.ID, time.Now())
	require.NoError(t, err)

	_, _, err = svc.Request(alice.ID, bob.ID)
	require.NoError(t, err)
	_, err = svc.Respond(bob.ID, alice.ID, true)
	require.NoError(t, err)

	conn, err := svc.Disconnect(alice.ID, bob.ID)
	require.NoError(t, err)

	assert.Equal(t, models.ConnectionStatusNone, conn.Status)
	assert.Nil(t, conn.RequestedBy)
	assert.Equal(t, 2, conn.PathsCrossed)
	requireInvariant(t, db)
}

func TestListConnectionsPeerPerspective(t *testing.T) {
	db := setupTestDB(t)
	svc := newConnectionService(db)

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	event := createTestEvent(t, db, "GopherCon", floatPtr(10), floatPtr(10), alice.ID, time.Now())

	_, err := svc.RecordSharedEvent(alice.ID, bob.ID, event.ID, time.Now())
	require.NoError(t, err)

	forAlice, err := svc.ListConnections(alice.ID, "", "", false)
	require.NoError(t, err)
	require.Len(t, forAlice, 1)
	assert.Equal(t, bob.ID, forAlice[0].UserID)
	assert.Equal(t, "bob", forAlice[0].Name)
	assert.Equal(t, "GopherCon", forAlice[0].EventName)
	assert.Equal(t, []string{event.ID}, forAlice[0].SharedEventIDs)

	forBob, err := svc.ListConnections(bob.ID, "", "", false)
	require.NoError(t, err)
	require.Len(t, forBob, 1)
	assert.Equal(t, alice.ID, forBob[0].UserID)
}

func TestListConnectionsSearchAndTagFilter(t *testing.T) {
	db := setupTestDB(t)
	svc := newConnectionService(db)

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	carol := createTestUser(t, db, "carol")
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", bob.ID).
		Update("company", "Acme Robotics").Error)

	event := createTestEvent(t, db, "DevFest", floatPtr(10), floatPtr(10), alice.ID, time.Now())
	_, err := svc.RecordSharedEvent(alice.ID, bob.ID, event.ID, time.Now())
	require.NoError(t, err)
	_, err = svc.RecordSharedEvent(alice.ID, carol.ID, event.ID, time.Now())
	require.NoError(t, err)

	_, err = svc.UpdateTags(alice.ID, bob.ID, []string{"investor"})
	require.NoError(t, err)

	// search matches company case-insensitively
	results, err := svc.ListConnections(alice.ID, "acme", "", false)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, bob.ID, results[0].UserID)

	// search on event name matches everyone met there
	results, err = svc.ListConnections(alice.ID, "devfest", "", false)
	require.NoError(t, err)
	assert.Len(t, results, 2)

	// tag filter
	results, err = svc.ListConnections(alice.ID, "", "investor", false)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, bob.ID, results[0].UserID)

	// "all" disables the tag filter
	results, err = svc.ListConnections(alice.ID, "", "all", false)
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestListConnectionsRecentOrdering(t *testing.T) {
	db := setupTestDB(t)
	svc := newConnectionService(db)

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	carol := createTestUser(t, db, "carol")

	now := time.Now().Truncate(time.Second)
	e1 := createTestEvent(t, db, "earlier", floatPtr(10), floatPtr(10), alice.ID, now)
	e2 := createTestEvent(t, db, "later", floatPtr(10), floatPtr(10), alice.ID, now)

	_, err := svc.RecordSharedEvent(alice.ID, bob.ID, e1.ID, now.Add(-time.Hour))
	require.NoError(t, err)
	_, err = svc.RecordSharedEvent(alice.ID, carol.ID, e2.ID, now)
	require.NoError(t, err)

	// insertion order by default
	results, err := svc.ListConnections(alice.ID, "", "", false)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, bob.ID, results[0].UserID)

	// recent puts the freshest encounter first
	results, err = svc.ListConnections(alice.ID, "", "", true)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, carol.ID, results[0].UserID)
}

func TestUpdateTagsNormalizes(t *testing.T) {
	db := setupTestDB(t)
	svc := newConnectionService(db)

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	event := createTestEvent(t, db, "meetup", floatPtr(10), floatPtr(10), alice.ID, time.Now())

	_, err := svc.RecordSharedEvent(alice.ID, bob.ID, event.ID, time.Now())
	require.NoError(t, err)

	conn, err := svc.UpdateTags(alice.ID, bob.ID, []string{" investor ", "Investor", "", "friend"})
	require.NoError(t, err)

	assert.Equal(t, models.StringSlice{"investor", "friend"}, conn.Tags)
}

func TestUpdateNotes(t *testing.T) {
	db := setupTestDB(t)
	svc := newConnectionService(db)

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	event := createTestEvent(t, db, "meetup", floatPtr(10), floatPtr(10), alice.ID, time.Now())

	_, err := svc.RecordSharedEvent(alice.ID, bob.ID, event.ID, time.Now())
	require.NoError(t, err)

	conn, err := svc.UpdateNotes(alice.ID, bob.ID, "  met at the registration desk  ")
	require.NoError(t, err)
	assert.Equal(t, "met at the registration desk", conn.Notes)

	var stored models.Connection
	require.NoError(t, db.First(&stored, conn.ID).Error)
	assert.Equal(t, "met at the registration desk", stored.Notes)
}

func TestUpdateTagsUnknownPair(t *testing.T) {
	db := setupTestDB(t)
	svc := newConnectionService(db)

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	_, err := svc.UpdateTags(alice.ID, bob.ID, []string{"investor"})
	assert.ErrorIs(t, err, models.ErrNotFound)
}
