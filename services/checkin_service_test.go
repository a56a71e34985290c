// File: /services/checkin_service_test.go
package services

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crosspaths-api/models"
	"crosspaths-api/repositories"
)

func TestResolveCreatesEvent(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCheckInService(db)

	user := createTestUser(t, db, "alice")
	now := time.Now()

	req := models.CheckInRequest{
		Mode:      models.CheckInModeNew,
		Name:      "  GopherCon Hallway  ",
		Latitude:  floatPtr(47.6),
		Longitude: floatPtr(-122.3),
	}

	event, created, err := svc.Resolve(req, user.ID, now)
	require.NoError(t, err)

	assert.True(t, created)
	assert.Equal(t, "GopherCon Hallway", event.Name)
	assert.Equal(t, user.ID, event.CreatedBy)
	require.NotNil(t, event.Latitude)
	assert.Equal(t, 47.6, *event.Latitude)

	var count int64
	require.NoError(t, db.Model(&models.Event{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestResolveRejectsBlankEventName(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCheckInService(db)

	user := createTestUser(t, db, "alice")

	req := models.CheckInRequest{Mode: models.CheckInModeNew, Name: "   "}
	_, _, err := svc.Resolve(req, user.ID, time.Now())
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestResolveRejectsInvalidCoordinates(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCheckInService(db)

	user := createTestUser(t, db, "alice")

	req := models.CheckInRequest{
		Mode:      models.CheckInModeNew,
		Name:      "somewhere",
		Latitude:  floatPtr(91),
		Longitude: floatPtr(0),
	}
	_, _, err := svc.Resolve(req, user.ID, time.Now())
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestResolveJoinsExistingEvent(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCheckInService(db)

	creator := createTestUser(t, db, "creator")
	existing := createTestEvent(t, db, "meetup", floatPtr(10), floatPtr(10), creator.ID, time.Now())

	req := models.CheckInRequest{Mode: models.CheckInModeJoin, EventID: existing.ID}
	event, created, err := svc.Resolve(req, creator.ID, time.Now())
	require.NoError(t, err)

	assert.False(t, created)
	assert.Equal(t, existing.ID, event.ID)
}

func TestResolveJoinUnknownEvent(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCheckInService(db)

	user := createTestUser(t, db, "alice")

	req := models.CheckInRequest{Mode: models.CheckInModeJoin, EventID: "does-not-exist"}
	_, _, err := svc.Resolve(req, user.ID, time.Now())
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestCheckInUnknownEvent(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCheckInService(db)

	user := createTestUser(t, db, "alice")

	_, err := svc.CheckIn("does-not-exist", user.ID, time.Now())
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestCheckInFirstAttendeeHasNoPairs(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCheckInService(db)

	user := createTestUser(t, db, "alice")
	event := createTestEvent(t, db, "meetup", floatPtr(10), floatPtr(10), user.ID, time.Now())

	result, err := svc.CheckIn(event.ID, user.ID, time.Now())
	require.NoError(t, err)

	assert.False(t, result.AlreadyCheckedIn)
	assert.Empty(t, result.NewPairs)
	assert.Equal(t, event.ID, result.CheckIn.EventID)
}

func TestCheckInPairsWithEveryEarlierAttendee(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCheckInService(db)

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	carol := createTestUser(t, db, "carol")
	event := createTestEvent(t, db, "meetup", floatPtr(10), floatPtr(10), alice.ID, time.Now())

	_, err := svc.CheckIn(event.ID, alice.ID, time.Now())
	require.NoError(t, err)
	_, err = svc.CheckIn(event.ID, bob.ID, time.Now())
	require.NoError(t, err)

	result, err := svc.CheckIn(event.ID, carol.ID, time.Now())
	require.NoError(t, err)

	require.Len(t, result.NewPairs, 2)
	for _, pair := range result.NewPairs {
		assert.Less(t, pair.UserAID, pair.UserBID)
		assert.Contains(t, []string{pair.UserAID, pair.UserBID}, carol.ID)
	}
}

func TestCheckInRepeatIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCheckInService(db)

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	event := createTestEvent(t, db, "meetup", floatPtr(10), floatPtr(10), alice.ID, time.Now())

	_, err := svc.CheckIn(event.ID, bob.ID, time.Now())
	require.NoError(t, err)

	first, err := svc.CheckIn(event.ID, alice.ID, time.Now())
	require.NoError(t, err)
	require.Len(t, first.NewPairs, 1)

	repeat, err := svc.CheckIn(event.ID, alice.ID, time.Now().Add(time.Minute))
	require.NoError(t, err)

	assert.True(t, repeat.AlreadyCheckedIn)
	assert.Empty(t, repeat.NewPairs)
	assert.Equal(t, first.CheckIn.ID, repeat.CheckIn.ID)

	var count int64
	require.NoError(t, db.Model(&models.CheckIn{}).
		Where("event_id = ? AND user_id = ?", event.ID, alice.ID).
		Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestConcurrentRepeatCheckInsLeaveOneRow(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCheckInService(db)

	user := createTestUser(t, db, "alice")
	event := createTestEvent(t, db, "meetup", floatPtr(10), floatPtr(10), user.ID, time.Now())

	var wg sync.WaitGroup
	errs := make(chan error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.CheckIn(event.ID, user.ID, time.Now())
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	var count int64
	require.NoError(t, db.Model(&models.CheckIn{}).
		Where("event_id = ?", event.ID).
		Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestConcurrentDistinctCheckInsConnectEveryPair(t *testing.T) {
	db := setupTestDB(t)
	checkins := NewCheckInService(db)
	connections := NewConnectionService(db, repositories.NewConnectionRepository(db))

	creator := createTestUser(t, db, "creator")
	event := createTestEvent(t, db, "meetup", floatPtr(10), floatPtr(10), creator.ID, time.Now())

	const attendees = 5
	users := make([]models.User, attendees)
	for i := range users {
		users[i] = createTestUser(t, db, "attendee")
	}

	var wg sync.WaitGroup
	errs := make(chan error, attendees)
	for _, user := range users {
		wg.Add(1)
		go func(userID string) {
			defer wg.Done()
			result, err := checkins.CheckIn(event.ID, userID, time.Now())
			if err != nil {
				errs <- err
				return
			}
			for _, pair := range result.NewPairs {
				if _, err := connections.RecordSharedEvent(pair.UserAID, pair.UserBID, event.ID, time.Now()); err != nil {
					errs <- err
					return
				}
			}
			errs <- nil
		}(user.ID)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	// Every unordered pair of attendees shares exactly this one event.
	var conns []models.Connection
	require.NoError(t, db.Find(&conns).Error)
	assert.Len(t, conns, attendees*(attendees-1)/2)
	for _, conn := range conns {
		assert.Equal(t, 1, conn.PathsCrossed)
		assert.Less(t, conn.UserAID, conn.UserBID)
	}
}

func TestListUserCheckInsNewestFirst(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCheckInService(db)

	user := createTestUser(t, db, "alice")
	now := time.Now()

	older := createTestEvent(t, db, "older", floatPtr(10), floatPtr(10), user.ID, now.Add(-2*time.Hour))
	newer := createTestEvent(t, db, "newer", floatPtr(10), floatPtr(10), user.ID, now)

	_, err := svc.CheckIn(older.ID, user.ID, now.Add(-2*time.Hour))
	require.NoError(t, err)
	_, err = svc.CheckIn(newer.ID, user.ID, now)
	require.NoError(t, err)

	checkins, err := svc.ListUserCheckIns(user.ID)
	require.NoError(t, err)

	require.Len(t, checkins, 2)
	assert.Equal(t, newer.ID, checkins[0].EventID)
	assert.Equal(t, older.ID, checkins[1].EventID)
}
