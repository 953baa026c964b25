package form

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"user-registration/pkg/logging"
	"user-registration/pkg/models"
)

func newTestSessions(ttl time.Duration) *Sessions {
	return NewSessions(ttl, func() *Controller {
		return NewController(&fakeRegistrar{}, logging.Discard())
	})
}

func TestSessions_OpenCreatesAndReuses(t *testing.T) {
	s := newTestSessions(time.Minute)

	id, ctrl := s.Open("")
	require.NotEmpty(t, id)
	require.NoError(t, ctrl.Edit(models.FieldEmail, "a@b.co"))

	id2, ctrl2 := s.Open(id)
	assert.Equal(t, id, id2)
	assert.Same(t, ctrl, ctrl2)
	assert.Equal(t, "a@b.co", ctrl2.View().Values.Email)
}

func TestSessions_UnknownIDGetsFreshSession(t *testing.T) {
	s := newTestSessions(time.Minute)

	id, ctrl := s.Open("forged")
	assert.NotEqual(t, "forged", id)
	assert.Equal(t, models.UserData{}, ctrl.View().Values)

	// the forged id was not registered as a session
	again, other := s.Open("forged")
	assert.NotEqual(t, "forged", again)
	assert.NotEqual(t, id, again)
	assert.NotSame(t, ctrl, other)
}

func TestSessions_Expire(t *testing.T) {
	s := newTestSessions(20 * time.Millisecond)

	id, ctrl := s.Open("")
	require.NoError(t, ctrl.Edit(models.FieldLastName, "Doe"))

	time.Sleep(50 * time.Millisecond)
	fresh, freshCtrl := s.Open(id)
	assert.NotEqual(t, id, fresh)
	assert.NotSame(t, ctrl, freshCtrl)
	assert.Equal(t, "", freshCtrl.View().Values.LastName)
}

func TestSessions_Isolated(t *testing.T) {
	s := newTestSessions(time.Minute)

	idA, a := s.Open("")
	idB, b := s.Open("")
	require.NoError(t, a.Edit(models.FieldFirstName, "Ann"))

	assert.NotEqual(t, idA, idB)
	assert.Equal(t, "", b.View().Values.FirstName)
}
