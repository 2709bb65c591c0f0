package state

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_StateLifecycle(t *testing.T) {
	sm := NewManager()
	const tg = int64(42)

	assert.Equal(t, StateNone, sm.GetState(tg))

	sm.SetState(tg, StatePatientName)
	sm.SetData(tg, KeyPatientDraft, "draft")
	assert.Equal(t, StatePatientName, sm.GetState(tg))

	v, ok := sm.GetData(tg, KeyPatientDraft)
	require.True(t, ok)
	assert.Equal(t, "draft", v)

	sm.SetState(tg, StatePatientAddress)
	v, ok = sm.GetData(tg, KeyPatientDraft)
	require.True(t, ok, "смена состояния не должна терять данные")
	assert.Equal(t, "draft", v)

	sm.ClearState(tg)
	assert.Equal(t, StateNone, sm.GetState(tg))
	_, ok = sm.GetData(tg, KeyPatientDraft)
	assert.False(t, ok)
}

func TestManager_SetStateNoneDropsData(t *testing.T) {
	sm := NewManager()
	sm.SetState(1, StateReportContent)
	sm.SetData(1, KeyAppointment, int64(7))

	sm.SetState(1, StateNone)

	assert.Nil(t, sm.GetAllData(1))
}

func TestManager_GetAllDataReturnsCopy(t *testing.T) {
	sm := NewManager()
	sm.SetData(1, "a", 1)

	data := sm.GetAllData(1)
	data["a"] = 2

	v, _ := sm.GetData(1, "a")
	assert.Equal(t, 1, v)
}

func TestManager_ConcurrentAccess(t *testing.T) {
	sm := NewManager()
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			sm.SetState(id, StateBookingSchedule)
			sm.SetData(id, KeyBooking, id)
			_ = sm.GetState(id)
			_, _ = sm.GetData(id, KeyBooking)
		}(int64(i))
	}
	wg.Wait()

	for i := 0; i < 50; i++ {
		v, ok := sm.GetData(int64(i), KeyBooking)
		require.True(t, ok)
		assert.Equal(t, int64(i), v)
	}
}

func TestAdapter_ConvertsStates(t *testing.T) {
	sm := NewManager()
	a := NewAdapter(sm)

	a.SetState(5, "reject_comment")
	assert.Equal(t, StateRejectComment, sm.GetState(5))
	assert.EqualValues(t, StateRejectComment, a.GetState(5))
}
