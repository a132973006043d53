package gputest

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vkngwrapper/hellotriangle/internal/gpu"
)

func newDevice(t *testing.T) (*Recorder, *Device) {
	rec := NewRecorder()
	adapter := rec.NewAdapter("test adapter")
	d, err := adapter.CreateDevice(gpu.DeviceCreateInfo{QueueFamilies: []int{0}})
	require.NoError(t, err)
	return rec, d.(*Device)
}

func TestDoubleDestroyIsViolation(t *testing.T) {
	rec, d := newDevice(t)

	s, err := d.CreateSemaphore()
	require.NoError(t, err)
	s.Destroy()
	assert.Empty(t, rec.Violations)

	s.Destroy()
	assert.Len(t, rec.Violations, 1)
}

func TestFailInjection(t *testing.T) {
	rec, d := newDevice(t)
	boom := errors.New("boom")
	rec.Fail["CreateFence"] = boom

	_, err := d.CreateFence(true)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, rec.Count("CreateFence"))
	assert.Equal(t, []string{"device#1"}, rec.Live())
}

func TestFenceLifecycle(t *testing.T) {
	rec, d := newDevice(t)
	q := d.Queue(0)

	fence, err := d.CreateFence(false)
	require.NoError(t, err)

	err = d.WaitForFence(fence, gpu.NoTimeout)
	assert.True(t, errors.Is(err, gpu.ErrTimeout))

	require.NoError(t, q.Submit(gpu.SubmitInfo{Fence: fence}))
	require.NoError(t, d.ResetFence(fence))
	assert.Len(t, rec.Violations, 1, "reset while pending")

	require.NoError(t, d.WaitForFence(fence, gpu.NoTimeout))
	assert.True(t, fence.(*Fence).Signaled)
}

func TestSubmitRequiresRecordedBuffer(t *testing.T) {
	rec, d := newDevice(t)

	pool, err := d.CreateCommandPool(gpu.CommandPoolCreateInfo{ResetBuffers: true})
	require.NoError(t, err)
	buf, err := pool.AllocateCommandBuffer()
	require.NoError(t, err)

	require.NoError(t, d.Queue(0).Submit(gpu.SubmitInfo{CommandBuffers: []gpu.CommandBuffer{buf}}))
	require.Len(t, rec.Violations, 1)
	assert.Contains(t, rec.Violations[0], "cmd#1")
}

func TestUnrequestedQueueFamily(t *testing.T) {
	rec, d := newDevice(t)
	d.Queue(3)
	assert.Len(t, rec.Violations, 1)
}

func TestDeviceDestroyedWithLiveChildren(t *testing.T) {
	rec, d := newDevice(t)
	_, err := d.CreateSemaphore()
	require.NoError(t, err)

	d.Destroy()
	require.Len(t, rec.Violations, 1)
	assert.Contains(t, rec.Violations[0], "semaphore#1")
}
