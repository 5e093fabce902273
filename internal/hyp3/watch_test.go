package hyp3

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchUntilTerminal(t *testing.T) {
	var polls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "batch-1", r.URL.Query().Get("name"))
		n := polls.Add(1)

		status := StatusRunning
		if n >= 3 {
			status = StatusSucceeded
		}
		json.NewEncoder(w).Encode(jobsResponse{Jobs: []Job{
			{JobID: "a", Status: StatusSucceeded},
			{JobID: "b", Status: status},
		}})
	}))
	defer server.Close()

	client := NewClient(server.URL, "", 5*time.Second)
	jobs, err := client.Watch(context.Background(), "batch-1", 10*time.Millisecond)
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, StatusSucceeded, jobs[1].Status)
	assert.GreaterOrEqual(t, polls.Load(), int32(3))
}

func TestWatchReturnsFailedJobs(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(jobsResponse{Jobs: []Job{
			{JobID: "a", Status: StatusSucceeded},
			{JobID: "b", Status: StatusFailed},
		}})
	}))
	defer server.Close()

	client := NewClient(server.URL, "", 5*time.Second)
	jobs, err := client.Watch(context.Background(), "batch-1", 10*time.Millisecond)
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, StatusFailed, jobs[1].Status)
}

func TestWatchNoJobs(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(jobsResponse{})
	}))
	defer server.Close()

	client := NewClient(server.URL, "", 5*time.Second)
	_, err := client.Watch(context.Background(), "missing", 10*time.Millisecond)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no jobs found")
}

func TestWatchContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(jobsResponse{Jobs: []Job{
			{JobID: "a", Status: StatusPending},
		}})
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	client := NewClient(server.URL, "", 5*time.Second)
	_, err := client.Watch(ctx, "batch-1", 10*time.Millisecond)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestWatchRejectsNonPositiveInterval(t *testing.T) {
	client := NewClient("http://example.com", "", time.Second)
	_, err := client.Watch(context.Background(), "batch-1", 0)
	require.Error(t, err)
}
